package database

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500

	// PostgreSQL SQLSTATE for a missing relation.
	pqUndefinedTable = "42P01"
)

// History records every parse in PostgreSQL.
type History struct {
	db      *sql.DB
	queries *Queries
	logger  *errors.Logger
	now     func() time.Time
}

// Open connects to cfg.URL, applies pool limits, verifies the connection
// and creates the schema when cfg.AutoMigrate is set.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *errors.Logger) (*History, error) {
	connector, err := pq.NewConnector(cfg.URL)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid database URL", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewNetworkError(errors.ErrCodeHistoryFailed, "failed to connect to database", err)
	}

	h := NewHistory(db, logger)
	if cfg.AutoMigrate {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			return nil, errors.NewInternalError(errors.ErrCodeHistoryFailed, "failed to migrate history schema", err)
		}
		logger.Debug("History schema ready")
	}
	return h, nil
}

// NewHistory wraps an open database handle.
func NewHistory(db *sql.DB, logger *errors.Logger) *History {
	return &History{
		db:      db,
		queries: New(db),
		logger:  logger.With("component", "history"),
		now:     time.Now,
	}
}

// Record stores run and returns it with its generated id and timestamp.
func (h *History) Record(ctx context.Context, run types.ParseRun) (types.ParseRun, error) {
	params := runParams(run, uuid.New(), h.now().UTC())
	if err := h.queries.CreateParseRun(ctx, params); err != nil {
		return types.ParseRun{}, wrapQueryError("record parse run", err)
	}
	return toParseRun(ParseRun(params)), nil
}

// Recent returns the latest runs, newest first. resume filters by name when
// non-empty; limit is clamped to [1, 500] with 50 as the default.
func (h *History) Recent(ctx context.Context, resume string, limit int) ([]types.ParseRun, error) {
	n := clampLimit(limit)

	var (
		rows []ParseRun
		err  error
	)
	if resume == "" {
		rows, err = h.queries.ListParseRuns(ctx, n)
	} else {
		rows, err = h.queries.ListParseRunsByResume(ctx, ListParseRunsByResumeParams{ResumeName: resume, Limit: n})
	}
	if err != nil {
		return nil, wrapQueryError("list parse runs", err)
	}

	runs := make([]types.ParseRun, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, toParseRun(row))
	}
	return runs, nil
}

func (h *History) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

func (h *History) Close() error {
	return h.db.Close()
}

func clampLimit(limit int) int32 {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	}
	return int32(limit)
}

func runParams(run types.ParseRun, id uuid.UUID, now time.Time) CreateParseRunParams {
	return CreateParseRunParams{
		ID:              id,
		ResumeName:      run.ResumeName,
		Container:       run.Container,
		ContentHash:     run.ContentHash,
		CandidateName:   sql.NullString{String: run.CandidateName, Valid: run.CandidateName != ""},
		EducationCount:  int32(run.EducationCount),
		ExperienceCount: int32(run.ExperienceCount),
		CreatedAt:       now,
	}
}

func toParseRun(row ParseRun) types.ParseRun {
	return types.ParseRun{
		ID:              row.ID.String(),
		ResumeName:      row.ResumeName,
		Container:       row.Container,
		ContentHash:     row.ContentHash,
		CandidateName:   row.CandidateName.String,
		EducationCount:  int(row.EducationCount),
		ExperienceCount: int(row.ExperienceCount),
		CreatedAt:       row.CreatedAt,
	}
}

func wrapQueryError(op string, err error) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
		return errors.NewConfigError(errors.ErrCodeHistoryFailed,
			"history table is missing; enable database.autoMigrate or apply the schema", err)
	}
	return errors.NewInternalError(errors.ErrCodeHistoryFailed, fmt.Sprintf("failed to %s", op), err)
}
