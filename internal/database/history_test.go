package database

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// recordingDB captures ExecContext calls.
type recordingDB struct {
	query string
	args  []interface{}
	err   error
}

func (r *recordingDB) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.query = query
	r.args = args
	return nil, r.err
}

func (r *recordingDB) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, stderrors.New("not supported")
}

func (r *recordingDB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, stderrors.New("not supported")
}

func (r *recordingDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func TestCreateParseRun(t *testing.T) {
	db := &recordingDB{}
	id := uuid.New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	params := runParams(types.ParseRun{
		ResumeName:      "jane.pdf",
		Container:       "nlp",
		ContentHash:     "abc",
		EducationCount:  2,
		ExperienceCount: 3,
	}, id, now)

	if err := New(db).CreateParseRun(context.Background(), params); err != nil {
		t.Fatalf("CreateParseRun() error = %v", err)
	}
	if db.query != createParseRun {
		t.Errorf("unexpected query %q", db.query)
	}
	if len(db.args) != 8 || db.args[0] != id || db.args[1] != "jane.pdf" || db.args[7] != now {
		t.Errorf("args = %v", db.args)
	}
	if name := db.args[4].(sql.NullString); name.Valid {
		t.Errorf("empty candidate name should be NULL, got %+v", name)
	}
}

func TestToParseRun(t *testing.T) {
	id := uuid.MustParse("6f1c2b9e-3d4a-4f7e-9a1b-2c3d4e5f6a7b")
	got := toParseRun(ParseRun{
		ID:              id,
		ResumeName:      "jane.pdf",
		CandidateName:   sql.NullString{String: "jane doe", Valid: true},
		EducationCount:  1,
		ExperienceCount: 4,
	})
	if got.ID != "6f1c2b9e-3d4a-4f7e-9a1b-2c3d4e5f6a7b" || got.CandidateName != "jane doe" || got.ExperienceCount != 4 {
		t.Errorf("toParseRun() = %+v", got)
	}
}

func TestClampLimit(t *testing.T) {
	for in, want := range map[int]int32{-1: 50, 0: 50, 10: 10, 500: 500, 10000: 500} {
		if got := clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestWrapQueryError(t *testing.T) {
	missing := wrapQueryError("list parse runs", &pq.Error{Code: pqUndefinedTable})
	if !errors.IsType(missing, errors.ErrorTypeConfig) {
		t.Errorf("undefined table should be a config error, got %v", missing)
	}

	other := wrapQueryError("list parse runs", stderrors.New("connection reset"))
	appErr, ok := errors.As(other)
	if !ok || appErr.Type != errors.ErrorTypeInternal || appErr.Code != errors.ErrCodeHistoryFailed {
		t.Errorf("wrapQueryError() = %v", other)
	}
}

func TestOpenInvalidURL(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{URL: "postgres://%zz"}, errors.NewNopLogger())
	if !errors.IsType(err, errors.ErrorTypeConfig) {
		t.Errorf("Open() error = %v, want config error", err)
	}
}
