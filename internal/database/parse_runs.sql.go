package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const createParseRun = `-- name: CreateParseRun :exec
INSERT INTO parse_runs (id, resume_name, container, content_hash, candidate_name, education_count, experience_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateParseRunParams struct {
	ID              uuid.UUID
	ResumeName      string
	Container       string
	ContentHash     string
	CandidateName   sql.NullString
	EducationCount  int32
	ExperienceCount int32
	CreatedAt       time.Time
}

func (q *Queries) CreateParseRun(ctx context.Context, arg CreateParseRunParams) error {
	_, err := q.db.ExecContext(ctx, createParseRun,
		arg.ID,
		arg.ResumeName,
		arg.Container,
		arg.ContentHash,
		arg.CandidateName,
		arg.EducationCount,
		arg.ExperienceCount,
		arg.CreatedAt,
	)
	return err
}

const listParseRuns = `-- name: ListParseRuns :many
SELECT id, resume_name, container, content_hash, candidate_name, education_count, experience_count, created_at FROM parse_runs
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListParseRuns(ctx context.Context, limit int32) ([]ParseRun, error) {
	return q.scanParseRuns(q.db.QueryContext(ctx, listParseRuns, limit))
}

const listParseRunsByResume = `-- name: ListParseRunsByResume :many
SELECT id, resume_name, container, content_hash, candidate_name, education_count, experience_count, created_at FROM parse_runs
WHERE resume_name = $1
ORDER BY created_at DESC
LIMIT $2
`

type ListParseRunsByResumeParams struct {
	ResumeName string
	Limit      int32
}

func (q *Queries) ListParseRunsByResume(ctx context.Context, arg ListParseRunsByResumeParams) ([]ParseRun, error) {
	return q.scanParseRuns(q.db.QueryContext(ctx, listParseRunsByResume, arg.ResumeName, arg.Limit))
}

func (q *Queries) scanParseRuns(rows *sql.Rows, err error) ([]ParseRun, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ParseRun
	for rows.Next() {
		var i ParseRun
		if err := rows.Scan(
			&i.ID,
			&i.ResumeName,
			&i.Container,
			&i.ContentHash,
			&i.CandidateName,
			&i.EducationCount,
			&i.ExperienceCount,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
