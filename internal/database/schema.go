package database

const schema = `
CREATE TABLE IF NOT EXISTS parse_runs (
    id               UUID PRIMARY KEY,
    resume_name      TEXT        NOT NULL,
    container        TEXT        NOT NULL,
    content_hash     TEXT        NOT NULL,
    candidate_name   TEXT,
    education_count  INTEGER     NOT NULL DEFAULT 0,
    experience_count INTEGER     NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS parse_runs_resume_name_idx ON parse_runs (resume_name, created_at DESC);
`
