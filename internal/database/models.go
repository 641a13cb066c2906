package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type ParseRun struct {
	ID              uuid.UUID
	ResumeName      string
	Container       string
	ContentHash     string
	CandidateName   sql.NullString
	EducationCount  int32
	ExperienceCount int32
	CreatedAt       time.Time
}
