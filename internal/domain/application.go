package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobApplication records one applicant applying to one job. The table store
// enforces uniqueness on (job_id, applicant_id); a second insert surfaces as
// ErrDuplicateApplication.
type JobApplication struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	ApplicantID uuid.UUID
	Message     string
	CreatedAt   time.Time
}
