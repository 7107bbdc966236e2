package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the stored lifecycle state of a job posting.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Job is a posting on the marketplace. Status is what the creator last set;
// the effective state additionally derives from expiry and the application cap
// at read time.
type Job struct {
	ID               uuid.UUID
	CreatorID        uuid.UUID
	Title            string
	Description      string
	Conditions       string
	Location         string
	Status           JobStatus
	ExpiresAt        time.Time
	MaxApplications  int
	ApplicationCount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EffectiveStatus derives the state a reader should see: a job past its
// expiry or at its application cap is closed regardless of the stored status.
func (j Job) EffectiveStatus(now time.Time) JobStatus {
	if j.Status == JobStatusClosed {
		return JobStatusClosed
	}
	if !j.ExpiresAt.IsZero() && !j.ExpiresAt.After(now) {
		return JobStatusClosed
	}
	if j.MaxApplications > 0 && j.ApplicationCount >= j.MaxApplications {
		return JobStatusClosed
	}
	return JobStatusOpen
}

// AcceptingApplications reports whether a new application may be submitted.
func (j Job) AcceptingApplications(now time.Time) bool {
	return j.EffectiveStatus(now) == JobStatusOpen
}
