package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/evaselfe/entrepedia-7/internal/domain"
)

// JobRepository persists job postings.
type JobRepository interface {
	List(ctx context.Context) ([]domain.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error)
	Create(ctx context.Context, job domain.Job) (domain.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error
	IncrementApplicationCount(ctx context.Context, id uuid.UUID) error
}

// ApplicationRepository persists job applications.
type ApplicationRepository interface {
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobApplication, error)
	Create(ctx context.Context, app domain.JobApplication) (domain.JobApplication, error)
}

// OTPRepository persists password-reset codes.
type OTPRepository interface {
	DeleteByMobile(ctx context.Context, mobile string) error
	Create(ctx context.Context, otp domain.PasswordResetOTP) (domain.PasswordResetOTP, error)
	GetLive(ctx context.Context, mobile, code string, now time.Time) (domain.PasswordResetOTP, error)
	MarkUsed(ctx context.Context, id int64) error
}

// CredentialRepository persists user login secrets keyed by mobile number.
type CredentialRepository interface {
	GetByMobile(ctx context.Context, mobile string) (domain.UserCredentials, error)
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error
}

// SessionRepository manages login sessions.
type SessionRepository interface {
	DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error
}
