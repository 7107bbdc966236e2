package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserCredentials holds the login secret for a mobile number. Only the
// reset-password action mutates the hash.
type UserCredentials struct {
	UserID       uuid.UUID
	MobileNumber string
	PasswordHash string
	UpdatedAt    time.Time
}

// UserSession is a login session; all of a user's sessions are deactivated
// when their password is reset.
type UserSession struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Active        bool
	CreatedAt     time.Time
	DeactivatedAt *time.Time
}
