package domain

import "time"

// PasswordResetOTP is a one-time code authorizing a password change for a
// mobile number. At most one live row exists per number: prior rows are
// deleted before a new code is inserted.
type PasswordResetOTP struct {
	ID           int64
	MobileNumber string
	Code         string
	ExpiresAt    time.Time
	Used         bool
	CreatedAt    time.Time
}

// Live reports whether the code can still authorize a reset.
func (o PasswordResetOTP) Live(now time.Time) bool {
	return !o.Used && o.ExpiresAt.After(now)
}
