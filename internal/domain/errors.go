package domain

import "errors"

// ErrDuplicateApplication is returned when the table store rejects a second
// application from the same applicant to the same job.
var ErrDuplicateApplication = errors.New("duplicate application")
