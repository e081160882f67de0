// Package apperrors holds sentinel errors shared by packages that cannot
// import internal/app without creating an import cycle.
package apperrors

import "errors"

// Sentinel errors for common application errors
var (
	ErrDuplicateJob         = errors.New("a job with this external id already exists")
	ErrDuplicateApplication = errors.New("an application for this job already exists")
	ErrQuotaExhausted       = errors.New("daily auto-apply limit reached")
)
