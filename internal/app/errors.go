package app

import "github.com/oluwadami/jobpilot/internal/apperrors"

// Sentinel errors for common application errors
var (
	ErrDuplicateJob         = apperrors.ErrDuplicateJob
	ErrDuplicateApplication = apperrors.ErrDuplicateApplication
	ErrQuotaExhausted       = apperrors.ErrQuotaExhausted
)
