package error

import "errors"

// ErrInvalidAuditFilter is returned when an audit log query uses an unknown filter.
var ErrInvalidAuditFilter = errors.New("invalid audit log filter")

// AuditErrorCode defines error codes for audit log errors.
type AuditErrorCode string

const (
	ErrCodeInvalidAuditFilter AuditErrorCode = "AUD-010001"
)

// AuditError represents an audit log error with code and message.
type AuditError struct {
	Code    AuditErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuditError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuditError) Unwrap() error {
	return e.Err
}

// NewAuditError creates a new AuditError with the given code and message.
func NewAuditError(code AuditErrorCode, message string, err error) *AuditError {
	return &AuditError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
