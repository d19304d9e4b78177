package internal

import "fmt"

type ErrorType string

const (
	ErrorTypeProtocol   ErrorType = "PROTOCOL_ERROR"
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeAuth       ErrorType = "AUTH_ERROR"
	ErrorTypeStore      ErrorType = "STORE_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeMalformedMessage ErrorCode = "MALFORMED_MESSAGE"
	ErrCodeInvalidAction    ErrorCode = "INVALID_ACTION"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingField     ErrorCode = "MISSING_FIELD"
	ErrCodeContentTooLong   ErrorCode = "CONTENT_TOO_LONG"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	ErrCodeUnknownDepartment ErrorCode = "UNKNOWN_DEPARTMENT"
	ErrCodeStoreFailure      ErrorCode = "STORE_FAILURE"
	ErrCodeExportFailure     ErrorCode = "EXPORT_FAILURE"
)

// AppError carries the taxonomy used by the session layer to turn any
// per-request failure into a protocol error response. Message is what the
// client sees; Cause stays server-side.
type AppError struct {
	Type    ErrorType
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{Type: e.Type, Code: e.Code, Message: e.Message, Cause: cause}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

func NewProtocolError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeProtocol,
		Code:    code,
		Message: message,
	}
}

func NewAuthError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeAuth,
		Code:    code,
		Message: message,
	}
}

func NewStoreError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStore,
		Code:    ErrCodeStoreFailure,
		Message: message,
		Cause:   cause,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   cause,
	}
}

var (
	// ErrInvalidCredentials deliberately carries one generic message so a
	// failed login never reveals whether the email or the password was wrong.
	ErrInvalidCredentials = NewAuthError("Invalid credentials", ErrCodeInvalidCredentials)

	// ErrUnknownDepartment signals a referential integrity violation; it
	// should not occur when departments are seeded correctly.
	ErrUnknownDepartment = &AppError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeUnknownDepartment,
		Message: "Invalid department ID",
	}

	ErrInvalidAction = NewProtocolError("Invalid action or authentication required", ErrCodeInvalidAction)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}
