package errcode

import "fmt"

// Error represents a business error with a machine-readable kind
type Error struct {
	Status int    `json:"-"`
	Kind   string `json:"error"`
	Msg    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %s, msg: %s", e.Kind, e.Msg)
}

// New creates a new error with HTTP status, kind and message
func New(status int, kind, msg string) *Error {
	return &Error{Status: status, Kind: kind, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Status: e.Status,
		Kind:   e.Kind,
		Msg:    fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Common error values
var (
	// Validation errors (400)
	ErrMissingParams   = New(400, "MISSING_PARAMS", "required parameters are missing")
	ErrMissingUserId   = New(400, "MISSING_USER_ID", "user id is required")
	ErrEmptyContent    = New(400, "EMPTY_CONTENT", "text message content must not be empty")
	ErrInvalidParam    = New(400, "INVALID_PARAM", "invalid parameter")
	ErrNoFile          = New(400, "NO_FILE", "no file provided")
	ErrFileTooLarge    = New(400, "FILE_TOO_LARGE", "uploaded file exceeds the size limit")
	ErrInvalidFileType = New(400, "INVALID_FILE_TYPE", "only image files are allowed")
	ErrEmailTaken      = New(400, "EMAIL_TAKEN", "an account with this email already exists")
	ErrPasswordWrong   = New(400, "PASSWORD_WRONG", "current password incorrect")

	// Auth errors (401/403)
	ErrUnauthorized = New(401, "UNAUTHORIZED", "authentication required")
	ErrTokenInvalid = New(401, "TOKEN_INVALID", "token invalid or expired")
	ErrLoginFailed  = New(401, "LOGIN_FAILED", "invalid email or password")
	ErrForbidden    = New(403, "FORBIDDEN", "not authorized to access this resource")

	// Not-found errors (404)
	ErrUserNotFound    = New(404, "USER_NOT_FOUND", "user not found")
	ErrCarNotFound     = New(404, "CAR_NOT_FOUND", "car not found")
	ErrBookingNotFound = New(404, "BOOKING_NOT_FOUND", "booking not found")
	ErrStaffNotFound   = New(404, "STAFF_NOT_FOUND", "staff not found")
	ErrFormNotFound    = New(404, "FORM_NOT_FOUND", "verification form not found")

	// Domain-state errors (400/403)
	ErrBookingApproved = New(400, "BOOKING_APPROVED", "approved bookings cannot be modified")
	ErrNotBookingOwner = New(403, "NOT_BOOKING_OWNER", "not authorized to modify this booking")
	ErrFormNotPending  = New(403, "FORM_NOT_PENDING", "only pending forms can be edited")

	// Server errors (500)
	ErrServer = New(500, "SERVER_ERROR", "internal server error")
)
