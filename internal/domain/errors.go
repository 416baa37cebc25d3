package domain

import "errors"

var (
	// ErrRemoteUnavailable is a network or server failure. Never retried.
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	// ErrUnauthenticated means an operation needed a token the caller did not hold.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials is a rejected login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken is a rejected signup.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrValidationRejected is a payload the backend (or local checks) refused.
	ErrValidationRejected = errors.New("rejected by validation")
	// ErrInvalidSession is a stored token the backend no longer accepts.
	ErrInvalidSession = errors.New("session is no longer valid")
	// ErrMalformedRecord is a server response missing required fields.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrNotFound is a story or user the backend does not know.
	ErrNotFound = errors.New("not found")
)

// IsRecoverable reports errors the user can fix and retry by hand.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrValidationRejected) ||
		errors.Is(err, ErrNotFound)
}

// IsTryLater reports the broad "try again later" class.
func IsTryLater(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable) || errors.Is(err, ErrMalformedRecord)
}

// ErrorKind returns a stable label for err, used in logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRemoteUnavailable):
		return "remote_unavailable"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, ErrValidationRejected):
		return "validation_rejected"
	case errors.Is(err, ErrInvalidSession):
		return "invalid_session"
	case errors.Is(err, ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "unknown"
	}
}
