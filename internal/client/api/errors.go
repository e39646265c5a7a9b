package api

import "errors"

var (
	// ErrUnavailable means no usable response arrived: connection refused,
	// timeout, or a body that could not be decoded. Retry by resubmitting.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized means the server rejected the bearer token. The stored
	// token must be treated as invalid and the session cleared.
	ErrUnauthorized = errors.New("unauthorized")
)

// BusinessError is a structured, expected rejection returned by the server:
// bad credentials, device limit reached, unverified email. It is surfaced
// verbatim to the user and never retried automatically.
type BusinessError struct {
	Message              string
	DeviceLimitReached   bool
	RequiresVerification bool
	Email                string
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return "request rejected"
	}
	return e.Message
}

// AsBusiness unwraps err into a *BusinessError, or nil if it is not one.
func AsBusiness(err error) *BusinessError {
	var be *BusinessError
	if errors.As(err, &be) {
		return be
	}
	return nil
}
