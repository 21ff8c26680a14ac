package myerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a RequestError so the transport layer can pick a status.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindValidation         Kind = "validation_error"
	KindConflict           Kind = "conflict"
	KindInvalidState       Kind = "invalid_state"
	KindServiceUnavailable Kind = "service_unavailable"
)

type RequestError struct {
	Kind    Kind
	Message string
	Err     error
}

func (r *RequestError) Error() string {
	return r.Message
}

func (r *RequestError) Unwrap() error {
	return r.Err
}

func NotFound(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Unavailable reports a failed external collaborator. cause is kept for logs
// and errors.Is checks but never shown to the client.
func Unavailable(cause error, format string, args ...any) *RequestError {
	return &RequestError{Kind: KindServiceUnavailable, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of the first RequestError in err's chain.
func KindOf(err error) (Kind, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind, true
	}
	return "", false
}

// Is reports whether err carries a RequestError of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
