package influx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// ErrorKind represents the category of a collaborator failure
type ErrorKind int

const (
	// KindNotFound is benign: nothing has been saved yet.
	KindNotFound ErrorKind = iota
	// KindService is a non-success response from the store, the backend or InfluxDB.
	KindService
	// KindTransport means the call itself could not complete.
	KindTransport
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "Not Found"
	case KindService:
		return "Service Error"
	case KindTransport:
		return "Transport Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is returned by every collaborator in this module. Detail, when set,
// is a human-readable explanation suitable for display as-is.
type Error struct {
	Kind       ErrorKind
	Detail     string
	StatusCode int
	Err        error
}

// ErrNotFound is the sentinel for "no saved credentials". Match it with errors.Is.
var ErrNotFound = &Error{Kind: KindNotFound, Detail: "No credentials saved", StatusCode: http.StatusNotFound}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every KindNotFound error match ErrNotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t == ErrNotFound && e.Kind == KindNotFound
}

// NewNotFoundError creates a not-found error with a custom detail
func NewNotFoundError(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail, StatusCode: http.StatusNotFound}
}

// NewServiceError creates an error for a non-success response
func NewServiceError(statusCode int, detail string) *Error {
	return &Error{Kind: KindService, Detail: detail, StatusCode: statusCode}
}

// NewValidationError creates a service error for input the store refuses
func NewValidationError(detail string) *Error {
	return NewServiceError(http.StatusUnprocessableEntity, detail)
}

// NewTransportError wraps err as a transport failure, classifying the common
// network causes into a readable detail.
func NewTransportError(detail string, err error) *Error {
	if detail == "" {
		detail = classifyTransport(err)
	}
	return &Error{Kind: KindTransport, Detail: detail, Err: err}
}

// classifyTransport maps low-level network errors to short descriptions
func classifyTransport(err error) string {
	if err == nil {
		return "Network error"
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return "Request timed out"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return "Connection refused"
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return "Host unreachable"
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return "Network unreachable"
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		return classifyTransport(urlErr.Err)
	}

	return "Network error"
}

// IsNotFound reports whether err means "nothing saved"
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransportError reports whether the call never reached a server
func IsTransportError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransport
}

// IsServiceError reports whether a server answered with a failure
func IsServiceError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindService
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// DetailOr returns the detail carried by err, or fallback when there is none.
// Errors from outside this package contribute nothing: their text is not
// meant for the user.
func DetailOr(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}
