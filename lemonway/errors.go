package lemonway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrUnexpectedResponse reports a success envelope that lacks the field an
	// operation extracts from it.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrUnknownOperation is returned by Call for names outside the client's catalog.
	ErrUnknownOperation = errors.New("unknown operation")
)

// ValidationError is a local failure detected before anything is sent.
type ValidationError struct {
	Operation  string
	Missing    []string
	Unexpected []string
	// Duplicate lists wire keys supplied more than once under different casings.
	Duplicate []string
	// Invalid lists fields whose value cannot be written as XML text.
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Unexpected, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate "+strings.Join(e.Duplicate, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "unsupported value for "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("lemonway: %s: invalid attributes: %s", e.Operation, strings.Join(parts, "; "))
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Unexpected) == 0 && len(e.Duplicate) == 0 && len(e.Invalid) == 0
}

// TransportError wraps failures of the HTTP exchange itself: connection
// errors, timeouts, cancellation and non-2xx replies without an error envelope.
type TransportError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("lemonway: %s: transport: status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("lemonway: %s: transport: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the exchange failed because a deadline expired.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// APIError is the error envelope returned by DirectKit, carried verbatim.
type APIError struct {
	Operation string
	Code      string
	Message   string
	Priority  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lemonway: %s: error %s: %s (priority %s)", e.Operation, e.Code, e.Message, e.Priority)
}
