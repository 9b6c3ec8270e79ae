package orders

import (
	"errors"
	"fmt"
)

// Operation names carried by TransportError.
const (
	OpList   = "list"
	OpVerify = "verify"
	OpDelete = "delete"
)

// ErrNilClient is wrapped by the TransportError a nil *Client returns.
var ErrNilClient = errors.New("orders: client is nil")

// TransportError reports any failure talking to the order service: network,
// HTTP status, or payload decoding. Callers that need the cause can unwrap it.
type TransportError struct {
	Op         string
	Path       string
	StatusCode int    // zero when no response was received
	Detail     string // service-provided reason, if any
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.Path)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": returned status %d", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
