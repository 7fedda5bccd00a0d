package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy for a single check. None of these ever reaches the
// authentication framework as a hard failure; the decision policy maps them.
var (
	// ErrConfiguration marks bad or missing module parameters.
	ErrConfiguration = errors.New("configuration error")
	// ErrContext marks a session context that could not supply host or service.
	ErrContext = errors.New("context error")
	// ErrValidation marks a host that is present but not an IPv4 literal.
	ErrValidation = errors.New("validation error")
	// ErrTransport marks a connect, write or read failure against the daemon.
	ErrTransport = errors.New("transport error")
	// ErrAllocation marks a query buffer that could not be formed.
	ErrAllocation = errors.New("allocation error")
)

// TransportOp names the socket operation that failed.
type TransportOp uint8

const (
	OpConnect TransportOp = iota
	OpWrite
	OpRead
)

// String returns a stable name for the operation.
func (o TransportOp) String() string {
	switch o {
	case OpConnect:
		return "connect"
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	default:
		return fmt.Sprintf("TransportOp(%d)", o)
	}
}

// TransportError records which socket operation failed and why.
// errors.Is(err, ErrTransport) holds for every TransportError.
type TransportError struct {
	Op  TransportOp
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NewTransportError wraps err as a failure of op.
func NewTransportError(op TransportOp, err error) error {
	return &TransportError{Op: op, Err: err}
}

// Reason returns a short label for the failure class of err, for log fields.
func Reason(err error) string {
	var te *TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te):
		return te.Op.String()
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrContext):
		return "context"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAllocation):
		return "allocation"
	default:
		return "unknown"
	}
}
