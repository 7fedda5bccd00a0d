package domain

import "errors"

// Outcome classifies what came back from a check.
type Outcome uint8

const (
	// OutcomeFailure means the check could not complete; Response.Err says why.
	OutcomeFailure Outcome = iota
	// OutcomeListed means the daemon wrote at least one byte.
	OutcomeListed
	// OutcomeNotListed means the daemon closed the stream without writing.
	OutcomeNotListed
)

// String returns a stable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeListed:
		return "listed"
	case OutcomeNotListed:
		return "not_listed"
	default:
		return "failure"
	}
}

// Response is the raw result of one daemon exchange, or an earlier-stage
// failure standing in for it. Pure value type.
type Response struct {
	Outcome Outcome
	Err     error // set only for OutcomeFailure

	// ReplyBytes is the number of bytes read from the daemon, for diagnostics.
	ReplyBytes int
}

// Listed returns a positive-match response.
func Listed() Response { return Response{Outcome: OutcomeListed} }

// NotListed returns a clean negative response.
func NotListed() Response { return Response{Outcome: OutcomeNotListed} }

// ErrUnknown stands in for a failure reported without a cause.
var ErrUnknown = errors.New("unknown failure")

// Failed returns a failure response carrying err. A nil err becomes ErrUnknown
// so a failure always has a cause.
func Failed(err error) Response {
	if err == nil {
		err = ErrUnknown
	}
	return Response{Outcome: OutcomeFailure, Err: err}
}

// IsListed is a convenience accessor.
func (r Response) IsListed() bool { return r.Outcome == OutcomeListed }
