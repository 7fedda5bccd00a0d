// Package daemon is the client side of the rbld unix socket protocol.
// Each Check opens its own connection, sends one query, reads at most one
// byte and closes the connection again. Nothing is shared between checks.
package daemon

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/bluehost/pam-rbld/internal/rbld/common/clock"
	"github.com/bluehost/pam-rbld/internal/rbld/domain"
	"github.com/bluehost/pam-rbld/internal/rbld/gateways/wire"
)

// Error message constants for consistent error handling
const (
	errEndpointEmpty = "daemon endpoint path is empty"
	errDialFailed    = "dial %s: %w"
	errDeadline      = "set deadline: %w"
	errShortWrite    = "short write: %d of %d bytes"
)

// network is the socket family rbld listens on.
const network = "unix"

// DialFunc establishes a connection to the daemon. It matches
// (*net.Dialer).DialContext so tests can substitute in-memory connections.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Options configures a Client.
type Options struct {
	// Timeout bounds connect, write and read together. Zero means no deadline:
	// a daemon that never answers blocks the check, which is the historical behaviour.
	Timeout time.Duration

	// options to inject for testing purposes
	Codec wire.Codec
	Clock clock.Clock
	Dial  DialFunc
}

// Client performs rbld checks against a local daemon. It keeps no
// connection between checks, so one Client can serve concurrent attempts.
type Client struct {
	timeout time.Duration // Deadline for one exchange, zero for none
	codec   wire.Codec    // Codec for the request line and the reply byte
	clock   clock.Clock   // Clock the deadline is measured against
	dial    DialFunc      // Dial function to create the unix connection
}

// NewClient creates a Client, filling in the line codec, the real clock and
// the net dialer when not supplied.
func NewClient(opts Options) *Client {
	if opts.Timeout < 0 {
		opts.Timeout = 0
	}
	if opts.Codec == nil {
		opts.Codec = wire.NewLineCodec()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Dial == nil {
		opts.Dial = (&net.Dialer{}).DialContext
	}
	return &Client{
		timeout: opts.Timeout,
		codec:   opts.Codec,
		clock:   opts.Clock,
		dial:    opts.Dial,
	}
}

// Timeout returns the configured deadline, zero when unbounded.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Check asks the daemon listening on endpoint whether the query host is listed.
// It opens a fresh unix stream connection, writes the encoded query as a single
// message and reads at most one byte before closing the connection again.
// Failures never escape as errors; they come back as a failure Response whose
// TransportError names the step (connect, write or read) that went wrong.
func (c *Client) Check(ctx context.Context, endpoint string, q domain.Query) domain.Response {
	// Encode first so an unusable query never opens a socket
	payload, err := c.codec.EncodeQuery(q)
	if err != nil {
		return domain.Failed(err)
	}

	if endpoint == "" {
		return domain.Failed(domain.NewTransportError(domain.OpConnect, fmt.Errorf(errEndpointEmpty)))
	}

	// A single deadline covers dial, write and read when a timeout is set
	var deadline time.Time
	if c.timeout > 0 {
		deadline = c.clock.Now().Add(c.timeout)
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	conn, err := c.dial(ctx, network, endpoint)
	if err != nil {
		return domain.Failed(domain.NewTransportError(domain.OpConnect, fmt.Errorf(errDialFailed, endpoint, err)))
	}
	// The connection belongs to this call alone and is released on every path
	defer conn.Close()

	if !deadline.IsZero() {
		if err := conn.SetDeadline(deadline); err != nil {
			return domain.Failed(domain.NewTransportError(domain.OpConnect, fmt.Errorf(errDeadline, err)))
		}
	}

	// Send the query line; a partial write is as bad as a failed one
	n, err := conn.Write(payload)
	if err != nil {
		return domain.Failed(domain.NewTransportError(domain.OpWrite, err))
	}
	if n != len(payload) {
		return domain.Failed(domain.NewTransportError(domain.OpWrite, fmt.Errorf(errShortWrite, n, len(payload))))
	}

	// Read the reply; only the presence of a byte matters
	var reply [wire.ReplySize]byte
	n, err = io.ReadFull(conn, reply[:])
	return c.codec.DecodeReply(n, err)
}
