// Package checker runs one host reputation check for an authentication attempt.
package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/bluehost/pam-rbld/internal/rbld/common/clock"
	"github.com/bluehost/pam-rbld/internal/rbld/common/log"
	"github.com/bluehost/pam-rbld/internal/rbld/config"
	"github.com/bluehost/pam-rbld/internal/rbld/domain"
)

// Error message constants for consistent error handling
const (
	errDaemonRequired = "daemon client is required"
	errHostMissing    = "%w: remote host is not set"
	errHostLookup     = "%w: remote host lookup: %w"
)

// Checker orchestrates a single check: arguments, session context, daemon
// exchange and decision. A Checker holds no per-attempt state and may be
// shared between concurrent attempts.
type Checker struct {
	daemon    DaemonClient
	clock     clock.Clock
	logger    log.Logger
	openScope ScopeOpener
}

// Options configures a Checker.
type Options struct {
	// required parameters
	Daemon DaemonClient

	// Logger is the process logger. It stands in for the per-attempt scope
	// when OpenScope is nil or fails.
	Logger log.Logger

	// options to inject for testing purposes
	Clock     clock.Clock
	OpenScope ScopeOpener
}

// New creates a Checker with the specified options.
// Returns an error if no daemon client is provided.
// Defaults to the real clock and the global logger when not provided.
func New(opts Options) (*Checker, error) {
	if opts.Daemon == nil {
		return nil, fmt.Errorf(errDaemonRequired)
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	return &Checker{
		daemon:    opts.Daemon,
		clock:     opts.Clock,
		logger:    opts.Logger,
		openScope: opts.OpenScope,
	}, nil
}

// Authenticate checks the remote host of sess against the list named by
// tokens and returns the verdict for the framework.
//
// It never fails. Bad tokens and an unknown service allow the attempt
// outright; every later failure becomes a failure Response and goes through
// Decide like a daemon answer would. The records an operator needs (a
// listed host, a failed check, a misconfiguration) are written whatever the
// configured log level.
func (c *Checker) Authenticate(ctx context.Context, tokens []string, sess SessionContext) domain.Verdict {
	// only the auth group is checked; account, session and password succeed
	if !sess.Hook().Checks() {
		return domain.VerdictAllow
	}

	start := c.clock.Now()
	args, argErr := config.ParseArgs(tokens)

	// the debug token selects the scope, so a bad token list gets a plain one
	scope := c.scope(argErr == nil && args.Debug)
	defer scope.Close()

	if argErr != nil {
		scope.Audit(map[string]any{
			"argc":   len(tokens),
			"reason": domain.Reason(argErr),
			"error":  argErr.Error(),
		}, "module is misconfigured, allowing")
		return domain.VerdictAllow
	}

	scope.Debug(map[string]any{
		"argc":   len(tokens),
		"list":   args.ListID,
		"socket": args.SocketPath,
		"extra":  strings.Join(args.Extra, " "),
	}, "module arguments")

	// without a service name the dovecot rule cannot apply
	name, err := sess.Service()
	if err != nil {
		scope.Audit(map[string]any{
			"reason": domain.Reason(err),
			"error":  err.Error(),
		}, "unable to get service name, allowing")
		return domain.VerdictAllow
	}
	svc := domain.ParseService(name)

	host, resp := c.check(ctx, args, sess, scope)
	verdict := Decide(resp, svc)

	fields := map[string]any{
		"host":        host,
		"list":        args.ListID,
		"service":     name,
		"outcome":     resp.Outcome.String(),
		"reply_bytes": resp.ReplyBytes,
		"verdict":     verdict.String(),
		"pam_return":  verdict.PAMReturn().String(),
		"elapsed":     clock.Since(c.clock, start).String(),
	}
	switch resp.Outcome {
	case domain.OutcomeListed:
		scope.Audit(fields, fmt.Sprintf("%s is listed in %s", host, args.ListID))
	case domain.OutcomeFailure:
		// a DaemonClient may hand back a bare Response{}
		if resp.Err != nil {
			fields["reason"] = domain.Reason(resp.Err)
			fields["error"] = resp.Err.Error()
		} else {
			fields["reason"] = domain.Reason(domain.ErrUnknown)
		}
		scope.Audit(fields, "rbld check failed")
	default:
		scope.Debug(fields, "host is not listed")
	}
	return verdict
}

// check resolves the remote host and asks the daemon about it. Failures
// before the exchange stand in for its response, so the caller sees one
// Response whatever stage went wrong.
func (c *Checker) check(ctx context.Context, args config.ModuleArgs, sess SessionContext, scope log.Logger) (string, domain.Response) {
	// a lookup error and a NULL item are both context failures
	host, ok, err := sess.RemoteHost()
	if err != nil {
		return host, domain.Failed(fmt.Errorf(errHostLookup, domain.ErrContext, err))
	}
	if !ok {
		return host, domain.Failed(fmt.Errorf(errHostMissing, domain.ErrContext))
	}

	// only dotted-quad IPv4 is sent to the daemon
	addr, err := domain.ParseIPv4(host)
	if err != nil {
		return host, domain.Failed(err)
	}

	q, err := domain.NewQuery(args.ListID, addr)
	if err != nil {
		return host, domain.Failed(err)
	}

	scope.Debug(map[string]any{
		"socket": args.SocketPath,
		"query":  q.String(),
	}, "connecting to rbld")

	return host, c.daemon.Check(ctx, args.SocketPath, q)
}

// scope opens the per-attempt logging context, falling back to the process logger.
func (c *Checker) scope(debug bool) log.Scope {
	if c.openScope == nil {
		return log.WrapScope(c.logger)
	}
	s, err := c.openScope(debug)
	if err != nil {
		c.logger.Warn(map[string]any{"error": err.Error()}, "unable to open log scope, using process logger")
		return log.WrapScope(c.logger)
	}
	return s
}
