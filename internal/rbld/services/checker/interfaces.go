package checker

import (
	"context"

	"github.com/bluehost/pam-rbld/internal/rbld/common/log"
	"github.com/bluehost/pam-rbld/internal/rbld/domain"
)

// SessionContext supplies what the authentication framework knows about the attempt.
type SessionContext interface {
	// Service returns the calling service name.
	Service() (string, error)
	// RemoteHost returns the remote host, and false when the framework has none.
	RemoteHost() (string, bool, error)
	// Hook returns the management group the check runs in.
	Hook() domain.Hook
}

// DaemonClient performs one exchange with the list daemon.
type DaemonClient interface {
	Check(ctx context.Context, endpoint string, q domain.Query) domain.Response
}

// ScopeOpener acquires the logging context of one attempt.
type ScopeOpener func(debug bool) (log.Scope, error)
