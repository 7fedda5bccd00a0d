// Command pam-rbld runs one host check under pam_exec(8):
//
//	auth required pam_exec.so quiet /usr/sbin/pam-rbld <list> <socket> [debug]
//
// It asks the local rbld daemon whether PAM_RHOST is on the list and reports
// the verdict through its exit status: 0 allow, 1 deny, 2 defer.
//
// pam_exec turns every non-zero exit status into PAM_SYSTEM_ERR, so under
// pam_exec deny and defer look the same to PAM and PAM_USER_UNKNOWN is never
// produced. That is enough for services that only need allow or deny (sshd,
// su). Dovecot needs PAM_USER_UNKNOWN to move on to its next passdb and must
// load the service module built from cmd/pam_rbld instead.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bluehost/pam-rbld/internal/rbld/app"
	"github.com/bluehost/pam-rbld/internal/rbld/common/log"
	"github.com/bluehost/pam-rbld/internal/rbld/config"
	"github.com/bluehost/pam-rbld/internal/rbld/domain"
	"github.com/bluehost/pam-rbld/internal/rbld/gateways/session"
	"github.com/bluehost/pam-rbld/internal/rbld/services/checker"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "pam-rbld"
)

// Exit statuses, one per verdict.
const (
	exitAllow = 0
	exitDeny  = 1
	exitDefer = 2
)

// Application holds the components of one pam-rbld invocation
type Application struct {
	config  *config.AppConfig
	checker *checker.Checker
	session checker.SessionContext
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run performs one check and returns the exit status. It never fails:
// a broken ambient config falls back to the defaults.
func run(args []string, stderr io.Writer) int {
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "%s: configuration error: %v, using defaults\n", appName, err)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "%s: logging configuration error: %v\n", appName, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := buildApplication(cfg, session.NewEnv())
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v, allowing\n", appName, err)
		return exitAllow
	}
	return ExitCode(application.Run(ctx, args))
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig, sess checker.SessionContext) (*Application, error) {
	chk, err := app.NewChecker(cfg, log.GetLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to build checker: %w", err)
	}

	return &Application{
		config:  cfg,
		checker: chk,
		session: sess,
	}, nil
}

// Run checks the current session against the module tokens.
func (a *Application) Run(ctx context.Context, tokens []string) domain.Verdict {
	log.Debug(map[string]any{
		"version": version,
		"env":     a.config.Env,
		"target":  a.config.LogTarget,
		"timeout": a.config.Timeout.String(),
	}, "Starting pam-rbld check")

	return a.checker.Authenticate(ctx, tokens, a.session)
}

// ExitCode maps a verdict to the process exit status.
func ExitCode(v domain.Verdict) int {
	switch v {
	case domain.VerdictDeny:
		return exitDeny
	case domain.VerdictDefer:
		return exitDefer
	default:
		return exitAllow
	}
}
