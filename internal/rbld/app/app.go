// Package app wires the checker for the two entry points: the PAM service
// module (cmd/pam_rbld) and the pam_exec command (cmd/pam-rbld).
package app

import (
	"context"

	"github.com/bluehost/pam-rbld/internal/rbld/common/clock"
	"github.com/bluehost/pam-rbld/internal/rbld/common/log"
	"github.com/bluehost/pam-rbld/internal/rbld/config"
	"github.com/bluehost/pam-rbld/internal/rbld/domain"
	"github.com/bluehost/pam-rbld/internal/rbld/gateways/daemon"
	"github.com/bluehost/pam-rbld/internal/rbld/services/checker"
)

// LoadConfig loads the ambient config. A broken config never blocks a check:
// the defaults come back together with the load error for the caller to report.
func LoadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Default(), err
	}
	return cfg, nil
}

// NewChecker builds a checker whose daemon client and log scope follow cfg.
// logger is the fallback when the scope cannot be opened.
func NewChecker(cfg *config.AppConfig, logger log.Logger) (*checker.Checker, error) {
	clk := clock.RealClock{}

	client := daemon.NewClient(daemon.Options{
		Timeout: cfg.Timeout,
		Clock:   clk,
	})

	return checker.New(checker.Options{
		Daemon:    client,
		Logger:    logger,
		Clock:     clk,
		OpenScope: ScopeOpener(cfg),
	})
}

// ScopeOpener binds the per-check logging context to the ambient config.
func ScopeOpener(cfg *config.AppConfig) checker.ScopeOpener {
	return func(debug bool) (log.Scope, error) {
		return log.OpenScope(log.ScopeOptions{
			Env:    cfg.Env,
			Level:  cfg.LogLevel,
			Target: cfg.LogTarget,
			Debug:  debug,
		})
	}
}

// CheckPAM runs one check for a PAM service module entry point and returns
// the numeric code the module hands back to libpam.
//
// Nothing is written to the host process's stderr: configuration problems
// are reported through a log scope and the fallback logger is a no-op.
func CheckPAM(ctx context.Context, sess checker.SessionContext, tokens []string) domain.PAMCode {
	if !sess.Hook().Checks() {
		return domain.PAMSuccess
	}

	cfg, err := LoadConfig()
	if err != nil {
		if scope, serr := ScopeOpener(cfg)(false); serr == nil {
			scope.Audit(map[string]any{"error": err.Error()}, "configuration error, using defaults")
			_ = scope.Close()
		}
	}

	chk, err := NewChecker(cfg, log.NewNoopLogger())
	if err != nil {
		return domain.PAMSuccess
	}
	return chk.Authenticate(ctx, tokens, sess).PAMReturn()
}
