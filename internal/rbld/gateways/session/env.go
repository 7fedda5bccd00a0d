// Package session supplies the PAM session context of a check: from the
// environment pam_exec(8) exports (Env) or from a PAM handle (Items).
package session

import (
	"fmt"
	"os"

	"github.com/bluehost/pam-rbld/internal/rbld/domain"
)

// Environment variables set by pam_exec.
const (
	EnvRemoteHost = "PAM_RHOST"
	EnvService    = "PAM_SERVICE"
	EnvType       = "PAM_TYPE"
	EnvUser       = "PAM_USER"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Env is a session context backed by environment variables.
type Env struct {
	lookup LookupFunc
}

// NewEnv reads the process environment.
func NewEnv() *Env {
	return &Env{lookup: os.LookupEnv}
}

// NewEnvFrom reads from lookup instead of the process environment.
func NewEnvFrom(lookup LookupFunc) *Env {
	return &Env{lookup: lookup}
}

// Service returns the calling PAM service name.
func (e *Env) Service() (string, error) {
	v, ok := e.lookup(EnvService)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrContext, EnvService)
	}
	return v, nil
}

// RemoteHost returns the remote host and whether one was supplied at all.
// An unset variable is the equivalent of a NULL PAM_RHOST item.
func (e *Env) RemoteHost() (string, bool, error) {
	v, ok := e.lookup(EnvRemoteHost)
	return v, ok, nil
}

// Hook returns the PAM management group pam_exec was invoked for.
func (e *Env) Hook() domain.Hook {
	v, _ := e.lookup(EnvType)
	return domain.ParseHook(v)
}

// User returns the user being authenticated, for diagnostics only.
func (e *Env) User() string {
	v, _ := e.lookup(EnvUser)
	return v
}
