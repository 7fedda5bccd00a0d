package domain

import "strings"

// Hook is the PAM management group a check was invoked for.
type Hook uint8

const (
	HookAuth Hook = iota
	HookAccount
	HookPassword
	HookOpenSession
	HookCloseSession
	HookUnknown
)

// ParseHook maps a pam_exec PAM_TYPE value. An empty value means the
// command was run outside pam_exec and is treated as authentication.
func ParseHook(s string) Hook {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auth":
		return HookAuth
	case "account":
		return HookAccount
	case "password":
		return HookPassword
	case "open_session":
		return HookOpenSession
	case "close_session":
		return HookCloseSession
	default:
		return HookUnknown
	}
}

// String returns the PAM_TYPE spelling of the hook.
func (h Hook) String() string {
	switch h {
	case HookAuth:
		return "auth"
	case HookAccount:
		return "account"
	case HookPassword:
		return "password"
	case HookOpenSession:
		return "open_session"
	case HookCloseSession:
		return "close_session"
	default:
		return "unknown"
	}
}

// Checks reports whether the hook runs the host check. Every other group
// succeeds without consulting the daemon.
func (h Hook) Checks() bool { return h == HookAuth }
