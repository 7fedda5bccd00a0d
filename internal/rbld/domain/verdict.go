package domain

import "fmt"

// Verdict is the outcome of one authentication check.
type Verdict uint8

const (
	// VerdictAllow lets the authentication chain proceed.
	VerdictAllow Verdict = iota
	// VerdictDeny rejects the attempt; only produced for a listed host.
	VerdictDeny
	// VerdictDefer asks the framework to try the next authentication method.
	VerdictDefer
)

// String returns the lowercase name of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictDeny:
		return "deny"
	case VerdictDefer:
		return "defer"
	default:
		return fmt.Sprintf("Verdict(%d)", v)
	}
}

// PAMCode is a Linux-PAM return value, numbered as in <security/_pam_types.h>.
type PAMCode int

const (
	PAMSuccess     PAMCode = 0
	PAMAuthErr     PAMCode = 7
	PAMUserUnknown PAMCode = 10
)

// String returns the C macro name of the code.
func (c PAMCode) String() string {
	switch c {
	case PAMSuccess:
		return "PAM_SUCCESS"
	case PAMAuthErr:
		return "PAM_AUTH_ERR"
	case PAMUserUnknown:
		return "PAM_USER_UNKNOWN"
	default:
		return fmt.Sprintf("PAMCode(%d)", int(c))
	}
}

// PAMReturn is the code a PAM service module returns for the verdict.
// PAM_USER_UNKNOWN makes dovecot move on to its next passdb.
func (v Verdict) PAMReturn() PAMCode {
	switch v {
	case VerdictDeny:
		return PAMAuthErr
	case VerdictDefer:
		return PAMUserUnknown
	default:
		return PAMSuccess
	}
}
