package domain

import "testing"

func TestVerdict_String(t *testing.T) {
	tests := []struct {
		v    Verdict
		want string
		pam  PAMCode
		name string
	}{
		{VerdictAllow, "allow", 0, "PAM_SUCCESS"},
		{VerdictDeny, "deny", 7, "PAM_AUTH_ERR"},
		{VerdictDefer, "defer", 10, "PAM_USER_UNKNOWN"},
		{Verdict(9), "Verdict(9)", 0, "PAM_SUCCESS"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if got := tt.v.PAMReturn(); got != tt.pam {
			t.Errorf("%s.PAMReturn() = %d, want %d", tt.want, got, tt.pam)
		}
		if got := tt.v.PAMReturn().String(); got != tt.name {
			t.Errorf("%s.PAMReturn().String() = %q, want %q", tt.want, got, tt.name)
		}
	}
}

func TestParseService(t *testing.T) {
	tests := []struct {
		name     string
		want     Service
		deferred bool
	}{
		{"dovecot", ServiceDovecot, true},
		{"Dovecot", ServiceOther, false},
		{"imap", ServiceOther, false},
		{"sshd", ServiceOther, false},
		{"", ServiceOther, false},
	}
	for _, tt := range tests {
		got := ParseService(tt.name)
		if got != tt.want {
			t.Errorf("ParseService(%q) = %v, want %v", tt.name, got, tt.want)
		}
		if got.RequiresDefer() != tt.deferred {
			t.Errorf("ParseService(%q).RequiresDefer() = %v", tt.name, got.RequiresDefer())
		}
	}
	if ServiceDovecot.String() != "dovecot" || ServiceOther.String() != "other" {
		t.Errorf("unexpected service names %q %q", ServiceDovecot, ServiceOther)
	}
}

func TestParseHook(t *testing.T) {
	tests := []struct {
		in     string
		want   Hook
		checks bool
	}{
		{"", HookAuth, true},
		{"auth", HookAuth, true},
		{" AUTH ", HookAuth, true},
		{"account", HookAccount, false},
		{"password", HookPassword, false},
		{"open_session", HookOpenSession, false},
		{"close_session", HookCloseSession, false},
		{"setcred", HookUnknown, false},
	}
	for _, tt := range tests {
		got := ParseHook(tt.in)
		if got != tt.want {
			t.Errorf("ParseHook(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.Checks() != tt.checks {
			t.Errorf("ParseHook(%q).Checks() = %v, want %v", tt.in, got.Checks(), tt.checks)
		}
	}
	if HookOpenSession.String() != "open_session" {
		t.Errorf("unexpected hook name %q", HookOpenSession.String())
	}
}

func TestPAMCode_StringUnknown(t *testing.T) {
	if got := PAMCode(4).String(); got != "PAMCode(4)" {
		t.Errorf("PAMCode(4).String() = %q", got)
	}
}
