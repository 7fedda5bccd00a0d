package checker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluehost/pam-rbld/internal/rbld/domain"
)

func TestDecide(t *testing.T) {
	connectErr := domain.NewTransportError(domain.OpConnect, errors.New("connection refused"))
	responses := map[string]domain.Response{
		"listed":        domain.Listed(),
		"not listed":    domain.NotListed(),
		"context":       domain.Failed(domain.ErrContext),
		"validation":    domain.Failed(domain.ErrValidation),
		"allocation":    domain.Failed(domain.ErrAllocation),
		"connect":       domain.Failed(connectErr),
		"write":         domain.Failed(domain.NewTransportError(domain.OpWrite, errors.New("broken pipe"))),
		"read":          domain.Failed(domain.NewTransportError(domain.OpRead, errors.New("reset"))),
		"zero response": {},
	}

	tests := []struct {
		response string
		other    domain.Verdict
		dovecot  domain.Verdict
	}{
		{"listed", domain.VerdictDeny, domain.VerdictDeny},
		{"not listed", domain.VerdictAllow, domain.VerdictDefer},
		{"context", domain.VerdictAllow, domain.VerdictDefer},
		{"validation", domain.VerdictAllow, domain.VerdictDefer},
		{"allocation", domain.VerdictAllow, domain.VerdictDefer},
		{"connect", domain.VerdictAllow, domain.VerdictDefer},
		{"write", domain.VerdictAllow, domain.VerdictDefer},
		{"read", domain.VerdictAllow, domain.VerdictDefer},
		{"zero response", domain.VerdictAllow, domain.VerdictDefer},
	}

	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			resp := responses[tt.response]
			assert.Equal(t, tt.other, Decide(resp, domain.ServiceOther))
			assert.Equal(t, tt.dovecot, Decide(resp, domain.ServiceDovecot))
		})
	}
}

func TestDecide_DenyOnlyWhenListed(t *testing.T) {
	outcomes := []domain.Outcome{domain.OutcomeFailure, domain.OutcomeListed, domain.OutcomeNotListed}
	services := []domain.Service{domain.ServiceOther, domain.ServiceDovecot}
	for _, o := range outcomes {
		for _, svc := range services {
			v := Decide(domain.Response{Outcome: o}, svc)
			assert.Equal(t, o == domain.OutcomeListed, v == domain.VerdictDeny, "outcome=%s service=%s", o, svc)
			if v == domain.VerdictDefer {
				assert.Equal(t, domain.ServiceDovecot, svc, "defer is only for dovecot")
			}
		}
	}
}
