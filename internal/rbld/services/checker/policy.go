package checker

import "github.com/bluehost/pam-rbld/internal/rbld/domain"

// Decide maps the outcome of a check and the calling service to a verdict.
//
// A listed host is always denied. Dovecot gets VerdictDefer for everything
// else so that it falls through to its next passdb; every other service is
// allowed, including when the check itself failed.
func Decide(resp domain.Response, svc domain.Service) domain.Verdict {
	if resp.IsListed() {
		return domain.VerdictDeny
	}
	if svc.RequiresDefer() {
		return domain.VerdictDefer
	}
	return domain.VerdictAllow
}
