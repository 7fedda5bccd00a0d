package domain

// Service identifies the calling service. Only services that need special
// handling get their own value; everything else is ServiceOther.
type Service uint8

const (
	ServiceOther Service = iota
	// ServiceDovecot cannot move to its next passdb on a plain allow, so it
	// must receive VerdictDefer whenever the host is not positively listed.
	ServiceDovecot
)

// dovecotServiceName is the PAM service name dovecot authenticates as.
const dovecotServiceName = "dovecot"

// ParseService matches a PAM service name. Matching is exact and case-sensitive.
func ParseService(name string) Service {
	if name == dovecotServiceName {
		return ServiceDovecot
	}
	return ServiceOther
}

// RequiresDefer reports whether the service must be told "unknown" instead of "allow".
func (s Service) RequiresDefer() bool {
	return s == ServiceDovecot
}

// String returns the service name for logs.
func (s Service) String() string {
	if s == ServiceDovecot {
		return dovecotServiceName
	}
	return "other"
}
