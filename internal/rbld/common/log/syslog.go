//go:build !windows && !plan9

package log

import "log/syslog"

// dialSyslog opens the authpriv facility with the given ident.
// Swappable in tests.
var dialSyslog = func(ident string) (syslogWriter, error) {
	w, err := syslog.New(syslog.LOG_AUTHPRIV|syslog.LOG_INFO, ident)
	if err != nil {
		return nil, err
	}
	return w, nil
}
