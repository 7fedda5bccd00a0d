//go:build windows || plan9

package log

var dialSyslog = func(string) (syslogWriter, error) {
	return nil, ErrSyslogUnavailable
}
