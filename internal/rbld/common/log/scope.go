package log

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// IdentDefault tags every diagnostic line of a normal check.
	IdentDefault = "pam_rbld"
	// IdentDebug tags diagnostic lines when the debug token is configured.
	IdentDebug = "RBLD PAM DEBUGGING"

	// TargetSyslog sends scope output to the authpriv syslog facility.
	TargetSyslog = "syslog"
	// TargetStderr sends scope output to standard error.
	TargetStderr = "stderr"
)

// Scope is a Logger bound to a single authentication attempt.
// Close must be called on every exit path; it flushes and releases the sink.
type Scope interface {
	Logger

	// Audit writes an info entry whatever the configured level. It carries
	// the records an operator must always see, such as a denied host.
	Audit(fields map[string]any, msg string)

	Close() error
}

// ScopeOptions selects the sink and verbosity of a Scope.
type ScopeOptions struct {
	Env    string // "dev" or "prod", controls encoding
	Level  string // minimum level unless Debug is set
	Target string // TargetSyslog or TargetStderr
	Debug  bool   // forces debug level and the debug ident

	// Stderr replaces os.Stderr for TargetStderr.
	Stderr io.Writer
}

// Ident returns the syslog ident used for the options.
func (o ScopeOptions) Ident() string {
	if o.Debug {
		return IdentDebug
	}
	return IdentDefault
}

type zapScope struct {
	zapLogger
	audit  *zap.Logger
	closer func() error
}

// OpenScope acquires a logging context for one check.
//
// The sink core accepts every level. The configured level is applied on top
// of it for the Logger methods only, so Audit entries always get through.
func OpenScope(opts ScopeOptions) (Scope, error) {
	lvl := zapcore.DebugLevel
	if !opts.Debug {
		var err error
		if lvl, err = parseLevel(opts.Level); err != nil {
			return nil, err
		}
	}
	dev := opts.Env != "prod"

	var (
		core   zapcore.Core
		closer func() error
	)
	switch opts.Target {
	case TargetSyslog:
		w, err := dialSyslog(opts.Ident())
		if err != nil {
			return nil, fmt.Errorf("failed to open syslog: %w", err)
		}
		enc := encoderConfig(false)
		enc.TimeKey = "" // syslog stamps its own time
		enc.LevelKey = ""
		core = newSyslogCore(zapcore.NewConsoleEncoder(enc), w, zapcore.DebugLevel)
		closer = w.Close
	case TargetStderr, "":
		var encoder zapcore.Encoder
		if dev {
			encoder = zapcore.NewConsoleEncoder(encoderConfig(true))
		} else {
			encoder = zapcore.NewJSONEncoder(encoderConfig(false))
		}
		var out io.Writer = os.Stderr
		if opts.Stderr != nil {
			out = opts.Stderr
		}
		core = zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), zapcore.DebugLevel).
			With([]zapcore.Field{zap.String("ident", opts.Ident())})
	default:
		return nil, fmt.Errorf("unsupported log target: %q", opts.Target)
	}

	audit := zap.New(core)
	return newZapScope(audit.WithOptions(zap.IncreaseLevel(lvl)), audit, closer), nil
}

func newZapScope(base, audit *zap.Logger, closer func() error) *zapScope {
	return &zapScope{zapLogger: zapLogger{base: base}, audit: audit, closer: closer}
}

// Audit logs at info level, bypassing the scope's level.
func (s *zapScope) Audit(fields map[string]any, msg string) {
	s.audit.Info(msg, zapFields(fields)...)
}

// Close flushes buffered entries and releases the sink.
func (s *zapScope) Close() error {
	// Sync on a terminal stderr reports EINVAL; it carries no information for us.
	_ = s.base.Sync()
	if s.closer == nil {
		return nil
	}
	closer := s.closer
	s.closer = nil
	return closer()
}

// WrapScope turns a Logger into a Scope whose Close is a no-op.
// Used when the dedicated sink cannot be opened and the process logger stands in.
func WrapScope(l Logger) Scope {
	return &loggerScope{Logger: l}
}

type loggerScope struct {
	Logger
}

// Audit falls back to Info on the wrapped logger.
func (s *loggerScope) Audit(fields map[string]any, msg string) { s.Logger.Info(fields, msg) }

func (s *loggerScope) Close() error { return nil }

// ErrSyslogUnavailable is returned on platforms without a syslog daemon.
var ErrSyslogUnavailable = errors.New("syslog is not available on this platform")

var _ Scope = (*zapScope)(nil)
var _ Scope = (*loggerScope)(nil)
