package log

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// syslogWriter is the subset of *syslog.Writer the core needs.
type syslogWriter interface {
	Debug(m string) error
	Info(m string) error
	Warning(m string) error
	Err(m string) error
	Crit(m string) error
	Close() error
}

// syslogCore is a zapcore.Core that sends each entry to syslog
// with a severity derived from the zap level.
type syslogCore struct {
	zapcore.LevelEnabler
	enc zapcore.Encoder
	w   syslogWriter
}

func newSyslogCore(enc zapcore.Encoder, w syslogWriter, enab zapcore.LevelEnabler) zapcore.Core {
	return &syslogCore{LevelEnabler: enab, enc: enc, w: w}
}

func (c *syslogCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &syslogCore{LevelEnabler: c.LevelEnabler, enc: c.enc.Clone(), w: c.w}
	for i := range fields {
		fields[i].AddTo(clone.enc)
	}
	return clone
}

func (c *syslogCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *syslogCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimSuffix(buf.String(), "\n")
	buf.Free()

	switch {
	case ent.Level <= zapcore.DebugLevel:
		return c.w.Debug(msg)
	case ent.Level == zapcore.InfoLevel:
		return c.w.Info(msg)
	case ent.Level == zapcore.WarnLevel:
		return c.w.Warning(msg)
	case ent.Level == zapcore.ErrorLevel:
		return c.w.Err(msg)
	default:
		return c.w.Crit(msg)
	}
}

// Sync is a no-op; syslog writes are unbuffered.
func (c *syslogCore) Sync() error { return nil }
