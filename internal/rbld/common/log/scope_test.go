package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// fakeSyslog records messages per severity.
type fakeSyslog struct {
	lines  []string
	closed int
}

func (f *fakeSyslog) record(sev, m string) error {
	f.lines = append(f.lines, sev+":"+m)
	return nil
}

func (f *fakeSyslog) Debug(m string) error   { return f.record("debug", m) }
func (f *fakeSyslog) Info(m string) error    { return f.record("info", m) }
func (f *fakeSyslog) Warning(m string) error { return f.record("warning", m) }
func (f *fakeSyslog) Err(m string) error     { return f.record("err", m) }
func (f *fakeSyslog) Crit(m string) error    { return f.record("crit", m) }
func (f *fakeSyslog) Close() error {
	f.closed++
	return nil
}

func withFakeSyslog(t *testing.T) (*fakeSyslog, *string) {
	t.Helper()
	fake := &fakeSyslog{}
	var ident string
	orig := dialSyslog
	dialSyslog = func(id string) (syslogWriter, error) {
		ident = id
		return fake, nil
	}
	t.Cleanup(func() { dialSyslog = orig })
	return fake, &ident
}

func TestScopeOptions_Ident(t *testing.T) {
	assert.Equal(t, IdentDefault, ScopeOptions{}.Ident())
	assert.Equal(t, IdentDebug, ScopeOptions{Debug: true}.Ident())
}

func TestOpenScope_SyslogRoutesSeverities(t *testing.T) {
	fake, ident := withFakeSyslog(t)

	s, err := OpenScope(ScopeOptions{Env: "prod", Level: "debug", Target: TargetSyslog})
	require.NoError(t, err)
	assert.Equal(t, IdentDefault, *ident)

	s.Debug(nil, "trying to connect")
	s.Info(map[string]any{"host": "203.0.113.5"}, "listed")
	s.Warn(nil, "could not connect")
	s.Error(nil, "read failed")
	require.NoError(t, s.Close())

	require.Len(t, fake.lines, 4)
	assert.True(t, strings.HasPrefix(fake.lines[0], "debug:"))
	assert.True(t, strings.HasPrefix(fake.lines[1], "info:"))
	assert.Contains(t, fake.lines[1], "203.0.113.5")
	assert.True(t, strings.HasPrefix(fake.lines[2], "warning:"))
	assert.True(t, strings.HasPrefix(fake.lines[3], "err:"))
	for _, line := range fake.lines {
		assert.NotContains(t, line, "\n")
	}
	assert.Equal(t, 1, fake.closed)
}

func TestOpenScope_LevelGatesOutput(t *testing.T) {
	fake, _ := withFakeSyslog(t)

	s, err := OpenScope(ScopeOptions{Env: "prod", Level: "info", Target: TargetSyslog})
	require.NoError(t, err)
	s.Debug(nil, "hidden")
	s.Info(nil, "shown")
	require.NoError(t, s.Close())

	require.Len(t, fake.lines, 1)
	assert.Contains(t, fake.lines[0], "shown")
}

func TestOpenScope_AuditBypassesLevel(t *testing.T) {
	fake, _ := withFakeSyslog(t)

	s, err := OpenScope(ScopeOptions{Env: "prod", Level: "error", Target: TargetSyslog})
	require.NoError(t, err)
	s.Info(nil, "hidden")
	s.Warn(nil, "hidden too")
	s.Audit(map[string]any{"list": "blk1"}, "203.0.113.5 is listed in blk1")
	require.NoError(t, s.Close())

	require.Len(t, fake.lines, 1)
	assert.True(t, strings.HasPrefix(fake.lines[0], "info:"))
	assert.Contains(t, fake.lines[0], "203.0.113.5 is listed in blk1")
	assert.Contains(t, fake.lines[0], "blk1")
}

func TestOpenScope_StderrWriter(t *testing.T) {
	var buf bytes.Buffer

	s, err := OpenScope(ScopeOptions{Env: "prod", Level: "error", Target: TargetStderr, Stderr: &buf})
	require.NoError(t, err)
	s.Info(nil, "hidden")
	s.Audit(nil, "always")
	require.NoError(t, s.Close())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"always"`)
	assert.Contains(t, out, `"ident":"pam_rbld"`)
}

func TestOpenScope_DebugOverridesLevel(t *testing.T) {
	fake, ident := withFakeSyslog(t)

	s, err := OpenScope(ScopeOptions{Env: "prod", Level: "error", Target: TargetSyslog, Debug: true})
	require.NoError(t, err)
	s.Debug(nil, "query string")
	require.NoError(t, s.Close())

	assert.Equal(t, IdentDebug, *ident)
	require.Len(t, fake.lines, 1)
	assert.Contains(t, fake.lines[0], "query string")
}

func TestOpenScope_CloseIsIdempotent(t *testing.T) {
	fake, _ := withFakeSyslog(t)

	s, err := OpenScope(ScopeOptions{Level: "info", Target: TargetSyslog})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, fake.closed)
}

func TestOpenScope_SyslogDialError(t *testing.T) {
	orig := dialSyslog
	dialSyslog = func(string) (syslogWriter, error) { return nil, errors.New("no socket") }
	defer func() { dialSyslog = orig }()

	s, err := OpenScope(ScopeOptions{Level: "info", Target: TargetSyslog})
	assert.Nil(t, s)
	assert.ErrorContains(t, err, "no socket")
}

func TestOpenScope_Stderr(t *testing.T) {
	for _, env := range []string{"dev", "prod"} {
		s, err := OpenScope(ScopeOptions{Env: env, Level: "info", Target: TargetStderr})
		require.NoError(t, err)
		s.Info(nil, "stderr scope")
		assert.NoError(t, s.Close())
	}
}

func TestOpenScope_InvalidInputs(t *testing.T) {
	_, err := OpenScope(ScopeOptions{Level: "loud", Target: TargetStderr})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = OpenScope(ScopeOptions{Level: "info", Target: "journald"})
	assert.ErrorContains(t, err, "unsupported log target")
}

func TestWrapScope(t *testing.T) {
	tlog := &testLogger{}
	s := WrapScope(tlog)
	s.Warn(nil, "fallback")
	s.Audit(nil, "listed")
	assert.NoError(t, s.Close())
	assert.Equal(t, []string{"WARN:fallback", "INFO:listed"}, tlog.entries)
}

func TestSyslogCore_WithKeepsFields(t *testing.T) {
	fake := &fakeSyslog{}
	enc := encoderConfig(false)
	enc.TimeKey = ""
	core := newSyslogCore(zapcore.NewConsoleEncoder(enc), fake, zapcore.InfoLevel)

	child := core.With([]zapcore.Field{{Key: "service", Type: zapcore.StringType, String: "dovecot"}})
	require.NoError(t, child.Write(zapcore.Entry{Level: zapcore.DPanicLevel, Message: "boom"}, nil))
	require.NoError(t, core.Sync())

	require.Len(t, fake.lines, 1)
	assert.True(t, strings.HasPrefix(fake.lines[0], "crit:"))
	assert.Contains(t, fake.lines[0], "dovecot")
	assert.False(t, core.Enabled(zapcore.DebugLevel))
}
