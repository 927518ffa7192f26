package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter(level int) (*Reporter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewReporter(level, WithWriter(buf), WithExitOnFatal(false)), buf
}

func TestReporter_ErrorsAreCountedAndDisplayed(t *testing.T) {
	r, buf := newTestReporter(LogLevelError)

	r.ReportError(MKInvalidFileName, "data", "Invalid file variable name `%s`", "data")

	require.True(t, r.AnyErrors())
	assert.Equal(t, 1, r.ErrorCount())
	assert.Contains(t, buf.String(), "Invalid file variable name `data`")
	assert.Contains(t, buf.String(), "File Name Error")
}

func TestReporter_WarningsAreBufferedUntilFinish(t *testing.T) {
	r, buf := newTestReporter(LogLevelWarn)

	r.ReportWarning(MKUnimplemented, "remove", "string subtraction has no effect")

	assert.False(t, r.AnyErrors())
	assert.Empty(t, buf.String())
	require.Len(t, r.Warnings(), 1)

	ok := r.Finish("out.c")

	assert.True(t, ok)
	assert.Contains(t, buf.String(), "string subtraction has no effect")
}

func TestReporter_SilentDisplaysNothing(t *testing.T) {
	r, buf := newTestReporter(LogLevelSilent)

	r.ReportError(MKFunction, "main", "Error in function")
	r.ReportStdError("Config", errors.New("bad"))
	r.ReportInfo("Info", "hello")

	assert.Equal(t, 2, r.ErrorCount())
	assert.Empty(t, buf.String())
	assert.False(t, r.Finish("out.c"))
}

func TestReporter_FatalAndICEDoNotExitWhenDisabled(t *testing.T) {
	r, buf := newTestReporter(LogLevelVerbose)

	r.ReportFatal("cannot open %s", "x.yaml")
	r.ReportICE("nil output sink")

	assert.Equal(t, 2, r.ErrorCount())
	assert.Contains(t, buf.String(), "cannot open x.yaml")
	assert.Contains(t, buf.String(), "nil output sink")
	assert.Contains(t, buf.String(), "Internal Compiler Error")
}

func TestReporter_PhasesReportOutcome(t *testing.T) {
	r, buf := newTestReporter(LogLevelVerbose)

	r.BeginPhase("Decoding")
	r.BeginPhase("Generating")
	r.EndPhase(true)

	out := buf.String()
	assert.Contains(t, out, "Decoding...")
	assert.Contains(t, out, "Generating...")
	assert.Contains(t, out, "Done")
}

func TestLogLevelFromName(t *testing.T) {
	cases := map[string]int{
		"silent":  LogLevelSilent,
		"error":   LogLevelError,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"verbose": LogLevelVerbose,
		"bogus":   LogLevelVerbose,
	}

	for name, want := range cases {
		assert.Equal(t, want, LogLevelFromName(name), name)
	}

	assert.False(t, IsValidLogLevelName("bogus"))
	assert.True(t, IsValidLogLevelName("warn"))
}
