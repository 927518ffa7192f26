package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during generation.  The reporter respects the set log
// level and is synchronized: its methods can be safely called from multiple
// goroutines.  Every generation run is handed its own reporter; there is no
// global instance.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// errorCount is the number of errors reported so far.
	errorCount int

	// warnings are buffered and displayed when the run finishes.
	warnings []Message

	// out is where all messages are written.
	out io.Writer

	// exitOnFatal controls whether fatal errors and ICEs terminate the
	// process or merely get recorded (used by tests and library callers).
	exitOnFatal bool

	// phase is the currently running phase (if any).
	phase *phaseDisplay

	startTime time.Time
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all messages to the user (default).
)

// Option configures a reporter on construction.
type Option func(*Reporter)

// WithWriter redirects all reporter output to w.
func WithWriter(w io.Writer) Option {
	return func(r *Reporter) {
		r.out = w
	}
}

// WithExitOnFatal sets whether fatal errors exit the process.
func WithExitOnFatal(exit bool) Option {
	return func(r *Reporter) {
		r.exitOnFatal = exit
	}
}

// NewReporter creates a new reporter with the given log level.  By default,
// the reporter writes to standard out and exits on fatal errors.
func NewReporter(logLevel int, opts ...Option) *Reporter {
	r := &Reporter{
		m:           &sync.Mutex{},
		logLevel:    logLevel,
		out:         os.Stdout,
		exitOnFatal: true,
		startTime:   time.Now(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// LogLevelFromName converts a log level name into its enumerated value.
// Everything else (including invalid log levels) defaults to verbose.
func LogLevelFromName(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	default:
		return LogLevelVerbose
	}
}

// IsValidLogLevelName returns whether the name is one of the known log levels.
func IsValidLogLevelName(name string) bool {
	switch name {
	case "silent", "error", "warn", "warning", "verbose":
		return true
	}

	return false
}

// handleMsg prompts the reporter to process a message.  Errors are displayed
// immediately and warnings are saved until the run finishes.
func (r *Reporter) handleMsg(msg Message) {
	r.m.Lock()
	defer r.m.Unlock()

	if msg.isError() {
		r.errorCount++

		if r.logLevel > LogLevelSilent {
			r.endPhase(false)
			msg.display(r.out)
		}
	} else {
		r.warnings = append(r.warnings, msg)
	}
}

// AnyErrors returns whether or not any errors have been reported.
func (r *Reporter) AnyErrors() bool {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount > 0
}

// ErrorCount returns the number of reported errors.
func (r *Reporter) ErrorCount() int {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount
}

// Warnings returns the buffered warnings.
func (r *Reporter) Warnings() []Message {
	r.m.Lock()
	defer r.m.Unlock()

	return append([]Message(nil), r.warnings...)
}

// -----------------------------------------------------------------------------

// ReportError reports a named generation error.  The name is the offending
// construct (variable, function, step) and may be empty.
func (r *Reporter) ReportError(kind int, name string, msg string, args ...interface{}) {
	r.handleMsg(&GenMessage{
		Kind:    kind,
		Name:    name,
		Message: fmt.Sprintf(msg, args...),
		IsError: true,
	})
}

// ReportWarning reports a named generation warning.
func (r *Reporter) ReportWarning(kind int, name string, msg string, args ...interface{}) {
	r.handleMsg(&GenMessage{
		Kind:    kind,
		Name:    name,
		Message: fmt.Sprintf(msg, args...),
		IsError: false,
	})
}

// ReportStdError reports a standard Go error (config, input document).
func (r *Reporter) ReportStdError(tag string, err error) {
	r.handleMsg(&StdError{Tag: tag, Err: err})
}

// ReportInfo displays an informational message if the log level is verbose.
func (r *Reporter) ReportInfo(tag, msg string) {
	if r.logLevel == LogLevelVerbose {
		r.m.Lock()
		defer r.m.Unlock()

		displayInfoMessage(r.out, tag, msg)
	}
}

// ReportFatal reports a fatal error and exits the program (if configured to).
func (r *Reporter) ReportFatal(msg string, args ...interface{}) {
	r.m.Lock()
	r.errorCount++
	r.endPhase(false)
	displayFatalError(r.out, fmt.Sprintf(msg, args...), false)
	r.m.Unlock()

	if r.exitOnFatal {
		os.Exit(1)
	}
}

// ReportICE reports an internal compiler error: the generator reached a state
// it should never be in.
func (r *Reporter) ReportICE(msg string, args ...interface{}) {
	r.m.Lock()
	r.errorCount++
	r.endPhase(false)
	displayFatalError(r.out, fmt.Sprintf(msg, args...), true)
	r.m.Unlock()

	if r.exitOnFatal {
		os.Exit(-1)
	}
}

// -----------------------------------------------------------------------------
// Below are all the "aesthetic" reporting functions that will only run if the
// log level is verbose.

// ReportHeader displays the tool version and the input being compiled.
func (r *Reporter) ReportHeader(input string) {
	if r.logLevel == LogLevelVerbose {
		r.m.Lock()
		defer r.m.Unlock()

		displayHeader(r.out, input)
	}
}

// BeginPhase starts a named phase of the run.
func (r *Reporter) BeginPhase(name string) {
	if r.logLevel == LogLevelVerbose {
		r.m.Lock()
		defer r.m.Unlock()

		r.endPhase(true)
		r.phase = beginPhase(r.out, name)
	}
}

// EndPhase ends the current phase.
func (r *Reporter) EndPhase(success bool) {
	r.m.Lock()
	defer r.m.Unlock()

	r.endPhase(success)
}

// endPhase ends the current phase without locking.
func (r *Reporter) endPhase(success bool) {
	if r.phase != nil {
		r.phase.end(success)
		r.phase = nil
	}
}

// Finish displays all buffered warnings and the closing message.  It returns
// whether the run was successful.
func (r *Reporter) Finish(outputPath string) bool {
	r.m.Lock()
	defer r.m.Unlock()

	r.endPhase(r.errorCount == 0)

	if r.logLevel >= LogLevelWarn {
		for _, warning := range r.warnings {
			warning.display(r.out)
		}
	}

	if r.logLevel == LogLevelVerbose {
		displayFinished(r.out, r.errorCount, len(r.warnings), outputPath, time.Since(r.startTime))
	}

	return r.errorCount == 0
}
