package generate

import (
	"fmt"
	"io"
	"strings"
)

// emitter writes indented C source text to an output sink.  The first write
// error is kept and every later write is skipped.
type emitter struct {
	w      io.Writer
	err    error
	indent int
}

func newEmitter(w io.Writer) *emitter {
	return &emitter{w: w}
}

// raw writes s exactly as given.
func (e *emitter) raw(s string) {
	if e.err != nil {
		return
	}

	_, e.err = io.WriteString(e.w, s)
}

// line writes one indented line verbatim.
func (e *emitter) line(s string) {
	e.raw(strings.Repeat("    ", e.indent) + s + "\n")
}

// linef formats and writes one indented line.
func (e *emitter) linef(format string, args ...interface{}) {
	e.line(fmt.Sprintf(format, args...))
}

// lines writes a block of lines (separated by newlines) at the current
// indentation.
func (e *emitter) lines(block string) {
	for _, l := range strings.Split(block, "\n") {
		e.line(l)
	}
}

// blank writes an empty line.
func (e *emitter) blank() {
	e.raw("\n")
}

// open writes a line ending in an opening brace and indents.
func (e *emitter) open(format string, args ...interface{}) {
	if format == "" {
		e.line("{")
	} else {
		e.linef(format+" {", args...)
	}

	e.indent++
}

// close dedents and writes a closing brace.
func (e *emitter) close() {
	e.indent--
	e.line("}")
}

// reopen closes the current block and opens another one on the same line:
// used for `} else {`.
func (e *emitter) reopen(format string, args ...interface{}) {
	e.indent--
	e.linef("} "+format+" {", args...)
	e.indent++
}

// reset discards indentation state between functions.
func (e *emitter) reset() {
	e.indent = 0
}
