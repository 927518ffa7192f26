package generate

import (
	"fmt"
	"io"
	"os"

	"texlerc/ast"
	"texlerc/common"
	"texlerc/report"
)

// Runtime holds the settings baked into the runtime library of every
// generated program.
type Runtime struct {
	// BufferSize is the initial size of line buffers.
	BufferSize int

	// DefaultSeparators is the separator set of files declared without one.
	DefaultSeparators string
}

// Context is the state shared by the whole generation run.  It is passed to
// the generator explicitly: the generator keeps no package-level state.
type Context struct {
	Reporter *report.Reporter
	Runtime  Runtime
}

// NewContext creates a context with the default runtime settings.
func NewContext(rep *report.Reporter) *Context {
	return &Context{
		Reporter: rep,
		Runtime: Runtime{
			BufferSize:        common.DefaultBufferSize,
			DefaultSeparators: common.DefaultSeparators,
		},
	}
}

// Generate emits the C program for prog to w.  It returns whether generation
// succeeded.  On failure, w may hold a partial program.
func Generate(ctx *Context, prog *ast.Program, w io.Writer) bool {
	ctx.ensureReporter()

	if w == nil {
		ctx.Reporter.ReportICE("generator called with a nil output sink")
		return false
	}

	if prog == nil || prog.Entry == nil {
		ctx.Reporter.ReportICE("generator called without an entry function")
		return false
	}

	g := newGenerator(ctx, w)
	ok := g.generateProgram(prog)

	if g.e.err != nil {
		ctx.Reporter.ReportStdError("Output Error", g.e.err)
		return false
	}

	return ok
}

// GenerateFile creates (or truncates) the file at path and generates the
// program into it.
func GenerateFile(ctx *Context, prog *ast.Program, path string) bool {
	ctx.ensureReporter()

	f, err := os.Create(path)
	if err != nil {
		ctx.Reporter.ReportStdError("Output Error", fmt.Errorf("error creating output file: %w", err))
		return false
	}
	defer f.Close()

	return Generate(ctx, prog, f)
}

// ensureReporter gives a context without a reporter one that only displays
// errors.
func (ctx *Context) ensureReporter() {
	if ctx.Reporter == nil {
		ctx.Reporter = report.NewReporter(report.LogLevelError)
	}
}
