package generate

import (
	"io"

	"texlerc/ast"
	"texlerc/report"
)

// Generator is responsible for converting a program into C source text.  A
// generator is used for exactly one run.
type Generator struct {
	ctx *Context
	rep *report.Reporter
	e   *emitter

	// fn is the function currently being generated.
	fn *ast.Function

	// scope is the innermost release scope.
	scope *scope

	// bindings maps the variables bound by enclosing loops to their C
	// representation.
	bindings map[*ast.Variable]*binding

	// files is the stack of working files established by file blocks.
	files []*ast.Variable

	// iters is the stack of line iterations currently open.
	iters []*iterState

	// counter numbers generated temporaries.
	counter int
}

func newGenerator(ctx *Context, w io.Writer) *Generator {
	return &Generator{
		ctx:      ctx,
		rep:      ctx.Reporter,
		e:        newEmitter(w),
		bindings: make(map[*ast.Variable]*binding),
	}
}

// bindingKind is the C representation of a loop-bound variable.
type bindingKind int

const (
	bindCounter bindingKind = iota // a zero-based `long` counter
	bindText                       // a `char *` line or column
)

// binding is the C representation of a loop-bound variable.
type binding struct {
	kind  bindingKind
	cname string
}

// value returns the C expression of the bound value.  Counters are exposed
// one-based.
func (b *binding) value() string {
	if b.kind == bindCounter {
		return "(" + b.cname + " + 1)"
	}

	return b.cname
}

// bind binds v to a C representation and returns a function restoring the
// previous binding.
func (g *Generator) bind(v *ast.Variable, kind bindingKind, cname string) func() {
	prev, hadPrev := g.bindings[v]
	g.bindings[v] = &binding{kind: kind, cname: cname}

	return func() {
		if hadPrev {
			g.bindings[v] = prev
		} else {
			delete(g.bindings, v)
		}
	}
}

// iterState describes a line iteration that is currently open.
type iterState struct {
	// file is the C name of the open file being read.
	file string

	// line is the C name of the current line buffer.
	line string

	// length is the C name of the current line length.
	length string
}

// workingFile returns the working file established by the innermost file
// block.
func (g *Generator) workingFile() *ast.Variable {
	if len(g.files) == 0 {
		return nil
	}

	return g.files[len(g.files)-1]
}

// currentIter returns the innermost open line iteration.
func (g *Generator) currentIter() *iterState {
	if len(g.iters) == 0 {
		return nil
	}

	return g.iters[len(g.iters)-1]
}

// -----------------------------------------------------------------------------

// lowerList lowers an expression list in its own release scope.  The scope's
// releases are emitted when the list completes.
func (g *Generator) lowerList(exprs []ast.Expr) (ok bool) {
	g.pushScope()
	defer func() {
		g.popScope(ok)
	}()

	for _, expr := range exprs {
		if !g.lowerExpr(expr) {
			return false
		}
	}

	return true
}

// lowerExpr lowers a single expression.
func (g *Generator) lowerExpr(expr ast.Expr) bool {
	switch v := expr.(type) {
	case *ast.VarDecl:
		return g.lowerVarDecl(v)
	case *ast.FileDecl:
		return g.lowerFileDecl(v)
	case *ast.Assignment:
		return g.lowerAssignment(v)
	case *ast.Loop:
		return g.lowerLoop(v)
	case *ast.Conditional:
		return g.lowerConditional(v)
	case *ast.FileBlock:
		return g.lowerFileBlock(v)
	case *ast.Block:
		return g.lowerBlock(v.Body)
	case *ast.Noop:
		return true
	case *ast.CallChain, *ast.List, *ast.VarRef, *ast.Literal,
		*ast.NumberArith, *ast.StringArith, *ast.Compare, *ast.TypeTest:
		g.rep.ReportWarning(report.MKUnimplemented, g.fnName(), "expression has no effect and was skipped")
		return true
	default:
		g.rep.ReportWarning(report.MKUnimplemented, g.fnName(), "unknown expression kind was skipped")
		return true
	}
}

// lowerBlock lowers a nested expression list inside its own C block.
func (g *Generator) lowerBlock(body []ast.Expr) bool {
	g.e.open("")
	if !g.lowerList(body) {
		return false
	}
	g.e.close()

	return true
}

// lowerFileBlock lowers the body of a file block with its file established
// as the working file.
func (g *Generator) lowerFileBlock(fb *ast.FileBlock) bool {
	if fb.File == nil || !fb.File.IsFile() {
		name := ""
		if fb.File != nil {
			name = fb.File.Name
		}

		g.rep.ReportError(report.MKInvalidFileHandler, name, "file block must be given a declared file")
		return false
	}

	g.files = append(g.files, fb.File)
	defer func() {
		g.files = g.files[:len(g.files)-1]
	}()

	return g.lowerBlock(fb.Body)
}

// fnName returns the name of the current function for diagnostics.
func (g *Generator) fnName() string {
	if g.fn == nil {
		return ""
	}

	return g.fn.Name
}
