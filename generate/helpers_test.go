package generate

import (
	"bytes"
	"strings"
	"testing"

	"texlerc/ast"
	"texlerc/report"

	"github.com/stretchr/testify/require"
)

func newTestContext() (*Context, *bytes.Buffer) {
	logs := &bytes.Buffer{}
	rep := report.NewReporter(report.LogLevelVerbose, report.WithWriter(logs), report.WithExitOnFatal(false))
	return NewContext(rep), logs
}

// mustGenerate generates prog and fails the test if generation fails.
func mustGenerate(t *testing.T, prog *ast.Program) string {
	t.Helper()

	ctx, logs := newTestContext()
	var out bytes.Buffer
	ok := Generate(ctx, prog, &out)
	require.True(t, ok, "generation failed:\n%s", logs.String())

	return out.String()
}

// mustFail generates prog, expects generation to fail and returns the
// diagnostics.
func mustFail(t *testing.T, prog *ast.Program) (*report.Reporter, string) {
	t.Helper()

	ctx, logs := newTestContext()
	var out bytes.Buffer
	ok := Generate(ctx, prog, &out)
	require.False(t, ok, "generation should have failed")

	return ctx.Reporter, logs.String()
}

// functionBody extracts the definition of a function from generated code.
func functionBody(t *testing.T, out, signature string) string {
	t.Helper()

	start := strings.Index(out, signature+" {\n")
	require.GreaterOrEqual(t, start, 0, "function %q not found", signature)

	end := strings.Index(out[start:], "\n}\n")
	require.GreaterOrEqual(t, end, 0)

	return out[start : start+end+3]
}

// -----------------------------------------------------------------------------

func program(body ...ast.Expr) *ast.Program {
	return &ast.Program{Entry: &ast.Function{Name: "process", Body: body}}
}

func numVar(name string, n float64) *ast.Variable {
	return &ast.Variable{Name: name, Kind: ast.KindNumber, Number: n}
}

func strVar(name, text string) *ast.Variable {
	return &ast.Variable{Name: name, Kind: ast.KindString, Text: text}
}

func fileVar(name, path string) *ast.Variable {
	return &ast.Variable{Name: name, Kind: ast.KindFilePath, Text: path}
}

func loopVar(name string) *ast.Variable {
	return &ast.Variable{Name: name, Kind: ast.KindLoop}
}

func num(n float64) *ast.Literal {
	return &ast.Literal{Var: &ast.Variable{Kind: ast.KindNumber, Number: n}}
}

func str(text string) *ast.Literal {
	return &ast.Literal{Var: &ast.Variable{Kind: ast.KindString, Text: text}}
}

func ref(v *ast.Variable) *ast.VarRef {
	return &ast.VarRef{Var: v}
}

func rng(from, to int64) *ast.List {
	return &ast.List{Kind: ast.ListRange, From: from, To: to}
}

func chain(recv *ast.Variable, steps ...ast.CallStep) *ast.CallChain {
	return &ast.CallChain{Receiver: recv, Steps: steps}
}

func step(kind ast.StepKind, args ...ast.Expr) ast.CallStep {
	return ast.CallStep{Kind: kind, Args: args}
}

// countBraces counts the braces of generated code.  Generated code never
// puts braces inside string or character literals.
func countBraces(out string) (int, int) {
	return strings.Count(out, "{"), strings.Count(out, "}")
}
