package astio

import (
	"path/filepath"
	"testing"

	"texlerc/ast"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_ResolvesReferences(t *testing.T) {
	// Act
	prog, err := LoadFile(filepath.Join("testdata", "columns.yaml"))

	// Assert
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)
	assert.Equal(t, "greet", prog.Functions[0].Name)
	require.NotNil(t, prog.Functions[0].Return)
	assert.Equal(t, "message", prog.Functions[0].Return.Name)

	entry := prog.Entry
	require.Len(t, entry.Params, 1)
	require.Len(t, entry.Body, 4)

	input := entry.Body[0].(*ast.FileDecl)
	assert.Equal(t, []string{","}, input.Separators)
	assert.True(t, input.Var.IsFile())

	block := entry.Body[2].(*ast.FileBlock)
	assert.Same(t, input.Var, block.File)

	loop := block.Body[0].(*ast.Loop)
	chain := loop.Iterable.(*ast.CallChain)
	kinds := make([]ast.StepKind, len(chain.Steps))
	for i, step := range chain.Steps {
		kinds[i] = step.Kind
	}
	assert.Equal(t, []ast.StepKind{ast.StepColumns, ast.StepLines, ast.StepByIndex}, kinds)

	// the byIndex argument is the parameter itself, not a copy
	arg := chain.Steps[2].Args[0].(*ast.VarRef)
	assert.Same(t, entry.Params[0], arg.Var)

	assign := loop.Action.(*ast.Assignment)
	assert.Same(t, loop.Var, assign.Value.(*ast.VarRef).Var)

	cond := entry.Body[3].(*ast.Conditional)
	assert.IsType(t, &ast.Noop{}, cond.Else)
}

func TestDecodeBytes_Literals(t *testing.T) {
	src := `
entry:
  name: main
  body:
    - declare: {name: a, number: 2.5}
    - declare: {name: b, bool: true}
    - declare: {name: c, const: {string: "x"}}
`
	prog, err := DecodeBytes([]byte(src))
	require.NoError(t, err)

	got := make([]*ast.Variable, 0, 3)
	for _, expr := range prog.Entry.Body {
		got = append(got, expr.(*ast.VarDecl).Var)
	}

	want := []*ast.Variable{
		{Name: "a", Kind: ast.KindNumber, Number: 2.5},
		{Name: "b", Kind: ast.KindBoolean, Boolean: true},
		{Name: "c", Kind: ast.KindConstant, Const: &ast.Variable{Kind: ast.KindString, Text: "x"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBytes_ConditionalKeepsBothBranches(t *testing.T) {
	src := `
entry:
  name: f
  body:
    - declare: {name: a, number: 1}
    - if:
        cond: {eq: [{ref: a}, {number: 1}]}
        then: {assign: {to: a, value: {number: 3}}}
        else: {assign: {to: a, value: {number: 4}}}
`
	// Act
	prog, err := DecodeBytes([]byte(src))

	// Assert
	require.NoError(t, err)
	cond := prog.Entry.Body[1].(*ast.Conditional)

	then, ok := cond.Then.(*ast.Assignment)
	require.True(t, ok, "then branch is %T", cond.Then)
	assert.Equal(t, 3.0, then.Value.(*ast.Literal).Var.Number)

	elseExpr, ok := cond.Else.(*ast.Assignment)
	require.True(t, ok, "else branch is %T", cond.Else)
	assert.Equal(t, 4.0, elseExpr.Value.(*ast.Literal).Var.Number)
	assert.Same(t, prog.Entry.Body[0].(*ast.VarDecl).Var, elseExpr.Dest)
}

func TestDecodeBytes_ConstantDeclarationIsUsable(t *testing.T) {
	src := `
entry:
  name: f
  body:
    - declare: {name: c, const: {number: 7}}
    - declare: {name: d, number: 0}
    - assign: {to: d, value: {ref: c}}
`
	prog, err := DecodeBytes([]byte(src))

	require.NoError(t, err)
	c := prog.Entry.Body[0].(*ast.VarDecl).Var
	assert.Equal(t, ast.KindConstant, c.Kind)
	require.NotNil(t, c.Const)
	assert.Equal(t, 7.0, c.Literal().Number)
}

func TestDecodeBytes_Errors(t *testing.T) {
	cases := map[string]string{
		"no entry": "functions: []\n",
		"unknown variable": `
entry:
  name: f
  body:
    - assign: {to: x, value: {number: 1}}
`,
		"duplicate declaration": `
entry:
  name: f
  body:
    - declare: {name: x, number: 1}
    - declare: {name: x, number: 2}
`,
		"reserved name": `
entry:
  name: f
  body:
    - declare: {name: _x, number: 1}
`,
		"loop variable out of scope": `
entry:
  name: f
  body:
    - declare: {name: x, number: 1}
    - loop: {var: i, in: {range: [1, 3]}, do: {noop: {}}}
    - assign: {to: x, value: {ref: i}}
`,
		"separator of bad type": `
entry:
  name: f
  body:
    - file: {name: input, path: "a", separators: [1]}
`,
		"invalid range": `
entry:
  name: f
  body:
    - loop: {var: i, in: {range: [5, 1]}, do: {noop: {}}}
`,
		"unknown step": `
entry:
  name: f
  body:
    - file: {name: input, path: "a"}
    - loop: {var: l, in: {call: {receiver: input, steps: [{words: []}]}}, do: {noop: {}}}
`,
		"missing return": `
entry:
  name: f
  return: r
  body: []
`,
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(src))
			require.Error(t, err)
		})
	}
}

func TestDecodeError_IncludesLine(t *testing.T) {
	src := "entry:\n  name: f\n  body:\n    - assign: {to: x, value: {number: 1}}\n"

	_, err := DecodeBytes([]byte(src))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "variable `x` not found")
}
