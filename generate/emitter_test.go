package generate

import (
	"bytes"
	"errors"
	"testing"

	"texlerc/ast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct {
	writes int
}

func (fw *failingWriter) Write(p []byte) (int, error) {
	fw.writes++
	return 0, errors.New("disk full")
}

func TestEmitter_IndentsBlocks(t *testing.T) {
	var buf bytes.Buffer
	e := newEmitter(&buf)

	e.open("if (%s)", "x")
	e.linef("y = %d;", 1)
	e.reopen("else")
	e.line("y = 2;")
	e.close()

	want := "if (x) {\n    y = 1;\n} else {\n    y = 2;\n}\n"
	assert.Equal(t, want, buf.String())
}

func TestEmitter_LineIsVerbatim(t *testing.T) {
	var buf bytes.Buffer
	e := newEmitter(&buf)

	// runtime statements may contain format verbs of their own
	e.line(`fprintf(stderr, "%ld\n", n);`)
	e.linef("x = %d;", 2)

	assert.Equal(t, "fprintf(stderr, \"%ld\\n\", n);\nx = 2;\n", buf.String())
}

func TestEmitter_KeepsFirstError(t *testing.T) {
	fw := &failingWriter{}
	e := newEmitter(fw)

	e.line("a;")
	e.line("b;")
	e.blank()

	require.Error(t, e.err)
	assert.Equal(t, 1, fw.writes)
}

func TestScope_PendingIsLastInFirstOut(t *testing.T) {
	s := &scope{}
	s.push("a", "free_texlerobject(a);")
	s.push("b", "free(b);")
	s.push("c", "free_texlerobject(c);")

	got := s.pending(map[string]bool{"b": true})

	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].name)
	assert.Equal(t, "a", got[1].name)
}

func TestScope_DisownSearchesEnclosingScopes(t *testing.T) {
	ctx, _ := newTestContext()
	var buf bytes.Buffer
	g := newGenerator(ctx, &buf)

	g.pushScope()
	g.own("outer", "free(outer);")
	g.pushScope()
	g.disown("outer")
	g.popScope(true)
	g.popScope(true)

	assert.Empty(t, buf.String())
}

func TestScope_EarlyReturnReleasesEveryScope(t *testing.T) {
	ctx, _ := newTestContext()
	var buf bytes.Buffer
	g := newGenerator(ctx, &buf)
	g.fn = &ast.Function{Name: "f"}

	g.pushScope()
	g.own("a", "free_texlerobject(a);")
	g.openBlock("")
	g.own("b", "free(b);")
	g.emitGuard("b == NULL", "a")
	g.closeBlock()
	g.popScope(true)

	want := "{\n" +
		"    if (b == NULL) {\n" +
		"        free(b);\n" +
		"        return 1;\n" +
		"    }\n" +
		"    free(b);\n" +
		"}\n" +
		"free_texlerobject(a);\n"
	assert.Equal(t, want, buf.String())
}

func TestNames_ReservedNamesArePrefixed(t *testing.T) {
	assert.Equal(t, "_texler_lines", cName("lines"))
	assert.Equal(t, "_texler_int", cName("int"))
	assert.Equal(t, "count", cName("count"))
}

func TestNames_LiteralTextUsesSixSignificantDigits(t *testing.T) {
	assert.Equal(t, "3.14159", literalText(&ast.Variable{Kind: ast.KindNumber, Number: 3.14159265}))
	assert.Equal(t, "0.1", literalText(&ast.Variable{Kind: ast.KindNumber, Number: 0.1}))
	assert.Equal(t, "1e+20", literalText(&ast.Variable{Kind: ast.KindNumber, Number: 1e20}))
	assert.Equal(t, "12", literalText(&ast.Variable{Kind: ast.KindNumber, Number: 12}))
}
