package generate

import (
	"texlerc/ast"
	"texlerc/common"
	"texlerc/report"
)

// operandKind is the C form an operand takes.
type operandKind int

const (
	opObject  operandKind = iota // a `TexlerObject *` holding a value
	opFile                       // a `TexlerObject *` holding a file
	opCounter                    // a one-based `long` loop counter
	opText                       // a `char *` loop line or column
	opLiteral                    // a literal known at generation time
)

// operand is an expression that can be used as the operand of an operator,
// a comparison or an assignment.
type operand struct {
	kind operandKind

	// expr is the C expression of the operand (unused for literals).
	expr string

	// lit is the literal payload (literals only).
	lit *ast.Variable

	// name is the source name used in diagnostics.
	name string
}

// operandOf classifies an expression as an operand.  Anything that is not a
// variable reference or a literal is not an operand.
func (g *Generator) operandOf(expr ast.Expr) (operand, bool) {
	switch v := expr.(type) {
	case *ast.VarRef:
		return g.variableOperand(v.Var)
	case *ast.Literal:
		return operand{kind: opLiteral, lit: v.Var.Literal(), name: literalText(v.Var.Literal())}, true
	}

	return operand{}, false
}

// variableOperand classifies a variable as an operand.
func (g *Generator) variableOperand(v *ast.Variable) (operand, bool) {
	if b, ok := g.bindings[v]; ok {
		if b.kind == bindCounter {
			return operand{kind: opCounter, expr: b.value(), name: v.Name}, true
		}

		return operand{kind: opText, expr: b.value(), name: v.Name}, true
	}

	switch v.Kind {
	case ast.KindFilePath:
		return operand{kind: opFile, expr: varName(v), name: v.Name}, true
	case ast.KindLoop:
		g.rep.ReportError(report.MKVariableNotFound, v.Name, "loop variable `%s` used outside of its loop", v.Name)
		return operand{}, false
	default:
		return operand{kind: opObject, expr: varName(v), name: v.Name}, true
	}
}

// -----------------------------------------------------------------------------

// emitSetLiteral stores a literal in the runtime value named target.  A fresh
// target was just allocated and holds nothing yet.
func (g *Generator) emitSetLiteral(target string, lit *ast.Variable, fresh bool) {
	if !fresh {
		g.e.linef("clear_texlerobject(%s);", target)
	}

	switch lit.Kind {
	case ast.KindNumber:
		if isIntegral(lit.Number) {
			g.e.linef("%s->type = TYPE_T_INTEGER;", target)
			g.e.linef("%s->value.integer = %d;", target, int64(lit.Number))
		} else {
			g.e.linef("%s->type = TYPE_T_REAL;", target)
			g.e.linef("%s->value.real = %s;", target, common.CFloat(lit.Number))
		}
	case ast.KindBoolean:
		g.e.linef("%s->type = TYPE_T_BOOLEAN;", target)
		if lit.Boolean {
			g.e.linef("%s->value.boolean = true;", target)
		} else {
			g.e.linef("%s->value.boolean = false;", target)
		}
	default:
		g.e.linef("%s->type = TYPE_T_STRING;", target)
		g.e.linef("%s->value.string.value = strdup(%s);", target, common.CQuote(lit.Text))
		g.emitAllocGuard(target + "->value.string.value")
		g.e.linef("%s->value.string.len = %d;", target, len(lit.Text))
	}
}

// emitDeclare allocates a fresh runtime value named name, guards the
// allocation and hands the value to the current scope.
func (g *Generator) emitDeclare(name string) {
	g.e.linef("TexlerObject *%s = calloc(1, sizeof(TexlerObject));", name)
	g.emitAllocGuard(name)
	g.own(name, "free_texlerobject("+name+");")
}

// materialize turns an operand into a runtime value.  Literals, counters and
// text are copied into a fresh temporary owned by the current scope; values
// are returned as is.
func (g *Generator) materialize(op operand, prefix string) string {
	switch op.kind {
	case opObject, opFile:
		return op.expr
	}

	name := g.tmp(prefix)
	g.emitDeclare(name)

	switch op.kind {
	case opLiteral:
		g.emitSetLiteral(name, op.lit, true)
	case opCounter:
		g.e.linef("%s->type = TYPE_T_INTEGER;", name)
		g.e.linef("%s->value.integer = %s;", name, op.expr)
	case opText:
		g.e.linef("set_string(%s, %s);", name, op.expr)
	}

	return name
}

// textOf returns a heap copy of the operand's text owned by the current
// scope.  Files have no text.
func (g *Generator) textOf(op operand, prefix string) (string, bool) {
	name := g.tmp(prefix)

	switch op.kind {
	case opLiteral:
		g.e.linef("char *%s = strdup(%s);", name, common.CQuote(literalText(op.lit)))
		g.emitAllocGuard(name)
	case opText:
		g.e.linef("char *%s = strdup(%s);", name, op.expr)
		g.emitAllocGuard(name)
	case opCounter:
		g.e.linef("char *%s = format_long(%s);", name, op.expr)
	case opObject:
		g.e.linef("char *%s = toString(%s);", name, op.expr)
		g.emitGuard(name + " == NULL")
	default:
		g.rep.ReportError(report.MKInvalidOperand, op.name, "file `%s` cannot be used as text", op.name)
		return "", false
	}

	g.own(name, "free("+name+");")
	return name, true
}

// numberOf returns a C `double` expression for the operand, emitting any
// conversion (and its failure guard) first.
func (g *Generator) numberOf(op operand) (string, bool) {
	switch op.kind {
	case opLiteral:
		if op.lit.Kind != ast.KindNumber {
			g.rep.ReportError(report.MKInvalidOperand, op.name, "literal `%s` is not a number", op.name)
			return "", false
		}

		return common.CFloat(op.lit.Number), true
	case opCounter:
		return "(double)" + op.expr, true
	case opText:
		name := g.tmp("num")
		g.e.linef("double %s;", name)
		g.emitGuard("to_number_buffer(" + op.expr + ", &" + name + ") != 0")
		return name, true
	case opObject:
		name := g.tmp("num")
		g.e.linef("double %s;", name)
		g.emitGuard("to_number(" + op.expr + ", &" + name + ") != 0")
		return name, true
	default:
		g.rep.ReportError(report.MKInvalidOperand, op.name, "file `%s` cannot be used as a number", op.name)
		return "", false
	}
}

// indexOf returns a C `long` expression for a one-based index argument.
func (g *Generator) indexOf(expr ast.Expr, step string) (string, bool) {
	op, ok := g.operandOf(expr)
	if !ok {
		g.rep.ReportError(report.MKInvalidByIndexArg, step, "argument of `%s` must be a number, a loop variable or a variable", step)
		return "", false
	}

	switch op.kind {
	case opLiteral:
		if op.lit.Kind != ast.KindNumber || !isIntegral(op.lit.Number) {
			g.rep.ReportError(report.MKInvalidByIndexArg, step, "argument of `%s` must be an integer", step)
			return "", false
		}

		return literalText(op.lit), true
	case opCounter:
		return op.expr, true
	case opObject, opText:
		num, ok := g.numberOf(op)
		if !ok {
			return "", false
		}

		return "(long)" + num, true
	default:
		g.rep.ReportError(report.MKInvalidByIndexArg, op.name, "file `%s` cannot be used as an index", op.name)
		return "", false
	}
}

// needleOf returns a C `const char *` expression for a filter argument.
func (g *Generator) needleOf(expr ast.Expr) (string, bool) {
	op, ok := g.operandOf(expr)
	if !ok {
		g.rep.ReportError(report.MKInvalidArguments, "filter", "argument of `filter` must be a string or a variable")
		return "", false
	}

	switch op.kind {
	case opLiteral:
		return common.CQuote(literalText(op.lit)), true
	case opText:
		return op.expr, true
	case opObject:
		return "string_of(" + op.expr + ")", true
	case opCounter:
		return g.textOf(op, "needle")
	default:
		g.rep.ReportError(report.MKInvalidArguments, op.name, "file `%s` cannot be used as a filter", op.name)
		return "", false
	}
}
