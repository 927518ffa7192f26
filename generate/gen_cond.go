package generate

import (
	"texlerc/ast"
	"texlerc/report"
)

// lowerConditional lowers a conditional.  The whole conditional lives in its
// own block so that values materialized for the condition are released when
// it ends.  The else branch is always emitted.
func (g *Generator) lowerConditional(c *ast.Conditional) bool {
	g.openBlock("")

	cond, ok := g.condition(c.Cond)
	if !ok {
		return false
	}

	g.e.open("if (%s)", cond)
	if !g.lowerAction(c.Then) {
		return false
	}

	g.e.reopen("else")
	if !g.lowerAction(c.Else) {
		return false
	}
	g.e.close()

	g.closeBlock()
	return true
}

// condition returns the C expression of a condition, emitting any values it
// depends on first.
func (g *Generator) condition(expr ast.Expr) (string, bool) {
	switch v := expr.(type) {
	case *ast.TypeTest:
		return g.typeTest(v)
	case *ast.Compare:
		return g.comparison(v)
	default:
		g.rep.ReportError(report.MKComparison, g.fnName(), "condition must be a type test or a comparison")
		return "", false
	}
}

var classNames = map[ast.ValueKind]string{
	ast.KindNumber:   "CLASS_NUMBER",
	ast.KindString:   "CLASS_STRING",
	ast.KindBoolean:  "CLASS_BOOLEAN",
	ast.KindFilePath: "CLASS_FILE",
}

// typeTest lowers a runtime type classification of a variable.
func (g *Generator) typeTest(tt *ast.TypeTest) (string, bool) {
	class, ok := classNames[tt.Kind]
	if !ok {
		g.rep.ReportError(report.MKUnimplemented, tt.Operand.Name, "cannot test whether `%s` is a %s", tt.Operand.Name, tt.Kind)
		return "", false
	}

	op, ok := g.variableOperand(tt.Operand)
	if !ok {
		return "", false
	}

	switch op.kind {
	case opCounter:
		// counters are always numbers
		if tt.Kind == ast.KindNumber {
			return "true", true
		}

		return "false", true
	case opText:
		return "classify_buffer(" + op.expr + ") == " + class, true
	default:
		return "classify_texlerobject(" + op.expr + ") == " + class, true
	}
}

// comparison lowers a binary comparison.  Literal operands are materialized
// as temporary values so that one of the equality intrinsics always applies.
func (g *Generator) comparison(c *ast.Compare) (string, bool) {
	left, lok := g.operandOf(c.Left)
	right, rok := g.operandOf(c.Right)
	if !lok || !rok {
		g.rep.ReportError(report.MKComparison, c.Op.String(), "operands of `%s` must be variables or literals", c.Op)
		return "", false
	}

	if left.kind == opFile || right.kind == opFile {
		g.rep.ReportError(report.MKComparison, c.Op.String(), "files cannot be compared")
		return "", false
	}

	if left.kind == opLiteral {
		left = operand{kind: opObject, expr: g.materialize(left, "cond_lhs"), name: left.name}
	}

	if right.kind == opLiteral {
		right = operand{kind: opObject, expr: g.materialize(right, "cond_rhs"), name: right.name}
	}

	// two loop-bound operands: the left one becomes a value
	if left.kind != opObject && right.kind != opObject {
		left = operand{kind: opObject, expr: g.materialize(left, "cond_lhs"), name: left.name}
	}

	var check string
	switch {
	case left.kind == opObject && right.kind == opObject:
		check = "compare_equality(" + left.expr + ", " + right.expr + ")"
	case left.kind == opCounter:
		check = "compare_equality_constant_number_int(" + left.expr + ", " + right.expr + ")"
	case right.kind == opCounter:
		check = "compare_equality_constant_number_int(" + right.expr + ", " + left.expr + ")"
	case left.kind == opText:
		check = "compare_equality_constant_string(" + left.expr + ", " + right.expr + ")"
	default:
		check = "compare_equality_constant_string(" + right.expr + ", " + left.expr + ")"
	}

	switch c.Op {
	case ast.CmpEq:
		return check, true
	case ast.CmpNe:
		return "!" + check, true
	default:
		// ordering comparisons have no intrinsic: they are lowered through
		// the equality check, unchanged
		g.rep.ReportWarning(report.MKComparison, c.Op.String(), "`%s` is checked as equality", c.Op)
		return check, true
	}
}
