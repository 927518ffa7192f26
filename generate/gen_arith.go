package generate

import (
	"texlerc/ast"
	"texlerc/common"
	"texlerc/report"
)

// lowerNumberArith lowers a numeric operation assigned to dest.
func (g *Generator) lowerNumberArith(dest *ast.Variable, na *ast.NumberArith) bool {
	if na.Op == ast.OpMul {
		if file, count, ok := g.fileFactor(na); ok {
			return g.lowerFileReplicate(dest, file, count)
		}
	}

	g.openBlock("")

	value, ok := g.numberExpr(na)
	if !ok {
		return false
	}

	result := g.tmp("arith")
	g.e.linef("double %s = %s;", result, value)

	if dest.IsFile() {
		g.e.linef("write_number(%s, %s->value.file.stream);", result, varName(dest))
	} else {
		g.e.linef("set_number(%s, %s);", varName(dest), result)
	}

	g.closeBlock()
	return true
}

// numberExpr returns a C `double` expression computing expr.  Division and
// modulo are guarded against a zero divisor.
func (g *Generator) numberExpr(expr ast.Expr) (string, bool) {
	if na, ok := expr.(*ast.NumberArith); ok {
		left, ok := g.numberExpr(na.Left)
		if !ok {
			return "", false
		}

		right, ok := g.numberExpr(na.Right)
		if !ok {
			return "", false
		}

		switch na.Op {
		case ast.OpAdd, ast.OpSub, ast.OpMul:
			return "(" + left + " " + na.Op.String() + " " + right + ")", true
		case ast.OpDiv:
			g.emitGuardMsg(right+" == 0", `"Division by zero\n"`)
			return "(" + left + " / " + right + ")", true
		case ast.OpMod:
			g.emitGuardMsg(right+" == 0", `"Division by zero\n"`)
			return "fmod(" + left + ", " + right + ")", true
		default:
			g.rep.ReportError(report.MKUnimplemented, na.Op.String(), "unknown numeric operator")
			return "", false
		}
	}

	op, ok := g.operandOf(expr)
	if !ok {
		g.rep.ReportError(report.MKInvalidOperand, g.fnName(), "operand of a numeric operation must be a number, a variable or an operation")
		return "", false
	}

	if op.kind == opFile {
		g.rep.ReportError(report.MKInvalidMultiplication, op.name, "file `%s` can only be multiplied by a number", op.name)
		return "", false
	}

	return g.numberOf(op)
}

// fileFactor checks whether a multiplication has exactly one file operand
// and returns it along with the count operand.
func (g *Generator) fileFactor(na *ast.NumberArith) (*ast.Variable, ast.Expr, bool) {
	isFile := func(expr ast.Expr) (*ast.Variable, bool) {
		if ref, ok := expr.(*ast.VarRef); ok && ref.Var.IsFile() {
			if _, bound := g.bindings[ref.Var]; !bound {
				return ref.Var, true
			}
		}

		return nil, false
	}

	lf, lok := isFile(na.Left)
	rf, rok := isFile(na.Right)

	switch {
	case lok && !rok:
		return lf, na.Right, true
	case rok && !lok:
		return rf, na.Left, true
	}

	return nil, nil, false
}

// lowerFileReplicate lowers `dest = file * count`: the content of file is
// written count times into dest.
func (g *Generator) lowerFileReplicate(dest, file *ast.Variable, count ast.Expr) bool {
	if !dest.IsFile() {
		g.rep.ReportError(report.MKInvalidMultiplication, dest.Name, "a file multiplied by a number can only be assigned to a file, not `%s`", dest.Name)
		return false
	}

	g.openBlock("")

	countExpr, ok := g.numberExpr(count)
	if !ok {
		return false
	}

	countVar, rep := g.tmp("count"), g.tmp("rep")
	g.e.linef("double %s = %s;", countVar, countExpr)
	g.e.open("for (long %s = 0; %s < (long)%s; %s++)", rep, rep, countVar, rep)
	g.emitGuard("copy_file_content(" + varName(file) + "->value.file.stream, " + varName(dest) + "->value.file.stream) != 0")
	g.e.close()

	g.closeBlock()
	return true
}

// -----------------------------------------------------------------------------

// lowerStringArith lowers a string operation assigned to dest.
func (g *Generator) lowerStringArith(dest *ast.Variable, sa *ast.StringArith) bool {
	if sa.Op == ast.OpRemove {
		g.rep.ReportWarning(report.MKUnimplemented, dest.Name, "string subtraction has no effect")
		g.e.linef("/* string subtraction into %s: accepted, has no effect */", varName(dest))
		return true
	}

	left, lok := g.operandOf(sa.Left)
	right, rok := g.operandOf(sa.Right)
	if (lok && left.kind == opFile) || (rok && right.kind == opFile) {
		return g.lowerFileConcat(dest, sa)
	}

	g.openBlock("")

	res, ok := g.concat(sa)
	if !ok {
		return false
	}

	dst := varName(dest)
	if dest.IsFile() {
		stream := dst + "->value.file.stream"

		// the left operand lost its trailing newline to the concatenation; a
		// file destination gets it back
		g.emitGuard("copy_buffer_content(" + res.text + ", " + stream + ") != 0")
		g.e.open("if (%s)", res.stripped)
		g.e.linef("fputc(%s, %s);", common.CChar('\n'), stream)
		g.e.close()
	} else {
		g.disown(res.text)
		g.e.linef("take_string(%s, %s, %s);", dst, res.text, res.length)
	}

	g.closeBlock()
	return true
}

// concatResult names the C variables produced by a concatenation.
type concatResult struct {
	// text is the resulting heap string, owned by the current scope.
	text string

	// length is the length of text.
	length string

	// stripped is nonzero if the left operand lost a trailing newline.
	stripped string
}

// concat emits the concatenation of a string operation.
func (g *Generator) concat(sa *ast.StringArith) (concatResult, bool) {
	left, ok := g.textExpr(sa.Left)
	if !ok {
		return concatResult{}, false
	}

	length := g.tmp("str_len")
	if sa.Op == ast.OpRemove {
		g.rep.ReportWarning(report.MKUnimplemented, g.fnName(), "string subtraction has no effect")
		g.e.linef("size_t %s = strlen(%s);", length, left)
		return concatResult{text: left, length: length, stripped: "0"}, true
	}

	right, ok := g.textExpr(sa.Right)
	if !ok {
		return concatResult{}, false
	}

	stripped := g.tmp("stripped")
	g.e.linef("size_t %s = strlen(%s);", length, left)
	g.e.linef("int %s = string_addition(&%s, &%s, %s);", stripped, left, length, right)

	return concatResult{text: left, length: length, stripped: stripped}, true
}

// textExpr returns a heap string owned by the current scope holding the text
// of expr.
func (g *Generator) textExpr(expr ast.Expr) (string, bool) {
	if sa, ok := expr.(*ast.StringArith); ok {
		res, ok := g.concat(sa)
		return res.text, ok
	}

	op, ok := g.operandOf(expr)
	if !ok {
		g.rep.ReportError(report.MKInvalidOperand, g.fnName(), "operand of a string operation must be a string, a variable or a string operation")
		return "", false
	}

	return g.textOf(op, "str")
}

// lowerFileConcat lowers a string addition with a file operand: each operand
// is written into dest in order.
func (g *Generator) lowerFileConcat(dest *ast.Variable, sa *ast.StringArith) bool {
	if !dest.IsFile() {
		g.rep.ReportError(report.MKInvalidOperand, dest.Name, "a file can only be added into a file, not `%s`", dest.Name)
		return false
	}

	dst := varName(dest)
	stream := dst + "->value.file.stream"

	g.openBlock("")

	for _, expr := range []ast.Expr{sa.Left, sa.Right} {
		op, ok := g.operandOf(expr)
		if !ok {
			g.rep.ReportError(report.MKInvalidOperand, dest.Name, "operand of a file addition must be a string or a variable")
			return false
		}

		switch op.kind {
		case opFile:
			// `out = out + ...` appends to out
			if op.expr == dst {
				continue
			}

			g.emitGuard("copy_file_content(" + op.expr + "->value.file.stream, " + stream + ") != 0")
		case opText:
			g.emitGuard("copy_buffer_content(" + op.expr + ", " + stream + ") != 0")
		case opObject:
			g.emitGuard("write_texlerobject(" + op.expr + ", " + stream + ") != 0")
		default:
			text, ok := g.textOf(op, "str")
			if !ok {
				return false
			}

			g.emitGuard("copy_buffer_content(" + text + ", " + stream + ") != 0")
		}
	}

	g.closeBlock()
	return true
}
