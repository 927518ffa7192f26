package generate

import (
	"texlerc/ast"
	"texlerc/common"
	"texlerc/report"
)

// lowerAssignment lowers an assignment by the kind of its value.
func (g *Generator) lowerAssignment(a *ast.Assignment) bool {
	if _, bound := g.bindings[a.Dest]; bound || a.Dest.Kind == ast.KindLoop {
		g.rep.ReportError(report.MKInvalidOperand, a.Dest.Name, "loop variable `%s` cannot be assigned to", a.Dest.Name)
		return false
	}

	switch v := a.Value.(type) {
	case *ast.VarRef:
		src, ok := g.variableOperand(v.Var)
		if !ok {
			return false
		}

		return g.lowerCopy(a.Dest, src)
	case *ast.Literal:
		return g.lowerLiteralAssign(a.Dest, v.Var.Literal())
	case *ast.NumberArith:
		return g.lowerNumberArith(a.Dest, v)
	case *ast.StringArith:
		return g.lowerStringArith(a.Dest, v)
	case *ast.CallChain:
		return g.lowerCallAssign(a.Dest, v)
	default:
		g.rep.ReportError(report.MKUnimplemented, a.Dest.Name, "value cannot be assigned to `%s`", a.Dest.Name)
		return false
	}
}

// lowerCopy copies the value of a variable into dest.  Files copy their
// content; everything else copies its value, or writes it into dest's stream
// when dest is a file.
func (g *Generator) lowerCopy(dest *ast.Variable, src operand) bool {
	dst := varName(dest)

	if dest.IsFile() {
		stream := dst + "->value.file.stream"

		switch src.kind {
		case opFile:
			g.emitGuard("copy_file_content_texler(" + src.expr + ", " + dst + ") != 0")
		case opText:
			g.emitGuard("copy_buffer_content(" + src.expr + ", " + stream + ") != 0")
		case opCounter:
			g.e.linef("fprintf(%s, \"%%ld\", %s);", stream, src.expr)
		case opObject:
			g.emitGuard("write_texlerobject(" + src.expr + ", " + stream + ") != 0")
		}

		return true
	}

	switch src.kind {
	case opFile:
		g.rep.ReportError(report.MKInvalidOperand, src.name, "file `%s` cannot be assigned to `%s` which is not a file", src.name, dest.Name)
		return false
	case opText:
		g.e.linef("set_string(%s, %s);", dst, src.expr)
	case opCounter:
		g.e.linef("clear_texlerobject(%s);", dst)
		g.e.linef("%s->type = TYPE_T_INTEGER;", dst)
		g.e.linef("%s->value.integer = %s;", dst, src.expr)
	case opObject:
		g.emitGuard("copy_texlerobject(" + dst + ", " + src.expr + ") != 0")
	}

	return true
}

// lowerLiteralAssign stores a literal in dest: a direct payload copy with a
// tag update, or a write when dest is a file.
func (g *Generator) lowerLiteralAssign(dest *ast.Variable, lit *ast.Variable) bool {
	dst := varName(dest)

	if dest.IsFile() {
		g.emitGuard("copy_buffer_content(" + common.CQuote(literalText(lit)) + ", " + dst + "->value.file.stream) != 0")
		return true
	}

	g.emitSetLiteral(dst, lit, false)
	return true
}

// -----------------------------------------------------------------------------

// lowerCallAssign assigns the result of a call chain.  Supported chains
// produce a single string: `toString`, `at`, `filter` and `lines().byIndex`.
// Without a receiver, the current line of the innermost line iteration is the
// receiver.
func (g *Generator) lowerCallAssign(dest *ast.Variable, cc *ast.CallChain) bool {
	if len(cc.Steps) == 0 {
		g.rep.ReportError(report.MKInvalidArguments, dest.Name, "empty call chain assigned to `%s`", dest.Name)
		return false
	}

	if cc.Has(ast.StepLines) && cc.Has(ast.StepByIndex) && len(cc.Steps) == 2 {
		return g.lowerLineAssign(dest, cc)
	}

	if len(cc.Steps) != 1 {
		g.rep.ReportError(report.MKUnimplemented, cc.Steps[0].Kind.String(), "call chain cannot be assigned to `%s`", dest.Name)
		return false
	}

	recv, ok := g.receiverOf(cc)
	if !ok {
		return false
	}

	step := cc.Steps[0]

	g.openBlock("")

	switch step.Kind {
	case ast.StepToString:
		if len(step.Args) != 0 {
			g.rep.ReportError(report.MKInvalidArguments, "toString", "`toString` takes no arguments")
			return false
		}

		text, ok := g.textOf(recv, "str")
		if !ok {
			return false
		}

		g.emitStoreText(dest, text, true)
	case ast.StepAt:
		if len(step.Args) != 1 {
			g.rep.ReportError(report.MKInvalidArguments, "at", "`at` takes exactly one argument")
			return false
		}

		idx, ok := g.indexOf(step.Args[0], "at")
		if !ok {
			return false
		}

		text, ok := g.textOf(recv, "str")
		if !ok {
			return false
		}

		chr := g.tmp("chr")
		g.e.linef("int %s = at(%s, %s);", chr, text, idx)
		g.emitGuard(chr + " < 0")
		buf := g.tmp("chr_buf")
		g.e.linef("char %s[2] = {(char)%s, %s};", buf, chr, common.CChar(0))
		g.emitStoreText(dest, buf, false)
	case ast.StepFilter:
		if len(step.Args) != 1 {
			g.rep.ReportError(report.MKInvalidArguments, "filter", "`filter` takes exactly one argument")
			return false
		}

		needle, ok := g.needleOf(step.Args[0])
		if !ok {
			return false
		}

		text, ok := g.textOf(recv, "str")
		if !ok {
			return false
		}

		g.e.open("if (!is_in_string(%s, %s))", needle, text)
		g.e.linef("%s[0] = %s;", text, common.CChar(0))
		g.e.close()
		g.emitStoreText(dest, text, true)
	default:
		g.rep.ReportError(report.MKUnimplemented, step.Kind.String(), "`%s` cannot be assigned to `%s`", step.Kind, dest.Name)
		return false
	}

	g.closeBlock()
	return true
}

// receiverOf returns the receiver of a single-step chain.
func (g *Generator) receiverOf(cc *ast.CallChain) (operand, bool) {
	if cc.Receiver != nil {
		return g.variableOperand(cc.Receiver)
	}

	if it := g.currentIter(); it != nil {
		return operand{kind: opText, expr: it.line, name: cc.Steps[0].Kind.String()}, true
	}

	g.rep.ReportError(report.MKInvalidFileHandler, cc.Steps[0].Kind.String(), "`%s` has no receiver", cc.Steps[0].Kind)
	return operand{}, false
}

// emitStoreText stores a C string in dest.  If owned is set, text is a heap
// string owned by the current scope whose ownership can be handed to dest.
func (g *Generator) emitStoreText(dest *ast.Variable, text string, owned bool) {
	dst := varName(dest)

	if dest.IsFile() {
		g.emitGuard("copy_buffer_content(" + text + ", " + dst + "->value.file.stream) != 0")
		return
	}

	if owned {
		g.disown(text)
		g.e.linef("take_string(%s, %s, strlen(%s));", dst, text, text)
	} else {
		g.e.linef("set_string(%s, %s);", dst, text)
	}
}

// lowerLineAssign assigns a single line of a file: `file.lines().byIndex(n)`.
func (g *Generator) lowerLineAssign(dest *ast.Variable, cc *ast.CallChain) bool {
	file, ok := g.chainFile(cc)
	if !ok {
		return false
	}

	step := cc.Step(ast.StepByIndex)
	if len(step.Args) != 1 {
		g.rep.ReportError(report.MKInvalidByIndexArg, "byIndex", "`byIndex` takes exactly one argument")
		return false
	}

	g.openBlock("")

	idx, ok := g.indexOf(step.Args[0], "byIndex")
	if !ok {
		return false
	}

	line, size, length := g.tmp("line"), g.tmp("line_size"), g.tmp("line_len")
	g.e.linef("char *%s = NULL;", line)
	g.e.linef("size_t %s = 0;", size)
	g.own(line, "free("+line+");")

	fname := varName(file)
	g.e.linef("long %s = line_by_number(%s, %s, &%s, &%s);", length, fname, idx, line, size)
	g.emitGuardMsg(length+" <= 0", "\"Line number %ld not found\\n\", (long)("+idx+")")
	g.emitStoreText(dest, line, true)

	g.closeBlock()
	return true
}

// chainFile returns the file a call chain operates on: its receiver if the
// receiver is a file, otherwise the working file.
func (g *Generator) chainFile(cc *ast.CallChain) (*ast.Variable, bool) {
	stepName := "call"
	if len(cc.Steps) > 0 {
		stepName = cc.Steps[0].Kind.String()
	}

	if cc.Receiver != nil {
		if cc.Receiver.IsFile() {
			return cc.Receiver, true
		}

		g.rep.ReportError(report.MKInvalidFileHandler, cc.Receiver.Name, "`%s` is not a file and cannot be read with `%s`", cc.Receiver.Name, stepName)
		return nil, false
	}

	if file := g.workingFile(); file != nil {
		return file, true
	}

	g.rep.ReportError(report.MKInvalidFileHandler, stepName, "`%s` used outside of a file block", stepName)
	return nil, false
}
