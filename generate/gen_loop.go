package generate

import (
	"texlerc/ast"
	"texlerc/common"
	"texlerc/report"
)

// lowerLoop lowers a loop by the kind of its iterable.
func (g *Generator) lowerLoop(l *ast.Loop) bool {
	switch it := l.Iterable.(type) {
	case *ast.List:
		if it.Kind != ast.ListRange {
			g.rep.ReportError(report.MKInvalidIterable, l.Var.Name, "only ranges and call chains can be iterated")
			return false
		}

		return g.lowerRangeLoop(l.Var, it, l.Action)
	case *ast.CallChain:
		return g.lowerChainLoop(l, it)
	default:
		g.rep.ReportError(report.MKInvalidIterable, l.Var.Name, "only ranges and call chains can be iterated")
		return false
	}
}

// lowerRangeLoop lowers a loop over the one-based range [from, to).  The
// counter is zero-based; the loop variable reads as counter + 1.
func (g *Generator) lowerRangeLoop(v *ast.Variable, rng *ast.List, action ast.Expr) bool {
	name := varName(v)
	restore := g.bind(v, bindCounter, name)
	defer restore()

	g.e.open("for (long %s = %d - 1; %s < %d - 1; %s++)", name, rng.From, name, rng.To, name)
	if !g.lowerAction(action) {
		return false
	}
	g.e.close()

	return true
}

// lowerAction lowers the action of a loop in its own release scope.
func (g *Generator) lowerAction(action ast.Expr) bool {
	if action == nil {
		return true
	}

	return g.lowerList([]ast.Expr{action})
}

// -----------------------------------------------------------------------------

// linePlan is the shape of a line iteration derived from a call chain.
type linePlan struct {
	// byIndex is the index step, if any.
	byIndex *ast.CallStep

	// filters are applied to every line in order.
	filters []*ast.CallStep

	// columns iterates the columns of each line instead of the lines.
	columns bool
}

// lowerChainLoop lowers a loop over a call chain: a pipeline of steps over the
// lines (or columns) of a file.
func (g *Generator) lowerChainLoop(l *ast.Loop, cc *ast.CallChain) bool {
	if len(cc.Steps) == 0 {
		g.rep.ReportError(report.MKInvalidIterable, l.Var.Name, "empty call chain cannot be iterated")
		return false
	}

	var plan linePlan
	for i := range cc.Steps {
		step := &cc.Steps[i]

		switch step.Kind {
		case ast.StepLines:
			if cc.Index(ast.StepLines) != i {
				g.rep.ReportError(report.MKInvalidIterable, "lines", "`lines` can only appear once in a chain")
				return false
			}
		case ast.StepColumns:
			if cc.Index(ast.StepColumns) != i {
				g.rep.ReportError(report.MKInvalidIterable, "columns", "`columns` can only appear once in a chain")
				return false
			}

			if lines := cc.Index(ast.StepLines); lines < i {
				g.rep.ReportError(report.MKUnimplemented, "columns", "`columns` must be followed by `lines`")
				return false
			}

			plan.columns = true
		case ast.StepByIndex:
			if plan.byIndex != nil {
				g.rep.ReportError(report.MKInvalidByIndexArg, "byIndex", "`byIndex` can only appear once in a chain")
				return false
			}

			if len(step.Args) != 1 {
				g.rep.ReportError(report.MKInvalidByIndexArg, "byIndex", "`byIndex` takes exactly one argument")
				return false
			}

			plan.byIndex = step
		case ast.StepFilter:
			if len(step.Args) != 1 {
				g.rep.ReportError(report.MKInvalidArguments, "filter", "`filter` takes exactly one argument")
				return false
			}

			plan.filters = append(plan.filters, step)
		default:
			g.rep.ReportError(report.MKUnimplemented, step.Kind.String(), "`%s` cannot be iterated", step.Kind)
			return false
		}
	}

	if !cc.Has(ast.StepLines) && !plan.columns && len(plan.filters) == 0 {
		return g.lowerIndexLoop(l, plan.byIndex)
	}

	file, ok := g.chainFile(cc)
	if !ok {
		return false
	}

	return g.lowerFileLoop(l, file, plan)
}

// lowerIndexLoop lowers a chain made of a single `byIndex`.  A range argument
// becomes a counted loop.  Otherwise the argument must be a loop variable or a
// number: the action runs once with the loop variable set to it.
func (g *Generator) lowerIndexLoop(l *ast.Loop, step *ast.CallStep) bool {
	if rng, ok := step.Args[0].(*ast.List); ok {
		if rng.Kind != ast.ListRange {
			g.rep.ReportError(report.MKInvalidByIndexArg, l.Var.Name, "argument of `byIndex` must be a range, a number or a loop variable")
			return false
		}

		return g.lowerRangeLoop(l.Var, rng, l.Action)
	}

	op, ok := g.operandOf(step.Args[0])
	valid := ok && (op.kind == opCounter || (op.kind == opLiteral && op.lit.Kind == ast.KindNumber && isIntegral(op.lit.Number)))
	if !valid {
		g.rep.ReportError(report.MKInvalidByIndexArg, l.Var.Name, "argument of `byIndex` must be a range, a number or a loop variable")
		return false
	}

	idx := op.expr
	if op.kind == opLiteral {
		idx = literalText(op.lit)
	}

	name := varName(l.Var)
	restore := g.bind(l.Var, bindCounter, name)
	defer restore()

	g.openBlock("")
	g.e.linef("long %s = %s - 1;", name, idx)
	if !g.lowerAction(l.Action) {
		return false
	}
	g.closeBlock()

	return true
}

// lowerFileLoop lowers a line iteration over every file of the working file.
// Every block opened along the way is counted and closed by unwinding the
// count, whichever steps the chain contains.
func (g *Generator) lowerFileLoop(l *ast.Loop, file *ast.Variable, plan linePlan) bool {
	w := varName(file)
	depth := 0

	// file lists are iterated from the start every time
	g.e.linef("%s->value.file.next_open_file = 0;", w)

	idx := g.tmp("file_idx")
	g.openBlock("for (int %s = 0; %s < %s->value.file.n_files; %s++)", idx, idx, w, idx)
	depth++

	cur := g.tmp(file.Name + "_file")
	g.e.linef("TexlerObject *%s = get_next_file(%s);", cur, w)

	// get_next_file has released the working file when it fails
	g.emitGuard(cur+" == NULL", w)
	g.own(cur, "if ("+cur+" != "+w+") free_texlerobject("+cur+");")

	line := varName(l.Var)
	if plan.columns {
		line = g.tmp(l.Var.Name + "_line")
	}

	size, length := g.tmp(l.Var.Name+"_size"), g.tmp(l.Var.Name+"_len")
	g.e.linef("char *%s = NULL;", line)
	g.e.linef("size_t %s = 0;", size)
	g.e.linef("long %s;", length)
	g.own(line, "free("+line+");")

	switch {
	case plan.byIndex == nil:
		g.openBlock("while ((%s = lines(%s, &%s, &%s)) > 0)", length, cur, line, size)
		depth++
	case isRange(plan.byIndex.Args[0]):
		// a range of lines is a sequential scan with a line counter
		rng := plan.byIndex.Args[0].(*ast.List)
		lineNo := g.tmp("line_no")
		g.e.linef("long %s = 0;", lineNo)
		g.openBlock("while ((%s = lines(%s, &%s, &%s)) > 0)", length, cur, line, size)
		depth++

		g.e.linef("%s++;", lineNo)
		g.e.open("if (%s >= %d)", lineNo, rng.To)
		g.e.line("break;")
		g.e.close()

		g.openBlock("if (%s >= %d)", lineNo, rng.From)
		depth++
	default:
		lineIdx, ok := g.indexOf(plan.byIndex.Args[0], "byIndex")
		if !ok {
			return false
		}

		g.e.linef("%s = line_by_number(%s, %s, &%s, &%s);", length, cur, lineIdx, line, size)
		g.emitGuardMsg(length+" <= 0", "\"Line number %ld not found\\n\", (long)("+lineIdx+")")
	}

	for _, filter := range plan.filters {
		needle, ok := g.needleOf(filter.Args[0])
		if !ok {
			return false
		}

		g.openBlock("if (is_in_string(%s, %s))", needle, line)
		depth++
	}

	g.iters = append(g.iters, &iterState{file: cur, line: line, length: length})
	defer func() {
		g.iters = g.iters[:len(g.iters)-1]
	}()

	if plan.columns {
		if !g.lowerColumns(l, cur, line, length) {
			return false
		}
	} else {
		restore := g.bind(l.Var, bindText, line)
		ok := g.lowerAction(l.Action)
		restore()

		if !ok {
			return false
		}
	}

	g.unwind(depth)
	return true
}

// lowerColumns lowers the column iteration of a single line.  The loop
// variable is bound to a generated column buffer for the duration of the
// action.  If the action writes into a file, the separators consumed between
// columns (and the line's newline) are echoed into it.
func (g *Generator) lowerColumns(l *ast.Loop, cur, line, length string) bool {
	rem, sep := g.tmp("remaining"), g.tmp("sep")
	column := g.tmp(l.Var.Name + "_columns")

	g.e.linef("char *%s = %s;", rem, line)
	g.e.linef("char *%s = NULL;", column)
	g.e.linef("char %s = 0;", sep)
	g.own(column, "free("+column+");")

	g.openBlock("while (columns(&%s, %s->value.file.separators, &%s, &%s) >= 0)", rem, cur, column, sep)

	restore := g.bind(l.Var, bindText, column)
	ok := g.lowerAction(l.Action)
	restore()

	if !ok {
		return false
	}

	// separators are only echoed into a file every column is written to
	echo := echoTarget(l.Action)
	if echo != "" {
		g.e.open("if (%s != 0)", sep)
		g.e.linef("fputc(%s, %s->value.file.stream);", sep, echo)
		g.e.close()
	}

	g.closeBlock()

	if echo != "" {
		g.e.open("if (%s > 0 && %s[%s - 1] == %s)", length, line, length, common.CChar('\n'))
		g.e.linef("fputc(%s, %s->value.file.stream);", common.CChar('\n'), echo)
		g.e.close()
	}

	return true
}

// echoTarget returns the C name of the file a loop action assigns into, or
// the empty string.  The action is either an assignment into a file or a
// block whose assignments into files all target the same one.  Assignments
// made under a conditional or a nested loop do not count: they do not run
// once per column.
func echoTarget(action ast.Expr) string {
	target := ""

	var walk func(expr ast.Expr) bool
	walk = func(expr ast.Expr) bool {
		switch v := expr.(type) {
		case *ast.Assignment:
			if !v.Dest.IsFile() {
				return true
			}

			name := varName(v.Dest)
			if target != "" && target != name {
				return false
			}

			target = name
		case *ast.Block:
			for _, stmt := range v.Body {
				if !walk(stmt) {
					return false
				}
			}
		}

		return true
	}

	if !walk(action) {
		return ""
	}

	return target
}

func isRange(expr ast.Expr) bool {
	rng, ok := expr.(*ast.List)
	return ok && rng.Kind == ast.ListRange
}
