package generate

import (
	"fmt"
	"strings"

	"texlerc/ast"
	"texlerc/report"
)

// generateProgram emits the whole program: header, value model, runtime
// library, function prototypes, functions and finally the entry point.
func (g *Generator) generateProgram(prog *ast.Program) bool {
	g.emitValueModel()
	g.emitRuntimeLibrary()

	fns := prog.AllFunctions()
	for _, fn := range fns {
		g.e.linef("%s;", signature(fn))
	}
	g.e.blank()

	for _, fn := range fns {
		if !g.generateFunction(fn) {
			g.rep.ReportError(report.MKFunction, fn.Name, "error in function `%s`", fn.Name)
			return false
		}
	}

	g.generateMain(prog.Entry)
	return true
}

// signature returns the C signature of a function.
func signature(fn *ast.Function) string {
	params := "void"
	if len(fn.Params) > 0 {
		parts := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			parts[i] = "TexlerObject *" + varName(p)
		}

		params = strings.Join(parts, ", ")
	}

	if fn.Return != nil {
		return fmt.Sprintf("TexlerObject *%s(%s)", cName(fn.Name), params)
	}

	return fmt.Sprintf("int %s(%s)", cName(fn.Name), params)
}

// generateFunction emits a single function.
func (g *Generator) generateFunction(fn *ast.Function) bool {
	g.fn = fn
	g.scope = nil
	g.files = nil
	g.iters = nil
	g.e.reset()

	defer func() {
		g.fn = nil
	}()

	g.e.open("%s", signature(fn))
	if !g.lowerList(fn.Body) {
		return false
	}

	if fn.Return != nil {
		g.e.linef("return %s;", varName(fn.Return))
	} else {
		g.e.line("return 0;")
	}

	g.e.close()
	g.e.blank()
	return true
}

// generateMain emits the program entry point.  A parameterless entry
// function is called directly.  Otherwise each parameter receives the
// numeric value of the command line argument at its position, converted with
// atof: a missing argument reads as "0" and non-numeric text converts to
// whatever atof makes of it.
func (g *Generator) generateMain(entry *ast.Function) {
	g.e.reset()
	g.e.open("int main(int argc, char *argv[])")

	if len(entry.Params) == 0 && entry.Return == nil {
		g.e.linef("return %s();", cName(entry.Name))
		g.e.close()
		return
	}

	args := make([]string, len(entry.Params))
	for i := range entry.Params {
		arg := fmt.Sprintf("_arg_%d", i)
		args[i] = arg

		g.e.linef("TexlerObject *%s = calloc(1, sizeof(TexlerObject));", arg)
		g.emitAllocGuard(arg)
		g.e.linef("%s->type = TYPE_T_REAL;", arg)
		g.e.linef("%s->value.real = atof(argc > %d ? argv[%d] : \"0\");", arg, i+1, i+1)
	}

	call := fmt.Sprintf("%s(%s)", cName(entry.Name), strings.Join(args, ", "))

	if entry.Return == nil {
		g.e.linef("int _status = %s;", call)
	} else {
		g.e.linef("TexlerObject *_result = %s;", call)
		g.e.line("int _status = _result == NULL;")

		// the result may be one of the arguments, which are released below
		cond := "_result != NULL"
		for _, arg := range args {
			cond += " && _result != " + arg
		}

		g.e.open("if (%s)", cond)
		g.e.line("free_texlerobject(_result);")
		g.e.close()
	}

	for i := len(args) - 1; i >= 0; i-- {
		g.e.linef("free_texlerobject(%s);", args[i])
	}

	g.e.line("return _status;")
	g.e.close()
}
