package generate

import (
	"strings"

	"texlerc/ast"
	"texlerc/common"
	"texlerc/report"
)

// lowerVarDecl lowers a variable declaration: allocation, guard, release
// registration and finally the initializer.
func (g *Generator) lowerVarDecl(vd *ast.VarDecl) bool {
	v := vd.Var
	switch v.Kind {
	case ast.KindFilePath:
		return g.lowerFileDecl(&ast.FileDecl{Var: v})
	case ast.KindLoop:
		g.rep.ReportError(report.MKInvalidOperand, v.Name, "loop variable `%s` cannot be declared", v.Name)
		return false
	case ast.KindConstant:
		if v.Const == nil {
			g.rep.ReportError(report.MKInvalidOperand, v.Name, "constant `%s` has no value", v.Name)
			return false
		}
	}

	name := varName(v)
	g.emitDeclare(name)
	g.emitSetLiteral(name, v.Literal(), true)
	return true
}

// lowerFileDecl lowers a file declaration.  The variable name prefix selects
// how the file is opened.
func (g *Generator) lowerFileDecl(fd *ast.FileDecl) bool {
	v := fd.Var

	seps, ok := g.separators(v.Name, fd.Separators)
	if !ok {
		return false
	}

	isInput := strings.HasPrefix(v.Name, "input")
	if !isInput && !strings.HasPrefix(v.Name, "output") {
		g.rep.ReportError(report.MKInvalidFileName, v.Name, "file variable `%s` must be named `input...` or `output...`", v.Name)
		return false
	}

	name := varName(v)
	g.emitDeclare(name)

	path := common.CQuote(v.Text)
	switch {
	case isInput:
		g.emitGuard("(is_directory(" + path + ") ? open_file_list(" + path + ", " + name + ", " + seps +
			") : open_file(" + path + ", \"r\", " + name + ", " + seps + ")) != 0")
	case v.Text == "":
		g.e.open("if (open_stream(tmpfile(), %s, %s) != 0)", name, seps)
		g.e.lines(allocGuard)
		g.e.close()
	case v.Text == "STDOUT":
		g.e.linef("open_stream(stdout, %s, %s);", name, seps)
	default:
		g.emitGuard("open_file(" + path + ", \"w+\", " + name + ", " + seps + ") != 0")
	}

	return true
}

// separators validates the separators of a file declaration and returns the
// C expression of the separator set (NULL for the default set).
func (g *Generator) separators(fileName string, seps []string) (string, bool) {
	if len(seps) == 0 {
		return "NULL", true
	}

	var sb strings.Builder
	for _, sep := range seps {
		if len(sep) != 1 {
			g.rep.ReportError(report.MKInvalidSeparatorLen, fileName, "separator `%s` of `%s` must be a single character", sep, fileName)
			return "", false
		}

		if sep == "\n" || sep == "\x00" {
			g.rep.ReportError(report.MKInvalidSeparatorType, fileName, "newline and NUL cannot be used as separators")
			return "", false
		}

		sb.WriteString(sep)
	}

	return common.CQuote(sb.String()), true
}
