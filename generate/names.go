package generate

import (
	"fmt"
	"math"
	"strconv"

	"texlerc/ast"
)

// reservedNames are identifiers that user names may not take in generated
// code: C keywords and the names the runtime library defines.
var reservedNames = map[string]bool{}

func init() {
	for _, name := range []string{
		// C keywords and common macros
		"auto", "break", "case", "char", "const", "continue", "default", "do",
		"double", "else", "enum", "extern", "float", "for", "goto", "if",
		"inline", "int", "long", "register", "restrict", "return", "short",
		"signed", "sizeof", "static", "struct", "switch", "typedef", "union",
		"unsigned", "void", "volatile", "while", "bool", "true", "false",
		"NULL", "main", "argc", "argv", "stdin", "stdout", "stderr", "errno",

		// runtime library
		"TexlerObject", "type_t", "DEFAULT_SEPARATORS", "BUFFER_SIZE",
		"free_texlerobject", "clear_texlerobject", "copy_texlerobject",
		"open_file", "open_stream", "open_file_list", "get_next_file",
		"get_list_of_files_in_dir", "is_directory", "lines", "line_by_number",
		"columns", "is_in_string", "is_number", "to_number", "to_number_buffer",
		"string_of", "set_string", "take_string", "set_number", "write_number",
		"format_long", "copy_buffer_content", "copy_file_content",
		"copy_file_content_texler", "toString", "write_texlerobject", "at",
		"string_addition", "string_substract", "compare_equality",
		"compare_equality_constant_number_int", "compare_equality_constant_string",
		"classify_buffer", "classify_texlerobject", "checked_alloc",
		"dup_separators", "free_separators", "is_standard_stream",
		"is_regular_file", "compare_paths", "trimmed_len",

		// C library functions called by generated code
		"calloc", "malloc", "realloc", "free", "exit", "perror", "fprintf",
		"fputc", "fputs", "strdup", "strlen", "atof", "fmod", "tmpfile",
	} {
		reservedNames[name] = true
	}
}

// cName returns the C identifier of a user name.
func cName(name string) string {
	if reservedNames[name] {
		return "_texler_" + name
	}

	return name
}

// varName returns the C identifier of a variable.
func varName(v *ast.Variable) string {
	return cName(v.Name)
}

// tmp returns a fresh name for a generated temporary.
func (g *Generator) tmp(prefix string) string {
	name := fmt.Sprintf("_%s_%d", prefix, g.counter)
	g.counter++
	return name
}

// -----------------------------------------------------------------------------

// isIntegral returns whether f can be emitted as a C long.
func isIntegral(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) < 9e15
}

// literalText renders a literal the way the runtime library's toString
// would: integral numbers as longs and others like C's `%g`.
func literalText(lit *ast.Variable) string {
	switch lit.Kind {
	case ast.KindNumber:
		if isIntegral(lit.Number) {
			return strconv.FormatInt(int64(lit.Number), 10)
		}

		return strconv.FormatFloat(lit.Number, 'g', 6, 64)
	case ast.KindBoolean:
		if lit.Boolean {
			return "True"
		}

		return "False"
	default:
		return lit.Text
	}
}
