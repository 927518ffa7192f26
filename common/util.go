package common

import (
	"strconv"
	"strings"
)

// IsValidIdentifier returns whether or not a given string would be a valid
// identifier in generated code (variable names, function names, etc.)
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}

	if idstr[0] == '_' || ('a' <= idstr[0] && idstr[0] <= 'z') || ('A' <= idstr[0] && idstr[0] <= 'Z') {
		for _, c := range idstr[1:] {
			if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
				continue
			}

			return false
		}

		return true
	}

	return false
}

// CQuote converts a string into a C string literal.  Bytes outside of the
// printable ASCII range are written as three digit octal escapes so that the
// escape can never swallow a following character.
func CQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '?':
			// no trigraphs
			sb.WriteString(`\?`)
		default:
			if c < 0x20 || c > 0x7e {
				sb.WriteByte('\\')
				oct := strconv.FormatInt(int64(c), 8)
				sb.WriteString(strings.Repeat("0", 3-len(oct)))
				sb.WriteString(oct)
			} else {
				sb.WriteByte(c)
			}
		}
	}

	sb.WriteByte('"')
	return sb.String()
}

// CChar converts a single byte into a C character literal.
func CChar(c byte) string {
	switch c {
	case 0:
		return `'\0'`
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	}

	if c < 0x20 || c > 0x7e {
		oct := strconv.FormatInt(int64(c), 8)
		return `'\` + strings.Repeat("0", 3-len(oct)) + oct + `'`
	}

	return "'" + string(c) + "'"
}

// CFloat formats a float so that it always reads as a C double literal.
func CFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}
