package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "abc", `"abc"`},
		{"escapes", "a\"b\\c\n", `"a\"b\\c\n"`},
		{"trigraph", "a??/b", `"a\?\?/b"`},
		{"non-printable", "\x01z", `"\001z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CQuote(tt.in))
		})
	}
}

func TestCChar(t *testing.T) {
	assert.Equal(t, `'\0'`, CChar(0))
	assert.Equal(t, `'\n'`, CChar('\n'))
	assert.Equal(t, `'\''`, CChar('\''))
	assert.Equal(t, `'\177'`, CChar(0x7f))
	assert.Equal(t, `'x'`, CChar('x'))
}

func TestCFloat(t *testing.T) {
	assert.Equal(t, "2.0", CFloat(2))
	assert.Equal(t, "0.5", CFloat(0.5))
	assert.Equal(t, "1e+20", CFloat(1e20))
}
