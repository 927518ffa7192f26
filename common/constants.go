package common

const (
	SrcFileExtension  = ".yaml"
	ConfigFileName    = "texler.toml"
	TexlerVersion     = "0.1.0"
	DefaultOutputName = "out.c"

	// Defaults for the constants baked into every generated program.
	DefaultBufferSize = 256
	DefaultSeparators = " ,"

	// MinBufferSize is the smallest line buffer the runtime library can work
	// with: `lines` needs room for at least one character and the terminator
	// before it starts doubling.
	MinBufferSize = 16
)
