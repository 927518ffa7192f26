package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"

	"texlerc/common"
	"texlerc/report"

	"github.com/pelletier/go-toml"
)

// tomlConfigFile represents the project file as it is encoded in TOML
type tomlConfigFile struct {
	Build   *tomlBuild   `toml:"build"`
	Runtime *tomlRuntime `toml:"runtime"`
}

// tomlBuild represents the build section as it is encoded in TOML
type tomlBuild struct {
	Source   string `toml:"source,omitempty"`
	Output   string `toml:"output,omitempty"`
	LogLevel string `toml:"log-level,omitempty"`
}

// tomlRuntime represents the runtime section as it is encoded in TOML
type tomlRuntime struct {
	BufferSize        int    `toml:"buffer-size,omitempty"`
	DefaultSeparators string `toml:"default-separators,omitempty"`
}

// Config is the loaded and validated project configuration.
type Config struct {
	// Source is the path to the AST document.  Relative paths are relative to
	// the directory containing the config file.
	Source string

	// Output is the path of the generated C file.
	Output string

	// LogLevel is the name of the log level.
	LogLevel string

	// BufferSize is the initial size of line buffers in generated programs.
	BufferSize int

	// DefaultSeparators is the separator set used by files declared without
	// separators.
	DefaultSeparators string
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Output:            common.DefaultOutputName,
		LogLevel:          "verbose",
		BufferSize:        common.DefaultBufferSize,
		DefaultSeparators: common.DefaultSeparators,
	}
}

// Load loads and validates the project file at path.  Fields missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return Parse(buff)
}

// Parse decodes and validates the contents of a project file.
func Parse(buff []byte) (*Config, error) {
	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return nil, fmt.Errorf("error decoding TOML: %w", err)
	}

	conf := Default()

	if tcf.Build != nil {
		if tcf.Build.Source != "" {
			conf.Source = tcf.Build.Source
		}

		if tcf.Build.Output != "" {
			conf.Output = tcf.Build.Output
		}

		if tcf.Build.LogLevel != "" {
			conf.LogLevel = tcf.Build.LogLevel
		}
	}

	if tcf.Runtime != nil {
		if tcf.Runtime.BufferSize != 0 {
			conf.BufferSize = tcf.Runtime.BufferSize
		}

		if tcf.Runtime.DefaultSeparators != "" {
			conf.DefaultSeparators = tcf.Runtime.DefaultSeparators
		}
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Validate checks that the configuration can be used to generate code.
func (c *Config) Validate() error {
	if c.Output == "" {
		return errors.New("an output path must be specified")
	}

	if !report.IsValidLogLevelName(c.LogLevel) {
		return fmt.Errorf("unknown log level `%s`", c.LogLevel)
	}

	if c.BufferSize < common.MinBufferSize {
		return fmt.Errorf("buffer size must be at least %d (got %d)", common.MinBufferSize, c.BufferSize)
	}

	if c.DefaultSeparators == "" {
		return errors.New("default separators must not be empty")
	}

	for _, ch := range []byte(c.DefaultSeparators) {
		if ch == '\n' || ch == 0 {
			return errors.New("default separators must not contain newlines or NUL characters")
		}
	}

	return nil
}
