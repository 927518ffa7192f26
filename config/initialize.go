package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"texlerc/common"

	"github.com/pelletier/go-toml"
)

// Init creates a new project file in the given directory.  An existing project
// file is never overwritten.
func Init(dir, source string) error {
	confFilePath := filepath.Join(dir, common.ConfigFileName)

	// check to see if a project file already exists
	_, err := os.Stat(confFilePath)
	if err == nil {
		return errors.New("project file already exists")
	}

	if !os.IsNotExist(err) {
		return fmt.Errorf("project file error: %w", err)
	}

	conf := Default()
	tcf := &tomlConfigFile{
		Build: &tomlBuild{
			Source:   source,
			Output:   conf.Output,
			LogLevel: conf.LogLevel,
		},
		Runtime: &tomlRuntime{
			BufferSize:        conf.BufferSize,
			DefaultSeparators: conf.DefaultSeparators,
		},
	}

	f, err := os.Create(confFilePath)
	if err != nil {
		return fmt.Errorf("error creating project file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tcf); err != nil {
		return fmt.Errorf("error encoding TOML: %w", err)
	}

	return nil
}
