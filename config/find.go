package config

import (
	"os"
	"path/filepath"

	"texlerc/common"

	"github.com/pelletier/go-toml"
)

// Find looks for a project file in dir and returns its path if one exists.
func Find(dir string) (string, bool) {
	confPath := filepath.Join(dir, common.ConfigFileName)

	finfo, err := os.Stat(confPath)
	if err != nil || finfo.IsDir() {
		return "", false
	}

	// only the shape is checked here: a file without a build or runtime
	// table is probably someone else's `texler.toml`
	tree, err := toml.LoadFile(confPath)
	if err != nil {
		return "", false
	}

	if tree.Has("build") || tree.Has("runtime") {
		return confPath, true
	}

	return "", false
}

// ResolveSource returns the source path of the configuration relative to the
// directory of the project file.
func (c *Config) ResolveSource(confPath string) string {
	return resolve(confPath, c.Source)
}

// ResolveOutput returns the output path of the configuration relative to the
// directory of the project file.
func (c *Config) ResolveOutput(confPath string) string {
	return resolve(confPath, c.Output)
}

func resolve(confPath, path string) string {
	if path == "" || confPath == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(filepath.Dir(confPath), path)
}
