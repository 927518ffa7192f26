package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"texlerc/astio"
	"texlerc/config"
	"texlerc/generate"
	"texlerc/report"
)

// buildOptions are the command line inputs of a build.  Empty fields fall back
// to the project file and then to the defaults.
type buildOptions struct {
	// ASTPath is the syntax tree document to generate from.
	ASTPath string

	// Output is the path of the generated C file.
	Output string

	// ConfigPath is an explicit project file.
	ConfigPath string

	// LogLevel is the name of the log level.
	LogLevel string
}

// runBuild loads the configuration and the syntax tree, generates the C
// program and reports the outcome to out.  It returns whether the build
// succeeded.
func runBuild(opts buildOptions, out io.Writer) bool {
	conf, confPath, err := loadConfig(opts)
	if err != nil {
		displayBuildError(out, "Config Error", err)
		return false
	}

	astPath := opts.ASTPath
	if astPath == "" {
		astPath = conf.ResolveSource(confPath)
	}

	if astPath == "" {
		displayBuildError(out, "Usage Error", errors.New("no syntax tree given and no source in the project file"))
		return false
	}

	outPath := conf.ResolveOutput(confPath)
	if opts.Output != "" {
		outPath = opts.Output
	}

	if opts.LogLevel != "" {
		conf.LogLevel = opts.LogLevel
	}

	rep := report.NewReporter(report.LogLevelFromName(conf.LogLevel), report.WithWriter(out))
	rep.ReportHeader(astPath)

	rep.BeginPhase("Decoding")
	prog, err := astio.LoadFile(astPath)
	if err != nil {
		rep.ReportStdError("Decode Error", err)
		return rep.Finish("")
	}

	rep.BeginPhase("Generating")
	ctx := generate.NewContext(rep)
	ctx.Runtime = generate.Runtime{
		BufferSize:        conf.BufferSize,
		DefaultSeparators: conf.DefaultSeparators,
	}

	if !generate.GenerateFile(ctx, prog, outPath) {
		// a partial program is worse than none
		os.Remove(outPath)
		return rep.Finish("")
	}

	return rep.Finish(outPath)
}

// loadConfig selects the project configuration of a build: the explicit
// project file if one is given, otherwise a project file next to the syntax
// tree (or in the working directory), otherwise the defaults.  It also
// returns the path of the project file used, if any.
func loadConfig(opts buildOptions) (*config.Config, string, error) {
	if opts.ConfigPath != "" {
		conf, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, "", fmt.Errorf("error loading `%s`: %w", opts.ConfigPath, err)
		}

		return conf, opts.ConfigPath, nil
	}

	dir := "."
	if opts.ASTPath != "" {
		dir = filepath.Dir(opts.ASTPath)
	}

	if confPath, ok := config.Find(dir); ok {
		conf, err := config.Load(confPath)
		if err != nil {
			return nil, "", fmt.Errorf("error loading `%s`: %w", confPath, err)
		}

		return conf, confPath, nil
	}

	return config.Default(), "", nil
}

// displayBuildError reports an error that happens before the build has a
// reporter.
func displayBuildError(out io.Writer, tag string, err error) {
	rep := report.NewReporter(report.LogLevelError, report.WithWriter(out))
	rep.ReportStdError(tag, err)
}
