package cmd

import (
	"os"
	"path/filepath"

	"texlerc/common"
	"texlerc/config"
	"texlerc/report"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `texlerc` application and exits with a nonzero status
// if the command failed.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("texlerc", "texlerc generates C programs from Texler syntax trees", true)
	cli.AddSelectorArg("loglevel", "ll", "the generator log level", false, []string{"silent", "error", "warn", "verbose"})

	buildCmd := cli.AddSubcommand("build", "generate C source from a syntax tree", true)
	buildCmd.AddPrimaryArg("ast-path", "the path to the syntax tree document", false)
	buildCmd.AddStringArg("output", "o", "the path of the generated C file", false)
	buildCmd.AddStringArg("config", "c", "the path to the project file", false)

	initCmd := cli.AddSubcommand("init", "create a project file", true)
	initCmd.AddPrimaryArg("project-dir", "the directory to create the project file in", true)
	initCmd.AddStringArg("source", "s", "the syntax tree document of the project", false)

	cli.AddSubcommand("version", "print the texlerc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(1)
	}

	// process the inputed command line
	ok := true
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		ok = execBuildCommand(subResult, stringArg(result, "loglevel"))
	case "init":
		ok = execInitCommand(subResult)
	case "version":
		report.PrintInfoMessage("texlerc Version", common.TexlerVersion)
	}

	if !ok {
		os.Exit(1)
	}
}

// execBuildCommand executes the build subcommand and handles all errors.
func execBuildCommand(result *olive.ArgParseResult, logLevel string) bool {
	opts := buildOptions{
		Output:     stringArg(result, "output"),
		ConfigPath: stringArg(result, "config"),
		LogLevel:   logLevel,
	}

	if astPath, ok := result.PrimaryArg(); ok {
		opts.ASTPath = astPath
	}

	return runBuild(opts, os.Stdout)
}

// execInitCommand executes the init subcommand and handles all errors.
func execInitCommand(result *olive.ArgParseResult) bool {
	dirRelPath, _ := result.PrimaryArg()

	dir, err := filepath.Abs(dirRelPath)
	if err != nil {
		report.PrintErrorMessage("Path Error", err)
		return false
	}

	source := stringArg(result, "source")
	if source == "" {
		source = "program" + common.SrcFileExtension
	}

	if err := config.Init(dir, source); err != nil {
		report.PrintErrorMessage("Project Init Error", err)
		return false
	}

	report.PrintInfoMessage("Created", filepath.Join(dir, common.ConfigFileName))
	return true
}

// stringArg returns the value of an optional string argument or the empty
// string if it was not given.
func stringArg(result *olive.ArgParseResult, name string) string {
	if val, ok := result.Arguments[name]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}

	return ""
}
