package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/mcuscaffold/internal/app"
	"github.com/vk/mcuscaffold/internal/toolchain"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `
mcuscaffold - scaffold a multi-core embedded Rust project from a configuration file.

Usage:
  mcuscaffold [options] <project_name> <config_file>

Arguments:
  project_name
    Name of the project directory to create. ':' is replaced by '_'.
  config_file
    Project description in JSON, HCL (.hcl) or YAML (.yaml, .yml).

Options:
`

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Help goes to outW; usage after a mistake goes to errW.
func Parse(args []string, outW, errW io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("mcuscaffold", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {}

	printUsage := func(w io.Writer) {
		fmt.Fprint(w, usageText)
		flagSet.SetOutput(w)
		flagSet.PrintDefaults()
		flagSet.SetOutput(io.Discard)
	}

	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	keepGoingFlag := flagSet.Bool("keep-going", false, "Continue with the remaining cores after a core fails.")
	skipInstallFlag := flagSet.Bool("skip-install", false, "Do not install compilation targets with rustup.")
	templateFlag := flagSet.String("template", toolchain.DefaultTemplate, "Git URL of the cargo-generate template.")
	workdirFlag := flagSet.String("workdir", "", "Directory in which the project is created. Defaults to the current directory.")
	printConfigFlag := flagSet.Bool("print-config", false, "Validate the configuration, print it as HCL and exit.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(outW)
			return nil, true, nil
		}
		printUsage(errW)
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() != 2 {
		printUsage(errW)
		return nil, false, &ExitError{
			Code:    2,
			Message: fmt.Sprintf("expected 2 arguments <project_name> <config_file>, got %d", flagSet.NArg()),
		}
	}

	config, err := app.NewConfig(app.Config{
		ProjectName: flagSet.Arg(0),
		ConfigPath:  flagSet.Arg(1),
		WorkDir:     *workdirFlag,
		Template:    *templateFlag,
		LogFormat:   *logFormatFlag,
		LogLevel:    *logLevelFlag,
		KeepGoing:   *keepGoingFlag,
		SkipInstall: *skipInstallFlag,
		PrintConfig: *printConfigFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
