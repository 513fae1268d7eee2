package app

import (
	"io"
	"log/slog"

	"github.com/vk/mcuscaffold/internal/config"
	"github.com/vk/mcuscaffold/internal/hcl"
	"github.com/vk/mcuscaffold/internal/scaffold"
	"github.com/vk/mcuscaffold/internal/toolchain"
)

// Collaborators are the replaceable dependencies of an App. Nil fields are
// filled with the production implementations.
type Collaborators struct {
	Loader    config.Loader
	Generator scaffold.Generator
	Installer scaffold.TargetInstaller
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	loader    config.Loader
	converter *hcl.Converter
	creator   *scaffold.Creator
}

// NewApp is the constructor for the main application. Confirmations are
// written to outW and log records to logW.
func NewApp(outW, logW io.Writer, cfg *Config, c Collaborators) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	rules := config.DefaultRules()
	if c.Loader == nil {
		c.Loader = hcl.NewLoader(rules)
	}
	if c.Generator == nil {
		c.Generator = toolchain.NewCargoGenerator(cfg.Template)
	}
	if c.Installer == nil && !cfg.SkipInstall {
		c.Installer = toolchain.NewRustupInstaller()
	}

	opts := scaffold.DefaultOptions()
	opts.WorkDir = cfg.WorkDir
	opts.KeepGoing = cfg.KeepGoing
	opts.SkipInstall = cfg.SkipInstall

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		loader:    c.Loader,
		converter: hcl.NewConverter(rules),
		creator:   scaffold.NewCreator(c.Generator, c.Installer, opts),
	}
}
