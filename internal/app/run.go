package app

import (
	"context"
	"fmt"

	"github.com/vk/mcuscaffold/internal/ctxlog"
	"github.com/vk/mcuscaffold/internal/scaffold"
)

// Run loads the configuration and creates the project, or only prints the
// normalized configuration when PrintConfig is set.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "config_path", a.config.ConfigPath)

	project, err := a.loader.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Debug("Configuration loaded.", "mcu_family", project.MCUFamily, "cores", len(project.Cores))

	if a.config.PrintConfig {
		rendered, err := a.converter.EncodeHCL(project)
		if err != nil {
			return fmt.Errorf("failed to render configuration: %w", err)
		}
		_, err = a.outW.Write(rendered)
		return err
	}

	report, err := a.creator.Create(ctx, a.config.ProjectName, project)
	a.printReport(report)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) printReport(r *scaffold.Report) {
	if r == nil {
		return
	}
	for _, dir := range r.Directories {
		fmt.Fprintf(a.outW, "Created directory %s\n", dir)
	}
	for _, c := range r.Cores {
		fmt.Fprintf(a.outW, "Created core %s in %s (target %s, debugger %s)\n", c.Name, c.Dir, c.Arch, c.Debugger)
	}
	for _, name := range r.RulesAdded {
		fmt.Fprintf(a.outW, "Added Makefile rule %s\n", name)
	}
	if len(r.Cores) > 0 && len(r.Failures) == 0 {
		fmt.Fprintf(a.outW, "Project ready at %s\n", r.Root)
	}
}
