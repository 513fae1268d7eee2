package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/mcuscaffold/internal/config"
	"github.com/vk/mcuscaffold/internal/ctxlog"
	"github.com/vk/mcuscaffold/internal/fsutil"
	"github.com/vk/mcuscaffold/internal/makefile"
	"github.com/vk/mcuscaffold/internal/mutate"
)

// Generator materializes a project skeleton named name inside dest.
type Generator interface {
	Generate(ctx context.Context, name, dest string) error
}

// TargetInstaller makes a compilation target available to the toolchain.
type TargetInstaller interface {
	Install(ctx context.Context, arch string) error
}

// Report describes what a Create call did.
type Report struct {
	Root         string
	Directories  []string
	Cores        []CoreReport
	RulesAdded   []string
	RulesSkipped []string
	// Diagnostics are template steps that were skipped without failing the core.
	Diagnostics []error
	// Failures holds per-core errors collected in keep-going mode.
	Failures []error
}

// CoreReport describes one successfully processed core.
type CoreReport struct {
	Name     string
	Dir      string
	Arch     string
	Debugger string
}

// Creator builds project trees.
type Creator struct {
	gen  Generator
	inst TargetInstaller
	opts Options
}

// NewCreator returns a Creator. inst may be nil when opts.SkipInstall is set.
func NewCreator(gen Generator, inst TargetInstaller, opts Options) *Creator {
	return &Creator{gen: gen, inst: inst, opts: opts}
}

// coreRules are the delegating rule names of one core in the top-level Makefile.
type coreRules struct {
	build, clean, all string
}

// Create builds the project tree for p under the configured work directory.
// The returned report is non-nil even when an error is returned.
func (c *Creator) Create(ctx context.Context, projectName string, p *config.Project) (*Report, error) {
	name := NormalizeProjectName(projectName)
	ctx, logger := ctxlog.With(ctx, "project", name)
	root := filepath.Join(c.opts.WorkDir, name)
	report := &Report{Root: root}

	dirs, err := fsutil.EnsureDirs(root, c.directories(p))
	report.Directories = dirs
	if err != nil {
		return report, fmt.Errorf("creating project directories: %w", err)
	}
	logger.Info("Project directories created.", "root", root, "count", len(dirs))

	top := filepath.Join(root, c.opts.MakefileName)
	if err := makefile.CreateFile(top); err != nil {
		return report, err
	}

	var done []coreRules
	var subdirs []string
	for _, core := range p.Cores {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rules, err := c.createCore(ctx, root, top, p, core, report)
		if err != nil {
			err = fmt.Errorf("core %s: %w", core.Name, err)
			if !c.opts.KeepGoing {
				return report, err
			}
			logger.Error("Core failed, continuing with the next one.", "core", core.Name, "error", err)
			report.Failures = append(report.Failures, err)
			continue
		}
		done = append(done, rules)
		subdirs = append(subdirs, NormalizeCoreName(core.Name))
	}

	if err := makefile.Prepend(top, []makefile.Variable{{Name: "SUBDIRS", Value: strings.Join(subdirs, " ")}}); err != nil {
		return report, err
	}
	if err := c.appendRules(ctx, top, aggregateRules(done), report); err != nil {
		return report, err
	}

	if len(report.Failures) > 0 {
		return report, errors.Join(report.Failures...)
	}
	logger.Info("Project created.", "root", root, "cores", len(report.Cores))
	return report, nil
}

// directories returns the base directories followed by the project's own,
// without duplicates.
func (c *Creator) directories(p *config.Project) []string {
	seen := map[string]struct{}{}
	var dirs []string
	for _, d := range append(append([]string{}, c.opts.BaseDirectories...), p.Directories...) {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}
	return dirs
}

func (c *Creator) createCore(ctx context.Context, root, top string, p *config.Project, core config.Core, report *Report) (coreRules, error) {
	coreName := NormalizeCoreName(core.Name)
	ctx, logger := ctxlog.With(ctx, "core", coreName)
	coreDir := filepath.Join(root, coreName)

	if err := c.gen.Generate(ctx, coreName, root); err != nil {
		return coreRules{}, fmt.Errorf("generating project: %w", err)
	}
	logger.Info("Core project generated.", "dir", coreDir)

	arch, err := p.ResolveArch(core)
	if err != nil {
		return coreRules{}, err
	}
	debugger := p.ResolveDebugger(core, c.opts.DefaultDebugger)
	logger.Debug("Resolved toolchain settings.", "arch", arch, "debugger", debugger)

	diags, err := mutate.MemoryMap(ctx, coreDir, c.opts.MemoryMapFile, p.MCUFamily, core.Memory, c.opts.MemoryMap)
	report.Diagnostics = append(report.Diagnostics, diags...)
	if err != nil {
		return coreRules{}, fmt.Errorf("updating memory map: %w", err)
	}

	probe := c.opts.DefaultProbe
	if core.DebugProbe != nil {
		probe = *core.DebugProbe
	}
	settings := mutate.DebugProbeSettings{Family: p.MCUFamily, Interface: probe.Interface, Target: probe.Target}
	if err := mutate.DebugProbe(ctx, coreDir, c.opts.DebugProbeFile, settings, c.opts.DebugProbe); err != nil {
		return coreRules{}, fmt.Errorf("updating debug probe configuration: %w", err)
	}

	manifest := mutate.ManifestSettings{Family: p.MCUFamily, Arch: arch, Debugger: debugger}
	if err := mutate.Manifest(ctx, coreDir, c.opts.ManifestFile, manifest); err != nil {
		return coreRules{}, fmt.Errorf("updating toolchain manifest: %w", err)
	}
	logger.Info("Templates updated.", "arch", arch, "debugger", debugger)

	if c.opts.SkipInstall || c.inst == nil {
		logger.Info("Skipping target installation.", "arch", arch)
	} else {
		if err := c.inst.Install(ctx, arch); err != nil {
			return coreRules{}, fmt.Errorf("installing target %s: %w", arch, err)
		}
		logger.Info("Target installed.", "arch", arch)
	}

	removed, missing, err := fsutil.RemovePaths(coreDir, c.opts.CleanupPaths)
	if err != nil {
		return coreRules{}, fmt.Errorf("removing template boilerplate: %w", err)
	}
	logger.Debug("Template boilerplate removed.", "removed", removed, "missing", missing)

	if err := makefile.Write(filepath.Join(coreDir, c.opts.MakefileName), coreMakefile()); err != nil {
		return coreRules{}, err
	}

	rules, delegating := delegatingRules(coreName)
	if err := c.appendRules(ctx, top, delegating, report); err != nil {
		return coreRules{}, err
	}

	report.Cores = append(report.Cores, CoreReport{Name: coreName, Dir: coreDir, Arch: arch, Debugger: debugger})
	return rules, nil
}

func (c *Creator) appendRules(ctx context.Context, path string, rules []makefile.Rule, report *Report) error {
	added, skipped, err := makefile.Append(ctx, path, rules)
	if err != nil {
		return err
	}
	report.RulesAdded = append(report.RulesAdded, added...)
	report.RulesSkipped = append(report.RulesSkipped, skipped...)
	return nil
}

// coreMakefile is the Makefile written into every core directory.
func coreMakefile() []makefile.Rule {
	return []makefile.Rule{
		{Name: "all", Dependencies: []string{"clean", "build"}, Commands: []string{`echo "Cleaning..."`, `echo "Building all targets"`}},
		{Name: "build", Commands: []string{"echo 'Building target'", "cargo build"}},
		{Name: "clean", Commands: []string{`echo "Cleaning up"`, "cargo clean"}},
	}
}

func delegatingRules(coreName string) (coreRules, []makefile.Rule) {
	ruleName := makefile.SanitizeRuleName(coreName)
	names := coreRules{build: "build-" + ruleName, clean: "clean-" + ruleName, all: "all-" + ruleName}
	return names, []makefile.Rule{
		{Name: names.build, Commands: []string{"$(MAKE) -C " + coreName + " build"}},
		{Name: names.clean, Commands: []string{"$(MAKE) -C " + coreName + " clean"}},
		{Name: names.all, Commands: []string{"$(MAKE) -C " + coreName + " all"}},
	}
}

func aggregateRules(cores []coreRules) []makefile.Rule {
	var build, clean, all []string
	for _, r := range cores {
		build = append(build, r.build)
		clean = append(clean, r.clean)
		all = append(all, r.all)
	}
	return []makefile.Rule{
		{Name: "build", Dependencies: build, Commands: []string{"echo 'building for all cores'"}},
		{Name: "clean", Dependencies: clean, Commands: []string{"echo 'cleaning for all cores'"}},
		{Name: "all", Dependencies: all, Commands: []string{"echo 'building and cleaning for all cores'"}},
	}
}
