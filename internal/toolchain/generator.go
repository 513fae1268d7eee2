package toolchain

import "context"

// DefaultTemplate is the project template cargo-generate clones.
const DefaultTemplate = "https://github.com/rust-embedded/cortex-m-quickstart"

// CargoGenerator materializes a project skeleton with cargo-generate.
type CargoGenerator struct {
	Runner   Runner
	Template string
}

// NewCargoGenerator returns a generator for template using the exec runner.
func NewCargoGenerator(template string) *CargoGenerator {
	if template == "" {
		template = DefaultTemplate
	}
	return &CargoGenerator{Runner: ExecRunner{}, Template: template}
}

// Generate creates dest/name from the template.
func (g *CargoGenerator) Generate(ctx context.Context, name, dest string) error {
	_, err := run(ctx, g.Runner, Command{
		Name: "cargo",
		Args: []string{"generate", "--git", g.Template, "--name", name, "--destination", dest},
	})
	return err
}
