package toolchain

import "context"

// RustupInstaller adds compilation targets to the active Rust toolchain.
type RustupInstaller struct {
	Runner Runner
}

// NewRustupInstaller returns an installer using the exec runner.
func NewRustupInstaller() *RustupInstaller {
	return &RustupInstaller{Runner: ExecRunner{}}
}

// Install runs `rustup target add arch`.
func (i *RustupInstaller) Install(ctx context.Context, arch string) error {
	_, err := run(ctx, i.Runner, Command{Name: "rustup", Args: []string{"target", "add", arch}})
	return err
}
