package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// FakeGenerator stands in for cargo-generate. It writes the quickstart
// template files into the destination directory and records every call.
type FakeGenerator struct {
	// Fail maps a project name to the error returned when generating it.
	Fail map[string]error
	// Files overrides the template files written. Nil means QuickstartFiles.
	Files map[string]string

	mu    sync.Mutex
	calls []string
}

// Generate creates dest/name populated with the template files.
func (g *FakeGenerator) Generate(ctx context.Context, name, dest string) error {
	g.mu.Lock()
	g.calls = append(g.calls, name)
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := g.Fail[name]; ok {
		return err
	}

	files := g.Files
	if files == nil {
		files = QuickstartFiles()
	}
	root := filepath.Join(dest, name)
	if _, err := os.Stat(root); err == nil {
		return fmt.Errorf("destination %s already exists", root)
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns the project names passed to Generate, in call order.
func (g *FakeGenerator) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// RecordingInstaller stands in for rustup and records the requested targets.
type RecordingInstaller struct {
	Err error

	mu      sync.Mutex
	targets []string
}

// Install records arch and returns the configured error.
func (r *RecordingInstaller) Install(_ context.Context, arch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, arch)
	return r.Err
}

// Targets returns the architectures passed to Install, in call order.
func (r *RecordingInstaller) Targets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.targets...)
}
