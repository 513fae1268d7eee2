package integration_tests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/mcuscaffold/internal/app"
	"github.com/vk/mcuscaffold/internal/testutil"
)

// harnessResult holds the outcomes of an end-to-end run.
type harnessResult struct {
	Stdout    string
	LogOutput string
	Err       error
	WorkDir   string
	Generator *testutil.FakeGenerator
	Installer *testutil.RecordingInstaller
}

// runScaffold writes the configuration document to a temporary directory and
// runs the application against it with fake collaborators.
func runScaffold(t *testing.T, cfgName, cfgContent string, cfg app.Config, gen *testutil.FakeGenerator) *harnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, cfgName)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o600))

	workDir := filepath.Join(tmpDir, "work")
	require.NoError(t, os.Mkdir(workDir, 0o755))

	cfg.ConfigPath = cfgPath
	cfg.WorkDir = workDir
	cfg.LogLevel = "debug"
	if cfg.ProjectName == "" {
		cfg.ProjectName = "proj"
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	if gen == nil {
		gen = &testutil.FakeGenerator{}
	}
	inst := &testutil.RecordingInstaller{}
	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}

	runErr := app.NewApp(out, logs, appConfig, app.Collaborators{Generator: gen, Installer: inst}).Run(context.Background())

	if os.Getenv("MCUSCAFFOLD_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	return &harnessResult{
		Stdout:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		WorkDir:   workDir,
		Generator: gen,
		Installer: inst,
	}
}

func readFile(t *testing.T, elem ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(elem...))
	require.NoError(t, err)
	return string(data)
}
