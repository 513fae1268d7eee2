package mutate

import (
	"context"
	"strings"
)

// DebugProbeOptions holds the fixed markers of the OpenOCD template.
type DebugProbeOptions struct {
	// HeaderPrefix identifies the sample header comment.
	HeaderPrefix string
	// In lines containing InterfaceMarker, InterfaceFile is replaced by the
	// configured interface script. Target lines work the same way.
	InterfaceMarker string
	InterfaceFile   string
	TargetMarker    string
	TargetFile      string
}

// DefaultDebugProbeOptions returns the markers of the cortex-m-quickstart openocd.cfg.
func DefaultDebugProbeOptions() DebugProbeOptions {
	return DebugProbeOptions{
		HeaderPrefix:    "# Sample OpenOCD configuration",
		InterfaceMarker: "interface/",
		InterfaceFile:   "stlink.cfg",
		TargetMarker:    "target/",
		TargetFile:      "stm32f3x.cfg",
	}
}

// DebugProbeSettings are the values written into the OpenOCD configuration.
type DebugProbeSettings struct {
	Family    string
	Interface string
	Target    string
}

// DebugProbe rewrites the OpenOCD configuration dir/name.
func DebugProbe(ctx context.Context, dir, name string, settings DebugProbeSettings, opts DebugProbeOptions) error {
	_, err := rewriteFile(ctx, dir, name, func(lines []string) ([]string, []error) {
		return RewriteDebugProbe(lines, settings, opts), nil
	})
	return err
}

// RewriteDebugProbe replaces the sample header with a family comment and
// points the interface and target lines at the configured scripts.
func RewriteDebugProbe(lines []string, settings DebugProbeSettings, opts DebugProbeOptions) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case opts.HeaderPrefix != "" && strings.HasPrefix(trimmed, opts.HeaderPrefix):
			line = "# Configuration for " + settings.Family
		case settings.Interface != "" && opts.InterfaceFile != "" && strings.Contains(line, opts.InterfaceMarker):
			line = strings.ReplaceAll(line, opts.InterfaceFile, settings.Interface)
		case settings.Target != "" && opts.TargetFile != "" && strings.Contains(line, opts.TargetMarker):
			line = strings.ReplaceAll(line, opts.TargetFile, settings.Target)
		}
		out[i] = line
	}
	return out
}
