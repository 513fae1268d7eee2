package mutate

import (
	"context"
	"path/filepath"

	"github.com/vk/mcuscaffold/internal/ctxlog"
	"github.com/vk/mcuscaffold/internal/fsutil"
)

// rewriteFunc transforms the lines of one file. Diagnostics are problems that
// did not stop the rewrite.
type rewriteFunc func(lines []string) (out []string, diagnostics []error)

// rewriteFile applies fn to dir/name and atomically writes the result back.
func rewriteFile(ctx context.Context, dir, name string, fn rewriteFunc) ([]error, error) {
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(dir, name)

	if !fsutil.IsFile(path) {
		return nil, &StructuralError{File: path, Msg: "template file does not exist"}
	}
	lines, err := fsutil.ReadLines(path)
	if err != nil {
		return nil, err
	}

	out, diags := fn(lines)
	for _, d := range diags {
		logger.Warn("Template step skipped.", "file", path, "reason", d)
	}

	if err := fsutil.WriteLines(path, out); err != nil {
		return diags, err
	}
	logger.Debug("Template rewritten.", "file", path, "lines_in", len(lines), "lines_out", len(out))
	return diags, nil
}

// indentOf returns the leading whitespace of line.
func indentOf(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}
