package mutate

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	runnerRe = regexp.MustCompile(`^runner\s*=\s*"([^"]*)"`)
	targetRe = regexp.MustCompile(`^target\s*=\s*"([^"]*)"`)
)

// ManifestSettings are the values written into the cargo configuration.
type ManifestSettings struct {
	Family   string
	Arch     string
	Debugger string
}

// Manifest rewrites the cargo toolchain configuration dir/name.
func Manifest(ctx context.Context, dir, name string, settings ManifestSettings) error {
	_, err := rewriteFile(ctx, dir, name, func(lines []string) ([]string, []error) {
		return RewriteManifest(lines, settings), nil
	})
	return err
}

// RewriteManifest activates the runner line whose command is the debugger
// and leaves exactly one active target line in the [build] section:
//
//	target = "<arch>" # <family>
//
// Other active targets in [build] are commented out. If no line for arch
// exists, one is added at the end of the section.
func RewriteManifest(lines []string, settings ManifestSettings) []string {
	targetLine := fmt.Sprintf("target = %q # %s", settings.Arch, settings.Family)

	out := make([]string, 0, len(lines)+1)
	inBuild, placed := false, false
	sectionStart := 0

	closeBuild := func() {
		if !inBuild || placed {
			return
		}
		at := len(out)
		for at > sectionStart && strings.TrimSpace(out[at-1]) == "" {
			at--
		}
		out = slices.Insert(out, at, targetLine)
		placed = true
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if header, ok := tableHeader(trimmed); ok {
			closeBuild()
			inBuild = header == "build"
			out = append(out, line)
			sectionStart = len(out)
			continue
		}

		if cmd, ok := commentedRunner(trimmed); ok && cmd == settings.Debugger {
			line = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}

		if inBuild {
			if value, commented, ok := targetEntry(trimmed); ok {
				switch {
				case value == settings.Arch && !placed:
					line = targetLine
					placed = true
				case !commented:
					line = "# " + line
				}
			}
		}
		out = append(out, line)
	}
	closeBuild()
	return out
}

// tableHeader returns the table name of a TOML header line, ignoring a
// trailing comment and whitespace inside the brackets.
func tableHeader(trimmed string) (string, bool) {
	if i := strings.Index(trimmed, "#"); i >= 0 {
		trimmed = strings.TrimSpace(trimmed[:i])
	}
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return "", false
	}
	return strings.Join(strings.Fields(trimmed[1:len(trimmed)-1]), ""), true
}

// commentedRunner returns the command word of a commented-out runner line.
func commentedRunner(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	m := runnerRe.FindStringSubmatch(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
	if m == nil {
		return "", false
	}
	fields := strings.Fields(m[1])
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// targetEntry parses an active or commented target assignment.
func targetEntry(trimmed string) (value string, commented, ok bool) {
	commented = strings.HasPrefix(trimmed, "#")
	m := targetRe.FindStringSubmatch(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
	if m == nil {
		return "", false, false
	}
	return m[1], commented, true
}
