package mutate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/mcuscaffold/internal/config"
)

// MemoryMapOptions holds the fixed markers of the linker script template.
type MemoryMapOptions struct {
	// DenyLines are removed when a line, trimmed, equals one of them.
	DenyLines []string
	// Placeholder is the comment replaced by the family comment.
	Placeholder string
}

// DefaultMemoryMapOptions returns the markers of the cortex-m-quickstart memory.x.
func DefaultMemoryMapOptions() MemoryMapOptions {
	return MemoryMapOptions{
		DenyLines: []string{
			"/* These values correspond to the LM3S6965, one of the few devices QEMU can emulate */",
		},
		Placeholder: "/* TODO Adjust these memory regions to match your device memory layout */",
	}
}

// MemoryMap rewrites the linker memory map dir/name for one core.
func MemoryMap(ctx context.Context, dir, name, family string, mem config.Memory, opts MemoryMapOptions) ([]error, error) {
	return rewriteFile(ctx, dir, name, func(lines []string) ([]string, []error) {
		out, err := RewriteMemoryMap(lines, family, mem, opts)
		if err != nil {
			var se *StructuralError
			if errors.As(err, &se) {
				se.File = name
			}
			return out, []error{err}
		}
		return out, nil
	})
}

// RewriteMemoryMap applies the memory map edits to lines. A non-nil error
// is a diagnostic: the extra sections could not be placed, but every other
// edit has been applied to the returned lines.
func RewriteMemoryMap(lines []string, family string, mem config.Memory, opts MemoryMapOptions) ([]string, error) {
	out := deleteLines(lines, opts.DenyLines)
	out = replaceRegions(out, mem)

	var diag error
	if len(mem.ExtraSections) > 0 {
		var err error
		if out, err = insertExtraSections(out, mem.ExtraSections); err != nil {
			diag = err
		}
	}

	if opts.Placeholder != "" {
		out = replacePlaceholder(out, opts.Placeholder, fmt.Sprintf("/* Values adjusted for %s */", family))
	}
	return out, diag
}

func deleteLines(lines, deny []string) []string {
	denied := make(map[string]struct{}, len(deny))
	for _, d := range deny {
		denied[strings.TrimSpace(d)] = struct{}{}
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := denied[strings.TrimSpace(line)]; ok {
			continue
		}
		out = append(out, line)
	}
	return out
}

func regionLine(indent, name, origin, length string) string {
	return fmt.Sprintf("%s%s : ORIGIN = %s, LENGTH = %s", indent, name, origin, length)
}

func replaceRegions(lines []string, mem config.Memory) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.Contains(line, "FLASH :"):
			line = regionLine(indentOf(line), "FLASH", mem.Flash.Origin, mem.Flash.Length)
		case strings.Contains(line, "RAM :"):
			line = regionLine(indentOf(line), "RAM", mem.RAM.Origin, mem.RAM.Length)
		}
		out[i] = line
	}
	return out
}

// insertExtraSections places one region line per section before the closing
// brace of the MEMORY block.
func insertExtraSections(lines []string, sections []config.ExtraSection) ([]string, error) {
	start, open, end := -1, -1, -1
	for i, line := range lines {
		switch {
		case start < 0:
			if strings.Contains(line, "MEMORY") {
				start = i
				if strings.Contains(line, "{") {
					open = i
				}
			}
		case open < 0:
			if strings.Contains(line, "{") {
				open = i
			}
		case strings.Contains(line, "}"):
			end = i
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return lines, &StructuralError{Msg: "failed to identify the MEMORY block; extra sections not added"}
	}

	indent := "  "
	for _, line := range lines[open+1 : end] {
		if strings.Contains(line, "FLASH :") {
			indent = indentOf(line)
			break
		}
	}

	extra := make([]string, 0, len(sections))
	for _, s := range sections {
		extra = append(extra, regionLine(indent, strings.ToUpper(s.MemoryType), s.Origin, s.Length))
	}

	out := make([]string, 0, len(lines)+len(extra))
	out = append(out, lines[:end]...)
	out = append(out, extra...)
	out = append(out, lines[end:]...)
	return out, nil
}

// replacePlaceholder substitutes the placeholder comment, ignoring case and
// the amount of whitespace around and inside it.
func replacePlaceholder(lines []string, placeholder, replacement string) []string {
	words := strings.Fields(placeholder)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`(?i)` + strings.Join(words, `\s+`))

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = re.ReplaceAllLiteralString(line, replacement)
	}
	return out
}
