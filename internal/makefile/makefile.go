// Package makefile reads and writes make-style rule files.
package makefile

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/mcuscaffold/internal/ctxlog"
	"github.com/vk/mcuscaffold/internal/fsutil"
)

// DefaultOperator is the assignment used when a Variable sets none.
const DefaultOperator = ":="

var operators = map[string]struct{}{":=": {}, "::=": {}, "=": {}, "?=": {}, "+=": {}}

// Rule is one make target. A rule without dependencies is a bare command list.
type Rule struct {
	Name         string
	Dependencies []string
	Commands     []string
}

// Variable is a NAME OP VALUE declaration.
type Variable struct {
	Name     string
	Value    string
	Operator string
}

// SanitizeRuleName makes a name usable as a rule header.
func SanitizeRuleName(name string) string {
	return strings.ReplaceAll(name, ":", "_")
}

// CreateFile creates an empty rule file and its parent directories. An
// existing file is left untouched.
func CreateFile(path string) error {
	if _, err := fsutil.CreateFile(path); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

// Render formats rules in order, separated by blank lines.
func Render(rules []Rule) []string {
	var out []string
	for i, r := range rules {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, renderRule(r)...)
	}
	return out
}

func renderRule(r Rule) []string {
	header := r.Name + ":"
	if len(r.Dependencies) > 0 {
		header += " " + strings.Join(r.Dependencies, " ")
	}
	lines := make([]string, 0, len(r.Commands)+1)
	lines = append(lines, header)
	for _, c := range r.Commands {
		lines = append(lines, "\t"+c)
	}
	return lines
}

// Write replaces the file at path with rules.
func Write(path string, rules []Rule) error {
	if err := fsutil.WriteLines(path, Render(rules)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// RuleNames returns the names of the rule headers in lines. Recipe lines,
// comments and variable assignments are not headers.
func RuleNames(lines []string) map[string]struct{} {
	names := map[string]struct{}{}
	for _, line := range lines {
		if strings.HasPrefix(line, "\t") || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		name, rest, ok := strings.Cut(line, ":")
		if !ok || strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, ":=") {
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			names[name] = struct{}{}
		}
	}
	return names
}

// AppendRules adds the rules whose names are not already headers in lines.
func AppendRules(lines []string, rules []Rule) (out, added, skipped []string) {
	existing := RuleNames(lines)
	out = append(out, lines...)
	for _, r := range rules {
		if _, ok := existing[r.Name]; ok {
			skipped = append(skipped, r.Name)
			continue
		}
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, renderRule(r)...)
		existing[r.Name] = struct{}{}
		added = append(added, r.Name)
	}
	return out, added, skipped
}

// Append adds rules to the file at path, leaving existing rules untouched.
func Append(ctx context.Context, path string, rules []Rule) (added, skipped []string, err error) {
	logger := ctxlog.FromContext(ctx)

	lines, err := fsutil.ReadLines(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	out, added, skipped := AppendRules(lines, rules)
	for _, name := range skipped {
		logger.Debug("Rule already exists, skipping.", "file", path, "rule", name)
	}
	if len(added) == 0 {
		return added, skipped, nil
	}
	if err := fsutil.WriteLines(path, out); err != nil {
		return nil, nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return added, skipped, nil
}

// PrependVariables returns the declarations, a blank line, then lines.
func PrependVariables(lines []string, vars []Variable) ([]string, error) {
	out := make([]string, 0, len(vars)+1+len(lines))
	for _, v := range vars {
		op := v.Operator
		if op == "" {
			op = DefaultOperator
		}
		if _, ok := operators[op]; !ok {
			return nil, fmt.Errorf("variable %s: unsupported assignment operator %q", v.Name, op)
		}
		out = append(out, fmt.Sprintf("%s %s %s", v.Name, op, v.Value))
	}
	if len(vars) > 0 && len(lines) > 0 {
		out = append(out, "")
	}
	return append(out, lines...), nil
}

// Prepend writes variable declarations above the existing content of path.
func Prepend(path string, vars []Variable) error {
	lines, err := fsutil.ReadLines(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	out, err := PrependVariables(lines, vars)
	if err != nil {
		return err
	}
	if err := fsutil.WriteLines(path, out); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
