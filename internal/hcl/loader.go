package hcl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/mcuscaffold/internal/config"
	"github.com/vk/mcuscaffold/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Loader is the HCL-backed implementation of the config.Loader interface.
type Loader struct {
	rules config.Rules
}

// NewLoader creates a loader that validates with the given rules.
func NewLoader(rules config.Rules) *Loader {
	return &Loader{rules: rules}
}

// Load reads, parses, translates and validates the configuration at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: the specified file %q does not exist", config.ErrFileNotFound, path)
	}

	format := formatOf(path)
	logger.Debug("Loading configuration.", "path", path, "format", format)

	var attrs map[string]cty.Value
	switch format {
	case "hcl":
		attrs, err = parseHCL(path)
	case "yaml":
		attrs, err = parseYAML(path)
	default:
		attrs, err = parseJSON(path)
	}
	if err != nil {
		return nil, err
	}

	doc, err := translateDocument(ctx, attrs)
	if err != nil {
		if format == "yaml" {
			addQuotingHint(err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	project, err := config.New(doc, l.rules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Configuration loaded.", "mcu_family", project.MCUFamily, "cores", len(project.Cores))
	return project, nil
}

// addQuotingHint explains a YAML scalar such as 0x08000000 that was read as
// a number where a string is required.
func addQuotingHint(err error) {
	var vErr *config.ValidationError
	if errors.As(err, &vErr) && vErr.Reason == "must be of type string, got number" {
		vErr.Reason += `; quote the value in YAML so it stays a string, e.g. "0x08000000"`
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return "hcl"
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func parseJSON(path string) (map[string]cty.Value, error) {
	file, diags := hclparse.NewParser().ParseJSONFile(path)
	if diags.HasErrors() {
		return nil, malformed(path, diags)
	}
	return bodyValues(path, file.Body)
}

func parseHCL(path string) (map[string]cty.Value, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, malformed(path, diags)
	}
	return bodyValues(path, file.Body)
}

// bodyValues evaluates every top-level attribute of body without variables.
func bodyValues(path string, body hcl.Body) (map[string]cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, malformed(path, diags)
	}
	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, malformed(path, valDiags)
		}
		values[name] = v
	}
	return values, nil
}

// parseYAML decodes YAML generically and bridges it into cty through its
// JSON encoding, so every format reaches translation with the same value
// shapes.
func parseYAML(path string) (map[string]cty.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", config.ErrMalformedInput, path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", config.ErrMalformedInput, path, err)
	}
	ty, err := ctyjson.ImpliedType(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", config.ErrMalformedInput, path, err)
	}
	v, err := ctyjson.Unmarshal(buf, ty)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", config.ErrMalformedInput, path, err)
	}
	if !v.Type().IsObjectType() {
		return nil, config.Invalid("(root)", render(v), "must be a mapping of configuration keys")
	}
	return v.AsValueMap(), nil
}

func malformed(path string, diags hcl.Diagnostics) error {
	return fmt.Errorf("%w: the file %q could not be parsed: %s", config.ErrMalformedInput, path, diags.Error())
}
