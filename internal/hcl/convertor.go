package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/mcuscaffold/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// topLevelOrder fixes the attribute order of rendered files.
var topLevelOrder = []string{"mcu_family", "arch", "debug_configuration", "directories", "config"}

// Converter moves validated projects to and from their plain cty encoding.
type Converter struct {
	rules config.Rules
}

// NewConverter creates a converter that validates with the given rules.
func NewConverter(rules config.Rules) *Converter {
	return &Converter{rules: rules}
}

// ToCtyValue encodes a project as a cty object using the configuration
// file's key names. Unset optional fields are omitted.
func (c *Converter) ToCtyValue(p *config.Project) (cty.Value, error) {
	doc := p.Document()
	attrs := map[string]cty.Value{}

	if err := setString(attrs, "mcu_family", doc.MCUFamily); err != nil {
		return cty.NilVal, err
	}
	if err := setString(attrs, "arch", doc.Arch); err != nil {
		return cty.NilVal, err
	}
	if err := setString(attrs, "debug_configuration", doc.DebugConfiguration); err != nil {
		return cty.NilVal, err
	}
	if doc.Directories != nil {
		v, err := gocty.ToCtyValue(doc.Directories, cty.List(cty.String))
		if err != nil {
			return cty.NilVal, fmt.Errorf("encoding directories: %w", err)
		}
		attrs["directories"] = v
	}

	cores := make([]cty.Value, 0, len(doc.Cores))
	for _, cd := range doc.Cores {
		v, err := coreValue(cd)
		if err != nil {
			return cty.NilVal, err
		}
		cores = append(cores, v)
	}
	attrs["config"] = cty.TupleVal(cores)

	return cty.ObjectVal(attrs), nil
}

func coreValue(cd config.CoreDocument) (cty.Value, error) {
	attrs := map[string]cty.Value{}
	if err := setString(attrs, "core", cd.Core); err != nil {
		return cty.NilVal, err
	}
	if err := setString(attrs, "arch", cd.Arch); err != nil {
		return cty.NilVal, err
	}
	if err := setString(attrs, "debug_configuration", cd.DebugConfiguration); err != nil {
		return cty.NilVal, err
	}

	if cd.Memory != nil {
		mem := map[string]cty.Value{}
		for name, region := range map[string][]string{"flash": cd.Memory.Flash, "ram": cd.Memory.RAM} {
			v, err := gocty.ToCtyValue(region, cty.List(cty.String))
			if err != nil {
				return cty.NilVal, fmt.Errorf("encoding %s: %w", name, err)
			}
			mem[name] = v
		}
		if cd.Memory.ExtraSections != nil {
			sections := make([]cty.Value, 0, len(cd.Memory.ExtraSections))
			for _, s := range cd.Memory.ExtraSections {
				sec := map[string]cty.Value{}
				for _, field := range []struct {
					name  string
					value *string
				}{{"memory_type", s.MemoryType}, {"origin", s.Origin}, {"length", s.Length}} {
					if err := setString(sec, field.name, field.value); err != nil {
						return cty.NilVal, err
					}
				}
				sections = append(sections, cty.ObjectVal(sec))
			}
			mem["extra_sections"] = cty.TupleVal(sections)
		}
		attrs["memory"] = cty.ObjectVal(mem)
	}

	if cd.OpenOCD != nil {
		probe := map[string]cty.Value{}
		if err := setString(probe, "interface", cd.OpenOCD.Interface); err != nil {
			return cty.NilVal, err
		}
		if err := setString(probe, "target", cd.OpenOCD.Target); err != nil {
			return cty.NilVal, err
		}
		attrs["openocd"] = cty.ObjectVal(probe)
	}
	return cty.ObjectVal(attrs), nil
}

func setString(attrs map[string]cty.Value, name string, s *string) error {
	if s == nil {
		return nil
	}
	v, err := gocty.ToCtyValue(*s, cty.String)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	attrs[name] = v
	return nil
}

// FromCtyValue rebuilds and validates a project from its cty encoding.
func (c *Converter) FromCtyValue(ctx context.Context, v cty.Value) (*config.Project, error) {
	if v.IsNull() || !v.Type().IsObjectType() {
		return nil, config.Invalid("(root)", render(v), "must be an object")
	}
	doc, err := translateDocument(ctx, v.AsValueMap())
	if err != nil {
		return nil, err
	}
	return config.New(doc, c.rules)
}

// EncodeHCL renders the project as an HCL attribute file that Load accepts.
func (c *Converter) EncodeHCL(p *config.Project) ([]byte, error) {
	v, err := c.ToCtyValue(p)
	if err != nil {
		return nil, err
	}
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	attrs := v.AsValueMap()
	for _, name := range topLevelOrder {
		if av, ok := attrs[name]; ok {
			body.SetAttributeValue(name, av)
		}
	}
	return hclwrite.Format(f.Bytes()), nil
}
