package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/mcuscaffold/internal/config"
	"github.com/vk/mcuscaffold/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

var knownKeys = map[string]struct{}{
	"mcu_family":          {},
	"config":              {},
	"directories":         {},
	"arch":                {},
	"debug_configuration": {},
}

// translateDocument converts the top-level attribute values of a
// configuration file into the format-agnostic document.
func translateDocument(ctx context.Context, attrs map[string]cty.Value) (config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	var doc config.Document
	var err error

	unknown := make([]string, 0)
	for name := range attrs {
		if _, ok := knownKeys[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		logger.Debug("Ignoring unknown configuration keys.", "keys", unknown)
	}

	if doc.MCUFamily, err = stringValue("mcu_family", attrs["mcu_family"]); err != nil {
		return doc, err
	}
	if doc.Arch, err = stringValue("arch", attrs["arch"]); err != nil {
		return doc, err
	}
	if doc.DebugConfiguration, err = stringValue("debug_configuration", attrs["debug_configuration"]); err != nil {
		return doc, err
	}
	if doc.Directories, err = stringList("directories", attrs["directories"]); err != nil {
		return doc, err
	}

	cores, err := objectOrList("config", attrs["config"])
	if err != nil {
		return doc, err
	}
	for i, v := range cores {
		core, err := translateCore(fmt.Sprintf("config[%d]", i), v)
		if err != nil {
			return doc, err
		}
		doc.Cores = append(doc.Cores, core)
	}
	return doc, nil
}

func translateCore(path string, v cty.Value) (config.CoreDocument, error) {
	var c config.CoreDocument
	var err error
	if err = requireObject(path, v); err != nil {
		return c, err
	}

	if c.Core, err = stringValue(path+".core", attr(v, "core")); err != nil {
		return c, err
	}
	if c.Arch, err = stringValue(path+".arch", attr(v, "arch")); err != nil {
		return c, err
	}
	if c.DebugConfiguration, err = stringValue(path+".debug_configuration", attr(v, "debug_configuration")); err != nil {
		return c, err
	}

	if mem := attr(v, "memory"); !isAbsent(mem) {
		m, err := translateMemory(path+".memory", mem)
		if err != nil {
			return c, err
		}
		c.Memory = &m
	}

	if probe := attr(v, "openocd"); !isAbsent(probe) {
		pp := path + ".openocd"
		if err := requireObject(pp, probe); err != nil {
			return c, err
		}
		d := &config.DebugProbeDocument{}
		if d.Interface, err = stringValue(pp+".interface", attr(probe, "interface")); err != nil {
			return c, err
		}
		if d.Target, err = stringValue(pp+".target", attr(probe, "target")); err != nil {
			return c, err
		}
		c.OpenOCD = d
	}
	return c, nil
}

func translateMemory(path string, v cty.Value) (config.MemoryDocument, error) {
	var m config.MemoryDocument
	var err error
	if err = requireObject(path, v); err != nil {
		return m, err
	}
	if m.Flash, err = stringList(path+".flash", attr(v, "flash")); err != nil {
		return m, err
	}
	if m.RAM, err = stringList(path+".ram", attr(v, "ram")); err != nil {
		return m, err
	}

	extra := attr(v, "extra_sections")
	if isAbsent(extra) {
		return m, nil
	}
	sections, err := objectOrList(path+".extra_sections", extra)
	if err != nil {
		return m, err
	}
	m.ExtraSections = make([]config.ExtraSectionDocument, 0, len(sections))
	for i, sv := range sections {
		sp := fmt.Sprintf("%s.extra_sections[%d]", path, i)
		if err := requireObject(sp, sv); err != nil {
			return m, err
		}
		var s config.ExtraSectionDocument
		if s.MemoryType, err = stringValue(sp+".memory_type", attr(sv, "memory_type")); err != nil {
			return m, err
		}
		if s.Origin, err = stringValue(sp+".origin", attr(sv, "origin")); err != nil {
			return m, err
		}
		if s.Length, err = stringValue(sp+".length", attr(sv, "length")); err != nil {
			return m, err
		}
		m.ExtraSections = append(m.ExtraSections, s)
	}
	return m, nil
}

// attr returns the named attribute of an object or map value, or cty.NilVal.
func attr(v cty.Value, name string) cty.Value {
	if isAbsent(v) {
		return cty.NilVal
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType():
		if ty.HasAttribute(name) {
			return v.GetAttr(name)
		}
	case ty.IsMapType():
		key := cty.StringVal(name)
		if v.HasIndex(key).True() {
			return v.Index(key)
		}
	}
	return cty.NilVal
}

// isAbsent treats a missing attribute (cty.NilVal) and an explicit null alike.
func isAbsent(v cty.Value) bool {
	return v.IsNull()
}

func isObject(v cty.Value) bool {
	return v.Type().IsObjectType() || v.Type().IsMapType()
}

func requireObject(path string, v cty.Value) error {
	if !isObject(v) {
		return typeMismatch(path, v, "object")
	}
	return nil
}

func stringValue(path string, v cty.Value) (*string, error) {
	if isAbsent(v) {
		return nil, nil
	}
	if !v.IsKnown() || !v.Type().Equals(cty.String) {
		return nil, typeMismatch(path, v, "string")
	}
	s := v.AsString()
	return &s, nil
}

func stringList(path string, v cty.Value) ([]string, error) {
	if isAbsent(v) {
		return nil, nil
	}
	elems, err := sequence(path, v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(elems))
	for i, e := range elems {
		s, err := stringValue(fmt.Sprintf("%s[%d]", path, i), e)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, typeMismatch(fmt.Sprintf("%s[%d]", path, i), e, "string")
		}
		out = append(out, *s)
	}
	return out, nil
}

// objectOrList accepts a single object or a sequence of objects and always
// returns a sequence.
func objectOrList(path string, v cty.Value) ([]cty.Value, error) {
	if isAbsent(v) {
		return nil, nil
	}
	if isObject(v) {
		return []cty.Value{v}, nil
	}
	return sequence(path, v)
}

func sequence(path string, v cty.Value) ([]cty.Value, error) {
	ty := v.Type()
	if !v.IsKnown() || !(ty.IsTupleType() || ty.IsListType() || ty.IsSetType()) {
		return nil, typeMismatch(path, v, "list")
	}
	elems := v.AsValueSlice()
	if elems == nil {
		elems = []cty.Value{}
	}
	return elems, nil
}

func typeMismatch(path string, v cty.Value, want string) error {
	return config.Invalid(path, render(v), fmt.Sprintf("must be of type %s, got %s", want, v.Type().FriendlyName()))
}

// render formats a value the way it would appear in a JSON document.
func render(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	if !v.IsWhollyKnown() {
		return "(unknown)"
	}
	buf, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(buf)
}
