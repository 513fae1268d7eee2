// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the validated project model and its plain Document
// counterpart.
//
// Why two representations?
//
// A Document is what a loader can produce without judging it: every field is
// optional, absence is explicit (nil pointers and nil slices), and nothing has
// been checked. A Project is what the rest of the tool consumes: New walks the
// Document once, applies every rule, and either returns a complete Project or
// the first violation. There is no half-built Project.
//
// Project.Document goes the other way, which is what lets a validated
// configuration be re-encoded (for example as HCL) and loaded again unchanged.
package config

import (
	"fmt"
	"strings"
)

// DefaultDebugger is used when neither the core nor the project names one.
const DefaultDebugger = "gdb-multiarch"

// Project is a validated project configuration.
type Project struct {
	MCUFamily          string
	Cores              []Core
	Directories        []string
	Arch               string
	DebugConfiguration string
}

// Core is one independently built target of the project.
type Core struct {
	Name               string
	Arch               string
	Memory             Memory
	DebugConfiguration string
	DebugProbe         *DebugProbe
}

// Memory is the linker memory map of one core.
type Memory struct {
	Flash         Region
	RAM           Region
	ExtraSections []ExtraSection
}

// Region is a linker memory region.
type Region struct {
	Origin string
	Length string
}

// ExtraSection is an additional named linker memory region.
type ExtraSection struct {
	MemoryType string
	Origin     string
	Length     string
}

// DebugProbe names the OpenOCD interface and target scripts for a core.
type DebugProbe struct {
	Interface string
	Target    string
}

// Document is the unvalidated shape of a configuration file.
type Document struct {
	MCUFamily          *string
	Cores              []CoreDocument
	Directories        []string
	Arch               *string
	DebugConfiguration *string
}

// CoreDocument is the unvalidated shape of one `config` entry.
type CoreDocument struct {
	Core               *string
	Arch               *string
	Memory             *MemoryDocument
	DebugConfiguration *string
	OpenOCD            *DebugProbeDocument
}

// MemoryDocument is the unvalidated shape of a `memory` object.
type MemoryDocument struct {
	Flash         []string
	RAM           []string
	ExtraSections []ExtraSectionDocument
}

// ExtraSectionDocument is the unvalidated shape of one `extra_sections` entry.
type ExtraSectionDocument struct {
	MemoryType *string
	Origin     *string
	Length     *string
}

// DebugProbeDocument is the unvalidated shape of an `openocd` object.
type DebugProbeDocument struct {
	Interface *string
	Target    *string
}

var coreNameReplacer = strings.NewReplacer(":", "-", "_", "-")

// NormalizeCoreName maps a core identifier to the directory and rule name
// fragment used for it.
func NormalizeCoreName(name string) string {
	return coreNameReplacer.Replace(name)
}

// New validates doc against rules and builds a Project.
func New(doc Document, rules Rules) (*Project, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	p := &Project{}

	family, err := required("mcu_family", doc.MCUFamily)
	if err != nil {
		return nil, err
	}
	p.MCUFamily = family

	if p.Arch, err = optional("arch", doc.Arch); err != nil {
		return nil, err
	}
	if p.DebugConfiguration, err = optional("debug_configuration", doc.DebugConfiguration); err != nil {
		return nil, err
	}

	if doc.Directories != nil {
		if len(doc.Directories) == 0 {
			return nil, invalidf("directories", "[]", "must be non-empty when present")
		}
		for i, dir := range doc.Directories {
			if err := NonEmpty(fmt.Sprintf("directories[%d]", i), dir); err != nil {
				return nil, err
			}
		}
		p.Directories = append([]string(nil), doc.Directories...)
	}

	if len(doc.Cores) == 0 {
		return nil, invalidf("config", "[]", "must be set and non-empty")
	}
	p.Cores = make([]Core, 0, len(doc.Cores))
	dirs := make(map[string]int, len(doc.Cores))
	for i, cd := range doc.Cores {
		path := fmt.Sprintf("config[%d]", i)
		core, err := newCore(path, cd, p.Arch, rules)
		if err != nil {
			return nil, err
		}
		dir := NormalizeCoreName(core.Name)
		if prev, ok := dirs[dir]; ok {
			return nil, invalidf(path+".core", core.Name,
				"must not share its directory %q with config[%d].core", dir, prev)
		}
		dirs[dir] = i
		p.Cores = append(p.Cores, core)
	}

	return p, nil
}

func newCore(path string, doc CoreDocument, projectArch string, rules Rules) (Core, error) {
	var c Core
	var err error

	if c.Name, err = required(path+".core", doc.Core); err != nil {
		return Core{}, err
	}
	// A core may leave arch to the project-level value.
	if doc.Arch != nil || projectArch == "" {
		if c.Arch, err = required(path+".arch", doc.Arch); err != nil {
			return Core{}, err
		}
	}
	if c.DebugConfiguration, err = optional(path+".debug_configuration", doc.DebugConfiguration); err != nil {
		return Core{}, err
	}

	if doc.Memory == nil {
		return Core{}, invalidf(path+".memory", "null", "must be set")
	}
	if c.Memory, err = newMemory(path+".memory", *doc.Memory, rules); err != nil {
		return Core{}, err
	}

	if doc.OpenOCD != nil {
		probe := &DebugProbe{}
		if probe.Interface, err = required(path+".openocd.interface", doc.OpenOCD.Interface); err != nil {
			return Core{}, err
		}
		if probe.Target, err = required(path+".openocd.target", doc.OpenOCD.Target); err != nil {
			return Core{}, err
		}
		c.DebugProbe = probe
	}
	return c, nil
}

func newMemory(path string, doc MemoryDocument, rules Rules) (Memory, error) {
	var m Memory
	if err := RegionPair(path+".flash", doc.Flash, rules); err != nil {
		return Memory{}, err
	}
	if err := RegionPair(path+".ram", doc.RAM, rules); err != nil {
		return Memory{}, err
	}
	m.Flash = Region{Origin: doc.Flash[0], Length: doc.Flash[1]}
	m.RAM = Region{Origin: doc.RAM[0], Length: doc.RAM[1]}

	if doc.ExtraSections != nil && len(doc.ExtraSections) == 0 {
		return Memory{}, invalidf(path+".extra_sections", "[]", "must be non-empty when present")
	}
	for i, sd := range doc.ExtraSections {
		sp := fmt.Sprintf("%s.extra_sections[%d]", path, i)
		var s ExtraSection
		var err error
		if s.MemoryType, err = required(sp+".memory_type", sd.MemoryType); err != nil {
			return Memory{}, err
		}
		if s.Origin, err = required(sp+".origin", sd.Origin); err != nil {
			return Memory{}, err
		}
		if s.Length, err = required(sp+".length", sd.Length); err != nil {
			return Memory{}, err
		}
		if err := HexAddress(sp+".origin", s.Origin, rules); err != nil {
			return Memory{}, err
		}
		if err := MemorySize(sp+".length", s.Length, rules); err != nil {
			return Memory{}, err
		}
		m.ExtraSections = append(m.ExtraSections, s)
	}
	return m, nil
}

func required(field string, v *string) (string, error) {
	if v == nil {
		return "", invalidf(field, "null", "must be set and non-empty")
	}
	if err := NonEmpty(field, *v); err != nil {
		return "", err
	}
	return *v, nil
}

func optional(field string, v *string) (string, error) {
	if v == nil {
		return "", nil
	}
	if err := NonEmpty(field, *v); err != nil {
		return "", err
	}
	return *v, nil
}

// ResolveArch returns the architecture a core builds for: the core's own,
// else the project's.
func (p *Project) ResolveArch(c Core) (string, error) {
	switch {
	case c.Arch != "":
		return c.Arch, nil
	case p.Arch != "":
		return p.Arch, nil
	}
	return "", invalidf("config.arch", `""`, "core %q has no architecture and no project-level arch is set", c.Name)
}

// ResolveDebugger returns the debugger option for a core: the core's own,
// else the project's, else fallback.
func (p *Project) ResolveDebugger(c Core, fallback string) string {
	switch {
	case c.DebugConfiguration != "":
		return c.DebugConfiguration
	case p.DebugConfiguration != "":
		return p.DebugConfiguration
	}
	return fallback
}

// Document converts the project back to its plain representation. Unset
// optional fields are nil.
func (p *Project) Document() Document {
	doc := Document{
		MCUFamily:          strPtr(p.MCUFamily),
		Arch:               optPtr(p.Arch),
		DebugConfiguration: optPtr(p.DebugConfiguration),
	}
	if p.Directories != nil {
		doc.Directories = append([]string(nil), p.Directories...)
	}
	for _, c := range p.Cores {
		cd := CoreDocument{
			Core:               strPtr(c.Name),
			Arch:               optPtr(c.Arch),
			DebugConfiguration: optPtr(c.DebugConfiguration),
			Memory: &MemoryDocument{
				Flash: []string{c.Memory.Flash.Origin, c.Memory.Flash.Length},
				RAM:   []string{c.Memory.RAM.Origin, c.Memory.RAM.Length},
			},
		}
		for _, s := range c.Memory.ExtraSections {
			cd.Memory.ExtraSections = append(cd.Memory.ExtraSections, ExtraSectionDocument{
				MemoryType: strPtr(s.MemoryType),
				Origin:     strPtr(s.Origin),
				Length:     strPtr(s.Length),
			})
		}
		if c.DebugProbe != nil {
			cd.OpenOCD = &DebugProbeDocument{
				Interface: strPtr(c.DebugProbe.Interface),
				Target:    strPtr(c.DebugProbe.Target),
			}
		}
		doc.Cores = append(doc.Cores, cd)
	}
	return doc
}

func strPtr(s string) *string { return &s }

func optPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
