package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func validDocument() Document {
	return Document{
		MCUFamily: ptr("STM32H7"),
		Cores: []CoreDocument{
			{
				Core: ptr("cortex-m7"),
				Arch: ptr("thumbv7em-none-eabihf"),
				Memory: &MemoryDocument{
					Flash: []string{"0x08000000", "1024K"},
					RAM:   []string{"0x24000000", "512K"},
					ExtraSections: []ExtraSectionDocument{
						{MemoryType: ptr("dtcm"), Origin: ptr("0x20000000"), Length: ptr("128K")},
					},
				},
				DebugConfiguration: ptr("arm-none-eabi-gdb"),
				OpenOCD:            &DebugProbeDocument{Interface: ptr("stlink.cfg"), Target: ptr("stm32h7x.cfg")},
			},
			{
				Core: ptr("cortex_m4"),
				Arch: ptr("thumbv7em-none-eabihf"),
				Memory: &MemoryDocument{
					Flash: []string{"0x08100000", "1024K"},
					RAM:   []string{"0x10000000", "288K"},
				},
			},
		},
		Directories: []string{"custom"},
	}
}

func TestNew_Valid(t *testing.T) {
	t.Parallel()

	p, err := New(validDocument(), DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, "STM32H7", p.MCUFamily)
	require.Len(t, p.Cores, 2)
	assert.Equal(t, "cortex-m7", p.Cores[0].Name)
	assert.Equal(t, Region{Origin: "0x08000000", Length: "1024K"}, p.Cores[0].Memory.Flash)
	assert.Equal(t, []ExtraSection{{MemoryType: "dtcm", Origin: "0x20000000", Length: "128K"}}, p.Cores[0].Memory.ExtraSections)
	assert.Equal(t, &DebugProbe{Interface: "stlink.cfg", Target: "stm32h7x.cfg"}, p.Cores[0].DebugProbe)
	assert.Nil(t, p.Cores[1].Memory.ExtraSections)
	assert.Nil(t, p.Cores[1].DebugProbe)
	assert.Equal(t, []string{"custom"}, p.Directories)
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(d *Document)
		field  string
	}{
		{"missing mcu_family", func(d *Document) { d.MCUFamily = nil }, "mcu_family"},
		{"empty mcu_family", func(d *Document) { d.MCUFamily = ptr("") }, "mcu_family"},
		{"missing cores", func(d *Document) { d.Cores = nil }, "config"},
		{"empty directories", func(d *Document) { d.Directories = []string{} }, "directories"},
		{"empty directory entry", func(d *Document) { d.Directories = []string{"ok", ""} }, "directories[1]"},
		{"empty project arch", func(d *Document) { d.Arch = ptr("") }, "arch"},
		{"empty project debugger", func(d *Document) { d.DebugConfiguration = ptr("") }, "debug_configuration"},
		{"missing core name", func(d *Document) { d.Cores[1].Core = nil }, "config[1].core"},
		{"missing core arch", func(d *Document) { d.Cores[0].Arch = nil }, "config[0].arch"},
		{"empty core debugger", func(d *Document) { d.Cores[0].DebugConfiguration = ptr("") }, "config[0].debug_configuration"},
		{"missing memory", func(d *Document) { d.Cores[0].Memory = nil }, "config[0].memory"},
		{"flash arity", func(d *Document) { d.Cores[0].Memory.Flash = []string{"0x08000000"} }, "config[0].memory.flash"},
		{"ram odd size", func(d *Document) { d.Cores[1].Memory.RAM = []string{"0x10000000", "287K"} }, "config[1].memory.ram[1] (length)"},
		{"empty extra sections", func(d *Document) { d.Cores[0].Memory.ExtraSections = []ExtraSectionDocument{} }, "config[0].memory.extra_sections"},
		{"extra section bad origin", func(d *Document) {
			d.Cores[0].Memory.ExtraSections[0].Origin = ptr("0x2")
		}, "config[0].memory.extra_sections[0].origin"},
		{"extra section missing type", func(d *Document) {
			d.Cores[0].Memory.ExtraSections[0].MemoryType = nil
		}, "config[0].memory.extra_sections[0].memory_type"},
		{"openocd missing target", func(d *Document) { d.Cores[0].OpenOCD.Target = nil }, "config[0].openocd.target"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			doc := validDocument()
			tc.mutate(&doc)

			// --- Act ---
			p, err := New(doc, DefaultRules())

			// --- Assert ---
			require.Nil(t, p, "no partially built project may escape")
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestNew_CoreNamesSharingDirectory(t *testing.T) {
	t.Parallel()

	testCases := []struct{ first, second string }{
		{"cm_7", "cm:7"},
		{"cm-7", "cm_7"},
		{"cortex:m4", "cortex:m4"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.first+" "+tc.second, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			doc := validDocument()
			doc.Cores[0].Core = ptr(tc.first)
			doc.Cores[1].Core = ptr(tc.second)

			// --- Act ---
			p, err := New(doc, DefaultRules())

			// --- Assert ---
			require.Nil(t, p)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "config[1].core", vErr.Field)
			assert.Equal(t, tc.second, vErr.Value)
			assert.Contains(t, vErr.Reason, "config[0].core")
		})
	}
}

func TestNew_InvalidRules(t *testing.T) {
	t.Parallel()

	p, err := New(validDocument(), Rules{HexDigitsMin: 9, HexDigitsMax: 8, MemoryUnits: []string{"K"}})

	require.Nil(t, p)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rules.hex_digits_max", vErr.Field)
}

func TestNormalizeCoreName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "cm-7", NormalizeCoreName("cm_7"))
	assert.Equal(t, "cm-7", NormalizeCoreName("cm:7"))
	assert.Equal(t, "cortex-m7", NormalizeCoreName("cortex-m7"))
}

func TestNew_CoreArchFromProject(t *testing.T) {
	t.Parallel()

	doc := validDocument()
	doc.Arch = ptr("thumbv7m-none-eabi")
	doc.Cores[1].Arch = nil

	p, err := New(doc, DefaultRules())
	require.NoError(t, err)

	arch, err := p.ResolveArch(p.Cores[0])
	require.NoError(t, err)
	assert.Equal(t, "thumbv7em-none-eabihf", arch, "core-level arch wins")

	arch, err = p.ResolveArch(p.Cores[1])
	require.NoError(t, err)
	assert.Equal(t, "thumbv7m-none-eabi", arch)
}

func TestResolveDebugger(t *testing.T) {
	t.Parallel()

	p, err := New(validDocument(), DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, "arm-none-eabi-gdb", p.ResolveDebugger(p.Cores[0], DefaultDebugger))
	assert.Equal(t, DefaultDebugger, p.ResolveDebugger(p.Cores[1], DefaultDebugger))

	p.DebugConfiguration = "gdb"
	assert.Equal(t, "arm-none-eabi-gdb", p.ResolveDebugger(p.Cores[0], DefaultDebugger))
	assert.Equal(t, "gdb", p.ResolveDebugger(p.Cores[1], DefaultDebugger))
}

func TestDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	first, err := New(validDocument(), DefaultRules())
	require.NoError(t, err)

	second, err := New(first.Document(), DefaultRules())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
}
