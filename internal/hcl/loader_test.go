package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mcuscaffold/internal/config"
)

const dualCoreJSON = `{
  "mcu_family": "STM32H745",
  "directories": ["custom"],
  "config": [
    {
      "core": "cortex-m7",
      "arch": "thumbv7em-none-eabihf",
      "memory": {
        "flash": ["0x08000000", "1024K"],
        "ram": ["0x24000000", "512K"],
        "extra_sections": {"memory_type": "dtcm", "origin": "0x20000000", "length": "128K"}
      },
      "debug_configuration": "arm-none-eabi-gdb"
    },
    {
      "core": "cortex:m4",
      "arch": "thumbv7em-none-eabihf",
      "memory": {
        "flash": ["0x08100000", "1024K"],
        "ram": ["0x10000000", "288K"]
      },
      "openocd": {"interface": "stlink-v3.cfg", "target": "stm32h7x_dual_bank.cfg"}
    }
  ]
}`

const dualCoreHCL = `
mcu_family  = "STM32H745"
directories = ["custom"]
config = [
  {
    core = "cortex-m7"
    arch = "thumbv7em-none-eabihf"
    memory = {
      flash = ["0x08000000", "1024K"]
      ram   = ["0x24000000", "512K"]
      extra_sections = [
        { memory_type = "dtcm", origin = "0x20000000", length = "128K" },
      ]
    }
    debug_configuration = "arm-none-eabi-gdb"
  },
  {
    core = "cortex:m4"
    arch = "thumbv7em-none-eabihf"
    memory = {
      flash = ["0x08100000", "1024K"]
      ram   = ["0x10000000", "288K"]
    }
    openocd = { interface = "stlink-v3.cfg", target = "stm32h7x_dual_bank.cfg" }
  },
]
`

const dualCoreYAML = `
mcu_family: STM32H745
directories: [custom]
config:
  - core: cortex-m7
    arch: thumbv7em-none-eabihf
    memory:
      flash: ["0x08000000", 1024K]
      ram: ["0x24000000", 512K]
      extra_sections:
        - memory_type: dtcm
          origin: "0x20000000"
          length: 128K
    debug_configuration: arm-none-eabi-gdb
  - core: "cortex:m4"
    arch: thumbv7em-none-eabihf
    memory:
      flash: ["0x08100000", 1024K]
      ram: ["0x10000000", 288K]
    openocd:
      interface: stlink-v3.cfg
      target: stm32h7x_dual_bank.cfg
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func load(t *testing.T, name, content string) (*config.Project, error) {
	t.Helper()
	return NewLoader(config.DefaultRules()).Load(context.Background(), writeFile(t, name, content))
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	p, err := load(t, "project.json", dualCoreJSON)
	require.NoError(t, err)

	assert.Equal(t, "STM32H745", p.MCUFamily)
	assert.Equal(t, []string{"custom"}, p.Directories)
	require.Len(t, p.Cores, 2)

	m7 := p.Cores[0]
	assert.Equal(t, "cortex-m7", m7.Name)
	assert.Equal(t, config.Region{Origin: "0x08000000", Length: "1024K"}, m7.Memory.Flash)
	assert.Equal(t, []config.ExtraSection{{MemoryType: "dtcm", Origin: "0x20000000", Length: "128K"}}, m7.Memory.ExtraSections,
		"a single extra section object is normalized to a list")
	assert.Equal(t, "arm-none-eabi-gdb", m7.DebugConfiguration)

	m4 := p.Cores[1]
	assert.Equal(t, "cortex:m4", m4.Name)
	assert.Equal(t, &config.DebugProbe{Interface: "stlink-v3.cfg", Target: "stm32h7x_dual_bank.cfg"}, m4.DebugProbe)
}

func TestLoad_FormatsAgree(t *testing.T) {
	t.Parallel()

	fromJSON, err := load(t, "project.json", dualCoreJSON)
	require.NoError(t, err)
	fromHCL, err := load(t, "project.hcl", dualCoreHCL)
	require.NoError(t, err)
	fromYAML, err := load(t, "project.yaml", dualCoreYAML)
	require.NoError(t, err)

	if diff := cmp.Diff(fromJSON, fromHCL); diff != "" {
		t.Errorf("json and hcl differ (-json +hcl):\n%s", diff)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("json and yaml differ (-json +yaml):\n%s", diff)
	}
}

func TestLoad_SingleCoreObject(t *testing.T) {
	t.Parallel()

	single := `{
	  "mcu_family": "STM32F3",
	  "config": {"core": "cm4", "arch": "thumbv7em-none-eabihf",
	             "memory": {"flash": ["0x08000000", "256K"], "ram": ["0x20000000", "40K"]}}
	}`
	wrapped := `{
	  "mcu_family": "STM32F3",
	  "config": [{"core": "cm4", "arch": "thumbv7em-none-eabihf",
	              "memory": {"flash": ["0x08000000", "256K"], "ram": ["0x20000000", "40K"]}}]
	}`

	a, err := load(t, "a.json", single)
	require.NoError(t, err)
	b, err := load(t, "b.json", wrapped)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, b))
	assert.Len(t, a.Cores, 1)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := NewLoader(config.DefaultRules()).Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorIs(t, err, config.ErrFileNotFound)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		t.Parallel()
		_, err := NewLoader(config.DefaultRules()).Load(context.Background(), t.TempDir())
		assert.ErrorIs(t, err, config.ErrFileNotFound)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "bad.json", `{"mcu_family": "STM32", "config": [`)
		assert.ErrorIs(t, err, config.ErrMalformedInput)
		assert.ErrorContains(t, err, "bad.json")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "bad.yaml", "mcu_family: [unterminated\n")
		assert.ErrorIs(t, err, config.ErrMalformedInput)
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "wrong.json", `{"mcu_family": 42, "config": []}`)
		var vErr *config.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "mcu_family", vErr.Field)
		assert.Equal(t, "42", vErr.Value)
		assert.Contains(t, vErr.Reason, "must be of type string, got number")
	})

	t.Run("yaml hex origin without quotes", func(t *testing.T) {
		t.Parallel()
		doc := "mcu_family: F3\nconfig:\n  core: cm4\n  arch: thumbv7em-none-eabihf\n" +
			"  memory:\n    flash: [0x08000000, 256K]\n    ram: [\"0x20000000\", 40K]\n"
		_, err := load(t, "hex.yml", doc)
		var vErr *config.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "config[0].memory.flash[0]", vErr.Field)
		assert.Equal(t, "134217728", vErr.Value, "YAML reads an unquoted 0x literal as an integer")
		assert.Contains(t, vErr.Reason, "must be of type string, got number")
		assert.Contains(t, vErr.Reason, "quote the value in YAML")
	})

	t.Run("json number has no yaml hint", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "num.json", `{"mcu_family": "F3", "config": {"core": "cm4", "arch": "thumbv7em-none-eabihf",
			"memory": {"flash": [134217728, "256K"], "ram": ["0x20000000", "40K"]}}}`)
		var vErr *config.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "config[0].memory.flash[0]", vErr.Field)
		assert.NotContains(t, vErr.Reason, "YAML")
	})

	t.Run("invariant violation", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "odd.json", `{"mcu_family": "F3", "config": {"core": "cm4", "arch": "thumbv7em-none-eabihf",
			"memory": {"flash": ["0x08000000", "127K"], "ram": ["0x20000000", "40K"]}}}`)
		assert.ErrorIs(t, err, config.ErrValidation)
		assert.ErrorContains(t, err, "config[0].memory.flash[1] (length)")
	})

	t.Run("missing config", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "nocores.json", `{"mcu_family": "F3"}`)
		var vErr *config.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "config", vErr.Field)
	})
}

func TestLoad_IgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	p, err := load(t, "extra.json", `{"mcu_family": "F3", "vendor": "ST",
		"config": {"core": "cm4", "arch": "thumbv7em-none-eabihf",
		"memory": {"flash": ["0x08000000", "256K"], "ram": ["0x20000000", "40K"]}}}`)
	require.NoError(t, err)
	assert.Equal(t, "F3", p.MCUFamily)
}
