package scaffold

import (
	"path/filepath"

	"github.com/vk/mcuscaffold/internal/config"
	"github.com/vk/mcuscaffold/internal/mutate"
)

// Options configures a Creator.
type Options struct {
	// WorkDir is where the project root is created. Empty means the current
	// directory.
	WorkDir string
	// BaseDirectories are created in every project root.
	BaseDirectories []string
	// CleanupPaths are removed from every generated core directory.
	CleanupPaths []string

	MemoryMapFile  string
	DebugProbeFile string
	ManifestFile   string
	MakefileName   string

	// DefaultDebugger is used when neither the core nor the project sets one.
	DefaultDebugger string
	// DefaultProbe is used for cores without an openocd block.
	DefaultProbe config.DebugProbe

	MemoryMap  mutate.MemoryMapOptions
	DebugProbe mutate.DebugProbeOptions

	// KeepGoing continues with the next core after a failure. Failures are
	// still returned once every core has been attempted.
	KeepGoing bool
	// SkipInstall disables the target installer.
	SkipInstall bool
}

// DefaultOptions returns the layout of a cortex-m-quickstart based project.
func DefaultOptions() Options {
	return Options{
		BaseDirectories: []string{"Common", "Drivers", "Utils"},
		CleanupPaths:    []string{"examples"},
		MemoryMapFile:   "memory.x",
		DebugProbeFile:  "openocd.cfg",
		ManifestFile:    filepath.Join(".cargo", "config.toml"),
		MakefileName:    "Makefile",
		DefaultDebugger: config.DefaultDebugger,
		DefaultProbe:    config.DebugProbe{Interface: "stlink.cfg", Target: "stm32h7x_dual_bank.cfg"},
		MemoryMap:       mutate.DefaultMemoryMapOptions(),
		DebugProbe:      mutate.DefaultDebugProbeOptions(),
	}
}
