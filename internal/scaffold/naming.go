package scaffold

import (
	"strings"

	"github.com/vk/mcuscaffold/internal/config"
)

var projectNameReplacer = strings.NewReplacer(":", "_")

// NormalizeProjectName makes name safe as a directory name.
func NormalizeProjectName(name string) string {
	return projectNameReplacer.Replace(name)
}

// NormalizeCoreName makes a core identifier safe as a path segment and as a
// rule name fragment.
func NormalizeCoreName(name string) string {
	return config.NormalizeCoreName(name)
}
