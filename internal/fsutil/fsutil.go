// Package fsutil provides file system utility functions used while laying
// out and rewriting a generated project: directory creation, line-oriented
// reads, atomic writes and cleanup of generator boilerplate.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// EnsureDirs creates root and every directory in dirs beneath it. Existing
// directories are not an error. It returns the full paths in the order given.
func EnsureDirs(root string, dirs []string) ([]string, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("creating %s: %w", root, err)
	}
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		p, err := within(root, dir)
		if err != nil {
			return paths, err
		}
		if err := os.MkdirAll(p, dirPerm); err != nil {
			return paths, fmt.Errorf("creating %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// CreateFile creates an empty file at path, including any missing parent
// directories. An existing file is left untouched and created is false.
func CreateFile(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return false, fmt.Errorf("creating parent of %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
	if err != nil {
		return false, err
	}
	return true, f.Close()
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadLines reads a text file into lines without their terminators.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text on newlines. A trailing newline does not produce an
// empty last line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// JoinLines is the inverse of SplitLines; non-empty output always ends with
// a newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteLines atomically replaces path with lines.
func WriteLines(path string, lines []string) error {
	return WriteFileAtomic(path, []byte(JoinLines(lines)))
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path, so readers never observe a partially written file. The mode of
// an existing file is preserved.
func WriteFileAtomic(path string, data []byte) error {
	perm := filePerm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// RemovePaths deletes each named file or directory tree under root. Names
// that do not exist are returned in missing rather than treated as errors.
func RemovePaths(root string, names []string) (removed, missing []string, err error) {
	for _, name := range names {
		p, err := within(root, name)
		if err != nil {
			return removed, missing, err
		}
		if _, err := os.Lstat(p); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
			continue
		} else if err != nil {
			return removed, missing, err
		}
		if err := os.RemoveAll(p); err != nil {
			return removed, missing, fmt.Errorf("removing %s: %w", p, err)
		}
		removed = append(removed, name)
	}
	return removed, missing, nil
}

// within joins name onto root and rejects names that would escape it.
func within(root, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid relative path %q", name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %s", name, root)
	}
	return filepath.Join(root, clean), nil
}
