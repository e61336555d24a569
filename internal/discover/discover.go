// Package discover expands CLI arguments into the manifest files to convert.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ManifestName is the file looked for inside a directory argument.
const ManifestName = "pyproject.toml"

// Manifests expands files, directories and glob patterns to manifest paths.
//
// Examples:
//   - "pyproject.toml" → ["pyproject.toml"]
//   - "./services/auth" → ["services/auth/pyproject.toml"]
//   - "services/**/pyproject.toml" → every matching file
//   - "services/*" → the manifest of each matching directory that has one
//
// Paths are returned in argument order with duplicates removed.
func Manifests(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", pattern, err)
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}
	return resolved, nil
}

// resolvePattern expands a single argument.
func resolvePattern(pattern string) ([]string, error) {
	if !ContainsGlob(pattern) {
		path, ok, err := manifestAt(pattern)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no %s in directory %s", ManifestName, pattern)
		}
		return []string{path}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var paths []string
	for _, match := range matches {
		path, ok, err := manifestAt(match)
		if err != nil || !ok {
			continue // directories without a manifest, or unreadable matches
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no manifests match pattern: %s", pattern)
	}
	return paths, nil
}

// manifestAt returns path itself for a file, or the manifest inside it for a
// directory. ok is false for a directory without a manifest.
func manifestAt(path string) (string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false, err
	}
	if !info.IsDir() {
		return filepath.Clean(path), true, nil
	}

	candidate := filepath.Join(path, ManifestName)
	info, err = os.Stat(candidate)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if info.IsDir() {
		return "", false, nil
	}
	return candidate, true, nil
}

// ContainsGlob reports whether a pattern contains glob characters.
func ContainsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
