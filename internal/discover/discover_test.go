package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layout creates files under a temp dir and returns its path.
func layout(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("[tool.poetry]\n"), 0o600))
	}
	return root
}

func TestManifestsFile(t *testing.T) {
	root := layout(t, "pyproject.toml")
	path := filepath.Join(root, "pyproject.toml")

	got, err := Manifests([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, got)
}

func TestManifestsDirectory(t *testing.T) {
	root := layout(t, "svc/pyproject.toml")

	got, err := Manifests([]string{filepath.Join(root, "svc")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "svc", "pyproject.toml")}, got)

	_, err = Manifests([]string{root})
	assert.ErrorContains(t, err, "no pyproject.toml in directory")
}

func TestManifestsRecursiveGlob(t *testing.T) {
	root := layout(t,
		"services/auth/pyproject.toml",
		"services/users/api/pyproject.toml",
		"services/users/README.md",
		"libs/core/pyproject.toml",
	)

	got, err := Manifests([]string{filepath.Join(root, "services", "**", ManifestName)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "services", "auth", "pyproject.toml"),
		filepath.Join(root, "services", "users", "api", "pyproject.toml"),
	}, got)
}

func TestManifestsDirectoryGlob(t *testing.T) {
	root := layout(t,
		"services/auth/pyproject.toml",
		"services/users/README.md",
	)

	got, err := Manifests([]string{filepath.Join(root, "services", "*")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "services", "auth", "pyproject.toml")}, got)
}

func TestManifestsDeduplicates(t *testing.T) {
	root := layout(t, "a/pyproject.toml")
	dir := filepath.Join(root, "a")

	got, err := Manifests([]string{dir, filepath.Join(dir, "pyproject.toml"), filepath.Join(root, "*")})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestManifestsErrors(t *testing.T) {
	root := layout(t)

	_, err := Manifests([]string{filepath.Join(root, "missing.toml")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Manifests([]string{filepath.Join(root, "**", "pyproject.toml")})
	assert.ErrorContains(t, err, "no manifests match pattern")
}

func TestContainsGlob(t *testing.T) {
	assert.True(t, ContainsGlob("services/**/pyproject.toml"))
	assert.True(t, ContainsGlob("svc-?"))
	assert.True(t, ContainsGlob("{a,b}/pyproject.toml"))
	assert.False(t, ContainsGlob("services/auth"))
}
