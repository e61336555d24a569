package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyManifest = `[tool.poetry]
name = "demo"
version = "0.1.0"
authors = ["Jane Doe <jane@example.com>"]

[tool.poetry.dependencies]
python = "^3.11"
requests = "^2.31"

[tool.poetry.group.dev.dependencies]
pytest = "^8.0"

[build-system]
requires = ["poetry-core"]
build-backend = "poetry.core.masonry.api"
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestManifestInput_ResolveFile(t *testing.T) {
	manifestCache.reset()
	path := writeManifest(t, legacyManifest)

	result, err := manifestInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Equal(t, path, result.SourcePath)
	name, _ := result.Document.LookupString("tool", "poetry", "name")
	assert.Equal(t, "demo", name)
}

func TestManifestInput_ResolveContent(t *testing.T) {
	manifestCache.reset()
	result, err := manifestInput{Content: legacyManifest}.resolve()
	require.NoError(t, err)
	assert.NotNil(t, result.Document)
}

func TestManifestInput_ResolveRequiresExactlyOne(t *testing.T) {
	_, err := manifestInput{}.resolve()
	assert.ErrorContains(t, err, "exactly one of file or content must be provided")

	_, err = manifestInput{File: "pyproject.toml", Content: "x = 1"}.resolve()
	assert.ErrorContains(t, err, "exactly one of file or content must be provided")
}

func TestManifestInput_ResolveParseError(t *testing.T) {
	manifestCache.reset()
	_, err := manifestInput{Content: "[tool.poetry\n"}.resolve()
	assert.Error(t, err)
	assert.Zero(t, manifestCache.size(), "failed parses are not cached")
}

func TestManifestInput_InlineSizeLimit(t *testing.T) {
	orig := cfg.MaxInlineSize
	cfg.MaxInlineSize = 8
	t.Cleanup(func() { cfg.MaxInlineSize = orig })

	_, err := manifestInput{Content: legacyManifest}.resolve()
	assert.ErrorContains(t, err, "exceeds maximum")
}

func TestManifestInput_CachesParses(t *testing.T) {
	manifestCache.reset()
	input := manifestInput{File: writeManifest(t, legacyManifest)}

	result1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, manifestCache.size())

	result2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")
}

func TestManifestInput_CacheDisabled(t *testing.T) {
	orig := cfg.CacheEnabled
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = orig })
	manifestCache.reset()

	result1, err := manifestInput{Content: legacyManifest}.resolve()
	require.NoError(t, err)
	result2, err := manifestInput{Content: legacyManifest}.resolve()
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Zero(t, manifestCache.size())
}
