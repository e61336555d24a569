package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/poetry2uv/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poetryManifest = `[tool.poetry]
name = "demo"
version = "0.1.0"

[tool.poetry.dependencies]
python = "^3.11"
requests = "^2.31"

[tool.poetry.group.dev.dependencies]
pytest = "^8.0"

[build-system]
requires = ["poetry-core"]
build-backend = "poetry.core.masonry.api"
`

// writeProject writes content as pyproject.toml in a fresh directory.
func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// captureStdout runs fn while capturing os.Stdout and returns the output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() {
		_ = w.Close()
		os.Stdout = old
	}()

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateOutputFormat(f))
	}
	assert.ErrorContains(t, ValidateOutputFormat("xml"), "invalid format 'xml'")
}

func TestOutputStructured(t *testing.T) {
	data := map[string]int{"groups": 2}

	out := captureStdout(t, func() {
		require.NoError(t, OutputStructured(data, FormatJSON))
	})
	assert.Equal(t, "{\n  \"groups\": 2\n}\n", out)

	out = captureStdout(t, func() {
		require.NoError(t, OutputStructured(data, FormatYAML))
	})
	assert.Contains(t, out, "groups: 2")

	assert.Error(t, OutputStructured(data, FormatText))
}

func TestRejectSymlinkOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.toml")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	link := filepath.Join(dir, "link.toml")
	require.NoError(t, os.Symlink(target, link))

	assert.NoError(t, RejectSymlinkOutput(filepath.Join(dir, "missing.toml")))
	assert.NoError(t, RejectSymlinkOutput(target))
	assert.ErrorContains(t, RejectSymlinkOutput(link), "refusing to write to symlink")
}

func TestFormatManifestPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatManifestPath(StdinFilePath))
	assert.Equal(t, "a/pyproject.toml", FormatManifestPath("a/pyproject.toml"))
}

func TestOutputIssues(t *testing.T) {
	t.Run("success with info", func(t *testing.T) {
		var buf bytes.Buffer
		OutputIssues(&buf, &converter.ConversionResult{
			Success:   true,
			InfoCount: 1,
			Issues: []converter.ConversionIssue{
				{Path: "build-system.build-backend", Message: "removed", Severity: converter.SeverityInfo},
			},
		})
		assert.Contains(t, buf.String(), "Conversion Issues (1):")
		assert.Contains(t, buf.String(), "build-system.build-backend: removed")
		assert.Contains(t, buf.String(), "✓ Conversion successful (1 info, 0 warnings)")
	})

	t.Run("critical", func(t *testing.T) {
		var buf bytes.Buffer
		OutputIssues(&buf, &converter.ConversionResult{CriticalCount: 2, WarningCount: 1})
		assert.Equal(t, "✗ Conversion completed with 2 critical issue(s), 1 warning(s)\n", buf.String())
	})
}
