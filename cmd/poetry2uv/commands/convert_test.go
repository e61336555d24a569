package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/poetry2uv/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupConvertFlags(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		_, flags := SetupConvertFlags()
		assert.False(t, flags.DryRun)
		assert.Empty(t, flags.Output)
		assert.Equal(t, FormatText, flags.Format)
		assert.False(t, flags.Strict)
		assert.False(t, flags.NoWarnings)
		assert.False(t, flags.Quiet)
		assert.False(t, flags.Verbose)
	})

	t.Run("short flags", func(t *testing.T) {
		fs, flags := SetupConvertFlags()
		require.NoError(t, fs.Parse([]string{"-n", "-q", "-v", "--strict", "--no-warnings", "pyproject.toml"}))
		assert.True(t, flags.DryRun)
		assert.True(t, flags.Quiet)
		assert.True(t, flags.Verbose)
		assert.True(t, flags.Strict)
		assert.True(t, flags.NoWarnings)
		assert.Equal(t, "pyproject.toml", fs.Arg(0))
	})

	t.Run("long flags", func(t *testing.T) {
		fs, flags := SetupConvertFlags()
		require.NoError(t, fs.Parse([]string{"--output", "uv.toml", "--format", "json", "--dry-run", "a", "b"}))
		assert.Equal(t, "uv.toml", flags.Output)
		assert.Equal(t, FormatJSON, flags.Format)
		assert.True(t, flags.DryRun)
		assert.Equal(t, 2, fs.NArg())
	})
}

func TestHandleConvert_ArgumentErrors(t *testing.T) {
	path := writeProject(t, poetryManifest)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", []string{}, "requires at least one"},
		{"bad format", []string{"--format", "xml", path}, "invalid format"},
		{"dry run with output", []string{"-n", "-o", "x.toml", path}, "cannot be used together"},
		{"stdin mixed with files", []string{"-", path}, "cannot be combined"},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope", "pyproject.toml")}, "resolve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, HandleConvert(tt.args), tt.want)
		})
	}
}

func TestHandleConvert_Help(t *testing.T) {
	assert.NoError(t, HandleConvert([]string{"--help"}))
}

func TestHandleConvert_DryRun(t *testing.T) {
	path := writeProject(t, poetryManifest)

	require.NoError(t, HandleConvert([]string{"-q", "-n", path}))

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, poetryManifest, string(original), "dry run leaves the input untouched")

	out, err := os.ReadFile(filepath.Join(filepath.Dir(path), DryRunFileName))
	require.NoError(t, err)
	assert.Contains(t, string(out), "[project]\nname = \"demo\"\nversion = \"0.1.0\"\n")
	assert.Contains(t, string(out), `requires-python = ">=3.11"`)
	assert.Contains(t, string(out), "[dependency-groups]\ndev = [\"pytest>=8.0\"]\n")
	assert.NoFileExists(t, path+".org")
}

func TestHandleConvert_ReplacesWithBackup(t *testing.T) {
	path := writeProject(t, poetryManifest)

	require.NoError(t, HandleConvert([]string{"-q", path}))

	backup, err := os.ReadFile(path + ".org")
	require.NoError(t, err)
	assert.Equal(t, poetryManifest, string(backup))

	converted, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(converted), `dependencies = ["requests>=2.31"]`)
	assert.NotContains(t, string(converted), "[tool.poetry]")

	// With a backup already present the manifest is left where it was.
	require.NoError(t, os.WriteFile(path, []byte(poetryManifest), 0o644))
	_, _, err = convertFile(path, &ConvertFlags{Format: FormatText})
	assert.ErrorContains(t, err, "already exists")
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, poetryManifest, string(again))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"pyproject.toml", "pyproject.toml.org"}, names)
}

func TestHandleConvert_OutputPath(t *testing.T) {
	path := writeProject(t, poetryManifest)
	out := filepath.Join(t.TempDir(), "uv.toml")

	require.NoError(t, HandleConvert([]string{"-q", "-o", out, path}))
	assert.FileExists(t, out)
	assert.NoFileExists(t, path+".org")
}

func TestHandleConvert_OutputRequiresSingleManifest(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, "pyproject.toml"), []byte(poetryManifest), 0o644))
	}

	err := HandleConvert([]string{"-o", filepath.Join(root, "out.toml"), filepath.Join(root, "*")})
	assert.ErrorContains(t, err, "-o requires a single manifest, got 2")
}

func TestHandleConvert_BatchJSONReport(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"svc/a", "svc/b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, "pyproject.toml"), []byte(poetryManifest), 0o644))
	}

	var runErr error
	out := captureStdout(t, func() {
		runErr = HandleConvert([]string{"-n", "--format", "json", filepath.Join(root, "svc", "**", "pyproject.toml")})
	})
	require.NoError(t, runErr)

	var reports []ConvertReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.True(t, r.Success)
		assert.Equal(t, "poetry-legacy", r.Generation)
		assert.Equal(t, filepath.Join(filepath.Dir(r.Manifest), DryRunFileName), r.Output)
		assert.Equal(t, 1, r.Stats.Groups)
		require.Len(t, r.Issues, 1)
		assert.Equal(t, "info", r.Issues[0].Severity)
		assert.FileExists(t, r.Output)
	}
}

func TestHandleConvert_CriticalIssuesFail(t *testing.T) {
	path := writeProject(t, `[tool.poetry]
name = "demo"
version = "1"

[tool.poetry.dependencies]
lib = { git = "https://example.com/lib.git" }
`)

	err := HandleConvert([]string{"-q", "-n", path})
	assert.ErrorContains(t, err, "1 of 1 manifest(s) failed")
	assert.FileExists(t, filepath.Join(filepath.Dir(path), DryRunFileName), "output is still written")
}

func TestHandleConvert_StrictDoesNotWrite(t *testing.T) {
	path := writeProject(t, `[tool.poetry]
name = "demo"
version = "1"

[tool.poetry.dependencies]
weird = "latest"
`)

	err := HandleConvert([]string{"-q", "-n", "--strict", path})
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(path), DryRunFileName))
}

func TestNewConverter(t *testing.T) {
	c := newConverter(&ConvertFlags{Strict: true, NoWarnings: true})
	assert.True(t, c.StrictMode)
	assert.False(t, c.IncludeInfo)
	assert.Nil(t, c.Logger)

	c = newConverter(&ConvertFlags{Verbose: true})
	assert.IsType(t, &manifest.SlogAdapter{}, c.Logger)
}

func TestHandleConvert_NotPoetry(t *testing.T) {
	path := writeProject(t, "[project]\nname = \"demo\"\n")
	assert.Error(t, HandleConvert([]string{"-q", "-n", path}))
}
