// Package commands provides CLI command handlers for poetry2uv.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/poetry2uv"
	"github.com/erraggy/poetry2uv/converter"
	"github.com/erraggy/poetry2uv/internal/cliutil"
	"go.yaml.in/yaml/v4"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// DryRunFileName is the file a dry run writes next to the input manifest.
const DryRunFileName = "pyproject_temp_uv.toml"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(string(bytes))
	return nil
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
// This prevents symlink attacks where a symlink could redirect output to an unintended location.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// FormatManifestPath returns a display-friendly path for the manifest.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatManifestPath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// OutputManifestHeader writes the common manifest header.
func OutputManifestHeader(w io.Writer, path string, gen converter.Generation) {
	cliutil.Writef(w, "poetry2uv version: %s\n", poetry2uv.Version())
	cliutil.Writef(w, "Manifest: %s\n", FormatManifestPath(path))
	cliutil.Writef(w, "Layout: %s\n", gen)
}

// OutputIssues writes a result's issues followed by a one-line verdict.
func OutputIssues(w io.Writer, result *converter.ConversionResult) {
	if len(result.Issues) > 0 {
		cliutil.Writef(w, "Conversion Issues (%d):\n", len(result.Issues))
		for _, issue := range result.Issues {
			cliutil.Writef(w, "  %s\n", issue.String())
		}
		cliutil.Writef(w, "\n")
	}

	if result.Success {
		cliutil.Verdict(w, true, "Conversion successful")
		if result.InfoCount > 0 || result.WarningCount > 0 {
			cliutil.Writef(w, " (%d info, %d warnings)", result.InfoCount, result.WarningCount)
		}
		cliutil.Writef(w, "\n")
		return
	}
	cliutil.Verdict(w, false, "Conversion completed with %d critical issue(s)", result.CriticalCount)
	if result.WarningCount > 0 {
		cliutil.Writef(w, ", %d warning(s)", result.WarningCount)
	}
	cliutil.Writef(w, "\n")
}
