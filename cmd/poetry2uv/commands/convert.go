package commands

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/erraggy/poetry2uv/converter"
	"github.com/erraggy/poetry2uv/internal/cliutil"
	"github.com/erraggy/poetry2uv/internal/discover"
	"github.com/erraggy/poetry2uv/internal/fileutil"
	"github.com/erraggy/poetry2uv/manifest"
)

// ConvertFlags contains flags for the convert command
type ConvertFlags struct {
	DryRun     bool
	Output     string
	Format     string
	Strict     bool
	NoWarnings bool
	Quiet      bool
	Verbose    bool
}

// ConvertReport is the machine-readable outcome of converting one manifest.
type ConvertReport struct {
	Manifest      string          `json:"manifest" yaml:"manifest"`
	Output        string          `json:"output,omitempty" yaml:"output,omitempty"`
	Backup        string          `json:"backup,omitempty" yaml:"backup,omitempty"`
	Generation    string          `json:"generation,omitempty" yaml:"generation,omitempty"`
	Success       bool            `json:"success" yaml:"success"`
	InfoCount     int             `json:"info_count" yaml:"info_count"`
	WarningCount  int             `json:"warning_count" yaml:"warning_count"`
	CriticalCount int             `json:"critical_count" yaml:"critical_count"`
	Stats         converter.Stats `json:"stats" yaml:"stats"`
	Issues        []ReportIssue   `json:"issues,omitempty" yaml:"issues,omitempty"`
	Error         string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportIssue is a conversion issue in a ConvertReport.
type ReportIssue struct {
	Severity string `json:"severity" yaml:"severity"`
	Path     string `json:"path" yaml:"path"`
	Message  string `json:"message" yaml:"message"`
	Context  string `json:"context,omitempty" yaml:"context,omitempty"`
}

// SetupConvertFlags creates and configures a FlagSet for the convert command.
// Returns the FlagSet and a ConvertFlags struct with bound flag variables.
func SetupConvertFlags() (*flag.FlagSet, *ConvertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &ConvertFlags{}

	fs.BoolVar(&flags.DryRun, "n", false, "dry run: write "+DryRunFileName+" next to the input instead of replacing it")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "dry run: write "+DryRunFileName+" next to the input instead of replacing it")
	fs.StringVar(&flags.Output, "o", "", "output file path (single manifest only; default: replace the input)")
	fs.StringVar(&flags.Output, "output", "", "output file path (single manifest only; default: replace the input)")
	fs.StringVar(&flags.Format, "format", FormatText, "report format: text, json, or yaml")
	fs.BoolVar(&flags.Strict, "strict", false, "fail on any conversion issues (even warnings)")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress warning and info messages")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "log conversion steps to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log conversion steps to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: poetry2uv convert [flags] <file|dir|glob|->...\n\n")
		cliutil.Writef(fs.Output(), "Convert Poetry pyproject.toml manifests to the uv (PEP 621) layout.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  poetry2uv convert pyproject.toml\n")
		cliutil.Writef(fs.Output(), "  poetry2uv convert -n .\n")
		cliutil.Writef(fs.Output(), "  poetry2uv convert -o uv.toml pyproject.toml\n")
		cliutil.Writef(fs.Output(), "  poetry2uv convert --format json 'services/**/pyproject.toml'\n")
		cliutil.Writef(fs.Output(), "  cat pyproject.toml | poetry2uv convert -q - > pyproject.uv.toml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Without -n or -o the input is renamed to <name>%s and replaced\n", fileutil.BackupSuffix)
		cliutil.Writef(fs.Output(), "  - Critical issues mark dependencies that were dropped (git, path, url)\n")
		cliutil.Writef(fs.Output(), "  - Caret and tilde constraints become lower bounds only\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Conversion successful\n")
		cliutil.Writef(fs.Output(), "  1    Conversion failed, critical issues found, or --strict and any warning\n")
	}

	return fs, flags
}

// HandleConvert executes the convert command
func HandleConvert(args []string) error {
	fs, flags := SetupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("convert command requires at least one file, directory, glob, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.DryRun && flags.Output != "" {
		return fmt.Errorf("-n and -o cannot be used together")
	}

	if fs.Arg(0) == StdinFilePath {
		if fs.NArg() != 1 {
			return fmt.Errorf("'-' cannot be combined with other inputs")
		}
		return convertStdin(flags)
	}

	paths, err := discover.Manifests(fs.Args())
	if err != nil {
		return err
	}
	if flags.Output != "" && len(paths) > 1 {
		return fmt.Errorf("-o requires a single manifest, got %d", len(paths))
	}

	reports := make([]ConvertReport, 0, len(paths))
	failed := 0
	for _, path := range paths {
		report, result, err := convertFile(path, flags)
		if err != nil {
			failed++
			report.Error = err.Error()
		} else if !report.Success {
			failed++
		}
		reports = append(reports, report)

		if flags.Format == FormatText && !flags.Quiet {
			printConvertText(report, result, err)
		}
	}

	if flags.Format != FormatText {
		if err := OutputStructured(reports, flags.Format); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d manifest(s) failed to convert cleanly", failed, len(paths))
	}
	return nil
}

func newConverter(flags *ConvertFlags) *converter.Converter {
	c := converter.New()
	c.StrictMode = flags.Strict
	c.IncludeInfo = !flags.NoWarnings
	if flags.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		c.Logger = manifest.NewSlogAdapter(slog.New(handler))
	}
	return c
}

// convertFile converts one manifest and writes the result to its destination.
// The returned result is nil when conversion failed before producing one.
func convertFile(path string, flags *ConvertFlags) (ConvertReport, *converter.ConversionResult, error) {
	report := ConvertReport{Manifest: path}

	result, err := newConverter(flags).Convert(path)
	if result != nil {
		fillReport(&report, result, flags.NoWarnings)
	}
	if err != nil {
		return report, result, err
	}

	data, err := result.Marshal()
	if err != nil {
		return report, result, fmt.Errorf("marshaling converted manifest: %w", err)
	}

	dest := path
	switch {
	case flags.Output != "":
		dest = filepath.Clean(flags.Output)
	case flags.DryRun:
		dest = filepath.Join(filepath.Dir(path), DryRunFileName)
	}
	if err := RejectSymlinkOutput(dest); err != nil {
		return report, result, err
	}

	if dest == path {
		backup, err := fileutil.ReplaceWithBackup(path, data, fileutil.ReadableByAll)
		if err != nil {
			return report, result, err
		}
		report.Backup = backup
	} else if err := os.WriteFile(dest, data, fileutil.ReadableByAll); err != nil {
		return report, result, fmt.Errorf("writing output file: %w", err)
	}
	report.Output = dest
	return report, result, nil
}

// convertStdin reads a manifest from stdin and writes the converted TOML to
// stdout, or to the -o path. Diagnostics go to stderr.
func convertStdin(flags *ConvertFlags) error {
	if flags.DryRun {
		return fmt.Errorf("-n cannot be used when reading from stdin")
	}
	if flags.Format != FormatText && flags.Output == "" {
		return fmt.Errorf("--format %s requires -o when reading from stdin", flags.Format)
	}

	p := manifest.New()
	p.Logger = newConverter(flags).Logger
	parseResult, err := p.ParseReader(os.Stdin)
	if err != nil {
		return fmt.Errorf("parsing stdin: %w", err)
	}
	result, err := newConverter(flags).ConvertParsed(*parseResult)
	if err != nil {
		return fmt.Errorf("converting from stdin: %w", err)
	}

	report := ConvertReport{Manifest: StdinFilePath}
	fillReport(&report, result, flags.NoWarnings)

	data, err := result.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling converted manifest: %w", err)
	}

	if flags.Output != "" {
		dest := filepath.Clean(flags.Output)
		if err := RejectSymlinkOutput(dest); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, fileutil.ReadableByAll); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		report.Output = dest
	} else if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("writing converted manifest to stdout: %w", err)
	}

	switch {
	case flags.Format != FormatText:
		if err := OutputStructured([]ConvertReport{report}, flags.Format); err != nil {
			return err
		}
	case !flags.Quiet:
		printConvertText(report, result, nil)
	}

	if !result.Success {
		return fmt.Errorf("conversion completed with %d critical issue(s)", result.CriticalCount)
	}
	return nil
}

func fillReport(report *ConvertReport, result *converter.ConversionResult, criticalOnly bool) {
	report.Generation = result.Generation.String()
	report.Success = result.Success
	report.InfoCount = result.InfoCount
	report.WarningCount = result.WarningCount
	report.CriticalCount = result.CriticalCount
	report.Stats = result.Stats

	list := result.Issues
	if criticalOnly {
		list = filterCritical(list)
	}
	for _, issue := range list {
		report.Issues = append(report.Issues, ReportIssue{
			Severity: issue.Severity.String(),
			Path:     issue.Path,
			Message:  issue.Message,
			Context:  issue.Context,
		})
	}
}

func filterCritical(list []converter.ConversionIssue) []converter.ConversionIssue {
	out := make([]converter.ConversionIssue, 0, len(list))
	for _, issue := range list {
		if issue.Severity == converter.SeverityCritical {
			out = append(out, issue)
		}
	}
	return out
}

func printConvertText(report ConvertReport, result *converter.ConversionResult, err error) {
	w := os.Stderr
	if result == nil {
		cliutil.Writef(w, "%s: %v\n\n", FormatManifestPath(report.Manifest), err)
		return
	}

	OutputManifestHeader(w, report.Manifest, result.Generation)
	cliutil.Writef(w, "Dependencies: %d\n", result.Stats.Dependencies)
	cliutil.Writef(w, "Groups: %d\n", result.Stats.Groups)
	cliutil.Writef(w, "Extras: %d\n", result.Stats.Extras)
	cliutil.Writef(w, "Sources: %d\n\n", result.Stats.Sources)

	shown := *result
	if len(report.Issues) != len(result.Issues) {
		shown.Issues = filterCritical(result.Issues)
	}
	OutputIssues(w, &shown)

	if err != nil {
		cliutil.Writef(w, "Error: %v\n", err)
	}
	if report.Backup != "" {
		cliutil.Writef(w, "Backup: %s\n", report.Backup)
	}
	if report.Output != "" {
		cliutil.Writef(w, "Output written to: %s\n", report.Output)
	}
	cliutil.Writef(w, "\n")
}
