package converter

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/erraggy/poetry2uv/converrors"
	"github.com/erraggy/poetry2uv/internal/issues"
	"github.com/erraggy/poetry2uv/internal/severity"
	"github.com/erraggy/poetry2uv/manifest"
)

// Severity indicates the severity level of a conversion issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about conversion choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates entries that were skipped or left unconstrained
	SeverityWarning = severity.SeverityWarning
	// SeverityCritical indicates dependencies that could not be converted (data loss)
	SeverityCritical = severity.SeverityCritical
)

// ConversionIssue represents a single conversion issue or limitation
type ConversionIssue = issues.Issue

// Stats counts what a conversion produced.
type Stats struct {
	// Dependencies is the number of project.dependencies entries
	Dependencies int `json:"dependencies" yaml:"dependencies"`
	// Groups is the number of dependency-groups entries
	Groups int `json:"groups" yaml:"groups"`
	// Extras is the number of project.optional-dependencies entries written
	Extras int `json:"extras" yaml:"extras"`
	// Sources is the number of tool.uv.sources entries
	Sources int `json:"sources" yaml:"sources"`
	// Plugins is the number of project.entry-points groups
	Plugins int `json:"plugins" yaml:"plugins"`
	// Tools is the number of tool sections copied
	Tools int `json:"tools" yaml:"tools"`
}

// ConversionResult contains the results of converting a Poetry manifest
type ConversionResult struct {
	// Document is the converted uv manifest
	Document *manifest.Table
	// Generation is the detected Poetry schema layout of the source
	Generation Generation
	// SourcePath is the path of the source manifest, if known
	SourcePath string
	// Name is the project name
	Name string
	// Stats summarizes the converted sections
	Stats Stats
	// Issues contains all conversion issues in the order they were found
	Issues []ConversionIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if conversion completed without critical issues
	Success bool
}

// HasCriticalIssues returns true if there are any critical issues
func (r *ConversionResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *ConversionResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// Marshal serializes the converted document as TOML.
func (r *ConversionResult) Marshal() ([]byte, error) {
	return manifest.Marshal(r.Document)
}

// Converter handles Poetry to uv manifest conversion
type Converter struct {
	// StrictMode causes conversion to fail on any warning or critical issue
	StrictMode bool
	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool
	// ProjectDir is the directory license files are looked up in.
	// Defaults to the manifest's directory, or "." for in-memory documents.
	ProjectDir string
	// FS overrides the filesystem license files are looked up in.
	// Defaults to os.DirFS(ProjectDir).
	FS fs.StatFS
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default)
	Logger manifest.Logger
}

// New creates a new Converter instance with default settings
func New() *Converter {
	return &Converter{
		StrictMode:  false,
		IncludeInfo: true,
	}
}

// Convert is a convenience function that converts a pyproject.toml file.
// It's equivalent to creating a Converter with New() and calling Convert().
//
// Example:
//
//	result, err := converter.Convert("pyproject.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := result.Marshal()
func Convert(path string) (*ConversionResult, error) {
	return New().Convert(path)
}

// ConvertParsed is a convenience function that converts an already-parsed manifest.
//
// Example:
//
//	parseResult, _ := manifest.ParseWithOptions(manifest.WithFilePath("pyproject.toml"))
//	result, err := converter.ConvertParsed(*parseResult)
func ConvertParsed(parseResult manifest.ParseResult) (*ConversionResult, error) {
	return New().ConvertParsed(parseResult)
}

// Convert parses and converts the manifest at path.
func (c *Converter) Convert(path string) (*ConversionResult, error) {
	p := manifest.New()
	p.Logger = c.Logger
	parseResult, err := p.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return c.ConvertParsed(*parseResult)
}

// ConvertParsed converts an already-parsed manifest. License files are
// looked up next to the manifest unless ProjectDir or FS is set.
func (c *Converter) ConvertParsed(parseResult manifest.ParseResult) (*ConversionResult, error) {
	dir := c.ProjectDir
	if dir == "" {
		dir = parseResult.SourceDir
	}
	return c.convert(parseResult.Document, parseResult.SourcePath, dir)
}

// ConvertDocument converts a manifest tree. doc is not modified.
func (c *Converter) ConvertDocument(doc *manifest.Table) (*ConversionResult, error) {
	return c.convert(doc, "", c.ProjectDir)
}

func (c *Converter) log() manifest.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return manifest.NopLogger{}
}

func (c *Converter) filesystem(dir string) fs.StatFS {
	if c.FS != nil {
		return c.FS
	}
	if dir == "" {
		dir = "."
	}
	fsys, _ := os.DirFS(dir).(fs.StatFS)
	return fsys
}

func (c *Converter) convert(doc *manifest.Table, sourcePath, dir string) (*ConversionResult, error) {
	if doc == nil {
		return nil, &converrors.ConfigError{Option: "document", Message: "document cannot be nil"}
	}

	gen, err := DetectGeneration(doc)
	if err != nil {
		return nil, err
	}

	log := c.log()
	if sourcePath != "" {
		log = log.With("source", sourcePath)
	}
	b := newBuilder(doc.Clone(), gen, c.filesystem(dir), log)
	b.run()

	result := &ConversionResult{
		Document:   b.target,
		Generation: gen,
		SourcePath: sourcePath,
		Stats:      b.stats,
		Issues:     b.issues,
	}
	result.Name, _ = b.project.GetString("name")
	if result.Issues == nil {
		result.Issues = make([]ConversionIssue, 0)
	}

	c.updateCounts(result)
	result.Success = result.CriticalCount == 0
	log.Debug("conversion finished",
		"generation", gen.String(),
		"warnings", result.WarningCount,
		"critical", result.CriticalCount)

	// In strict mode, fail on any issues
	if c.StrictMode && (result.CriticalCount > 0 || result.WarningCount > 0) {
		return result, &converrors.ConversionError{
			Path: sourcePath,
			Message: fmt.Sprintf("conversion failed in strict mode: %d critical issue(s), %d warning(s)",
				result.CriticalCount, result.WarningCount),
		}
	}

	// Filter info messages if not included
	if !c.IncludeInfo {
		result.Issues = issues.Filter(result.Issues, SeverityWarning)
		result.InfoCount = 0
	}

	return result, nil
}

// updateCounts updates the issue counts in the result
func (c *Converter) updateCounts(result *ConversionResult) {
	counts := issues.Count(result.Issues)
	result.InfoCount = counts.Info
	result.WarningCount = counts.Warning
	result.CriticalCount = counts.Critical
}
