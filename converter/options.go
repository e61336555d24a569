package converter

import (
	"fmt"
	"io/fs"

	"github.com/erraggy/poetry2uv/internal/options"
	"github.com/erraggy/poetry2uv/manifest"
)

// Option is a function that configures a conversion operation
type Option func(*convertConfig) error

// convertConfig holds configuration for a conversion operation
type convertConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	parsed   *manifest.ParseResult
	document *manifest.Table

	// Configuration options
	strictMode  bool
	includeInfo bool
	projectDir  string
	fsys        fs.StatFS
	logger      manifest.Logger
}

// ConvertWithOptions converts a Poetry manifest using functional options.
//
// Example:
//
//	result, err := converter.ConvertWithOptions(
//	    converter.WithFilePath("pyproject.toml"),
//	    converter.WithStrictMode(true),
//	)
func ConvertWithOptions(opts ...Option) (*ConversionResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("converter: invalid options: %w", err)
	}

	c := &Converter{
		StrictMode:  cfg.strictMode,
		IncludeInfo: cfg.includeInfo,
		ProjectDir:  cfg.projectDir,
		FS:          cfg.fsys,
		Logger:      cfg.logger,
	}

	switch {
	case cfg.filePath != nil:
		return c.Convert(*cfg.filePath)
	case cfg.parsed != nil:
		return c.ConvertParsed(*cfg.parsed)
	case cfg.document != nil:
		return c.ConvertDocument(cfg.document)
	default:
		return nil, fmt.Errorf("converter: no input source specified")
	}
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*convertConfig, error) {
	cfg := &convertConfig{
		strictMode:  false,
		includeInfo: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.SingleInputSource(
		options.Source{Option: "WithFilePath", Set: cfg.filePath != nil},
		options.Source{Option: "WithParsed", Set: cfg.parsed != nil},
		options.Source{Option: "WithDocument", Set: cfg.document != nil},
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a pyproject.toml path as the input source
func WithFilePath(path string) Option {
	return func(cfg *convertConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithParsed specifies an already-parsed manifest as the input source
func WithParsed(result manifest.ParseResult) Option {
	return func(cfg *convertConfig) error {
		if result.Document == nil {
			return fmt.Errorf("converter: parse result has no document")
		}
		cfg.parsed = &result
		return nil
	}
}

// WithDocument specifies a manifest tree as the input source
func WithDocument(doc *manifest.Table) Option {
	return func(cfg *convertConfig) error {
		if doc == nil {
			return fmt.Errorf("converter: document cannot be nil")
		}
		cfg.document = doc
		return nil
	}
}

// WithProjectDir sets the directory license files are looked up in
func WithProjectDir(dir string) Option {
	return func(cfg *convertConfig) error {
		cfg.projectDir = dir
		return nil
	}
}

// WithFS sets the filesystem license files are looked up in
func WithFS(fsys fs.StatFS) Option {
	return func(cfg *convertConfig) error {
		cfg.fsys = fsys
		return nil
	}
}

// WithStrictMode enables or disables strict mode (fail on warnings)
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithIncludeInfo enables or disables informational messages
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output
// Default: no logging
func WithLogger(l manifest.Logger) Option {
	return func(cfg *convertConfig) error {
		cfg.logger = l
		return nil
	}
}
