package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/poetry2uv/converrors"
)

// DefaultMaxFileSize is the largest manifest Parse will read when
// Parser.MaxFileSize is zero.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Parser reads pyproject.toml documents.
type Parser struct {
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default)
	Logger Logger
	// MaxFileSize is the maximum input size in bytes.
	// Default: 10MB
	MaxFileSize int64
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return DefaultMaxFileSize
}

// ParseResult contains a parsed manifest and where it came from.
//
// Callers should treat Document as read-only; the converter works on a
// deep copy so the same result can be converted more than once.
type ParseResult struct {
	// Document is the ordered root table.
	Document *Table
	// SourcePath is the file path, or "ParseReader.toml"/"ParseBytes.toml"
	// for in-memory input unless overridden with WithSourceName.
	SourcePath string
	// SourceDir is the directory relative file references resolve against.
	SourceDir string
	// SourceSize is the input size in bytes.
	SourceSize int64
	// LoadTime is how long reading the input took.
	LoadTime time.Duration
}

// Parse reads and parses the manifest at path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: failed to read file: %w", err)
	}
	if info.Size() > p.maxFileSize() {
		return nil, &converrors.ParseError{
			Path:    path,
			Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", info.Size(), p.maxFileSize()),
		}
	}

	loadStart := time.Now()
	data, err := os.ReadFile(path)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("manifest: failed to read file: %w", err)
	}

	res, err := p.parse(data, path)
	if err != nil {
		return nil, err
	}
	res.SourceDir = filepath.Dir(path)
	res.LoadTime = loadTime
	return res, nil
}

// ParseReader parses a manifest from r.
// SourcePath is set to "ParseReader.toml" and SourceDir to ".".
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(io.LimitReader(r, p.maxFileSize()+1))
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("manifest: failed to read data: %w", err)
	}
	if int64(len(data)) > p.maxFileSize() {
		return nil, &converrors.ParseError{
			Path:    "ParseReader.toml",
			Message: fmt.Sprintf("input exceeds limit of %d bytes", p.maxFileSize()),
		}
	}
	res, err := p.parse(data, "ParseReader.toml")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseBytes parses a manifest held in memory.
// SourcePath is set to "ParseBytes.toml" and SourceDir to ".".
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	if int64(len(data)) > p.maxFileSize() {
		return nil, &converrors.ParseError{
			Path:    "ParseBytes.toml",
			Message: fmt.Sprintf("input exceeds limit of %d bytes", p.maxFileSize()),
		}
	}
	return p.parse(data, "ParseBytes.toml")
}

func (p *Parser) parse(data []byte, source string) (*ParseResult, error) {
	doc, err := decode(data, source)
	if err != nil {
		p.log().Debug("manifest parse failed", "source", source, "error", err)
		return nil, err
	}
	p.log().Debug("parsed manifest", "source", source, "bytes", len(data), "keys", doc.Len())
	return &ParseResult{
		Document:   doc,
		SourcePath: source,
		SourceDir:  ".",
		SourceSize: int64(len(data)),
	}, nil
}
