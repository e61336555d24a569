package converrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a TOML parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrConversion indicates the manifest could not be converted.
	ErrConversion = errors.New("conversion error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrNotPoetryManifest indicates the document has no tool.poetry table.
	ErrNotPoetryManifest = errors.New("poetry section not found")

	// ErrMissingName indicates neither project.name nor tool.poetry.name is set.
	ErrMissingName = errors.New("name field not found in tool.poetry or project section")
)

// ParseError represents a failure to parse a TOML document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Key is the dotted key being decoded when the error occurred (optional)
	Key string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

func (e *ParseError) Error() string {
	var where []string
	if e.Path != "" {
		where = append(where, "in "+e.Path)
	}
	if e.Line > 0 {
		pos := fmt.Sprintf("at line %d", e.Line)
		if e.Column > 0 {
			pos += fmt.Sprintf(", column %d", e.Column)
		}
		where = append(where, pos)
	}
	if e.Key != "" {
		where = append(where, "(key "+e.Key+")")
	}
	return describe("parse error", strings.Join(where, " "), e.Message, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConversionError represents a manifest that cannot be converted at all.
type ConversionError struct {
	// Path is the TOML key path that was inspected (e.g., "tool.poetry")
	Path string
	// Message describes the conversion failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

func (e *ConversionError) Error() string {
	where := ""
	if e.Path != "" {
		where = "at " + e.Path
	}
	return describe("conversion error", where, e.Message, e.Cause)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

func (e *ConfigError) Error() string {
	where := ""
	if e.Option != "" {
		where = "for " + e.Option
	}
	if e.Value != nil {
		where = strings.TrimSpace(where + fmt.Sprintf(" (value: %v)", e.Value))
	}
	return describe("configuration error", where, e.Message, e.Cause)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// describe renders "<kind> <where>: <message>: <cause>", omitting empty parts.
func describe(kind, where, message string, cause error) string {
	var b strings.Builder
	b.WriteString(kind)
	if where != "" {
		b.WriteByte(' ')
		b.WriteString(where)
	}
	if message != "" {
		b.WriteString(": ")
		b.WriteString(message)
	}
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}
