// Package issues provides the issue type reported while converting manifests.
package issues

import (
	"fmt"

	"github.com/erraggy/poetry2uv/internal/severity"
)

// Issue represents a single problem or notable decision made during conversion.
type Issue struct {
	// Path is the dotted TOML key path of the affected entry
	// (e.g., "tool.poetry.dependencies.requests")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Value is the offending source value (optional)
	Value any
	// Context provides a hint on how to resolve the issue (optional)
	Context string
}

// String returns a formatted string representation of the issue,
// prefixed with the severity symbol.
func (i Issue) String() string {
	var result string
	if i.Path == "" {
		result = fmt.Sprintf("%s %s", i.Severity.Symbol(), i.Message)
	} else {
		result = fmt.Sprintf("%s %s: %s", i.Severity.Symbol(), i.Path, i.Message)
	}

	if i.Context != "" {
		result += fmt.Sprintf("\n    Context: %s", i.Context)
	}

	return result
}

// Counts tallies issues per severity.
type Counts struct {
	Info     int
	Warning  int
	Error    int
	Critical int
}

// Count returns the per-severity totals for list.
func Count(list []Issue) Counts {
	var c Counts
	for _, issue := range list {
		switch issue.Severity {
		case severity.SeverityInfo:
			c.Info++
		case severity.SeverityWarning:
			c.Warning++
		case severity.SeverityError:
			c.Error++
		case severity.SeverityCritical:
			c.Critical++
		}
	}
	return c
}

// Filter returns the issues at or above the given minimum severity, by rank.
func Filter(list []Issue, minimum severity.Severity) []Issue {
	filtered := make([]Issue, 0, len(list))
	for _, issue := range list {
		if issue.Severity.Rank() >= minimum.Rank() {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
