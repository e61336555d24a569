// Package severity provides severity level constants and utilities
// for issues reported while converting a Poetry manifest.
//
// The levels are ordered from least to most severe:
// Info < Warning < Error < Critical
//
// Note that the numeric values are not in that order; use [Severity.Rank]
// when comparing.
package severity

// Severity indicates the severity level of a conversion issue.
type Severity int

const (
	// SeverityError indicates input that could not be interpreted at all.
	SeverityError Severity = iota

	// SeverityWarning indicates an entry that was dropped or left
	// unconstrained and needs manual review in the generated manifest.
	SeverityWarning

	// SeverityInfo indicates informational messages about conversion choices,
	// such as removing the Poetry build backend.
	SeverityInfo

	// SeverityCritical indicates input that cannot be converted without data loss.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Symbol returns the single-character marker used in CLI output.
func (s Severity) Symbol() string {
	switch s {
	case SeverityError, SeverityCritical:
		return "✗"
	case SeverityWarning:
		return "⚠"
	case SeverityInfo:
		return "ℹ"
	default:
		return "?"
	}
}

// Rank orders severities from least (1) to most (4) severe.
// Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Parse returns the Severity named by s, as produced by String.
func Parse(s string) (Severity, bool) {
	switch s {
	case "info":
		return SeverityInfo, true
	case "warning":
		return SeverityWarning, true
	case "error":
		return SeverityError, true
	case "critical":
		return SeverityCritical, true
	}
	return 0, false
}
