package converter

import (
	"regexp"
	"strings"
)

var (
	// ~1.2.* : tilde with a trailing wildcard segment
	tildeWildcardRegx = regexp.MustCompile(`^~([\d.]+)\.\*`)

	// ^1.2.3 or ~1.2 : caret or tilde followed by a version
	caretTildeRegx = regexp.MustCompile(`^[\^~](\d.*)`)

	// >=1.0,<2.0 : one or more operator/version clauses
	clauseRegx = regexp.MustCompile(`([<>=!]+)[\s,]*([\d.*]+),?`)
)

// TranslateConstraint converts a Poetry version constraint to a PEP 440
// specifier suffix.
//
// The rules are tried in order:
//
//	*          → ""            (unconstrained)
//	~1.2.*     → ">=1.2"
//	^1.2.3     → ">=1.2.3"     (also ~1.2.3)
//	>=1.0,<2.0 → ">=1.0,<2.0"  (every operator/version clause, comma-joined)
//
// Caret and tilde are widened to a lower bound only; the implied upper bound
// is not reproduced. The second result is false when no rule matches. The
// returned string is then empty and means "review manually", not
// "unconstrained".
func TranslateConstraint(s string) (string, bool) {
	if s == "*" {
		return "", true
	}
	if m := tildeWildcardRegx.FindStringSubmatch(s); m != nil {
		return ">=" + m[1], true
	}
	if m := caretTildeRegx.FindStringSubmatch(s); m != nil {
		return ">=" + m[1], true
	}

	matches := clauseRegx.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return "", false
	}
	clauses := make([]string, len(matches))
	for i, m := range matches {
		clauses[i] = m[1] + m[2]
	}
	return strings.Join(clauses, ","), true
}
