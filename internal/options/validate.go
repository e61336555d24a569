// Package options provides shared utilities for option validation across packages.
package options

import (
	"fmt"
	"strings"

	"github.com/erraggy/poetry2uv/converrors"
)

// Source names one way of supplying input to an operation and whether
// the caller selected it.
type Source struct {
	// Option is the name of the option function (e.g., "WithFilePath")
	Option string
	// Set reports whether the option was applied
	Set bool
}

// SingleInputSource ensures exactly one of sources is set.
// The returned error is a *converrors.ConfigError naming the options involved.
func SingleInputSource(sources ...Source) error {
	names := make([]string, 0, len(sources))
	var set []string
	for _, src := range sources {
		names = append(names, src.Option)
		if src.Set {
			set = append(set, src.Option)
		}
	}

	switch len(set) {
	case 1:
		return nil
	case 0:
		return &converrors.ConfigError{
			Option:  "input source",
			Message: fmt.Sprintf("must specify an input source (use %s)", strings.Join(names, " or ")),
		}
	default:
		return &converrors.ConfigError{
			Option:  "input source",
			Value:   strings.Join(set, ", "),
			Message: "must specify exactly one input source",
		}
	}
}
