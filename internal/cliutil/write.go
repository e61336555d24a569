// Package cliutil provides output helpers shared by the poetry2uv commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef writes formatted output to w. A failed write is reported on stderr
// and otherwise ignored.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Verdict writes a ✓ or ✗ mark followed by the formatted message.
func Verdict(w io.Writer, ok bool, format string, args ...any) {
	mark := "✗ "
	if ok {
		mark = "✓ "
	}
	Writef(w, mark+format, args...)
}
