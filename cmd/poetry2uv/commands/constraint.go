package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/poetry2uv/converter"
	"github.com/erraggy/poetry2uv/internal/cliutil"
)

// ConstraintFlags contains flags for the constraint command
type ConstraintFlags struct {
	Format string
}

// Translation is one translated constraint.
type Translation struct {
	Input      string `json:"input" yaml:"input"`
	Output     string `json:"output" yaml:"output"`
	Recognized bool   `json:"recognized" yaml:"recognized"`
}

// SetupConstraintFlags creates and configures a FlagSet for the constraint command.
func SetupConstraintFlags() (*flag.FlagSet, *ConstraintFlags) {
	fs := flag.NewFlagSet("constraint", flag.ContinueOnError)
	flags := &ConstraintFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: poetry2uv constraint [flags] <constraint>...\n\n")
		cliutil.Writef(fs.Output(), "Translate Poetry version constraints to PEP 440 specifiers.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  poetry2uv constraint '^1.2.3' '~3.*' '>=1.0,<2.0'\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Every constraint was recognized\n")
		cliutil.Writef(fs.Output(), "  1    At least one constraint was not recognized\n")
	}

	return fs, flags
}

// HandleConstraint executes the constraint command
func HandleConstraint(args []string) error {
	fs, flags := SetupConstraintFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("constraint command requires at least one constraint")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	translations := TranslateAll(fs.Args())
	unrecognized := 0
	for _, t := range translations {
		if !t.Recognized {
			unrecognized++
		}
	}

	if flags.Format != FormatText {
		if err := OutputStructured(translations, flags.Format); err != nil {
			return err
		}
	} else {
		for _, t := range translations {
			switch {
			case !t.Recognized:
				cliutil.Writef(os.Stdout, "%s\t(unrecognized)\n", t.Input)
			case t.Output == "":
				cliutil.Writef(os.Stdout, "%s\t(any version)\n", t.Input)
			default:
				cliutil.Writef(os.Stdout, "%s\t%s\n", t.Input, t.Output)
			}
		}
	}

	if unrecognized > 0 {
		return fmt.Errorf("%d constraint(s) not recognized", unrecognized)
	}
	return nil
}

// TranslateAll translates each constraint in order.
func TranslateAll(constraints []string) []Translation {
	out := make([]Translation, 0, len(constraints))
	for _, c := range constraints {
		spec, ok := converter.TranslateConstraint(c)
		out = append(out, Translation{Input: c, Output: spec, Recognized: ok})
	}
	return out
}
