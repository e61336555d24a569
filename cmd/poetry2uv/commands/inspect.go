package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/erraggy/poetry2uv/converter"
	"github.com/erraggy/poetry2uv/internal/cliutil"
	"github.com/erraggy/poetry2uv/manifest"
)

// InspectFlags contains flags for the inspect command
type InspectFlags struct {
	Format string
}

// SetupInspectFlags creates and configures a FlagSet for the inspect command.
func SetupInspectFlags() (*flag.FlagSet, *InspectFlags) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	flags := &InspectFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: poetry2uv inspect [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Show what a conversion would produce without writing anything.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  poetry2uv inspect pyproject.toml\n")
		cliutil.Writef(fs.Output(), "  poetry2uv inspect --format json pyproject.toml | jq .dependencies\n")
	}

	return fs, flags
}

// HandleInspect executes the inspect command
func HandleInspect(args []string) error {
	fs, flags := SetupInspectFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("inspect command requires exactly one file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	path := fs.Arg(0)
	var result *converter.ConversionResult
	var err error
	if path == StdinFilePath {
		parseResult, perr := manifest.New().ParseReader(os.Stdin)
		if perr != nil {
			return fmt.Errorf("parsing stdin: %w", perr)
		}
		result, err = converter.ConvertParsed(*parseResult)
	} else {
		result, err = converter.Convert(path)
	}
	if err != nil {
		return fmt.Errorf("inspecting manifest: %w", err)
	}

	summary := result.Summary()
	if flags.Format != FormatText {
		return OutputStructured(summary, flags.Format)
	}
	printSummary(path, summary, len(result.Issues))
	return nil
}

func printSummary(path string, s converter.Summary, issueCount int) {
	w := os.Stdout
	cliutil.Writef(w, "Manifest: %s\n", FormatManifestPath(path))
	cliutil.Writef(w, "Layout: %s\n", s.Generation)
	cliutil.Writef(w, "Name: %s\n", s.Name)
	if s.Version != "" {
		cliutil.Writef(w, "Version: %s\n", s.Version)
	}
	if s.RequiresPython != "" {
		cliutil.Writef(w, "Requires-Python: %s\n", s.RequiresPython)
	}
	if s.BuildBackend != "" {
		cliutil.Writef(w, "Build Backend: %s\n", s.BuildBackend)
	}

	cliutil.Writef(w, "\nDependencies (%d):\n", len(s.Dependencies))
	for _, d := range s.Dependencies {
		cliutil.Writef(w, "  %s\n", d)
	}
	printNamedLists("Groups", s.Groups)
	printNamedLists("Extras", s.Extras)

	if len(s.Sources) > 0 {
		cliutil.Writef(w, "\nSources (%d):\n", len(s.Sources))
		for _, pin := range s.Sources {
			cliutil.Writef(w, "  %s → %s\n", pin.Package, pin.URL)
		}
	}
	if len(s.EntryPoints) > 0 {
		cliutil.Writef(w, "\nEntry Points: %s\n", strings.Join(s.EntryPoints, ", "))
	}
	if len(s.Tools) > 0 {
		cliutil.Writef(w, "Tools: %s\n", strings.Join(s.Tools, ", "))
	}
	cliutil.Writef(w, "\nIssues: %d (run convert -n for details)\n", issueCount)
}

func printNamedLists(title string, lists []converter.NamedList) {
	if len(lists) == 0 {
		return
	}
	cliutil.Writef(os.Stdout, "\n%s (%d):\n", title, len(lists))
	for _, l := range lists {
		cliutil.Writef(os.Stdout, "  %s: %s\n", l.Name, strings.Join(l.Requirements, ", "))
	}
}
