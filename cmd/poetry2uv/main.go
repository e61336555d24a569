package main

import (
	"fmt"
	"os"

	"github.com/erraggy/poetry2uv"
	"github.com/erraggy/poetry2uv/cmd/poetry2uv/commands"
)

var commandNames = []string{"convert", "inspect", "constraint", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("poetry2uv v%s\n", poetry2uv.Version())
		fmt.Printf("commit: %s\nbuilt: %s\ngo: %s\n", poetry2uv.Commit(), poetry2uv.BuildTime(), poetry2uv.GoVersion())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "convert":
		err = commands.HandleConvert(args)
	case "inspect":
		err = commands.HandleInspect(args)
	case "constraint":
		err = commands.HandleConstraint(args)
	case "mcp":
		err = commands.HandleMCP(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `poetry2uv - convert Poetry pyproject.toml manifests to uv

Usage:
  poetry2uv <command> [flags] [arguments]

Commands:
  convert      Convert manifests (files, directories, globs, or '-' for stdin)
  inspect      Show what a conversion would produce
  constraint   Translate Poetry version constraints to PEP 440
  mcp          Run the MCP server over stdio
  version      Print version information
  help         Show this help

Run 'poetry2uv <command> --help' for command flags.
`)
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when none is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
