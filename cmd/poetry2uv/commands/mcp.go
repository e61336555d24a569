package commands

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/poetry2uv/internal/cliutil"
	"github.com/erraggy/poetry2uv/internal/mcpserver"
)

// HandleMCP runs the MCP server over stdio until the client disconnects or
// the process receives SIGINT or SIGTERM.
func HandleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	envFile := fs.String("env-file", "", "dotenv file with POETRY2UV_MCP_* settings")
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: poetry2uv mcp [flags]\n\n")
		cliutil.Writef(fs.Output(), "Run the poetry2uv MCP server over stdio.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nConfiguration is read from POETRY2UV_MCP_* environment variables.\n")
		cliutil.Writef(fs.Output(), "Variables set in the environment take precedence over --env-file.\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *envFile != "" {
		if err := mcpserver.LoadEnvFile(*envFile); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
