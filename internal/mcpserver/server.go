// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes poetry2uv conversion as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/poetry2uv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `poetry2uv MCP server: converts Poetry pyproject.toml manifests to the PEP 621 / uv layout.

Tools:
- convert: converts a manifest given as a file path or inline content and returns the TOML plus conversion issues
- inspect: summarizes what a conversion would produce (dependencies, groups, extras, sources) without writing anything
- translate_constraint: translates Poetry version constraints (^, ~, ranges) to PEP 440 specifiers

Configuration: defaults are configurable via POETRY2UV_MCP_* environment variables set in your MCP client config.
- POETRY2UV_MCP_STRICT (default: false): fail convert on any warning or critical issue
- POETRY2UV_MCP_NO_INFO (default: false): omit informational issues
- POETRY2UV_MCP_CACHE_ENABLED (default: true): cache parsed manifests per session
- POETRY2UV_MCP_CACHE_FILE_TTL / POETRY2UV_MCP_CACHE_CONTENT_TTL (default: 15m)
- POETRY2UV_MCP_MAX_INLINE_SIZE (default: 1MiB): limit for inline content

Caret and tilde constraints become lower bounds only; review converted manifests before locking.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		manifestCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "poetry2uv", Version: poetry2uv.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert a Poetry pyproject.toml (Poetry 1.x or 2.x layout) to a uv-compatible PEP 621 manifest. Returns the converted TOML inline, or writes it to output when given, together with conversion issues. Critical issues mark dependencies that were dropped (git, path, url, multiple-constraint); warnings mark entries to review. Use strict=true to fail on any warning.",
	}, handleConvert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Summarize a Poetry pyproject.toml without writing anything: detected layout, name, version, requires-python, converted dependencies, dependency groups, extras, source pins, entry point groups and copied tool sections.",
	}, handleInspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "translate_constraint",
		Description: "Translate Poetry version constraints to PEP 440 specifiers. ^X and ~X become >=X, * becomes an empty specifier, and operator lists are normalized. Unrecognized constraints are reported with recognized=false.",
	}, handleTranslateConstraint)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
