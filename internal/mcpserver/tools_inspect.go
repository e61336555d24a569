package mcpserver

import (
	"context"

	"github.com/erraggy/poetry2uv/converter"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectInput struct {
	Manifest   manifestInput `json:"manifest"              jsonschema:"The Poetry pyproject.toml to inspect"`
	ProjectDir string        `json:"project_dir,omitempty" jsonschema:"Directory the license file is looked up in"`
}

type inspectOutput struct {
	Summary    converter.Summary `json:"summary"`
	IssueCount int               `json:"issue_count"`
}

func handleInspect(_ context.Context, _ *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, inspectOutput, error) {
	parseResult, err := input.Manifest.resolve()
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	result, err := converter.ConvertWithOptions(
		converter.WithParsed(*parseResult),
		converter.WithProjectDir(input.ProjectDir),
	)
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	return nil, inspectOutput{Summary: result.Summary(), IssueCount: len(result.Issues)}, nil
}
