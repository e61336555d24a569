package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/erraggy/poetry2uv/converter"
	"github.com/erraggy/poetry2uv/internal/fileutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type convertInput struct {
	Manifest   manifestInput `json:"manifest"              jsonschema:"The Poetry pyproject.toml to convert"`
	ProjectDir string        `json:"project_dir,omitempty" jsonschema:"Directory the license file is looked up in. Defaults to the manifest's directory, or the server's working directory for inline content."`
	Output     string        `json:"output,omitempty"      jsonschema:"File path to write the converted manifest. If omitted the document is returned inline."`
	Strict     *bool         `json:"strict,omitempty"      jsonschema:"Fail when any warning or critical issue is reported"`
	NoInfo     *bool         `json:"no_info,omitempty"     jsonschema:"Omit informational issues from the output"`
}

type convertIssue struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
	Hint     string `json:"hint,omitempty"`
}

type convertOutput struct {
	Generation    string          `json:"generation"`
	Name          string          `json:"name"`
	Success       bool            `json:"success"`
	InfoCount     int             `json:"info_count"`
	WarningCount  int             `json:"warning_count"`
	CriticalCount int             `json:"critical_count"`
	Stats         converter.Stats `json:"stats"`
	Issues        []convertIssue  `json:"issues,omitempty"`
	WrittenTo     string          `json:"written_to,omitempty"`
	Document      string          `json:"document,omitempty"`
}

func handleConvert(_ context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := cfg.ConvertStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	noInfo := cfg.ConvertNoInfo
	if input.NoInfo != nil {
		noInfo = *input.NoInfo
	}

	parseResult, err := input.Manifest.resolve()
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	result, err := converter.ConvertWithOptions(
		converter.WithParsed(*parseResult),
		converter.WithProjectDir(input.ProjectDir),
		converter.WithStrictMode(strict),
		converter.WithIncludeInfo(!noInfo),
	)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	output := convertOutput{
		Generation:    result.Generation.String(),
		Name:          result.Name,
		Success:       result.Success,
		InfoCount:     result.InfoCount,
		WarningCount:  result.WarningCount,
		CriticalCount: result.CriticalCount,
		Stats:         result.Stats,
		Issues:        makeSlice[convertIssue](len(result.Issues)),
	}
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, convertIssue{
			Severity: issue.Severity.String(),
			Path:     issue.Path,
			Message:  issue.Message,
			Hint:     issue.Context,
		})
	}

	data, err := result.Marshal()
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, fileutil.ReadableByAll); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), convertOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(data)
	}

	return nil, output, nil
}
