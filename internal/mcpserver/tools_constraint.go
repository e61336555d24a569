package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/poetry2uv/converter"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxConstraints bounds a single translate_constraint call.
const maxConstraints = 500

type translateInput struct {
	Constraints []string `json:"constraints" jsonschema:"Poetry version constraints to translate, e.g. ^1.2 or ~3.*"`
}

type translation struct {
	Input      string `json:"input"`
	Output     string `json:"output"`
	Recognized bool   `json:"recognized"`
}

type translateOutput struct {
	Translations []translation `json:"translations"`
	Unrecognized int           `json:"unrecognized"`
}

func handleTranslateConstraint(_ context.Context, _ *mcp.CallToolRequest, input translateInput) (*mcp.CallToolResult, translateOutput, error) {
	if len(input.Constraints) == 0 {
		return errResult(fmt.Errorf("at least one constraint is required")), translateOutput{}, nil
	}
	if len(input.Constraints) > maxConstraints {
		return errResult(fmt.Errorf("too many constraints: %d (maximum %d)", len(input.Constraints), maxConstraints)), translateOutput{}, nil
	}

	output := translateOutput{Translations: make([]translation, 0, len(input.Constraints))}
	for _, c := range input.Constraints {
		spec, ok := converter.TranslateConstraint(c)
		if !ok {
			output.Unrecognized++
		}
		output.Translations = append(output.Translations, translation{Input: c, Output: spec, Recognized: ok})
	}
	return nil, output, nil
}
