package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	a2anet "github.com/a2anet/a2anet-go"
)

// jsonResponseToolName is the name of the synthetic tool used to force
// structured output.
const jsonResponseToolName = "structured_response"

func convertTools(tools []a2anet.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		var schema map[string]any
		if len(t.Parameters) > 0 {
			json.Unmarshal(t.Parameters, &schema)
		}

		result[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: inputSchemaFor(schema),
			},
		}
	}
	return result
}

func buildJSONTool(schema *a2anet.ResponseSchema) (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam) {
	var schemaMap map[string]any
	if len(schema.Schema) > 0 {
		json.Unmarshal(schema.Schema, &schemaMap)
	}

	description := schema.Description
	if description == "" {
		description = "Output the response as structured JSON"
	}

	tool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        jsonResponseToolName,
			Description: anthropic.String(description),
			InputSchema: inputSchemaFor(schemaMap),
		},
	}

	toolChoice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{
			Name: jsonResponseToolName,
		},
	}

	return tool, toolChoice
}

func inputSchemaFor(schema map[string]any) anthropic.ToolInputSchemaParam {
	var required []string
	if reqVal, ok := schema["required"].([]any); ok {
		for _, r := range reqVal {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}

	return anthropic.ToolInputSchemaParam{
		Properties: schema["properties"],
		Required:   required,
	}
}
