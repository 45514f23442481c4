package openai

import (
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	a2anet "github.com/a2anet/a2anet-go"
)

func convertItems(system string, items []a2anet.Item) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion
	if system != "" {
		result = append(result, openai.SystemMessage(system))
	}

	for _, it := range items {
		switch v := it.(type) {
		case a2anet.Message:
			if v.Content == "" {
				continue
			}
			switch v.Role {
			case a2anet.RoleSystem:
				result = append(result, openai.SystemMessage(v.Content))
			case a2anet.RoleAssistant:
				result = append(result, openai.AssistantMessage(v.Content))
			default:
				result = append(result, openai.UserMessage(v.Content))
			}

		case a2anet.MessageOutput:
			if text := v.Text(); text != "" {
				result = append(result, openai.AssistantMessage(text))
			}

		case a2anet.ToolCall:
			// Replay the call so the tool message that follows has a
			// matching tool_call_id.
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					ToolCalls: []openai.ChatCompletionMessageToolCallParam{{
						ID: v.CallID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      v.Name,
							Arguments: v.Arguments,
						},
					}},
				},
			})

		case a2anet.ToolCallOutput:
			result = append(result, openai.ToolMessage(outputText(v.Output), v.CallID))
		}
	}

	return result
}

// outputText flattens a tool result payload to the text form the chat
// completions API accepts for tool messages.
func outputText(o a2anet.ToolOutput) string {
	if o.Type == a2anet.ToolOutputImage {
		if o.MediaType != "" {
			return "[image result: " + o.MediaType + "]"
		}
		return "[image result]"
	}
	return o.Text
}

func convertTools(tools []a2anet.Tool) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		var params shared.FunctionParameters
		if len(t.Parameters) > 0 {
			json.Unmarshal(t.Parameters, &params)
		}
		result[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  params,
			},
		}
	}
	return result
}

func schemaResponseFormat(schema *a2anet.ResponseSchema) openai.ChatCompletionNewParamsResponseFormatUnion {
	var schemaMap map[string]any
	json.Unmarshal(schema.Schema, &schemaMap)

	name := schema.Name
	if name == "" {
		name = "response_schema"
	}

	// Strict mode requires additionalProperties: false on every object.
	addAdditionalPropertiesFalse(schemaMap)

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			Type: "json_schema",
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        name,
				Description: openai.String(schema.Description),
				Schema:      schemaMap,
				Strict:      openai.Bool(true),
			},
		},
	}
}

func addAdditionalPropertiesFalse(schema map[string]any) {
	if schema == nil {
		return
	}

	if schemaType, ok := schema["type"].(string); ok && schemaType == "object" {
		schema["additionalProperties"] = false
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		for _, propSchema := range props {
			if propMap, ok := propSchema.(map[string]any); ok {
				addAdditionalPropertiesFalse(propMap)
			}
		}
	}

	if items, ok := schema["items"].(map[string]any); ok {
		addAdditionalPropertiesFalse(items)
	}
}
