package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	a2anet "github.com/a2anet/a2anet-go"
)

func convertItems(items []a2anet.Item) []anthropic.MessageParam {
	var result []anthropic.MessageParam

	for _, it := range items {
		switch v := it.(type) {
		case a2anet.Message:
			// The API rejects empty text blocks.
			if v.Content == "" {
				continue
			}
			switch v.Role {
			case a2anet.RoleAssistant:
				result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(v.Content)))
			default:
				result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(v.Content)))
			}

		case a2anet.MessageOutput:
			if text := v.Text(); text != "" {
				result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
			}

		case a2anet.ToolCall:
			var input any
			json.Unmarshal([]byte(v.Arguments), &input)
			result = append(result, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewToolUseBlock(v.CallID, input, v.Name),
				},
			})

		case a2anet.ToolCallOutput:
			// Tool results go back as user messages with tool_result blocks.
			result = append(result, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewToolResultBlock(v.CallID, outputText(v.Output), false),
				},
			})
		}
	}

	return result
}

func outputText(o a2anet.ToolOutput) string {
	if o.Type == a2anet.ToolOutputImage {
		if o.MediaType != "" {
			return "[image result: " + o.MediaType + "]"
		}
		return "[image result]"
	}
	return o.Text
}
