package a2a

import (
	"encoding/json"

	a2anet "github.com/a2anet/a2anet-go"
)

// ToItems converts an incoming A2A message into runner input items. Text
// parts concatenate into one user message; data parts are re-serialized as
// JSON so structured input survives the trip through a text transcript.
func ToItems(msg Message) []a2anet.Item {
	var text string
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case TextPart:
			text += p.Text
		case DataPart:
			if raw, err := json.Marshal(p.Data); err == nil {
				text += string(raw)
			}
		}
	}

	item := a2anet.Message{
		ID:      msg.MessageID,
		Role:    RoleForMessage(msg.Role),
		Content: text,
	}
	if item.ID == "" {
		item.ID = a2anet.GenerateMessageID()
	}
	return []a2anet.Item{item}
}

// FromItems converts stored transcript items back into A2A messages, for
// serving a task's history. Items with no message rendering (tool calls and
// results) are represented as data parts on an agent message.
func FromItems(items []a2anet.Item) []Message {
	result := make([]Message, 0, len(items))
	for _, it := range items {
		switch item := it.(type) {
		case a2anet.Message:
			msg := NewMessage(MessageRoleForItem(item.Role), NewTextPart(item.Content))
			if item.ID != "" {
				msg.MessageID = item.ID
			}
			result = append(result, msg)
		case a2anet.MessageOutput:
			if text := item.Text(); text != "" {
				msg := NewAgentMessage(item.ID, NewTextPart(text))
				if msg.MessageID == "" {
					msg.MessageID = a2anet.GenerateMessageID()
				}
				result = append(result, msg)
			}
		case a2anet.ToolCall:
			msg := NewMessage(MessageRoleAgent, NewDataPart(map[string]any{
				"toolCallId": item.CallID,
				"toolName":   item.Name,
				"arguments":  item.Arguments,
			}))
			result = append(result, msg)
		case a2anet.ToolCallOutput:
			msg := NewMessage(MessageRoleAgent, NewDataPart(map[string]any{
				"toolCallId": item.CallID,
				"toolName":   item.Name,
				"output":     item.Output.Text,
			}))
			result = append(result, msg)
		}
	}
	return result
}

// RoleForMessage maps an A2A message role to a transcript role.
func RoleForMessage(role MessageRole) a2anet.Role {
	if role == MessageRoleAgent {
		return a2anet.RoleAssistant
	}
	return a2anet.RoleUser
}

// MessageRoleForItem maps a transcript role to an A2A message role.
func MessageRoleForItem(role a2anet.Role) MessageRole {
	if role == a2anet.RoleAssistant {
		return MessageRoleAgent
	}
	return MessageRoleUser
}
