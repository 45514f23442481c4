package a2anet

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Role represents the originator of an input message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ItemKind identifies the top-level variant of a transcript item.
type ItemKind string

const (
	ItemKindMessage        ItemKind = "message"
	ItemKindMessageOutput  ItemKind = "message_output_item"
	ItemKindToolCall       ItemKind = "tool_call_item"
	ItemKindToolCallOutput ItemKind = "tool_call_output_item"
)

// Item is one unit of an agent run's transcript: an input message, an
// assistant message, a tool call, or a tool result. The set of variants is
// closed; consumers classify items with a type switch.
type Item interface {
	itemMarker()
	ItemKind() ItemKind
}

// Message is a plain conversation message, typically user input or an
// instruction injected into the transcript.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func (Message) itemMarker()        {}
func (Message) ItemKind() ItemKind { return ItemKindMessage }

// NewUserMessage creates a user input message with a fresh identifier.
func NewUserMessage(content string) Message {
	return Message{ID: GenerateMessageID(), Role: RoleUser, Content: content}
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// OutputContentKind identifies a fragment variant inside a MessageOutput.
type OutputContentKind string

const (
	OutputText    OutputContentKind = "output_text"
	OutputRefusal OutputContentKind = "refusal"
	OutputAudio   OutputContentKind = "audio"
	OutputImage   OutputContentKind = "image"
)

// OutputContent is a single content fragment of an assistant message.
// Only output_text fragments carry Text; the other kinds are opaque here.
type OutputContent struct {
	Kind OutputContentKind `json:"kind"`
	Text string            `json:"text,omitempty"`
}

// MessageOutput is an assistant message produced by the runtime during a run.
type MessageOutput struct {
	ID      string          `json:"id,omitempty"`
	Content []OutputContent `json:"content"`
}

func (MessageOutput) itemMarker()        {}
func (MessageOutput) ItemKind() ItemKind { return ItemKindMessageOutput }

// Text returns the concatenation of all output_text fragments.
func (m MessageOutput) Text() string {
	var text string
	for _, c := range m.Content {
		if c.Kind == OutputText {
			text += c.Text
		}
	}
	return text
}

// ToolCallKind identifies the sub-kind of a tool call item. The tag set is
// open: runtimes may introduce kinds this package does not know about.
type ToolCallKind string

const (
	ToolCallFunction ToolCallKind = "function_call"
	ToolCallHosted   ToolCallKind = "hosted_tool_call"
	ToolCallComputer ToolCallKind = "computer_call"
)

// ToolCall is a request by the model to invoke a tool.
type ToolCall struct {
	Type ToolCallKind `json:"type"`
	// ID is the raw transcript item identifier, when the runtime assigns one.
	ID string `json:"id,omitempty"`
	// CallID correlates the call with its eventual ToolCallOutput.
	CallID    string `json:"callId,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

func (ToolCall) itemMarker()        {}
func (ToolCall) ItemKind() ItemKind { return ItemKindToolCall }

// ToolCallOutputKind identifies the sub-kind of a tool result item.
type ToolCallOutputKind string

const (
	ToolOutputFunction ToolCallOutputKind = "function_call_result"
	ToolOutputComputer ToolCallOutputKind = "computer_call_result"
)

// ToolOutputType identifies the payload variant of a tool result.
type ToolOutputType string

const (
	ToolOutputText  ToolOutputType = "text"
	ToolOutputImage ToolOutputType = "image"
)

// ToolOutput is the payload of a tool result: either text or an inline image.
type ToolOutput struct {
	Type ToolOutputType `json:"type"`
	Text string         `json:"text,omitempty"`
	// Data holds base64-encoded image bytes when Type is image.
	Data      string `json:"data,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
}

// ToolCallOutput is the result of a tool invocation.
type ToolCallOutput struct {
	Type   ToolCallOutputKind `json:"type"`
	ID     string             `json:"id,omitempty"`
	CallID string             `json:"callId,omitempty"`
	Name   string             `json:"name,omitempty"`
	Output ToolOutput         `json:"output"`
}

func (ToolCallOutput) itemMarker()        {}
func (ToolCallOutput) ItemKind() ItemKind { return ItemKindToolCallOutput }

// itemEnvelope wraps an item with its kind tag for JSON persistence.
type itemEnvelope struct {
	Kind ItemKind        `json:"kind"`
	Item json.RawMessage `json:"item"`
}

// MarshalItem encodes an item with a kind tag so it can be decoded later
// without knowing its concrete type.
func MarshalItem(it Item) ([]byte, error) {
	raw, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemEnvelope{Kind: it.ItemKind(), Item: raw})
}

// UnmarshalItem decodes an item previously encoded with MarshalItem.
func UnmarshalItem(data []byte) (Item, error) {
	var env itemEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case ItemKindMessage:
		var it Message
		if err := json.Unmarshal(env.Item, &it); err != nil {
			return nil, err
		}
		return it, nil
	case ItemKindMessageOutput:
		var it MessageOutput
		if err := json.Unmarshal(env.Item, &it); err != nil {
			return nil, err
		}
		return it, nil
	case ItemKindToolCall:
		var it ToolCall
		if err := json.Unmarshal(env.Item, &it); err != nil {
			return nil, err
		}
		return it, nil
	case ItemKindToolCallOutput:
		var it ToolCallOutput
		if err := json.Unmarshal(env.Item, &it); err != nil {
			return nil, err
		}
		return it, nil
	default:
		return nil, fmt.Errorf("unknown item kind %q", env.Kind)
	}
}

// MarshalItems encodes a transcript as a JSON array of tagged items.
func MarshalItems(items []Item) ([]byte, error) {
	envs := make([]itemEnvelope, len(items))
	for i, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		envs[i] = itemEnvelope{Kind: it.ItemKind(), Item: raw}
	}
	return json.Marshal(envs)
}

// UnmarshalItems decodes a transcript encoded with MarshalItems.
func UnmarshalItems(data []byte) ([]Item, error) {
	var envs []json.RawMessage
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(envs))
	for _, raw := range envs {
		it, err := UnmarshalItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
