package a2a

import (
	"testing"

	a2anet "github.com/a2anet/a2anet-go"
)

func TestMapper_Identifiers(t *testing.T) {
	m := NewMapper("task-1", "ctx-1")

	if m.TaskID() != "task-1" {
		t.Errorf("TaskID = %q, want task-1", m.TaskID())
	}
	if m.ContextID() != "ctx-1" {
		t.Errorf("ContextID = %q, want ctx-1", m.ContextID())
	}
}

func TestMapper_GeneratesMissingIdentifiers(t *testing.T) {
	m := NewMapper("", "")

	if m.TaskID() == "" {
		t.Error("TaskID should be generated when empty")
	}
	if m.ContextID() == "" {
		t.Error("ContextID should be generated when empty")
	}

	other := NewMapper("", "")
	if m.TaskID() == other.TaskID() {
		t.Error("generated task IDs should be unique")
	}
}

func TestMapper_Working(t *testing.T) {
	m := NewMapper("task-1", "ctx-1")

	ev := m.Working()
	if ev.Status.State != TaskStateWorking {
		t.Errorf("State = %v, want %v", ev.Status.State, TaskStateWorking)
	}
	if ev.Final {
		t.Error("Working should not be final")
	}
	if ev.TaskID != "task-1" || ev.ContextID != "ctx-1" {
		t.Errorf("event IDs = %q/%q, want task-1/ctx-1", ev.TaskID, ev.ContextID)
	}
}

func TestMapItem_MessageOutput(t *testing.T) {
	m := NewMapper("task-1", "ctx-1")

	t.Run("text fragments become a text message", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.MessageOutput{
			ID: "msg-1",
			Content: []a2anet.OutputContent{
				{Kind: a2anet.OutputText, Text: "Hello, "},
				{Kind: a2anet.OutputText, Text: "world"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		update, ok := ev.(TaskStatusUpdateEvent)
		if !ok {
			t.Fatalf("event = %T, want TaskStatusUpdateEvent", ev)
		}
		if update.Status.State != TaskStateWorking {
			t.Errorf("state = %v, want working", update.Status.State)
		}
		if update.Final {
			t.Error("item updates must never be final")
		}
		if update.Status.Message == nil {
			t.Fatal("update should carry a message")
		}
		if got := update.Status.Message.TextContent(); got != "Hello, world" {
			t.Errorf("text = %q, want %q", got, "Hello, world")
		}
		if update.Status.Message.MessageID != "msg-1" {
			t.Errorf("messageId = %q, want msg-1", update.Status.Message.MessageID)
		}
	})

	t.Run("non-text fragments are skipped", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.MessageOutput{
			Content: []a2anet.OutputContent{
				{Kind: a2anet.OutputRefusal, Text: "no"},
				{Kind: a2anet.OutputText, Text: "yes"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		update := ev.(TaskStatusUpdateEvent)
		if got := update.Status.Message.TextContent(); got != "yes" {
			t.Errorf("text = %q, want %q", got, "yes")
		}
	})

	t.Run("no text fragments means no event", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.MessageOutput{
			Content: []a2anet.OutputContent{{Kind: a2anet.OutputAudio}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev != nil {
			t.Errorf("event = %v, want nil", ev)
		}
	})

	t.Run("missing item ID gets a generated message ID", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.MessageOutput{
			Content: []a2anet.OutputContent{{Kind: a2anet.OutputText, Text: "x"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		update := ev.(TaskStatusUpdateEvent)
		if update.Status.Message.MessageID == "" {
			t.Error("messageId should be generated")
		}
	})
}

func TestMapItem_ToolCall(t *testing.T) {
	m := NewMapper("task-1", "ctx-1")

	t.Run("function call with JSON arguments", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCall{
			Type:      a2anet.ToolCallFunction,
			ID:        "item-1",
			CallID:    "call-1",
			Name:      "get_weather",
			Arguments: `{"city":"Oslo"}`,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		update := ev.(TaskStatusUpdateEvent)
		msg := update.Status.Message
		if msg == nil {
			t.Fatal("update should carry a message")
		}
		if msg.MessageID != "item-1-call-1" {
			t.Errorf("messageId = %q, want item-1-call-1", msg.MessageID)
		}
		if len(msg.Parts) != 1 {
			t.Fatalf("parts = %d, want 1", len(msg.Parts))
		}
		dataPart, ok := msg.Parts[0].(DataPart)
		if !ok {
			t.Fatalf("part = %T, want DataPart", msg.Parts[0])
		}
		parsed, ok := dataPart.Data.(map[string]any)
		if !ok || parsed["city"] != "Oslo" {
			t.Errorf("data = %v, want city=Oslo", dataPart.Data)
		}
		if msg.Metadata[MetadataKeyType] != MetadataTypeToolCall {
			t.Errorf("metadata type = %v, want %q", msg.Metadata[MetadataKeyType], MetadataTypeToolCall)
		}
		if msg.Metadata[MetadataKeyToolCallID] != "call-1" {
			t.Errorf("metadata tool_call_id = %v, want call-1", msg.Metadata[MetadataKeyToolCallID])
		}
		if msg.Metadata[MetadataKeyToolName] != "get_weather" {
			t.Errorf("metadata tool_name = %v, want get_weather", msg.Metadata[MetadataKeyToolName])
		}
	})

	t.Run("malformed arguments degrade to a text part", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCall{
			Type:      a2anet.ToolCallFunction,
			CallID:    "call-2",
			Name:      "search",
			Arguments: `{"broken`,
		})
		if err != nil {
			t.Fatalf("malformed payload must be recoverable, got error: %v", err)
		}

		update := ev.(TaskStatusUpdateEvent)
		textPart, ok := update.Status.Message.Parts[0].(TextPart)
		if !ok {
			t.Fatalf("part = %T, want TextPart", update.Status.Message.Parts[0])
		}
		if textPart.Text != `{"broken` {
			t.Errorf("text = %q, want raw arguments unchanged", textPart.Text)
		}
	})

	t.Run("hosted tool call maps like a function call", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCall{
			Type:   a2anet.ToolCallHosted,
			CallID: "call-3",
			Name:   "web_search",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev == nil {
			t.Fatal("hosted call should produce an event")
		}
	})

	t.Run("missing call ID is generated", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCall{
			Type: a2anet.ToolCallFunction,
			Name: "search",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		update := ev.(TaskStatusUpdateEvent)
		if update.Status.Message.Metadata[MetadataKeyToolCallID] == "" {
			t.Error("tool_call_id should be generated")
		}
	})

	t.Run("computer call is fatal", func(t *testing.T) {
		_, err := m.MapItem(a2anet.ToolCall{Type: a2anet.ToolCallComputer})
		if !a2anet.IsUnsupportedItem(err) {
			t.Fatalf("error = %v, want UnsupportedItemError", err)
		}
	})

	t.Run("unknown sub-kind maps to no event", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCall{Type: "future_call_kind"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev != nil {
			t.Errorf("event = %v, want nil", ev)
		}
	})
}

func TestMapItem_ToolCallOutput(t *testing.T) {
	m := NewMapper("task-1", "ctx-1")

	t.Run("text output with JSON content becomes a data part", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCallOutput{
			Type:   a2anet.ToolOutputFunction,
			ID:     "item-2",
			CallID: "call-1",
			Name:   "get_weather",
			Output: a2anet.ToolOutput{Type: a2anet.ToolOutputText, Text: `{"temp":18}`},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		update := ev.(TaskStatusUpdateEvent)
		msg := update.Status.Message
		if msg.MessageID != "item-2-call-1" {
			t.Errorf("messageId = %q, want item-2-call-1", msg.MessageID)
		}
		if _, ok := msg.Parts[0].(DataPart); !ok {
			t.Fatalf("part = %T, want DataPart", msg.Parts[0])
		}
		if msg.Metadata[MetadataKeyToolCallID] != "call-1" {
			t.Errorf("metadata tool_call_id = %v, want call-1", msg.Metadata[MetadataKeyToolCallID])
		}
	})

	t.Run("plain text output becomes a text part", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCallOutput{
			Type:   a2anet.ToolOutputFunction,
			CallID: "call-1",
			Output: a2anet.ToolOutput{Type: a2anet.ToolOutputText, Text: "sunny, 18 degrees"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		update := ev.(TaskStatusUpdateEvent)
		textPart, ok := update.Status.Message.Parts[0].(TextPart)
		if !ok {
			t.Fatalf("part = %T, want TextPart", update.Status.Message.Parts[0])
		}
		if textPart.Text != "sunny, 18 degrees" {
			t.Errorf("text = %q", textPart.Text)
		}
	})

	t.Run("image output becomes a file part", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCallOutput{
			Type:   a2anet.ToolOutputFunction,
			CallID: "call-1",
			Name:   "screenshot",
			Output: a2anet.ToolOutput{
				Type:      a2anet.ToolOutputImage,
				Data:      "aGVsbG8=",
				MediaType: "image/png",
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		update := ev.(TaskStatusUpdateEvent)
		filePart, ok := update.Status.Message.Parts[0].(FilePart)
		if !ok {
			t.Fatalf("part = %T, want FilePart", update.Status.Message.Parts[0])
		}
		if filePart.File.MimeType != "image/png" {
			t.Errorf("mimeType = %q, want image/png", filePart.File.MimeType)
		}
		if filePart.File.Bytes != "aGVsbG8=" {
			t.Errorf("bytes = %q", filePart.File.Bytes)
		}
	})

	t.Run("computer call result is fatal", func(t *testing.T) {
		_, err := m.MapItem(a2anet.ToolCallOutput{Type: a2anet.ToolOutputComputer})
		if !a2anet.IsUnsupportedItem(err) {
			t.Fatalf("error = %v, want UnsupportedItemError", err)
		}
	})

	t.Run("unknown sub-kind maps to no event", func(t *testing.T) {
		ev, err := m.MapItem(a2anet.ToolCallOutput{Type: "future_result_kind"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev != nil {
			t.Errorf("event = %v, want nil", ev)
		}
	})
}

func TestMapItem_InputMessage(t *testing.T) {
	m := NewMapper("task-1", "ctx-1")

	ev, err := m.MapItem(a2anet.NewUserMessage("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev != nil {
		t.Errorf("input messages should produce no event, got %v", ev)
	}
}
