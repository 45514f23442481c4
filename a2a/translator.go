package a2a

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	a2anet "github.com/a2anet/a2anet-go"
)

// Metadata keys attached to tool-call status messages so downstream consumers
// can correlate calls with their results.
const (
	MetadataKeyType       = "type"
	MetadataTypeToolCall  = "tool_call"
	MetadataKeyToolCallID = "tool_call_id"
	MetadataKeyToolName   = "tool_name"
)

// Mapper translates one run's transcript items into A2A events for a single
// task. Every event it produces for an item is a non-terminal working status
// update; terminal events are owned by the judge driver and the executor.
//
// Create a new Mapper per execution with NewMapper. A Mapper is not safe for
// concurrent use.
type Mapper struct {
	taskID    string
	contextID string
}

// NewMapper creates a Mapper for a single task. Missing identifiers are
// generated so every emitted event carries stable task and context IDs.
func NewMapper(taskID, contextID string) *Mapper {
	if taskID == "" {
		taskID = uuid.New().String()
	}
	if contextID == "" {
		contextID = uuid.New().String()
	}
	return &Mapper{taskID: taskID, contextID: contextID}
}

// TaskID returns the task ID for this mapper.
func (m *Mapper) TaskID() string { return m.taskID }

// ContextID returns the context ID for this mapper.
func (m *Mapper) ContextID() string { return m.contextID }

// StatusUpdate creates a task status update event.
func (m *Mapper) StatusUpdate(state TaskState, msg *Message, final bool) TaskStatusUpdateEvent {
	return NewTaskStatusUpdateEvent(m.taskID, m.contextID, NewTaskStatusWithMessage(state, msg), final)
}

// ArtifactUpdate creates a task artifact update event.
func (m *Mapper) ArtifactUpdate(artifact Artifact) TaskArtifactUpdateEvent {
	return NewTaskArtifactUpdateEvent(m.taskID, m.contextID, artifact)
}

// Working returns a non-terminal working status update.
func (m *Mapper) Working() TaskStatusUpdateEvent {
	return m.StatusUpdate(TaskStateWorking, nil, false)
}

// MapItem converts one transcript item into at most one A2A event.
//
// Items that carry no representable content (empty message output, unknown
// tool sub-kinds) map to no event and a nil error. Computer-use items are
// unsupported and return an UnsupportedItemError: payload content that fails
// to parse degrades to text, but an item kind the bridge cannot represent
// aborts the run.
func (m *Mapper) MapItem(item a2anet.Item) (Event, error) {
	switch it := item.(type) {
	case a2anet.MessageOutput:
		return m.mapMessageOutput(it), nil
	case a2anet.ToolCall:
		return m.mapToolCall(it)
	case a2anet.ToolCallOutput:
		return m.mapToolCallOutput(it)
	default:
		// Input messages and unrecognized items produce no update.
		return nil, nil
	}
}

// mapMessageOutput extracts output_text fragments as text parts. Audio,
// refusal, and image fragments have no A2A rendering here and are skipped;
// an item with no text fragments yields no event.
func (m *Mapper) mapMessageOutput(it a2anet.MessageOutput) Event {
	var parts []Part
	for _, c := range it.Content {
		if c.Kind == a2anet.OutputText {
			parts = append(parts, NewTextPart(c.Text))
		}
	}
	if len(parts) == 0 {
		return nil
	}

	messageID := it.ID
	if messageID == "" {
		messageID = a2anet.GenerateMessageID()
	}
	msg := NewAgentMessage(messageID, parts...)
	return m.StatusUpdate(TaskStateWorking, &msg, false)
}

func (m *Mapper) mapToolCall(it a2anet.ToolCall) (Event, error) {
	switch it.Type {
	case a2anet.ToolCallFunction, a2anet.ToolCallHosted:
		callID := it.CallID
		if callID == "" {
			callID = uuid.New().String()
		}

		// The same transcript item can carry several concurrent tool calls;
		// combining both identifiers keeps message IDs unique across them.
		msg := NewAgentMessage(
			fmt.Sprintf("%s-%s", it.ID, callID),
			jsonOrTextPart(it.Arguments),
		)
		msg.Metadata = map[string]any{
			MetadataKeyType:       MetadataTypeToolCall,
			MetadataKeyToolCallID: callID,
			MetadataKeyToolName:   it.Name,
		}
		return m.StatusUpdate(TaskStateWorking, &msg, false), nil

	case a2anet.ToolCallComputer:
		return nil, &a2anet.UnsupportedItemError{Kind: string(it.Type)}

	default:
		return nil, nil
	}
}

func (m *Mapper) mapToolCallOutput(it a2anet.ToolCallOutput) (Event, error) {
	switch it.Type {
	case a2anet.ToolOutputFunction:
		var part Part
		switch it.Output.Type {
		case a2anet.ToolOutputImage:
			part = NewFilePartWithBytes(it.Name, it.Output.MediaType, it.Output.Data)
		default:
			part = jsonOrTextPart(it.Output.Text)
		}

		messageID := it.ID
		if messageID == "" {
			messageID = a2anet.GenerateMessageID()
		}
		msg := NewAgentMessage(fmt.Sprintf("%s-%s", messageID, it.CallID), part)
		msg.Metadata = map[string]any{
			MetadataKeyType:       MetadataTypeToolCall,
			MetadataKeyToolCallID: it.CallID,
			MetadataKeyToolName:   it.Name,
		}
		return m.StatusUpdate(TaskStateWorking, &msg, false), nil

	case a2anet.ToolOutputComputer:
		return nil, &a2anet.UnsupportedItemError{Kind: string(it.Type)}

	default:
		return nil, nil
	}
}

// jsonOrTextPart optimistically parses raw as JSON into a data part. Content
// that is not valid JSON is still valid content: it falls back to a text part
// carrying the raw string unchanged.
func jsonOrTextPart(raw string) Part {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return NewTextPart(raw)
	}
	return NewDataPart(parsed)
}
