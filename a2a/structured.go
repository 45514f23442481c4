package a2a

import (
	"fmt"

	a2anet "github.com/a2anet/a2anet-go"
)

// StructuredResponse is the output shape required of a judge agent. The judge
// classifies how a completed run resolved the task and, for completed tasks,
// extracts the task's artifacts.
type StructuredResponse struct {
	// TaskState is the judge's classification. Only a subset of task states
	// may be assigned by a judge; see JudgeAssignable.
	TaskState TaskState `json:"task_state"`

	// Artifacts are the task outputs. Required, and non-empty, exactly when
	// TaskState is completed.
	Artifacts []ArtifactSpec `json:"artifacts,omitempty"`
}

// ArtifactSpec describes one task output in a judge's response.
type ArtifactSpec struct {
	// Name is a short label for the artifact.
	Name string `json:"name"`
	// Description is a one-sentence summary of the artifact.
	Description string `json:"description"`
	// Part is the artifact's content.
	Part ArtifactPartSpec `json:"part"`
}

// ArtifactPartSpec is the content of an artifact: either plain text or a
// stringified JSON payload.
type ArtifactPartSpec struct {
	// Kind is "text" or "data".
	Kind string `json:"kind"`
	// Text holds the content for text parts.
	Text string `json:"text,omitempty"`
	// Data holds stringified JSON for data parts.
	Data string `json:"data,omitempty"`
}

// JudgeAssignable reports whether a judge may assign the given state.
// The infrastructure owns submitted, working, canceled, and unknown; a judge
// only decides between the remaining terminal states.
func JudgeAssignable(s TaskState) bool {
	switch s {
	case TaskStateInputRequired, TaskStateCompleted, TaskStateFailed,
		TaskStateRejected, TaskStateAuthRequired:
		return true
	default:
		return false
	}
}

// Validate checks the state/artifact pairing invariant: artifacts must be
// present and non-empty if and only if the task completed, and the state must
// be one a judge is allowed to assign.
func (r *StructuredResponse) Validate() error {
	if !JudgeAssignable(r.TaskState) {
		return fmt.Errorf("task_state %q is not judge-assignable", r.TaskState)
	}
	if r.TaskState == TaskStateCompleted && len(r.Artifacts) == 0 {
		return fmt.Errorf("task_state completed requires at least one artifact")
	}
	if r.TaskState != TaskStateCompleted && len(r.Artifacts) > 0 {
		return fmt.Errorf("artifacts are only allowed when task_state is completed, got %q", r.TaskState)
	}
	return nil
}

// StructuredResponseSchema builds the JSON schema a judge agent must be
// configured with so its output decodes into a StructuredResponse.
func StructuredResponseSchema() *a2anet.ResponseSchema {
	schema := a2anet.SchemaFrom[StructuredResponse]().
		Desc("task_state", "How the run resolved the task.").
		Enum("task_state",
			string(TaskStateInputRequired),
			string(TaskStateCompleted),
			string(TaskStateFailed),
			string(TaskStateRejected),
			string(TaskStateAuthRequired),
		).
		Desc("artifacts", "Task outputs. Required and non-empty when task_state is completed; omitted otherwise.").
		Required("task_state").
		Build()

	return &a2anet.ResponseSchema{
		Name:        "structured_response",
		Description: "Task completion classification with extracted artifacts.",
		Schema:      schema,
	}
}
