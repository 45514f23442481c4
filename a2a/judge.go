package a2a

import (
	"context"
	"encoding/json"
	"log/slog"

	a2anet "github.com/a2anet/a2anet-go"
)

// judgeDriver runs the judge agent over a completed run's transcript and
// emits the task's terminal event, plus artifact events for completed tasks.
type judgeDriver struct {
	runner a2anet.Runner
	agent  *a2anet.Agent
	logger *slog.Logger
}

// Finalize invokes the judge once, synchronously, over the full transcript
// and publishes exactly one terminal status event. A judge that produces no
// usable output is not an error: the task finishes in the unknown state.
//
// Artifact events, when any, are published before the terminal status event,
// one per artifact, each with a fresh artifact identifier.
func (d *judgeDriver) Finalize(ctx context.Context, m *Mapper, history []a2anet.Item, queue EventQueue) error {
	result, err := d.runner.Run(ctx, d.agent, history)
	if err != nil {
		return err
	}

	resp := d.decode(result)
	if resp == nil {
		queue.Publish(m.StatusUpdate(TaskStateUnknown, nil, true))
		return nil
	}

	for _, spec := range resp.Artifacts {
		artifact := NewArtifact(spec.Name, spec.Description, artifactPart(spec.Part))
		queue.Publish(m.ArtifactUpdate(artifact))
	}

	queue.Publish(m.StatusUpdate(resp.TaskState, nil, true))
	return nil
}

// decode interprets the judge's final output. A missing or unparseable
// output maps to nil (terminal unknown). A response that violates the
// state/artifact invariant keeps its claimed state but loses its artifacts,
// so the protocol contract on completed tasks is never broken silently.
func (d *judgeDriver) decode(result *a2anet.RunResult) *StructuredResponse {
	if result.FinalOutput == "" {
		d.logger.Warn("judge produced no output, finishing task as unknown")
		return nil
	}

	var resp StructuredResponse
	if err := json.Unmarshal([]byte(result.FinalOutput), &resp); err != nil {
		d.logger.Warn("judge output is not a structured response, finishing task as unknown",
			"error", err)
		return nil
	}

	if err := resp.Validate(); err != nil {
		d.logger.Warn("judge violated the state/artifact invariant",
			"error", err, "task_state", string(resp.TaskState))
		if !JudgeAssignable(resp.TaskState) {
			return nil
		}
		resp.Artifacts = nil
		return &resp
	}

	return &resp
}

// artifactPart converts a judge-specified artifact part into an A2A part.
// Data parts use the same optimistic-JSON policy as the translator: a data
// string that does not parse degrades to text rather than failing the task.
func artifactPart(spec ArtifactPartSpec) Part {
	switch spec.Kind {
	case "data":
		return jsonOrTextPart(spec.Data)
	default:
		return NewTextPart(spec.Text)
	}
}
