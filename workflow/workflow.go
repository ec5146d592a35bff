// Package workflow executes directed acyclic graphs of agent-bound steps.
// Steps declare dependencies by id; the engine runs ready steps in parallel
// waves until every step completes, failing the whole workflow on the first
// step error or an unresolvable dependency graph.
package workflow

import (
	"fmt"
	"time"
)

// StepStatus is the lifecycle state of a single step.
type StepStatus string

// Step lifecycle: pending -> running -> completed | failed.
const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// Status is the lifecycle state of a whole workflow.
type Status string

// Workflow lifecycle: draft -> running -> completed | failed. Paused is a
// declared state with no engine-driven transition; external orchestration
// sets it via Engine.SetStatus.
const (
	StatusDraft     Status = "draft"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusPaused    Status = "paused"
)

// StepSpec declares a step when creating a workflow. Dependencies name other
// steps of the same workflow by id.
type StepSpec struct {
	AgentID      string         `json:"agent_id"`
	Action       string         `json:"action"`
	Input        map[string]any `json:"input"`
	Dependencies []string       `json:"dependencies"`
}

// Step is one unit of work bound to an agent and an action. A step runs only
// once all of its dependencies are completed.
type Step struct {
	ID           string         `json:"id"`
	AgentID      string         `json:"agent_id"`
	Action       string         `json:"action"`
	Input        map[string]any `json:"input"`
	Dependencies []string       `json:"dependencies"`
	Status       StepStatus     `json:"status"`
	Output       map[string]any `json:"output,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// Workflow is a named DAG of steps with an overall status. The engine owns
// the lifecycle exclusively; callers observe snapshots.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Steps       []*Step        `json:"steps"`
	Status      Status         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Metadata    map[string]any `json:"metadata"`
}

// clone deep-copies the workflow so callers can inspect state without racing
// the engine.
func (w *Workflow) clone() *Workflow {
	out := *w
	out.Steps = make([]*Step, len(w.Steps))
	for i, s := range w.Steps {
		step := *s
		out.Steps[i] = &step
	}
	out.Metadata = make(map[string]any, len(w.Metadata))
	for k, v := range w.Metadata {
		out.Metadata[k] = v
	}
	return &out
}

// step returns the step with the given id.
func (w *Workflow) step(id string) (*Step, bool) {
	for _, s := range w.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// validateSpecs checks that every dependency references a step of the same
// workflow. Step ids are assigned positionally as step_1, step_2, ...
func validateSpecs(specs []StepSpec) error {
	ids := make(map[string]bool, len(specs))
	for i := range specs {
		ids[stepID(i)] = true
	}
	for i, spec := range specs {
		for _, dep := range spec.Dependencies {
			if !ids[dep] {
				return fmt.Errorf("step %s depends on unknown step %q", stepID(i), dep)
			}
		}
	}
	return nil
}

func stepID(index int) string { return fmt.Sprintf("step_%d", index+1) }
