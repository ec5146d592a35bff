package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/logging"
)

// Processor runs one agent exchange. *registry.Manager satisfies it; tests
// supply stubs.
type Processor interface {
	ProcessMessage(ctx context.Context, agentID, message, userID string, language core.Language) (string, error)
}

// workflowUser attributes step exchanges in the chat log.
const workflowUser = "workflow_system"

// Options configures an Engine instance.
type Options struct {
	Logger logging.Logger
}

// Engine owns workflow lifecycles. It executes DAGs in parallel waves: every
// pass computes the ready set (pending steps whose dependencies are all
// completed) and runs it concurrently, joining on an all-complete barrier
// before the next wave. Safe for concurrent use.
type Engine struct {
	proc   Processor
	logger logging.Logger

	mu        sync.RWMutex
	workflows map[string]*Workflow
}

// NewEngine constructs an Engine over proc with optional overrides.
func NewEngine(proc Processor, optFns ...func(o *Options)) *Engine {
	opts := Options{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		proc:      proc,
		logger:    opts.Logger,
		workflows: make(map[string]*Workflow),
	}
}

// Create registers a new draft workflow from specs and returns its id. Step
// ids are assigned positionally (step_1, step_2, ...); dependencies must
// reference ids within the same workflow.
func (e *Engine) Create(name, description string, specs []StepSpec) (string, error) {
	if len(specs) == 0 {
		return "", fmt.Errorf("workflow requires at least one step")
	}
	if err := validateSpecs(specs); err != nil {
		return "", err
	}

	wf := &Workflow{
		ID:          "workflow_" + core.NewID(),
		Name:        name,
		Description: description,
		Status:      StatusDraft,
		CreatedAt:   time.Now(),
		Metadata:    map[string]any{},
	}
	for i, spec := range specs {
		wf.Steps = append(wf.Steps, &Step{
			ID:           stepID(i),
			AgentID:      spec.AgentID,
			Action:       spec.Action,
			Input:        spec.Input,
			Dependencies: spec.Dependencies,
			Status:       StepPending,
		})
	}

	e.mu.Lock()
	e.workflows[wf.ID] = wf
	e.mu.Unlock()

	e.logger.Info("Created workflow", "workflow_id", wf.ID, "name", name, "steps", len(specs))
	return wf.ID, nil
}

// Get returns a snapshot of the workflow or core.ErrWorkflowNotFound.
func (e *Engine) Get(id string) (*Workflow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	wf, ok := e.workflows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrWorkflowNotFound, id)
	}
	return wf.clone(), nil
}

// List returns snapshots of all workflows.
func (e *Engine) List() []*Workflow {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*Workflow, 0, len(e.workflows))
	for _, wf := range e.workflows {
		out = append(out, wf.clone())
	}
	return out
}

// SetStatus writes an externally-driven status (paused and back). The engine
// itself never transitions into or out of paused.
func (e *Engine) SetStatus(id string, status Status) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	wf, ok := e.workflows[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrWorkflowNotFound, id)
	}
	wf.Status = status
	return nil
}

// Execute runs the workflow to completion. The workflow becomes failed the
// instant any step fails or the dependency graph cannot progress; steps that
// already completed keep their status and output.
func (e *Engine) Execute(ctx context.Context, id string) error {
	e.mu.Lock()
	wf, ok := e.workflows[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrWorkflowNotFound, id)
	}
	wf.Status = StatusRunning
	e.mu.Unlock()

	start := time.Now()
	logging.ForWorkflow(e.logger, wf.ID).Info("Starting workflow execution", "name", wf.Name)

	err := e.runSteps(ctx, wf)

	e.mu.Lock()
	if err != nil {
		wf.Status = StatusFailed
	} else {
		wf.Status = StatusCompleted
		now := time.Now()
		wf.CompletedAt = &now
	}
	status := wf.Status
	e.mu.Unlock()

	if rec, ok := e.logger.(logging.WorkflowRunRecorder); ok {
		rec.LogWorkflowRun(wf.ID, len(wf.Steps), time.Since(start), err)
	} else {
		e.logger.Info("Workflow execution finished",
			"workflow_id", wf.ID,
			"status", status,
			"duration", time.Since(start),
		)
	}
	return err
}

// runSteps drives the wave loop until all steps complete or a wave fails.
func (e *Engine) runSteps(ctx context.Context, wf *Workflow) error {
	completed := make(map[string]bool)
	for _, s := range wf.Steps {
		if s.Status == StepCompleted {
			completed[s.ID] = true
		}
	}

	for len(completed) < len(wf.Steps) {
		ready := readySet(wf, completed)
		if len(ready) == 0 {
			if pendingRemain(wf) {
				return &core.WorkflowError{
					WorkflowID: wf.ID,
					Reason:     "circular or unresolvable dependencies",
				}
			}
			break
		}

		// Plain errgroup: no shared context cancellation, so every step of
		// the wave runs to completion even when a sibling fails.
		var g errgroup.Group
		for _, step := range ready {
			g.Go(func() error { return e.runStep(ctx, wf, step) })
		}
		err := g.Wait()

		for _, step := range ready {
			if step.Status == StepCompleted {
				completed[step.ID] = true
			}
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// runStep executes one step against its target agent and attaches output or
// failure to the step record.
func (e *Engine) runStep(ctx context.Context, wf *Workflow, step *Step) error {
	e.setStep(step, StepRunning, nil, "")
	e.logger.Debug("Executing step", "workflow_id", wf.ID, "step_id", step.ID, "agent", step.AgentID, "action", step.Action)

	input := mergeInput(wf, step)
	prompt := fmt.Sprintf("Execute action: %s\nInput: %s", step.Action, marshalInput(input))

	response, err := e.proc.ProcessMessage(ctx, step.AgentID, prompt, workflowUser, core.LanguageEnglish)
	if err != nil {
		e.setStep(step, StepFailed, nil, err.Error())
		return &core.WorkflowError{
			WorkflowID: wf.ID,
			StepID:     step.ID,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	e.setStep(step, StepCompleted, map[string]any{
		"action":    step.Action,
		"response":  response,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, "")
	return nil
}

// setStep writes step results under the engine lock so concurrent Get and
// List snapshots never observe a torn step.
func (e *Engine) setStep(step *Step, status StepStatus, output map[string]any, errMsg string) {
	e.mu.Lock()
	step.Status = status
	if output != nil {
		step.Output = output
	}
	if errMsg != "" {
		step.Error = errMsg
	}
	e.mu.Unlock()
}

// readySet returns pending steps whose every dependency is completed.
func readySet(wf *Workflow, completed map[string]bool) []*Step {
	var ready []*Step
	for _, step := range wf.Steps {
		if step.Status != StepPending {
			continue
		}
		ok := true
		for _, dep := range step.Dependencies {
			if !completed[dep] {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, step)
		}
	}
	return ready
}

func pendingRemain(wf *Workflow) bool {
	for _, step := range wf.Steps {
		if step.Status == StepPending {
			return true
		}
	}
	return false
}

// mergeInput builds the step's effective input: the static input plus the
// outputs of its dependency steps keyed under "dependencies" by step id.
func mergeInput(wf *Workflow, step *Step) map[string]any {
	merged := make(map[string]any, len(step.Input)+1)
	for k, v := range step.Input {
		merged[k] = v
	}

	deps := map[string]any{}
	for _, depID := range step.Dependencies {
		if dep, ok := wf.step(depID); ok && dep.Output != nil {
			deps[depID] = dep.Output
		}
	}
	merged["dependencies"] = deps

	return merged
}

func marshalInput(input map[string]any) string {
	b, err := json.Marshal(input)
	if err != nil {
		return fmt.Sprintf("%v", input)
	}
	return string(b)
}
