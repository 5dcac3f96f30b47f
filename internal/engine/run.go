package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type RunStatus string

const (
	RunIdle    RunStatus = "idle"
	RunRunning RunStatus = "running"
	RunPaused  RunStatus = "paused"
	RunStopped RunStatus = "stopped"
)

var (
	ErrNoActiveRun = errors.New("no active agent run")
	ErrEmptyPlan   = errors.New("agent run needs at least one step")
	ErrNoStepsLeft = errors.New("all steps are already terminal")
)

// AgentRun is one active multi-step plan plus its execution state.
// CurrentStepIndex always points at the first non-terminal step, or past
// the end when every step finished.
type AgentRun struct {
	ID               string
	Task             string
	Steps            []AgentStep
	CurrentStepIndex int
	Status           RunStatus
}

func (r *AgentRun) currentStep() *AgentStep {
	if r.CurrentStepIndex < 0 || r.CurrentStepIndex >= len(r.Steps) {
		return nil
	}
	return &r.Steps[r.CurrentStepIndex]
}

// Completed reports whether every step reached a terminal status.
func (r *AgentRun) Completed() bool {
	for i := range r.Steps {
		if r.Steps[i].Status != StepCompleted && r.Steps[i].Status != StepFailed {
			return false
		}
	}
	return len(r.Steps) > 0
}

func (r *AgentRun) advance() {
	for r.CurrentStepIndex < len(r.Steps) {
		st := r.Steps[r.CurrentStepIndex].Status
		if st != StepCompleted && st != StepFailed {
			return
		}
		r.CurrentStepIndex++
	}
}

// StartRun replaces any existing run with a fresh one over the given
// steps. At most one run is addressable at a time; starting a new run
// implicitly discards the old one without rolling anything back.
func (s *Session) StartRun(task string, steps []AgentStep) (string, error) {
	if len(steps) == 0 {
		return "", ErrEmptyPlan
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startRunLocked(task, steps), nil
}

func (s *Session) startRunLocked(task string, steps []AgentStep) string {
	owned := make([]AgentStep, len(steps))
	copy(owned, steps)

	s.runGeneration++
	s.run = &AgentRun{
		ID:               s.newID(),
		Task:             task,
		Steps:            owned,
		CurrentStepIndex: 0,
		Status:           RunRunning,
	}
	s.log.Info("agent run started",
		zap.String("run_id", s.run.ID),
		zap.Int("steps", len(owned)))
	return s.run.ID
}

// ExecuteCurrentStep starts the step at the cursor. Step execution is
// always an explicit action; nothing auto-advances without it. If the
// step carries a command it goes through the submission pathway, and
// after the simulated step latency the step completes with a success
// marker. Completion callbacks are tagged with the run generation so a
// stopped or replaced run never sees a stale step flip to completed.
func (s *Session) ExecuteCurrentStep() error {
	s.mu.Lock()

	run := s.run
	if run == nil {
		s.mu.Unlock()
		return ErrNoActiveRun
	}
	if run.Status != RunRunning {
		s.mu.Unlock()
		return fmt.Errorf("%w: execute step while %s", ErrInvalidTransition, run.Status)
	}
	step := run.currentStep()
	if step == nil {
		s.mu.Unlock()
		return ErrNoStepsLeft
	}
	if step.Status == StepRunning {
		s.mu.Unlock()
		return fmt.Errorf("%w: step %s is already running", ErrInvalidTransition, step.ID)
	}

	step.Status = StepRunning
	stepID := step.ID
	command := step.Command
	generation := s.runGeneration
	s.log.Info("agent step started",
		zap.String("run_id", run.ID),
		zap.String("step_id", stepID))
	s.mu.Unlock()

	if command != "" {
		s.Submit(command)
	}

	s.clock.After(s.stepDelay, func() {
		s.completeStep(generation, stepID)
	})
	return nil
}

func (s *Session) completeStep(generation uint64, stepID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.runGeneration || s.run == nil {
		// Stale callback from a stopped or replaced run.
		return
	}
	for i := range s.run.Steps {
		step := &s.run.Steps[i]
		if step.ID != stepID {
			continue
		}
		if step.Status != StepRunning {
			return
		}
		step.Status = StepCompleted
		step.Output = "✓ Step completed successfully"
		s.run.advance()
		s.log.Info("agent step completed",
			zap.String("run_id", s.run.ID),
			zap.String("step_id", stepID),
			zap.Bool("run_complete", s.run.Completed()))
		return
	}
}

// PauseRun gates starting further steps. A step that is already running
// keeps running and its completion still lands; the original terminal
// behaves this way and the behavior is preserved deliberately.
func (s *Session) PauseRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return ErrNoActiveRun
	}
	if s.run.Status != RunRunning {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, s.run.Status)
	}
	s.run.Status = RunPaused
	return nil
}

// ResumeRun returns a paused run to running.
func (s *Session) ResumeRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return ErrNoActiveRun
	}
	if s.run.Status != RunPaused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, s.run.Status)
	}
	s.run.Status = RunRunning
	return nil
}

// StopRun marks the run stopped and bumps the generation so in-flight
// completion callbacks are dropped. Completed steps keep their visible
// output; the run stays readable until a new one replaces it.
func (s *Session) StopRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return ErrNoActiveRun
	}
	s.run.Status = RunStopped
	s.runGeneration++
	s.log.Info("agent run stopped", zap.String("run_id", s.run.ID))
	return nil
}

// Run returns a snapshot of the current run, if any.
func (s *Session) Run() (AgentRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return AgentRun{}, false
	}
	snap := *s.run
	snap.Steps = make([]AgentStep, len(s.run.Steps))
	copy(snap.Steps, s.run.Steps)
	return snap, true
}

