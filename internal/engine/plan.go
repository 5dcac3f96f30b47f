package engine

import (
	"strconv"
	"strings"
)

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// AgentStep is one unit of an agent plan. Steps without a command are
// descriptive; the run controller still walks through them.
type AgentStep struct {
	ID          string
	Description string
	Command     string
	Status      StepStatus
	Output      string
}

type stepTemplate struct {
	description string
	command     string
}

type planRule struct {
	matches func(lower string) bool
	steps   []stepTemplate
}

// Planner decomposes recognized high-level tasks into ordered steps.
// Rules are evaluated in order; the first hit wins. Unrecognized tasks
// get an empty plan and are handled as single-shot responses.
type Planner struct {
	rules []planRule
}

func NewPlanner() *Planner {
	return &Planner{
		rules: []planRule{
			{
				matches: func(lower string) bool {
					return strings.Contains(lower, "create") && strings.Contains(lower, "component")
				},
				steps: []stepTemplate{
					{description: "Analyze component requirements"},
					{description: "Generate component structure", command: "mkdir components"},
					{description: "Create component interfaces"},
					{description: "Implement component logic"},
					{description: "Add styling and exports"},
				},
			},
			{
				matches: func(lower string) bool {
					return strings.Contains(lower, "deploy") || strings.Contains(lower, "build")
				},
				steps: []stepTemplate{
					{description: "Run tests and linting", command: "npm run test"},
					{description: "Build production bundle", command: "npm run build"},
					{description: "Optimize assets"},
					{description: "Deploy to production", command: "npm run deploy"},
				},
			},
		},
	}
}

// Plan returns the step list for the task, all pending, or nil when no
// rule recognizes it. Step ids are positional and unique within the
// plan.
func (p *Planner) Plan(commandText string) []AgentStep {
	lower := strings.ToLower(commandText)
	for _, rule := range p.rules {
		if !rule.matches(lower) {
			continue
		}
		steps := make([]AgentStep, len(rule.steps))
		for i, tpl := range rule.steps {
			steps[i] = AgentStep{
				ID:          strconv.Itoa(i + 1),
				Description: tpl.description,
				Command:     tpl.command,
				Status:      StepPending,
			}
		}
		return steps
	}
	return nil
}
