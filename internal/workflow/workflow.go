// Package workflow holds the browsable runbook library: named,
// categorized step sequences that can be handed to the engine as a
// pre-planned agent run instead of going through task recognition.
package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/snipkit/ai-terminal-verse-06/internal/engine"
)

type Category string

const (
	CategoryDeployment  Category = "deployment"
	CategoryDebugging   Category = "debugging"
	CategoryMaintenance Category = "maintenance"
	CategorySetup       Category = "setup"
	CategoryDatabase    Category = "database"
)

type StepType string

const (
	StepCommand    StepType = "command"
	StepValidation StepType = "validation"
	StepManual     StepType = "manual"
	StepCheckpoint StepType = "checkpoint"
)

type Step struct {
	ID             string   `yaml:"id"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Command        string   `yaml:"command,omitempty"`
	ExpectedOutput string   `yaml:"expected_output,omitempty"`
	Type           StepType `yaml:"type"`
}

type Workflow struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
	Steps       []Step   `yaml:"steps"`
}

func (w Workflow) validate() error {
	if w.ID == "" {
		return fmt.Errorf("workflow missing id")
	}
	if w.Name == "" {
		return fmt.Errorf("workflow %s missing name", w.ID)
	}
	if len(w.Steps) == 0 {
		return fmt.Errorf("workflow %s has no steps", w.ID)
	}
	for i, s := range w.Steps {
		if s.Title == "" {
			return fmt.Errorf("workflow %s step %d missing title", w.ID, i+1)
		}
	}
	return nil
}

// AgentSteps converts the workflow into engine steps, ready for
// Session.StartRun.
func (w Workflow) AgentSteps() []engine.AgentStep {
	steps := make([]engine.AgentStep, len(w.Steps))
	for i, s := range w.Steps {
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}
		desc := s.Title
		if s.Description != "" {
			desc = s.Title + ": " + s.Description
		}
		steps[i] = engine.AgentStep{
			ID:          id,
			Description: desc,
			Command:     s.Command,
			Status:      engine.StepPending,
		}
	}
	return steps
}

// Library is an ordered collection of workflows.
type Library struct {
	workflows []Workflow
}

// Builtin returns the workflows shipped with the terminal.
func Builtin() *Library {
	return &Library{workflows: []Workflow{
		{
			ID:          "deploy-production",
			Name:        "Production deployment",
			Description: "Test, build, and roll out the application",
			Category:    CategoryDeployment,
			Steps: []Step{
				{ID: "1", Title: "Run test suite", Command: "npm run test", Type: StepCommand},
				{ID: "2", Title: "Build production bundle", Command: "npm run build", Type: StepCommand},
				{ID: "3", Title: "Verify bundle size", Type: StepValidation, ExpectedOutput: "bundle under budget"},
				{ID: "4", Title: "Deploy", Command: "npm run deploy", Type: StepCommand},
				{ID: "5", Title: "Confirm rollout healthy", Type: StepCheckpoint},
			},
		},
		{
			ID:          "database-backup",
			Name:        "Database backup",
			Description: "Snapshot the primary database and verify the archive",
			Category:    CategoryDatabase,
			Steps: []Step{
				{ID: "1", Title: "Create snapshot", Command: "pg_dump app > backup.sql", Type: StepCommand},
				{ID: "2", Title: "Verify archive integrity", Type: StepValidation},
				{ID: "3", Title: "Upload to storage", Command: "aws s3 cp backup.sql s3://backups/", Type: StepCommand},
			},
		},
		{
			ID:          "debug-high-cpu",
			Name:        "Debug high CPU",
			Description: "Track down a process burning CPU",
			Category:    CategoryDebugging,
			Steps: []Step{
				{ID: "1", Title: "List top processes", Command: "ps aux --sort=-%cpu | head -10", Type: StepCommand},
				{ID: "2", Title: "Inspect the suspect process", Type: StepManual},
				{ID: "3", Title: "Capture recent logs", Command: "journalctl -n 50", Type: StepCommand},
			},
		},
	}}
}

// LoadDir reads every .yml/.yaml file in dir into a library, appended
// after the builtin workflows. A missing directory yields the builtins
// alone.
func LoadDir(dir string) (*Library, error) {
	lib := Builtin()
	if dir == "" {
		return lib, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var w Workflow
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		if err := w.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", entry.Name(), err)
		}
		lib.workflows = append(lib.workflows, w)
	}
	return lib, nil
}

// All returns every workflow in library order.
func (l *Library) All() []Workflow {
	out := make([]Workflow, len(l.workflows))
	copy(out, l.workflows)
	return out
}

func (l *Library) Get(id string) (Workflow, bool) {
	for _, w := range l.workflows {
		if w.ID == id {
			return w, true
		}
	}
	return Workflow{}, false
}

// ByCategory filters the library, preserving order.
func (l *Library) ByCategory(c Category) []Workflow {
	var out []Workflow
	for _, w := range l.workflows {
		if w.Category == c {
			out = append(out, w)
		}
	}
	return out
}
