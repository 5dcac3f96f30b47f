package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CommandGenerator maps (input, plugin) to a raw command string. This is
// the seam where a real model would sit; the engine only cares about
// what happens after the string exists.
type CommandGenerator interface {
	Generate(input string, plugin Plugin) string
}

// Synthesizer runs the two-stage pipeline: generate a raw command, then
// let the plugin classify and gate it. The stages stay separate so the
// generator can be swapped without touching the safety gating.
type Synthesizer struct {
	Generator CommandGenerator
	NewID     func() string
	Now       func() time.Time
}

func NewSynthesizer(gen CommandGenerator) *Synthesizer {
	return &Synthesizer{
		Generator: gen,
		NewID:     uuid.NewString,
		Now:       time.Now,
	}
}

// Synthesize produces a CommandBlock for the matched plugin. Blocks
// needing confirmation start pending; benign ones start confirmed.
func (s *Synthesizer) Synthesize(input string, plugin Plugin) *CommandBlock {
	raw := s.Generator.Generate(input, plugin)
	processed := plugin.PostProcess(raw)

	status := BlockConfirmed
	if processed.RequiresConfirmation {
		status = BlockPending
	}
	return &CommandBlock{
		ID:                   s.NewID(),
		PluginID:             plugin.ID,
		OriginalInput:        input,
		GeneratedCommand:     processed.Command,
		Explanation:          processed.Explanation,
		Warnings:             processed.Warnings,
		RequiresConfirmation: processed.RequiresConfirmation,
		Status:               status,
		Timestamp:            s.Now(),
	}
}

// MockGenerator fabricates plausible commands from keyword templates.
// No inference happens anywhere; this is the simulated model.
type MockGenerator struct{}

func (MockGenerator) Generate(input string, plugin Plugin) string {
	task := strings.ToLower(input)

	switch plugin.ID {
	case "kubectl":
		switch {
		case strings.Contains(task, "delete") || strings.Contains(task, "remove"):
			return "kubectl delete pod my-app --namespace default"
		case strings.Contains(task, "log"):
			return "kubectl logs -f deployment/app --tail=100"
		case strings.Contains(task, "scale"):
			return "kubectl scale deployment/app --replicas=3"
		case strings.Contains(task, "describe"):
			return "kubectl describe pod my-app"
		default:
			return "kubectl get pods --all-namespaces"
		}
	case "git":
		switch {
		case strings.Contains(task, "commit") || strings.Contains(task, "history") || strings.Contains(task, "recent"):
			return `git log --oneline --since="7 days ago"`
		case strings.Contains(task, "branch"):
			return "git checkout -b feature/new-branch"
		case strings.Contains(task, "force") || strings.Contains(task, "overwrite"):
			return "git push --force origin main"
		case strings.Contains(task, "undo") || strings.Contains(task, "discard"):
			return "git reset --hard HEAD~1"
		default:
			return "git status"
		}
	case "docker":
		switch {
		case strings.Contains(task, "stopped") || strings.Contains(task, "exited"):
			return `docker ps -a --filter "status=exited"`
		case strings.Contains(task, "clean") || strings.Contains(task, "prune"):
			return "docker system prune -a"
		case strings.Contains(task, "build"):
			return "docker build -t app:latest ."
		default:
			return "docker ps"
		}
	case "npm":
		switch {
		case strings.Contains(task, "fix"):
			return "npm audit fix"
		case strings.Contains(task, "vulnerab") || strings.Contains(task, "audit"):
			return "npm audit --audit-level moderate"
		case strings.Contains(task, "install") || strings.Contains(task, "add"):
			return "npm install"
		case strings.Contains(task, "outdated") || strings.Contains(task, "update"):
			return "npm update"
		default:
			return "npm run build"
		}
	default:
		return fmt.Sprintf("echo %q", "Command generated for: "+input)
	}
}
