package engine

import "strings"

type Category string

const (
	CategoryDevOps    Category = "devops"
	CategoryDatabase  Category = "database"
	CategoryGit       Category = "git"
	CategoryContainer Category = "container"
	CategoryPackage   Category = "package"
	CategoryCloud     Category = "cloud"
	CategoryCustom    Category = "custom"
)

// PostProcessed is the safety classification a plugin applies to a raw
// generated command before it becomes a CommandBlock.
type PostProcessed struct {
	Command              string
	Explanation          string
	Warnings             []string
	RequiresConfirmation bool
}

// Plugin maps a family of trigger words to a command-generation policy.
// Plugins are immutable after registration.
type Plugin struct {
	ID           string
	Name         string
	Description  string
	Category     Category
	TriggerWords []string
	PostProcess  func(raw string) PostProcessed
}

// BuiltinPlugins returns the default plugin catalog in registration
// order. Matcher tie-breaks depend on this order staying stable.
func BuiltinPlugins() []Plugin {
	return []Plugin{
		{
			ID:           "kubectl",
			Name:         "Kubernetes",
			Description:  "Generate kubectl commands for container orchestration",
			Category:     CategoryDevOps,
			TriggerWords: []string{"kubectl", "kubernetes", "k8s", "pod", "deployment", "service", "namespace"},
			PostProcess: func(raw string) PostProcessed {
				var warnings []string
				if strings.Contains(raw, "delete") {
					warnings = append(warnings, "This command will delete resources - use with caution")
				}
				if strings.Contains(raw, "--force") {
					warnings = append(warnings, "Force flag detected - this bypasses safety checks")
				}
				return PostProcessed{
					Command:              strings.TrimSpace(raw),
					Explanation:          "Generated kubectl command for Kubernetes operations",
					Warnings:             warnings,
					RequiresConfirmation: strings.Contains(raw, "delete") || strings.Contains(raw, "--force"),
				}
			},
		},
		{
			ID:           "git",
			Name:         "Git",
			Description:  "Generate Git commands for version control operations",
			Category:     CategoryGit,
			TriggerWords: []string{"git", "commit", "branch", "merge", "rebase", "push", "pull"},
			PostProcess: func(raw string) PostProcessed {
				var warnings []string
				if strings.Contains(raw, "--force") || strings.Contains(raw, " -f") {
					warnings = append(warnings, "Force flag detected - this can overwrite history")
				}
				if strings.Contains(raw, "reset --hard") {
					warnings = append(warnings, "Hard reset will lose uncommitted changes")
				}
				return PostProcessed{
					Command:              strings.TrimSpace(raw),
					Explanation:          "Generated Git command for version control",
					Warnings:             warnings,
					RequiresConfirmation: len(warnings) > 0,
				}
			},
		},
		{
			ID:           "docker",
			Name:         "Docker",
			Description:  "Generate Docker commands for container management",
			Category:     CategoryContainer,
			TriggerWords: []string{"docker", "container", "image", "dockerfile", "compose"},
			PostProcess: func(raw string) PostProcessed {
				var warnings []string
				if strings.Contains(raw, "--privileged") {
					warnings = append(warnings, "Privileged mode grants extensive container permissions")
				}
				if strings.Contains(raw, "system prune") {
					warnings = append(warnings, "Prune commands will remove unused Docker resources")
				}
				return PostProcessed{
					Command:              strings.TrimSpace(raw),
					Explanation:          "Generated Docker command for container management",
					Warnings:             warnings,
					RequiresConfirmation: len(warnings) > 0,
				}
			},
		},
		{
			ID:           "npm",
			Name:         "NPM",
			Description:  "Generate npm commands for package management",
			Category:     CategoryPackage,
			TriggerWords: []string{"npm", "package", "install", "uninstall", "update", "audit"},
			PostProcess: func(raw string) PostProcessed {
				var warnings []string
				if strings.Contains(raw, "--force") {
					warnings = append(warnings, "Force flag bypasses dependency resolution checks")
				}
				if strings.Contains(raw, "npm audit fix") {
					warnings = append(warnings, "Auto-fix may update package versions")
				}
				return PostProcessed{
					Command:              strings.TrimSpace(raw),
					Explanation:          "Generated npm command for package management",
					Warnings:             warnings,
					RequiresConfirmation: len(warnings) > 0,
				}
			},
		},
	}
}

// PluginSet holds the registered catalog plus the per-session enabled
// flags. Registration order is preserved; the catalog itself is never
// mutated.
type PluginSet struct {
	plugins []Plugin
	enabled map[string]bool
}

func NewPluginSet(plugins []Plugin, enabledIDs []string) *PluginSet {
	s := &PluginSet{
		plugins: plugins,
		enabled: make(map[string]bool, len(enabledIDs)),
	}
	for _, id := range enabledIDs {
		s.enabled[id] = true
	}
	return s
}

func (s *PluginSet) Enable(id string)  { s.enabled[id] = true }
func (s *PluginSet) Disable(id string) { delete(s.enabled, id) }

func (s *PluginSet) IsEnabled(id string) bool { return s.enabled[id] }

// Enabled returns the enabled plugins in registration order.
func (s *PluginSet) Enabled() []Plugin {
	var out []Plugin
	for _, p := range s.plugins {
		if s.enabled[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// All returns the full catalog in registration order.
func (s *PluginSet) All() []Plugin {
	out := make([]Plugin, len(s.plugins))
	copy(out, s.plugins)
	return out
}

func (s *PluginSet) Lookup(id string) (Plugin, bool) {
	for _, p := range s.plugins {
		if p.ID == id {
			return p, true
		}
	}
	return Plugin{}, false
}
