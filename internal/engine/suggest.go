package engine

import (
	"regexp"
	"strings"
)

// Suggestion pairs a known high-level phrase with what it does.
type Suggestion struct {
	Command     string
	Description string
}

// phraseTranslations maps exact natural-language phrases to the shell
// command the terminal pretends to run for them. Matched before plugin
// routing; an exact hit skips the plugin pipeline entirely.
var phraseTranslations = map[string]string{
	"show me running containers":  "docker ps",
	"list running containers":     "docker ps",
	"check running containers":    "docker ps",
	"deploy to production":        "kubectl apply -f production.yaml && kubectl rollout status deployment/app",
	"check system health":         "systemctl status && df -h && free -m",
	"list active processes":       "ps aux",
	"list all processes":          "ps -ef",
	"show system status":          "systemctl status",
	"check disk space":            "df -h",
	"check memory usage":          "free -m",
	"show network connections":    "netstat -tuln",
	"list running services":       "systemctl list-units --type=service --state=running",
	"check cpu usage":             "top -n 1",
	"show logs":                   "journalctl -n 50",
	"restart nginx":               "systemctl restart nginx",
	"check nginx status":          "systemctl status nginx",
}

var commandCatalog = []Suggestion{
	{Command: "deploy to production", Description: "Deploy application to production environment"},
	{Command: "deploy to staging", Description: "Deploy application to staging environment"},
	{Command: "check system health", Description: "Verify system status and resource usage"},
	{Command: "check system performance", Description: "Analyze system performance metrics"},
	{Command: "list active processes", Description: "Show currently running processes"},
	{Command: "list all processes", Description: "Show all system processes"},
	{Command: "find slow queries", Description: "Identify database performance issues"},
	{Command: "find large files", Description: "Locate files consuming disk space"},
	{Command: "create backup", Description: "Create system or database backup"},
	{Command: "create deployment", Description: "Create new deployment configuration"},
	{Command: "show running containers", Description: "Display active Docker containers"},
	{Command: "show system logs", Description: "View recent system log entries"},
}

// TranslateLiteral resolves an exact phrase match to its command.
func TranslateLiteral(input string) (string, bool) {
	cmd, ok := phraseTranslations[strings.ToLower(strings.TrimSpace(input))]
	return cmd, ok
}

// Suggestions returns up to five catalog entries containing the input.
// Inputs shorter than three characters get nothing.
func Suggestions(input string) []Suggestion {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) < 3 {
		return nil
	}
	lower := strings.ToLower(trimmed)

	var out []Suggestion
	for _, s := range commandCatalog {
		if strings.Contains(strings.ToLower(s.Command), lower) {
			out = append(out, s)
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}

var editRE = regexp.MustCompile(`^(.+?)\s*->\s*(.+)$`)

// ParseEdit handles the "edit: old -> new" syntax and returns both
// sides trimmed.
func ParseEdit(input string) (oldCmd, newCmd string, ok bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "edit:") {
		return "", "", false
	}
	body := strings.TrimSpace(strings.TrimPrefix(trimmed, "edit:"))
	m := editRE.FindStringSubmatch(body)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}
