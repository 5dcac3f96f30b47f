package engine

import (
	"regexp"
	"strings"
)

// DefaultDenylist matches the default deny patterns shipped with the
// original terminal. Input containing any of these is never treated as
// natural language, regardless of what the other rules say.
func DefaultDenylist() []string {
	return []string{"rm -rf", "sudo rm", "format", "delete"}
}

var leadingVerbPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(create|make|build|generate|setup|configure)\b`),
	regexp.MustCompile(`(?i)^(show|display|list|find|search|get)\b`),
	regexp.MustCompile(`(?i)^(deploy|install|update|upgrade|remove)\b`),
}

var courtesyPhrases = []string{"please", "could you", "would you", "can you"}

var intentPhrases = []string{"want to", "need to", "trying to", "help", "how do"}

// IsNaturalLanguage classifies free text as a natural-language request
// rather than a literal shell command. Pure function of its inputs; the
// rules are a disjunction, so any single hit classifies the text.
func IsNaturalLanguage(text string, enabled []Plugin, denylist []string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)

	for _, deny := range denylist {
		if deny == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(deny)) {
			return false
		}
	}

	for _, re := range leadingVerbPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	for _, phrase := range courtesyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	if strings.Contains(trimmed, "?") {
		return true
	}
	for _, phrase := range intentPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, p := range enabled {
		for _, word := range p.TriggerWords {
			if strings.Contains(lower, strings.ToLower(word)) {
				return true
			}
		}
	}
	return false
}
