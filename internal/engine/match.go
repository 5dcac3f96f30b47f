package engine

import "strings"

// MatchPlugin scores each enabled plugin by how many of its trigger
// words occur in the input and returns the plugin with the strictly
// highest count. Ties resolve to the earlier plugin in iteration order,
// which follows registration order. A zero maximum means no match.
func MatchPlugin(text string, enabled []Plugin) (Plugin, bool) {
	lower := strings.ToLower(text)

	var best Plugin
	bestScore := 0
	for _, p := range enabled {
		score := 0
		for _, word := range p.TriggerWords {
			if strings.Contains(lower, strings.ToLower(word)) {
				score++
			}
		}
		if score > bestScore {
			best = p
			bestScore = score
		}
	}
	if bestScore == 0 {
		return Plugin{}, false
	}
	return best, true
}
