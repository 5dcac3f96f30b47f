package workflow

import "github.com/sahilm/fuzzy"

// searchSource adapts the library to fuzzy.Source, matching against
// "name description" so either field can satisfy a query.
type searchSource []Workflow

func (s searchSource) String(i int) string {
	return s[i].Name + " " + s[i].Description
}

func (s searchSource) Len() int { return len(s) }

// Search fuzzy-matches query against workflow names and descriptions,
// best matches first. An empty query returns the full library.
func (l *Library) Search(query string) []Workflow {
	if query == "" {
		return l.All()
	}
	matches := fuzzy.FindFrom(query, searchSource(l.workflows))
	out := make([]Workflow, 0, len(matches))
	for _, m := range matches {
		out = append(out, l.workflows[m.Index])
	}
	return out
}
