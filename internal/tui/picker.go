package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/snipkit/ai-terminal-verse-06/internal/workflow"
)

// pickerModel is the workflow browser overlay. Typing filters the
// library with fuzzy search; enter starts the selected workflow as an
// agent run.
type pickerModel struct {
	lib   *workflow.Library
	theme Theme

	query   string
	results []workflow.Workflow
	sel     int
}

func newPickerModel(lib *workflow.Library, theme Theme) *pickerModel {
	return &pickerModel{
		lib:     lib,
		theme:   theme,
		results: lib.All(),
	}
}

func (p *pickerModel) filter() {
	p.results = p.lib.Search(p.query)
	if p.sel >= len(p.results) {
		p.sel = 0
	}
}

func (p *pickerModel) selected() (workflow.Workflow, bool) {
	if p.sel < 0 || p.sel >= len(p.results) {
		return workflow.Workflow{}, false
	}
	return p.results[p.sel], true
}

// handleKey returns (done, picked). done closes the overlay; picked
// means the caller should start the selected workflow.
func (p *pickerModel) handleKey(msg tea.KeyMsg) (done, picked bool) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return true, false
	case tea.KeyEnter:
		return true, len(p.results) > 0
	case tea.KeyUp:
		if p.sel > 0 {
			p.sel--
		}
	case tea.KeyDown:
		if p.sel < len(p.results)-1 {
			p.sel++
		}
	case tea.KeyBackspace:
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
			p.filter()
		}
	case tea.KeyRunes:
		p.query += string(msg.Runes)
		p.filter()
	case tea.KeySpace:
		p.query += " "
		p.filter()
	}
	return false, false
}

func (p *pickerModel) View() string {
	t := p.theme
	var b strings.Builder

	b.WriteString(t.TopBarTitle.Render("workflows"))
	b.WriteString("\n\n")
	b.WriteString(t.InputBoxF.Render("search: " + p.query))
	b.WriteString("\n\n")

	if len(p.results) == 0 {
		b.WriteString(t.Footer.Render("no workflows match"))
		b.WriteString("\n")
	}
	for i, w := range p.results {
		cursor := "  "
		name := t.RoleAI.Render(w.Name)
		if i == p.sel {
			cursor = "> "
			name = t.BlockSelected.Render(w.Name)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, name, t.TopBarBadge.Render("["+string(w.Category)+"]")))
		b.WriteString("    " + t.Footer.Render(fmt.Sprintf("%s · %d steps", w.Description, len(w.Steps))) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(t.Footer.Render("enter start · esc close"))
	return b.String()
}
