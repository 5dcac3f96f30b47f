package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit        key.Binding
	Enter       key.Binding
	Clear       key.Binding
	FocusNext   key.Binding
	ToggleAgent key.Binding
	Workflows   key.Binding
	Confirm     key.Binding
	Reject      key.Binding
	RunStep     key.Binding
	Pause       key.Binding
	Resume      key.Binding
	Stop        key.Binding
	ToggleHelp  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear terminal"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		ToggleAgent: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "toggle agent mode"),
		),
		Workflows: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "workflows"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm command"),
		),
		Reject: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "reject command"),
		),
		RunStep: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "run next step"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause run"),
		),
		Resume: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resume run"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop run"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "help"),
		),
	}
}

func renderHelp(t Theme) string {
	k := defaultKeyMap()
	var b strings.Builder

	b.WriteString(t.TopBarTitle.Render("aiterm help"))
	b.WriteString("\n\n")

	b.WriteString(t.PaneTitle.Render("input"))
	b.WriteString("\n")
	for _, bind := range []key.Binding{k.Enter, k.Clear, k.ToggleAgent, k.Workflows} {
		b.WriteString(fmt.Sprintf("  %s  %s\n", t.TopBarBadge.Render(bind.Help().Key), bind.Help().Desc))
	}

	b.WriteString("\n")
	b.WriteString(t.PaneTitle.Render("agent pane"))
	b.WriteString("\n")
	for _, bind := range []key.Binding{k.Confirm, k.Reject, k.RunStep, k.Pause, k.Resume, k.Stop} {
		b.WriteString(fmt.Sprintf("  %s  %s\n", t.TopBarBadge.Render(bind.Help().Key), bind.Help().Desc))
	}

	b.WriteString("\n")
	b.WriteString(t.Footer.Render("tab focus | edit: old -> new rewrites the last command | ctrl+c quit"))
	return b.String()
}
