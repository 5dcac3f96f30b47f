package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/snipkit/ai-terminal-verse-06/internal/engine"
)

func (m *Model) View() string {
	if !m.ready {
		return "…"
	}
	if m.picker != nil {
		return m.picker.View()
	}
	if m.showHelp {
		return renderHelp(m.theme)
	}

	top := m.renderTopBar()
	body := m.renderBody()
	input := m.renderInput()
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, top, body, input, footer)
}

func (m *Model) renderTopBar() string {
	t := m.theme
	title := t.TopBarTitle.Render("aiterm")
	model := t.TopBarBadge.Render(m.session.Model())

	mode := "chat"
	if m.session.AgentMode() {
		mode = "agent"
	}
	badge := t.TopBar.Render("mode:") + t.TopBarBadge.Render(mode)

	status := ""
	if m.transmitting {
		status = t.Spinner.Render(spinnerFrames[m.spinnerPos] + " transmitting")
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", model, "  ", badge)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + status
}

func (m *Model) renderBody() string {
	chat := m.renderChatPane()
	if !m.agentPaneVisible() || m.width < 90 {
		return chat
	}
	agent := m.renderAgentPane()
	return lipgloss.JoinHorizontal(lipgloss.Top, chat, agent)
}

func (m *Model) renderChatPane() string {
	t := m.theme
	style := t.Pane
	if m.focus == focusChat {
		style = t.PaneFocused
	}
	w, h := m.chatSize()
	return style.Width(w).Height(h).Render(m.chatVP.View())
}

func (m *Model) renderAgentPane() string {
	t := m.theme
	style := t.Pane
	if m.focus == focusAgent {
		style = t.PaneFocused
	}

	var b strings.Builder
	b.WriteString(t.PaneTitle.Render("agent"))
	b.WriteString("\n")

	pending := m.pendingBlocks()
	if len(pending) > 0 {
		b.WriteString(t.BlockPending.Render("awaiting confirmation"))
		b.WriteString("\n")
		for i, blk := range pending {
			cursor := "  "
			cmdStyle := t.BlockCommand
			if i == m.blockSel {
				cursor = "> "
				cmdStyle = t.BlockSelected
			}
			b.WriteString(cursor + cmdStyle.Render(blk.GeneratedCommand) + "\n")
			for _, warn := range blk.Warnings {
				b.WriteString("    " + t.BlockWarning.Render("⚠ "+warn) + "\n")
			}
		}
		b.WriteString(t.Footer.Render("y confirm · n reject"))
		b.WriteString("\n")
	}

	if m.hasRun {
		b.WriteString("\n")
		b.WriteString(t.PaneTitle.Render(fmt.Sprintf("run · %s", m.run.Status)))
		b.WriteString("\n")
		b.WriteString(t.Footer.Render(m.run.Task))
		b.WriteString("\n")
		for _, step := range m.run.Steps {
			style := m.stepStyle(step.Status)
			b.WriteString(style.Render(fmt.Sprintf("%s %s. %s", stepMark(step.Status), step.ID, step.Description)))
			b.WriteString("\n")
			if step.Command != "" && step.Status != engine.StepPending {
				b.WriteString("    " + t.Footer.Render("$ "+step.Command) + "\n")
			}
		}
		switch m.run.Status {
		case engine.RunRunning:
			b.WriteString(t.Footer.Render("s step · p pause · x stop"))
		case engine.RunPaused:
			b.WriteString(t.Footer.Render("r resume · x stop"))
		}
		b.WriteString("\n")
	}

	if len(m.corrections) > 0 {
		b.WriteString("\n")
		b.WriteString(t.PaneTitle.Render("self-correction"))
		b.WriteString("\n")
		for _, c := range m.corrections {
			var style lipgloss.Style
			switch c.Status {
			case engine.CorrectionSuccess:
				style = t.StepDone
			case engine.CorrectionFailed:
				style = t.StepFailed
			default:
				style = t.StepRunning
			}
			b.WriteString(style.Render(fmt.Sprintf("%s  %s", c.Status, c.OriginalError)))
			b.WriteString("\n")
		}
	}

	w := m.width - m.width*3/5 - 4
	_, h := m.chatSize()
	return style.Width(max(24, w)).Height(h).Render(b.String())
}

func (m *Model) renderInput() string {
	t := m.theme
	style := t.InputBox
	if m.focus == focusInput {
		style = t.InputBoxF
	}
	box := style.Width(max(20, m.width-2)).Render(m.input.View())

	// Live suggestions under the input, driven by the current text.
	suggestions := engine.Suggestions(m.input.Value())
	if m.focus != focusInput || len(suggestions) == 0 {
		return box
	}
	var b strings.Builder
	b.WriteString(box)
	for _, s := range suggestions {
		b.WriteString("\n  " + t.TopBarBadge.Render(s.Command) + t.Footer.Render("  "+s.Description))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	return " " + m.theme.Footer.Render("enter send · tab focus · ctrl+a agent · ctrl+w workflows · ctrl+h help · ctrl+c quit")
}
