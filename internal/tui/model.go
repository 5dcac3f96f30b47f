// Package tui renders an interactive terminal over an engine session:
// a transcript pane, an agent pane for pending commands and run steps,
// and a searchable workflow picker.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snipkit/ai-terminal-verse-06/internal/engine"
	"github.com/snipkit/ai-terminal-verse-06/internal/workflow"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusChat
	focusAgent
)

// pollMsg drives a refresh of the engine snapshots. The engine fires
// its own timers off the UI thread, so the model polls instead of
// receiving push events.
type pollMsg time.Time

const pollInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type Model struct {
	session   *engine.Session
	workflows *workflow.Library

	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool

	focus    focusArea
	showHelp bool

	input  textarea.Model
	chatVP viewport.Model

	// Engine snapshots refreshed on each poll.
	messages     []engine.Message
	blocks       []engine.CommandBlock
	run          engine.AgentRun
	hasRun       bool
	corrections  []engine.CorrectionAttempt
	transmitting bool

	blockSel int

	picker *pickerModel

	spinnerPos int
}

func NewModel(session *engine.Session, lib *workflow.Library) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type a command or describe what you want…"
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetHeight(1)
	ta.Prompt = " "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()

	m := &Model{
		session:   session,
		workflows: lib,
		theme:     NewTheme(),
		keys:      defaultKeyMap(),
		width:     100,
		height:    30,
		focus:     focusInput,
		input:     ta,
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.pollTick())
}

func (m *Model) pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// refresh pulls fresh snapshots from the session.
func (m *Model) refresh() {
	m.messages = m.session.Messages()
	m.blocks = m.session.Blocks()
	m.run, m.hasRun = m.session.Run()
	m.corrections = m.session.Corrections()
	m.transmitting = m.session.Transmitting()
	if m.blockSel >= len(m.pendingBlocks()) {
		m.blockSel = 0
	}
}

func (m *Model) pendingBlocks() []engine.CommandBlock {
	var out []engine.CommandBlock
	for _, b := range m.blocks {
		if b.Status == engine.BlockPending {
			out = append(out, b)
		}
	}
	return out
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chatW, chatH := m.chatSize()
		if !m.ready {
			m.chatVP = viewport.New(chatW, chatH)
			m.ready = true
		} else {
			m.chatVP.Width = chatW
			m.chatVP.Height = chatH
		}
		m.input.SetWidth(max(10, m.width-6))
		m.updateChatViewport()
		return m, nil

	case pollMsg:
		prev := len(m.messages)
		m.refresh()
		if len(m.messages) != prev {
			m.updateChatViewport()
			m.chatVP.GotoBottom()
		}
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		return m, m.pollTick()

	case tea.KeyMsg:
		if m.picker != nil {
			return m.updatePicker(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.chatVP, cmd = m.chatVP.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit, true

	case key.Matches(msg, k.ToggleHelp):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, k.FocusNext):
		m.cycleFocus()
		return nil, true

	case key.Matches(msg, k.ToggleAgent):
		m.session.SetAgentMode(!m.session.AgentMode())
		return nil, true

	case key.Matches(msg, k.Workflows):
		m.picker = newPickerModel(m.workflows, m.theme)
		return nil, true

	case key.Matches(msg, k.Clear):
		m.session.ClearMessages()
		m.refresh()
		m.updateChatViewport()
		return nil, true

	case key.Matches(msg, k.Enter):
		if m.focus == focusInput {
			return m.onSubmit(), true
		}
		return nil, true
	}

	// Agent pane keys only apply when it has focus, so typing in the
	// input never confirms a block by accident.
	if m.focus == focusAgent {
		switch {
		case key.Matches(msg, k.Confirm):
			if b := m.selectedBlock(); b != nil {
				_ = m.session.ConfirmBlock(b.ID)
				_ = m.session.ExecuteBlock(b.ID)
				m.refresh()
			}
			return nil, true
		case key.Matches(msg, k.Reject):
			if b := m.selectedBlock(); b != nil {
				_ = m.session.RejectBlock(b.ID)
				m.refresh()
			}
			return nil, true
		case key.Matches(msg, k.RunStep):
			_ = m.session.ExecuteCurrentStep()
			m.refresh()
			return nil, true
		case key.Matches(msg, k.Pause):
			_ = m.session.PauseRun()
			m.refresh()
			return nil, true
		case key.Matches(msg, k.Resume):
			_ = m.session.ResumeRun()
			m.refresh()
			return nil, true
		case key.Matches(msg, k.Stop):
			_ = m.session.StopRun()
			m.refresh()
			return nil, true
		case msg.Type == tea.KeyUp:
			if m.blockSel > 0 {
				m.blockSel--
			}
			return nil, true
		case msg.Type == tea.KeyDown:
			if m.blockSel < len(m.pendingBlocks())-1 {
				m.blockSel++
			}
			return nil, true
		}
	}

	if m.focus == focusChat {
		switch msg.Type {
		case tea.KeyUp:
			m.chatVP.LineUp(1)
			return nil, true
		case tea.KeyDown:
			m.chatVP.LineDown(1)
			return nil, true
		case tea.KeyPgUp:
			m.chatVP.ViewUp()
			return nil, true
		case tea.KeyPgDown:
			m.chatVP.ViewDown()
			return nil, true
		}
	}

	return nil, false
}

func (m *Model) onSubmit() tea.Cmd {
	val := strings.TrimSpace(m.input.Value())
	if val == "" {
		return nil
	}
	m.input.Reset()
	m.session.Submit(val)
	m.refresh()
	m.updateChatViewport()
	m.chatVP.GotoBottom()
	return nil
}

func (m *Model) selectedBlock() *engine.CommandBlock {
	pending := m.pendingBlocks()
	if len(pending) == 0 {
		return nil
	}
	if m.blockSel >= len(pending) {
		m.blockSel = len(pending) - 1
	}
	b := pending[m.blockSel]
	return &b
}

func (m *Model) cycleFocus() {
	switch m.focus {
	case focusInput:
		m.focus = focusChat
		m.input.Blur()
	case focusChat:
		m.focus = focusAgent
	default:
		m.focus = focusInput
		m.input.Focus()
	}
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, picked := m.picker.handleKey(msg)
	if !done {
		return m, nil
	}
	p := m.picker
	m.picker = nil
	if picked {
		if w, ok := p.selected(); ok {
			if _, err := m.session.StartRun(w.Name, w.AgentSteps()); err == nil {
				m.focus = focusAgent
				m.input.Blur()
			}
			m.refresh()
		}
	}
	return m, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (m *Model) chatSize() (int, int) {
	w := m.width - 4
	if m.agentPaneVisible() && m.width >= 90 {
		w = m.width*3/5 - 4
	}
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return max(20, w), h
}

func (m *Model) agentPaneVisible() bool {
	return m.hasRun || len(m.pendingBlocks()) > 0 || len(m.corrections) > 0
}

func stepMark(s engine.StepStatus) string {
	switch s {
	case engine.StepCompleted:
		return "✓"
	case engine.StepRunning:
		return "▸"
	case engine.StepFailed:
		return "✗"
	default:
		return "·"
	}
}

func (m *Model) stepStyle(s engine.StepStatus) lipgloss.Style {
	switch s {
	case engine.StepCompleted:
		return m.theme.StepDone
	case engine.StepRunning:
		return m.theme.StepRunning
	case engine.StepFailed:
		return m.theme.StepFailed
	default:
		return m.theme.StepPending
	}
}

func roleLabel(kind engine.MessageKind) string {
	switch kind {
	case engine.MessageInput:
		return "you"
	case engine.MessageAgentResponse:
		return "agent"
	default:
		return "ai"
	}
}

func (m *Model) roleStyle(kind engine.MessageKind) lipgloss.Style {
	switch kind {
	case engine.MessageInput:
		return m.theme.RoleYou
	case engine.MessageAgentResponse:
		return m.theme.RoleAgent
	default:
		return m.theme.RoleAI
	}
}

func (m *Model) updateChatViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		label := m.roleStyle(msg.Kind).Render(roleLabel(msg.Kind))
		meta := ""
		if msg.ModelID != "" && msg.Kind != engine.MessageInput {
			meta = m.theme.Footer.Render(" " + msg.ModelID)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", label, meta, m.theme.Footer.Render(msg.Timestamp.Format("15:04:05"))))
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	m.chatVP.SetContent(b.String())
}
