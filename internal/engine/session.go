package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultModel                 = "gpt-4o"
	defaultResponseDelay         = 1 * time.Second
	defaultStepDelay             = 2 * time.Second
	defaultCorrectionDelay       = 2 * time.Second
	defaultCorrectionSuccessRate = 0.7
)

// Options configures a Session. Zero values fall back to defaults, so
// hosts only set what they care about and tests inject fakes.
type Options struct {
	Logger    *zap.Logger
	Clock     Scheduler
	Generator CommandGenerator
	Plugins   []Plugin
	// EnabledPlugins lists plugin ids active at start. Nil enables the
	// whole catalog.
	EnabledPlugins []string
	Model          string
	AgentMode      bool
	Denylist       []string

	ResponseDelay         time.Duration
	StepDelay             time.Duration
	CorrectionDelay       time.Duration
	CorrectionSuccessRate float64

	// Rand returns a value in [0,1); injected so correction outcomes
	// are reproducible in tests.
	Rand  func() float64
	Now   func() time.Time
	NewID func() string
}

// Session is the engine façade: it owns the transcript, command blocks,
// agent run, corrections, and plugin set, and routes submitted text
// through detection, matching, synthesis, and planning. Every public
// method and every scheduler callback takes the session mutex, so the
// shared collections behave as if dispatched by a single actor.
type Session struct {
	mu sync.Mutex

	log     *zap.Logger
	clock   Scheduler
	synth   *Synthesizer
	planner *Planner
	plugins *PluginSet

	transcript  Transcript
	blocks      BlockStore
	corrections []CorrectionAttempt
	run         *AgentRun

	// runGeneration invalidates scheduled step completions when the run
	// they belong to is stopped or replaced.
	runGeneration uint64

	agentMode    bool
	model        string
	denylist     []string
	transmitting bool

	responseDelay         time.Duration
	stepDelay             time.Duration
	correctionDelay       time.Duration
	correctionSuccessRate float64

	rand  func() float64
	now   func() time.Time
	newID func() string
}

func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = NewScheduler()
	}
	if opts.Generator == nil {
		opts.Generator = MockGenerator{}
	}
	if opts.Plugins == nil {
		opts.Plugins = BuiltinPlugins()
	}
	if opts.EnabledPlugins == nil {
		for _, p := range opts.Plugins {
			opts.EnabledPlugins = append(opts.EnabledPlugins, p.ID)
		}
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Denylist == nil {
		opts.Denylist = DefaultDenylist()
	}
	if opts.ResponseDelay <= 0 {
		opts.ResponseDelay = defaultResponseDelay
	}
	if opts.StepDelay <= 0 {
		opts.StepDelay = defaultStepDelay
	}
	if opts.CorrectionDelay <= 0 {
		opts.CorrectionDelay = defaultCorrectionDelay
	}
	if opts.CorrectionSuccessRate <= 0 || opts.CorrectionSuccessRate > 1 {
		opts.CorrectionSuccessRate = defaultCorrectionSuccessRate
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	s := &Session{
		log:                   opts.Logger,
		clock:                 opts.Clock,
		planner:               NewPlanner(),
		plugins:               NewPluginSet(opts.Plugins, opts.EnabledPlugins),
		agentMode:             opts.AgentMode,
		model:                 opts.Model,
		denylist:              append([]string(nil), opts.Denylist...),
		responseDelay:         opts.ResponseDelay,
		stepDelay:             opts.StepDelay,
		correctionDelay:       opts.CorrectionDelay,
		correctionSuccessRate: opts.CorrectionSuccessRate,
		rand:                  opts.Rand,
		now:                   opts.Now,
		newID:                 opts.NewID,
	}
	s.synth = &Synthesizer{
		Generator: opts.Generator,
		NewID:     opts.NewID,
		Now:       opts.Now,
	}
	return s
}

// Submit is the command-submission pathway. Literal user input, executed
// command blocks, and agent step commands all enter here. Fire and
// forget: the response lands in the transcript after the simulated
// latency.
func (s *Session) Submit(input string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return
	}

	s.mu.Lock()

	s.transmitting = true
	s.clock.After(s.responseDelay, func() {
		s.mu.Lock()
		s.transmitting = false
		s.mu.Unlock()
	})

	if oldCmd, newCmd, ok := ParseEdit(trimmed); ok {
		s.appendLocked(MessageInput, trimmed, "")
		s.appendLocked(MessageResponse,
			fmt.Sprintf("Command updated from %q to %q", oldCmd, newCmd), "")
		s.mu.Unlock()
		return
	}
	if strings.EqualFold(trimmed, "clear terminal") {
		s.transcript.Clear()
		s.mu.Unlock()
		return
	}

	enabled := s.plugins.Enabled()
	natural := IsNaturalLanguage(trimmed, enabled, s.denylist)

	content := trimmed
	if natural {
		content = "🧠 " + trimmed
	}
	s.appendLocked(MessageInput, content, "")

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "error") && s.rand() > 0.5 {
		s.beginCorrectionLocked("Command execution failed: Invalid syntax")
	}

	translated, literal := TranslateLiteral(trimmed)
	if s.agentMode && natural && !literal {
		if plugin, ok := MatchPlugin(trimmed, enabled); ok {
			block := s.synth.Synthesize(trimmed, plugin)
			s.blocks.Add(block)
			s.log.Info("command block synthesized",
				zap.String("block_id", block.ID),
				zap.String("plugin_id", plugin.ID),
				zap.Bool("requires_confirmation", block.RequiresConfirmation))
		}
	}

	agentMode := s.agentMode
	model := s.model
	s.mu.Unlock()

	s.clock.After(s.responseDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case agentMode:
			steps := s.planner.Plan(trimmed)
			if len(steps) > 0 {
				runID := s.startRunLocked(trimmed, steps)
				s.transcript.Append(Message{
					Kind: MessageAgentResponse,
					Content: fmt.Sprintf(
						"I'll help you with: %s\n\nI've broken this down into %d executable steps. Each step can be executed with your permission.",
						trimmed, len(steps)),
					ModelID:   model,
					Timestamp: s.now(),
					RunID:     runID,
				})
				return
			}
			s.appendLocked(MessageAgentResponse, fmt.Sprintf(
				"Processing: %s\n\nThis is an Agent Mode response with enhanced reasoning and task breakdown capabilities.",
				trimmed), "")
		case literal:
			s.appendLocked(MessageResponse,
				fmt.Sprintf("Translated command:\n%s", translated), "")
		default:
			s.appendLocked(MessageResponse, fmt.Sprintf(
				"Response to: %s\nThis is a standard AI response from %s",
				trimmed, model), "")
		}
	})
}

func (s *Session) appendLocked(kind MessageKind, content, runID string) {
	s.transcript.Append(Message{
		Kind:      kind,
		Content:   content,
		ModelID:   s.model,
		Timestamp: s.now(),
		RunID:     runID,
	})
}

// ConfirmBlock approves a pending command block.
func (s *Session) ConfirmBlock(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks.Confirm(id)
}

// RejectBlock declines a pending command block.
func (s *Session) RejectBlock(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks.Reject(id)
}

// ExecuteBlock executes a confirmed block by feeding its generated
// command back through Submit, as if the user had typed it.
func (s *Session) ExecuteBlock(id string) error {
	s.mu.Lock()
	command, err := s.blocks.Execute(id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.Submit(command)
	return nil
}

// Blocks returns a snapshot of all command blocks.
func (s *Session) Blocks() []CommandBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks.Blocks()
}

// Block returns one block by id.
func (s *Session) Block(id string) (CommandBlock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks.Get(id)
}

// Messages returns the transcript snapshot.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Messages()
}

// RemoveMessageAt deletes a transcript entry by position; out-of-range
// indices are ignored.
func (s *Session) RemoveMessageAt(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript.RemoveAt(index)
}

// ClearMessages empties the transcript. Blocks, runs, and corrections
// have independent lifecycles and are untouched.
func (s *Session) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript.Clear()
}

func (s *Session) AgentMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agentMode
}

func (s *Session) SetAgentMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentMode = enabled
}

func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *Session) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(model) != "" {
		s.model = model
	}
}

// Transmitting reports whether the transient data-transmission
// indicator is raised.
func (s *Session) Transmitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transmitting
}

// Plugins returns the full catalog.
func (s *Session) Plugins() []Plugin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plugins.All()
}

// EnabledPlugins returns the active plugins in registration order.
func (s *Session) EnabledPlugins() []Plugin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plugins.Enabled()
}

func (s *Session) SetPluginEnabled(id string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		s.plugins.Enable(id)
	} else {
		s.plugins.Disable(id)
	}
}

// Denylist returns the active natural-language deny patterns.
func (s *Session) Denylist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.denylist...)
}

func (s *Session) AddDenyPattern(pattern string) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.denylist {
		if existing == pattern {
			return
		}
	}
	s.denylist = append(s.denylist, pattern)
}

func (s *Session) RemoveDenyPattern(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.denylist {
		if existing == pattern {
			s.denylist = append(s.denylist[:i], s.denylist[i+1:]...)
			return
		}
	}
}
