package engine

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, opts Options) (*Session, *manualClock) {
	t.Helper()
	clock := newManualClock()
	opts.Clock = clock
	if opts.Rand == nil {
		opts.Rand = func() float64 { return 0.99 } // never trigger corrections by accident
	}
	if opts.NewID == nil {
		n := 0
		opts.NewID = func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}
	}
	if opts.Now == nil {
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		opts.Now = func() time.Time { return base }
	}
	return NewSession(opts), clock
}

func messagesOfKind(msgs []Message, kind MessageKind) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func TestSubmit_LiteralCommandWithoutAgentMode(t *testing.T) {
	s, clock := newTestSession(t, Options{})

	s.Submit("ls -la")

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, MessageInput, msgs[0].Kind)
	assert.Equal(t, "ls -la", msgs[0].Content)
	assert.True(t, s.Transmitting())

	clock.Advance(defaultResponseDelay)

	msgs = s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, MessageResponse, msgs[1].Kind)
	assert.Contains(t, msgs[1].Content, "Response to: ls -la")
	assert.Contains(t, msgs[1].Content, "gpt-4o")
	assert.False(t, s.Transmitting())

	assert.Empty(t, s.Blocks())
	_, hasRun := s.Run()
	assert.False(t, hasRun)
}

func TestSubmit_NaturalLanguageWithMatchingPlugin(t *testing.T) {
	s, clock := newTestSession(t, Options{AgentMode: true})

	s.Submit("can you check my git status")

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "🧠 can you check my git status", msgs[0].Content)

	blocks := s.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "git", blocks[0].PluginID)
	assert.Equal(t, "can you check my git status", blocks[0].OriginalInput)
	assert.Equal(t, "git status", blocks[0].GeneratedCommand)
	assert.Equal(t, BlockConfirmed, blocks[0].Status)

	clock.Advance(defaultResponseDelay)
	agentMsgs := messagesOfKind(s.Messages(), MessageAgentResponse)
	require.Len(t, agentMsgs, 1)
	assert.Contains(t, agentMsgs[0].Content, "Processing: can you check my git status")
}

func TestSubmit_DestructiveRequestCreatesPendingBlock(t *testing.T) {
	s, _ := newTestSession(t, Options{
		AgentMode: true,
		// "delete" is on the default denylist; clear it so the request
		// routes through detection.
		Denylist: []string{"rm -rf"},
	})

	s.Submit("please delete the failing pod")

	blocks := s.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "kubectl", blocks[0].PluginID)
	assert.True(t, blocks[0].RequiresConfirmation)
	assert.Equal(t, BlockPending, blocks[0].Status)
	require.NotEmpty(t, blocks[0].Warnings)
	assert.Contains(t, blocks[0].Warnings[0], "delete")
}

func TestSubmit_NoBlockWithoutAgentMode(t *testing.T) {
	s, _ := newTestSession(t, Options{AgentMode: false})
	s.Submit("can you check my git status")
	assert.Empty(t, s.Blocks())
}

func TestSubmit_LiteralTranslation(t *testing.T) {
	s, clock := newTestSession(t, Options{})

	s.Submit("show me running containers")
	clock.Advance(defaultResponseDelay)

	responses := messagesOfKind(s.Messages(), MessageResponse)
	require.Len(t, responses, 1)
	assert.Contains(t, responses[0].Content, "docker ps")
	// Exact phrase hits skip the plugin pipeline.
	assert.Empty(t, s.Blocks())
}

func TestSubmit_EditSyntax(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Submit("edit: ls -l -> ls -la")

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, `"ls -l"`)
	assert.Contains(t, msgs[1].Content, `"ls -la"`)
}

func TestSubmit_ClearTerminal(t *testing.T) {
	s, clock := newTestSession(t, Options{})
	s.Submit("ls")
	clock.Advance(defaultResponseDelay)
	require.Len(t, s.Messages(), 2)

	s.Submit("clear terminal")
	assert.Empty(t, s.Messages())
}

func TestSubmit_EmptyInputIgnored(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Submit("   ")
	assert.Empty(t, s.Messages())
}

func TestExecuteBlock_FeedsSubmissionPathway(t *testing.T) {
	s, clock := newTestSession(t, Options{AgentMode: true})

	s.Submit("can you check my git status")
	blocks := s.Blocks()
	require.Len(t, blocks, 1)
	require.Equal(t, BlockConfirmed, blocks[0].Status)

	require.NoError(t, s.ExecuteBlock(blocks[0].ID))

	b, _ := s.Block(blocks[0].ID)
	assert.Equal(t, BlockExecuted, b.Status)

	// The generated command entered the transcript as a fresh input.
	inputs := messagesOfKind(s.Messages(), MessageInput)
	require.Len(t, inputs, 2)
	assert.Contains(t, inputs[1].Content, "git status")

	clock.Advance(defaultResponseDelay)
}

func TestExecuteBlock_PendingBlockIsRejected(t *testing.T) {
	s, _ := newTestSession(t, Options{AgentMode: true, Denylist: []string{"rm -rf"}})

	s.Submit("please delete the failing pod")
	blocks := s.Blocks()
	require.Len(t, blocks, 1)
	require.Equal(t, BlockPending, blocks[0].Status)

	err := s.ExecuteBlock(blocks[0].ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.ConfirmBlock(blocks[0].ID))
	assert.NoError(t, s.ExecuteBlock(blocks[0].ID))
}

func TestRemoveMessageAt_Bounds(t *testing.T) {
	s, clock := newTestSession(t, Options{})
	s.Submit("one")
	s.Submit("two")
	s.Submit("three")
	clock.Advance(defaultResponseDelay)
	require.Len(t, s.Messages(), 6)

	s.RemoveMessageAt(10)
	assert.Len(t, s.Messages(), 6)
	s.RemoveMessageAt(-1)
	assert.Len(t, s.Messages(), 6)

	before := s.Messages()
	s.RemoveMessageAt(0)
	after := s.Messages()
	require.Len(t, after, 5)
	assert.Equal(t, before[1], after[0])
}

func TestClearMessages_LeavesOtherCollectionsAlone(t *testing.T) {
	s, clock := newTestSession(t, Options{
		AgentMode: true,
		Rand:      func() float64 { return 0.9 },
	})

	s.Submit("can you check my git status")
	s.Submit("this has an error in it")
	clock.Advance(defaultResponseDelay)
	s.Submit("create a component")
	clock.Advance(defaultResponseDelay)

	require.NotEmpty(t, s.Blocks())
	require.NotEmpty(t, s.Corrections())
	_, hasRun := s.Run()
	require.True(t, hasRun)

	s.ClearMessages()

	assert.Empty(t, s.Messages())
	assert.NotEmpty(t, s.Blocks())
	assert.NotEmpty(t, s.Corrections())
	_, hasRun = s.Run()
	assert.True(t, hasRun)
}

func TestCorrection_TriggerAndResolution(t *testing.T) {
	randValues := []float64{0.9, 0.1} // trigger (>0.5), then resolve success (<rate)
	idx := 0
	s, clock := newTestSession(t, Options{
		Rand: func() float64 {
			v := randValues[idx%len(randValues)]
			idx++
			return v
		},
	})

	s.Submit("simulate an ERROR case")

	corrections := s.Corrections()
	require.Len(t, corrections, 1)
	assert.Equal(t, CorrectionAttempting, corrections[0].Status)
	assert.Equal(t, "Command execution failed: Invalid syntax", corrections[0].OriginalError)
	assert.True(t, s.CorrectionActive())

	clock.Advance(defaultCorrectionDelay)

	corrections = s.Corrections()
	assert.Equal(t, CorrectionSuccess, corrections[0].Status)
	assert.False(t, s.CorrectionActive())

	clock.Advance(defaultResponseDelay)
}

func TestCorrection_FailureBranch(t *testing.T) {
	randValues := []float64{0.9, 0.95} // trigger, then resolve failure
	idx := 0
	s, clock := newTestSession(t, Options{
		Rand: func() float64 {
			v := randValues[idx%len(randValues)]
			idx++
			return v
		},
	})

	s.Submit("another error occurred")
	clock.Advance(defaultCorrectionDelay)

	corrections := s.Corrections()
	require.Len(t, corrections, 1)
	assert.Equal(t, CorrectionFailed, corrections[0].Status)
}

func TestCorrection_NotTriggeredBelowThreshold(t *testing.T) {
	s, _ := newTestSession(t, Options{
		Rand: func() float64 { return 0.2 },
	})
	s.Submit("an error happened")
	assert.Empty(t, s.Corrections())
}

func TestCorrection_ResolvedAttemptsStayTerminal(t *testing.T) {
	idx := 0
	randValues := []float64{0.9, 0.1}
	s, clock := newTestSession(t, Options{
		Rand: func() float64 {
			v := randValues[idx%len(randValues)]
			idx++
			return v
		},
	})

	s.Submit("trigger error please")
	clock.Advance(defaultCorrectionDelay)
	require.Equal(t, CorrectionSuccess, s.Corrections()[0].Status)

	// Further time cannot change a resolved attempt.
	clock.Advance(10 * defaultCorrectionDelay)
	assert.Equal(t, CorrectionSuccess, s.Corrections()[0].Status)
}

func TestDenylistManagement(t *testing.T) {
	s, _ := newTestSession(t, Options{})

	require.Contains(t, s.Denylist(), "rm -rf")

	s.AddDenyPattern("drop table")
	s.AddDenyPattern("drop table") // duplicate is a no-op
	list := s.Denylist()
	count := 0
	for _, p := range list {
		if p == "drop table" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	s.RemoveDenyPattern("drop table")
	assert.NotContains(t, s.Denylist(), "drop table")
}

func TestSetModel_StampedOnMessages(t *testing.T) {
	s, clock := newTestSession(t, Options{Model: "gpt-4o"})
	s.SetModel("claude-3")
	s.Submit("ls")
	clock.Advance(defaultResponseDelay)

	for _, m := range s.Messages() {
		assert.Equal(t, "claude-3", m.ModelID)
	}

	s.SetModel("   ")
	assert.Equal(t, "claude-3", s.Model())
}

func TestPluginToggleAffectsRouting(t *testing.T) {
	s, _ := newTestSession(t, Options{AgentMode: true})
	s.SetPluginEnabled("git", false)

	s.Submit("can you check my git status")
	// git disabled: detector still fires on "can you", but no plugin
	// should win the match on a git-only request.
	assert.Empty(t, s.Blocks())

	s.SetPluginEnabled("git", true)
	s.Submit("can you check my git status")
	assert.Len(t, s.Blocks(), 1)
}

func TestSubmitConcurrentSafety(t *testing.T) {
	s, clock := newTestSession(t, Options{AgentMode: true})

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			s.Submit(fmt.Sprintf("task number %d", n))
		}(i)
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	clock.Advance(defaultResponseDelay)

	msgs := s.Messages()
	assert.Len(t, messagesOfKind(msgs, MessageInput), 4)
	assert.Len(t, messagesOfKind(msgs, MessageAgentResponse), 4)
	for _, m := range msgs {
		assert.False(t, strings.Contains(m.Content, "\x00"))
	}
}
