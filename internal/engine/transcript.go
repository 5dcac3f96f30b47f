package engine

import "time"

type MessageKind string

const (
	MessageInput         MessageKind = "input"
	MessageResponse      MessageKind = "response"
	MessageAgentResponse MessageKind = "agent-response"
)

// Message is one transcript entry. Agent responses reference their run
// by id rather than aliasing the step slice; renderers resolve live
// step status through Session.Run.
type Message struct {
	Kind      MessageKind
	Content   string
	ModelID   string
	Timestamp time.Time
	RunID     string
}

// Transcript is the append-only session message log.
type Transcript struct {
	messages []Message
}

func (t *Transcript) Append(m Message) {
	t.messages = append(t.messages, m)
}

// RemoveAt deletes the entry at the positional index. Out-of-range
// indices are a no-op so the host stays resilient to stale handles.
func (t *Transcript) RemoveAt(index int) {
	if index < 0 || index >= len(t.messages) {
		return
	}
	t.messages = append(t.messages[:index], t.messages[index+1:]...)
}

func (t *Transcript) Clear() {
	t.messages = nil
}

func (t *Transcript) Len() int { return len(t.messages) }

// Messages returns a snapshot in append order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}
