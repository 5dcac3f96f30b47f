package engine

import (
	"errors"
	"fmt"
	"time"
)

type BlockStatus string

const (
	BlockPending   BlockStatus = "pending"
	BlockConfirmed BlockStatus = "confirmed"
	BlockRejected  BlockStatus = "rejected"
	BlockExecuted  BlockStatus = "executed"
)

var (
	ErrBlockNotFound     = errors.New("command block not found")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// CommandBlock is one synthesized command awaiting or having received
// user disposition. Status only ever moves forward:
// pending -> confirmed -> executed, or pending -> rejected.
type CommandBlock struct {
	ID                   string
	PluginID             string
	OriginalInput        string
	GeneratedCommand     string
	Explanation          string
	Warnings             []string
	RequiresConfirmation bool
	Status               BlockStatus
	Timestamp            time.Time
}

// BlockStore owns the session's command blocks. Blocks are never
// deleted; display truncation is the host's concern.
type BlockStore struct {
	blocks []*CommandBlock
}

func (s *BlockStore) Add(b *CommandBlock) {
	s.blocks = append(s.blocks, b)
}

func (s *BlockStore) find(id string) *CommandBlock {
	for _, b := range s.blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Confirm moves a pending block to confirmed.
func (s *BlockStore) Confirm(id string) error {
	b := s.find(id)
	if b == nil {
		return ErrBlockNotFound
	}
	if b.Status != BlockPending {
		return fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, b.Status)
	}
	b.Status = BlockConfirmed
	return nil
}

// Reject moves a pending block to rejected. Rejected is terminal.
func (s *BlockStore) Reject(id string) error {
	b := s.find(id)
	if b == nil {
		return ErrBlockNotFound
	}
	if b.Status != BlockPending {
		return fmt.Errorf("%w: reject from %s", ErrInvalidTransition, b.Status)
	}
	b.Status = BlockRejected
	return nil
}

// Execute moves a confirmed block to executed and returns the generated
// command so the caller can hand it to the submission pathway. Calling
// it on anything but a confirmed block is a logic error.
func (s *BlockStore) Execute(id string) (string, error) {
	b := s.find(id)
	if b == nil {
		return "", ErrBlockNotFound
	}
	if b.Status != BlockConfirmed {
		return "", fmt.Errorf("%w: execute from %s", ErrInvalidTransition, b.Status)
	}
	b.Status = BlockExecuted
	return b.GeneratedCommand, nil
}

// Blocks returns a snapshot of every block in creation order.
func (s *BlockStore) Blocks() []CommandBlock {
	out := make([]CommandBlock, 0, len(s.blocks))
	for _, b := range s.blocks {
		out = append(out, *b)
	}
	return out
}

// Get returns a snapshot of one block.
func (s *BlockStore) Get(id string) (CommandBlock, bool) {
	b := s.find(id)
	if b == nil {
		return CommandBlock{}, false
	}
	return *b, true
}
