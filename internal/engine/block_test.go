package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingBlock(id string) *CommandBlock {
	return &CommandBlock{
		ID:                   id,
		PluginID:             "git",
		GeneratedCommand:     "git push --force origin main",
		RequiresConfirmation: true,
		Status:               BlockPending,
	}
}

func TestBlockStore_ConfirmThenExecute(t *testing.T) {
	var store BlockStore
	store.Add(newPendingBlock("b1"))

	require.NoError(t, store.Confirm("b1"))
	b, ok := store.Get("b1")
	require.True(t, ok)
	assert.Equal(t, BlockConfirmed, b.Status)

	cmd, err := store.Execute("b1")
	require.NoError(t, err)
	assert.Equal(t, "git push --force origin main", cmd)
	b, _ = store.Get("b1")
	assert.Equal(t, BlockExecuted, b.Status)
}

func TestBlockStore_RejectIsTerminal(t *testing.T) {
	var store BlockStore
	store.Add(newPendingBlock("b1"))

	require.NoError(t, store.Reject("b1"))

	err := store.Confirm("b1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = store.Execute("b1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	b, _ := store.Get("b1")
	assert.Equal(t, BlockRejected, b.Status)
}

func TestBlockStore_ExecuteRequiresConfirmed(t *testing.T) {
	var store BlockStore
	store.Add(newPendingBlock("b1"))

	_, err := store.Execute("b1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBlockStore_ExecutedIsTerminal(t *testing.T) {
	var store BlockStore
	store.Add(newPendingBlock("b1"))
	require.NoError(t, store.Confirm("b1"))
	_, err := store.Execute("b1")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Confirm("b1"), ErrInvalidTransition)
	assert.ErrorIs(t, store.Reject("b1"), ErrInvalidTransition)
	_, err = store.Execute("b1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBlockStore_UnknownID(t *testing.T) {
	var store BlockStore
	assert.ErrorIs(t, store.Confirm("missing"), ErrBlockNotFound)
	assert.ErrorIs(t, store.Reject("missing"), ErrBlockNotFound)
	_, err := store.Execute("missing")
	assert.ErrorIs(t, err, ErrBlockNotFound)
}
