package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_FullCycle(t *testing.T) {
	r := NewRegister()
	assert.Equal(t, StateIdle, r.Get().State)

	require.NoError(t, r.Begin())
	assert.Equal(t, StatePending, r.Get().State)

	done := Completed("1000", "UGX", "COMPLETED", "ref-1", "d1")
	require.NoError(t, r.Resolve(done))
	assert.Equal(t, done, r.Get())

	require.NoError(t, r.Reset())
	assert.Equal(t, StateIdle, r.Get().State)
}

func TestRegister_RejectsReentrantBegin(t *testing.T) {
	r := NewRegister()
	require.NoError(t, r.Begin())

	// Second submission while the first is still in flight
	assert.ErrorIs(t, r.Begin(), ErrAlreadyPending)
}

func TestRegister_BeginRequiresReset(t *testing.T) {
	r := NewRegister()
	require.NoError(t, r.Begin())
	require.NoError(t, r.Resolve(Failed("timeout")))

	assert.Error(t, r.Begin())
	require.NoError(t, r.Reset())
	assert.NoError(t, r.Begin())
}

func TestRegister_ResolveGuards(t *testing.T) {
	r := NewRegister()

	// Not pending yet
	assert.ErrorIs(t, r.Resolve(Failed("x")), ErrNotPending)

	require.NoError(t, r.Begin())

	// Only terminal outcomes resolve a run
	assert.ErrorIs(t, r.Resolve(Pending()), ErrNotTerminal)
	assert.ErrorIs(t, r.Resolve(Idle()), ErrNotTerminal)

	require.NoError(t, r.Resolve(Completed("", "", "", "", "")))
	assert.ErrorIs(t, r.Resolve(Failed("x")), ErrNotPending)
}

func TestRegister_ResetWhilePending(t *testing.T) {
	r := NewRegister()
	require.NoError(t, r.Begin())
	assert.ErrorIs(t, r.Reset(), ErrAlreadyPending)
}

func TestRegister_WatchSeesTransitions(t *testing.T) {
	r := NewRegister()
	ch := r.Watch()

	require.NoError(t, r.Begin())
	require.NoError(t, r.Resolve(Failed("timeout")))
	require.NoError(t, r.Reset())

	assert.Equal(t, StatePending, (<-ch).State)
	failed := <-ch
	assert.Equal(t, StateFailed, failed.State)
	assert.Equal(t, "timeout", failed.Message)
	assert.Equal(t, StateIdle, (<-ch).State)
}
