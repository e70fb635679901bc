package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnFSMHappyPath(t *testing.T) {
	m := newConnFSM(5)
	assert.Equal(t, StateDisconnected, m.State)

	m = m.connectStarted()
	assert.Equal(t, StateConnecting, m.State)
	assert.Equal(t, 0, m.Attempt)

	m = m.connected()
	assert.Equal(t, StateConnected, m.State)
	assert.Equal(t, 0, m.Attempt)
}

func TestConnFSMRetryBudget(t *testing.T) {
	m := newConnFSM(2).connectStarted()

	m, retry := m.dropped()
	assert.True(t, retry)
	assert.Equal(t, StateBackoff, m.State)

	m = m.retrying()
	assert.Equal(t, StateConnecting, m.State)
	assert.Equal(t, 1, m.Attempt)

	m, retry = m.dropped()
	assert.True(t, retry)
	m = m.retrying()
	assert.Equal(t, 2, m.Attempt)

	// budget of 2 is now spent
	m, retry = m.dropped()
	assert.False(t, retry)
	assert.Equal(t, StateFailed, m.State)
}

func TestConnFSMConnectResetsBudget(t *testing.T) {
	m := newConnFSM(3).connectStarted()
	m, _ = m.dropped()
	m = m.retrying()
	assert.Equal(t, 1, m.Attempt)

	m = m.connected()
	assert.Equal(t, 0, m.Attempt)

	// a later drop starts counting from scratch
	m, retry := m.dropped()
	assert.True(t, retry)
	assert.Equal(t, StateBackoff, m.State)
}

func TestConnFSMReset(t *testing.T) {
	m := newConnFSM(1).connectStarted()
	m, _ = m.dropped()
	m = m.retrying()
	m, retry := m.dropped()
	assert.False(t, retry)
	assert.Equal(t, StateFailed, m.State)

	m = m.reset()
	assert.Equal(t, StateDisconnected, m.State)
	assert.Equal(t, 0, m.Attempt)
}

func TestConnStateStrings(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "backoff", StateBackoff.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", ConnState(99).String())
}
