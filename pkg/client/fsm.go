package client

// ConnState is the realtime connection lifecycle state.
type ConnState int

const (
	// StateDisconnected is the idle state before Connect and after Disconnect.
	StateDisconnected ConnState = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateConnected means the socket is open and frames are flowing.
	StateConnected
	// StateBackoff means the last attempt failed and a retry timer is armed.
	StateBackoff
	// StateFailed means the retry budget is spent. Only Reconnect leaves it.
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateBackoff:
		return "backoff"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// connFSM holds the connection state machine. Transitions are pure: each
// method returns the successor machine and never touches sockets or timers,
// so the tables below are testable without I/O.
type connFSM struct {
	State       ConnState
	Attempt     int
	MaxAttempts int
}

func newConnFSM(maxAttempts int) connFSM {
	return connFSM{State: StateDisconnected, MaxAttempts: maxAttempts}
}

// connectStarted marks a dial in flight. The attempt counter is untouched:
// the initial connect is attempt zero.
func (m connFSM) connectStarted() connFSM {
	m.State = StateConnecting
	return m
}

// connected records a successful open and resets the attempt counter, so a
// later drop starts a fresh retry budget.
func (m connFSM) connected() connFSM {
	m.State = StateConnected
	m.Attempt = 0
	return m
}

// dropped handles a dial failure or a lost connection. It returns the
// successor machine and whether a retry should be scheduled. Once the budget
// is spent the machine parks in StateFailed.
func (m connFSM) dropped() (connFSM, bool) {
	if m.Attempt < m.MaxAttempts {
		m.State = StateBackoff
		return m, true
	}
	m.State = StateFailed
	return m, false
}

// retrying consumes one attempt and moves back to connecting. Called when
// the backoff timer fires.
func (m connFSM) retrying() connFSM {
	m.State = StateConnecting
	m.Attempt++
	return m
}

// reset returns the machine to its initial state. Used by Disconnect and
// Reconnect, which is how a Failed machine gets a new budget.
func (m connFSM) reset() connFSM {
	m.State = StateDisconnected
	m.Attempt = 0
	return m
}
