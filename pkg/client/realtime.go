package client

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

const (
	// DefaultReconnectInterval is the fixed delay between reconnect attempts.
	DefaultReconnectInterval = 3 * time.Second
	// DefaultMaxReconnectAttempts is the retry budget after a drop. When it
	// is spent the connection parks in StateFailed until Reconnect.
	DefaultMaxReconnectAttempts = 5
)

// RealtimeOption configures a Realtime connection.
type RealtimeOption func(*Realtime)

// WithReconnectInterval overrides the delay between reconnect attempts.
func WithReconnectInterval(d time.Duration) RealtimeOption {
	return func(r *Realtime) { r.interval = d }
}

// WithMaxReconnectAttempts overrides the retry budget.
func WithMaxReconnectAttempts(n int) RealtimeOption {
	return func(r *Realtime) { r.maxAttempts = n }
}

// WithDialer substitutes the websocket dialer.
func WithDialer(d *websocket.Dialer) RealtimeOption {
	return func(r *Realtime) { r.dialer = d }
}

// WithOnFrame registers the frame callback. It runs on the read goroutine;
// hand off to another goroutine if the handler blocks.
func WithOnFrame(fn func(types.Frame)) RealtimeOption {
	return func(r *Realtime) { r.onFrame = fn }
}

// WithOnConnect registers a callback fired on every successful open.
func WithOnConnect(fn func()) RealtimeOption {
	return func(r *Realtime) { r.onConnect = fn }
}

// WithOnDisconnect registers a callback fired when an open connection drops.
func WithOnDisconnect(fn func()) RealtimeOption {
	return func(r *Realtime) { r.onDisconnect = fn }
}

// WithOnTerminal registers a callback fired once when the retry budget is
// spent. It does not fire again unless Reconnect starts a new budget.
func WithOnTerminal(fn func()) RealtimeOption {
	return func(r *Realtime) { r.onTerminal = fn }
}

// WithRealtimeLogger substitutes the logger. The default discards.
func WithRealtimeLogger(log zerolog.Logger) RealtimeOption {
	return func(r *Realtime) { r.log = log }
}

// Realtime maintains the push channel to the server: it dials the /ws
// endpoint, decodes frames, and reconnects on a fixed interval after drops
// up to the attempt budget.
type Realtime struct {
	url         string
	dialer      *websocket.Dialer
	interval    time.Duration
	maxAttempts int
	log         zerolog.Logger

	onFrame      func(types.Frame)
	onConnect    func()
	onDisconnect func()
	onTerminal   func()

	mu         sync.Mutex
	fsm        connFSM
	conn       *websocket.Conn
	retryTimer *time.Timer
	// gen invalidates goroutines and timers from a superseded connection
	// lifecycle. Disconnect bumps it; stale callbacks see the mismatch
	// and return.
	gen int
}

// NewRealtime returns an idle connection for the websocket at rawURL, e.g.
// "ws://localhost:5000/ws". Call Connect to start it.
func NewRealtime(rawURL string, opts ...RealtimeOption) *Realtime {
	r := &Realtime{
		url:         rawURL,
		dialer:      websocket.DefaultDialer,
		interval:    DefaultReconnectInterval,
		maxAttempts: DefaultMaxReconnectAttempts,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.fsm = newConnFSM(r.maxAttempts)
	return r
}

// State returns the current connection state.
func (r *Realtime) State() ConnState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fsm.State
}

// Attempts returns how many reconnect attempts the current budget has used.
func (r *Realtime) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fsm.Attempt
}

// Connect starts dialing unless a connection or dial is already active.
// It returns immediately; the lifecycle runs on background goroutines.
// A Failed connection stays parked: use Reconnect to start a new budget.
func (r *Realtime) Connect() {
	r.mu.Lock()
	switch r.fsm.State {
	case StateConnecting, StateConnected, StateBackoff, StateFailed:
		r.mu.Unlock()
		return
	}
	r.fsm = r.fsm.connectStarted()
	gen := r.gen
	r.mu.Unlock()
	go r.dial(gen)
}

// Disconnect closes the connection and cancels any pending retry. The next
// Connect starts a fresh budget.
func (r *Realtime) Disconnect() {
	r.mu.Lock()
	r.gen++
	if r.retryTimer != nil {
		r.retryTimer.Stop()
		r.retryTimer = nil
	}
	conn := r.conn
	r.conn = nil
	r.fsm = r.fsm.reset()
	r.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// Reconnect tears down the current lifecycle and dials again with a fresh
// attempt budget. It is the only way out of StateFailed.
func (r *Realtime) Reconnect() {
	r.Disconnect()
	r.Connect()
}

func (r *Realtime) dial(gen int) {
	conn, resp, err := r.dialer.Dial(r.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		r.mu.Unlock()
		r.log.Warn().Err(err).Str("url", r.url).Msg("websocket dial failed")
		r.handleDrop(gen)
		return
	}
	r.conn = conn
	r.fsm = r.fsm.connected()
	onConnect := r.onConnect
	r.mu.Unlock()

	if onConnect != nil {
		onConnect()
	}
	r.readLoop(conn, gen)
}

func (r *Realtime) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var frame types.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Malformed frame: log and keep reading.
			r.log.Warn().Err(err).Msg("dropping unparseable frame")
			continue
		}
		if r.onFrame != nil {
			r.onFrame(frame)
		}
	}
	conn.Close()

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.conn = nil
	onDisconnect := r.onDisconnect
	r.mu.Unlock()

	if onDisconnect != nil {
		onDisconnect()
	}
	r.handleDrop(gen)
}

// handleDrop runs the dropped transition and either arms the retry timer or
// fires the terminal callback. A dial failure and a lost connection take the
// same path.
func (r *Realtime) handleDrop(gen int) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	next, retry := r.fsm.dropped()
	r.fsm = next
	if retry {
		attempt := next.Attempt + 1
		r.retryTimer = time.AfterFunc(r.interval, func() {
			r.mu.Lock()
			if gen != r.gen {
				r.mu.Unlock()
				return
			}
			r.retryTimer = nil
			r.fsm = r.fsm.retrying()
			r.mu.Unlock()
			go r.dial(gen)
		})
		r.mu.Unlock()
		r.log.Info().Int("attempt", attempt).Int("max", r.maxAttempts).Dur("in", r.interval).Msg("scheduling reconnect")
		return
	}
	onTerminal := r.onTerminal
	r.mu.Unlock()

	r.log.Error().Int("attempts", r.maxAttempts).Msg("reconnect budget exhausted, giving up")
	if onTerminal != nil {
		onTerminal()
	}
}
