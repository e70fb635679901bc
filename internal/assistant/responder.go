// Package assistant synthesizes canned replies to user chat messages.
package assistant

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/chittyapps/chittyinsight/internal/logger"
	"github.com/chittyapps/chittyinsight/pkg/types"
)

// DefaultReplyDelay is how long after a user message the assistant reply
// appears.
const DefaultReplyDelay = time.Second

var defaultResponses = []string{
	"I've analyzed your request and here's what I found in your ecosystem. Let me break down the key insights for you.",
	"Based on the current system data, I can provide you with these actionable recommendations.",
	"I've processed the latest metrics from your AI agents. Here are the most important findings:",
	"Let me walk you through the performance data I've gathered from your active systems.",
	"I've identified several optimization opportunities in your current setup. Here's my analysis:",
}

// ResponsePicker chooses the reply text for a user message. Injecting the
// picker keeps the responder deterministic under test.
type ResponsePicker interface {
	Pick(prompt string) string
}

// RandomPicker picks uniformly from the canned response list.
type RandomPicker struct {
	mu        sync.Mutex
	rng       *rand.Rand
	responses []string
}

// NewRandomPicker seeds a picker over the default response list.
func NewRandomPicker() *RandomPicker {
	return &RandomPicker{
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		responses: defaultResponses,
	}
}

// Pick returns one of the canned responses. The prompt is ignored.
func (p *RandomPicker) Pick(string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.responses[p.rng.Intn(len(p.responses))]
}

// MessageAppender is the single store operation the responder needs.
type MessageAppender interface {
	CreateChatMessage(ctx context.Context, in types.NewChatMessage) (*types.ChatMessage, error)
}

// Responder owns the fire-and-forget reply tasks. Each Schedule call arms a
// timer; Close cancels whatever is still pending and waits out tasks that
// already fired, so shutdown is deterministic.
type Responder struct {
	store  MessageAppender
	picker ResponsePicker
	delay  time.Duration

	// onReply, when set, observes each stored assistant message. The server
	// uses it to publish a realtime frame.
	onReply func(*types.ChatMessage)

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// Option configures a Responder.
type Option func(*Responder)

// WithDelay overrides the reply delay.
func WithDelay(d time.Duration) Option {
	return func(r *Responder) {
		if d > 0 {
			r.delay = d
		}
	}
}

// WithOnReply registers a callback invoked after each assistant reply is
// stored.
func WithOnReply(fn func(*types.ChatMessage)) Option {
	return func(r *Responder) { r.onReply = fn }
}

// NewResponder builds a responder writing replies through store.
func NewResponder(store MessageAppender, picker ResponsePicker, opts ...Option) *Responder {
	r := &Responder{
		store:   store,
		picker:  picker,
		delay:   DefaultReplyDelay,
		pending: make(map[*time.Timer]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schedule arms a delayed assistant reply for the given user. It returns
// immediately; the reply surfaces on a later chat list fetch. Scheduling
// after Close is a no-op.
func (r *Responder) Schedule(userID, prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(r.delay, func() {
		defer r.wg.Done()

		r.mu.Lock()
		delete(r.pending, timer)
		closed := r.closed
		r.mu.Unlock()
		if closed {
			return
		}

		msg, err := r.store.CreateChatMessage(context.Background(), types.NewChatMessage{
			UserID:  userID,
			Role:    types.ChatRoleAssistant,
			Content: r.picker.Pick(prompt),
			Metadata: types.Map{
				"responseType": types.String("auto"),
			},
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Str("userId", userID).Msg("failed to store assistant reply")
			return
		}
		if r.onReply != nil {
			r.onReply(msg)
		}
	})
	r.pending[timer] = struct{}{}
}

// Pending reports how many replies are still scheduled.
func (r *Responder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Close cancels pending replies and waits for any already-fired task to
// finish. Safe to call more than once.
func (r *Responder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	for timer := range r.pending {
		if timer.Stop() {
			r.wg.Done()
		}
		delete(r.pending, timer)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// Wait blocks until every currently scheduled reply has fired. Intended for
// tests and graceful drain.
func (r *Responder) Wait() {
	r.wg.Wait()
}
