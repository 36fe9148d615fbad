// File: internal/usecase/conversation_uc.go
package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
	"discord-companion-bot/internal/infra/metrics"
)

// Compile-time check
var _ ConversationUseCase = (*conversationUC)(nil)

// ConversationUseCase owns per-user AI chat sessions: creation,
// continuation, reset, history trimming, and model-fallback selection.
// Sessions are process-local and volatile; nothing survives a restart.
type ConversationUseCase interface {
	// Send continues (or lazily creates) the session for key.
	Send(ctx context.Context, key model.SessionKey, prompt string) (string, error)
	// StartNew discards any prior session for key, then behaves as Send
	// with empty history.
	StartNew(ctx context.Context, key model.SessionKey, prompt string) (string, error)
	// Reset discards the session for key. Resetting an absent key is a
	// successful no-op.
	Reset(ctx context.Context, key model.SessionKey) error
	// SweepIdle drops sessions idle longer than maxAge and returns how
	// many were dropped. Memory hygiene only; not required for correctness.
	SweepIdle(maxAge time.Duration) int
	// ActiveSessions reports the current number of live sessions.
	ActiveSessions() int
	// ActiveModel reports which model the session for key would use next,
	// or the primary model if no session exists.
	ActiveModel(key model.SessionKey) string
}

// slot serializes all operations for one SessionKey. Lock order is
// always registry mu -> slot mu; the AI round trip happens while holding
// only the slot mu, so distinct keys never block each other.
type slot struct {
	mu   sync.Mutex
	sess *model.Session // nil between a reset and the next send
	gone bool           // set when the sweeper unlinks the slot from the registry
}

type conversationUC struct {
	ai       adapter.AIServiceAdapter
	primary  string
	fallback string
	timeout  time.Duration // per completion attempt; 0 disables
	log      *zerolog.Logger

	mu    sync.Mutex
	slots map[model.SessionKey]*slot
}

func NewConversationUseCase(ai adapter.AIServiceAdapter, primaryModel, fallbackModel string, requestTimeout time.Duration, logger *zerolog.Logger) *conversationUC {
	l := logger.With().Str("component", "ConversationUC").Logger()
	return &conversationUC{
		ai:       ai,
		primary:  primaryModel,
		fallback: fallbackModel,
		timeout:  requestTimeout,
		log:      &l,
		slots:    make(map[model.SessionKey]*slot),
	}
}

// slotFor returns the locked slot for key, creating it when absent.
// The caller must unlock it. Slots unlinked by a concurrent sweep are
// detected via the gone flag and the lookup retried.
func (c *conversationUC) slotFor(key model.SessionKey) *slot {
	for {
		c.mu.Lock()
		s, ok := c.slots[key]
		if !ok {
			s = &slot{}
			c.slots[key] = s
		}
		c.mu.Unlock()

		s.mu.Lock()
		if !s.gone {
			return s
		}
		s.mu.Unlock()
	}
}

func (c *conversationUC) Send(ctx context.Context, key model.SessionKey, prompt string) (string, error) {
	return c.exchange(ctx, key, prompt, false)
}

func (c *conversationUC) StartNew(ctx context.Context, key model.SessionKey, prompt string) (string, error) {
	return c.exchange(ctx, key, prompt, true)
}

func (c *conversationUC) Reset(ctx context.Context, key model.SessionKey) error {
	if !key.Valid() {
		return domain.ErrInvalidArgument
	}
	s := c.slotFor(key)
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}

func (c *conversationUC) exchange(ctx context.Context, key model.SessionKey, prompt string, fresh bool) (string, error) {
	if !key.Valid() {
		return "", domain.ErrInvalidArgument
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.ErrInvalidArgument
	}

	s := c.slotFor(key)
	defer s.mu.Unlock()

	if fresh || s.sess == nil {
		s.sess = model.NewSession(key, c.primary)
	}
	sess := s.sess

	msgs := buildMessages(sess.Exchanges, prompt)

	reply, usage, err := c.complete(ctx, sess.Model, msgs)
	if err != nil && sess.Model == c.primary {
		// One retry on the fallback model. If it answers, the session
		// sticks with the fallback from here on. A timed-out primary
		// call counts as a failure like any other.
		c.log.Warn().Err(err).
			Str("model", c.primary).
			Str("fallback", c.fallback).
			Msg("primary model failed, retrying on fallback")
		metrics.IncModelFallback(c.primary, c.fallback)

		reply, usage, err = c.complete(ctx, c.fallback, msgs)
		if err == nil {
			sess.Model = c.fallback
		}
	}
	if err != nil {
		// Both attempts failed (or the session was already downgraded).
		// History stays untouched.
		c.log.Error().Err(err).Str("model", sess.Model).Msg("completion failed")
		return "", domain.ErrAssistantUnavailable
	}

	sess.Append(prompt, reply)
	metrics.ObserveChatUsage(sess.Model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	return reply, nil
}

// complete runs one chat attempt under the configured request timeout.
// The timeout is per attempt so a hung primary call still leaves the
// fallback its full budget.
func (c *conversationUC) complete(ctx context.Context, model string, msgs []adapter.Message) (string, adapter.Usage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.ai.ChatWithUsage(ctx, model, msgs)
}

func (c *conversationUC) SweepIdle(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	c.mu.Lock()
	keys := make([]model.SessionKey, 0, len(c.slots))
	for k := range c.slots {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	removed := 0
	for _, k := range keys {
		c.mu.Lock()
		s, ok := c.slots[k]
		if !ok {
			c.mu.Unlock()
			continue
		}
		// A slot busy with an in-flight completion is by definition not
		// idle; skip it rather than stall the whole registry behind it.
		if !s.mu.TryLock() {
			c.mu.Unlock()
			continue
		}
		if s.sess == nil || s.sess.LastActive.Before(cutoff) {
			// Unlink under both locks so a send that already holds a
			// reference re-resolves instead of writing into a dead slot.
			delete(c.slots, k)
			if s.sess != nil {
				removed++
			}
			s.sess = nil
			s.gone = true
		}
		s.mu.Unlock()
		c.mu.Unlock()
	}
	return removed
}

func (c *conversationUC) ActiveSessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.slots {
		if !s.mu.TryLock() {
			// In-flight exchange; counts as live.
			n++
			continue
		}
		if s.sess != nil {
			n++
		}
		s.mu.Unlock()
	}
	return n
}

func (c *conversationUC) ActiveModel(key model.SessionKey) string {
	c.mu.Lock()
	s, ok := c.slots[key]
	c.mu.Unlock()
	if !ok {
		return c.primary
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return c.primary
	}
	return s.sess.Model
}

// buildMessages flattens the stored exchanges plus the new prompt into
// the adapter's message shape.
func buildMessages(history []model.Exchange, prompt string) []adapter.Message {
	out := make([]adapter.Message, 0, len(history)*2+1)
	for _, ex := range history {
		out = append(out,
			adapter.Message{Role: "user", Content: ex.Prompt},
			adapter.Message{Role: "assistant", Content: ex.Reply},
		)
	}
	return append(out, adapter.Message{Role: "user", Content: prompt})
}
