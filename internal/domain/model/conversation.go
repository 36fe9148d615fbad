package model

import (
	"strings"
	"time"
)

// MaxExchanges bounds how many prompt/reply pairs a session retains.
// Older exchanges are dropped first once the bound is exceeded.
const MaxExchanges = 20

// SessionKey addresses exactly one conversation: guild + channel + user.
// GuildID is empty for direct messages.
type SessionKey struct {
	GuildID   string
	ChannelID string
	UserID    string
}

func (k SessionKey) Valid() bool {
	return strings.TrimSpace(k.UserID) != ""
}

// Exchange is one prompt/reply pair stored in a session's history.
type Exchange struct {
	Prompt string
	Reply  string
	At     time.Time
}

// Session holds the memory-resident state of one conversation.
// Model starts as the primary model id and is switched to the fallback
// id once a primary call fails (sticky, never switched back).
type Session struct {
	Key        SessionKey
	Model      string
	Exchanges  []Exchange
	CreatedAt  time.Time
	LastActive time.Time
}

func NewSession(key SessionKey, modelID string) *Session {
	now := time.Now()
	return &Session{
		Key:        key,
		Model:      modelID,
		Exchanges:  make([]Exchange, 0, 8),
		CreatedAt:  now,
		LastActive: now,
	}
}

// Append records one successful exchange and evicts from the front
// when the bound is exceeded.
func (s *Session) Append(prompt, reply string) {
	s.Exchanges = append(s.Exchanges, Exchange{Prompt: prompt, Reply: reply, At: time.Now()})
	if n := len(s.Exchanges); n > MaxExchanges {
		s.Exchanges = s.Exchanges[n-MaxExchanges:]
	}
	s.LastActive = time.Now()
}
