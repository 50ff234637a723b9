package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message exchange unit in a conversation, tagged user or
// assistant. Immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store holds per-session conversation history. Implementations bound both
// the number of turns per session and (where applicable) the number of
// sessions held at once.
type Store interface {
	// GetOrCreate resolves id to its turn history. An empty or unknown id
	// mints a fresh session and returns its new id with empty history.
	GetOrCreate(ctx context.Context, id string) (string, []Turn, error)
	// Append adds turns to the session's history, trimming oldest-first
	// down to the turn cap.
	Append(ctx context.Context, id string, turns ...Turn) error
	// History returns the stored turns for a session, nil when unknown.
	History(ctx context.Context, id string) ([]Turn, error)
}

// NewID creates a random session identifier.
func NewID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}
