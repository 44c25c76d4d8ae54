package i

import (
	"github.com/google/uuid"
)

// Snapshot is the normalized, transport-safe view of a session's current
// turn state. It is recomputed on demand and never cached.
type Snapshot struct {
	// Observation is a nested list of native numbers mirroring the
	// observation tensor's shape, or an empty list on a finished game.
	Observation any `json:"observation"`

	// ActionMask is the legal-action mask, true where playable.
	ActionMask []bool `json:"action_mask"`

	// ValidActions lists the true positions of ActionMask in ascending order.
	ValidActions []int `json:"valid_actions"`

	// CurrentPlayer is nil exactly when Done is true.
	CurrentPlayer *string `json:"current_player"`

	Done bool `json:"done"`
}

// GameSession is one in-progress game owned by a manager.
type GameSession interface {
	// ID returns the session's unique identifier.
	ID() uuid.UUID

	// GameKind returns the game type the session was created with.
	GameKind() string

	// CurrentState returns a fresh snapshot of the session.
	CurrentState() Snapshot

	// MakeMove applies the caller's action and returns the resulting
	// snapshot, the reward for the acting participant, and whether the
	// game ended.
	MakeMove(action int) (Snapshot, float64, bool, error)

	// AIMove asks the session's decision provider for an action, applies
	// it, and returns the action together with the post-move reward and
	// done flag.
	AIMove() (int, float64, bool, error)
}

// GameSessionManager creates, looks up, and destroys game sessions.
type GameSessionManager interface {
	// CreateSession starts a new game of the given kind. An empty
	// modelPath selects the most recently trained checkpoint for the
	// game's environment.
	CreateSession(gameKind string, modelPath string) (GameSession, error)

	// GetSession returns the session for the given id, reporting absence
	// through the second return value.
	GetSession(id uuid.UUID) (GameSession, bool)

	// DeleteSession releases the session's environment and removes it.
	// Deleting an unknown id is a no-op; the return value reports whether
	// an entry was removed.
	DeleteSession(id uuid.UUID) bool

	// StopAll releases every live session. Used at shutdown.
	StopAll()
}
