package i

import (
	"gorgonia.org/tensor"
)

// Environment defines the capability set of a turn-based game rules engine.
// Implementations own all game-rule logic; the session engine only sequences
// turns and relays observations.
type Environment interface {
	// Name returns the canonical environment name, used to key the
	// checkpoint namespace for policy lookup.
	Name() string

	// Reset returns the environment to its initial state. A zero seed
	// means unseeded; deterministic games may ignore it.
	Reset(seed int64)

	// Step applies an action for the currently selected agent. Illegal
	// actions are the environment's failure domain and return an error.
	Step(action int) error

	// Observe returns the given agent's observation tensor and legal-action
	// mask, true where the action is currently permitted.
	Observe(agent string) (*tensor.Dense, []bool)

	// Agents returns the agents still active in the game. An empty slice
	// means the game is over.
	Agents() []string

	// CurrentAgent returns the agent whose move is awaited.
	CurrentAgent() string

	// LastTransition reports the freshest transition signals for the agent
	// that acted most recently: its reward and the termination/truncation
	// flags produced by that step.
	LastTransition() (reward float64, terminated bool, truncated bool)

	// Close releases any resources held by the environment. Must be
	// idempotent.
	Close() error
}
