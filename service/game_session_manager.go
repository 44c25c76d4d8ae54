package service

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/marl-games/game-server/service/i"
	"github.com/rs/zerolog"
)

// EnvFactory builds a fresh environment instance for one session.
type EnvFactory func() i.Environment

// GameSessionManager owns the process-wide session map. Lifecycle operations
// on the map are serialized by a read-write lock; sessions themselves share
// no mutable state with each other.
type GameSessionManager struct {
	factories map[string]EnvFactory
	policies  i.PolicyLoader
	sessions  map[uuid.UUID]*Session
	providers map[string]i.DecisionProvider
	logger    zerolog.Logger
	sync.RWMutex
}

// Config carries the dependencies of a GameSessionManager.
type Config struct {
	EnvFactories map[string]EnvFactory
	Policies     i.PolicyLoader
	Logger       zerolog.Logger
}

// NewGameSessionManager creates a manager with no live sessions.
func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if len(c.EnvFactories) == 0 {
		return nil, fmt.Errorf("no environment factories configured")
	}
	if c.Policies == nil {
		return nil, fmt.Errorf("no policy loader configured")
	}

	return &GameSessionManager{
		factories: c.EnvFactories,
		policies:  c.Policies,
		sessions:  make(map[uuid.UUID]*Session),
		providers: make(map[string]i.DecisionProvider),
		logger:    c.Logger,
	}, nil
}

// CreateSession starts a new game of the given kind. An empty modelPath
// selects the most recently trained checkpoint for the game's environment.
// The session is visible to lookups only after it is fully constructed.
func (m *GameSessionManager) CreateSession(gameKind string, modelPath string) (i.GameSession, error) {
	factory, ok := m.factories[gameKind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGameKind, gameKind)
	}

	env := factory()
	provider, err := m.resolveProvider(env.Name(), modelPath)
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	session := NewSession(gameKind, env, provider)

	m.Lock()
	m.sessions[session.ID()] = session
	m.Unlock()

	m.logger.Info().
		Str("session", session.ID().String()).
		Str("game", gameKind).
		Msg("created game session")
	return session, nil
}

// GetSession returns the session for the given id. Absence is a normal
// outcome, reported through the second return value.
func (m *GameSessionManager) GetSession(id uuid.UUID) (i.GameSession, bool) {
	m.RLock()
	defer m.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return session, true
}

// DeleteSession releases the session's environment and removes it from the
// map. Deleting an unknown id is a no-op.
func (m *GameSessionManager) DeleteSession(id uuid.UUID) bool {
	m.Lock()
	defer m.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return false
	}

	if err := session.Close(); err != nil {
		m.logger.Warn().Err(err).Str("session", id.String()).Msg("closing environment")
	}
	delete(m.sessions, id)

	m.logger.Info().Str("session", id.String()).Msg("deleted game session")
	return true
}

// StopAll releases every live session. Used at shutdown.
func (m *GameSessionManager) StopAll() {
	m.Lock()
	defer m.Unlock()

	for id, session := range m.sessions {
		if err := session.Close(); err != nil {
			m.logger.Warn().Err(err).Str("session", id.String()).Msg("closing environment")
		}
		delete(m.sessions, id)
	}
}

// resolveProvider loads the checkpoint for the given environment, reusing an
// already-loaded provider when several sessions point at the same file.
// Providers are read-only at inference time, so sharing is safe.
func (m *GameSessionManager) resolveProvider(envName, modelPath string) (i.DecisionProvider, error) {
	path := modelPath
	if path == "" {
		latest, err := m.policies.Latest(envName)
		if err != nil {
			return nil, fmt.Errorf("%w for %q: %v", ErrPolicyNotFound, envName, err)
		}
		path = latest
	}

	m.Lock()
	provider, ok := m.providers[path]
	m.Unlock()
	if ok {
		return provider, nil
	}

	provider, err := m.policies.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w at %q: %v", ErrPolicyNotFound, path, err)
	}

	m.Lock()
	m.providers[path] = provider
	m.Unlock()
	return provider, nil
}
