package service

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/marl-games/game-server/service/i"
)

// Session is a single in-progress game. It owns its environment, shares a
// read-only decision provider, and is the only component that mutates the
// environment. A mutex keeps at most one operation in flight per session,
// so overlapping HTTP requests for the same id see no partial state;
// distinct sessions are independent.
type Session struct {
	id           uuid.UUID
	gameKind     string
	env          i.Environment
	provider     i.DecisionProvider
	currentAgent string
	done         bool
	closed       bool
	mu           sync.Mutex
}

// NewSession resets the environment to its initial state, advances to the
// first actionable turn, and assigns a fresh session id.
func NewSession(gameKind string, env i.Environment, provider i.DecisionProvider) *Session {
	s := &Session{
		id:       uuid.New(),
		gameKind: gameKind,
		env:      env,
		provider: provider,
	}
	s.env.Reset(0)
	s.advance()
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// GameKind returns the game type the session was created with.
func (s *Session) GameKind() string {
	return s.gameKind
}

// advance re-derives turn ownership after every environment mutation. The
// game is over once no agents remain active; a finished session never
// becomes active again.
func (s *Session) advance() {
	s.done = s.done || len(s.env.Agents()) == 0
	if s.done {
		s.currentAgent = ""
	} else {
		s.currentAgent = s.env.CurrentAgent()
	}
}

// CurrentState returns a fresh snapshot of the session. A finished session
// always reports empty observation, mask, and valid actions with a nil
// current player, regardless of what the environment last held.
func (s *Session) CurrentState() i.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentState()
}

func (s *Session) currentState() i.Snapshot {
	if s.done {
		return i.Snapshot{
			Observation:  []any{},
			ActionMask:   []bool{},
			ValidActions: []int{},
			Done:         true,
		}
	}

	obs, mask := s.env.Observe(s.currentAgent)
	valid := make([]int, 0, len(mask))
	for idx, ok := range mask {
		if ok {
			valid = append(valid, idx)
		}
	}

	agent := s.currentAgent
	return i.Snapshot{
		Observation:   Normalize(obs),
		ActionMask:    mask,
		ValidActions:  valid,
		CurrentPlayer: &agent,
	}
}

// MakeMove applies the caller's action. Moving on a finished session fails
// with ErrSessionFinished without touching the environment. Action legality
// beyond the mask is the environment's failure domain.
func (s *Session) MakeMove(action int) (i.Snapshot, float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return i.Snapshot{}, 0, false, ErrSessionFinished
	}

	if err := s.env.Step(action); err != nil {
		return i.Snapshot{}, 0, false, fmt.Errorf("applying action %d: %w", action, err)
	}
	s.advance()

	reward, terminated, truncated := s.env.LastTransition()
	return s.currentState(), reward, terminated || truncated, nil
}

// AIMove reads the current observation and mask, asks the decision provider
// for an action, and applies it exactly as MakeMove would. Reward and done
// are re-read after stepping, the freshest transition the environment
// exposes.
func (s *Session) AIMove() (int, float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obs, mask := s.env.Observe(s.currentAgent)
	action, err := s.provider.Choose(obs, mask)
	if err != nil {
		return 0, 0, false, fmt.Errorf("choosing action: %w", err)
	}

	if err := s.env.Step(action); err != nil {
		return 0, 0, false, fmt.Errorf("applying AI action %d: %w", action, err)
	}
	s.advance()

	reward, terminated, truncated := s.env.LastTransition()
	return action, reward, terminated || truncated, nil
}

// Close releases the session's environment. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.env.Close()
}
