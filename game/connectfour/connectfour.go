// Package connectfour implements the Connect Four environment: a 6x7 grid,
// two agents dropping pieces into columns, first four-in-a-row wins.
package connectfour

import (
	"errors"
	"fmt"

	"gorgonia.org/tensor"
)

// Board dimensions and action space.
const (
	Rows    = 6
	Cols    = 7
	Actions = Cols
)

var players = [2]string{"player_0", "player_1"}

// Environment errors.
var (
	ErrGameOver      = errors.New("game is over")
	ErrIllegalAction = errors.New("illegal action")
)

// Env is a Connect Four game. The zero value is not usable; construct with
// New and Reset before stepping.
type Env struct {
	board      [Rows][Cols]int8 // 0 empty, 1 player_0, 2 player_1
	agents     []string
	current    int
	lastReward float64
	terminated bool
}

// New returns an unstarted environment.
func New() *Env {
	e := &Env{}
	e.Reset(0)
	return e
}

// Name returns the canonical environment name.
func (e *Env) Name() string {
	return "connect_four"
}

// Reset clears the board and restores both agents. Connect Four is
// deterministic, so the seed is ignored.
func (e *Env) Reset(_ int64) {
	e.board = [Rows][Cols]int8{}
	e.agents = []string{players[0], players[1]}
	e.current = 0
	e.lastReward = 0
	e.terminated = false
}

// Step drops the current agent's piece into the given column. Wins pay +1 to
// the actor, draws pay 0.
func (e *Env) Step(action int) error {
	if len(e.agents) == 0 {
		return ErrGameOver
	}
	if action < 0 || action >= Cols {
		return fmt.Errorf("%w: column %d out of range", ErrIllegalAction, action)
	}
	if e.board[0][action] != 0 {
		return fmt.Errorf("%w: column %d is full", ErrIllegalAction, action)
	}

	piece := int8(e.current + 1)
	row := Rows - 1
	for row > 0 && e.board[row][action] != 0 {
		row--
	}
	e.board[row][action] = piece

	switch {
	case e.wins(piece):
		e.lastReward = 1
		e.terminated = true
	case e.full():
		e.lastReward = 0
		e.terminated = true
	default:
		e.lastReward = 0
		e.current = 1 - e.current
	}

	if e.terminated {
		e.agents = nil
	}
	return nil
}

// Observe returns the agent's observation and legal-action mask. The
// observation is a 6x7x2 tensor: plane 0 holds the agent's own pieces,
// plane 1 the opponent's.
func (e *Env) Observe(agent string) (*tensor.Dense, []bool) {
	own := int8(1)
	if agent == players[1] {
		own = 2
	}

	backing := make([]int8, Rows*Cols*2)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			base := (r*Cols + c) * 2
			switch e.board[r][c] {
			case own:
				backing[base] = 1
			case 0:
			default:
				backing[base+1] = 1
			}
		}
	}
	obs := tensor.New(tensor.WithShape(Rows, Cols, 2), tensor.WithBacking(backing))

	mask := make([]bool, Actions)
	for c := 0; c < Cols; c++ {
		mask[c] = e.board[0][c] == 0
	}
	return obs, mask
}

// Agents returns the agents still active in the game.
func (e *Env) Agents() []string {
	out := make([]string, len(e.agents))
	copy(out, e.agents)
	return out
}

// CurrentAgent returns the agent whose move is awaited.
func (e *Env) CurrentAgent() string {
	if len(e.agents) == 0 {
		return ""
	}
	return players[e.current]
}

// LastTransition reports the reward and termination flags produced by the
// most recent step, for the agent that made it. Connect Four never truncates.
func (e *Env) LastTransition() (float64, bool, bool) {
	return e.lastReward, e.terminated, false
}

// Close releases nothing; the board is plain memory.
func (e *Env) Close() error {
	return nil
}

// wins reports whether the given piece has four in a row anywhere.
func (e *Env) wins(piece int8) bool {
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if e.board[r][c] != piece {
				continue
			}
			for _, d := range dirs {
				count := 1
				for k := 1; k < 4; k++ {
					nr, nc := r+d[0]*k, c+d[1]*k
					if nr < 0 || nr >= Rows || nc < 0 || nc >= Cols || e.board[nr][nc] != piece {
						break
					}
					count++
				}
				if count == 4 {
					return true
				}
			}
		}
	}
	return false
}

func (e *Env) full() bool {
	for c := 0; c < Cols; c++ {
		if e.board[0][c] == 0 {
			return false
		}
	}
	return true
}
