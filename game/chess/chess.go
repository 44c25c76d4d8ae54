// Package chess adapts github.com/notnil/chess to the environment capability
// set. Actions are square pairs encoded as from*64+to; promotions resolve to
// a queen.
package chess

import (
	"errors"
	"fmt"

	ntchess "github.com/notnil/chess"
	"gorgonia.org/tensor"
)

// Actions is the size of the from-square x to-square action space.
const Actions = 64 * 64

// maxPlies bounds runaway games; hitting it truncates without a winner.
const maxPlies = 512

var players = [2]string{"player_0", "player_1"}

// Environment errors.
var (
	ErrGameOver      = errors.New("game is over")
	ErrIllegalAction = errors.New("illegal action")
)

// Env is a chess game. player_0 plays white.
type Env struct {
	game       *ntchess.Game
	agents     []string
	plies      int
	lastReward float64
	terminated bool
	truncated  bool
}

// New returns an unstarted environment.
func New() *Env {
	e := &Env{}
	e.Reset(0)
	return e
}

// Name returns the canonical environment name.
func (e *Env) Name() string {
	return "chess"
}

// Reset starts a fresh game from the standard position. Chess is
// deterministic, so the seed is ignored.
func (e *Env) Reset(_ int64) {
	e.game = ntchess.NewGame()
	e.agents = []string{players[0], players[1]}
	e.plies = 0
	e.lastReward = 0
	e.terminated = false
	e.truncated = false
}

// Step applies the move encoded by action for the side to move. The actor is
// paid +1 for a win, -1 for a loss, 0 otherwise.
func (e *Env) Step(action int) error {
	if len(e.agents) == 0 {
		return ErrGameOver
	}
	if action < 0 || action >= Actions {
		return fmt.Errorf("%w: action %d out of range", ErrIllegalAction, action)
	}

	move := e.findMove(ntchess.Square(action/64), ntchess.Square(action%64))
	if move == nil {
		return fmt.Errorf("%w: no legal move for action %d", ErrIllegalAction, action)
	}

	actor := e.game.Position().Turn()
	if err := e.game.Move(move); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalAction, err)
	}
	e.plies++

	switch outcome := e.game.Outcome(); outcome {
	case ntchess.NoOutcome:
		e.lastReward = 0
		e.truncated = e.plies >= maxPlies
	case ntchess.Draw:
		e.lastReward = 0
		e.terminated = true
	default:
		winner := ntchess.White
		if outcome == ntchess.BlackWon {
			winner = ntchess.Black
		}
		if winner == actor {
			e.lastReward = 1
		} else {
			e.lastReward = -1
		}
		e.terminated = true
	}

	if e.terminated || e.truncated {
		e.agents = nil
	}
	return nil
}

// Observe returns an 8x8 plane of signed piece codes (white positive, pawn 1
// through king 6) and the legal-move mask for the side to move. The board is
// reported from white's side for both agents.
func (e *Env) Observe(_ string) (*tensor.Dense, []bool) {
	backing := make([]float32, 64)
	board := e.game.Position().Board()
	for sq := 0; sq < 64; sq++ {
		piece := board.Piece(ntchess.Square(sq))
		if piece == ntchess.NoPiece {
			continue
		}
		code := pieceCode(piece.Type())
		if piece.Color() == ntchess.Black {
			code = -code
		}
		backing[sq] = code
	}
	obs := tensor.New(tensor.WithShape(8, 8), tensor.WithBacking(backing))

	mask := make([]bool, Actions)
	for _, move := range e.game.ValidMoves() {
		mask[int(move.S1())*64+int(move.S2())] = true
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
	if e.game.Position().Turn() == ntchess.White {
		return players[0]
	}
	return players[1]
}

// LastTransition reports the reward and termination flags produced by the
// most recent step, for the agent that made it.
func (e *Env) LastTransition() (float64, bool, bool) {
	return e.lastReward, e.terminated, e.truncated
}

// Close releases nothing; game state lives on the Go heap.
func (e *Env) Close() error {
	return nil
}

// findMove locates the legal move matching the square pair. When several
// promotions match, the queen promotion wins.
func (e *Env) findMove(from, to ntchess.Square) *ntchess.Move {
	var found *ntchess.Move
	for _, move := range e.game.ValidMoves() {
		if move.S1() != from || move.S2() != to {
			continue
		}
		if move.Promo() == ntchess.NoPieceType || move.Promo() == ntchess.Queen {
			return move
		}
		if found == nil {
			found = move
		}
	}
	return found
}

func pieceCode(t ntchess.PieceType) float32 {
	switch t {
	case ntchess.Pawn:
		return 1
	case ntchess.Knight:
		return 2
	case ntchess.Bishop:
		return 3
	case ntchess.Rook:
		return 4
	case ntchess.Queen:
		return 5
	case ntchess.King:
		return 6
	default:
		return 0
	}
}
