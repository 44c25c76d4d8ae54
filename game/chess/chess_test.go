package chess

import (
	"testing"

	ntchess "github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

func action(from, to ntchess.Square) int {
	return int(from)*64 + int(to)
}

func TestReset(t *testing.T) {
	env := New()

	require.Equal(t, "chess", env.Name())
	require.Equal(t, []string{"player_0", "player_1"}, env.Agents())
	require.Equal(t, "player_0", env.CurrentAgent(), "White moves first")

	_, mask := env.Observe("player_0")
	require.Len(t, mask, Actions)

	legal := 0
	for _, ok := range mask {
		if ok {
			legal++
		}
	}
	require.Equal(t, 20, legal, "The starting position has twenty legal moves")
}

func TestStep(t *testing.T) {
	t.Run("applies a legal move and flips the turn", func(t *testing.T) {
		env := New()

		require.NoError(t, env.Step(action(ntchess.E2, ntchess.E4)))

		require.Equal(t, "player_1", env.CurrentAgent())
		reward, terminated, truncated := env.LastTransition()
		require.Zero(t, reward)
		require.False(t, terminated)
		require.False(t, truncated)
	})

	t.Run("rejects illegal square pairs", func(t *testing.T) {
		env := New()
		require.ErrorIs(t, env.Step(action(ntchess.E2, ntchess.E8)), ErrIllegalAction)
		require.ErrorIs(t, env.Step(-1), ErrIllegalAction)
		require.ErrorIs(t, env.Step(Actions), ErrIllegalAction)
	})

	t.Run("mask marks exactly the legal actions", func(t *testing.T) {
		env := New()
		_, mask := env.Observe("player_0")

		require.True(t, mask[action(ntchess.E2, ntchess.E4)])
		require.True(t, mask[action(ntchess.G1, ntchess.F3)])
		require.False(t, mask[action(ntchess.E2, ntchess.E8)])
	})
}

func TestCheckmate(t *testing.T) {
	env := New()

	// Fool's mate: black checkmates on move two.
	require.NoError(t, env.Step(action(ntchess.F2, ntchess.F3)))
	require.NoError(t, env.Step(action(ntchess.E7, ntchess.E5)))
	require.NoError(t, env.Step(action(ntchess.G2, ntchess.G4)))
	require.NoError(t, env.Step(action(ntchess.D8, ntchess.H4)))

	reward, terminated, truncated := env.LastTransition()
	require.Equal(t, 1.0, reward, "The mating side is paid +1")
	require.True(t, terminated)
	require.False(t, truncated)
	require.Empty(t, env.Agents())
	require.Equal(t, "", env.CurrentAgent())

	require.ErrorIs(t, env.Step(action(ntchess.E2, ntchess.E4)), ErrGameOver)
}

func TestObserve(t *testing.T) {
	env := New()
	obs, _ := env.Observe("player_0")

	require.Equal(t, []int{8, 8}, []int(obs.Shape()))
	data := obs.Data().([]float32)

	require.Equal(t, float32(1), data[int(ntchess.E2)], "White pawn on e2")
	require.Equal(t, float32(6), data[int(ntchess.E1)], "White king on e1")
	require.Equal(t, float32(-6), data[int(ntchess.E8)], "Black king on e8")
	require.Equal(t, float32(-1), data[int(ntchess.A7)], "Black pawn on a7")
	require.Equal(t, float32(0), data[int(ntchess.E4)], "Empty square")
}

func TestResetAfterGame(t *testing.T) {
	env := New()
	require.NoError(t, env.Step(action(ntchess.F2, ntchess.F3)))
	require.NoError(t, env.Step(action(ntchess.E7, ntchess.E5)))
	require.NoError(t, env.Step(action(ntchess.G2, ntchess.G4)))
	require.NoError(t, env.Step(action(ntchess.D8, ntchess.H4)))

	env.Reset(0)

	require.Len(t, env.Agents(), 2)
	require.Equal(t, "player_0", env.CurrentAgent())
	_, terminated, _ := env.LastTransition()
	require.False(t, terminated)
}
