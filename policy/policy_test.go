package policy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func writeCheckpoint(t *testing.T, path string, c checkpoint) {
	t.Helper()
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func validCheckpoint(inputs, actions int) checkpoint {
	return checkpoint{
		Env:     "connect_four",
		Inputs:  inputs,
		Actions: actions,
		Weights: make([]float64, inputs*actions),
		Bias:    make([]float64, actions),
	}
}

func TestLatest(t *testing.T) {
	t.Run("picks the most recently modified checkpoint", func(t *testing.T) {
		root := t.TempDir()
		older := filepath.Join(root, "connect_four", "connect_four_20240101-000000.json")
		newer := filepath.Join(root, "connect_four", "connect_four_20240601-000000.json")
		writeCheckpoint(t, older, validCheckpoint(2, 3))
		writeCheckpoint(t, newer, validCheckpoint(2, 3))

		now := time.Now()
		require.NoError(t, os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)))
		require.NoError(t, os.Chtimes(newer, now, now))

		got, err := NewLoader(root).Latest("connect_four")

		require.NoError(t, err)
		require.Equal(t, newer, got)
	})

	t.Run("fails when the namespace is empty", func(t *testing.T) {
		_, err := NewLoader(t.TempDir()).Latest("connect_four")
		require.ErrorIs(t, err, ErrNoCheckpoint)
	})

	t.Run("ignores other environments' checkpoints", func(t *testing.T) {
		root := t.TempDir()
		writeCheckpoint(t, filepath.Join(root, "chess", "chess_1.json"), validCheckpoint(2, 3))

		_, err := NewLoader(root).Latest("connect_four")
		require.ErrorIs(t, err, ErrNoCheckpoint)
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads a valid checkpoint", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "connect_four", "connect_four_1.json")
		writeCheckpoint(t, path, validCheckpoint(2, 3))

		provider, err := NewLoader(root).Load(path)

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("rejects a missing file", func(t *testing.T) {
		_, err := NewLoader(t.TempDir()).Load("nope.json")
		require.Error(t, err)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

		_, err := NewLoader(root).Load(path)
		require.Error(t, err)
	})

	t.Run("rejects mismatched weight dimensions", func(t *testing.T) {
		root := t.TempDir()
		bad := validCheckpoint(2, 3)
		bad.Weights = bad.Weights[:len(bad.Weights)-1]
		path := filepath.Join(root, "connect_four", "connect_four_1.json")
		writeCheckpoint(t, path, bad)

		_, err := NewLoader(root).Load(path)
		require.ErrorContains(t, err, "weights")
	})
}

func TestLinearChoose(t *testing.T) {
	obs := func(values ...float64) *tensor.Dense {
		return tensor.New(tensor.WithShape(len(values)), tensor.WithBacking(values))
	}

	t.Run("returns the legal argmax", func(t *testing.T) {
		p, err := newLinear(checkpoint{
			Inputs:  2,
			Actions: 3,
			// logits: a0 = x0, a1 = x1, a2 = -x0
			Weights: []float64{1, 0, 0, 1, -1, 0},
			Bias:    []float64{0, 0, 0},
		})
		require.NoError(t, err)

		got, err := p.Choose(obs(5, 2), []bool{true, true, true})
		require.NoError(t, err)
		require.Equal(t, 0, got)
	})

	t.Run("never picks a masked-out action", func(t *testing.T) {
		p, err := newLinear(checkpoint{
			Inputs:  2,
			Actions: 3,
			Weights: []float64{1, 0, 0, 1, -1, 0},
			Bias:    []float64{0, 0, 0},
		})
		require.NoError(t, err)

		got, err := p.Choose(obs(5, 2), []bool{false, true, true})
		require.NoError(t, err)
		require.Equal(t, 1, got, "Best overall action is illegal; best legal one wins")
	})

	t.Run("fails when no action is legal", func(t *testing.T) {
		p, err := newLinear(validCheckpoint(2, 3))
		require.NoError(t, err)

		_, err = p.Choose(obs(0, 0), []bool{false, false, false})
		require.Error(t, err)
	})

	t.Run("fails on a mismatched observation", func(t *testing.T) {
		p, err := newLinear(validCheckpoint(2, 3))
		require.NoError(t, err)

		_, err = p.Choose(obs(1, 2, 3), []bool{true, true, true})
		require.ErrorContains(t, err, "features")
	})

	t.Run("fails on a mismatched mask", func(t *testing.T) {
		p, err := newLinear(validCheckpoint(2, 3))
		require.NoError(t, err)

		_, err = p.Choose(obs(1, 2), []bool{true})
		require.ErrorContains(t, err, "actions")
	})
}
