// Package policy loads trained policy checkpoints and exposes them as
// decision providers. A checkpoint is a JSON export of a masked policy's
// action head, written by the training pipeline under
// checkpoints/<env>/<env>_<stamp>.json.
package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marl-games/game-server/service/i"
)

// ErrNoCheckpoint is returned by Latest when the environment's checkpoint
// directory holds no matching file.
var ErrNoCheckpoint = errors.New("no checkpoint found")

// Loader resolves checkpoints below a root directory.
type Loader struct {
	root string
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{root: dir}
}

// Latest returns the path of the most recently modified checkpoint for the
// named environment.
func (l *Loader) Latest(envName string) (string, error) {
	pattern := filepath.Join(l.root, envName, envName+"*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("globbing %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoCheckpoint, pattern)
	}

	latest := ""
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if latest == "" {
			latest = match
			continue
		}
		latestInfo, err := os.Stat(latest)
		if err != nil || info.ModTime().After(latestInfo.ModTime()) {
			latest = match
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%w: %s", ErrNoCheckpoint, pattern)
	}
	return latest, nil
}

// Load parses the checkpoint at path into a decision provider.
func (l *Loader) Load(path string) (i.DecisionProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}

	var ckpt checkpoint
	if err := json.Unmarshal(raw, &ckpt); err != nil {
		return nil, fmt.Errorf("parsing checkpoint %s: %w", path, err)
	}

	return newLinear(ckpt)
}

// checkpoint is the on-disk schema: a flattened weight matrix of shape
// [actions][inputs] plus a per-action bias.
type checkpoint struct {
	Env     string    `json:"env"`
	Inputs  int       `json:"inputs"`
	Actions int       `json:"actions"`
	Weights []float64 `json:"weights"`
	Bias    []float64 `json:"bias"`
}
