package service

import (
	"github.com/marl-games/game-server/service/i"
	"gorgonia.org/tensor"
)

// fakeEnv is a scripted environment for exercising the session state machine
// without real game rules.
type fakeEnv struct {
	name       string
	agents     []string
	current    string
	obs        *tensor.Dense
	mask       []bool
	reward     float64
	terminated bool
	truncated  bool

	steps  []int
	resets int
	closes int
	// onStep mutates the fake after an action is recorded, scripting the
	// transition the session will re-read.
	onStep  func(action int)
	stepErr error
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		name:    "connect_four",
		agents:  []string{"player_0", "player_1"},
		current: "player_0",
		obs: tensor.New(
			tensor.WithShape(2, 3),
			tensor.WithBacking([]int{0, 1, 2, 3, 4, 5}),
		),
		mask: []bool{true, false, true, false, true, false, true},
	}
}

func (f *fakeEnv) Name() string         { return f.name }
func (f *fakeEnv) Reset(_ int64)        { f.resets++ }
func (f *fakeEnv) CurrentAgent() string { return f.current }

func (f *fakeEnv) Step(action int) error {
	if f.stepErr != nil {
		return f.stepErr
	}
	f.steps = append(f.steps, action)
	if f.onStep != nil {
		f.onStep(action)
	}
	return nil
}

func (f *fakeEnv) Observe(string) (*tensor.Dense, []bool) {
	return f.obs, f.mask
}

func (f *fakeEnv) Agents() []string {
	out := make([]string, len(f.agents))
	copy(out, f.agents)
	return out
}

func (f *fakeEnv) LastTransition() (float64, bool, bool) {
	return f.reward, f.terminated, f.truncated
}

func (f *fakeEnv) Close() error {
	f.closes++
	return nil
}

// fakeProvider returns a scripted action.
type fakeProvider struct {
	action  int
	err     error
	calls   int
	gotMask []bool
}

func (f *fakeProvider) Choose(_ *tensor.Dense, mask []bool) (int, error) {
	f.calls++
	f.gotMask = append([]bool(nil), mask...)
	if f.err != nil {
		return 0, f.err
	}
	return f.action, nil
}

// fakeLoader resolves every environment to a single scripted provider.
type fakeLoader struct {
	provider  i.DecisionProvider
	latestErr error
	loadErr   error
	loads     int
	path      string
}

func (f *fakeLoader) Latest(envName string) (string, error) {
	if f.latestErr != nil {
		return "", f.latestErr
	}
	if f.path != "" {
		return f.path, nil
	}
	return "checkpoints/" + envName + "/" + envName + "_latest.json", nil
}

func (f *fakeLoader) Load(string) (i.DecisionProvider, error) {
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.provider, nil
}
