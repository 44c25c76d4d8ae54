package policy

import (
	"errors"
	"fmt"
	"math"

	"gorgonia.org/tensor"
)

// Linear is a masked linear policy head: logits = W*obs + b, with illegal
// actions masked out before the argmax. Deterministic and stateless, so one
// instance may serve many sessions concurrently.
type Linear struct {
	inputs  int
	actions int
	weights []float64
	bias    []float64
}

func newLinear(c checkpoint) (*Linear, error) {
	if c.Inputs <= 0 || c.Actions <= 0 {
		return nil, fmt.Errorf("checkpoint declares %d inputs, %d actions", c.Inputs, c.Actions)
	}
	if len(c.Weights) != c.Inputs*c.Actions {
		return nil, fmt.Errorf("checkpoint has %d weights, want %d", len(c.Weights), c.Inputs*c.Actions)
	}
	if len(c.Bias) != c.Actions {
		return nil, fmt.Errorf("checkpoint has %d bias terms, want %d", len(c.Bias), c.Actions)
	}

	return &Linear{
		inputs:  c.Inputs,
		actions: c.Actions,
		weights: c.Weights,
		bias:    c.Bias,
	}, nil
}

// Choose returns the legal action with the highest logit.
func (p *Linear) Choose(observation *tensor.Dense, legalMask []bool) (int, error) {
	x, err := flatten(observation)
	if err != nil {
		return 0, err
	}
	if len(x) != p.inputs {
		return 0, fmt.Errorf("observation has %d features, policy expects %d", len(x), p.inputs)
	}
	if len(legalMask) != p.actions {
		return 0, fmt.Errorf("mask has %d actions, policy expects %d", len(legalMask), p.actions)
	}

	best := -1
	bestLogit := math.Inf(-1)
	for a := 0; a < p.actions; a++ {
		if !legalMask[a] {
			continue
		}
		logit := p.bias[a]
		row := p.weights[a*p.inputs : (a+1)*p.inputs]
		for j, w := range row {
			logit += w * x[j]
		}
		if logit > bestLogit {
			best = a
			bestLogit = logit
		}
	}

	if best < 0 {
		return 0, errors.New("no legal action to choose from")
	}
	return best, nil
}

// flatten reads the tensor's backing as a flat float64 vector.
func flatten(t *tensor.Dense) ([]float64, error) {
	if t == nil {
		return nil, errors.New("nil observation")
	}
	switch d := t.Data().(type) {
	case []float64:
		return d, nil
	case []float32:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = float64(v)
		}
		return out, nil
	case []int:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = float64(v)
		}
		return out, nil
	case []int8:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported observation dtype %T", d)
	}
}
