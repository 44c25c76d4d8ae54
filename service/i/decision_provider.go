package i

import (
	"gorgonia.org/tensor"
)

// DecisionProvider selects an action given an observation and a legal-action
// mask. Implementations must be stateless at inference time so a single
// provider can be shared across many sessions concurrently.
type DecisionProvider interface {
	// Choose returns the index of the chosen action. The returned index
	// must be a true position of the mask.
	Choose(observation *tensor.Dense, legalMask []bool) (int, error)
}
