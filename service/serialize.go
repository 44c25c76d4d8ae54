package service

import (
	"math"

	"gorgonia.org/tensor"
)

// Normalize converts engine-native values into transport-safe primitives:
// observation tensors become nested lists preserving shape and element order,
// sized integers and floats become native int and float64 with the exact same
// value, and all other values pass through unchanged. Normalize is
// idempotent.
func Normalize(v any) any {
	switch x := v.(type) {
	case *tensor.Dense:
		if x == nil {
			return []any{}
		}
		return nestTensor(x)
	case int:
		return x
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint:
		if uint64(x) > math.MaxInt64 {
			return x
		}
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		// Values above MaxInt64 would wrap negative in an int; pass them
		// through rather than truncate.
		if x > math.MaxInt64 {
			return x
		}
		return int(x)
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		return v
	}
}

// nestTensor rebuilds the tensor's flat backing into nested lists following
// its shape, outermost dimension first.
func nestTensor(t *tensor.Dense) any {
	shape := t.Shape()
	if len(shape) == 0 {
		return Normalize(t.Data())
	}
	return nest(flatten(t.Data()), shape)
}

func nest(flat []any, shape []int) any {
	if len(shape) <= 1 {
		return flat
	}
	if shape[0] == 0 {
		return []any{}
	}
	stride := len(flat) / shape[0]
	out := make([]any, shape[0])
	for i := range out {
		out[i] = nest(flat[i*stride:(i+1)*stride], shape[1:])
	}
	return out
}

func flatten(data any) []any {
	switch d := data.(type) {
	case []float64:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = v
		}
		return out
	case []float32:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = float64(v)
		}
		return out
	case []int:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = v
		}
		return out
	case []int8:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = int(v)
		}
		return out
	case []int32:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = int(v)
		}
		return out
	case []int64:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = int(v)
		}
		return out
	case []uint8:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = int(v)
		}
		return out
	case []bool:
		out := make([]any, len(d))
		for i, v := range d {
			out[i] = v
		}
		return out
	default:
		return []any{Normalize(data)}
	}
}
