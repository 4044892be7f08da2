package utils

import "math/rand"

// Weighted pairs a value with a selection weight. Zero or negative weights
// are treated as 1.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedChoice picks one item proportionally to its weight using rng.
// The last item is returned when rounding leaves the cursor past the end.
func WeightedChoice[T any](rng *rand.Rand, items []Weighted[T]) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	total := 0.0
	for _, it := range items {
		total += weightOf(it.Weight)
	}
	cursor := rng.Float64() * total
	for _, it := range items {
		cursor -= weightOf(it.Weight)
		if cursor <= 0 {
			return it.Value
		}
	}
	return items[len(items)-1].Value
}

func weightOf(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

// RandomElement returns a uniformly random element of items.
func RandomElement[T any](rng *rand.Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[rng.Intn(len(items))]
}
