package lazysearch

import "fmt"

// Mutate creates a Stage that applies transformer only to values for which
// condition returns true. Other values pass through unchanged.
//
// Use Mutate when a transformation only makes sense for part of the data,
// instead of branching inside the transformation itself:
//
//	clampNegative := lazysearch.Mutate("clamp",
//	    func(v int) int { return 0 },
//	    func(v int) bool { return v < 0 },
//	)
func Mutate[T any](name Name, transformer func(T) T, condition func(T) bool) Stage[T] {
	if transformer == nil || condition == nil {
		panic(fmt.Errorf("lazysearch: stage %q: %w", name, ErrNilTransform))
	}
	return Transform(name, func(value T) T {
		if condition(value) {
			return transformer(value)
		}
		return value
	})
}
