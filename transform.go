package lazysearch

import "fmt"

// Transform creates a named Stage from a pure transformation function.
// The function is never called here; it runs only when a chain holding the
// stage is searched or resolved.
//
// Transform panics when fn is nil, since a nil stage could only fail later
// in the middle of a search.
//
// Example:
//
//	double := lazysearch.Transform("double", func(v int) int {
//	    return v * 2
//	})
//	chain := lazysearch.New("numbers", values).Then(double)
func Transform[T any](name Name, fn func(T) T) Stage[T] {
	if fn == nil {
		panic(fmt.Errorf("lazysearch: stage %q: %w", name, ErrNilTransform))
	}
	return Stage[T]{name: name, fn: fn}
}
