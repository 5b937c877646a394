package lazysearch

import "fmt"

// Effect creates a Stage that observes values without changing them.
// It runs lazily like any other stage, so it sees exactly the elements a
// search evaluates, with the value produced by the stages before it.
//
//	traced := chain.Then(lazysearch.Effect("trace", func(v int) {
//	    log.Printf("evaluating %d", v)
//	}))
func Effect[T any](name Name, fn func(T)) Stage[T] {
	if fn == nil {
		panic(fmt.Errorf("lazysearch: stage %q: %w", name, ErrNilTransform))
	}
	return Transform(name, func(value T) T {
		fn(value)
		return value
	})
}
