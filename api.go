package lazysearch

import "fmt"

// NotFound is returned by Search when no element matches the target.
// It is never a valid element index.
const NotFound = -1

// Name is a type alias for chain and stage names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    PricesName = lazysearch.Name("prices")
//	    TaxName    = lazysearch.Name("add-tax")
//	)
type Name = string

// Stage is a named unary transformation applied to every element of a
// chain at search time.
//
// Stage is created with Transform, or implicitly by Chain.Map. The name
// shows up in Error[T] and in Names(), which makes failing stages easy to
// identify.
//
// The fn field is private so stages are only created through Transform,
// which rejects nil functions.
type Stage[T any] struct {
	fn   func(T) T
	name Name
}

// Name returns the name of the stage for debugging and error reporting.
func (s Stage[T]) Name() Name {
	return s.name
}

// Apply runs the transformation on a single value. Applying the zero Stage
// panics with ErrNilTransform.
func (s Stage[T]) Apply(value T) T {
	if s.fn == nil {
		panic(fmt.Errorf("lazysearch: stage %q: %w", s.name, ErrNilTransform))
	}
	return s.fn(value)
}
