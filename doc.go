// Package lazysearch provides a lazy transform chain: a fixed sequence of
// values plus an ordered list of transformations that only run when the
// chain is searched.
//
// # Overview
//
// A chain is created over a slice with New. Map and Then append
// transformations without evaluating them. Search walks the elements in
// order, pushes each one through every transformation, and returns the
// index of the first element whose result equals the target, or NotFound.
//
//	values := []int{2, 4, 6, 8, 10}
//	chain := lazysearch.New("numbers", values)
//
//	chain.Map(func(v int) int { return 3 * v }).Search(6) // 0
//	chain.
//	    Map(func(v int) int { return 2 * v }).
//	    Map(func(v int) int { return v + 2 }).
//	    Search(22) // 4
//
// # Core Concepts
//
//   - Chain[T]: element sequence plus transformations. Immutable apart from
//     the With... configuration methods.
//   - Stage[T]: a named transformation created with Transform or Map.
//   - NotFound: the sentinel index returned when nothing matches.
//   - Error[T]: returned by SearchContext when a search is canceled or a
//     stage panics.
//
// # Chaining
//
// Map and Then are copy-on-append. Each call returns a new chain that
// shares the element slice and observability of its parent but owns its
// transformation list. Two chains built from one base are independent:
//
//	base := lazysearch.New("numbers", values)
//	a := base.Map(triple)
//	b := base.Map(double)
//	// a has [triple], b has [double], base has nothing.
//
// # Equality
//
// Transformed values are compared with reflect.DeepEqual by default, never
// by identity. Use WithEquality for custom comparisons:
//
//	prices := lazysearch.New("prices", []float64{9.99, 19.99}).
//	    WithEquality(func(a, b float64) bool { return math.Abs(a-b) < 0.001 })
//
// # Observability
//
// Every origin chain owns a metricz registry, a tracez tracer and hookz
// hooks, shared by all chains derived from it:
//
//	chain.OnFound(func(ctx context.Context, e lazysearch.SearchEvent[int]) error {
//	    log.Printf("found %v at %d after %d elements", e.Target, e.Index, e.Scanned)
//	    return nil
//	})
//	defer chain.Close()
package lazysearch
