package lazysearch

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for searches.
const (
	// Metrics.
	SearchTotal                  = metricz.Key("search.total")
	SearchFoundTotal             = metricz.Key("search.found.total")
	SearchMissedTotal            = metricz.Key("search.missed.total")
	SearchFailuresTotal          = metricz.Key("search.failures.total")
	SearchTransformsAppliedTotal = metricz.Key("search.transforms.applied.total")
	SearchElementsScanned        = metricz.Key("search.elements.scanned")
	SearchStages                 = metricz.Key("search.stages")
	SearchDurationMs             = metricz.Key("search.duration.ms")

	// Spans.
	SearchProcessSpan = tracez.Key("search.process")

	// Tags.
	SearchTagChainID    = tracez.Tag("search.chain_id")
	SearchTagStageCount = tracez.Tag("search.stage_count")
	SearchTagFound      = tracez.Tag("search.found")
	SearchTagIndex      = tracez.Tag("search.index")
	SearchTagError      = tracez.Tag("search.error")

	// Hook event keys.
	SearchEventFound  = hookz.Key("search.found")
	SearchEventMissed = hookz.Key("search.missed")
	SearchEventFailed = hookz.Key("search.failed")
)

// SearchEvent describes one completed search.
// It is emitted via hookz when a search finds a match, misses, or fails.
type SearchEvent[T any] struct {
	Target    T             // Value that was searched for
	Timestamp time.Time     // When the search finished
	Error     error         // Failure cause (failed events only)
	Name      Name          // Chain name
	ChainID   uuid.UUID     // Chain that ran the search
	OriginID  uuid.UUID     // Chain created by New that the searched chain derives from
	Duration  time.Duration // How long the search took
	Index     int           // Matching index, or NotFound
	Scanned   int           // Elements evaluated before the search stopped
	Stages    int           // Transformations applied to each element
	Found     bool          // Whether an element matched
}

// observer holds the observability components of an origin chain. Every
// chain derived from that origin shares them.
type observer[T any] struct {
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[SearchEvent[T]]
}

func newObserver[T any]() *observer[T] {
	metrics := metricz.New()
	metrics.Counter(SearchTotal)
	metrics.Counter(SearchFoundTotal)
	metrics.Counter(SearchMissedTotal)
	metrics.Counter(SearchFailuresTotal)
	metrics.Counter(SearchTransformsAppliedTotal)
	metrics.Gauge(SearchElementsScanned)
	metrics.Gauge(SearchStages)
	metrics.Gauge(SearchDurationMs)

	return &observer[T]{
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[SearchEvent[T]](),
	}
}

// Chain is a lazy transform chain over a fixed sequence of elements.
//
// A chain holds two things: the element sequence it was created with and
// an ordered list of transformations. Map and Then never run a
// transformation; they return a new chain with one more stage. Only Search
// and the other read operations evaluate stages, element by element, in
// the order the stages were added.
//
// Chains derived from one another share:
//   - the element sequence (never copied, never mutated)
//   - metrics, tracer and hooks of the origin chain
//
// Each chain owns its transformation list. Deriving is copy-on-append, so
// two chains built from the same base never see each other's stages:
//
//	base := lazysearch.New("numbers", []int{2, 4, 6, 8, 10})
//	tripled := base.Map(func(v int) int { return 3 * v })
//	shifted := base.Map(func(v int) int { return 2 * v }).Map(func(v int) int { return v + 2 })
//
//	tripled.Search(6)  // 0
//	shifted.Search(22) // 4
//	base.Search(6)     // 2, base has no stages
//
// # Observability
//
// Metrics:
//   - search.total: Counter of searches
//   - search.found.total: Counter of searches that matched
//   - search.missed.total: Counter of searches that returned NotFound
//   - search.failures.total: Counter of canceled or panicking searches
//   - search.transforms.applied.total: Counter of stage evaluations during searches
//   - search.elements.scanned: Gauge of elements evaluated by the last search
//   - search.stages: Gauge of stages in the last searched chain
//   - search.duration.ms: Gauge of the last search duration
//
// Traces:
//   - search.process: One span per search
//
// Events (via hooks):
//   - search.found, search.missed, search.failed
type Chain[T any] struct {
	clock    clockz.Clock
	equal    func(a, b T) bool
	obs      *observer[T]
	name     Name
	values   []T
	stages   []Stage[T]
	id       uuid.UUID
	originID uuid.UUID
}

// New creates an origin chain over values with no transformations.
//
// The slice is stored as is; callers must not modify it while the chain is
// in use. New panics when values is nil. An empty slice is valid and every
// search over it misses.
func New[T any](name Name, values []T) *Chain[T] {
	if values == nil {
		panic(fmt.Errorf("lazysearch: chain %q: %w", name, ErrNilValues))
	}

	id := uuid.New()
	return &Chain[T]{
		name:     name,
		values:   values,
		equal:    deepEqual[T],
		clock:    clockz.RealClock,
		obs:      newObserver[T](),
		id:       id,
		originID: id,
	}
}

// Map returns a new chain with fn appended to the transformations. fn is
// not called until the returned chain is searched.
//
// The stage is named "map-N" where N is its 1-based position in the chain.
// Map panics when fn is nil.
func (c *Chain[T]) Map(fn func(T) T) *Chain[T] {
	return c.derive(Transform(fmt.Sprintf("map-%d", len(c.stages)+1), fn))
}

// Then returns a new chain with stages appended, in order, to the
// transformations. Like Map it evaluates nothing.
//
// Then panics when a stage was not built with Transform.
func (c *Chain[T]) Then(stages ...Stage[T]) *Chain[T] {
	for _, stage := range stages {
		if stage.fn == nil {
			panic(fmt.Errorf("lazysearch: stage %q: %w", stage.name, ErrNilTransform))
		}
	}
	return c.derive(stages...)
}

// derive copies the chain with a fresh identity and its own stage list.
// slices.Clip forces append to allocate, so siblings never share a tail.
func (c *Chain[T]) derive(stages ...Stage[T]) *Chain[T] {
	next := *c
	next.id = uuid.New()
	next.stages = append(slices.Clip(c.stages), stages...)
	return &next
}

// WithEquality replaces the function used to compare transformed values
// with the target. A nil function restores deep value equality.
// Chains derived afterwards inherit the function.
func (c *Chain[T]) WithEquality(equal func(a, b T) bool) *Chain[T] {
	if equal == nil {
		equal = deepEqual[T]
	}
	c.equal = equal
	return c
}

// WithClock sets a custom clock for testing.
func (c *Chain[T]) WithClock(clock clockz.Clock) *Chain[T] {
	c.clock = clock
	return c
}

func (c *Chain[T]) getClock() clockz.Clock {
	if c.clock == nil {
		return clockz.RealClock
	}
	return c.clock
}

// Name returns the name of the chain.
func (c *Chain[T]) Name() Name {
	return c.name
}

// ID returns the identity of this chain. Every Map or Then call produces a
// chain with a new ID.
func (c *Chain[T]) ID() uuid.UUID {
	return c.id
}

// OriginID returns the ID of the chain created by New that this chain was
// derived from.
func (c *Chain[T]) OriginID() uuid.UUID {
	return c.originID
}

// Len returns the number of transformations in the chain.
func (c *Chain[T]) Len() int {
	return len(c.stages)
}

// Size returns the number of elements in the chain.
func (c *Chain[T]) Size() int {
	return len(c.values)
}

// Names returns the names of all stages in application order.
func (c *Chain[T]) Names() []Name {
	names := make([]Name, len(c.stages))
	for i, stage := range c.stages {
		names[i] = stage.Name()
	}
	return names
}

// Metrics returns the metrics registry shared with the origin chain.
func (c *Chain[T]) Metrics() *metricz.Registry {
	return c.obs.metrics
}

// Tracer returns the tracer shared with the origin chain.
func (c *Chain[T]) Tracer() *tracez.Tracer {
	return c.obs.tracer
}

// Close gracefully shuts down observability components. They are shared,
// so closing any chain closes them for the whole family.
func (c *Chain[T]) Close() error {
	if c.obs.tracer != nil {
		c.obs.tracer.Close()
	}
	c.obs.hooks.Close()
	return nil
}

// OnFound registers a handler called asynchronously after a search matches.
func (c *Chain[T]) OnFound(handler func(context.Context, SearchEvent[T]) error) error {
	_, err := c.obs.hooks.Hook(SearchEventFound, handler)
	return err
}

// OnMissed registers a handler called asynchronously after a search
// returns NotFound without failing.
func (c *Chain[T]) OnMissed(handler func(context.Context, SearchEvent[T]) error) error {
	_, err := c.obs.hooks.Hook(SearchEventMissed, handler)
	return err
}

// OnFailed registers a handler called asynchronously after a search is
// canceled or a stage panics.
func (c *Chain[T]) OnFailed(handler func(context.Context, SearchEvent[T]) error) error {
	_, err := c.obs.hooks.Hook(SearchEventFailed, handler)
	return err
}
