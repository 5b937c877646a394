package lazysearch

import (
	"context"
	"errors"
	"iter"
	"strconv"
)

// Search returns the index of the first element whose transformed value
// equals target, or NotFound.
//
// Each element is passed through every stage in the order the stages were
// added, then compared with target using the chain's equality (deep value
// equality by default). Elements are never modified, so repeated searches
// return the same index. A chain without stages is a plain equality search.
//
// When a stage returns a nil pointer, map, slice, func, chan or interface,
// the remaining stages are skipped for that element and the nil value is
// compared with target.
//
// A panicking stage makes Search panic with an *Error[T] that names the
// stage and the element. Use SearchContext to receive it as an error.
func (c *Chain[T]) Search(target T) int {
	index, err := c.SearchContext(context.Background(), target)
	if err != nil {
		panic(err)
	}
	return index
}

// Contains reports whether any element matches target.
func (c *Chain[T]) Contains(target T) bool {
	return c.Search(target) != NotFound
}

// SearchContext is Search with cancellation and error reporting.
//
// The context is checked before each element. If it is done, the search
// stops and returns NotFound with an *Error[T] marked Timeout or Canceled.
// A panic inside a stage is recovered and returned as an *Error[T] holding
// the stage name and index, the element index and the untransformed
// element. A panicking equality function is reported the same way, with
// StageName "equality" and StageIndex equal to the number of stages.
func (c *Chain[T]) SearchContext(ctx context.Context, target T) (index int, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	clock := c.getClock()
	start := clock.Now()
	stages := len(c.stages)
	scanned := 0
	index = NotFound

	c.obs.metrics.Counter(SearchTotal).Inc()
	c.obs.metrics.Gauge(SearchStages).Set(float64(stages))

	ctx, span := c.obs.tracer.StartSpan(ctx, SearchProcessSpan)
	span.SetTag(SearchTagChainID, c.id.String())
	span.SetTag(SearchTagStageCount, strconv.Itoa(stages))

	defer func() {
		now := clock.Now()
		elapsed := now.Sub(start)
		c.obs.metrics.Gauge(SearchElementsScanned).Set(float64(scanned))
		c.obs.metrics.Gauge(SearchDurationMs).Set(float64(elapsed.Milliseconds()))

		var searchErr *Error[T]
		if errors.As(err, &searchErr) {
			searchErr.Duration = elapsed
		}

		event := SearchEvent[T]{
			Name:      c.name,
			ChainID:   c.id,
			OriginID:  c.originID,
			Target:    target,
			Index:     index,
			Scanned:   scanned,
			Stages:    stages,
			Found:     err == nil && index != NotFound,
			Error:     err,
			Duration:  elapsed,
			Timestamp: now,
		}

		// Events must still be delivered when ctx is the reason we stopped.
		emitCtx := context.WithoutCancel(ctx)
		switch {
		case err != nil:
			span.SetTag(SearchTagFound, "false")
			span.SetTag(SearchTagError, err.Error())
			c.obs.metrics.Counter(SearchFailuresTotal).Inc()
			_ = c.obs.hooks.Emit(emitCtx, SearchEventFailed, event) //nolint:errcheck
		case index == NotFound:
			span.SetTag(SearchTagFound, "false")
			c.obs.metrics.Counter(SearchMissedTotal).Inc()
			_ = c.obs.hooks.Emit(emitCtx, SearchEventMissed, event) //nolint:errcheck
		default:
			span.SetTag(SearchTagFound, "true")
			span.SetTag(SearchTagIndex, strconv.Itoa(index))
			c.obs.metrics.Counter(SearchFoundTotal).Inc()
			_ = c.obs.hooks.Emit(emitCtx, SearchEventFound, event) //nolint:errcheck
		}
		span.Finish()
	}()

	transforms := c.obs.metrics.Counter(SearchTransformsAppliedTotal)
	for i, value := range c.values {
		select {
		case <-ctx.Done():
			return NotFound, &Error[T]{
				Err:          ctx.Err(),
				InputData:    value,
				Path:         []Name{c.name},
				ElementIndex: i,
				StageIndex:   -1,
				Timeout:      errors.Is(ctx.Err(), context.DeadlineExceeded),
				Canceled:     errors.Is(ctx.Err(), context.Canceled),
				Timestamp:    clock.Now(),
			}
		default:
		}

		scanned++
		derived, applied, resolveErr := c.resolve(i, value)
		transforms.Add(float64(applied))
		if resolveErr != nil {
			return NotFound, resolveErr
		}
		matched, matchErr := c.match(i, value, derived, target)
		if matchErr != nil {
			return NotFound, matchErr
		}
		if matched {
			return i, nil
		}
	}

	return NotFound, nil
}

// Resolve computes the transformed value of the element at index. It
// returns false when index is out of range. Like Search, it panics with an
// *Error[T] when a stage panics.
func (c *Chain[T]) Resolve(index int) (T, bool) {
	if index < 0 || index >= len(c.values) {
		var zero T
		return zero, false
	}
	derived, _, err := c.resolve(index, c.values[index])
	if err != nil {
		panic(err)
	}
	return derived, true
}

// All returns an iterator over (index, transformed value) pairs. Values are
// computed one at a time as the iterator advances; breaking out of the loop
// stops evaluation.
//
//	for i, v := range chain.All() {
//	    if v > limit {
//	        break
//	    }
//	}
func (c *Chain[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, value := range c.values {
			derived, _, err := c.resolve(i, value)
			if err != nil {
				panic(err)
			}
			if !yield(i, derived) {
				return
			}
		}
	}
}

// resolve runs every stage on one element, stopping early on a nil result.
// applied is the number of stages that ran.
func (c *Chain[T]) resolve(element int, value T) (result T, applied int, err error) {
	current := -1
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			stage := c.stages[current]
			err = &Error[T]{
				Err:          &panicError{stageName: stage.Name(), sanitized: sanitizePanicMessage(r)},
				InputData:    value,
				Path:         []Name{c.name},
				StageName:    stage.Name(),
				StageIndex:   current,
				ElementIndex: element,
				Timestamp:    c.getClock().Now(),
			}
		}
	}()

	result = value
	for i, stage := range c.stages {
		current = i
		result = stage.Apply(result)
		applied++
		if isNil(result) {
			break
		}
	}
	return result, applied, nil
}

// equalityStage names the comparison step in errors raised by a
// panicking equality function.
const equalityStage Name = "equality"

// match compares a derived value with target, recovering a panicking
// equality function into an *Error[T].
func (c *Chain[T]) match(element int, value, derived, target T) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = &Error[T]{
				Err:          &panicError{stageName: equalityStage, sanitized: sanitizePanicMessage(r)},
				InputData:    value,
				Path:         []Name{c.name},
				StageName:    equalityStage,
				StageIndex:   len(c.stages),
				ElementIndex: element,
				Timestamp:    c.getClock().Now(),
			}
		}
	}()
	return c.equal(derived, target), nil
}
