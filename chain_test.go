package lazysearch

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/tracez"
)

func double(v int) int { return v * 2 }

func triple(v int) int { return v * 3 }

func TestNew(t *testing.T) {
	t.Run("Origin Chain", func(t *testing.T) {
		chain := New("numbers", []int{1, 2, 3})
		defer chain.Close()

		if chain.Name() != "numbers" {
			t.Errorf("expected name numbers, got %s", chain.Name())
		}
		if chain.Len() != 0 {
			t.Errorf("expected no stages, got %d", chain.Len())
		}
		if chain.Size() != 3 {
			t.Errorf("expected 3 elements, got %d", chain.Size())
		}
		if chain.ID() != chain.OriginID() {
			t.Error("origin chain should be its own origin")
		}
	})

	t.Run("Nil Values Panics", func(t *testing.T) {
		defer func() {
			err, ok := recover().(error)
			if !ok || !errors.Is(err, ErrNilValues) {
				t.Errorf("expected ErrNilValues panic, got %v", err)
			}
		}()
		New[int]("nil", nil)
		t.Error("expected New to panic")
	})

	t.Run("Values Are Shared Not Copied", func(t *testing.T) {
		values := []int{1, 2, 3}
		chain := New("numbers", values).Map(double)

		values[0] = 50
		if got := chain.Search(100); got != 0 {
			t.Errorf("expected chain to observe shared slice, got %d", got)
		}
	})
}

func TestMap(t *testing.T) {
	t.Run("Returns New Chain", func(t *testing.T) {
		base := New("numbers", []int{1, 2, 3})
		mapped := base.Map(double)

		if mapped == base {
			t.Fatal("expected Map to return a new chain")
		}
		if base.Len() != 0 || mapped.Len() != 1 {
			t.Errorf("expected lengths 0 and 1, got %d and %d", base.Len(), mapped.Len())
		}
		if mapped.ID() == base.ID() {
			t.Error("expected derived chain to have its own ID")
		}
		if mapped.OriginID() != base.ID() {
			t.Error("expected derived chain to keep the origin ID")
		}
	})

	t.Run("Siblings Are Independent", func(t *testing.T) {
		base := New("numbers", []int{2, 4, 6, 8, 10}).Map(double)

		a := base.Map(triple)
		b := base.Map(func(v int) int { return v + 2 })

		if !reflect.DeepEqual(a.Names(), []Name{"map-1", "map-2"}) {
			t.Errorf("unexpected names for a: %v", a.Names())
		}
		// 4*3 = 12
		if got := a.Search(12); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
		// 2*10+2 = 22, triple must not leak into b
		if got := b.Search(22); got != 4 {
			t.Errorf("expected 4, got %d", got)
		}
		if got := base.Search(20); got != 4 {
			t.Errorf("expected base to be unchanged, got %d", got)
		}
	})

	t.Run("Sibling Tails Do Not Alias", func(t *testing.T) {
		// Grow the parent past one append so spare capacity would exist.
		base := New("numbers", []int{1}).Map(double).Map(double).Map(double)

		a := base.Map(func(v int) int { return v + 1 })
		b := base.Map(func(v int) int { return v + 2 })

		if got := a.Search(9); got != 0 {
			t.Errorf("expected a to add 1, got %d", got)
		}
		if got := b.Search(10); got != 0 {
			t.Errorf("expected b to add 2, got %d", got)
		}
	})

	t.Run("Nil Transform Panics", func(t *testing.T) {
		defer func() {
			err, ok := recover().(error)
			if !ok || !errors.Is(err, ErrNilTransform) {
				t.Errorf("expected ErrNilTransform panic, got %v", err)
			}
		}()
		New("numbers", []int{1}).Map(nil)
		t.Error("expected Map to panic")
	})
}

func TestThen(t *testing.T) {
	t.Run("Named Stages", func(t *testing.T) {
		chain := New("numbers", []int{1, 2, 3}).
			Then(Transform("double", double), Transform("triple", triple)).
			Map(func(v int) int { return v - 1 })

		if !reflect.DeepEqual(chain.Names(), []Name{"double", "triple", "map-3"}) {
			t.Errorf("unexpected names %v", chain.Names())
		}
		// 3*2*3-1 = 17
		if got := chain.Search(17); got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	})

	t.Run("Zero Stage Panics", func(t *testing.T) {
		defer func() {
			err, ok := recover().(error)
			if !ok || !errors.Is(err, ErrNilTransform) {
				t.Errorf("expected ErrNilTransform panic, got %v", err)
			}
		}()
		New("numbers", []int{1}).Then(Stage[int]{})
		t.Error("expected Then to panic")
	})
}

func TestChainObservability(t *testing.T) {
	t.Run("Metrics", func(t *testing.T) {
		base := New("numbers", []int{2, 4, 6, 8, 10})
		defer base.Close()
		chain := base.Map(triple)

		chain.Search(12) // found at 1
		chain.Search(7)  // missed

		metrics := base.Metrics()
		if metrics != chain.Metrics() {
			t.Fatal("expected derived chain to share the origin registry")
		}
		if v := metrics.Counter(SearchTotal).Value(); v != 2 {
			t.Errorf("expected 2 searches, got %f", v)
		}
		if v := metrics.Counter(SearchFoundTotal).Value(); v != 1 {
			t.Errorf("expected 1 found, got %f", v)
		}
		if v := metrics.Counter(SearchMissedTotal).Value(); v != 1 {
			t.Errorf("expected 1 missed, got %f", v)
		}
		if v := metrics.Counter(SearchFailuresTotal).Value(); v != 0 {
			t.Errorf("expected no failures, got %f", v)
		}
		// 2 elements for the hit, 5 for the miss
		if v := metrics.Counter(SearchTransformsAppliedTotal).Value(); v != 7 {
			t.Errorf("expected 7 stage evaluations, got %f", v)
		}
		if v := metrics.Gauge(SearchElementsScanned).Value(); v != 5 {
			t.Errorf("expected last search to scan 5, got %f", v)
		}
		if v := metrics.Gauge(SearchStages).Value(); v != 1 {
			t.Errorf("expected 1 stage, got %f", v)
		}
	})

	t.Run("Spans", func(t *testing.T) {
		chain := New("numbers", []int{1, 2, 3}).Map(double)
		defer chain.Close()

		var spans []tracez.Span
		var mu sync.Mutex
		chain.Tracer().OnSpanComplete(func(span tracez.Span) {
			mu.Lock()
			spans = append(spans, span)
			mu.Unlock()
		})

		chain.Search(4)

		mu.Lock()
		defer mu.Unlock()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if string(spans[0].Name) != string(SearchProcessSpan) {
			t.Errorf("unexpected span name %v", spans[0].Name)
		}

		tags := make(map[string]string)
		for k, v := range spans[0].Tags {
			tags[string(k)] = v
		}
		if tags[string(SearchTagFound)] != "true" {
			t.Errorf("expected found tag true, got %q", tags[string(SearchTagFound)])
		}
		if tags[string(SearchTagIndex)] != "1" {
			t.Errorf("expected index tag 1, got %q", tags[string(SearchTagIndex)])
		}
		if tags[string(SearchTagStageCount)] != "1" {
			t.Errorf("expected stage count tag 1, got %q", tags[string(SearchTagStageCount)])
		}
		if tags[string(SearchTagChainID)] != chain.ID().String() {
			t.Errorf("expected chain id tag %s, got %q", chain.ID(), tags[string(SearchTagChainID)])
		}
	})

	t.Run("Found And Missed Hooks", func(t *testing.T) {
		clock := clockz.NewFakeClock()
		base := New("numbers", []int{2, 4, 6}).WithClock(clock)
		defer base.Close()

		found := make(chan SearchEvent[int], 1)
		missed := make(chan SearchEvent[int], 1)
		if err := base.OnFound(func(_ context.Context, e SearchEvent[int]) error {
			found <- e
			return nil
		}); err != nil {
			t.Fatalf("failed to register hook: %v", err)
		}
		if err := base.OnMissed(func(_ context.Context, e SearchEvent[int]) error {
			missed <- e
			return nil
		}); err != nil {
			t.Fatalf("failed to register hook: %v", err)
		}

		chain := base.Map(func(v int) int {
			clock.Advance(5 * time.Millisecond)
			return v * 3
		})

		chain.Search(12)
		select {
		case e := <-found:
			if !e.Found || e.Index != 1 || e.Target != 12 {
				t.Errorf("unexpected found event %+v", e)
			}
			if e.Scanned != 2 || e.Stages != 1 {
				t.Errorf("expected 2 scanned with 1 stage, got %d and %d", e.Scanned, e.Stages)
			}
			if e.ChainID != chain.ID() || e.OriginID != base.ID() {
				t.Error("unexpected chain identity in event")
			}
			if e.Duration != 10*time.Millisecond {
				t.Errorf("expected 10ms on the fake clock, got %v", e.Duration)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for found event")
		}

		chain.Search(100)
		select {
		case e := <-missed:
			if e.Found || e.Index != NotFound || e.Scanned != 3 {
				t.Errorf("unexpected missed event %+v", e)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for missed event")
		}
	})

	t.Run("Failed Hook", func(t *testing.T) {
		chain := New("numbers", []int{1}).Map(func(_ int) int { panic("boom") })
		defer chain.Close()

		failed := make(chan SearchEvent[int], 1)
		if err := chain.OnFailed(func(_ context.Context, e SearchEvent[int]) error {
			failed <- e
			return nil
		}); err != nil {
			t.Fatalf("failed to register hook: %v", err)
		}

		_, err := chain.SearchContext(context.Background(), 1)
		if err == nil {
			t.Fatal("expected error")
		}

		select {
		case e := <-failed:
			if e.Error == nil || e.Found {
				t.Errorf("unexpected failed event %+v", e)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for failed event")
		}
		if v := chain.Metrics().Counter(SearchFailuresTotal).Value(); v != 1 {
			t.Errorf("expected 1 failure, got %f", v)
		}
	})
}
