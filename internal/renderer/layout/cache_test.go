package layout

import (
	"sync"
	"testing"

	"github.com/dshills/codepad/internal/renderer/core"
)

func countingMeasure(calls *int) MeasureFunc {
	return func(text string, font core.Font) int {
		*calls++
		return len(text)
	}
}

func TestMeasureCacheHitsAndMisses(t *testing.T) {
	calls := 0
	cache := NewMeasureCache(countingMeasure(&calls), 10)

	if got := cache.Measure("hello", core.MonoFont); got != 5 {
		t.Errorf("Measure = %d, want 5", got)
	}
	cache.Measure("hello", core.MonoFont)
	cache.Measure("hello", core.Font{Bold: true})

	if calls != 2 {
		t.Errorf("underlying measure called %d times, want 2", calls)
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("stats = %+v, want 1 hit and 2 misses", stats)
	}
	if stats.Size != 2 || stats.MaxSize != 10 {
		t.Errorf("stats = %+v, want size 2 of 10", stats)
	}
}

func TestMeasureCacheEviction(t *testing.T) {
	calls := 0
	cache := NewMeasureCache(countingMeasure(&calls), 4)

	for _, s := range []string{"a", "bb", "ccc", "dddd"} {
		cache.Measure(s, core.MonoFont)
	}
	// Touch "a" so it is the most recently used entry.
	cache.Measure("a", core.MonoFont)
	cache.Measure("eeeee", core.MonoFont)

	if cache.Size() != 3 {
		t.Fatalf("Size = %d, want 3 after evicting down to capacity", cache.Size())
	}
	if cache.Stats().Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", cache.Stats().Evictions)
	}

	before := calls
	cache.Measure("a", core.MonoFont)
	if calls != before {
		t.Error("recently used entry should survive eviction")
	}
}

func TestMeasureCacheInvalidate(t *testing.T) {
	calls := 0
	cache := NewMeasureCache(countingMeasure(&calls), 0)
	cache.Measure("x", core.MonoFont)
	cache.Invalidate()
	cache.Measure("x", core.MonoFont)

	if calls != 2 {
		t.Errorf("calls = %d, want 2 after invalidation", calls)
	}
	if cache.Stats().MaxSize != 4096 {
		t.Errorf("default MaxSize = %d, want 4096", cache.Stats().MaxSize)
	}
}

func TestMeasureCacheConcurrent(t *testing.T) {
	cache := NewMeasureCache(CellMeasure, 64)
	layoutMeasure := cache.Func()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Layout([]Run{{Text: "concurrent measuring of words", Font: core.MonoFont}}, 10+j%5, layoutMeasure)
			}
		}()
	}
	wg.Wait()

	if cache.Stats().Hits == 0 {
		t.Error("expected cache hits from repeated layouts")
	}
}
