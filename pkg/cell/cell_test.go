package cell

import (
	"sync"
	"testing"
)

func TestCellGetSet(t *testing.T) {
	c := NewCell("initial")

	if got := c.Get(); got != "initial" {
		t.Errorf("Get() = %q, want %q", got, "initial")
	}

	c.Set("updated")
	if got := c.Get(); got != "updated" {
		t.Errorf("Get() after Set = %q, want %q", got, "updated")
	}
}

func TestCellSwap(t *testing.T) {
	c := NewCell(1)

	old := c.Swap(2)
	if old != 1 {
		t.Errorf("Swap returned %d, want 1", old)
	}
	if got := c.Get(); got != 2 {
		t.Errorf("Get() after Swap = %d, want 2", got)
	}
}

func TestCellUpdate(t *testing.T) {
	c := NewCell(10)

	c.Update(func(v int) int { return v * 3 })
	if got := c.Get(); got != 30 {
		t.Errorf("Get() after Update = %d, want 30", got)
	}
}

func TestCellHoldsStructValues(t *testing.T) {
	type cursor struct {
		Line, Col int
	}

	c := NewCell(cursor{Line: 1})
	c.Update(func(cur cursor) cursor {
		cur.Col = 5
		return cur
	})

	got := c.Get()
	if got.Line != 1 || got.Col != 5 {
		t.Errorf("Get() = %+v, want {Line:1 Col:5}", got)
	}
}

func TestCellConcurrentUpdates(t *testing.T) {
	c := NewCell(0)

	const numGoroutines = 10
	const incrementsPer = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < incrementsPer; j++ {
				c.Update(func(v int) int { return v + 1 })
			}
		}()
	}
	wg.Wait()

	if got := c.Get(); got != numGoroutines*incrementsPer {
		t.Errorf("Get() = %d, want %d", got, numGoroutines*incrementsPer)
	}
}
