package cell

import (
	"sync"
	"testing"
)

type testWatcher struct {
	onChanged func(old, new string, version uint64)
}

func (w *testWatcher) OnValueChanged(old, new string, version uint64) {
	if w.onChanged != nil {
		w.onChanged(old, new, version)
	}
}

func TestSignalGetSet(t *testing.T) {
	sig := NewSignal("a")

	if got := sig.Get(); got != "a" {
		t.Errorf("Get() = %q, want %q", got, "a")
	}
	if got := sig.Version(); got != 0 {
		t.Errorf("Version() = %d, want 0", got)
	}

	if !sig.Set("ab") {
		t.Error("Set with a new value should return true")
	}
	if got := sig.Get(); got != "ab" {
		t.Errorf("Get() after Set = %q, want %q", got, "ab")
	}
	if got := sig.Version(); got != 1 {
		t.Errorf("Version() after Set = %d, want 1", got)
	}
}

func TestSignalEqualValueIsNotAChange(t *testing.T) {
	sig := NewSignal("abc")

	notified := false
	sig.Watch(&testWatcher{onChanged: func(old, new string, version uint64) {
		notified = true
	}})

	if sig.Set("abc") {
		t.Error("Set with an equal value should return false")
	}
	if notified {
		t.Error("watcher should not be notified for an equal value")
	}
	if got := sig.Version(); got != 0 {
		t.Errorf("Version() = %d, want 0", got)
	}
}

func TestSignalNotifiesWatchers(t *testing.T) {
	sig := NewSignal("a")

	var gotOld, gotNew string
	var gotVersion uint64
	sig.Watch(&testWatcher{onChanged: func(old, new string, version uint64) {
		gotOld, gotNew, gotVersion = old, new, version
	}})

	sig.Set("ab")

	if gotOld != "a" {
		t.Errorf("old = %q, want %q", gotOld, "a")
	}
	if gotNew != "ab" {
		t.Errorf("new = %q, want %q", gotNew, "ab")
	}
	if gotVersion != 1 {
		t.Errorf("version = %d, want 1", gotVersion)
	}
}

func TestSignalUnwatch(t *testing.T) {
	sig := NewSignal("a")

	count := 0
	w := &testWatcher{onChanged: func(old, new string, version uint64) {
		count++
	}}

	sig.Watch(w)
	sig.Set("b")
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	sig.Unwatch(w)
	sig.Set("c")
	if count != 1 {
		t.Error("watcher should not be notified after Unwatch")
	}
}

func TestSignalMultipleWatchers(t *testing.T) {
	sig := NewSignal(0)

	var mu sync.Mutex
	var order []int

	for i := 0; i < 3; i++ {
		i := i
		sig.Watch(&intWatcher{onChanged: func(old, new int, version uint64) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}})
	}

	sig.Set(1)

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 {
		t.Fatalf("got %d notifications, want 3", len(order))
	}
	// Watchers are notified in subscription order
	for i, id := range order {
		if id != i {
			t.Errorf("notification %d went to watcher %d", i, id)
		}
	}
}

type intWatcher struct {
	onChanged func(old, new int, version uint64)
}

func (w *intWatcher) OnValueChanged(old, new int, version uint64) {
	if w.onChanged != nil {
		w.onChanged(old, new, version)
	}
}

func TestSignalVersionCountsOnlyRealChanges(t *testing.T) {
	sig := NewSignal("x")

	sig.Set("y")
	sig.Set("y")
	sig.Set("z")
	sig.Set("z")

	if got := sig.Version(); got != 2 {
		t.Errorf("Version() = %d, want 2", got)
	}
}
