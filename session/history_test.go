package session

import (
	"fmt"
	"testing"
)

func TestHistoryPrependAndCurrent(t *testing.T) {
	h := NewHistory(3)

	if _, ok := h.Current(); ok {
		t.Error("empty history should have no current command")
	}

	h = h.Prepend("compile")
	cur, ok := h.Current()
	if !ok || cur != "compile" {
		t.Errorf("Current = %q, %v, want compile", cur, ok)
	}
	if _, ok := h.Previous(); ok {
		t.Error("single-entry history should have no previous command")
	}

	h = h.Prepend("test")
	cur, _ = h.Current()
	prev, ok := h.Previous()
	if cur != "test" {
		t.Errorf("Current = %q, want test", cur)
	}
	if !ok || prev != "compile" {
		t.Errorf("Previous = %q, %v, want compile", prev, ok)
	}
}

func TestHistoryBound(t *testing.T) {
	// For N prepends with bound B, size == min(N, B) and Current is the
	// most recent command.
	for _, bound := range []int{1, 3, 10} {
		for n := 0; n < 15; n++ {
			h := NewHistory(bound)
			for i := 0; i < n; i++ {
				h = h.Prepend(fmt.Sprintf("cmd-%d", i))
			}
			want := n
			if want > bound {
				want = bound
			}
			if h.Len() != want {
				t.Errorf("bound=%d n=%d: Len = %d, want %d", bound, n, h.Len(), want)
			}
			if n > 0 {
				cur, _ := h.Current()
				if cur != fmt.Sprintf("cmd-%d", n-1) {
					t.Errorf("bound=%d n=%d: Current = %q", bound, n, cur)
				}
			}
		}
	}
}

func TestHistoryOverflowDropsOldest(t *testing.T) {
	h := NewHistory(2)
	h = h.Prepend("a")
	h = h.Prepend("b")
	h = h.Prepend("c")

	got := h.Commands()
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Errorf("Commands = %v, want [c b]", got)
	}
}

func TestHistoryResizeTruncates(t *testing.T) {
	h := NewHistory(5)
	for _, cmd := range []string{"a", "b", "c", "d"} {
		h = h.Prepend(cmd)
	}

	h = h.Resize(2)
	if h.MaxSize() != 2 {
		t.Errorf("MaxSize = %d, want 2", h.MaxSize())
	}
	got := h.Commands()
	if len(got) != 2 || got[0] != "d" || got[1] != "c" {
		t.Errorf("Commands = %v, want [d c]", got)
	}

	// Growing keeps existing entries.
	h = h.Resize(10)
	if h.Len() != 2 {
		t.Errorf("Len = %d after growing, want 2", h.Len())
	}
}

func TestHistoryClampsBound(t *testing.T) {
	h := NewHistory(0)
	if h.MaxSize() != 1 {
		t.Errorf("MaxSize = %d, want 1", h.MaxSize())
	}

	h = h.Prepend("a")
	h = h.Prepend("b")
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}

	// Zero-value History is usable with a bound of one.
	var zero History
	zero = zero.Prepend("x")
	if cur, ok := zero.Current(); !ok || cur != "x" {
		t.Errorf("zero-value Current = %q, %v", cur, ok)
	}
}

func TestHistoryPrependIsImmutable(t *testing.T) {
	h1 := NewHistory(3).Prepend("a")
	h2 := h1.Prepend("b")

	if cur, _ := h1.Current(); cur != "a" {
		t.Errorf("earlier snapshot changed: Current = %q, want a", cur)
	}
	if cur, _ := h2.Current(); cur != "b" {
		t.Errorf("later snapshot wrong: Current = %q, want b", cur)
	}
}

func TestHistoryCommandsIsACopy(t *testing.T) {
	h := NewHistory(3).Prepend("a")
	got := h.Commands()
	got[0] = "mutated"

	if cur, _ := h.Current(); cur != "a" {
		t.Error("mutating the Commands copy must not affect the history")
	}
}
