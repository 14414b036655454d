package loop

import (
	"slices"
	"testing"
)

func TestTimersRunInOrder(t *testing.T) {
	timers := NewTimers()
	var ran []string
	record := func(name string) func() { return func() { ran = append(ran, name) } }

	timers.Set("b", 200, record("b"))
	timers.Set("a", 100, record("a"))
	timers.Set("c", 300, record("c"))

	timers.Advance(250)
	if !slices.Equal(ran, []string{"a", "b"}) {
		t.Fatalf("ran = %v, want [a b]", ran)
	}
	if !timers.Pending("c") || timers.Len() != 1 {
		t.Fatal("future timer dropped")
	}
}

func TestTimersReplaceAndCancel(t *testing.T) {
	timers := NewTimers()
	calls := 0
	timers.Set("flash", 100, func() { calls += 10 })
	timers.Set("flash", 500, func() { calls++ })

	timers.Advance(100)
	if calls != 0 {
		t.Fatal("replaced timer ran")
	}
	timers.Advance(500)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	timers.Set("status", 100, func() { calls++ })
	timers.Cancel("status")
	timers.Advance(1000)
	if calls != 1 {
		t.Fatal("cancelled timer ran")
	}
}

func TestTimerCallbackCanCancelAnother(t *testing.T) {
	timers := NewTimers()
	ran := false
	timers.Set("first", 10, func() { timers.Cancel("second") })
	timers.Set("second", 20, func() { ran = true })
	timers.Advance(30)
	if ran {
		t.Fatal("timer cancelled by an earlier callback still ran")
	}
}

func TestTimersClear(t *testing.T) {
	timers := NewTimers()
	timers.Set("a", 1, func() { t.Fatal("cleared timer ran") })
	timers.Clear()
	timers.Advance(10)
	if timers.Len() != 0 {
		t.Fatal("timers left after Clear")
	}
}
