package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/tomz197/starfall/internal/loop"
)

func TestSinkBatchesEvents(t *testing.T) {
	out := make(chan Batch, 8)
	s := newSink(10*time.Millisecond, func(b Batch) {
		out <- b
	})
	defer s.Close()

	s.Send(Event{Kind: KindKill, I: 2})
	s.Send(Event{Kind: KindDamage, F: 3.5})
	s.Send(Event{Kind: KindFrame, F: 0.016})
	s.Send(Event{Kind: KindFrame, F: 0.018})

	deadline := time.After(700 * time.Millisecond)
	for {
		select {
		case b := <-out:
			// Ignore empty periodic flushes; validate the first non-empty batch.
			if b.empty() {
				continue
			}
			if b.Kills != 2 {
				t.Fatalf("kills = %d, want 2", b.Kills)
			}
			if !approxEqual(b.Damage, 3.5) {
				t.Fatalf("damage = %.6f, want 3.5", b.Damage)
			}
			if b.Frames != 2 {
				t.Fatalf("frames = %d, want 2", b.Frames)
			}
			if !approxEqual(b.AvgDt, 0.017) {
				t.Fatalf("avg dt = %.6f, want 0.017", b.AvgDt)
			}
			return

		case <-deadline:
			t.Fatal("timed out waiting for telemetry batch")
		}
	}
}

func TestSinkFrameSendsStatDeltas(t *testing.T) {
	out := make(chan Batch, 8)
	s := newSink(time.Hour, func(b Batch) {
		out <- b
	})

	s.Frame(0.016, loop.Stats{Frames: 1, Kills: 1, DamageTaken: 10})
	s.Frame(0.016, loop.Stats{Frames: 2, Kills: 3, DamageTaken: 10})
	// A new run starts the counters over.
	s.Frame(0.016, loop.Stats{Frames: 1, Kills: 1})
	s.Close()

	b := <-out
	if b.Kills != 4 {
		t.Fatalf("kills = %d, want 4", b.Kills)
	}
	if !approxEqual(b.Damage, 10) {
		t.Fatalf("damage = %v, want 10", b.Damage)
	}
	if b.Frames != 3 {
		t.Fatalf("frames = %d, want 3", b.Frames)
	}
}

func TestSinkObserverEvents(t *testing.T) {
	out := make(chan Batch, 8)
	s := newSink(time.Hour, func(b Batch) {
		out <- b
	})
	defer s.Close()

	var ob loop.Observer = s
	ob.ScoreChanged(120)
	ob.Status(loop.StatusEvent{Name: loop.StatusPowerUp, Detail: "Shield"})
	ob.Status(loop.StatusEvent{Name: loop.StatusRunOver, Score: 150})

	select {
	case b := <-out:
		if b.Score != 150 || b.PowerUps != 1 {
			t.Fatalf("batch = %+v, want score 150 and one power-up", b)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run over did not flush")
	}
}

func TestSinkDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	s := newSink(time.Hour, func(Batch) {
		<-block
	})
	// Park the loop inside flush so nothing drains the buffer.
	s.Send(Event{Kind: KindRunOver})
	time.Sleep(20 * time.Millisecond)

	for i := 0; i < cap(s.in)+10; i++ {
		s.Send(Event{Kind: KindFrame, F: 0.016})
	}
	if s.Dropped() < 10 {
		t.Fatalf("dropped = %d, want at least 10", s.Dropped())
	}
	close(block)
	s.Close()
}

func TestSinkCloseIsIdempotent(t *testing.T) {
	s := newSink(10*time.Millisecond, nil)

	done := make(chan struct{})
	go func() {
		s.Close()
		s.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("sink close blocked")
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-4
}
