package powerup

import (
	"testing"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

var (
	triple = &Definition{ID: "triple-shot", DurationKey: config.DurationTripleShot}
	shield = &Definition{ID: "shield", Immediate: true}
)

type recorder struct {
	activated []string
	expired   []string
	tracked   bool
}

func newTestManager(r *recorder, catalog ...*Definition) *Manager {
	tuning := config.Default().PowerUps
	return NewManager(Options{
		Catalog: catalog,
		Tuning:  tuning,
		Arena:   object.FixedArena(1000, 800),
		Random:  func() float64 { return 0 }, // gap = ScoreGapMin
		OnActivate: func(def *Definition, _ Activation) bool {
			r.activated = append(r.activated, def.ID)
			return r.tracked
		},
		OnExpire: func(def *Definition) {
			r.expired = append(r.expired, def.ID)
		},
	})
}

func TestHandleScoreSpawnsPerThresholdCrossed(t *testing.T) {
	m := newTestManager(&recorder{}, triple)

	if got := m.HandleScore(1999); got != 0 {
		t.Fatalf("below threshold spawned %d", got)
	}
	// 2000 and 3200 are both crossed by one jump.
	if got := m.HandleScore(3300); got != 2 {
		t.Fatalf("double crossing spawned %d, want 2", got)
	}
	if len(m.Pickups()) != 2 {
		t.Fatalf("pickups = %d, want 2", len(m.Pickups()))
	}
	if got := m.NextThreshold(); got != 4400 {
		t.Fatalf("next threshold = %v, want 4400", got)
	}
}

func TestHandleScoreRespectsCap(t *testing.T) {
	m := newTestManager(&recorder{}, triple)
	if got := m.HandleScore(20000); got != 2 {
		t.Fatalf("spawned %d with cap 2", got)
	}
	if m.NextThreshold() <= 20000 {
		t.Fatalf("threshold stuck at %v", m.NextThreshold())
	}
}

func TestActivateTracksAndRefreshes(t *testing.T) {
	r := &recorder{tracked: true}
	m := newTestManager(r, triple)

	m.Activate(triple, 1000)
	m.Activate(triple, 5000)
	effects := m.Effects()
	if len(effects) != 1 {
		t.Fatalf("effects = %d, want 1 (refresh, not stack)", len(effects))
	}
	if effects[0].ExpiresAt != 5000+16000 {
		t.Fatalf("expires at %v, want %v", effects[0].ExpiresAt, 5000+16000)
	}

	m.UpdateEffects(20000)
	if len(r.expired) != 0 {
		t.Fatal("expired before the refreshed deadline")
	}
	m.UpdateEffects(21000)
	if len(r.expired) != 1 || m.Active(triple.ID) {
		t.Fatalf("expired = %v, active = %v", r.expired, m.Active(triple.ID))
	}
}

func TestImmediateEffectsAreNotTracked(t *testing.T) {
	r := &recorder{tracked: true}
	m := newTestManager(r, shield)
	m.Activate(shield, 0)
	if len(r.activated) != 1 || m.Active(shield.ID) {
		t.Fatalf("immediate effect tracked: %v", m.Effects())
	}
}

func TestUntrackedActivationIsNotRecorded(t *testing.T) {
	r := &recorder{tracked: false}
	m := newTestManager(r, triple)
	m.Activate(triple, 0)
	if m.Active(triple.ID) {
		t.Fatal("callback declined tracking but effect was recorded")
	}
}

func TestClearRevertsActiveEffects(t *testing.T) {
	r := &recorder{tracked: true}
	m := newTestManager(r, triple)
	m.HandleScore(2000)
	m.Activate(triple, 0)

	m.Clear()
	if len(r.expired) != 1 {
		t.Fatalf("Clear fired %d expiries, want 1", len(r.expired))
	}
	if len(m.Pickups()) != 0 || len(m.Effects()) != 0 {
		t.Fatal("Clear left pickups or effects behind")
	}
	if m.NextThreshold() != 2000 {
		t.Fatalf("threshold = %v, want reset to 2000", m.NextThreshold())
	}
}

func TestCollectActivatesOverlappingPickups(t *testing.T) {
	r := &recorder{tracked: true}
	m := newTestManager(r, triple)
	p := m.Spawn(triple)

	miss := physics.Rect{X: 500, Y: 500, Width: 10, Height: 10}
	if got := m.Collect(miss, 0); len(got) != 0 {
		t.Fatalf("collected %d without overlap", len(got))
	}

	got := m.Collect(p.Rect, 100)
	if len(got) != 1 || len(m.Pickups()) != 0 {
		t.Fatalf("collected %d, %d pickups left", len(got), len(m.Pickups()))
	}
	if !m.Active(triple.ID) {
		t.Fatal("collected pickup not activated")
	}
}

func TestUpdateDropsFallenPickups(t *testing.T) {
	m := newTestManager(&recorder{}, triple)
	m.Spawn(triple)
	m.Update(1, 0) // 140 units
	if len(m.Pickups()) != 1 {
		t.Fatal("pickup dropped while inside the arena")
	}
	m.Update(10, 0)
	if len(m.Pickups()) != 0 {
		t.Fatal("pickup below the arena not dropped")
	}
}
