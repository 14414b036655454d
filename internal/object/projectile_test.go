package object

import (
	"math"
	"testing"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

func newTestProjectiles(s Surface) *ProjectileManager {
	return NewProjectileManager(config.Default().Player, config.Default().Weapons.GuidedTurnDeg, FixedArena(1000, 800), s)
}

func TestProjectileSpawnDefaults(t *testing.T) {
	m := newTestProjectiles(nil)
	p := m.Spawn(physics.Vec{X: 100, Y: 500}, ShotOptions{})

	if p.Width != 6 || p.Height != 18 {
		t.Fatalf("size = %vx%v, want 6x18", p.Width, p.Height)
	}
	if p.X != 97 || p.Y != 482 {
		t.Fatalf("rect origin = (%v, %v), want (97, 482)", p.X, p.Y)
	}
	if math.Abs(p.Vel.X) > 1e-9 || math.Abs(p.Vel.Y+900) > 1e-9 {
		t.Fatalf("velocity = %+v, want straight up at 900", p.Vel)
	}
	if p.Damage != 1 || p.LifetimeMs != 4000 {
		t.Fatalf("damage/lifetime = %v/%v, want 1/4000", p.Damage, p.LifetimeMs)
	}
}

func TestProjectileRemovedExactlyWhenLifetimeExpires(t *testing.T) {
	s := newRecordingSurface()
	m := newTestProjectiles(s)
	p := m.Spawn(physics.Vec{X: 500, Y: 700}, ShotOptions{LifetimeMs: 100, Speed: 1})

	for i := 0; i < 3; i++ {
		m.Update(0.03, nil)
		if p.Removed() {
			t.Fatalf("removed after %d frames with %vms left", i+1, p.LifetimeMs)
		}
	}
	m.Update(0.03, nil)
	if !p.Removed() || m.Len() != 0 {
		t.Fatal("projectile still live after lifetime expired")
	}

	y := p.Y
	m.Update(0.03, nil)
	if p.Y != y {
		t.Fatal("removed projectile was updated")
	}
	if s.detached[p.ID] != 1 {
		t.Fatalf("detached %d times, want 1", s.detached[p.ID])
	}
}

func TestProjectileRemovedOffScreen(t *testing.T) {
	m := newTestProjectiles(nil)
	p := m.Spawn(physics.Vec{X: 500, Y: 10}, ShotOptions{Speed: 1000})
	m.Update(0.1, nil) // 100 units up: bottom at -108
	if !p.Removed() {
		t.Fatalf("projectile at y=%v not removed", p.Y)
	}
}

func TestHomingTurnsAtMostTurnRate(t *testing.T) {
	m := newTestProjectiles(nil)
	p := m.Spawn(physics.Vec{X: 500, Y: 500}, ShotOptions{Guided: true, Speed: 100, TurnRate: 1})

	target := &Threat{Body: Body{Rect: physics.Rect{X: 900, Y: 480, Width: 10, Height: 10}}}
	before := math.Atan2(p.Vel.Y, p.Vel.X)
	m.Update(0.1, []*Threat{target})
	after := math.Atan2(p.Vel.Y, p.Vel.X)

	if math.Abs((after-before)-0.1) > 1e-9 {
		t.Fatalf("turned %v rad in 0.1s at 1 rad/s, want 0.1", after-before)
	}
	if math.Abs(p.Vel.Len()-100) > 1e-9 {
		t.Fatalf("speed = %v, want 100", p.Vel.Len())
	}
	if p.Variant != ShotGuided {
		t.Fatalf("variant = %q, want %q", p.Variant, ShotGuided)
	}
}

func TestGuidedShotDefaultTurnRate(t *testing.T) {
	m := newTestProjectiles(nil)
	p := m.Spawn(physics.Vec{X: 500, Y: 500}, ShotOptions{Guided: true, Speed: 100})

	target := &Threat{Body: Body{Rect: physics.Rect{X: 900, Y: 480, Width: 10, Height: 10}}}
	before := math.Atan2(p.Vel.Y, p.Vel.X)
	m.Update(0.1, []*Threat{target})
	after := math.Atan2(p.Vel.Y, p.Vel.X)

	// 2.5 degrees per second for 0.1s.
	want := 0.25 * math.Pi / 180
	if math.Abs((after-before)-want) > 1e-9 {
		t.Fatalf("turned %v rad in 0.1s, want %v", after-before, want)
	}
}

func TestHomingPicksNearestLiveThreat(t *testing.T) {
	near := &Threat{Body: Body{Rect: physics.Rect{X: 10, Y: 0, Width: 2, Height: 2}}}
	far := &Threat{Body: Body{Rect: physics.Rect{X: 100, Y: 0, Width: 2, Height: 2}}}

	got, ok := nearestThreat(physics.Vec{}, []*Threat{far, near})
	if !ok || got.X != 11 {
		t.Fatalf("nearest = %+v, want center of near threat", got)
	}

	near.removed = true
	got, _ = nearestThreat(physics.Vec{}, []*Threat{far, near})
	if got.X != 101 {
		t.Fatalf("nearest = %+v, removed threat was chosen", got)
	}

	if _, ok := nearestThreat(physics.Vec{}, nil); ok {
		t.Fatal("nearestThreat found a target in an empty list")
	}
}

func TestProjectileRemove(t *testing.T) {
	m := newTestProjectiles(nil)
	a := m.Spawn(physics.Vec{X: 1, Y: 400}, ShotOptions{})
	b := m.Spawn(physics.Vec{X: 2, Y: 400}, ShotOptions{})

	if !m.Remove(a) {
		t.Fatal("Remove(a) = false")
	}
	if m.Remove(a) {
		t.Fatal("second Remove(a) = true")
	}
	if m.Len() != 1 || m.Items()[0] != b {
		t.Fatalf("items = %v, want only b", m.Items())
	}
}
