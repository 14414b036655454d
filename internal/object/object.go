// Package object holds the entity data model and the per-role managers
// (player, projectiles, enemy projectiles, threats, hit effects).
//
// Every manager owns a slice of entities and a Surface it keeps in sync:
// any entity whose rect changes is placed, and any entity removed from its
// slice is detached in the same call.
package object

import (
	"github.com/tomz197/starfall/internal/physics"
)

// Kind identifies what an entity visual represents.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindProjectile
	KindEnemyProjectile
	KindBeam
	KindMeteor
	KindEnemy
	KindPickup
	KindDrone
	KindLaser
	KindEffect
)

var kindNames = [...]string{
	KindPlayer:          "player",
	KindProjectile:      "projectile",
	KindEnemyProjectile: "enemy-projectile",
	KindBeam:            "beam",
	KindMeteor:          "meteor",
	KindEnemy:           "enemy",
	KindPickup:          "pickup",
	KindDrone:           "drone",
	KindLaser:           "laser",
	KindEffect:          "effect",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Telegraph markers shown by enemies before they fire.
const (
	MarkerAiming   = "aiming"
	MarkerCharging = "charging"
	MarkerAlert    = "alert" // player hitbox flash
)

// Visual is what a Surface needs to draw one entity.
type Visual struct {
	ID      string
	Kind    Kind
	Variant string // archetype or power-up id, shot flavour
	Rect    physics.Rect
	Marker  string // telegraph or alert state, empty when idle
	Frame   int    // animation frame for effects
}

// Surface is the visual sync collaborator. Place is called for every entity
// whose rect changed; Detach when an entity leaves the simulation.
type Surface interface {
	Place(v Visual)
	Detach(id string)
}

// NopSurface discards all visual updates.
type NopSurface struct{}

func (NopSurface) Place(Visual)  {}
func (NopSurface) Detach(string) {}

// SizeFunc reports the current arena size. It may return zeros while the
// host has not been laid out yet.
type SizeFunc func() (width, height float64)

// Arena is the bounds provider. Bounds are queried every frame and never
// cached because the host may resize between frames.
type Arena struct {
	Size     SizeFunc
	Fallback physics.Size
}

// FixedArena returns an arena with constant bounds.
func FixedArena(width, height float64) Arena {
	return Arena{Size: func() (float64, float64) { return width, height }}
}

// Bounds returns the current arena size, falling back to the default
// size when the provider reports a zero dimension.
func (a Arena) Bounds() physics.Size {
	if a.Size != nil {
		w, h := a.Size()
		s := physics.Size{Width: w, Height: h}
		if !s.IsZero() {
			return s
		}
	}
	if !a.Fallback.IsZero() {
		return a.Fallback
	}
	return physics.Size{Width: 960, Height: 720}
}

// Body is the shared shape of every movable entity: an id, a top-left
// rect and a velocity in units per second.
type Body struct {
	ID string
	physics.Rect
	Vel     physics.Vec
	removed bool
}

// Removed reports whether the entity has left its manager.
func (b *Body) Removed() bool {
	return b.removed
}

// Hitbox returns the entity rect.
func (b *Body) Hitbox() physics.Rect {
	return b.Rect
}

// Move advances the rect by the velocity.
func (b *Body) Move(dt float64) {
	b.X += b.Vel.X * dt
	b.Y += b.Vel.Y * dt
}

// compact drops removed entities from s in place and clears the tail so
// the backing array does not pin them.
func compact[T interface{ Removed() bool }](s []T) []T {
	kept := s[:0]
	for _, item := range s {
		if !item.Removed() {
			kept = append(kept, item)
		}
	}
	clear(s[len(kept):])
	return kept
}
