package object

import (
	"math"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

// PlayerID is the visual id of the player's ship.
const PlayerID = "player"

// Player is the pointer-controlled ship. Pos is the center of the sprite.
type Player struct {
	Pos    physics.Vec // Current center
	Target physics.Vec // Desired center, approached at a capped speed
	Size   physics.Size

	Health    float64
	MaxHealth float64
	BaseSpeed float64 // Units per second before the speed multiplier

	startRatio float64 // Start height as a fraction of the arena height
	marker     string
	arena      Arena
	surface    Surface
}

// NewPlayer creates a ship at the start position with full health.
func NewPlayer(cfg config.Player, arena Arena, surface Surface) *Player {
	if surface == nil {
		surface = NopSurface{}
	}
	p := &Player{
		Size:       physics.Size{Width: cfg.Width, Height: cfg.Height},
		MaxHealth:  cfg.MaxHealth,
		BaseSpeed:  cfg.MoveSpeed,
		startRatio: cfg.StartHeightRatio,
		arena:      arena,
		surface:    surface,
	}
	if p.startRatio <= 0 {
		p.startRatio = 0.8
	}
	p.Reset()
	return p
}

// Reset restores full health and moves the ship to the center-bottom start.
func (p *Player) Reset() {
	p.Health = p.MaxHealth
	b := p.arena.Bounds()
	start := physics.Vec{X: b.Width / 2, Y: b.Height * p.startRatio}
	p.SetPosition(start.X, start.Y)
	p.Target = p.Pos
}

// SetTarget records where the ship should head. It does not move the ship.
func (p *Player) SetTarget(x, y float64) {
	p.Target = physics.Vec{X: x, Y: y}
}

// SetPosition places the ship, clamped so the sprite stays inside the arena.
func (p *Player) SetPosition(x, y float64) {
	b := p.arena.Bounds()
	hw, hh := p.Size.Width/2, p.Size.Height/2
	p.Pos = physics.Vec{
		X: physics.Clamp(x, hw, b.Width-hw),
		Y: physics.Clamp(y, hh, b.Height-hh),
	}
	p.sync()
}

// Update moves toward the target at BaseSpeed*speedMultiplier units per
// second, snapping when the target is within one step.
func (p *Player) Update(dt, speedMultiplier float64) {
	delta := p.Target.Sub(p.Pos)
	dist := delta.Len()
	if dist == 0 {
		// Bounds may have shrunk under a stationary ship.
		p.SetPosition(p.Pos.X, p.Pos.Y)
		return
	}
	step := p.BaseSpeed * speedMultiplier * dt
	if dist <= step {
		p.SetPosition(p.Target.X, p.Target.Y)
		return
	}
	next := p.Pos.Add(delta.Scale(step / dist))
	p.SetPosition(next.X, next.Y)
}

// ApplyDamage subtracts amount from health, floored at zero, and returns
// the remaining health.
func (p *Player) ApplyDamage(amount float64) float64 {
	p.Health = math.Max(0, p.Health-amount)
	return p.Health
}

// Heal restores health up to MaxHealth.
func (p *Player) Heal(amount float64) {
	p.Health = math.Min(p.MaxHealth, p.Health+amount)
}

// Hitbox returns the sprite rect.
func (p *Player) Hitbox() physics.Rect {
	return physics.RectAround(p.Pos, p.Size)
}

// GunPosition is the top-center of the sprite, where shots spawn.
func (p *Player) GunPosition() physics.Vec {
	return physics.Vec{X: p.Pos.X, Y: p.Pos.Y - p.Size.Height/2}
}

// SetMarker sets the visual alert state (empty to clear) and resyncs.
func (p *Player) SetMarker(marker string) {
	if p.marker == marker {
		return
	}
	p.marker = marker
	p.sync()
}

// Marker returns the current alert state.
func (p *Player) Marker() string {
	return p.marker
}

func (p *Player) sync() {
	p.surface.Place(Visual{ID: PlayerID, Kind: KindPlayer, Rect: p.Hitbox(), Marker: p.marker})
}
