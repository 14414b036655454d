package object

import (
	"math"
	"slices"
	"strconv"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

// Shot variants, carried through to the visual.
const (
	ShotStandard = ""
	ShotCharged  = "charged"
	ShotGuided   = "guided"
	ShotDrone    = "drone"
)

// Behavior runs once per frame before a projectile moves.
type Behavior func(p *Projectile, dt float64, threats []*Threat)

// Projectile is a shot fired by the player or a support drone.
type Projectile struct {
	Body
	Damage     float64
	Piercing   bool    // Survives hits
	LifetimeMs float64 // Milliseconds remaining before removal
	Variant    string
	Behavior   Behavior
	struck     map[string]struct{} // Threat ids already hit, for piercing shots
}

// Strike records a hit on the threat with the given id and reports whether
// it is the first one. A piercing shot damages each threat once.
func (p *Projectile) Strike(id string) bool {
	if _, ok := p.struck[id]; ok {
		return false
	}
	if p.struck == nil {
		p.struck = make(map[string]struct{})
	}
	p.struck[id] = struct{}{}
	return true
}

// ShotOptions configures a spawned projectile. Zero values take the
// manager defaults.
type ShotOptions struct {
	Angle      float64 // Degrees, 0 = straight up, clockwise positive
	Speed      float64
	Damage     float64
	Piercing   bool
	LifetimeMs float64
	Guided     bool
	TurnRate   float64 // Radians per second
	Size       physics.Size
	Variant    string
	Behavior   Behavior // Overrides Guided
}

// ProjectileManager owns the player's shots.
type ProjectileManager struct {
	items    []*Projectile
	cfg      config.Player
	turnRate float64
	arena    Arena
	surface  Surface
	nextID   int
}

// NewProjectileManager creates an empty manager. guidedTurnDeg is the
// default homing turn rate in degrees per second.
func NewProjectileManager(cfg config.Player, guidedTurnDeg float64, arena Arena, surface Surface) *ProjectileManager {
	if surface == nil {
		surface = NopSurface{}
	}
	return &ProjectileManager{
		cfg:      cfg,
		turnRate: physics.DegToRad(guidedTurnDeg),
		arena:    arena,
		surface:  surface,
	}
}

// Spawn creates a projectile whose top-center sits at origin.
func (m *ProjectileManager) Spawn(origin physics.Vec, opts ShotOptions) *Projectile {
	speed := opts.Speed
	if speed == 0 {
		speed = m.cfg.LaserSpeed
	}
	damage := opts.Damage
	if damage == 0 {
		damage = m.cfg.BaseDamage
	}
	lifetime := opts.LifetimeMs
	if lifetime == 0 {
		lifetime = m.cfg.LaserLifetimeMs
	}
	size := opts.Size
	if size.IsZero() {
		size = physics.Size{Width: m.cfg.LaserWidth, Height: m.cfg.LaserHeight}
	}

	behavior := opts.Behavior
	variant := opts.Variant
	if behavior == nil && opts.Guided {
		turn := opts.TurnRate
		if turn == 0 {
			turn = m.turnRate
		}
		behavior = Homing(turn)
		if variant == "" {
			variant = ShotGuided
		}
	}

	m.nextID++
	p := &Projectile{
		Body: Body{
			ID: "laser-" + strconv.Itoa(m.nextID),
			Rect: physics.Rect{
				X:      origin.X - size.Width/2,
				Y:      origin.Y - size.Height,
				Width:  size.Width,
				Height: size.Height,
			},
			Vel: physics.VectorFromAngle(opts.Angle, speed),
		},
		Damage:     damage,
		Piercing:   opts.Piercing,
		LifetimeMs: lifetime,
		Variant:    variant,
		Behavior:   behavior,
	}
	m.items = append(m.items, p)
	m.sync(p)
	return p
}

// Homing returns a behavior that steers toward the nearest live threat,
// turning at most turnRate*dt radians per frame and keeping its speed.
func Homing(turnRate float64) Behavior {
	return func(p *Projectile, dt float64, threats []*Threat) {
		target, ok := nearestThreat(p.Center(), threats)
		if !ok {
			return
		}
		p.Vel = physics.RotateToward(p.Vel, target.Sub(p.Center()), turnRate*dt)
	}
}

// nearestThreat returns the center of the closest live threat by squared
// center distance.
func nearestThreat(from physics.Vec, threats []*Threat) (physics.Vec, bool) {
	best := math.Inf(1)
	var target physics.Vec
	found := false
	for _, t := range threats {
		if t.Removed() {
			continue
		}
		c := t.Center()
		d := physics.DistanceSquared(from.X, from.Y, c.X, c.Y)
		if d < best {
			best = d
			target = c
			found = true
		}
	}
	return target, found
}

// Update ages, steers and moves every projectile, removing those whose
// lifetime ran out or that left the arena.
func (m *ProjectileManager) Update(dt float64, threats []*Threat) {
	b := m.arena.Bounds()
	for _, p := range m.items {
		p.LifetimeMs -= dt * 1000
		if p.Behavior != nil {
			p.Behavior(p, dt, threats)
		}
		p.Move(dt)
		if p.LifetimeMs <= 0 ||
			p.Right() < -20 ||
			p.X > b.Width+20 ||
			p.Bottom() < -40 ||
			p.Y > b.Height+40 {
			m.detach(p)
			continue
		}
		m.sync(p)
	}
	m.items = compact(m.items)
}

// Remove takes p out of the simulation. It reports whether p was live.
func (m *ProjectileManager) Remove(p *Projectile) bool {
	i := slices.Index(m.items, p)
	if i < 0 {
		return false
	}
	m.items = slices.Delete(m.items, i, i+1)
	m.detach(p)
	return true
}

// Clear removes every projectile.
func (m *ProjectileManager) Clear() {
	for _, p := range m.items {
		m.detach(p)
	}
	clear(m.items)
	m.items = m.items[:0]
}

// Items returns the live projectiles. The slice must not be retained
// across calls that remove projectiles.
func (m *ProjectileManager) Items() []*Projectile {
	return m.items
}

// Len returns the number of live projectiles.
func (m *ProjectileManager) Len() int {
	return len(m.items)
}

func (m *ProjectileManager) detach(p *Projectile) {
	p.removed = true
	m.surface.Detach(p.ID)
}

func (m *ProjectileManager) sync(p *Projectile) {
	m.surface.Place(Visual{ID: p.ID, Kind: KindProjectile, Variant: p.Variant, Rect: p.Rect})
}
