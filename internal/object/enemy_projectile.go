package object

import (
	"math"
	"slices"
	"strconv"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

// PatternType selects how a Pattern is turned into projectiles.
type PatternType string

const (
	PatternSpread PatternType = "spread"
	PatternAimed  PatternType = "aimed"
	PatternRadial PatternType = "radial"
	PatternBeam   PatternType = "beam"
)

// Pattern describes an enemy volley. Angles use screen orientation:
// 0° points right and 90° points straight down. Zero values take defaults.
type Pattern struct {
	Type PatternType // Empty means spread

	Angles     []float64 // Spread: explicit headings
	Count      int       // Spread/aimed fan size, radial projectile count
	Spread     float64   // Spread: total arc; aimed: step between shots
	Angle      float64   // Spread: center heading when Angles is empty (0 means 90)
	StartAngle float64   // Radial: heading of the first projectile

	Speed  float64
	Damage float64

	Persistent bool    // Survives hitting the player
	DurationMs float64 // Aimed: time to live; beam: how long it lasts

	DamagePerSecond float64 // Beam
	BeamWidth       float64 // Beam
	Length          float64 // Beam; 0 reaches the bottom of the arena

	Target       *physics.Vec // Aimed: overrides the player position
	Origin       *physics.Vec // Overrides the muzzle position
	OriginOffset physics.Vec  // Added to the default muzzle position
	Variant      string
}

// EnemyProjectile is an enemy bolt or beam.
type EnemyProjectile struct {
	Body
	Damage          float64 // Per hit, for bolts
	DamagePerSecond float64 // For beams
	Persistent      bool
	TTL             float64 // Seconds remaining when HasTTL
	HasTTL          bool
	Beam            bool
	Spent           bool // Already resolved against the player (shielded beam, persistent bolt)
	Variant         string
}

// EnemyProjectileManager owns enemy-fired projectiles. Volleys come in
// through FirePattern, which the threat manager reaches through its fire
// callback.
type EnemyProjectileManager struct {
	items   []*EnemyProjectile
	cfg     config.Enemy
	arena   Arena
	surface Surface
	nextID  int
}

// NewEnemyProjectileManager creates an empty manager.
func NewEnemyProjectileManager(cfg config.Enemy, arena Arena, surface Surface) *EnemyProjectileManager {
	if surface == nil {
		surface = NopSurface{}
	}
	return &EnemyProjectileManager{cfg: cfg, arena: arena, surface: surface}
}

// FirePattern emits the volley described by p from the shooter's rect.
// player is the aim target for aimed patterns; an aimed pattern with no
// target fires nothing.
func (m *EnemyProjectileManager) FirePattern(shooter physics.Rect, p Pattern, player *physics.Vec) {
	origin := resolveOrigin(shooter, p)
	switch p.Type {
	case PatternAimed:
		m.spawnAimed(origin, p, player)
	case PatternRadial:
		m.spawnRadial(origin, p)
	case PatternBeam:
		m.spawnBeam(origin, p)
	default:
		m.spawnSpread(origin, p)
	}
}

// resolveOrigin returns the muzzle: bottom-center of the shooter, nudged
// up so shots leave from inside the sprite.
func resolveOrigin(shooter physics.Rect, p Pattern) physics.Vec {
	if p.Origin != nil {
		return *p.Origin
	}
	base := physics.Vec{X: shooter.X + shooter.Width/2, Y: shooter.Y + shooter.Height - 6}
	return base.Add(p.OriginOffset)
}

// SpreadAngles resolves the headings of a spread pattern.
func SpreadAngles(p Pattern) []float64 {
	if len(p.Angles) > 0 {
		return p.Angles
	}
	base := p.Angle
	if base == 0 {
		base = 90
	}
	count := max(p.Count, 1)
	if count == 1 {
		return []float64{base}
	}
	start := base - p.Spread/2
	step := p.Spread / float64(count-1)
	angles := make([]float64, count)
	for i := range angles {
		angles[i] = start + step*float64(i)
	}
	return angles
}

func (m *EnemyProjectileManager) spawnSpread(origin physics.Vec, p Pattern) {
	for _, angle := range SpreadAngles(p) {
		m.spawnBolt(origin, angle, p, orDefault(p.Speed, m.cfg.LaserSpeed), orDefault(p.Damage, m.cfg.ProjectileDamage))
	}
}

func (m *EnemyProjectileManager) spawnAimed(origin physics.Vec, p Pattern, player *physics.Vec) {
	target := p.Target
	if target == nil {
		target = player
	}
	if target == nil {
		return
	}
	base := physics.RadToDeg(math.Atan2(target.Y-origin.Y, target.X-origin.X))
	count := max(p.Count, 1)
	start := base - p.Spread*float64(count-1)/2
	speed := orDefault(p.Speed, m.cfg.LaserSpeed+60)
	damage := orDefault(p.Damage, m.cfg.ProjectileDamage+20)
	for i := 0; i < count; i++ {
		m.spawnBolt(origin, start+p.Spread*float64(i), p, speed, damage)
	}
}

func (m *EnemyProjectileManager) spawnRadial(origin physics.Vec, p Pattern) {
	count := p.Count
	if count <= 0 {
		count = 6
	}
	step := 360 / float64(count)
	for i := 0; i < count; i++ {
		m.spawnBolt(origin, p.StartAngle+step*float64(i), p, orDefault(p.Speed, m.cfg.LaserSpeed), orDefault(p.Damage, m.cfg.ProjectileDamage))
	}
}

func (m *EnemyProjectileManager) spawnBeam(origin physics.Vec, p Pattern) {
	width := orDefault(p.BeamWidth, 12)
	height := p.Length
	if height <= 0 {
		height = math.Max(0, m.arena.Bounds().Height-origin.Y)
	}
	m.nextID++
	beam := &EnemyProjectile{
		Body: Body{
			ID:   "enemy-beam-" + strconv.Itoa(m.nextID),
			Rect: physics.Rect{X: origin.X - width/2, Y: origin.Y, Width: width, Height: height},
		},
		DamagePerSecond: orDefault(p.DamagePerSecond, 200),
		Persistent:      true,
		TTL:             orDefault(p.DurationMs, 1200) / 1000,
		HasTTL:          true,
		Beam:            true,
		Variant:         p.Variant,
	}
	m.items = append(m.items, beam)
	m.sync(beam)
}

func (m *EnemyProjectileManager) spawnBolt(origin physics.Vec, angle float64, p Pattern, speed, damage float64) {
	w, h := m.cfg.ProjectileWidth, m.cfg.ProjectileHeight
	m.nextID++
	bolt := &EnemyProjectile{
		Body: Body{
			ID:   "enemy-laser-" + strconv.Itoa(m.nextID),
			Rect: physics.Rect{X: origin.X - w/2, Y: origin.Y - h, Width: w, Height: h},
			Vel:  physics.AngleVector(angle, speed),
		},
		Damage:     damage,
		Persistent: p.Persistent,
		Variant:    p.Variant,
	}
	if p.Type == PatternAimed && p.DurationMs > 0 {
		bolt.TTL = p.DurationMs / 1000
		bolt.HasTTL = true
	}
	m.items = append(m.items, bolt)
	m.sync(bolt)
}

// Update moves bolts and expires beams and bolts whose time ran out or
// that left the arena.
func (m *EnemyProjectileManager) Update(dt float64) {
	b := m.arena.Bounds()
	for _, p := range m.items {
		p.Move(dt)
		if p.HasTTL {
			p.TTL -= dt
			if p.TTL <= 0 {
				m.detach(p)
				continue
			}
		}
		if !p.Beam && (p.Right() < -20 ||
			p.X > b.Width+20 ||
			p.Y < -40 ||
			p.Y > b.Height+20) {
			m.detach(p)
			continue
		}
		if !p.Beam {
			m.sync(p)
		}
	}
	m.items = compact(m.items)
}

// Remove takes p out of the simulation. It reports whether p was live.
func (m *EnemyProjectileManager) Remove(p *EnemyProjectile) bool {
	i := slices.Index(m.items, p)
	if i < 0 {
		return false
	}
	m.items = slices.Delete(m.items, i, i+1)
	m.detach(p)
	return true
}

// Clear removes every enemy projectile.
func (m *EnemyProjectileManager) Clear() {
	for _, p := range m.items {
		m.detach(p)
	}
	clear(m.items)
	m.items = m.items[:0]
}

// Items returns the live enemy projectiles.
func (m *EnemyProjectileManager) Items() []*EnemyProjectile {
	return m.items
}

// Len returns the number of live enemy projectiles.
func (m *EnemyProjectileManager) Len() int {
	return len(m.items)
}

func (m *EnemyProjectileManager) detach(p *EnemyProjectile) {
	p.removed = true
	m.surface.Detach(p.ID)
}

func (m *EnemyProjectileManager) sync(p *EnemyProjectile) {
	kind := KindEnemyProjectile
	if p.Beam {
		kind = KindBeam
	}
	m.surface.Place(Visual{ID: p.ID, Kind: kind, Variant: p.Variant, Rect: p.Rect})
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
