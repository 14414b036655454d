// Package powerup manages falling pickups and timed power-up effects.
package powerup

import (
	"math"
	"slices"
	"strconv"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// Definition is a static catalog entry.
type Definition struct {
	ID          string
	Label       string
	Icon        string
	Description string
	Immediate   bool   // Applied once, never tracked
	DurationKey string // Looked up in the duration table
}

// Pickup is a falling power-up waiting to be collected.
type Pickup struct {
	object.Body
	Definition *Definition
}

// Effect is an active timed power-up.
type Effect struct {
	Definition *Definition
	ExpiresAt  float64 // Timestamp in milliseconds
}

// Activation is passed to the activate callback.
type Activation struct {
	Duration  float64 // Milliseconds, 0 for immediate effects
	ExpiresAt float64
}

// ActivateFunc applies a power-up and reports whether it should be tracked
// until expiry.
type ActivateFunc func(def *Definition, a Activation) bool

// ExpireFunc reverts a tracked power-up.
type ExpireFunc func(def *Definition)

// Options configures a Manager.
type Options struct {
	Catalog    []*Definition
	Tuning     config.PowerUps
	Arena      object.Arena
	Surface    object.Surface
	Random     physics.Random
	OnActivate ActivateFunc
	OnExpire   ExpireFunc
}

// Manager owns pickups and active effects.
type Manager struct {
	pickups   []*Pickup
	effects   map[string]*Effect
	catalog   []*Definition
	cfg       config.PowerUps
	arena     object.Arena
	surface   object.Surface
	rnd       physics.Random
	onActive  ActivateFunc
	onExpire  ExpireFunc
	nextSpawn float64 // Score threshold for the next pickup
	nextID    int
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	m := &Manager{
		effects:  make(map[string]*Effect),
		catalog:  opts.Catalog,
		cfg:      opts.Tuning,
		arena:    opts.Arena,
		surface:  opts.Surface,
		rnd:      opts.Random,
		onActive: opts.OnActivate,
		onExpire: opts.OnExpire,
	}
	if m.surface == nil {
		m.surface = object.NopSurface{}
	}
	if m.rnd == nil {
		m.rnd = physics.DefaultRandom
	}
	if m.onActive == nil {
		m.onActive = func(*Definition, Activation) bool { return true }
	}
	if m.onExpire == nil {
		m.onExpire = func(*Definition) {}
	}
	m.nextSpawn = float64(m.cfg.MinScore)
	return m
}

// Update moves pickups down, drops those that fell out of the arena and
// expires effects due at timestamp.
func (m *Manager) Update(dt, timestamp float64) {
	b := m.arena.Bounds()
	kept := m.pickups[:0]
	for _, p := range m.pickups {
		p.Y += m.cfg.PickupSpeed * dt
		if p.Y > b.Height+p.Height {
			m.surface.Detach(p.ID)
			continue
		}
		m.sync(p)
		kept = append(kept, p)
	}
	clear(m.pickups[len(kept):])
	m.pickups = kept
	m.UpdateEffects(timestamp)
}

// HandleScore spawns one pickup per threshold crossed by score. Each
// crossing advances the threshold by a random gap; the pickup cap skips
// the spawn but not the advance.
func (m *Manager) HandleScore(score int) int {
	spawned := 0
	for float64(score) >= m.nextSpawn {
		if m.spawnRandom() {
			spawned++
		}
		gap := math.Round(physics.RandomBetween(m.rnd, m.cfg.ScoreGapMin, m.cfg.ScoreGapMax))
		m.nextSpawn += math.Max(gap, 1)
	}
	return spawned
}

// NextThreshold returns the score at which the next pickup spawns.
func (m *Manager) NextThreshold() float64 {
	return m.nextSpawn
}

func (m *Manager) spawnRandom() bool {
	if len(m.catalog) == 0 {
		return false
	}
	if m.cfg.MaxPickups > 0 && len(m.pickups) >= m.cfg.MaxPickups {
		return false
	}
	i := int(m.rnd() * float64(len(m.catalog)))
	i = min(max(i, 0), len(m.catalog)-1)
	m.Spawn(m.catalog[i])
	return true
}

// Spawn drops a pickup of def at a random x above the top edge.
func (m *Manager) Spawn(def *Definition) *Pickup {
	size := m.cfg.PickupSize
	if size <= 0 {
		size = 28
	}
	b := m.arena.Bounds()
	m.nextID++
	p := &Pickup{
		Body: object.Body{
			ID: def.ID + "-" + strconv.Itoa(m.nextID),
			Rect: physics.Rect{
				X:      physics.RandomBetween(m.rnd, 0, math.Max(0, b.Width-size)),
				Y:      -size,
				Width:  size,
				Height: size,
			},
		},
		Definition: def,
	}
	m.pickups = append(m.pickups, p)
	m.sync(p)
	return p
}

// Collect removes every pickup overlapping hitbox and activates it.
// It returns the collected definitions.
func (m *Manager) Collect(hitbox physics.Rect, timestamp float64) []*Definition {
	var collected []*Definition
	m.pickups = slices.DeleteFunc(m.pickups, func(p *Pickup) bool {
		if !p.Intersects(hitbox) {
			return false
		}
		collected = append(collected, p.Definition)
		m.surface.Detach(p.ID)
		return true
	})
	for _, def := range collected {
		m.Activate(def, timestamp)
	}
	return collected
}

// Duration returns the effect lifetime of def in milliseconds.
func (m *Manager) Duration(def *Definition) float64 {
	if def.Immediate {
		return 0
	}
	return m.cfg.Duration(def.DurationKey)
}

// Activate applies def. Tracked effects are recorded by id, so activating
// an effect that is already running only refreshes its expiry.
func (m *Manager) Activate(def *Definition, timestamp float64) {
	d := m.Duration(def)
	a := Activation{Duration: d}
	if d > 0 {
		a.ExpiresAt = timestamp + d
	}
	if !m.onActive(def, a) || d <= 0 {
		return
	}
	m.effects[def.ID] = &Effect{Definition: def, ExpiresAt: a.ExpiresAt}
}

// UpdateEffects expires effects whose time has come, in id order.
func (m *Manager) UpdateEffects(timestamp float64) {
	for _, id := range m.activeIDs() {
		e := m.effects[id]
		if timestamp >= e.ExpiresAt {
			delete(m.effects, id)
			m.onExpire(e.Definition)
		}
	}
}

// Active reports whether an effect with the given id is running.
func (m *Manager) Active(id string) bool {
	_, ok := m.effects[id]
	return ok
}

// Effects returns the running effects in id order.
func (m *Manager) Effects() []Effect {
	out := make([]Effect, 0, len(m.effects))
	for _, id := range m.activeIDs() {
		out = append(out, *m.effects[id])
	}
	return out
}

// Pickups returns the falling pickups.
func (m *Manager) Pickups() []*Pickup {
	return m.pickups
}

// Clear removes all pickups, reverts every running effect and resets the
// spawn threshold.
func (m *Manager) Clear() {
	for _, p := range m.pickups {
		m.surface.Detach(p.ID)
	}
	clear(m.pickups)
	m.pickups = m.pickups[:0]
	for _, id := range m.activeIDs() {
		e := m.effects[id]
		delete(m.effects, id)
		m.onExpire(e.Definition)
	}
	m.nextSpawn = float64(m.cfg.MinScore)
}

func (m *Manager) activeIDs() []string {
	ids := make([]string, 0, len(m.effects))
	for id := range m.effects {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m *Manager) sync(p *Pickup) {
	m.surface.Place(object.Visual{ID: p.ID, Kind: object.KindPickup, Variant: p.Definition.ID, Rect: p.Rect})
}
