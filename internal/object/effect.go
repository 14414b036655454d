package object

import (
	"slices"
	"strconv"
	"sync"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

// effectPool reuses Effect values; hits spawn many short-lived flashes.
var effectPool = sync.Pool{
	New: func() any {
		return &Effect{}
	},
}

// Effect is a hit flash that steps through a fixed number of frames.
type Effect struct {
	ID      string
	Rect    physics.Rect
	Frame   int
	elapsed float64 // Milliseconds into the current frame
}

// EffectManager animates hit flashes centered on damaged entities.
type EffectManager struct {
	items   []*Effect
	cfg     config.Effects
	surface Surface
	nextID  int
}

// NewEffectManager creates an empty manager.
func NewEffectManager(cfg config.Effects, surface Surface) *EffectManager {
	if surface == nil {
		surface = NopSurface{}
	}
	if cfg.FrameMs <= 0 {
		cfg.FrameMs = 15
	}
	if cfg.FrameCount <= 0 {
		cfg.FrameCount = 16
	}
	return &EffectManager{cfg: cfg, surface: surface}
}

// Spawn starts a flash centered on r.
func (m *EffectManager) Spawn(r physics.Rect) {
	e := effectPool.Get().(*Effect)
	m.nextID++
	e.ID = "effect-" + strconv.Itoa(m.nextID)
	e.Rect = physics.RectAround(r.Center(), physics.Size{Width: m.cfg.Size, Height: m.cfg.Size})
	e.Frame = 0
	e.elapsed = 0
	m.items = append(m.items, e)
	m.sync(e)
}

// Update advances every flash by dtMs, one frame per FrameMs, and removes
// those past their last frame.
func (m *EffectManager) Update(dtMs float64) {
	kept := m.items[:0]
	for _, e := range m.items {
		e.elapsed += dtMs
		advanced := false
		for e.elapsed >= m.cfg.FrameMs && e.Frame < m.cfg.FrameCount {
			e.elapsed -= m.cfg.FrameMs
			e.Frame++
			advanced = true
		}
		if e.Frame >= m.cfg.FrameCount {
			m.release(e)
			continue
		}
		if advanced {
			m.sync(e)
		}
		kept = append(kept, e)
	}
	clear(m.items[len(kept):])
	m.items = kept
}

// Clear removes every flash.
func (m *EffectManager) Clear() {
	for _, e := range m.items {
		m.release(e)
	}
	clear(m.items)
	m.items = m.items[:0]
}

// Len returns the number of running flashes.
func (m *EffectManager) Len() int {
	return len(m.items)
}

// Items returns the running flashes.
func (m *EffectManager) Items() []*Effect {
	return slices.Clip(m.items)
}

func (m *EffectManager) release(e *Effect) {
	m.surface.Detach(e.ID)
	effectPool.Put(e)
}

func (m *EffectManager) sync(e *Effect) {
	m.surface.Place(Visual{ID: e.ID, Kind: KindEffect, Rect: e.Rect, Frame: e.Frame})
}
