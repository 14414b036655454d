package client

import (
	"github.com/tomz197/starfall/internal/loop"
)

// HUD mirrors what the game reports through loop.Observer so the screens
// can draw it without reaching into the simulation.
type HUD struct {
	Score     int
	Health    float64
	MaxHealth float64
	Lives     int
	Tempo     float64
	Phase     string // label of the current difficulty phase
	Message   string // transient status line, empty when cleared
	EndReason string // why the last run stopped
}

func (h *HUD) ScoreChanged(score int) {
	h.Score = score
}

func (h *HUD) HealthChanged(health, maxHealth float64) {
	h.Health, h.MaxHealth = health, maxHealth
}

func (h *HUD) LivesChanged(lives int) {
	h.Lives = lives
}

func (h *HUD) TempoChanged(rate float64) {
	h.Tempo = rate
}

func (h *HUD) Status(e loop.StatusEvent) {
	switch e.Name {
	case loop.StatusClear:
		h.Message = ""
	case loop.StatusRunStarted:
		h.Message = ""
		h.Phase = ""
		h.EndReason = ""
	case loop.StatusRunOver:
		h.EndReason = e.Detail
	case loop.StatusLifeLost:
		h.Message = "Ship lost!"
	case loop.StatusShieldHit:
		h.Message = "Shield absorbed the hit"
	case loop.StatusPowerUp:
		h.Message = e.Detail + "!"
	case loop.StatusPowerUpExpired:
		h.Message = e.Detail + " wore off"
	case loop.StatusPhase:
		h.Phase = e.Detail
		h.Message = "Phase: " + e.Detail
	}
}

// HealthBar renders health as a fixed-width bar of filled and empty cells.
func (h *HUD) HealthBar(width int) string {
	filled := 0
	if h.MaxHealth > 0 {
		filled = int(h.Health / h.MaxHealth * float64(width))
	}
	if h.Health > 0 && filled == 0 {
		filled = 1
	}
	filled = min(max(filled, 0), width)
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}

var _ loop.Observer = (*HUD)(nil)
