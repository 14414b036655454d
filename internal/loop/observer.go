package loop

// Status event names.
const (
	StatusRunStarted     = "run-started"
	StatusRunOver        = "run-over"
	StatusLifeLost       = "life-lost"
	StatusShieldHit      = "shield-hit"
	StatusPowerUp        = "power-up"
	StatusPowerUpExpired = "power-up-expired"
	StatusPhase          = "phase"
	StatusClear          = "status-clear"
)

// StatusEvent is a named message for the HUD.
type StatusEvent struct {
	Name   string
	Detail string // Power-up label, phase label or stop reason
	Score  int
}

// Observer receives HUD updates from the game. Calls happen on the frame
// goroutine and must not block.
type Observer interface {
	ScoreChanged(score int)
	HealthChanged(health, maxHealth float64)
	LivesChanged(lives int)
	TempoChanged(rate float64)
	Status(e StatusEvent)
}

// NopObserver ignores every update.
type NopObserver struct{}

func (NopObserver) ScoreChanged(int)               {}
func (NopObserver) HealthChanged(float64, float64) {}
func (NopObserver) LivesChanged(int)               {}
func (NopObserver) TempoChanged(float64)           {}
func (NopObserver) Status(StatusEvent)             {}

// Observers fans every update out to each observer in order.
type Observers []Observer

func (o Observers) ScoreChanged(score int) {
	for _, ob := range o {
		ob.ScoreChanged(score)
	}
}

func (o Observers) HealthChanged(health, maxHealth float64) {
	for _, ob := range o {
		ob.HealthChanged(health, maxHealth)
	}
}

func (o Observers) LivesChanged(lives int) {
	for _, ob := range o {
		ob.LivesChanged(lives)
	}
}

func (o Observers) TempoChanged(rate float64) {
	for _, ob := range o {
		ob.TempoChanged(rate)
	}
}

func (o Observers) Status(e StatusEvent) {
	for _, ob := range o {
		ob.Status(e)
	}
}
