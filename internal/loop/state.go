package loop

// RunState is the score and remaining lives of the current run. Lives
// counts the life in play, so a run with one life ends on the next death.
type RunState struct {
	Score int
	Lives int
}

// Modifiers are the power-up driven stat multipliers and weapon flags.
// They are reset at run start and changed only by power-up callbacks.
type Modifiers struct {
	FireRateMultiplier float64
	DamageMultiplier   float64
	SpeedMultiplier    float64

	TripleShot      bool // Adds a shot on each side of the main one
	LateralShot     bool // Adds two wide-angle shots
	ChargeShot      bool // Hold fire to release a piercing shot
	GuidedShots     bool
	ContinuousLaser bool
	Drones          bool

	ShieldHits int // Hits absorbed before health is touched
}

// DefaultModifiers returns the modifiers of a fresh run.
func DefaultModifiers() Modifiers {
	return Modifiers{
		FireRateMultiplier: 1,
		DamageMultiplier:   1,
		SpeedMultiplier:    1,
	}
}

// Stats are per-run counters for the HUD and telemetry.
type Stats struct {
	ShotsFired  int // Volleys, not individual projectiles
	Kills       int
	DamageTaken float64
	Frames      int
}
