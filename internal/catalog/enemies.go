// Package catalog holds the read-only game tables: enemy archetypes,
// difficulty phases and power-ups. The simulation receives them through
// its options; nothing in the core imports this package.
package catalog

import (
	"math"

	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// Archetype ids.
const (
	Kamikaze    = "kamikaze"
	Shooter     = "shooter-basic"
	ZigZag      = "zig-zag"
	Swarm       = "swarm"
	Tank        = "tank"
	Sniper      = "sniper"
	Flanker     = "flanker"
	Bomber      = "bomber"
	Laser       = "laser"
	Spawner     = "spawner"
	SineShooter = "sine-shooter"
	Boomerang   = "boomerang"
	Orbiter     = "orbiters"
)

// Per-archetype state. Each behaviour asserts to its own type.

// WaveState drives sinusoidal movers.
type WaveState struct {
	Phase     float64
	Amplitude float64
	OriginX   float64
	Anchored  bool
}

func (*WaveState) StateKind() string { return "wave" }

// DriftState drives swarm and orbiter drift.
type DriftState struct {
	Angle  float64
	Radius float64
}

func (*DriftState) StateKind() string { return "drift" }

// TelegraphState drives enemies that warn before firing.
type TelegraphState struct {
	CooldownMs  float64
	Active      bool // Aiming or charging
	TelegraphMs float64
}

func (*TelegraphState) StateKind() string { return "telegraph" }

// FlankState remembers the entry side.
type FlankState struct {
	FromLeft bool
}

func (*FlankState) StateKind() string { return "flank" }

// SpawnerState counts down to the next sub-spawn.
type SpawnerState struct {
	CooldownMs float64
}

func (*SpawnerState) StateKind() string { return "spawner" }

// BoomerangState tracks the outbound leg.
type BoomerangState struct {
	ForwardMs float64
	Returning bool
}

func (*BoomerangState) StateKind() string { return "boomerang" }

// Sniper and laser telegraph timings.
const (
	sniperTelegraphMs = 600
	laserChargeMs     = 900
)

func spread(angles []float64, speed, damage float64, variant string) *object.Pattern {
	return &object.Pattern{Type: object.PatternSpread, Angles: angles, Speed: speed, Damage: damage, Variant: variant}
}

func randomPhase(rnd physics.Random) float64 {
	return physics.RandomBetween(rnd, 0, 2*math.Pi)
}

// Archetypes returns a fresh copy of the enemy table.
func Archetypes() []*object.Archetype {
	return []*object.Archetype{
		{
			ID: Kamikaze, Label: "Kamikaze", Phase: 1, Weight: 2.6,
			Integrity: 1, Reward: 55, Damage: 110,
			Speed:  object.Range{Min: 340, Max: 460},
			Update: chase,
		},
		{
			ID: Shooter, Label: "Shooter", Phase: 1, Weight: 3.1,
			Integrity: 2, Reward: 65, Damage: 90,
			Speed: object.Range{Min: 130, Max: 200},
			Fire: &object.FireConfig{
				CooldownMin: 1500, CooldownMax: 2300,
				Pattern: spread([]float64{90}, 420, 85, ""),
			},
		},
		{
			ID: ZigZag, Label: "Zig-Zag", Phase: 1, Weight: 2.4,
			Integrity: 2, Reward: 80, Damage: 95,
			Speed: object.Range{Min: 180, Max: 260},
			NewState: func(rnd physics.Random) object.ThreatState {
				return &WaveState{Phase: randomPhase(rnd), Amplitude: physics.RandomBetween(rnd, 60, 120)}
			},
			Update: zigZag,
			Fire: &object.FireConfig{
				CooldownMin: 2000, CooldownMax: 2800,
				Pattern: spread([]float64{80, 100}, 420, 70, ""),
			},
		},
		{
			ID: Swarm, Label: "Swarmers", Phase: 1, Weight: 1.8,
			Integrity: 1, Reward: 35, Damage: 70,
			Speed:      object.Range{Min: 260, Max: 320},
			SpawnGroup: swarmGroup,
			NewState: func(rnd physics.Random) object.ThreatState {
				return &DriftState{Angle: randomPhase(rnd)}
			},
			Update: swarmDrift,
		},
		{
			ID: Tank, Label: "Tank", Phase: 2, Weight: 1.4,
			Integrity: 7, Reward: 140, Damage: 140,
			Speed: object.Range{Min: 80, Max: 120},
			Fire: &object.FireConfig{
				CooldownMin: 2600, CooldownMax: 3800,
				Pattern: spread([]float64{70, 90, 110}, 360, 130, "tank"),
			},
		},
		{
			ID: Sniper, Label: "Sniper", Phase: 2, Weight: 1.1,
			Integrity: 3, Reward: 120, Damage: 160,
			Speed: object.Range{Min: 140, Max: 180},
			NewState: func(rnd physics.Random) object.ThreatState {
				return &TelegraphState{CooldownMs: physics.RandomBetween(rnd, 1200, 2200), TelegraphMs: sniperTelegraphMs}
			},
			Update: sniper,
		},
		{
			ID: Flanker, Label: "Flanker", Phase: 2, Weight: 1.5,
			Integrity: 3, Reward: 110, Damage: 120,
			Speed: object.Range{Min: 140, Max: 220},
			NewState: func(rnd physics.Random) object.ThreatState {
				return &FlankState{FromLeft: rnd() > 0.5}
			},
			OnSpawn: flankEntry,
			Update:  straight,
			Fire: &object.FireConfig{
				CooldownMin: 1800, CooldownMax: 2800,
				NewPattern: flankVolley,
			},
		},
		{
			ID: Bomber, Label: "Bomber", Phase: 3, Weight: 1.2,
			Integrity: 3, Reward: 150, Damage: 130,
			Speed: object.Range{Min: 150, Max: 210},
			OnDestroyed: func(t *object.Threat, h *object.Helpers) {
				h.Fire(object.Pattern{Type: object.PatternRadial, Count: 6, Speed: 360, Damage: 85, Variant: "bomber"})
			},
		},
		{
			ID: Laser, Label: "Laser Cannon", Phase: 3, Weight: 1,
			Integrity: 4, Reward: 180, Damage: 150,
			Speed: object.Range{Min: 100, Max: 160},
			NewState: func(rnd physics.Random) object.ThreatState {
				return &TelegraphState{CooldownMs: physics.RandomBetween(rnd, 1800, 2600), TelegraphMs: 1000}
			},
			Update: laserCannon,
		},
		{
			ID: Spawner, Label: "Spawner", Phase: 3, Weight: 0.9,
			Integrity: 5, Reward: 200, Damage: 120,
			Speed: object.Range{Min: 90, Max: 140},
			NewState: func(rnd physics.Random) object.ThreatState {
				return &SpawnerState{CooldownMs: physics.RandomBetween(rnd, 2000, 3600)}
			},
			Update: spawner,
		},
		{
			ID: SineShooter, Label: "Sine Shooter", Phase: 3, Weight: 1.3,
			Integrity: 3, Reward: 110, Damage: 110,
			Speed: object.Range{Min: 180, Max: 240},
			NewState: func(rnd physics.Random) object.ThreatState {
				return &WaveState{Phase: randomPhase(rnd), Amplitude: physics.RandomBetween(rnd, 80, 140)}
			},
			Update: sineDrift,
			Fire: &object.FireConfig{
				CooldownMin: 1300, CooldownMax: 2100,
				Pattern: spread([]float64{85, 95}, 460, 65, "fast"),
			},
		},
		{
			ID: Boomerang, Label: "Boomerang", Phase: 4, Weight: 1,
			Integrity: 3, Reward: 160, Damage: 140,
			Speed: object.Range{Min: 220, Max: 320},
			NewState: func(rnd physics.Random) object.ThreatState {
				return &BoomerangState{ForwardMs: physics.RandomBetween(rnd, 1200, 1600)}
			},
			Update: boomerang,
		},
		{
			ID: Orbiter, Label: "Orbiters", Phase: 4, Weight: 0.9,
			Integrity: 2, Reward: 140, Damage: 110,
			Speed: object.Range{Min: 180, Max: 240},
			NewState: func(rnd physics.Random) object.ThreatState {
				return &DriftState{Angle: randomPhase(rnd), Radius: physics.RandomBetween(rnd, 40, 90)}
			},
			Update: orbit,
			Fire: &object.FireConfig{
				CooldownMin: 1900, CooldownMax: 2600,
				Pattern: &object.Pattern{Type: object.PatternRadial, Count: 4, Speed: 360, Damage: 70, Variant: "orbiter"},
			},
		},
	}
}
