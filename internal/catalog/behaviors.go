package catalog

import (
	"math"

	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// chase steers straight at the player at 1.1x speed. Without a player it
// falls straight down. Position is integrated by the manager.
func chase(t *object.Threat, _, _ float64, h *object.Helpers) bool {
	target := h.PlayerPosition()
	if target == nil {
		t.Vel = physics.Vec{Y: t.Speed}
		return false
	}
	dir := physics.Normalize(target.X-(t.X+t.Width/2), target.Y-t.Y)
	t.Vel = dir.Scale(t.Speed * 1.1)
	return false
}

func zigZag(t *object.Threat, dt, _ float64, _ *object.Helpers) bool {
	s, ok := t.State.(*WaveState)
	if !ok {
		return false
	}
	s.Phase += dt * 3.4
	if !s.Anchored {
		s.OriginX = t.X
		s.Anchored = true
	}
	t.X = s.OriginX + math.Sin(s.Phase)*s.Amplitude
	t.Vel = physics.Vec{Y: t.Speed * 0.9}
	t.Y += t.Vel.Y * dt
	return true
}

// swarmGroup lines up 4 to 6 swarmers around a random cluster center.
func swarmGroup(bounds physics.Size, rnd physics.Random) []object.Overrides {
	count := 4 + int(math.Floor(physics.RandomBetween(rnd, 0, 3)))
	center := physics.RandomBetween(rnd, 60, math.Max(120, bounds.Width-60))
	out := make([]object.Overrides, count)
	for i := range out {
		offset := (float64(i) - float64(count-1)/2) * 38
		out[i].Position = &physics.Vec{
			X: physics.Clamp(center+offset, 10, math.Max(10, bounds.Width-60)),
			Y: -(40 + float64(i)*12),
		}
	}
	return out
}

func swarmDrift(t *object.Threat, dt, _ float64, _ *object.Helpers) bool {
	s, ok := t.State.(*DriftState)
	if !ok {
		return false
	}
	s.Angle += dt * 4
	t.Vel = physics.Vec{X: math.Cos(s.Angle) * 140, Y: t.Speed * 1.2}
	t.Move(dt)
	return true
}

// sniper descends slowly, shows an aiming telegraph, then fires one fast
// aimed bolt.
func sniper(t *object.Threat, dt, dtMs float64, h *object.Helpers) bool {
	s, ok := t.State.(*TelegraphState)
	if !ok {
		return false
	}
	t.Vel = physics.Vec{Y: t.Speed * 0.7}
	t.Y += t.Vel.Y * dt
	s.CooldownMs -= dtMs
	switch {
	case s.Active:
		s.TelegraphMs -= dtMs
		if s.TelegraphMs <= 0 {
			h.Fire(object.Pattern{Type: object.PatternAimed, Speed: 520, Damage: 180, Variant: "sniper"})
			t.Marker = ""
			s.Active = false
			s.CooldownMs = h.RandomBetween(2000, 3200)
			s.TelegraphMs = sniperTelegraphMs
		}
	case s.CooldownMs <= 0:
		s.Active = true
		t.Marker = object.MarkerAiming
		s.TelegraphMs = sniperTelegraphMs
	}
	return true
}

// flankEntry moves the flanker to one side edge, a little down the arena,
// heading across.
func flankEntry(t *object.Threat, h *object.Helpers) {
	s, ok := t.State.(*FlankState)
	if !ok {
		return
	}
	if s.FromLeft {
		t.X = -t.Width
	} else {
		t.X = h.Bounds.Width + t.Width
	}
	t.Y = h.RandomBetween(h.Bounds.Height*0.15, h.Bounds.Height*0.45)
	horizontal := h.RandomBetween(180, 260)
	if !s.FromLeft {
		horizontal = -horizontal
	}
	t.Vel = physics.Vec{X: horizontal, Y: h.RandomBetween(40, 80)}
}

func straight(t *object.Threat, dt, _ float64, _ *object.Helpers) bool {
	t.Move(dt)
	return true
}

func flankVolley(t *object.Threat, _ *object.Helpers) (object.Pattern, bool) {
	angles := []float64{180, 162, 120}
	if s, ok := t.State.(*FlankState); ok && s.FromLeft {
		angles = []float64{0, 18, 60}
	}
	return object.Pattern{Type: object.PatternSpread, Angles: angles, Speed: 420, Damage: 75}, true
}

// laserCannon descends, shows a charging telegraph, then fires a beam.
func laserCannon(t *object.Threat, dt, dtMs float64, h *object.Helpers) bool {
	s, ok := t.State.(*TelegraphState)
	if !ok {
		return false
	}
	t.Vel = physics.Vec{Y: t.Speed * 0.6}
	t.Y += t.Vel.Y * dt
	s.CooldownMs -= dtMs
	switch {
	case s.Active:
		s.TelegraphMs -= dtMs
		if s.TelegraphMs <= 0 {
			h.Fire(object.Pattern{Type: object.PatternBeam, DamagePerSecond: 280, DurationMs: 1100, BeamWidth: 14})
			t.Marker = ""
			s.Active = false
			s.CooldownMs = h.RandomBetween(2600, 3600)
			s.TelegraphMs = laserChargeMs
		}
	case s.CooldownMs <= 0:
		s.Active = true
		t.Marker = object.MarkerCharging
		s.TelegraphMs = laserChargeMs
	}
	return true
}

// spawner drops a swarmer below itself every few seconds.
func spawner(t *object.Threat, dt, dtMs float64, h *object.Helpers) bool {
	s, ok := t.State.(*SpawnerState)
	if !ok {
		return false
	}
	t.Vel = physics.Vec{Y: t.Speed * 0.5}
	t.Y += t.Vel.Y * dt
	s.CooldownMs -= dtMs
	if s.CooldownMs <= 0 {
		offset := h.RandomBetween(-30, 30)
		h.Spawn(Swarm, object.Overrides{Position: &physics.Vec{X: t.X + t.Width/2 + offset, Y: t.Bottom()}})
		s.CooldownMs = h.RandomBetween(2400, 3600)
	}
	return true
}

func sineDrift(t *object.Threat, dt, _ float64, _ *object.Helpers) bool {
	s, ok := t.State.(*WaveState)
	if !ok {
		return false
	}
	s.Phase += dt * 2.4
	t.Y += t.Speed * dt
	t.X += math.Sin(s.Phase) * 90 * dt
	return true
}

// boomerang dives with a slight weave, then reverses upward and fires a
// single spread at the turning point.
func boomerang(t *object.Threat, dt, dtMs float64, h *object.Helpers) bool {
	s, ok := t.State.(*BoomerangState)
	if !ok {
		return false
	}
	s.ForwardMs -= dtMs
	if !s.Returning && s.ForwardMs <= 0 {
		s.Returning = true
		t.Vel.Y = -t.Speed * 0.8
		h.Fire(object.Pattern{Type: object.PatternSpread, Angles: []float64{60, 100, 120}, Speed: 420, Damage: 80, Variant: "return"})
	}
	if !s.Returning {
		t.Vel = physics.Vec{X: math.Sin(s.ForwardMs*0.002) * t.Speed * 0.4, Y: t.Speed}
	}
	t.Move(dt)
	return true
}

func orbit(t *object.Threat, dt, _ float64, _ *object.Helpers) bool {
	s, ok := t.State.(*DriftState)
	if !ok {
		return false
	}
	s.Angle += dt * 2.8
	t.Vel = physics.Vec{X: math.Cos(s.Angle) * s.Radius, Y: t.Speed}
	t.Move(dt)
	return true
}
