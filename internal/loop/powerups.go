package loop

import (
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/powerup"
)

// activatePowerUp applies def to the modifiers. It reports false for ids
// the game does not know, so they are never tracked.
func (g *Game) activatePowerUp(def *powerup.Definition, a powerup.Activation) bool {
	cfg := g.tuning.PowerUps
	switch def.ID {
	case powerup.TripleShot:
		g.mods.TripleShot = true
	case powerup.SideShot:
		g.mods.LateralShot = true
	case powerup.ChargeShot:
		g.mods.ChargeShot = true
	case powerup.LaserBeam:
		g.mods.ContinuousLaser = true
	case powerup.Shield:
		g.mods.ShieldHits += cfg.ShieldHits
	case powerup.Speed:
		g.mods.SpeedMultiplier = cfg.SpeedMultiplier
	case powerup.FireRate:
		g.mods.FireRateMultiplier = cfg.FireRateMultiplier
	case powerup.ExtraLife:
		g.state.Lives++
		g.observer.LivesChanged(g.state.Lives)
	case powerup.SmartBomb:
		g.smartBomb()
	case powerup.GuidedShot:
		g.mods.GuidedShots = true
	case powerup.DamageBoost:
		g.mods.DamageMultiplier = cfg.DamageMultiplier
	case powerup.Drones:
		g.mods.Drones = true
		g.startDrones()
	default:
		g.logger.Debug("unknown power-up", "id", def.ID)
		return false
	}
	g.logger.Debug("power-up active", "id", def.ID, "duration", a.Duration)
	g.status(StatusEvent{Name: StatusPowerUp, Detail: def.Label})
	return true
}

// expirePowerUp reverts a tracked power-up.
func (g *Game) expirePowerUp(def *powerup.Definition) {
	switch def.ID {
	case powerup.TripleShot:
		g.mods.TripleShot = false
	case powerup.SideShot:
		g.mods.LateralShot = false
	case powerup.ChargeShot:
		g.mods.ChargeShot = false
		if g.Player.Marker() == object.MarkerCharging {
			g.Player.SetMarker("")
		}
	case powerup.LaserBeam:
		g.mods.ContinuousLaser = false
		g.stopLaser()
	case powerup.Speed:
		g.mods.SpeedMultiplier = 1
	case powerup.FireRate:
		g.mods.FireRateMultiplier = 1
	case powerup.GuidedShot:
		g.mods.GuidedShots = false
	case powerup.DamageBoost:
		g.mods.DamageMultiplier = 1
	case powerup.Drones:
		g.mods.Drones = false
		g.clearDrones()
	default:
		return
	}
	g.logger.Debug("power-up expired", "id", def.ID)
	if g.running {
		g.status(StatusEvent{Name: StatusPowerUpExpired, Detail: def.Label})
	}
}

// smartBomb destroys every threat with full reward, then clears enemy fire,
// including any bursts the destroyed hooks just emitted.
func (g *Game) smartBomb() {
	for _, t := range cloneThreats(g.Threats.Items()) {
		g.killThreat(t)
	}
	g.EnemyProjectiles.Clear()
}
