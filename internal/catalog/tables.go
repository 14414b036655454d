package catalog

import (
	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/powerup"
)

// Phases returns the difficulty tiers.
func Phases() []object.Phase {
	return []object.Phase{
		{ID: 1, Label: "Approach", MinScore: 0, SpawnFactor: 1.05},
		{ID: 2, Label: "Pressure", MinScore: 2600, SpawnFactor: 0.95},
		{ID: 3, Label: "Controlled Chaos", MinScore: 6200, SpawnFactor: 0.85},
		{ID: 4, Label: "Pre-Boss", MinScore: 10500, SpawnFactor: 0.72},
	}
}

// PowerUps returns the power-up catalog.
func PowerUps() []*powerup.Definition {
	return []*powerup.Definition{
		{ID: powerup.TripleShot, Label: "Triple Shot", Icon: "tri", Description: "Fires three shots in a cone.", DurationKey: config.DurationTripleShot},
		{ID: powerup.SideShot, Label: "Side Shot", Icon: "lat", Description: "Two extra shots to the sides.", DurationKey: config.DurationSideShot},
		{ID: powerup.ChargeShot, Label: "Charge Shot", Icon: "chg", Description: "Hold to release a piercing shot.", DurationKey: config.DurationChargeShot},
		{ID: powerup.LaserBeam, Label: "Continuous Laser", Icon: "las", Description: "Constant laser for a limited time.", DurationKey: config.DurationLaserBeam},
		{ID: powerup.Shield, Label: "Shield", Icon: "shd", Description: "Absorbs up to 3 hits.", Immediate: true},
		{ID: powerup.Speed, Label: "Speed", Icon: "spd", Description: "Increases ship speed.", DurationKey: config.DurationSpeedBoost},
		{ID: powerup.FireRate, Label: "Fire Rate", Icon: "rof", Description: "Fires faster.", DurationKey: config.DurationFireRate},
		{ID: powerup.ExtraLife, Label: "Extra Life", Icon: "1up", Description: "+1 life.", Immediate: true},
		{ID: powerup.SmartBomb, Label: "Smart Bomb", Icon: "bmb", Description: "Clears enemies and projectiles.", Immediate: true},
		{ID: powerup.GuidedShot, Label: "Guided Shot", Icon: "hom", Description: "Shots seek enemies.", DurationKey: config.DurationGuided},
		{ID: powerup.DamageBoost, Label: "Damage Boost", Icon: "dmg", Description: "Double damage for a while.", DurationKey: config.DurationDamage},
		{ID: powerup.Drones, Label: "Support Drones", Icon: "drn", Description: "Drones orbit and attack.", DurationKey: config.DurationDrones},
	}
}
