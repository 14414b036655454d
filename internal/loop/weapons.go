package loop

import (
	"math"
	"strconv"

	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

const laserID = "player-laser"

// drone is a support drone orbiting the ship.
type drone struct {
	id    string
	angle float64 // Radians
	pos   physics.Vec
}

// handleFireIntent fires while the pointer is held, or shows the charge
// marker once a charge shot is ready.
func (g *Game) handleFireIntent(timestamp float64) {
	if !g.firing {
		return
	}
	if g.mods.ChargeShot {
		if math.IsNaN(g.chargeStarted) {
			g.chargeStarted = timestamp
		}
		if timestamp-g.chargeStarted >= g.tuning.Player.ChargeShotHoldMs {
			g.Player.SetMarker(object.MarkerCharging)
		}
		return
	}
	g.tryShoot(timestamp)
}

// fireInterval is the cooldown between volleys in milliseconds.
func (g *Game) fireInterval() float64 {
	return g.tuning.Player.FireRateMs / math.Max(g.mods.FireRateMultiplier, 0.01)
}

// tryShoot fires a volley if the cooldown has elapsed.
func (g *Game) tryShoot(timestamp float64) {
	if !g.running || timestamp-g.lastShotAt < g.fireInterval() {
		return
	}
	g.lastShotAt = timestamp
	g.fireVolley()
}

// volleyAngles returns the shot angles for the current modifiers.
func (g *Game) volleyAngles() []float64 {
	angles := []float64{0}
	if g.mods.TripleShot {
		angles = append(angles, g.tuning.Weapons.TripleAngles...)
	}
	if g.mods.LateralShot {
		angles = append(angles, g.tuning.Weapons.LateralAngles...)
	}
	return angles
}

func (g *Game) shotDamage() float64 {
	return g.tuning.Player.BaseDamage * g.mods.DamageMultiplier
}

func (g *Game) fireVolley() {
	origin := g.Player.GunPosition()
	for _, angle := range g.volleyAngles() {
		g.Projectiles.Spawn(origin, object.ShotOptions{
			Angle:  angle,
			Damage: g.shotDamage(),
			Guided: g.mods.GuidedShots,
		})
	}
	g.stats.ShotsFired++
}

// fireChargedShot releases one large piercing shot.
func (g *Game) fireChargedShot() {
	w := g.tuning.Weapons
	g.Projectiles.Spawn(g.Player.GunPosition(), object.ShotOptions{
		Speed:    w.ChargeSpeed,
		Damage:   g.shotDamage() * w.ChargeDamage,
		Piercing: true,
		Guided:   g.mods.GuidedShots,
		Size:     physics.Size{Width: w.ChargeWidth, Height: w.ChargeHeight},
		Variant:  object.ShotCharged,
	})
	g.lastShotAt = g.now
	g.stats.ShotsFired++
}

func (g *Game) startDrones() {
	if len(g.drones) > 0 {
		return
	}
	cfg := g.tuning.PowerUps.Drone
	count := max(cfg.Count, 1)
	for i := 0; i < count; i++ {
		d := &drone{
			id:    "drone-" + strconv.Itoa(i+1),
			angle: 2 * math.Pi * float64(i) / float64(count),
		}
		g.drones = append(g.drones, d)
	}
	g.placeDrones()
	g.droneNextShot = g.now + cfg.FireRateMs
}

func (g *Game) clearDrones() {
	for _, d := range g.drones {
		g.surface.Detach(d.id)
	}
	g.drones = nil
}

// updateDrones advances the orbit and fires one shot per drone on their
// shared cooldown.
func (g *Game) updateDrones(dt, timestamp float64) {
	if len(g.drones) == 0 {
		return
	}
	cfg := g.tuning.PowerUps.Drone
	for _, d := range g.drones {
		d.angle = math.Mod(d.angle+cfg.OrbitSpeed*dt, 2*math.Pi)
	}
	g.placeDrones()
	if timestamp < g.droneNextShot {
		return
	}
	g.droneNextShot = timestamp + cfg.FireRateMs
	for _, d := range g.drones {
		g.Projectiles.Spawn(physics.Vec{X: d.pos.X, Y: d.pos.Y - cfg.Size/2}, object.ShotOptions{
			Damage:  g.shotDamage(),
			Guided:  g.mods.GuidedShots,
			Variant: object.ShotDrone,
		})
	}
}

func (g *Game) placeDrones() {
	cfg := g.tuning.PowerUps.Drone
	center := g.Player.Pos
	size := physics.Size{Width: cfg.Size, Height: cfg.Size}
	for _, d := range g.drones {
		d.pos = physics.Vec{
			X: center.X + math.Cos(d.angle)*cfg.OrbitRadius,
			Y: center.Y + math.Sin(d.angle)*cfg.OrbitRadius,
		}
		g.surface.Place(object.Visual{ID: d.id, Kind: object.KindDrone, Rect: physics.RectAround(d.pos, size)})
	}
}

// updateLaser sweeps the continuous laser from the gun to the top edge and
// burns every threat it touches.
func (g *Game) updateLaser(dt float64) {
	if !g.mods.ContinuousLaser {
		g.stopLaser()
		return
	}
	gun := g.Player.GunPosition()
	width := g.tuning.Weapons.LaserBeamWidth
	beam := physics.Rect{X: gun.X - width/2, Y: 0, Width: width, Height: math.Max(0, gun.Y)}
	g.laser = &beam
	g.surface.Place(object.Visual{ID: laserID, Kind: object.KindLaser, Rect: beam})

	damage := g.tuning.Weapons.LaserDPS * g.mods.DamageMultiplier * dt
	if damage <= 0 {
		return
	}
	for _, t := range cloneThreats(g.Threats.Items()) {
		if t.Removed() || !beam.Intersects(t.Rect) {
			continue
		}
		if t.Hit(damage) {
			g.killThreat(t)
		}
	}
}

func (g *Game) stopLaser() {
	if g.laser == nil {
		return
	}
	g.laser = nil
	g.surface.Detach(laserID)
}
