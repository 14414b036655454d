package loop

import (
	"slices"

	"github.com/tomz197/starfall/internal/object"
)

func cloneThreats(items []*object.Threat) []*object.Threat {
	return slices.Clone(items)
}

// checkCollisions resolves the frame's overlaps after every position has
// been updated: shots against threats, enemy fire against the ship, threats
// ramming the ship, then pickups.
func (g *Game) checkCollisions(dt, timestamp float64) {
	g.checkShotThreatCollisions()
	if !g.running {
		return
	}
	g.checkEnemyFireCollisions(dt)
	if !g.running {
		return
	}
	g.checkRamCollisions()
	if !g.running {
		return
	}
	for _, def := range g.PowerUps.Collect(g.Player.Hitbox(), timestamp) {
		g.logger.Debug("power-up collected", "id", def.ID)
	}
}

// checkShotThreatCollisions applies player shots to threats. Candidates
// come from the grid in spawn order, so a non-piercing shot always hits
// the oldest overlapping threat.
func (g *Game) checkShotThreatCollisions() {
	threats := cloneThreats(g.Threats.Items())
	if len(threats) == 0 || g.Projectiles.Len() == 0 {
		return
	}
	b := g.arena.Bounds()
	g.grid.Resize(b.Width, b.Height)
	g.grid.Clear()
	for i, t := range threats {
		g.grid.Insert(t.Rect, i)
	}

	for _, p := range slices.Clone(g.Projectiles.Items()) {
		if p.Removed() {
			continue
		}
		g.grid.Query(p.Rect, func(i int) bool {
			t := threats[i]
			if t.Removed() || !p.Intersects(t.Rect) {
				return false
			}
			if p.Piercing {
				if p.Strike(t.ID) {
					g.hitThreat(t, p.Damage)
				}
				return false
			}
			g.hitThreat(t, p.Damage)
			g.Projectiles.Remove(p)
			return true
		})
	}
}

// hitThreat applies damage and destroys t when its integrity runs out.
func (g *Game) hitThreat(t *object.Threat, damage float64) {
	if t.Hit(damage) {
		g.killThreat(t)
	}
}

// checkEnemyFireCollisions applies enemy fire to the ship. Bolts are
// consumed on contact unless persistent; persistent bolts hit once. Beams
// burn for their damage per second while overlapping, and a shield charge
// blocks a whole beam.
func (g *Game) checkEnemyFireCollisions(dt float64) {
	hitbox := g.Player.Hitbox()
	for _, p := range slices.Clone(g.EnemyProjectiles.Items()) {
		if p.Removed() || p.Spent || !p.Intersects(hitbox) {
			continue
		}
		switch {
		case p.Beam:
			damage := p.DamagePerSecond * dt
			if damage > 0 && g.mods.ShieldHits > 0 {
				p.Spent = true
			}
			g.damagePlayer(damage)
		case p.Persistent:
			p.Spent = true
			g.damagePlayer(p.Damage)
		default:
			g.EnemyProjectiles.Remove(p)
			g.damagePlayer(p.Damage)
		}
		if !g.running {
			return
		}
	}
}

// checkRamCollisions removes every threat touching the ship, without
// reward, and applies its damage.
func (g *Game) checkRamCollisions() {
	hitbox := g.Player.Hitbox()
	for _, t := range cloneThreats(g.Threats.Items()) {
		if t.Removed() || !t.Intersects(hitbox) {
			continue
		}
		g.Threats.Remove(t)
		g.Effects.Spawn(t.Rect)
		g.damagePlayer(t.Damage)
		if !g.running {
			return
		}
	}
}
