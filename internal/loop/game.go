// Package loop runs the simulation core: it owns every entity manager,
// drives them once per frame in a fixed order, resolves collisions and
// applies scoring, damage and power-up effects.
package loop

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
	"github.com/tomz197/starfall/internal/powerup"
)

const gridCellSize = 96

// Timer names.
const (
	timerHitbox = "hitbox-flash"
	timerStatus = "status-clear"
)

// Options configures a Game. Catalog tables are injected so tests can
// substitute smaller ones.
type Options struct {
	Archetypes []*object.Archetype
	Phases     []object.Phase
	PowerUps   []*powerup.Definition
	Tuning     config.Tuning
	Surface    object.Surface
	Arena      object.Arena
	Observer   Observer
	Logger     *log.Logger
	Random     physics.Random
}

// Game is one player's run. It is not safe for concurrent use; hosts call
// every method from the frame goroutine.
type Game struct {
	Player           *object.Player
	Projectiles      *object.ProjectileManager
	EnemyProjectiles *object.EnemyProjectileManager
	Threats          *object.ThreatManager
	PowerUps         *powerup.Manager
	Effects          *object.EffectManager

	tuning   config.Tuning
	arena    object.Arena
	surface  object.Surface
	observer Observer
	logger   *log.Logger
	rnd      physics.Random
	timers   *Timers
	grid     *physics.RectGrid

	state   RunState
	mods    Modifiers
	stats   Stats
	running bool
	now     float64 // Timestamp of the current frame
	last    float64 // Timestamp of the previous frame
	tempo   float64
	phaseID int

	firing        bool
	lastShotAt    float64
	chargeStarted float64 // Press timestamp, NaN when not charging

	drones        []*drone
	droneNextShot float64
	laser         *physics.Rect // Continuous laser, nil when off

	debugHitboxes bool
}

// New wires the managers together. The game is idle until Start.
func New(opts Options) *Game {
	g := &Game{
		tuning:        opts.Tuning,
		arena:         opts.Arena,
		surface:       opts.Surface,
		observer:      opts.Observer,
		logger:        opts.Logger,
		rnd:           opts.Random,
		timers:        NewTimers(),
		mods:          DefaultModifiers(),
		chargeStarted: math.NaN(),
		lastShotAt:    math.Inf(-1),
		debugHitboxes: opts.Tuning.Debug.ShowHitboxes,
	}
	if g.surface == nil {
		g.surface = object.NopSurface{}
	}
	if g.observer == nil {
		g.observer = NopObserver{}
	}
	if g.logger == nil {
		g.logger = log.Default()
	}
	if g.rnd == nil {
		g.rnd = physics.DefaultRandom
	}
	if g.arena.Fallback.IsZero() {
		g.arena.Fallback = physics.Size{Width: opts.Tuning.Arena.FallbackWidth, Height: opts.Tuning.Arena.FallbackHeight}
	}

	t := opts.Tuning
	g.Player = object.NewPlayer(t.Player, g.arena, g.surface)
	g.Projectiles = object.NewProjectileManager(t.Player, t.Weapons.GuidedTurnDeg, g.arena, g.surface)
	g.EnemyProjectiles = object.NewEnemyProjectileManager(t.Enemy, g.arena, g.surface)
	g.Threats = object.NewThreatManager(object.ThreatOptions{
		Archetypes: opts.Archetypes,
		Phases:     opts.Phases,
		Spawns:     t.Spawns,
		Meteor:     t.Meteor,
		Enemy:      t.Enemy,
		Arena:      g.arena,
		Surface:    g.surface,
		Random:     g.rnd,
		Logger:     g.logger,
		Fire: func(source *object.Threat, p object.Pattern, player *physics.Vec) {
			g.EnemyProjectiles.FirePattern(source.Rect, p, player)
		},
	})
	g.PowerUps = powerup.NewManager(powerup.Options{
		Catalog:    opts.PowerUps,
		Tuning:     t.PowerUps,
		Arena:      g.arena,
		Surface:    g.surface,
		Random:     g.rnd,
		OnActivate: g.activatePowerUp,
		OnExpire:   g.expirePowerUp,
	})
	g.Effects = object.NewEffectManager(t.Effects, g.surface)

	b := g.arena.Bounds()
	g.grid = physics.NewRectGrid(b.Width, b.Height, gridCellSize)
	return g
}

// Start resets every manager and begins a run at timestamp.
func (g *Game) Start(timestamp float64) {
	g.running = false
	g.Projectiles.Clear()
	g.EnemyProjectiles.Clear()
	g.Threats.Clear()
	g.PowerUps.Clear()
	g.Effects.Clear()
	g.stopLaser()
	g.clearDrones()
	g.timers.Clear()

	g.mods = DefaultModifiers()
	g.state = RunState{Lives: max(1, g.tuning.Player.InitialLives)}
	g.stats = Stats{}
	g.Player.Reset()
	g.Player.SetMarker("")

	g.firing = false
	g.chargeStarted = math.NaN()
	g.lastShotAt = math.Inf(-1)
	g.now = timestamp
	g.last = timestamp
	g.tempo = 0
	g.phaseID = g.Threats.Phase().ID
	g.running = true

	g.observer.ScoreChanged(0)
	g.observer.HealthChanged(g.Player.Health, g.Player.MaxHealth)
	g.observer.LivesChanged(g.state.Lives)
	g.updateTempo()
	g.observer.Status(StatusEvent{Name: StatusRunStarted})
	g.logger.Info("run started", "lives", g.state.Lives)
}

// Stop ends the run. The next Frame is a no-op and returns false.
func (g *Game) Stop(reason string) {
	if !g.running {
		return
	}
	g.running = false
	g.firing = false
	g.chargeStarted = math.NaN()
	g.Player.SetMarker("")
	g.stopLaser()
	g.EnemyProjectiles.Clear()
	g.observer.Status(StatusEvent{Name: StatusRunOver, Detail: reason, Score: g.state.Score})
	g.logger.Info("run over",
		"reason", reason,
		"score", g.state.Score,
		"kills", g.stats.Kills,
		"shots", g.stats.ShotsFired,
	)
}

// Frame advances the simulation to timestamp (milliseconds) and reports
// whether the host should schedule another frame.
func (g *Game) Frame(timestamp float64) bool {
	if !g.running {
		return false
	}
	dtMs := math.Max(0, timestamp-g.last)
	dt := dtMs / 1000
	g.last = timestamp
	g.now = timestamp

	g.timers.Advance(timestamp)
	g.Player.Update(dt, g.mods.SpeedMultiplier)
	g.Projectiles.Update(dt, g.Threats.Items())
	g.EnemyProjectiles.Update(dt)
	g.Threats.Update(dt, dtMs, object.ThreatContext{
		Score:     g.state.Score,
		Player:    g.Player.Pos,
		HasPlayer: true,
	})
	g.PowerUps.Update(dt, timestamp)
	g.handleFireIntent(timestamp)
	g.updateDrones(dt, timestamp)
	g.updateLaser(dt)
	g.checkCollisions(dt, timestamp)
	g.Effects.Update(dtMs)
	g.checkPhase()

	g.stats.Frames++
	return g.running
}

// PointerMove sets where the ship should head, in arena coordinates.
func (g *Game) PointerMove(x, y float64) {
	g.Player.SetTarget(x, y)
}

// PointerDown starts firing. With the charge shot active it starts
// charging instead.
func (g *Game) PointerDown(timestamp float64) {
	if !g.running {
		return
	}
	g.firing = true
	if g.mods.ChargeShot {
		g.chargeStarted = timestamp
		return
	}
	g.tryShoot(timestamp)
}

// PointerUp stops firing and releases a pending charge.
func (g *Game) PointerUp(timestamp float64) {
	g.firing = false
	if math.IsNaN(g.chargeStarted) {
		return
	}
	held := timestamp - g.chargeStarted
	g.chargeStarted = math.NaN()
	g.Player.SetMarker("")
	if !g.running {
		return
	}
	if g.mods.ChargeShot && held >= g.tuning.Player.ChargeShotHoldMs {
		g.fireChargedShot()
		return
	}
	g.tryShoot(timestamp)
}

// PointerLeave stops firing and drops a pending charge.
func (g *Game) PointerLeave() {
	g.firing = false
	g.chargeStarted = math.NaN()
	g.Player.SetMarker("")
}

// Running reports whether a run is in progress.
func (g *Game) Running() bool {
	return g.running
}

// State returns the score and lives.
func (g *Game) State() RunState {
	return g.state
}

// Modifiers returns the current power-up modifiers.
func (g *Game) Modifiers() Modifiers {
	return g.mods
}

// Stats returns the run counters.
func (g *Game) Stats() Stats {
	return g.stats
}

// Tempo returns the music playback rate for the current score.
func (g *Game) Tempo() float64 {
	return g.tempo
}

// Now returns the timestamp of the last frame.
func (g *Game) Now() float64 {
	return g.now
}

// Bounds returns the current arena size.
func (g *Game) Bounds() physics.Size {
	return g.arena.Bounds()
}

// Laser returns the continuous laser rect, if the laser is on.
func (g *Game) Laser() (physics.Rect, bool) {
	if g.laser == nil {
		return physics.Rect{}, false
	}
	return *g.laser, true
}

// SetHitboxDebug toggles the hitbox flash on player damage.
func (g *Game) SetHitboxDebug(on bool) {
	g.debugHitboxes = on
	if !on {
		g.timers.Cancel(timerHitbox)
		g.Player.SetMarker("")
	}
}

// HitboxDebug reports whether hitbox flashes are on.
func (g *Game) HitboxDebug() bool {
	return g.debugHitboxes
}

func (g *Game) addScore(points int) {
	if points <= 0 {
		return
	}
	g.state.Score += points
	g.observer.ScoreChanged(g.state.Score)
	g.PowerUps.HandleScore(g.state.Score)
	g.updateTempo()
}

// updateTempo reports the music rate when it changes.
func (g *Game) updateTempo() {
	m := g.tuning.Music
	rate := m.BaseRate
	if m.ScoreStep > 0 {
		rate += m.RateStep * math.Floor(float64(g.state.Score)/float64(m.ScoreStep))
	}
	if m.MaxRate > 0 {
		rate = math.Min(rate, m.MaxRate)
	}
	if rate == g.tempo {
		return
	}
	g.tempo = rate
	g.observer.TempoChanged(rate)
}

func (g *Game) checkPhase() {
	phase := g.Threats.Phase()
	if phase.ID == g.phaseID {
		return
	}
	g.phaseID = phase.ID
	g.logger.Debug("phase changed", "phase", phase.ID, "label", phase.Label, "score", g.state.Score)
	g.status(StatusEvent{Name: StatusPhase, Detail: phase.Label})
}

// status reports e and arms the timer that clears it.
func (g *Game) status(e StatusEvent) {
	e.Score = g.state.Score
	g.observer.Status(e)
	g.timers.Set(timerStatus, g.now+g.tuning.Debug.StatusClearMs, func() {
		g.observer.Status(StatusEvent{Name: StatusClear, Score: g.state.Score})
	})
}

// killThreat destroys t, awarding its reward.
func (g *Game) killThreat(t *object.Threat) {
	if t.Removed() {
		return
	}
	g.Effects.Spawn(t.Rect)
	g.Threats.Destroy(t)
	g.stats.Kills++
	g.addScore(t.Reward)
}

// damagePlayer applies amount to the player. A shield charge absorbs the
// whole hit.
func (g *Game) damagePlayer(amount float64) {
	if amount <= 0 || !g.running {
		return
	}
	g.flashHitbox()
	if g.mods.ShieldHits > 0 {
		g.mods.ShieldHits--
		g.status(StatusEvent{Name: StatusShieldHit})
		return
	}
	g.stats.DamageTaken += math.Min(amount, g.Player.Health)
	remaining := g.Player.ApplyDamage(amount)
	g.observer.HealthChanged(remaining, g.Player.MaxHealth)
	if remaining <= 0 {
		g.loseLife()
	}
}

func (g *Game) loseLife() {
	if g.state.Lives > 1 {
		g.state.Lives--
		g.Player.Reset()
		g.observer.LivesChanged(g.state.Lives)
		g.observer.HealthChanged(g.Player.Health, g.Player.MaxHealth)
		g.status(StatusEvent{Name: StatusLifeLost})
		return
	}
	g.state.Lives = 0
	g.observer.LivesChanged(0)
	g.Stop("destroyed")
}

// flashHitbox marks the ship for the debug flash duration.
func (g *Game) flashHitbox() {
	if !g.debugHitboxes {
		return
	}
	g.Player.SetMarker(object.MarkerAlert)
	g.timers.Set(timerHitbox, g.now+g.tuning.Debug.HitboxFlashMs, func() {
		if g.Player.Marker() == object.MarkerAlert {
			g.Player.SetMarker("")
		}
	})
}
