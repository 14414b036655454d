package object

import (
	"math"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

// ThreatType separates meteors from enemy ships.
type ThreatType uint8

const (
	ThreatMeteor ThreatType = iota
	ThreatEnemy
)

func (t ThreatType) String() string {
	if t == ThreatMeteor {
		return "meteor"
	}
	return "enemy"
}

// ThreatState is the archetype-specific state of one enemy. Each archetype
// declares its own concrete type; behaviours type-assert to it.
type ThreatState interface {
	StateKind() string
}

// Threat is a meteor or an enemy ship.
type Threat struct {
	Body
	Type      ThreatType
	Archetype *Archetype // nil for meteors
	Speed     float64
	Damage    float64 // Applied to the player on contact
	Reward    int
	Integrity float64 // Destroyed at <= 0
	State     ThreatState
	FireTimer float64 // Milliseconds until the next autofire
	Marker    string  // Telegraph shown to the player
}

// Hit applies damage and reports whether the threat is now destroyed.
func (t *Threat) Hit(damage float64) bool {
	t.Integrity -= damage
	return t.Integrity <= 0
}

// Range is an inclusive-exclusive [Min, Max) draw range.
type Range struct {
	Min, Max float64
}

// FireConfig drives autofire: a cooldown drawn from [CooldownMin,
// CooldownMax) milliseconds and either a static pattern or a builder.
type FireConfig struct {
	CooldownMin float64
	CooldownMax float64
	Pattern     *Pattern
	NewPattern  func(t *Threat, h *Helpers) (Pattern, bool)
}

// Overrides replace spawn-time defaults. Position is the top-left corner.
type Overrides struct {
	Position *physics.Vec
	Velocity *physics.Vec
	Size     *physics.Size
}

// Archetype is the static definition of one enemy kind. Optional hooks
// are checked for presence, never by id.
type Archetype struct {
	ID        string
	Label     string
	Phase     int     // Minimum phase for random selection
	Weight    float64 // Selection weight, 0 means 1
	Integrity float64
	Reward    int
	Damage    float64
	Speed     Range
	Size      physics.Size

	// NewState builds the per-entity state.
	NewState func(rnd physics.Random) ThreatState
	// Update moves the entity. Returning false applies the default
	// velocity integration afterwards.
	Update func(t *Threat, dt, dtMs float64, h *Helpers) bool
	// Fire configures autofire.
	Fire *FireConfig
	// OnSpawn may reposition the new entity.
	OnSpawn func(t *Threat, h *Helpers)
	// OnDestroyed runs when the entity is destroyed by damage.
	OnDestroyed func(t *Threat, h *Helpers)
	// SpawnGroup returns one override per entity of a cluster.
	SpawnGroup func(bounds physics.Size, rnd physics.Random) []Overrides
}

// Phase is a difficulty tier.
type Phase struct {
	ID          int
	Label       string
	MinScore    int
	SpawnFactor float64 // Enemy spawn interval multiplier
}

// ResolvePhase returns the highest-id phase whose MinScore <= score, or the
// first phase if none qualifies.
func ResolvePhase(phases []Phase, score int) Phase {
	if len(phases) == 0 {
		return Phase{ID: 1, SpawnFactor: 1}
	}
	active := phases[0]
	found := false
	for _, p := range phases {
		if score < p.MinScore {
			continue
		}
		if !found || p.ID > active.ID {
			active = p
			found = true
		}
	}
	return active
}

// FireFunc emits a volley on behalf of a threat.
type FireFunc func(source *Threat, p Pattern, player *physics.Vec)

// Helpers is what behaviour hooks may see and do.
type Helpers struct {
	Player    physics.Vec
	HasPlayer bool
	Score     int
	Phase     int
	Bounds    physics.Size

	rnd    physics.Random
	source *Threat
	m      *ThreatManager
}

// PlayerPosition returns the player's center, or nil when unknown.
func (h *Helpers) PlayerPosition() *physics.Vec {
	if !h.HasPlayer {
		return nil
	}
	p := h.Player
	return &p
}

// RandomBetween draws from [lo, hi).
func (h *Helpers) RandomBetween(lo, hi float64) float64 {
	return physics.RandomBetween(h.rnd, lo, hi)
}

// Random draws from [0, 1).
func (h *Helpers) Random() float64 {
	return physics.RandomBetween(h.rnd, 0, 1)
}

// Fire emits p from the threat the hook runs for.
func (h *Helpers) Fire(p Pattern) {
	if h.m == nil || h.source == nil {
		return
	}
	h.m.emitFire(h.source, p)
}

// Spawn adds an enemy of the given archetype, bypassing group spawning.
// Unknown ids are ignored.
func (h *Helpers) Spawn(archetypeID string, o Overrides) {
	if h.m == nil {
		return
	}
	h.m.Spawn(archetypeID, o)
}

// ThreatContext is the per-frame input to ThreatManager.Update.
type ThreatContext struct {
	Score     int
	Player    physics.Vec
	HasPlayer bool
}

// ThreatOptions configures a ThreatManager.
type ThreatOptions struct {
	Archetypes []*Archetype
	Phases     []Phase
	Spawns     config.Spawns
	Meteor     config.Meteor
	Enemy      config.Enemy
	Arena      Arena
	Surface    Surface
	Fire       FireFunc
	Random     physics.Random
	Logger     *log.Logger
}

// ThreatManager spawns meteors and enemies, drives archetype behaviour and
// autofire, and despawns whatever leaves the arena.
type ThreatManager struct {
	items      []*Threat
	archetypes []*Archetype
	phases     []Phase
	spawns     config.Spawns
	meteor     config.Meteor
	enemy      config.Enemy
	arena      Arena
	surface    Surface
	fire       FireFunc
	rnd        physics.Random
	logger     *log.Logger

	meteorTimer float64 // Milliseconds since last meteor
	enemyTimer  float64 // Milliseconds since last enemy
	nextID      int
	ctx         ThreatContext
	bounds      physics.Size
	phase       Phase
}

// NewThreatManager creates an empty manager.
func NewThreatManager(opts ThreatOptions) *ThreatManager {
	m := &ThreatManager{
		archetypes: opts.Archetypes,
		phases:     opts.Phases,
		spawns:     opts.Spawns,
		meteor:     opts.Meteor,
		enemy:      opts.Enemy,
		arena:      opts.Arena,
		surface:    opts.Surface,
		fire:       opts.Fire,
		rnd:        opts.Random,
		logger:     opts.Logger,
	}
	if m.surface == nil {
		m.surface = NopSurface{}
	}
	if m.rnd == nil {
		m.rnd = physics.DefaultRandom
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	m.phase = ResolvePhase(m.phases, 0)
	m.bounds = m.arena.Bounds()
	return m
}

// Update runs spawn timers, archetype behaviour and autofire, then
// despawns threats that left the arena.
func (m *ThreatManager) Update(dt, dtMs float64, ctx ThreatContext) {
	m.ctx = ctx
	m.bounds = m.arena.Bounds()
	m.phase = ResolvePhase(m.phases, ctx.Score)

	m.meteorTimer += dtMs
	m.enemyTimer += dtMs
	if m.spawns.MeteorMs > 0 && m.meteorTimer >= m.spawns.MeteorMs {
		m.SpawnMeteor()
		m.meteorTimer = 0
	}
	if m.spawns.EnemyMs > 0 && m.enemyTimer >= m.EnemySpawnInterval() {
		m.SpawnEnemy()
		m.enemyTimer = 0
	}

	// Entities spawned by behaviours this frame start moving next frame.
	for _, t := range slices.Clone(m.items) {
		if t.Removed() {
			continue
		}
		if t.Type == ThreatEnemy {
			m.updateEnemy(t, dt, dtMs)
		} else {
			t.Y += t.Speed * dt
		}
		if t.Removed() {
			continue
		}
		if m.outOfBounds(t) {
			m.Remove(t)
			continue
		}
		m.sync(t)
	}
}

// EnemySpawnInterval is the base enemy interval scaled by the active phase.
func (m *ThreatManager) EnemySpawnInterval() float64 {
	factor := m.phase.SpawnFactor
	if factor <= 0 {
		factor = 1
	}
	return m.spawns.EnemyMs * factor
}

// Phase returns the phase resolved on the last update.
func (m *ThreatManager) Phase() Phase {
	return m.phase
}

func (m *ThreatManager) outOfBounds(t *Threat) bool {
	margin := math.Max(m.enemy.SideMargin, t.Width*1.6)
	return t.Y > m.bounds.Height+t.Height ||
		t.Right() < -margin ||
		t.X > m.bounds.Width+margin ||
		(m.enemy.TopMargin > 0 && t.Bottom() < -m.enemy.TopMargin)
}

func (m *ThreatManager) updateEnemy(t *Threat, dt, dtMs float64) {
	h := m.helpers(t)
	handled := false
	if def := t.Archetype; def != nil && def.Update != nil {
		handled = def.Update(t, dt, dtMs, h)
	}
	if !handled {
		t.Move(dt)
	}
	m.autoFire(t, dtMs, h)
}

func (m *ThreatManager) autoFire(t *Threat, dtMs float64, h *Helpers) {
	def := t.Archetype
	if def == nil || def.Fire == nil || t.Removed() {
		return
	}
	t.FireTimer -= dtMs
	if t.FireTimer > 0 {
		return
	}
	if p, ok := resolvePattern(def.Fire, t, h); ok {
		m.emitFire(t, p)
	}
	t.FireTimer = physics.RandomBetween(m.rnd, def.Fire.CooldownMin, def.Fire.CooldownMax)
}

// resolvePattern returns a copy of the configured pattern so hooks never
// alias archetype data.
func resolvePattern(fc *FireConfig, t *Threat, h *Helpers) (Pattern, bool) {
	var p Pattern
	switch {
	case fc.NewPattern != nil:
		var ok bool
		if p, ok = fc.NewPattern(t, h); !ok {
			return Pattern{}, false
		}
	case fc.Pattern != nil:
		p = *fc.Pattern
	default:
		return Pattern{}, false
	}
	p.Angles = slices.Clone(p.Angles)
	return p, true
}

func (m *ThreatManager) emitFire(t *Threat, p Pattern) {
	if m.fire == nil {
		return
	}
	var player *physics.Vec
	if m.ctx.HasPlayer {
		pos := m.ctx.Player
		player = &pos
	}
	m.fire(t, p, player)
}

func (m *ThreatManager) helpers(t *Threat) *Helpers {
	return &Helpers{
		Player:    m.ctx.Player,
		HasPlayer: m.ctx.HasPlayer,
		Score:     m.ctx.Score,
		Phase:     m.phase.ID,
		Bounds:    m.bounds,
		rnd:       m.rnd,
		source:    t,
		m:         m,
	}
}

// SpawnMeteor adds a meteor just above the top edge.
func (m *ThreatManager) SpawnMeteor() *Threat {
	w, h := m.meteor.Width, m.meteor.Height
	m.nextID++
	t := &Threat{
		Body: Body{
			ID: "meteor-" + strconv.Itoa(m.nextID),
			Rect: physics.Rect{
				X:      physics.RandomBetween(m.rnd, 0, math.Max(0, m.bounds.Width-w)),
				Y:      -h,
				Width:  w,
				Height: h,
			},
		},
		Type:      ThreatMeteor,
		Speed:     physics.RandomBetween(m.rnd, m.meteor.MinSpeed, m.meteor.MaxSpeed),
		Damage:    m.meteor.Damage,
		Reward:    m.meteor.Reward,
		Integrity: orDefault(m.meteor.Integrity, 1),
	}
	t.Vel = physics.Vec{Y: t.Speed}
	m.items = append(m.items, t)
	m.sync(t)
	return t
}

// SpawnEnemy adds an enemy picked for the current score, honouring
// group spawning.
func (m *ThreatManager) SpawnEnemy() {
	def := m.PickArchetype(m.ctx.Score)
	if def == nil {
		return
	}
	m.spawnArchetype(def, Overrides{}, false)
}

// Spawn adds one enemy of the given archetype, bypassing group spawning.
// It returns nil when the id is unknown.
func (m *ThreatManager) Spawn(archetypeID string, o Overrides) *Threat {
	def := m.Archetype(archetypeID)
	if def == nil {
		m.logger.Debug("unknown archetype", "id", archetypeID)
		return nil
	}
	return m.spawnArchetype(def, o, true)
}

// Archetype looks up an archetype by id.
func (m *ThreatManager) Archetype(id string) *Archetype {
	for _, def := range m.archetypes {
		if def.ID == id {
			return def
		}
	}
	return nil
}

func (m *ThreatManager) spawnArchetype(def *Archetype, o Overrides, ignoreGroup bool) *Threat {
	if !ignoreGroup && def.SpawnGroup != nil {
		for _, member := range def.SpawnGroup(m.bounds, m.rnd) {
			m.spawnArchetype(def, member, true)
		}
		return nil
	}
	t := m.buildEnemy(def, o)
	m.items = append(m.items, t)
	m.sync(t)
	return t
}

func (m *ThreatManager) buildEnemy(def *Archetype, o Overrides) *Threat {
	size := def.Size
	if o.Size != nil {
		size = *o.Size
	}
	if size.IsZero() {
		size = physics.Size{Width: m.enemy.Width, Height: m.enemy.Height}
	}

	x := physics.RandomBetween(m.rnd, 0, math.Max(0, m.bounds.Width-size.Width))
	y := -size.Height * 1.4
	if o.Position != nil {
		x, y = o.Position.X, o.Position.Y
	}
	x = physics.Clamp(x, -size.Width*1.6, m.bounds.Width+size.Width*1.6)

	speed := def.Speed
	if speed.Min == 0 && speed.Max == 0 {
		speed = Range{Min: m.enemy.MinSpeed, Max: m.enemy.MaxSpeed}
	}

	m.nextID++
	t := &Threat{
		Body: Body{
			ID:   "enemy-" + strconv.Itoa(m.nextID),
			Rect: physics.Rect{X: x, Y: y, Width: size.Width, Height: size.Height},
		},
		Type:      ThreatEnemy,
		Archetype: def,
		Speed:     physics.RandomBetween(m.rnd, speed.Min, speed.Max),
		Damage:    orDefault(def.Damage, m.enemy.Damage),
		Reward:    def.Reward,
		Integrity: orDefault(def.Integrity, m.enemy.Integrity),
	}
	if t.Reward == 0 {
		t.Reward = m.enemy.Reward
	}
	t.Vel = physics.Vec{Y: t.Speed}
	if o.Velocity != nil {
		t.Vel = *o.Velocity
	}
	if def.NewState != nil {
		t.State = def.NewState(m.rnd)
	}
	if def.Fire != nil {
		t.FireTimer = physics.RandomBetween(m.rnd, def.Fire.CooldownMin, def.Fire.CooldownMax)
	}
	if def.OnSpawn != nil {
		def.OnSpawn(t, m.helpers(t))
	}
	return t
}

// PickArchetype makes a weighted random choice among archetypes unlocked
// at the phase for score. It falls back to the last eligible entry and
// returns nil when nothing is eligible.
func (m *ThreatManager) PickArchetype(score int) *Archetype {
	phase := ResolvePhase(m.phases, score).ID
	var pool []*Archetype
	total := 0.0
	for _, def := range m.archetypes {
		if max(def.Phase, 1) <= phase {
			pool = append(pool, def)
			total += weight(def)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	cursor := m.rnd() * total
	for _, def := range pool {
		cursor -= weight(def)
		if cursor <= 0 {
			return def
		}
	}
	return pool[len(pool)-1]
}

func weight(def *Archetype) float64 {
	if def.Weight == 0 {
		return 1
	}
	return def.Weight
}

// Destroy runs the archetype's destroyed hook, then removes t.
func (m *ThreatManager) Destroy(t *Threat) {
	if t.Removed() {
		return
	}
	if def := t.Archetype; def != nil && def.OnDestroyed != nil {
		def.OnDestroyed(t, m.helpers(t))
	}
	m.Remove(t)
}

// Remove takes t out of the simulation without running hooks. It reports
// whether t was live.
func (m *ThreatManager) Remove(t *Threat) bool {
	i := slices.Index(m.items, t)
	if i < 0 {
		return false
	}
	m.items = slices.Delete(m.items, i, i+1)
	t.removed = true
	m.surface.Detach(t.ID)
	return true
}

// Clear removes every threat and resets the spawn timers.
func (m *ThreatManager) Clear() {
	for _, t := range m.items {
		t.removed = true
		m.surface.Detach(t.ID)
	}
	clear(m.items)
	m.items = m.items[:0]
	m.meteorTimer = 0
	m.enemyTimer = 0
	m.ctx = ThreatContext{}
	m.phase = ResolvePhase(m.phases, 0)
}

// Items returns the live threats.
func (m *ThreatManager) Items() []*Threat {
	return m.items
}

// Len returns the number of live threats.
func (m *ThreatManager) Len() int {
	return len(m.items)
}

// Sync re-places t after a hook changed it outside Update.
func (m *ThreatManager) Sync(t *Threat) {
	if !t.Removed() {
		m.sync(t)
	}
}

func (m *ThreatManager) sync(t *Threat) {
	v := Visual{ID: t.ID, Kind: KindMeteor, Rect: t.Rect, Marker: t.Marker}
	if t.Type == ThreatEnemy {
		v.Kind = KindEnemy
		if t.Archetype != nil {
			v.Variant = t.Archetype.ID
		}
	}
	m.surface.Place(v)
}
