package config

// Tuning centralizes all tunable game parameters. Times are milliseconds
// unless a field says otherwise; speeds are arena units per second.
// The simulation receives a Tuning by value so tests can shrink it.
type Tuning struct {
	Arena    Arena
	Player   Player
	Spawns   Spawns
	Meteor   Meteor
	Enemy    Enemy
	PowerUps PowerUps
	Weapons  Weapons
	Effects  Effects
	Debug    Debug
	Music    Music
}

// Arena holds the fallback bounds used while the host reports a zero size.
type Arena struct {
	FallbackWidth  float64
	FallbackHeight float64
}

// Player tunables.
type Player struct {
	MaxHealth        float64
	InitialLives     int
	BaseDamage       float64
	FireRateMs       float64
	LaserSpeed       float64
	LaserLifetimeMs  float64
	LaserWidth       float64
	LaserHeight      float64
	MoveSpeed        float64
	ChargeShotHoldMs float64
	Width            float64
	Height           float64
	StartHeightRatio float64 // vertical start position as a fraction of arena height
}

// Spawns holds the base spawn intervals.
type Spawns struct {
	MeteorMs float64
	EnemyMs  float64
}

// Meteor tunables.
type Meteor struct {
	MinSpeed  float64
	MaxSpeed  float64
	Damage    float64
	Reward    int
	Integrity float64
	Width     float64
	Height    float64
}

// Enemy holds defaults for archetypes that leave a field unset, plus
// enemy projectile geometry and despawn margins.
type Enemy struct {
	MinSpeed         float64
	MaxSpeed         float64
	Damage           float64
	Reward           int
	Integrity        float64
	LaserSpeed       float64
	ProjectileDamage float64
	ProjectileWidth  float64
	ProjectileHeight float64
	Width            float64
	Height           float64
	SideMargin       float64 // minimum horizontal despawn margin
	TopMargin        float64 // despawn once fully above -TopMargin
}

// PowerUps tunables.
type PowerUps struct {
	MinScore    int
	ScoreGapMin float64
	ScoreGapMax float64
	PickupSpeed float64
	MaxPickups  int
	ShieldHits  int
	Durations   map[string]float64
	PickupSize  float64

	SpeedMultiplier    float64
	FireRateMultiplier float64
	DamageMultiplier   float64

	Drone Drone
}

// Drone configures the support-drones power-up.
type Drone struct {
	Count       int
	OrbitRadius float64
	OrbitSpeed  float64 // radians per second
	FireRateMs  float64
	Size        float64
}

// Weapons configures shot patterns and special weapons.
type Weapons struct {
	TripleAngles   []float64
	LateralAngles  []float64
	GuidedTurnDeg  float64 // degrees per second
	ChargeDamage   float64 // multiplier over base damage
	ChargeWidth    float64
	ChargeHeight   float64
	ChargeSpeed    float64
	LaserDPS       float64
	LaserBeamWidth float64
}

// Effects configures the hit-flash animation.
type Effects struct {
	FrameMs    float64
	FrameCount int
	Size       float64
}

// Debug toggles.
type Debug struct {
	ShowHitboxes  bool
	HitboxFlashMs float64
	StatusClearMs float64
}

// Music configures the tempo curve reported to the audio collaborator.
type Music struct {
	BaseRate  float64
	RateStep  float64
	MaxRate   float64
	ScoreStep int
}

// Duration keys referenced by the power-up catalog.
const (
	DurationTripleShot = "tripleShot"
	DurationSideShot   = "sideShot"
	DurationChargeShot = "chargeShot"
	DurationLaserBeam  = "laserBeam"
	DurationSpeedBoost = "speedBoost"
	DurationFireRate   = "fireRate"
	DurationGuided     = "guided"
	DurationDamage     = "damage"
	DurationDrones     = "drones"
)

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		Arena: Arena{
			FallbackWidth:  960,
			FallbackHeight: 720,
		},
		Player: Player{
			MaxHealth:        250,
			InitialLives:     1,
			BaseDamage:       1,
			FireRateMs:       160,
			LaserSpeed:       900,
			LaserLifetimeMs:  4000,
			LaserWidth:       6,
			LaserHeight:      18,
			MoveSpeed:        1100,
			ChargeShotHoldMs: 1000,
			Width:            48,
			Height:           78,
			StartHeightRatio: 0.8,
		},
		Spawns: Spawns{
			MeteorMs: 900,
			EnemyMs:  2200,
		},
		Meteor: Meteor{
			MinSpeed:  450,
			MaxSpeed:  500,
			Damage:    3,
			Reward:    25,
			Integrity: 1,
			Width:     32,
			Height:    72,
		},
		Enemy: Enemy{
			MinSpeed:         140,
			MaxSpeed:         240,
			Damage:           80,
			Reward:           75,
			Integrity:        3,
			LaserSpeed:       420,
			ProjectileDamage: 40,
			ProjectileWidth:  4,
			ProjectileHeight: 12,
			Width:            48,
			Height:           78,
			SideMargin:       40,
			TopMargin:        160,
		},
		PowerUps: PowerUps{
			MinScore:    2000,
			ScoreGapMin: 1200,
			ScoreGapMax: 2200,
			PickupSpeed: 140,
			MaxPickups:  2,
			ShieldHits:  3,
			Durations: map[string]float64{
				DurationTripleShot: 16000,
				DurationSideShot:   15000,
				DurationChargeShot: 18000,
				DurationLaserBeam:  9000,
				DurationSpeedBoost: 8000,
				DurationFireRate:   11000,
				DurationGuided:     13000,
				DurationDamage:     12000,
				DurationDrones:     20000,
			},
			PickupSize:         28,
			SpeedMultiplier:    1.6,
			FireRateMultiplier: 2,
			DamageMultiplier:   2,
			Drone: Drone{
				Count:       2,
				OrbitRadius: 70,
				OrbitSpeed:  2.2,
				FireRateMs:  600,
				Size:        18,
			},
		},
		Weapons: Weapons{
			TripleAngles:   []float64{-12, 12},
			LateralAngles:  []float64{-75, 75},
			GuidedTurnDeg:  2.5,
			ChargeDamage:   6,
			ChargeWidth:    16,
			ChargeHeight:   40,
			ChargeSpeed:    900,
			LaserDPS:       8,
			LaserBeamWidth: 10,
		},
		Effects: Effects{
			FrameMs:    15,
			FrameCount: 16,
			Size:       48,
		},
		Debug: Debug{
			ShowHitboxes:  false,
			HitboxFlashMs: 1000,
			StatusClearMs: 2500,
		},
		Music: Music{
			BaseRate:  1.2,
			RateStep:  0.1,
			MaxRate:   1.6,
			ScoreStep: 500,
		},
	}
}

// FromEnv applies environment overrides on top of t.
func FromEnv(t Tuning) Tuning {
	t.Player.InitialLives = GetEnvInt("STARFALL_LIVES", t.Player.InitialLives)
	t.Player.MaxHealth = GetEnvFloat("STARFALL_MAX_HEALTH", t.Player.MaxHealth)
	t.Debug.ShowHitboxes = GetEnvBool("STARFALL_DEBUG_HITBOXES", t.Debug.ShowHitboxes)
	if t.Player.InitialLives < 1 {
		t.Player.InitialLives = 1
	}
	return t
}

// Duration returns the active-effect lifetime for a duration key, or 0.
func (p PowerUps) Duration(key string) float64 {
	if key == "" {
		return 0
	}
	return p.Durations[key]
}
