package powerup

// Power-up ids understood by the game's activation handlers.
const (
	TripleShot  = "triple-shot"
	SideShot    = "side-shot"
	ChargeShot  = "charge-shot"
	LaserBeam   = "laser-beam"
	Shield      = "shield"
	Speed       = "speed"
	FireRate    = "fire-rate"
	ExtraLife   = "extra-life"
	SmartBomb   = "smart-bomb"
	GuidedShot  = "guided-shot"
	DamageBoost = "damage-boost"
	Drones      = "support-drones"
)
