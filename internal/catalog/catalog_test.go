package catalog

import (
	"math"
	"testing"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

type harness struct {
	m     *object.ThreatManager
	fired []object.Pattern
}

func newHarness(rnd float64) *harness {
	h := &harness{}
	tuning := config.Default()
	h.m = object.NewThreatManager(object.ThreatOptions{
		Archetypes: Archetypes(),
		Phases:     Phases(),
		Meteor:     tuning.Meteor,
		Enemy:      tuning.Enemy,
		Arena:      object.FixedArena(1000, 800),
		Random:     func() float64 { return rnd },
		Fire: func(_ *object.Threat, p object.Pattern, _ *physics.Vec) {
			h.fired = append(h.fired, p)
		},
	})
	return h
}

// step runs n frames of 100ms with the player at the bottom center.
func (h *harness) step(n int) {
	for i := 0; i < n; i++ {
		h.m.Update(0.1, 100, object.ThreatContext{Player: physics.Vec{X: 500, Y: 700}, HasPlayer: true})
	}
}

func TestArchetypeTable(t *testing.T) {
	defs := Archetypes()
	if len(defs) != 13 {
		t.Fatalf("archetypes = %d, want 13", len(defs))
	}
	seen := map[string]bool{}
	for _, def := range defs {
		if seen[def.ID] {
			t.Fatalf("duplicate archetype %q", def.ID)
		}
		seen[def.ID] = true
		if def.Phase < 1 || def.Phase > 4 {
			t.Fatalf("%s: phase %d out of range", def.ID, def.Phase)
		}
		if def.Integrity <= 0 || def.Reward <= 0 {
			t.Fatalf("%s: integrity %v reward %d", def.ID, def.Integrity, def.Reward)
		}
	}
}

func TestPowerUpTable(t *testing.T) {
	durations := config.Default().PowerUps.Durations
	immediate := 0
	for _, def := range PowerUps() {
		if def.Immediate {
			immediate++
			continue
		}
		if _, ok := durations[def.DurationKey]; !ok {
			t.Fatalf("%s: duration key %q missing", def.ID, def.DurationKey)
		}
	}
	if immediate != 3 {
		t.Fatalf("immediate power-ups = %d, want 3", immediate)
	}
}

func TestSniperTelegraphsBeforeAimedShot(t *testing.T) {
	h := newHarness(0)
	th := h.m.Spawn(Sniper, object.Overrides{})

	h.step(11)
	if th.Marker != "" {
		t.Fatalf("aiming before cooldown: %q", th.Marker)
	}
	h.step(1)
	if th.Marker != object.MarkerAiming {
		t.Fatalf("marker = %q, want aiming", th.Marker)
	}
	h.step(5)
	if len(h.fired) != 0 {
		t.Fatal("fired during telegraph")
	}
	h.step(1)
	if len(h.fired) != 1 || h.fired[0].Type != object.PatternAimed {
		t.Fatalf("fired = %+v, want one aimed shot", h.fired)
	}
	if th.Marker != "" {
		t.Fatalf("marker not cleared after firing: %q", th.Marker)
	}
}

func TestLaserChargesThenFiresBeam(t *testing.T) {
	h := newHarness(0)
	th := h.m.Spawn(Laser, object.Overrides{})

	h.step(18)
	if th.Marker != object.MarkerCharging {
		t.Fatalf("marker = %q, want charging", th.Marker)
	}
	h.step(9)
	if len(h.fired) != 1 || h.fired[0].Type != object.PatternBeam {
		t.Fatalf("fired = %+v, want one beam", h.fired)
	}
	if h.fired[0].DamagePerSecond != 280 {
		t.Fatalf("beam dps = %v", h.fired[0].DamagePerSecond)
	}
}

func TestBoomerangReversesAndFiresOnce(t *testing.T) {
	h := newHarness(0)
	th := h.m.Spawn(Boomerang, object.Overrides{Position: &physics.Vec{X: 400, Y: 0}})

	h.step(12)
	if len(h.fired) != 1 {
		t.Fatalf("fired %d volleys at reversal, want 1", len(h.fired))
	}
	if th.Vel.Y >= 0 {
		t.Fatalf("not returning: vy = %v", th.Vel.Y)
	}
	y := th.Y
	h.step(3)
	if th.Y >= y {
		t.Fatalf("moved down after reversal: %v -> %v", y, th.Y)
	}
	if len(h.fired) != 1 {
		t.Fatalf("fired again on the way back: %d", len(h.fired))
	}
}

func TestSpawnerDropsSwarmer(t *testing.T) {
	h := newHarness(0)
	h.m.Spawn(Spawner, object.Overrides{Position: &physics.Vec{X: 400, Y: 0}})
	h.step(20)
	if h.m.Len() != 2 {
		t.Fatalf("threats = %d, want spawner plus one swarmer", h.m.Len())
	}
	if got := h.m.Items()[1].Archetype.ID; got != Swarm {
		t.Fatalf("spawned %q, want %q", got, Swarm)
	}
}

func TestSwarmSpawnsCluster(t *testing.T) {
	h := newHarness(0)
	def := h.m.Archetype(Swarm)
	members := def.SpawnGroup(physics.Size{Width: 1000, Height: 800}, func() float64 { return 0 })
	if len(members) != 4 {
		t.Fatalf("cluster size = %d, want 4", len(members))
	}
	want := []float64{10, 41, 79, 117}
	for i, o := range members {
		if math.Abs(o.Position.X-want[i]) > 1e-9 {
			t.Fatalf("member %d x = %v, want %v", i, o.Position.X, want[i])
		}
	}
}

func TestFlankerEntersFromEitherSide(t *testing.T) {
	left := newHarness(0.9)
	th := left.m.Spawn(Flanker, object.Overrides{})
	if th.X != -th.Width || th.Vel.X <= 0 {
		t.Fatalf("left flanker at x=%v vx=%v", th.X, th.Vel.X)
	}

	right := newHarness(0.2)
	th = right.m.Spawn(Flanker, object.Overrides{})
	if th.X != 1000+th.Width || th.Vel.X >= 0 {
		t.Fatalf("right flanker at x=%v vx=%v", th.X, th.Vel.X)
	}
	right.step(1)
	if th.Removed() {
		t.Fatal("right flanker despawned on entry")
	}
}

func TestKamikazeZeroDistance(t *testing.T) {
	h := newHarness(0)
	th := h.m.Spawn(Kamikaze, object.Overrides{Position: &physics.Vec{X: 476, Y: 700}})
	h.step(1)
	if math.IsNaN(th.X) || math.IsNaN(th.Y) {
		t.Fatalf("kamikaze position NaN: %+v", th.Rect)
	}
}

func TestBomberBurstsOnDestroy(t *testing.T) {
	h := newHarness(0)
	th := h.m.Spawn(Bomber, object.Overrides{})
	h.m.Destroy(th)
	if len(h.fired) != 1 || h.fired[0].Type != object.PatternRadial || h.fired[0].Count != 6 {
		t.Fatalf("fired = %+v, want a 6-way radial burst", h.fired)
	}
}

func TestPhasesOrdered(t *testing.T) {
	phases := Phases()
	for i := 1; i < len(phases); i++ {
		if phases[i].MinScore <= phases[i-1].MinScore || phases[i].ID <= phases[i-1].ID {
			t.Fatalf("phases not ascending at %d", i)
		}
	}
}
