package object

import (
	"math"
	"testing"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

func newTestEnemyProjectiles(s Surface) *EnemyProjectileManager {
	return NewEnemyProjectileManager(config.Default().Enemy, FixedArena(1000, 800), s)
}

var shooter = physics.Rect{X: 100, Y: 100, Width: 48, Height: 78}

func headingDeg(v physics.Vec) float64 {
	return physics.RadToDeg(math.Atan2(v.Y, v.X))
}

func TestSpreadAngles(t *testing.T) {
	tests := []struct {
		name string
		p    Pattern
		want []float64
	}{
		{"explicit", Pattern{Angles: []float64{70, 90, 110}}, []float64{70, 90, 110}},
		{"single defaults down", Pattern{}, []float64{90}},
		{"count and spread", Pattern{Count: 3, Spread: 40, Angle: 45}, []float64{25, 45, 65}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpreadAngles(tt.p)
			if len(got) != len(tt.want) {
				t.Fatalf("SpreadAngles = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("SpreadAngles = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFireSpreadUsesMuzzle(t *testing.T) {
	m := newTestEnemyProjectiles(nil)
	m.FirePattern(shooter, Pattern{Angles: []float64{90}, Speed: 400, Damage: 85}, nil)

	if m.Len() != 1 {
		t.Fatalf("spawned %d, want 1", m.Len())
	}
	p := m.Items()[0]
	c := p.Center()
	if c.X != 124 || p.Bottom() != 172 {
		t.Fatalf("bolt at %+v, want centered under the shooter muzzle", p.Rect)
	}
	if math.Abs(p.Vel.X) > 1e-9 || math.Abs(p.Vel.Y-400) > 1e-9 {
		t.Fatalf("velocity = %+v, want straight down at 400", p.Vel)
	}
	if p.Damage != 85 {
		t.Fatalf("damage = %v, want 85", p.Damage)
	}
}

func TestFireAimedNeedsTarget(t *testing.T) {
	m := newTestEnemyProjectiles(nil)
	m.FirePattern(shooter, Pattern{Type: PatternAimed}, nil)
	if m.Len() != 0 {
		t.Fatalf("aimed without target spawned %d", m.Len())
	}

	target := physics.Vec{X: 124 + 100, Y: 172 + 100}
	m.FirePattern(shooter, Pattern{Type: PatternAimed, Count: 3, Spread: 10}, &target)
	if m.Len() != 3 {
		t.Fatalf("aimed fan spawned %d, want 3", m.Len())
	}
	mid := m.Items()[1]
	if got := headingDeg(mid.Vel); math.Abs(got-45) > 1e-9 {
		t.Fatalf("center shot heading = %v, want 45", got)
	}
	if got := mid.Vel.Len(); math.Abs(got-480) > 1e-9 {
		t.Fatalf("aimed default speed = %v, want 480", got)
	}
	if mid.Damage != 60 {
		t.Fatalf("aimed default damage = %v, want 60", mid.Damage)
	}
}

func TestFireRadialEvenlySpaced(t *testing.T) {
	m := newTestEnemyProjectiles(nil)
	m.FirePattern(shooter, Pattern{Type: PatternRadial, Count: 4, StartAngle: 10}, nil)
	if m.Len() != 4 {
		t.Fatalf("radial spawned %d, want 4", m.Len())
	}
	want := []float64{10, 100, -170, -80}
	for i, p := range m.Items() {
		if got := headingDeg(p.Vel); math.Abs(got-want[i]) > 1e-9 {
			t.Fatalf("shot %d heading = %v, want %v", i, got, want[i])
		}
	}
}

func TestBeamReachesBottomAndExpires(t *testing.T) {
	s := newRecordingSurface()
	m := newTestEnemyProjectiles(s)
	m.FirePattern(shooter, Pattern{Type: PatternBeam, DamagePerSecond: 280, DurationMs: 500, BeamWidth: 14}, nil)

	b := m.Items()[0]
	if !b.Beam || !b.Persistent {
		t.Fatalf("beam flags = %+v", b)
	}
	if b.Width != 14 || b.Bottom() != 800 {
		t.Fatalf("beam rect = %+v, want width 14 reaching y=800", b.Rect)
	}
	if s.placed[b.ID].Kind != KindBeam {
		t.Fatalf("beam visual kind = %v", s.placed[b.ID].Kind)
	}

	m.Update(0.3)
	if b.Removed() {
		t.Fatal("beam expired early")
	}
	m.Update(0.3)
	if !b.Removed() {
		t.Fatal("beam outlived its duration")
	}
}

func TestEnemyBoltLeavesArena(t *testing.T) {
	m := newTestEnemyProjectiles(nil)
	m.FirePattern(shooter, Pattern{Angles: []float64{90}, Speed: 1000}, nil)
	p := m.Items()[0]
	m.Update(0.5)
	if p.Removed() {
		t.Fatal("removed while inside arena")
	}
	m.Update(0.5)
	if !p.Removed() {
		t.Fatalf("bolt at y=%v not removed", p.Y)
	}
}
