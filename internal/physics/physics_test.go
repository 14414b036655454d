package physics

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		v, lo, hi, want float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -3, 0, 10, 0},
		{"above", 12, 0, 10, 10},
		{"inverted range keeps lo", 5, 8, 2, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestVectorFromAngleZeroIsUp(t *testing.T) {
	v := VectorFromAngle(0, 100)
	if math.Abs(v.X) > eps || math.Abs(v.Y+100) > eps {
		t.Fatalf("VectorFromAngle(0, 100) = %+v, want (0, -100)", v)
	}
	v = VectorFromAngle(90, 10)
	if math.Abs(v.X-10) > eps || math.Abs(v.Y) > eps {
		t.Fatalf("VectorFromAngle(90, 10) = %+v, want (10, 0)", v)
	}
}

func TestAngleVectorNinetyIsDown(t *testing.T) {
	v := AngleVector(90, 5)
	if math.Abs(v.X) > eps || math.Abs(v.Y-5) > eps {
		t.Fatalf("AngleVector(90, 5) = %+v, want (0, 5)", v)
	}
}

func TestNormalizeZeroLength(t *testing.T) {
	v := Normalize(0, 0)
	if math.IsNaN(v.X) || math.IsNaN(v.Y) {
		t.Fatalf("Normalize(0, 0) produced NaN: %+v", v)
	}
	v = Normalize(3, 4)
	if math.Abs(v.Len()-1) > eps {
		t.Fatalf("Normalize(3, 4) length = %v, want 1", v.Len())
	}
}

func TestRotateTowardClampsTurn(t *testing.T) {
	vel := Vec{X: 0, Y: -10}   // heading up
	target := Vec{X: 10, Y: 0} // wants right, 90° away
	got := RotateToward(vel, target, 0.1)

	turned := math.Atan2(got.Y, got.X) - math.Atan2(vel.Y, vel.X)
	if math.Abs(turned-0.1) > 1e-6 {
		t.Fatalf("turned %v rad, want 0.1", turned)
	}
	if math.Abs(got.Len()-10) > 1e-6 {
		t.Fatalf("speed changed: %v, want 10", got.Len())
	}

	full := RotateToward(vel, target, math.Pi)
	if math.Abs(full.X-10) > 1e-6 || math.Abs(full.Y) > 1e-6 {
		t.Fatalf("unclamped turn = %+v, want (10, 0)", full)
	}
}

func TestRandomBetweenUsesSource(t *testing.T) {
	got := RandomBetween(func() float64 { return 0.5 }, 10, 20)
	if got != 15 {
		t.Fatalf("RandomBetween = %v, want 15", got)
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"contained", Rect{X: 2, Y: 2, Width: 2, Height: 2}, true},
		{"touching edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, false},
		{"apart", Rect{X: 20, Y: 20, Width: 5, Height: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Fatalf("Intersects = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Fatalf("Intersects not symmetric: %v", got)
			}
		})
	}
}
