package draw

import (
	"math"
	"slices"

	"github.com/tomz197/starfall/internal/object"
)

// layers orders kinds back to front.
var layers = map[object.Kind]int{
	object.KindEffect:          0,
	object.KindPickup:          1,
	object.KindMeteor:          2,
	object.KindEnemy:           3,
	object.KindBeam:            4,
	object.KindEnemyProjectile: 5,
	object.KindLaser:           6,
	object.KindProjectile:      7,
	object.KindDrone:           8,
	object.KindPlayer:          9,
}

// Scene keeps the latest visual of every entity. It is the Surface a host
// hands to the simulation; Draw paints it onto a canvas.
type Scene struct {
	visuals map[string]object.Visual
	order   []object.Visual
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{visuals: make(map[string]object.Visual)}
}

// Place records or replaces a visual.
func (s *Scene) Place(v object.Visual) {
	s.visuals[v.ID] = v
}

// Detach forgets a visual.
func (s *Scene) Detach(id string) {
	delete(s.visuals, id)
}

// Clear forgets every visual.
func (s *Scene) Clear() {
	clear(s.visuals)
}

// Len returns the number of placed visuals.
func (s *Scene) Len() int {
	return len(s.visuals)
}

// Visual returns the visual placed under id.
func (s *Scene) Visual(id string) (object.Visual, bool) {
	v, ok := s.visuals[id]
	return v, ok
}

// Visuals returns every visual sorted back to front, then by id. The
// returned slice is reused by the next call.
func (s *Scene) Visuals() []object.Visual {
	s.order = s.order[:0]
	for _, v := range s.visuals {
		s.order = append(s.order, v)
	}
	slices.SortFunc(s.order, func(a, b object.Visual) int {
		if la, lb := layers[a.Kind], layers[b.Kind]; la != lb {
			return la - lb
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return s.order
}

// Draw paints every visual onto c.
func (s *Scene) Draw(c *Canvas) {
	for _, v := range s.Visuals() {
		drawVisual(c, v)
	}
}

// ColorOf returns the color a visual is drawn with.
func ColorOf(v object.Visual) Color {
	switch v.Kind {
	case object.KindPlayer:
		switch v.Marker {
		case object.MarkerAlert:
			return ColorRed
		case object.MarkerCharging:
			return ColorYellow
		}
		return ColorCyan
	case object.KindProjectile:
		switch v.Variant {
		case object.ShotCharged:
			return ColorYellow
		case object.ShotGuided:
			return ColorGreen
		case object.ShotDrone:
			return ColorBlue
		}
		return ColorWhite
	case object.KindEnemyProjectile:
		return ColorOrange
	case object.KindBeam:
		return ColorRed
	case object.KindLaser:
		return ColorCyan
	case object.KindMeteor:
		return ColorGray
	case object.KindEnemy:
		switch v.Marker {
		case object.MarkerAiming:
			return ColorYellow
		case object.MarkerCharging:
			return ColorMagenta
		}
		return ColorRed
	case object.KindPickup:
		return ColorGreen
	case object.KindDrone:
		return ColorBlue
	case object.KindEffect:
		if v.Frame%2 == 0 {
			return ColorYellow
		}
		return ColorOrange
	}
	return ColorWhite
}

func drawVisual(c *Canvas, v object.Visual) {
	r := v.Rect
	color := ColorOf(v)
	switch v.Kind {
	case object.KindPlayer:
		pts := c.BorrowPoints(3)
		pts[0] = Point{X: r.X + r.Width/2, Y: r.Y}
		pts[1] = Point{X: r.X + r.Width, Y: r.Y + r.Height}
		pts[2] = Point{X: r.X, Y: r.Y + r.Height}
		c.DrawPolygon(pts, true, color)
	case object.KindEnemy:
		pts := c.BorrowPoints(3)
		pts[0] = Point{X: r.X, Y: r.Y}
		pts[1] = Point{X: r.X + r.Width, Y: r.Y}
		pts[2] = Point{X: r.X + r.Width/2, Y: r.Y + r.Height}
		c.DrawPolygon(pts, true, color)
	case object.KindMeteor:
		drawOctagon(c, v, color)
	case object.KindEffect:
		drawOctagon(c, v, color)
	case object.KindPickup:
		c.DrawPolygon(diamond(c, v), true, color)
	default:
		c.FillRect(r.X, r.Y, r.Width, r.Height, color)
	}
}

// drawOctagon draws the outline of an octagon inscribed in the visual's
// rect. Effects shrink as their frame advances.
func drawOctagon(c *Canvas, v object.Visual, color Color) {
	center := v.Rect.Center()
	rx, ry := v.Rect.Width/2, v.Rect.Height/2
	filled := v.Kind == object.KindMeteor
	if v.Kind == object.KindEffect {
		shrink := 1 / (1 + float64(v.Frame)/4)
		rx, ry = rx*shrink, ry*shrink
	}
	pts := c.BorrowPoints(8)
	for i := range pts {
		a := float64(i)*math.Pi/4 + math.Pi/8
		pts[i] = Point{X: center.X + rx*math.Cos(a), Y: center.Y + ry*math.Sin(a)}
	}
	c.DrawPolygon(pts, filled, color)
}

func diamond(c *Canvas, v object.Visual) []Point {
	r := v.Rect
	pts := c.BorrowPoints(4)
	pts[0] = Point{X: r.X + r.Width/2, Y: r.Y}
	pts[1] = Point{X: r.X + r.Width, Y: r.Y + r.Height/2}
	pts[2] = Point{X: r.X + r.Width/2, Y: r.Y + r.Height}
	pts[3] = Point{X: r.X, Y: r.Y + r.Height/2}
	return pts
}
