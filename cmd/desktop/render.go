package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

var palette = map[draw.Color]color.RGBA{
	draw.ColorWhite:   {0xff, 0xff, 0xff, 0xff},
	draw.ColorCyan:    {0x00, 0xff, 0xff, 0xff},
	draw.ColorYellow:  {0xff, 0xe0, 0x30, 0xff},
	draw.ColorRed:     {0xff, 0x40, 0x40, 0xff},
	draw.ColorMagenta: {0xff, 0x40, 0xff, 0xff},
	draw.ColorGreen:   {0x40, 0xff, 0x70, 0xff},
	draw.ColorOrange:  {0xff, 0x90, 0x20, 0xff},
	draw.ColorGray:    {0x90, 0x90, 0x98, 0xff},
	draw.ColorBlue:    {0x40, 0x80, 0xff, 0xff},
}

// drawVisual paints one entity with the same shapes and colors as the
// terminal scene.
func drawVisual(screen *ebiten.Image, v object.Visual) {
	r := v.Rect
	clr := palette[draw.ColorOf(v)]
	x, y, w, h := float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height)

	switch v.Kind {
	case object.KindPlayer:
		triangle(screen, x+w/2, y, x+w, y+h, x, y+h, clr)
	case object.KindEnemy:
		triangle(screen, x, y, x+w, y, x+w/2, y+h, clr)
	case object.KindMeteor:
		c := r.Center()
		vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), min(w, h)/2, clr, true)
	case object.KindEffect:
		c := r.Center()
		radius := min(w, h) / 2 / (1 + float32(v.Frame)/4)
		vector.StrokeCircle(screen, float32(c.X), float32(c.Y), radius, 2, clr, true)
	case object.KindPickup:
		vector.DrawFilledRect(screen, x, y, w, h, clr, true)
		vector.StrokeRect(screen, x, y, w, h, 2, palette[draw.ColorWhite], true)
	default:
		vector.DrawFilledRect(screen, x, y, max(w, 1), max(h, 1), clr, true)
	}
}

func triangle(screen *ebiten.Image, x0, y0, x1, y1, x2, y2 float32, clr color.Color) {
	var path vector.Path
	path.MoveTo(x0, y0)
	path.LineTo(x1, y1)
	path.LineTo(x2, y2)
	path.Close()
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	cr, cg, cb, ca := clr.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(cr) / math.MaxUint16
		vs[i].ColorG = float32(cg) / math.MaxUint16
		vs[i].ColorB = float32(cb) / math.MaxUint16
		vs[i].ColorA = float32(ca) / math.MaxUint16
	}
	screen.DrawTriangles(vs, is, whitePixel, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// whitePixel is the source image for solid triangle fills.
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img
}()

func strokeHitbox(screen *ebiten.Image, r physics.Rect) {
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, palette[draw.ColorRed], false)
}
