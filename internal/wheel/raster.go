package wheel

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

type point struct {
	x, y float64
}

// arcStep шаг аппроксимации дуги ломаной
const arcStep = math.Pi / 120

func arcPoints(cx, cy, r, a0, a1 float64) []point {
	steps := int(math.Ceil(math.Abs(a1-a0) / arcStep))
	if steps < 2 {
		steps = 2
	}
	pts := make([]point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(steps)
		sin, cos := math.Sincos(a)
		pts = append(pts, point{cx + r*cos, cy + r*sin})
	}
	return pts
}

// wedgePolygon круговой сектор от a0 до a1 по часовой стрелке (ось y вниз)
func wedgePolygon(cx, cy, r, a0, a1 float64) []point {
	pts := []point{{cx, cy}}
	return append(pts, arcPoints(cx, cy, r, a0, a1)...)
}

func circlePolygon(cx, cy, r float64) []point {
	return arcPoints(cx, cy, r, 0, twoPi)
}

// ringSector кольцевой сектор между rIn и rOut. Внутренняя дуга идет в обратную сторону
func ringSector(cx, cy, rIn, rOut, a0, a1 float64) []point {
	outer := arcPoints(cx, cy, rOut, a0, a1)
	inner := arcPoints(cx, cy, rIn, a0, a1)
	pts := make([]point, 0, len(outer)+len(inner))
	pts = append(pts, outer...)
	for i := len(inner) - 1; i >= 0; i-- {
		pts = append(pts, inner[i])
	}
	return pts
}

func rasterize(bounds image.Rectangle, pts []point) *vector.Rasterizer {
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	if len(pts) < 3 {
		return z
	}
	z.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.x), float32(p.y))
	}
	z.ClosePath()
	return z
}

func fillPolygon(dst *image.RGBA, pts []point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	z := rasterize(dst.Bounds(), pts)
	z.DrawOp = draw.Over
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// polygonMask альфа-маска многоугольника для обрезки картинок по сектору
func polygonMask(bounds image.Rectangle, pts []point) *image.Alpha {
	mask := image.NewAlpha(bounds)
	if len(pts) < 3 {
		return mask
	}
	z := rasterize(bounds, pts)
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func strokeLine(dst *image.RGBA, p0, p1 point, width float64, c color.Color) {
	dx, dy := p1.x-p0.x, p1.y-p0.y
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	fillPolygon(dst, []point{
		{p0.x + nx, p0.y + ny},
		{p1.x + nx, p1.y + ny},
		{p1.x - nx, p1.y - ny},
		{p0.x - nx, p0.y - ny},
	}, c)
}

func strokeArc(dst *image.RGBA, cx, cy, r, a0, a1, width float64, c color.Color) {
	if width <= 0 {
		return
	}
	fillPolygon(dst, ringSector(cx, cy, r-width/2, r+width/2, a0, a1), c)
}

func strokeCircle(dst *image.RGBA, cx, cy, r, width float64, c color.Color) {
	strokeArc(dst, cx, cy, r, 0, twoPi, width, c)
}

// drawTransformed рисует img с центром в (cx, cy), вписанную в квадрат size и повернутую на angle.
// mask ограничивает область рисования, nil - без обрезки
func drawTransformed(dst *image.RGBA, img image.Image, cx, cy, size, angle float64, mask image.Image) {
	b := img.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())
	if sw == 0 || sh == 0 || size <= 0 {
		return
	}

	s := size / math.Max(sw, sh)
	sin, cos := math.Sincos(angle)
	scx := float64(b.Min.X) + sw/2
	scy := float64(b.Min.Y) + sh/2

	m := f64.Aff3{
		s * cos, -s * sin, 0,
		s * sin, s * cos, 0,
	}
	m[2] = cx - (m[0]*scx + m[1]*scy)
	m[5] = cy - (m[3]*scx + m[4]*scy)

	layer := image.NewRGBA(dst.Bounds())
	draw.BiLinear.Transform(layer, m, img, b, draw.Over, nil)
	draw.DrawMask(dst, dst.Bounds(), layer, dst.Bounds().Min, mask, dst.Bounds().Min, draw.Over)
}

// starPolygon пятиконечная звезда, первый луч смотрит вверх
func starPolygon(cx, cy, rOut, rIn float64) []point {
	pts := make([]point, 0, 10)
	for i := 0; i < 10; i++ {
		r := rOut
		if i%2 == 1 {
			r = rIn
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		sin, cos := math.Sincos(a)
		pts = append(pts, point{cx + r*cos, cy + r*sin})
	}
	return pts
}
