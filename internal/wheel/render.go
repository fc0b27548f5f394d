package wheel

import (
	"image"
	"image/color"
	"math"

	"prize_wheel/internal/model"
)

const (
	// imageAnchor расстояние центра картинки сектора от центра колеса, доля радиуса
	imageAnchor = 0.6
	// imageSize сторона квадрата, в который вписывается картинка сектора, доля радиуса
	imageSize = 0.45
	// placementScale смещение при placement = ±1, доля радиуса
	placementScale = 0.3
	// centerFraction радиус центральной картинки, доля радиуса колеса
	centerFraction = 0.2
)

var (
	defaultBorderColor = model.MustColor("#333333")
	defaultTextColor   = model.MustColor("#ffffff")
	glyphFillColor     = model.MustColor("#ffffff")
	glyphStarColor     = model.MustColor("#f5b700")

	// палитра для сегментов без цвета
	defaultSegmentColors = []model.Color{
		model.MustColor("#e74c3c"),
		model.MustColor("#3498db"),
		model.MustColor("#2ecc71"),
		model.MustColor("#f1c40f"),
		model.MustColor("#9b59b6"),
		model.MustColor("#e67e22"),
	}
)

// Layout геометрия холста для пресета
type Layout struct {
	Size   int
	CX, CY float64
	Radius float64
	Margin float64
}

func LayoutFor(p model.PresetMetrics) Layout {
	r := float64(p.Radius)
	margin := math.Max(24, math.Round(r*0.12))
	size := int(2 * (r + margin))
	return Layout{
		Size:   size,
		CX:     float64(size) / 2,
		CY:     float64(size) / 2,
		Radius: r,
		Margin: margin,
	}
}

func (l Layout) borderWidth() float64 {
	return math.Max(2, l.Radius/100)
}

type palette struct {
	background color.Color
	border     color.Color
	text       *model.Color
}

func (w *Wheel) paletteLocked() palette {
	p := palette{
		background: color.Transparent,
		border:     defaultBorderColor,
	}
	if !w.premium {
		return p
	}
	if w.design.BackgroundColor != nil {
		p.background = *w.design.BackgroundColor
	}
	if w.design.BorderColor != nil {
		p.border = *w.design.BorderColor
	}
	p.text = w.design.TextColor
	return p
}

func segmentFill(s model.Segment, i int) color.Color {
	if s.FillColor == nil {
		return defaultSegmentColors[i%len(defaultSegmentColors)]
	}
	return *s.FillColor
}

func segmentText(s model.Segment, p palette) color.Color {
	if p.text != nil {
		return *p.text
	}
	if s.TextColor != nil {
		return *s.TextColor
	}
	return defaultTextColor
}

// Layout геометрия холста текущего колеса
func (w *Wheel) Layout() Layout {
	return LayoutFor(w.opts.Preset)
}

// Render рисует текущее состояние колеса.
// Результат зависит только от состояния, повторный вызов дает те же пиксели
func (w *Wheel) Render() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renderLocked()
}

func (w *Wheel) renderLocked() *image.RGBA {
	l := LayoutFor(w.opts.Preset)
	dst := image.NewRGBA(image.Rect(0, 0, l.Size, l.Size))
	pal := w.paletteLocked()

	fillPolygon(dst, []point{{0, 0}, {float64(l.Size), 0}, {float64(l.Size), float64(l.Size)}, {0, float64(l.Size)}}, pal.background)

	n := len(w.segments)
	if n > 0 {
		width := SegmentWidth(n)
		for i, seg := range w.segments {
			a0 := w.rotation + float64(i)*width
			a1 := a0 + width
			wedge := wedgePolygon(l.CX, l.CY, l.Radius, a0, a1)

			fillPolygon(dst, wedge, segmentFill(seg, i))
			if img, ok := w.images[i]; ok {
				w.drawSegmentImageLocked(dst, l, i, img, a0+width/2, wedge)
			}
		}

		// границы рисуются поверх всех заливок, иначе соседний сектор их перекроет
		bw := l.borderWidth()
		for i := range w.segments {
			a0 := w.rotation + float64(i)*width
			sin, cos := math.Sincos(a0)
			strokeLine(dst, point{l.CX, l.CY}, point{l.CX + l.Radius*cos, l.CY + l.Radius*sin}, bw, pal.border)
		}
		strokeCircle(dst, l.CX, l.CY, l.Radius, bw, pal.border)

		maxLabel := int(2 * (l.Radius - float64(w.opts.Preset.TextDistance)))
		for i, seg := range w.segments {
			bisector := w.rotation + float64(i)*width + width/2
			drawLabel(dst, w.face, seg.Label, segmentText(seg, pal), l.CX, l.CY,
				float64(w.opts.Preset.TextDistance), bisector, maxLabel)
		}
	}

	drawPointer(dst, l, pal.border)
	w.drawCenterLocked(dst, l, pal)

	return dst
}

// imageFrame опорная точка и поворот картинки сектора с биссектрисой bisector
func imageFrame(l Layout, bisector float64) (ax, ay, phi float64) {
	sin, cos := math.Sincos(bisector)
	ax = l.CX + l.Radius*imageAnchor*cos
	ay = l.CY + l.Radius*imageAnchor*sin
	// верх картинки смотрит наружу по биссектрисе
	phi = bisector + math.Pi/2
	return ax, ay, phi
}

func (w *Wheel) placementLocked(i int) model.Placement {
	if p, ok := w.placements[i]; ok {
		return p
	}
	if i < len(w.segments) && w.segments[i].Placement != nil {
		return *w.segments[i].Placement
	}
	return model.Placement{}
}

func (w *Wheel) drawSegmentImageLocked(dst *image.RGBA, l Layout, i int, img image.Image, bisector float64, wedge []point) {
	ax, ay, phi := imageFrame(l, bisector)
	p := w.placementLocked(i)

	sin, cos := math.Sincos(phi)
	ox := p.X * l.Radius * placementScale
	oy := p.Y * l.Radius * placementScale
	cx := ax + ox*cos - oy*sin
	cy := ay + ox*sin + oy*cos

	mask := polygonMask(dst.Bounds(), wedge)
	drawTransformed(dst, img, cx, cy, l.Radius*imageSize, phi, mask)
}

// drawPointer треугольник над колесом, острием к центру
func drawPointer(dst *image.RGBA, l Layout, c color.Color) {
	h := l.Margin * 0.8
	half := h * 0.6
	top := l.CY - l.Radius - h
	tip := l.CY - l.Radius + h*0.25
	fillPolygon(dst, []point{
		{l.CX - half, top},
		{l.CX + half, top},
		{l.CX, tip},
	}, c)
}

func (w *Wheel) drawCenterLocked(dst *image.RGBA, l Layout, pal palette) {
	if !w.premium || w.design.CenterImage.IsZero() {
		return
	}

	r := l.Radius * centerFraction
	bw := l.borderWidth()

	if w.center != nil {
		mask := polygonMask(dst.Bounds(), circlePolygon(l.CX, l.CY, r))
		drawTransformed(dst, w.center, l.CX, l.CY, 2*r, 0, mask)
	} else {
		// пока картинка грузится или если она недоступна, центр не остается пустым
		fillPolygon(dst, circlePolygon(l.CX, l.CY, r), glyphFillColor)
		fillPolygon(dst, starPolygon(l.CX, l.CY, r*0.75, r*0.3), glyphStarColor)
	}
	strokeCircle(dst, l.CX, l.CY, r, bw, pal.border)
}
