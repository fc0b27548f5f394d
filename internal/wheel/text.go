package wheel

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

var (
	labelFontOnce sync.Once
	labelFont     *opentype.Font
)

var shadowColor = color.NRGBA{A: 0x99}

func parsedLabelFont() *opentype.Font {
	labelFontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			panic(err) // встроенный шрифт всегда валиден
		}
		labelFont = f
	})
	return labelFont
}

// newLabelFace font.Face не потокобезопасен, у каждого колеса свой
func newLabelFace(size float64) font.Face {
	if size <= 0 {
		size = 16
	}
	face, err := opentype.NewFace(parsedLabelFont(), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(err)
	}
	return face
}

// fitLabel обрезает подпись с многоточием, чтобы она влезла в maxWidth пикселей
func fitLabel(face font.Face, label string, maxWidth int) string {
	if maxWidth <= 0 || font.MeasureString(face, label).Ceil() <= maxWidth {
		return label
	}
	runes := []rune(label)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			return candidate
		}
	}
	return ""
}

// labelTile текст с тенью на прозрачном фоне
func labelTile(face font.Face, label string, c color.Color, shadowOffset int) *image.RGBA {
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	width := font.MeasureString(face, label).Ceil()

	pad := 2
	tile := image.NewRGBA(image.Rect(0, 0, width+2*pad+shadowOffset, ascent+descent+2*pad+shadowOffset))

	d := &font.Drawer{
		Dst:  tile,
		Src:  image.NewUniform(shadowColor),
		Face: face,
		Dot:  fixed.P(pad+shadowOffset, pad+ascent+shadowOffset),
	}
	d.DrawString(label)

	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(pad, pad+ascent)
	d.DrawString(label)

	return tile
}

// drawLabel подпись по биссектрисе сектора, центр текста на расстоянии distance от центра колеса
func drawLabel(dst *image.RGBA, face font.Face, label string, c color.Color, cx, cy, distance, angle float64, maxWidth int) {
	label = fitLabel(face, label, maxWidth)
	if label == "" {
		return
	}

	size := face.Metrics().Height.Ceil()
	shadowOffset := int(math.Max(1, math.Round(float64(size)/14)))
	tile := labelTile(face, label, c, shadowOffset)

	sin, cos := math.Sincos(angle)
	px, py := cx+distance*cos, cy+distance*sin
	tcx := float64(tile.Bounds().Dx()) / 2
	tcy := float64(tile.Bounds().Dy()) / 2

	m := f64.Aff3{
		cos, -sin, 0,
		sin, cos, 0,
	}
	m[2] = px - (m[0]*tcx + m[1]*tcy)
	m[5] = py - (m[3]*tcx + m[4]*tcy)

	draw.BiLinear.Transform(dst, m, tile, tile.Bounds(), draw.Over, nil)
}
