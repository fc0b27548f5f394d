package model

import (
	"fmt"
	"strings"
)

// ImageRef URL картинки или data URI
type ImageRef string

func (r ImageRef) IsZero() bool {
	return strings.TrimSpace(string(r)) == ""
}

// IsDataURI data: картинки грузятся напрямую, без цепочки фолбэков
func (r ImageRef) IsDataURI() bool {
	return strings.HasPrefix(strings.TrimSpace(string(r)), "data:")
}

// Placement смещение картинки внутри сектора, обе координаты в [-1, 1]
type Placement struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Placement) Validate() error {
	if p.X < -1 || p.X > 1 || p.Y < -1 || p.Y > 1 {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidPlacement, p.X, p.Y)
	}
	return nil
}

// MaxSegmentWeight верхняя граница веса сегмента
const MaxSegmentWeight = 1_000_000

// Segment сектор колеса. Порядок в списке задает угловую позицию
type Segment struct {
	Label     string
	FillColor *Color // nil - цвет из палитры
	TextColor *Color // nil - берется из дизайна или дефолта
	Image     ImageRef
	Placement *Placement
	Weight    int // вес для случайного выбора победителя, 0 = 1
}

func (s Segment) HasImage() bool {
	return !s.Image.IsZero()
}

// WheelDesign премиум-оформление, применяется ко всему колесу
type WheelDesign struct {
	BackgroundColor *Color
	BorderColor     *Color
	TextColor       *Color
	CenterImage     ImageRef
}

func (d WheelDesign) IsZero() bool {
	return d.BackgroundColor == nil && d.BorderColor == nil && d.TextColor == nil && d.CenterImage.IsZero()
}

// SizePreset размер колеса
type SizePreset string

const (
	SizeSmall  SizePreset = "small"
	SizeMedium SizePreset = "medium"
	SizeLarge  SizePreset = "large"
)

func ParseSizePreset(s string) (SizePreset, error) {
	switch SizePreset(strings.ToLower(strings.TrimSpace(s))) {
	case SizeSmall:
		return SizeSmall, nil
	case SizeMedium, "":
		return SizeMedium, nil
	case SizeLarge:
		return SizeLarge, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
}

// PresetMetrics пиксельные размеры пресета
type PresetMetrics struct {
	Radius       int     `yaml:"radius"`
	FontSize     float64 `yaml:"font_size"`
	TextDistance int     `yaml:"text_distance"`
}
