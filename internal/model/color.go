package model

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// Color цвет в формате #rrggbb или #rrggbbaa (без предумножения альфы)
type Color struct {
	R, G, B, A uint8
}

// RGBA реализует color.Color
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Hex возвращает #rrggbb, либо #rrggbbaa если есть прозрачность
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor разбирает #rgb, #rrggbb и #rrggbbaa
func ParseColor(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) == 3 {
		raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
	}
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	b, err := hex.DecodeString(raw)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c := Color{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// MustColor для констант палитры
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MarshalText #00000000 тоже цвет: отсутствие цвета выражается nil-указателем
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Color{}
		return nil
	}
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
