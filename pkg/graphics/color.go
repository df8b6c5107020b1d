// Package graphics defines the small value types that widgets animate:
// colors, offsets, sizes, rectangles, radii and edge insets.
//
// The types are plain values. Interpolation between them lives in the
// transition package so that graphics stays free of scheduling concerns.
package graphics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// maxByte is the maximum value of a byte, used for color normalization.
const maxByte = 255.0

// Color is stored as ARGB (0xAARRGGBB).
type Color uint32

// RGBA constructs a Color from red, green, blue bytes and alpha (0-1).
func RGBA(r, g, b uint8, a float64) Color {
	return ARGB(alpha01ToByte(a), r, g, b)
}

// ARGB constructs a Color from alpha, red, green, blue bytes.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB constructs an opaque Color from red, green, blue bytes.
func RGB(r, g, b uint8) Color {
	return ARGB(0xFF, r, g, b)
}

// A returns the alpha byte.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red byte.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green byte.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue byte.
func (c Color) B() uint8 { return uint8(c) }

// Channels returns the color as [a, r, g, b].
func (c Color) Channels() [4]uint8 {
	return [4]uint8{c.A(), c.R(), c.G(), c.B()}
}

// ColorFromChannels is the inverse of Channels.
func ColorFromChannels(ch [4]uint8) Color {
	return ARGB(ch[0], ch[1], ch[2], ch[3])
}

// Alpha returns the alpha component as a value from 0.0 (transparent) to 1.0 (opaque).
func (c Color) Alpha() float64 {
	return float64(c.A()) / maxByte
}

// WithAlpha returns a copy of the color with the given alpha (0-1).
func (c Color) WithAlpha(a float64) Color {
	return Color(uint32(alpha01ToByte(a))<<24 | uint32(c)&0x00FFFFFF)
}

// String formats the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseColor accepts an SVG/CSS color name ("cornflowerblue"), #RGB or
// #RRGGBB (opaque) or #AARRGGBB.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		switch len(hex) {
		case 3:
			r, g, b := uint8(v>>8&0xF), uint8(v>>4&0xF), uint8(v&0xF)
			return RGB(r*0x11, g*0x11, b*0x11), nil
		case 6:
			return Color(0xFF000000 | uint32(v)), nil
		case 8:
			return Color(uint32(v)), nil
		default:
			return 0, fmt.Errorf("invalid color %q: want #RGB, #RRGGBB or #AARRGGBB", s)
		}
	}
	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown color name %q", s)
	}
	return ARGB(named.A, named.R, named.G, named.B), nil
}

// alpha01ToByte converts a 0-1 alpha to 0-255 with proper rounding.
func alpha01ToByte(a float64) uint8 {
	return uint8(math.Round(clamp01(a) * maxByte))
}

// clamp01 clamps a value to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Common colors.
const (
	ColorTransparent = Color(0x00000000)
	ColorBlack       = Color(0xFF000000)
	ColorWhite       = Color(0xFFFFFFFF)
	ColorRed         = Color(0xFFFF0000)
	ColorGreen       = Color(0xFF00FF00)
	ColorBlue        = Color(0xFF0000FF)
)
