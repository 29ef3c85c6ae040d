// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a 32-bit ARGB color.
type Color uint32

const (
	DefaultPolylineHue        = 360
	DefaultPolylineSaturation = 1
	DefaultPolylineValue      = 1
	DefaultPolylineAlpha      = 128
	DefaultPolylineWidth      = 8
)

// DefaultPolylineColor is the half transparent red of the original route polyline.
var DefaultPolylineColor = HSVToColor(DefaultPolylineAlpha, DefaultPolylineHue, DefaultPolylineSaturation,
	DefaultPolylineValue)

// HSVToColor converts hue (degrees), saturation and value (both 0-1) into an ARGB color with
// the given alpha. Hue values outside [0,360) are treated as 0 and saturation and value are
// clamped into [0,1].
func HSVToColor(alpha uint8, hue, saturation, value float64) Color {
	s := clamp01(saturation)
	v := clamp01(value)
	vb := byteOf(v)
	if s <= 0 {
		return argb(alpha, vb, vb, vb)
	}

	hx := 0.0
	if hue >= 0 && hue < 360 {
		hx = hue / 60
	}
	w := math.Floor(hx)
	f := hx - w
	p := byteOf(v * (1 - s))
	q := byteOf(v * (1 - s*f))
	t := byteOf(v * (1 - s*(1-f)))

	switch int(w) {
	case 0:
		return argb(alpha, vb, t, p)
	case 1:
		return argb(alpha, q, vb, p)
	case 2:
		return argb(alpha, p, vb, t)
	case 3:
		return argb(alpha, p, q, vb)
	case 4:
		return argb(alpha, t, p, vb)
	default:
		return argb(alpha, vb, p, q)
	}
}

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// RGBA returns the red, green, blue and alpha channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// CSS returns the color as CSS rgba() expression, as used by browser map viewers.
func (c Color) CSS() string {
	r, g, b, a := c.RGBA()
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", r, g, b, float64(a)/255)
}

// MarshalText renders the color as hex string.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a color in the #AARRGGBB form.
func (c *Color) UnmarshalText(text []byte) error {
	value, err := strconv.ParseUint(strings.TrimPrefix(string(text), "#"), 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", text, err)
	}
	*c = Color(value)
	return nil
}

// String satisfies the fmt.Stringer interface for the Color type.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

func argb(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func byteOf(x float64) uint8 {
	return uint8(math.Round(x * 255))
}

func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}
