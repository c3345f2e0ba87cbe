package style

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Color is a parsed style color. A is opacity in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

var (
	Black = Color{A: 1}
	White = Color{R: 255, G: 255, B: 255, A: 1}
)

var (
	hexColorRe  = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)
	funcColorRe = regexp.MustCompile(`^rgba?\(\s*([^)]*)\)$`)
)

// ParseColor accepts "#RRGGBB", "RRGGBB", "#RGB", "rgb(r,g,b)" and
// "rgba(r,g,b,a)". Channels are clamped to [0, 255] and alpha to [0, 1].
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)

	if m := hexColorRe.FindStringSubmatch(s); m != nil {
		hex := m[1]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, nil
	}

	if m := funcColorRe.FindStringSubmatch(strings.ToLower(s)); m != nil {
		parts := strings.Split(m[1], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return Color{}, fmt.Errorf("invalid color %q: expected 3 or 4 components", s)
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
			}
			ch[i] = clampChannel(v)
		}
		alpha := 1.0
		if len(parts) == 4 {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil {
				return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
			}
			alpha = clampUnit(v)
		}
		return Color{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
	}

	return Color{}, fmt.Errorf("unsupported color %q", s)
}

// MustParseColor falls back to fallback when s does not parse.
func MustParseColor(s string, fallback Color) Color {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
