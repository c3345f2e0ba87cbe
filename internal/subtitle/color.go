package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mgpai22/captioner/internal/style"
)

// EncodeColor converts c to the script's &HAABBGGRR notation. The alpha
// byte is inverted: 00 is opaque and FF fully transparent.
func EncodeColor(c style.Color) string {
	return fmt.Sprintf("&H%02X%02X%02X%02X", alphaByte(c.A), c.B, c.G, c.R)
}

// override-tag form, &HBBGGRR&
func encodeInlineColor(c style.Color) string {
	return fmt.Sprintf("&H%02X%02X%02X&", c.B, c.G, c.R)
}

// DecodeColor reverses EncodeColor. It also accepts the inline
// &HBBGGRR& form, which carries no alpha.
func DecodeColor(s string) (style.Color, error) {
	raw := strings.TrimSpace(s)
	hex := strings.TrimSuffix(raw, "&")
	if len(hex) < 2 || !strings.EqualFold(hex[:2], "&H") {
		return style.Color{}, fmt.Errorf("invalid script color %q", s)
	}
	hex = hex[2:]

	switch len(hex) {
	case 6, 8:
	default:
		return style.Color{}, fmt.Errorf("invalid script color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return style.Color{}, fmt.Errorf("invalid script color %q: %w", s, err)
	}

	c := style.Color{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: 1,
	}
	if len(hex) == 8 {
		c.A = 1 - float64(uint8(v>>24))/255
	}
	return c, nil
}

func alphaByte(opacity float64) uint8 {
	if math.IsNaN(opacity) || opacity >= 1 {
		return 0
	}
	if opacity <= 0 {
		return 0xFF
	}
	return uint8(math.Round((1 - opacity) * 255))
}
