package style

// Scale converts a reference-height measurement factor for a frame of
// the given pixel height.
func Scale(targetHeight int) float64 {
	if targetHeight <= 0 {
		return 1
	}
	return float64(targetHeight) / ReferenceHeight
}

// pixel measurements of a style at a concrete frame size
type Metrics struct {
	FontSize     float64
	OutlineWidth float64
	ShadowBlur   float64
	MarginBottom float64 // px from the bottom edge
	MarginSide   float64 // px on each side left by MaxWidth
}

// Metrics resolves the style for a frame of width x height native pixels.
// The live overlay and the script generator both size text through
// this, so preview and burned output agree.
func (s Style) Metrics(width, height int) Metrics {
	k := Scale(height)
	return Metrics{
		FontSize:     s.FontSize * k,
		OutlineWidth: s.OutlineWidth * k,
		ShadowBlur:   s.ShadowBlur * k,
		MarginBottom: s.YOffset / 100 * float64(height),
		MarginSide:   (100 - s.MaxWidth) / 200 * float64(width),
	}
}

// Scaled multiplies every pixel measurement by f.
func (m Metrics) Scaled(f float64) Metrics {
	return Metrics{
		FontSize:     m.FontSize * f,
		OutlineWidth: m.OutlineWidth * f,
		ShadowBlur:   m.ShadowBlur * f,
		MarginBottom: m.MarginBottom * f,
		MarginSide:   m.MarginSide * f,
	}
}
