package overlay

import (
	"github.com/mgpai22/captioner/internal/style"
	"github.com/mgpai22/captioner/internal/timeline"
)

// seconds the pop overshoot takes to settle
const PopDuration = 0.15

const popScale = 1.1

// Surface describes where the overlay is drawn. Width is the on-screen
// pixel width of the player; NativeWidth and NativeHeight are the source
// video's pixel dimensions.
type Surface struct {
	Width        float64
	NativeWidth  int
	NativeHeight int
}

func (s Surface) Scale() float64 {
	if s.NativeWidth <= 0 || s.Width <= 0 {
		return 1
	}
	return s.Width / float64(s.NativeWidth)
}

// one word of the active segment as drawn
type Run struct {
	Text    string
	Color   style.Color
	Scale   float64
	Opacity float64
	Active  bool
}

type Frame struct {
	Time      float64
	Visible   bool
	SegmentID string
	Active    int // index into Runs of the active word, -1 when none
	Runs      []Run

	FontFamily   string
	FontWeight   int
	FontSize     float64
	OutlineWidth float64
	OutlineColor style.Color
	ShadowBlur   float64
	ShadowColor  style.Color

	BottomPercent float64
	WidthPercent  float64
	LeftPercent   float64
}

// Text joins the visible runs.
func (f Frame) Text() string {
	var n int
	for _, r := range f.Runs {
		n += len(r.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, r := range f.Runs {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

type Renderer struct {
	segmenter *timeline.Segmenter
}

func NewRenderer(opts timeline.SegmentOptions) *Renderer {
	return &Renderer{segmenter: timeline.NewSegmenter(opts)}
}

func (r *Renderer) Segments(words []timeline.Word) []timeline.Segment {
	return r.segmenter.Segments(words)
}

// Render resolves what the overlay shows at time t. Segments are only
// regrouped when the words slice is replaced.
func (r *Renderer) Render(words []timeline.Word, st style.Style, t float64, surface Surface) Frame {
	frame := Frame{Time: t, Active: -1}

	seg, ok := timeline.ActiveSegment(r.segmenter.Segments(words), t)
	if !ok {
		return frame
	}

	metrics := st.Metrics(surface.NativeWidth, surface.NativeHeight).Scaled(surface.Scale())

	frame.Visible = true
	frame.SegmentID = seg.ID
	frame.FontFamily = st.FontFamily
	frame.FontWeight = st.FontWeight
	frame.FontSize = metrics.FontSize
	frame.OutlineWidth = metrics.OutlineWidth
	frame.OutlineColor = style.MustParseColor(st.OutlineColor, style.Black)
	frame.ShadowBlur = metrics.ShadowBlur
	frame.ShadowColor = style.MustParseColor(st.ShadowColor, style.Black)
	frame.BottomPercent = st.YOffset
	frame.WidthPercent = st.MaxWidth
	frame.LeftPercent = (100 - st.MaxWidth) / 2

	if i, ok := timeline.ActiveWord(seg, t); ok {
		frame.Active = i
	}

	base := style.MustParseColor(st.TextColor, style.White)
	highlight := style.MustParseColor(st.HighlightColor, base)

	frame.Runs = make([]Run, len(seg.Words))
	for i, w := range seg.Words {
		run := Run{
			Text:    st.DisplayText(w.Text),
			Color:   base,
			Scale:   1,
			Opacity: 1,
			Active:  i == frame.Active,
		}

		switch {
		case st.Animation.HighlightsActiveWord():
			if run.Active {
				run.Color = highlight
			}
		case st.Animation == style.AnimationPop:
			if run.Active {
				run.Scale = PopScale(t - w.Start)
			}
		case st.Animation == style.AnimationTypewriter:
			if t < w.Start {
				run.Opacity = 0
			}
		}

		frame.Runs[i] = run
	}

	return frame
}

// PopScale is the scale of a popped word elapsed seconds after it became
// active.
func PopScale(elapsed float64) float64 {
	p := elapsed / PopDuration
	if p <= 0 {
		return 1
	}
	if p >= 1 {
		return popScale
	}
	return 1 + (popScale-1)*easeOutBack(p)
}

func easeOutBack(p float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	q := p - 1
	return 1 + c3*q*q*q + c1*q*q
}
