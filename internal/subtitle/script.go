package subtitle

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/captioner/internal/style"
	"github.com/mgpai22/captioner/internal/timeline"
)

const (
	styleName = "Default"

	styleFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	eventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"

	transparentTag = `{\alpha&HFF&}`
	resetTag       = `{\r}`
)

// pop tag approximates the live overshoot: grow past 110% then settle
var popTag = fmt.Sprintf(`{\t(0,%d,\fscx111\fscy111)\t(%d,%d,\fscx110\fscy110)}`,
	popPeakMillis, popPeakMillis, popSettleMillis)

const (
	popPeakMillis   = 100
	popSettleMillis = 150
)

// single style block of a generated script
type ScriptStyle struct {
	Name            string
	FontName        string
	FontSize        int
	PrimaryColour   string
	SecondaryColour string
	OutlineColour   string
	BackColour      string
	Bold            bool
	Outline         float64
	Shadow          float64
	Alignment       int
	MarginL         int
	MarginR         int
	MarginV         int
}

// one Dialogue line. Segment and Active are not written; they record
// which segment and which of its words the event shows highlighted
// (-1 for none).
type Event struct {
	Start   time.Duration
	End     time.Duration
	Text    string
	Segment string
	Active  int
}

type Script struct {
	PlayResX int
	PlayResY int
	Style    ScriptStyle
	Events   []Event
}

// GenerateScript renders words as a subtitle script for a width x height
// frame using the default segment options.
func GenerateScript(words []timeline.Word, st style.Style, width, height int) string {
	return BuildScript(words, st, width, height, timeline.DefaultSegmentOptions()).String()
}

// BuildScript groups words into segments with opts and emits one or more
// timed events per segment according to the style's animation.
func BuildScript(
	words []timeline.Word,
	st style.Style,
	width, height int,
	opts timeline.SegmentOptions,
) *Script {
	return buildScript(timeline.GroupIntoSegments(words, opts), st, width, height)
}

func buildScript(segments []timeline.Segment, st style.Style, width, height int) *Script {
	script := &Script{
		PlayResX: width,
		PlayResY: height,
		Style:    scriptStyle(st, width, height),
		Events:   make([]Event, 0, len(segments)),
	}

	highlight := style.MustParseColor(st.HighlightColor, style.White)
	e := emitter{script: script}

	for _, seg := range segments {
		e.segment = seg.ID
		texts := make([]string, len(seg.Words))
		for i, w := range seg.Words {
			texts[i] = EscapeText(st.DisplayText(w.Text))
		}

		switch {
		case st.Animation == style.AnimationTypewriter:
			for i, w := range seg.Words {
				end := seg.End
				if i+1 < len(seg.Words) {
					end = seg.Words[i+1].Start
				}
				e.add(w.Start, end, typewriterText(texts, i), -1)
			}

		case st.Animation.HighlightsActiveWord() || st.Animation == style.AnimationPop:
			open := popTag
			if st.Animation != style.AnimationPop {
				open = `{\c` + encodeInlineColor(highlight) + `}`
			}
			for i, w := range seg.Words {
				e.add(w.Start, w.End, activeText(texts, i, open), i)
				if i+1 < len(seg.Words) && seg.Words[i+1].Start > w.End {
					e.add(w.End, seg.Words[i+1].Start, strings.Join(texts, " "), -1)
				}
			}

		default:
			e.add(seg.Start, seg.End, strings.Join(texts, " "), -1)
		}
	}

	return script
}

type emitter struct {
	script  *Script
	segment string
}

// events that would round to zero or negative length are dropped
func (e emitter) add(start, end float64, text string, active int) {
	s, t := fromSeconds(start), fromSeconds(end)
	if centiseconds(t) <= centiseconds(s) {
		return
	}
	e.script.Events = append(e.script.Events, Event{
		Start:   s,
		End:     t,
		Text:    text,
		Segment: e.segment,
		Active:  active,
	})
}

func activeText(texts []string, active int, open string) string {
	var sb strings.Builder
	for i, t := range texts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == active {
			sb.WriteString(open)
			sb.WriteString(t)
			sb.WriteString(resetTag)
			continue
		}
		sb.WriteString(t)
	}
	return sb.String()
}

// words after shown stay in the layout but fully transparent
func typewriterText(texts []string, shown int) string {
	visible := strings.Join(texts[:shown+1], " ")
	if shown+1 == len(texts) {
		return visible
	}
	return visible + " " + transparentTag + strings.Join(texts[shown+1:], " ")
}

func scriptStyle(st style.Style, width, height int) ScriptStyle {
	m := st.Metrics(width, height)

	return ScriptStyle{
		Name:            styleName,
		FontName:        st.FontFamily,
		FontSize:        int(math.Round(m.FontSize)),
		PrimaryColour:   EncodeColor(style.MustParseColor(st.TextColor, style.White)),
		SecondaryColour: "&H000000FF",
		OutlineColour:   EncodeColor(style.MustParseColor(st.OutlineColor, style.Black)),
		BackColour:      EncodeColor(style.MustParseColor(st.ShadowColor, style.Black)),
		Bold:            st.Bold(),
		Outline:         round2(m.OutlineWidth),
		Shadow:          round2(m.ShadowBlur),
		Alignment:       2,
		MarginL:         int(math.Round(m.MarginSide)),
		MarginR:         int(math.Round(m.MarginSide)),
		MarginV:         int(math.Round(m.MarginBottom)),
	}
}

// EscapeText makes word text safe inside a Dialogue line. Braces and
// backslashes would otherwise open override blocks or escapes.
func EscapeText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\\', '{', '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\r', '\n':
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (s *Script) String() string {
	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	sb.WriteString("Title: captioner\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", s.PlayResX))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n", s.PlayResY))
	sb.WriteString("ScaledBorderAndShadow: yes\n")
	sb.WriteString("WrapStyle: 0\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString(styleFormat + "\n")
	sb.WriteString(s.Style.line() + "\n\n")

	sb.WriteString("[Events]\n")
	sb.WriteString(eventFormat + "\n")
	for _, ev := range s.Events {
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n",
			formatASSTime(ev.Start),
			formatASSTime(ev.End),
			s.Style.Name,
			ev.Text))
	}

	return sb.String()
}

func (s *Script) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// events whose window contains t, in script order
func (s *Script) EventsAt(t time.Duration) []Event {
	cs := centiseconds(t)
	var out []Event
	for _, ev := range s.Events {
		if cs >= centiseconds(ev.Start) && cs < centiseconds(ev.End) {
			out = append(out, ev)
		}
	}
	return out
}

func (st ScriptStyle) line() string {
	bold := 0
	if st.Bold {
		bold = -1
	}
	return fmt.Sprintf("Style: %s,%s,%d,%s,%s,%s,%s,%d,0,0,0,100,100,0,0,1,%s,%s,%d,%d,%d,%d,1",
		st.Name,
		strings.ReplaceAll(st.FontName, ",", " "),
		st.FontSize,
		st.PrimaryColour,
		st.SecondaryColour,
		st.OutlineColour,
		st.BackColour,
		bold,
		strconv.FormatFloat(st.Outline, 'f', -1, 64),
		strconv.FormatFloat(st.Shadow, 'f', -1, 64),
		st.Alignment,
		st.MarginL,
		st.MarginR,
		st.MarginV,
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
