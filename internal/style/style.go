package style

import (
	"errors"
	"fmt"
	"strings"
)

// canonical frame height that FontSize, OutlineWidth and ShadowBlur are
// expressed against
const ReferenceHeight = 1080

type Animation string

const (
	AnimationNone       Animation = "none"
	AnimationPop        Animation = "pop"
	AnimationHighlight  Animation = "highlight"
	AnimationKaraoke    Animation = "karaoke"
	AnimationTypewriter Animation = "typewriter"
)

var animations = []Animation{
	AnimationNone,
	AnimationPop,
	AnimationHighlight,
	AnimationKaraoke,
	AnimationTypewriter,
}

func Animations() []Animation {
	out := make([]Animation, len(animations))
	copy(out, animations)
	return out
}

func ParseAnimation(s string) (Animation, error) {
	a := Animation(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range animations {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown animation %q: use none, pop, highlight, karaoke, or typewriter", s)
}

// highlight and karaoke render identically
func (a Animation) HighlightsActiveWord() bool {
	return a == AnimationHighlight || a == AnimationKaraoke
}

// Style is an immutable snapshot of caption appearance. Edits produce a
// new value through Apply.
type Style struct {
	FontFamily        string    `json:"fontFamily"`
	FontSize          float64   `json:"fontSize"` // px at ReferenceHeight
	FontWeight        int       `json:"fontWeight"`
	TextColor         string    `json:"textColor"`
	OutlineColor      string    `json:"outlineColor"`
	OutlineWidth      float64   `json:"outlineWidth"`
	HighlightColor    string    `json:"highlightColor"`
	ShadowColor       string    `json:"shadowColor"`
	ShadowBlur        float64   `json:"shadowBlur"`
	BackgroundColor   string    `json:"backgroundColor"`
	BackgroundOpacity float64   `json:"backgroundOpacity"`
	Animation         Animation `json:"animation"`
	YOffset           float64   `json:"yOffset"`  // % of frame height from the bottom
	MaxWidth          float64   `json:"maxWidth"` // % of frame width
	Uppercase         bool      `json:"uppercase"`
}

func Default() Style {
	return Style{
		FontFamily:        "DM Sans",
		FontSize:          32,
		FontWeight:        700,
		TextColor:         "#FFFFFF",
		OutlineColor:      "#000000",
		OutlineWidth:      1,
		HighlightColor:    "#6366f1",
		ShadowColor:       "rgba(0,0,0,0.5)",
		ShadowBlur:        4,
		BackgroundColor:   "#000000",
		BackgroundOpacity: 0,
		Animation:         AnimationHighlight,
		YOffset:           8,
		MaxWidth:          80,
		Uppercase:         true,
	}
}

func (s Style) Bold() bool {
	return s.FontWeight >= 700
}

func (s Style) Validate() error {
	var errs []error

	if strings.TrimSpace(s.FontFamily) == "" {
		errs = append(errs, errors.New("font family is required"))
	}
	if s.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font size must be positive, got %v", s.FontSize))
	}
	if s.OutlineWidth < 0 {
		errs = append(errs, fmt.Errorf("outline width must not be negative, got %v", s.OutlineWidth))
	}
	if s.ShadowBlur < 0 {
		errs = append(errs, fmt.Errorf("shadow blur must not be negative, got %v", s.ShadowBlur))
	}
	if s.BackgroundOpacity < 0 || s.BackgroundOpacity > 1 {
		errs = append(errs, fmt.Errorf("background opacity must be within [0, 1], got %v", s.BackgroundOpacity))
	}
	if s.YOffset < 0 || s.YOffset > 100 {
		errs = append(errs, fmt.Errorf("y offset must be within [0, 100], got %v", s.YOffset))
	}
	if s.MaxWidth <= 0 || s.MaxWidth > 100 {
		errs = append(errs, fmt.Errorf("max width must be within (0, 100], got %v", s.MaxWidth))
	}
	if _, err := ParseAnimation(string(s.Animation)); err != nil {
		errs = append(errs, err)
	}

	colors := []struct {
		field string
		value string
	}{
		{"text color", s.TextColor},
		{"outline color", s.OutlineColor},
		{"highlight color", s.HighlightColor},
		{"shadow color", s.ShadowColor},
		{"background color", s.BackgroundColor},
	}
	for _, c := range colors {
		if _, err := ParseColor(c.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.field, err))
		}
	}

	return errors.Join(errs...)
}

// Patch is a partial style update; nil fields are left unchanged.
type Patch struct {
	FontFamily        *string
	FontSize          *float64
	FontWeight        *int
	TextColor         *string
	OutlineColor      *string
	OutlineWidth      *float64
	HighlightColor    *string
	ShadowColor       *string
	ShadowBlur        *float64
	BackgroundColor   *string
	BackgroundOpacity *float64
	Animation         *Animation
	YOffset           *float64
	MaxWidth          *float64
	Uppercase         *bool
}

func (s Style) Apply(p Patch) Style {
	set(&s.FontFamily, p.FontFamily)
	set(&s.FontSize, p.FontSize)
	set(&s.FontWeight, p.FontWeight)
	set(&s.TextColor, p.TextColor)
	set(&s.OutlineColor, p.OutlineColor)
	set(&s.OutlineWidth, p.OutlineWidth)
	set(&s.HighlightColor, p.HighlightColor)
	set(&s.ShadowColor, p.ShadowColor)
	set(&s.ShadowBlur, p.ShadowBlur)
	set(&s.BackgroundColor, p.BackgroundColor)
	set(&s.BackgroundOpacity, p.BackgroundOpacity)
	set(&s.Animation, p.Animation)
	set(&s.YOffset, p.YOffset)
	set(&s.MaxWidth, p.MaxWidth)
	set(&s.Uppercase, p.Uppercase)
	return s
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// DisplayText applies the uppercase flag.
func (s Style) DisplayText(text string) string {
	if s.Uppercase {
		return strings.ToUpper(text)
	}
	return text
}
