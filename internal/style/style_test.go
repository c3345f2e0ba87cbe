package style

import (
	"math"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#FFFFFF", Color{255, 255, 255, 1}, false},
		{"#6366f1", Color{0x63, 0x66, 0xf1, 1}, false},
		{"6366F1", Color{0x63, 0x66, 0xf1, 1}, false},
		{"#fa0", Color{0xff, 0xaa, 0x00, 1}, false},
		{"rgb(10, 20, 30)", Color{10, 20, 30, 1}, false},
		{"rgba(0,0,0,0.5)", Color{0, 0, 0, 0.5}, false},
		{"RGBA(300, -4, 12.6, 2)", Color{255, 0, 13, 1}, false},
		{"rgba(1,2,3,-1)", Color{1, 2, 3, 0}, false},
		{"", Color{}, true},
		{"#12345", Color{}, true},
		{"rgb(1,2)", Color{}, true},
		{"hsl(1,2,3)", Color{}, true},
		{"rgb(a,b,c)", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if got := (Color{R: 1, G: 2, B: 255, A: 1}).String(); got != "#0102FF" {
		t.Errorf("String() = %q", got)
	}
	if got := (Color{A: 0.25}).String(); got != "rgba(0,0,0,0.25)" {
		t.Errorf("String() = %q", got)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default style invalid: %v", err)
	}
}

func TestValidateReportsFields(t *testing.T) {
	s := Default()
	s.TextColor = "nope"
	s.FontSize = 0
	s.Animation = "wiggle"
	s.MaxWidth = 120

	err := s.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"text color", "font size", "wiggle", "max width"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestParseAnimation(t *testing.T) {
	for _, a := range Animations() {
		got, err := ParseAnimation(" " + strings.ToUpper(string(a)) + " ")
		if err != nil || got != a {
			t.Errorf("ParseAnimation(%q) = %q, %v", a, got, err)
		}
	}
	if _, err := ParseAnimation("bounce"); err == nil {
		t.Error("expected error for unknown animation")
	}
	if !AnimationKaraoke.HighlightsActiveWord() || !AnimationHighlight.HighlightsActiveWord() {
		t.Error("highlight and karaoke should both highlight the active word")
	}
	if AnimationPop.HighlightsActiveWord() {
		t.Error("pop does not recolor the active word")
	}
}

func TestApplyPatch(t *testing.T) {
	base := Default()
	size := 48.0
	anim := AnimationTypewriter
	upper := false

	got := base.Apply(Patch{FontSize: &size, Animation: &anim, Uppercase: &upper})

	if got.FontSize != 48 || got.Animation != AnimationTypewriter || got.Uppercase {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.FontFamily != base.FontFamily || got.TextColor != base.TextColor {
		t.Error("unpatched fields should be preserved")
	}
	if base.FontSize != 32 {
		t.Error("Apply must not modify the receiver")
	}
}

func TestMetricsScaleWithHeight(t *testing.T) {
	s := Default()

	ref := s.Metrics(1920, 1080)
	if ref.FontSize != 32 || ref.OutlineWidth != 1 || ref.ShadowBlur != 4 {
		t.Errorf("reference metrics changed values: %+v", ref)
	}
	if math.Abs(ref.MarginBottom-86.4) > 1e-9 {
		t.Errorf("MarginBottom = %v, want 86.4", ref.MarginBottom)
	}
	if math.Abs(ref.MarginSide-192) > 1e-9 {
		t.Errorf("MarginSide = %v, want 192", ref.MarginSide)
	}

	hd := s.Metrics(1280, 720)
	if math.Abs(hd.FontSize-32*720.0/1080) > 1e-9 {
		t.Errorf("720p font size = %v", hd.FontSize)
	}

	half := ref.Scaled(0.5)
	if half.FontSize != 16 || half.ShadowBlur != 2 {
		t.Errorf("Scaled(0.5) = %+v", half)
	}

	if Scale(0) != 1 {
		t.Error("non-positive height should not scale")
	}
}

func TestDisplayText(t *testing.T) {
	s := Default()
	if s.DisplayText("hello") != "HELLO" {
		t.Error("uppercase flag ignored")
	}
	s.Uppercase = false
	if s.DisplayText("hello") != "hello" {
		t.Error("text changed without uppercase flag")
	}
}
