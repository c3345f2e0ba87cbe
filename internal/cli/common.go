package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mgpai22/captioner/internal/style"
	"github.com/mgpai22/captioner/internal/timeline"
)

// environment variable holding the API key for a provider
var apiKeyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// resolveAPIKey picks the flag, then the configured key, then the
// provider's environment variable.
func resolveAPIKey(provider, flagValue, configured string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if configured != "" {
		return configured, nil
	}

	envVar, ok := apiKeyEnv[provider]
	if !ok {
		envVar = "API_KEY"
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf(
		"API key is required: use --api-key flag or set %s environment variable",
		envVar,
	)
}

const projectSuffix = ".captions.json"

// outputPathFor derives an output path next to input, replacing its
// extension (or the project suffix) with suffix.
func outputPathFor(input, suffix string) string {
	if base, ok := strings.CutSuffix(input, projectSuffix); ok {
		return base + suffix
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

func addStyleFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("animation", "", "Caption animation (none, pop, highlight, karaoke, typewriter)")
	f.String("font", "", "Font family")
	f.Float64("font-size", 0, "Font size in px at 1080p")
	f.Int("font-weight", 0, "Font weight (700 and above is bold)")
	f.String("text-color", "", "Text color (#RRGGBB or rgba())")
	f.String("highlight-color", "", "Active word color")
	f.String("outline-color", "", "Outline color")
	f.Float64("outline-width", 0, "Outline width in px at 1080p")
	f.Float64("y-offset", 0, "Distance from the bottom in percent of frame height")
	f.Float64("max-width", 0, "Maximum caption width in percent of frame width")
	f.Bool("uppercase", false, "Render captions in upper case")
}

func addSegmentFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-chars", 0, "Maximum characters per caption segment")
	cmd.Flags().Float64("max-gap", 0, "Silence in seconds that starts a new segment")
}

// styleFromFlags applies the flags the user actually set on top of base.
func styleFromFlags(flags *pflag.FlagSet, base style.Style) (style.Style, error) {
	var p style.Patch

	if flags.Changed("animation") {
		raw, _ := flags.GetString("animation")
		a, err := style.ParseAnimation(raw)
		if err != nil {
			return base, err
		}
		p.Animation = &a
	}
	p.FontFamily = changed(flags, "font", flags.GetString)
	p.FontSize = changed(flags, "font-size", flags.GetFloat64)
	p.FontWeight = changed(flags, "font-weight", flags.GetInt)
	p.TextColor = changed(flags, "text-color", flags.GetString)
	p.HighlightColor = changed(flags, "highlight-color", flags.GetString)
	p.OutlineColor = changed(flags, "outline-color", flags.GetString)
	p.OutlineWidth = changed(flags, "outline-width", flags.GetFloat64)
	p.YOffset = changed(flags, "y-offset", flags.GetFloat64)
	p.MaxWidth = changed(flags, "max-width", flags.GetFloat64)
	p.Uppercase = changed(flags, "uppercase", flags.GetBool)

	st := base.Apply(p)
	if err := st.Validate(); err != nil {
		return base, fmt.Errorf("invalid style: %w", err)
	}
	return st, nil
}

func segmentsFromFlags(flags *pflag.FlagSet, base timeline.SegmentOptions) timeline.SegmentOptions {
	if v := changed(flags, "max-chars", flags.GetInt); v != nil {
		base.MaxChars = *v
	}
	if v := changed(flags, "max-gap", flags.GetFloat64); v != nil {
		base.MaxGap = *v
	}
	return base
}

func changed[T any](flags *pflag.FlagSet, name string, get func(string) (T, error)) *T {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return nil
	}
	return &v
}
