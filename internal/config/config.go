package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mgpai22/captioner/internal/style"
	"github.com/mgpai22/captioner/internal/timeline"
	"github.com/mgpai22/captioner/internal/transcribe"
	"github.com/mgpai22/captioner/internal/translate"
	"github.com/mgpai22/captioner/internal/video"
)

// Name is the config file looked up when no path is given.
const Name = "captioner"

// Config holds all configuration for the application
type Config struct {
	Style         style.Style
	Segments      timeline.SegmentOptions
	Transcription TranscriptionConfig
	Translation   TranslationConfig
	Export        ExportConfig
	Fonts         FontsConfig
	FFmpeg        FFmpegConfig
}

type TranscriptionConfig struct {
	Provider          string
	Model             string
	Language          string
	APIKey            string
	WindowSize        time.Duration
	Concurrency       int
	RequestsPerMinute int
}

type TranslationConfig struct {
	Provider          string
	Model             string
	APIKey            string
	BatchSize         int
	Concurrency       int
	RequestsPerMinute int
}

type ExportConfig struct {
	TempDir string
	Codec   string
	Preset  string
	CRF     int
}

func (e ExportConfig) Encoder() video.EncoderOptions {
	return video.EncoderOptions{Codec: e.Codec, Preset: e.Preset, CRF: e.CRF}
}

type FontsConfig struct {
	Dirs     []string
	URLs     map[string]string
	CacheDir string
}

type FFmpegConfig struct {
	FFmpegPath  string
	FFprobePath string
	CacheDir    string
	Download    bool
}

// Load reads configuration from defaults, an optional YAML file and
// CAPTIONER_* environment variables, in increasing priority. An empty
// path searches the working directory and the user config dir for
// captioner.yaml; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CAPTIONER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, Name))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment overrides.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func (c *Config) Validate() error {
	var errs []error

	if err := c.Style.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("style: %w", err))
	}
	if c.Segments.MaxChars <= 0 {
		errs = append(errs, errors.New("segments.maxChars must be positive"))
	}
	if c.Segments.MaxGap <= 0 {
		errs = append(errs, errors.New("segments.maxGap must be positive"))
	}
	if c.Transcription.WindowSize <= 0 {
		errs = append(errs, errors.New("transcription.windowSize must be positive"))
	}
	if c.Transcription.Concurrency < 1 || c.Translation.Concurrency < 1 {
		errs = append(errs, errors.New("concurrency must be at least 1"))
	}
	if c.Export.CRF < 0 || c.Export.CRF > 51 {
		errs = append(errs, fmt.Errorf("export.crf %d out of range 0-51", c.Export.CRF))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Style defaults
	st := style.Default()
	v.SetDefault("style.fontFamily", st.FontFamily)
	v.SetDefault("style.fontSize", st.FontSize)
	v.SetDefault("style.fontWeight", st.FontWeight)
	v.SetDefault("style.textColor", st.TextColor)
	v.SetDefault("style.outlineColor", st.OutlineColor)
	v.SetDefault("style.outlineWidth", st.OutlineWidth)
	v.SetDefault("style.highlightColor", st.HighlightColor)
	v.SetDefault("style.shadowColor", st.ShadowColor)
	v.SetDefault("style.shadowBlur", st.ShadowBlur)
	v.SetDefault("style.backgroundColor", st.BackgroundColor)
	v.SetDefault("style.backgroundOpacity", st.BackgroundOpacity)
	v.SetDefault("style.animation", string(st.Animation))
	v.SetDefault("style.yOffset", st.YOffset)
	v.SetDefault("style.maxWidth", st.MaxWidth)
	v.SetDefault("style.uppercase", st.Uppercase)

	// Segment defaults
	seg := timeline.DefaultSegmentOptions()
	v.SetDefault("segments.maxChars", seg.MaxChars)
	v.SetDefault("segments.maxGap", seg.MaxGap)

	// Transcription defaults
	v.SetDefault("transcription.provider", string(transcribe.ProviderGemini))
	v.SetDefault("transcription.model", "")
	v.SetDefault("transcription.language", "auto")
	v.SetDefault("transcription.apiKey", "")
	v.SetDefault("transcription.windowSize", transcribe.DefaultWindowSize.String())
	v.SetDefault("transcription.concurrency", transcribe.DefaultConcurrency)
	v.SetDefault("transcription.requestsPerMinute", 0)

	// Translation defaults
	v.SetDefault("translation.provider", string(translate.ProviderGemini))
	v.SetDefault("translation.model", "")
	v.SetDefault("translation.apiKey", "")
	v.SetDefault("translation.batchSize", translate.DefaultBatchSize)
	v.SetDefault("translation.concurrency", 3)
	v.SetDefault("translation.requestsPerMinute", 0)

	// Export defaults
	enc := video.DefaultEncoderOptions()
	v.SetDefault("export.tempDir", "")
	v.SetDefault("export.codec", enc.Codec)
	v.SetDefault("export.preset", enc.Preset)
	v.SetDefault("export.crf", enc.CRF)

	// Font defaults
	v.SetDefault("fonts.dirs", []string{})
	v.SetDefault("fonts.urls", map[string]string{})
	v.SetDefault("fonts.cacheDir", "")

	// FFmpeg defaults
	v.SetDefault("ffmpeg.ffmpegPath", "")
	v.SetDefault("ffmpeg.ffprobePath", "")
	v.SetDefault("ffmpeg.cacheDir", "")
	v.SetDefault("ffmpeg.download", true)
}
