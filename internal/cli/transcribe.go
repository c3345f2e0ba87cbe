package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/caption"
	"github.com/mgpai22/captioner/internal/export"
	"github.com/mgpai22/captioner/internal/transcribe"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Transcribe an audio or video file into word timings",
	Long: `Transcribe the specified audio or video file into a caption project
holding one entry per spoken word with its start and end time.

The audio is decoded to 16 kHz mono, split into windows, and the windows
are transcribed in parallel by the selected provider.

Examples:
  captioner transcribe video.mp4
  captioner transcribe talk.mp3 --provider openai --srt
  captioner transcribe video.mp4 -l es --window 45s --concurrency 5`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		String("provider", "", "Transcription provider (gemini, openai)")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY env var)")
	transcribeCmd.Flags().
		String("model", "", "Model to use for transcription (provider-specific)")
	transcribeCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	transcribeCmd.Flags().
		StringP("language", "l", "", "Spoken language code, or auto to detect")
	transcribeCmd.Flags().
		Duration("window", 0, "Audio window length per request")
	transcribeCmd.Flags().
		Int("concurrency", 0, "Number of parallel transcription requests")
	transcribeCmd.Flags().
		Bool("srt", false, "Also write a one-word-per-cue SRT next to the project")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	tc := cfg.Transcription
	flags := cmd.Flags()
	provider := tc.Provider
	if v := changed(flags, "provider", flags.GetString); v != nil {
		provider = strings.ToLower(*v)
	}
	model := tc.Model
	if v := changed(flags, "model", flags.GetString); v != nil {
		model = *v
	}
	language := tc.Language
	if v := changed(flags, "language", flags.GetString); v != nil {
		language = *v
	}
	window := tc.WindowSize
	if v := changed(flags, "window", flags.GetDuration); v != nil {
		window = *v
	}
	concurrency := tc.Concurrency
	if v := changed(flags, "concurrency", flags.GetInt); v != nil {
		concurrency = *v
	}
	apiKeyFlag, _ := flags.GetString("api-key")
	modelOverride, _ := flags.GetBool("model-override")
	writeSRT, _ := flags.GetBool("srt")
	outputPath, _ := flags.GetString("output")

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if window <= 0 {
		return fmt.Errorf("window must be positive, got %s", window)
	}
	if err := checkModel("transcription", provider, model, modelOverride); err != nil {
		return err
	}
	apiKey, err := resolveAPIKey(provider, apiKeyFlag, tc.APIKey)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = outputPathFor(mediaPath, projectSuffix)
	}

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"output", outputPath,
		"provider", provider,
		"language", language,
		"window", window.String(),
		"concurrency", concurrency,
	)

	session, err := transcribe.NewSession(ctx, transcribe.Provider(provider), apiKey, transcribe.Options{
		Model:             model,
		WindowSize:        window,
		Concurrency:       concurrency,
		RequestsPerMinute: tc.RequestsPerMinute,
		Logger:            logger.Named("transcribe"),
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}
	defer session.Close()

	track := caption.NewTrack(model, language)
	track.OnStatus(func(s caption.Status) {
		logger.Infow("Status", "status", s)
	})

	if err := track.LoadModel(ctx, session); err != nil {
		return err
	}

	start := time.Now()
	if err := track.Generate(ctx, mediaPath, caption.ExtractorFunc(audio.ExtractPCM), session); err != nil {
		return err
	}

	words := track.Words()
	logger.Infow("Transcription complete",
		"words", len(words),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	if err := track.Save(outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Captions generated successfully: %s\n", absOutput)
	fmt.Printf("  Words: %d\n", len(words))
	if n := len(words); n > 0 {
		fmt.Printf("  Duration: %s\n", seconds(words[n-1].End))
	}

	if writeSRT {
		srtPath := outputPathFor(mediaPath, ".srt")
		if err := (&export.Exporter{Logger: logger}).WriteSRT(words, srtPath); err != nil {
			return err
		}
		absSRT, _ := filepath.Abs(srtPath)
		fmt.Printf("  SRT: %s\n", absSRT)
	}

	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Millisecond)
}
