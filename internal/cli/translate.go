package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/caption"
	"github.com/mgpai22/captioner/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [project]",
	Short: "Translate a caption project to another language using AI",
	Long: `Translate the words of a caption project into another language.

Words are grouped into caption segments and each segment is translated
as one line. The translated words are spread over the time range of the
segment they replace, so captions stay in sync with the speech.

Examples:
  captioner translate video.captions.json --target-language japanese
  captioner translate video.captions.json -t es --provider anthropic
  captioner translate video.captions.json -l english -t french -o video.fr.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		StringP("language", "l", "", "Source language (default: the project's language)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	translateCmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", 0, "Number of caption lines per API request")
	addSegmentFlags(translateCmd)

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	projectPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tc := cfg.Translation
	flags := cmd.Flags()
	targetLang, _ := flags.GetString("target-language")
	inputLang, _ := flags.GetString("language")
	apiKeyFlag, _ := flags.GetString("api-key")
	modelOverride, _ := flags.GetBool("model-override")
	outputPath, _ := flags.GetString("output")

	provider := tc.Provider
	if v := changed(flags, "provider", flags.GetString); v != nil {
		provider = strings.ToLower(*v)
	}
	model := tc.Model
	if v := changed(flags, "model", flags.GetString); v != nil {
		model = *v
	}
	concurrency := tc.Concurrency
	if v := changed(flags, "concurrency", flags.GetInt); v != nil {
		concurrency = *v
	}
	batchSize := tc.BatchSize
	if v := changed(flags, "batch-size", flags.GetInt); v != nil {
		batchSize = *v
	}

	track, err := caption.Load(projectPath)
	if err != nil {
		return err
	}
	if inputLang == "" && track.Language() != "auto" {
		inputLang = track.Language()
	}

	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" &&
		strings.EqualFold(strings.TrimSpace(inputLang), strings.TrimSpace(targetLang)) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}
	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}
	if err := checkModel("translation", provider, model, modelOverride); err != nil {
		return err
	}
	apiKey, err := resolveAPIKey(provider, apiKeyFlag, tc.APIKey)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = outputPathFor(projectPath, "."+targetLang+projectSuffix)
	}

	logger.Infow("Starting caption translation",
		"input", projectPath,
		"output", outputPath,
		"target_language", targetLang,
		"input_language", inputLang,
		"provider", provider,
		"model", model,
	)

	translator, err := translate.Factory(ctx, translate.Provider(provider), apiKey, translate.Options{
		InputLanguage:     inputLang,
		TargetLanguage:    targetLang,
		Model:             model,
		BatchSize:         batchSize,
		RequestsPerMinute: tc.RequestsPerMinute,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	segOpts := segmentsFromFlags(flags, cfg.Segments)
	words, err := translate.TranslateWords(ctx, translator, track.Words(), segOpts, concurrency)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	out := caption.NewTrack(track.Model(), targetLang)
	if err := out.SetWords(words); err != nil {
		return err
	}
	if err := out.Save(outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	logger.Infow("Translation complete", "words", len(words))

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Captions translated successfully: %s\n", absOutput)
	fmt.Printf("  Words: %d\n", len(words))
	fmt.Printf("  Target language: %s\n", targetLang)
	return nil
}
