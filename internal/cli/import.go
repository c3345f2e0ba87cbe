package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/caption"
	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/timeline"
	"github.com/mgpai22/captioner/internal/transcribe"
)

var importCmd = &cobra.Command{
	Use:   "import [chunks.json|subtitle_file]",
	Short: "Create a caption project from recognizer chunks or subtitles",
	Long: `Create a caption project from an existing transcript.

JSON input holds recognizer chunks, either as an array or under a
"chunks" key, each with "text" and a [start, end] "timestamp" in
seconds. SRT and ASS input is converted cue by cue; the words of a cue
are spread evenly over its time range.

Examples:
  captioner import chunks.json
  captioner import video.srt -o video.captions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().
		StringP("language", "l", "", "Language code stored with the project")
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	words, err := importWords(inputPath)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("%s contains no words", inputPath)
	}

	if outputPath == "" {
		outputPath = outputPathFor(inputPath, projectSuffix)
	}

	track := caption.NewTrack("", language)
	if err := track.SetWords(words); err != nil {
		return err
	}
	if err := track.Save(outputPath); err != nil {
		return err
	}

	logger.Infow("Imported transcript",
		"input", inputPath,
		"output", outputPath,
		"words", len(words),
	)

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Project written: %s\n", absOutput)
	fmt.Printf("  Words: %d\n", len(words))
	return nil
}

func importWords(path string) ([]timeline.Word, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open chunks: %w", err)
		}
		defer f.Close()

		chunks, err := transcribe.ParseChunks(f)
		if err != nil {
			return nil, err
		}
		return transcribe.WordsFromChunks(chunks)
	default:
		file, err := subtitle.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse subtitle file: %w", err)
		}
		return subtitle.WordsFromSubtitle(file.Subtitle()), nil
	}
}
