package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/audio"
)

var extractCmd = &cobra.Command{
	Use:   "extract [media_file]",
	Short: "Extract the transcription audio from a media file",
	Long: `Decode the audio of a video or audio file to the 16 kHz mono samples
used for transcription and save them as a 16-bit WAV file.

Examples:
  captioner extract video.mp4
  captioner extract video.mp4 -o audio.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = outputPathFor(mediaPath, ".wav")
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	logger.Infow("Extracting audio",
		"input", mediaPath,
		"kind", audio.KindOf(mediaPath).String(),
		"output", outputPath,
		"sample_rate", audio.SampleRate,
	)

	pcm, err := audio.ExtractPCM(ctx, mediaPath)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if err := audio.WriteWAV(outputPath, pcm); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Audio extracted successfully: %s\n", absOutput)
	fmt.Printf("  Duration: %s\n", pcm.Duration().Round(time.Millisecond))
	return nil
}
