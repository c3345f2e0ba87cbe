package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/caption"
	"github.com/mgpai22/captioner/internal/export"
	"github.com/mgpai22/captioner/internal/fonts"
	"github.com/mgpai22/captioner/internal/video"
)

var burnCmd = &cobra.Command{
	Use:   "burn [video_file] [project]",
	Short: "Burn animated captions into a video",
	Long: `Render the words of a project with the selected style at the video's
native resolution and burn them into a new video with ffmpeg.

With --script an existing ASS file is burned instead and the project
argument is omitted. The audio stream is copied unchanged.

Examples:
  captioner burn video.mp4 video.captions.json
  captioner burn video.mp4 video.captions.json --animation pop --font "Inter" -o out.mp4
  captioner burn video.mp4 --script styled.ass`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)

	burnCmd.Flags().String("script", "", "Burn this ASS script instead of a project")
	burnCmd.Flags().String("preset", "", "x264 preset")
	burnCmd.Flags().Int("crf", -1, "x264 quality (0-51)")
	addStyleFlags(burnCmd)
	addSegmentFlags(burnCmd)
}

func runBurn(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	flags := cmd.Flags()
	videoPath := args[0]
	scriptPath, _ := flags.GetString("script")
	outputPath, _ := flags.GetString("output")

	if scriptPath == "" && len(args) != 2 {
		return fmt.Errorf("burn needs a project file or --script")
	}
	if outputPath == "" {
		outputPath = outputPathFor(videoPath, ".captioned.mp4")
	}

	encoder := cfg.Export.Encoder()
	if v := changed(flags, "preset", flags.GetString); v != nil {
		encoder.Preset = *v
	}
	if v := changed(flags, "crf", flags.GetInt); v != nil {
		encoder.CRF = *v
	}

	st, err := styleFromFlags(flags, cfg.Style)
	if err != nil {
		return err
	}

	exporter := &export.Exporter{
		Processor: video.NewProcessor(cfg.Export.TempDir).WithEncoder(encoder),
		Fonts: fonts.NewResolver(fonts.Options{
			Dirs:     slices.Concat(cfg.Fonts.Dirs, fonts.SystemDirs()),
			URLs:     cfg.Fonts.URLs,
			CacheDir: cfg.Fonts.CacheDir,
		}),
		Logger: logger,
	}

	bar := newProgressBar(os.Stderr)
	var result *video.BurnResult
	if scriptPath != "" {
		result, err = exporter.BurnScript(ctx, videoPath, scriptPath, outputPath, st.FontFamily, bar.update)
	} else {
		var track *caption.Track
		track, err = caption.Load(args[1])
		if err != nil {
			return err
		}
		result, err = exporter.BurnVideo(ctx, export.VideoRequest{
			VideoPath:  videoPath,
			OutputPath: outputPath,
			Words:      track.Words(),
			Style:      st,
			Segments:   segmentsFromFlags(flags, cfg.Segments),
		}, bar.update)
	}
	bar.finish()
	if err != nil {
		return fmt.Errorf("burn failed: %w", err)
	}

	absOutput, _ := filepath.Abs(result.OutputPath)
	fmt.Printf("Video exported successfully: %s\n", absOutput)
	fmt.Printf("  Size: %.1f MB\n", float64(result.Size)/(1<<20))
	fmt.Printf("  Elapsed: %s\n", result.Elapsed.Round(time.Millisecond))
	return nil
}
