package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/caption"
	"github.com/mgpai22/captioner/internal/export"
	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/video"
)

var exportCmd = &cobra.Command{
	Use:   "export [srt|ass] [project]",
	Short: "Write a project as an SRT or styled ASS subtitle file",
	Long: `Write the words of a project as a subtitle file.

srt writes one cue per word. ass writes a styled script with the
selected animation, laid out for the video's frame size, which is taken
from --video or --width and --height.

Examples:
  captioner export srt video.captions.json
  captioner export ass video.captions.json --video video.mp4 --animation typewriter
  captioner export ass video.captions.json --width 1080 --height 1920 -o short.ass`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"srt", "ass"},
	RunE:      runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int("width", 0, "Frame width in px")
	exportCmd.Flags().Int("height", 0, "Frame height in px")
	exportCmd.Flags().String("video", "", "Take the frame size from this video")
	addStyleFlags(exportCmd)
	addSegmentFlags(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := subtitle.ParseFormat(args[0])
	if err != nil {
		return err
	}
	projectPath := args[1]
	flags := cmd.Flags()
	outputPath, _ := flags.GetString("output")

	track, err := caption.Load(projectPath)
	if err != nil {
		return err
	}

	exporter := &export.Exporter{
		Processor: video.NewProcessor(cfg.Export.TempDir),
		Logger:    logger,
	}

	if outputPath == "" {
		outputPath = outputPathFor(projectPath, format.Ext())
	}

	switch format {
	case subtitle.FormatSRT:
		if err := exporter.WriteSRT(track.Words(), outputPath); err != nil {
			return err
		}
	case subtitle.FormatASS:
		st, err := styleFromFlags(flags, cfg.Style)
		if err != nil {
			return err
		}
		width, _ := flags.GetInt("width")
		height, _ := flags.GetInt("height")
		if videoPath, _ := flags.GetString("video"); videoPath != "" {
			info, err := exporter.Dimensions(ctx, videoPath)
			if err != nil {
				return err
			}
			width, height = info.Width, info.Height
		}
		if width <= 0 || height <= 0 {
			return fmt.Errorf("ass export needs --video or --width and --height")
		}

		if err := exporter.WriteScript(export.ScriptRequest{
			Words:    track.Words(),
			Style:    st,
			Segments: segmentsFromFlags(flags, cfg.Segments),
			Width:    width,
			Height:   height,
		}, outputPath); err != nil {
			return err
		}
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles exported successfully: %s\n", absOutput)
	return nil
}
