package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/caption"
	"github.com/mgpai22/captioner/internal/overlay"
	"github.com/mgpai22/captioner/internal/video"
)

var previewCmd = &cobra.Command{
	Use:   "preview [project]",
	Short: "Print the overlay frames a player would draw",
	Long: `Drive the caption overlay from a simulated playback clock and print
each frame whose content changes: the active segment, the active word
in brackets, and the font size scaled to the display width.

The native video size comes from --video or --native-width and
--native-height.

Examples:
  captioner preview video.captions.json --video video.mp4
  captioner preview video.captions.json --native-width 1920 --native-height 1080 --width 640 --animation pop
  captioner preview video.captions.json --from 10s --to 20s --fps 60 --realtime`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Float64("width", 0, "Display width in px (default: native width)")
	previewCmd.Flags().Int("native-width", 1920, "Native video width in px")
	previewCmd.Flags().Int("native-height", 1080, "Native video height in px")
	previewCmd.Flags().String("video", "", "Probe the native size from this video")
	previewCmd.Flags().Float64("fps", 30, "Clock ticks per second")
	previewCmd.Flags().Duration("from", 0, "Start time")
	previewCmd.Flags().Duration("to", 0, "End time (default: end of the last word)")
	previewCmd.Flags().Bool("realtime", false, "Pace the clock at playback speed")
	addStyleFlags(previewCmd)
	addSegmentFlags(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	flags := cmd.Flags()

	track, err := caption.Load(args[0])
	if err != nil {
		return err
	}
	st, err := styleFromFlags(flags, cfg.Style)
	if err != nil {
		return err
	}
	segOpts := segmentsFromFlags(flags, cfg.Segments)

	width, _ := flags.GetFloat64("width")
	nativeWidth, _ := flags.GetInt("native-width")
	nativeHeight, _ := flags.GetInt("native-height")
	videoPath, _ := flags.GetString("video")
	fps, _ := flags.GetFloat64("fps")
	from, _ := flags.GetDuration("from")
	to, _ := flags.GetDuration("to")
	realtime, _ := flags.GetBool("realtime")

	if videoPath != "" {
		info, err := video.NewProcessor(cfg.Export.TempDir).GetInfo(ctx, videoPath)
		if err != nil {
			return err
		}
		nativeWidth, nativeHeight = info.Width, info.Height
	}
	if nativeWidth <= 0 || nativeHeight <= 0 {
		return fmt.Errorf("native size must be positive, got %dx%d", nativeWidth, nativeHeight)
	}
	if width <= 0 {
		width = float64(nativeWidth)
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %v", fps)
	}

	words := track.Words()
	end := to.Seconds()
	if end <= 0 && len(words) > 0 {
		end = words[len(words)-1].End
	}

	surface := overlay.Surface{Width: width, NativeWidth: nativeWidth, NativeHeight: nativeHeight}
	driver := overlay.NewDriver(overlay.NewRenderer(segOpts), words, st, surface)

	logger.Debugw("Starting preview",
		"from", from.String(),
		"to", seconds(end).String(),
		"fps", fps,
		"surface", fmt.Sprintf("%.0f over %dx%d", width, nativeWidth, nativeHeight),
	)

	return playPreview(ctx, driver, from.Seconds(), end, fps, realtime, os.Stdout)
}

// playPreview steps the clock one tick at a time and waits for each
// frame, so no frame is dropped. Realtime mode sleeps between ticks.
func playPreview(
	ctx context.Context,
	driver *overlay.Driver,
	from, to, fps float64,
	realtime bool,
	w io.Writer,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clock := make(chan float64)
	frames := driver.Run(ctx, clock)
	defer close(clock)

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(time.Duration(float64(time.Second) / fps))
		defer ticker.Stop()
	}

	last := ""
	for i := 0; ; i++ {
		t := from + float64(i)/fps
		if t > to {
			return nil
		}
		if ticker != nil && i > 0 {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		select {
		case clock <- t:
		case <-ctx.Done():
			return ctx.Err()
		}

		var frame overlay.Frame
		select {
		case frame = <-frames:
		case <-ctx.Done():
			return ctx.Err()
		}

		line := describeFrame(frame)
		if line == last {
			continue
		}
		last = line
		fmt.Fprintf(w, "%10s  %s\n", seconds(t), line)
	}
}

// describeFrame renders a frame as one line; the active word is
// bracketed and hidden typewriter words are omitted.
func describeFrame(f overlay.Frame) string {
	if !f.Visible {
		return "-"
	}

	parts := make([]string, 0, len(f.Runs))
	for _, r := range f.Runs {
		if r.Opacity <= 0 {
			continue
		}
		text := r.Text
		if r.Active {
			text = "[" + text + "]"
		}
		if r.Scale > 1.001 {
			text += fmt.Sprintf("x%.2f", r.Scale)
		}
		parts = append(parts, text)
	}
	return fmt.Sprintf("%s  %.1fpx  %s", f.SegmentID, f.FontSize, strings.Join(parts, " "))
}
