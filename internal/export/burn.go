package export

import (
	"context"
	"fmt"

	"github.com/mgpai22/captioner/internal/style"
	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/timeline"
	"github.com/mgpai22/captioner/internal/video"
)

// VideoRequest describes a burn of generated captions into a video.
type VideoRequest struct {
	VideoPath  string
	OutputPath string
	Words      []timeline.Word
	Style      style.Style
	Segments   timeline.SegmentOptions
	Encoder    *video.EncoderOptions
}

// BurnVideo renders the words with the style at the video's native size
// and burns them in. onProgress, when set, receives whole percentages.
func (e *Exporter) BurnVideo(
	ctx context.Context,
	req VideoRequest,
	onProgress func(int),
) (*video.BurnResult, error) {
	info, err := e.Dimensions(ctx, req.VideoPath)
	if err != nil {
		return nil, err
	}

	script, err := ScriptRequest{
		Words:    req.Words,
		Style:    req.Style,
		Segments: req.Segments,
		Width:    info.Width,
		Height:   info.Height,
	}.build()
	if err != nil {
		return nil, err
	}

	e.logger().Infow("Burning captions",
		"video", req.VideoPath,
		"resolution", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"events", len(script.Events),
		"animation", req.Style.Animation,
	)

	return e.burn(ctx, video.BurnRequest{
		VideoPath:  req.VideoPath,
		OutputPath: req.OutputPath,
		Script:     script.String(),
		FontFamily: req.Style.FontFamily,
		Duration:   info.Duration,
		Encoder:    req.Encoder,
	}, onProgress)
}

// BurnScript burns an existing script file.
func (e *Exporter) BurnScript(
	ctx context.Context,
	videoPath, scriptPath, outputPath, fontFamily string,
	onProgress func(int),
) (*video.BurnResult, error) {
	script, err := subtitle.OpenScript(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("invalid subtitle script: %w", err)
	}
	w, h := script.PlayRes()
	e.logger().Debugw("Script loaded",
		"path", scriptPath,
		"dialogues", len(script.Dialogues()),
		"play_res", fmt.Sprintf("%dx%d", w, h),
	)

	return e.burn(ctx, video.BurnRequest{
		VideoPath:  videoPath,
		OutputPath: outputPath,
		ScriptPath: scriptPath,
		FontFamily: fontFamily,
	}, onProgress)
}

func (e *Exporter) burn(
	ctx context.Context,
	req video.BurnRequest,
	onProgress func(int),
) (*video.BurnResult, error) {
	if req.FontFamily != "" && e.Fonts != nil {
		font, err := e.Fonts.Resolve(ctx, req.FontFamily)
		if err != nil {
			e.logger().Warnw("Font not available, falling back to system fonts",
				"family", req.FontFamily,
				"error", err,
			)
		} else {
			e.logger().Debugw("Using font file", "family", req.FontFamily, "path", font.Path)
			req.FontFiles = append(req.FontFiles, font.Path)
		}
	}

	task := e.Processor.BurnSubtitles(ctx, req)
	for p := range task.Progress() {
		if onProgress != nil {
			onProgress(p)
		}
	}

	result, err := task.Wait()
	if err != nil {
		return nil, err
	}

	e.logger().Infow("Burn complete",
		"output", result.OutputPath,
		"bytes", result.Size,
		"elapsed", result.Elapsed,
	)
	return result, nil
}
