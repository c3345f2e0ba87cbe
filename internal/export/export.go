package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/mgpai22/captioner/internal/fonts"
	"github.com/mgpai22/captioner/internal/logging"
	"github.com/mgpai22/captioner/internal/style"
	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/timeline"
	"github.com/mgpai22/captioner/internal/video"
)

var ErrNoWords = errors.New("no words to export")

// FontResolver locates a font file for a family.
type FontResolver interface {
	Resolve(ctx context.Context, family string) (*fonts.Font, error)
}

// Exporter turns a word sequence into subtitle files or burned video.
// Every export works on a private copy of the words taken when it starts.
type Exporter struct {
	Processor video.Processor
	Fonts     FontResolver
	Logger    *logging.Logger
}

func (e *Exporter) logger() *logging.Logger {
	return logging.OrNop(e.Logger)
}

// WriteSRT writes one cue per word.
func (e *Exporter) WriteSRT(words []timeline.Word, path string) error {
	frozen := timeline.Clone(words)
	if len(frozen) == 0 {
		return ErrNoWords
	}

	writer, err := subtitle.NewWriter(subtitle.FormatSRT)
	if err != nil {
		return err
	}
	if err := writer.Write(subtitle.FromWords(frozen), path); err != nil {
		return err
	}

	e.logger().Infow("Wrote SRT", "path", path, "cues", len(frozen))
	return nil
}

// ScriptRequest describes a styled subtitle script for a frame size.
type ScriptRequest struct {
	Words    []timeline.Word
	Style    style.Style
	Segments timeline.SegmentOptions
	Width    int
	Height   int
}

func (r ScriptRequest) build() (*subtitle.Script, error) {
	frozen := timeline.Clone(r.Words)
	if len(frozen) == 0 {
		return nil, ErrNoWords
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", r.Width, r.Height)
	}
	if err := r.Style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid style: %w", err)
	}
	return subtitle.BuildScript(frozen, r.Style, r.Width, r.Height, r.Segments), nil
}

// WriteScript writes the styled script to path.
func (e *Exporter) WriteScript(req ScriptRequest, path string) error {
	script, err := req.build()
	if err != nil {
		return err
	}
	if err := (&subtitle.ScriptWriter{}).Write(script, path); err != nil {
		return err
	}

	e.logger().Infow("Wrote subtitle script",
		"path", path,
		"events", len(script.Events),
		"resolution", fmt.Sprintf("%dx%d", req.Width, req.Height),
	)
	return nil
}

// Dimensions probes a video for its native frame size.
func (e *Exporter) Dimensions(ctx context.Context, videoPath string) (*video.Info, error) {
	info, err := e.Processor.GetInfo(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("video %s reports no frame size", videoPath)
	}
	return info, nil
}
