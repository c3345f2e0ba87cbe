package video

import (
	"context"
	"time"
)

// video file information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string
	HasAudio  bool
}

// defines interface for video processing operations
type Processor interface {
	// retrieves video file information
	GetInfo(ctx context.Context, videoPath string) (*Info, error)

	// starts rendering a subtitle script into the video frames
	BurnSubtitles(ctx context.Context, req BurnRequest) *Task
}

// encoder settings for burned output
type EncoderOptions struct {
	Codec  string
	Preset string
	CRF    int
}

func DefaultEncoderOptions() EncoderOptions {
	return EncoderOptions{
		Codec:  "libx264",
		Preset: "ultrafast",
		CRF:    28,
	}
}

// default implementation using ffmpeg
type DefaultProcessor struct {
	tempDir string
	encoder EncoderOptions
}

func NewProcessor(tempDir string) *DefaultProcessor {
	return &DefaultProcessor{
		tempDir: tempDir,
		encoder: DefaultEncoderOptions(),
	}
}

// WithEncoder overrides the encoder for burns that do not set their own.
func (p *DefaultProcessor) WithEncoder(opts EncoderOptions) *DefaultProcessor {
	p.encoder = opts
	return p
}
