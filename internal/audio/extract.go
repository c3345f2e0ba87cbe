package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/captioner/internal/ffmpeg"
)

var ErrNoAudio = errors.New("no audio samples decoded")

// pcmArgs builds the ffmpeg arguments that decode the first audio stream of
// input to raw little-endian float32 mono samples on stdout.
func pcmArgs(input string) []string {
	return ffmpeg.Input(input).
		Output("pipe:", ffmpeg.KwArgs{
			"vn": "",
			"f":  "f32le",
			"ac": 1,
			"ar": SampleRate,
		}).
		GlobalArgs("-hide_banner", "-loglevel", "error").
		GetArgs()
}

// ExtractPCM decodes the audio of an audio or video file to 16 kHz mono.
func ExtractPCM(ctx context.Context, mediaPath string) (*PCM, error) {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", mediaPath)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, pcmArgs(mediaPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("audio extraction failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("audio extraction failed: %w", err)
	}

	samples := DecodeFloat32LE(stdout.Bytes())
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}

	return &PCM{Samples: samples, SampleRate: SampleRate}, nil
}

// DecodeFloat32LE converts raw f32le bytes to samples. A trailing partial
// sample is ignored.
func DecodeFloat32LE(data []byte) []float32 {
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples
}
