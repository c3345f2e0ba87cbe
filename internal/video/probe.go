package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	ffmpegbin "github.com/mgpai22/captioner/internal/ffmpeg"
)

// retrieves video file information
func (p *DefaultProcessor) GetInfo(
	ctx context.Context,
	videoPath string,
) (*Info, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, stderr.String())
	}

	info, err := parseProbe(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	info.Path = videoPath
	return info, nil
}

func parseProbe(data []byte) (*Info, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse ffprobe output")
	}

	doc := gjson.ParseBytes(data)
	info := &Info{}

	if d := doc.Get("format.duration"); d.Exists() {
		if seconds, err := strconv.ParseFloat(d.String(), 64); err == nil {
			info.Duration = time.Duration(seconds * float64(time.Second))
		}
	}

	stream := doc.Get(`streams.#(codec_type=="video")`)
	if !stream.Exists() {
		return nil, fmt.Errorf("no video stream found")
	}
	info.Width = int(stream.Get("width").Int())
	info.Height = int(stream.Get("height").Int())
	info.Codec = stream.Get("codec_name").String()
	info.FrameRate = parseFrameRate(stream.Get("avg_frame_rate").String())
	if info.FrameRate == 0 {
		info.FrameRate = parseFrameRate(stream.Get("r_frame_rate").String())
	}

	info.HasAudio = doc.Get(`streams.#(codec_type=="audio")`).Exists()

	return info, nil
}

// parses ffprobe rates like "30000/1001"
func parseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, _ := strconv.ParseFloat(rate, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
