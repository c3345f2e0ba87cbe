package video

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/captioner/internal/ffmpeg"
)

var ErrEmptyOutput = errors.New("ffmpeg produced empty output file")

// BurnRequest describes one subtitle burn. Exactly one of Script and
// ScriptPath is used; Script wins when both are set.
type BurnRequest struct {
	VideoPath  string
	OutputPath string

	Script     string
	ScriptPath string

	// FontFamily is forced onto every style so libass falls back to a
	// system font of that name when FontFiles do not match.
	FontFamily string
	FontFiles  []string

	// Duration of the source, used for progress. Probed when zero.
	Duration time.Duration

	Encoder *EncoderOptions
}

func (r BurnRequest) validate() error {
	if r.VideoPath == "" {
		return errors.New("video path is required")
	}
	if r.OutputPath == "" {
		return errors.New("output path is required")
	}
	if r.Script == "" && r.ScriptPath == "" {
		return errors.New("subtitle script is required")
	}
	return nil
}

// BurnSubtitles starts the burn and returns immediately. Cancelling ctx
// or calling Task.Cancel stops ffmpeg.
func (p *DefaultProcessor) BurnSubtitles(ctx context.Context, req BurnRequest) *Task {
	return StartTask(ctx, func(ctx context.Context, report func(int)) (*BurnResult, error) {
		start := time.Now()
		size, err := p.burn(ctx, req, report)
		if err != nil {
			return nil, err
		}
		return &BurnResult{
			OutputPath: req.OutputPath,
			Size:       size,
			Elapsed:    time.Since(start),
		}, nil
	})
}

func (p *DefaultProcessor) burn(ctx context.Context, req BurnRequest, report func(int)) (size int64, err error) {
	if err := req.validate(); err != nil {
		return 0, err
	}
	if _, err := os.Stat(req.VideoPath); os.IsNotExist(err) {
		return 0, fmt.Errorf("video file not found: %s", req.VideoPath)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return 0, err
	}

	duration := req.Duration
	if duration <= 0 {
		if info, err := p.GetInfo(ctx, req.VideoPath); err == nil {
			duration = info.Duration
		}
	}

	workDir, err := p.createWorkDir()
	if err != nil {
		return 0, err
	}
	defer os.RemoveAll(workDir)

	scriptPath := req.ScriptPath
	if req.Script != "" {
		scriptPath = filepath.Join(workDir, "subs.ass")
		if err := os.WriteFile(scriptPath, []byte(req.Script), 0644); err != nil {
			return 0, fmt.Errorf("failed to write subtitle script: %w", err)
		}
	}

	fontsDir, fontsConf, err := prepareFonts(workDir, req.FontFamily, req.FontFiles)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	encoder := p.encoder
	if req.Encoder != nil {
		encoder = *req.Encoder
	}

	args := burnArgs(req.VideoPath, req.OutputPath, buildFilter(scriptPath, fontsDir, req.FontFamily), encoder)
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	cmd.Env = append(os.Environ(), "FONTCONFIG_FILE="+fontsConf)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	defer func() {
		if err != nil {
			os.Remove(req.OutputPath)
		}
	}()

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	readProgress(stdout, duration, report)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("subtitle burning failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	stat, err := os.Stat(req.OutputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to stat output: %w", err)
	}
	if stat.Size() == 0 {
		return 0, ErrEmptyOutput
	}

	return stat.Size(), nil
}

func (p *DefaultProcessor) createWorkDir() (string, error) {
	base := p.tempDir
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "captioner-burn-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	return dir, nil
}

const fontsConfTemplate = `<?xml version="1.0"?>
<!DOCTYPE fontconfig SYSTEM "fonts.dtd">
<fontconfig>
  <dir>%s</dir>
  <include ignore_missing="yes">/etc/fonts/fonts.conf</include>
  <cachedir>%s</cachedir>
</fontconfig>
`

// prepareFonts copies font files into a private fonts dir named after the
// family and writes a fontconfig file that scans it.
func prepareFonts(workDir, family string, files []string) (fontsDir, confPath string, err error) {
	fontsDir = filepath.Join(workDir, "fonts")
	if err := os.MkdirAll(fontsDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create fonts directory: %w", err)
	}

	name := strings.TrimSpace(strings.NewReplacer(`'`, "", `"`, "").Replace(family))
	if name == "" {
		name = "CustomFont"
	}

	for i, src := range files {
		dst := name + strings.ToLower(filepath.Ext(src))
		if i > 0 {
			dst = fmt.Sprintf("%s-%d%s", name, i, strings.ToLower(filepath.Ext(src)))
		}
		if err := copyFile(src, filepath.Join(fontsDir, dst)); err != nil {
			return "", "", fmt.Errorf("failed to copy font %s: %w", src, err)
		}
	}

	confPath = filepath.Join(fontsDir, "fonts.conf")
	conf := fmt.Sprintf(fontsConfTemplate, fontsDir, filepath.Join(workDir, "fontcache"))
	if err := os.WriteFile(confPath, []byte(conf), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write fonts.conf: %w", err)
	}
	return fontsDir, confPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// escapes a value for use inside a filter option
func escapeFilterValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ":", `\:`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}

func buildFilter(scriptPath, fontsDir, fontFamily string) string {
	filter := fmt.Sprintf("subtitles=%s:fontsdir=%s",
		escapeFilterValue(scriptPath),
		escapeFilterValue(fontsDir),
	)
	if fontFamily != "" {
		filter += fmt.Sprintf(":force_style='FontName=%s'", strings.ReplaceAll(fontFamily, "'", `\'`))
	}
	return filter
}

func burnArgs(input, output, filter string, enc EncoderOptions) []string {
	kwargs := ffmpeg.KwArgs{
		"vf":  filter,
		"c:v": enc.Codec,
		"c:a": "copy",
	}
	if enc.Preset != "" {
		kwargs["preset"] = enc.Preset
	}
	if enc.CRF > 0 {
		kwargs["crf"] = enc.CRF
	}

	return ffmpeg.Input(input).
		Output(output, kwargs).
		OverWriteOutput().
		GlobalArgs("-hide_banner", "-loglevel", "error", "-nostats", "-progress", "pipe:1").
		GetArgs()
}

// readProgress consumes ffmpeg -progress output until EOF. Reports stop
// at 99; the task reports 100 once the output is verified.
func readProgress(r io.Reader, total time.Duration, report func(int)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			if total <= 0 {
				continue
			}
			us, err := strconv.ParseInt(value, 10, 64)
			if err != nil || us < 0 {
				continue
			}
			elapsed := time.Duration(us) * time.Microsecond
			report(min(int(elapsed*100/total), 99))
		}
	}
	io.Copy(io.Discard, r)
}
