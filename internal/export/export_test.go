package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/captioner/internal/fonts"
	"github.com/mgpai22/captioner/internal/style"
	"github.com/mgpai22/captioner/internal/subtitle"
	"github.com/mgpai22/captioner/internal/timeline"
	"github.com/mgpai22/captioner/internal/video"
)

type fakeProcessor struct {
	info    *video.Info
	infoErr error
	burnErr error
	got     video.BurnRequest
}

func (f *fakeProcessor) GetInfo(ctx context.Context, path string) (*video.Info, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeProcessor) BurnSubtitles(ctx context.Context, req video.BurnRequest) *video.Task {
	f.got = req
	return video.StartTask(ctx, func(ctx context.Context, report func(int)) (*video.BurnResult, error) {
		if f.burnErr != nil {
			return nil, f.burnErr
		}
		report(50)
		return &video.BurnResult{OutputPath: req.OutputPath, Size: 42}, nil
	})
}

type fakeFonts struct {
	path string
	err  error
}

func (f fakeFonts) Resolve(ctx context.Context, family string) (*fonts.Font, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fonts.Font{Family: family, Path: f.path}, nil
}

func sampleWords() []timeline.Word {
	return []timeline.Word{
		{Text: "hello", Start: 0, End: 0.5},
		{Text: "world.", Start: 0.5, End: 1},
		{Text: "again", Start: 3, End: 3.5},
	}
}

func TestWriteSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	if err := (&Exporter{}).WriteSRT(sampleWords(), path); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if got := strings.Count(string(data), "-->"); got != 3 {
		t.Errorf("expected 3 cues, got %d", got)
	}
}

func TestWriteSRTNoWords(t *testing.T) {
	err := (&Exporter{}).WriteSRT(nil, filepath.Join(t.TempDir(), "out.srt"))
	if !errors.Is(err, ErrNoWords) {
		t.Errorf("expected ErrNoWords, got %v", err)
	}
}

func TestWriteScript(t *testing.T) {
	tests := []struct {
		name    string
		req     ScriptRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  ScriptRequest{Words: sampleWords(), Style: style.Default(), Width: 1280, Height: 720},
		},
		{
			name:    "no words",
			req:     ScriptRequest{Style: style.Default(), Width: 1280, Height: 720},
			wantErr: true,
		},
		{
			name:    "no frame size",
			req:     ScriptRequest{Words: sampleWords(), Style: style.Default()},
			wantErr: true,
		},
		{
			name:    "invalid style",
			req:     ScriptRequest{Words: sampleWords(), Width: 1280, Height: 720},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.ass")
			err := (&Exporter{}).WriteScript(tt.req, path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("WriteScript() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read output: %v", err)
			}
			if !strings.Contains(string(data), "PlayResX: 1280") {
				t.Error("script does not use the requested resolution")
			}
		})
	}
}

func TestBurnVideo(t *testing.T) {
	proc := &fakeProcessor{info: &video.Info{Width: 1920, Height: 1080, Duration: 4 * time.Second}}
	exp := &Exporter{Processor: proc, Fonts: fakeFonts{path: "/fonts/dm.ttf"}}

	words := sampleWords()
	var progress []int
	result, err := exp.BurnVideo(context.Background(), VideoRequest{
		VideoPath:  "in.mp4",
		OutputPath: "out.mp4",
		Words:      words,
		Style:      style.Default(),
	}, func(p int) { progress = append(progress, p) })
	if err != nil {
		t.Fatalf("BurnVideo failed: %v", err)
	}

	if result.OutputPath != "out.mp4" || result.Size != 42 {
		t.Errorf("unexpected result %+v", result)
	}
	if !slices.IsSorted(progress) || progress[len(progress)-1] != 100 {
		t.Errorf("progress = %v, want non-decreasing ending at 100", progress)
	}
	if !strings.Contains(proc.got.Script, "PlayResY: 1080") {
		t.Error("script was not rendered at the native resolution")
	}
	if !slices.Equal(proc.got.FontFiles, []string{"/fonts/dm.ttf"}) {
		t.Errorf("font files = %v", proc.got.FontFiles)
	}
	if proc.got.Duration != 4*time.Second {
		t.Errorf("duration = %v", proc.got.Duration)
	}
}

func TestBurnVideoMissingFont(t *testing.T) {
	proc := &fakeProcessor{info: &video.Info{Width: 640, Height: 360}}
	exp := &Exporter{Processor: proc, Fonts: fakeFonts{err: fonts.ErrNotFound}}

	_, err := exp.BurnVideo(context.Background(), VideoRequest{
		VideoPath:  "in.mp4",
		OutputPath: "out.mp4",
		Words:      sampleWords(),
		Style:      style.Default(),
	}, nil)
	if err != nil {
		t.Fatalf("missing font should not fail the burn: %v", err)
	}
	if len(proc.got.FontFiles) != 0 {
		t.Errorf("expected no font files, got %v", proc.got.FontFiles)
	}
	if proc.got.FontFamily != "DM Sans" {
		t.Errorf("font family = %q", proc.got.FontFamily)
	}
}

func TestBurnVideoErrors(t *testing.T) {
	probeErr := errors.New("probe failed")
	burnErr := errors.New("ffmpeg failed")

	tests := []struct {
		name  string
		proc  *fakeProcessor
		words []timeline.Word
		want  error
	}{
		{"probe", &fakeProcessor{infoErr: probeErr}, sampleWords(), probeErr},
		{"burn", &fakeProcessor{info: &video.Info{Width: 640, Height: 360}, burnErr: burnErr}, sampleWords(), burnErr},
		{"no words", &fakeProcessor{info: &video.Info{Width: 640, Height: 360}}, nil, ErrNoWords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Exporter{Processor: tt.proc}).BurnVideo(context.Background(), VideoRequest{
				VideoPath:  "in.mp4",
				OutputPath: "out.mp4",
				Words:      tt.words,
				Style:      style.Default(),
			}, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("BurnVideo() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBurnScript(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "subs.ass")
	script := subtitle.GenerateScript(sampleWords(), style.Default(), 640, 360)
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := &fakeProcessor{}
	result, err := (&Exporter{Processor: proc}).BurnScript(
		context.Background(), "in.mp4", scriptPath, "out.mp4", "", nil,
	)
	if err != nil {
		t.Fatalf("BurnScript failed: %v", err)
	}
	if result.OutputPath != "out.mp4" || proc.got.ScriptPath != scriptPath || proc.got.Script != "" {
		t.Errorf("unexpected request %+v", proc.got)
	}
}

func TestBurnScriptRejectsInvalid(t *testing.T) {
	scriptPath := filepath.Join(t.TempDir(), "bad.ass")
	if err := os.WriteFile(scriptPath, []byte("[Script Info]\nTitle: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := &fakeProcessor{}
	_, err := (&Exporter{Processor: proc}).BurnScript(
		context.Background(), "in.mp4", scriptPath, "out.mp4", "", nil,
	)
	if !errors.Is(err, subtitle.ErrNoEvents) {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}
	if proc.got.VideoPath != "" {
		t.Error("processor should not run for an invalid script")
	}
}
