package video

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

const probeJSON = `{
  "streams": [
    {"codec_type": "audio", "codec_name": "aac"},
    {"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
     "avg_frame_rate": "30000/1001", "r_frame_rate": "30/1"}
  ],
  "format": {"duration": "12.500000"}
}`

func TestParseProbe(t *testing.T) {
	info, err := parseProbe([]byte(probeJSON))
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}

	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("size = %dx%d, want 1920x1080", info.Width, info.Height)
	}
	if info.Codec != "h264" {
		t.Errorf("codec = %q", info.Codec)
	}
	if info.Duration != 12500*time.Millisecond {
		t.Errorf("duration = %v", info.Duration)
	}
	if info.FrameRate < 29.97 || info.FrameRate > 29.98 {
		t.Errorf("frame rate = %v", info.FrameRate)
	}
	if !info.HasAudio {
		t.Error("expected audio stream")
	}
}

func TestParseProbeErrors(t *testing.T) {
	if _, err := parseProbe([]byte("not json")); err == nil {
		t.Error("expected error for invalid json")
	}
	if _, err := parseProbe([]byte(`{"streams":[{"codec_type":"audio"}]}`)); err == nil {
		t.Error("expected error without a video stream")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25/1", 25},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
		{"x/1", 0},
	}
	for _, tt := range tests {
		if got := parseFrameRate(tt.in); got != tt.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildFilter(t *testing.T) {
	got := buildFilter(`C:\tmp\subs.ass`, "/tmp/fonts", "DM Sans")
	want := `subtitles=C\:\\tmp\\subs.ass:fontsdir=/tmp/fonts:force_style='FontName=DM Sans'`
	if got != want {
		t.Errorf("buildFilter() = %q, want %q", got, want)
	}

	got = buildFilter("/a/subs.ass", "/a/fonts", "")
	if strings.Contains(got, "force_style") {
		t.Errorf("no family should not force a style: %q", got)
	}

	got = buildFilter("/a/s.ass", "/a/f", "Jo's Font")
	if !strings.HasSuffix(got, `force_style='FontName=Jo\'s Font'`) {
		t.Errorf("quote not escaped: %q", got)
	}
}

func TestBurnArgs(t *testing.T) {
	args := burnArgs("in.mp4", "out.mp4", "subtitles=s.ass", DefaultEncoderOptions())

	for _, want := range [][]string{
		{"-i", "in.mp4"},
		{"-vf", "subtitles=s.ass"},
		{"-c:v", "libx264"},
		{"-preset", "ultrafast"},
		{"-crf", "28"},
		{"-c:a", "copy"},
		{"-progress", "pipe:1"},
	} {
		if !containsSeq(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
	if !slices.Contains(args, "-y") || !slices.Contains(args, "out.mp4") {
		t.Errorf("args %q missing overwrite or output", args)
	}
}

func containsSeq(haystack, seq []string) bool {
	for i := 0; i+len(seq) <= len(haystack); i++ {
		if slices.Equal(haystack[i:i+len(seq)], seq) {
			return true
		}
	}
	return false
}

func TestReadProgress(t *testing.T) {
	input := strings.Join([]string{
		"frame=10",
		"out_time_us=2500000",
		"out_time_ms=5000000",
		"out_time_us=N/A",
		"out_time_us=12000000",
		"progress=end",
	}, "\n")

	var got []int
	readProgress(strings.NewReader(input), 10*time.Second, func(p int) {
		got = append(got, p)
	})

	want := []int{25, 50, 99}
	if !slices.Equal(got, want) {
		t.Errorf("reports = %v, want %v", got, want)
	}

	got = nil
	readProgress(strings.NewReader("out_time_us=1000"), 0, func(p int) {
		got = append(got, p)
	})
	if len(got) != 0 {
		t.Errorf("unknown duration should not report, got %v", got)
	}
}

func TestTaskProgressNonDecreasing(t *testing.T) {
	task := newTask(func() {})

	task.report(10)
	task.report(5)
	task.report(40)
	task.report(40)
	task.finish(&BurnResult{OutputPath: "out.mp4"}, nil)

	var got []int
	for p := range task.Progress() {
		got = append(got, p)
	}
	// the buffer keeps only the newest value
	if !slices.Equal(got, []int{100}) {
		t.Errorf("progress = %v, want [100]", got)
	}

	result, err := task.Wait()
	if err != nil || result.OutputPath != "out.mp4" {
		t.Errorf("Wait() = %+v, %v", result, err)
	}
}

func TestStartTaskCancel(t *testing.T) {
	task := StartTask(context.Background(), func(ctx context.Context, report func(int)) (*BurnResult, error) {
		report(10)
		<-ctx.Done()
		return &BurnResult{}, ctx.Err()
	})
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not stop after Cancel")
	}
	result, err := task.Wait()
	if err != context.Canceled || result != nil {
		t.Errorf("Wait() = %+v, %v", result, err)
	}
}

func TestTaskReportsWhileConsumed(t *testing.T) {
	task := newTask(func() {})
	values := make(chan []int)
	go func() {
		var got []int
		for p := range task.Progress() {
			got = append(got, p)
		}
		values <- got
	}()

	for _, p := range []int{1, 30, 20, 60} {
		task.report(p)
	}
	task.finish(nil, os.ErrNotExist)

	got := <-values
	if !slices.IsSorted(got) {
		t.Errorf("progress decreased: %v", got)
	}
	if slices.Contains(got, 100) {
		t.Errorf("failed task should not report 100: %v", got)
	}
	if _, err := task.Wait(); err != os.ErrNotExist {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestBurnSubtitlesValidation(t *testing.T) {
	p := NewProcessor(t.TempDir())

	task := p.BurnSubtitles(context.Background(), BurnRequest{VideoPath: "in.mp4", OutputPath: "out.mp4"})
	if _, err := task.Wait(); err == nil || !strings.Contains(err.Error(), "script") {
		t.Errorf("expected missing script error, got %v", err)
	}
	if _, ok := <-task.Progress(); ok {
		t.Error("progress should be closed")
	}

	task = p.BurnSubtitles(context.Background(), BurnRequest{
		VideoPath:  filepath.Join(t.TempDir(), "missing.mp4"),
		OutputPath: "out.mp4",
		Script:     "[Script Info]",
	})
	if _, err := task.Wait(); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestPrepareFonts(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "DMSans-Bold.TTF")
	if err := os.WriteFile(src, []byte("font"), 0644); err != nil {
		t.Fatal(err)
	}

	fontsDir, conf, err := prepareFonts(dir, `"DM Sans"`, []string{src})
	if err != nil {
		t.Fatalf("prepareFonts failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(fontsDir, "DM Sans.ttf")); err != nil {
		t.Errorf("font not copied under family name: %v", err)
	}

	data, err := os.ReadFile(conf)
	if err != nil {
		t.Fatalf("failed to read fonts.conf: %v", err)
	}
	if !strings.Contains(string(data), "<dir>"+fontsDir+"</dir>") {
		t.Errorf("fonts.conf does not list the fonts dir:\n%s", data)
	}
}
