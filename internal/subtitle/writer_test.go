package subtitle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgpai22/captioner/internal/timeline"
)

func TestRenderSRTSingleWord(t *testing.T) {
	got := RenderSRT(FromWords([]timeline.Word{{Text: "hi", Start: 1.0, End: 1.5}}))
	want := "1\n00:00:01,000 --> 00:00:01,500\nhi\n"
	if got != want {
		t.Errorf("RenderSRT() = %q, want %q", got, want)
	}
}

func TestRenderSRTOneCuePerWord(t *testing.T) {
	words := []timeline.Word{
		{Text: "Hello", Start: 0, End: 0.4},
		{Text: "world.", Start: 3661.0625, End: 3662},
	}
	got := RenderSRT(FromWords(words))
	want := "1\n00:00:00,000 --> 00:00:00,400\nHello\n" +
		"\n" +
		"2\n01:01:01,063 --> 01:01:02,000\nworld.\n"
	if got != want {
		t.Errorf("RenderSRT() =\n%q\nwant\n%q", got, want)
	}

	if RenderSRT(FromWords(nil)) != "" {
		t.Error("expected empty output for no words")
	}
}

func TestSRTWriterRoundTrip(t *testing.T) {
	words := []timeline.Word{
		{Text: "one", Start: 0.25, End: 0.5},
		{Text: "two", Start: 0.5, End: 1.125},
		{Text: "three", Start: 2, End: 2.75},
	}

	path := filepath.Join(t.TempDir(), "nested", "out.srt")
	writer, err := NewWriter(FormatSRT)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.Write(FromWords(words), path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	file, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	got := WordsFromSubtitle(file.Subtitle())
	if len(got) != len(words) {
		t.Fatalf("expected %d words, got %d", len(words), len(got))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Errorf("word %d = %+v, want %+v", i, got[i], words[i])
		}
	}
}

func TestWordsFromSubtitleOrdersByStart(t *testing.T) {
	sub := &Subtitle{Entries: []Entry{
		{Index: 1, StartTime: 0, EndTime: time.Second, Text: "one."},
		{Index: 2, StartTime: 2 * time.Second, EndTime: 2500 * time.Millisecond, Text: "two."},
		{Index: 3, StartTime: time.Second, EndTime: 1300 * time.Millisecond, Text: "three."},
	}}

	got := WordsFromSubtitle(sub)
	if err := timeline.ValidateWords(got); err != nil {
		t.Fatalf("imported words invalid: %v", err)
	}
	if len(got) != 3 || got[1].Text != "three." || got[2].Text != "two." {
		t.Errorf("words = %+v", got)
	}
}

func TestNewWriterUnsupported(t *testing.T) {
	if _, err := NewWriter(FormatASS); err == nil {
		t.Error("scripts are written with ScriptWriter, expected error")
	}
}

func TestScriptWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ass")
	script := BuildScript(sampleWords(), styleWith("none"), 640, 360, timeline.SegmentOptions{})

	if err := (&ScriptWriter{}).Write(script, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != script.String() {
		t.Error("written script differs from String()")
	}

	parsed, err := OpenScript(path)
	if err != nil {
		t.Fatalf("OpenScript failed: %v", err)
	}
	if len(parsed.Dialogues()) != 2 {
		t.Errorf("expected 2 dialogues, got %d", len(parsed.Dialogues()))
	}
}
