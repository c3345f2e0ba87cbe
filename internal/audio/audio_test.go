package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"clip.MP4", KindVideo},
		{"talk.webm", KindVideo},
		{"song.wav", KindAudio},
		{"voice.M4A", KindAudio},
		{"notes.txt", KindUnknown},
		{"noext", KindUnknown},
	}

	for _, tt := range tests {
		if got := KindOf(tt.path); got != tt.want {
			t.Errorf("KindOf(%q) = %s, want %s", tt.path, got, tt.want)
		}
		if got := IsMediaFile(tt.path); got != (tt.want != KindUnknown) {
			t.Errorf("IsMediaFile(%q) = %v", tt.path, got)
		}
	}
}

func TestPCMArgs(t *testing.T) {
	args := pcmArgs("in.mp4")

	for _, want := range [][]string{
		{"-i", "in.mp4"},
		{"-f", "f32le"},
		{"-ac", "1"},
		{"-ar", "16000"},
	} {
		if !containsSeq(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
	if !slices.Contains(args, "-vn") {
		t.Errorf("args %q missing -vn", args)
	}
	if !slices.Contains(args, "pipe:") {
		t.Errorf("args %q do not write to stdout", args)
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

func TestDecodeFloat32LE(t *testing.T) {
	want := []float32{0, 0.5, -1, 0.25}
	var buf bytes.Buffer
	for _, s := range want {
		binary.Write(&buf, binary.LittleEndian, s)
	}
	buf.WriteByte(0x7f)

	got := DecodeFloat32LE(buf.Bytes())
	if !slices.Equal(got, want) {
		t.Errorf("DecodeFloat32LE = %v, want %v", got, want)
	}
}

func TestWindows(t *testing.T) {
	p := &PCM{Samples: make([]float32, 25), SampleRate: 10}

	if got := p.Duration(); got != 2500*time.Millisecond {
		t.Errorf("Duration = %v, want 2.5s", got)
	}

	windows := p.Windows(time.Second)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}

	wantOffsets := []float64{0, 1, 2}
	wantLens := []int{10, 10, 5}
	for i, w := range windows {
		if w.Index != i {
			t.Errorf("window %d has index %d", i, w.Index)
		}
		if w.Offset != wantOffsets[i] {
			t.Errorf("window %d offset = %v, want %v", i, w.Offset, wantOffsets[i])
		}
		if len(w.PCM.Samples) != wantLens[i] {
			t.Errorf("window %d has %d samples, want %d", i, len(w.PCM.Samples), wantLens[i])
		}
	}

	if got := p.Windows(0); len(got) != 1 || got[0].PCM != p {
		t.Error("non-positive size should yield the whole buffer")
	}
	if got := (&PCM{SampleRate: 10}).Windows(time.Second); got != nil {
		t.Error("empty buffer should yield no windows")
	}
}

func TestSliceClamps(t *testing.T) {
	p := &PCM{Samples: []float32{1, 2, 3}, SampleRate: 1}
	if got := p.Slice(-5, 2).Samples; !slices.Equal(got, []float32{1, 2}) {
		t.Errorf("Slice(-5, 2) = %v", got)
	}
	if got := p.Slice(2, 99).Samples; !slices.Equal(got, []float32{3}) {
		t.Errorf("Slice(2, 99) = %v", got)
	}
	if got := p.Slice(3, 1).Samples; len(got) != 0 {
		t.Errorf("Slice(3, 1) = %v", got)
	}
}

func TestEncodeWAV(t *testing.T) {
	p := &PCM{Samples: []float32{0, 1, -1, 2}, SampleRate: SampleRate}

	data, err := p.WAV()
	if err != nil {
		t.Fatalf("WAV failed: %v", err)
	}
	if len(data) != wavHeaderSize+8 {
		t.Fatalf("expected %d bytes, got %d", wavHeaderSize+8, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Errorf("bad header: %q", data[:wavHeaderSize])
	}
	if rate := binary.LittleEndian.Uint32(data[24:]); rate != SampleRate {
		t.Errorf("sample rate = %d", rate)
	}

	wantSamples := []int16{0, math.MaxInt16, -math.MaxInt16, math.MaxInt16}
	for i, want := range wantSamples {
		got := int16(binary.LittleEndian.Uint16(data[wavHeaderSize+i*2:]))
		if got != want {
			t.Errorf("sample %d = %d, want %d", i, got, want)
		}
	}
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "a.wav")
	if err := WriteWAV(path, &PCM{Samples: []float32{0.1}, SampleRate: SampleRate}); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}
}
