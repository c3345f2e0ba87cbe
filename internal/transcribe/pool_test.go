package transcribe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mgpai22/captioner/internal/audio"
)

func TestLanguageHint(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"auto", ""},
		{" AUTO ", ""},
		{"", ""},
		{"EN", "en"},
		{"fr", "fr"},
	}
	for _, tt := range tests {
		if got := languageHint(tt.in); got != tt.want {
			t.Errorf("languageHint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPoolMergesInOrder(t *testing.T) {
	// 2.5 s of audio in 1 s windows
	pcm := &audio.PCM{Samples: make([]float32, 25), SampleRate: 10}
	p := newPool(Options{WindowSize: time.Second, Concurrency: 3})

	var inFlight, peak atomic.Int32
	fn := func(ctx context.Context, w *audio.PCM, language string) ([]Chunk, string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		if language != "de" {
			t.Errorf("language hint = %q, want de", language)
		}
		time.Sleep(time.Duration(len(w.Samples)) * time.Millisecond)
		return []Chunk{NewChunk("w", 0.25, 0.5)}, "", nil
	}

	result, err := p.run(context.Background(), pcm, "de", fn)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(result.Chunks))
	}
	for i, c := range result.Chunks {
		want := float64(i) + 0.25
		if *c.Timestamp[0] != want {
			t.Errorf("chunk %d start = %v, want %v", i, *c.Timestamp[0], want)
		}
	}
	if result.Duration != 2500*time.Millisecond {
		t.Errorf("duration = %v", result.Duration)
	}
	if result.Language != "de" {
		t.Errorf("language = %q", result.Language)
	}
	if peak.Load() > 3 {
		t.Errorf("concurrency exceeded: %d", peak.Load())
	}
}

func TestPoolDetectedLanguage(t *testing.T) {
	pcm := &audio.PCM{Samples: make([]float32, 20), SampleRate: 10}
	p := newPool(Options{WindowSize: time.Second})

	result, err := p.run(context.Background(), pcm, "", func(ctx context.Context, w *audio.PCM, _ string) ([]Chunk, string, error) {
		return nil, "spanish", nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Language != "spanish" {
		t.Errorf("language = %q, want spanish", result.Language)
	}
}

func TestPoolError(t *testing.T) {
	pcm := &audio.PCM{Samples: make([]float32, 50), SampleRate: 10}
	p := newPool(Options{WindowSize: time.Second, Concurrency: 1})

	boom := errors.New("boom")
	var calls atomic.Int32
	_, err := p.run(context.Background(), pcm, "", func(ctx context.Context, w *audio.PCM, _ string) ([]Chunk, string, error) {
		if calls.Add(1) == 2 {
			return nil, "", boom
		}
		return nil, "", ctx.Err()
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("windows after the failure should be skipped, got %d calls", calls.Load())
	}
}

func TestPoolEmpty(t *testing.T) {
	p := newPool(Options{})
	result, err := p.run(context.Background(), &audio.PCM{SampleRate: audio.SampleRate}, "en", nil)
	if err != nil || len(result.Chunks) != 0 {
		t.Errorf("run(empty) = %+v, %v", result, err)
	}
}

func TestPoolDefaults(t *testing.T) {
	p := newPool(Options{RequestsPerMinute: 120})
	if p.windowSize != DefaultWindowSize || p.concurrency != DefaultConcurrency {
		t.Errorf("defaults not applied: %+v", p)
	}
	if p.limiter == nil {
		t.Error("expected a limiter")
	}
}
