package audio

import "time"

// SampleRate is the rate every extracted PCM buffer is resampled to.
const SampleRate = 16000

// PCM holds mono float samples in [-1, 1].
type PCM struct {
	Samples    []float32
	SampleRate int
}

func (p *PCM) Duration() time.Duration {
	if p == nil || p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(p.Samples)) * time.Second / time.Duration(p.SampleRate)
}

// Seconds converts a sample offset to seconds.
func (p *PCM) Seconds(offset int) float64 {
	if p.SampleRate <= 0 {
		return 0
	}
	return float64(offset) / float64(p.SampleRate)
}

// Slice returns the samples in [from, to), clamped to the buffer. The
// returned PCM shares storage with p.
func (p *PCM) Slice(from, to int) *PCM {
	n := len(p.Samples)
	from = min(max(from, 0), n)
	to = min(max(to, from), n)
	return &PCM{Samples: p.Samples[from:to], SampleRate: p.SampleRate}
}

// Window is a contiguous piece of a longer buffer.
type Window struct {
	Index int
	// Offset is the window start in seconds from the start of the source.
	Offset float64
	PCM    *PCM
}

// Windows splits p into consecutive windows of at most size. The last
// window holds the remainder. A non-positive size yields a single window.
func (p *PCM) Windows(size time.Duration) []Window {
	if p == nil || len(p.Samples) == 0 {
		return nil
	}

	step := int(size.Seconds() * float64(p.SampleRate))
	if step <= 0 || step >= len(p.Samples) {
		return []Window{{Index: 0, Offset: 0, PCM: p}}
	}

	windows := make([]Window, 0, (len(p.Samples)+step-1)/step)
	for i, start := 0, 0; start < len(p.Samples); i, start = i+1, start+step {
		windows = append(windows, Window{
			Index:  i,
			Offset: p.Seconds(start),
			PCM:    p.Slice(start, start+step),
		})
	}
	return windows
}
