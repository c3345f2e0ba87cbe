package transcribe

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/logging"
)

// windowFunc transcribes one window. Chunk times are relative to the
// window; the detected language may be empty.
type windowFunc func(ctx context.Context, pcm *audio.PCM, language string) ([]Chunk, string, error)

// pool fans windows out to a bounded set of workers and merges the
// results back in window order.
type pool struct {
	windowSize  time.Duration
	concurrency int
	limiter     *rate.Limiter
	logger      *logging.Logger
}

func newPool(opts Options) *pool {
	p := &pool{
		windowSize:  opts.WindowSize,
		concurrency: opts.Concurrency,
		logger:      logging.OrNop(opts.Logger),
	}
	if p.windowSize <= 0 {
		p.windowSize = DefaultWindowSize
	}
	if p.concurrency <= 0 {
		p.concurrency = DefaultConcurrency
	}
	if opts.RequestsPerMinute > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}
	return p
}

func (p *pool) run(ctx context.Context, pcm *audio.PCM, language string, fn windowFunc) (*Result, error) {
	if pcm == nil || len(pcm.Samples) == 0 {
		return &Result{Language: language}, nil
	}

	windows := pcm.Windows(p.windowSize)
	chunks := make([][]Chunk, len(windows))
	languages := make([]string, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, w := range windows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if p.limiter != nil {
				if err := p.limiter.Wait(gctx); err != nil {
					return fmt.Errorf("rate limiter: %w", err)
				}
			}

			p.logger.Debugw("Transcribing window",
				"window", fmt.Sprintf("%d/%d", w.Index+1, len(windows)),
				"offset", w.Offset,
			)

			got, lang, err := fn(gctx, w.PCM, language)
			if err != nil {
				return fmt.Errorf("window %d failed: %w", w.Index, err)
			}
			chunks[w.Index] = shiftChunks(got, w.Offset)
			languages[w.Index] = lang
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Language: language, Duration: pcm.Duration()}
	for i := range windows {
		result.Chunks = append(result.Chunks, chunks[i]...)
		if result.Language == "" {
			result.Language = languages[i]
		}
	}
	return result, nil
}
