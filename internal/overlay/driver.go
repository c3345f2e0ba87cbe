package overlay

import (
	"context"
	"sync"

	"github.com/mgpai22/captioner/internal/style"
	"github.com/mgpai22/captioner/internal/timeline"
)

// Driver renders a frame for every tick of a media clock. Words, style
// and surface may be replaced while it runs; each tick renders against
// the latest snapshot.
type Driver struct {
	renderer *Renderer

	mu      sync.RWMutex
	words   []timeline.Word
	style   style.Style
	surface Surface
}

func NewDriver(renderer *Renderer, words []timeline.Word, st style.Style, surface Surface) *Driver {
	return &Driver{
		renderer: renderer,
		words:    words,
		style:    st,
		surface:  surface,
	}
}

// SetWords swaps in a new word slice. The slice must not be written to
// afterwards.
func (d *Driver) SetWords(words []timeline.Word) {
	d.mu.Lock()
	d.words = words
	d.mu.Unlock()
}

func (d *Driver) SetStyle(st style.Style) {
	d.mu.Lock()
	d.style = st
	d.mu.Unlock()
}

func (d *Driver) SetSurface(s Surface) {
	d.mu.Lock()
	d.surface = s
	d.mu.Unlock()
}

func (d *Driver) render(t float64) Frame {
	d.mu.RLock()
	words, st, surface := d.words, d.style, d.surface
	d.mu.RUnlock()
	return d.renderer.Render(words, st, t, surface)
}

// Run consumes clock until it is closed or ctx is done. A frame that has
// not been received by the time a newer tick arrives is dropped in favour
// of the newer one. The returned channel is closed when Run stops.
func (d *Driver) Run(ctx context.Context, clock <-chan float64) <-chan Frame {
	out := make(chan Frame)

	go func() {
		defer close(out)

		var pending Frame
		has := false

		for {
			var send chan<- Frame
			if has {
				send = out
			}

			select {
			case <-ctx.Done():
				return
			case t, ok := <-clock:
				if !ok {
					if has {
						select {
						case out <- pending:
						case <-ctx.Done():
						}
					}
					return
				}
				pending = d.render(t)
				has = true
			case send <- pending:
				has = false
			}
		}
	}()

	return out
}
