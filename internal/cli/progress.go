package cli

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 30

// progressBar redraws a single terminal line for a burn.
type progressBar struct {
	w       io.Writer
	last    int
	started bool
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w, last: -1}
}

func (b *progressBar) update(p int) {
	if p == b.last {
		return
	}
	b.last = p
	b.started = true

	filled := p * barWidth / 100
	fmt.Fprintf(b.w, "\rBurning [%s%s] %3d%%",
		strings.Repeat("=", filled),
		strings.Repeat(" ", barWidth-filled),
		p,
	)
}

func (b *progressBar) finish() {
	if b.started {
		fmt.Fprintln(b.w)
	}
}
