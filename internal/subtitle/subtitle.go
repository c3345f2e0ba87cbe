package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one timed cue.
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Subtitle is a cue list in display order.
type Subtitle struct {
	Entries  []Entry
	Language string
	Format   string
}

type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

// ParseFormat accepts a format name or a file extension, with or without
// the dot. SSA is read as ASS.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "srt":
		return FormatSRT, nil
	case "ass", "ssa":
		return FormatASS, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format: %q", s)
	}
}

func (f Format) Ext() string {
	return "." + string(f)
}

type Writer interface {
	Write(subtitle *Subtitle, path string) error
}
