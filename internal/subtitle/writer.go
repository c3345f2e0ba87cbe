package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/captioner/internal/timeline"
)

type SRTWriter struct{}

type ScriptWriter struct{}

// NewWriter returns the cue-list writer for format. Scripts carry styling
// a Subtitle cannot hold, so FormatASS goes through ScriptWriter instead.
func NewWriter(format Format) (Writer, error) {
	if format != FormatSRT {
		return nil, fmt.Errorf("no cue writer for %s", format)
	}
	return &SRTWriter{}, nil
}

// FromWords builds one entry per word, in word order.
func FromWords(words []timeline.Word) *Subtitle {
	sub := &Subtitle{Entries: make([]Entry, 0, len(words)), Format: string(FormatSRT)}
	for _, w := range words {
		sub.Entries = append(sub.Entries, Entry{
			Index:     len(sub.Entries) + 1,
			StartTime: fromSeconds(w.Start),
			EndTime:   fromSeconds(w.End),
			Text:      w.Text,
		})
	}
	return sub
}

// EncodeSRT numbers cues from 1 and separates them with a blank line.
func EncodeSRT(w io.Writer, sub *Subtitle) error {
	for i, e := range sub.Entries {
		sep := "\n"
		if i == 0 {
			sep = ""
		}
		_, err := fmt.Fprintf(w, "%s%d\n%s --> %s\n%s\n",
			sep, i+1, formatSRTTime(e.StartTime), formatSRTTime(e.EndTime), e.Text)
		if err != nil {
			return err
		}
	}
	return nil
}

func RenderSRT(sub *Subtitle) string {
	var sb strings.Builder
	EncodeSRT(&sb, sub)
	return sb.String()
}

func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	return writeFile(path, func(out io.Writer) error {
		return EncodeSRT(out, sub)
	})
}

func (w *ScriptWriter) Write(script *Script, path string) error {
	return writeFile(path, func(out io.Writer) error {
		_, err := script.WriteTo(out)
		return err
	})
}

// writeFile creates path and its parent directories and fills it with
// encode's output.
func writeFile(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	buf := bufio.NewWriter(f)
	if err := encode(buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
