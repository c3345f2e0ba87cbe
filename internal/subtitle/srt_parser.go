package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type SRTFile struct {
	entries []Entry
}

func parseSRTFile(path string) (*SRTFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer f.Close()

	return ParseSRT(f)
}

// parseTiming reads "start --> end", ignoring any cue settings after end.
func parseTiming(line string) (Entry, bool, error) {
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return Entry{}, false, nil
	}
	end, _, _ := strings.Cut(strings.TrimSpace(right), " ")

	var e Entry
	var err error
	if e.StartTime, err = parseClock(left); err != nil {
		return e, true, err
	}
	if e.EndTime, err = parseClock(end); err != nil {
		return e, true, err
	}
	return e, true, nil
}

// ParseSRT reads SubRip cues. Cue numbers are optional; a cue ends at a
// blank line or at the next timing line. Cues without text are dropped.
func ParseSRT(r io.Reader) (*SRTFile, error) {
	var (
		entries []Entry
		cur     *Entry
		index   int
		text    []string
	)

	flush := func() {
		if cur != nil && len(text) > 0 {
			cur.Text = strings.Join(text, "\n")
			if cur.Index == 0 {
				cur.Index = len(entries) + 1
			}
			entries = append(entries, *cur)
		}
		cur, index, text = nil, 0, nil
	}

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()
		case cur == nil && index == 0 && isCueNumber(trimmed):
			index, _ = strconv.Atoi(trimmed)
		case cur == nil || len(text) > 0:
			entry, isTiming, err := parseTiming(trimmed)
			switch {
			case err != nil && cur == nil:
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			case err == nil && isTiming:
				n := index
				flush()
				entry.Index = n
				cur = &entry
			case cur != nil:
				text = append(text, line)
			}
		default:
			text = append(text, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}
	return &SRTFile{entries: entries}, nil
}

func isCueNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func (f *SRTFile) Format() Format {
	return FormatSRT
}

func (f *SRTFile) Subtitle() *Subtitle {
	return &Subtitle{
		Entries: f.entries,
		Format:  string(FormatSRT),
	}
}
