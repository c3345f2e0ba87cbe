package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoEvents     = errors.New("script has no [Events] Format line")
	ErrNoTextColumn = errors.New("script Format line has no Text column")
)

var overrideTagRe = regexp.MustCompile(`\{[^}]*\}`)

// ScriptDialogue is one Dialogue event read back from a script.
type ScriptDialogue struct {
	Style string
	Start time.Duration
	End   time.Duration
	Text  string // raw, override blocks included
}

// ScriptFile is a subtitle script read back from disk. Event columns are
// taken from the file's own Format line, so scripts written by other
// tools parse as long as they declare Start, End and Text.
type ScriptFile struct {
	info      map[string]string
	columns   map[string]int
	width     int
	dialogues []ScriptDialogue
}

func parseASSFile(path string) (*ScriptFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer file.Close()

	return ParseScript(file)
}

// ParseScript reads an ASS/SSA script.
func ParseScript(r io.Reader) (*ScriptFile, error) {
	f := &ScriptFile{info: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var section string
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || line[0] == ';' {
			continue
		}
		if name, ok := strings.CutPrefix(line, "["); ok && strings.HasSuffix(name, "]") {
			section = strings.ToLower(strings.TrimSuffix(name, "]"))
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch {
		case section == "script info":
			f.info[strings.TrimSpace(key)] = value
		case section == "events" && key == "Format":
			if err := f.setColumns(value); err != nil {
				return nil, err
			}
		case section == "events" && key == "Dialogue":
			d, err := f.dialogue(value)
			if err != nil {
				return nil, fmt.Errorf("failed to parse Dialogue at line %d: %w", lineNum, err)
			}
			f.dialogues = append(f.dialogues, d)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}
	if f.columns == nil {
		return nil, ErrNoEvents
	}
	return f, nil
}

func (f *ScriptFile) setColumns(format string) error {
	names := strings.Split(format, ",")
	columns := make(map[string]int, len(names))
	for i, name := range names {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	text, ok := columns["text"]
	if !ok {
		return ErrNoTextColumn
	}
	// Text takes the rest of the line, commas included.
	if text != len(names)-1 {
		return errors.New("script Format line must end with Text")
	}
	for _, required := range []string{"start", "end"} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("script Format line is missing %s", required)
		}
	}

	f.columns = columns
	f.width = len(names)
	return nil
}

func (f *ScriptFile) dialogue(value string) (ScriptDialogue, error) {
	if f.columns == nil {
		return ScriptDialogue{}, errors.New("dialogue before format line")
	}

	fields := strings.SplitN(value, ",", f.width)
	if len(fields) < f.width {
		return ScriptDialogue{}, fmt.Errorf("expected %d fields, got %d", f.width, len(fields))
	}

	start, err := parseClock(fields[f.columns["start"]])
	if err != nil {
		return ScriptDialogue{}, err
	}
	end, err := parseClock(fields[f.columns["end"]])
	if err != nil {
		return ScriptDialogue{}, err
	}

	d := ScriptDialogue{Start: start, End: end, Text: fields[f.columns["text"]]}
	if i, ok := f.columns["style"]; ok {
		d.Style = strings.TrimSpace(fields[i])
	}
	return d, nil
}

func (f *ScriptFile) Format() Format {
	return FormatASS
}

// PlayRes returns the script's declared frame size, zero when absent.
func (f *ScriptFile) PlayRes() (int, int) {
	x, _ := strconv.Atoi(f.info["PlayResX"])
	y, _ := strconv.Atoi(f.info["PlayResY"])
	return x, y
}

func (f *ScriptFile) Dialogues() []ScriptDialogue {
	return f.dialogues
}

// Subtitle flattens the dialogues to plain text entries.
func (f *ScriptFile) Subtitle() *Subtitle {
	entries := make([]Entry, len(f.dialogues))
	for i, d := range f.dialogues {
		entries[i] = Entry{Index: i + 1, StartTime: d.Start, EndTime: d.End, Text: PlainText(d.Text)}
	}
	return &Subtitle{Entries: entries, Format: string(FormatASS)}
}

// PlainText strips override blocks and escapes from Dialogue text,
// undoing EscapeText.
func PlainText(text string) string {
	const (
		lbrace = "\x00lb"
		rbrace = "\x00rb"
		bslash = "\x00bs"
	)
	text = strings.NewReplacer(`\\`, bslash, `\{`, lbrace, `\}`, rbrace).Replace(text)
	text = overrideTagRe.ReplaceAllString(text, "")
	text = strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ").Replace(text)
	return strings.NewReplacer(bslash, `\`, lbrace, "{", rbrace, "}").Replace(text)
}
