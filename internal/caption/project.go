package caption

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/captioner/internal/timeline"
)

// on-disk form of a track
type projectFile struct {
	Model    string          `json:"model,omitempty"`
	Language string          `json:"language,omitempty"`
	Words    []timeline.Word `json:"words"`
}

// Save writes the track's words and metadata as JSON.
func (t *Track) Save(path string) error {
	t.mu.RLock()
	p := projectFile{
		Model:    t.model,
		Language: t.language,
		Words:    t.words,
	}
	t.mu.RUnlock()

	if p.Words == nil {
		p.Words = []timeline.Word{}
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	return nil
}

// Load reads a project file into a new idle track. Words are validated.
func Load(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var p projectFile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", path, err)
	}

	t := NewTrack(p.Model, p.Language)
	if err := t.SetWords(p.Words); err != nil {
		return nil, fmt.Errorf("invalid project %s: %w", path, err)
	}
	return t, nil
}
