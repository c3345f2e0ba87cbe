package caption

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mgpai22/captioner/internal/audio"
	"github.com/mgpai22/captioner/internal/timeline"
	"github.com/mgpai22/captioner/internal/transcribe"
)

// processing status of a track
type Status string

const (
	StatusIdle            Status = "idle"
	StatusLoadingModel    Status = "loading_model"
	StatusExtractingAudio Status = "extracting_audio"
	StatusTranscribing    Status = "transcribing"
	StatusCompleted       Status = "completed"
	StatusError           Status = "error"
)

// Busy reports whether a load or generation is in progress.
func (s Status) Busy() bool {
	switch s {
	case StatusLoadingModel, StatusExtractingAudio, StatusTranscribing:
		return true
	}
	return false
}

var (
	ErrBusy      = errors.New("track is busy")
	ErrWordIndex = errors.New("word index out of range")
)

// ModelLoader prepares a speech model.
type ModelLoader interface {
	Load(ctx context.Context) error
}

// AudioExtractor decodes the audio of a media file.
type AudioExtractor interface {
	ExtractPCM(ctx context.Context, mediaPath string) (*audio.PCM, error)
}

// ExtractorFunc adapts a function to AudioExtractor.
type ExtractorFunc func(ctx context.Context, mediaPath string) (*audio.PCM, error)

func (f ExtractorFunc) ExtractPCM(ctx context.Context, mediaPath string) (*audio.PCM, error) {
	return f(ctx, mediaPath)
}

// Transcriber turns samples into word chunks.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm *audio.PCM, language string) (*transcribe.Result, error)
}

// Track holds the word sequence of one media file together with the
// selected model, language and processing status. The word slice is
// never mutated in place: every edit installs a new slice, so snapshots
// handed out by Words stay valid and segment caches keyed on slice
// identity invalidate naturally.
type Track struct {
	mu       sync.RWMutex
	words    []timeline.Word
	model    string
	language string
	status   Status
	err      error
	hooks    []func(Status)
}

func NewTrack(model, language string) *Track {
	return &Track{
		model:    model,
		language: language,
		status:   StatusIdle,
	}
}

// Words returns the current sequence. Callers must not modify it.
func (t *Track) Words() []timeline.Word {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.words
}

// Snapshot returns a private copy of the current sequence.
func (t *Track) Snapshot() []timeline.Word {
	return timeline.Clone(t.Words())
}

// SetWords replaces the sequence with a validated copy of words.
func (t *Track) SetWords(words []timeline.Word) error {
	if err := timeline.ValidateWords(words); err != nil {
		return err
	}
	t.mu.Lock()
	t.words = timeline.Clone(words)
	t.mu.Unlock()
	return nil
}

// UpdateWord replaces the word at i. The new word must keep start order
// with its neighbours.
func (t *Track) UpdateWord(i int, w timeline.Word) error {
	return t.edit(i, func(timeline.Word) timeline.Word { return w })
}

// UpdateText changes only the text of the word at i.
func (t *Track) UpdateText(i int, text string) error {
	return t.edit(i, func(old timeline.Word) timeline.Word {
		old.Text = text
		return old
	})
}

// edit swaps in change(words[i]) under a single write lock.
func (t *Track) edit(i int, change func(timeline.Word) timeline.Word) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.words) {
		return fmt.Errorf("%w: %d", ErrWordIndex, i)
	}
	next := timeline.Clone(t.words)
	next[i] = change(next[i])
	if err := timeline.ValidateRange(next, i, min(i+2, len(next))); err != nil {
		return err
	}
	t.words = next
	return nil
}

func (t *Track) Model() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.model
}

func (t *Track) SetModel(model string) {
	t.mu.Lock()
	t.model = model
	t.mu.Unlock()
}

func (t *Track) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.language
}

func (t *Track) SetLanguage(language string) {
	t.mu.Lock()
	t.language = language
	t.mu.Unlock()
}

func (t *Track) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Err returns the failure behind StatusError, if any.
func (t *Track) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// OnStatus registers fn to be called after every status change. Hooks run
// synchronously on the goroutine that changed the status.
func (t *Track) OnStatus(fn func(Status)) {
	t.mu.Lock()
	t.hooks = append(t.hooks, fn)
	t.mu.Unlock()
}

// Reset clears the words and returns to idle unless work is in progress.
func (t *Track) Reset() error {
	t.mu.Lock()
	if t.status.Busy() {
		t.mu.Unlock()
		return ErrBusy
	}
	t.words = nil
	t.mu.Unlock()

	t.setStatus(StatusIdle, nil)
	return nil
}

// begin moves to s if no other work is running.
func (t *Track) begin(s Status) error {
	t.mu.Lock()
	if t.status.Busy() {
		t.mu.Unlock()
		return ErrBusy
	}
	t.status = s
	t.err = nil
	hooks := t.hooks
	t.mu.Unlock()

	notify(hooks, s)
	return nil
}

func (t *Track) setStatus(s Status, err error) {
	t.mu.Lock()
	t.status = s
	t.err = err
	hooks := t.hooks
	t.mu.Unlock()

	notify(hooks, s)
}

func notify(hooks []func(Status), s Status) {
	for _, fn := range hooks {
		fn(s)
	}
}

func (t *Track) fail(err error) error {
	t.setStatus(StatusError, err)
	return err
}

// LoadModel runs idle -> loading_model -> idle, or error on failure.
func (t *Track) LoadModel(ctx context.Context, loader ModelLoader) error {
	if err := t.begin(StatusLoadingModel); err != nil {
		return err
	}
	if err := loader.Load(ctx); err != nil {
		return t.fail(fmt.Errorf("failed to load model: %w", err))
	}
	t.setStatus(StatusIdle, nil)
	return nil
}

// Generate extracts audio from mediaPath and transcribes it, moving
// through extracting_audio and transcribing to completed. On failure the
// status becomes error and the previous words are kept.
func (t *Track) Generate(
	ctx context.Context,
	mediaPath string,
	extractor AudioExtractor,
	transcriber Transcriber,
) error {
	if err := t.begin(StatusExtractingAudio); err != nil {
		return err
	}

	pcm, err := extractor.ExtractPCM(ctx, mediaPath)
	if err != nil {
		return t.fail(fmt.Errorf("failed to extract audio: %w", err))
	}

	t.setStatus(StatusTranscribing, nil)

	result, err := transcriber.Transcribe(ctx, pcm, t.Language())
	if err != nil {
		return t.fail(fmt.Errorf("transcription failed: %w", err))
	}

	words, err := transcribe.WordsFromChunks(result.Chunks)
	if err != nil {
		return t.fail(err)
	}

	t.mu.Lock()
	t.words = words
	t.mu.Unlock()

	t.setStatus(StatusCompleted, nil)
	return nil
}
