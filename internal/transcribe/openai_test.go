package transcribe

import (
	"testing"
)

func TestParseVerboseWords(t *testing.T) {
	tests := []struct {
		name             string
		rawJSON          string
		fallbackDuration float64
		wantCount        int
		wantLanguage     string
		wantErr          bool
	}{
		{
			name: "word granularity",
			rawJSON: `{
				"task": "transcribe",
				"language": "english",
				"duration": 1.5,
				"text": "Hello world.",
				"words": [
					{"word": "Hello", "start": 0.0, "end": 0.6},
					{"word": "world.", "start": 0.7, "end": 1.4}
				],
				"segments": [{"start": 0.0, "end": 1.5, "text": "Hello world."}]
			}`,
			fallbackDuration: 5,
			wantCount:        2,
			wantLanguage:     "english",
		},
		{
			name: "blank words filtered out",
			rawJSON: `{
				"language": "en",
				"words": [
					{"word": " ", "start": 0.0, "end": 0.1},
					{"word": " Hi ", "start": 0.1, "end": 0.4}
				]
			}`,
			fallbackDuration: 5,
			wantCount:        1,
			wantLanguage:     "en",
		},
		{
			name: "segments only",
			rawJSON: `{
				"text": "Hello world. How are you today?",
				"segments": [
					{"start": 0.0, "end": 1.5, "text": "Hello world."},
					{"start": 1.5, "end": 3.0, "text": "How are you today?"}
				],
				"language": "en",
				"duration": 3.0
			}`,
			fallbackDuration: 5,
			wantCount:        6,
			wantLanguage:     "en",
		},
		{
			name: "text only",
			rawJSON: `{
				"text": "This is a transcription without segments.",
				"segments": null,
				"duration": 2.5
			}`,
			fallbackDuration: 5,
			wantCount:        6,
		},
		{
			name:             "empty response",
			rawJSON:          "",
			fallbackDuration: 5,
			wantErr:          true,
		},
		{
			name:             "invalid JSON",
			rawJSON:          `{"text": "incomplete`,
			fallbackDuration: 5,
			wantErr:          true,
		},
		{
			name: "no words and no text",
			rawJSON: `{
				"text": "",
				"segments": [],
				"language": "en",
				"duration": 0
			}`,
			fallbackDuration: 5,
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, lang, err := parseVerboseWords(tt.rawJSON, tt.fallbackDuration)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(chunks) != tt.wantCount {
				t.Errorf("got %d chunks, want %d", len(chunks), tt.wantCount)
			}
			if lang != tt.wantLanguage {
				t.Errorf("language = %q, want %q", lang, tt.wantLanguage)
			}

			words, err := WordsFromChunks(chunks)
			if err != nil {
				t.Fatalf("chunks do not convert: %v", err)
			}
			for i, w := range words {
				if w.Text == "" {
					t.Errorf("word %d has empty text", i)
				}
			}
		})
	}
}

func TestParseVerboseWordsTimestamps(t *testing.T) {
	rawJSON := `{
		"text": "Hello world.",
		"words": [
			{"word": "Hello", "start": 1.5, "end": 2.0},
			{"word": "world.", "start": 2.25, "end": 3.0}
		]
	}`

	chunks, _, err := parseVerboseWords(rawJSON, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	words, err := WordsFromChunks(chunks)
	if err != nil {
		t.Fatalf("WordsFromChunks failed: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Start != 1.5 || words[0].End != 2.0 || words[0].Text != "Hello" {
		t.Errorf("word 0 = %+v", words[0])
	}
	if words[1].Start != 2.25 || words[1].End != 3.0 || words[1].Text != "world." {
		t.Errorf("word 1 = %+v", words[1])
	}
}

func TestParseVerboseWordsTextFallback(t *testing.T) {
	rawJSON := `{
		"text": "ab cd",
		"duration": 10.5
	}`

	chunks, _, err := parseVerboseWords(rawJSON, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	words, _ := WordsFromChunks(chunks)
	if len(words) != 2 {
		t.Fatalf("expected 2 fallback words, got %d", len(words))
	}
	if words[0].Start != 0 {
		t.Errorf("fallback start should be 0, got %v", words[0].Start)
	}
	// duration from the response wins over the window length
	if words[1].End != 10.5 {
		t.Errorf("fallback end = %v, want 10.5", words[1].End)
	}
}
