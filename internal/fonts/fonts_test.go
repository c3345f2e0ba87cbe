package fonts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("font"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"DM Sans", "dmsans"},
		{"dm_sans", "dmsans"},
		{"Open-Sans", "opensans"},
		{`"Inter"`, "inter"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveFromDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.txt"))
	writeFile(t, filepath.Join(dir, "nested", "DMSans.TTF"))
	writeFile(t, filepath.Join(dir, "Inter-Regular.otf"))
	writeFile(t, filepath.Join(dir, "Inter-Bold.otf"))

	r := NewResolver(Options{Dirs: []string{filepath.Join(dir, "missing"), dir}})

	tests := []struct {
		family string
		want   string
	}{
		{"DM Sans", filepath.Join(dir, "nested", "DMSans.TTF")},
		{"inter", filepath.Join(dir, "Inter-Regular.otf")},
	}
	for _, tt := range tests {
		font, err := r.Resolve(context.Background(), tt.family)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tt.family, err)
			continue
		}
		if font.Path != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.family, font.Path, tt.want)
		}
	}

	if _, err := r.Resolve(context.Background(), "Comic Neue"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), "  "); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty family, got %v", err)
	}
}

func TestResolveFetchesURL(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("fontdata"))
	}))
	defer server.Close()

	cache := t.TempDir()
	r := NewResolver(Options{
		URLs:     map[string]string{"Lobster": server.URL + "/Lobster.ttf"},
		CacheDir: cache,
	})

	for range 2 {
		font, err := r.Resolve(context.Background(), "lobster")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if font.Path != filepath.Join(cache, "lobster.ttf") {
			t.Errorf("unexpected path %q", font.Path)
		}
	}
	if hits != 1 {
		t.Errorf("expected one download, got %d", hits)
	}
}

func TestResolveFetchError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	r := NewResolver(Options{
		URLs:     map[string]string{"Lobster": server.URL + "/x.ttf"},
		CacheDir: t.TempDir(),
	})
	if _, err := r.Resolve(context.Background(), "Lobster"); err == nil {
		t.Error("expected error on 404")
	}
}
