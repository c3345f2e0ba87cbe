package fonts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

var ErrNotFound = errors.New("font not found")

// Font is a font file on disk.
type Font struct {
	Family string
	Path   string
}

type Options struct {
	// Dirs are scanned recursively, in order.
	Dirs []string
	// URLs maps a family name to a downloadable .ttf or .otf file.
	URLs map[string]string
	// CacheDir receives downloaded fonts.
	CacheDir string
	Client   *http.Client
}

type Resolver struct {
	opts Options
}

func NewResolver(opts Options) *Resolver {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Resolver{opts: opts}
}

// SystemDirs lists the usual font locations for the current platform.
func SystemDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Fonts"),
			"/Library/Fonts",
			"/System/Library/Fonts",
		}
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	default:
		return []string{
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, ".fonts"),
			"/usr/local/share/fonts",
			"/usr/share/fonts",
		}
	}
}

// Resolve finds a font file for family. Local directories are tried
// first, then a configured URL. A missing font returns ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, family string) (*Font, error) {
	key := normalize(family)
	if key == "" {
		return nil, fmt.Errorf("empty font family: %w", ErrNotFound)
	}

	for _, dir := range r.opts.Dirs {
		if path, ok := scanDir(dir, key); ok {
			return &Font{Family: family, Path: path}, nil
		}
	}

	for name, url := range r.opts.URLs {
		if normalize(name) == key {
			path, err := r.fetch(ctx, family, url)
			if err != nil {
				return nil, err
			}
			return &Font{Family: family, Path: path}, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", family, ErrNotFound)
}

// normalize lower-cases and drops spaces, dashes and underscores so
// "DM Sans" matches DMSans.ttf and dm_sans.otf.
func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\'', '"':
			return -1
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, name)
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

// scanDir looks for a file whose base name matches key exactly, falling
// back to the regular weight of the family (e.g. DMSans-Regular.ttf).
func scanDir(dir, key string) (string, bool) {
	var exact, regular string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isFontFile(d.Name()) {
			return nil
		}
		base := normalize(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
		switch base {
		case key:
			exact = path
			return fs.SkipAll
		case key + "regular":
			if regular == "" {
				regular = path
			}
		}
		return nil
	})

	if exact != "" {
		return exact, true
	}
	return regular, regular != ""
}

func (r *Resolver) cacheDir() string {
	if r.opts.CacheDir != "" {
		return r.opts.CacheDir
	}
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "captioner", "fonts")
}

func (r *Resolver) fetch(ctx context.Context, family, url string) (string, error) {
	ext := strings.ToLower(filepath.Ext(url))
	if !isFontFile(ext) {
		ext = ".ttf"
	}

	dir := r.cacheDir()
	path := filepath.Join(dir, strings.TrimSpace(family)+ext)
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create font cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("font request: %w", err)
	}
	resp, err := r.opts.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download font: unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(dir, "font-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp font: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write font: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("download font: empty body")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("install font: %w", err)
	}
	return path, nil
}
