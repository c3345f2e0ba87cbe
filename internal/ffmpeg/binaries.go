package ffmpeg

import (
	"errors"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

const (
	envFFmpegPath  = "CAPTIONER_FFMPEG_PATH"
	envFFprobePath = "CAPTIONER_FFPROBE_PATH"
)

var ErrDownloadDisabled = errors.New("ffmpeg not found and download is disabled")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

func (p BinaryPaths) complete() bool {
	return p.FFmpeg != "" && p.FFprobe != ""
}

// Options controls where binaries are looked up. Explicit paths win over
// the environment, which wins over PATH and the bundle cache.
type Options struct {
	FFmpeg   string
	FFprobe  string
	CacheDir string

	// Download fetches a static bundle when nothing else is found.
	Download bool
	BaseURL  string
	Client   *http.Client
}

// Resolver locates ffmpeg and ffprobe once and caches the answer.
type Resolver struct {
	opts Options

	once  sync.Once
	paths BinaryPaths
	err   error
}

func NewResolver(opts Options) *Resolver {
	if opts.BaseURL == "" {
		opts.BaseURL = bundleBaseURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: downloadTimeout}
	}
	return &Resolver{opts: opts}
}

var (
	defaultMu       sync.Mutex
	defaultResolver = NewResolver(Options{Download: true})
)

// Configure replaces the resolver used by FFmpegPath and FFprobePath.
func Configure(opts Options) {
	defaultMu.Lock()
	defaultResolver = NewResolver(opts)
	defaultMu.Unlock()
}

func Default() *Resolver {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultResolver
}

func (r *Resolver) Paths() (BinaryPaths, error) {
	r.once.Do(func() {
		r.paths, r.err = r.resolve()
	})
	return r.paths, r.err
}

func FFmpegPath() (string, error) {
	paths, err := Default().Paths()
	return paths.FFmpeg, err
}

func FFprobePath() (string, error) {
	paths, err := Default().Paths()
	return paths.FFprobe, err
}

func (r *Resolver) resolve() (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  firstNonEmpty(r.opts.FFmpeg, os.Getenv(envFFmpegPath)),
		FFprobe: firstNonEmpty(r.opts.FFprobe, os.Getenv(envFFprobePath)),
	}
	lookPath(&paths.FFmpeg, "ffmpeg")
	lookPath(&paths.FFprobe, "ffprobe")
	if paths.complete() {
		return paths, nil
	}

	return r.installBundle(runtime.GOOS, runtime.GOARCH)
}

func lookPath(dst *string, name string) {
	if *dst != "" {
		return
	}
	if found, err := exec.LookPath(name); err == nil {
		*dst = found
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
