package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	bundleVersion   = "6.1"
	bundleBaseURL   = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"
	downloadTimeout = 5 * time.Minute
)

// assetForPlatform names the ffbinaries archive for a platform.
func assetForPlatform(goos, goarch string) (string, error) {
	var platform string
	switch goos + "/" + goarch {
	case "linux/amd64":
		platform = "linux-64"
	case "linux/arm64":
		platform = "linux-arm-64"
	case "darwin/amd64":
		platform = "macos-64"
	case "windows/amd64":
		platform = "win-64"
	default:
		return "", fmt.Errorf("unsupported platform for bundled ffmpeg: %s/%s", goos, goarch)
	}
	return fmt.Sprintf("ffmpeg-%s-%s.zip", bundleVersion, platform), nil
}

func (r *Resolver) cacheDir() string {
	if r.opts.CacheDir != "" {
		return r.opts.CacheDir
	}
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "captioner")
}

func (r *Resolver) bundleDir(goos, goarch string) string {
	return filepath.Join(r.cacheDir(), "ffmpeg", bundleVersion, goos, goarch)
}

func bundlePaths(dir, goos string) BinaryPaths {
	return BinaryPaths{
		FFmpeg:  filepath.Join(dir, "ffmpeg"+exeSuffix(goos)),
		FFprobe: filepath.Join(dir, "ffprobe"+exeSuffix(goos)),
	}
}

func exeSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}

// installBundle returns the cached bundle for the platform, unpacking the
// embedded archive or downloading one first when it is missing.
func (r *Resolver) installBundle(goos, goarch string) (BinaryPaths, error) {
	asset, err := assetForPlatform(goos, goarch)
	if err != nil {
		return BinaryPaths{}, err
	}

	dir := r.bundleDir(goos, goarch)
	paths := bundlePaths(dir, goos)
	if installed(paths) {
		return paths, nil
	}

	src, err := r.openBundle(asset)
	if err != nil {
		return BinaryPaths{}, err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return BinaryPaths{}, fmt.Errorf("create ffmpeg cache dir: %w", err)
	}
	if err := unpackBundle(src, dir, goos); err != nil {
		return BinaryPaths{}, fmt.Errorf("install %s: %w", asset, err)
	}
	if !installed(paths) {
		return BinaryPaths{}, fmt.Errorf("ffmpeg binaries missing after installing %s", asset)
	}
	return paths, nil
}

func (r *Resolver) openBundle(asset string) (io.ReadCloser, error) {
	if rc, ok, err := openEmbeddedAsset(asset); err != nil || ok {
		return rc, err
	}
	if !r.opts.Download {
		return nil, ErrDownloadDisabled
	}
	return r.download(context.Background(), asset)
}

func (r *Resolver) download(ctx context.Context, asset string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/v%s/%s", r.opts.BaseURL, bundleVersion, asset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download ffmpeg bundle: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download ffmpeg bundle: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func installed(paths BinaryPaths) bool {
	return nonEmptyFile(paths.FFmpeg) && nonEmptyFile(paths.FFprobe)
}

func nonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}
