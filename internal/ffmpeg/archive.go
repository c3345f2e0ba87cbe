package ffmpeg

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// unpackBundle spools a zip archive to disk and writes the ffmpeg and
// ffprobe executables it contains into dir. Other entries are ignored.
func unpackBundle(src io.Reader, dir, goos string) error {
	spool, err := os.CreateTemp(dir, "bundle-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	defer os.Remove(spool.Name())

	_, err = io.Copy(spool, src)
	if closeErr := spool.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	zr, err := zip.OpenReader(spool.Name())
	if err != nil {
		return fmt.Errorf("open ffmpeg archive: %w", err)
	}
	defer zr.Close()

	found := map[string]bool{}
	for _, entry := range zr.File {
		tool := toolName(entry.Name)
		if tool == "" || entry.FileInfo().IsDir() {
			continue
		}
		dest := filepath.Join(dir, tool+exeSuffix(goos))
		if err := writeExecutable(entry, dest); err != nil {
			return err
		}
		found[tool] = true
	}

	if !found["ffmpeg"] || !found["ffprobe"] {
		return fmt.Errorf("ffmpeg archive missing required binaries")
	}
	return nil
}

// toolName maps an archive entry to "ffmpeg" or "ffprobe", or "" for
// anything else.
func toolName(entry string) string {
	base := strings.TrimSuffix(strings.ToLower(path.Base(entry)), ".exe")
	if base == "ffmpeg" || base == "ffprobe" {
		return base
	}
	return ""
}

// writeExecutable extracts entry to a temporary file beside dest and
// renames it into place.
func writeExecutable(entry *zip.File, dest string) error {
	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open ffmpeg archive entry: %w", err)
	}
	defer in.Close()

	part := dest + ".part"
	out, err := os.OpenFile(part, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(dest), err)
	}

	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(part)
		return fmt.Errorf("write %s: %w", filepath.Base(dest), err)
	}
	return os.Rename(part, dest)
}
