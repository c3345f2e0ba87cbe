//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"errors"
	"io"
	"io/fs"
	"path"
)

// Archives in assets/ named as assetForPlatform reports are compiled in
// with -tags ffmpeg_embedded.
//
//go:embed assets
var assets embed.FS

func openEmbeddedAsset(name string) (io.ReadCloser, bool, error) {
	f, err := assets.Open(path.Join("assets", name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return f, true, nil
}
