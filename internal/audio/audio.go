package audio

import (
	"path/filepath"
	"strings"
)

// Kind is the media category of an input file, judged by extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindAudio
	KindVideo
)

var kinds = map[string]Kind{
	".mp3": KindAudio, ".wav": KindAudio, ".aac": KindAudio, ".flac": KindAudio,
	".ogg": KindAudio, ".opus": KindAudio, ".m4a": KindAudio, ".wma": KindAudio,
	".aiff": KindAudio,

	".mp4": KindVideo, ".mkv": KindVideo, ".avi": KindVideo, ".mov": KindVideo,
	".wmv": KindVideo, ".flv": KindVideo, ".webm": KindVideo, ".m4v": KindVideo,
	".mpeg": KindVideo, ".mpg": KindVideo, ".3gp": KindVideo,
}

func KindOf(path string) Kind {
	return kinds[strings.ToLower(filepath.Ext(path))]
}

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// IsMediaFile reports whether ExtractPCM is expected to accept path.
func IsMediaFile(path string) bool {
	return KindOf(path) != KindUnknown
}
