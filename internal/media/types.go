package media

import (
	"io"
	"path"
	"strings"
)

// Kind classifies a media asset by how the site renders it.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Dimensions is a target width and height in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// UploadInput carries an inbound file and its sizing intent.
type UploadInput struct {
	// Reader provides the raw bytes; caller is responsible for closing.
	Reader       io.Reader
	OriginalName string
	ContentType  string
	// Resize, when set, resamples image payloads to exactly these dimensions
	// with a cover fit. Ignored for video.
	Resize *Dimensions
}

// Result is the outcome of a successful upload or replace.
type Result struct {
	URL  string `json:"url"`
	Kind Kind   `json:"type"`
}

// KindFromContentType classifies by MIME type: video/* is video, everything
// else an image.
func KindFromContentType(contentType string) Kind {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video/") {
		return KindVideo
	}
	return KindImage
}

// KindFromURL is the fallback heuristic for records whose content type is no
// longer known: classify by file extension.
func KindFromURL(rawURL string) Kind {
	trimmed := rawURL
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	switch strings.ToLower(path.Ext(trimmed)) {
	case ".mp4", ".webm", ".mov", ".avi", ".mkv", ".m4v":
		return KindVideo
	default:
		return KindImage
	}
}
