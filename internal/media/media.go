package media

import (
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// Type is the coarse category derived from a filename extension.
type Type string

const (
	TypeVideo   Type = "video"
	TypeAudio   Type = "audio"
	TypeImage   Type = "image"
	TypeUnknown Type = "unknown"
)

// Keys of the metadata attached to every stored object. The object is
// self-describing through these, so the index can be rebuilt from the
// store alone.
const (
	MetaFilename   = "original-filename"
	MetaMediaID    = "media-id"
	MetaUploadTime = "upload-time"
	MetaMediaType  = "media-type"
)

// Record describes one uploaded media object. It is what the index
// persists and what /media/:id returns.
type Record struct {
	MediaID     string    `json:"media_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadTime  time.Time `json:"upload_time"`
	MediaType   Type      `json:"media_type"`
	StreamURL   string    `json:"stream_url"`
}

var extensionsByType = map[Type][]string{
	TypeVideo: {".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm", ".mkv"},
	TypeAudio: {".mp3", ".wav", ".ogg", ".m4a", ".flac"},
	TypeImage: {".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"},
}

// probe order for resolving a media id back to its storage key
var allExtensions []string

func init() {
	for _, t := range []Type{TypeVideo, TypeAudio, TypeImage} {
		allExtensions = append(allExtensions, extensionsByType[t]...)
	}
}

// Ext returns the lowercased extension of filename, dot included.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// Classify maps a filename to its media type by extension. It never
// fails; anything unrecognized is TypeUnknown.
func Classify(filename string) Type {
	ext := Ext(filename)
	for t, exts := range extensionsByType {
		for _, e := range exts {
			if e == ext {
				return t
			}
		}
	}
	return TypeUnknown
}

// Admissible reports whether the filename carries an allowed extension.
func Admissible(filename string) bool {
	return Classify(filename) != TypeUnknown
}

// AllExtensions returns every allowed extension in probe order.
func AllExtensions() []string {
	return allExtensions
}

// ResolveContentType picks the content type for an upload: the caller's
// hint if present, else the extension's MIME type, else a generic
// binary type. Never empty.
func ResolveContentType(hint, filename string) string {
	if hint != "" {
		return hint
	}
	if ct := mime.TypeByExtension(Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
