package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a container/encoding for synthesized audio.
type Format string

const (
	// FormatM4A is AAC audio in an MPEG-4 container (macOS say output).
	FormatM4A Format = "m4a"

	// FormatMP3 is MPEG layer 3 audio (default for the cloud providers).
	FormatMP3 Format = "mp3"

	// FormatWAV is PCM audio in a RIFF container.
	FormatWAV Format = "wav"

	// FormatOGG is Opus/Vorbis audio in an Ogg container.
	FormatOGG Format = "ogg"

	// FormatPCM is headerless signed 16-bit little-endian samples, used
	// only as the playback interchange format.
	FormatPCM Format = "pcm"
)

// ParseFormat converts a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatM4A:
		return FormatM4A, nil
	case FormatMP3:
		return FormatMP3, nil
	case FormatWAV:
		return FormatWAV, nil
	case FormatOGG:
		return FormatOGG, nil
	case FormatPCM:
		return FormatPCM, nil
	default:
		return "", fmt.Errorf("unsupported audio format %q (use m4a, mp3, wav or ogg)", s)
	}
}

// FormatForPath infers the format from a file extension, falling back to
// def when the extension is missing or unknown.
func FormatForPath(path string, def Format) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return def
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return def
	}
	return f
}

// Ext returns the filename extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// MIME returns the media type for the format.
func (f Format) MIME() string {
	switch f {
	case FormatM4A:
		return "audio/mp4"
	case FormatMP3:
		return "audio/mpeg"
	case FormatWAV:
		return "audio/wav"
	case FormatOGG:
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}
