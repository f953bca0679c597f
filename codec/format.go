package codec

import "strings"

// Format is the requested output format, normalized to lower case.
// Unknown values are passed through to the encoder, which rejects
// anything it has no encoder for.
type Format string

const (
	FormatJPG  Format = "jpg"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWEBP Format = "webp"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	FormatGIF  Format = "gif"
)

// ParseFormat normalizes a format string from the request.
// An empty string defaults to PNG.
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatPNG
	}
	return Format(s)
}

// MIME returns the media type for the format ("jpg" maps to image/jpeg).
func (f Format) MIME() string {
	if f == FormatJPG {
		return "image/jpeg"
	}
	return "image/" + string(f)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	return string(f)
}

// IsJPEG reports whether the format is JPEG under either spelling.
func (f Format) IsJPEG() bool {
	return f == FormatJPG || f == FormatJPEG
}

// HasAlpha reports whether the format can carry an alpha channel.
// Formats without one must be flattened before encoding.
func (f Format) HasAlpha() bool {
	switch f {
	case FormatJPG, FormatJPEG, FormatBMP:
		return false
	default:
		return true
	}
}
