package validation

import (
	"bytes"
	"fmt"
)

var magicBytes = map[string][]byte{
	"image/png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"image/jpeg": {0xFF, 0xD8, 0xFF},
	"image/gif":  {0x47, 0x49, 0x46, 0x38},
	"image/bmp":  {0x42, 0x4D},
}

// HEIC/HEIF files carry a 'ftyp' box after a 4-byte size; the brand decides
// the flavor. https://mp4ra.org/registered-types/brands
var heicBrands = [][]byte{
	[]byte("ftypheic"),
	[]byte("ftypheix"),
	[]byte("ftypheif"),
	[]byte("ftypmif1"),
	[]byte("ftypmsf1"),
}

// DetectMIME sniffs the image media type from leading bytes. Returns "" when
// no known signature matches.
func DetectMIME(data []byte) string {
	if len(data) >= 12 {
		for _, brand := range heicBrands {
			if bytes.Equal(data[4:12], brand) {
				return "image/heic"
			}
		}
		// RIFF....WEBP
		if bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
			return "image/webp"
		}
	}
	if len(data) >= 4 {
		if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
			return "image/tiff"
		}
	}
	for mime, sig := range magicBytes {
		if bytes.HasPrefix(data, sig) {
			return mime
		}
	}
	return ""
}

// CheckFileSize enforces the transport upload cap.
func CheckFileSize(size, limit int64) error {
	if limit > 0 && size > limit {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, limit)
	}
	return nil
}
