package codec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/jdeng/goheif"
)

// EXIF handling works on the raw APP1 payload (starting with "Exif\0\0").
// Only JPEG output can receive it back; other encoders in use have no
// metadata channel.

var exifHeader = []byte("Exif\x00\x00")

// ExtractEXIF pulls the EXIF payload out of a source image. JPEG sources are
// scanned for their APP1 segment; HEIC containers are read through goheif.
// Returns nil when the source carries no EXIF.
func ExtractEXIF(data []byte, mimeType, filename string) []byte {
	if IsHEIC(mimeType, filename) {
		exif, err := goheif.ExtractExif(bytes.NewReader(data))
		if err != nil || len(exif) == 0 {
			return nil
		}
		if !bytes.HasPrefix(exif, exifHeader) {
			exif = append(append([]byte{}, exifHeader...), exif...)
		}
		return exif
	}
	return ExtractJPEGEXIF(data)
}

// ExtractJPEGEXIF scans JPEG segment markers for the APP1 EXIF payload.
func ExtractJPEGEXIF(data []byte) []byte {
	r := bytes.NewReader(data)

	var soi [2]byte
	if _, err := io.ReadFull(r, soi[:]); err != nil || soi[0] != 0xFF || soi[1] != 0xD8 {
		return nil
	}

	for {
		var marker [2]byte
		if _, err := io.ReadFull(r, marker[:]); err != nil {
			return nil
		}
		if marker[0] != 0xFF {
			return nil
		}
		for marker[1] == 0xFF {
			if _, err := io.ReadFull(r, marker[1:]); err != nil {
				return nil
			}
		}

		// SOS starts entropy-coded data; no metadata past this point.
		if marker[1] == 0xDA {
			return nil
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf[:])) - 2
		if segLen < 0 {
			return nil
		}

		payload := make([]byte, segLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil
		}

		if marker[1] == 0xE1 && bytes.HasPrefix(payload, exifHeader) {
			return payload
		}
	}
}

// SpliceEXIF inserts an APP1 EXIF segment right after the SOI marker of a
// JPEG stream. The input is returned unchanged when there is nothing to add.
func SpliceEXIF(jpegData, exif []byte) []byte {
	if len(exif) == 0 || len(jpegData) < 2 || jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return jpegData
	}
	segLen := 2 + len(exif)
	if segLen > 0xFFFF {
		return jpegData
	}

	out := make([]byte, 0, len(jpegData)+4+len(exif))
	out = append(out, jpegData[:2]...)
	out = append(out, 0xFF, 0xE1, byte(segLen>>8), byte(segLen))
	out = append(out, exif...)
	out = append(out, jpegData[2:]...)
	return out
}
