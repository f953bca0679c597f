package codec

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
	"go.uber.org/zap"
)

// Quality for the JPEG intermediate produced for preview use.
const heicPreviewQuality = 70

// Prober is the minimal engine surface the normalizer needs: can these
// bytes be decoded at all?
type Prober interface {
	Probe(data []byte) error
}

// Normalizer guarantees that input bytes are consumable by the codec engine.
// HEIC/HEIF sources the engine cannot decode are converted once through the
// secondary goheif decoder; everything else passes through untouched.
type Normalizer struct {
	engine Prober
	logger *zap.Logger

	// secondary decoder, swappable in tests
	decode func(data []byte) (image.Image, error)
}

func NewNormalizer(engine Prober, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		engine: engine,
		logger: logger,
		decode: decodeHEIF,
	}
}

func decodeHEIF(data []byte) (image.Image, error) {
	return goheif.Decode(bytes.NewReader(data))
}

// IsHEIC reports whether the declared mime type or the filename extension
// marks the input as HEIC/HEIF. Either signal alone is sufficient.
func IsHEIC(mimeType, filename string) bool {
	switch strings.ToLower(mimeType) {
	case "image/heic", "image/heif":
		return true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".heic", ".heif":
		return true
	}
	return false
}

// Normalize returns bytes the engine can decode, converting HEIC input to a
// PNG intermediate when needed. The source slice is never modified.
func (n *Normalizer) Normalize(data []byte, mimeType, filename string) ([]byte, error) {
	return n.normalize(data, mimeType, filename, false)
}

// NormalizePreview is Normalize with a JPEG intermediate, cheaper to produce
// and good enough for thumbnail output.
func (n *Normalizer) NormalizePreview(data []byte, mimeType, filename string) ([]byte, error) {
	return n.normalize(data, mimeType, filename, true)
}

func (n *Normalizer) normalize(data []byte, mimeType, filename string, preview bool) ([]byte, error) {
	if !IsHEIC(mimeType, filename) {
		return data, nil
	}

	// Some engine builds decode HEIC natively; keep the original bytes then.
	if err := n.engine.Probe(data); err == nil {
		return data, nil
	}

	img, err := n.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: heic secondary decode: %v", ErrDecode, err)
	}

	var buf bytes.Buffer
	intermediate := "png"
	if preview {
		intermediate = "jpeg"
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(heicPreviewQuality))
	} else {
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: heic intermediate encode: %v", ErrDecode, err)
	}

	n.logger.Info("HEIC input normalized",
		zap.String("filename", filename),
		zap.String("intermediate", intermediate),
		zap.Int("original_bytes", len(data)),
		zap.Int("normalized_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}
