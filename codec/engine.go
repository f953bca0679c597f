package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"

	"github.com/disintegration/imaging"
	webpenc "github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Metadata describes a decodable image without loading its pixels.
type Metadata struct {
	Width  int
	Height int
	Format string
}

// Engine wraps the image codecs behind a uniform decode/resize/flatten/encode
// surface. It is stateless and safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Decode reads an image from raw bytes. JPEG, PNG and GIF come from the
// standard library; WebP, TIFF and BMP decoders are registered via imports.
func (e *Engine) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Resize scales img to the requested box. With fitInside the aspect ratio is
// preserved within width x height; otherwise the image is stretched to the
// exact box. A zero width or height preserves the aspect ratio in both modes.
func (e *Engine) Resize(img image.Image, width, height int, fitInside bool) image.Image {
	if width <= 0 && height <= 0 {
		return img
	}
	if width <= 0 || height <= 0 {
		return imaging.Resize(img, max(width, 0), max(height, 0), imaging.Lanczos)
	}
	if fitInside {
		return imaging.Fit(img, width, height, imaging.Lanczos)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Flatten composites img over a solid background, discarding alpha.
func (e *Engine) Flatten(img image.Image, bg color.Color) image.Image {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// Encode produces the final bytes for the given format. PNG ignores quality
// as a visual knob and always compresses at the maximum level. BMP and GIF
// have no quality parameter at all.
func (e *Engine) Encode(img image.Image, format Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatJPG, FormatJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case FormatWEBP:
		var opts *webpenc.Options
		opts, err = webpenc.NewLossyEncoderOptions(webpenc.PresetDefault, float32(quality))
		if err == nil {
			err = webp.Encode(&buf, img, opts)
		}
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// ReadMetadata reads image dimensions without decoding pixel data.
func (e *Engine) ReadMetadata(data []byte) (Metadata, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	return Metadata{Width: cfg.Width, Height: cfg.Height, Format: name}, nil
}

// Probe performs a minimal decode-and-resize to check that the engine can
// consume the bytes at all.
func (e *Engine) Probe(data []byte) error {
	img, err := e.Decode(data)
	if err != nil {
		return err
	}
	_ = imaging.Resize(img, 1, 1, imaging.NearestNeighbor)
	return nil
}
