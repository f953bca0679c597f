package converter

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"imageConverter/codec"
)

// Engine is the codec surface the converter drives. codec.Engine implements
// it; tests substitute a deterministic stub.
type Engine interface {
	Decode(data []byte) (image.Image, error)
	Resize(img image.Image, width, height int, fitInside bool) image.Image
	Flatten(img image.Image, bg color.Color) image.Image
	Encode(img image.Image, format codec.Format, quality int) ([]byte, error)
	ReadMetadata(data []byte) (codec.Metadata, error)
}

// Options fixes the parameters for one encode of an image.
type Options struct {
	Format  codec.Format
	Quality int

	// Width/Height of 0 means no resize on that axis. FitInside preserves
	// the aspect ratio inside the box; otherwise the box is filled exactly.
	Width     int
	Height    int
	FitInside bool

	// TargetSize is the byte budget for FitTargetSize. 0 disables the search.
	TargetSize int64

	// KeepMetadata splices EXIF into JPEG output. UseTransparency keeps the
	// alpha channel for formats that support one; without it the image is
	// flattened onto Background (white when nil).
	KeepMetadata    bool
	UseTransparency bool
	Background      color.Color

	// EXIF is the raw APP1 payload taken from the original source, extracted
	// by the caller before HEIC normalization so it survives the PNG
	// intermediate.
	EXIF []byte
}

// Converter produces single encodes and runs the target-size search.
type Converter struct {
	engine Engine
	logger *zap.Logger
	search SearchConfig
}

func New(engine Engine, logger *zap.Logger) *Converter {
	return NewWithSearch(engine, logger, DefaultSearchConfig())
}

// NewWithSearch injects custom search bounds; tests use small caps.
func NewWithSearch(engine Engine, logger *zap.Logger, search SearchConfig) *Converter {
	return &Converter{engine: engine, logger: logger, search: search}
}

// Convert runs the fixed pipeline once: decode, resize, flatten, encode.
// It never retries; decode failures wrap codec.ErrDecode, everything after
// wraps codec.ErrEncode.
func (c *Converter) Convert(ctx context.Context, src []byte, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := c.engine.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrDecode, err)
	}

	if opts.Width > 0 || opts.Height > 0 {
		img = c.engine.Resize(img, opts.Width, opts.Height, opts.FitInside)
	}

	// Formats without an alpha channel must be flattened or the encoder
	// would reject the decoded image; callers can also opt out of
	// transparency for the rest.
	if !opts.Format.HasAlpha() || !opts.UseTransparency {
		bg := opts.Background
		if bg == nil {
			bg = color.White
		}
		img = c.engine.Flatten(img, bg)
	}

	data, err := c.engine.Encode(img, opts.Format, opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrEncode, err)
	}

	if opts.KeepMetadata && opts.Format.IsJPEG() {
		exif := opts.EXIF
		if exif == nil {
			exif = codec.ExtractJPEGEXIF(src)
		}
		data = codec.SpliceEXIF(data, exif)
	}

	return data, nil
}
