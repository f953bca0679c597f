package dto

import (
	"errors"
	"image/color"
	"net/url"
	"strconv"

	"imageConverter/codec"
)

var (
	ErrNoFiles      = errors.New("no image files uploaded")
	ErrTooManyFiles = errors.New("batch file limit exceeded")
)

const (
	// DefaultQuality is applied when the form carries no quality field.
	DefaultQuality = 80

	// MaxBatchFiles is the hard cap on source images per batch call.
	MaxBatchFiles = 10
)

// ConversionRequest holds the per-call parameters, immutable once parsed.
type ConversionRequest struct {
	Format         codec.Format
	Quality        int
	Width          int
	Height         int
	MaintainAspect bool

	// TargetSize is the byte budget, 0 when unset.
	TargetSize int64

	KeepMetadata    bool
	UseTransparency bool
	Background      color.Color
}

// ParseConversionRequest reads the multipart form fields with their
// documented defaults: format png, quality 80, fill aspect policy, white
// background. Quality is clamped to [1,100].
func ParseConversionRequest(form url.Values) ConversionRequest {
	req := ConversionRequest{
		Format:          codec.ParseFormat(form.Get("format")),
		Quality:         parseInt(form.Get("quality"), DefaultQuality),
		Width:           parseInt(form.Get("width"), 0),
		Height:          parseInt(form.Get("height"), 0),
		MaintainAspect:  form.Get("maintainAspect") == "true",
		TargetSize:      parseInt64(form.Get("targetSize"), 0),
		KeepMetadata:    form.Get("keepMetadata") == "true",
		UseTransparency: form.Get("useTransparency") == "true",
		Background:      ParseHexColor(form.Get("backgroundColor")),
	}

	if req.Quality < 1 {
		req.Quality = 1
	}
	if req.Quality > 100 {
		req.Quality = 100
	}
	if req.Width < 0 {
		req.Width = 0
	}
	if req.Height < 0 {
		req.Height = 0
	}
	if req.TargetSize < 0 {
		req.TargetSize = 0
	}

	return req
}

// ParseHexColor parses "#RRGGBB" (or "RRGGBB"); anything else yields white.
func ParseHexColor(s string) color.Color {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.White
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.White
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}
