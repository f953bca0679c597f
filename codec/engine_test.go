package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func TestEngine_EncodeFormats(t *testing.T) {
	e := NewEngine()
	img := testImage(64, 48)

	for _, format := range []Format{FormatJPG, FormatJPEG, FormatPNG, FormatWEBP, FormatTIFF, FormatBMP, FormatGIF} {
		data, err := e.Encode(img, format, 80)
		if err != nil {
			t.Errorf("Encode %s failed: %v", format, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("Encode %s produced no bytes", format)
			continue
		}

		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Errorf("Output of %s not decodable: %v", format, err)
			continue
		}
		if cfg.Width != 64 || cfg.Height != 48 {
			t.Errorf("Encode %s changed dimensions: %dx%d", format, cfg.Width, cfg.Height)
		}
	}
}

func TestEngine_EncodeUnsupported(t *testing.T) {
	e := NewEngine()

	_, err := e.Encode(testImage(8, 8), Format("avif"), 80)
	if err == nil {
		t.Fatal("Expected error for unsupported format, got nil")
	}
}

func TestEngine_ResizeFillStretches(t *testing.T) {
	e := NewEngine()

	out := e.Resize(testImage(100, 100), 200, 50, false)
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 50 {
		t.Errorf("Expected 200x50, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestEngine_ResizeFitPreservesRatio(t *testing.T) {
	e := NewEngine()

	out := e.Resize(testImage(400, 200), 100, 100, true)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Errorf("Expected 100x50, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestEngine_ResizeSingleDimension(t *testing.T) {
	e := NewEngine()

	out := e.Resize(testImage(400, 200), 100, 0, false)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Errorf("Expected 100x50, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestEngine_ResizeNoop(t *testing.T) {
	e := NewEngine()

	img := testImage(40, 40)
	if out := e.Resize(img, 0, 0, false); out != image.Image(img) {
		t.Error("Expected the input back when no dimensions are set")
	}
}

func TestEngine_Flatten(t *testing.T) {
	e := NewEngine()

	img := image.NewNRGBA(image.Rect(0, 0, 10, 10)) // fully transparent
	out := e.Flatten(img, color.White)

	r, g, b, a := out.At(5, 5).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 || a>>8 != 255 {
		t.Errorf("Expected opaque white, got rgba(%d,%d,%d,%d)", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestEngine_ReadMetadata(t *testing.T) {
	e := NewEngine()

	meta, err := e.ReadMetadata(pngBytes(t, testImage(123, 45)))
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	if meta.Width != 123 || meta.Height != 45 {
		t.Errorf("Expected 123x45, got %dx%d", meta.Width, meta.Height)
	}
	if meta.Format != "png" {
		t.Errorf("Expected format png, got %s", meta.Format)
	}
}

func TestEngine_Probe(t *testing.T) {
	e := NewEngine()

	if err := e.Probe(pngBytes(t, testImage(4, 4))); err != nil {
		t.Errorf("Probe rejected a valid PNG: %v", err)
	}
	if err := e.Probe([]byte("garbage")); err == nil {
		t.Error("Probe accepted garbage bytes")
	}
}

func TestFormat_MIME(t *testing.T) {
	if got := FormatJPG.MIME(); got != "image/jpeg" {
		t.Errorf("jpg MIME = %s", got)
	}
	if got := FormatPNG.MIME(); got != "image/png" {
		t.Errorf("png MIME = %s", got)
	}
	if got := FormatWEBP.MIME(); got != "image/webp" {
		t.Errorf("webp MIME = %s", got)
	}
}

func TestFormat_HasAlpha(t *testing.T) {
	for _, f := range []Format{FormatJPG, FormatJPEG, FormatBMP} {
		if f.HasAlpha() {
			t.Errorf("%s must not report alpha support", f)
		}
	}
	for _, f := range []Format{FormatPNG, FormatWEBP, FormatTIFF} {
		if !f.HasAlpha() {
			t.Errorf("%s must report alpha support", f)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat(""); got != FormatPNG {
		t.Errorf("Empty format should default to png, got %s", got)
	}
	if got := ParseFormat("  JPG "); got != FormatJPG {
		t.Errorf("Expected jpg, got %s", got)
	}
	if got := ParseFormat("avif"); got != Format("avif") {
		t.Errorf("Unknown formats must pass through, got %s", got)
	}
}
