package validation

import (
	"errors"
	"testing"
)

func TestDetectMIME(t *testing.T) {
	heic := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypheic")...)
	heic = append(heic, make([]byte, 8)...)

	webp := append([]byte("RIFF"), []byte{0x10, 0x00, 0x00, 0x00}...)
	webp = append(webp, []byte("WEBP")...)

	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, "image/jpeg"},
		{"gif", []byte("GIF89a......"), "image/gif"},
		{"bmp", []byte{0x42, 0x4D, 0x00, 0x00}, "image/bmp"},
		{"tiff-le", []byte("II*\x00........"), "image/tiff"},
		{"tiff-be", []byte("MM\x00*........"), "image/tiff"},
		{"heic", heic, "image/heic"},
		{"webp", webp, "image/webp"},
		{"unknown", []byte("hello world!"), ""},
		{"short", []byte{0x89}, ""},
	}

	for _, tc := range cases {
		if got := DetectMIME(tc.data); got != tc.want {
			t.Errorf("%s: DetectMIME = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	if err := CheckFileSize(100, 1000); err != nil {
		t.Errorf("Expected small file to pass: %v", err)
	}
	if err := CheckFileSize(2000, 1000); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
	if err := CheckFileSize(2000, 0); err != nil {
		t.Errorf("Expected no limit when limit is 0: %v", err)
	}
}
