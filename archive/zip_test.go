package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestWriteZip(t *testing.T) {
	entries := []Entry{
		{Name: "a_converted.jpg", Data: []byte("aaaa")},
		{Name: "b_converted.jpg", Data: []byte("bbbb")},
		{Name: "c_converted.jpg", Data: bytes.Repeat([]byte("c"), 10000)},
	}

	var buf bytes.Buffer
	if err := WriteZip(&buf, entries); err != nil {
		t.Fatalf("WriteZip failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Output is not a readable ZIP: %v", err)
	}
	if len(zr.File) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(zr.File))
	}

	for i, f := range zr.File {
		if f.Name != entries[i].Name {
			t.Errorf("Entry %d named %q, want %q", i, f.Name, entries[i].Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open entry %q: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read entry %q: %v", f.Name, err)
		}
		if !bytes.Equal(data, entries[i].Data) {
			t.Errorf("Entry %q content mismatch", f.Name)
		}
	}
}

func TestWriteZip_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteZip(&buf, nil); err != nil {
		t.Fatalf("WriteZip failed on empty input: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Empty archive is not readable: %v", err)
	}
	if len(zr.File) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(zr.File))
	}
}
