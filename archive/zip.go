package archive

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/flate"
)

// Entry is one named file inside the output archive.
type Entry struct {
	Name string
	Data []byte
}

// WriteZip writes entries into a ZIP stream. Deflate runs at the maximum
// compression level. An empty entry list produces a valid empty archive.
func WriteZip(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, e := range entries {
		f, err := zw.Create(e.Name)
		if err != nil {
			zw.Close()
			return err
		}
		if _, err := f.Write(e.Data); err != nil {
			zw.Close()
			return err
		}
	}

	return zw.Close()
}
