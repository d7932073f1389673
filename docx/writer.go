package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteError reports a failure to write a document to disk.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("docx: writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Save writes the document to filename. The file is written under a
// temporary name in the same directory and renamed into place, so a failed
// save never leaves a partial document behind.
func (d *Document) Save(filename string) (err error) {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".rapport-*.docx")
	if err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = d.WriteTo(tmp); err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	return nil
}

// WriteTo writes the document as a DOCX package to w. Entries keep their
// order; unchanged entries are copied without recompression.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	edited := make(map[string]*part)
	for _, pt := range d.parts() {
		if pt.dirty {
			edited[pt.name] = pt
		}
	}

	for _, f := range d.zip.File {
		var err error
		if pt, ok := edited[f.Name]; ok {
			err = writePart(zw, f, pt)
		} else {
			err = copyEntry(zw, f)
		}
		if err != nil {
			return cw.n, fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// parts returns every parsed part.
func (d *Document) parts() []*part {
	out := []*part{d.main}
	out = append(out, d.headers...)
	return append(out, d.footers...)
}

// copyEntry copies a zip entry without decompressing it.
func copyEntry(zw *zip.Writer, f *zip.File) error {
	rc, err := f.OpenRaw()
	if err != nil {
		return err
	}
	hdr := f.FileHeader
	w, err := zw.CreateRaw(&hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, rc)
	return err
}

// writePart writes a re-serialized XML part in place of entry f.
func writePart(zw *zip.Writer, f *zip.File, pt *part) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     f.Name,
		Method:   zip.Deflate,
		Modified: f.Modified,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(pt.root.bytes())
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
