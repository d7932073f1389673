// Package format provides file format detection for document templates.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by Require when a file is not of the
// expected format.
var ErrUnsupported = errors.New("format: unsupported document format")

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Word (.docx, .docm, .dotx) package.
	DOCX
	// XLSX indicates an Excel (.xlsx) package.
	XLSX
	// PPTX indicates a PowerPoint (.pptx) package.
	PPTX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// PDF indicates a PDF document.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case ODT:
		return "ODT"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case XLSX:
		return ".xlsx"
	case PPTX:
		return ".pptx"
	case ODT:
		return ".odt"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx", ".docm", ".dotx":
		return DOCX
	case ".xlsx":
		return XLSX
	case ".pptx":
		return PPTX
	case ".odt":
		return ODT
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte("PK\x03\x04")
)

// DetectBytes inspects data held in memory.
func DetectBytes(data []byte) (Format, error) {
	return DetectFromReader(bytes.NewReader(data), int64(len(data)))
}

// DetectFromReader inspects the content to determine format. Unlike
// Detect it can tell the ZIP based formats apart.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 4)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case bytes.Equal(magic, pdfMagic):
		return PDF, nil
	case bytes.Equal(magic, zipMagic):
		return detectZIPFormat(r, size)
	}
	return Unknown, nil
}

// detectZIPFormat looks for the main part of each known package type.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			return DOCX, nil
		case "xl/workbook.xml":
			return XLSX, nil
		case "ppt/presentation.xml":
			return PPTX, nil
		case "mimetype":
			if isODT(f) {
				return ODT, nil
			}
		}
	}

	return Unknown, nil
}

func isODT(f *zip.File) bool {
	rc, err := f.Open()
	if err != nil {
		return false
	}
	defer rc.Close()

	data := make([]byte, 256)
	n, _ := io.ReadFull(rc, data)
	return strings.HasPrefix(string(data[:n]), "application/vnd.oasis.opendocument.text")
}

// Require checks that data holds a document of format want. The returned
// error wraps ErrUnsupported and names the format that was found.
func Require(data []byte, want Format) error {
	got, err := DetectBytes(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	if got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrUnsupported, got, want)
	}
	return nil
}
