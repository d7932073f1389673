// Package docx reads and writes DOCX (Office Open XML) documents.
//
// A Document keeps every part of the package. The main document, header
// and footer parts are parsed into a lossless XML tree; [Document.Model]
// exposes their paragraphs as model.Paragraph values whose SetRuns edits
// the tree directly. Saving writes back only the parts that changed and
// copies every other entry of the package byte for byte.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/tsawler/rapport/model"
)

var (
	// ErrNotFound is returned when the document file does not exist.
	ErrNotFound = errors.New("docx: document not found")
	// ErrCorrupt is returned when the package or its XML cannot be parsed.
	ErrCorrupt = errors.New("docx: invalid or corrupted document")
)

const documentPart = "word/document.xml"

// Document is an opened DOCX package.
type Document struct {
	zip     *zip.Reader
	main    *part
	headers []*part
	footers []*part
	model   *model.Document
}

// Open reads and parses the DOCX file at filename.
func Open(filename string) (*Document, error) {
	data, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ReadFile returns the raw bytes of the DOCX file at filename. A missing
// file is reported as ErrNotFound. The bytes can be handed to Parse any
// number of times.
func ReadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return data, nil
}

// Parse parses a DOCX package held in memory. data must not be modified
// while the Document is in use.
func Parse(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read parses a DOCX package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ZIP archive: %w", ErrCorrupt, err)
	}

	d := &Document{zip: zr}

	// Validate required files exist
	if err := d.validate(); err != nil {
		return nil, err
	}

	data, err := d.getFileContent(documentPart)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrCorrupt, documentPart, err)
	}
	if d.main, err = parsePart(documentPart, data); err != nil {
		return nil, err
	}
	if d.main.root.element().name.Local != "document" {
		return nil, fmt.Errorf("%w: %s has no document element", ErrCorrupt, documentPart)
	}

	if err := d.parseHeadersFooters(); err != nil {
		return nil, err
	}

	return d, nil
}

// validate checks that required DOCX files exist.
func (d *Document) validate() error {
	required := []string{
		"[Content_Types].xml",
		documentPart,
	}

	fileMap := make(map[string]bool)
	for _, f := range d.zip.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("%w: missing required file: %s", ErrCorrupt, name)
		}
	}

	return nil
}

// getFile returns a zip.File by name.
func (d *Document) getFile(name string) *zip.File {
	for _, f := range d.zip.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (d *Document) getFileContent(name string) ([]byte, error) {
	f := d.getFile(name)
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseHeadersFooters loads the header and footer parts referenced by the
// main document's relationships. A package without relationships simply has
// none.
func (d *Document) parseHeadersFooters() error {
	data, err := d.getFileContent("word/_rels/document.xml.rels")
	if err != nil {
		return nil
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return fmt.Errorf("%w: parsing relationships: %w", ErrCorrupt, err)
	}

	for _, rel := range rels.Relationships {
		if rel.TargetMode == "External" || (rel.Type != relHeader && rel.Type != relFooter) {
			continue
		}
		name := resolveTarget("word", rel.Target)
		content, err := d.getFileContent(name)
		if err != nil {
			return fmt.Errorf("%w: relationship %s: %w", ErrCorrupt, rel.ID, err)
		}
		pt, err := parsePart(name, content)
		if err != nil {
			return err
		}
		if rel.Type == relHeader {
			d.headers = append(d.headers, pt)
		} else {
			d.footers = append(d.footers, pt)
		}
	}
	return nil
}

// resolveTarget resolves a relationship target against the source part's
// directory. Absolute targets are relative to the package root.
func resolveTarget(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(dir, target))
}

// Model returns the document's paragraphs and tables. Edits made through
// the returned paragraphs change the document and are written by Save.
func (d *Document) Model() *model.Document {
	if d.model != nil {
		return d.model
	}

	doc := model.NewDocument()
	doc.Paragraphs, doc.Tables = d.main.content()
	if doc.Paragraphs == nil {
		doc.Paragraphs = make([]model.Paragraph, 0)
	}
	if doc.Tables == nil {
		doc.Tables = make([]*model.Table, 0)
	}
	for _, pt := range d.headers {
		doc.Headers = append(doc.Headers, partModel(pt))
	}
	for _, pt := range d.footers {
		doc.Footers = append(doc.Footers, partModel(pt))
	}

	d.model = doc
	return doc
}

func partModel(pt *part) *model.Part {
	p := &model.Part{Name: pt.name}
	p.Paragraphs, p.Tables = pt.content()
	return p
}

// Text returns the body text, one paragraph per line.
func (d *Document) Text() string {
	return d.Model().ExtractText()
}
