package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/rapport/model"
)

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const testRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// wrapBody wraps body content in a word/document.xml document element.
func wrapBody(content string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + content + `</w:body>
</w:document>`
}

// buildDOCX creates DOCX package bytes from the given parts. Parts are
// written in the order given, after the content types and root rels.
func buildDOCX(t testing.TB, parts ...[2]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	all := append([][2]string{
		{"[Content_Types].xml", testContentTypes},
		{"_rels/.rels", testRootRels},
	}, parts...)
	for _, p := range all {
		w, err := zw.Create(p[0])
		if err != nil {
			t.Fatalf("creating %s: %v", p[0], err)
		}
		w.Write([]byte(p[1]))
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// createTestDOCX creates a minimal DOCX file for testing.
func createTestDOCX(t *testing.T, content string) string {
	t.Helper()

	docxPath := filepath.Join(t.TempDir(), "test.docx")
	data := buildDOCX(t, [2]string{"word/document.xml", wrapBody(content)})
	if err := os.WriteFile(docxPath, data, 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	return docxPath
}

// readEntry returns the content of a zip entry in data.
func readEntry(t *testing.T, data []byte, name string) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("opening %s: %v", name, err)
			}
			defer rc.Close()
			var b bytes.Buffer
			b.ReadFrom(rc)
			return b.String()
		}
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func TestOpen(t *testing.T) {
	content := `<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`
	docxPath := createTestDOCX(t, content)

	d, err := Open(docxPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if d.main == nil {
		t.Fatal("main part should not be nil")
	}
	if got := d.Text(); got != "Hello World\n" {
		t.Errorf("Text() = %q", got)
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("/nonexistent/file.docx")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestOpen_InvalidZip(t *testing.T) {
	invalidPath := filepath.Join(t.TempDir(), "invalid.docx")
	os.WriteFile(invalidPath, []byte("not a zip file"), 0644)

	_, err := Open(invalidPath)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Open() error = %v, want ErrCorrupt", err)
	}
}

func TestRead_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(testContentTypes))
	zw.Close()

	_, err := Parse(buf.Bytes())
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Parse() error = %v, want ErrCorrupt", err)
	}
}

func TestRead_MalformedXML(t *testing.T) {
	data := buildDOCX(t, [2]string{"word/document.xml", `<w:document xmlns:w="x"><w:body><w:p></w:body>`})

	_, err := Parse(data)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Parse() error = %v, want ErrCorrupt", err)
	}
}

func TestRead_WrongRootElement(t *testing.T) {
	data := buildDOCX(t, [2]string{"word/document.xml", `<html><body/></html>`})

	_, err := Parse(data)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("Parse() error = %v, want ErrCorrupt", err)
	}
}

func TestDocument_Model(t *testing.T) {
	content := `
<w:p><w:r><w:t>First</w:t></w:r></w:p>
<w:tbl>
  <w:tblPr/>
  <w:tr>
    <w:tc><w:p><w:r><w:t>A1</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>B1 </w:t></w:r><w:r><w:t>more</w:t></w:r></w:p><w:p/></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>A2</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>
<w:p><w:r><w:t>Last</w:t></w:r></w:p>
<w:sectPr/>`

	d, err := Parse(buildDOCX(t, [2]string{"word/document.xml", wrapBody(content)}))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	doc := d.Model()

	if len(doc.Paragraphs) != 2 {
		t.Errorf("len(Paragraphs) = %d, want 2", len(doc.Paragraphs))
	}
	if len(doc.Tables) != 1 {
		t.Fatalf("len(Tables) = %d, want 1", len(doc.Tables))
	}
	tbl := doc.Tables[0]
	if len(tbl.Rows) != 2 || len(tbl.Rows[0].Cells) != 2 {
		t.Fatalf("table rows = %d, want 2x2", len(tbl.Rows))
	}
	cell := tbl.Rows[0].Cells[1]
	if got := model.Text(cell.Paragraphs[0].Runs()); got != "B1 more" {
		t.Errorf("cell text = %q", got)
	}
	if got := len(cell.Paragraphs); got != 2 {
		t.Errorf("cell paragraphs = %d, want 2", got)
	}
	if d.Model() != doc {
		t.Error("Model() should be cached")
	}

	want := "First\nLast\nA1\nB1 more\n\nA2\n"
	if got := doc.ExtractText(); got != want {
		t.Errorf("ExtractText() = %q, want %q", got, want)
	}
}

func TestRuns_TextMapping(t *testing.T) {
	content := `<w:p><w:r><w:t>a</w:t><w:tab/><w:t xml:space="preserve"> b </w:t><w:br/><w:t>c</w:t><w:noBreakHyphen/><w:softHyphen/><w:br w:type="page"/><w:cr/></w:r></w:p>`

	d, err := Parse(buildDOCX(t, [2]string{"word/document.xml", wrapBody(content)}))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	runs := d.Model().Paragraphs[0].Runs()
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d", len(runs))
	}
	if want := "a\t b \nc\u2011\u00ad\n"; runs[0].Text != want {
		t.Errorf("Text = %q, want %q", runs[0].Text, want)
	}
	src := runs[0].Payload.(*runSource)
	if len(src.content) != 1 || !src.content[0].is("w", "br") {
		t.Errorf("page break should be kept as content, got %d items", len(src.content))
	}
}

func TestRuns_DecodeFont(t *testing.T) {
	content := `<w:p>
<w:r>
  <w:rPr>
    <w:rStyle w:val="Strong"/>
    <w:rFonts w:ascii="Arial" w:hAnsi="Arial"/>
    <w:b/>
    <w:i w:val="0"/>
    <w:strike w:val="true"/>
    <w:color w:val="C00000"/>
    <w:sz w:val="24"/>
    <w:highlight w:val="yellow"/>
    <w:u w:val="double"/>
    <w:vertAlign w:val="superscript"/>
  </w:rPr>
  <w:t>x</w:t>
</w:r>
<w:r><w:rPr><w:color w:val="auto"/><w:u/><w:vertAlign w:val="baseline"/></w:rPr><w:t>y</w:t></w:r>
<w:r><w:rPr><w:rFonts w:hAnsi="Georgia"/><w:sz w:val="bogus"/></w:rPr><w:t>z</w:t></w:r>
</w:p>`

	d, err := Parse(buildDOCX(t, [2]string{"word/document.xml", wrapBody(content)}))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	runs := d.Model().Paragraphs[0].Runs()
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}

	red := model.RGB{0xC0, 0, 0}
	want := model.Font{
		Name: "Arial", Size: 12,
		Bold: model.On, Italic: model.Off, Strike: model.On,
		Underline: "double", Subscript: model.Off, Superscript: model.On,
		Color: &red, Highlight: "yellow",
	}
	if !runs[0].Font.Equal(want) {
		t.Errorf("Font = %+v, want %+v", runs[0].Font, want)
	}
	if runs[0].Style != "Strong" {
		t.Errorf("Style = %q, want Strong", runs[0].Style)
	}

	f := runs[1].Font
	if f.Color != nil {
		t.Errorf("auto color should be unset, got %v", f.Color)
	}
	if f.Underline != "single" {
		t.Errorf("bare <w:u/> Underline = %q, want single", f.Underline)
	}
	if f.Subscript != model.Off || f.Superscript != model.Off {
		t.Errorf("baseline should switch sub/superscript off, got %v/%v", f.Subscript, f.Superscript)
	}
	if f.Bold != model.Inherit {
		t.Errorf("absent bold should inherit, got %v", f.Bold)
	}

	f = runs[2].Font
	if f.Name != "Georgia" {
		t.Errorf("Name = %q, want hAnsi fallback Georgia", f.Name)
	}
	if f.Size != 0 {
		t.Errorf("Size = %v, want 0 for unparseable size", f.Size)
	}
}

func TestRead_HeadersFooters(t *testing.T) {
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="/word/footer1.xml"/>
  <Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`
	header := `<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:r><w:t>Head</w:t></w:r></w:p></w:hdr>`
	footer := `<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:tbl><w:tr><w:tc><w:p><w:r><w:t>Foot</w:t></w:r></w:p></w:tc></w:tr></w:tbl></w:ftr>`

	data := buildDOCX(t,
		[2]string{"word/document.xml", wrapBody(`<w:p/>`)},
		[2]string{"word/_rels/document.xml.rels", rels},
		[2]string{"word/header1.xml", header},
		[2]string{"word/footer1.xml", footer},
	)

	d, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	doc := d.Model()

	if len(doc.Headers) != 1 || doc.Headers[0].Name != "word/header1.xml" {
		t.Fatalf("Headers = %+v", doc.Headers)
	}
	if got := model.Text(doc.Headers[0].Paragraphs[0].Runs()); got != "Head" {
		t.Errorf("header text = %q", got)
	}
	if len(doc.Footers) != 1 || len(doc.Footers[0].Tables) != 1 {
		t.Fatalf("Footers = %+v", doc.Footers)
	}

	var texts []string
	doc.WalkParts(func(p model.Paragraph) { texts = append(texts, model.Text(p.Runs())) })
	if strings.Join(texts, "|") != "Head|Foot" {
		t.Errorf("WalkParts texts = %v", texts)
	}
}

func TestRead_MissingHeaderPart(t *testing.T) {
	rels := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header9.xml"/>
</Relationships>`
	data := buildDOCX(t,
		[2]string{"word/document.xml", wrapBody(`<w:p/>`)},
		[2]string{"word/_rels/document.xml.rels", rels},
	)

	if _, err := Parse(data); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Parse() error = %v, want ErrCorrupt", err)
	}
}

func TestRead_CustomPrefix(t *testing.T) {
	doc := `<x:document xmlns:x="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><x:body><x:p><x:r><x:t>Le 01/09/2025</x:t></x:r></x:p></x:body></x:document>`

	d, err := Parse(buildDOCX(t, [2]string{"word/document.xml", doc}))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.main.w != "x" {
		t.Errorf("prefix = %q, want x", d.main.w)
	}
	if got := d.Text(); got != "Le 01/09/2025\n" {
		t.Errorf("Text() = %q", got)
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"header1.xml", "word/header1.xml"},
		{"/word/footer2.xml", "word/footer2.xml"},
		{"../customXml/item1.xml", "customXml/item1.xml"},
	}
	for _, tt := range tests {
		if got := resolveTarget("word", tt.target); got != tt.want {
			t.Errorf("resolveTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestParseHalfPoints(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"24", 12},
		{"21", 10.5},
		{"", 0},
		{"-4", 0},
		{"x", 0},
	}
	for _, tt := range tests {
		if got := parseHalfPoints(tt.in); got != tt.want {
			t.Errorf("parseHalfPoints(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString(`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Le </w:t></w:r><w:r><w:t>01/09/2025</w:t></w:r></w:p>`)
	}
	data := buildDOCX(b, [2]string{"word/document.xml", wrapBody(sb.String())})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(data); err != nil {
			b.Fatal(err)
		}
	}
}
