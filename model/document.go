package model

// Document is the text-bearing structure of a word-processing document.
//
// Paragraphs and Tables are the body content. Headers and Footers are only
// populated by sources that were asked to load them.
type Document struct {
	Paragraphs []Paragraph
	Tables     []*Table
	Headers    []*Part
	Footers    []*Part
}

// Part is a secondary story of the document, such as a page header.
type Part struct {
	Name       string
	Paragraphs []Paragraph
	Tables     []*Table
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Paragraphs: make([]Paragraph, 0),
		Tables:     make([]*Table, 0),
	}
}

// Walk calls fn for every body paragraph: top-level paragraphs first, then
// the paragraphs of every cell of every table.
func (d *Document) Walk(fn func(Paragraph)) {
	for _, p := range d.Paragraphs {
		fn(p)
	}
	for _, t := range d.Tables {
		t.walk(fn)
	}
}

// WalkParts calls fn for every paragraph of the header and footer parts.
func (d *Document) WalkParts(fn func(Paragraph)) {
	for _, parts := range [][]*Part{d.Headers, d.Footers} {
		for _, part := range parts {
			for _, p := range part.Paragraphs {
				fn(p)
			}
			for _, t := range part.Tables {
				t.walk(fn)
			}
		}
	}
}

// ParagraphCount returns the number of body paragraphs Walk visits.
func (d *Document) ParagraphCount() int {
	n := 0
	d.Walk(func(Paragraph) { n++ })
	return n
}

// ExtractText returns the body text, one paragraph per line, in Walk order.
func (d *Document) ExtractText() string {
	var text string
	d.Walk(func(p Paragraph) {
		text += Text(p.Runs()) + "\n"
	})
	return text
}
