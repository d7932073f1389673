// Package substitute fills the date and name fields of a report template.
//
// Two substitutions are attempted on every paragraph of a document:
//
//   - the fixed date placeholder (DatePlaceholder) is replaced by the date of
//     the generated report;
//   - the line starting with the name label (NamePrefix) is rewritten to the
//     label, a space, and the new name.
//
// The name line has no terminator: everything from the label to the end of
// the paragraph (or to a line break within it) is treated as the old value,
// so text following the name on the same line is replaced as well.
package substitute

import (
	"strings"
	"time"
	"unicode"

	"github.com/tsawler/rapport/model"
	"github.com/tsawler/rapport/replace"
)

const (
	// DatePlaceholder is the literal date text template authors write.
	DatePlaceholder = "Le 01/09/2025"

	// DateLayout formats a report date as "Le DD/MM/YYYY".
	DateLayout = "Le 02/01/2006"

	// NamePrefix is the label of the name line: "Profil", a non-breaking
	// space, and a colon.
	NamePrefix = "Profil" + replace.NBSP + ":"
)

// Placeholders holds the substitutions applied to each paragraph.
type Placeholders struct {
	Date       string // text to find
	NewDate    string // replacement text
	NamePrefix string // label anchoring the name line
	NewName    string // may be empty
}

// ForDay returns the placeholders for the report of the given day.
func ForDay(day time.Time, name string) Placeholders {
	return Placeholders{
		Date:       DatePlaceholder,
		NewDate:    day.Format(DateLayout),
		NamePrefix: NamePrefix,
		NewName:    name,
	}
}

// NameLine returns the full line written for the name field.
// An empty name leaves the label followed by a single space.
func (ph Placeholders) NameLine() string {
	return ph.NamePrefix + " " + ph.NewName
}

// Stats counts what a substitution pass did.
type Stats struct {
	Paragraphs   int
	DateReplaced int
	NameReplaced int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Paragraphs += o.Paragraphs
	s.DateReplaced += o.DateReplaced
	s.NameReplaced += o.NameReplaced
}

// FindLine returns the text from the first occurrence of prefix to the end
// of the line, with trailing whitespace removed. The line ends at a line
// break inside the paragraph or at the end of text.
func FindLine(text, prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	i := strings.Index(text, prefix)
	if i < 0 {
		return "", false
	}
	line := text[i:]
	if j := strings.IndexByte(line, '\n'); j >= 0 {
		line = line[:j]
	}
	return strings.TrimRightFunc(line, unicode.IsSpace), true
}

// Paragraph applies both substitutions to p.
func Paragraph(p model.Paragraph, ph Placeholders) Stats {
	st := Stats{Paragraphs: 1}

	if replace.Runs(p, ph.Date, ph.NewDate) {
		st.DateReplaced++
	}

	if line, ok := FindLine(model.Text(p.Runs()), ph.NamePrefix); ok {
		if replace.Runs(p, line, ph.NameLine()) {
			st.NameReplaced++
		}
	}

	return st
}

// Document applies both substitutions to every body paragraph of doc,
// including the paragraphs of table cells.
func Document(doc *model.Document, ph Placeholders) Stats {
	var st Stats
	doc.Walk(func(p model.Paragraph) {
		st.Add(Paragraph(p, ph))
	})
	return st
}

// Parts applies both substitutions to the header and footer paragraphs of
// doc.
func Parts(doc *model.Document, ph Placeholders) Stats {
	var st Stats
	doc.WalkParts(func(p model.Paragraph) {
		st.Add(Paragraph(p, ph))
	})
	return st
}
