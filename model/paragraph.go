package model

// Paragraph is an ordered sequence of runs.
//
// Runs returns a snapshot; modifying the returned slice does not change the
// paragraph. SetRuns replaces the whole run sequence at once.
type Paragraph interface {
	Runs() []Run
	SetRuns(runs []Run)
}

// TextParagraph is a Paragraph held entirely in memory.
type TextParagraph struct {
	runs []Run
}

// NewTextParagraph creates a paragraph from the given runs.
func NewTextParagraph(runs ...Run) *TextParagraph {
	p := &TextParagraph{}
	p.SetRuns(runs)
	return p
}

// Runs returns a copy of the paragraph's runs.
func (p *TextParagraph) Runs() []Run {
	out := make([]Run, len(p.runs))
	copy(out, p.runs)
	return out
}

// SetRuns replaces the paragraph's runs with a copy of runs.
func (p *TextParagraph) SetRuns(runs []Run) {
	p.runs = make([]Run, len(runs))
	copy(p.runs, runs)
}

// Text returns the paragraph's visible text.
func (p *TextParagraph) Text() string {
	return Text(p.runs)
}
