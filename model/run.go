package model

import "strings"

// Run is a contiguous span of paragraph text sharing one set of formatting.
type Run struct {
	Text string

	// Style is the character style reference of the run. It is opaque to
	// everything except the format package that produced it.
	Style string

	Font Font

	// Payload is format-specific non-text content carried by the run
	// (drawings, field characters). It travels with the run by value and
	// is never interpreted outside the format package.
	Payload any
}

// Fragmenter is implemented by payloads that must not be copied whole when
// their run is cut into pieces. The first piece keeps the payload itself;
// every other piece carries the value returned by Fragment.
type Fragmenter interface {
	Fragment() any
}

// Len returns the run length in characters (runes).
func (r Run) Len() int {
	return len([]rune(r.Text))
}

// Text concatenates the text of runs in order, yielding the visible
// paragraph text.
func Text(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
