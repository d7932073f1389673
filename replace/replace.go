// Package replace substitutes text inside a paragraph whose text is split
// across differently formatted runs, without disturbing the formatting of
// the text around the substitution.
//
// The paragraph is never edited in place. Its runs are snapshotted, a new
// run sequence is built from the snapshot and the edit, and the new sequence
// replaces the old one in a single SetRuns call:
//
//	p := model.NewTextParagraph(
//	    model.Run{Text: "Le ", Font: model.Font{Bold: model.On}},
//	    model.Run{Text: "01/09/2025"},
//	)
//	replace.Runs(p, "Le 01/09/2025", "Le 03/11/2025")
//	// p now holds a single bold run "Le 03/11/2025".
package replace

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/rapport/model"
)

// NBSP is the non-breaking space some editors put around punctuation.
const NBSP = "\u00a0"

// Match locates an occurrence of a needle in paragraph text.
// Start and End are rune offsets, End exclusive.
type Match struct {
	Start  int
	End    int
	Needle string // the text actually found; may be the NBSP variant
}

// Len returns the matched length in runes.
func (m Match) Len() int { return m.End - m.Start }

// Find returns the first occurrence of old in text. When old is absent,
// the search is retried once with every space in old turned into a
// non-breaking space. An empty old never matches.
func Find(text, old string) (Match, bool) {
	if old == "" {
		return Match{}, false
	}

	needle := old
	i := strings.Index(text, needle)
	if i < 0 {
		needle = strings.ReplaceAll(old, " ", NBSP)
		if needle == old {
			return Match{}, false
		}
		if i = strings.Index(text, needle); i < 0 {
			return Match{}, false
		}
	}

	start := utf8.RuneCountInString(text[:i])
	return Match{
		Start:  start,
		End:    start + utf8.RuneCountInString(needle),
		Needle: needle,
	}, true
}

// Runs replaces the first occurrence of oldText in p with newText.
//
// It reports whether a replacement happened. When oldText cannot be found
// (literally or in its non-breaking space form) p is left untouched.
func Runs(p model.Paragraph, oldText, newText string) bool {
	runs := p.Runs()
	m, ok := Find(model.Text(runs), oldText)
	if !ok {
		return false
	}
	p.SetRuns(Rebuild(runs, m, newText))
	return true
}

// Pair is a single old → new substitution.
type Pair struct {
	Old string
	New string
}

// All applies each pair to p in order and returns how many matched.
func All(p model.Paragraph, pairs ...Pair) int {
	n := 0
	for _, pr := range pairs {
		if Runs(p, pr.Old, pr.New) {
			n++
		}
	}
	return n
}

// Rebuild returns a new run sequence where the text covered by m is
// replaced by newText.
//
// Runs outside the match are copied as they are. A run overlapping the match
// is split into the part before the match and the part after it, each keeping
// the run's formatting. newText is emitted once, with the formatting of the
// first overlapping run. Empty fragments are dropped.
//
// A split run's Payload follows the first fragment emitted from that run.
// Later fragments carry the payload's Fragment when it is a
// model.Fragmenter, and no payload otherwise.
func Rebuild(runs []model.Run, m Match, newText string) []model.Run {
	out := make([]model.Run, 0, len(runs)+2)
	pos := 0
	replaced := false

	for _, r := range runs {
		n := r.Len()

		lo := max(pos, m.Start)
		hi := min(pos+n, m.End)
		if lo >= hi {
			out = append(out, clone(r))
			pos += n
			continue
		}

		text := []rune(r.Text)
		payload := r.Payload
		emit := func(s string) {
			f := fragment(r, s)
			f.Payload, payload = payload, rest(r.Payload)
			out = append(out, f)
		}

		if pre := string(text[:lo-pos]); pre != "" {
			emit(pre)
		}
		if !replaced {
			if newText != "" {
				emit(newText)
			}
			replaced = true
		}
		if post := string(text[hi-pos:]); post != "" {
			emit(post)
		}
		pos += n
	}

	return out
}

// rest returns the payload of every fragment after the first.
func rest(payload any) any {
	if f, ok := payload.(model.Fragmenter); ok {
		return f.Fragment()
	}
	return nil
}

// clone copies a run that lies entirely outside the match.
func clone(r model.Run) model.Run {
	c := fragment(r, r.Text)
	c.Payload = r.Payload
	return c
}

// fragment creates a new run holding text with the style and font of src.
func fragment(src model.Run, text string) model.Run {
	r := model.Run{Text: text, Style: src.Style}
	CopyFont(&r.Font, src.Font)
	return r
}

// CopyFont copies the formatting of src onto dst.
//
// Color and Highlight are optional: they are copied only when set on src,
// otherwise dst keeps whatever it had.
func CopyFont(dst *model.Font, src model.Font) {
	dst.Name = src.Name
	dst.Size = src.Size
	dst.Bold = src.Bold
	dst.Italic = src.Italic
	dst.Underline = src.Underline
	dst.Strike = src.Strike
	dst.Subscript = src.Subscript
	dst.Superscript = src.Superscript

	if src.Color != nil {
		c := *src.Color
		dst.Color = &c
	}
	if src.Highlight != "" {
		dst.Highlight = src.Highlight
	}
}
