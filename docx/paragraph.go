package docx

import "github.com/tsawler/rapport/model"

// paragraph is a model.Paragraph backed by a <w:p> element.
//
// Only runs that are direct children of the paragraph are exposed. Runs
// nested in hyperlinks, tracked changes or content controls are left alone.
type paragraph struct {
	part *part
	node *node
}

// Runs decodes the paragraph's runs.
func (p *paragraph) Runs() []model.Run {
	var runs []model.Run
	for _, c := range p.node.children {
		if c.is(p.part.w, "r") {
			runs = append(runs, p.part.decodeRun(c))
		}
	}
	return runs
}

// SetRuns replaces every run of the paragraph.
//
// Each new run goes where the run it was read from used to be, so text keeps
// its place around the other children (bookmarks, hyperlinks, fields). A run
// with no source of its own follows the run before it, or takes the place of
// the first old run. Slots never move backwards, which keeps the new runs in
// order.
func (p *paragraph) SetRuns(runs []model.Run) {
	slots := make(map[*node]int)
	first := -1
	for i, c := range p.node.children {
		if c.is(p.part.w, "r") {
			slots[c] = i
			if first < 0 {
				first = i
			}
		}
	}

	placed := make(map[int][]*node)
	slot := first
	for _, r := range runs {
		if src, ok := r.Payload.(*runSource); ok {
			if i, ok := slots[src.node]; ok && i > slot {
				slot = i
			}
		}
		placed[slot] = append(placed[slot], p.part.encodeRun(r))
	}

	children := make([]*node, 0, len(p.node.children)+len(runs))
	for i, c := range p.node.children {
		if _, ok := slots[c]; ok {
			children = append(children, placed[i]...)
			continue
		}
		children = append(children, c)
	}
	// A paragraph without runs gets the new ones at the end.
	children = append(children, placed[-1]...)

	p.node.children = children
	p.part.dirty = true
}
