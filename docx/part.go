package docx

import (
	"fmt"

	"github.com/tsawler/rapport/model"
)

// part is a parsed XML part of the package that holds text: the main
// document, a header or a footer.
type part struct {
	name  string
	root  *node
	w     string // prefix bound to the WordprocessingML namespace
	dirty bool
}

// parsePart parses an XML part and resolves its WordprocessingML prefix.
func parsePart(name string, data []byte) (*part, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrCorrupt, name, err)
	}

	pt := &part{name: name, root: root, w: "w"}
	top := root.element()
	for _, a := range top.attr {
		if a.Value != nsW {
			continue
		}
		switch {
		case a.Name.Space == "xmlns":
			pt.w = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			pt.w = ""
		}
	}
	return pt, nil
}

// story returns the element whose children are the part's paragraphs and
// tables: <w:body> for the main document, the root for headers and footers.
func (pt *part) story() *node {
	top := pt.root.element()
	if body := top.child(pt.w, "body"); body != nil {
		return body
	}
	return top
}

// content builds the model view of the part's paragraphs and tables.
func (pt *part) content() ([]model.Paragraph, []*model.Table) {
	story := pt.story()
	var paras []model.Paragraph
	var tables []*model.Table

	for _, c := range story.children {
		switch {
		case c.is(pt.w, "p"):
			paras = append(paras, &paragraph{part: pt, node: c})
		case c.is(pt.w, "tbl"):
			tables = append(tables, pt.table(c))
		}
	}
	return paras, tables
}

// table builds the model view of a <w:tbl> element. Tables nested inside
// cells are not descended into.
func (pt *part) table(tbl *node) *model.Table {
	t := &model.Table{}
	for _, tr := range tbl.elements(pt.w, "tr") {
		row := &model.Row{}
		for _, tc := range tr.elements(pt.w, "tc") {
			cell := &model.Cell{}
			for _, p := range tc.elements(pt.w, "p") {
				cell.Paragraphs = append(cell.Paragraphs, &paragraph{part: pt, node: p})
			}
			row.Cells = append(row.Cells, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
