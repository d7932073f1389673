package model

// Table is a grid of cells organized in rows.
type Table struct {
	Rows []*Row
}

// Row is a single table row.
type Row struct {
	Cells []*Cell
}

// Cell holds the paragraphs of one table cell.
type Cell struct {
	Paragraphs []Paragraph
}

// walk visits every paragraph of every cell, row by row.
func (t *Table) walk(fn func(Paragraph)) {
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			for _, p := range cell.Paragraphs {
				fn(p)
			}
		}
	}
}
