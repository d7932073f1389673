// Package model provides the in-memory representation of a word-processing
// document as seen by the report generator.
//
// A [Document] holds top-level paragraphs and tables. Each [Table] is a list
// of [Row] values whose [Cell] values carry their own paragraphs. Header and
// footer stories are kept separately as [Part] values.
//
// # Paragraphs and runs
//
// A [Paragraph] is an ordered sequence of [Run] values. Concatenating the run
// texts yields the visible paragraph text; run boundaries only matter for
// formatting:
//
//	p := model.NewTextParagraph(
//	    model.Run{Text: "Le ", Font: model.Font{Bold: model.On}},
//	    model.Run{Text: "01/09/2025"},
//	)
//	fmt.Println(model.Text(p.Runs())) // Le 01/09/2025
//
// Paragraph is an interface so that file-format packages can back it with
// their own storage. [TextParagraph] is the plain in-memory implementation.
//
// # Fonts
//
// [Font] mirrors the character properties of a run. On/off properties use
// the tri-state [Toggle] because a run may inherit them from its style.
// Optional values (Color, Highlight) are unset when zero.
package model
