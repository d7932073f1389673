package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRel = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Relationship types of the parts the generator edits.
const (
	relHeader = nsRel + "/header"
	relFooter = nsRel + "/footer"
)

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Style     *styleRefXML  `xml:"rStyle"`
	Font      *fontXML      `xml:"rFonts"`
	Bold      *boolXML      `xml:"b"`
	Italic    *boolXML      `xml:"i"`
	Strike    *boolXML      `xml:"strike"`
	Color     *colorXML     `xml:"color"`
	FontSize  *sizeXML      `xml:"sz"`
	Highlight *highlightXML `xml:"highlight"`
	Underline *underlineXML `xml:"u"`
	VertAlign *vertAlignXML `xml:"vertAlign"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// boolXML represents a boolean attribute.
type boolXML struct {
	Val string `xml:"val,attr"`
}

// underlineXML represents underline style.
type underlineXML struct {
	Val string `xml:"val,attr"` // single, double, etc.
}

// sizeXML represents font size (in half-points).
type sizeXML struct {
	Val string `xml:"val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

// colorXML represents text color.
type colorXML struct {
	Val string `xml:"val,attr"` // Hex color or "auto"
}

// highlightXML represents highlight color.
type highlightXML struct {
	Val string `xml:"val,attr"` // Color name like "yellow"
}

// vertAlignXML represents vertical alignment (sub/superscript).
type vertAlignXML struct {
	Val string `xml:"val,attr"` // baseline, subscript, superscript
}

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"` // External or empty (internal)
}

// rPrOrder is the element sequence of CT_RPr. Word rejects run properties
// that are out of order, so new properties are inserted at their position
// in this list.
var rPrOrder = []string{
	"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps",
	"strike", "dstrike", "outline", "shadow", "emboss", "imprint", "noProof",
	"snapToGrid", "vanish", "webHidden", "color", "spacing", "w", "kern",
	"position", "sz", "szCs", "highlight", "u", "effect", "bdr", "shd",
	"fitText", "vertAlign", "rtl", "cs", "em", "lang", "eastAsianLayout",
	"specVanish", "oMath",
}

// rPrIndex maps a run property name to its position in rPrOrder.
var rPrIndex = func() map[string]int {
	m := make(map[string]int, len(rPrOrder))
	for i, name := range rPrOrder {
		m[name] = i
	}
	return m
}()
