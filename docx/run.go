package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/rapport/model"
)

// Characters standing in for run content elements that have a text form.
const (
	noBreakHyphen = '\u2011'
	softHyphen    = '\u00ad'
)

// runSource is the Payload of every run read from a part. It remembers the
// element the run came from so that runs which come back unchanged are
// written exactly as they were read, and so that every piece of a split run
// starts from the run's own properties.
type runSource struct {
	node    *node
	text    string
	style   string
	font    model.Font
	content []*node // non-text children: drawings, fields, page breaks

	// piece marks a later piece of a split run: it has the run's
	// properties but none of its content.
	piece bool
}

// Fragment returns the payload of the pieces of a split run after the
// first one.
func (s *runSource) Fragment() any {
	return &runSource{node: s.node, text: s.text, style: s.style, font: s.font, piece: true}
}

// unchanged reports whether r still matches the element it was read from.
func (s *runSource) unchanged(r model.Run) bool {
	return !s.piece && r.Text == s.text && r.Style == s.style && r.Font.Equal(s.font)
}

// decodeRun converts a <w:r> element into a model.Run.
func (pt *part) decodeRun(n *node) model.Run {
	src := &runSource{node: n}
	var sb strings.Builder

	for _, c := range n.children {
		if c.kind != elementNode {
			continue
		}
		if c.name.Space != pt.w {
			src.content = append(src.content, c)
			continue
		}
		switch c.name.Local {
		case "rPr":
			src.style, src.font = decodeRunProps(c)
		case "t":
			sb.WriteString(c.text())
		case "tab":
			sb.WriteByte('\t')
		case "cr":
			sb.WriteByte('\n')
		case "br":
			// Page and column breaks are layout, not text.
			if typ, _ := c.attrValue(pt.w, "type"); typ == "" || typ == "textWrapping" {
				sb.WriteByte('\n')
			} else {
				src.content = append(src.content, c)
			}
		case "noBreakHyphen":
			sb.WriteRune(noBreakHyphen)
		case "softHyphen":
			sb.WriteRune(softHyphen)
		default:
			src.content = append(src.content, c)
		}
	}

	src.text = sb.String()
	return model.Run{Text: src.text, Style: src.style, Font: src.font, Payload: src}
}

// decodeRunProps reads the style reference and font of a <w:rPr> element.
// Values that cannot be parsed are treated as not set.
func decodeRunProps(rPr *node) (string, model.Font) {
	var props runPropsXML
	if err := xml.Unmarshal(rPr.bytes(), &props); err != nil {
		return "", model.Font{}
	}

	var style string
	if props.Style != nil {
		style = props.Style.Val
	}

	var f model.Font
	if props.Font != nil {
		f.Name = props.Font.ASCII
		if f.Name == "" {
			f.Name = props.Font.HAnsi
		}
	}
	if props.FontSize != nil {
		f.Size = parseHalfPoints(props.FontSize.Val)
	}
	f.Bold = toggle(props.Bold)
	f.Italic = toggle(props.Italic)
	f.Strike = toggle(props.Strike)
	if props.Underline != nil {
		f.Underline = props.Underline.Val
		if f.Underline == "" {
			f.Underline = "single"
		}
	}
	if props.VertAlign != nil {
		f.Subscript = model.ToggleOf(props.VertAlign.Val == "subscript")
		f.Superscript = model.ToggleOf(props.VertAlign.Val == "superscript")
	}
	if props.Color != nil {
		if c, err := model.ParseRGB(props.Color.Val); err == nil {
			f.Color = &c
		}
	}
	if props.Highlight != nil {
		f.Highlight = props.Highlight.Val
	}

	return style, f
}

// toggle reads an on/off property. An absent element inherits; a present
// element is on unless its val says otherwise.
func toggle(b *boolXML) model.Toggle {
	if b == nil {
		return model.Inherit
	}
	switch strings.ToLower(b.Val) {
	case "false", "0", "off":
		return model.Off
	default:
		return model.On
	}
}

// parseHalfPoints parses a size in half-points to points.
// Word uses half-points for font sizes (e.g., "24" = 12pt).
func parseHalfPoints(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || val < 0 {
		return 0
	}
	return val / 2
}

// encodeRun builds a <w:r> element for r.
//
// A run read from the part starts from a copy of its source element's
// attributes and properties; only the properties that differ from what was
// read are rewritten.
func (pt *part) encodeRun(r model.Run) *node {
	src, _ := r.Payload.(*runSource)
	if src != nil && src.unchanged(r) {
		return src.node
	}

	run := newElement(pt.w, "r")
	rPr := newElement(pt.w, "rPr")
	var base runSource
	if src != nil {
		base = *src
		run.attr = append([]xml.Attr(nil), src.node.attr...)
		if old := src.node.child(pt.w, "rPr"); old != nil {
			rPr = old.clone()
		}
	}
	pt.setRunProps(rPr, r.Style, r.Font, base.style, base.font)
	if len(rPr.children) > 0 {
		run.children = append(run.children, rPr)
	}

	for _, c := range base.content {
		run.children = append(run.children, c.clone())
	}
	run.children = append(run.children, pt.encodeText(r.Text)...)
	return run
}

// setRunProps writes style and font into rPr. Properties whose value is the
// same in f and in old, the font rPr was read as, are left as they are;
// the others replace any previous value. Properties the model does not know
// about are kept.
func (pt *part) setRunProps(rPr *node, style string, f model.Font, oldStyle string, old model.Font) {
	w := pt.w
	set := func(local string, n *node) {
		pt.setProp(rPr, local, n)
	}
	val := func(local, v string) *node {
		return newElement(w, local, w+":val", v)
	}
	onOff := func(local string, t, was model.Toggle) {
		if t == was {
			return
		}
		switch t {
		case model.On:
			set(local, newElement(w, local))
		case model.Off:
			set(local, val(local, "0"))
		default:
			set(local, nil)
		}
	}

	if style != oldStyle {
		if style != "" {
			set("rStyle", val("rStyle", style))
		} else {
			set("rStyle", nil)
		}
	}

	// rFonts also carries theme and East Asian fonts the model does not
	// track, so only the ascii and hAnsi attributes are touched.
	if f.Name != old.Name {
		fonts := newElement(w, "rFonts")
		if cur := rPr.child(w, "rFonts"); cur != nil {
			fonts = cur.clone()
		}
		if f.Name != "" {
			setAttr(fonts, w, "ascii", f.Name)
			setAttr(fonts, w, "hAnsi", f.Name)
		} else {
			removeAttr(fonts, w, "ascii")
			removeAttr(fonts, w, "hAnsi")
		}
		if len(fonts.attr) > 0 {
			set("rFonts", fonts)
		} else {
			set("rFonts", nil)
		}
	}

	onOff("b", f.Bold, old.Bold)
	onOff("i", f.Italic, old.Italic)
	onOff("strike", f.Strike, old.Strike)

	if !sameColor(f.Color, old.Color) {
		if f.Color != nil {
			set("color", val("color", f.Color.String()))
		} else if cur := rPr.child(w, "color"); cur != nil {
			// An "auto" color is not an RGB value and stays as it was.
			if v, _ := cur.attrValue(w, "val"); v != "auto" {
				set("color", nil)
			}
		}
	}

	if f.Size != old.Size {
		if f.Size > 0 {
			halfPoints := strconv.FormatFloat(f.Size*2, 'f', -1, 64)
			set("sz", val("sz", halfPoints))
			if rPr.child(w, "szCs") != nil {
				set("szCs", val("szCs", halfPoints))
			}
		} else {
			set("sz", nil)
		}
	}

	if f.Highlight != old.Highlight {
		if f.Highlight != "" {
			set("highlight", val("highlight", f.Highlight))
		} else {
			set("highlight", nil)
		}
	}

	if f.Underline != old.Underline {
		if f.Underline != "" {
			set("u", val("u", f.Underline))
		} else {
			set("u", nil)
		}
	}

	if f.Subscript != old.Subscript || f.Superscript != old.Superscript {
		switch {
		case f.Subscript == model.On:
			set("vertAlign", val("vertAlign", "subscript"))
		case f.Superscript == model.On:
			set("vertAlign", val("vertAlign", "superscript"))
		case f.Subscript == model.Off || f.Superscript == model.Off:
			set("vertAlign", val("vertAlign", "baseline"))
		default:
			set("vertAlign", nil)
		}
	}
}

func sameColor(a, b *model.RGB) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// setProp removes the rPr child named local and, when n is not nil, inserts
// n at its schema position.
func (pt *part) setProp(rPr *node, local string, n *node) {
	kept := rPr.children[:0]
	for _, c := range rPr.children {
		if !c.is(pt.w, local) {
			kept = append(kept, c)
		}
	}
	rPr.children = kept
	if n == nil {
		return
	}

	want := rPrIndex[local]
	at := len(rPr.children)
	for i, c := range rPr.children {
		if c.kind != elementNode || c.name.Space != pt.w {
			continue
		}
		if idx, ok := rPrIndex[c.name.Local]; ok && idx > want {
			at = i
			break
		}
	}
	rPr.children = append(rPr.children, nil)
	copy(rPr.children[at+1:], rPr.children[at:])
	rPr.children[at] = n
}

// setAttr sets attribute prefix:local on n, adding it when missing.
func setAttr(n *node, prefix, local, value string) {
	for i, a := range n.attr {
		if a.Name.Space == prefix && a.Name.Local == local {
			n.attr[i].Value = value
			return
		}
	}
	n.attr = append(n.attr, xml.Attr{Name: xml.Name{Space: prefix, Local: local}, Value: value})
}

// removeAttr deletes attribute prefix:local from n.
func removeAttr(n *node, prefix, local string) {
	kept := n.attr[:0]
	for _, a := range n.attr {
		if a.Name.Space != prefix || a.Name.Local != local {
			kept = append(kept, a)
		}
	}
	n.attr = kept
}

// encodeText converts run text into <w:t>, <w:tab>, <w:br> and hyphen
// elements.
func (pt *part) encodeText(s string) []*node {
	var out []*node
	var sb strings.Builder

	flush := func() {
		if sb.Len() == 0 {
			return
		}
		text := sb.String()
		t := newElement(pt.w, "t")
		if needsPreserve(text) {
			t.attr = []xml.Attr{{Name: xml.Name{Space: "xml", Local: "space"}, Value: "preserve"}}
		}
		t.children = []*node{{kind: textNode, data: text}}
		out = append(out, t)
		sb.Reset()
	}

	for _, r := range s {
		var special string
		switch r {
		case '\t':
			special = "tab"
		case '\n':
			special = "br"
		case noBreakHyphen:
			special = "noBreakHyphen"
		case softHyphen:
			special = "softHyphen"
		default:
			sb.WriteRune(r)
			continue
		}
		flush()
		out = append(out, newElement(pt.w, special))
	}
	flush()
	return out
}

// needsPreserve reports whether text has leading or trailing whitespace
// that XML processors would otherwise discard.
func needsPreserve(text string) bool {
	first, _ := utf8.DecodeRuneInString(text)
	last, _ := utf8.DecodeLastRuneInString(text)
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}
