package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// nodeKind identifies what a node holds.
type nodeKind uint8

const (
	rootNode nodeKind = iota
	elementNode
	textNode
	commentNode
	procInstNode
	directiveNode
)

// node is one item of a parsed XML part. The tree keeps everything the
// decoder reports (prolog, comments, whitespace, attribute order, prefixes)
// so that parts round-trip unchanged apart from the edits made to them.
//
// Names are kept as written: Space holds the prefix, not the namespace URL.
type node struct {
	kind     nodeKind
	name     xml.Name
	attr     []xml.Attr
	children []*node
	data     string // text, comment, directive, or processing instruction body
}

// parseTree decodes an XML part into a node tree.
func parseTree(data []byte) (*node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	root := &node{kind: rootNode}
	stack := []*node{root}

	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{kind: elementNode, name: t.Name}
			if len(t.Attr) > 0 {
				n.attr = make([]xml.Attr, len(t.Attr))
				copy(n.attr, t.Attr)
			}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if top.kind != elementNode || top.name != t.Name {
				return nil, fmt.Errorf("unexpected end element </%s>", qname(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.children = append(top.children, &node{kind: textNode, data: string(t)})
		case xml.Comment:
			top.children = append(top.children, &node{kind: commentNode, data: string(t)})
		case xml.ProcInst:
			top.children = append(top.children, &node{kind: procInstNode, name: xml.Name{Local: t.Target}, data: string(t.Inst)})
		case xml.Directive:
			top.children = append(top.children, &node{kind: directiveNode, data: string(t)})
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("unclosed element <%s>", qname(stack[len(stack)-1].name))
	}
	if root.element() == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// element returns the first element child of n.
func (n *node) element() *node {
	for _, c := range n.children {
		if c.kind == elementNode {
			return c
		}
	}
	return nil
}

// elements returns the element children named prefix:local.
func (n *node) elements(prefix, local string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.is(prefix, local) {
			out = append(out, c)
		}
	}
	return out
}

// child returns the first element child named prefix:local.
func (n *node) child(prefix, local string) *node {
	for _, c := range n.children {
		if c.is(prefix, local) {
			return c
		}
	}
	return nil
}

// is reports whether n is the element prefix:local.
func (n *node) is(prefix, local string) bool {
	return n.kind == elementNode && n.name.Space == prefix && n.name.Local == local
}

// attrValue returns the value of attribute prefix:local.
func (n *node) attrValue(prefix, local string) (string, bool) {
	for _, a := range n.attr {
		if a.Name.Space == prefix && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// text concatenates the character data directly inside n.
func (n *node) text() string {
	var sb strings.Builder
	for _, c := range n.children {
		if c.kind == textNode {
			sb.WriteString(c.data)
		}
	}
	return sb.String()
}

// clone returns a deep copy of n.
func (n *node) clone() *node {
	c := &node{kind: n.kind, name: n.name, data: n.data}
	if n.attr != nil {
		c.attr = make([]xml.Attr, len(n.attr))
		copy(c.attr, n.attr)
	}
	if n.children != nil {
		c.children = make([]*node, len(n.children))
		for i, ch := range n.children {
			c.children[i] = ch.clone()
		}
	}
	return c
}

// newElement creates an element with the given attributes as name/value pairs.
func newElement(prefix, local string, attrs ...string) *node {
	n := &node{kind: elementNode, name: xml.Name{Space: prefix, Local: local}}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.attr = append(n.attr, xml.Attr{Name: splitName(attrs[i]), Value: attrs[i+1]})
	}
	return n
}

// splitName turns "p:local" into an xml.Name with the prefix in Space.
func splitName(s string) xml.Name {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return xml.Name{Space: s[:i], Local: s[i+1:]}
	}
	return xml.Name{Local: s}
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;")
)

// bytes serializes the tree.
func (n *node) bytes() []byte {
	var buf bytes.Buffer
	n.write(&buf)
	return buf.Bytes()
}

func (n *node) write(buf *bytes.Buffer) {
	switch n.kind {
	case rootNode:
		for _, c := range n.children {
			c.write(buf)
		}
	case textNode:
		textEscaper.WriteString(buf, n.data)
	case commentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.data)
		buf.WriteString("-->")
	case procInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.name.Local)
		if n.data != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.data)
		}
		buf.WriteString("?>")
	case directiveNode:
		buf.WriteString("<!")
		buf.WriteString(n.data)
		buf.WriteByte('>')
	case elementNode:
		buf.WriteByte('<')
		buf.WriteString(qname(n.name))
		for _, a := range n.attr {
			buf.WriteByte(' ')
			buf.WriteString(qname(a.Name))
			buf.WriteString(`="`)
			attrEscaper.WriteString(buf, a.Value)
			buf.WriteByte('"')
		}
		if len(n.children) == 0 {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for _, c := range n.children {
			c.write(buf)
		}
		buf.WriteString("</")
		buf.WriteString(qname(n.name))
		buf.WriteByte('>')
	}
}
