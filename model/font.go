package model

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Toggle is a tri-state run property. Word stores on/off properties such as
// bold as an optional element, so a run can inherit the value from its
// style, switch it on, or switch it off explicitly.
type Toggle int8

const (
	// Inherit leaves the property to the run's style chain.
	Inherit Toggle = iota
	// On sets the property explicitly.
	On
	// Off clears the property explicitly.
	Off
)

// ToggleOf converts a bool into an explicit On/Off toggle.
func ToggleOf(b bool) Toggle {
	if b {
		return On
	}
	return Off
}

// IsOn reports whether the toggle is explicitly set.
func (t Toggle) IsOn() bool { return t == On }

func (t Toggle) String() string {
	switch t {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "inherit"
	}
}

// RGB is a 24-bit text color.
type RGB [3]byte

// ParseRGB parses a six digit hex color such as "FF0000".
// The OOXML "auto" color is not an RGB value and yields an error.
func ParseRGB(s string) (RGB, error) {
	var c RGB
	if len(s) != 6 {
		return c, fmt.Errorf("invalid RGB color %q", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("invalid RGB color %q: %w", s, err)
	}
	copy(c[:], b)
	return c, nil
}

// String returns the upper-case hex form used by OOXML.
func (c RGB) String() string {
	return strings.ToUpper(hex.EncodeToString(c[:]))
}

// Font holds the character formatting of a run.
//
// Zero values mean "not set on the run": Size 0, Underline "", Color nil
// and Highlight "" all defer to the style chain.
type Font struct {
	Name        string
	Size        float64 // points
	Bold        Toggle
	Italic      Toggle
	Underline   string // OOXML underline type: single, double, none, ...
	Strike      Toggle
	Subscript   Toggle
	Superscript Toggle
	Color       *RGB
	Highlight   string // OOXML highlight color name: yellow, green, ...
}

// Equal reports whether two fonts carry the same formatting.
func (f Font) Equal(o Font) bool {
	if f.Name != o.Name || f.Size != o.Size ||
		f.Bold != o.Bold || f.Italic != o.Italic ||
		f.Underline != o.Underline || f.Strike != o.Strike ||
		f.Subscript != o.Subscript || f.Superscript != o.Superscript ||
		f.Highlight != o.Highlight {
		return false
	}
	if (f.Color == nil) != (o.Color == nil) {
		return false
	}
	return f.Color == nil || *f.Color == *o.Color
}
