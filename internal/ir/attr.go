package ir

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Attr is a sealed interface over string-keyed operation attributes.
// Only BoolAttr, IntAttr, StringAttr, and BoolArrayAttr implement it.
type Attr interface {
	irAttr() // Sealed - only these types implement it

	// String renders the attribute in its canonical textual form.
	String() string
}

// BoolAttr is a single boolean attribute.
type BoolAttr bool

func (BoolAttr) irAttr() {}

// String renders "true" or "false".
func (a BoolAttr) String() string {
	return strconv.FormatBool(bool(a))
}

// IntAttr is an integer attribute. Always int64, never float.
type IntAttr int64

func (IntAttr) irAttr() {}

// String renders the decimal form.
func (a IntAttr) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// StringAttr is a string attribute.
// Canonical rendering is NFC normalized so that visually identical
// attribute values print identically regardless of input encoding.
type StringAttr string

func (StringAttr) irAttr() {}

// String renders the quoted, NFC-normalized form.
func (a StringAttr) String() string {
	return strconv.Quote(norm.NFC.String(string(a)))
}

// BoolArrayAttr is an ordered sequence of booleans, one entry per
// operation result. Used for the reserved escape attribute.
type BoolArrayAttr []bool

func (BoolArrayAttr) irAttr() {}

// String renders "[true, false, ...]".
func (a BoolArrayAttr) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatBool(v))
	}
	b.WriteByte(']')
	return b.String()
}
