// Package linfile reads and writes AutoCAD line-type libraries (.lin files)
// and imports their definitions into a catalog.
//
// A definition is a header line followed by a pattern line:
//
//	*GAS_LINE,Gas line ----GAS----GAS----
//	A,.5,-.2,["GAS",STANDARD,S=.1,R=0.0,X=-0.1,Y=-.05],-.25
//
// A bracketed element decorates the dash before it, so it becomes a text or
// shape segment with that dash's length.
package linfile

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is wrapped by every ParseError.
	ErrSyntax = errors.New("linfile: syntax error")
	// ErrNotFound is returned when a library has no definition with a name.
	ErrNotFound = errors.New("linfile: line type not found")
)

// ParseError reports a malformed line.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

// SegmentKind tells pattern elements apart.
type SegmentKind int

const (
	Simple SegmentKind = iota
	Text
	Shape
)

func (k SegmentKind) String() string {
	switch k {
	case Text:
		return "text"
	case Shape:
		return "shape"
	default:
		return "simple"
	}
}

// Segment is one pattern element. Style is the text style name for text
// segments and the shape file for shape segments.
type Segment struct {
	Kind     SegmentKind
	Length   float64
	Text     string
	Shape    string
	Style    string
	Scale    float64
	Rotation float64
	Absolute bool
	X, Y     float64
}

// Definition is a line type as written in a library, detached from any
// catalog.
type Definition struct {
	Name        string
	Description string
	Segments    []Segment
}

// PatternLength returns the sum of the absolute segment lengths.
func (d *Definition) PatternLength() float64 {
	var total float64
	for _, s := range d.Segments {
		if s.Length < 0 {
			total -= s.Length
		} else {
			total += s.Length
		}
	}
	return total
}

// Complex reports whether any segment carries text or a shape.
func (d *Definition) Complex() bool {
	for _, s := range d.Segments {
		if s.Kind != Simple {
			return true
		}
	}
	return false
}
