package catalog

import (
	"fmt"
	"math"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/observable"
)

// Linetype is a dash pattern. Text and shape segments reference styles, which
// are registered along with the line type.
type Linetype struct {
	tableObject
	Description string
	segments    *observable.List[LinetypeSegment]
}

// NewLinetype creates a detached line type with the given segments.
func NewLinetype(name string, segments ...LinetypeSegment) (*Linetype, error) {
	if err := ValidateName(KindLinetype, name); err != nil {
		return nil, err
	}
	lt := newLinetype(name)
	if err := lt.segments.AddRange(segments...); err != nil {
		return nil, err
	}
	return lt, nil
}

func newLinetype(name string) *Linetype {
	lt := &Linetype{}
	lt.init(lt, KindLinetype, name)
	lt.segments = observable.NewList[LinetypeSegment](&segmentObserver{lt: lt})
	return lt
}

// LinetypeByLayer returns a new detached ByLayer line type.
func LinetypeByLayer() *Linetype { return newLinetype("ByLayer") }

// LinetypeByBlock returns a new detached ByBlock line type.
func LinetypeByBlock() *Linetype { return newLinetype("ByBlock") }

// LinetypeContinuous returns a new detached solid line type.
func LinetypeContinuous() *Linetype {
	lt := newLinetype("Continuous")
	lt.Description = "Solid line"
	return lt
}

// Segments returns the live segment list.
func (lt *Linetype) Segments() *observable.List[LinetypeSegment] { return lt.segments }

// Length returns the total pattern length.
func (lt *Linetype) Length() float64 {
	var total float64
	for _, s := range lt.segments.All() {
		total += math.Abs(s.Length())
	}
	return total
}

func (lt *Linetype) dependencies() []dependency {
	deps := lt.tableObject.dependencies()
	for _, s := range lt.segments.All() {
		if d, ok := s.styleRef(); ok {
			deps = append(deps, d)
		}
	}
	return deps
}

// SegmentType tells segment variants apart.
type SegmentType int

const (
	SegmentSimple SegmentType = iota
	SegmentText
	SegmentShape
)

// LinetypeSegment is one element of a dash pattern. Positive lengths are
// dashes, negative ones gaps and zero a dot.
type LinetypeSegment interface {
	Length() float64
	Type() SegmentType
	Linetype() *Linetype

	setLinetype(lt *Linetype)
	styleRef() (dependency, bool)
}

// SimpleSegment is a dash, gap or dot.
type SimpleSegment struct {
	length float64
	lt     *Linetype
}

// NewSimpleSegment creates a dash (length > 0), gap (< 0) or dot (0).
func NewSimpleSegment(length float64) *SimpleSegment {
	return &SimpleSegment{length: length}
}

func (s *SimpleSegment) Length() float64              { return s.length }
func (s *SimpleSegment) Type() SegmentType            { return SegmentSimple }
func (s *SimpleSegment) Linetype() *Linetype          { return s.lt }
func (s *SimpleSegment) setLinetype(lt *Linetype)     { s.lt = lt }
func (s *SimpleSegment) styleRef() (dependency, bool) { return dependency{}, false }

// Placement holds the transform applied to a text or shape segment.
type Placement struct {
	Offset   Vector2
	Rotation float64
	Absolute bool
	Scale    float64
}

// TextSegment draws text inside the pattern.
type TextSegment struct {
	Placement
	Text   string
	length float64
	style  *TextStyle
	lt     *Linetype
}

// NewTextSegment creates a text segment drawn with style.
func NewTextSegment(text string, style *TextStyle, length float64) (*TextSegment, error) {
	if style == nil {
		return nil, fmt.Errorf("%w: text segment needs a style", ErrInvalidArgument)
	}
	return &TextSegment{Text: text, style: style, length: length, Placement: Placement{Scale: 1}}, nil
}

func (s *TextSegment) Length() float64          { return s.length }
func (s *TextSegment) Type() SegmentType        { return SegmentText }
func (s *TextSegment) Linetype() *Linetype      { return s.lt }
func (s *TextSegment) Style() *TextStyle        { return s.style }
func (s *TextSegment) setLinetype(lt *Linetype) { s.lt = lt }

func (s *TextSegment) styleRef() (dependency, bool) {
	return ref(RelTextStyle, &s.style), true
}

// SetStyle changes the segment style. When the segment belongs to a
// registered line type the reference moves from the old style to the new.
func (s *TextSegment) SetStyle(style *TextStyle) error {
	if s.lt == nil {
		if style == nil {
			return fmt.Errorf("%w: text segment needs a style", ErrInvalidArgument)
		}
		s.style = style
		return nil
	}
	return replaceRef(s.lt, RelTextStyle, &s.style, style, false)
}

// ShapeSegment draws a shape from a shape file inside the pattern.
type ShapeSegment struct {
	Placement
	Name   string
	Number int16
	length float64
	style  *ShapeStyle
	lt     *Linetype
}

// NewShapeSegment creates a shape segment drawing the named shape from style.
func NewShapeSegment(name string, style *ShapeStyle, length float64) (*ShapeSegment, error) {
	if style == nil {
		return nil, fmt.Errorf("%w: shape segment needs a style", ErrInvalidArgument)
	}
	return &ShapeSegment{Name: name, style: style, length: length, Placement: Placement{Scale: 1}}, nil
}

func (s *ShapeSegment) Length() float64          { return s.length }
func (s *ShapeSegment) Type() SegmentType        { return SegmentShape }
func (s *ShapeSegment) Linetype() *Linetype      { return s.lt }
func (s *ShapeSegment) Style() *ShapeStyle       { return s.style }
func (s *ShapeSegment) setLinetype(lt *Linetype) { s.lt = lt }

func (s *ShapeSegment) styleRef() (dependency, bool) {
	return ref(RelShapeStyle, &s.style), true
}

// SetStyle changes the shape file of the segment.
func (s *ShapeSegment) SetStyle(style *ShapeStyle) error {
	if s.lt == nil {
		if style == nil {
			return fmt.Errorf("%w: shape segment needs a style", ErrInvalidArgument)
		}
		s.style = style
		return nil
	}
	return replaceRef(s.lt, RelShapeStyle, &s.style, style, false)
}

// segmentObserver keeps segment styles registered and referenced by the
// owning line type.
type segmentObserver struct {
	lt *Linetype
}

func (o *segmentObserver) BeforeAdd(s LinetypeSegment) error {
	if s == nil {
		return fmt.Errorf("%w: nil segment", ErrInvalidArgument)
	}
	if cur := s.Linetype(); cur != nil {
		return fmt.Errorf("%w: segment already belongs to line type %q", ErrInvalidArgument, cur.Name())
	}
	if c := o.lt.doc; c != nil {
		if d, ok := s.styleRef(); ok {
			if dep := d.get(); dep != nil {
				return c.validate(dep)
			}
		}
	}
	return nil
}

func (o *segmentObserver) AfterAdd(s LinetypeSegment) {
	s.setLinetype(o.lt)
	if c := o.lt.doc; c != nil {
		if d, ok := s.styleRef(); ok {
			c.link(o.lt, d)
		}
	}
}

func (o *segmentObserver) BeforeRemove(LinetypeSegment) error { return nil }

func (o *segmentObserver) AfterRemove(s LinetypeSegment) {
	if c := o.lt.doc; c != nil {
		if d, ok := s.styleRef(); ok {
			c.unlink(o.lt, d)
		}
	}
	s.setLinetype(nil)
}
