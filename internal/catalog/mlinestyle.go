package catalog

import (
	"fmt"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/observable"
)

// MLineStyle describes the parallel lines of a multiline.
type MLineStyle struct {
	tableObject
	Description string
	FillColor   Color
	StartAngle  float64
	EndAngle    float64
	elements    *observable.List[*MLineStyleElement]
}

// NewMLineStyle creates a detached style. With no elements it gets the two
// default lines at offsets 0.5 and -0.5.
func NewMLineStyle(name string, elements ...*MLineStyleElement) (*MLineStyle, error) {
	if err := ValidateName(KindMLineStyle, name); err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return newMLineStyle(name), nil
	}
	s := newEmptyMLineStyle(name)
	if err := s.elements.AddRange(elements...); err != nil {
		return nil, err
	}
	return s, nil
}

func newEmptyMLineStyle(name string) *MLineStyle {
	s := &MLineStyle{FillColor: ColorByLayer, StartAngle: 90, EndAngle: 90}
	s.init(s, KindMLineStyle, name)
	s.elements = observable.NewList[*MLineStyleElement](&elementObserver{style: s})
	return s
}

func newMLineStyle(name string) *MLineStyle {
	s := newEmptyMLineStyle(name)
	if err := s.elements.AddRange(NewMLineStyleElement(0.5), NewMLineStyleElement(-0.5)); err != nil {
		inconsistent("default elements of multiline style %q: %v", name, err)
	}
	return s
}

// Elements returns the live element list.
func (s *MLineStyle) Elements() *observable.List[*MLineStyleElement] { return s.elements }

func (s *MLineStyle) dependencies() []dependency {
	deps := s.tableObject.dependencies()
	for _, e := range s.elements.All() {
		deps = append(deps, e.linetypeRef())
	}
	return deps
}

// MLineStyleElement is one line of a multiline style.
type MLineStyleElement struct {
	Offset   float64
	Color    Color
	linetype *Linetype
	style    *MLineStyle
}

// NewMLineStyleElement creates an element drawn ByLayer at offset.
func NewMLineStyleElement(offset float64) *MLineStyleElement {
	return &MLineStyleElement{Offset: offset, Color: ColorByLayer, linetype: LinetypeByLayer()}
}

func (e *MLineStyleElement) Linetype() *Linetype { return e.linetype }
func (e *MLineStyleElement) Style() *MLineStyle  { return e.style }

// SetLinetype changes the element line type.
func (e *MLineStyleElement) SetLinetype(lt *Linetype) error {
	if e.style == nil {
		if lt == nil {
			return fmt.Errorf("%w: element line type cannot be nil", ErrInvalidArgument)
		}
		e.linetype = lt
		return nil
	}
	return replaceRef(e.style, RelElementLinetype, &e.linetype, lt, false)
}

func (e *MLineStyleElement) linetypeRef() dependency {
	return ref(RelElementLinetype, &e.linetype)
}

type elementObserver struct {
	style *MLineStyle
}

func (o *elementObserver) BeforeAdd(e *MLineStyleElement) error {
	if e == nil {
		return fmt.Errorf("%w: nil element", ErrInvalidArgument)
	}
	if e.style != nil {
		return fmt.Errorf("%w: element already belongs to style %q", ErrInvalidArgument, e.style.Name())
	}
	if c := o.style.doc; c != nil && e.linetype != nil {
		return c.validate(e.linetype)
	}
	return nil
}

func (o *elementObserver) AfterAdd(e *MLineStyleElement) {
	e.style = o.style
	if c := o.style.doc; c != nil {
		c.link(o.style, e.linetypeRef())
	}
}

func (o *elementObserver) BeforeRemove(*MLineStyleElement) error { return nil }

func (o *elementObserver) AfterRemove(e *MLineStyleElement) {
	if c := o.style.doc; c != nil {
		c.unlink(o.style, e.linetypeRef())
	}
	e.style = nil
}
