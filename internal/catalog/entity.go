package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/observable"
)

// Entity is a drawing object owned by a block.
type Entity interface {
	Object
	Layer() *Layer
	SetLayer(l *Layer) error
	Linetype() *Linetype
	SetLinetype(lt *Linetype) error
	Color() Color
	SetColor(c Color)
	// Owner returns the block holding the entity. It is a lookup, not an
	// ownership edge: the block's entity list owns the entity.
	Owner() *Block
	Groups() []*Group
	XData() *observable.List[*XData]

	entity() *entityObject
	dependencies() []dependency
}

// entityObject carries the state shared by all entities.
type entityObject struct {
	self     Entity
	typeName string
	handle   Handle
	doc      *Catalog
	owner    *Block
	layer    *Layer
	linetype *Linetype
	color    Color
	groups   []*Group
	xdata    *observable.List[*XData]
}

func (e *entityObject) initEntity(self Entity, typeName string) {
	e.self = self
	e.typeName = typeName
	e.layer = newLayer("0")
	e.linetype = LinetypeByLayer()
	e.color = ColorByLayer
	e.xdata = newXDataList(self)
}

func (e *entityObject) Handle() Handle                  { return e.handle }
func (e *entityObject) TypeName() string                { return e.typeName }
func (e *entityObject) Catalog() *Catalog               { return e.doc }
func (e *entityObject) Owner() *Block                   { return e.owner }
func (e *entityObject) Layer() *Layer                   { return e.layer }
func (e *entityObject) Linetype() *Linetype             { return e.linetype }
func (e *entityObject) Color() Color                    { return e.color }
func (e *entityObject) SetColor(c Color)                { e.color = c }
func (e *entityObject) XData() *observable.List[*XData] { return e.xdata }
func (e *entityObject) entity() *entityObject           { return e }

// Groups returns the groups the entity belongs to.
func (e *entityObject) Groups() []*Group { return slices.Clone(e.groups) }

// SetLayer moves the entity to l.
func (e *entityObject) SetLayer(l *Layer) error {
	return replaceRef(e.self, RelLayer, &e.layer, l, false)
}

// SetLinetype changes the entity line type.
func (e *entityObject) SetLinetype(lt *Linetype) error {
	return replaceRef(e.self, RelLinetype, &e.linetype, lt, false)
}

func (e *entityObject) dependencies() []dependency {
	deps := []dependency{
		ref(RelLayer, &e.layer),
		ref(RelLinetype, &e.linetype),
	}
	return append(deps, xdataDependencies(e.xdata)...)
}

// Line is a straight segment.
type Line struct {
	entityObject
	Start, End Vector3
}

// NewLine creates a line from start to end.
func NewLine(start, end Vector3) *Line {
	l := &Line{Start: start, End: end}
	l.initEntity(l, "LINE")
	return l
}

// Text is a single line of text.
type Text struct {
	entityObject
	Value    string
	Position Vector3
	Height   float64
	Rotation float64
	style    *TextStyle
}

// NewText creates text with the Standard style.
func NewText(value string, position Vector3, height float64) *Text {
	t := &Text{Value: value, Position: position, Height: height, style: newTextStyle("Standard", "simplex.shx")}
	t.initEntity(t, "TEXT")
	return t
}

func (t *Text) Style() *TextStyle { return t.style }

func (t *Text) SetStyle(s *TextStyle) error {
	return replaceRef(t.self, RelTextStyle, &t.style, s, false)
}

func (t *Text) dependencies() []dependency {
	return append(t.entityObject.dependencies(), ref(RelTextStyle, &t.style))
}

// Insert places a block reference.
type Insert struct {
	entityObject
	Position Vector3
	Scale    Vector3
	Rotation float64
	block    *Block
}

// NewInsert creates a reference to b at position.
func NewInsert(b *Block, position Vector3) (*Insert, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: insert needs a block", ErrInvalidArgument)
	}
	in := &Insert{Position: position, Scale: Vector3{X: 1, Y: 1, Z: 1}, block: b}
	in.initEntity(in, "INSERT")
	return in, nil
}

func (in *Insert) Block() *Block { return in.block }

// SetBlock points the insert at another block. An insert cannot reference
// the block that owns it.
func (in *Insert) SetBlock(b *Block) error {
	if in.owner != nil && in.owner.isSelf(b) {
		return fmt.Errorf("%w: block %q cannot insert itself", ErrInvalidArgument, b.Name())
	}
	return replaceRef(in.self, RelBlock, &in.block, b, false)
}

func (in *Insert) dependencies() []dependency {
	return append(in.entityObject.dependencies(), ref(RelBlock, &in.block))
}

// Dimension is a linear dimension between two points.
type Dimension struct {
	entityObject
	First, Second Vector3
	Offset        float64
	style         *DimensionStyle
}

// NewDimension creates a dimension with the Standard style.
func NewDimension(first, second Vector3, offset float64) *Dimension {
	d := &Dimension{First: first, Second: second, Offset: offset, style: newDimensionStyle("Standard")}
	d.initEntity(d, "DIMENSION")
	return d
}

func (d *Dimension) Style() *DimensionStyle { return d.style }

func (d *Dimension) SetStyle(s *DimensionStyle) error {
	return replaceRef(d.self, RelDimStyle, &d.style, s, false)
}

func (d *Dimension) dependencies() []dependency {
	return append(d.entityObject.dependencies(), ref(RelDimStyle, &d.style))
}

// MLine is a multiline through a list of vertices.
type MLine struct {
	entityObject
	Vertices []Vector3
	Scale    float64
	style    *MLineStyle
}

// NewMLine creates a multiline with the Standard style.
func NewMLine(vertices ...Vector3) *MLine {
	m := &MLine{Vertices: vertices, Scale: 1, style: newMLineStyle("Standard")}
	m.initEntity(m, "MLINE")
	return m
}

func (m *MLine) Style() *MLineStyle { return m.style }

func (m *MLine) SetStyle(s *MLineStyle) error {
	return replaceRef(m.self, RelMLineStyle, &m.style, s, false)
}

func (m *MLine) dependencies() []dependency {
	return append(m.entityObject.dependencies(), ref(RelMLineStyle, &m.style))
}

// Image places a raster image definition.
type Image struct {
	entityObject
	Position      Vector3
	Width, Height float64
	def           *ImageDefinition
}

// NewImage creates an image of def.
func NewImage(def *ImageDefinition, position Vector3, width, height float64) (*Image, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: image needs a definition", ErrInvalidArgument)
	}
	img := &Image{Position: position, Width: width, Height: height, def: def}
	img.initEntity(img, "IMAGE")
	return img, nil
}

func (img *Image) Definition() *ImageDefinition { return img.def }

func (img *Image) SetDefinition(def *ImageDefinition) error {
	return replaceRef(img.self, RelImageDef, &img.def, def, false)
}

func (img *Image) dependencies() []dependency {
	return append(img.entityObject.dependencies(), ref(RelImageDef, &img.def))
}

// Underlay places a DGN, DWF or PDF underlay.
type Underlay struct {
	entityObject
	Position Vector3
	Scale    Vector3
	def      *UnderlayDefinition
}

// NewUnderlay creates an underlay of def.
func NewUnderlay(def *UnderlayDefinition, position Vector3) (*Underlay, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: underlay needs a definition", ErrInvalidArgument)
	}
	u := &Underlay{Position: position, Scale: Vector3{X: 1, Y: 1, Z: 1}, def: def}
	u.initEntity(u, def.Format().entityType())
	return u, nil
}

func (u *Underlay) Definition() *UnderlayDefinition { return u.def }

// SetDefinition swaps the definition. The format cannot change.
func (u *Underlay) SetDefinition(def *UnderlayDefinition) error {
	if def != nil && def.Format() != u.def.Format() {
		return fmt.Errorf("%w: %s underlay cannot use a %s definition", ErrInvalidArgument, u.def.Format(), def.Format())
	}
	return replaceRef(u.self, RelUnderlayDef, &u.def, def, false)
}

func (u *Underlay) dependencies() []dependency {
	return append(u.entityObject.dependencies(), ref(RelUnderlayDef, &u.def))
}

// AttributeDefinition is an attribute template stored in a block.
type AttributeDefinition struct {
	entityObject
	Prompt   string
	Value    string
	Position Vector3
	Height   float64
	tag      string
	style    *TextStyle
}

// NewAttributeDefinition creates a definition for tag.
func NewAttributeDefinition(tag string) (*AttributeDefinition, error) {
	if tag == "" || strings.ContainsAny(tag, " \t") {
		return nil, fmt.Errorf("%w: attribute tag %q", ErrInvalidArgument, tag)
	}
	a := &AttributeDefinition{tag: tag, Height: 1, style: newTextStyle("Standard", "simplex.shx")}
	a.initEntity(a, "ATTDEF")
	return a, nil
}

func (a *AttributeDefinition) Tag() string       { return a.tag }
func (a *AttributeDefinition) Style() *TextStyle { return a.style }

func (a *AttributeDefinition) SetStyle(s *TextStyle) error {
	return replaceRef(a.self, RelTextStyle, &a.style, s, false)
}

func (a *AttributeDefinition) dependencies() []dependency {
	return append(a.entityObject.dependencies(), ref(RelTextStyle, &a.style))
}

var (
	_ Entity = (*Line)(nil)
	_ Entity = (*Text)(nil)
	_ Entity = (*Insert)(nil)
	_ Entity = (*Dimension)(nil)
	_ Entity = (*MLine)(nil)
	_ Entity = (*Image)(nil)
	_ Entity = (*Underlay)(nil)
	_ Entity = (*AttributeDefinition)(nil)
)
