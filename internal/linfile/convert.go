package linfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
)

// DefaultFont is the font given to text styles a library names but the
// catalog does not have.
const DefaultFont = "simplex.shx"

// FromLinetype describes lt as a library definition.
func FromLinetype(lt *catalog.Linetype) *Definition {
	d := &Definition{Name: lt.Name(), Description: lt.Description}
	for _, s := range lt.Segments().Items() {
		seg := Segment{Kind: Simple, Length: s.Length()}
		switch s := s.(type) {
		case *catalog.TextSegment:
			seg.Kind = Text
			seg.Text = s.Text
			seg.Style = s.Style().Name()
			placeSegment(&seg, s.Placement)
		case *catalog.ShapeSegment:
			seg.Kind = Shape
			seg.Shape = s.Name
			seg.Style = s.Style().File
			placeSegment(&seg, s.Placement)
		}
		d.Segments = append(d.Segments, seg)
	}
	return d
}

func placeSegment(seg *Segment, p catalog.Placement) {
	seg.Scale = p.Scale
	seg.Rotation = p.Rotation
	seg.Absolute = p.Absolute
	seg.X, seg.Y = p.Offset.X, p.Offset.Y
}

// styleResolver finds segment styles in a catalog and creates the missing
// ones once per conversion.
type styleResolver struct {
	cat    *catalog.Catalog
	text   map[string]*catalog.TextStyle
	shapes map[string]*catalog.ShapeStyle
}

func newStyleResolver(cat *catalog.Catalog) *styleResolver {
	return &styleResolver{
		cat:    cat,
		text:   make(map[string]*catalog.TextStyle),
		shapes: make(map[string]*catalog.ShapeStyle),
	}
}

func (r *styleResolver) textStyle(name string) (*catalog.TextStyle, error) {
	if r.cat != nil {
		if ts, ok := r.cat.TextStyles().TryGet(name); ok {
			return ts, nil
		}
	}
	key := catalog.Key(name)
	if ts, ok := r.text[key]; ok {
		return ts, nil
	}
	ts, err := catalog.NewTextStyle(name, DefaultFont)
	if err != nil {
		return nil, err
	}
	r.text[key] = ts
	return ts, nil
}

func (r *styleResolver) shapeStyle(file string) (*catalog.ShapeStyle, error) {
	base := filepath.Base(file)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if r.cat != nil {
		for _, ss := range r.cat.ShapeStyles().Items() {
			if strings.EqualFold(ss.File, file) {
				return ss, nil
			}
		}
		if ss, ok := r.cat.ShapeStyles().TryGet(name); ok {
			return ss, nil
		}
	}
	key := catalog.Key(name)
	if ss, ok := r.shapes[key]; ok {
		return ss, nil
	}
	ss, err := catalog.NewShapeStyle(name, file)
	if err != nil {
		return nil, err
	}
	r.shapes[key] = ss
	return ss, nil
}

// ToLinetype builds a detached line type from d. Styles are taken from cat
// when it has them; cat may be nil.
func ToLinetype(cat *catalog.Catalog, d *Definition) (*catalog.Linetype, error) {
	return newStyleResolver(cat).linetype(d)
}

func (r *styleResolver) linetype(d *Definition) (*catalog.Linetype, error) {
	segs := make([]catalog.LinetypeSegment, 0, len(d.Segments))
	for i, s := range d.Segments {
		seg, err := r.segment(s)
		if err != nil {
			return nil, fmt.Errorf("line type %q segment %d: %w", d.Name, i+1, err)
		}
		segs = append(segs, seg)
	}
	lt, err := catalog.NewLinetype(d.Name, segs...)
	if err != nil {
		return nil, err
	}
	lt.Description = d.Description
	return lt, nil
}

func (r *styleResolver) segment(s Segment) (catalog.LinetypeSegment, error) {
	placement := catalog.Placement{
		Offset:   catalog.Vector2{X: s.X, Y: s.Y},
		Rotation: s.Rotation,
		Absolute: s.Absolute,
		Scale:    s.Scale,
	}
	switch s.Kind {
	case Text:
		style, err := r.textStyle(s.Style)
		if err != nil {
			return nil, err
		}
		seg, err := catalog.NewTextSegment(s.Text, style, s.Length)
		if err != nil {
			return nil, err
		}
		seg.Placement = placement
		return seg, nil
	case Shape:
		style, err := r.shapeStyle(s.Style)
		if err != nil {
			return nil, err
		}
		seg, err := catalog.NewShapeSegment(s.Shape, style, s.Length)
		if err != nil {
			return nil, err
		}
		seg.Placement = placement
		return seg, nil
	default:
		return catalog.NewSimpleSegment(s.Length), nil
	}
}

// Import adds the named definitions to cat, or all of them when names is
// empty. Every name is checked before anything is added. A line type the
// catalog already has is left as is and returned.
func Import(cat *catalog.Catalog, defs []*Definition, names ...string) ([]*catalog.Linetype, error) {
	selected := defs
	if len(names) > 0 {
		selected = make([]*Definition, 0, len(names))
		for _, name := range names {
			d, ok := Find(defs, name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
			}
			selected = append(selected, d)
		}
	}

	r := newStyleResolver(cat)
	out := make([]*catalog.Linetype, 0, len(selected))
	for _, d := range selected {
		lt, err := r.linetype(d)
		if err != nil {
			return out, err
		}
		added, err := cat.Linetypes().Add(lt)
		if err != nil {
			return out, fmt.Errorf("importing line type %q: %w", d.Name, err)
		}
		if added != lt {
			log.Debug(log.CatLinetype, "Line type already present", "name", d.Name)
		}
		out = append(out, added)
	}
	log.Info(log.CatLinetype, "Imported line types", "count", len(out))
	return out, nil
}
