package manifest

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/linfile"
)

// Dump describes cat as a manifest. Reserved entries and default values are
// left out, so applying the result to a new catalog and dumping again gives
// the same manifest. Entities get an id only when a group refers to them.
func Dump(ctx context.Context, cat *catalog.Catalog) *Manifest {
	_, span := tracer.Start(ctx, "manifest.Dump")
	defer span.End()

	d := &dumper{cat: cat, ids: make(map[catalog.Entity]string)}
	for _, g := range cat.Groups().Items() {
		for _, e := range g.Entities().All() {
			d.ids[e] = "E" + e.Handle().String()
		}
	}

	m := &Manifest{}
	for _, a := range userItems(cat.ApplicationRegistries().Items()) {
		m.AppIDs = append(m.AppIDs, AppIDDef{Name: a.Name()})
	}
	for _, ts := range userItems(cat.TextStyles().Items()) {
		m.TextStyles = append(m.TextStyles, d.textStyle(ts))
	}
	for _, ss := range userItems(cat.ShapeStyles().Items()) {
		m.ShapeStyles = append(m.ShapeStyles, ShapeStyleDef{Name: ss.Name(), File: ss.File, Size: ss.Size})
	}
	for _, lt := range userItems(cat.Linetypes().Items()) {
		m.Linetypes = append(m.Linetypes, d.linetype(lt))
	}
	for _, l := range userItems(cat.Layers().Items()) {
		m.Layers = append(m.Layers, d.layer(l))
	}
	for _, s := range userItems(cat.MLineStyles().Items()) {
		m.MLineStyles = append(m.MLineStyles, d.mlineStyle(s))
	}
	for _, s := range userItems(cat.DimensionStyles().Items()) {
		m.DimStyles = append(m.DimStyles, d.dimStyle(s))
	}
	for _, def := range userItems(cat.ImageDefinitions().Items()) {
		m.ImageDefs = append(m.ImageDefs, ImageDef{Name: def.Name(), File: def.File, Width: def.Width, Height: def.Height})
	}
	for _, f := range []catalog.UnderlayFormat{catalog.UnderlayDGN, catalog.UnderlayDWF, catalog.UnderlayPDF} {
		for _, def := range userItems(cat.UnderlayDefinitions(f).Items()) {
			u := UnderlayDef{Name: def.Name(), File: def.File, Format: f.String()}
			if def.Page != "1" {
				u.Page = def.Page
			}
			m.UnderlayDefs = append(m.UnderlayDefs, u)
		}
	}
	for _, b := range userItems(cat.Blocks().Items()) {
		m.Blocks = append(m.Blocks, d.block(b))
	}
	for _, u := range userItems(cat.UCSs().Items()) {
		m.UCSs = append(m.UCSs, UCSDef{Name: u.Name(), Origin: vec(u.Origin)})
	}
	for _, v := range userItems(cat.Views().Items()) {
		vd := ViewDef{Name: v.Name(), Center: vec2(v.Center)}
		if v.Height != 1 {
			vd.Height = v.Height
		}
		if v.Width != 1 {
			vd.Width = v.Width
		}
		m.Views = append(m.Views, vd)
	}
	for _, e := range cat.Entities() {
		if ed, ok := d.entity(e); ok {
			m.Entities = append(m.Entities, ed)
		}
	}
	for _, g := range cat.Groups().Items() {
		gd := GroupDef{Description: g.Description}
		if !g.IsUnnamed() {
			gd.Name = g.Name()
		}
		for _, e := range g.Entities().All() {
			gd.Members = append(gd.Members, d.ids[e])
		}
		m.Groups = append(m.Groups, gd)
	}
	for _, name := range cat.LayerStates().Names() {
		st, _ := cat.LayerStates().Get(name)
		m.LayerStates = append(m.LayerStates, layerState(st))
	}

	span.SetAttributes(
		attribute.Int("manifest.layers", len(m.Layers)),
		attribute.Int("manifest.entities", len(m.Entities)),
	)
	return m
}

type dumper struct {
	cat *catalog.Catalog
	ids map[catalog.Entity]string
}

func userItems[T catalog.Resource](items []T) []T {
	var out []T
	for _, item := range items {
		if !item.IsReserved() {
			out = append(out, item)
		}
	}
	return out
}

func (d *dumper) textStyle(ts *catalog.TextStyle) TextStyleDef {
	def := TextStyleDef{Name: ts.Name(), Font: ts.FontFile, BigFont: ts.BigFontFile, Height: ts.Height}
	if ts.WidthFactor != 1 {
		def.WidthFactor = ts.WidthFactor
	}
	return def
}

func (d *dumper) linetype(lt *catalog.Linetype) LinetypeDef {
	ld := linfile.FromLinetype(lt)
	def := LinetypeDef{Name: ld.Name, Description: ld.Description}
	for _, s := range ld.Segments {
		sd := SegmentDef{Length: s.Length}
		if s.Kind != linfile.Simple {
			sd.Text, sd.Shape, sd.Style = s.Text, s.Shape, s.Style
			sd.Rotation, sd.Absolute = s.Rotation, s.Absolute
			sd.Offset = vec2(catalog.Vector2{X: s.X, Y: s.Y})
			if s.Scale != 1 {
				sd.Scale = s.Scale
			}
		}
		def.Segments = append(def.Segments, sd)
	}
	return def
}

func (d *dumper) layer(l *catalog.Layer) LayerDef {
	def := LayerDef{
		Name:         l.Name(),
		Description:  l.Description,
		Transparency: l.Transparency(),
		Hidden:       !l.IsVisible(),
		Frozen:       l.IsFrozen(),
		Locked:       l.IsLocked(),
		NoPlot:       !l.Plot(),
		XData:        xdata(l.XData().Items()),
	}
	if c := l.Color(); c != catalog.ColorDefault {
		def.Color = intPtr(int(c))
	}
	if lt := l.Linetype(); !catalog.SameName(lt.Name(), "Continuous") {
		def.Linetype = lt.Name()
	}
	if w := l.Lineweight(); w != catalog.LineweightDefault {
		def.Lineweight = intPtr(int(w))
	}
	return def
}

func (d *dumper) mlineStyle(s *catalog.MLineStyle) MLineStyleDef {
	def := MLineStyleDef{Name: s.Name(), Description: s.Description}
	for _, e := range s.Elements().All() {
		ed := MLineElementDef{Offset: e.Offset}
		if e.Color != catalog.ColorByLayer {
			ed.Color = intPtr(int(e.Color))
		}
		if lt := e.Linetype(); !catalog.SameName(lt.Name(), "ByLayer") {
			ed.Linetype = lt.Name()
		}
		def.Elements = append(def.Elements, ed)
	}
	return def
}

func (d *dumper) dimStyle(s *catalog.DimensionStyle) DimStyleDef {
	def := DimStyleDef{
		Name:             s.Name(),
		LeaderArrow:      blockName(s.LeaderArrow()),
		DimArrow1:        blockName(s.DimArrow1()),
		DimArrow2:        blockName(s.DimArrow2()),
		DimLineLinetype:  nonByBlock(s.DimLineLinetype()),
		ExtLine1Linetype: nonByBlock(s.ExtLine1Linetype()),
		ExtLine2Linetype: nonByBlock(s.ExtLine2Linetype()),
	}
	if ts := s.TextStyle(); !catalog.SameName(ts.Name(), "Standard") {
		def.TextStyle = ts.Name()
	}
	if s.TextHeight != 0.18 {
		def.TextHeight = s.TextHeight
	}
	if s.ArrowSize != 0.18 {
		def.ArrowSize = s.ArrowSize
	}
	return def
}

func (d *dumper) block(b *catalog.Block) BlockDef {
	def := BlockDef{
		Name:        b.Name(),
		Description: b.Description,
		Origin:      vec(b.Origin),
		XData:       xdata(b.XData().Items()),
	}
	if l := b.Layer(); !catalog.SameName(l.Name(), "0") {
		def.Layer = l.Name()
	}
	for _, e := range b.Entities().All() {
		if ed, ok := d.entity(e); ok {
			def.Entities = append(def.Entities, ed)
		}
	}
	for _, a := range b.AttributeDefinitions().Values() {
		ad := AttributeDef{Tag: a.Tag(), Prompt: a.Prompt, Value: a.Value}
		if a.Height != 1 {
			ad.Height = a.Height
		}
		if ts := a.Style(); !catalog.SameName(ts.Name(), "Standard") {
			ad.Style = ts.Name()
		}
		if l := a.Layer(); !catalog.SameName(l.Name(), "0") {
			ad.Layer = l.Name()
		}
		def.Attributes = append(def.Attributes, ad)
	}
	return def
}

func (d *dumper) entity(e catalog.Entity) (EntityDef, bool) {
	def := EntityDef{ID: d.ids[e], XData: xdata(e.XData().Items())}
	if l := e.Layer(); !catalog.SameName(l.Name(), "0") {
		def.Layer = l.Name()
	}
	if lt := e.Linetype(); !catalog.SameName(lt.Name(), "ByLayer") {
		def.Linetype = lt.Name()
	}
	if c := e.Color(); c != catalog.ColorByLayer {
		def.Color = intPtr(int(c))
	}

	switch e := e.(type) {
	case *catalog.Line:
		def.Type, def.Start, def.End = "line", vec(e.Start), vec(e.End)
	case *catalog.Text:
		def.Type, def.Value, def.Position, def.Height = "text", e.Value, vec(e.Position), e.Height
		if !catalog.SameName(e.Style().Name(), "Standard") {
			def.Style = e.Style().Name()
		}
	case *catalog.Insert:
		def.Type, def.Block, def.Position = "insert", e.Block().Name(), vec(e.Position)
	case *catalog.Dimension:
		def.Type, def.Start, def.End, def.Offset = "dimension", vec(e.First), vec(e.Second), e.Offset
		if !catalog.SameName(e.Style().Name(), "Standard") {
			def.Style = e.Style().Name()
		}
	case *catalog.MLine:
		def.Type = "mline"
		for _, v := range e.Vertices {
			def.Vertices = append(def.Vertices, vec(v))
		}
		if !catalog.SameName(e.Style().Name(), "Standard") {
			def.Style = e.Style().Name()
		}
	case *catalog.Image:
		def.Type, def.Image, def.Position = "image", e.Definition().Name(), vec(e.Position)
		def.Width, def.Height = e.Width, e.Height
	case *catalog.Underlay:
		def.Type, def.Underlay, def.Position = "underlay", e.Definition().Name(), vec(e.Position)
		def.Format = e.Definition().Format().String()
	default:
		return EntityDef{}, false
	}
	return def, true
}

func layerState(st *catalog.LayerState) LayerStateDef {
	def := LayerStateDef{Name: st.Name, Description: st.Description}
	if st.CurrentLayer != "0" {
		def.CurrentLayer = st.CurrentLayer
	}
	for _, p := range st.Properties {
		def.Layers = append(def.Layers, LayerPropertiesDef{
			Name:         p.Name,
			Color:        int(p.Color),
			Linetype:     p.Linetype,
			Lineweight:   int(p.Lineweight),
			Transparency: p.Transparency,
			Hidden:       !p.Visible,
			Frozen:       p.Frozen,
			Locked:       p.Locked,
			NoPlot:       !p.Plot,
		})
	}
	return def
}

func xdata(xs []*catalog.XData) []XDataDef {
	var out []XDataDef
	for _, x := range xs {
		xd := XDataDef{App: x.ApplicationRegistry().Name()}
		for _, r := range x.Records() {
			xd.Records = append(xd.Records, RecordDef{Code: r.Code, Value: r.Value})
		}
		out = append(out, xd)
	}
	return out
}

func blockName(b *catalog.Block) string {
	if b == nil {
		return ""
	}
	return b.Name()
}

func nonByBlock(lt *catalog.Linetype) string {
	if catalog.SameName(lt.Name(), "ByBlock") {
		return ""
	}
	return lt.Name()
}

func intPtr(v int) *int { return &v }

// vec drops all-zero vectors so defaults stay out of the manifest.
func vec(v catalog.Vector3) Vec {
	if v == (catalog.Vector3{}) {
		return nil
	}
	return Vec{v.X, v.Y, v.Z}
}

func vec2(v catalog.Vector2) Vec {
	if v == (catalog.Vector2{}) {
		return nil
	}
	return Vec{v.X, v.Y}
}
