package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/linfile"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
)

var tracer = otel.Tracer("dxfcat/manifest")

// Options tune Apply.
type Options struct {
	// Library loads line types that name a .lin file. A nil Library reads
	// files without caching.
	Library *linfile.Library
	// BaseDir resolves relative library paths. Defaults to the working
	// directory.
	BaseDir string
	// Catalog options for the catalog Apply creates.
	Catalog []catalog.Option
}

// Apply builds a new catalog from m.
func Apply(ctx context.Context, m *Manifest, opts Options) (*catalog.Catalog, error) {
	cat := catalog.New(opts.Catalog...)
	if err := ApplyTo(ctx, cat, m, opts); err != nil {
		return nil, err
	}
	return cat, nil
}

// ApplyFile builds a catalog from f, resolving library paths against the
// manifest's directory.
func ApplyFile(ctx context.Context, f *File, opts Options) (*catalog.Catalog, error) {
	if opts.BaseDir == "" {
		opts.BaseDir = f.Dir()
	}
	return Apply(ctx, f.Manifest, opts)
}

// ApplyTo adds everything m describes to cat. Entries whose name cat already
// has are left as they are. Sections are applied in dependency order, so a
// manifest may list them in any order but must define everything it names.
func ApplyTo(ctx context.Context, cat *catalog.Catalog, m *Manifest, opts Options) (err error) {
	ctx, span := tracer.Start(ctx, "manifest.Apply")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if opts.Library == nil {
		opts.Library = linfile.NewLibrary(0)
	}
	a := &applier{ctx: ctx, cat: cat, opts: opts, ids: make(map[string]catalog.Entity)}

	steps := []struct {
		name string
		fn   func(*Manifest) error
	}{
		{"appids", a.appIDs},
		{"text_styles", a.textStyles},
		{"shape_styles", a.shapeStyles},
		{"linetypes", a.linetypes},
		{"layers", a.layers},
		{"mline_styles", a.mlineStyles},
		{"images", a.images},
		{"underlays", a.underlays},
		{"dim_styles", a.dimStyles},
		{"blocks", a.blocks},
		{"dim_style_arrows", a.dimStyleArrows},
		{"ucs", a.ucss},
		{"views", a.views},
		{"entities", a.entities},
		{"groups", a.groups},
		{"layer_states", a.layerStates},
	}
	for _, step := range steps {
		span.AddEvent(step.name)
		if err := step.fn(m); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	span.SetAttributes(
		attribute.Int("manifest.layers", len(m.Layers)),
		attribute.Int("manifest.blocks", len(m.Blocks)),
		attribute.Int("manifest.entities", len(m.Entities)),
		attribute.Int("catalog.handles", cat.HandleCount()),
	)
	log.Info(log.CatManifest, "Manifest applied", "layers", cat.Layers().Count(),
		"blocks", cat.Blocks().Count(), "entities", len(cat.Entities()))
	return nil
}

type applier struct {
	ctx       context.Context
	cat       *catalog.Catalog
	opts      Options
	ids       map[string]catalog.Entity
	dimStyled map[string]*catalog.DimensionStyle
}

func unknown(kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownReference, kind, name)
}

func (a *applier) layer(name string) (*catalog.Layer, error) {
	if l, ok := a.cat.Layers().TryGet(name); ok {
		return l, nil
	}
	return nil, unknown("layer", name)
}

func (a *applier) linetype(name string) (*catalog.Linetype, error) {
	if lt, ok := a.cat.Linetypes().TryGet(name); ok {
		return lt, nil
	}
	return nil, unknown("linetype", name)
}

func (a *applier) textStyle(name string) (*catalog.TextStyle, error) {
	if ts, ok := a.cat.TextStyles().TryGet(name); ok {
		return ts, nil
	}
	return nil, unknown("text style", name)
}

func (a *applier) block(name string) (*catalog.Block, error) {
	if b, ok := a.cat.Blocks().TryGet(name); ok {
		return b, nil
	}
	return nil, unknown("block", name)
}

func (a *applier) appIDs(m *Manifest) error {
	for _, d := range m.AppIDs {
		app, err := catalog.NewApplicationRegistry(d.Name)
		if err != nil {
			return err
		}
		if _, err := a.cat.ApplicationRegistries().Add(app); err != nil {
			return fmt.Errorf("appid %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) textStyles(m *Manifest) error {
	for _, d := range m.TextStyles {
		ts, err := catalog.NewTextStyle(d.Name, d.Font)
		if err != nil {
			return err
		}
		ts.BigFontFile = d.BigFont
		ts.Height = d.Height
		if d.WidthFactor != 0 {
			ts.WidthFactor = d.WidthFactor
		}
		if _, err := a.cat.TextStyles().Add(ts); err != nil {
			return fmt.Errorf("text style %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) shapeStyles(m *Manifest) error {
	for _, d := range m.ShapeStyles {
		ss, err := catalog.NewShapeStyle(d.Name, d.File)
		if err != nil {
			return err
		}
		ss.Size = d.Size
		if _, err := a.cat.ShapeStyles().Add(ss); err != nil {
			return fmt.Errorf("shape style %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) linetypes(m *Manifest) error {
	for _, d := range m.Linetypes {
		def, err := a.linetypeDefinition(d)
		if err != nil {
			return fmt.Errorf("linetype %q: %w", d.Name, err)
		}
		lt, err := linfile.ToLinetype(a.cat, def)
		if err != nil {
			return fmt.Errorf("linetype %q: %w", d.Name, err)
		}
		if _, err := a.cat.Linetypes().Add(lt); err != nil {
			return fmt.Errorf("linetype %q: %w", d.Name, err)
		}
	}
	return nil
}

// linetypeDefinition turns d into a library definition, loading it from the
// named .lin file when d has a library and no inline segments.
func (a *applier) linetypeDefinition(d LinetypeDef) (*linfile.Definition, error) {
	if d.Library != "" && len(d.Segments) == 0 {
		path := d.Library
		if !filepath.IsAbs(path) && a.opts.BaseDir != "" {
			path = filepath.Join(a.opts.BaseDir, path)
		}
		found, err := a.opts.Library.Lookup(a.ctx, path, d.Name)
		if err != nil {
			return nil, err
		}
		def := *found
		def.Name = d.Name
		if d.Description != "" {
			def.Description = d.Description
		}
		return &def, nil
	}

	def := &linfile.Definition{Name: d.Name, Description: d.Description}
	for _, s := range d.Segments {
		seg := linfile.Segment{
			Kind:     linfile.Simple,
			Length:   s.Length,
			Style:    s.Style,
			Scale:    s.Scale,
			Rotation: s.Rotation,
			Absolute: s.Absolute,
			X:        s.Offset.at(0),
			Y:        s.Offset.at(1),
		}
		switch {
		case s.Text != "" && s.Shape != "":
			return nil, fmt.Errorf("%w: segment has both text and shape", ErrInvalid)
		case s.Text != "":
			seg.Kind, seg.Text = linfile.Text, s.Text
		case s.Shape != "":
			seg.Kind, seg.Shape = linfile.Shape, s.Shape
		}
		if seg.Kind != linfile.Simple {
			if seg.Style == "" {
				return nil, fmt.Errorf("%w: %s segment needs a style", ErrInvalid, seg.Kind)
			}
			if seg.Scale == 0 {
				seg.Scale = 1
			}
		}
		def.Segments = append(def.Segments, seg)
	}
	return def, nil
}

func (a *applier) layers(m *Manifest) error {
	for _, d := range m.Layers {
		l, err := catalog.NewLayer(d.Name)
		if err != nil {
			return err
		}
		l.Description = d.Description
		if d.Color != nil {
			if err := l.SetColor(catalog.Color(*d.Color)); err != nil {
				return fmt.Errorf("layer %q: %w", d.Name, err)
			}
		}
		if d.Linetype != "" {
			lt, err := a.linetype(d.Linetype)
			if err != nil {
				return fmt.Errorf("layer %q: %w", d.Name, err)
			}
			if err := l.SetLinetype(lt); err != nil {
				return fmt.Errorf("layer %q: %w", d.Name, err)
			}
		}
		if d.Lineweight != nil {
			if err := l.SetLineweight(catalog.Lineweight(*d.Lineweight)); err != nil {
				return fmt.Errorf("layer %q: %w", d.Name, err)
			}
		}
		if err := l.SetTransparency(d.Transparency); err != nil {
			return fmt.Errorf("layer %q: %w", d.Name, err)
		}
		l.SetVisible(!d.Hidden)
		l.SetFrozen(d.Frozen)
		l.SetLocked(d.Locked)
		l.SetPlot(!d.NoPlot)
		if err := a.attachXData(l.XData(), d.XData); err != nil {
			return fmt.Errorf("layer %q: %w", d.Name, err)
		}
		if _, err := a.cat.Layers().Add(l); err != nil {
			return fmt.Errorf("layer %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) mlineStyles(m *Manifest) error {
	for _, d := range m.MLineStyles {
		elems := make([]*catalog.MLineStyleElement, 0, len(d.Elements))
		for _, e := range d.Elements {
			el := catalog.NewMLineStyleElement(e.Offset)
			if e.Color != nil {
				el.Color = catalog.Color(*e.Color)
			}
			if e.Linetype != "" {
				lt, err := a.linetype(e.Linetype)
				if err != nil {
					return fmt.Errorf("mline style %q: %w", d.Name, err)
				}
				if err := el.SetLinetype(lt); err != nil {
					return err
				}
			}
			elems = append(elems, el)
		}
		s, err := catalog.NewMLineStyle(d.Name, elems...)
		if err != nil {
			return err
		}
		s.Description = d.Description
		if _, err := a.cat.MLineStyles().Add(s); err != nil {
			return fmt.Errorf("mline style %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) images(m *Manifest) error {
	for _, d := range m.ImageDefs {
		def, err := catalog.NewImageDefinition(d.Name, d.File, d.Width, d.Height)
		if err != nil {
			return err
		}
		if _, err := a.cat.ImageDefinitions().Add(def); err != nil {
			return fmt.Errorf("image %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) underlays(m *Manifest) error {
	for _, d := range m.UnderlayDefs {
		f, err := catalog.ParseUnderlayFormat(d.Format)
		if err != nil {
			return err
		}
		def, err := catalog.NewUnderlayDefinition(d.Name, d.File, f)
		if err != nil {
			return err
		}
		if d.Page != "" {
			def.Page = d.Page
		}
		if _, err := a.cat.UnderlayDefinitions(f).Add(def); err != nil {
			return fmt.Errorf("underlay %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) dimStyles(m *Manifest) error {
	a.dimStyled = make(map[string]*catalog.DimensionStyle, len(m.DimStyles))
	for _, d := range m.DimStyles {
		s, err := catalog.NewDimensionStyle(d.Name)
		if err != nil {
			return err
		}
		if d.TextHeight != 0 {
			s.TextHeight = d.TextHeight
		}
		if d.ArrowSize != 0 {
			s.ArrowSize = d.ArrowSize
		}
		if d.TextStyle != "" {
			ts, err := a.textStyle(d.TextStyle)
			if err != nil {
				return fmt.Errorf("dim style %q: %w", d.Name, err)
			}
			if err := s.SetTextStyle(ts); err != nil {
				return err
			}
		}
		setters := []struct {
			name string
			set  func(*catalog.Linetype) error
		}{
			{d.DimLineLinetype, s.SetDimLineLinetype},
			{d.ExtLine1Linetype, s.SetExtLine1Linetype},
			{d.ExtLine2Linetype, s.SetExtLine2Linetype},
		}
		for _, st := range setters {
			if st.name == "" {
				continue
			}
			lt, err := a.linetype(st.name)
			if err != nil {
				return fmt.Errorf("dim style %q: %w", d.Name, err)
			}
			if err := st.set(lt); err != nil {
				return err
			}
		}
		added, err := a.cat.DimensionStyles().Add(s)
		if err != nil {
			return fmt.Errorf("dim style %q: %w", d.Name, err)
		}
		a.dimStyled[catalog.Key(d.Name)] = added
	}
	return nil
}

// dimStyleArrows runs after the blocks exist. The styles are registered by
// then, so each arrow goes through the normal reference replacement.
func (a *applier) dimStyleArrows(m *Manifest) error {
	for _, d := range m.DimStyles {
		s := a.dimStyled[catalog.Key(d.Name)]
		arrows := []struct {
			name string
			set  func(*catalog.Block) error
		}{
			{d.LeaderArrow, s.SetLeaderArrow},
			{d.DimArrow1, s.SetDimArrow1},
			{d.DimArrow2, s.SetDimArrow2},
		}
		for _, ar := range arrows {
			if ar.name == "" {
				continue
			}
			b, err := a.block(ar.name)
			if err != nil {
				return fmt.Errorf("dim style %q: %w", d.Name, err)
			}
			if err := ar.set(b); err != nil {
				return fmt.Errorf("dim style %q: %w", d.Name, err)
			}
		}
	}
	return nil
}

func (a *applier) blocks(m *Manifest) error {
	for _, d := range m.Blocks {
		ents := make([]catalog.Entity, 0, len(d.Entities))
		for i, ed := range d.Entities {
			e, err := a.entity(ed)
			if err != nil {
				return fmt.Errorf("block %q entity %d: %w", d.Name, i+1, err)
			}
			ents = append(ents, e)
		}
		b, err := catalog.NewBlock(d.Name, ents...)
		if err != nil {
			return fmt.Errorf("block %q: %w", d.Name, err)
		}
		b.Description = d.Description
		b.Origin = vec3(d.Origin)
		if d.Layer != "" {
			l, err := a.layer(d.Layer)
			if err != nil {
				return fmt.Errorf("block %q: %w", d.Name, err)
			}
			if err := b.SetLayer(l); err != nil {
				return err
			}
		}
		for _, ad := range d.Attributes {
			def, err := a.attribute(ad)
			if err != nil {
				return fmt.Errorf("block %q attribute %q: %w", d.Name, ad.Tag, err)
			}
			if err := b.AddAttributeDefinition(def); err != nil {
				return fmt.Errorf("block %q attribute %q: %w", d.Name, ad.Tag, err)
			}
		}
		if err := a.attachXData(b.XData(), d.XData); err != nil {
			return fmt.Errorf("block %q: %w", d.Name, err)
		}
		if _, err := a.cat.Blocks().Add(b); err != nil {
			return fmt.Errorf("block %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) attribute(d AttributeDef) (*catalog.AttributeDefinition, error) {
	def, err := catalog.NewAttributeDefinition(d.Tag)
	if err != nil {
		return nil, err
	}
	def.Prompt = d.Prompt
	def.Value = d.Value
	if d.Height != 0 {
		def.Height = d.Height
	}
	if d.Style != "" {
		ts, err := a.textStyle(d.Style)
		if err != nil {
			return nil, err
		}
		if err := def.SetStyle(ts); err != nil {
			return nil, err
		}
	}
	if d.Layer != "" {
		l, err := a.layer(d.Layer)
		if err != nil {
			return nil, err
		}
		if err := def.SetLayer(l); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (a *applier) ucss(m *Manifest) error {
	for _, d := range m.UCSs {
		u, err := catalog.NewUCS(d.Name, vec3(d.Origin))
		if err != nil {
			return err
		}
		if _, err := a.cat.UCSs().Add(u); err != nil {
			return fmt.Errorf("ucs %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) views(m *Manifest) error {
	for _, d := range m.Views {
		v, err := catalog.NewView(d.Name)
		if err != nil {
			return err
		}
		v.Center = catalog.Vector2{X: d.Center.at(0), Y: d.Center.at(1)}
		if d.Height != 0 {
			v.Height = d.Height
		}
		if d.Width != 0 {
			v.Width = d.Width
		}
		if _, err := a.cat.Views().Add(v); err != nil {
			return fmt.Errorf("view %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) entities(m *Manifest) error {
	for i, d := range m.Entities {
		e, err := a.entity(d)
		if err != nil {
			return fmt.Errorf("entity %d: %w", i+1, err)
		}
		if err := a.cat.AddEntity(e); err != nil {
			return fmt.Errorf("entity %d: %w", i+1, err)
		}
	}
	return nil
}

func (a *applier) groups(m *Manifest) error {
	for _, d := range m.Groups {
		members := make([]catalog.Entity, 0, len(d.Members))
		for _, id := range d.Members {
			e, ok := a.ids[id]
			if !ok {
				return fmt.Errorf("group %q: %w", d.Name, unknown("entity id", id))
			}
			members = append(members, e)
		}
		g, err := catalog.NewGroup(d.Name, members...)
		if err != nil {
			return fmt.Errorf("group %q: %w", d.Name, err)
		}
		g.Description = d.Description
		if _, err := a.cat.Groups().Add(g); err != nil {
			return fmt.Errorf("group %q: %w", d.Name, err)
		}
	}
	return nil
}

func (a *applier) layerStates(m *Manifest) error {
	for _, d := range m.LayerStates {
		st := &catalog.LayerState{Name: d.Name, Description: d.Description, CurrentLayer: d.CurrentLayer}
		if st.CurrentLayer == "" {
			st.CurrentLayer = "0"
		}
		for _, p := range d.Layers {
			st.Properties = append(st.Properties, catalog.LayerProperties{
				Name:         p.Name,
				Color:        catalog.Color(p.Color),
				Linetype:     p.Linetype,
				Lineweight:   catalog.Lineweight(p.Lineweight),
				Transparency: p.Transparency,
				Visible:      !p.Hidden,
				Frozen:       p.Frozen,
				Locked:       p.Locked,
				Plot:         !p.NoPlot,
			})
		}
		if err := a.cat.LayerStates().Add(st); err != nil {
			return fmt.Errorf("layer state %q: %w", d.Name, err)
		}
	}
	return nil
}

// entity builds a detached entity and records its id.
func (a *applier) entity(d EntityDef) (catalog.Entity, error) {
	e, err := a.newEntity(d)
	if err != nil {
		return nil, err
	}
	if d.Layer != "" {
		l, err := a.layer(d.Layer)
		if err != nil {
			return nil, err
		}
		if err := e.SetLayer(l); err != nil {
			return nil, err
		}
	}
	if d.Linetype != "" {
		lt, err := a.linetype(d.Linetype)
		if err != nil {
			return nil, err
		}
		if err := e.SetLinetype(lt); err != nil {
			return nil, err
		}
	}
	if d.Color != nil {
		c := catalog.Color(*d.Color)
		if !c.Valid() {
			return nil, fmt.Errorf("%w: color %d", ErrInvalid, *d.Color)
		}
		e.SetColor(c)
	}
	if err := a.attachXData(e.XData(), d.XData); err != nil {
		return nil, err
	}
	if d.ID != "" {
		if _, dup := a.ids[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate entity id %q", ErrInvalid, d.ID)
		}
		a.ids[d.ID] = e
	}
	return e, nil
}

func (a *applier) newEntity(d EntityDef) (catalog.Entity, error) {
	switch strings.ToLower(d.Type) {
	case "line":
		return catalog.NewLine(vec3(d.Start), vec3(d.End)), nil

	case "text":
		t := catalog.NewText(d.Value, vec3(d.Position), d.Height)
		if d.Style != "" {
			ts, err := a.textStyle(d.Style)
			if err != nil {
				return nil, err
			}
			if err := t.SetStyle(ts); err != nil {
				return nil, err
			}
		}
		return t, nil

	case "insert":
		b, err := a.block(d.Block)
		if err != nil {
			return nil, err
		}
		return catalog.NewInsert(b, vec3(d.Position))

	case "dimension":
		dim := catalog.NewDimension(vec3(d.Start), vec3(d.End), d.Offset)
		if d.Style != "" {
			s, ok := a.cat.DimensionStyles().TryGet(d.Style)
			if !ok {
				return nil, unknown("dim style", d.Style)
			}
			if err := dim.SetStyle(s); err != nil {
				return nil, err
			}
		}
		return dim, nil

	case "mline":
		vs := make([]catalog.Vector3, 0, len(d.Vertices))
		for _, v := range d.Vertices {
			vs = append(vs, vec3(v))
		}
		ml := catalog.NewMLine(vs...)
		if d.Style != "" {
			s, ok := a.cat.MLineStyles().TryGet(d.Style)
			if !ok {
				return nil, unknown("mline style", d.Style)
			}
			if err := ml.SetStyle(s); err != nil {
				return nil, err
			}
		}
		return ml, nil

	case "image":
		def, ok := a.cat.ImageDefinitions().TryGet(d.Image)
		if !ok {
			return nil, unknown("image", d.Image)
		}
		return catalog.NewImage(def, vec3(d.Position), d.Width, d.Height)

	case "underlay":
		f, err := catalog.ParseUnderlayFormat(d.Format)
		if err != nil {
			return nil, err
		}
		def, ok := a.cat.UnderlayDefinitions(f).TryGet(d.Underlay)
		if !ok {
			return nil, unknown(f.String()+" underlay", d.Underlay)
		}
		return catalog.NewUnderlay(def, vec3(d.Position))
	}
	return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalid, d.Type)
}

type xdataCarrier interface {
	Add(*catalog.XData) error
}

func (a *applier) attachXData(list xdataCarrier, defs []XDataDef) error {
	for _, d := range defs {
		app, ok := a.cat.ApplicationRegistries().TryGet(d.App)
		if !ok {
			return unknown("appid", d.App)
		}
		x, err := catalog.NewXData(app)
		if err != nil {
			return err
		}
		for _, r := range d.Records {
			x.AddRecord(r.Code, r.Value)
		}
		if err := list.Add(x); err != nil {
			return err
		}
	}
	return nil
}

func vec3(v Vec) catalog.Vector3 {
	return catalog.Vector3{X: v.at(0), Y: v.at(1), Z: v.at(2)}
}
