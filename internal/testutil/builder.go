package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
)

// Builder accumulates catalog contents and adds them in dependency order.
type Builder struct {
	t          *testing.T
	opts       []catalog.Option
	textStyles [][2]string
	linetypes  []linetypeData
	layers     []layerData
	blocks     []blockData
	inserts    []insertData
}

// NewBuilder creates a builder for a fresh catalog.
func NewBuilder(t *testing.T, opts ...catalog.Option) *Builder {
	t.Helper()
	return &Builder{t: t, opts: opts}
}

// WithTextStyle adds a text style using the given font file.
func (b *Builder) WithTextStyle(name, font string) *Builder {
	b.textStyles = append(b.textStyles, [2]string{name, font})
	return b
}

// WithLinetype adds a line type made of simple segments.
func (b *Builder) WithLinetype(name string, pattern ...float64) *Builder {
	b.linetypes = append(b.linetypes, linetypeData{name: name, pattern: pattern})
	return b
}

// WithLayer adds a layer with optional configuration.
func (b *Builder) WithLayer(name string, opts ...LayerOption) *Builder {
	layer := defaultLayer(name)
	for _, opt := range opts {
		opt(&layer)
	}
	b.layers = append(b.layers, layer)
	return b
}

// WithBlock adds a block on layer holding n lines.
func (b *Builder) WithBlock(name, layer string, lines int) *Builder {
	b.blocks = append(b.blocks, blockData{name: name, layer: layer, lines: lines})
	return b
}

// WithInsert places the named block in model space on layer.
func (b *Builder) WithInsert(block, layer string) *Builder {
	b.inserts = append(b.inserts, insertData{block: block, layer: layer})
	return b
}

// Build creates the catalog and adds everything accumulated so far.
func (b *Builder) Build() *catalog.Catalog {
	b.t.Helper()
	cat := catalog.New(b.opts...)
	// Styles and line types first, so layers and blocks can find them.
	for _, ts := range b.textStyles {
		b.addTextStyle(cat, ts[0], ts[1])
	}
	for _, lt := range b.linetypes {
		b.addLinetype(cat, lt)
	}
	for _, l := range b.layers {
		b.addLayer(cat, l)
	}
	for _, blk := range b.blocks {
		b.addBlock(cat, blk)
	}
	for _, ins := range b.inserts {
		b.addInsert(cat, ins)
	}
	return cat
}

func (b *Builder) addTextStyle(cat *catalog.Catalog, name, font string) {
	b.t.Helper()
	ts, err := catalog.NewTextStyle(name, font)
	require.NoError(b.t, err)
	_, err = cat.TextStyles().Add(ts)
	require.NoError(b.t, err)
}

func (b *Builder) addLinetype(cat *catalog.Catalog, data linetypeData) {
	b.t.Helper()
	segments := make([]catalog.LinetypeSegment, 0, len(data.pattern))
	for _, length := range data.pattern {
		segments = append(segments, catalog.NewSimpleSegment(length))
	}
	lt, err := catalog.NewLinetype(data.name, segments...)
	require.NoError(b.t, err)
	_, err = cat.Linetypes().Add(lt)
	require.NoError(b.t, err)
}

func (b *Builder) addLayer(cat *catalog.Catalog, data layerData) {
	b.t.Helper()
	layer, err := catalog.NewLayer(data.name)
	require.NoError(b.t, err)
	require.NoError(b.t, layer.SetColor(data.color))
	require.NoError(b.t, layer.SetLineweight(data.lineweight))
	layer.SetFrozen(data.frozen)
	layer.SetLocked(data.locked)
	lt, ok := cat.Linetypes().TryGet(data.linetype)
	require.True(b.t, ok, "line type %q must be added before layer %q", data.linetype, data.name)
	require.NoError(b.t, layer.SetLinetype(lt))
	_, err = cat.Layers().Add(layer)
	require.NoError(b.t, err)
}

func (b *Builder) addBlock(cat *catalog.Catalog, data blockData) {
	b.t.Helper()
	layer, ok := cat.Layers().TryGet(data.layer)
	require.True(b.t, ok, "layer %q must be added before block %q", data.layer, data.name)
	entities := make([]catalog.Entity, 0, data.lines)
	for i := 0; i < data.lines; i++ {
		line := catalog.NewLine(catalog.Vector3{X: float64(i)}, catalog.Vector3{X: float64(i), Y: 1})
		require.NoError(b.t, line.SetLayer(layer))
		entities = append(entities, line)
	}
	blk, err := catalog.NewBlock(data.name, entities...)
	require.NoError(b.t, err)
	require.NoError(b.t, blk.SetLayer(layer))
	_, err = cat.Blocks().Add(blk)
	require.NoError(b.t, err)
}

func (b *Builder) addInsert(cat *catalog.Catalog, data insertData) {
	b.t.Helper()
	blk, ok := cat.Blocks().TryGet(data.block)
	require.True(b.t, ok, "block %q must be added before inserting it", data.block)
	layer, ok := cat.Layers().TryGet(data.layer)
	require.True(b.t, ok, "layer %q must be added before the insert", data.layer)
	ins, err := catalog.NewInsert(blk, catalog.Vector3{})
	require.NoError(b.t, err)
	require.NoError(b.t, ins.SetLayer(layer))
	require.NoError(b.t, cat.AddEntity(ins))
}
