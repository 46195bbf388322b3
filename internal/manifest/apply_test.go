package manifest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/linfile"
)

func applyOffice(t *testing.T) *catalog.Catalog {
	t.Helper()
	m, err := Parse([]byte(officeManifest))
	require.NoError(t, err)
	cat, err := Apply(context.Background(), m, Options{BaseDir: "testdata"})
	require.NoError(t, err)
	return cat
}

func TestApply_Resources(t *testing.T) {
	cat := applyOffice(t)

	walls := cat.Layers().Get("walls")
	require.Equal(t, catalog.ColorRed, walls.Color())
	require.Equal(t, "Dashed", walls.Linetype().Name())
	require.Equal(t, catalog.Lineweight(50), walls.Lineweight())
	require.Equal(t, 1, walls.XData().Len())

	doors := cat.Layers().Get("Doors")
	require.True(t, doors.IsFrozen())
	require.Equal(t, "Continuous", doors.Linetype().Name())

	hidden := cat.Linetypes().Get("Hidden2")
	require.Equal(t, 2, hidden.Segments().Len(), "loaded from the library file")

	batting := cat.Linetypes().Get("Batting")
	seg, ok := batting.Segments().At(1).(*catalog.ShapeSegment)
	require.True(t, ok)
	require.Same(t, cat.ShapeStyles().Get("ltypeshp"), seg.Style())

	arch := cat.DimensionStyles().Get("Arch")
	require.Equal(t, 0.125, arch.TextHeight)
	require.Same(t, cat.TextStyles().Get("Notes"), arch.TextStyle())
	require.Same(t, cat.Blocks().Get("Tick"), arch.DimArrow1())
	require.Nil(t, arch.DimArrow2())
	require.True(t, cat.Blocks().HasReferences("Tick"), "the arrow is a reference")

	door := cat.Blocks().Get("Door")
	require.Same(t, doors, door.Layer())
	require.Equal(t, 1, door.Entities().Len())
	attr, ok := door.AttributeDefinitions().Get("WIDTH")
	require.True(t, ok)
	require.Equal(t, "36", attr.Value)

	st, ok := cat.LayerStates().Get("plan")
	require.True(t, ok)
	require.Equal(t, "0", st.CurrentLayer)
	require.Len(t, st.Properties, 1)
	require.True(t, st.Properties[0].Visible)
}

func TestApply_EntitiesAndGroups(t *testing.T) {
	cat := applyOffice(t)

	ents := cat.Entities()
	require.Len(t, ents, 4)
	for _, e := range ents {
		require.False(t, e.Handle().IsZero())
	}

	insert, ok := ents[0].(*catalog.Insert)
	require.True(t, ok)
	require.Same(t, cat.Blocks().Get("Door"), insert.Block())

	text, ok := ents[2].(*catalog.Text)
	require.True(t, ok)
	require.Equal(t, "Notes", text.Style().Name())

	dim, ok := ents[3].(*catalog.Dimension)
	require.True(t, ok)
	require.Equal(t, 2.0, dim.Offset)

	g := cat.Groups().Get("NorthWall")
	require.Equal(t, []catalog.Entity{ents[1], ents[0]}, g.Entities().Items())
	require.Contains(t, ents[1].Groups(), g)
}

func TestApplyFile_ResolvesLibraryNextToManifest(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("testdata", "office.yaml"))
	require.NoError(t, err)
	m, err := Parse([]byte(officeManifest))
	require.NoError(t, err)

	lib := linfile.NewLibrary(0)
	cat, err := ApplyFile(context.Background(), &File{Manifest: m, Path: path}, Options{Library: lib})
	require.NoError(t, err)
	require.True(t, cat.Linetypes().Contains("HIDDEN2"))
}

func TestApplyTo_KeepsExistingEntries(t *testing.T) {
	cat := catalog.New()
	walls, err := catalog.NewLayer("WALLS")
	require.NoError(t, err)
	require.NoError(t, walls.SetColor(catalog.ColorGreen))
	_, err = cat.Layers().Add(walls)
	require.NoError(t, err)

	m := &Manifest{Layers: []LayerDef{{Name: "Walls", Color: intPtr(1)}}}
	require.NoError(t, ApplyTo(context.Background(), cat, m, Options{}))

	require.Equal(t, 2, cat.Layers().Count())
	require.Same(t, walls, cat.Layers().Get("Walls"))
	require.Equal(t, catalog.ColorGreen, walls.Color())
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     error
	}{
		{
			name:     "unknown layer linetype",
			manifest: "layers:\n  - name: A\n    linetype: Nope\n",
			want:     ErrUnknownReference,
		},
		{
			name:     "unknown entity layer",
			manifest: "entities:\n  - type: line\n    layer: Nope\n",
			want:     ErrUnknownReference,
		},
		{
			name:     "unknown group member",
			manifest: "entities:\n  - type: line\n    id: a\ngroups:\n  - name: G\n    members: [a, b]\n",
			want:     ErrUnknownReference,
		},
		{
			name:     "unknown insert block",
			manifest: "entities:\n  - type: insert\n    block: Nope\n",
			want:     ErrUnknownReference,
		},
		{
			name:     "unknown xdata app",
			manifest: "layers:\n  - name: A\n    xdata:\n      - app: NOPE\n",
			want:     ErrUnknownReference,
		},
		{
			name:     "unknown entity type",
			manifest: "entities:\n  - type: spline\n",
			want:     ErrInvalid,
		},
		{
			name:     "duplicate entity id",
			manifest: "entities:\n  - type: line\n    id: a\n  - type: line\n    id: a\n",
			want:     ErrInvalid,
		},
		{
			name:     "text and shape segment",
			manifest: "linetypes:\n  - name: X\n    segments:\n      - length: 1\n        text: A\n        shape: B\n        style: S\n",
			want:     ErrInvalid,
		},
		{
			name:     "text segment without style",
			manifest: "linetypes:\n  - name: X\n    segments:\n      - length: 1\n        text: A\n",
			want:     ErrInvalid,
		},
		{
			name:     "bad layer color",
			manifest: "layers:\n  - name: A\n    color: 256\n",
			want:     catalog.ErrInvalidArgument,
		},
		{
			name:     "bad name",
			manifest: "layers:\n  - name: \"A|B\"\n",
			want:     catalog.ErrInvalidName,
		},
		{
			name:     "missing library",
			manifest: "linetypes:\n  - name: X\n    library: missing.lin\n",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.manifest))
			require.NoError(t, err)
			_, err = Apply(context.Background(), m, Options{BaseDir: t.TempDir()})
			require.Error(t, err)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestDump_Normalized(t *testing.T) {
	cat := applyOffice(t)
	m := Dump(context.Background(), cat)

	require.Empty(t, m.Drawing)
	require.Equal(t, []AppIDDef{{Name: "DXFCAT"}}, m.AppIDs)
	for _, l := range m.Layers {
		require.NotEqual(t, "0", l.Name, "reserved layer is skipped")
	}
	require.Len(t, m.Layers, 2)
	require.Nil(t, m.Layers[1].Lineweight, "default lineweight is omitted")
	require.Empty(t, m.Layers[1].Linetype, "Continuous is omitted")

	require.Equal(t, "Hidden2", m.Linetypes[2].Name)
	require.Equal(t, []SegmentDef{{Length: 0.125}, {Length: -0.0625}}, m.Linetypes[2].Segments)
	require.Equal(t, "Tick", m.DimStyles[0].DimArrow1)

	var ids []string
	for _, e := range m.Entities {
		if e.ID != "" {
			ids = append(ids, e.ID)
		}
	}
	require.Len(t, ids, 2, "only group members get ids")
	require.Equal(t, []string{m.Entities[1].ID, m.Entities[0].ID}, m.Groups[0].Members)
}

func TestDump_RoundTrip(t *testing.T) {
	ctx := context.Background()
	first := Dump(ctx, applyOffice(t))

	data, err := Marshal(first)
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)

	cat, err := Apply(ctx, parsed, Options{})
	require.NoError(t, err)
	second := Dump(ctx, cat)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("dump changed after a round trip (-first +second):\n%s", diff)
	}
}

func TestDump_UnnamedGroup(t *testing.T) {
	cat := catalog.New()
	line := catalog.NewLine(catalog.Vector3{}, catalog.Vector3{X: 1})
	require.NoError(t, cat.AddEntity(line))
	g, err := catalog.NewGroup("", line)
	require.NoError(t, err)
	_, err = cat.Groups().Add(g)
	require.NoError(t, err)

	m := Dump(context.Background(), cat)
	require.Len(t, m.Groups, 1)
	require.Empty(t, m.Groups[0].Name)
	require.Equal(t, []string{"E" + line.Handle().String()}, m.Groups[0].Members)

	again, err := Apply(context.Background(), m, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, again.Groups().Count())
	require.True(t, again.Groups().Items()[0].IsUnnamed())
}
