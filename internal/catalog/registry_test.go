package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Add_DefaultLinetypeIsReferenced(t *testing.T) {
	c := New()

	l1, err := c.Layers().Add(mustLayer(t, "L1"))
	require.NoError(t, err)

	continuous := c.Linetypes().Get("Continuous")
	require.Same(t, continuous, l1.Linetype(), "default line type resolves to the catalog instance")
	require.Contains(t, referencers(c.Linetypes().GetReferences("Continuous")), Object(l1))

	require.False(t, c.Linetypes().Remove("Continuous"), "reserved")
	require.True(t, c.Linetypes().Contains("Continuous"))

	require.True(t, c.Layers().Remove("L1"))
	require.NotContains(t, referencers(c.Linetypes().GetReferences("Continuous")), Object(l1))
	requireBijection(t, c)
}

func TestRegistry_Add_DimensionStyleReferencesStandard(t *testing.T) {
	c := New()
	before := c.TextStyles().GetReferences("Standard")

	d1, err := NewDimensionStyle("D1")
	require.NoError(t, err)
	_, err = c.DimensionStyles().Add(d1)
	require.NoError(t, err)

	require.True(t, c.TextStyles().HasReferences("Standard"))
	require.Contains(t, referencers(c.TextStyles().GetReferences("Standard")), Object(d1))

	require.True(t, c.DimensionStyles().Remove("D1"))
	require.Equal(t, before, c.TextStyles().GetReferences("Standard"))
}

func TestRegistry_Add_SameNameReturnsStored(t *testing.T) {
	c := New()
	first, err := c.Layers().Add(mustLayer(t, "Walls"))
	require.NoError(t, err)
	count := c.Layers().Count()

	other := mustLayer(t, "WALLS")
	got, err := c.Layers().Add(other)

	require.NoError(t, err)
	require.Same(t, first, got)
	require.Equal(t, count, c.Layers().Count())
	require.Nil(t, other.Catalog(), "the duplicate stays detached")
	require.True(t, other.Handle().IsZero())
}

func TestRegistry_Add_Nil(t *testing.T) {
	c := New()
	_, err := c.Layers().Add(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRegistry_Add_CrossDocument(t *testing.T) {
	a, b := New(), New()
	l, err := a.Layers().Add(mustLayer(t, "Shared"))
	require.NoError(t, err)

	_, err = b.Layers().Add(l)
	require.ErrorIs(t, err, ErrCrossDocument)
	require.False(t, b.Layers().Contains("Shared"))
}

func TestRegistry_Add_DependencyFromOtherCatalogFailsAtomically(t *testing.T) {
	a, b := New(), New()
	dashed, err := a.Linetypes().Add(mustLinetype(t, "Dashed", NewSimpleSegment(0.5), NewSimpleSegment(-0.25)))
	require.NoError(t, err)

	l := mustLayer(t, "L")
	require.NoError(t, l.SetLinetype(dashed))
	handles := b.HandleCount()

	_, err = b.Layers().Add(l)

	require.ErrorIs(t, err, ErrCrossDocument)
	require.False(t, b.Layers().Contains("L"))
	require.False(t, b.Linetypes().Contains("Dashed"))
	require.Equal(t, handles, b.HandleCount())
	require.Nil(t, l.Catalog())
}

func TestRegistry_Add_DependencyDeduplicatedByName(t *testing.T) {
	a, b := New(), New()
	foreign, err := a.Linetypes().Add(mustLinetype(t, "Center"))
	require.NoError(t, err)
	local, err := b.Linetypes().Add(mustLinetype(t, "center"))
	require.NoError(t, err)

	l := mustLayer(t, "L")
	require.NoError(t, l.SetLinetype(foreign))
	_, err = b.Layers().Add(l)

	require.NoError(t, err)
	require.Same(t, local, l.Linetype(), "same-named entry wins over the foreign instance")
}

func TestRegistry_Remove_Gating(t *testing.T) {
	c := New()
	dashed, err := c.Linetypes().Add(mustLinetype(t, "Dashed"))
	require.NoError(t, err)
	l := mustLayer(t, "L")
	require.NoError(t, l.SetLinetype(dashed))
	_, err = c.Layers().Add(l)
	require.NoError(t, err)

	require.False(t, c.Linetypes().Remove("Dashed"), "still referenced by L")
	require.True(t, c.Linetypes().Contains("Dashed"))

	require.NoError(t, l.SetLinetype(c.Linetypes().Get("Continuous")))
	require.False(t, c.Linetypes().HasReferences("Dashed"))
	require.True(t, c.Linetypes().Remove("dashed"))

	require.False(t, c.Linetypes().Remove("Dashed"), "already gone")
	require.False(t, c.Layers().Remove("0"), "reserved")
}

func TestRegistry_RemoveItem(t *testing.T) {
	c := New()
	stored, err := c.Layers().Add(mustLayer(t, "A"))
	require.NoError(t, err)

	require.False(t, c.Layers().RemoveItem(mustLayer(t, "A")), "different instance with the same name")
	require.False(t, c.Layers().RemoveItem(nil))
	require.True(t, c.Layers().RemoveItem(stored))
}

func TestRegistry_Clear_KeepsReservedAndReferenced(t *testing.T) {
	c := New()
	used, err := c.Linetypes().Add(mustLinetype(t, "Used"))
	require.NoError(t, err)
	_, err = c.Linetypes().Add(mustLinetype(t, "Unused"))
	require.NoError(t, err)
	l := mustLayer(t, "L")
	require.NoError(t, l.SetLinetype(used))
	_, err = c.Layers().Add(l)
	require.NoError(t, err)

	require.Equal(t, 1, c.Linetypes().Clear())
	require.Equal(t, []string{"ByLayer", "ByBlock", "Continuous", "Used"}, c.Linetypes().Names())
}

func TestRegistry_Rename(t *testing.T) {
	c := New()
	l, err := c.Layers().Add(mustLayer(t, "A"))
	require.NoError(t, err)
	line := NewLine(Vector3{}, Vector3{X: 1})
	require.NoError(t, line.SetLayer(l))
	require.NoError(t, c.AddEntity(line))
	refs := c.Layers().GetReferences("A")

	require.NoError(t, l.SetName("B"))

	require.False(t, c.Layers().Contains("A"))
	require.Same(t, l, c.Layers().Get("b"))
	require.Equal(t, refs, c.Layers().GetReferences("B"))
	require.Equal(t, "B", l.Name())
	requireBijection(t, c)
}

func TestRegistry_Rename_CaseOnly(t *testing.T) {
	c := New()
	l, err := c.Layers().Add(mustLayer(t, "walls"))
	require.NoError(t, err)

	require.NoError(t, l.SetName("Walls"))
	require.Equal(t, []string{"0", "Walls"}, c.Layers().Names())
}

func TestRegistry_Rename_DuplicateLeavesTablesUnchanged(t *testing.T) {
	c := New()
	l1, err := c.Layers().Add(mustLayer(t, "L1"))
	require.NoError(t, err)
	l2, err := c.Layers().Add(mustLayer(t, "L2"))
	require.NoError(t, err)

	snapshot := func() map[Kind][]string {
		out := map[Kind][]string{}
		for _, tbl := range c.Tables() {
			out[tbl.Kind()] = tbl.Names()
		}
		return out
	}
	before := snapshot()
	handles := c.HandleCount()

	err = l1.SetName("l2")

	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	require.ErrorIs(t, err, ErrDuplicateName)
	require.Equal(t, KindLayer, dup.Kind)
	require.Equal(t, "L1", l1.Name())
	require.Same(t, l1, c.Layers().Get("L1"))
	require.Same(t, l2, c.Layers().Get("L2"))
	require.Equal(t, before, snapshot())
	require.Equal(t, handles, c.HandleCount())
	requireBijection(t, c)
}

func TestRegistry_Rename_Reserved(t *testing.T) {
	c := New()
	require.ErrorIs(t, c.Layers().Get("0").SetName("Zero"), ErrInvalidArgument)
	require.ErrorIs(t, LinetypeContinuous().SetName("Solid"), ErrInvalidArgument)
}

func TestRegistry_Rename_InvalidName(t *testing.T) {
	l := mustLayer(t, "A")
	require.ErrorIs(t, l.SetName("a/b"), ErrInvalidName)
	require.ErrorIs(t, l.SetName(""), ErrInvalidName)
	require.Equal(t, "A", l.Name())
}

func TestRegistry_Rename_Detached(t *testing.T) {
	l := mustLayer(t, "A")
	require.NoError(t, l.SetName("B"))
	require.Equal(t, "B", l.Name())
}

func TestRegistry_VPortsAreReadOnly(t *testing.T) {
	c := New()
	_, err := c.VPorts().Add(newVPort("Other"))
	require.ErrorIs(t, err, ErrNotSupported)
	require.Equal(t, 1, c.VPorts().Count())
}

func TestRegistry_ReferencesOfUnknownName(t *testing.T) {
	c := New()
	require.False(t, c.Layers().HasReferences("nope"))
	require.Nil(t, c.Layers().GetReferences("nope"))
	require.False(t, c.Layers().HasReferencesOf(mustLayer(t, "nope")))
	require.Nil(t, c.Layers().GetReferencesOf(mustLayer(t, "nope")))
	_, ok := c.Layers().TryGet("nope")
	require.False(t, ok)
	require.Nil(t, c.Layers().Get("nope"))
}
