package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlock_AddRegistersEntitiesAndDependencies(t *testing.T) {
	c := New()
	hidden := mustLinetype(t, "Hidden", NewSimpleSegment(0.25), NewSimpleSegment(-0.125))
	layer := mustLayer(t, "Doors")
	require.NoError(t, layer.SetLinetype(hidden))
	line := NewLine(Vector3{}, Vector3{X: 1})
	require.NoError(t, line.SetLayer(layer))
	door := mustBlock(t, "Door", line)

	stored, err := c.Blocks().Add(door)
	require.NoError(t, err)
	require.Same(t, door, stored)

	require.True(t, c.Layers().Contains("Doors"))
	require.True(t, c.Linetypes().Contains("Hidden"))
	require.Same(t, door, line.Owner())
	require.Same(t, c, line.Catalog())
	require.False(t, line.Handle().IsZero())
	got, ok := c.Lookup(line.Handle())
	require.True(t, ok)
	require.Same(t, line, got)
	require.Contains(t, referencers(c.Layers().GetReferences("Doors")), Object(line))
	require.Contains(t, referencers(c.Layers().GetReferences("0")), Object(door), "block sits on layer 0")
}

func TestBlock_RemoveUnregistersEntities(t *testing.T) {
	c := New()
	line := NewLine(Vector3{}, Vector3{X: 1})
	b, err := c.Blocks().Add(mustBlock(t, "B", line))
	require.NoError(t, err)
	h := line.Handle()

	require.True(t, c.Blocks().Remove("B"))

	_, ok := c.Lookup(h)
	require.False(t, ok)
	require.Nil(t, line.Catalog())
	require.Same(t, b, line.Owner(), "the entity stays in the detached block")
	require.NotContains(t, referencers(c.Layers().GetReferences("0")), Object(line))
}

func TestBlock_InsertedBlockCannotBeRemoved(t *testing.T) {
	c := New()
	b, err := c.Blocks().Add(mustBlock(t, "Chair"))
	require.NoError(t, err)
	in, err := NewInsert(b, Vector3{X: 3})
	require.NoError(t, err)
	require.NoError(t, c.AddEntity(in))

	require.False(t, c.Blocks().Remove("Chair"))
	require.True(t, c.RemoveEntity(in))
	require.True(t, c.Blocks().Remove("Chair"))
}

func TestBlock_InsertCascadesBlock(t *testing.T) {
	c := New()
	inner := mustBlock(t, "Inner", NewLine(Vector3{}, Vector3{Y: 1}))
	in, err := NewInsert(inner, Vector3{})
	require.NoError(t, err)

	require.NoError(t, c.AddEntity(in))

	require.Same(t, inner, c.Blocks().Get("Inner"))
	require.Contains(t, referencers(c.Blocks().GetReferences("Inner")), Object(in))
}

func TestBlock_RejectsSelfInsert(t *testing.T) {
	b := mustBlock(t, "Loop")
	in, err := NewInsert(b, Vector3{})
	require.NoError(t, err)

	require.ErrorIs(t, b.Entities().Add(in), ErrInvalidArgument)
	require.Zero(t, b.Entities().Len())

	other := mustBlock(t, "Other")
	in2, err := NewInsert(other, Vector3{})
	require.NoError(t, err)
	require.NoError(t, b.Entities().Add(in2))
	require.ErrorIs(t, in2.SetBlock(b), ErrInvalidArgument)
	require.Same(t, other, in2.Block())
}

func TestBlock_RejectsOwnedEntity(t *testing.T) {
	line := NewLine(Vector3{}, Vector3{X: 1})
	a := mustBlock(t, "A", line)
	b := mustBlock(t, "B")

	require.ErrorIs(t, b.Entities().Add(line), ErrInvalidArgument)
	require.Same(t, a, line.Owner())
	require.ErrorIs(t, b.Entities().Add(nil), ErrInvalidArgument)
}

func TestBlock_MoveEntityBetweenBlocks(t *testing.T) {
	c := New()
	line := NewLine(Vector3{}, Vector3{X: 1})
	a, err := c.Blocks().Add(mustBlock(t, "A", line))
	require.NoError(t, err)
	b, err := c.Blocks().Add(mustBlock(t, "B"))
	require.NoError(t, err)
	first := line.Handle()

	require.True(t, a.Entities().Remove(line))
	require.NoError(t, b.Entities().Add(line))

	require.Same(t, b, line.Owner())
	require.NotEqual(t, first, line.Handle(), "handles are never reused")
}

func TestBlock_AttributeDefinitions(t *testing.T) {
	c := New()
	b, err := c.Blocks().Add(mustBlock(t, "Title"))
	require.NoError(t, err)
	def, err := NewAttributeDefinition("SHEET")
	require.NoError(t, err)

	require.NoError(t, b.AddAttributeDefinition(def))
	require.Same(t, b, def.Owner())
	require.Same(t, c.TextStyles().Get("Standard"), def.Style())
	require.Contains(t, referencers(c.TextStyles().GetReferences("Standard")), Object(def))

	other, err := NewAttributeDefinition("OTHER")
	require.NoError(t, err)
	require.ErrorIs(t, b.AttributeDefinitions().Add("WRONG", other), ErrInvalidArgument)

	require.True(t, c.RemoveEntity(def))
	require.False(t, b.AttributeDefinitions().Contains("SHEET"))
	require.Nil(t, def.Catalog())

	_, err = NewAttributeDefinition("has space")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBlock_SetLayer(t *testing.T) {
	c := New()
	b, err := c.Blocks().Add(mustBlock(t, "B"))
	require.NoError(t, err)

	require.NoError(t, b.SetLayer(mustLayer(t, "Furniture")))

	require.Same(t, c.Layers().Get("Furniture"), b.Layer())
	require.NotContains(t, referencers(c.Layers().GetReferences("0")), Object(b))
	require.ErrorIs(t, b.SetLayer(nil), ErrInvalidArgument)
}

func TestBlock_IsLayout(t *testing.T) {
	c := New()
	require.True(t, c.ModelSpace().IsLayout())
	require.True(t, c.PaperSpace().IsLayout())
	require.False(t, mustBlock(t, "Door").IsLayout())
}
