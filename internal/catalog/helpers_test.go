package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustLayer(t *testing.T, name string) *Layer {
	t.Helper()
	l, err := NewLayer(name)
	require.NoError(t, err)
	return l
}

func mustLinetype(t *testing.T, name string, segs ...LinetypeSegment) *Linetype {
	t.Helper()
	lt, err := NewLinetype(name, segs...)
	require.NoError(t, err)
	return lt
}

func mustTextStyle(t *testing.T, name string) *TextStyle {
	t.Helper()
	s, err := NewTextStyle(name, "arial.ttf")
	require.NoError(t, err)
	return s
}

func mustBlock(t *testing.T, name string, entities ...Entity) *Block {
	t.Helper()
	b, err := NewBlock(name, entities...)
	require.NoError(t, err)
	return b
}

func mustGroup(t *testing.T, name string, members ...Entity) *Group {
	t.Helper()
	g, err := NewGroup(name, members...)
	require.NoError(t, err)
	return g
}

func referencers(refs []Reference) []Object {
	out := make([]Object, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Referencer)
	}
	return out
}

// requireBijection checks that every table has a reference set for exactly
// its names.
func requireBijection(t require.TestingT, c *Catalog) {
	for _, tbl := range c.Tables() {
		r := tbl.(table)
		for _, name := range tbl.Names() {
			require.NotNil(t, r.refSet(name), "%s %q has no reference set", tbl.Kind(), name)
		}
		entries, refs := r.sizes()
		require.Equal(t, entries, refs, "%s table", tbl.Kind())
		require.Equal(t, entries, tbl.Count(), "%s table", tbl.Kind())
	}
}
