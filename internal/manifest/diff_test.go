package manifest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiff_Identical(t *testing.T) {
	m := Dump(context.Background(), applyOffice(t))

	lines, err := Diff(m, m)
	require.NoError(t, err)
	require.False(t, Changed(lines))
	require.NotEmpty(t, lines)
}

func TestDiff_ChangedLayer(t *testing.T) {
	a := &Manifest{Layers: []LayerDef{{Name: "Walls"}, {Name: "Doors"}}}
	b := &Manifest{Layers: []LayerDef{{Name: "Walls"}, {Name: "Windows"}}}

	lines, err := Diff(a, b)
	require.NoError(t, err)
	require.True(t, Changed(lines))

	var added, deleted []string
	for _, l := range lines {
		switch l.Op {
		case LineAdded:
			added = append(added, l.Text)
		case LineDeleted:
			deleted = append(deleted, l.Text)
		}
	}
	require.Equal(t, []string{"  - name: Windows"}, added)
	require.Equal(t, []string{"  - name: Doors"}, deleted)
}

func TestDiff_SpellingDoesNotMatterAfterDump(t *testing.T) {
	a, err := Parse([]byte("layers:\n  - name: Walls\n    color: 7\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("layers:\n  - {name: Walls}\n"))
	require.NoError(t, err)

	ctx := context.Background()
	ca, err := Apply(ctx, a, Options{})
	require.NoError(t, err)
	cb, err := Apply(ctx, b, Options{})
	require.NoError(t, err)

	lines, err := Diff(Dump(ctx, ca), Dump(ctx, cb))
	require.NoError(t, err)
	require.False(t, Changed(lines))
}

func TestLineOp_Prefix(t *testing.T) {
	require.Equal(t, "+", LineAdded.Prefix())
	require.Equal(t, "-", LineDeleted.Prefix())
	require.Equal(t, " ", LineEqual.Prefix())
}
