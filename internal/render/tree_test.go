package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/testutil"
)

func TestReferenceTree_FollowsResourceReferencers(t *testing.T) {
	cat := testutil.NewBuilder(t).WithStandardDrawing().Build()
	dashed := cat.Linetypes().Get("Dashed")
	walls := cat.Layers().Get("Walls")

	out := ReferenceTree(cat, dashed)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Equal(t, Label(dashed), lines[0])
	require.Contains(t, out, Label(walls)+"  [linetype]")
	require.Greater(t, len(lines), 2, "the layer is expanded with its own referencers")
}

func TestReferenceTree_Unreferenced(t *testing.T) {
	cat := testutil.NewBuilder(t).WithStandardDrawing().Build()
	center := cat.Linetypes().Get("Center")
	hidden := cat.Layers().Get("Hidden")
	require.NoError(t, hidden.SetLinetype(cat.Linetypes().Get("Continuous")))

	out := ReferenceTree(cat, center)
	require.Equal(t, Label(center), strings.TrimRight(out, "\n"))
}

func TestLabel(t *testing.T) {
	cat := testutil.NewBuilder(t).WithStandardDrawing().Build()
	walls := cat.Layers().Get("Walls")
	require.Equal(t, "layer Walls ("+walls.Handle().String()+")", Label(walls))

	e := cat.Entities()[0]
	require.Equal(t, "INSERT "+e.Handle().String()+" in *Model_Space", Label(e))
}

func TestDependencyTree(t *testing.T) {
	cat := testutil.NewBuilder(t).WithStandardDrawing().Build()
	out := DependencyTree(cat)
	require.True(t, strings.HasPrefix(out, "blocks\n"))
	require.Contains(t, out, "block Door")
	require.Contains(t, out, "layer Doors")
}
