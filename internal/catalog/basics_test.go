package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		ok   bool
	}{
		{KindLayer, "Walls", true},
		{KindLayer, "Étage 2", true},
		{KindLayer, "", false},
		{KindLayer, "  ", false},
		{KindLayer, " padded", false},
		{KindLayer, "a/b", false},
		{KindLayer, "a*b", false},
		{KindLayer, "*Star", false},
		{KindBlock, "*Model_Space", true},
		{KindBlock, "*U12", true},
		{KindBlock, "**", false},
		{KindGroup, "*A3", true},
		{KindTextStyle, "x=y", false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.name, func(t *testing.T) {
			err := ValidateName(tt.kind, tt.name)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidName)
				require.ErrorIs(t, err, ErrInvalidArgument)
			}
		})
	}
}

func TestKey_CaseFolding(t *testing.T) {
	require.Equal(t, Key("WALLS"), Key("walls"))
	require.True(t, SameName("Straße", "STRASSE"))
	require.False(t, SameName("A", "B"))
}

func TestHandle(t *testing.T) {
	require.Equal(t, "1F", Handle(31).String())
	require.True(t, Handle(0).IsZero())

	h, err := ParseHandle("1f")
	require.NoError(t, err)
	require.Equal(t, Handle(31), h)

	_, err = ParseHandle("zz")
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ParseHandle("0")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}
	got, err := ParseKind("Layers")
	require.NoError(t, err)
	require.Equal(t, KindLayer, got)
	got, err = ParseKind("UnderlayPdf")
	require.NoError(t, err)
	require.Equal(t, KindUnderlayPdf, got)

	_, err = ParseKind("hatchpattern")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReferenceSet(t *testing.T) {
	rs := NewReferenceSet()
	a := NewLine(Vector3{}, Vector3{X: 1})
	b := NewLine(Vector3{}, Vector3{Y: 1})

	rs.Add(a, RelLayer)
	rs.Add(a, RelLayer)
	rs.Add(a, RelLinetype)
	rs.Add(b, RelLayer)

	require.Equal(t, 3, rs.Len())
	require.Equal(t, []Object{a, b}, rs.Referencers())

	require.True(t, rs.RemoveRelation(a, RelLayer))
	require.Equal(t, 3, rs.Len(), "one use of (a, layer) remains")
	require.True(t, rs.RemoveRelation(a, RelLayer))
	require.Equal(t, 2, rs.Len())
	require.False(t, rs.RemoveRelation(a, RelLayer))

	require.Equal(t, 1, rs.Remove(b))
	require.True(t, rs.Contains(a))
	require.False(t, rs.Contains(b))
	require.Equal(t, []Reference{{Referencer: a, Relation: RelLinetype}}, rs.Snapshot())

	rs.Remove(a)
	require.True(t, rs.IsEmpty())
}

func TestLineweight(t *testing.T) {
	require.True(t, LineweightByLayer.Valid())
	require.True(t, Lineweight(25).Valid())
	require.False(t, Lineweight(26).Valid())
	require.Equal(t, "0.25mm", Lineweight(25).String())
}

func TestLayer_PropertyValidation(t *testing.T) {
	l := mustLayer(t, "L")
	require.ErrorIs(t, l.SetColor(ColorByLayer), ErrInvalidArgument)
	require.ErrorIs(t, l.SetColor(Color(300)), ErrInvalidArgument)
	require.NoError(t, l.SetColor(ColorCyan))
	require.ErrorIs(t, l.SetTransparency(91), ErrInvalidArgument)
	require.ErrorIs(t, l.SetLineweight(LineweightByBlock), ErrInvalidArgument)
	require.NoError(t, l.SetLineweight(35))
}
