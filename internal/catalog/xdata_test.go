package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustXData(t *testing.T, app string) *XData {
	t.Helper()
	reg, err := NewApplicationRegistry(app)
	require.NoError(t, err)
	x, err := NewXData(reg)
	require.NoError(t, err)
	return x
}

func TestXData_RegistersApplication(t *testing.T) {
	c := New()
	l := mustLayer(t, "L")
	x := mustXData(t, "MYAPP")
	x.AddRecord(1000, "note")
	require.NoError(t, l.XData().Add(x))

	_, err := c.Layers().Add(l)
	require.NoError(t, err)

	require.Same(t, c.ApplicationRegistries().Get("MYAPP"), x.ApplicationRegistry())
	require.Equal(t, []Reference{{Referencer: l, Relation: RelXData}}, c.ApplicationRegistries().GetReferences("MYAPP"))
	require.Equal(t, []XDataRecord{{Code: 1000, Value: "note"}}, x.Records())

	require.True(t, l.XData().Remove(x))
	require.False(t, c.ApplicationRegistries().HasReferences("MYAPP"))
}

func TestXData_OnEntity(t *testing.T) {
	c := New()
	line := NewLine(Vector3{}, Vector3{X: 1})
	require.NoError(t, c.AddEntity(line))

	require.NoError(t, line.XData().Add(mustXData(t, "TAGGER")))

	require.True(t, c.ApplicationRegistries().Contains("TAGGER"))
	require.False(t, c.ApplicationRegistries().Remove("TAGGER"))
	require.True(t, c.RemoveEntity(line))
	require.True(t, c.ApplicationRegistries().Remove("TAGGER"))
}

func TestXData_OnePerApplication(t *testing.T) {
	l := mustLayer(t, "L")
	require.NoError(t, l.XData().Add(mustXData(t, "APP")))
	require.ErrorIs(t, l.XData().Add(mustXData(t, "app")), ErrInvalidArgument)
	require.ErrorIs(t, l.XData().Add(nil), ErrInvalidArgument)

	_, err := NewXData(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
