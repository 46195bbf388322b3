package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
)

// setupTestRepo creates a new DB and returns the repository for testing.
// The DB is closed when the test completes.
func setupTestRepo(t *testing.T) LayerStateRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(dbPath)
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { db.Close() })
	return db.LayerStateRepository()
}

// savedState builds a catalog with two extra layers and snapshots it.
func savedState(t *testing.T, name string) *catalog.LayerState {
	t.Helper()
	cat := catalog.New()
	walls, err := catalog.NewLayer("Walls")
	require.NoError(t, err)
	require.NoError(t, walls.SetColor(catalog.ColorRed))
	require.NoError(t, walls.SetLineweight(50))
	walls.SetFrozen(true)
	_, err = cat.Layers().Add(walls)
	require.NoError(t, err)

	doors, err := catalog.NewLayer("Doors")
	require.NoError(t, err)
	require.NoError(t, doors.SetTransparency(40))
	doors.SetPlot(false)
	_, err = cat.Layers().Add(doors)
	require.NoError(t, err)

	st, err := cat.LayerStates().Save(name, "saved by test")
	require.NoError(t, err)
	return st
}

func TestLayerStateRepository_SaveAndFind(t *testing.T) {
	repo := setupTestRepo(t)
	st := savedState(t, "Night")

	require.NoError(t, repo.Save("plan.yaml", st))

	found, err := repo.FindByName("plan.yaml", "Night")
	require.NoError(t, err)
	require.Equal(t, st.ID, found.ID)
	require.Equal(t, "Night", found.Name)
	require.Equal(t, "saved by test", found.Description)
	require.Equal(t, st.CurrentLayer, found.CurrentLayer)
	require.Equal(t, st.Properties, found.Properties, "properties should round-trip in order")
}

func TestLayerStateRepository_FindIgnoresCase(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Save("plan.yaml", savedState(t, "Night")))

	found, err := repo.FindByName("plan.yaml", "NIGHT")
	require.NoError(t, err)
	require.Equal(t, "Night", found.Name, "stored spelling is kept")
}

func TestLayerStateRepository_FindByName_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.FindByName("plan.yaml", "missing")
	require.Error(t, err)

	var notFound *LayerStateNotFoundError
	require.True(t, errors.As(err, &notFound), "Error should be LayerStateNotFoundError")
	require.Equal(t, "missing", notFound.Name)
	require.Equal(t, "plan.yaml", notFound.Drawing)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestLayerStateRepository_SaveReplaces(t *testing.T) {
	repo := setupTestRepo(t)
	first := savedState(t, "Night")
	require.NoError(t, repo.Save("plan.yaml", first))

	second := &catalog.LayerState{
		ID:           uuid.New(),
		Name:         "night",
		Description:  "replaced",
		CurrentLayer: "Walls",
		Properties: []catalog.LayerProperties{
			{Name: "0", Color: catalog.ColorBlue, Linetype: "Continuous", Lineweight: catalog.LineweightDefault, Visible: true, Plot: true},
		},
	}
	require.NoError(t, repo.Save("plan.yaml", second))

	states, err := repo.List("plan.yaml")
	require.NoError(t, err)
	require.Len(t, states, 1, "a same-named state replaces the old one")
	require.Equal(t, "night", states[0].Name)
	require.Equal(t, "replaced", states[0].Description)
	require.Equal(t, "Walls", states[0].CurrentLayer)
	require.Equal(t, second.Properties, states[0].Properties, "old property rows are dropped")
}

func TestLayerStateRepository_SaveRejectsUnnamed(t *testing.T) {
	repo := setupTestRepo(t)

	require.ErrorIs(t, repo.Save("plan.yaml", nil), catalog.ErrInvalidArgument)
	require.ErrorIs(t, repo.Save("plan.yaml", &catalog.LayerState{}), catalog.ErrInvalidArgument)
}

func TestLayerStateRepository_ListOrder(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := newLayerStateRepository(db.conn)
	base := time.Unix(1700000000, 0)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, name := range []string{"Day", "Night", "Print"} {
		require.NoError(t, repo.Save("plan.yaml", &catalog.LayerState{ID: uuid.New(), Name: name, CurrentLayer: "0"}))
	}
	// Resaving keeps the original position.
	require.NoError(t, repo.Save("plan.yaml", &catalog.LayerState{ID: uuid.New(), Name: "Day", CurrentLayer: "0"}))

	states, err := repo.List("plan.yaml")
	require.NoError(t, err)
	names := make([]string, 0, len(states))
	for _, st := range states {
		names = append(names, st.Name)
	}
	require.Equal(t, []string{"Day", "Night", "Print"}, names)
}

func TestLayerStateRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Save("plan.yaml", savedState(t, "Night")))

	require.NoError(t, repo.Delete("plan.yaml", "night"))

	_, err := repo.FindByName("plan.yaml", "Night")
	require.ErrorIs(t, err, catalog.ErrNotFound)

	err = repo.Delete("plan.yaml", "Night")
	var notFound *LayerStateNotFoundError
	require.True(t, errors.As(err, &notFound), "deleting twice reports not found")
}

func TestLayerStateRepository_DeleteCascadesProperties(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	repo := db.LayerStateRepository()

	require.NoError(t, repo.Save("plan.yaml", savedState(t, "Night")))
	require.NoError(t, repo.Delete("plan.yaml", "Night"))

	var count int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM layer_state_properties").Scan(&count))
	require.Zero(t, count, "property rows go with their state")
}

func TestLayerStateRepository_Drawings(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Save("b.yaml", savedState(t, "Night")))
	require.NoError(t, repo.Save("a.yaml", savedState(t, "Night")))
	require.NoError(t, repo.Save("a.yaml", savedState(t, "Day")))

	drawings, err := repo.Drawings()
	require.NoError(t, err)
	require.Equal(t, []string{"a.yaml", "b.yaml"}, drawings)
}

// TestLayerStateRepository_DrawingIsolation is a property-based test using rapid.
// It verifies that states saved for one drawing are never visible from another.
func TestLayerStateRepository_DrawingIsolation(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		repo := setupTestRepo(t)

		numDrawings := rapid.IntRange(2, 4).Draw(r, "numDrawings")
		drawings := make([]string, numDrawings)
		for i := range drawings {
			drawings[i] = rapid.StringMatching(`[a-z]{3,8}\.yaml`).Draw(r, "drawing")
		}

		saved := make(map[string]map[string]bool)
		for _, d := range drawings {
			if saved[d] == nil {
				saved[d] = make(map[string]bool)
			}
			n := rapid.IntRange(1, 5).Draw(r, "numStates")
			for i := 0; i < n; i++ {
				name := rapid.StringMatching(`[A-Za-z]{1,6}`).Draw(r, "name")
				st := &catalog.LayerState{ID: uuid.New(), Name: name, CurrentLayer: "0"}
				if err := repo.Save(d, st); err != nil {
					r.Fatalf("Save failed: %v", err)
				}
				saved[d][catalog.Key(name)] = true
			}
		}

		for d, names := range saved {
			states, err := repo.List(d)
			if err != nil {
				r.Fatalf("List failed: %v", err)
			}
			if len(states) != len(names) {
				r.Fatalf("drawing %q: listed %d states, saved %d distinct names", d, len(states), len(names))
			}
			for _, st := range states {
				if !names[catalog.Key(st.Name)] {
					r.Fatalf("drawing %q leaked state %q", d, st.Name)
				}
			}
		}
	})
}
