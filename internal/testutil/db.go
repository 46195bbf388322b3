// Package testutil provides fixtures for tests: a migrated layer-state
// database and a builder for populated catalogs.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/infrastructure/sqlite"
)

// NewTestDB creates a migrated layer-state database in a temporary
// directory. It is closed when the test completes.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "layerstates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
