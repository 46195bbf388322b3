package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/watcher"
)

func startWatcher(t *testing.T, paths ...string) <-chan []string {
	t.Helper()
	w, err := watcher.New(watcher.Config{Paths: paths, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err)
	return onChange
}

func resolved(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "office.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("layers: []"), 0o644))

	onChange := startWatcher(t, manifest)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(manifest, []byte(fmt.Sprintf("# %d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case paths := <-onChange:
		require.Equal(t, []string{resolved(t, manifest)}, paths)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_ReportsEveryChangedFile(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "office.yaml")
	lin := filepath.Join(t.TempDir(), "office.lin")
	require.NoError(t, os.WriteFile(manifest, []byte(""), 0o644))
	require.NoError(t, os.WriteFile(lin, []byte(""), 0o644))

	onChange := startWatcher(t, manifest, lin)

	require.NoError(t, os.WriteFile(lin, []byte("*DASHED\nA,.5,-.25\n"), 0o644))
	require.NoError(t, os.WriteFile(manifest, []byte("layers: []"), 0o644))

	select {
	case paths := <-onChange:
		require.ElementsMatch(t, []string{resolved(t, manifest), resolved(t, lin)}, paths)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "office.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(manifest, []byte(""), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("initial"), 0o644))

	onChange := startWatcher(t, manifest)

	require.NoError(t, os.WriteFile(other, []byte("other content"), 0o644))

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_RenameOnSave(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "office.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(""), 0o644))

	onChange := startWatcher(t, manifest)

	tmp := filepath.Join(dir, ".office.yaml.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("layers: []"), 0o644))
	require.NoError(t, os.Rename(tmp, manifest))

	select {
	case paths := <-onChange:
		require.Equal(t, []string{resolved(t, manifest)}, paths)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for a file replaced by rename")
	}
}

func TestWatcher_Stop(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "office.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(""), 0o644))

	w, err := watcher.New(watcher.DefaultConfig(manifest))
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		assert.NoError(t, w.Stop(), "second Stop is a no-op")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestNew_NeedsPaths(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("a.yaml", "b.lin")
	assert.Equal(t, []string{"a.yaml", "b.lin"}, cfg.Paths)
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce)
}
