package linfile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/cachemanager"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
)

// libraryPath is a cache key: an absolute, cleaned file path.
type libraryPath string

// Library loads .lin files and keeps the parsed definitions for a while, so
// repeated lookups in the same file parse it once.
type Library struct {
	cache *cachemanager.InMemoryCacheManager[libraryPath, []*Definition]
	rt    *cachemanager.ReadThroughCache[libraryPath, []*Definition, string]
	ttl   time.Duration
}

// NewLibrary creates a loader whose entries live for ttl. A zero ttl turns
// caching off.
func NewLibrary(ttl time.Duration) *Library {
	cache := cachemanager.NewInMemoryCacheManager[libraryPath, []*Definition](
		"linetype-libraries", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return &Library{
		cache: cache,
		rt:    cachemanager.NewReadThroughCache[libraryPath, []*Definition, string](cache, readTraced, ttl <= 0),
		ttl:   ttl,
	}
}

func readTraced(ctx context.Context, path string) ([]*Definition, error) {
	_, span := otel.Tracer("dxfcat/linfile").Start(ctx, "linfile.Read")
	defer span.End()
	span.SetAttributes(attribute.String("linfile.path", path))

	defs, err := ReadFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("linfile.definitions", len(defs)))
	log.Debug(log.CatLinetype, "Parsed line type library", "path", path, "definitions", len(defs))
	return defs, nil
}

func keyFor(path string) (libraryPath, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return libraryPath(filepath.Clean(abs)), nil
}

// Load returns the definitions in the file at path.
func (l *Library) Load(ctx context.Context, path string) ([]*Definition, error) {
	key, err := keyFor(path)
	if err != nil {
		return nil, err
	}
	return l.rt.Get(ctx, key, string(key), l.ttl)
}

// Lookup returns the named definition from the file at path.
func (l *Library) Lookup(ctx context.Context, path, name string) (*Definition, error) {
	defs, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	d, ok := Find(defs, name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, name, path)
	}
	return d, nil
}

// Search looks for name in each file in turn and returns the first match
// together with the file it came from.
func (l *Library) Search(ctx context.Context, paths []string, name string) (*Definition, string, error) {
	for _, p := range paths {
		defs, err := l.Load(ctx, p)
		if err != nil {
			return nil, "", err
		}
		if d, ok := Find(defs, name); ok {
			return d, p, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Invalidate forgets the parsed contents of path, for example after the file
// changed on disk.
func (l *Library) Invalidate(ctx context.Context, path string) error {
	key, err := keyFor(path)
	if err != nil {
		return err
	}
	return l.rt.Invalidate(ctx, key)
}

// Cached returns how many files are currently cached.
func (l *Library) Cached() int {
	return l.cache.Count()
}
