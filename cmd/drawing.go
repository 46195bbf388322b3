package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/infrastructure/sqlite"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/linfile"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/manifest"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
)

// lineLibrary is shared by every command in the process so a library file
// referenced twice is parsed once.
var lineLibrary = sync.OnceValue(func() *linfile.Library {
	return linfile.NewLibrary(cfg.Linetypes.CacheTTL)
})

// traced runs fn inside the command's root span.
func traced(cmd *cobra.Command, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	var tracer trace.Tracer
	if provider != nil {
		tracer = provider.Tracer()
	}
	name := strings.TrimPrefix(cmd.CommandPath(), rootCmd.Name()+" ")
	name = strings.ReplaceAll(name, " ", ".")
	return tracing.Run(cmd.Context(), tracer, name, fn, attrs...)
}

// openDrawing loads a manifest and builds its catalog.
func openDrawing(ctx context.Context, path string, opts ...catalog.Option) (*manifest.File, *catalog.Catalog, error) {
	f, err := manifest.Load(path)
	if err != nil {
		return nil, nil, err
	}
	cat, err := manifest.ApplyFile(ctx, f, manifest.Options{Library: lineLibrary(), Catalog: opts})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(tracing.AttrHandleCount, cat.HandleCount()))
	log.Debug(log.CatCLI, "Opened drawing", "path", path, "handles", cat.HandleCount())
	return f, cat, nil
}

// saveDrawing writes the catalog back to path in normalized form.
func saveDrawing(ctx context.Context, path string, cat *catalog.Catalog) error {
	if err := manifest.Save(path, manifest.Dump(ctx, cat)); err != nil {
		return err
	}
	log.Info(log.CatCLI, "Saved drawing", "path", path)
	return nil
}

// libraryFiles lists the .lin files a manifest reads, resolved the same
// way Apply resolves them.
func libraryFiles(f *manifest.File) []string {
	seen := make(map[string]bool)
	var out []string
	for _, lt := range f.Linetypes {
		if lt.Library == "" {
			continue
		}
		p := lt.Library
		if !filepath.IsAbs(p) {
			p = filepath.Join(f.Dir(), p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// findTable resolves a kind name such as "layer" or "dimstyles".
func findTable(cat *catalog.Catalog, kind string) (catalog.Table, error) {
	k, err := catalog.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	t, ok := cat.Table(k)
	if !ok {
		return nil, fmt.Errorf("%w: no %s table", catalog.ErrNotFound, k)
	}
	return t, nil
}

// findResource resolves a kind and name to a catalog entry.
func findResource(cat *catalog.Catalog, kind, name string) (catalog.Table, catalog.Resource, error) {
	t, err := findTable(cat, kind)
	if err != nil {
		return nil, nil, err
	}
	r, ok := t.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s %q", catalog.ErrNotFound, t.Kind(), name)
	}
	return t, r, nil
}

// openStore opens the layer state database named by the config.
func openStore() (*sqlite.DB, error) {
	db, err := sqlite.NewDB(expandPath(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("opening layer state store: %w", err)
	}
	return db, nil
}

// drawingKey identifies a drawing in the layer state store.
func drawingKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// styled reports whether w is a terminal that should get colored output.
func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
