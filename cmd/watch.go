package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/manifest"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/render"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <manifest>",
	Short: "Rebuild a drawing whenever its manifest changes",
	Long: `Print the table summary, then rebuild and print it again each time the
manifest or a line type library it uses is saved. Errors are reported and
watching continues. Libraries the manifest starts using while watching are
read but not watched until the next run. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return traced(cmd, func(ctx context.Context) error {
			return watchDrawing(ctx, cmd.OutOrStdout(), path)
		}, attribute.String(tracing.AttrManifest, path))
	},
}

// watchDrawing runs until ctx is done.
func watchDrawing(ctx context.Context, w io.Writer, path string) error {
	f, err := manifest.Load(path)
	if err != nil {
		return err
	}
	report(ctx, w, path)

	paths := append([]string{path}, libraryFiles(f)...)
	wcfg := watcher.DefaultConfig(paths...)
	if cfg.Watch.Debounce > 0 {
		wcfg.Debounce = cfg.Watch.Debounce
	}
	wt, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	changes, err := wt.Start()
	if err != nil {
		return err
	}
	defer func() { _ = wt.Stop() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-changes:
			if !ok {
				return nil
			}
			log.Debug(log.CatCLI, "Drawing inputs changed", "files", changed)
			for _, p := range changed {
				if p != abs {
					_ = lineLibrary().Invalidate(ctx, p)
				}
			}
			_, _ = fmt.Fprintf(w, "\n%s  %s changed\n", time.Now().Format(time.TimeOnly), filepath.Base(changed[0]))
			report(ctx, w, path)
		}
	}
}

// report rebuilds the drawing and prints its summary or the error.
func report(ctx context.Context, w io.Writer, path string) {
	_, cat, err := openDrawing(ctx, path)
	if err != nil {
		log.ErrorErr(log.CatCLI, "Rebuild failed", err, "path", path)
		msg := "error: " + err.Error()
		if styled(w) {
			msg = render.ErrorStyle.Render(msg)
		}
		_, _ = fmt.Fprintln(w, msg)
		return
	}
	_ = render.Summary(w, cat, styled(w))
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
