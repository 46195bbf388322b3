package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/browser"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/pubsub"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
)

var browseCmd = &cobra.Command{
	Use:   "browse <manifest>",
	Short: "Browse a drawing's tables interactively",
	Long: `Open a terminal browser over the drawing's tables. Removing entries in the
browser only changes the loaded catalog; the manifest is not written. Press r
to rebuild from disk and ? for the key list. Recent changes to the catalog are
listed under the details pane.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return traced(cmd, func(ctx context.Context) error {
			broker := pubsub.NewBroker[catalog.Change]()
			defer broker.Close()

			events := catalog.WithEvents(broker)
			f, cat, err := openDrawing(ctx, path, events)
			if err != nil {
				return err
			}
			m := browser.New(cat, reloader(path, libraryFiles(f), events)).
				WithChanges(ctx, broker).
				WithLog(ctx)
			return browser.Run(m)
		}, attribute.String(tracing.AttrManifest, path))
	},
}

// reloader rebuilds the drawing from disk, rereading its libraries.
func reloader(path string, libraries []string, opts ...catalog.Option) browser.Loader {
	return func(ctx context.Context) (*catalog.Catalog, error) {
		for _, lib := range libraries {
			_ = lineLibrary().Invalidate(ctx, lib)
		}
		_, cat, err := openDrawing(ctx, path, opts...)
		return cat, err
	}
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
