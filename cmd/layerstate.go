package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/infrastructure/sqlite"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/render"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
)

var (
	layerStateDescription string
	layerStateEmbed       bool
)

var layerStateCmd = &cobra.Command{
	Use:     "layerstate",
	Aliases: []string{"ls"},
	Short:   "Save and restore named layer states",
	Long: `Layer states are snapshots of every layer's color, line type, lineweight,
transparency and visibility flags. They are kept in the layer state store
(database in the config), keyed by the manifest's absolute path.`,
}

var layerStateSaveCmd = &cobra.Command{
	Use:   "save <manifest> <name>",
	Short: "Snapshot the current layers",
	Long: `Snapshot the drawing's layers under name, replacing a state with the same
name. With --embed the state is also written into the manifest.

Examples:
  dxfcat layerstate save office.yaml "Plan" -d "walls only"
  dxfcat layerstate save office.yaml Print --embed`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, name := args[0], args[1]
		return withStore(cmd, path, func(ctx context.Context, repo sqlite.LayerStateRepository, drawing string) error {
			_, cat, err := openDrawing(ctx, path)
			if err != nil {
				return err
			}
			st, err := cat.LayerStates().Save(name, layerStateDescription)
			if err != nil {
				return err
			}
			if err := repo.Save(drawing, st); err != nil {
				return err
			}
			if layerStateEmbed {
				if err := saveDrawing(ctx, path, cat); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved layer state %s (%d layers)\n", st.Name, len(st.Properties))
			return err
		}, attribute.String(tracing.AttrResourceName, name))
	},
}

var layerStateListCmd = &cobra.Command{
	Use:   "list <manifest>",
	Short: "List the stored layer states of a drawing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, args[0], func(_ context.Context, repo sqlite.LayerStateRepository, drawing string) error {
			states, err := repo.List(drawing)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(states) == 0 {
				_, err := fmt.Fprintln(w, "no layer states")
				return err
			}
			tbl := &render.Table{
				Headers: []string{"NAME", "LAYERS", "CURRENT", "DESCRIPTION"},
				Styled:  styled(w),
			}
			for _, st := range states {
				tbl.Rows = append(tbl.Rows, []string{
					st.Name, strconv.Itoa(len(st.Properties)), st.CurrentLayer, st.Description,
				})
			}
			return tbl.Render(w)
		})
	},
}

var layerStateRestoreCmd = &cobra.Command{
	Use:   "restore <manifest> <name>",
	Short: "Apply a stored layer state to the drawing",
	Long: `Apply a stored layer state to the layers that still exist and write the
manifest back. Layers added since the state was saved are not touched, and a
saved line type the drawing no longer has is skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, name := args[0], args[1]
		return withStore(cmd, path, func(ctx context.Context, repo sqlite.LayerStateRepository, drawing string) error {
			st, err := repo.FindByName(drawing, name)
			if err != nil {
				return err
			}
			_, cat, err := openDrawing(ctx, path)
			if err != nil {
				return err
			}
			if err := cat.LayerStates().Add(st); err != nil {
				return err
			}
			n, err := cat.LayerStates().Restore(st.Name, catalog.RestoreAll)
			if err != nil {
				return err
			}
			if err := saveDrawing(ctx, path, cat); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "restored layer state %s (%d layers)\n", st.Name, n)
			return err
		}, attribute.String(tracing.AttrResourceName, name))
	},
}

var layerStateDeleteCmd = &cobra.Command{
	Use:   "delete <manifest> <name>",
	Short: "Delete a stored layer state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, name := args[0], args[1]
		return withStore(cmd, path, func(_ context.Context, repo sqlite.LayerStateRepository, drawing string) error {
			if err := repo.Delete(drawing, name); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted layer state %s\n", name)
			return err
		}, attribute.String(tracing.AttrResourceName, name))
	},
}

// withStore opens the layer state store around fn.
func withStore(cmd *cobra.Command, path string, fn func(context.Context, sqlite.LayerStateRepository, string) error, attrs ...attribute.KeyValue) error {
	attrs = append(attrs, attribute.String(tracing.AttrManifest, path))
	return traced(cmd, func(ctx context.Context) error {
		drawing, err := drawingKey(path)
		if err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return fn(ctx, db.LayerStateRepository(), drawing)
	}, attrs...)
}

func init() {
	layerStateSaveCmd.Flags().StringVarP(&layerStateDescription, "description", "d", "", "description stored with the state")
	layerStateSaveCmd.Flags().BoolVar(&layerStateEmbed, "embed", false, "also write the state into the manifest")
	layerStateCmd.AddCommand(layerStateSaveCmd, layerStateListCmd, layerStateRestoreCmd, layerStateDeleteCmd)
	rootCmd.AddCommand(layerStateCmd)
}
