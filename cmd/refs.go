package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/render"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
)

var refsCmd = &cobra.Command{
	Use:   "refs <manifest> <kind> <name>",
	Short: "Show what references a table entry",
	Long: `Print the objects that reference a table entry as a tree. Blocks, layers
and other entries that are themselves referenced are expanded in turn.

Examples:
  dxfcat refs office.yaml layer Walls
  dxfcat refs office.yaml linetype Dashed
  dxfcat refs office.yaml block Door`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, kind, name := args[0], args[1], args[2]
		return traced(cmd, func(ctx context.Context) error {
			_, cat, err := openDrawing(ctx, path)
			if err != nil {
				return err
			}
			_, r, err := findResource(cat, kind, name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), render.ReferenceTree(cat, r))
			return err
		},
			attribute.String(tracing.AttrManifest, path),
			attribute.String(tracing.AttrKind, kind),
			attribute.String(tracing.AttrResourceName, name))
	},
}

func init() {
	rootCmd.AddCommand(refsCmd)
}
