package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
)

// ErrNotRemovable is returned when an entry is reserved or still referenced.
var ErrNotRemovable = errors.New("entry cannot be removed")

var removeDryRun bool

var removeCmd = &cobra.Command{
	Use:   "remove <manifest> <kind> <name>",
	Short: "Remove an unused table entry",
	Long: `Remove a table entry and write the manifest back in normalized form.

Reserved entries (layer 0, Standard styles, ByLayer and the like) and
entries something still references are refused; use "dxfcat refs" to see
what holds on to them.

Examples:
  dxfcat remove office.yaml layer Scratch
  dxfcat remove office.yaml linetype Dashed --dry-run`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, kind, name := args[0], args[1], args[2]
		return traced(cmd, func(ctx context.Context) error {
			_, cat, err := openDrawing(ctx, path)
			if err != nil {
				return err
			}
			t, r, err := findResource(cat, kind, name)
			if err != nil {
				return err
			}
			name = r.Name()
			if !t.Remove(name) {
				reason := fmt.Sprintf("referenced %d times", len(t.GetReferences(name)))
				if r.IsReserved() {
					reason = "reserved"
				}
				return fmt.Errorf("%w: %s %s is %s", ErrNotRemovable, t.Kind(), name, reason)
			}
			trace.SpanFromContext(ctx).SetAttributes(attribute.Bool(tracing.AttrRemoved, true))

			if !removeDryRun {
				if err := saveDrawing(ctx, path, cat); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s %s\n", t.Kind(), name)
			return err
		},
			attribute.String(tracing.AttrManifest, path),
			attribute.String(tracing.AttrKind, kind),
			attribute.String(tracing.AttrResourceName, name))
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&removeDryRun, "dry-run", "n", false, "check without writing the manifest")
	rootCmd.AddCommand(removeCmd)
}
