package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/render"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
)

var (
	showKind string
	showDeps bool
)

var showCmd = &cobra.Command{
	Use:   "show <manifest>",
	Short: "Summarize a drawing's tables",
	Long: `Print how many entries each table holds and how many are in use.

With --kind, list the entries of one table instead, with their handles,
reference counts and flags. With --deps, print which layers, line types and
blocks every block and model space entity depends on.

Examples:
  dxfcat show office.yaml
  dxfcat show office.yaml --kind layer
  dxfcat show office.yaml -k dimstyle
  dxfcat show office.yaml --deps`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return traced(cmd, func(ctx context.Context) error {
			_, cat, err := openDrawing(ctx, path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case showDeps:
				_, err = fmt.Fprint(w, render.DependencyTree(cat))
				return err
			case showKind != "":
				t, err := findTable(cat, showKind)
				if err != nil {
					return err
				}
				tbl := render.ResourceTable(t)
				tbl.Styled = styled(w)
				return tbl.Render(w)
			default:
				return render.Summary(w, cat, styled(w))
			}
		}, attribute.String(tracing.AttrManifest, path), attribute.String(tracing.AttrKind, showKind))
	},
}

func init() {
	showCmd.Flags().StringVarP(&showKind, "kind", "k", "", "list the entries of one table")
	showCmd.Flags().BoolVar(&showDeps, "deps", false, "print block and entity dependencies")
	showCmd.MarkFlagsMutuallyExclusive("kind", "deps")
	rootCmd.AddCommand(showCmd)
}
