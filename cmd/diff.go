package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/manifest"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/render"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
)

// ErrDrawingsDiffer is returned by diff --exit-code when the drawings differ.
var ErrDrawingsDiffer = errors.New("drawings differ")

var (
	diffContext  int
	diffExitCode bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare two drawings",
	Long: `Build both drawings and compare their normalized manifests, so layout,
ordering of equivalent keys and spelled-out defaults do not show up as
changes.

Examples:
  dxfcat diff before.yaml after.yaml
  dxfcat diff before.yaml after.yaml --context 0 --exit-code`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return traced(cmd, func(ctx context.Context) error {
			_, left, err := openDrawing(ctx, args[0])
			if err != nil {
				return err
			}
			_, right, err := openDrawing(ctx, args[1])
			if err != nil {
				return err
			}
			lines, err := manifest.Diff(manifest.Dump(ctx, left), manifest.Dump(ctx, right))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !manifest.Changed(lines) {
				_, err := fmt.Fprintln(w, "no differences")
				return err
			}
			color := styled(w)
			for i, l := range lines {
				if l.Op == manifest.LineEqual && !nearChange(lines, i, diffContext) {
					continue
				}
				text := l.Op.Prefix() + l.Text
				if color {
					switch l.Op {
					case manifest.LineAdded:
						text = render.SuccessStyle.Render(text)
					case manifest.LineDeleted:
						text = render.ErrorStyle.Render(text)
					}
				}
				if _, err := fmt.Fprintln(w, text); err != nil {
					return err
				}
			}
			if diffExitCode {
				return ErrDrawingsDiffer
			}
			return nil
		}, attribute.String(tracing.AttrManifest, args[0]))
	},
}

// nearChange reports whether a changed line lies within n lines of i.
func nearChange(lines []manifest.DiffLine, i, n int) bool {
	for j := max(0, i-n); j <= min(len(lines)-1, i+n); j++ {
		if lines[j].Op != manifest.LineEqual {
			return true
		}
	}
	return false
}

func init() {
	diffCmd.Flags().IntVarP(&diffContext, "context", "U", 3, "unchanged lines to show around each change")
	diffCmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "fail when the drawings differ")
	rootCmd.AddCommand(diffCmd)
}
