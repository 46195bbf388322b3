package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/config"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/linfile"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/render"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/tracing"
)

var (
	linFrom     string
	linRemember bool
)

var linCmd = &cobra.Command{
	Use:   "lin",
	Short: "Work with .lin line type libraries",
}

var linListCmd = &cobra.Command{
	Use:   "list [file...]",
	Short: "List the line types in library files",
	Long: `List the definitions in the given .lin files, or in the libraries named
by linetypes.libraries in the config when no file is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return traced(cmd, func(ctx context.Context) error {
			files := args
			if len(files) == 0 {
				files = cfg.Linetypes.Libraries
			}
			if len(files) == 0 {
				return fmt.Errorf("no library files given and linetypes.libraries is empty")
			}

			tbl := &render.Table{
				Headers: []string{"NAME", "FILE", "SEGMENTS", "LENGTH", "DESCRIPTION"},
				Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Left, lipgloss.Right, lipgloss.Right},
				Styled:  styled(cmd.OutOrStdout()),
			}
			for _, file := range files {
				defs, err := lineLibrary().Load(ctx, expandPath(file))
				if err != nil {
					return err
				}
				for _, d := range defs {
					segments := strconv.Itoa(len(d.Segments))
					if d.Complex() {
						segments += "*"
					}
					tbl.Rows = append(tbl.Rows, []string{
						d.Name, filepath.Base(file), segments,
						strconv.FormatFloat(d.PatternLength(), 'g', -1, 64), d.Description,
					})
				}
			}
			return tbl.Render(cmd.OutOrStdout())
		})
	},
}

var linImportCmd = &cobra.Command{
	Use:   "import <manifest> [name...]",
	Short: "Add line types from a library to a drawing",
	Long: `Copy line type definitions into a drawing and write the manifest back.

With --from, names are looked up in that file and no names means every
definition in it. Without --from, each name is searched for in the
configured libraries in order. Line types the drawing already has are left
unchanged. Text styles used by complex line types are added when missing.

Examples:
  dxfcat lin import office.yaml --from acad.lin DASHED HIDDEN
  dxfcat lin import office.yaml --from company.lin --remember
  dxfcat lin import office.yaml FENCELINE1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, names := args[0], args[1:]
		return traced(cmd, func(ctx context.Context) error {
			_, cat, err := openDrawing(ctx, path)
			if err != nil {
				return err
			}

			var imported []*catalog.Linetype
			if linFrom != "" {
				from := expandPath(linFrom)
				defs, err := lineLibrary().Load(ctx, from)
				if err != nil {
					return err
				}
				if imported, err = linfile.Import(cat, defs, names...); err != nil {
					return err
				}
				if linRemember {
					if err := rememberLibrary(from); err != nil {
						return err
					}
				}
			} else {
				if len(names) == 0 {
					return fmt.Errorf("name the line types to import, or pass --from")
				}
				for _, name := range names {
					d, _, err := lineLibrary().Search(ctx, expandAll(cfg.Linetypes.Libraries), name)
					if err != nil {
						return err
					}
					lts, err := linfile.Import(cat, []*linfile.Definition{d})
					if err != nil {
						return err
					}
					imported = append(imported, lts...)
				}
			}

			if err := saveDrawing(ctx, path, cat); err != nil {
				return err
			}
			for _, lt := range imported {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", lt.Name())
			}
			return nil
		}, attribute.String(tracing.AttrManifest, path))
	},
}

var linExportCmd = &cobra.Command{
	Use:   "export <manifest> <file> [name...]",
	Short: "Write a drawing's line types to a .lin file",
	Long: `Write line types from a drawing to a .lin library, all user defined ones
when no name is given. The file is replaced.

Examples:
  dxfcat lin export office.yaml office.lin
  dxfcat lin export office.yaml fences.lin FENCE1 FENCE2`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, out, names := args[0], args[1], args[2:]
		return traced(cmd, func(ctx context.Context) error {
			_, cat, err := openDrawing(ctx, path)
			if err != nil {
				return err
			}

			var defs []*linfile.Definition
			if len(names) == 0 {
				for _, lt := range cat.Linetypes().Items() {
					if !lt.IsReserved() {
						defs = append(defs, linfile.FromLinetype(lt))
					}
				}
			} else {
				for _, name := range names {
					lt, ok := cat.Linetypes().TryGet(name)
					if !ok {
						return fmt.Errorf("%w: line type %q", catalog.ErrNotFound, name)
					}
					defs = append(defs, linfile.FromLinetype(lt))
				}
			}
			if err := linfile.WriteFile(out, defs); err != nil {
				return err
			}
			_ = lineLibrary().Invalidate(ctx, out)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d line types to %s\n", len(defs), out)
			return err
		}, attribute.String(tracing.AttrManifest, path))
	},
}

// rememberLibrary adds path to linetypes.libraries in the config file in use.
func rememberLibrary(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPath = filepath.Join(config.DefaultConfigDir(), "config.yaml")
	}
	if err := config.AddLibrary(configPath, abs, cfg.Linetypes.Libraries); err != nil {
		return fmt.Errorf("saving library path: %w", err)
	}
	if !slices.Contains(cfg.Linetypes.Libraries, abs) {
		cfg.Linetypes.Libraries = append(cfg.Linetypes.Libraries, abs)
	}
	return nil
}

func expandAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = expandPath(p)
	}
	return out
}

func init() {
	linImportCmd.Flags().StringVarP(&linFrom, "from", "f", "", "library file to import from")
	linImportCmd.Flags().BoolVar(&linRemember, "remember", false, "add --from to linetypes.libraries in the config")
	linCmd.AddCommand(linListCmd, linImportCmd, linExportCmd)
	rootCmd.AddCommand(linCmd)
}
