package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
)

// ResourceTable lists the entries of one table with their handle, reference
// count and a kind-specific detail column.
func ResourceTable(t catalog.Table) *Table {
	tbl := &Table{
		Headers: []string{"NAME", "HANDLE", "REFS", "FLAGS", "DETAIL"},
		Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Right, lipgloss.Right},
	}
	for _, r := range t.Resources() {
		tbl.Rows = append(tbl.Rows, []string{
			r.Name(),
			r.Handle().String(),
			strconv.Itoa(len(t.GetReferences(r.Name()))),
			flags(r),
			Detail(r),
		})
	}
	return tbl
}

// SummaryTable counts the entries of every table in cat.
func SummaryTable(cat *catalog.Catalog) *Table {
	tbl := &Table{
		Headers: []string{"TABLE", "ENTRIES", "IN USE"},
		Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Right, lipgloss.Right},
	}
	for _, t := range cat.Tables() {
		used := 0
		for _, name := range t.Names() {
			if t.HasReferences(name) {
				used++
			}
		}
		tbl.Rows = append(tbl.Rows, []string{t.Kind().String(), strconv.Itoa(t.Count()), strconv.Itoa(used)})
	}
	tbl.Rows = append(tbl.Rows, []string{"entities", strconv.Itoa(len(cat.Entities())), ""})
	return tbl
}

// Summary writes the per-table counts followed by the layer states.
func Summary(w io.Writer, cat *catalog.Catalog, styled bool) error {
	tbl := SummaryTable(cat)
	tbl.Styled = styled
	if err := tbl.Render(w); err != nil {
		return err
	}
	if names := cat.LayerStates().Names(); len(names) > 0 {
		_, err := fmt.Fprintf(w, "\nlayer states: %s\n", strings.Join(names, ", "))
		return err
	}
	return nil
}

func flags(r catalog.Resource) string {
	var fs []string
	if r.IsReserved() {
		fs = append(fs, "reserved")
	}
	if l, ok := r.(*catalog.Layer); ok {
		if !l.IsVisible() {
			fs = append(fs, "off")
		}
		if l.IsFrozen() {
			fs = append(fs, "frozen")
		}
		if l.IsLocked() {
			fs = append(fs, "locked")
		}
	}
	if r.XData().Len() > 0 {
		fs = append(fs, "xdata")
	}
	return strings.Join(fs, ",")
}

// Detail describes the kind-specific state of r in one line.
func Detail(r catalog.Resource) string {
	switch r := r.(type) {
	case *catalog.Layer:
		return fmt.Sprintf("color=%s linetype=%s lineweight=%s", r.Color(), r.Linetype().Name(), r.Lineweight())
	case *catalog.Linetype:
		return fmt.Sprintf("segments=%d length=%g", r.Segments().Len(), r.Length())
	case *catalog.TextStyle:
		return "font=" + r.FontFile
	case *catalog.ShapeStyle:
		return "file=" + r.File
	case *catalog.Block:
		return fmt.Sprintf("layer=%s entities=%d attributes=%d", r.Layer().Name(), r.Entities().Len(), r.AttributeDefinitions().Len())
	case *catalog.DimensionStyle:
		return fmt.Sprintf("text=%s height=%g", r.TextStyle().Name(), r.TextHeight)
	case *catalog.MLineStyle:
		return fmt.Sprintf("elements=%d", r.Elements().Len())
	case *catalog.Group:
		return fmt.Sprintf("members=%d", r.Entities().Len())
	case *catalog.UCS:
		return "origin=" + r.Origin.String()
	case *catalog.ImageDefinition:
		return fmt.Sprintf("file=%s %dx%d", r.File, r.Width, r.Height)
	case *catalog.UnderlayDefinition:
		return fmt.Sprintf("file=%s page=%s", r.File, r.Page)
	}
	return ""
}
