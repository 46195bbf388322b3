package linfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteFile writes defs to path, replacing the file.
func WriteFile(path string, defs []*Definition) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating line type library: %w", err)
	}
	if err := Write(f, defs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write writes defs in .lin syntax. The output reads back to equal
// definitions.
func Write(w io.Writer, defs []*Definition) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ";; Line types exported by dxfcat")
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("linfile: definition without a name")
		}
		fmt.Fprintln(bw, ";;")
		fmt.Fprintf(bw, "*%s,%s\n", d.Name, d.Description)
		fmt.Fprintln(bw, formatPattern(d.Segments))
	}
	return bw.Flush()
}

func formatPattern(segs []Segment) string {
	var b strings.Builder
	b.WriteString("A")
	for _, s := range segs {
		b.WriteByte(',')
		b.WriteString(formatFloat(s.Length))
		if s.Kind == Simple {
			continue
		}
		b.WriteString(",[")
		if s.Kind == Text {
			b.WriteString(strconv.Quote(s.Text))
		} else {
			b.WriteString(s.Shape)
		}
		b.WriteByte(',')
		b.WriteString(s.Style)
		b.WriteString(",S=" + formatFloat(s.Scale))
		if s.Absolute {
			b.WriteString(",A=" + formatFloat(s.Rotation))
		} else {
			b.WriteString(",R=" + formatFloat(s.Rotation))
		}
		b.WriteString(",X=" + formatFloat(s.X))
		b.WriteString(",Y=" + formatFloat(s.Y))
		b.WriteByte(']')
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
