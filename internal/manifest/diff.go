package manifest

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineOp says how a line of a manifest diff changed.
type LineOp int

const (
	LineEqual LineOp = iota
	LineAdded
	LineDeleted
)

// Prefix is the marker printed before a line in unified form.
func (op LineOp) Prefix() string {
	switch op {
	case LineAdded:
		return "+"
	case LineDeleted:
		return "-"
	default:
		return " "
	}
}

// DiffLine is one line of Diff output.
type DiffLine struct {
	Op   LineOp
	Text string
}

// Diff compares the YAML forms of two manifests line by line. Pass dumped
// manifests to compare drawings rather than their spelling.
func Diff(a, b *Manifest) ([]DiffLine, error) {
	left, err := Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshaling left manifest: %w", err)
	}
	right, err := Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshaling right manifest: %w", err)
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lines := dmp.DiffLinesToChars(string(left), string(right))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := LineEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = LineAdded
		case diffmatchpatch.DiffDelete:
			op = LineDeleted
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out, nil
}

// Changed reports whether any line differs.
func Changed(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != LineEqual {
			return true
		}
	}
	return false
}
