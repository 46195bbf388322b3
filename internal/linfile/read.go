package linfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadFile parses the library at path.
func ReadFile(path string) ([]*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening line type library: %w", err)
	}
	defer f.Close()
	return read(f, path)
}

// Read parses a library. Definitions are returned in file order; a name
// defined twice appears twice and Find returns the first.
func Read(r io.Reader) ([]*Definition, error) {
	return read(r, "")
}

func read(r io.Reader, file string) ([]*Definition, error) {
	var (
		defs    []*Definition
		pending *Definition
		lineNo  int
	)
	fail := func(format string, args ...any) error {
		return &ParseError{File: file, Line: lineNo, Msg: fmt.Sprintf(format, args...)}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		switch {
		case line[0] == '*':
			if pending != nil {
				return nil, fail("line type %q has no pattern", pending.Name)
			}
			name, desc, _ := strings.Cut(line[1:], ",")
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fail("missing line type name")
			}
			pending = &Definition{Name: name, Description: strings.TrimSpace(desc)}

		case line[0] == 'A' || line[0] == 'a':
			if pending == nil {
				return nil, fail("pattern without a line type header")
			}
			segs, err := parsePattern(line)
			if err != nil {
				return nil, fail("%s: %v", pending.Name, err)
			}
			pending.Segments = segs
			defs = append(defs, pending)
			pending = nil

		default:
			return nil, fail("unexpected line %q", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading line type library: %w", err)
	}
	if pending != nil {
		return nil, fail("line type %q has no pattern", pending.Name)
	}
	return defs, nil
}

// Find returns the first definition named name, ignoring case.
func Find(defs []*Definition, name string) (*Definition, bool) {
	for _, d := range defs {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return nil, false
}

func parsePattern(line string) ([]Segment, error) {
	fields, err := splitFields(line)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(fields[0]), "A") {
		return nil, fmt.Errorf("unsupported alignment %q", fields[0])
	}

	var segs []Segment
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if f[0] == '[' {
			if len(segs) == 0 || segs[len(segs)-1].Kind != Simple {
				return nil, fmt.Errorf("element %s must follow a dash", f)
			}
			if err := decorate(&segs[len(segs)-1], f); err != nil {
				return nil, err
			}
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid length %q", f)
		}
		segs = append(segs, Segment{Kind: Simple, Length: v})
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty pattern")
	}
	return segs, nil
}

// decorate turns s into a text or shape segment described by spec, which
// still has its brackets.
func decorate(s *Segment, spec string) error {
	if !strings.HasSuffix(spec, "]") {
		return fmt.Errorf("unterminated element %s", spec)
	}
	fields, err := splitFields(spec[1 : len(spec)-1])
	if err != nil {
		return err
	}
	if len(fields) < 2 {
		return fmt.Errorf("element %s needs a style", spec)
	}

	first := strings.TrimSpace(fields[0])
	if strings.HasPrefix(first, `"`) {
		text, err := strconv.Unquote(first)
		if err != nil {
			return fmt.Errorf("invalid text %s", first)
		}
		s.Kind = Text
		s.Text = text
	} else {
		if first == "" {
			return fmt.Errorf("element %s has no shape name", spec)
		}
		s.Kind = Shape
		s.Shape = first
	}
	s.Style = strings.TrimSpace(fields[1])
	if s.Style == "" {
		return fmt.Errorf("element %s needs a style", spec)
	}
	s.Scale = 1

	for _, f := range fields[2:] {
		key, val, ok := strings.Cut(strings.TrimSpace(f), "=")
		if !ok {
			return fmt.Errorf("invalid transform %q", f)
		}
		val = strings.TrimSpace(val)
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "S":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid scale %q", val)
			}
			s.Scale = v
		case "R", "U":
			v, err := parseAngle(val)
			if err != nil {
				return err
			}
			s.Rotation, s.Absolute = v, false
		case "A":
			v, err := parseAngle(val)
			if err != nil {
				return err
			}
			s.Rotation, s.Absolute = v, true
		case "X":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid x offset %q", val)
			}
			s.X = v
		case "Y":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid y offset %q", val)
			}
			s.Y = v
		default:
			return fmt.Errorf("unknown transform %q", key)
		}
	}
	return nil
}

// parseAngle reads an angle in degrees. A trailing d, r or g marks degrees,
// radians or grads.
func parseAngle(val string) (float64, error) {
	scale := 1.0
	if n := len(val); n > 0 {
		switch val[n-1] {
		case 'd', 'D':
			val = val[:n-1]
		case 'r', 'R':
			val, scale = val[:n-1], 180/math.Pi
		case 'g', 'G':
			val, scale = val[:n-1], 0.9
		}
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid angle %q", val)
	}
	return v * scale, nil
}

// splitFields splits on commas that are outside brackets and quotes.
func splitFields(s string) ([]string, error) {
	var (
		fields []string
		depth  int
		quoted bool
		start  int
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced ']'")
			}
		case c == ',' && depth == 0:
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced '['")
	}
	return append(fields, s[start:]), nil
}
