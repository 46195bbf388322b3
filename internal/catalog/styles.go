package catalog

import "fmt"

// TextStyle describes the font used by text entities.
type TextStyle struct {
	tableObject
	FontFile     string
	BigFontFile  string
	Height       float64
	WidthFactor  float64
	ObliqueAngle float64
	Vertical     bool
	Backward     bool
	UpsideDown   bool
}

// NewTextStyle creates a detached text style.
func NewTextStyle(name, fontFile string) (*TextStyle, error) {
	if err := ValidateName(KindTextStyle, name); err != nil {
		return nil, err
	}
	if fontFile == "" {
		return nil, fmt.Errorf("%w: text style %q needs a font file", ErrInvalidArgument, name)
	}
	return newTextStyle(name, fontFile), nil
}

func newTextStyle(name, fontFile string) *TextStyle {
	s := &TextStyle{FontFile: fontFile, WidthFactor: 1}
	s.init(s, KindTextStyle, name)
	return s
}

// ShapeStyle names a compiled shape file used by line type shape segments.
type ShapeStyle struct {
	tableObject
	File string
	Size float64
}

// NewShapeStyle creates a detached shape style.
func NewShapeStyle(name, file string) (*ShapeStyle, error) {
	if err := ValidateName(KindShapeStyle, name); err != nil {
		return nil, err
	}
	if file == "" {
		return nil, fmt.Errorf("%w: shape style %q needs a file", ErrInvalidArgument, name)
	}
	s := &ShapeStyle{File: file}
	s.init(s, KindShapeStyle, name)
	return s, nil
}
