package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolutionUnit is the unit of an image resolution.
type ResolutionUnit int

const (
	ResolutionNone ResolutionUnit = iota
	ResolutionCentimeters
	ResolutionInches
)

// ImageDefinition points at a raster image file.
type ImageDefinition struct {
	tableObject
	File            string
	Width           int
	Height          int
	HorizontalDPI   float64
	VerticalDPI     float64
	ResolutionUnits ResolutionUnit
}

// NewImageDefinition creates a definition named after the file when name is
// empty.
func NewImageDefinition(name, file string, width, height int) (*ImageDefinition, error) {
	if file == "" {
		return nil, fmt.Errorf("%w: image definition needs a file", ErrInvalidArgument)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidArgument, width, height)
	}
	if name == "" {
		name = baseName(file)
	}
	if err := ValidateName(KindImageDef, name); err != nil {
		return nil, err
	}
	d := &ImageDefinition{File: file, Width: width, Height: height, HorizontalDPI: 72, VerticalDPI: 72}
	d.init(d, KindImageDef, name)
	return d, nil
}

// UnderlayFormat selects the underlay table.
type UnderlayFormat int

const (
	UnderlayDGN UnderlayFormat = iota
	UnderlayDWF
	UnderlayPDF
)

func (f UnderlayFormat) String() string {
	switch f {
	case UnderlayDGN:
		return "dgn"
	case UnderlayDWF:
		return "dwf"
	case UnderlayPDF:
		return "pdf"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

func (f UnderlayFormat) kind() Kind {
	switch f {
	case UnderlayDWF:
		return KindUnderlayDwf
	case UnderlayPDF:
		return KindUnderlayPdf
	}
	return KindUnderlayDgn
}

func (f UnderlayFormat) entityType() string {
	return strings.ToUpper(f.String()) + "UNDERLAY"
}

// ParseUnderlayFormat resolves "dgn", "dwf" or "pdf".
func ParseUnderlayFormat(s string) (UnderlayFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "dgn":
		return UnderlayDGN, nil
	case "dwf", "dwfx":
		return UnderlayDWF, nil
	case "pdf":
		return UnderlayPDF, nil
	}
	return 0, fmt.Errorf("%w: unknown underlay format %q", ErrInvalidArgument, s)
}

// UnderlayDefinition points at an external DGN, DWF or PDF file.
type UnderlayDefinition struct {
	tableObject
	File   string
	Page   string
	format UnderlayFormat
}

// NewUnderlayDefinition creates a definition; the name defaults to the file
// base name.
func NewUnderlayDefinition(name, file string, format UnderlayFormat) (*UnderlayDefinition, error) {
	if file == "" {
		return nil, fmt.Errorf("%w: underlay definition needs a file", ErrInvalidArgument)
	}
	if format < UnderlayDGN || format > UnderlayPDF {
		return nil, fmt.Errorf("%w: underlay format %s", ErrInvalidArgument, format)
	}
	if name == "" {
		name = baseName(file)
	}
	k := format.kind()
	if err := ValidateName(k, name); err != nil {
		return nil, err
	}
	d := &UnderlayDefinition{File: file, Page: "1", format: format}
	d.init(d, k, name)
	return d, nil
}

func (d *UnderlayDefinition) Format() UnderlayFormat { return d.format }

func baseName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
