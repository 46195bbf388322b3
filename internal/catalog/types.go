package catalog

import "fmt"

// Vector2 is a 2D point or offset.
type Vector2 struct {
	X, Y float64
}

// Vector3 is a 3D point or direction.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Color is an AutoCAD color index. 0 means by block and 256 by layer.
type Color int16

const (
	ColorByBlock Color = 0
	ColorRed     Color = 1
	ColorYellow  Color = 2
	ColorGreen   Color = 3
	ColorCyan    Color = 4
	ColorBlue    Color = 5
	ColorMagenta Color = 6
	ColorDefault Color = 7
	ColorByLayer Color = 256
)

func (c Color) String() string {
	switch c {
	case ColorByBlock:
		return "ByBlock"
	case ColorByLayer:
		return "ByLayer"
	}
	return fmt.Sprintf("%d", int16(c))
}

// Valid reports whether c is an index color or one of the by-values.
func (c Color) Valid() bool {
	return c >= 0 && c <= 256
}

// Lineweight is a line width in hundredths of a millimeter, or one of the
// negative by-values.
type Lineweight int16

const (
	LineweightDefault Lineweight = -3
	LineweightByBlock Lineweight = -2
	LineweightByLayer Lineweight = -1
)

var standardLineweights = []Lineweight{
	0, 5, 9, 13, 15, 18, 20, 25, 30, 35, 40, 50, 53, 60, 70, 80, 90, 100, 106, 120, 140, 158, 200, 211,
}

// Valid reports whether w is a by-value or a standard width.
func (w Lineweight) Valid() bool {
	if w >= LineweightDefault && w <= LineweightByLayer {
		return true
	}
	for _, s := range standardLineweights {
		if s == w {
			return true
		}
	}
	return false
}

func (w Lineweight) String() string {
	switch w {
	case LineweightDefault:
		return "Default"
	case LineweightByBlock:
		return "ByBlock"
	case LineweightByLayer:
		return "ByLayer"
	}
	return fmt.Sprintf("%.2fmm", float64(w)/100)
}
