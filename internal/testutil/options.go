package testutil

import "github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"

// layerData holds everything needed to add one layer.
type layerData struct {
	name       string
	color      catalog.Color
	linetype   string
	lineweight catalog.Lineweight
	frozen     bool
	locked     bool
}

// defaultLayer returns a layerData with the values a new layer starts with.
func defaultLayer(name string) layerData {
	return layerData{
		name:       name,
		color:      catalog.ColorDefault,
		linetype:   "Continuous",
		lineweight: catalog.LineweightDefault,
	}
}

// LayerOption configures a layer during builder setup.
type LayerOption func(*layerData)

// Color sets the layer color.
func Color(c catalog.Color) LayerOption {
	return func(l *layerData) { l.color = c }
}

// Linetype sets the layer line type by name. The line type must already be
// in the catalog or added to the same builder.
func Linetype(name string) LayerOption {
	return func(l *layerData) { l.linetype = name }
}

// Lineweight sets the layer line weight.
func Lineweight(w catalog.Lineweight) LayerOption {
	return func(l *layerData) { l.lineweight = w }
}

// Frozen marks the layer frozen.
func Frozen() LayerOption {
	return func(l *layerData) { l.frozen = true }
}

// Locked marks the layer locked.
func Locked() LayerOption {
	return func(l *layerData) { l.locked = true }
}

type linetypeData struct {
	name    string
	pattern []float64
}

type blockData struct {
	name  string
	layer string
	lines int
}

type insertData struct {
	block string
	layer string
}
