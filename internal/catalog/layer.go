package catalog

import "fmt"

// Layer groups entities and supplies their default color and line type.
type Layer struct {
	tableObject
	Description  string
	color        Color
	linetype     *Linetype
	lineweight   Lineweight
	transparency int
	visible      bool
	frozen       bool
	locked       bool
	plot         bool
}

// NewLayer creates a detached layer drawn with the Continuous line type.
func NewLayer(name string) (*Layer, error) {
	if err := ValidateName(KindLayer, name); err != nil {
		return nil, err
	}
	return newLayer(name), nil
}

func newLayer(name string) *Layer {
	l := &Layer{
		color:      ColorDefault,
		linetype:   LinetypeContinuous(),
		lineweight: LineweightDefault,
		visible:    true,
		plot:       true,
	}
	l.init(l, KindLayer, name)
	return l
}

func (l *Layer) Linetype() *Linetype    { return l.linetype }
func (l *Layer) Color() Color           { return l.color }
func (l *Layer) Lineweight() Lineweight { return l.lineweight }
func (l *Layer) Transparency() int      { return l.transparency }
func (l *Layer) IsVisible() bool        { return l.visible }
func (l *Layer) IsFrozen() bool         { return l.frozen }
func (l *Layer) IsLocked() bool         { return l.locked }
func (l *Layer) Plot() bool             { return l.plot }

// SetLinetype changes the layer line type. nil is rejected.
func (l *Layer) SetLinetype(lt *Linetype) error {
	return replaceRef(l, RelLinetype, &l.linetype, lt, false)
}

// SetColor sets the layer color. By-values are not allowed on a layer.
func (l *Layer) SetColor(c Color) error {
	if err := checkLayerColor(c); err != nil {
		return err
	}
	l.color = c
	return nil
}

// SetLineweight sets the layer line weight.
func (l *Layer) SetLineweight(w Lineweight) error {
	if err := checkLayerLineweight(w); err != nil {
		return err
	}
	l.lineweight = w
	return nil
}

// SetTransparency sets transparency in percent, 0 to 90.
func (l *Layer) SetTransparency(pct int) error {
	if err := checkTransparency(pct); err != nil {
		return err
	}
	l.transparency = pct
	return nil
}

func checkLayerColor(c Color) error {
	if !c.Valid() || c == ColorByBlock || c == ColorByLayer {
		return fmt.Errorf("%w: layer color %s", ErrInvalidArgument, c)
	}
	return nil
}

func checkLayerLineweight(w Lineweight) error {
	if !w.Valid() || w == LineweightByBlock || w == LineweightByLayer {
		return fmt.Errorf("%w: layer lineweight %s", ErrInvalidArgument, w)
	}
	return nil
}

func checkTransparency(pct int) error {
	if pct < 0 || pct > 90 {
		return fmt.Errorf("%w: transparency %d outside 0..90", ErrInvalidArgument, pct)
	}
	return nil
}

func (l *Layer) SetVisible(v bool) { l.visible = v }
func (l *Layer) SetFrozen(v bool)  { l.frozen = v }
func (l *Layer) SetLocked(v bool)  { l.locked = v }
func (l *Layer) SetPlot(v bool)    { l.plot = v }

func (l *Layer) dependencies() []dependency {
	return append(l.tableObject.dependencies(), ref(RelLinetype, &l.linetype))
}
