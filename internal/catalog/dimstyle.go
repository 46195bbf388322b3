package catalog

// DimensionStyle controls how dimensions are drawn. Arrow blocks are optional;
// a nil arrow means the built-in closed filled arrowhead.
type DimensionStyle struct {
	tableObject
	TextHeight    float64
	ArrowSize     float64
	ExtLineOffset float64
	ExtLineExtend float64
	LinearScale   float64
	Precision     int

	textStyle        *TextStyle
	leaderArrow      *Block
	dimArrow1        *Block
	dimArrow2        *Block
	dimLineLinetype  *Linetype
	extLine1Linetype *Linetype
	extLine2Linetype *Linetype
}

// NewDimensionStyle creates a detached dimension style with Standard text
// and ByBlock line types.
func NewDimensionStyle(name string) (*DimensionStyle, error) {
	if err := ValidateName(KindDimStyle, name); err != nil {
		return nil, err
	}
	return newDimensionStyle(name), nil
}

func newDimensionStyle(name string) *DimensionStyle {
	s := &DimensionStyle{
		TextHeight:       0.18,
		ArrowSize:        0.18,
		ExtLineOffset:    0.0625,
		ExtLineExtend:    0.18,
		LinearScale:      1,
		Precision:        4,
		textStyle:        newTextStyle("Standard", "simplex.shx"),
		dimLineLinetype:  LinetypeByBlock(),
		extLine1Linetype: LinetypeByBlock(),
		extLine2Linetype: LinetypeByBlock(),
	}
	s.init(s, KindDimStyle, name)
	return s
}

func (s *DimensionStyle) TextStyle() *TextStyle       { return s.textStyle }
func (s *DimensionStyle) LeaderArrow() *Block         { return s.leaderArrow }
func (s *DimensionStyle) DimArrow1() *Block           { return s.dimArrow1 }
func (s *DimensionStyle) DimArrow2() *Block           { return s.dimArrow2 }
func (s *DimensionStyle) DimLineLinetype() *Linetype  { return s.dimLineLinetype }
func (s *DimensionStyle) ExtLine1Linetype() *Linetype { return s.extLine1Linetype }
func (s *DimensionStyle) ExtLine2Linetype() *Linetype { return s.extLine2Linetype }

func (s *DimensionStyle) SetTextStyle(ts *TextStyle) error {
	return replaceRef(s, RelTextStyle, &s.textStyle, ts, false)
}

// SetLeaderArrow sets the leader arrowhead block. nil restores the default.
func (s *DimensionStyle) SetLeaderArrow(b *Block) error {
	return replaceRef(s, RelLeaderArrow, &s.leaderArrow, b, true)
}

func (s *DimensionStyle) SetDimArrow1(b *Block) error {
	return replaceRef(s, RelDimArrow1, &s.dimArrow1, b, true)
}

func (s *DimensionStyle) SetDimArrow2(b *Block) error {
	return replaceRef(s, RelDimArrow2, &s.dimArrow2, b, true)
}

func (s *DimensionStyle) SetDimLineLinetype(lt *Linetype) error {
	return replaceRef(s, RelDimLineLinetype, &s.dimLineLinetype, lt, false)
}

func (s *DimensionStyle) SetExtLine1Linetype(lt *Linetype) error {
	return replaceRef(s, RelExtLine1Linetype, &s.extLine1Linetype, lt, false)
}

func (s *DimensionStyle) SetExtLine2Linetype(lt *Linetype) error {
	return replaceRef(s, RelExtLine2Linetype, &s.extLine2Linetype, lt, false)
}

func (s *DimensionStyle) dependencies() []dependency {
	return append(s.tableObject.dependencies(),
		ref(RelTextStyle, &s.textStyle),
		ref(RelLeaderArrow, &s.leaderArrow),
		ref(RelDimArrow1, &s.dimArrow1),
		ref(RelDimArrow2, &s.dimArrow2),
		ref(RelDimLineLinetype, &s.dimLineLinetype),
		ref(RelExtLine1Linetype, &s.extLine1Linetype),
		ref(RelExtLine2Linetype, &s.extLine2Linetype),
	)
}
