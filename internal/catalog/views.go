package catalog

// UCS is a named user coordinate system.
type UCS struct {
	tableObject
	Origin    Vector3
	XAxis     Vector3
	YAxis     Vector3
	Elevation float64
}

// NewUCS creates a detached coordinate system aligned with world axes.
func NewUCS(name string, origin Vector3) (*UCS, error) {
	if err := ValidateName(KindUCS, name); err != nil {
		return nil, err
	}
	u := &UCS{Origin: origin, XAxis: Vector3{X: 1}, YAxis: Vector3{Y: 1}}
	u.init(u, KindUCS, name)
	return u, nil
}

// View is a named view of model space.
type View struct {
	tableObject
	Center    Vector2
	Target    Vector3
	Direction Vector3
	Height    float64
	Width     float64
	Twist     float64
}

// NewView creates a detached top view.
func NewView(name string) (*View, error) {
	if err := ValidateName(KindView, name); err != nil {
		return nil, err
	}
	v := &View{Direction: Vector3{Z: 1}, Height: 1, Width: 1}
	v.init(v, KindView, name)
	return v, nil
}

// VPort is a viewport configuration. Only the reserved "*Active" entry
// exists; the table rejects additions.
type VPort struct {
	tableObject
	Center      Vector2
	SnapSpacing Vector2
	GridSpacing Vector2
	Target      Vector3
	Direction   Vector3
	Height      float64
	AspectRatio float64
	ShowGrid    bool
	SnapMode    bool
}

func newVPort(name string) *VPort {
	v := &VPort{
		SnapSpacing: Vector2{X: 0.5, Y: 0.5},
		GridSpacing: Vector2{X: 10, Y: 10},
		Direction:   Vector3{Z: 1},
		Height:      10,
		AspectRatio: 1,
		ShowGrid:    true,
	}
	v.init(v, KindVPort, name)
	return v
}
