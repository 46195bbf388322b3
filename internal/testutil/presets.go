package testutil

import "github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"

// WithStandardDrawing adds a small floor plan: two line types, three layers,
// a door block and two door inserts.
func (b *Builder) WithStandardDrawing() *Builder {
	return b.
		WithTextStyle("Annotation", "romans.shx").
		WithLinetype("Dashed", 0.5, -0.25).
		WithLinetype("Center", 1.25, -0.25, 0.25, -0.25).
		WithLayer("Walls", Color(catalog.ColorRed), Linetype("Dashed"), Lineweight(50)).
		WithLayer("Doors", Color(catalog.ColorYellow)).
		WithLayer("Hidden", Linetype("Center"), Frozen(), Locked()).
		WithBlock("Door", "Doors", 2).
		WithInsert("Door", "Doors").
		WithInsert("Door", "Walls")
}
