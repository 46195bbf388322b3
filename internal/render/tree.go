package render

import (
	"fmt"

	"github.com/disiqueira/gotree/v3"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
)

// ReferenceTree shows who uses r. Referencers that are themselves resources
// are expanded with their own referencers, so removing a line type can be
// traced back to the entities keeping it alive.
func ReferenceTree(cat *catalog.Catalog, r catalog.Resource) string {
	root := gotree.New(Label(r))
	addReferencers(cat, root, r, map[catalog.Handle]bool{r.Handle(): true})
	return root.Print()
}

func addReferencers(cat *catalog.Catalog, node gotree.Tree, r catalog.Resource, seen map[catalog.Handle]bool) {
	t, ok := cat.Table(r.Kind())
	if !ok {
		return
	}
	for _, ref := range t.GetReferences(r.Name()) {
		child := node.Add(fmt.Sprintf("%s  [%s]", Label(ref.Referencer), ref.Relation))
		res, ok := ref.Referencer.(catalog.Resource)
		if !ok || seen[res.Handle()] {
			continue
		}
		seen[res.Handle()] = true
		addReferencers(cat, child, res, seen)
	}
}

// Label names an object the same way across tables and trees.
func Label(o catalog.Object) string {
	switch o := o.(type) {
	case catalog.Resource:
		return fmt.Sprintf("%s %s (%s)", o.Kind(), o.Name(), o.Handle())
	case catalog.Entity:
		if owner := o.Owner(); owner != nil {
			return fmt.Sprintf("%s %s in %s", o.TypeName(), o.Handle(), owner.Name())
		}
		return fmt.Sprintf("%s %s", o.TypeName(), o.Handle())
	}
	return fmt.Sprintf("%s %s", o.TypeName(), o.Handle())
}

// DependencyTree shows the blocks of cat with their entities and the
// resources each entity points at.
func DependencyTree(cat *catalog.Catalog) string {
	root := gotree.New("blocks")
	for _, b := range cat.Blocks().Items() {
		bn := root.Add(Label(b))
		for _, e := range b.Entities().All() {
			en := bn.Add(Label(e))
			en.Add("layer " + e.Layer().Name())
			if lt := e.Linetype(); !catalog.SameName(lt.Name(), "ByLayer") {
				en.Add("linetype " + lt.Name())
			}
			if in, ok := e.(*catalog.Insert); ok {
				en.Add("block " + in.Block().Name())
			}
		}
	}
	return root.Print()
}
