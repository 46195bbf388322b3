package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/observable"
)

// Group is a named selection of entities. A group created without a name is
// given the next free "*A<n>" name when it is registered. Members list the
// group in Groups only while the group is registered.
type Group struct {
	tableObject
	Description string
	Selectable  bool
	entities    *observable.List[Entity]
}

// NewGroup creates a detached group. An empty name makes an unnamed group.
func NewGroup(name string, members ...Entity) (*Group, error) {
	if name != "" {
		if err := ValidateName(KindGroup, name); err != nil {
			return nil, err
		}
	}
	g := &Group{Selectable: true}
	g.init(g, KindGroup, name)
	g.entities = observable.NewList[Entity](&groupMembers{g: g})
	if err := g.entities.AddRange(members...); err != nil {
		return nil, err
	}
	return g, nil
}

// IsUnnamed reports whether the group name was generated.
func (g *Group) IsUnnamed() bool {
	return g.name == "" || strings.HasPrefix(g.name, "*")
}

// Entities returns the live member list.
func (g *Group) Entities() *observable.List[Entity] { return g.entities }

func (g *Group) children() []Entity { return g.entities.Items() }

// attach puts members that are not in any block into model space and links
// each member back to the group.
func (g *Group) attach(c *Catalog) {
	for _, e := range g.entities.All() {
		if e.Catalog() == nil {
			if err := c.AddEntity(e); err != nil {
				inconsistent("adding member of group %q: %v", g.name, err)
			}
		}
		g.link(e)
	}
}

// detach drops the members' links to the group. The member list itself is
// kept so the group can be registered again.
func (g *Group) detach(*Catalog) {
	for _, e := range g.entities.All() {
		g.unlink(e)
	}
}

func (g *Group) link(e Entity) {
	obj := e.entity()
	if !slices.Contains(obj.groups, g) {
		obj.groups = append(obj.groups, g)
	}
}

func (g *Group) unlink(e Entity) {
	obj := e.entity()
	obj.groups = slices.DeleteFunc(obj.groups, func(x *Group) bool { return x == g })
}

type groupMembers struct {
	g *Group
}

func (o *groupMembers) BeforeAdd(e Entity) error {
	if e == nil {
		return fmt.Errorf("%w: nil group member", ErrInvalidArgument)
	}
	if o.g.entities.Contains(e) {
		return fmt.Errorf("%w: %s %s is already in group %q", ErrInvalidArgument, e.TypeName(), e.Handle(), o.g.name)
	}
	c := o.g.doc
	if c == nil {
		return nil
	}
	if doc := e.Catalog(); doc != nil && doc != c {
		return fmt.Errorf("%w: %s %s", ErrCrossDocument, e.TypeName(), e.Handle())
	}
	return c.validate(e)
}

func (o *groupMembers) AfterAdd(e Entity) {
	c := o.g.doc
	if c == nil {
		return
	}
	if e.Catalog() == nil {
		if err := c.AddEntity(e); err != nil {
			inconsistent("adding member of group %q: %v", o.g.name, err)
		}
	}
	o.g.link(e)
}

func (o *groupMembers) BeforeRemove(Entity) error { return nil }

func (o *groupMembers) AfterRemove(e Entity) { o.g.unlink(e) }
