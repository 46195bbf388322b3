package catalog

import (
	"fmt"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/observable"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/pubsub"
)

// Object is anything that can hold a handle in a Catalog.
type Object interface {
	Handle() Handle
	TypeName() string
	Catalog() *Catalog
}

// Resource is a named table entry.
type Resource interface {
	Object
	Name() string
	Kind() Kind
	IsReserved() bool
	SetName(name string) error
	XData() *observable.List[*XData]
}

// resource is implemented by every table entry type in this package.
type resource interface {
	Resource
	base() *tableObject
	// dependencies lists every resource slot the entry points at.
	dependencies() []dependency
	// attach registers owned children once the entry itself is registered.
	attach(c *Catalog)
	// detach unregisters owned children before the entry leaves its table.
	detach(c *Catalog)
	// children lists entities that must validate along with the entry.
	children() []Entity
}

// tableObject carries the state shared by all table entries.
type tableObject struct {
	self     resource
	kind     Kind
	name     string
	handle   Handle
	reserved bool
	doc      *Catalog
	xdata    *observable.List[*XData]
}

func (o *tableObject) init(self resource, kind Kind, name string) {
	o.self = self
	o.kind = kind
	o.name = name
	o.reserved = kind.isReservedName(name)
	o.xdata = newXDataList(self)
}

func (o *tableObject) Name() string       { return o.name }
func (o *tableObject) Handle() Handle     { return o.handle }
func (o *tableObject) Kind() Kind         { return o.kind }
func (o *tableObject) TypeName() string   { return o.kind.String() }
func (o *tableObject) IsReserved() bool   { return o.reserved }
func (o *tableObject) Catalog() *Catalog  { return o.doc }
func (o *tableObject) base() *tableObject { return o }
func (o *tableObject) attach(*Catalog)    {}
func (o *tableObject) detach(*Catalog)    {}
func (o *tableObject) children() []Entity { return nil }

// XData returns the extended data attached to the entry.
func (o *tableObject) XData() *observable.List[*XData] { return o.xdata }

func (o *tableObject) dependencies() []dependency {
	return xdataDependencies(o.xdata)
}

// SetName renames the entry. A registered entry is rekeyed in its table; a
// clash with another entry fails with a *DuplicateNameError and leaves
// everything unchanged. Reserved entries cannot be renamed.
func (o *tableObject) SetName(name string) error {
	if o.reserved {
		return fmt.Errorf("%w: %s %q is reserved and cannot be renamed", ErrInvalidArgument, o.kind, o.name)
	}
	if err := ValidateName(o.kind, name); err != nil {
		return err
	}
	if o.doc == nil {
		o.name = name
		return nil
	}
	return o.doc.table(o.kind).rename(o.self, name)
}

// dependency is one resource slot of a referencer.
type dependency struct {
	rel Relation
	get func() resource
	set func(resource)
}

type slotType interface {
	comparable
	resource
}

// ref exposes the field at p as a dependency slot.
func ref[T slotType](rel Relation, p *T) dependency {
	return dependency{
		rel: rel,
		get: func() resource {
			var zero T
			if *p == zero {
				return nil
			}
			return *p
		},
		set: func(r resource) {
			if r == nil {
				var zero T
				*p = zero
				return
			}
			*p = r.(T)
		},
	}
}

// replaceRef points the slot at p to next on behalf of owner. When owner is
// registered, next is validated and registered first (deduplicated by name),
// the reference to the old value is dropped and one to the stored value is
// added. An error leaves the slot untouched.
func replaceRef[T slotType](owner Object, rel Relation, p *T, next T, optional bool) error {
	var zero T
	if next == zero && !optional {
		return fmt.Errorf("%w: %s cannot be nil", ErrInvalidArgument, rel)
	}
	c := owner.Catalog()
	if c == nil {
		*p = next
		return nil
	}
	if next != zero {
		if err := c.validate(next); err != nil {
			return err
		}
	}
	slot := ref(rel, p)
	var oldName string
	if old := slot.get(); old != nil {
		oldName = old.Name()
	}
	c.unlink(owner, slot)
	*p = next
	c.link(owner, slot)

	var newName string
	if cur := slot.get(); cur != nil {
		newName = cur.Name()
	}
	log.Debug(log.CatTable, "Reference replaced",
		"owner", owner.Handle(), "relation", rel, "from", oldName, "to", newName)
	c.publish(pubsub.ReplacedEvent, Change{
		Handle:   owner.Handle(),
		TypeName: owner.TypeName(),
		Relation: rel,
		OldName:  oldName,
		Name:     newName,
	})
	return nil
}
