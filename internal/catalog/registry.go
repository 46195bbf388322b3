package catalog

import (
	"fmt"
	"slices"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/pubsub"
)

// Table is the kind-independent view of a Registry.
type Table interface {
	Kind() Kind
	Count() int
	Names() []string
	Contains(name string) bool
	Lookup(name string) (Resource, bool)
	Resources() []Resource
	HasReferences(name string) bool
	GetReferences(name string) []Reference
	Remove(name string) bool
}

// table is the package-internal side of a Registry used by cascades.
type table interface {
	Table
	insertResource(r resource) resource
	lookupResource(name string) (resource, bool)
	refSet(name string) *ReferenceSet
	rename(r resource, name string) error
	sizes() (entries, refs int)
}

// Registry is a name-keyed table of one kind of resource. Names are unique
// ignoring case and iteration follows insertion order. Every entry has a
// ReferenceSet listing who uses it; an entry is only removable while its set
// is empty.
type Registry[T slotType] struct {
	doc      *Catalog
	kind     Kind
	entries  map[string]T
	refs     map[string]*ReferenceSet
	order    []string
	readOnly bool
}

var _ table = (*Registry[*Layer])(nil)

func newRegistry[T slotType](doc *Catalog, kind Kind) *Registry[T] {
	return &Registry[T]{
		doc:     doc,
		kind:    kind,
		entries: make(map[string]T),
		refs:    make(map[string]*ReferenceSet),
	}
}

// Kind returns the kind stored in the table.
func (r *Registry[T]) Kind() Kind { return r.kind }

// Count returns the number of entries.
func (r *Registry[T]) Count() int { return len(r.order) }

// Names returns the entry names in insertion order.
func (r *Registry[T]) Names() []string {
	out := make([]string, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k].Name())
	}
	return out
}

// Items returns the entries in insertion order.
func (r *Registry[T]) Items() []T {
	out := make([]T, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k])
	}
	return out
}

// Resources returns the entries as Resource values.
func (r *Registry[T]) Resources() []Resource {
	out := make([]Resource, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k])
	}
	return out
}

// Contains reports whether an entry with the given name exists.
func (r *Registry[T]) Contains(name string) bool {
	_, ok := r.entries[Key(name)]
	return ok
}

// ContainsItem reports whether item itself is stored in the table.
func (r *Registry[T]) ContainsItem(item T) bool {
	var zero T
	if item == zero {
		return false
	}
	cur, ok := r.entries[Key(item.Name())]
	return ok && cur == item
}

// TryGet returns the entry with the given name.
func (r *Registry[T]) TryGet(name string) (T, bool) {
	v, ok := r.entries[Key(name)]
	return v, ok
}

// Get returns the entry with the given name or the zero value.
func (r *Registry[T]) Get(name string) T {
	return r.entries[Key(name)]
}

// Lookup returns the entry as a Resource.
func (r *Registry[T]) Lookup(name string) (Resource, bool) {
	v, ok := r.entries[Key(name)]
	if !ok {
		return nil, false
	}
	return v, true
}

func (r *Registry[T]) lookupResource(name string) (resource, bool) {
	v, ok := r.entries[Key(name)]
	if !ok {
		return nil, false
	}
	return v, true
}

// HasReferences reports whether anything references the named entry.
// An unknown name has no references.
func (r *Registry[T]) HasReferences(name string) bool {
	rs, ok := r.refs[Key(name)]
	return ok && !rs.IsEmpty()
}

// HasReferencesOf is HasReferences for a stored item.
func (r *Registry[T]) HasReferencesOf(item T) bool {
	if !r.ContainsItem(item) {
		return false
	}
	return r.HasReferences(item.Name())
}

// GetReferences returns the references to the named entry, or nil.
func (r *Registry[T]) GetReferences(name string) []Reference {
	rs, ok := r.refs[Key(name)]
	if !ok {
		return nil
	}
	return rs.Snapshot()
}

// GetReferencesOf is GetReferences for a stored item.
func (r *Registry[T]) GetReferencesOf(item T) []Reference {
	if !r.ContainsItem(item) {
		return nil
	}
	return r.GetReferences(item.Name())
}

func (r *Registry[T]) sizes() (entries, refs int) {
	return len(r.entries), len(r.refs)
}

func (r *Registry[T]) refSet(name string) *ReferenceSet {
	return r.refs[Key(name)]
}

// Add registers item and everything it depends on. When an entry with the
// same name exists, that entry is returned and item is left alone. On error
// the catalog is unchanged.
func (r *Registry[T]) Add(item T) (T, error) {
	var zero T
	if r.readOnly {
		return zero, fmt.Errorf("%w: entries cannot be added to the %s table", ErrNotSupported, r.kind)
	}
	if item == zero {
		return zero, fmt.Errorf("%w: nil %s", ErrInvalidArgument, r.kind)
	}
	obj := item.base()
	if obj.name != "" {
		if existing, ok := r.entries[Key(obj.name)]; ok {
			return existing, nil
		}
		if err := ValidateName(r.kind, obj.name); err != nil {
			return zero, err
		}
	} else if r.kind != KindGroup {
		return zero, fmt.Errorf("%w: %s name is empty", ErrInvalidName, r.kind)
	}
	if err := r.doc.validate(item); err != nil {
		return zero, err
	}
	return r.insert(item), nil
}

func (r *Registry[T]) insertResource(res resource) resource {
	return r.insert(res.(T))
}

// insert commits an entry that already passed validation.
func (r *Registry[T]) insert(item T) T {
	obj := item.base()
	if obj.name == "" {
		obj.name = r.doc.nextGroupName()
	}
	key := Key(obj.name)
	if existing, ok := r.entries[key]; ok {
		return existing
	}
	if obj.doc != nil {
		inconsistent("%s %q is already registered", r.kind, obj.name)
	}
	obj.handle = r.doc.NextHandle()
	r.entries[key] = item
	r.refs[key] = NewReferenceSet()
	r.order = append(r.order, key)
	obj.doc = r.doc
	if err := r.doc.RegisterHandle(obj.handle, item); err != nil {
		inconsistent("registering %s %q: %v", r.kind, obj.name, err)
	}

	for _, d := range item.dependencies() {
		r.doc.link(item, d)
	}
	item.attach(r.doc)

	log.Debug(log.CatTable, "Added", "kind", r.kind, "name", obj.name, "handle", obj.handle)
	r.doc.publish(pubsub.CreatedEvent, Change{
		Kind:     r.kind,
		Name:     obj.name,
		Handle:   obj.handle,
		TypeName: obj.TypeName(),
	})
	return item
}

// Remove unregisters the named entry. It returns false when the entry is
// missing, reserved or still referenced.
func (r *Registry[T]) Remove(name string) bool {
	key := Key(name)
	item, ok := r.entries[key]
	if !ok {
		return false
	}
	obj := item.base()
	if obj.reserved {
		log.Debug(log.CatTable, "Refusing to remove reserved entry", "kind", r.kind, "name", obj.name)
		return false
	}
	if rs := r.refs[key]; !rs.IsEmpty() {
		log.Debug(log.CatTable, "Refusing to remove referenced entry",
			"kind", r.kind, "name", obj.name, "references", rs.Len())
		return false
	}

	item.detach(r.doc)
	for _, d := range item.dependencies() {
		r.doc.unlink(item, d)
	}
	handle := obj.handle
	r.doc.UnregisterHandle(handle)
	obj.handle = 0
	obj.doc = nil
	delete(r.entries, key)
	delete(r.refs, key)
	r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == key })

	log.Debug(log.CatTable, "Removed", "kind", r.kind, "name", obj.name, "handle", handle)
	r.doc.publish(pubsub.DeletedEvent, Change{
		Kind:     r.kind,
		Name:     obj.name,
		Handle:   handle,
		TypeName: obj.TypeName(),
	})
	return true
}

// RemoveItem removes item if it is the entry stored under its name.
func (r *Registry[T]) RemoveItem(item T) bool {
	if !r.ContainsItem(item) {
		return false
	}
	return r.Remove(item.Name())
}

// Clear removes every removable entry and returns how many were removed.
// Reserved and referenced entries remain.
func (r *Registry[T]) Clear() int {
	n := 0
	for _, name := range r.Names() {
		if r.Remove(name) {
			n++
		}
	}
	return n
}

func (r *Registry[T]) rename(res resource, name string) error {
	item := res.(T)
	obj := item.base()
	oldKey := Key(obj.name)
	newKey := Key(name)
	if cur, ok := r.entries[oldKey]; !ok || cur != item {
		inconsistent("%s %q is registered but missing from its table", r.kind, obj.name)
	}
	oldName := obj.name
	if oldKey != newKey {
		if _, taken := r.entries[newKey]; taken {
			return &DuplicateNameError{Kind: r.kind, Name: name}
		}
		r.entries[newKey] = item
		r.refs[newKey] = r.refs[oldKey]
		delete(r.entries, oldKey)
		delete(r.refs, oldKey)
		r.order[slices.Index(r.order, oldKey)] = newKey
	}
	obj.name = name

	log.Debug(log.CatTable, "Renamed", "kind", r.kind, "from", oldName, "to", name)
	r.doc.publish(pubsub.RenamedEvent, Change{
		Kind:     r.kind,
		Name:     name,
		OldName:  oldName,
		Handle:   obj.handle,
		TypeName: obj.TypeName(),
	})
	return nil
}
