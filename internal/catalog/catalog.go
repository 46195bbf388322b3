// Package catalog keeps the named resources of a drawing document: layers,
// line types, styles, blocks and the rest. Each kind lives in a Registry that
// enforces case-insensitive unique names and tracks, per entry, which objects
// reference it. Adding anything registers the resources it depends on first,
// so a registered object never points outside its Catalog, and an entry
// cannot be removed while something still uses it.
//
// A Catalog is not safe for concurrent use.
package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/pubsub"
)

// Change describes one mutation of a Catalog. It is the payload of the
// catalog's change feed.
type Change struct {
	Kind     Kind
	TypeName string
	Name     string
	OldName  string
	Handle   Handle
	Relation Relation
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithEvents publishes every change on broker.
func WithEvents(broker *pubsub.Broker[Change]) Option {
	return func(c *Catalog) { c.events = broker }
}

// WithFingerprint sets the document fingerprint instead of a random one.
func WithFingerprint(id uuid.UUID) Option {
	return func(c *Catalog) { c.fingerprint = id }
}

// Catalog owns the resource tables of one document, its handle index and the
// model and paper space blocks.
type Catalog struct {
	fingerprint uuid.UUID
	lastHandle  Handle
	objects     map[Handle]Object
	freed       map[Handle]bool
	groupSeq    int
	events      *pubsub.Broker[Change]
	tables      map[Kind]table

	appRegs     *Registry[*ApplicationRegistry]
	layers      *Registry[*Layer]
	linetypes   *Registry[*Linetype]
	textStyles  *Registry[*TextStyle]
	shapeStyles *Registry[*ShapeStyle]
	blocks      *Registry[*Block]
	dimStyles   *Registry[*DimensionStyle]
	mlineStyles *Registry[*MLineStyle]
	groups      *Registry[*Group]
	ucss        *Registry[*UCS]
	views       *Registry[*View]
	vports      *Registry[*VPort]
	imageDefs   *Registry[*ImageDefinition]
	underlays   map[UnderlayFormat]*Registry[*UnderlayDefinition]

	layerStates *LayerStateManager
	modelSpace  *Block
	paperSpace  *Block
}

// New creates a Catalog holding the reserved entries of every table.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		fingerprint: uuid.New(),
		objects:     make(map[Handle]Object),
		freed:       make(map[Handle]bool),
		tables:      make(map[Kind]table),
	}
	c.appRegs = register(c, newRegistry[*ApplicationRegistry](c, KindAppReg))
	c.layers = register(c, newRegistry[*Layer](c, KindLayer))
	c.linetypes = register(c, newRegistry[*Linetype](c, KindLinetype))
	c.textStyles = register(c, newRegistry[*TextStyle](c, KindTextStyle))
	c.shapeStyles = register(c, newRegistry[*ShapeStyle](c, KindShapeStyle))
	c.blocks = register(c, newRegistry[*Block](c, KindBlock))
	c.dimStyles = register(c, newRegistry[*DimensionStyle](c, KindDimStyle))
	c.mlineStyles = register(c, newRegistry[*MLineStyle](c, KindMLineStyle))
	c.groups = register(c, newRegistry[*Group](c, KindGroup))
	c.ucss = register(c, newRegistry[*UCS](c, KindUCS))
	c.views = register(c, newRegistry[*View](c, KindView))
	c.vports = register(c, newRegistry[*VPort](c, KindVPort))
	c.vports.readOnly = true
	c.imageDefs = register(c, newRegistry[*ImageDefinition](c, KindImageDef))
	c.underlays = map[UnderlayFormat]*Registry[*UnderlayDefinition]{
		UnderlayDGN: register(c, newRegistry[*UnderlayDefinition](c, KindUnderlayDgn)),
		UnderlayDWF: register(c, newRegistry[*UnderlayDefinition](c, KindUnderlayDwf)),
		UnderlayPDF: register(c, newRegistry[*UnderlayDefinition](c, KindUnderlayPdf)),
	}
	c.layerStates = newLayerStateManager(c)

	c.appRegs.insert(newAppReg("ACAD"))
	c.linetypes.insert(LinetypeByLayer())
	c.linetypes.insert(LinetypeByBlock())
	c.linetypes.insert(LinetypeContinuous())
	c.layers.insert(newLayer("0"))
	c.textStyles.insert(newTextStyle("Standard", "simplex.shx"))
	c.dimStyles.insert(newDimensionStyle("Standard"))
	c.mlineStyles.insert(newMLineStyle("Standard"))
	c.modelSpace = c.blocks.insert(newBlock("*Model_Space"))
	c.paperSpace = c.blocks.insert(newBlock("*Paper_Space"))
	c.vports.insert(newVPort("*Active"))

	for _, opt := range opts {
		opt(c)
	}
	log.Debug(log.CatCatalog, "Catalog created", "fingerprint", c.fingerprint, "handles", len(c.objects))
	return c
}

func register[T slotType](c *Catalog, r *Registry[T]) *Registry[T] {
	c.tables[r.kind] = r
	return r
}

// Fingerprint identifies the document.
func (c *Catalog) Fingerprint() uuid.UUID { return c.fingerprint }

func (c *Catalog) ApplicationRegistries() *Registry[*ApplicationRegistry] { return c.appRegs }
func (c *Catalog) Layers() *Registry[*Layer]                              { return c.layers }
func (c *Catalog) Linetypes() *Registry[*Linetype]                        { return c.linetypes }
func (c *Catalog) TextStyles() *Registry[*TextStyle]                      { return c.textStyles }
func (c *Catalog) ShapeStyles() *Registry[*ShapeStyle]                    { return c.shapeStyles }
func (c *Catalog) Blocks() *Registry[*Block]                              { return c.blocks }
func (c *Catalog) DimensionStyles() *Registry[*DimensionStyle]            { return c.dimStyles }
func (c *Catalog) MLineStyles() *Registry[*MLineStyle]                    { return c.mlineStyles }
func (c *Catalog) Groups() *Registry[*Group]                              { return c.groups }
func (c *Catalog) UCSs() *Registry[*UCS]                                  { return c.ucss }
func (c *Catalog) Views() *Registry[*View]                                { return c.views }
func (c *Catalog) VPorts() *Registry[*VPort]                              { return c.vports }
func (c *Catalog) ImageDefinitions() *Registry[*ImageDefinition]          { return c.imageDefs }
func (c *Catalog) LayerStates() *LayerStateManager                        { return c.layerStates }

// UnderlayDefinitions returns the table for one underlay format.
func (c *Catalog) UnderlayDefinitions(f UnderlayFormat) *Registry[*UnderlayDefinition] {
	return c.underlays[f]
}

// ModelSpace returns the block that holds top-level entities.
func (c *Catalog) ModelSpace() *Block { return c.modelSpace }

// PaperSpace returns the default layout block.
func (c *Catalog) PaperSpace() *Block { return c.paperSpace }

// Table returns the table for kind.
func (c *Catalog) Table(k Kind) (Table, bool) {
	t, ok := c.tables[k]
	return t, ok
}

// Tables returns every table in kind order.
func (c *Catalog) Tables() []Table {
	out := make([]Table, 0, len(c.tables))
	for _, k := range Kinds() {
		out = append(out, c.tables[k])
	}
	return out
}

func (c *Catalog) table(k Kind) table {
	t, ok := c.tables[k]
	if !ok {
		inconsistent("no table for kind %s", k)
	}
	return t
}

// NextHandle reserves a fresh handle from the document counter.
func (c *Catalog) NextHandle() Handle {
	c.lastHandle++
	return c.lastHandle
}

// RegisterHandle records o under h. Registering the same pair twice is a
// no-op. A handle held by a different object, or one that was registered and
// freed before, fails with ErrHandleInUse: handles are never reused.
func (c *Catalog) RegisterHandle(h Handle, o Object) error {
	if h == 0 || o == nil {
		return fmt.Errorf("%w: handle %s for %v", ErrInvalidArgument, h, o)
	}
	if cur, ok := c.objects[h]; ok {
		if cur != o {
			return fmt.Errorf("%w: %s", ErrHandleInUse, h)
		}
		return nil
	}
	if c.freed[h] {
		return fmt.Errorf("%w: %s was freed", ErrHandleInUse, h)
	}
	c.objects[h] = o
	if h > c.lastHandle {
		c.lastHandle = h
	}
	return nil
}

// UnregisterHandle forgets h. The handle cannot be registered again.
func (c *Catalog) UnregisterHandle(h Handle) {
	if _, ok := c.objects[h]; !ok {
		return
	}
	delete(c.objects, h)
	c.freed[h] = true
}

// Lookup finds a registered object by handle.
func (c *Catalog) Lookup(h Handle) (Object, bool) {
	o, ok := c.objects[h]
	return o, ok
}

// HandleCount returns the number of registered handles.
func (c *Catalog) HandleCount() int { return len(c.objects) }

func (c *Catalog) publish(t pubsub.EventType, ch Change) {
	if c.events != nil {
		c.events.Publish(t, ch)
	}
}

func (c *Catalog) nextGroupName() string {
	for {
		c.groupSeq++
		name := fmt.Sprintf("*A%d", c.groupSeq)
		if !c.groups.Contains(name) {
			return name
		}
	}
}

// validate walks everything o would drag into the catalog and reports the
// first problem. It does not mutate anything.
func (c *Catalog) validate(o Object) error {
	return c.check(o, make(map[Object]bool))
}

func (c *Catalog) check(o Object, seen map[Object]bool) error {
	if seen[o] {
		return nil
	}
	seen[o] = true
	switch v := o.(type) {
	case resource:
		return c.checkResource(v, seen)
	case Entity:
		return c.checkEntity(v, seen)
	}
	return nil
}

func (c *Catalog) checkResource(r resource, seen map[Object]bool) error {
	if r.Catalog() == c {
		return nil
	}
	// A same-named entry here absorbs r, wherever r came from.
	if r.Name() != "" {
		if _, ok := c.table(r.Kind()).lookupResource(r.Name()); ok {
			return nil
		}
	}
	if r.Catalog() != nil {
		return fmt.Errorf("%w: %s %q", ErrCrossDocument, r.Kind(), r.Name())
	}
	for _, d := range r.dependencies() {
		if dep := d.get(); dep != nil {
			if err := c.check(dep, seen); err != nil {
				return err
			}
		}
	}
	for _, e := range r.children() {
		if err := c.check(e, seen); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) checkEntity(e Entity, seen map[Object]bool) error {
	switch doc := e.Catalog(); {
	case doc == c:
		return nil
	case doc != nil:
		return fmt.Errorf("%w: %s %s", ErrCrossDocument, e.TypeName(), e.Handle())
	}
	if owner := e.Owner(); owner != nil && owner.Catalog() != c && !seen[owner] {
		return fmt.Errorf("%w: %s belongs to unregistered block %q", ErrCrossDocument, e.TypeName(), owner.Name())
	}
	for _, d := range e.dependencies() {
		if dep := d.get(); dep != nil {
			if err := c.check(dep, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// link registers the resource in slot d (or finds the same-named entry),
// stores that instance back in the slot and records owner as a referencer.
func (c *Catalog) link(owner Object, d dependency) {
	dep := d.get()
	if dep == nil {
		return
	}
	t := c.table(dep.Kind())
	canon := t.insertResource(dep)
	d.set(canon)
	t.refSet(canon.Name()).Add(owner, d.rel)
}

// unlink drops one reference from owner to the resource in slot d.
func (c *Catalog) unlink(owner Object, d dependency) {
	dep := d.get()
	if dep == nil || dep.Catalog() != c {
		return
	}
	if rs := c.table(dep.Kind()).refSet(dep.Name()); rs != nil {
		rs.RemoveRelation(owner, d.rel)
	}
}

// registerEntity gives e a handle and links its dependencies. The caller has
// already validated e.
func (c *Catalog) registerEntity(e Entity) {
	obj := e.entity()
	if obj.doc == c {
		return
	}
	obj.handle = c.NextHandle()
	obj.doc = c
	if err := c.RegisterHandle(obj.handle, e); err != nil {
		inconsistent("registering %s: %v", obj.typeName, err)
	}
	for _, d := range e.dependencies() {
		c.link(e, d)
	}
	log.Debug(log.CatEntity, "Entity registered", "type", obj.typeName, "handle", obj.handle)
	c.publish(pubsub.CreatedEvent, Change{TypeName: obj.typeName, Handle: obj.handle})
}

// unregisterEntity reverses registerEntity and leaves every group.
func (c *Catalog) unregisterEntity(e Entity) {
	obj := e.entity()
	if obj.doc != c {
		return
	}
	for _, d := range e.dependencies() {
		c.unlink(e, d)
	}
	for _, g := range append([]*Group(nil), obj.groups...) {
		g.entities.Remove(e)
	}
	handle := obj.handle
	c.UnregisterHandle(handle)
	obj.handle = 0
	obj.doc = nil
	log.Debug(log.CatEntity, "Entity unregistered", "type", obj.typeName, "handle", handle)
	c.publish(pubsub.DeletedEvent, Change{TypeName: obj.typeName, Handle: handle})
}

// AddEntity places e in model space.
func (c *Catalog) AddEntity(e Entity) error {
	if e == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidArgument)
	}
	return c.modelSpace.entities.Add(e)
}

// RemoveEntity takes e out of whichever block of this catalog owns it.
func (c *Catalog) RemoveEntity(e Entity) bool {
	if e == nil || e.Catalog() != c {
		return false
	}
	owner := e.Owner()
	if owner == nil {
		return false
	}
	if def, ok := e.(*AttributeDefinition); ok {
		if cur, found := owner.attributes.Get(def.tag); found && cur == def {
			return owner.attributes.Remove(def.tag)
		}
	}
	return owner.entities.Remove(e)
}

// Entities returns the model space entities.
func (c *Catalog) Entities() []Entity {
	return c.modelSpace.entities.Items()
}
