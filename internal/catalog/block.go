package catalog

import (
	"fmt"
	"strings"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/observable"
)

// Block is a named collection of entities. Model space and paper space are
// the two reserved blocks.
type Block struct {
	tableObject
	Description string
	Origin      Vector3
	layer       *Layer
	entities    *observable.List[Entity]
	attributes  *observable.Dict[string, *AttributeDefinition]
}

// NewBlock creates a detached block on layer "0".
func NewBlock(name string, entities ...Entity) (*Block, error) {
	if err := ValidateName(KindBlock, name); err != nil {
		return nil, err
	}
	b := newBlock(name)
	if err := b.entities.AddRange(entities...); err != nil {
		return nil, err
	}
	return b, nil
}

func newBlock(name string) *Block {
	b := &Block{layer: newLayer("0")}
	b.init(b, KindBlock, name)
	b.entities = observable.NewList[Entity](&blockEntities{b: b})
	b.attributes = observable.NewDict[string, *AttributeDefinition](&blockAttributes{b: b})
	return b
}

// IsLayout reports whether the block is model or paper space.
func (b *Block) IsLayout() bool {
	k := Key(b.name)
	return strings.HasPrefix(k, Key("*Model_Space")) || strings.HasPrefix(k, Key("*Paper_Space"))
}

// Entities returns the live entity list.
func (b *Block) Entities() *observable.List[Entity] { return b.entities }

// AttributeDefinitions returns the live attribute definitions keyed by tag.
func (b *Block) AttributeDefinitions() *observable.Dict[string, *AttributeDefinition] {
	return b.attributes
}

// AddAttributeDefinition stores def under its tag.
func (b *Block) AddAttributeDefinition(def *AttributeDefinition) error {
	if def == nil {
		return fmt.Errorf("%w: nil attribute definition", ErrInvalidArgument)
	}
	return b.attributes.Add(def.tag, def)
}

func (b *Block) Layer() *Layer { return b.layer }

// SetLayer changes the block layer.
func (b *Block) SetLayer(l *Layer) error {
	return replaceRef(b, RelLayer, &b.layer, l, false)
}

func (b *Block) dependencies() []dependency {
	return append(b.tableObject.dependencies(), ref(RelLayer, &b.layer))
}

func (b *Block) children() []Entity {
	out := b.entities.Items()
	for _, def := range b.attributes.Values() {
		out = append(out, def)
	}
	return out
}

func (b *Block) attach(c *Catalog) {
	for _, e := range b.children() {
		c.registerEntity(e)
	}
}

func (b *Block) detach(c *Catalog) {
	for _, e := range b.children() {
		c.unregisterEntity(e)
	}
}

func (b *Block) checkEntity(e Entity) error {
	if e == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidArgument)
	}
	if doc := e.Catalog(); doc != nil && doc != b.doc {
		return fmt.Errorf("%w: %s %s", ErrCrossDocument, e.TypeName(), e.Handle())
	}
	if owner := e.Owner(); owner != nil {
		return fmt.Errorf("%w: %s already belongs to block %q", ErrInvalidArgument, e.TypeName(), owner.Name())
	}
	if in, ok := e.(*Insert); ok && b.isSelf(in.block) {
		return fmt.Errorf("%w: block %q cannot insert itself", ErrInvalidArgument, b.name)
	}
	if b.doc != nil {
		return b.doc.validate(e)
	}
	return nil
}

// isSelf reports whether other would resolve to b once registered.
func (b *Block) isSelf(other *Block) bool {
	if other == b {
		return true
	}
	return other != nil && b.doc != nil && other.doc == nil && SameName(other.name, b.name)
}

func (b *Block) adopt(e Entity) {
	e.entity().owner = b
	if b.doc != nil {
		b.doc.registerEntity(e)
	}
}

func (b *Block) release(e Entity) {
	if b.doc != nil {
		b.doc.unregisterEntity(e)
	}
	e.entity().owner = nil
}

type blockEntities struct {
	b *Block
}

func (o *blockEntities) BeforeAdd(e Entity) error { return o.b.checkEntity(e) }
func (o *blockEntities) AfterAdd(e Entity)        { o.b.adopt(e) }
func (o *blockEntities) BeforeRemove(Entity) error {
	return nil
}
func (o *blockEntities) AfterRemove(e Entity) { o.b.release(e) }

type blockAttributes struct {
	b *Block
}

func (o *blockAttributes) BeforeAdd(e observable.Entry[string, *AttributeDefinition]) error {
	if e.Value == nil {
		return fmt.Errorf("%w: nil attribute definition", ErrInvalidArgument)
	}
	if e.Key != e.Value.tag {
		return fmt.Errorf("%w: attribute definition %q stored under %q", ErrInvalidArgument, e.Value.tag, e.Key)
	}
	return o.b.checkEntity(e.Value)
}

func (o *blockAttributes) AfterAdd(e observable.Entry[string, *AttributeDefinition]) {
	o.b.adopt(e.Value)
}

func (o *blockAttributes) BeforeRemove(observable.Entry[string, *AttributeDefinition]) error {
	return nil
}

func (o *blockAttributes) AfterRemove(e observable.Entry[string, *AttributeDefinition]) {
	o.b.release(e.Value)
}
