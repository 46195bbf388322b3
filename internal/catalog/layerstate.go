package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/pubsub"
)

// LayerProperties is the saved appearance of one layer.
type LayerProperties struct {
	Name         string
	Color        Color
	Linetype     string
	Lineweight   Lineweight
	Transparency int
	Visible      bool
	Frozen       bool
	Locked       bool
	Plot         bool
}

// LayerState is a named snapshot of every layer's properties.
type LayerState struct {
	ID           uuid.UUID
	Name         string
	Description  string
	CurrentLayer string
	Properties   []LayerProperties
}

// Property returns the saved properties of the named layer.
func (s *LayerState) Property(layer string) (LayerProperties, bool) {
	for _, p := range s.Properties {
		if SameName(p.Name, layer) {
			return p, true
		}
	}
	return LayerProperties{}, false
}

// RestoreFlags selects which properties Restore applies.
type RestoreFlags uint16

const (
	RestoreColor RestoreFlags = 1 << iota
	RestoreLinetype
	RestoreLineweight
	RestoreTransparency
	RestoreVisibility
	RestoreFreeze
	RestoreLock
	RestorePlot

	RestoreAll = RestoreColor | RestoreLinetype | RestoreLineweight | RestoreTransparency |
		RestoreVisibility | RestoreFreeze | RestoreLock | RestorePlot
)

// LayerStateManager keeps named layer snapshots for a Catalog.
type LayerStateManager struct {
	doc    *Catalog
	states map[string]*LayerState
	order  []string
}

func newLayerStateManager(c *Catalog) *LayerStateManager {
	return &LayerStateManager{doc: c, states: make(map[string]*LayerState)}
}

// Save snapshots the current layers under name, replacing any state with the
// same name.
func (m *LayerStateManager) Save(name, description string) (*LayerState, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: layer state name is empty", ErrInvalidName)
	}
	st := &LayerState{ID: uuid.New(), Name: name, Description: description, CurrentLayer: "0"}
	for _, l := range m.doc.layers.Items() {
		st.Properties = append(st.Properties, snapshotLayer(l))
	}
	if old, ok := m.states[Key(name)]; ok {
		st.ID = old.ID
	}
	m.put(st)
	log.Debug(log.CatCatalog, "Layer state saved", "name", name, "layers", len(st.Properties))
	return st, nil
}

// Add stores an existing state, for example one loaded from disk. A state
// with the same name is replaced.
func (m *LayerStateManager) Add(st *LayerState) error {
	if st == nil || strings.TrimSpace(st.Name) == "" {
		return fmt.Errorf("%w: layer state needs a name", ErrInvalidArgument)
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	m.put(st)
	return nil
}

func (m *LayerStateManager) put(st *LayerState) {
	key := Key(st.Name)
	if _, ok := m.states[key]; !ok {
		m.order = append(m.order, key)
	}
	m.states[key] = st
}

// Get returns the named state.
func (m *LayerStateManager) Get(name string) (*LayerState, bool) {
	st, ok := m.states[Key(name)]
	return st, ok
}

// Names lists state names in the order they were first saved.
func (m *LayerStateManager) Names() []string {
	out := make([]string, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.states[k].Name)
	}
	return out
}

// Remove deletes the named state.
func (m *LayerStateManager) Remove(name string) bool {
	key := Key(name)
	if _, ok := m.states[key]; !ok {
		return false
	}
	delete(m.states, key)
	m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
	return true
}

// Restore applies the named state to the layers that still exist. Layers
// added since the save are left alone, as are saved line types that are no
// longer registered. It returns how many layers were updated. Every entry is
// checked first; when one is invalid no layer is changed.
func (m *LayerStateManager) Restore(name string, flags RestoreFlags) (int, error) {
	st, ok := m.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: layer state %q", ErrNotFound, name)
	}
	type target struct {
		layer *Layer
		props LayerProperties
	}
	var targets []target
	for _, p := range st.Properties {
		l, ok := m.doc.layers.TryGet(p.Name)
		if !ok {
			continue
		}
		if err := checkLayerProperties(p, flags); err != nil {
			return 0, fmt.Errorf("restoring layer %q: %w", l.Name(), err)
		}
		targets = append(targets, target{l, p})
	}
	for _, t := range targets {
		applyLayerProperties(m.doc, t.layer, t.props, flags)
		m.doc.publish(pubsub.UpdatedEvent, Change{
			Kind:     KindLayer,
			Name:     t.layer.Name(),
			Handle:   t.layer.Handle(),
			TypeName: t.layer.TypeName(),
		})
	}
	log.Debug(log.CatCatalog, "Layer state restored", "name", st.Name, "layers", len(targets))
	return len(targets), nil
}

func snapshotLayer(l *Layer) LayerProperties {
	return LayerProperties{
		Name:         l.Name(),
		Color:        l.color,
		Linetype:     l.linetype.Name(),
		Lineweight:   l.lineweight,
		Transparency: l.transparency,
		Visible:      l.visible,
		Frozen:       l.frozen,
		Locked:       l.locked,
		Plot:         l.plot,
	}
}

func checkLayerProperties(p LayerProperties, flags RestoreFlags) error {
	if flags&RestoreColor != 0 {
		if err := checkLayerColor(p.Color); err != nil {
			return err
		}
	}
	if flags&RestoreLineweight != 0 {
		if err := checkLayerLineweight(p.Lineweight); err != nil {
			return err
		}
	}
	if flags&RestoreTransparency != 0 {
		if err := checkTransparency(p.Transparency); err != nil {
			return err
		}
	}
	return nil
}

// applyLayerProperties writes p to l. p must have passed checkLayerProperties.
func applyLayerProperties(c *Catalog, l *Layer, p LayerProperties, flags RestoreFlags) {
	if flags&RestoreColor != 0 {
		l.color = p.Color
	}
	if flags&RestoreLinetype != 0 {
		if lt, ok := c.linetypes.TryGet(p.Linetype); ok && lt != l.linetype {
			if err := l.SetLinetype(lt); err != nil {
				inconsistent("restoring line type of layer %q: %v", l.Name(), err)
			}
		}
	}
	if flags&RestoreLineweight != 0 {
		l.lineweight = p.Lineweight
	}
	if flags&RestoreTransparency != 0 {
		l.transparency = p.Transparency
	}
	if flags&RestoreVisibility != 0 {
		l.visible = p.Visible
	}
	if flags&RestoreFreeze != 0 {
		l.frozen = p.Frozen
	}
	if flags&RestoreLock != 0 {
		l.locked = p.Locked
	}
	if flags&RestorePlot != 0 {
		l.plot = p.Plot
	}
}
