package sqlite

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
)

// LayerStateModel represents a row of the layer_states table.
type LayerStateModel struct {
	ID           int64
	GUID         string
	Drawing      string
	Name         string
	NameKey      string
	Description  string
	CurrentLayer string
	CreatedAt    int64 // Unix timestamp
	UpdatedAt    int64 // Unix timestamp
}

// LayerPropertiesModel represents a row of the layer_state_properties table.
type LayerPropertiesModel struct {
	StateID      int64
	Position     int
	Layer        string
	Color        int
	Linetype     string
	Lineweight   int
	Transparency int
	Visible      bool
	Frozen       bool
	Locked       bool
	Plot         bool
}

func toLayerStateModel(drawing string, st *catalog.LayerState, now time.Time) *LayerStateModel {
	return &LayerStateModel{
		GUID:         st.ID.String(),
		Drawing:      drawing,
		Name:         st.Name,
		NameKey:      catalog.Key(st.Name),
		Description:  st.Description,
		CurrentLayer: st.CurrentLayer,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}
}

func toPropertiesModels(st *catalog.LayerState) []LayerPropertiesModel {
	out := make([]LayerPropertiesModel, 0, len(st.Properties))
	for i, p := range st.Properties {
		out = append(out, LayerPropertiesModel{
			Position:     i,
			Layer:        p.Name,
			Color:        int(p.Color),
			Linetype:     p.Linetype,
			Lineweight:   int(p.Lineweight),
			Transparency: p.Transparency,
			Visible:      p.Visible,
			Frozen:       p.Frozen,
			Locked:       p.Locked,
			Plot:         p.Plot,
		})
	}
	return out
}

// toDomain converts the row and its property rows back to a LayerState.
// A malformed GUID yields a fresh one rather than failing the read.
func (m *LayerStateModel) toDomain(props []LayerPropertiesModel) *catalog.LayerState {
	id, err := uuid.Parse(m.GUID)
	if err != nil {
		id = uuid.New()
	}
	st := &catalog.LayerState{
		ID:           id,
		Name:         m.Name,
		Description:  m.Description,
		CurrentLayer: m.CurrentLayer,
		Properties:   make([]catalog.LayerProperties, 0, len(props)),
	}
	for _, p := range props {
		st.Properties = append(st.Properties, catalog.LayerProperties{
			Name:         p.Layer,
			Color:        catalog.Color(p.Color),
			Linetype:     p.Linetype,
			Lineweight:   catalog.Lineweight(p.Lineweight),
			Transparency: p.Transparency,
			Visible:      p.Visible,
			Frozen:       p.Frozen,
			Locked:       p.Locked,
			Plot:         p.Plot,
		})
	}
	return st
}
