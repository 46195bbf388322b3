package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
)

// LayerStateRepository stores layer states per drawing. Names are matched
// case-insensitively, like layer names.
type LayerStateRepository interface {
	// Save inserts the state or replaces the one with the same name.
	Save(drawing string, st *catalog.LayerState) error
	// FindByName returns LayerStateNotFoundError when nothing matches.
	FindByName(drawing, name string) (*catalog.LayerState, error)
	// List returns the drawing's states in creation order.
	List(drawing string) ([]*catalog.LayerState, error)
	// Delete returns LayerStateNotFoundError when nothing matches.
	Delete(drawing, name string) error
	// Drawings lists every drawing that has at least one state.
	Drawings() ([]string, error)
}

// LayerStateNotFoundError is returned when no state has the given name.
type LayerStateNotFoundError struct {
	Drawing string
	Name    string
}

func (e *LayerStateNotFoundError) Error() string {
	return fmt.Sprintf("layer state %q not found for %s", e.Name, e.Drawing)
}

// Unwrap lets callers test with errors.Is(err, catalog.ErrNotFound).
func (e *LayerStateNotFoundError) Unwrap() error {
	return catalog.ErrNotFound
}

const layerStateColumns = `id, guid, drawing, name, name_key, description, current_layer, created_at, updated_at`

const layerPropertiesColumns = `state_id, position, layer, color, linetype, lineweight, transparency, visible, frozen, locked, plot`

type layerStateRepository struct {
	db  *sql.DB
	now func() time.Time
}

func newLayerStateRepository(db *sql.DB) *layerStateRepository {
	return &layerStateRepository{db: db, now: time.Now}
}

var _ LayerStateRepository = (*layerStateRepository)(nil)

type scanner interface{ Scan(...any) error }

func scanLayerState(s scanner) (*LayerStateModel, error) {
	var m LayerStateModel
	err := s.Scan(&m.ID, &m.GUID, &m.Drawing, &m.Name, &m.NameKey,
		&m.Description, &m.CurrentLayer, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func scanLayerProperties(s scanner) (LayerPropertiesModel, error) {
	var m LayerPropertiesModel
	err := s.Scan(&m.StateID, &m.Position, &m.Layer, &m.Color, &m.Linetype, &m.Lineweight,
		&m.Transparency, &m.Visible, &m.Frozen, &m.Locked, &m.Plot)
	return m, err
}

func (r *layerStateRepository) Save(drawing string, st *catalog.LayerState) error {
	if st == nil || st.Name == "" {
		return fmt.Errorf("%w: layer state needs a name", catalog.ErrInvalidArgument)
	}
	model := toLayerStateModel(drawing, st, r.now())

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRow(
		`INSERT INTO layer_states (guid, drawing, name, name_key, description, current_layer, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (drawing, name_key) DO UPDATE SET
			guid = excluded.guid,
			name = excluded.name,
			description = excluded.description,
			current_layer = excluded.current_layer,
			updated_at = excluded.updated_at
		RETURNING id`,
		model.GUID, model.Drawing, model.Name, model.NameKey, model.Description, model.CurrentLayer,
		model.CreatedAt, model.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to save layer state: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM layer_state_properties WHERE state_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear layer state properties: %w", err)
	}
	for _, p := range toPropertiesModels(st) {
		_, err := tx.Exec(
			`INSERT INTO layer_state_properties (`+layerPropertiesColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Position, p.Layer, p.Color, p.Linetype, p.Lineweight,
			p.Transparency, p.Visible, p.Frozen, p.Locked, p.Plot,
		)
		if err != nil {
			return fmt.Errorf("failed to save properties of layer %q: %w", p.Layer, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit layer state: %w", err)
	}
	return nil
}

func (r *layerStateRepository) FindByName(drawing, name string) (*catalog.LayerState, error) {
	row := r.db.QueryRow(
		`SELECT `+layerStateColumns+` FROM layer_states WHERE drawing = ? AND name_key = ?`,
		drawing, catalog.Key(name),
	)
	model, err := scanLayerState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &LayerStateNotFoundError{Drawing: drawing, Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find layer state: %w", err)
	}
	props, err := r.properties(model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(props), nil
}

func (r *layerStateRepository) List(drawing string) ([]*catalog.LayerState, error) {
	rows, err := r.db.Query(
		`SELECT `+layerStateColumns+` FROM layer_states WHERE drawing = ? ORDER BY created_at, id`,
		drawing,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list layer states: %w", err)
	}
	var models []*LayerStateModel
	for rows.Next() {
		m, err := scanLayerState(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan layer state: %w", err)
		}
		models = append(models, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate layer states: %w", err)
	}

	states := make([]*catalog.LayerState, 0, len(models))
	for _, m := range models {
		props, err := r.properties(m.ID)
		if err != nil {
			return nil, err
		}
		states = append(states, m.toDomain(props))
	}
	return states, nil
}

func (r *layerStateRepository) Delete(drawing, name string) error {
	result, err := r.db.Exec(
		`DELETE FROM layer_states WHERE drawing = ? AND name_key = ?`,
		drawing, catalog.Key(name),
	)
	if err != nil {
		return fmt.Errorf("failed to delete layer state: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &LayerStateNotFoundError{Drawing: drawing, Name: name}
	}
	return nil
}

func (r *layerStateRepository) Drawings() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT drawing FROM layer_states ORDER BY drawing`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drawings: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan drawing: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *layerStateRepository) properties(stateID int64) ([]LayerPropertiesModel, error) {
	rows, err := r.db.Query(
		`SELECT `+layerPropertiesColumns+` FROM layer_state_properties WHERE state_id = ? ORDER BY position`,
		stateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load layer state properties: %w", err)
	}
	defer rows.Close()

	var out []LayerPropertiesModel
	for rows.Next() {
		p, err := scanLayerProperties(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan layer state properties: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
