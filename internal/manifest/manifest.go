// Package manifest describes a catalog in YAML. Apply builds a catalog from a
// manifest through the registries' Add and lookup operations; Dump goes the
// other way and produces a normalized manifest suitable for diffing.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownReference is returned when a manifest names a resource or
	// entity id that it does not define.
	ErrUnknownReference = errors.New("manifest: unknown reference")
	// ErrInvalid is returned for structurally invalid manifests.
	ErrInvalid = errors.New("manifest: invalid")
)

// Manifest is the root of a manifest file.
type Manifest struct {
	Drawing      string          `yaml:"drawing,omitempty"`
	AppIDs       []AppIDDef      `yaml:"appids,omitempty"`
	TextStyles   []TextStyleDef  `yaml:"text_styles,omitempty"`
	ShapeStyles  []ShapeStyleDef `yaml:"shape_styles,omitempty"`
	Linetypes    []LinetypeDef   `yaml:"linetypes,omitempty"`
	Layers       []LayerDef      `yaml:"layers,omitempty"`
	MLineStyles  []MLineStyleDef `yaml:"mline_styles,omitempty"`
	DimStyles    []DimStyleDef   `yaml:"dim_styles,omitempty"`
	ImageDefs    []ImageDef      `yaml:"images,omitempty"`
	UnderlayDefs []UnderlayDef   `yaml:"underlays,omitempty"`
	Blocks       []BlockDef      `yaml:"blocks,omitempty"`
	UCSs         []UCSDef        `yaml:"ucs,omitempty"`
	Views        []ViewDef       `yaml:"views,omitempty"`
	Entities     []EntityDef     `yaml:"entities,omitempty"`
	Groups       []GroupDef      `yaml:"groups,omitempty"`
	LayerStates  []LayerStateDef `yaml:"layer_states,omitempty"`
}

type AppIDDef struct {
	Name string `yaml:"name"`
}

type TextStyleDef struct {
	Name        string  `yaml:"name"`
	Font        string  `yaml:"font"`
	BigFont     string  `yaml:"bigfont,omitempty"`
	Height      float64 `yaml:"height,omitempty"`
	WidthFactor float64 `yaml:"width_factor,omitempty"`
}

type ShapeStyleDef struct {
	Name string  `yaml:"name"`
	File string  `yaml:"file"`
	Size float64 `yaml:"size,omitempty"`
}

// LinetypeDef is either an inline pattern or a reference to a definition
// in a .lin library. A relative Library path is resolved against the
// manifest's directory.
type LinetypeDef struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Library     string       `yaml:"library,omitempty"`
	Segments    []SegmentDef `yaml:"segments,omitempty"`
}

// SegmentDef is a dash, gap or dot, or a text or shape element when Text or
// Shape is set.
type SegmentDef struct {
	Length   float64 `yaml:"length"`
	Text     string  `yaml:"text,omitempty"`
	Shape    string  `yaml:"shape,omitempty"`
	Style    string  `yaml:"style,omitempty"`
	Scale    float64 `yaml:"scale,omitempty"`
	Rotation float64 `yaml:"rotation,omitempty"`
	Absolute bool    `yaml:"absolute,omitempty"`
	Offset   Vec     `yaml:"offset,omitempty"`
}

type LayerDef struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description,omitempty"`
	Color        *int       `yaml:"color,omitempty"`
	Linetype     string     `yaml:"linetype,omitempty"`
	Lineweight   *int       `yaml:"lineweight,omitempty"`
	Transparency int        `yaml:"transparency,omitempty"`
	Hidden       bool       `yaml:"hidden,omitempty"`
	Frozen       bool       `yaml:"frozen,omitempty"`
	Locked       bool       `yaml:"locked,omitempty"`
	NoPlot       bool       `yaml:"no_plot,omitempty"`
	XData        []XDataDef `yaml:"xdata,omitempty"`
}

type MLineStyleDef struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Elements    []MLineElementDef `yaml:"elements,omitempty"`
}

type MLineElementDef struct {
	Offset   float64 `yaml:"offset"`
	Color    *int    `yaml:"color,omitempty"`
	Linetype string  `yaml:"linetype,omitempty"`
}

// DimStyleDef names its arrow blocks; they are resolved after the blocks
// section so blocks may contain dimensions using the style.
type DimStyleDef struct {
	Name             string  `yaml:"name"`
	TextStyle        string  `yaml:"text_style,omitempty"`
	TextHeight       float64 `yaml:"text_height,omitempty"`
	ArrowSize        float64 `yaml:"arrow_size,omitempty"`
	DimLineLinetype  string  `yaml:"dim_line_linetype,omitempty"`
	ExtLine1Linetype string  `yaml:"ext_line1_linetype,omitempty"`
	ExtLine2Linetype string  `yaml:"ext_line2_linetype,omitempty"`
	LeaderArrow      string  `yaml:"leader_arrow,omitempty"`
	DimArrow1        string  `yaml:"dim_arrow1,omitempty"`
	DimArrow2        string  `yaml:"dim_arrow2,omitempty"`
}

type ImageDef struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type UnderlayDef struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
	Page   string `yaml:"page,omitempty"`
}

type BlockDef struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Layer       string         `yaml:"layer,omitempty"`
	Origin      Vec            `yaml:"origin,omitempty"`
	Entities    []EntityDef    `yaml:"entities,omitempty"`
	Attributes  []AttributeDef `yaml:"attributes,omitempty"`
	XData       []XDataDef     `yaml:"xdata,omitempty"`
}

type AttributeDef struct {
	Tag    string  `yaml:"tag"`
	Prompt string  `yaml:"prompt,omitempty"`
	Value  string  `yaml:"value,omitempty"`
	Style  string  `yaml:"style,omitempty"`
	Layer  string  `yaml:"layer,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

type UCSDef struct {
	Name   string `yaml:"name"`
	Origin Vec    `yaml:"origin,omitempty"`
}

type ViewDef struct {
	Name   string  `yaml:"name"`
	Center Vec     `yaml:"center,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
}

// EntityDef describes one entity. Type selects which of the type-specific
// fields apply. ID is only needed when a group lists the entity.
type EntityDef struct {
	Type     string     `yaml:"type"`
	ID       string     `yaml:"id,omitempty"`
	Layer    string     `yaml:"layer,omitempty"`
	Linetype string     `yaml:"linetype,omitempty"`
	Color    *int       `yaml:"color,omitempty"`
	Start    Vec        `yaml:"start,omitempty"`
	End      Vec        `yaml:"end,omitempty"`
	Position Vec        `yaml:"position,omitempty"`
	Vertices []Vec      `yaml:"vertices,omitempty"`
	Value    string     `yaml:"value,omitempty"`
	Height   float64    `yaml:"height,omitempty"`
	Width    float64    `yaml:"width,omitempty"`
	Offset   float64    `yaml:"offset,omitempty"`
	Style    string     `yaml:"style,omitempty"`
	Block    string     `yaml:"block,omitempty"`
	Image    string     `yaml:"image,omitempty"`
	Underlay string     `yaml:"underlay,omitempty"`
	Format   string     `yaml:"format,omitempty"`
	XData    []XDataDef `yaml:"xdata,omitempty"`
}

// GroupDef lists members by entity id. An empty name makes an unnamed group.
type GroupDef struct {
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Members     []string `yaml:"members,omitempty"`
}

type XDataDef struct {
	App     string      `yaml:"app"`
	Records []RecordDef `yaml:"records,omitempty"`
}

type RecordDef struct {
	Code  int16 `yaml:"code"`
	Value any   `yaml:"value"`
}

type LayerStateDef struct {
	Name         string               `yaml:"name"`
	Description  string               `yaml:"description,omitempty"`
	CurrentLayer string               `yaml:"current_layer,omitempty"`
	Layers       []LayerPropertiesDef `yaml:"layers,omitempty"`
}

type LayerPropertiesDef struct {
	Name         string `yaml:"name"`
	Color        int    `yaml:"color"`
	Linetype     string `yaml:"linetype"`
	Lineweight   int    `yaml:"lineweight"`
	Transparency int    `yaml:"transparency,omitempty"`
	Hidden       bool   `yaml:"hidden,omitempty"`
	Frozen       bool   `yaml:"frozen,omitempty"`
	Locked       bool   `yaml:"locked,omitempty"`
	NoPlot       bool   `yaml:"no_plot,omitempty"`
}

// Vec is a point written as a flow sequence of two or three numbers.
type Vec []float64

func (v Vec) at(i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// File is a manifest together with the directory it was read from.
type File struct {
	*Manifest
	Path string
}

// Dir returns the directory relative library paths are resolved against.
func (f *File) Dir() string {
	if f.Path == "" {
		return "."
	}
	return filepath.Dir(f.Path)
}

// Parse decodes a manifest. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{Manifest: m, Path: path}, nil
}

// Marshal encodes m with two-space indentation.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes m to path.
func Save(path string, m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
