package models

import (
	"errors"

	"github.com/goccy/go-json"
)

// Highlight modes for customer-facing badges.
const (
	HighlightByType = "type"
	HighlightByName = "name"
)

// ErrInvalidPolygon is returned for polygons that are not a list of >= 3 non-negative integer pairs.
var ErrInvalidPolygon = errors.New("polygon must be at least 3 non-negative [x,y] integer pairs")

// Vertex is one polygon corner in floor-plan pixel space.
type Vertex [2]int

// X returns the horizontal coordinate.
func (v Vertex) X() int { return v[0] }

// Y returns the vertical coordinate.
func (v Vertex) Y() int { return v[1] }

// Polygon is an ordered, implicitly closed list of vertices.
type Polygon []Vertex

// Validate checks the stored shape invariants.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return ErrInvalidPolygon
	}
	for _, v := range p {
		if v[0] < 0 || v[1] < 0 {
			return ErrInvalidPolygon
		}
	}
	return nil
}

// EncodePolygon serializes a polygon to its persisted form: [[x,y],...].
func EncodePolygon(p Polygon) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

// DecodePolygon parses the persisted form. Vertex order is preserved.
func DecodePolygon(b []byte) (Polygon, error) {
	var raw [][]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	p := make(Polygon, 0, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			return nil, ErrInvalidPolygon
		}
		p = append(p, Vertex{pair[0], pair[1]})
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Area is a named zone of a center. (CenterID, AreaType, AreaName) is unique.
type Area struct {
	CenterID  string  `json:"center_name"`
	AreaType  string  `json:"area_type"`
	AreaName  string  `json:"area_name"`
	Polygon   Polygon `json:"polygon"`
	Highlight *string `json:"highlight_on_customers,omitempty"`
}

// IsEntrance reports whether the area counts towards entry/exit attendance.
func (a Area) IsEntrance() bool {
	return a.AreaType == AreaTypeEntry || a.AreaType == AreaTypeExit
}

// AreaNames returns the names of areas, in order.
func AreaNames(areas []Area) []string {
	names := make([]string, 0, len(areas))
	for _, a := range areas {
		names = append(names, a.AreaName)
	}
	return names
}

// AreasOfType filters areas by type, preserving order.
func AreasOfType(areas []Area, areaType string) []Area {
	var out []Area
	for _, a := range areas {
		if a.AreaType == areaType {
			out = append(out, a)
		}
	}
	return out
}
