// Package regions supplies the geometry collaborator: an ordered region
// table loaded from GeoJSON and the rasterizer that turns region polygons
// into pixel masks on a grid.
package regions

import (
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/nightsat/nightlights-agg/internal/domain"
)

// Table is an ordered region table backed by a GeoJSON FeatureCollection,
// one feature per region. It implements domain.RegionTable; iteration order
// is the feature order of the source file.
type Table struct {
	features []*geojson.Feature
}

// LoadTable decodes a GeoJSON FeatureCollection.
func LoadTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read regions: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse regions geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("region table is empty")
	}
	return &Table{features: fc.Features}, nil
}

// LoadTableFile reads a FeatureCollection from a file.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open regions file: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

// Len returns the number of regions.
func (t *Table) Len() int { return len(t.features) }

// Label returns the attribute property of region i. Non-string property
// values (district codes stored as numbers) are formatted with %v so they
// still make stable column keys.
func (t *Table) Label(i int, attribute string) (string, error) {
	v, ok := t.features[i].Properties[attribute]
	if !ok {
		return "", fmt.Errorf("region %d has no %q property", i, attribute)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", v), nil
}

// Mask rasterizes region i's geometry onto the grid.
func (t *Table) Mask(i int, grid domain.CoordinateSystem) (domain.Mask, error) {
	return Rasterize(grid, t.features[i].Geometry)
}
