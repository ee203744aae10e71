package regions

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/nightsat/nightlights-agg/internal/domain"
)

// Rasterize converts a region geometry into a binary mask aligned with the
// grid. A pixel is inside the region when its centre falls inside the
// geometry. Geometry wholly or partly outside the grid is fine; only the
// overlapping pixels are marked, and no overlap yields an all-zero mask.
func Rasterize(grid domain.CoordinateSystem, geom orb.Geometry) (domain.Mask, error) {
	switch geom.(type) {
	case orb.Polygon, orb.MultiPolygon, orb.Bound:
	default:
		return domain.Mask{}, fmt.Errorf("cannot rasterize %T geometry", geom)
	}

	mask := domain.NewMask(grid.Height, grid.Width)

	// Scan only the pixel window under the geometry's bounding box, padded a
	// pixel for rounding, clamped to the grid.
	bound := geom.Bound()
	rowFrom := clamp(grid.LatToRow(bound.Max[1])-1, 0, grid.Height)
	rowTo := clamp(grid.LatToRow(bound.Min[1])+1, 0, grid.Height)
	colFrom := clamp(grid.LonToCol(bound.Min[0])-1, 0, grid.Width)
	colTo := clamp(grid.LonToCol(bound.Max[0])+1, 0, grid.Width)

	for row := rowFrom; row < rowTo; row++ {
		for col := colFrom; col < colTo; col++ {
			center := grid.CellCenter(row, col)
			if contains(geom, orb.Point{center.Lon, center.Lat}) {
				mask.Set(row, col)
			}
		}
	}
	return mask, nil
}

func contains(geom orb.Geometry, pt orb.Point) bool {
	switch g := geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	case orb.Bound:
		return g.Contains(pt)
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
