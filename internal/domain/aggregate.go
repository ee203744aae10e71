package domain

import (
	"fmt"
	"time"
)

// RegionTable is an ordered table of regions, one row per region. It is the
// in-memory contract with the geometry collaborator: the domain never sees
// geometry types, only labels and rasterized masks.
type RegionTable interface {
	// Len returns the number of rows.
	Len() int
	// Label returns the value of the named attribute column for row i.
	Label(i int, attribute string) (string, error)
	// Mask rasterizes row i's geometry onto the given grid.
	Mask(i int, grid CoordinateSystem) (Mask, error)
}

// RegionalTable maps region labels to aggregated time series. Labels keeps
// the region-table row order; Series values align index-for-index with
// Timestamps.
type RegionalTable struct {
	Labels      []string             `json:"labels"`
	Timestamps  []time.Time          `json:"timestamps"`
	Series      map[string][]float64 `json:"series"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Aggregate sums the image over the active cells of the mask. It is a masked
// sum, not a mean; divide by mask.Count() for an average. Shapes must match
// exactly.
func Aggregate(image Raster, mask Mask) (float64, error) {
	if image.Height != mask.Height || image.Width != mask.Width {
		return 0, fmt.Errorf("image %dx%d vs mask %dx%d: %w",
			image.Height, image.Width, mask.Height, mask.Width, ErrDimensionMismatch)
	}
	var sum float64
	for i, c := range mask.Cells {
		if c != 0 {
			sum += image.Cells[i]
		}
	}
	return sum, nil
}

// AggregateSeries applies the mask to every time slice of the cube and
// returns one sum per time step, in cube order. It walks the mask's active
// cells rather than the full grid; the result equals a per-slice Aggregate
// modulo floating-point summation order.
func AggregateSeries(cube DataCube, mask Mask) ([]float64, error) {
	if cube.Height != mask.Height || cube.Width != mask.Width {
		return nil, fmt.Errorf("cube %dx%d vs mask %dx%d: %w",
			cube.Height, cube.Width, mask.Height, mask.Width, ErrDimensionMismatch)
	}
	active := mask.ActiveCells()
	out := make([]float64, cube.Len())
	for t, slice := range cube.Slices {
		var sum float64
		for _, i := range active {
			sum += slice.Cells[i]
		}
		out[t] = sum
	}
	return out, nil
}

// AggregateTable rasterizes every region row onto the grid, aggregates a
// time series per region, and assembles the result keyed by the attribute
// column. Column order follows row order. Two rows yielding the same label
// fail with ErrDuplicateLabel rather than silently overwriting a column.
func AggregateTable(grid CoordinateSystem, cube DataCube, regions RegionTable, attribute string) (*RegionalTable, error) {
	if cube.Height != grid.Height || cube.Width != grid.Width {
		return nil, fmt.Errorf("cube %dx%d vs grid %dx%d: %w",
			cube.Height, cube.Width, grid.Height, grid.Width, ErrDimensionMismatch)
	}

	table := &RegionalTable{
		Timestamps: cube.Times,
		Series:     make(map[string][]float64, regions.Len()),
	}
	for i := 0; i < regions.Len(); i++ {
		label, err := regions.Label(i, attribute)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		if _, exists := table.Series[label]; exists {
			return nil, fmt.Errorf("region %d %q: %w", i, label, ErrDuplicateLabel)
		}

		mask, err := regions.Mask(i, grid)
		if err != nil {
			return nil, fmt.Errorf("rasterize region %q: %w", label, err)
		}
		series, err := AggregateSeries(cube, mask)
		if err != nil {
			return nil, fmt.Errorf("aggregate region %q: %w", label, err)
		}

		table.Labels = append(table.Labels, label)
		table.Series[label] = series
	}
	table.GeneratedAt = clock.Now()
	return table, nil
}
