package domain

import (
	"fmt"
	"time"
)

// Raster is a single 2-D grid of samples in row-major order. The domain
// treats rasters as read-only once built.
type Raster struct {
	Height int
	Width  int
	Cells  []float64
}

// NewRaster allocates a zero-filled raster.
func NewRaster(height, width int) Raster {
	return Raster{Height: height, Width: width, Cells: make([]float64, height*width)}
}

// At returns the sample at (row, col). Panics on out-of-range indices, same
// as a slice access would.
func (r Raster) At(row, col int) float64 { return r.Cells[row*r.Width+col] }

// Set writes the sample at (row, col).
func (r Raster) Set(row, col int, v float64) { r.Cells[row*r.Width+col] = v }

// Crop copies the height x width window with its top-left pixel at
// (top, left) into a new independent raster.
func (r Raster) Crop(top, left, height, width int) (Raster, error) {
	if top < 0 || left < 0 || top+height > r.Height || left+width > r.Width {
		return Raster{}, fmt.Errorf("crop %dx%d at (%d,%d) outside %dx%d raster: %w",
			height, width, top, left, r.Height, r.Width, ErrDimensionMismatch)
	}
	out := NewRaster(height, width)
	for row := 0; row < height; row++ {
		src := (top+row)*r.Width + left
		copy(out.Cells[row*width:(row+1)*width], r.Cells[src:src+width])
	}
	return out, nil
}

// Mask is a binary pixel-membership grid aligned with a raster's extent.
type Mask struct {
	Height int
	Width  int
	Cells  []uint8
}

// NewMask allocates an all-zero mask.
func NewMask(height, width int) Mask {
	return Mask{Height: height, Width: width, Cells: make([]uint8, height*width)}
}

// Set marks pixel (row, col) as inside the region.
func (m Mask) Set(row, col int) { m.Cells[row*m.Width+col] = 1 }

// At reports whether pixel (row, col) is inside the region.
func (m Mask) At(row, col int) bool { return m.Cells[row*m.Width+col] != 0 }

// Count returns the number of active cells. Callers converting an aggregate
// sum into a mean divide by this.
func (m Mask) Count() int {
	n := 0
	for _, c := range m.Cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// ActiveCells returns the flat indices of the active cells. This is the
// sparse representation AggregateSeries iterates instead of the full grid.
func (m Mask) ActiveCells() []int {
	idx := make([]int, 0, 64)
	for i, c := range m.Cells {
		if c != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// DataCube is an ordered stack of equally-shaped raster slices, one per
// timestamp. Times[i] labels Slices[i] and must be strictly ascending.
type DataCube struct {
	Height int
	Width  int
	Times  []time.Time
	Slices []Raster
}

// NewDataCube validates slice shapes and time ordering.
func NewDataCube(times []time.Time, slices []Raster) (DataCube, error) {
	if len(times) != len(slices) {
		return DataCube{}, fmt.Errorf("%d timestamps for %d slices: %w",
			len(times), len(slices), ErrDimensionMismatch)
	}
	if len(slices) == 0 {
		return DataCube{}, fmt.Errorf("empty cube: %w", ErrNoData)
	}
	h, w := slices[0].Height, slices[0].Width
	for i, s := range slices {
		if s.Height != h || s.Width != w {
			return DataCube{}, fmt.Errorf("slice %d is %dx%d, want %dx%d: %w",
				i, s.Height, s.Width, h, w, ErrDimensionMismatch)
		}
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return DataCube{}, fmt.Errorf("timestamps not ascending at index %d (%v then %v): %w",
				i, times[i-1], times[i], ErrDimensionMismatch)
		}
	}
	return DataCube{Height: h, Width: w, Times: times, Slices: slices}, nil
}

// Len returns the number of time steps.
func (c DataCube) Len() int { return len(c.Slices) }
