package raster

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nightsat/nightlights-agg/internal/domain"
)

// Loader assembles a DataCube from monthly grid files: discover by month
// range, parse, crop each raster to the target grid, stack by timestamp.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadCube loads every monthly composite of product in [from, to] from dir
// and crops it to grid. The crop window is located through the coordinate
// system each file declares in its header, so files covering a larger extent
// than grid (a country file for a city grid) work transparently; a grid
// outside the file's extent fails with domain.ErrDimensionMismatch.
func (l *Loader) LoadCube(ctx context.Context, dir, product string, from, to time.Time, grid domain.CoordinateSystem) (domain.DataCube, error) {
	files, err := Discover(dir, product, from, to)
	if err != nil {
		return domain.DataCube{}, err
	}

	times := make([]time.Time, 0, len(files))
	slices := make([]domain.Raster, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return domain.DataCube{}, err
		}
		slice, err := l.loadSlice(f.Path, grid)
		if err != nil {
			return domain.DataCube{}, fmt.Errorf("load %s: %w", f.Path, err)
		}
		times = append(times, f.Month)
		slices = append(slices, slice)
	}

	cube, err := domain.NewDataCube(times, slices)
	if err != nil {
		return domain.DataCube{}, err
	}
	l.logger.Debug("cube loaded",
		"product", product,
		"months", cube.Len(),
		"height", cube.Height,
		"width", cube.Width,
	)
	return cube, nil
}

func (l *Loader) loadSlice(path string, grid domain.CoordinateSystem) (domain.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Raster{}, err
	}
	defer f.Close()

	full, fileSystem, err := ParseGrid(f)
	if err != nil {
		return domain.Raster{}, err
	}

	top, left, height, width, err := fileSystem.PixelWindow(grid)
	if err != nil {
		return domain.Raster{}, err
	}
	return full.Crop(top, left, height, width)
}
