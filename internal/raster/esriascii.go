// Package raster loads monthly nighttime-lights composites from disk: ESRI
// ASCII grid parsing, date-stamped file discovery, and crop-and-stack cube
// assembly. It is the raster-I/O collaborator in front of the domain core.
package raster

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nightsat/nightlights-agg/internal/domain"
)

// ParseGrid reads an ESRI ASCII grid. It returns the samples together with
// the coordinate system described by the header, so callers can locate crop
// windows without re-deriving grid geometry. Cells equal to the NODATA_VALUE
// sentinel are read as 0, which contributes nothing to a masked sum.
func ParseGrid(r io.Reader) (domain.Raster, domain.CoordinateSystem, error) {
	scanner := bufio.NewScanner(r)
	// Country-wide grids have rows of several thousand samples; the default
	// 64 KiB token limit is too tight for them.
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	header := map[string]float64{}
	var cells []float64
	nodataSet := false

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if cells == nil {
			if key := strings.ToLower(fields[0]); isHeaderKey(key) {
				if len(fields) != 2 {
					return domain.Raster{}, domain.CoordinateSystem{}, fmt.Errorf("malformed header line %q", scanner.Text())
				}
				v, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return domain.Raster{}, domain.CoordinateSystem{}, fmt.Errorf("header %s: %w", key, err)
				}
				header[key] = v
				if key == "nodata_value" {
					nodataSet = true
				}
				continue
			}

			// First data line: the header must be complete.
			if err := checkHeader(header); err != nil {
				return domain.Raster{}, domain.CoordinateSystem{}, err
			}
			cells = make([]float64, 0, int(header["nrows"])*int(header["ncols"]))
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return domain.Raster{}, domain.CoordinateSystem{}, fmt.Errorf("data value %q: %w", f, err)
			}
			if nodataSet && v == header["nodata_value"] {
				v = 0
			}
			cells = append(cells, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.Raster{}, domain.CoordinateSystem{}, fmt.Errorf("read grid: %w", err)
	}

	nrows, ncols := int(header["nrows"]), int(header["ncols"])
	if cells == nil {
		return domain.Raster{}, domain.CoordinateSystem{}, fmt.Errorf("grid has no data rows")
	}
	if len(cells) != nrows*ncols {
		return domain.Raster{}, domain.CoordinateSystem{}, fmt.Errorf("grid has %d samples, want %d x %d: %w",
			len(cells), nrows, ncols, domain.ErrDimensionMismatch)
	}

	system, err := headerSystem(header, nrows, ncols)
	if err != nil {
		return domain.Raster{}, domain.CoordinateSystem{}, err
	}
	return domain.Raster{Height: nrows, Width: ncols, Cells: cells}, system, nil
}

func isHeaderKey(key string) bool {
	switch key {
	case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "nodata_value":
		return true
	}
	return false
}

func checkHeader(header map[string]float64) error {
	for _, key := range []string{"ncols", "nrows", "cellsize"} {
		if _, ok := header[key]; !ok {
			return fmt.Errorf("grid header missing %s", key)
		}
	}
	_, xCorner := header["xllcorner"]
	_, xCenter := header["xllcenter"]
	if !xCorner && !xCenter {
		return fmt.Errorf("grid header missing xllcorner/xllcenter")
	}
	_, yCorner := header["yllcorner"]
	_, yCenter := header["yllcenter"]
	if !yCorner && !yCenter {
		return fmt.Errorf("grid header missing yllcorner/yllcenter")
	}
	return nil
}

// headerSystem converts the lower-left anchored ESRI header into a top-left
// anchored CoordinateSystem. Center-anchored headers are shifted by half a
// cell to the corner first.
func headerSystem(header map[string]float64, nrows, ncols int) (domain.CoordinateSystem, error) {
	cell := header["cellsize"]

	xll, ok := header["xllcorner"]
	if !ok {
		xll = header["xllcenter"] - cell/2
	}
	yll, ok := header["yllcorner"]
	if !ok {
		yll = header["yllcenter"] - cell/2
	}

	system, err := domain.NewCoordinateSystem(
		domain.Coordinate{Lat: yll + float64(nrows)*cell, Lon: xll},
		domain.Coordinate{Lat: yll, Lon: xll + float64(ncols)*cell},
		nrows, ncols,
	)
	if err != nil {
		return domain.CoordinateSystem{}, fmt.Errorf("grid header geometry: %w", err)
	}
	return system, nil
}
