package raster

import (
	"errors"
	"strings"
	"testing"

	"github.com/nightsat/nightlights-agg/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGrid = `ncols 4
nrows 4
xllcorner 0
yllcorner 0
cellsize 2.5
NODATA_VALUE -999
0.0 0.1 0.2 0.3
1.0 1.1 1.2 1.3
2.0 -999 2.2 2.3
3.0 3.1 3.2 3.3
`

func TestParseGrid(t *testing.T) {
	r, system, err := ParseGrid(strings.NewReader(sampleGrid))
	require.NoError(t, err)

	assert.Equal(t, 4, r.Height)
	assert.Equal(t, 4, r.Width)
	assert.Equal(t, 0.1, r.At(0, 1))
	assert.Equal(t, 3.3, r.At(3, 3))
	assert.Equal(t, 0.0, r.At(2, 1), "NODATA cell reads as zero")

	assert.Equal(t, domain.Coordinate{Lat: 10, Lon: 0}, system.TopLeft)
	assert.Equal(t, domain.Coordinate{Lat: 0, Lon: 10}, system.BottomRight)
	assert.Equal(t, 4, system.Height)
	assert.Equal(t, 4, system.Width)
}

func TestParseGridCenterAnchored(t *testing.T) {
	grid := `ncols 2
nrows 2
xllcenter 1.25
yllcenter 1.25
cellsize 2.5
1 2
3 4
`
	_, system, err := ParseGrid(strings.NewReader(grid))
	require.NoError(t, err)

	// Center anchor shifts half a cell back to the corner.
	assert.Equal(t, domain.Coordinate{Lat: 5, Lon: 0}, system.TopLeft)
	assert.Equal(t, domain.Coordinate{Lat: 0, Lon: 5}, system.BottomRight)
}

func TestParseGridErrors(t *testing.T) {
	tests := []struct {
		name string
		grid string
	}{
		{"missing cellsize", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\n1 2\n3 4\n"},
		{"missing anchor", "ncols 2\nnrows 2\ncellsize 1\n1 2\n3 4\n"},
		{"bad data value", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 x\n3 4\n"},
		{"no data rows", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n"},
		{"malformed header", "ncols\nnrows 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseGrid(strings.NewReader(tt.grid))
			require.Error(t, err)
		})
	}

	t.Run("sample count mismatch", func(t *testing.T) {
		grid := "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n"
		_, _, err := ParseGrid(strings.NewReader(grid))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
	})
}

func TestParseGridWrappedDataLines(t *testing.T) {
	// Writers are allowed to wrap rows; samples fill row-major regardless of
	// line breaks.
	grid := "ncols 3\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2\n3 4 5\n6\n"
	r, _, err := ParseGrid(strings.NewReader(grid))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, r.Cells)
}
