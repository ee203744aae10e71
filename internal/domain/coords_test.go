package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSystem(t *testing.T, tl, br Coordinate, h, w int) CoordinateSystem {
	t.Helper()
	s, err := NewCoordinateSystem(tl, br, h, w)
	require.NoError(t, err)
	return s
}

func TestNewCoordinateSystem(t *testing.T) {
	tests := []struct {
		name   string
		tl, br Coordinate
		h, w   int
	}{
		{"coincident latitude", Coordinate{10, 0}, Coordinate{10, 10}, 100, 100},
		{"coincident longitude", Coordinate{10, 5}, Coordinate{0, 5}, 100, 100},
		{"inverted latitude", Coordinate{0, 0}, Coordinate{10, 10}, 100, 100},
		{"inverted longitude", Coordinate{10, 10}, Coordinate{0, 0}, 100, 100},
		{"zero height", Coordinate{10, 0}, Coordinate{0, 10}, 0, 100},
		{"negative width", Coordinate{10, 0}, Coordinate{0, 10}, 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoordinateSystem(tt.tl, tt.br, tt.h, tt.w)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDegenerateExtent))
		})
	}

	t.Run("valid extent", func(t *testing.T) {
		s := mustSystem(t, Coordinate{10, 0}, Coordinate{0, 10}, 100, 200)
		assert.Equal(t, 100, s.Height)
		assert.Equal(t, 200, s.Width)
	})
}

func TestForwardTransformCorners(t *testing.T) {
	s := mustSystem(t, Coordinate{10, 0}, Coordinate{0, 10}, 100, 100)

	assert.Equal(t, 0, s.LatToRow(10))
	assert.Equal(t, 100, s.LatToRow(0))
	assert.Equal(t, 0, s.LonToCol(0))
	assert.Equal(t, 100, s.LonToCol(10))
}

func TestForwardTransformDoesNotClamp(t *testing.T) {
	s := mustSystem(t, Coordinate{10, 0}, Coordinate{0, 10}, 100, 100)

	assert.Equal(t, -50, s.LatToRow(15), "latitude north of extent")
	assert.Equal(t, 150, s.LatToRow(-5), "latitude south of extent")
	assert.Equal(t, -30, s.LonToCol(-3), "longitude west of extent")
	assert.Equal(t, 120, s.LonToCol(12), "longitude east of extent")
}

func TestTransformRoundTrip(t *testing.T) {
	systems := []CoordinateSystem{
		mustSystem(t, Coordinate{10, 0}, Coordinate{0, 10}, 100, 100),
		mustSystem(t, Coordinate{40, 67.5}, Coordinate{5, 97.5}, 8400, 7200),
		mustSystem(t, Coordinate{19.3, 72.75}, Coordinate{18.85, 73.15}, 108, 96),
		mustSystem(t, Coordinate{1.5, -3.25}, Coordinate{-2.5, 0.75}, 37, 53),
	}
	for _, s := range systems {
		for r := 0; r < s.Height; r++ {
			require.Equal(t, r, s.LatToRow(s.RowToLat(r)), "row %d of %+v", r, s)
		}
		for c := 0; c < s.Width; c++ {
			require.Equal(t, c, s.LonToCol(s.ColToLon(c)), "col %d of %+v", c, s)
		}
	}
}

func TestCellCenter(t *testing.T) {
	s := mustSystem(t, Coordinate{10, 0}, Coordinate{0, 10}, 100, 100)

	center := s.CellCenter(0, 0)
	assert.InDelta(t, 9.95, center.Lat, 1e-12)
	assert.InDelta(t, 0.05, center.Lon, 1e-12)

	center = s.CellCenter(99, 99)
	assert.InDelta(t, 0.05, center.Lat, 1e-12)
	assert.InDelta(t, 9.95, center.Lon, 1e-12)
}

func TestTranslate(t *testing.T) {
	s := mustSystem(t, Coordinate{10, 0}, Coordinate{0, 10}, 100, 100)

	t.Run("identity", func(t *testing.T) {
		sub, err := s.Translate(s.TopLeft, s.BottomRight)
		require.NoError(t, err)
		assert.Equal(t, s, sub)
	})

	t.Run("interior sub-grid", func(t *testing.T) {
		sub, err := s.Translate(Coordinate{8, 2}, Coordinate{2, 8})
		require.NoError(t, err)
		assert.Equal(t, 60, sub.Height)
		assert.Equal(t, 60, sub.Width)
		assert.Equal(t, Coordinate{8, 2}, sub.TopLeft)
		assert.Equal(t, Coordinate{2, 8}, sub.BottomRight)

		// The sub-grid keeps its own transforms consistent.
		assert.Equal(t, 0, sub.LatToRow(8))
		assert.Equal(t, 60, sub.LatToRow(2))
	})

	t.Run("degenerate corners", func(t *testing.T) {
		_, err := s.Translate(Coordinate{5, 5}, Coordinate{5, 8})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDegenerateExtent))
	})
}

func TestPixelWindow(t *testing.T) {
	s := mustSystem(t, Coordinate{10, 0}, Coordinate{0, 10}, 100, 100)

	t.Run("interior window", func(t *testing.T) {
		sub, err := s.Translate(Coordinate{8, 2}, Coordinate{2, 8})
		require.NoError(t, err)

		top, left, h, w, err := s.PixelWindow(sub)
		require.NoError(t, err)
		assert.Equal(t, 20, top)
		assert.Equal(t, 20, left)
		assert.Equal(t, 60, h)
		assert.Equal(t, 60, w)
	})

	t.Run("window outside grid", func(t *testing.T) {
		sub := mustSystem(t, Coordinate{12, 2}, Coordinate{2, 8}, 100, 60)
		_, _, _, _, err := s.PixelWindow(sub)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	})
}
