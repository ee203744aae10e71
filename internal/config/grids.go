package config

import "github.com/nightsat/nightlights-agg/internal/domain"

// Reference grids shared across the service. Both are immutable values
// constructed once at startup; the Mumbai grid is derived from the India
// grid so the two stay pixel-aligned.
var (
	indiaGrid  = mustIndiaGrid()
	mumbaiGrid = mustMumbaiGrid()
)

// IndiaGrid returns the country-wide reference grid: 67.5E-97.5E, 40N-5N at
// 15 arc-second cells (240 cells per degree), 8400 rows x 7200 columns,
// matching the extent the monthly composites are published on.
func IndiaGrid() domain.CoordinateSystem { return indiaGrid }

// MumbaiGrid returns the Mumbai metropolitan sub-grid, derived from
// IndiaGrid via Translate.
func MumbaiGrid() domain.CoordinateSystem { return mumbaiGrid }

func mustIndiaGrid() domain.CoordinateSystem {
	s, err := domain.NewCoordinateSystem(
		domain.Coordinate{Lat: 40, Lon: 67.5},
		domain.Coordinate{Lat: 5, Lon: 97.5},
		8400, 7200,
	)
	if err != nil {
		panic(err)
	}
	return s
}

func mustMumbaiGrid() domain.CoordinateSystem {
	s, err := mustIndiaGrid().Translate(
		domain.Coordinate{Lat: 19.30, Lon: 72.75},
		domain.Coordinate{Lat: 18.85, Lon: 73.15},
	)
	if err != nil {
		panic(err)
	}
	return s
}
