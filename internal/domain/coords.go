package domain

import (
	"fmt"
	"math"
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CoordinateSystem maps between geographic coordinates and the pixel grid of
// a north-up raster. TopLeft must be geographically north-west of
// BottomRight; rows grow southward, columns eastward. Values are immutable
// after construction.
type CoordinateSystem struct {
	TopLeft     Coordinate `json:"top_left"`
	BottomRight Coordinate `json:"bottom_right"`
	Height      int        `json:"height"`
	Width       int        `json:"width"`
}

// NewCoordinateSystem validates the extent and dimensions. A coincident or
// inverted corner pair would make the affine transform non-monotonic, so it
// fails with ErrDegenerateExtent.
func NewCoordinateSystem(topLeft, bottomRight Coordinate, height, width int) (CoordinateSystem, error) {
	if topLeft.Lat <= bottomRight.Lat {
		return CoordinateSystem{}, fmt.Errorf("top-left latitude %v not north of bottom-right %v: %w",
			topLeft.Lat, bottomRight.Lat, ErrDegenerateExtent)
	}
	if topLeft.Lon >= bottomRight.Lon {
		return CoordinateSystem{}, fmt.Errorf("top-left longitude %v not west of bottom-right %v: %w",
			topLeft.Lon, bottomRight.Lon, ErrDegenerateExtent)
	}
	if height <= 0 || width <= 0 {
		return CoordinateSystem{}, fmt.Errorf("non-positive grid dimensions %dx%d: %w",
			height, width, ErrDegenerateExtent)
	}
	return CoordinateSystem{TopLeft: topLeft, BottomRight: bottomRight, Height: height, Width: width}, nil
}

// LatToRow converts a latitude to a row index. The result is not clamped:
// latitudes outside the extent yield negative or >= Height indices, and the
// caller is responsible for bounds-checking.
func (s CoordinateSystem) LatToRow(lat float64) int {
	return int(math.Round((lat - s.TopLeft.Lat) * float64(s.Height) / (s.BottomRight.Lat - s.TopLeft.Lat)))
}

// LonToCol converts a longitude to a column index, unclamped like LatToRow.
func (s CoordinateSystem) LonToCol(lon float64) int {
	return int(math.Round((lon - s.TopLeft.Lon) * float64(s.Width) / (s.BottomRight.Lon - s.TopLeft.Lon)))
}

// RowToLat returns the latitude of the northern edge of the given row. It is
// the exact algebraic inverse of LatToRow.
func (s CoordinateSystem) RowToLat(row int) float64 {
	return s.TopLeft.Lat + float64(row)*(s.BottomRight.Lat-s.TopLeft.Lat)/float64(s.Height)
}

// ColToLon returns the longitude of the western edge of the given column.
func (s CoordinateSystem) ColToLon(col int) float64 {
	return s.TopLeft.Lon + float64(col)*(s.BottomRight.Lon-s.TopLeft.Lon)/float64(s.Width)
}

// CellCenter returns the geographic centre of pixel (row, col). Rasterizers
// sample region membership here rather than at cell edges so that a polygon
// boundary crossing a cell decides it by its midpoint.
func (s CoordinateSystem) CellCenter(row, col int) Coordinate {
	return Coordinate{
		Lat: s.TopLeft.Lat + (float64(row)+0.5)*(s.BottomRight.Lat-s.TopLeft.Lat)/float64(s.Height),
		Lon: s.TopLeft.Lon + (float64(col)+0.5)*(s.BottomRight.Lon-s.TopLeft.Lon)/float64(s.Width),
	}
}

// Translate derives the coordinate system of a sub-extent. The new corners
// are located in this system's pixel space and the sub-grid's dimensions are
// taken from the corner offsets, so a raster cropped at those offsets and
// the returned system stay pixel-aligned.
func (s CoordinateSystem) Translate(topLeft, bottomRight Coordinate) (CoordinateSystem, error) {
	top := s.LatToRow(topLeft.Lat)
	bottom := s.LatToRow(bottomRight.Lat)
	left := s.LonToCol(topLeft.Lon)
	right := s.LonToCol(bottomRight.Lon)

	height := bottom - top
	if height < 0 {
		height = -height
	}
	width := right - left
	if width < 0 {
		width = -width
	}
	return NewCoordinateSystem(topLeft, bottomRight, height, width)
}

// PixelWindow returns the offsets of sub within this system's pixel space
// together with sub's dimensions. It fails with ErrDimensionMismatch when the
// window falls outside this grid, since a crop at those offsets would read
// out of bounds.
func (s CoordinateSystem) PixelWindow(sub CoordinateSystem) (top, left, height, width int, err error) {
	top = s.LatToRow(sub.TopLeft.Lat)
	left = s.LonToCol(sub.TopLeft.Lon)
	if top < 0 || left < 0 || top+sub.Height > s.Height || left+sub.Width > s.Width {
		return 0, 0, 0, 0, fmt.Errorf(
			"window %dx%d at (%d,%d) outside %dx%d grid: %w",
			sub.Height, sub.Width, top, left, s.Height, s.Width, ErrDimensionMismatch)
	}
	return top, left, sub.Height, sub.Width, nil
}
