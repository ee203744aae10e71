package domain

import "errors"

// Sentinel error kinds. Callers match them with errors.Is; sites that raise
// them always wrap with context via fmt.Errorf("...: %w", ...).
var (
	// ErrDegenerateExtent marks a CoordinateSystem whose corners coincide
	// or are inverted on an axis, or whose dimensions are not positive.
	ErrDegenerateExtent = errors.New("degenerate grid extent")

	// ErrDimensionMismatch marks arrays whose shapes disagree: image vs
	// mask, mask vs grid, or a crop window outside its source raster.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNoData means no raster file matched the requested product and
	// month range.
	ErrNoData = errors.New("no data in range")

	// ErrDuplicateLabel means two region rows produced the same attribute
	// value, which would silently overwrite a column in the output table.
	ErrDuplicateLabel = errors.New("duplicate region label")
)
