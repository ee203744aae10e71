// Package domain models monthly nighttime-lights raster composites and the
// masked aggregation that turns them into per-region time series.
//
// # Data Source
//
// Inputs are satellite-derived monthly composites in the style of the VIIRS
// Day/Night Band products: an average-radiance layer ("avg_rad", in
// nW/cm²/sr) and a cloud-free coverage layer ("cf_cvg", the count of
// cloud-free observations that contributed to each pixel). Rasters arrive
// through the loading collaborator already cropped to a reference grid; the
// domain never touches files.
//
// # Grid Conventions
//
// A CoordinateSystem describes a north-up pixel grid: the top-left corner is
// the geographic north-west of the extent, rows grow southward and columns
// grow eastward. Row/column indices come from a single affine transform and
// its exact algebraic inverse, so
//
//	s.LatToRow(s.RowToLat(r)) == r  for r in [0, Height)
//	s.LonToCol(s.ColToLon(c)) == c  for c in [0, Width)
//
// holds up to rounding. LatToRow and LonToCol deliberately do not clamp:
// a coordinate outside the extent yields a negative or beyond-extent index,
// and it is the caller's job to bounds-check. Keeping the transform total
// and reversible is what lets a sub-grid (a city crop) be derived from a
// reference grid (a country) with [CoordinateSystem.Translate] and stay
// pixel-aligned with a cropped raster.
//
// # Aggregation Semantics
//
// Aggregate is a masked SUM, never a mean. Pixels where the mask is zero
// contribute nothing; callers wanting an average must divide by
// [Mask.Count] themselves. This asymmetry is inherited from the upstream
// analysis conventions and is kept on purpose — radiance totals are
// comparable across regions of different size, means are not, and the two
// are trivially interconvertible.
//
// AggregateSeries applies the same reduction slice by slice along the time
// axis of a DataCube. Internally it walks only the mask's active cells,
// which for district-sized masks on country-sized grids skips well over 99%
// of the pixels; the result is identical (modulo float summation order) to
// calling Aggregate on every slice.
package domain
