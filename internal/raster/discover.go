package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/nightsat/nightlights-agg/internal/domain"
)

// Products published per month. avg_rad is average radiance, cf_cvg the
// cloud-free observation count backing it.
const (
	ProductRadiance = "avg_rad"
	ProductCoverage = "cf_cvg"
)

// fileRe matches monthly composite filenames: <product>_<YYYYMM>.asc,
// e.g. "avg_rad_202101.asc".
var fileRe = regexp.MustCompile(`^([a-z_]+)_(\d{6})\.asc$`)

// GridFile is one discovered monthly composite.
type GridFile struct {
	Path  string
	Month time.Time
}

// Discover lists the monthly files for a product within [from, to]
// (inclusive, month granularity), sorted by month. An empty result is
// reported as domain.ErrNoData rather than an empty cube downstream.
func Discover(dir, product string, from, to time.Time) ([]GridFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read raster dir: %w", err)
	}

	var files []GridFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileRe.FindStringSubmatch(e.Name())
		if m == nil || m[1] != product {
			continue
		}
		month, err := time.Parse("200601", m[2])
		if err != nil {
			continue
		}
		if month.Before(from) || month.After(to) {
			continue
		}
		files = append(files, GridFile{Path: filepath.Join(dir, e.Name()), Month: month})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files in %s for %s..%s: %w",
			product, dir, from.Format("200601"), to.Format("200601"), domain.ErrNoData)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Month.Before(files[j].Month) })
	return files, nil
}
