// Package csvout renders a regional table as CSV: one row per month, one
// column per region, in table order.
package csvout

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nightsat/nightlights-agg/internal/domain"
)

// Write emits the table with a "month,<label...>" header. Months use the
// YYYY-MM form the composites are keyed by.
func Write(w io.Writer, table *domain.RegionalTable) error {
	cw := csv.NewWriter(w)

	header := append([]string{"month"}, table.Labels...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(table.Labels)+1)
	for i, ts := range table.Timestamps {
		row[0] = ts.Format("2006-01")
		for j, label := range table.Labels {
			series := table.Series[label]
			if i >= len(series) {
				return fmt.Errorf("region %q has %d values for %d months: %w",
					label, len(series), len(table.Timestamps), domain.ErrDimensionMismatch)
			}
			row[j+1] = strconv.FormatFloat(series[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
