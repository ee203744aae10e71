// Command ntlexport aggregates a month range once and writes the regional
// table as CSV, for notebook and spreadsheet workflows that don't need the
// long-running service.
//
// Usage:
//
//	go run ./cmd/ntlexport \
//	  -rasters data/rasters \
//	  -regions data/districts.geojson \
//	  -attribute district \
//	  -from 202101 -to 202112 \
//	  -grid mumbai \
//	  -out radiance_2021.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nightsat/nightlights-agg/internal/adapter/csvout"
	"github.com/nightsat/nightlights-agg/internal/config"
	"github.com/nightsat/nightlights-agg/internal/domain"
	"github.com/nightsat/nightlights-agg/internal/raster"
	"github.com/nightsat/nightlights-agg/internal/regions"
)

func main() {
	rasterDir := flag.String("rasters", "", "directory containing monthly .asc composites")
	regionsFile := flag.String("regions", "", "GeoJSON FeatureCollection of regions")
	attribute := flag.String("attribute", "district", "region property used as column key")
	product := flag.String("product", raster.ProductRadiance, "avg_rad or cf_cvg")
	fromStr := flag.String("from", "", "first month, YYYYMM")
	toStr := flag.String("to", "", "last month, YYYYMM")
	gridName := flag.String("grid", "india", "reference grid: india or mumbai")
	out := flag.String("out", "", "output CSV path (default stdout)")
	flag.Parse()

	if *rasterDir == "" || *regionsFile == "" || *fromStr == "" || *toStr == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*rasterDir, *regionsFile, *attribute, *product, *fromStr, *toStr, *gridName, *out); err != nil {
		fmt.Fprintf(os.Stderr, "ntlexport: %v\n", err)
		os.Exit(1)
	}
}

func run(rasterDir, regionsFile, attribute, product, fromStr, toStr, gridName, out string) error {
	from, err := time.Parse("200601", fromStr)
	if err != nil {
		return fmt.Errorf("invalid -from %q: want YYYYMM", fromStr)
	}
	to, err := time.Parse("200601", toStr)
	if err != nil {
		return fmt.Errorf("invalid -to %q: want YYYYMM", toStr)
	}

	cfg := &config.Config{GridName: gridName}
	grid, err := cfg.GridSystem()
	if err != nil {
		return err
	}

	table, err := regions.LoadTableFile(regionsFile)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	loader := raster.NewLoader(logger)

	cube, err := loader.LoadCube(context.Background(), rasterDir, product, from, to, grid)
	if err != nil {
		return err
	}

	result, err := domain.AggregateTable(grid, cube, table, attribute)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return csvout.Write(w, result)
}
