package csvout

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightsat/nightlights-agg/internal/domain"
)

func TestWrite(t *testing.T) {
	table := &domain.RegionalTable{
		Labels: []string{"Thane", "Pune"},
		Timestamps: []time.Time{
			time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		Series: map[string][]float64{
			"Thane": {12.5, 14},
			"Pune":  {7, 8.25},
		},
	}

	var b strings.Builder
	require.NoError(t, Write(&b, table))

	assert.Equal(t,
		"month,Thane,Pune\n"+
			"2021-01,12.5,7\n"+
			"2021-02,14,8.25\n",
		b.String())
}

func TestWriteRaggedSeries(t *testing.T) {
	table := &domain.RegionalTable{
		Labels: []string{"Thane"},
		Timestamps: []time.Time{
			time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		Series: map[string][]float64{"Thane": {12.5}},
	}

	var b strings.Builder
	err := Write(&b, table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
}
