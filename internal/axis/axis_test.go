package axis

import (
	"math"
	"testing"

	"github.com/RMahshie/curveplot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(samples ...[]float64) []models.CurveRow {
	out := make([]models.CurveRow, len(samples))
	for i, s := range samples {
		out[i] = models.CurveRow{Label: "r", Samples: s}
	}
	return out
}

func TestDefaultRange(t *testing.T) {
	r, err := DefaultRange(rows([]float64{90, 95, 100}, []float64{85, 120, 99}))
	require.NoError(t, err)
	assert.Equal(t, Range{120, 85}, r, "default range is [max, min]")

	r, err = DefaultRange(rows([]float64{math.NaN(), 3}, []float64{math.Inf(1), -2}))
	require.NoError(t, err)
	assert.Equal(t, Range{3, -2}, r)

	_, err = DefaultRange(rows([]float64{math.NaN()}))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "85,125", want: Range{85, 125}},
		{in: " (85, 125) ", want: Range{85, 125}},
		{in: "125,85", want: Range{125, 85}},
		{in: "（85，125）", want: Range{85, 125}},
		{in: "-10.5,2e1", want: Range{-10.5, 20}},
		{in: "85", wantErr: true},
		{in: "85,90,95", wantErr: true},
		{in: "a,b", wantErr: true},
		{in: "nan,1", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_FR(t *testing.T) {
	data := rows([]float64{10, 20, 30}, []float64{5, 25, 40})

	y, err := Resolve(models.ChartFR, data, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, y.Min)
	assert.Equal(t, 40.0, y.Max)
	assert.False(t, y.Log)
	assert.Equal(t, SPLLabel, y.Label)

	override := Range{125, 85}
	y, err = Resolve(models.ChartFR, data, &override)
	require.NoError(t, err)
	assert.Equal(t, 85.0, y.Min, "reversed override still draws upright")
	assert.Equal(t, 125.0, y.Max)

	flat := rows([]float64{7, 7})
	y, err = Resolve(models.ChartFR, flat, nil)
	require.NoError(t, err)
	assert.Equal(t, 6.0, y.Min)
	assert.Equal(t, 8.0, y.Max)

	_, err = Resolve(models.ChartFR, rows([]float64{math.NaN()}), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestResolve_THD(t *testing.T) {
	override := Range{1, 2}
	y, err := Resolve(models.ChartTHD, rows([]float64{500}), &override)
	require.NoError(t, err)
	assert.True(t, y.Log)
	assert.Equal(t, 0.01, y.Min)
	assert.Equal(t, 100.0, y.Max)
	assert.Equal(t, RatioLabel, y.Label)
	assert.Len(t, y.Ticks, 5)
}

func TestFrequency(t *testing.T) {
	x, err := Frequency([]float64{20, 1000, 20000})
	require.NoError(t, err)
	assert.True(t, x.Log)
	assert.Equal(t, 20.0, x.Min)
	assert.Equal(t, 20000.0, x.Max)
	assert.Equal(t, FrequencyTicks, x.Ticks)

	x, err = Frequency([]float64{math.NaN(), 0, 50, 400})
	require.NoError(t, err)
	assert.Equal(t, 50.0, x.Min, "non-positive and missing values are skipped")

	_, err = Frequency([]float64{0, -1, math.NaN()})
	assert.ErrorIs(t, err, ErrNoData)
}

// Two curves over [20, 1000, 20000] with no override span their global extremes.
func TestResolve_DefaultFromHeader(t *testing.T) {
	set := &models.CurveSet{
		X:    []float64{20, 1000, 20000},
		Rows: rows([]float64{88, 92, 95}, []float64{80, 99, 90}),
	}
	r, err := DefaultRange(set.Rows)
	require.NoError(t, err)
	assert.Equal(t, Range{99, 80}, r)
}
