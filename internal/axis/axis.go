// Package axis resolves axis scales, ranges and tick positions.
package axis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RMahshie/curveplot/pkg/models"
)

var (
	ErrInvalidRange = errors.New("invalid range")
	ErrNoData       = errors.New("no finite samples")
)

const (
	FrequencyLabel = "Frequency [Hz]"
	SPLLabel       = "SPL [dB]"
	RatioLabel     = "Ratio[%]"

	THDMin = 0.01
	THDMax = 100.0
)

// FrequencyTicks is the fixed X tick set
var FrequencyTicks = []models.Tick{
	{Value: 20, Label: "20"},
	{Value: 100, Label: "100"},
	{Value: 1000, Label: "1000"},
	{Value: 10000, Label: "10000"},
	{Value: 20000, Label: "20000"},
}

// RatioTicks is the fixed THD Y tick set
var RatioTicks = []models.Tick{
	{Value: 0.01, Label: "0.01"},
	{Value: 0.1, Label: "0.1"},
	{Value: 1, Label: "1"},
	{Value: 10, Label: "10"},
	{Value: 100, Label: "100"},
}

// Range is a pair of Y limits in the order they were given
type Range [2]float64

// Lo returns the smaller limit
func (r Range) Lo() float64 { return math.Min(r[0], r[1]) }

// Hi returns the larger limit
func (r Range) Hi() float64 { return math.Max(r[0], r[1]) }

// ParseRange reads "min,max", optionally wrapped in parentheses
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.NewReplacer("（", "", "）", "", "，", ",").Replace(s)

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: want \"min,max\", got %q", ErrInvalidRange, s)
	}
	var r Range
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Range{}, fmt.Errorf("%w: %q is not a number", ErrInvalidRange, p)
		}
		r[i] = v
	}
	return r, nil
}

// DefaultRange is [max, min] over every finite sample
func DefaultRange(rows []models.CurveRow) (Range, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		for _, v := range row.Samples {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return Range{}, ErrNoData
	}
	return Range{hi, lo}, nil
}

// Frequency builds the logarithmic X axis over the positive header values
func Frequency(x []float64) (models.AxisSpec, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return models.AxisSpec{}, fmt.Errorf("x axis: %w", ErrNoData)
	}
	if lo == hi {
		lo, hi = lo/2, hi*2
	}
	return models.AxisSpec{
		Label: FrequencyLabel,
		Min:   lo,
		Max:   hi,
		Log:   true,
		Ticks: append([]models.Tick(nil), FrequencyTicks...),
	}, nil
}

// Resolve builds the Y axis for the chart kind. The override only applies to FR charts.
func Resolve(kind models.ChartKind, rows []models.CurveRow, override *Range) (models.AxisSpec, error) {
	if kind == models.ChartTHD {
		return models.AxisSpec{
			Label: RatioLabel,
			Min:   THDMin,
			Max:   THDMax,
			Log:   true,
			Ticks: append([]models.Tick(nil), RatioTicks...),
		}, nil
	}

	var r Range
	if override != nil {
		r = *override
	} else {
		var err error
		if r, err = DefaultRange(rows); err != nil {
			return models.AxisSpec{}, fmt.Errorf("y axis: %w", err)
		}
	}

	lo, hi := r.Lo(), r.Hi()
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return models.AxisSpec{Label: SPLLabel, Min: lo, Max: hi}, nil
}
