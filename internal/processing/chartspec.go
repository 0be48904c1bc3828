package processing

import (
	"fmt"

	"github.com/RMahshie/curveplot/internal/axis"
	"github.com/RMahshie/curveplot/internal/classify"
	"github.com/RMahshie/curveplot/internal/legend"
	"github.com/RMahshie/curveplot/pkg/models"
)

// Options controls how a curve set is turned into a chart
type Options struct {
	Kind  models.ChartKind
	Mode  models.ColorMode
	Rules *classify.RuleSet
	// YRange overrides the computed FR range; ignored for THD charts
	YRange *axis.Range
}

// Summary holds the derived counts shown on the chart
type Summary struct {
	CurveCount int
	UnitCount  *int
}

// UnitCount derives the number of measured units from the curve count.
// FR files carry two limit rows and THD files one; each unit has a left and right curve.
func UnitCount(kind models.ChartKind, curves int) int {
	offset := 2
	if kind == models.ChartTHD {
		offset = 1
	}
	return (curves - offset) / 2
}

// BuildSpec classifies the rows and resolves the axes for set
func BuildSpec(set *models.CurveSet, opts Options) (*models.ChartSpec, Summary, error) {
	if opts.Kind != models.ChartFR && opts.Kind != models.ChartTHD {
		return nil, Summary{}, fmt.Errorf("unsupported chart kind %d", opts.Kind)
	}
	if opts.Mode == "" {
		opts.Mode = models.ColorByLabel
	}

	xAxis, err := axis.Frequency(set.X)
	if err != nil {
		return nil, Summary{}, err
	}
	yAxis, err := axis.Resolve(opts.Kind, set.Rows, opts.YRange)
	if err != nil {
		return nil, Summary{}, err
	}

	labels := set.Labels()
	styles := classify.All(classify.New(opts.Mode, opts.Kind, opts.Rules), labels)

	curves := make([]models.Curve, len(set.Rows))
	for i, row := range set.Rows {
		curves[i] = models.Curve{
			Label: row.Label,
			X:     set.X,
			Y:     row.Samples,
			Style: styles[i],
		}
	}

	summary := Summary{CurveCount: len(set.Rows)}
	annotations := []string{fmt.Sprintf("Number of curves: %d", summary.CurveCount)}
	if opts.Mode == models.ColorByParity {
		units := UnitCount(opts.Kind, summary.CurveCount)
		summary.UnitCount = &units
		annotations = append(annotations, fmt.Sprintf("Units: %d", units))
	}

	spec := &models.ChartSpec{
		Title:       set.Name,
		Kind:        opts.Kind,
		XAxis:       xAxis,
		YAxis:       yAxis,
		Legend:      legend.For(opts.Mode, labels, styles),
		Annotations: annotations,
		Curves:      curves,
	}
	return spec, summary, nil
}
