// Package render draws a ChartSpec to PNG with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/RMahshie/curveplot/pkg/models"
)

const (
	DefaultWidth  = 17.8 * vg.Inch
	DefaultHeight = 9.2 * vg.Inch
	DefaultDPI    = 180

	titleSize  = 26
	labelSize  = 18
	tickSize   = 15
	legendSize = 14
	noteSize   = 15
)

// Renderer writes charts at a fixed size and resolution
type Renderer struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// NewRenderer returns a renderer with the standard figure size; dpi <= 0 means DefaultDPI
func NewRenderer(dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{Width: DefaultWidth, Height: DefaultHeight, DPI: dpi}
}

// Plot builds the gonum plot for spec without drawing it
func (r *Renderer) Plot(spec *models.ChartSpec) (*plot.Plot, error) {
	if err := checkAxis("x", spec.XAxis); err != nil {
		return nil, err
	}
	if err := checkAxis("y", spec.YAxis); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = titleSize
	p.Title.Padding = vg.Points(16)

	setupAxis(&p.X, spec.XAxis, vg.Points(8))
	setupAxis(&p.Y, spec.YAxis, vg.Points(10))

	grid := plotter.NewGrid()
	for _, ls := range []*draw.LineStyle{&grid.Vertical, &grid.Horizontal} {
		ls.Width = vg.Points(0.5)
		ls.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
	}
	p.Add(grid)

	for _, c := range spec.Curves {
		col, err := ParseColor(c.Style.Color)
		if err != nil {
			return nil, fmt.Errorf("curve %q: %w", c.Label, err)
		}
		for _, seg := range Segments(c.X, c.Y, spec.XAxis.Log, spec.YAxis.Log) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, fmt.Errorf("curve %q: %w", c.Label, err)
			}
			line.LineStyle.Color = col
			line.LineStyle.Width = vg.Points(c.Style.Width)
			p.Add(line)
		}
	}

	p.Legend.Left = true
	p.Legend.Top = false
	p.Legend.TextStyle.Font.Size = legendSize
	p.Legend.XOffs = vg.Points(8)
	p.Legend.YOffs = vg.Points(8)
	p.Legend.Padding = vg.Points(2)
	p.Legend.ThumbnailWidth = vg.Points(36)
	for _, e := range spec.Legend {
		col, err := ParseColor(e.Color)
		if err != nil {
			return nil, fmt.Errorf("legend %q: %w", e.Label, err)
		}
		p.Legend.Add(e.Label, &plotter.Line{LineStyle: draw.LineStyle{Color: col, Width: vg.Points(e.Width)}})
	}

	// Adding plotters widens the ranges to the data; pin them afterwards.
	p.X.Min, p.X.Max = spec.XAxis.Min, spec.XAxis.Max
	p.Y.Min, p.Y.Max = spec.YAxis.Min, spec.YAxis.Max

	return p, nil
}

// Render draws spec as PNG to w
func (r *Renderer) Render(w io.Writer, spec *models.ChartSpec) error {
	p, err := r.Plot(spec)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(vgimg.UseWH(r.Width, r.Height), vgimg.UseDPI(r.DPI))
	dc := draw.New(c)
	p.Draw(dc)
	annotate(p, dc, spec.Annotations)

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// RenderFile writes the chart to path
func (r *Renderer) RenderFile(path string, spec *models.ChartSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Render(f, spec); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("curves", len(spec.Curves)).Msg("Chart written")
	return nil
}

// annotate writes the summary lines right-aligned in the top-right corner of the data area
func annotate(p *plot.Plot, dc draw.Canvas, lines []string) {
	if len(lines) == 0 {
		return
	}
	da := p.DataCanvas(dc)
	w := da.Max.X - da.Min.X
	h := da.Max.Y - da.Min.Y

	sty := p.Legend.TextStyle
	sty.Font.Size = noteSize
	sty.XAlign = draw.XRight
	sty.YAlign = draw.YTop

	for i, txt := range lines {
		pt := vg.Point{
			X: da.Max.X - 0.005*w,
			Y: da.Max.Y - (0.01+0.04*vg.Length(i))*h,
		}
		dc.FillText(sty, pt, txt)
	}
}

func setupAxis(a *plot.Axis, spec models.AxisSpec, padding vg.Length) {
	a.Label.Text = spec.Label
	a.Label.TextStyle.Font.Size = labelSize
	a.Label.Padding = padding
	a.Tick.Label.Font.Size = tickSize
	if spec.Log {
		a.Scale = plot.LogScale{}
	}
	if len(spec.Ticks) > 0 {
		ticks := make([]plot.Tick, len(spec.Ticks))
		for i, t := range spec.Ticks {
			ticks[i] = plot.Tick{Value: t.Value, Label: t.Label}
		}
		a.Tick.Marker = plot.ConstantTicks(ticks)
	} else if spec.Log {
		a.Tick.Marker = plot.LogTicks{Prec: -1}
	}
}

func checkAxis(name string, a models.AxisSpec) error {
	if math.IsNaN(a.Min) || math.IsNaN(a.Max) || a.Min >= a.Max {
		return fmt.Errorf("%s axis: bad range [%v, %v]", name, a.Min, a.Max)
	}
	if a.Log && a.Min <= 0 {
		return fmt.Errorf("%s axis: log scale needs a positive minimum, got %v", name, a.Min)
	}
	return nil
}

// Segments splits a series into drawable runs. Missing values, and
// non-positive values on a log axis, end the current run.
func Segments(x, y []float64, xLog, yLog bool) []plotter.XYs {
	var segs []plotter.XYs
	var cur plotter.XYs
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	for i := 0; i < n; i++ {
		if !drawable(x[i], xLog) || !drawable(y[i], yLog) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

func drawable(v float64, logScale bool) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return !logScale || v > 0
}

// ParseColor converts "#RRGGBB" to an opaque color
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 || len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("color %q is not #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q is not #RRGGBB", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
