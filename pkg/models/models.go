package models

import (
	"fmt"
	"strings"
	"time"
)

// ChartKind selects between the frequency response and distortion layouts.
// The numeric values match the interactive menu.
type ChartKind int

const (
	ChartFR  ChartKind = 1
	ChartTHD ChartKind = 2
)

func (k ChartKind) String() string {
	switch k {
	case ChartFR:
		return "fr"
	case ChartTHD:
		return "thd"
	default:
		return "unknown"
	}
}

// ParseChartKind accepts "fr", "thd" or the menu numbers "1" and "2"
func ParseChartKind(s string) (ChartKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fr", "1":
		return ChartFR, nil
	case "thd", "2":
		return ChartTHD, nil
	}
	return 0, fmt.Errorf("unknown chart kind %q", s)
}

// ColorMode selects how curve colors are assigned
type ColorMode string

const (
	// ColorByLabel classifies each row by its label
	ColorByLabel ColorMode = "label"
	// ColorByParity colors rows by their index (limit rows first, then alternating left/right)
	ColorByParity ColorMode = "parity"
)

// ParseColorMode validates a color mode name; empty means label mode
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ColorByLabel:
		return ColorByLabel, nil
	case ColorByParity:
		return ColorByParity, nil
	}
	return "", fmt.Errorf("unknown color mode %q", s)
}

// ColorAssignment is the display style chosen for one curve
type ColorAssignment struct {
	Color   string  `json:"color" doc:"Hex color #RRGGBB"`
	Width   float64 `json:"width" doc:"Line width in points"`
	Limit   bool    `json:"limit" doc:"Whether the curve is a limit curve"`
	Matched bool    `json:"matched" doc:"Whether a color rule matched"`
	Rule    string  `json:"rule,omitempty" doc:"Name of the rule that matched"`
}

// LegendEntry is one line of the chart legend
type LegendEntry struct {
	Label string  `json:"label" doc:"Display name"`
	Color string  `json:"color" doc:"Hex color #RRGGBB"`
	Width float64 `json:"width" doc:"Line width in points"`
}

// Tick is an axis tick; an empty label marks a minor tick
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// AxisSpec describes one chart axis
type AxisSpec struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Log   bool    `json:"log"`
	Ticks []Tick  `json:"ticks,omitempty"`
}

// Curve is a styled series ready to draw
type Curve struct {
	Label string          `json:"label"`
	X     []float64       `json:"x"`
	Y     []float64       `json:"y"`
	Style ColorAssignment `json:"style"`
}

// ChartSpec is everything the renderer needs to draw a chart
type ChartSpec struct {
	Title       string        `json:"title"`
	Kind        ChartKind     `json:"kind"`
	XAxis       AxisSpec      `json:"x_axis"`
	YAxis       AxisSpec      `json:"y_axis"`
	Legend      []LegendEntry `json:"legend"`
	Annotations []string      `json:"annotations"`
	Curves      []Curve       `json:"curves"`
}

// Chart record statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ChartRecord is the render history entity (for internal use)
type ChartRecord struct {
	ID          string     `json:"id"`
	SourceName  string     `json:"source_name"`
	Kind        string     `json:"kind"`
	ColorMode   string     `json:"color_mode"`
	CurveCount  int        `json:"curve_count"`
	UnitCount   *int       `json:"unit_count,omitempty"`
	Status      string     `json:"status"`
	OutputKey   *string    `json:"output_key,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
