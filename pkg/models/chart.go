package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateChartRequestBody is the body of the create chart request
type CreateChartRequestBody struct {
	Name      string    `json:"name" minLength:"1" maxLength:"200" required:"true" doc:"Source name, used as the chart title"`
	Kind      string    `json:"kind" enum:"fr,thd" required:"true" doc:"Chart type: frequency response or THD"`
	ColorMode string    `json:"color_mode,omitempty" enum:"label,parity" doc:"Curve coloring scheme (default label)"`
	YRange    []float64 `json:"y_range,omitempty" minItems:"2" maxItems:"2" doc:"Explicit Y range for FR charts as [min, max]"`
	CSV       string    `json:"csv" minLength:"1" maxLength:"10485760" required:"true" doc:"CSV content: row 0 holds frequencies, rows 1..N hold label and samples"`
}

// CreateChartRequest represents a request to render a CSV into a chart
type CreateChartRequest struct {
	Body CreateChartRequestBody
}

// CreateChartResponseBody is the body of the create chart response
type CreateChartResponseBody struct {
	ID          string        `json:"id" doc:"Chart unique identifier"`
	CurveCount  int           `json:"curve_count" doc:"Number of curves drawn"`
	UnitCount   *int          `json:"unit_count,omitempty" doc:"Units measured (parity color mode only)"`
	Legend      []LegendEntry `json:"legend" doc:"Legend entries, one per distinct color"`
	YMin        float64       `json:"y_min" doc:"Resolved Y axis minimum"`
	YMax        float64       `json:"y_max" doc:"Resolved Y axis maximum"`
	DownloadURL string        `json:"download_url,omitempty" doc:"Pre-signed URL for the PNG"`
	ExpiresIn   int           `json:"expires_in,omitempty" doc:"URL expiration time in seconds"`
}

// CreateChartResponse represents the response from rendering a chart
type CreateChartResponse struct {
	Body CreateChartResponseBody
}

// GetChartRequest represents a request for a chart record
type GetChartRequest struct {
	ID string `path:"id" doc:"Chart ID"`
}

// GetChartResponse returns a chart record
type GetChartResponse struct {
	Body *ChartRecord
}

// ListChartsRequest represents a request for recent chart records
type ListChartsRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum number of records"`
}

// ListChartsResponse returns recent chart records, newest first
type ListChartsResponse struct {
	Body struct {
		Charts []*ChartRecord `json:"charts" doc:"Chart records"`
	}
}

// GetChartImageRequest represents a request for the rendered PNG
type GetChartImageRequest struct {
	ID string `path:"id" doc:"Chart ID"`
}

// GetChartImageResponse streams the rendered PNG
type GetChartImageResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
