package api

import (
	"net/http"

	"github.com/RMahshie/curveplot/internal/api/handlers"
	"github.com/RMahshie/curveplot/internal/classify"
	"github.com/RMahshie/curveplot/internal/processing"
	"github.com/RMahshie/curveplot/internal/repository"
	"github.com/RMahshie/curveplot/internal/storage"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, chartRepo repository.ChartRepository, store storage.ObjectStore, chartSvc processing.ChartService, rules *classify.RuleSet) {
	// Initialize handlers
	chartHandler := handlers.NewChartHandler(chartRepo, store, chartSvc, rules)

	// Register chart routes
	huma.Register(api, huma.Operation{
		OperationID: "createChart",
		Method:      http.MethodPost,
		Path:        "/api/charts",
		Summary:     "Render a chart",
		Description: "Renders the posted CSV into a PNG chart, stores it and records it in the history",
		Tags:        []string{"Charts"},
	}, chartHandler.CreateChart)

	huma.Register(api, huma.Operation{
		OperationID: "listCharts",
		Method:      http.MethodGet,
		Path:        "/api/charts",
		Summary:     "List charts",
		Description: "Returns the most recently rendered charts, newest first",
		Tags:        []string{"Charts"},
	}, chartHandler.ListCharts)

	huma.Register(api, huma.Operation{
		OperationID: "getChart",
		Method:      http.MethodGet,
		Path:        "/api/charts/{id}",
		Summary:     "Get chart",
		Description: "Returns the history record of a chart",
		Tags:        []string{"Charts"},
	}, chartHandler.GetChart)

	huma.Register(api, huma.Operation{
		OperationID: "getChartImage",
		Method:      http.MethodGet,
		Path:        "/api/charts/{id}/image",
		Summary:     "Get chart image",
		Description: "Returns the rendered PNG",
		Tags:        []string{"Charts"},
	}, chartHandler.GetChartImage)
}
