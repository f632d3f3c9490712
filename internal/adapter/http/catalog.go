package http

import (
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// Operation describes one public endpoint. Price is billing metadata for the
// payment layer in front of the API; nothing here enforces it.
type Operation struct {
	Name        string `json:"name"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

var catalog = []Operation{
	{Name: "overview", Method: http.MethodGet, Path: "/api/v1/overview", Description: "Global activity snapshot across the hour, day, week and significant feeds.", Price: "free"},
	{Name: "search", Method: http.MethodGet, Path: "/api/v1/quakes/search", Description: "Quakes within a radius, magnitude range and number of days, oldest first.", Price: "$0.002"},
	{Name: "nearby", Method: http.MethodGet, Path: "/api/v1/quakes/nearby", Description: "Past week's quakes near a point, nearest first.", Price: "$0.001"},
	{Name: "top", Method: http.MethodGet, Path: "/api/v1/quakes/top", Description: "Largest quakes of a day, week or month by magnitude or significance.", Price: "$0.001"},
	{Name: "tier", Method: http.MethodGet, Path: "/api/v1/quakes/tier/{tier}/{window}", Description: "A summary feed by magnitude tier and window.", Price: "free"},
	{Name: "event", Method: http.MethodGet, Path: "/api/v1/quakes/{id}", Description: "A single quake by id.", Price: "$0.001"},
	{Name: "compare", Method: http.MethodPost, Path: "/api/v1/compare", Description: "Compare two to five regions over the past week.", Price: "$0.005"},
	{Name: "regions", Method: http.MethodGet, Path: "/api/v1/regions", Description: "Preset regions available for reports.", Price: "free"},
	{Name: "region_report", Method: http.MethodGet, Path: "/api/v1/regions/{name}/report", Description: "Activity report for a preset region.", Price: "$0.003"},
	{Name: "bounds_report", Method: http.MethodGet, Path: "/api/v1/report", Description: "Activity report for an explicit bounding box.", Price: "$0.003"},
	{Name: "risk", Method: http.MethodGet, Path: "/api/v1/risk", Description: "Heuristic seismic risk score for a location.", Price: "$0.005"},
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"service":    "quake-data-service",
		"source":     "USGS Earthquake Hazards Program",
		"operations": catalog,
	})
}
