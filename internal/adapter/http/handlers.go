package http

import (
	"encoding/json"
	"net/http"

	"github.com/couchcryptid/quake-data-service/internal/domain"
	"github.com/couchcryptid/quake-data-service/internal/engine"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	p := domain.SearchParams{
		Center:       q.point(),
		RadiusKm:     q.float("radius_km", 100),
		MinMagnitude: q.float("min_magnitude", 0),
		MaxMagnitude: q.float("max_magnitude", 10),
		Days:         q.int("days", 7),
		Limit:        q.int("limit", 20),
	}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.svc.Search(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpSearch, res)
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	p := domain.NearbyParams{
		Center:       q.point(),
		RadiusKm:     q.float("radius_km", 100),
		MinMagnitude: q.float("min_magnitude", 2.5),
	}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.svc.Nearby(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpNearby, res)
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	p := domain.TopParams{
		Period:       domain.FeedWindow(q.string("period", string(domain.WindowWeek))),
		RankBy:       q.string("rank_by", domain.RankByMagnitude),
		MinMagnitude: q.float("min_magnitude", 0),
		Limit:        q.int("limit", 10),
	}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.svc.Top(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpTop, res)
}

func (s *Server) handleTier(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	p := domain.TierParams{
		Tier:   domain.FeedTier(chi.URLParam(r, "tier")),
		Window: domain.FeedWindow(chi.URLParam(r, "window")),
		Limit:  q.int("limit", 20),
	}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.svc.ByMagnitudeTier(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpByMagnitudeTier, res)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Event(r.Context(), domain.EventParams{ID: chi.URLParam(r, "id")})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpEvent, res)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var p domain.CompareParams
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		s.writeError(w, r, domain.NewValidationError("body", "json", "must be a JSON object with a regions list"))
		return
	}

	res, err := s.svc.Compare(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpCompare, res)
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"regions": domain.RegionPresets()})
}

func (s *Server) handleRegionReport(w http.ResponseWriter, r *http.Request) {
	s.report(w, r, domain.ReportParams{Region: chi.URLParam(r, "name")})
}

func (s *Server) handleBoundsReport(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	box := domain.BoundingBox{
		LatMin: q.requiredFloat("lat_min"),
		LatMax: q.requiredFloat("lat_max"),
		LonMin: q.requiredFloat("lon_min"),
		LonMax: q.requiredFloat("lon_max"),
	}
	name := q.string("name", "")
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.report(w, r, domain.ReportParams{Region: name, Bounds: &box})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request, p domain.ReportParams) {
	res, err := s.svc.RegionalReport(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpRegionalReport, res)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Overview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpOverview, res)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r.URL.Query())
	p := domain.RiskParams{Center: q.point()}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.svc.AssessLocation(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, engine.OpRisk, res)
}
