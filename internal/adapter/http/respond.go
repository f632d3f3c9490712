package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-data-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const publishTimeout = 2 * time.Second

type errorResponse struct {
	Error     string              `json:"error"`
	Fields    []domain.FieldError `json:"fields,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable), errors.Is(err, domain.ErrUpstreamMalformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	// The rate limiter reports a deadline it cannot meet without wrapping the context error.
	if status >= http.StatusInternalServerError && errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	resp := errorResponse{RequestID: chimw.GetReqID(r.Context())}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Error = domain.ErrValidation.Error()
		resp.Fields = verr.Fields
	case status == http.StatusNotFound:
		resp.Error = "event not found"
	case status == http.StatusGatewayTimeout:
		resp.Error = "request timed out"
	case errors.Is(err, domain.ErrUpstreamMalformed):
		resp.Error = domain.ErrUpstreamMalformed.Error()
	case status == http.StatusBadGateway:
		resp.Error = domain.ErrUpstreamUnavailable.Error()
	default:
		resp.Error = "internal error"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err, "request_id", resp.RequestID)
	}
	sharedobs.WriteJSON(w, status, resp)
}

// respond writes a successful result and records it as a result event.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, op string, result any) {
	sharedobs.WriteJSON(w, http.StatusOK, result)
	s.publish(r, op, result)
}

// publish hands the result to the sink. Failures are logged; the response
// has already been written.
func (s *Server) publish(r *http.Request, op string, result any) {
	if s.sink == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("encode result event failed", "operation", op, "error", err)
		return
	}
	event := domain.ResultEvent{
		ID:        uuid.NewString(),
		Operation: op,
		RequestID: chimw.GetReqID(r.Context()),
		Result:    payload,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
	defer cancel()

	if err := s.sink.Publish(ctx, event); err != nil {
		s.metrics.ResultsPublished.WithLabelValues("error").Inc()
		s.logger.Warn("publish result event failed", "operation", op, "event_id", event.ID, "error", err)
		return
	}
	s.metrics.ResultsPublished.WithLabelValues("success").Inc()
}
