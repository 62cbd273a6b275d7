package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/pathfind"
	"github.com/vanshika/dronepath/internal/service"
)

const taskDescription = `The drone has located its landing zone and now needs the shortest way to reach it.

Satellite S1 reports the waypoints the drone can fly through and the distance between each connected pair.

POST a JSON body {"start": "A", "end": "F"} to this endpoint. Both values must be valid points on the map (%s).
The response holds the route as "A -> ... -> F" and the total distance. A route that cannot be flown
is answered with status 400, distance -1 and an empty path.
`

// RouteHandlers exposes the route query endpoints.
type RouteHandlers struct {
	logger   *slog.Logger
	routes   *service.RouteService
	batch    *service.BatchRouter
	validate *validator.Validate
}

// NewRouteHandlers constructs a RouteHandlers instance.
func NewRouteHandlers(logger *slog.Logger, routes *service.RouteService, batch *service.BatchRouter) *RouteHandlers {
	return &RouteHandlers{
		logger:   logger,
		routes:   routes,
		batch:    batch,
		validate: newValidator(routes.IsPoint),
	}
}

type routeRequest struct {
	Start string `json:"start" validate:"required,point"`
	End   string `json:"end" validate:"required,point"`
}

type batchRequest struct {
	Pairs []routeRequest `json:"pairs" validate:"required,min=1,max=256,dive"`
}

type batchResponse struct {
	Results []service.PairResult `json:"results"`
	Failed  int                  `json:"failed"`
}

type pointsResponse struct {
	Points []string `json:"points"`
}

func (h *RouteHandlers) describe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, taskDescription, strings.Join(h.routes.Points(r.Context()), ", "))
}

func (h *RouteHandlers) findRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, validationResponse{Errors: fieldErrors(err)})
		return
	}

	route, err := h.routes.FindRoute(r.Context(), req.Start, req.End)
	if err != nil {
		h.writeRouteError(w, r, err)
		return
	}

	if route.Distance >= 0 {
		respondJSON(w, http.StatusOK, route)
		return
	}
	respondJSON(w, http.StatusBadRequest, route)
}

func (h *RouteHandlers) findRoutes(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, validationResponse{Errors: fieldErrors(err)})
		return
	}

	pairs := make([]domain.RoutePair, len(req.Pairs))
	for i, p := range req.Pairs {
		pairs[i] = domain.RoutePair{Start: p.Start, End: p.End}
	}

	results, err := h.batch.RouteAll(r.Context(), pairs)
	var taskErr *service.TaskError
	switch {
	case errors.As(err, &taskErr):
		h.logger.Warn("batch completed with failures", "failed", len(taskErr.Errors), "total", len(pairs))
		respondJSON(w, http.StatusOK, batchResponse{Results: results, Failed: len(taskErr.Errors)})
	case err != nil:
		h.writeRouteError(w, r, err)
	default:
		respondJSON(w, http.StatusOK, batchResponse{Results: results})
	}
}

func (h *RouteHandlers) points(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, pointsResponse{Points: h.routes.Points(r.Context())})
}

func (h *RouteHandlers) writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		// The request itself ended: the timeout middleware answers 504, and
		// a disconnected client gets nothing.
		return
	}
	switch {
	case errors.Is(err, pathfind.ErrUnresolvedNode):
		writeError(w, http.StatusNotFound, "waypoint is not part of the current map")
	case errors.Is(err, service.ErrSnapshotUnavailable):
		h.logger.Error("route query failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusBadGateway, "waypoint map is unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "route query timed out")
	default:
		h.logger.Error("route query failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to compute route")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
