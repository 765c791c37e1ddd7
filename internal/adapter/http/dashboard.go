package http

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	params, err := pipeline.ParseParams(r.URL.Query())
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	d, err := s.refresher.Refresh(r.Context(), params)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, pipeline.ErrInvalidParams) {
			status = http.StatusBadRequest
		} else {
			s.logger.Error("dashboard refresh failed", "error", err, "params", params.Query().Encode())
		}
		sharedobs.WriteJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, d)
}

func handleOptions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, pipeline.Options())
}
