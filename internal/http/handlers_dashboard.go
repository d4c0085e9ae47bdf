package http

import (
	"net/http"

	"fintrack/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	const fallback = "Server Error"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpRead, fallback, err)
		return
	}

	dash, err := s.svc.Dashboard.Get(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, log.OpRead, fallback, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
