package http

import (
	"net/http"

	"fintrack/internal/log"
	"fintrack/internal/services"
)

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error creating goal"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}

	var in services.CreateGoalInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}

	goal, err := s.svc.Goals.Create(r.Context(), userID, in)
	if err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error fetching goals"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpList, fallback, err)
		return
	}

	goals, err := s.svc.Goals.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, log.OpList, fallback, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// handleUpdateGoal applies a partial update. Absent fields keep their
// stored value.
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error updating goal"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, fallback, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, fallback, err)
		return
	}

	var in services.UpdateGoalInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, log.OpUpdate, fallback, err)
		return
	}

	goal, err := s.svc.Goals.Update(r.Context(), userID, id, in)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, fallback, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error deleting goal"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpDelete, fallback, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, log.OpDelete, fallback, err)
		return
	}

	if err := s.svc.Goals.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, log.OpDelete, fallback, err)
		return
	}
	MessageResponse(http.StatusOK, services.MsgGoalDeleted).Write(w)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error fetching goal progress"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpRead, fallback, err)
		return
	}

	progress, err := s.svc.Goals.Progress(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, log.OpRead, fallback, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
