package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

type authResponse struct {
	User  core.User `json:"user"`
	Token string    `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, log.OpCreate, "Error registering user", err)
		return
	}

	res, err := s.svc.Auth.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, log.OpCreate, "Error registering user", err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: res.User, Token: res.Token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, log.OpRead, "Error logging in user", err)
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, log.OpRead, "Error logging in user", err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: res.User, Token: res.Token})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpRead, "Error fetching user", err)
		return
	}

	user, err := s.svc.Auth.GetUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, log.OpRead, "Error fetching user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
