package api

import (
	"net/http"

	"github.com/matslogic/matslogic/pkg/validation"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.RegisterRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondDomainError(w, err, "register")
		return
	}

	s.respondTokens(w, http.StatusCreated, user.ID, user.Email)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.LoginRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondDomainError(w, err, "login")
		return
	}

	s.respondTokens(w, http.StatusOK, user.ID, user.Email)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RefreshRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req)
	if decoder.RespondError() {
		return
	}

	userID, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	user, err := s.users.GetUser(r.Context(), userID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	s.respondTokens(w, http.StatusOK, user.ID, user.Email)
}

func (s *Server) respondTokens(w http.ResponseWriter, status int, userID int64, email string) {
	access, err := s.jwtManager.GenerateToken(userID, email)
	if err != nil {
		s.respondDomainError(w, err, "issue token")
		return
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(userID)
	if err != nil {
		s.respondDomainError(w, err, "issue refresh token")
		return
	}

	s.respondJSON(w, status, TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.TokenDuration().Seconds()),
		UserID:       userID,
	})
}
