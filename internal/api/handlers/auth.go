package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/finn/cloudcost-dashboard/internal/api/middleware"
	"github.com/finn/cloudcost-dashboard/internal/domain"
	"github.com/finn/cloudcost-dashboard/internal/service"
)

type AuthHandler struct {
	sessions *service.SessionService
}

func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *domain.Profile `json:"user"`
	Token string          `json:"token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.sessions.Register(req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		log.Printf("ERROR [auth.Register] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, AuthResponse{User: result.Profile, Token: result.Token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.sessions.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Deliberately does not reveal whether the email exists.
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		log.Printf("ERROR [auth.Login] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, AuthResponse{User: result.Profile, Token: result.Token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.GetProfile(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, profile)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.sessions.UpdateProfile(&req)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		log.Printf("ERROR [auth.UpdateProfile] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, profile)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	if err := h.sessions.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthenticated):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
		default:
			log.Printf("ERROR [auth.ChangePassword] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
