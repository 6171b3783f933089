package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/knakam/dance-analyzer/internal/service"
)

type profileUpdateRequest struct {
	Email           *string   `json:"email"`
	FullName        *string   `json:"full_name"`
	Bio             *string   `json:"bio"`
	DanceLevel      *string   `json:"dance_level"`
	PreferredGenres *[]string `json:"preferred_genres"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	p, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.serverError(w, "profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserView(p))
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req profileUpdateRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		if trimmed == "" || !strings.Contains(trimmed, "@") {
			writeError(w, http.StatusBadRequest, "a valid email is required")
			return
		}
		req.Email = &trimmed
	}

	p, err := h.users.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		Email:           req.Email,
		FullName:        req.FullName,
		Bio:             req.Bio,
		DanceLevel:      req.DanceLevel,
		PreferredGenres: req.PreferredGenres,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			h.serverError(w, "updateProfile", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserView(p))
}

func (h *Handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req passwordRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if req.CurrentPassword == "" {
		writeError(w, http.StatusBadRequest, "current_password is required")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "new password must be at least 8 characters")
		return
	}

	err := h.auth.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			h.serverError(w, "changePassword", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
