package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/knakam/dance-analyzer/internal/service"
)

type registerRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	DanceLevel string `json:"dance_level"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const minPasswordLength = 8

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	case req.Username == "":
		writeError(w, http.StatusBadRequest, "username is required")
		return
	case len(req.Password) < minPasswordLength:
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	res, err := h.auth.Register(r.Context(), service.RegisterInput{
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		FullName:   req.FullName,
		DanceLevel: req.DanceLevel,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.serverError(w, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAuthView(res))
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	res, err := h.auth.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.serverError(w, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthView(res))
}

func (h *Handlers) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
