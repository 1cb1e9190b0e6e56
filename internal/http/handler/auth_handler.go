package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/memberbase/member-registry/internal/http/middleware"
	"github.com/memberbase/member-registry/internal/http/response"
	"github.com/memberbase/member-registry/internal/repository"
	"github.com/memberbase/member-registry/internal/service"
	"github.com/memberbase/member-registry/internal/session"
)

type AuthHandler struct {
	authSvc  service.AuthServiceInterface
	sessions *session.Manager
}

func NewAuthHandler(authSvc service.AuthServiceInterface, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, sessions: sessions}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	user, err := h.authSvc.Register(r.Context(), service.RegisterInput{
		Username:    body.Username,
		Password:    body.Password,
		DisplayName: body.DisplayName,
	})
	if err != nil {
		var fieldErrs service.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "validation error", fieldErrorDetails(fieldErrs))
		case errors.Is(err, repository.ErrDuplicateUser):
			response.Error(w, r, http.StatusConflict, "CONFLICT", "username already taken", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to register", nil)
		}
		return
	}

	if _, err := h.sessions.Issue(r.Context(), w, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "session.issue", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to start session", nil)
		return
	}
	response.JSON(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	user, err := h.authSvc.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "incorrect username or password", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to log in", nil)
		return
	}

	if _, err := h.sessions.Issue(r.Context(), w, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "session.issue", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to start session", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context(), w, r); err != nil {
		slog.ErrorContext(r.Context(), "session.clear", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to log out", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated", nil)
		return
	}
	user, err := h.authSvc.GetUser(r.Context(), s.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}
