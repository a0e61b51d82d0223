package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-signup-api/internal/application/activation"
	"github.com/go-signup-api/internal/domain"
	"github.com/go-signup-api/internal/pkg/validate"
	"github.com/go-signup-api/internal/transport/http/middleware"
)

// UserHandler handles the two-phase signup endpoints and user lookups.
type UserHandler struct {
	activationSvc activation.Service
	userRepo      UserGetter
}

// UserGetter is the read side the handler needs for GET /users/{id}.
type UserGetter interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

func NewUserHandler(svc activation.Service, users UserGetter) *UserHandler {
	return &UserHandler{activationSvc: svc, userRepo: users}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	activationToken, err := h.activationSvc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, "register", err)
		return
	}
	writeEnvelope(w, http.StatusCreated,
		fmt.Sprintf("Please check your email %s to activate your account!", req.Email),
		"activation email sent",
		map[string]string{"activation_token": activationToken},
	)
}

func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req domain.ActivateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	u, err := h.activationSvc.Activate(r.Context(), req)
	if err != nil {
		writeServiceError(w, "activate", err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "Registered account successfully", "user activated and persisted", u)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if requester, ok := middleware.UserIDFromContext(r.Context()); ok {
		slog.Debug("user lookup", "user_id", userID, "requested_by", requester)
	}
	u, err := h.userRepo.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "get user", err)
		return
	}
	writeEnvelope(w, http.StatusOK, "get user by id success", "", u)
}
