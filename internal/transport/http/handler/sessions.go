package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-signup-api/internal/application/session"
	"github.com/go-signup-api/internal/domain"
	"github.com/go-signup-api/internal/pkg/validate"
)

const refreshCookieName = "refresh_token"

// SessionHandler handles login, social auth and token refresh. The
// refresh token travels in an HttpOnly cookie so page scripts can't read
// it; the access token goes in the response body.
type SessionHandler struct {
	svc        session.Service
	refreshTTL time.Duration
	secure     bool
}

func NewSessionHandler(svc session.Service, refreshTTL time.Duration, secureCookies bool) *SessionHandler {
	return &SessionHandler{svc: svc, refreshTTL: refreshTTL, secure: secureCookies}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	pair, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, "login", err)
		return
	}
	h.writePair(w, pair, "logged in successfully")
}

func (h *SessionHandler) SocialAuth(w http.ResponseWriter, r *http.Request) {
	var req domain.SocialAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	pair, err := h.svc.SocialAuth(r.Context(), req)
	if err != nil {
		writeServiceError(w, "social auth", err)
		return
	}
	h.writePair(w, pair, "authenticated successfully")
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if c, err := r.Cookie(refreshCookieName); err == nil {
		refreshToken = c.Value
	}
	if refreshToken == "" {
		// Non-browser clients send the token in the body instead.
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}
	if refreshToken == "" {
		writeValidationError(w, fmt.Errorf("refresh_token required"))
		return
	}
	pair, err := h.svc.Refresh(r.Context(), refreshToken)
	if err != nil {
		writeServiceError(w, "refresh", err)
		return
	}
	h.writePair(w, pair, "token refreshed")
}

func (h *SessionHandler) writePair(w http.ResponseWriter, pair *session.TokenPair, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/v1/sessions",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	writeEnvelope(w, http.StatusOK, message, "", map[string]interface{}{
		"access_token": pair.AccessToken,
		"user":         pair.User,
	})
}
