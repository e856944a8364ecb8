package calendar_sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/rest"
	"github.com/studianta/studianta/pkg/user"
)

type AuthRedirectDTO struct {
	RedirectUrl string `json:"redirectUrl"`
}

type ConnectionDTO struct {
	Connected bool `json:"connected"`
}

// ResultDTO reports the number of failed events in errors and their messages in failures.
type ResultDTO struct {
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Errors   int      `json:"errors"`
	Failures []string `json:"failures"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// IsConnected godoc
// @Summary Check whether the current user connected a Google calendar
// @Tags Integrations
// @Produce json
// @Success 200 {object} ConnectionDTO
// @Router /api/integrations/google/auth [get]
// @Security XUserId
func (h *Handler) IsConnected(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	connected, err := h.service.IsConnected(r.Context())
	if err != nil {
		writeSyncError(w, err)
		return
	}
	encode(w, ConnectionDTO{Connected: connected})
}

// Login godoc
// @Summary Start the Google OAuth flow
// @Tags Integrations
// @Produce json
// @Param finalUrl query string false "Where to land after the callback, defaults to /"
// @Success 200 {object} AuthRedirectDTO
// @Router /api/integrations/google/auth/login [get]
// @Security XUserId
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	finalUrl := r.URL.Query().Get("finalUrl")
	if finalUrl == "" {
		finalUrl = DefaultFinalUrl
	}
	redirect, err := h.service.AuthURL(r.Context(), finalUrl)
	if err != nil {
		writeSyncError(w, err)
		return
	}
	encode(w, AuthRedirectDTO{RedirectUrl: redirect})
}

// Callback godoc
// @Summary Google OAuth callback
// @Description Stores the tokens and redirects to the final URL with success=true|false
// @Tags Integrations
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by the login endpoint"
// @Success 302
// @Failure 400 {object} rest.ErrorResponse "Invalid state"
// @Router /api/integrations/google/auth/callback [get]
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	finalUrl, err := h.service.HandleCallback(r.Context(), r.FormValue("code"), r.FormValue("state"))
	if finalUrl == "" {
		w.Header().Set("Content-Type", "application/json")
		rest.WriteError(w, http.StatusBadRequest, "Invalid OAuth state", "")
		return
	}
	if err != nil {
		log.Errorf("google oauth callback failed: %v", err)
		http.Redirect(w, r, withQuery(finalUrl, "success", "false"), http.StatusFound)
		return
	}
	http.Redirect(w, r, withQuery(finalUrl, "success", "true"), http.StatusFound)
}

// Logout godoc
// @Summary Disconnect the Google calendar
// @Tags Integrations
// @Success 204
// @Router /api/integrations/google/auth/logout [delete]
// @Security XUserId
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.service.Disconnect(r.Context()); err != nil {
		writeSyncError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sync godoc
// @Summary Push milestones, custom events and classes to Google Calendar
// @Tags Integrations
// @Produce json
// @Success 200 {object} ResultDTO
// @Failure 403 {object} rest.ErrorResponse "Not connected"
// @Failure 409 {object} rest.ErrorResponse "Sync already running"
// @Failure 502 {object} rest.ErrorResponse "Provider failure"
// @Failure 504 {object} rest.ErrorResponse "Sync timed out"
// @Router /api/integrations/google/sync [post]
// @Security XUserId
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	result, err := h.service.Sync(r.Context())
	if err != nil {
		writeSyncError(w, err)
		return
	}
	failures := result.Errors
	if failures == nil {
		failures = []string{}
	}
	encode(w, ResultDTO{
		Created:  result.Created,
		Updated:  result.Updated,
		Errors:   len(failures),
		Failures: failures,
	})
}

func writeSyncError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser), errors.Is(err, ErrUnauthenticated):
		rest.WriteError(w, http.StatusForbidden, "Calendar not connected", err.Error())
	case errors.Is(err, ErrSyncInProgress):
		rest.WriteError(w, http.StatusConflict, "Calendar sync already in progress", "")
	case errors.Is(err, context.DeadlineExceeded):
		rest.WriteError(w, http.StatusGatewayTimeout, "Calendar sync timed out", err.Error())
	default:
		log.Errorf("calendar provider failure: %v", err)
		rest.WriteError(w, http.StatusBadGateway, "Calendar provider failure", err.Error())
	}
}

func withQuery(rawUrl, key, value string) string {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return rawUrl
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

func encode(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
