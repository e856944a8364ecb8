package ics_export

import (
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/rest"
	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/subject"
	"github.com/studianta/studianta/pkg/user"
)

type Handler struct {
	subjects     subject.Repository
	customEvents custom_event.Repository
	clock        utils.Clock
}

func NewHandler(subjects subject.Repository, customEvents custom_event.Repository, clock utils.Clock) *Handler {
	return &Handler{subjects: subjects, customEvents: customEvents, clock: clock}
}

// Download godoc
// @Summary Download the calendar as iCalendar
// @Description Milestones and custom events of the current user as an .ics attachment
// @Tags Calendar
// @Produce text/calendar
// @Success 200 {string} string "iCalendar document"
// @Failure 403 {object} rest.ErrorResponse "User not found"
// @Router /api/calendar/export.ics [get]
// @Security XUserId
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			writeError(w, http.StatusForbidden, "User not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get current user", err.Error())
		return
	}

	subjects, err := h.subjects.GetSubjects(r.Context(), userId)
	if err != nil {
		log.Errorf("failed to load subjects for export: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to export calendar", err.Error())
		return
	}
	customEvents, err := h.customEvents.GetEvents(r.Context(), userId)
	if err != nil {
		log.Errorf("failed to load custom events for export: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to export calendar", err.Error())
		return
	}

	now := h.clock.Now()
	w.Header().Set("Content-Type", MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, Filename(AppName, now)))
	if _, err := w.Write([]byte(Export(subjects, customEvents, now))); err != nil {
		log.Warnf("failed to write calendar export: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	rest.WriteError(w, status, message, details)
}
