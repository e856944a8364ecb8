package calendar_view

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/rest"
	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/convergence"
	"github.com/studianta/studianta/pkg/user"
)

type EventDTO struct {
	Id        string  `json:"id"`
	Title     string  `json:"title"`
	Subtitle  string  `json:"subtitle,omitempty"`
	Date      string  `json:"date"`
	Time      string  `json:"time,omitempty"`
	Kind      string  `json:"kind"`
	Priority  string  `json:"priority"`
	Color     string  `json:"color,omitempty"`
	Amount    *string `json:"amount,omitempty"`
	MoodGlyph string  `json:"moodGlyph,omitempty"`
}

type CellDTO struct {
	Date           string     `json:"date"`
	Events         []EventDTO `json:"events"`
	AllEvents      []EventDTO `json:"allEvents"`
	Overflow       int        `json:"overflow"`
	IsOutsideMonth bool       `json:"isOutsideMonth"`
	IsToday        bool       `json:"isToday"`
}

type MonthDTO struct {
	Month    string    `json:"month"`
	Previous string    `json:"previous"`
	Next     string    `json:"next"`
	Cells    []CellDTO `json:"cells"`
}

type ColumnDTO struct {
	Date    string     `json:"date"`
	Events  []EventDTO `json:"events"`
	IsToday bool       `json:"isToday"`
}

type WeekDTO struct {
	Start    string      `json:"start"`
	Previous string      `json:"previous"`
	Next     string      `json:"next"`
	Columns  []ColumnDTO `json:"columns"`
}

type DayDTO struct {
	Date     string     `json:"date"`
	Previous string     `json:"previous"`
	Next     string     `json:"next"`
	Events   []EventDTO `json:"events"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// GetMonth godoc
// @Summary Get the month grid
// @Description 42 day cells (six Monday-first weeks) around the month of the given date
// @Tags Calendar
// @Produce json
// @Param date query string false "Date in YYYY-MM-DD format, defaults to today"
// @Success 200 {object} MonthDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Router /api/calendar/month [get]
// @Security XUserId
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	anchor, ok := h.anchorDate(w, r)
	if !ok {
		return
	}
	view, err := h.service.Month(r.Context(), anchor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dto := MonthDTO{
		Month:    view.Month.Format("2006-01"),
		Previous: formatDate(view.Previous),
		Next:     formatDate(view.Next),
		Cells:    make([]CellDTO, 0, GridSize),
	}
	for _, cell := range view.Cells {
		dto.Cells = append(dto.Cells, CellDTO{
			Date:           formatDate(cell.Date),
			Events:         eventsToDTO(cell.Events),
			AllEvents:      eventsToDTO(cell.AllEvents()),
			Overflow:       cell.Overflow,
			IsOutsideMonth: cell.IsOutsideMonth,
			IsToday:        cell.IsToday,
		})
	}
	encode(w, dto)
}

// GetWeek godoc
// @Summary Get the week columns
// @Tags Calendar
// @Produce json
// @Param date query string false "Any day of the week in YYYY-MM-DD format, defaults to today"
// @Success 200 {object} WeekDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Router /api/calendar/week [get]
// @Security XUserId
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	anchor, ok := h.anchorDate(w, r)
	if !ok {
		return
	}
	view, err := h.service.Week(r.Context(), anchor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dto := WeekDTO{
		Start:    formatDate(view.Start),
		Previous: formatDate(view.Previous),
		Next:     formatDate(view.Next),
		Columns:  make([]ColumnDTO, 0, DaysInWeek),
	}
	for _, column := range view.Columns {
		dto.Columns = append(dto.Columns, ColumnDTO{
			Date:    formatDate(column.Date),
			Events:  eventsToDTO(column.Events),
			IsToday: column.IsToday,
		})
	}
	encode(w, dto)
}

// GetDay godoc
// @Summary Get the events of a single day
// @Tags Calendar
// @Produce json
// @Param date query string false "Date in YYYY-MM-DD format, defaults to today"
// @Success 200 {object} DayDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Router /api/calendar/day [get]
// @Security XUserId
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	anchor, ok := h.anchorDate(w, r)
	if !ok {
		return
	}
	view, err := h.service.Day(r.Context(), anchor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	encode(w, DayDTO{
		Date:     formatDate(view.Date),
		Previous: formatDate(view.Previous),
		Next:     formatDate(view.Next),
		Events:   eventsToDTO(view.Events),
	})
}

func (h *Handler) anchorDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	value := r.URL.Query().Get("date")
	if value == "" {
		return utils.DateOf(h.clock.Now()), true
	}
	anchor, err := utils.ParseDate(value, h.clock.Now().Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Incorrect date format", "Date must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return anchor, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, user.ErrNoUser) {
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
		return
	}
	log.Errorf("failed to build calendar view: %v", err)
	rest.WriteError(w, http.StatusInternalServerError, "Failed to build calendar view", err.Error())
}

func encode(w http.ResponseWriter, body any) {
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func formatDate(t time.Time) string {
	return t.Format(utils.DateLayout)
}

func eventsToDTO(events []convergence.Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, EventToDTO(e))
	}
	return dtos
}

func EventToDTO(e convergence.Event) EventDTO {
	dto := EventDTO{
		Id:        e.Id,
		Title:     e.Title,
		Subtitle:  e.Subtitle,
		Date:      formatDate(e.Date),
		Time:      e.Time,
		Kind:      string(e.Kind),
		Priority:  string(e.Priority),
		Color:     e.Color,
		MoodGlyph: e.MoodGlyph,
	}
	if e.Amount.Valid {
		amount := e.Amount.Decimal.StringFixed(2)
		dto.Amount = &amount
	}
	return dto
}
