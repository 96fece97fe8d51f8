package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/tutoring-dashboard/internal/application"
	"github.com/example/tutoring-dashboard/internal/recurrence"
)

type calendarService interface {
	Month(ctx context.Context, year int, month time.Month) (application.MonthView, error)
	Day(ctx context.Context, date string) (application.DayView, error)
}

type CalendarHandler struct {
	service   calendarService
	responder responder
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, responder: newResponder(logger)}
}

func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	ref, err := time.Parse("2006-01", month)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	view, err := h.service.Month(r.Context(), ref.Year(), ref.Month())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	markers := make(map[string]dayMarkersDTO, len(view.Markers))
	for date, entry := range view.Markers {
		markers[date] = dayMarkersDTO{HasClass: entry.HasClass, HasCheckIn: entry.HasCheckIn}
	}
	occurrences := make(map[string][]occurrenceDTO, len(view.Occurrences))
	for date, list := range view.Occurrences {
		occurrences[date] = toOccurrenceDTOs(list)
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, monthResponse{
		Markers:     markers,
		Occurrences: occurrences,
	})
}

func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	view, err := h.service.Day(r.Context(), date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	checkIns := make([]checkInDTO, 0, len(view.CheckIns))
	for _, row := range view.CheckIns {
		checkIns = append(checkIns, toCheckInDTO(row.CheckIn, row.StudentName, string(row.Session)))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dayResponse{
		Date:        view.Date,
		Occurrences: toOccurrenceDTOs(view.Occurrences),
		CheckIns:    checkIns,
	})
}

type monthResponse struct {
	Markers     map[string]dayMarkersDTO   `json:"markers"`
	Occurrences map[string][]occurrenceDTO `json:"occurrences"`
}

type dayResponse struct {
	Date        string          `json:"date"`
	Occurrences []occurrenceDTO `json:"occurrences"`
	CheckIns    []checkInDTO    `json:"checkIns"`
}

type dayMarkersDTO struct {
	HasClass   bool `json:"hasClass"`
	HasCheckIn bool `json:"hasCheckIn"`
}

type occurrenceDTO struct {
	ClassID   string `json:"classId"`
	ClassName string `json:"className"`
	Teacher   string `json:"teacher"`
	Classroom string `json:"classroom"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

func toOccurrenceDTOs(occurrences []recurrence.Occurrence) []occurrenceDTO {
	out := make([]occurrenceDTO, 0, len(occurrences))
	for _, occurrence := range occurrences {
		out = append(out, occurrenceDTO{
			ClassID:   occurrence.ClassID,
			ClassName: occurrence.ClassName,
			Teacher:   occurrence.Teacher,
			Classroom: occurrence.Classroom,
			Date:      occurrence.Date,
			Time:      occurrence.Time,
		})
	}
	return out
}
