package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/tutoring-dashboard/internal/application"
	"github.com/example/tutoring-dashboard/internal/export"
)

type exportService interface {
	Roster(ctx context.Context, search string) ([]application.StudentWithStats, error)
	CheckInTable(ctx context.Context) ([]application.CheckInRow, error)
}

type ExportHandler struct {
	service   exportService
	location  *time.Location
	responder responder
}

func NewExportHandler(service exportService, loc *time.Location, logger *slog.Logger) *ExportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportHandler{service: service, location: loc, responder: newResponder(logger)}
}

// Roster streams the two-sheet xlsx snapshot of the dashboard.
func (h *ExportHandler) Roster(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roster, err := h.service.Roster(r.Context(), "")
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	checkIns, err := h.service.CheckInTable(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	content, err := export.RosterWorkbook(roster, checkIns, h.location)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="roster.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		h.responder.logger.Error("failed to stream export", "error", err)
	}
}
