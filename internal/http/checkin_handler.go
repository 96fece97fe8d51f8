package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/tutoring-dashboard/internal/application"
	"github.com/example/tutoring-dashboard/internal/store"
)

type checkInService interface {
	CheckInTable(ctx context.Context) ([]application.CheckInRow, error)
	RecentlyDeleted(ctx context.Context) ([]store.CheckIn, error)
	RecordCheckIn(ctx context.Context, input application.CheckInInput) (store.CheckIn, error)
	SoftDeleteCheckIn(ctx context.Context, id string) error
	RestoreCheckIn(ctx context.Context, id string) error
	UpdateCheckIn(ctx context.Context, id string, patch store.CheckInPatch) error
}

type CheckInHandler struct {
	service   checkInService
	responder responder
}

func NewCheckInHandler(service checkInService, logger *slog.Logger) *CheckInHandler {
	return &CheckInHandler{service: service, responder: newResponder(logger)}
}

// List serves the primary table by default. With deleted=true it serves the
// undo list instead: raw soft-deleted records without the student join.
func (h *CheckInHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("deleted"), "true") {
		deleted, err := h.service.RecentlyDeleted(r.Context())
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		rows := make([]checkInDTO, 0, len(deleted))
		for _, checkIn := range deleted {
			rows = append(rows, toCheckInDTO(checkIn, "", ""))
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, listCheckInsResponse{CheckIns: rows})
		return
	}

	table, err := h.service.CheckInTable(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	rows := make([]checkInDTO, 0, len(table))
	for _, row := range table {
		rows = append(rows, toCheckInDTO(row.CheckIn, row.StudentName, string(row.Session)))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCheckInsResponse{CheckIns: rows})
}

func (h *CheckInHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	checkIn, err := h.service.RecordCheckIn(r.Context(), application.CheckInInput{
		StudentID:   req.StudentID,
		LessonType:  req.LessonType,
		LessonCost:  req.LessonCost,
		Timestamp:   req.Timestamp,
		ClassroomID: req.ClassroomID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCheckInDTO(checkIn, "", ""))
}

// Update patches a check-in. A body carrying only the active flag is the
// soft-delete/undo toggle; anything else is a field edit.
func (h *CheckInHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	checkInID, ok := CheckInIDFromContext(r.Context())
	if !ok || strings.TrimSpace(checkInID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCheckInID)
		return
	}

	var req checkInPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	var err error
	switch {
	case req.isActiveToggle() && !*req.Active:
		err = h.service.SoftDeleteCheckIn(r.Context(), checkInID)
	case req.isActiveToggle():
		err = h.service.RestoreCheckIn(r.Context(), checkInID)
	default:
		err = h.service.UpdateCheckIn(r.Context(), checkInID, req.toPatch())
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type checkInRequest struct {
	StudentID   string  `json:"studentId"`
	LessonType  string  `json:"lessonType"`
	LessonCost  float64 `json:"lessonCost"`
	Timestamp   int64   `json:"timestamp"`
	ClassroomID string  `json:"classroomId"`
}

type checkInPatchRequest struct {
	LessonType  *string  `json:"lessonType"`
	LessonCost  *float64 `json:"lessonCost"`
	Timestamp   *int64   `json:"timestamp"`
	ClassroomID *string  `json:"classroomId"`
	Active      *bool    `json:"active"`
}

func (r checkInPatchRequest) isActiveToggle() bool {
	return r.Active != nil &&
		r.LessonType == nil && r.LessonCost == nil && r.Timestamp == nil && r.ClassroomID == nil
}

func (r checkInPatchRequest) toPatch() store.CheckInPatch {
	return store.CheckInPatch{
		LessonType:  r.LessonType,
		LessonCost:  r.LessonCost,
		Timestamp:   r.Timestamp,
		ClassroomID: r.ClassroomID,
		Active:      r.Active,
	}
}

type listCheckInsResponse struct {
	CheckIns []checkInDTO `json:"checkIns"`
}

type checkInDTO struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"studentId"`
	StudentName string  `json:"studentName,omitempty"`
	LessonType  string  `json:"lessonType"`
	LessonCost  float64 `json:"lessonCost"`
	Timestamp   int64   `json:"timestamp"`
	ClassroomID string  `json:"classroomId,omitempty"`
	Session     string  `json:"session,omitempty"`
	Active      bool    `json:"active"`
}

func toCheckInDTO(checkIn store.CheckIn, studentName, session string) checkInDTO {
	return checkInDTO{
		ID:          checkIn.ID,
		StudentID:   checkIn.StudentID,
		StudentName: studentName,
		LessonType:  checkIn.LessonType,
		LessonCost:  checkIn.LessonCost,
		Timestamp:   checkIn.Timestamp,
		ClassroomID: checkIn.ClassroomID,
		Session:     session,
		Active:      checkIn.Active,
	}
}
