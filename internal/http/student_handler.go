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

type rosterService interface {
	Roster(ctx context.Context, search string) ([]application.StudentWithStats, error)
	AddStudent(ctx context.Context, input application.StudentInput) (store.Student, error)
	UpdateStudent(ctx context.Context, id string, patch store.StudentPatch) error
	Stats(ctx context.Context) (application.DashboardStats, error)
}

type StudentHandler struct {
	service   rosterService
	responder responder
}

func NewStudentHandler(service rosterService, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{service: service, responder: newResponder(logger)}
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("q"))
	roster, err := h.service.Roster(r.Context(), search)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listStudentsResponse{Students: toStudentDTOs(roster)})
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	student, err := h.service.AddStudent(r.Context(), application.StudentInput{
		Name:            req.Name,
		Email:           req.Email,
		SignedUpLessons: req.SignedUpLessons,
		CostPerLesson:   req.CostPerLesson,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toStudentDTO(application.StudentWithStats{Student: student}))
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	studentID, ok := StudentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(studentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStudentID)
		return
	}

	var req studentPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.UpdateStudent(r.Context(), studentID, req.toPatch()); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Stats serves the headline numbers rendered above the roster.
func (h *StudentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statsDTO{
		TotalStudents:     stats.TotalStudents,
		CheckInsThisMonth: stats.CheckInsThisMonth,
		TotalRevenue:      stats.TotalRevenue,
	})
}

type studentRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	SignedUpLessons int     `json:"signedUpLessons"`
	CostPerLesson   float64 `json:"costPerLesson"`
}

type studentPatchRequest struct {
	Name             *string  `json:"name"`
	Email            *string  `json:"email"`
	SignedUpLessons  *int     `json:"signedUpLessons"`
	CostPerLesson    *float64 `json:"costPerLesson"`
	LastInvoiceMonth *string  `json:"lastInvoiceMonth"`
	NextMonthRequest *int     `json:"nextMonthRequest"`
	RolloverLessons  *int     `json:"rolloverLessons"`
	Active           *bool    `json:"active"`
}

func (r studentPatchRequest) toPatch() store.StudentPatch {
	return store.StudentPatch{
		Name:             r.Name,
		Email:            r.Email,
		SignedUpLessons:  r.SignedUpLessons,
		CostPerLesson:    r.CostPerLesson,
		LastInvoiceMonth: r.LastInvoiceMonth,
		NextMonthRequest: r.NextMonthRequest,
		RolloverLessons:  r.RolloverLessons,
		Active:           r.Active,
	}
}

type listStudentsResponse struct {
	Students []studentDTO `json:"students"`
}

type studentDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	SignedUpLessons  int     `json:"signedUpLessons"`
	CompletedLessons int     `json:"completedLessons"`
	CostPerLesson    float64 `json:"costPerLesson"`
	TotalAmountOwed  float64 `json:"totalAmountOwed"`
	LastInvoiceMonth string  `json:"lastInvoiceMonth,omitempty"`
	NextMonthRequest int     `json:"nextMonthRequest,omitempty"`
	RolloverLessons  int     `json:"rolloverLessons,omitempty"`
	Active           bool    `json:"active"`
}

func toStudentDTO(row application.StudentWithStats) studentDTO {
	return studentDTO{
		ID:               row.ID,
		Name:             row.Name,
		Email:            row.Email,
		SignedUpLessons:  row.SignedUpLessons,
		CompletedLessons: row.CompletedLessons,
		CostPerLesson:    row.CostPerLesson,
		TotalAmountOwed:  row.TotalAmountOwed,
		LastInvoiceMonth: row.LastInvoiceMonth,
		NextMonthRequest: row.NextMonthRequest,
		RolloverLessons:  row.RolloverLessons,
		Active:           row.Active,
	}
}

func toStudentDTOs(rows []application.StudentWithStats) []studentDTO {
	out := make([]studentDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toStudentDTO(row))
	}
	return out
}

type statsDTO struct {
	TotalStudents     int     `json:"totalStudents"`
	CheckInsThisMonth int     `json:"checkInsThisMonth"`
	TotalRevenue      float64 `json:"totalRevenue"`
}
