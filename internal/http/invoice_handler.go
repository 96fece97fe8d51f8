package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/tutoring-dashboard/internal/application"
	"github.com/example/tutoring-dashboard/internal/invoice"
	"github.com/example/tutoring-dashboard/internal/store"
)

type invoiceService interface {
	InvoiceData(ctx context.Context, studentID string) (application.StudentWithStats, []store.CheckIn, error)
}

type teacherLister interface {
	ListTeachers(ctx context.Context) ([]store.Teacher, error)
}

type InvoiceHandler struct {
	service   invoiceService
	teachers  teacherLister
	location  *time.Location
	responder responder
}

func NewInvoiceHandler(service invoiceService, teachers teacherLister, loc *time.Location, logger *slog.Logger) *InvoiceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceHandler{service: service, teachers: teachers, location: loc, responder: newResponder(logger)}
}

// Student streams the billing PDF for one student. The optional next_month
// query adds the projected tuition block.
func (h *InvoiceHandler) Student(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	studentID, ok := StudentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(studentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStudentID)
		return
	}

	var nextMonth *int
	if raw := strings.TrimSpace(r.URL.Query().Get("next_month")); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
		nextMonth = &count
	}

	student, history, err := h.service.InvoiceData(r.Context(), studentID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	doc, err := invoice.BuildStudentInvoice(student, history, nextMonth, h.location)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.streamPDF(w, doc)
}

// Teacher streams the minimal invoice for a catalog teacher.
func (h *InvoiceHandler) Teacher(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.teachers == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teacherID, ok := TeacherIDFromContext(r.Context())
	if !ok || strings.TrimSpace(teacherID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTeacherID)
		return
	}

	teachers, err := h.teachers.ListTeachers(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var name string
	for _, teacher := range teachers {
		if teacher.ID == teacherID {
			name = teacher.Name
			break
		}
	}
	if name == "" {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotFound)
		return
	}

	doc, err := invoice.BuildTeacherInvoice(name)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.streamPDF(w, doc)
}

func (h *InvoiceHandler) streamPDF(w http.ResponseWriter, doc invoice.Document) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		h.responder.logger.Error("failed to stream invoice", "error", err)
	}
}
