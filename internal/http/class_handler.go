package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/tutoring-dashboard/internal/application"
	"github.com/example/tutoring-dashboard/internal/store"
)

type classService interface {
	CreateClass(ctx context.Context, input application.ClassInput) (store.ClassDefinition, error)
	ListClasses(ctx context.Context) ([]store.ClassDefinition, error)
	ListTeachers(ctx context.Context) ([]store.Teacher, error)
	ListClassrooms(ctx context.Context) ([]store.Classroom, error)
}

type ClassHandler struct {
	service   classService
	responder responder
}

func NewClassHandler(service classService, logger *slog.Logger) *ClassHandler {
	return &ClassHandler{service: service, responder: newResponder(logger)}
}

// Create keeps the scheduler form's wire contract frozen: 200 with
// {"success":true}, 400 with {"error":"Missing required fields"}, 500 with
// {"error":"Failed to create class"}. A rejected submission writes nothing.
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, classErrorResponse{Error: "Missing required fields"})
		return
	}
	if req.missingRequired() {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, classErrorResponse{Error: "Missing required fields"})
		return
	}

	class, err := h.service.CreateClass(r.Context(), req.toInput())
	if err != nil {
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, classErrorResponse{Error: "Missing required fields"})
			return
		}
		h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "failed to create class", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusInternalServerError, classErrorResponse{Error: "Failed to create class"})
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "classes", "create", "class_id", class.ID).
		InfoContext(r.Context(), "class created")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, classCreatedResponse{Success: true})
}

func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classes, err := h.service.ListClasses(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listClassesResponse{Classes: toClassDTOs(classes)})
}

func (h *ClassHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	teachers, err := h.service.ListTeachers(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]teacherDTO, 0, len(teachers))
	for _, teacher := range teachers {
		out = append(out, teacherDTO{ID: teacher.ID, Name: teacher.Name})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTeachersResponse{Teachers: out})
}

func (h *ClassHandler) ListClassrooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classrooms, err := h.service.ListClassrooms(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]classroomDTO, 0, len(classrooms))
	for _, classroom := range classrooms {
		out = append(out, classroomDTO{ID: classroom.ID, ClassroomID: classroom.ClassroomID})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listClassroomsResponse{Classrooms: out})
}

// classRequest uses pointer slices so an absent array and an empty array are
// told apart, matching the form's required-field handling.
type classRequest struct {
	Classroom  *string        `json:"classroom"`
	Name       *string        `json:"name"`
	Teacher    *string        `json:"teacher"`
	Recurrence *[]slotPayload `json:"recurrence"`
	StartDate  *string        `json:"startDate"`
	EndDate    *string        `json:"endDate"`
	Students   *[]string      `json:"students"`
}

func (r classRequest) missingRequired() bool {
	for _, field := range []*string{r.Classroom, r.Name, r.Teacher, r.StartDate, r.EndDate} {
		if field == nil || strings.TrimSpace(*field) == "" {
			return true
		}
	}
	return r.Recurrence == nil || r.Students == nil
}

func (r classRequest) toInput() application.ClassInput {
	input := application.ClassInput{
		Classroom: *r.Classroom,
		Name:      *r.Name,
		Teacher:   *r.Teacher,
		StartDate: *r.StartDate,
		EndDate:   *r.EndDate,
	}
	for _, slot := range *r.Recurrence {
		input.Recurrence = append(input.Recurrence, store.Slot{Day: slot.Day, Time: slot.Time})
	}
	input.StudentIDs = append([]string{}, *r.Students...)
	return input
}

type slotPayload struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

type classCreatedResponse struct {
	Success bool `json:"success"`
}

type classErrorResponse struct {
	Error string `json:"error"`
}

type listClassesResponse struct {
	Classes []classDTO `json:"classes"`
}

type classDTO struct {
	ID         string        `json:"id"`
	Classroom  string        `json:"classroom"`
	Name       string        `json:"name"`
	Teacher    string        `json:"teacher"`
	Recurrence []slotPayload `json:"recurrence"`
	StartDate  string        `json:"startDate"`
	EndDate    string        `json:"endDate"`
	Students   []string      `json:"students"`
}

func toClassDTO(class store.ClassDefinition) classDTO {
	slots := make([]slotPayload, 0, len(class.Recurrence))
	for _, slot := range class.Recurrence {
		slots = append(slots, slotPayload{Day: slot.Day, Time: slot.Time})
	}
	students := class.StudentIDs
	if students == nil {
		students = []string{}
	}
	return classDTO{
		ID:         class.ID,
		Classroom:  class.Classroom,
		Name:       class.Name,
		Teacher:    class.Teacher,
		Recurrence: slots,
		StartDate:  class.StartDate,
		EndDate:    class.EndDate,
		Students:   students,
	}
}

func toClassDTOs(classes []store.ClassDefinition) []classDTO {
	out := make([]classDTO, 0, len(classes))
	for _, class := range classes {
		out = append(out, toClassDTO(class))
	}
	return out
}

type listTeachersResponse struct {
	Teachers []teacherDTO `json:"teachers"`
}

type teacherDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listClassroomsResponse struct {
	Classrooms []classroomDTO `json:"classrooms"`
}

type classroomDTO struct {
	ID          string `json:"id"`
	ClassroomID string `json:"classroomId"`
}
