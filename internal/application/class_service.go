package application

import (
	"context"
	"strings"

	"github.com/example/tutoring-dashboard/internal/recurrence"
	"github.com/example/tutoring-dashboard/internal/store"
)

// ClassWriter captures the data-access write the scheduler view issues.
type ClassWriter interface {
	AddClass(ctx context.Context, class store.ClassDefinition) (store.ClassDefinition, error)
}

// ClassService validates scheduler submissions and lists class definitions.
// Definitions are read-only after creation.
type ClassService struct {
	classes store.ClassRepository
	catalog store.CatalogRepository
	writer  ClassWriter
}

// NewClassService wires dependencies for the scheduler view.
func NewClassService(classes store.ClassRepository, catalog store.CatalogRepository, writer ClassWriter) *ClassService {
	return &ClassService{classes: classes, catalog: catalog, writer: writer}
}

// CreateClass validates the scheduler form before delegating to the feed.
// The recurrence set keeps the order slots were toggled on the grid, with
// exact duplicates collapsed.
func (s *ClassService) CreateClass(ctx context.Context, input ClassInput) (store.ClassDefinition, error) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Classroom) == "" {
		vErr.add("classroom", "classroom is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "subject name is required")
	}
	if strings.TrimSpace(input.Teacher) == "" {
		vErr.add("teacher", "teacher is required")
	}
	if len(input.Recurrence) == 0 {
		vErr.add("recurrence", "at least one weekly slot is required")
	}

	start, startErr := recurrence.ParseDate(input.StartDate)
	if startErr != nil {
		vErr.add("start_date", "start date must be a 2006-01-02 calendar date")
	}
	end, endErr := recurrence.ParseDate(input.EndDate)
	if endErr != nil {
		vErr.add("end_date", "end date must be a 2006-01-02 calendar date")
	}
	if startErr == nil && endErr == nil && start.After(end) {
		vErr.add("dates", "start date must not be after end date")
	}

	if vErr.HasErrors() {
		return store.ClassDefinition{}, vErr
	}

	students := input.StudentIDs
	if students == nil {
		students = []string{}
	}

	return s.writer.AddClass(ctx, store.ClassDefinition{
		Classroom:  strings.TrimSpace(input.Classroom),
		Name:       strings.TrimSpace(input.Name),
		Teacher:    strings.TrimSpace(input.Teacher),
		Recurrence: dedupeSlots(input.Recurrence),
		StartDate:  strings.TrimSpace(input.StartDate),
		EndDate:    strings.TrimSpace(input.EndDate),
		StudentIDs: students,
	})
}

// ListClasses returns every class definition.
func (s *ClassService) ListClasses(ctx context.Context) ([]store.ClassDefinition, error) {
	return s.classes.ListClasses(ctx)
}

// ListTeachers returns the scheduler form's teacher picker entries.
func (s *ClassService) ListTeachers(ctx context.Context) ([]store.Teacher, error) {
	return s.catalog.ListTeachers(ctx)
}

// ListClassrooms returns the scheduler form's classroom picker entries.
func (s *ClassService) ListClassrooms(ctx context.Context) ([]store.Classroom, error) {
	return s.catalog.ListClassrooms(ctx)
}

func dedupeSlots(slots []store.Slot) []store.Slot {
	seen := make(map[store.Slot]struct{}, len(slots))
	result := make([]store.Slot, 0, len(slots))
	for _, slot := range slots {
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		result = append(result, slot)
	}
	return result
}
