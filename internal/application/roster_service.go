package application

import (
	"context"
	"strings"
	"time"

	"github.com/example/tutoring-dashboard/internal/store"
)

// RosterWriter captures the data-access writes the roster view issues.
// Writes go back through the live feed so every subscribed view sees the
// refreshed set.
type RosterWriter interface {
	AddStudent(ctx context.Context, student store.Student) (store.Student, error)
	UpdateStudent(ctx context.Context, id string, patch store.StudentPatch) error
	AddCheckIn(ctx context.Context, checkIn store.CheckIn) (store.CheckIn, error)
	UpdateCheckIn(ctx context.Context, id string, patch store.CheckInPatch) error
}

// RosterService backs the roster and billing view: student listing with
// derived stats, manual check-in entry, and the soft-delete/undo flow.
type RosterService struct {
	students store.StudentRepository
	checkIns store.CheckInRepository
	writer   RosterWriter
	location *time.Location
	now      func() time.Time
}

// NewRosterService wires dependencies for the roster view. loc is the zone
// used for session bucketing and month boundaries; nil means UTC.
func NewRosterService(students store.StudentRepository, checkIns store.CheckInRepository, writer RosterWriter, loc *time.Location, now func() time.Time) *RosterService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &RosterService{
		students: students,
		checkIns: checkIns,
		writer:   writer,
		location: loc,
		now:      now,
	}
}

// Roster returns the visible student list with derived stats, filtered by
// the search term.
func (s *RosterService) Roster(ctx context.Context, search string) ([]StudentWithStats, error) {
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	checkIns, err := s.checkIns.ListCheckIns(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRoster(students, checkIns, search), nil
}

// CheckInTable returns the primary check-in table: visible rows joined to
// their students, with session buckets.
func (s *RosterService) CheckInTable(ctx context.Context) ([]CheckInRow, error) {
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	checkIns, err := s.checkIns.ListCheckIns(ctx)
	if err != nil {
		return nil, err
	}
	return JoinCheckIns(students, checkIns, s.location), nil
}

// RecentlyDeleted returns the soft-deleted check-ins available for undo.
func (s *RosterService) RecentlyDeleted(ctx context.Context) ([]store.CheckIn, error) {
	checkIns, err := s.checkIns.ListCheckIns(ctx)
	if err != nil {
		return nil, err
	}
	return DeletedCheckIns(checkIns), nil
}

// Stats computes the dashboard headline numbers.
func (s *RosterService) Stats(ctx context.Context) (DashboardStats, error) {
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	checkIns, err := s.checkIns.ListCheckIns(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	now := s.now().In(s.location)
	thisMonth := 0
	for _, checkIn := range checkIns {
		t := checkIn.Time(s.location)
		if t.Year() == now.Year() && t.Month() == now.Month() {
			thisMonth++
		}
	}

	revenue := 0.0
	for _, row := range BuildRoster(students, checkIns, "") {
		revenue += row.TotalAmountOwed
	}

	return DashboardStats{
		TotalStudents:     len(students),
		CheckInsThisMonth: thisMonth,
		TotalRevenue:      revenue,
	}, nil
}

// AddStudent validates and creates a roster entry.
func (s *RosterService) AddStudent(ctx context.Context, input StudentInput) (store.Student, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		vErr.add("email", "email is required")
	}
	if vErr.HasErrors() {
		return store.Student{}, vErr
	}

	return s.writer.AddStudent(ctx, store.Student{
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.TrimSpace(input.Email),
		SignedUpLessons: input.SignedUpLessons,
		CostPerLesson:   input.CostPerLesson,
	})
}

// UpdateStudent patches a roster entry.
func (s *RosterService) UpdateStudent(ctx context.Context, id string, patch store.StudentPatch) error {
	if strings.TrimSpace(id) == "" {
		vErr := &ValidationError{}
		vErr.add("id", "student id is required")
		return vErr
	}
	return s.writer.UpdateStudent(ctx, id, patch)
}

// RecordCheckIn validates manual check-in entry and creates the record. On a
// write failure the caller keeps its form state and surfaces the error.
func (s *RosterService) RecordCheckIn(ctx context.Context, input CheckInInput) (store.CheckIn, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.StudentID) == "" {
		vErr.add("student_id", "student is required")
	}
	if strings.TrimSpace(input.LessonType) == "" {
		vErr.add("lesson_type", "lesson type is required")
	}
	if input.LessonCost <= 0 {
		vErr.add("lesson_cost", "lesson cost must be positive")
	}
	if vErr.HasErrors() {
		return store.CheckIn{}, vErr
	}

	return s.writer.AddCheckIn(ctx, store.CheckIn{
		StudentID:   strings.TrimSpace(input.StudentID),
		LessonType:  strings.TrimSpace(input.LessonType),
		LessonCost:  input.LessonCost,
		Timestamp:   input.Timestamp,
		ClassroomID: input.ClassroomID,
	})
}

// SoftDeleteCheckIn hides a check-in from the primary table. The record
// stays in storage and appears in the recently-deleted list.
func (s *RosterService) SoftDeleteCheckIn(ctx context.Context, id string) error {
	inactive := false
	return s.writer.UpdateCheckIn(ctx, id, store.CheckInPatch{Active: &inactive})
}

// RestoreCheckIn undoes a soft delete.
func (s *RosterService) RestoreCheckIn(ctx context.Context, id string) error {
	active := true
	return s.writer.UpdateCheckIn(ctx, id, store.CheckInPatch{Active: &active})
}

// UpdateCheckIn patches a check-in record.
func (s *RosterService) UpdateCheckIn(ctx context.Context, id string, patch store.CheckInPatch) error {
	if strings.TrimSpace(id) == "" {
		vErr := &ValidationError{}
		vErr.add("id", "check-in id is required")
		return vErr
	}
	return s.writer.UpdateCheckIn(ctx, id, patch)
}

// InvoiceData gathers one student's billing figures and their full check-in
// history. The history includes soft-deleted rows, matching the aggregation
// behind completedLessons.
func (s *RosterService) InvoiceData(ctx context.Context, id string) (StudentWithStats, []store.CheckIn, error) {
	student, err := s.students.GetStudent(ctx, id)
	if err != nil {
		return StudentWithStats{}, nil, err
	}
	checkIns, err := s.checkIns.ListCheckIns(ctx)
	if err != nil {
		return StudentWithStats{}, nil, err
	}

	history := make([]store.CheckIn, 0)
	for _, checkIn := range checkIns {
		if checkIn.StudentID == student.ID {
			history = append(history, checkIn)
		}
	}

	return StudentWithStats{
		Student:          student,
		CompletedLessons: len(history),
		TotalAmountOwed:  float64(len(history)) * student.CostPerLesson,
	}, history, nil
}

// BuildRoster derives the visible roster from the current student and
// check-in sets. Students missing a name or email are hidden, not deleted.
// completedLessons counts every check-in for the student regardless of the
// active flag, matching the billing aggregation the dashboard has always
// shown, even though the check-in table itself hides inactive rows.
func BuildRoster(students []store.Student, checkIns []store.CheckIn, search string) []StudentWithStats {
	counts := make(map[string]int, len(students))
	for _, checkIn := range checkIns {
		counts[checkIn.StudentID]++
	}

	term := strings.ToLower(strings.TrimSpace(search))
	roster := make([]StudentWithStats, 0, len(students))
	for _, student := range students {
		if student.Name == "" || student.Email == "" {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(student.Name), term) &&
			!strings.Contains(strings.ToLower(student.Email), term) {
			continue
		}
		completed := counts[student.ID]
		roster = append(roster, StudentWithStats{
			Student:          student,
			CompletedLessons: completed,
			TotalAmountOwed:  float64(completed) * student.CostPerLesson,
		})
	}
	return roster
}

// JoinCheckIns derives the primary check-in table: only visible rows, only
// rows whose student exists. Orphaned check-ins are dropped from the view
// but remain in the raw set.
func JoinCheckIns(students []store.Student, checkIns []store.CheckIn, loc *time.Location) []CheckInRow {
	if loc == nil {
		loc = time.UTC
	}
	names := make(map[string]string, len(students))
	for _, student := range students {
		names[student.ID] = student.Name
	}

	rows := make([]CheckInRow, 0, len(checkIns))
	for _, checkIn := range checkIns {
		if !checkIn.Active {
			continue
		}
		name, ok := names[checkIn.StudentID]
		if !ok || name == "" {
			continue
		}
		rows = append(rows, CheckInRow{
			CheckIn:     checkIn,
			StudentName: name,
			Session:     SessionFor(checkIn, loc),
		})
	}
	return rows
}

// DeletedCheckIns returns the soft-deleted rows, newest bucket of the
// roster view's undo list.
func DeletedCheckIns(checkIns []store.CheckIn) []store.CheckIn {
	deleted := make([]store.CheckIn, 0)
	for _, checkIn := range checkIns {
		if !checkIn.Active {
			deleted = append(deleted, checkIn)
		}
	}
	return deleted
}

// SessionFor buckets a check-in by the hour of its timestamp in loc.
func SessionFor(checkIn store.CheckIn, loc *time.Location) SessionBucket {
	hour := checkIn.Time(loc).Hour()
	switch {
	case hour >= 6 && hour < 12:
		return SessionMorning
	case hour >= 12 && hour < 18:
		return SessionAfternoon
	case hour >= 18:
		return SessionNight
	default:
		return SessionLateNight
	}
}
