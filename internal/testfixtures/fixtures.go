// Package testfixtures provides deterministic records, clocks, and storage
// harnesses shared by the package test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/tutoring-dashboard/internal/store"
)

var (
	studentCounter   uint64
	checkInCounter   uint64
	classCounter     uint64
	teacherCounter   uint64
	classroomCounter uint64
)

// referenceTime is a Monday morning so session bucketing and weekday
// expansion tests read naturally.
var referenceTime = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ---------------------------- Student fixtures ----------------------------

// StudentOption configures the generated student record.
type StudentOption func(*store.Student)

// NewStudent returns a deterministic student record with optional overrides.
func NewStudent(opts ...StudentOption) store.Student {
	idx := atomic.AddUint64(&studentCounter, 1)
	id := fmt.Sprintf("student-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	student := store.Student{
		ID:              id,
		Name:            fmt.Sprintf("Student %03d", idx),
		Email:           fmt.Sprintf("%s@example.com", id),
		SignedUpLessons: 8,
		CostPerLesson:   250,
		Active:          true,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	for _, opt := range opts {
		opt(&student)
	}
	return student
}

// WithStudentID overrides the generated student ID.
func WithStudentID(id string) StudentOption {
	return func(s *store.Student) { s.ID = id }
}

// WithStudentName overrides the generated name.
func WithStudentName(name string) StudentOption {
	return func(s *store.Student) { s.Name = name }
}

// WithStudentEmail overrides the generated email address.
func WithStudentEmail(email string) StudentOption {
	return func(s *store.Student) { s.Email = email }
}

// WithStudentRate overrides the per-lesson rate.
func WithStudentRate(rate float64) StudentOption {
	return func(s *store.Student) { s.CostPerLesson = rate }
}

// WithStudentSignedUp overrides the signed-up lesson count.
func WithStudentSignedUp(count int) StudentOption {
	return func(s *store.Student) { s.SignedUpLessons = count }
}

// ---------------------------- Check-in fixtures ---------------------------

// CheckInOption configures the generated check-in record.
type CheckInOption func(*store.CheckIn)

// NewCheckIn returns a deterministic check-in record with optional overrides.
// Each record lands one hour after the previous one.
func NewCheckIn(opts ...CheckInOption) store.CheckIn {
	idx := atomic.AddUint64(&checkInCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	checkIn := store.CheckIn{
		ID:         fmt.Sprintf("checkin-%03d", idx),
		StudentID:  "student-001",
		LessonType: "Regular",
		LessonCost: 250,
		Timestamp:  created.UnixMilli(),
		Active:     true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&checkIn)
	}
	return checkIn
}

// WithCheckInID overrides the generated check-in ID.
func WithCheckInID(id string) CheckInOption {
	return func(c *store.CheckIn) { c.ID = id }
}

// WithCheckInStudent overrides the owning student ID.
func WithCheckInStudent(studentID string) CheckInOption {
	return func(c *store.CheckIn) { c.StudentID = studentID }
}

// WithCheckInType overrides the lesson type.
func WithCheckInType(lessonType string) CheckInOption {
	return func(c *store.CheckIn) { c.LessonType = lessonType }
}

// WithCheckInCost overrides the lesson cost.
func WithCheckInCost(cost float64) CheckInOption {
	return func(c *store.CheckIn) { c.LessonCost = cost }
}

// WithCheckInAt sets the check-in instant.
func WithCheckInAt(t time.Time) CheckInOption {
	return func(c *store.CheckIn) { c.Timestamp = t.UnixMilli() }
}

// WithCheckInActive sets the visibility flag.
func WithCheckInActive(active bool) CheckInOption {
	return func(c *store.CheckIn) { c.Active = active }
}

// ----------------------------- Class fixtures -----------------------------

// ClassOption configures the generated class definition.
type ClassOption func(*store.ClassDefinition)

// NewClass returns a deterministic class definition with optional overrides.
// The default recurrence is Monday mornings across March 2024.
func NewClass(opts ...ClassOption) store.ClassDefinition {
	idx := atomic.AddUint64(&classCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	class := store.ClassDefinition{
		ID:         fmt.Sprintf("class-%03d", idx),
		Classroom:  "Room A",
		Name:       fmt.Sprintf("Class %03d", idx),
		Teacher:    "Ken",
		Recurrence: []store.Slot{{Day: "Monday", Time: "09:00"}},
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-31",
		StudentIDs: []string{},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&class)
	}
	return class
}

// WithClassID overrides the generated class ID.
func WithClassID(id string) ClassOption {
	return func(c *store.ClassDefinition) { c.ID = id }
}

// WithClassName overrides the subject name.
func WithClassName(name string) ClassOption {
	return func(c *store.ClassDefinition) { c.Name = name }
}

// WithClassRecurrence replaces the weekly slot set.
func WithClassRecurrence(slots ...store.Slot) ClassOption {
	return func(c *store.ClassDefinition) { c.Recurrence = slots }
}

// WithClassDates sets the inclusive start and end dates.
func WithClassDates(start, end string) ClassOption {
	return func(c *store.ClassDefinition) {
		c.StartDate = start
		c.EndDate = end
	}
}

// WithClassStudents replaces the enrolled student IDs.
func WithClassStudents(ids ...string) ClassOption {
	return func(c *store.ClassDefinition) { c.StudentIDs = ids }
}

// ---------------------------- Catalog fixtures ----------------------------

// NewTeacher returns a deterministic teacher catalog entry.
func NewTeacher(name string) store.Teacher {
	idx := atomic.AddUint64(&teacherCounter, 1)
	if name == "" {
		name = fmt.Sprintf("Teacher %03d", idx)
	}
	return store.Teacher{
		ID:        fmt.Sprintf("teacher-%03d", idx),
		Name:      name,
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
}

// NewClassroom returns a deterministic classroom catalog entry.
func NewClassroom(label string) store.Classroom {
	idx := atomic.AddUint64(&classroomCounter, 1)
	if label == "" {
		label = fmt.Sprintf("Room %03d", idx)
	}
	return store.Classroom{
		ID:          fmt.Sprintf("classroom-%03d", idx),
		ClassroomID: label,
		CreatedAt:   referenceTime.Add(time.Duration(idx) * time.Minute),
	}
}
