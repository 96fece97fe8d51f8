package store

import "time"

// Student represents one roster entry for the tutoring business.
type Student struct {
	ID               string
	Name             string
	Email            string
	SignedUpLessons  int
	CostPerLesson    float64
	LastInvoiceMonth string
	NextMonthRequest int
	RolloverLessons  int
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CheckIn records one completed lesson for a student. Timestamp is stored as
// epoch milliseconds to match the document shape of the hosted store.
type CheckIn struct {
	ID          string
	StudentID   string
	LessonType  string
	LessonCost  float64
	Timestamp   int64
	ClassroomID string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Time returns the check-in instant in the provided location. A nil location
// resolves to UTC.
func (c CheckIn) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(c.Timestamp).In(loc)
}

// Slot is one weekly recurrence cell: a weekday name (full or 3-letter) and a
// 24-hour HH:MM time of day.
type Slot struct {
	Day  string
	Time string
}

// ClassDefinition is a recurring weekly class template. StartDate and EndDate
// are inclusive calendar dates formatted as 2006-01-02.
type ClassDefinition struct {
	ID         string
	Classroom  string
	Name       string
	Teacher    string
	Recurrence []Slot
	StartDate  string
	EndDate    string
	StudentIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Teacher is a catalog entry backing the scheduler form's teacher picker.
type Teacher struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Classroom is a catalog entry backing the scheduler form's classroom picker.
type Classroom struct {
	ID          string
	ClassroomID string
	CreatedAt   time.Time
}

// StudentPatch carries a partial student update. Nil fields are left
// untouched, mirroring the document store's partial-update semantics.
type StudentPatch struct {
	Name             *string
	Email            *string
	SignedUpLessons  *int
	CostPerLesson    *float64
	LastInvoiceMonth *string
	NextMonthRequest *int
	RolloverLessons  *int
	Active           *bool
}

// CheckInPatch carries a partial check-in update.
type CheckInPatch struct {
	LessonType  *string
	LessonCost  *float64
	Timestamp   *int64
	ClassroomID *string
	Active      *bool
}
