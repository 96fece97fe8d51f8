package application

import "github.com/example/tutoring-dashboard/internal/store"

// StudentWithStats is a roster row with its derived billing figures. The
// figures are recomputed from the current student and check-in sets on every
// change; they are never stored.
type StudentWithStats struct {
	store.Student
	CompletedLessons int
	TotalAmountOwed  float64
}

// SessionBucket classifies a check-in by the local hour of its timestamp.
type SessionBucket string

const (
	// SessionMorning covers 06:00 through 11:59.
	SessionMorning SessionBucket = "Morning"
	// SessionAfternoon covers 12:00 through 17:59.
	SessionAfternoon SessionBucket = "Afternoon"
	// SessionNight covers 18:00 through 23:59.
	SessionNight SessionBucket = "Night"
	// SessionLateNight covers 00:00 through 05:59.
	SessionLateNight SessionBucket = "LateNight"
)

// CheckInRow is a check-in joined to its student for display.
type CheckInRow struct {
	store.CheckIn
	StudentName string
	Session     SessionBucket
}

// DashboardStats carries the headline numbers at the top of the dashboard.
type DashboardStats struct {
	TotalStudents     int
	CheckInsThisMonth int
	TotalRevenue      float64
}

// StudentInput captures caller provided student fields.
type StudentInput struct {
	Name            string
	Email           string
	SignedUpLessons int
	CostPerLesson   float64
}

// CheckInInput captures caller provided check-in fields. Timestamp zero
// means "now"; ClassroomID may be empty.
type CheckInInput struct {
	StudentID   string
	LessonType  string
	LessonCost  float64
	Timestamp   int64
	ClassroomID string
}

// ClassInput captures the scheduler form's submission.
type ClassInput struct {
	Classroom  string
	Name       string
	Teacher    string
	Recurrence []store.Slot
	StartDate  string
	EndDate    string
	StudentIDs []string
}

// DayMarkers flags what the calendar grid renders for one day. The two
// indicators are independent of each other.
type DayMarkers struct {
	HasClass   bool
	HasCheckIn bool
}
