package application

import (
	"context"
	"time"

	"github.com/example/tutoring-dashboard/internal/recurrence"
	"github.com/example/tutoring-dashboard/internal/store"
)

// CalendarService renders the monthly calendar: per-day markers and the
// selected day's class occurrences and check-ins. Everything is derived
// fresh from the current class and check-in sets.
type CalendarService struct {
	students store.StudentRepository
	checkIns store.CheckInRepository
	classes  store.ClassRepository
	location *time.Location
}

// NewCalendarService wires dependencies for the calendar view. loc decides
// which calendar date a check-in timestamp falls on; nil means UTC.
func NewCalendarService(students store.StudentRepository, checkIns store.CheckInRepository, classes store.ClassRepository, loc *time.Location) *CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarService{
		students: students,
		checkIns: checkIns,
		classes:  classes,
		location: loc,
	}
}

// MonthView is the calendar grid for one month: the two independent per-day
// indicators plus the full occurrence mapping for the month.
type MonthView struct {
	Markers     map[string]DayMarkers
	Occurrences map[string][]recurrence.Occurrence
}

// DayView is the drill-down for a selected date.
type DayView struct {
	Date        string
	Occurrences []recurrence.Occurrence
	CheckIns    []CheckInRow
}

// Month builds the grid for the given year and month.
func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) (MonthView, error) {
	classes, err := s.classes.ListClasses(ctx)
	if err != nil {
		return MonthView{}, err
	}
	checkIns, err := s.checkIns.ListCheckIns(ctx)
	if err != nil {
		return MonthView{}, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	occurrences := make(map[string][]recurrence.Occurrence)
	for date, list := range recurrence.GroupByDate(classes) {
		day, err := recurrence.ParseDate(date)
		if err != nil || day.Before(first) || day.After(last) {
			continue
		}
		occurrences[date] = list
	}

	markers := make(map[string]DayMarkers)
	for date := range occurrences {
		entry := markers[date]
		entry.HasClass = true
		markers[date] = entry
	}
	for _, checkIn := range checkIns {
		t := checkIn.Time(s.location)
		if t.Year() != year || t.Month() != month {
			continue
		}
		date := t.Format(recurrence.DateLayout)
		entry := markers[date]
		entry.HasCheckIn = true
		markers[date] = entry
	}

	return MonthView{Markers: markers, Occurrences: occurrences}, nil
}

// Day filters both the occurrence mapping and the check-in set down to one
// calendar date. The table filters by date only: soft-deleted check-ins
// still appear here, unlike the dashboard check-in table. Names are joined
// when the student exists, and an orphaned check-in falls back to its raw
// student id rather than disappearing.
func (s *CalendarService) Day(ctx context.Context, date string) (DayView, error) {
	day, err := recurrence.ParseDate(date)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "date must be a 2006-01-02 calendar date")
		return DayView{}, vErr
	}

	classes, err := s.classes.ListClasses(ctx)
	if err != nil {
		return DayView{}, err
	}
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return DayView{}, err
	}
	checkIns, err := s.checkIns.ListCheckIns(ctx)
	if err != nil {
		return DayView{}, err
	}

	key := day.Format(recurrence.DateLayout)
	view := DayView{Date: key, Occurrences: recurrence.GroupByDate(classes)[key]}
	if view.Occurrences == nil {
		view.Occurrences = []recurrence.Occurrence{}
	}

	names := make(map[string]string, len(students))
	for _, student := range students {
		names[student.ID] = student.Name
	}

	view.CheckIns = make([]CheckInRow, 0)
	for _, checkIn := range checkIns {
		if checkIn.Time(s.location).Format(recurrence.DateLayout) != key {
			continue
		}
		name := names[checkIn.StudentID]
		if name == "" {
			name = checkIn.StudentID
		}
		view.CheckIns = append(view.CheckIns, CheckInRow{
			CheckIn:     checkIn,
			StudentName: name,
			Session:     SessionFor(checkIn, s.location),
		})
	}
	return view, nil
}
