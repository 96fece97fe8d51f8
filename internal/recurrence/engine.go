// Package recurrence expands weekly class templates into concrete calendar
// occurrences. All calendar arithmetic runs in UTC: a date string is a UTC
// calendar date and weekday membership is decided in UTC, so expansion and
// day filtering can never disagree about which day a slot falls on.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/tutoring-dashboard/internal/store"
)

// DateLayout is the calendar-date format used across the dashboard.
const DateLayout = "2006-01-02"

// ErrInvalidDate indicates a date string is not a 2006-01-02 calendar date.
var ErrInvalidDate = errors.New("recurrence: invalid calendar date")

// Occurrence is one concrete instance of a class template: a calendar date
// paired with the slot's time of day and the defining class's display fields.
type Occurrence struct {
	ClassID   string
	ClassName string
	Teacher   string
	Classroom string
	Date      string
	Time      string
	Start     time.Time
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// ParseWeekday resolves a full English weekday name or its 3-letter
// abbreviation, case-insensitively.
func ParseWeekday(name string) (time.Weekday, bool) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return day, ok
}

// ParseTimeOfDay parses a 24-hour HH:MM string into hour and minute. Both
// fields must be bare digits, so trailing text and signs are rejected.
func ParseTimeOfDay(value string) (hour, minute int, ok bool) {
	hourPart, minutePart, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return 0, 0, false
	}
	h, ok := parseClockField(hourPart, 23)
	if !ok {
		return 0, 0, false
	}
	m, ok := parseClockField(minutePart, 59)
	if !ok {
		return 0, 0, false
	}
	return h, m, true
}

func parseClockField(value string, max int) (int, bool) {
	if len(value) == 0 || len(value) > 2 {
		return 0, false
	}
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n > max {
		return 0, false
	}
	return n, true
}

// ParseDate parses a 2006-01-02 string into a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// Expand generates every occurrence of the class between its start and end
// dates inclusive. It walks each calendar date in order and emits one
// occurrence per recurrence slot whose weekday matches, so the result is a
// pure function of the definition: expanding twice yields the identical list.
// The list is empty when the recurrence set is empty or the range is
// inverted. Slots whose day or time cannot be parsed are skipped; malformed
// definitions degrade to fewer occurrences, never to an error.
func Expand(class store.ClassDefinition) []Occurrence {
	occurrences := make([]Occurrence, 0)
	if len(class.Recurrence) == 0 {
		return occurrences
	}

	start, err := ParseDate(class.StartDate)
	if err != nil {
		return occurrences
	}
	end, err := ParseDate(class.EndDate)
	if err != nil {
		return occurrences
	}
	if start.After(end) {
		return occurrences
	}

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		for _, slot := range class.Recurrence {
			day, ok := ParseWeekday(slot.Day)
			if !ok || day != date.Weekday() {
				continue
			}
			hour, minute, ok := ParseTimeOfDay(slot.Time)
			if !ok {
				continue
			}
			occurrences = append(occurrences, Occurrence{
				ClassID:   class.ID,
				ClassName: class.Name,
				Teacher:   class.Teacher,
				Classroom: class.Classroom,
				Date:      date.Format(DateLayout),
				Time:      slot.Time,
				Start:     time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC),
			})
		}
	}
	return occurrences
}

// GroupByDate expands every class and groups the occurrences under their
// 2006-01-02 date key. The mapping is rebuilt from scratch on every call;
// nothing is maintained incrementally.
func GroupByDate(classes []store.ClassDefinition) map[string][]Occurrence {
	grouped := make(map[string][]Occurrence)
	for _, class := range classes {
		for _, occurrence := range Expand(class) {
			grouped[occurrence.Date] = append(grouped[occurrence.Date], occurrence)
		}
	}
	return grouped
}
