package recurrence

import (
	"reflect"
	"testing"
	"time"

	"github.com/example/tutoring-dashboard/internal/store"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	marchMondays := store.ClassDefinition{
		ID:         "class-1",
		Classroom:  "Room A",
		Name:       "English",
		Teacher:    "Ken",
		Recurrence: []store.Slot{{Day: "Monday", Time: "09:00"}},
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-31",
	}

	t.Run("emits one occurrence per matching weekday", func(t *testing.T) {
		t.Parallel()

		occurrences := Expand(marchMondays)

		wantDates := []string{"2024-03-04", "2024-03-11", "2024-03-18", "2024-03-25"}
		if len(occurrences) != len(wantDates) {
			t.Fatalf("expected %d occurrences, got %d", len(wantDates), len(occurrences))
		}
		for i, occurrence := range occurrences {
			if occurrence.Date != wantDates[i] {
				t.Errorf("occurrence %d: expected date %s, got %s", i, wantDates[i], occurrence.Date)
			}
			if occurrence.Time != "09:00" {
				t.Errorf("occurrence %d: expected time 09:00, got %s", i, occurrence.Time)
			}
			if occurrence.ClassID != "class-1" || occurrence.ClassName != "English" {
				t.Errorf("occurrence %d carries wrong class fields: %+v", i, occurrence)
			}
			wantStart := time.Date(2024, time.March, 4+7*i, 9, 0, 0, 0, time.UTC)
			if !occurrence.Start.Equal(wantStart) {
				t.Errorf("occurrence %d: expected start %v, got %v", i, wantStart, occurrence.Start)
			}
		}
	})

	t.Run("abbreviated day names match full names", func(t *testing.T) {
		t.Parallel()

		abbreviated := marchMondays
		abbreviated.Recurrence = []store.Slot{{Day: "mon", Time: "09:00"}}

		if got, want := Expand(abbreviated), Expand(marchMondays); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected identical expansion, got %+v want %+v", got, want)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		class := marchMondays
		class.Recurrence = []store.Slot{
			{Day: "Wednesday", Time: "14:00"},
			{Day: "Monday", Time: "09:00"},
		}

		first := Expand(class)
		second := Expand(class)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("expected identical results across calls")
		}
		// The walk is chronological, so the first Monday precedes the
		// first Wednesday regardless of slot order.
		if first[0].Date != "2024-03-04" || first[0].Time != "09:00" {
			t.Fatalf("expected the first Monday occurrence, got %+v", first[0])
		}
	})

	t.Run("empty recurrence yields an empty slice", func(t *testing.T) {
		t.Parallel()

		class := marchMondays
		class.Recurrence = nil

		occurrences := Expand(class)
		if occurrences == nil || len(occurrences) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", occurrences)
		}
	})

	t.Run("inverted range yields an empty slice", func(t *testing.T) {
		t.Parallel()

		class := marchMondays
		class.StartDate = "2024-03-31"
		class.EndDate = "2024-03-01"

		if occurrences := Expand(class); len(occurrences) != 0 {
			t.Fatalf("expected no occurrences, got %d", len(occurrences))
		}
	})

	t.Run("unparseable dates yield an empty slice", func(t *testing.T) {
		t.Parallel()

		class := marchMondays
		class.StartDate = "March 1st"

		if occurrences := Expand(class); len(occurrences) != 0 {
			t.Fatalf("expected no occurrences, got %d", len(occurrences))
		}
	})

	t.Run("malformed slots are skipped", func(t *testing.T) {
		t.Parallel()

		class := marchMondays
		class.Recurrence = []store.Slot{
			{Day: "Monday", Time: "09:00"},
			{Day: "Noday", Time: "09:00"},
			{Day: "Monday", Time: "25:00"},
		}

		occurrences := Expand(class)
		if len(occurrences) != 4 {
			t.Fatalf("expected 4 occurrences from the valid slot, got %d", len(occurrences))
		}
	})

	t.Run("single day range includes both endpoints", func(t *testing.T) {
		t.Parallel()

		class := marchMondays
		class.StartDate = "2024-03-04"
		class.EndDate = "2024-03-04"

		occurrences := Expand(class)
		if len(occurrences) != 1 || occurrences[0].Date != "2024-03-04" {
			t.Fatalf("expected exactly the start date occurrence, got %+v", occurrences)
		}
	})
}

func TestGroupByDate(t *testing.T) {
	t.Parallel()

	classes := []store.ClassDefinition{
		{
			ID:         "class-1",
			Name:       "English",
			Recurrence: []store.Slot{{Day: "Monday", Time: "09:00"}},
			StartDate:  "2024-03-01",
			EndDate:    "2024-03-10",
		},
		{
			ID:         "class-2",
			Name:       "Math",
			Recurrence: []store.Slot{{Day: "Monday", Time: "14:00"}},
			StartDate:  "2024-03-01",
			EndDate:    "2024-03-10",
		},
	}

	grouped := GroupByDate(classes)

	if len(grouped) != 1 {
		t.Fatalf("expected one date key, got %d", len(grouped))
	}
	day := grouped["2024-03-04"]
	if len(day) != 2 {
		t.Fatalf("expected both classes on 2024-03-04, got %d", len(day))
	}
	if day[0].ClassID != "class-1" || day[1].ClassID != "class-2" {
		t.Fatalf("expected input order preserved, got %+v", day)
	}
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  time.Weekday
		ok    bool
	}{
		{name: "full name", input: "Monday", want: time.Monday, ok: true},
		{name: "abbreviation", input: "thu", want: time.Thursday, ok: true},
		{name: "mixed case", input: "SATURDAY", want: time.Saturday, ok: true},
		{name: "surrounding space", input: "  Fri  ", want: time.Friday, ok: true},
		{name: "unknown", input: "Noday", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseWeekday(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input      string
		wantHour   int
		wantMinute int
		ok         bool
	}{
		{input: "09:00", wantHour: 9, wantMinute: 0, ok: true},
		{input: "23:59", wantHour: 23, wantMinute: 59, ok: true},
		{input: "0:05", wantHour: 0, wantMinute: 5, ok: true},
		{input: "24:00", ok: false},
		{input: "12:60", ok: false},
		{input: "noon", ok: false},
		{input: "", ok: false},
		{input: "09:00x", ok: false},
		{input: "+9:00", ok: false},
		{input: "09:-5", ok: false},
		{input: "009:00", ok: false},
		{input: "09:", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			hour, minute, ok := ParseTimeOfDay(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && (hour != tc.wantHour || minute != tc.wantMinute) {
				t.Fatalf("expected %02d:%02d, got %02d:%02d", tc.wantHour, tc.wantMinute, hour, minute)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("parses to a UTC calendar date", func(t *testing.T) {
		t.Parallel()
		got, err := ParseDate("2024-03-04")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("expected %v in UTC, got %v", want, got)
		}
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseDate("04/03/2024"); err == nil {
			t.Fatal("expected an error")
		}
	})
}
