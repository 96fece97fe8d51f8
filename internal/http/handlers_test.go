package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/tutoring-dashboard/internal/application"
	"github.com/example/tutoring-dashboard/internal/store"
	"github.com/example/tutoring-dashboard/internal/testfixtures"
)

type rosterServiceStub struct {
	roster     []application.StudentWithStats
	rosterErr  error
	lastSearch string

	added     store.Student
	addErr    error
	patched   map[string]store.StudentPatch
	stats     application.DashboardStats
	statsErr  error
	checkIns  []application.CheckInRow
	deleted   []store.CheckIn
	recorded  store.CheckIn
	recordErr error

	softDeleted []string
	restored    []string

	invoiceStudent application.StudentWithStats
	invoiceHistory []store.CheckIn
	invoiceErr     error
}

func (s *rosterServiceStub) Roster(ctx context.Context, search string) ([]application.StudentWithStats, error) {
	s.lastSearch = search
	return s.roster, s.rosterErr
}

func (s *rosterServiceStub) AddStudent(ctx context.Context, input application.StudentInput) (store.Student, error) {
	if s.addErr != nil {
		return store.Student{}, s.addErr
	}
	s.added = store.Student{ID: "student-new", Name: input.Name, Email: input.Email, Active: true}
	return s.added, nil
}

func (s *rosterServiceStub) UpdateStudent(ctx context.Context, id string, patch store.StudentPatch) error {
	if s.patched == nil {
		s.patched = make(map[string]store.StudentPatch)
	}
	s.patched[id] = patch
	return nil
}

func (s *rosterServiceStub) Stats(ctx context.Context) (application.DashboardStats, error) {
	return s.stats, s.statsErr
}

func (s *rosterServiceStub) CheckInTable(ctx context.Context) ([]application.CheckInRow, error) {
	return s.checkIns, nil
}

func (s *rosterServiceStub) RecentlyDeleted(ctx context.Context) ([]store.CheckIn, error) {
	return s.deleted, nil
}

func (s *rosterServiceStub) RecordCheckIn(ctx context.Context, input application.CheckInInput) (store.CheckIn, error) {
	if s.recordErr != nil {
		return store.CheckIn{}, s.recordErr
	}
	s.recorded = store.CheckIn{ID: "checkin-new", StudentID: input.StudentID, LessonType: input.LessonType, LessonCost: input.LessonCost, Timestamp: input.Timestamp, Active: true}
	return s.recorded, nil
}

func (s *rosterServiceStub) SoftDeleteCheckIn(ctx context.Context, id string) error {
	s.softDeleted = append(s.softDeleted, id)
	return nil
}

func (s *rosterServiceStub) RestoreCheckIn(ctx context.Context, id string) error {
	s.restored = append(s.restored, id)
	return nil
}

func (s *rosterServiceStub) UpdateCheckIn(ctx context.Context, id string, patch store.CheckInPatch) error {
	return nil
}

func (s *rosterServiceStub) InvoiceData(ctx context.Context, studentID string) (application.StudentWithStats, []store.CheckIn, error) {
	if s.invoiceErr != nil {
		return application.StudentWithStats{}, nil, s.invoiceErr
	}
	return s.invoiceStudent, s.invoiceHistory, nil
}

type classServiceStub struct {
	created   store.ClassDefinition
	createErr error
	calls     int

	classes    []store.ClassDefinition
	teachers   []store.Teacher
	classrooms []store.Classroom
}

func (s *classServiceStub) CreateClass(ctx context.Context, input application.ClassInput) (store.ClassDefinition, error) {
	s.calls++
	if s.createErr != nil {
		return store.ClassDefinition{}, s.createErr
	}
	s.created = store.ClassDefinition{
		ID:         "class-new",
		Classroom:  input.Classroom,
		Name:       input.Name,
		Teacher:    input.Teacher,
		Recurrence: input.Recurrence,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		StudentIDs: input.StudentIDs,
	}
	return s.created, nil
}

func (s *classServiceStub) ListClasses(ctx context.Context) ([]store.ClassDefinition, error) {
	return s.classes, nil
}

func (s *classServiceStub) ListTeachers(ctx context.Context) ([]store.Teacher, error) {
	return s.teachers, nil
}

func (s *classServiceStub) ListClassrooms(ctx context.Context) ([]store.Classroom, error) {
	return s.classrooms, nil
}

type calendarServiceStub struct {
	month application.MonthView
	day   application.DayView
	err   error
}

func (s *calendarServiceStub) Month(ctx context.Context, year int, month time.Month) (application.MonthView, error) {
	return s.month, s.err
}

func (s *calendarServiceStub) Day(ctx context.Context, date string) (application.DayView, error) {
	return s.day, s.err
}

func newTestRouter(roster *rosterServiceStub, classes *classServiceStub, calendar *calendarServiceStub) http.Handler {
	return NewRouter(RouterConfig{
		Students: NewStudentHandler(roster, nil),
		CheckIns: NewCheckInHandler(roster, nil),
		Classes:  NewClassHandler(classes, nil),
		Calendar: NewCalendarHandler(calendar, nil),
		Invoices: NewInvoiceHandler(roster, classes, time.UTC, nil),
		Exports:  NewExportHandler(roster, time.UTC, nil),
	})
}

func TestClassCreateContract(t *testing.T) {
	t.Parallel()

	validBody := `{
		"classroom": "Room A",
		"name": "English",
		"teacher": "Ken",
		"recurrence": [{"day": "Monday", "time": "09:00"}],
		"startDate": "2024-03-01",
		"endDate": "2024-03-31",
		"students": ["alice"]
	}`

	t.Run("success responds 200 with the frozen body", func(t *testing.T) {
		t.Parallel()

		classes := &classServiceStub{}
		router := newTestRouter(&rosterServiceStub{}, classes, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/classes", strings.NewReader(validBody)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"success":true}` {
			t.Fatalf("unexpected body: %s", got)
		}
		if classes.created.Teacher != "Ken" || len(classes.created.Recurrence) != 1 {
			t.Fatalf("service received wrong input: %+v", classes.created)
		}
	})

	t.Run("missing fields respond 400 without writing", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name string
			body string
		}{
			{name: "missing teacher", body: `{"classroom":"Room A","name":"English","recurrence":[],"startDate":"2024-03-01","endDate":"2024-03-31"}`},
			{name: "blank classroom", body: `{"classroom":"  ","name":"English","teacher":"Ken","recurrence":[],"startDate":"2024-03-01","endDate":"2024-03-31"}`},
			{name: "absent recurrence", body: `{"classroom":"Room A","name":"English","teacher":"Ken","startDate":"2024-03-01","endDate":"2024-03-31"}`},
			{name: "recurrence not an array", body: `{"classroom":"Room A","name":"English","teacher":"Ken","recurrence":"daily","startDate":"2024-03-01","endDate":"2024-03-31"}`},
			{name: "students not an array", body: `{"classroom":"Room A","name":"English","teacher":"Ken","recurrence":[],"students":42,"startDate":"2024-03-01","endDate":"2024-03-31"}`},
			{name: "absent students", body: `{"classroom":"Room A","name":"English","teacher":"Ken","recurrence":[{"day":"Monday","time":"09:00"}],"startDate":"2024-03-01","endDate":"2024-03-31"}`},
			{name: "malformed json", body: `{`},
		}

		for _, tc := range cases {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				classes := &classServiceStub{}
				router := newTestRouter(&rosterServiceStub{}, classes, &calendarServiceStub{})

				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/classes", strings.NewReader(tc.body)))

				if rec.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d", rec.Code)
				}
				if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Missing required fields"}` {
					t.Fatalf("unexpected body: %s", got)
				}
				if classes.calls != 0 {
					t.Fatal("rejected submission must not reach the service")
				}
			})
		}
	})

	t.Run("service validation failures respond 400", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"recurrence": "at least one weekly slot is required"}}
		classes := &classServiceStub{createErr: vErr}
		router := newTestRouter(&rosterServiceStub{}, classes, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/classes", strings.NewReader(validBody)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Missing required fields"}` {
			t.Fatalf("unexpected body: %s", got)
		}
	})

	t.Run("persistence failures respond 500 with the frozen body", func(t *testing.T) {
		t.Parallel()

		classes := &classServiceStub{createErr: errors.New("storage offline")}
		router := newTestRouter(&rosterServiceStub{}, classes, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/classes", strings.NewReader(validBody)))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Failed to create class"}` {
			t.Fatalf("unexpected body: %s", got)
		}
	})
}

func TestStudentEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("list forwards the search term", func(t *testing.T) {
		t.Parallel()

		roster := &rosterServiceStub{
			roster: []application.StudentWithStats{{
				Student:          testfixtures.NewStudent(testfixtures.WithStudentID("alice")),
				CompletedLessons: 3,
				TotalAmountOwed:  750,
			}},
		}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students?q=ali", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if roster.lastSearch != "ali" {
			t.Errorf("expected search term forwarded, got %q", roster.lastSearch)
		}

		var resp struct {
			Students []struct {
				ID               string  `json:"id"`
				CompletedLessons int     `json:"completedLessons"`
				TotalAmountOwed  float64 `json:"totalAmountOwed"`
			} `json:"students"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Students) != 1 || resp.Students[0].CompletedLessons != 3 || resp.Students[0].TotalAmountOwed != 750 {
			t.Fatalf("unexpected payload: %+v", resp.Students)
		}
	})

	t.Run("create responds 201", func(t *testing.T) {
		t.Parallel()

		roster := &rosterServiceStub{}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		body := `{"name":"Alice Wong","email":"alice@example.com","signedUpLessons":8,"costPerLesson":300}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if roster.added.Name != "Alice Wong" {
			t.Fatalf("service received wrong input: %+v", roster.added)
		}
	})

	t.Run("validation failures respond 422", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"name": "name is required"}}
		roster := &rosterServiceStub{addErr: vErr}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(`{}`)))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("update patches by path id", func(t *testing.T) {
		t.Parallel()

		roster := &rosterServiceStub{}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/students/alice", strings.NewReader(`{"nextMonthRequest":6}`)))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		patch := roster.patched["alice"]
		if patch.NextMonthRequest == nil || *patch.NextMonthRequest != 6 {
			t.Fatalf("unexpected patch: %+v", patch)
		}
	})
}

func TestCheckInEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("deleted=true serves the undo list", func(t *testing.T) {
		t.Parallel()

		roster := &rosterServiceStub{
			deleted: []store.CheckIn{testfixtures.NewCheckIn(testfixtures.WithCheckInActive(false))},
		}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkins?deleted=true", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			CheckIns []struct {
				Active bool `json:"active"`
			} `json:"checkIns"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.CheckIns) != 1 || resp.CheckIns[0].Active {
			t.Fatalf("unexpected payload: %+v", resp.CheckIns)
		}
	})

	t.Run("an active-only body toggles soft delete", func(t *testing.T) {
		t.Parallel()

		roster := &rosterServiceStub{}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/checkins/checkin-1", strings.NewReader(`{"active":false}`)))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/checkins/checkin-1", strings.NewReader(`{"active":true}`)))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		if len(roster.softDeleted) != 1 || roster.softDeleted[0] != "checkin-1" {
			t.Errorf("expected one soft delete, got %v", roster.softDeleted)
		}
		if len(roster.restored) != 1 || roster.restored[0] != "checkin-1" {
			t.Errorf("expected one restore, got %v", roster.restored)
		}
	})

	t.Run("create responds 201", func(t *testing.T) {
		t.Parallel()

		roster := &rosterServiceStub{}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		body := `{"studentId":"alice","lessonType":"Regular","lessonCost":250}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkins", strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if roster.recorded.StudentID != "alice" || roster.recorded.LessonCost != 250 {
			t.Fatalf("service received wrong input: %+v", roster.recorded)
		}
	})
}

func TestCalendarEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("rejects malformed months", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&rosterServiceStub{}, &classServiceStub{}, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calendar?month=March", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("month serves markers and occurrences", func(t *testing.T) {
		t.Parallel()

		calendar := &calendarServiceStub{
			month: application.MonthView{
				Markers: map[string]application.DayMarkers{
					"2024-03-04": {HasClass: true, HasCheckIn: true},
				},
			},
		}
		router := newTestRouter(&rosterServiceStub{}, &classServiceStub{}, calendar)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calendar?month=2024-03", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			Markers map[string]struct {
				HasClass   bool `json:"hasClass"`
				HasCheckIn bool `json:"hasCheckIn"`
			} `json:"markers"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		day := resp.Markers["2024-03-04"]
		if !day.HasClass || !day.HasCheckIn {
			t.Fatalf("unexpected markers: %+v", resp.Markers)
		}
	})

	t.Run("validation errors from the day view respond 422", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"date": "date must be a 2006-01-02 calendar date"}}
		router := newTestRouter(&rosterServiceStub{}, &classServiceStub{}, &calendarServiceStub{err: vErr})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calendar/day?date=whenever", nil))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestInvoiceEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("student invoice streams a named PDF", func(t *testing.T) {
		t.Parallel()

		roster := &rosterServiceStub{
			invoiceStudent: application.StudentWithStats{
				Student: testfixtures.NewStudent(testfixtures.WithStudentName("Alice Wong")),
			},
			invoiceHistory: []store.CheckIn{testfixtures.NewCheckIn()},
		}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/alice/invoice?next_month=6", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
			t.Errorf("unexpected content type %q", got)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "invoice_Alice_Wong.pdf") {
			t.Errorf("unexpected disposition %q", got)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
			t.Error("expected a PDF body")
		}
	})

	t.Run("missing students respond 404", func(t *testing.T) {
		t.Parallel()

		roster := &rosterServiceStub{invoiceErr: store.ErrNotFound}
		router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/ghost/invoice", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("teacher invoice resolves the catalog entry", func(t *testing.T) {
		t.Parallel()

		classes := &classServiceStub{teachers: []store.Teacher{{ID: "teacher-1", Name: "Ken"}}}
		router := newTestRouter(&rosterServiceStub{}, classes, &calendarServiceStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/teachers/teacher-1/invoice", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "invoice-Ken.pdf") {
			t.Errorf("unexpected disposition %q", got)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/teachers/ghost/invoice", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown teacher, got %d", rec.Code)
		}
	})
}

func TestExportEndpoint(t *testing.T) {
	t.Parallel()

	roster := &rosterServiceStub{
		roster: []application.StudentWithStats{{
			Student: testfixtures.NewStudent(testfixtures.WithStudentName("Alice Wong")),
		}},
	}
	router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export/roster", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "spreadsheetml") {
		t.Errorf("unexpected content type %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected workbook bytes")
	}
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	roster := &rosterServiceStub{
		stats: application.DashboardStats{TotalStudents: 4, CheckInsThisMonth: 9, TotalRevenue: 2250},
	}
	router := newTestRouter(roster, &classServiceStub{}, &calendarServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		TotalStudents     int     `json:"totalStudents"`
		CheckInsThisMonth int     `json:"checkInsThisMonth"`
		TotalRevenue      float64 `json:"totalRevenue"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalStudents != 4 || resp.CheckInsThisMonth != 9 || resp.TotalRevenue != 2250 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
