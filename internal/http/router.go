package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Students   *StudentHandler
	CheckIns   *CheckInHandler
	Classes    *ClassHandler
	Calendar   *CalendarHandler
	Invoices   *InvoiceHandler
	Exports    *ExportHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Students != nil {
		mux.HandleFunc("/api/students", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Students.List(w, r)
			case http.MethodPost:
				cfg.Students.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/students/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/students/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			if id, ok := strings.CutSuffix(rest, "/invoice"); ok && id != "" && !strings.Contains(id, "/") {
				if cfg.Invoices == nil {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Invoices.Student(w, r.WithContext(ContextWithStudentID(r.Context(), id)))
				return
			}

			if strings.Contains(rest, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Students.Update(w, r.WithContext(ContextWithStudentID(r.Context(), rest)))
		})
		mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Students.Stats(w, r)
		})
	}

	if cfg.CheckIns != nil {
		mux.HandleFunc("/api/checkins", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.CheckIns.List(w, r)
			case http.MethodPost:
				cfg.CheckIns.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/checkins/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/api/checkins/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.CheckIns.Update(w, r.WithContext(ContextWithCheckInID(r.Context(), id)))
		})
	}

	if cfg.Classes != nil {
		mux.HandleFunc("/api/classes", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Classes.List(w, r)
			case http.MethodPost:
				cfg.Classes.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/teachers", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Classes.ListTeachers(w, r)
		})
		mux.HandleFunc("/api/classrooms", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Classes.ListClassrooms(w, r)
		})
	}

	if cfg.Invoices != nil {
		mux.HandleFunc("/api/teachers/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/teachers/")
			id, ok := strings.CutSuffix(rest, "/invoice")
			if !ok || id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Invoices.Teacher(w, r.WithContext(ContextWithTeacherID(r.Context(), id)))
		})
	}

	if cfg.Calendar != nil {
		mux.HandleFunc("/api/calendar", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Calendar.Month(w, r)
		})
		mux.HandleFunc("/api/calendar/day", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Calendar.Day(w, r)
		})
	}

	if cfg.Exports != nil {
		mux.HandleFunc("/api/export/roster", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Exports.Roster(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
