// Package http provides HTTP handlers and middleware for the dashboard API.
//
// The router exposes the following endpoints:
//   - GET /api/students?q=, POST /api/students, PUT /api/students/{id}:
//     roster endpoints exchanging the `studentDTO` payload defined in
//     student_handler.go. Listed rows carry the derived completedLessons and
//     totalAmountOwed figures.
//   - GET /api/checkins (add ?deleted=true for the undo list), POST
//     /api/checkins, PUT /api/checkins/{id}: lesson check-in endpoints
//     exchanging the `checkInDTO` payload defined in checkin_handler.go.
//     A PUT body of {"active":false} soft-deletes; {"active":true} restores.
//   - GET /api/classes, POST /api/classes: recurring class definitions. The
//     POST contract is frozen for the scheduler form: 200 {"success":true},
//     400 {"error":"Missing required fields"}, 500 {"error":"Failed to
//     create class"}.
//   - GET /api/teachers, GET /api/classrooms: scheduler form pickers.
//   - GET /api/calendar?month=2006-01, GET /api/calendar/day?date=2006-01-02:
//     calendar grid markers with expanded class occurrences, and the
//     drill-down for one date.
//   - GET /api/students/{id}/invoice[?next_month=N], GET
//     /api/teachers/{id}/invoice: PDF downloads with attachment filenames.
//   - GET /api/export/roster: two-sheet xlsx snapshot.
//   - GET /api/stats: headline dashboard numbers.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
