package http

import "context"

type contextKey string

const (
	studentIDContextKey contextKey = "student_id"
	checkInIDContextKey contextKey = "checkin_id"
	teacherIDContextKey contextKey = "teacher_id"
)

// ContextWithStudentID injects the student identifier resolved from the request path.
func ContextWithStudentID(ctx context.Context, studentID string) context.Context {
	return context.WithValue(ctx, studentIDContextKey, studentID)
}

// StudentIDFromContext extracts a student identifier previously associated with the context.
func StudentIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(studentIDContextKey).(string)
	return id, ok
}

// ContextWithCheckInID injects the check-in identifier resolved from the request path.
func ContextWithCheckInID(ctx context.Context, checkInID string) context.Context {
	return context.WithValue(ctx, checkInIDContextKey, checkInID)
}

// CheckInIDFromContext extracts a check-in identifier previously associated with the context.
func CheckInIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(checkInIDContextKey).(string)
	return id, ok
}

// ContextWithTeacherID injects the teacher identifier resolved from the request path.
func ContextWithTeacherID(ctx context.Context, teacherID string) context.Context {
	return context.WithValue(ctx, teacherIDContextKey, teacherID)
}

// TeacherIDFromContext extracts a teacher identifier previously associated with the context.
func TeacherIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(teacherIDContextKey).(string)
	return id, ok
}
