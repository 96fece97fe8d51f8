package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/tutoring-dashboard/internal/store"
)

// StudentRepository implements store.StudentRepository on SQLite.
//
// The roster's domain vocabulary differs from the stored field names
// (SignedUpLessons is persisted as lessons_signed_up, CostPerLesson as
// lesson_rate_hkd). The translation is confined to this file and is
// symmetric: a value written under the stored name reads back under the
// domain name unchanged.
type StudentRepository struct {
	pool *Pool
}

// NewStudentRepository wires a repository to the connection pool.
func NewStudentRepository(pool *Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, name, email, lessons_signed_up, lesson_rate_hkd,
	last_invoice_month, next_month_request, rollover_lessons, active,
	created_at, updated_at`

// CreateStudent inserts a roster entry.
func (r *StudentRepository) CreateStudent(ctx context.Context, student store.Student) (err error) {
	if student.ID == "" {
		return store.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = student.CreatedAt

	_, err = r.pool.db.ExecContext(ctx, `
		INSERT INTO students (id, name, email, lessons_signed_up, lesson_rate_hkd,
			lessons_completed, last_invoice_month, next_month_request,
			rollover_lessons, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?)`,
		student.ID,
		student.Name,
		student.Email,
		student.SignedUpLessons,
		student.CostPerLesson,
		student.LastInvoiceMonth,
		student.NextMonthRequest,
		student.RolloverLessons,
		boolToInt(student.Active),
		student.CreatedAt.Format(time.RFC3339),
		student.UpdatedAt.Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateStudent applies the non-nil patch fields to an existing record.
func (r *StudentRepository) UpdateStudent(ctx context.Context, id string, patch store.StudentPatch) error {
	assignments := make([]string, 0, 8)
	args := make([]any, 0, 9)

	appendSet := func(column string, value any) {
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		appendSet("name", *patch.Name)
	}
	if patch.Email != nil {
		appendSet("email", *patch.Email)
	}
	if patch.SignedUpLessons != nil {
		appendSet("lessons_signed_up", *patch.SignedUpLessons)
	}
	if patch.CostPerLesson != nil {
		appendSet("lesson_rate_hkd", *patch.CostPerLesson)
	}
	if patch.LastInvoiceMonth != nil {
		appendSet("last_invoice_month", *patch.LastInvoiceMonth)
	}
	if patch.NextMonthRequest != nil {
		appendSet("next_month_request", *patch.NextMonthRequest)
	}
	if patch.RolloverLessons != nil {
		appendSet("rollover_lessons", *patch.RolloverLessons)
	}
	if patch.Active != nil {
		appendSet("active", boolToInt(*patch.Active))
	}

	if len(assignments) == 0 {
		_, err := r.GetStudent(ctx, id)
		return err
	}

	appendSet("updated_at", time.Now().UTC().Format(time.RFC3339))
	args = append(args, id)

	res, err := r.pool.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE students SET %s WHERE id = ?", strings.Join(assignments, ", ")),
		args...,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetStudent retrieves one roster entry by id.
func (r *StudentRepository) GetStudent(ctx context.Context, id string) (store.Student, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id = ?", id)
	student, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Student{}, store.ErrNotFound
		}
		return store.Student{}, mapError(err)
	}
	return student, nil
}

// ListStudents returns the full roster ordered by creation time.
func (r *StudentRepository) ListStudents(ctx context.Context) ([]store.Student, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY created_at, id")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	students := make([]store.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return students, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (store.Student, error) {
	var (
		student              store.Student
		active               int
		createdAt, updatedAt string
	)
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.SignedUpLessons,
		&student.CostPerLesson,
		&student.LastInvoiceMonth,
		&student.NextMonthRequest,
		&student.RolloverLessons,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return store.Student{}, err
	}
	student.Active = active != 0
	student.CreatedAt = parseStoredTime(createdAt)
	student.UpdatedAt = parseStoredTime(updatedAt)
	return student, nil
}

func parseStoredTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
