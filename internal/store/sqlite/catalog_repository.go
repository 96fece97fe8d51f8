package sqlite

import (
	"context"
	"time"

	"github.com/example/tutoring-dashboard/internal/store"
)

// CatalogRepository stores the teacher and classroom picker entries shown on
// the scheduler form.
type CatalogRepository struct {
	pool *Pool
}

// NewCatalogRepository wires a repository to the connection pool.
func NewCatalogRepository(pool *Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// CreateTeacher inserts a teacher catalog entry.
func (r *CatalogRepository) CreateTeacher(ctx context.Context, teacher store.Teacher) error {
	if teacher.ID == "" {
		return store.ErrConstraintViolation
	}
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.db.ExecContext(ctx,
		"INSERT INTO teachers (id, name, created_at) VALUES (?, ?, ?)",
		teacher.ID, teacher.Name, teacher.CreatedAt.Format(time.RFC3339))
	return mapError(err)
}

// ListTeachers returns all teacher entries ordered by name.
func (r *CatalogRepository) ListTeachers(ctx context.Context) ([]store.Teacher, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM teachers ORDER BY name, id")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	teachers := make([]store.Teacher, 0)
	for rows.Next() {
		var (
			teacher   store.Teacher
			createdAt string
		)
		if err := rows.Scan(&teacher.ID, &teacher.Name, &createdAt); err != nil {
			return nil, err
		}
		teacher.CreatedAt = parseStoredTime(createdAt)
		teachers = append(teachers, teacher)
	}
	return teachers, rows.Err()
}

// CreateClassroom inserts a classroom catalog entry.
func (r *CatalogRepository) CreateClassroom(ctx context.Context, classroom store.Classroom) error {
	if classroom.ID == "" {
		return store.ErrConstraintViolation
	}
	if classroom.CreatedAt.IsZero() {
		classroom.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.db.ExecContext(ctx,
		"INSERT INTO classrooms (id, classroom_id, created_at) VALUES (?, ?, ?)",
		classroom.ID, classroom.ClassroomID, classroom.CreatedAt.Format(time.RFC3339))
	return mapError(err)
}

// ListClassrooms returns all classroom entries ordered by label.
func (r *CatalogRepository) ListClassrooms(ctx context.Context) ([]store.Classroom, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT id, classroom_id, created_at FROM classrooms ORDER BY classroom_id, id")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	classrooms := make([]store.Classroom, 0)
	for rows.Next() {
		var (
			classroom store.Classroom
			createdAt string
		)
		if err := rows.Scan(&classroom.ID, &classroom.ClassroomID, &createdAt); err != nil {
			return nil, err
		}
		classroom.CreatedAt = parseStoredTime(createdAt)
		classrooms = append(classrooms, classroom)
	}
	return classrooms, rows.Err()
}
