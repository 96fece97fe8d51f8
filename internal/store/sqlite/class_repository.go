package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/tutoring-dashboard/internal/store"
)

// ClassRepository implements store.ClassRepository on SQLite. Recurrence
// slots and the student set live in child tables keyed by position so the
// order entered on the scheduler grid survives a round trip.
type ClassRepository struct {
	pool *Pool
}

// NewClassRepository wires a repository to the connection pool.
func NewClassRepository(pool *Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// CreateClass inserts a class definition with its recurrence slots and
// student references in one transaction.
func (r *ClassRepository) CreateClass(ctx context.Context, class store.ClassDefinition) error {
	if class.ID == "" {
		return store.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = class.CreatedAt

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO classes (id, classroom, name, teacher, start_date,
				end_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			class.ID,
			class.Classroom,
			class.Name,
			class.Teacher,
			class.StartDate,
			class.EndDate,
			class.CreatedAt.Format(time.RFC3339),
			class.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return err
		}

		for i, slot := range class.Recurrence {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO class_recurrence (class_id, position, day, time_of_day)
				VALUES (?, ?, ?, ?)`,
				class.ID, i, slot.Day, slot.Time,
			)
			if err != nil {
				return err
			}
		}

		for i, studentID := range class.StudentIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO class_students (class_id, position, student_id)
				VALUES (?, ?, ?)`,
				class.ID, i, studentID,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return mapError(err)
}

// GetClass retrieves one class definition by id.
func (r *ClassRepository) GetClass(ctx context.Context, id string) (store.ClassDefinition, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, classroom, name, teacher, start_date, end_date, created_at, updated_at
		FROM classes WHERE id = ?`, id)

	class, err := scanClass(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ClassDefinition{}, store.ErrNotFound
		}
		return store.ClassDefinition{}, mapError(err)
	}

	if err := r.loadChildren(ctx, &class); err != nil {
		return store.ClassDefinition{}, err
	}
	return class, nil
}

// ListClasses returns every class definition ordered by creation time.
func (r *ClassRepository) ListClasses(ctx context.Context) ([]store.ClassDefinition, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, classroom, name, teacher, start_date, end_date, created_at, updated_at
		FROM classes ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	classes := make([]store.ClassDefinition, 0)
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range classes {
		if err := r.loadChildren(ctx, &classes[i]); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

func (r *ClassRepository) loadChildren(ctx context.Context, class *store.ClassDefinition) error {
	slotRows, err := r.pool.db.QueryContext(ctx, `
		SELECT day, time_of_day FROM class_recurrence
		WHERE class_id = ? ORDER BY position`, class.ID)
	if err != nil {
		return mapError(err)
	}
	defer slotRows.Close()

	class.Recurrence = make([]store.Slot, 0)
	for slotRows.Next() {
		var slot store.Slot
		if err := slotRows.Scan(&slot.Day, &slot.Time); err != nil {
			return err
		}
		class.Recurrence = append(class.Recurrence, slot)
	}
	if err := slotRows.Err(); err != nil {
		return mapError(err)
	}

	studentRows, err := r.pool.db.QueryContext(ctx, `
		SELECT student_id FROM class_students
		WHERE class_id = ? ORDER BY position`, class.ID)
	if err != nil {
		return mapError(err)
	}
	defer studentRows.Close()

	class.StudentIDs = make([]string, 0)
	for studentRows.Next() {
		var studentID string
		if err := studentRows.Scan(&studentID); err != nil {
			return err
		}
		class.StudentIDs = append(class.StudentIDs, studentID)
	}
	return studentRows.Err()
}

func scanClass(row rowScanner) (store.ClassDefinition, error) {
	var (
		class                store.ClassDefinition
		createdAt, updatedAt string
	)
	err := row.Scan(
		&class.ID,
		&class.Classroom,
		&class.Name,
		&class.Teacher,
		&class.StartDate,
		&class.EndDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return store.ClassDefinition{}, err
	}
	class.CreatedAt = parseStoredTime(createdAt)
	class.UpdatedAt = parseStoredTime(updatedAt)
	return class, nil
}
