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

// CheckInRepository implements store.CheckInRepository on SQLite. The active
// column is nullable; rows written before the soft-delete flag existed read
// back as active.
type CheckInRepository struct {
	pool *Pool
}

// NewCheckInRepository wires a repository to the connection pool.
func NewCheckInRepository(pool *Pool) *CheckInRepository {
	return &CheckInRepository{pool: pool}
}

const checkInColumns = `id, student_id, lesson_type, lesson_cost, timestamp_ms,
	classroom_id, active, created_at, updated_at`

// CreateCheckIn inserts a check-in record.
func (r *CheckInRepository) CreateCheckIn(ctx context.Context, checkIn store.CheckIn) error {
	if checkIn.ID == "" {
		return store.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if checkIn.CreatedAt.IsZero() {
		checkIn.CreatedAt = now
	}
	checkIn.UpdatedAt = checkIn.CreatedAt

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO checkins (id, student_id, lesson_type, lesson_cost,
			timestamp_ms, classroom_id, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		checkIn.ID,
		checkIn.StudentID,
		checkIn.LessonType,
		checkIn.LessonCost,
		checkIn.Timestamp,
		checkIn.ClassroomID,
		boolToInt(checkIn.Active),
		checkIn.CreatedAt.Format(time.RFC3339),
		checkIn.UpdatedAt.Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateCheckIn applies the non-nil patch fields to an existing record.
// Soft delete and undo go through here by patching the active flag.
func (r *CheckInRepository) UpdateCheckIn(ctx context.Context, id string, patch store.CheckInPatch) error {
	assignments := make([]string, 0, 5)
	args := make([]any, 0, 6)

	appendSet := func(column string, value any) {
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}

	if patch.LessonType != nil {
		appendSet("lesson_type", *patch.LessonType)
	}
	if patch.LessonCost != nil {
		appendSet("lesson_cost", *patch.LessonCost)
	}
	if patch.Timestamp != nil {
		appendSet("timestamp_ms", *patch.Timestamp)
	}
	if patch.ClassroomID != nil {
		appendSet("classroom_id", *patch.ClassroomID)
	}
	if patch.Active != nil {
		appendSet("active", boolToInt(*patch.Active))
	}

	if len(assignments) == 0 {
		_, err := r.GetCheckIn(ctx, id)
		return err
	}

	appendSet("updated_at", time.Now().UTC().Format(time.RFC3339))
	args = append(args, id)

	res, err := r.pool.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE checkins SET %s WHERE id = ?", strings.Join(assignments, ", ")),
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

// GetCheckIn retrieves one check-in by id.
func (r *CheckInRepository) GetCheckIn(ctx context.Context, id string) (store.CheckIn, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+checkInColumns+" FROM checkins WHERE id = ?", id)
	checkIn, err := scanCheckIn(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.CheckIn{}, store.ErrNotFound
		}
		return store.CheckIn{}, mapError(err)
	}
	return checkIn, nil
}

// ListCheckIns returns every check-in, soft-deleted rows included, ordered by
// lesson timestamp.
func (r *CheckInRepository) ListCheckIns(ctx context.Context) ([]store.CheckIn, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+checkInColumns+" FROM checkins ORDER BY timestamp_ms, id")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	checkIns := make([]store.CheckIn, 0)
	for rows.Next() {
		checkIn, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, checkIn)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return checkIns, nil
}

func scanCheckIn(row rowScanner) (store.CheckIn, error) {
	var (
		checkIn              store.CheckIn
		active               sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(
		&checkIn.ID,
		&checkIn.StudentID,
		&checkIn.LessonType,
		&checkIn.LessonCost,
		&checkIn.Timestamp,
		&checkIn.ClassroomID,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return store.CheckIn{}, err
	}
	// NULL means the flag predates soft deletion; such rows are active.
	checkIn.Active = !active.Valid || active.Int64 != 0
	checkIn.CreatedAt = parseStoredTime(createdAt)
	checkIn.UpdatedAt = parseStoredTime(updatedAt)
	return checkIn, nil
}
