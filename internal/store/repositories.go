package store

import "context"

// StudentRepository exposes roster persistence operations.
type StudentRepository interface {
	CreateStudent(ctx context.Context, student Student) error
	UpdateStudent(ctx context.Context, id string, patch StudentPatch) error
	GetStudent(ctx context.Context, id string) (Student, error)
	ListStudents(ctx context.Context) ([]Student, error)
}

// CheckInRepository exposes check-in persistence operations. Check-ins are
// never hard-deleted; the active flag is toggled through UpdateCheckIn.
type CheckInRepository interface {
	CreateCheckIn(ctx context.Context, checkIn CheckIn) error
	UpdateCheckIn(ctx context.Context, id string, patch CheckInPatch) error
	GetCheckIn(ctx context.Context, id string) (CheckIn, error)
	ListCheckIns(ctx context.Context) ([]CheckIn, error)
}

// ClassRepository stores recurring class definitions. Definitions are
// read-only after creation.
type ClassRepository interface {
	CreateClass(ctx context.Context, class ClassDefinition) error
	GetClass(ctx context.Context, id string) (ClassDefinition, error)
	ListClasses(ctx context.Context) ([]ClassDefinition, error)
}

// CatalogRepository stores the teacher and classroom picker entries.
type CatalogRepository interface {
	CreateTeacher(ctx context.Context, teacher Teacher) error
	ListTeachers(ctx context.Context) ([]Teacher, error)
	CreateClassroom(ctx context.Context, classroom Classroom) error
	ListClassrooms(ctx context.Context) ([]Classroom, error)
}
