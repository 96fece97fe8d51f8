// Package feed is the application's sole conduit to the persistent store. It
// layers live subscriptions over the repositories: every view registers a
// listener for the collections it renders, receives the current full set
// immediately, and receives the full set again after every successful write.
// Views never hold authoritative state; they recompute from the snapshots
// this package pushes at them.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/tutoring-dashboard/internal/store"
)

// PersistenceError wraps a rejected write so callers can surface a uniform
// "failed to X" alert without inspecting the cause.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Unsubscribe releases a listener registration. It is safe to call more than
// once; calls after the first are no-ops.
type Unsubscribe func()

// Feed owns the listener registries for all collections.
type Feed struct {
	students store.StudentRepository
	checkIns store.CheckInRepository
	classes  store.ClassRepository
	catalog  store.CatalogRepository

	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	mu            sync.Mutex
	nextID        uint64
	studentSubs   map[uint64]func([]store.Student)
	checkInSubs   map[uint64]func([]store.CheckIn)
	classSubs     map[uint64]func([]store.ClassDefinition)
	teacherSubs   map[uint64]func([]store.Teacher)
	classroomSubs map[uint64]func([]store.Classroom)
}

// New wires a feed over the repositories. idGenerator assigns document ids on
// create; now stamps check-in timestamps when the caller omits one.
func New(students store.StudentRepository, checkIns store.CheckInRepository, classes store.ClassRepository, catalog store.CatalogRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *Feed {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		students:      students,
		checkIns:      checkIns,
		classes:       classes,
		catalog:       catalog,
		idGenerator:   idGenerator,
		now:           now,
		logger:        logger,
		studentSubs:   make(map[uint64]func([]store.Student)),
		checkInSubs:   make(map[uint64]func([]store.CheckIn)),
		classSubs:     make(map[uint64]func([]store.ClassDefinition)),
		teacherSubs:   make(map[uint64]func([]store.Teacher)),
		classroomSubs: make(map[uint64]func([]store.Classroom)),
	}
}

// SubscribeStudents registers a listener for the student collection and
// immediately delivers the current set. The listener fires again after every
// successful student write. An empty collection delivers an empty slice.
func (f *Feed) SubscribeStudents(ctx context.Context, onChange func([]store.Student)) Unsubscribe {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.studentSubs[id] = onChange
	f.mu.Unlock()

	f.emitStudents(ctx, onChange)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.studentSubs, id)
			f.mu.Unlock()
		})
	}
}

// SubscribeCheckIns registers a listener for the check-in collection.
func (f *Feed) SubscribeCheckIns(ctx context.Context, onChange func([]store.CheckIn)) Unsubscribe {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.checkInSubs[id] = onChange
	f.mu.Unlock()

	f.emitCheckIns(ctx, onChange)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.checkInSubs, id)
			f.mu.Unlock()
		})
	}
}

// SubscribeClasses registers a listener for the class-definition collection.
func (f *Feed) SubscribeClasses(ctx context.Context, onChange func([]store.ClassDefinition)) Unsubscribe {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.classSubs[id] = onChange
	f.mu.Unlock()

	f.emitClasses(ctx, onChange)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.classSubs, id)
			f.mu.Unlock()
		})
	}
}

// SubscribeTeachers registers a listener for the teacher catalog.
func (f *Feed) SubscribeTeachers(ctx context.Context, onChange func([]store.Teacher)) Unsubscribe {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.teacherSubs[id] = onChange
	f.mu.Unlock()

	if teachers, err := f.catalog.ListTeachers(ctx); err != nil {
		f.logger.Error("teacher subscription snapshot failed", "error", err)
	} else {
		onChange(teachers)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.teacherSubs, id)
			f.mu.Unlock()
		})
	}
}

// SubscribeClassrooms registers a listener for the classroom catalog.
func (f *Feed) SubscribeClassrooms(ctx context.Context, onChange func([]store.Classroom)) Unsubscribe {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.classroomSubs[id] = onChange
	f.mu.Unlock()

	if classrooms, err := f.catalog.ListClassrooms(ctx); err != nil {
		f.logger.Error("classroom subscription snapshot failed", "error", err)
	} else {
		onChange(classrooms)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.classroomSubs, id)
			f.mu.Unlock()
		})
	}
}

// AddStudent creates a roster entry and notifies student listeners.
func (f *Feed) AddStudent(ctx context.Context, student store.Student) (store.Student, error) {
	student.ID = f.idGenerator()
	student.Active = true
	if err := f.students.CreateStudent(ctx, student); err != nil {
		return store.Student{}, &PersistenceError{Op: "add student", Err: err}
	}
	f.broadcastStudents(ctx)
	return student, nil
}

// UpdateStudent patches a roster entry and notifies student listeners.
func (f *Feed) UpdateStudent(ctx context.Context, id string, patch store.StudentPatch) error {
	if err := f.students.UpdateStudent(ctx, id, patch); err != nil {
		return &PersistenceError{Op: "update student", Err: err}
	}
	f.broadcastStudents(ctx)
	return nil
}

// AddCheckIn creates a check-in and notifies check-in listeners. The
// timestamp defaults to now and the classroom label to empty when omitted;
// new check-ins are always visible.
func (f *Feed) AddCheckIn(ctx context.Context, checkIn store.CheckIn) (store.CheckIn, error) {
	checkIn.ID = f.idGenerator()
	checkIn.Active = true
	if checkIn.Timestamp == 0 {
		checkIn.Timestamp = f.now().UnixMilli()
	}
	if err := f.checkIns.CreateCheckIn(ctx, checkIn); err != nil {
		return store.CheckIn{}, &PersistenceError{Op: "add check-in", Err: err}
	}
	f.broadcastCheckIns(ctx)
	return checkIn, nil
}

// UpdateCheckIn patches a check-in and notifies check-in listeners.
func (f *Feed) UpdateCheckIn(ctx context.Context, id string, patch store.CheckInPatch) error {
	if err := f.checkIns.UpdateCheckIn(ctx, id, patch); err != nil {
		return &PersistenceError{Op: "update check-in", Err: err}
	}
	f.broadcastCheckIns(ctx)
	return nil
}

// AddClass creates a class definition and notifies class listeners.
func (f *Feed) AddClass(ctx context.Context, class store.ClassDefinition) (store.ClassDefinition, error) {
	class.ID = f.idGenerator()
	if err := f.classes.CreateClass(ctx, class); err != nil {
		return store.ClassDefinition{}, &PersistenceError{Op: "create class", Err: err}
	}
	f.broadcastClasses(ctx)
	return class, nil
}

// AddTeacher creates a teacher catalog entry and notifies teacher listeners.
func (f *Feed) AddTeacher(ctx context.Context, teacher store.Teacher) (store.Teacher, error) {
	teacher.ID = f.idGenerator()
	if err := f.catalog.CreateTeacher(ctx, teacher); err != nil {
		return store.Teacher{}, &PersistenceError{Op: "add teacher", Err: err}
	}
	f.broadcastTeachers(ctx)
	return teacher, nil
}

// AddClassroom creates a classroom catalog entry and notifies classroom
// listeners.
func (f *Feed) AddClassroom(ctx context.Context, classroom store.Classroom) (store.Classroom, error) {
	classroom.ID = f.idGenerator()
	if err := f.catalog.CreateClassroom(ctx, classroom); err != nil {
		return store.Classroom{}, &PersistenceError{Op: "add classroom", Err: err}
	}
	f.broadcastClassrooms(ctx)
	return classroom, nil
}

func (f *Feed) emitStudents(ctx context.Context, onChange func([]store.Student)) {
	students, err := f.students.ListStudents(ctx)
	if err != nil {
		// Listener stays stale until the next successful write refresh.
		f.logger.Error("student subscription snapshot failed", "error", err)
		return
	}
	onChange(students)
}

func (f *Feed) emitCheckIns(ctx context.Context, onChange func([]store.CheckIn)) {
	checkIns, err := f.checkIns.ListCheckIns(ctx)
	if err != nil {
		f.logger.Error("check-in subscription snapshot failed", "error", err)
		return
	}
	onChange(checkIns)
}

func (f *Feed) emitClasses(ctx context.Context, onChange func([]store.ClassDefinition)) {
	classes, err := f.classes.ListClasses(ctx)
	if err != nil {
		f.logger.Error("class subscription snapshot failed", "error", err)
		return
	}
	onChange(classes)
}

func (f *Feed) broadcastStudents(ctx context.Context) {
	listeners := f.snapshotStudentSubs()
	if len(listeners) == 0 {
		return
	}
	students, err := f.students.ListStudents(ctx)
	if err != nil {
		f.logger.Error("student broadcast snapshot failed", "error", err)
		return
	}
	for _, listener := range listeners {
		listener(students)
	}
}

func (f *Feed) broadcastCheckIns(ctx context.Context) {
	listeners := f.snapshotCheckInSubs()
	if len(listeners) == 0 {
		return
	}
	checkIns, err := f.checkIns.ListCheckIns(ctx)
	if err != nil {
		f.logger.Error("check-in broadcast snapshot failed", "error", err)
		return
	}
	for _, listener := range listeners {
		listener(checkIns)
	}
}

func (f *Feed) broadcastClasses(ctx context.Context) {
	listeners := f.snapshotClassSubs()
	if len(listeners) == 0 {
		return
	}
	classes, err := f.classes.ListClasses(ctx)
	if err != nil {
		f.logger.Error("class broadcast snapshot failed", "error", err)
		return
	}
	for _, listener := range listeners {
		listener(classes)
	}
}

func (f *Feed) broadcastTeachers(ctx context.Context) {
	f.mu.Lock()
	listeners := make([]func([]store.Teacher), 0, len(f.teacherSubs))
	for _, listener := range f.teacherSubs {
		listeners = append(listeners, listener)
	}
	f.mu.Unlock()
	if len(listeners) == 0 {
		return
	}
	teachers, err := f.catalog.ListTeachers(ctx)
	if err != nil {
		f.logger.Error("teacher broadcast snapshot failed", "error", err)
		return
	}
	for _, listener := range listeners {
		listener(teachers)
	}
}

func (f *Feed) broadcastClassrooms(ctx context.Context) {
	f.mu.Lock()
	listeners := make([]func([]store.Classroom), 0, len(f.classroomSubs))
	for _, listener := range f.classroomSubs {
		listeners = append(listeners, listener)
	}
	f.mu.Unlock()
	if len(listeners) == 0 {
		return
	}
	classrooms, err := f.catalog.ListClassrooms(ctx)
	if err != nil {
		f.logger.Error("classroom broadcast snapshot failed", "error", err)
		return
	}
	for _, listener := range listeners {
		listener(classrooms)
	}
}

func (f *Feed) snapshotStudentSubs() []func([]store.Student) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listeners := make([]func([]store.Student), 0, len(f.studentSubs))
	for _, listener := range f.studentSubs {
		listeners = append(listeners, listener)
	}
	return listeners
}

func (f *Feed) snapshotCheckInSubs() []func([]store.CheckIn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listeners := make([]func([]store.CheckIn), 0, len(f.checkInSubs))
	for _, listener := range f.checkInSubs {
		listeners = append(listeners, listener)
	}
	return listeners
}

func (f *Feed) snapshotClassSubs() []func([]store.ClassDefinition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listeners := make([]func([]store.ClassDefinition), 0, len(f.classSubs))
	for _, listener := range f.classSubs {
		listeners = append(listeners, listener)
	}
	return listeners
}
