package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/internal/models"
	appErrors "github.com/horarios/sgh-api/pkg/errors"
)

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type courseRepoStub struct {
	courses []models.Course
	onList  func()
}

func (s *courseRepoStub) List(ctx context.Context) ([]models.Course, error) {
	if s.onList != nil {
		s.onList()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return s.courses, nil
}

func (s *courseRepoStub) FindByID(_ context.Context, id string) (*models.Course, error) {
	for i := range s.courses {
		if s.courses[i].ID == id {
			return &s.courses[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type scheduleRepoStub struct {
	entries      []models.ScheduleEntry
	created      []models.ScheduleEntry
	bulkCalls    int
	bulkErr      error
	teacherLoads map[string]int
}

func (s *scheduleRepoStub) ListAll(_ context.Context) ([]models.ScheduleEntry, error) {
	return append([]models.ScheduleEntry(nil), s.entries...), nil
}

func (s *scheduleRepoStub) ListByCourse(_ context.Context, courseID string) ([]models.ScheduleEntry, error) {
	var out []models.ScheduleEntry
	for _, entry := range s.entries {
		if entry.CourseID == courseID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *scheduleRepoStub) ListByTeacher(_ context.Context, teacherID string) ([]models.ScheduleEntry, error) {
	if s.teacherLoads == nil {
		s.teacherLoads = map[string]int{}
	}
	s.teacherLoads[teacherID]++
	var out []models.ScheduleEntry
	for _, entry := range s.entries {
		if entry.TeacherID == teacherID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *scheduleRepoStub) BulkCreateWithTx(_ context.Context, _ sqlx.ExtContext, entries []models.ScheduleEntry) error {
	s.bulkCalls++
	if s.bulkErr != nil {
		return s.bulkErr
	}
	for i := range entries {
		entries[i].ID = fmt.Sprintf("sched-%d", len(s.created)+1)
		s.created = append(s.created, entries[i])
	}
	return nil
}

type teacherRepoStub map[string]models.Teacher

func (s teacherRepoStub) List(_ context.Context) ([]models.Teacher, error) {
	teachers := make([]models.Teacher, 0, len(s))
	for _, teacher := range s {
		teachers = append(teachers, teacher)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].Name < teachers[j].Name })
	return teachers, nil
}

func (s teacherRepoStub) FindByID(_ context.Context, id string) (*models.Teacher, error) {
	teacher, ok := s[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &teacher, nil
}

type subjectRepoStub map[string]models.Subject

func (s subjectRepoStub) FindByID(_ context.Context, id string) (*models.Subject, error) {
	subject, ok := s[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &subject, nil
}

type bindingRepoStub map[string]models.TeacherSubject

func (s bindingRepoStub) FindByID(_ context.Context, id string) (*models.TeacherSubject, error) {
	binding, ok := s[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &binding, nil
}

func (s bindingRepoStub) ListByTeacher(_ context.Context, teacherID string) ([]models.TeacherSubject, error) {
	var out []models.TeacherSubject
	for _, binding := range s {
		if binding.TeacherID == teacherID {
			out = append(out, binding)
		}
	}
	return out, nil
}

type availabilityRepoStub struct {
	rows  map[availabilityKey]models.TeacherAvailability
	calls int
}

func (s *availabilityRepoStub) FindByTeacherAndDay(_ context.Context, teacherID string, day models.Weekday) (*models.TeacherAvailability, error) {
	s.calls++
	row, ok := s.rows[availabilityKey{teacherID: teacherID, day: day}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

type runStoreStub struct {
	calls     []string
	created   models.GenerationRun
	finalized *models.GenerationRun
	history   []models.GenerationRun
	listCalls int
}

func (s *runStoreStub) AcquireLock(_ context.Context, _ sqlx.ExtContext, key int64) error {
	s.calls = append(s.calls, fmt.Sprintf("lock:%d", key))
	return nil
}

func (s *runStoreStub) Savepoint(_ context.Context, _ sqlx.ExtContext, name string) error {
	s.calls = append(s.calls, "savepoint:"+name)
	return nil
}

func (s *runStoreStub) RollbackToSavepoint(_ context.Context, _ sqlx.ExtContext, name string) error {
	s.calls = append(s.calls, "rollback:"+name)
	return nil
}

func (s *runStoreStub) Create(_ context.Context, _ sqlx.ExtContext, run *models.GenerationRun) error {
	s.calls = append(s.calls, "create")
	run.ID = "run-1"
	run.ExecutedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.created = *run
	return nil
}

func (s *runStoreStub) Finalize(_ context.Context, _ sqlx.ExtContext, run *models.GenerationRun) error {
	s.calls = append(s.calls, "finalize")
	copied := *run
	s.finalized = &copied
	return nil
}

func (s *runStoreStub) List(_ context.Context, page, size int) ([]models.GenerationRun, int, error) {
	s.listCalls++
	return s.history, len(s.history), nil
}

type cacheRepoStub struct {
	mu       sync.Mutex
	values   map[string][]byte
	patterns []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{values: map[string][]byte{}}
}

func (s *cacheRepoStub) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(_ context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append(s.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			delete(s.values, key)
		}
	}
	return nil
}

type notifierStub struct {
	events []dto.GenerationEvent
}

func (n *notifierStub) Notify(_ context.Context, event dto.GenerationEvent) {
	n.events = append(n.events, event)
}

// school is an in-memory data set for generation runs.
type school struct {
	courses      *courseRepoStub
	schedules    *scheduleRepoStub
	teachers     teacherRepoStub
	subjects     subjectRepoStub
	bindings     bindingRepoStub
	availability *availabilityRepoStub
	runs         *runStoreStub
}

func newSchool() *school {
	return &school{
		courses:      &courseRepoStub{},
		schedules:    &scheduleRepoStub{},
		teachers:     teacherRepoStub{},
		subjects:     subjectRepoStub{},
		bindings:     bindingRepoStub{},
		availability: &availabilityRepoStub{rows: map[availabilityKey]models.TeacherAvailability{}},
		runs:         &runStoreStub{},
	}
}

func (s *school) repos() GenerationRepositories {
	return GenerationRepositories{
		Courses:      s.courses,
		Schedules:    s.schedules,
		Teachers:     s.teachers,
		Subjects:     s.subjects,
		Bindings:     s.bindings,
		Availability: s.availability,
		Runs:         s.runs,
	}
}

// teach binds teacher to subject under bindingID, creating both if needed.
func (s *school) teach(bindingID, teacherID, teacherName, subjectID, subjectName string) {
	s.teachers[teacherID] = models.Teacher{ID: teacherID, Name: teacherName}
	s.subjects[subjectID] = models.Subject{ID: subjectID, Name: subjectName}
	s.bindings[bindingID] = models.TeacherSubject{ID: bindingID, TeacherID: teacherID, SubjectID: subjectID}
}

func (s *school) course(id, name, bindingID string) {
	course := models.Course{ID: id, Name: name}
	if bindingID != "" {
		binding := bindingID
		course.TeacherSubjectID = &binding
	}
	s.courses.courses = append(s.courses.courses, course)
}

// available sets the teacher's windows on day; empty strings leave a bound unset.
func (s *school) available(teacherID string, day models.Weekday, amStart, amEnd, pmStart, pmEnd string) {
	s.availability.rows[availabilityKey{teacherID: teacherID, day: day}] = models.TeacherAvailability{
		TeacherID: teacherID,
		Day:       day,
		AMStart:   clockPtr(amStart),
		AMEnd:     clockPtr(amEnd),
		PMStart:   clockPtr(pmStart),
		PMEnd:     clockPtr(pmEnd),
	}
}

func (s *school) booked(courseID, teacherID string, day models.Weekday, start, end string) {
	s.schedules.entries = append(s.schedules.entries, models.ScheduleEntry{
		ID:        fmt.Sprintf("existing-%d", len(s.schedules.entries)+1),
		CourseID:  courseID,
		TeacherID: teacherID,
		Day:       day,
		StartTime: models.MustClockTime(start),
		EndTime:   models.MustClockTime(end),
	})
}

func clockPtr(raw string) *models.ClockTime {
	if raw == "" {
		return nil
	}
	c := models.MustClockTime(raw)
	return &c
}

func reasonsByCourse(records []dto.UnavailabilityRecord) map[string]dto.UnavailabilityReason {
	out := make(map[string]dto.UnavailabilityReason, len(records))
	for _, record := range records {
		out[record.CourseID] = record.Reason
	}
	return out
}
