package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horarios/sgh-api/internal/models"
)

func TestScheduleRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "teacher_id", "subject_id", "day", "start_time", "end_time", "schedule_name"}).
		AddRow("e1", "c1", "t1", "s1", "Lunes", "09:00:00", "10:00:00", "6A - Matemáticas")
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE teacher_id = $1 ORDER BY start_time ASC")).
		WithArgs("t1").
		WillReturnRows(rows)

	entries, err := repo.ListByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.MustClockTime("09:00"), entries[0].StartTime)
	assert.Equal(t, models.Lunes, entries[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE course_id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	entries, err := repo.ListByCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	entries := []models.ScheduleEntry{
		{CourseID: "c1", TeacherID: "t1", SubjectID: "s1", Day: models.Lunes, StartTime: models.MustClockTime("08:00"), EndTime: models.MustClockTime("09:00"), Name: "6A - Matemáticas"},
		{CourseID: "c2", TeacherID: "t1", SubjectID: "s1", Day: models.Lunes, StartTime: models.MustClockTime("09:00"), EndTime: models.MustClockTime("10:00"), Name: "6B - Matemáticas"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules (id, course_id, teacher_id, subject_id, day, start_time, end_time, schedule_name)")).
		WithArgs(
			sqlmock.AnyArg(), "c1", "t1", "s1", "Lunes", "08:00:00", "09:00:00", "6A - Matemáticas",
			sqlmock.AnyArg(), "c2", "t1", "s1", "Lunes", "09:00:00", "10:00:00", "6B - Matemáticas",
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, entries))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkCreateEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	require.NoError(t, NewScheduleRepository(db).BulkCreateWithTx(context.Background(), nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkCreateError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO schedules").WillReturnError(errors.New("boom"))

	err := NewScheduleRepository(db).BulkCreateWithTx(context.Background(), nil, []models.ScheduleEntry{{CourseID: "c1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bulk insert schedules")
}

func TestScheduleRepositoryBulkCreateSplitsLargeBatches(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	entries := make([]models.ScheduleEntry, scheduleInsertBatch+1)
	for i := range entries {
		entries[i] = models.ScheduleEntry{CourseID: "c1", TeacherID: "t1", SubjectID: "s1", Day: "Lunes"}
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).
		WillReturnResult(sqlmock.NewResult(0, scheduleInsertBatch))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).
		WithArgs(sqlmock.AnyArg(), "c1", "t1", "s1", "Lunes", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, entries))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, entries[scheduleInsertBatch].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "course_id", "teacher_id", "subject_id", "day", "start_time", "end_time", "schedule_name"}).
		AddRow("e1", "c1", "t1", "s1", "Lunes", "08:00:00", "09:00:00", "6A - Matemáticas").
		AddRow("e2", "c2", "t2", "s2", "Martes", "08:00:00", "09:00:00", "6B - Inglés")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, teacher_id, subject_id, day, start_time, end_time, schedule_name FROM schedules ORDER BY start_time ASC")).
		WillReturnRows(rows)

	entries, err := NewScheduleRepository(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c2", entries[1].CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
