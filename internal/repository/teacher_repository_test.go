package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "teacher_name", "photo_file_name", "photo_content_type"}).
		AddRow("t1", "Ana", nil, nil).
		AddRow("t2", "Luis", "luis.png", "image/png")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_name, photo_file_name, photo_content_type FROM teachers ORDER BY teacher_name ASC")).
		WillReturnRows(rows)

	teachers, err := NewTeacherRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "Ana", teachers[0].Name)
	require.NotNil(t, teachers[1].PhotoFileName)
	assert.Equal(t, "luis.png", *teachers[1].PhotoFileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := NewTeacherRepository(db).FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
