package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/internal/models"
	appErrors "github.com/horarios/sgh-api/pkg/errors"
)

func newExportSchool() *school {
	s := newSchool()
	s.teach("ts1", "t1", "Ana Pérez", "sub1", "Matemáticas")
	s.course("c1", "6A", "ts1")
	s.course("c2", "6B", "ts1")
	s.schedules.entries = []models.ScheduleEntry{
		{CourseID: "c1", TeacherID: "t1", Day: models.Martes, StartTime: models.MustClockTime("10:00"), EndTime: models.MustClockTime("11:00"), Name: "6A - Matemáticas"},
		{CourseID: "c1", TeacherID: "t1", Day: models.Lunes, StartTime: models.MustClockTime("09:00"), EndTime: models.MustClockTime("10:00"), Name: "6A - Matemáticas"},
		{CourseID: "c1", TeacherID: "t1", Day: models.Lunes, StartTime: models.MustClockTime("08:00"), EndTime: models.MustClockTime("09:00"), Name: "6A - Matemáticas"},
	}
	return s
}

func TestScheduleExportByCourseCSV(t *testing.T) {
	s := newExportSchool()
	svc := NewScheduleExportService(s.courses, s.teachers, s.schedules, zap.NewNop())

	file, err := svc.ExportByCourse(context.Background(), "c1", dto.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "horario_curso_6A.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Día,Inicio,Fin,Nombre", lines[0])
	assert.Equal(t, "Lunes,08:00,09:00,6A - Matemáticas", lines[1])
	assert.Equal(t, "Lunes,09:00,10:00,6A - Matemáticas", lines[2])
	assert.Equal(t, "Martes,10:00,11:00,6A - Matemáticas", lines[3])
}

func TestScheduleExportByTeacherDefaultsToPDF(t *testing.T) {
	s := newExportSchool()
	svc := NewScheduleExportService(s.courses, s.teachers, s.schedules, nil)

	file, err := svc.ExportByTeacher(context.Background(), "t1", "")
	require.NoError(t, err)
	assert.Equal(t, "horario_profesor_Ana_Pérez.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF"))
}

func TestScheduleExportXLSX(t *testing.T) {
	s := newExportSchool()
	svc := NewScheduleExportService(s.courses, s.teachers, s.schedules, nil)

	file, err := svc.ExportByCourse(context.Background(), "c1", "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "horario_curso_6A.xlsx", file.Filename)
	assert.NotEmpty(t, file.Body)
}

func TestScheduleExportErrors(t *testing.T) {
	s := newExportSchool()
	svc := NewScheduleExportService(s.courses, s.teachers, s.schedules, nil)
	ctx := context.Background()

	_, err := svc.ExportByCourse(ctx, "c1", "docx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.ExportByCourse(ctx, "missing", dto.ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.ExportByCourse(ctx, "c2", dto.ExportFormatCSV)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "no schedules found for course", appErrors.FromError(err).Message)

	_, err = svc.ExportByTeacher(ctx, "t9", dto.ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func newAggregateExportSchool() *school {
	s := newExportSchool()
	s.teach("ts2", "t2", "Bruno Díaz", "sub2", "Inglés")
	s.course("c3", "5A", "ts2")
	s.schedules.entries = append(s.schedules.entries,
		models.ScheduleEntry{CourseID: "c3", TeacherID: "t2", Day: models.Lunes, StartTime: models.MustClockTime("07:00"), EndTime: models.MustClockTime("08:00"), Name: "5A - Inglés"},
	)
	return s
}

func TestScheduleExportAllByCourseGroupsByCourseName(t *testing.T) {
	s := newAggregateExportSchool()
	svc := NewScheduleExportService(s.courses, s.teachers, s.schedules, nil)

	file, err := svc.ExportAllByCourse(context.Background(), dto.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "horarios_cursos.csv", file.Filename)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Curso,Día,Inicio,Fin,Nombre", lines[0])
	assert.Equal(t, "5A,Lunes,07:00,08:00,5A - Inglés", lines[1])
	assert.Equal(t, "6A,Lunes,08:00,09:00,6A - Matemáticas", lines[2])
	assert.Equal(t, "6A,Lunes,09:00,10:00,6A - Matemáticas", lines[3])
	assert.Equal(t, "6A,Martes,10:00,11:00,6A - Matemáticas", lines[4])
}

func TestScheduleExportAllByTeacherGroupsByTeacherName(t *testing.T) {
	s := newAggregateExportSchool()
	svc := NewScheduleExportService(s.courses, s.teachers, s.schedules, nil)

	file, err := svc.ExportAllByTeacher(context.Background(), dto.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "horarios_profesores.csv", file.Filename)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Profesor,Día,Inicio,Fin,Nombre", lines[0])
	assert.Equal(t, "Ana Pérez,Lunes,08:00,09:00,6A - Matemáticas", lines[1])
	assert.Equal(t, "Ana Pérez,Martes,10:00,11:00,6A - Matemáticas", lines[3])
	assert.Equal(t, "Bruno Díaz,Lunes,07:00,08:00,5A - Inglés", lines[4])

	pdf, err := svc.ExportAllByTeacher(context.Background(), dto.ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "horarios_profesores.pdf", pdf.Filename)
	assert.True(t, strings.HasPrefix(string(pdf.Body), "%PDF"))
}

func TestScheduleExportAllWithoutSchedules(t *testing.T) {
	s := newSchool()
	svc := NewScheduleExportService(s.courses, s.teachers, s.schedules, nil)

	_, err := svc.ExportAllByCourse(context.Background(), dto.ExportFormatCSV)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "no schedules found", appErrors.FromError(err).Message)

	_, err = svc.ExportAllByTeacher(context.Background(), "png")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
