package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/internal/models"
	appErrors "github.com/horarios/sgh-api/pkg/errors"
	"github.com/horarios/sgh-api/pkg/export"
)

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type exportTarget struct {
	renderer    datasetRenderer
	contentType string
}

var timetableHeaders = []string{"Día", "Inicio", "Fin", "Nombre"}

type exportScheduleReader interface {
	scheduleReader
	ListByCourse(ctx context.Context, courseID string) ([]models.ScheduleEntry, error)
	ListAll(ctx context.Context) ([]models.ScheduleEntry, error)
}

type exportTeacherReader interface {
	teacherReader
	List(ctx context.Context) ([]models.Teacher, error)
}

// ScheduleExportService renders stored timetables for download.
type ScheduleExportService struct {
	courses   courseReader
	teachers  exportTeacherReader
	schedules exportScheduleReader
	targets   map[dto.ExportFormat]exportTarget
	logger    *zap.Logger
}

// NewScheduleExportService wires the PDF, XLSX and CSV renderers.
func NewScheduleExportService(courses courseReader, teachers exportTeacherReader, schedules exportScheduleReader, logger *zap.Logger) *ScheduleExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleExportService{
		courses:   courses,
		teachers:  teachers,
		schedules: schedules,
		targets: map[dto.ExportFormat]exportTarget{
			dto.ExportFormatPDF:   {renderer: export.NewPDFExporter(), contentType: "application/pdf"},
			dto.ExportFormatExcel: {renderer: export.NewExcelExporter(), contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
			dto.ExportFormatCSV:   {renderer: export.NewCSVExporter(), contentType: "text/csv; charset=utf-8"},
		},
		logger: logger,
	}
}

// ExportByCourse renders the timetable of one course.
func (s *ScheduleExportService) ExportByCourse(ctx context.Context, courseID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	target, err := s.target(format)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	entries, err := s.schedules.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course schedules")
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedules found for course")
	}
	sortEntries(entries)
	return s.render(target, format, "Horario del curso "+course.Name, "horario_curso_"+course.Name, timetableHeaders, timetableRows(entries))
}

// ExportByTeacher renders the timetable of one teacher across courses.
func (s *ScheduleExportService) ExportByTeacher(ctx context.Context, teacherID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	target, err := s.target(format)
	if err != nil {
		return nil, err
	}
	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	entries, err := s.schedules.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher schedules")
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedules found for teacher")
	}
	sortEntries(entries)
	return s.render(target, format, "Horario del profesor "+teacher.Name, "horario_profesor_"+teacher.Name, timetableHeaders, timetableRows(entries))
}

// ExportAllByCourse renders every stored entry in one document grouped by course.
func (s *ScheduleExportService) ExportAllByCourse(ctx context.Context, format dto.ExportFormat) (*dto.ExportFile, error) {
	target, err := s.target(format)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	names := make(map[string]string, len(courses))
	for _, course := range courses {
		names[course.ID] = course.Name
	}
	entries, err := s.allEntries(ctx)
	if err != nil {
		return nil, err
	}
	rows := groupedRows("Curso", entries, func(entry models.ScheduleEntry) string {
		if name, ok := names[entry.CourseID]; ok {
			return name
		}
		return entry.CourseID
	})
	return s.render(target, format, "Horarios de todos los cursos", "horarios_cursos", append([]string{"Curso"}, timetableHeaders...), rows)
}

// ExportAllByTeacher renders every stored entry in one document grouped by teacher.
func (s *ScheduleExportService) ExportAllByTeacher(ctx context.Context, format dto.ExportFormat) (*dto.ExportFile, error) {
	target, err := s.target(format)
	if err != nil {
		return nil, err
	}
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	names := make(map[string]string, len(teachers))
	for _, teacher := range teachers {
		names[teacher.ID] = teacher.Name
	}
	entries, err := s.allEntries(ctx)
	if err != nil {
		return nil, err
	}
	rows := groupedRows("Profesor", entries, func(entry models.ScheduleEntry) string {
		if name, ok := names[entry.TeacherID]; ok {
			return name
		}
		return entry.TeacherID
	})
	return s.render(target, format, "Horarios de todos los profesores", "horarios_profesores", append([]string{"Profesor"}, timetableHeaders...), rows)
}

func (s *ScheduleExportService) allEntries(ctx context.Context) ([]models.ScheduleEntry, error) {
	entries, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedules found")
	}
	return entries, nil
}

func (s *ScheduleExportService) target(format dto.ExportFormat) (exportTarget, error) {
	if format == "" {
		format = dto.ExportFormatPDF
	}
	target, ok := s.targets[dto.ExportFormat(strings.ToLower(string(format)))]
	if !ok {
		return exportTarget{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	return target, nil
}

func (s *ScheduleExportService) render(target exportTarget, format dto.ExportFormat, title, baseName string, headers []string, rows []map[string]string) (*dto.ExportFile, error) {
	body, err := target.renderer.Render(export.Dataset{Title: title, Headers: headers, Rows: rows})
	if err != nil {
		s.logger.Error("failed to render timetable", zap.String("title", title), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	ext := strings.ToLower(string(format))
	if ext == "" {
		ext = string(dto.ExportFormatPDF)
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s.%s", safeFilename(baseName), ext),
		ContentType: target.contentType,
		Body:        body,
	}, nil
}

func timetableRow(entry models.ScheduleEntry) map[string]string {
	return map[string]string{
		"Día":    string(entry.Day),
		"Inicio": entry.StartTime.String(),
		"Fin":    entry.EndTime.String(),
		"Nombre": entry.Name,
	}
}

func timetableRows(entries []models.ScheduleEntry) []map[string]string {
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, timetableRow(entry))
	}
	return rows
}

// groupedRows orders by group name, then weekday, then start time.
func groupedRows(column string, entries []models.ScheduleEntry, groupOf func(models.ScheduleEntry) string) []map[string]string {
	sortEntries(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return groupOf(entries[i]) < groupOf(entries[j])
	})
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		row := timetableRow(entry)
		row[column] = groupOf(entry)
		rows = append(rows, row)
	}
	return rows
}

// sortEntries orders by weekday then start time.
func sortEntries(entries []models.ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Day.Ordinal(), entries[j].Day.Ordinal()
		if di != dj {
			return di < dj
		}
		return entries[i].StartTime < entries[j].StartTime
	})
}

func safeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		default:
			return -1
		}
	}, name)
}
