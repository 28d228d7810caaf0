package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/pkg/response"
)

type scheduleExporter interface {
	ExportByCourse(ctx context.Context, courseID string, format dto.ExportFormat) (*dto.ExportFile, error)
	ExportByTeacher(ctx context.Context, teacherID string, format dto.ExportFormat) (*dto.ExportFile, error)
	ExportAllByCourse(ctx context.Context, format dto.ExportFormat) (*dto.ExportFile, error)
	ExportAllByTeacher(ctx context.Context, format dto.ExportFormat) (*dto.ExportFile, error)
}

// ScheduleExportHandler streams timetables as downloadable files.
type ScheduleExportHandler struct {
	service scheduleExporter
}

// NewScheduleExportHandler constructs the handler.
func NewScheduleExportHandler(svc scheduleExporter) *ScheduleExportHandler {
	return &ScheduleExportHandler{service: svc}
}

// ByCourse godoc
// @Summary Export a course timetable
// @Tags Schedules
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param format query string false "pdf, xlsx or csv" default(pdf)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /schedules/export/course/{id} [get]
func (h *ScheduleExportHandler) ByCourse(c *gin.Context) {
	file, err := h.service.ExportByCourse(c.Request.Context(), c.Param("id"), dto.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// ByTeacher godoc
// @Summary Export a teacher timetable
// @Tags Schedules
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Param format query string false "pdf, xlsx or csv" default(pdf)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /schedules/export/teacher/{id} [get]
func (h *ScheduleExportHandler) ByTeacher(c *gin.Context) {
	file, err := h.service.ExportByTeacher(c.Request.Context(), c.Param("id"), dto.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// AllCourses godoc
// @Summary Export every course timetable in one document
// @Tags Schedules
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "pdf, xlsx or csv" default(pdf)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /schedules/export/courses [get]
func (h *ScheduleExportHandler) AllCourses(c *gin.Context) {
	h.attach(c, h.service.ExportAllByCourse)
}

// AllTeachers godoc
// @Summary Export every teacher timetable in one document
// @Tags Schedules
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "pdf, xlsx or csv" default(pdf)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /schedules/export/teachers [get]
func (h *ScheduleExportHandler) AllTeachers(c *gin.Context) {
	h.attach(c, h.service.ExportAllByTeacher)
}

func (h *ScheduleExportHandler) attach(c *gin.Context, export func(context.Context, dto.ExportFormat) (*dto.ExportFile, error)) {
	file, err := export(c.Request.Context(), dto.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
