package dto

import "github.com/horarios/sgh-api/internal/models"

// UnavailabilityReason classifies why a course could not be scheduled.
type UnavailabilityReason string

const (
	ReasonNoTeacherAssigned     UnavailabilityReason = "NO_TEACHER_ASSIGNED"
	ReasonNoAvailabilityDefined UnavailabilityReason = "NO_AVAILABILITY_DEFINED"
	ReasonConflictsWithExisting UnavailabilityReason = "CONFLICTS_WITH_EXISTING"
	ReasonNoTimeSlotsAvailable  UnavailabilityReason = "NO_TIME_SLOTS_AVAILABLE"
)

// GenerateScheduleRequest starts a generation run over an inclusive date period.
type GenerateScheduleRequest struct {
	PeriodStart string  `json:"periodStart" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string  `json:"periodEnd" validate:"required,datetime=2006-01-02"`
	DryRun      bool    `json:"dryRun"`
	Force       bool    `json:"force"`
	Params      *string `json:"params" validate:"omitempty,max=500"`
}

// UnavailabilityRecord explains why one course was left without a slot.
// Teacher fields are null when the course has no teacher-subject binding.
type UnavailabilityRecord struct {
	CourseID    string               `json:"courseId"`
	CourseName  string               `json:"courseName"`
	TeacherID   *string              `json:"teacherId"`
	TeacherName *string              `json:"teacherName"`
	Reason      UnavailabilityReason `json:"reason"`
	Description string               `json:"description"`
}

// GenerationResult is the finalized run plus the per-course failures of this call.
type GenerationResult struct {
	models.GenerationRun
	CoursesWithoutAvailability      []UnavailabilityRecord `json:"coursesWithoutAvailability"`
	TotalCoursesWithoutAvailability int                    `json:"totalCoursesWithoutAvailability"`
}

// HistoryQuery selects a page of generation runs. Page is 1-based.
type HistoryQuery struct {
	Page int `form:"page" validate:"omitempty,min=1"`
	Size int `form:"size" validate:"omitempty,min=1,max=100"`
}

// ExportFormat names a timetable rendering.
type ExportFormat string

const (
	ExportFormatPDF   ExportFormat = "pdf"
	ExportFormatExcel ExportFormat = "xlsx"
	ExportFormatCSV   ExportFormat = "csv"
)

// ExportFile is a rendered timetable ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// GenerationEvent is published when a run is finalized.
type GenerationEvent struct {
	RunID                           string                  `json:"runId"`
	Status                          models.GenerationStatus `json:"status"`
	ExecutedBy                      string                  `json:"executedBy"`
	TotalGenerated                  int                     `json:"totalGenerated"`
	TotalCoursesWithoutAvailability int                     `json:"totalCoursesWithoutAvailability"`
	DryRun                          bool                    `json:"dryRun"`
	Message                         string                  `json:"message"`
}
