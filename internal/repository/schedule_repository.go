package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/horarios/sgh-api/internal/models"
)

const scheduleColumns = "id, course_id, teacher_id, subject_id, day, start_time, end_time, schedule_name"

// scheduleInsertBatch keeps each INSERT under PostgreSQL's 65535 bind parameter limit (8 per row).
const scheduleInsertBatch = 1000

// ScheduleRepository manages committed schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByCourse returns the course's entries ordered by start time. Callers sort by weekday.
func (r *ScheduleRepository) ListByCourse(ctx context.Context, courseID string) ([]models.ScheduleEntry, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE course_id = $1 ORDER BY start_time ASC"
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, courseID); err != nil {
		return nil, fmt.Errorf("list schedules by course: %w", err)
	}
	return entries, nil
}

// ListAll returns every committed entry ordered by start time.
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules ORDER BY start_time ASC"
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return entries, nil
}

// ListByTeacher returns every entry held by the teacher ordered by start time.
func (r *ScheduleRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleEntry, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE teacher_id = $1 ORDER BY start_time ASC"
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list schedules by teacher: %w", err)
	}
	return entries, nil
}

// BulkCreateWithTx inserts all entries through the provided executor, scheduleInsertBatch rows per statement.
func (r *ScheduleRepository) BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
	}

	const query = `INSERT INTO schedules (id, course_id, teacher_id, subject_id, day, start_time, end_time, schedule_name)
VALUES (:id, :course_id, :teacher_id, :subject_id, :day, :start_time, :end_time, :schedule_name)`
	target := r.exec(exec)
	for start := 0; start < len(entries); start += scheduleInsertBatch {
		end := start + scheduleInsertBatch
		if end > len(entries) {
			end = len(entries)
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, entries[start:end]); err != nil {
			return fmt.Errorf("bulk insert schedules: %w", err)
		}
	}
	return nil
}
