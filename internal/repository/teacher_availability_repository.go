package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/horarios/sgh-api/internal/models"
)

// TeacherAvailabilityRepository reads weekly availability rows.
type TeacherAvailabilityRepository struct {
	db *sqlx.DB
}

// NewTeacherAvailabilityRepository constructs the repository.
func NewTeacherAvailabilityRepository(db *sqlx.DB) *TeacherAvailabilityRepository {
	return &TeacherAvailabilityRepository{db: db}
}

// FindByTeacherAndDay returns the teacher's row for the weekday, or sql.ErrNoRows.
func (r *TeacherAvailabilityRepository) FindByTeacherAndDay(ctx context.Context, teacherID string, day models.Weekday) (*models.TeacherAvailability, error) {
	const query = `SELECT id, teacher_id, day, am_start, am_end, pm_start, pm_end
FROM teacher_availability WHERE teacher_id = $1 AND day = $2`
	var availability models.TeacherAvailability
	if err := r.db.GetContext(ctx, &availability, query, teacherID, day); err != nil {
		return nil, err
	}
	return &availability, nil
}
