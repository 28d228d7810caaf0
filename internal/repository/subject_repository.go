package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/horarios/sgh-api/internal/models"
)

// SubjectRepository reads subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByID retrieves a subject by ID.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, subject_name FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// TeacherSubjectRepository reads teacher-subject bindings.
type TeacherSubjectRepository struct {
	db *sqlx.DB
}

// NewTeacherSubjectRepository constructs a TeacherSubjectRepository.
func NewTeacherSubjectRepository(db *sqlx.DB) *TeacherSubjectRepository {
	return &TeacherSubjectRepository{db: db}
}

// FindByID retrieves a binding by ID.
func (r *TeacherSubjectRepository) FindByID(ctx context.Context, id string) (*models.TeacherSubject, error) {
	const query = `SELECT id, teacher_id, subject_id FROM teacher_subjects WHERE id = $1`
	var binding models.TeacherSubject
	if err := r.db.GetContext(ctx, &binding, query, id); err != nil {
		return nil, err
	}
	return &binding, nil
}

// ListByTeacher returns every binding that references the teacher.
func (r *TeacherSubjectRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherSubject, error) {
	const query = `SELECT id, teacher_id, subject_id FROM teacher_subjects WHERE teacher_id = $1 ORDER BY id`
	var bindings []models.TeacherSubject
	if err := r.db.SelectContext(ctx, &bindings, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	return bindings, nil
}
