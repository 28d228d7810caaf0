package models

// Course is a group of students that needs a timetable. A course without a
// teacher-subject binding can never be scheduled.
type Course struct {
	ID               string  `db:"id" json:"id"`
	Name             string  `db:"course_name" json:"course_name"`
	TeacherSubjectID *string `db:"teacher_subject_id" json:"teacher_subject_id,omitempty"`
	GradeDirectorID  *string `db:"grade_director" json:"grade_director,omitempty"`
}

// HasBinding reports whether the course is bound to a teacher-subject pair.
func (c Course) HasBinding() bool {
	return c.TeacherSubjectID != nil && *c.TeacherSubjectID != ""
}
