package models

// Subject represents an academic subject.
type Subject struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"subject_name" json:"subject_name"`
}

// TeacherSubject binds one teacher to one subject.
type TeacherSubject struct {
	ID        string `db:"id" json:"id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}
