package models

// ScheduleEntry is a committed one-slot assignment of a course to its teacher.
type ScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Day       Weekday   `db:"day" json:"day"`
	StartTime ClockTime `db:"start_time" json:"start_time"`
	EndTime   ClockTime `db:"end_time" json:"end_time"`
	Name      string    `db:"schedule_name" json:"schedule_name"`
}

// Window returns the entry's time range.
func (e ScheduleEntry) Window() TimeWindow {
	return TimeWindow{Start: e.StartTime, End: e.EndTime}
}
