package models

// TimeWindow is a half-open [Start, End) range within a day.
type TimeWindow struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// Overlaps reports half-open overlap; touching endpoints do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && w.End > other.Start
}

// TeacherAvailability holds a teacher's morning and afternoon windows for one weekday.
type TeacherAvailability struct {
	ID        string     `db:"id" json:"id"`
	TeacherID string     `db:"teacher_id" json:"teacher_id"`
	Day       Weekday    `db:"day" json:"day"`
	AMStart   *ClockTime `db:"am_start" json:"am_start,omitempty"`
	AMEnd     *ClockTime `db:"am_end" json:"am_end,omitempty"`
	PMStart   *ClockTime `db:"pm_start" json:"pm_start,omitempty"`
	PMEnd     *ClockTime `db:"pm_end" json:"pm_end,omitempty"`
}

// HasValidSchedule is true when at least one window has both bounds set.
func (a *TeacherAvailability) HasValidSchedule() bool {
	return len(a.Windows()) > 0
}

// Windows returns the complete windows, morning first. Bounds are not checked
// for ordering.
func (a *TeacherAvailability) Windows() []TimeWindow {
	if a == nil {
		return nil
	}
	windows := make([]TimeWindow, 0, 2)
	if a.AMStart != nil && a.AMEnd != nil {
		windows = append(windows, TimeWindow{Start: *a.AMStart, End: *a.AMEnd})
	}
	if a.PMStart != nil && a.PMEnd != nil {
		windows = append(windows, TimeWindow{Start: *a.PMStart, End: *a.PMEnd})
	}
	return windows
}
