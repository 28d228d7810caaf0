package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clock(raw string) *ClockTime {
	c := MustClockTime(raw)
	return &c
}

func TestTeacherAvailabilityWindows(t *testing.T) {
	full := &TeacherAvailability{AMStart: clock("08:00"), AMEnd: clock("12:00"), PMStart: clock("14:00"), PMEnd: clock("16:00")}
	assert.True(t, full.HasValidSchedule())
	assert.Equal(t, []TimeWindow{
		{Start: MustClockTime("08:00"), End: MustClockTime("12:00")},
		{Start: MustClockTime("14:00"), End: MustClockTime("16:00")},
	}, full.Windows())

	pmOnly := &TeacherAvailability{AMStart: clock("08:00"), PMStart: clock("14:00"), PMEnd: clock("15:00")}
	assert.True(t, pmOnly.HasValidSchedule())
	assert.Len(t, pmOnly.Windows(), 1)

	halfOpen := &TeacherAvailability{AMStart: clock("08:00"), PMEnd: clock("15:00")}
	assert.False(t, halfOpen.HasValidSchedule())

	var missing *TeacherAvailability
	assert.False(t, missing.HasValidSchedule())
}

func TestTimeWindowOverlaps(t *testing.T) {
	nine := TimeWindow{Start: MustClockTime("09:00"), End: MustClockTime("10:00")}
	assert.True(t, nine.Overlaps(TimeWindow{Start: MustClockTime("09:30"), End: MustClockTime("10:30")}))
	assert.False(t, nine.Overlaps(TimeWindow{Start: MustClockTime("10:00"), End: MustClockTime("11:00")}))
	assert.False(t, nine.Overlaps(TimeWindow{Start: MustClockTime("08:00"), End: MustClockTime("09:00")}))
}

func TestWeekdayOrdinal(t *testing.T) {
	assert.Equal(t, 0, Lunes.Ordinal())
	assert.Equal(t, 4, Viernes.Ordinal())
	assert.False(t, Weekday("Sábado").Valid())
}
