package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/horarios/sgh-api/internal/models"
)

const slotDuration = time.Hour

// periodWeekdays returns the distinct teaching days in [start, end], in order of
// first appearance. Weekends are skipped.
func periodWeekdays(start, end time.Time) []models.Weekday {
	seen := make(map[models.Weekday]bool, len(models.Weekdays))
	days := make([]models.Weekday, 0, len(models.Weekdays))
	for d := start; !d.After(end) && len(days) < len(models.Weekdays); d = d.AddDate(0, 0, 1) {
		day, ok := models.WeekdayFromDate(d)
		if !ok || seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	return days
}

// enumerateSlots splits a window into consecutive slots of the given length.
// Slots that would spill past the window end are not emitted, so an inverted or
// short window yields nothing.
func enumerateSlots(window models.TimeWindow, length time.Duration) []models.TimeWindow {
	if length <= 0 {
		return nil
	}
	var slots []models.TimeWindow
	for t := window.Start; t.Add(length) <= window.End; t = t.Add(length) {
		slots = append(slots, models.TimeWindow{Start: t, End: t.Add(length)})
	}
	return slots
}

// bookings is a run's view of teacher schedules: persisted rows, loaded once per
// teacher, plus the entries created earlier in the same run.
type bookings struct {
	reader    scheduleReader
	persisted map[string][]models.ScheduleEntry
	pending   []models.ScheduleEntry
}

func newBookings(reader scheduleReader) *bookings {
	return &bookings{reader: reader, persisted: make(map[string][]models.ScheduleEntry)}
}

func (b *bookings) persistedFor(ctx context.Context, teacherID string) ([]models.ScheduleEntry, error) {
	if entries, ok := b.persisted[teacherID]; ok {
		return entries, nil
	}
	entries, err := b.reader.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	b.persisted[teacherID] = entries
	return entries, nil
}

// hasConflict reports whether slot overlaps any persisted or pending entry of the
// teacher on day.
func (b *bookings) hasConflict(ctx context.Context, slot models.TimeWindow, teacherID string, day models.Weekday) (bool, error) {
	persisted, err := b.persistedFor(ctx, teacherID)
	if err != nil {
		return false, err
	}
	for _, group := range [][]models.ScheduleEntry{persisted, b.pending} {
		for _, entry := range group {
			if entry.TeacherID == teacherID && entry.Day == day && slot.Overlaps(entry.Window()) {
				return true, nil
			}
		}
	}
	return false, nil
}

// hasPersistedOn reports whether the teacher holds any stored entry on day.
// Pending entries are ignored so dry and live runs classify alike.
func (b *bookings) hasPersistedOn(ctx context.Context, teacherID string, day models.Weekday) (bool, error) {
	persisted, err := b.persistedFor(ctx, teacherID)
	if err != nil {
		return false, err
	}
	for _, entry := range persisted {
		if entry.Day == day {
			return true, nil
		}
	}
	return false, nil
}

func (b *bookings) add(entry models.ScheduleEntry) {
	b.pending = append(b.pending, entry)
}

type availabilityKey struct {
	teacherID string
	day       models.Weekday
}

// availabilityLookup memoises availability rows for the duration of a run.
// A missing row is cached as nil.
type availabilityLookup struct {
	reader availabilityReader
	rows   map[availabilityKey]*models.TeacherAvailability
}

func newAvailabilityLookup(reader availabilityReader) *availabilityLookup {
	return &availabilityLookup{reader: reader, rows: make(map[availabilityKey]*models.TeacherAvailability)}
}

func (l *availabilityLookup) forDay(ctx context.Context, teacherID string, day models.Weekday) (*models.TeacherAvailability, error) {
	key := availabilityKey{teacherID: teacherID, day: day}
	if row, ok := l.rows[key]; ok {
		return row, nil
	}
	row, err := l.reader.FindByTeacherAndDay(ctx, teacherID, day)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load availability for %s on %s: %w", teacherID, day, err)
		}
		row = nil
	}
	l.rows[key] = row
	return row, nil
}
