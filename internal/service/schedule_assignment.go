package service

import (
	"context"
	"fmt"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/internal/models"
)

// ConfigurationError marks data that breaks a system-wide invariant. It aborts
// the whole run instead of skipping a course.
type ConfigurationError struct {
	TeacherID   string
	TeacherName string
	Bindings    int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ERROR DE CONFIGURACIÓN: El profesor %s está asociado a múltiples materias (%d). "+
		"Cada profesor debe estar asociado únicamente a UNA materia.", e.TeacherName, e.Bindings)
}

// assignmentEngine places each unscheduled course in the first free one-hour
// slot of its teacher: first weekday, then morning before afternoon, then
// earliest start. It never revisits a placed course.
type assignmentEngine struct {
	teachers     teacherReader
	subjects     subjectReader
	bindings     teacherSubjectReader
	availability *availabilityLookup
	bookings     *bookings
	analyzer     *unavailabilityAnalyzer
	days         []models.Weekday

	failures []dto.UnavailabilityRecord
}

func newAssignmentEngine(repos GenerationRepositories, days []models.Weekday) *assignmentEngine {
	availability := newAvailabilityLookup(repos.Availability)
	book := newBookings(repos.Schedules)
	return &assignmentEngine{
		teachers:     repos.Teachers,
		subjects:     repos.Subjects,
		bindings:     repos.Bindings,
		availability: availability,
		bookings:     book,
		analyzer:     &unavailabilityAnalyzer{availability: availability, bookings: book},
		days:         days,
	}
}

// created returns the entries placed so far, in placement order.
func (e *assignmentEngine) created() []models.ScheduleEntry {
	return e.bookings.pending
}

// assign tries to place one course. Unplaceable courses are recorded in
// failures; only infrastructure and configuration problems return an error.
func (e *assignmentEngine) assign(ctx context.Context, course models.Course) error {
	if !course.HasBinding() {
		e.failures = append(e.failures, noTeacherRecord(course))
		return nil
	}

	binding, teacher, err := e.resolveTeacher(ctx, course)
	if err != nil {
		return err
	}
	subject, err := e.subjects.FindByID(ctx, binding.SubjectID)
	if err != nil {
		return fmt.Errorf("load subject %s: %w", binding.SubjectID, err)
	}

	all, err := e.bindings.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return fmt.Errorf("list bindings of teacher %s: %w", teacher.ID, err)
	}
	if len(all) > 1 {
		return &ConfigurationError{TeacherID: teacher.ID, TeacherName: teacher.Name, Bindings: len(all)}
	}

	for _, day := range e.days {
		slot, found, err := e.firstFreeSlot(ctx, teacher.ID, day)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		e.bookings.add(models.ScheduleEntry{
			CourseID:  course.ID,
			TeacherID: teacher.ID,
			SubjectID: subject.ID,
			Day:       day,
			StartTime: slot.Start,
			EndTime:   slot.End,
			Name:      fmt.Sprintf("%s - %s", course.Name, subject.Name),
		})
		return nil
	}

	record, err := e.analyzer.analyze(ctx, course, teacher, e.days)
	if err != nil {
		return err
	}
	e.failures = append(e.failures, record)
	return nil
}

// simulate classifies a course without placing it.
func (e *assignmentEngine) simulate(ctx context.Context, course models.Course) error {
	if !course.HasBinding() {
		e.failures = append(e.failures, noTeacherRecord(course))
		return nil
	}
	_, teacher, err := e.resolveTeacher(ctx, course)
	if err != nil {
		return err
	}
	record, err := e.analyzer.analyze(ctx, course, teacher, e.days)
	if err != nil {
		return err
	}
	e.failures = append(e.failures, record)
	return nil
}

func (e *assignmentEngine) resolveTeacher(ctx context.Context, course models.Course) (*models.TeacherSubject, *models.Teacher, error) {
	binding, err := e.bindings.FindByID(ctx, *course.TeacherSubjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("load teacher-subject %s of course %s: %w", *course.TeacherSubjectID, course.Name, err)
	}
	teacher, err := e.teachers.FindByID(ctx, binding.TeacherID)
	if err != nil {
		return nil, nil, fmt.Errorf("load teacher %s: %w", binding.TeacherID, err)
	}
	return binding, teacher, nil
}

func (e *assignmentEngine) firstFreeSlot(ctx context.Context, teacherID string, day models.Weekday) (models.TimeWindow, bool, error) {
	avail, err := e.availability.forDay(ctx, teacherID, day)
	if err != nil {
		return models.TimeWindow{}, false, err
	}
	for _, window := range avail.Windows() {
		for _, slot := range enumerateSlots(window, slotDuration) {
			conflict, err := e.bookings.hasConflict(ctx, slot, teacherID, day)
			if err != nil {
				return models.TimeWindow{}, false, fmt.Errorf("load schedules for %s: %w", teacherID, err)
			}
			if !conflict {
				return slot, true, nil
			}
		}
	}
	return models.TimeWindow{}, false, nil
}
