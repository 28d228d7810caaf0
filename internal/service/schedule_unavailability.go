package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/internal/models"
)

// unavailabilityAnalyzer explains why a course got no slot. It only looks at
// stored entries, never at entries pending in the current run.
type unavailabilityAnalyzer struct {
	availability *availabilityLookup
	bookings     *bookings
}

func noTeacherRecord(course models.Course) dto.UnavailabilityRecord {
	return dto.UnavailabilityRecord{
		CourseID:    course.ID,
		CourseName:  course.Name,
		Reason:      dto.ReasonNoTeacherAssigned,
		Description: fmt.Sprintf("El curso %s no tiene un profesor y materia asignados", course.Name),
	}
}

// analyze applies, in order: no valid window on any day, any stored entry on
// some day, otherwise no fitting slot. The second rule is a heuristic and can
// report a conflict for a teacher who still has room on another day.
func (a *unavailabilityAnalyzer) analyze(ctx context.Context, course models.Course, teacher *models.Teacher, days []models.Weekday) (dto.UnavailabilityRecord, error) {
	teacherID, teacherName := teacher.ID, teacher.Name
	record := dto.UnavailabilityRecord{
		CourseID:    course.ID,
		CourseName:  course.Name,
		TeacherID:   &teacherID,
		TeacherName: &teacherName,
	}

	anyAvailability := false
	withoutAvailability := make([]string, 0, len(days))
	for _, day := range days {
		avail, err := a.availability.forDay(ctx, teacher.ID, day)
		if err != nil {
			return dto.UnavailabilityRecord{}, err
		}
		if avail.HasValidSchedule() {
			anyAvailability = true
			continue
		}
		withoutAvailability = append(withoutAvailability, string(day))
	}

	if !anyAvailability {
		record.Reason = dto.ReasonNoAvailabilityDefined
		record.Description = fmt.Sprintf("El profesor %s no tiene disponibilidad configurada para ningún día: %s",
			teacher.Name, strings.Join(withoutAvailability, ", "))
		return record, nil
	}

	for _, day := range days {
		booked, err := a.bookings.hasPersistedOn(ctx, teacher.ID, day)
		if err != nil {
			return dto.UnavailabilityRecord{}, fmt.Errorf("load schedules for %s: %w", teacher.ID, err)
		}
		if booked {
			record.Reason = dto.ReasonConflictsWithExisting
			record.Description = fmt.Sprintf("El profesor %s tiene conflictos de horario existentes el día %s", teacher.Name, day)
			return record, nil
		}
	}

	record.Reason = dto.ReasonNoTimeSlotsAvailable
	record.Description = fmt.Sprintf("No se encontraron espacios de tiempo disponibles para el profesor %s en los días: %s",
		teacher.Name, joinWeekdays(days))
	return record, nil
}

func joinWeekdays(days []models.Weekday) string {
	names := make([]string, len(days))
	for i, day := range days {
		names[i] = string(day)
	}
	return strings.Join(names, ", ")
}
