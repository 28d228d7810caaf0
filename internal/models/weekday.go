package models

import "time"

// Weekday is a teaching day. Weekends have no mapping.
type Weekday string

const (
	Lunes     Weekday = "Lunes"
	Martes    Weekday = "Martes"
	Miercoles Weekday = "Miércoles"
	Jueves    Weekday = "Jueves"
	Viernes   Weekday = "Viernes"
)

// Weekdays lists the teaching days in calendar order.
var Weekdays = []Weekday{Lunes, Martes, Miercoles, Jueves, Viernes}

// WeekdayFromDate maps a calendar date to its teaching day; ok is false on weekends.
func WeekdayFromDate(d time.Time) (Weekday, bool) {
	switch d.Weekday() {
	case time.Monday:
		return Lunes, true
	case time.Tuesday:
		return Martes, true
	case time.Wednesday:
		return Miercoles, true
	case time.Thursday:
		return Jueves, true
	case time.Friday:
		return Viernes, true
	default:
		return "", false
	}
}

// Ordinal returns the position of the day within the week, or -1 when unknown.
func (w Weekday) Ordinal() int {
	for i, day := range Weekdays {
		if day == w {
			return i
		}
	}
	return -1
}

// Valid reports whether w is one of the five teaching days.
func (w Weekday) Valid() bool {
	return w.Ordinal() >= 0
}
