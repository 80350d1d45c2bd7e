package model

import (
	"time"

	"tutorhub/shared/model"
)

const (
	TableName  = "availability_slots"
	EntityName = "availability_slot"

	FieldID        = "id"
	FieldTutorID   = "tutor_id"
	FieldDayOfWeek = "day_of_week"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
)

// AvailabilitySlot is a recurring weekly window during which a tutor accepts
// bookings. DayOfWeek follows time.Weekday numbering (Sunday=0 .. Saturday=6).
// StartTime and EndTime are zero-padded "HH:MM" wall-clock strings, so
// lexicographic comparison equals chronological comparison within a day.
type AvailabilitySlot struct {
	ID        string `db:"id"`
	TutorID   string `db:"tutor_id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	model.Metadata
}

// Overlaps reports whether two slots on the same day share any time window.
// Slots on different days never overlap.
func (s AvailabilitySlot) Overlaps(other AvailabilitySlot) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}

	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// ResolveForDate returns the subset of slots whose day-of-week matches the
// given date, preserving input order. A zero date yields no slots.
func ResolveForDate(slots []AvailabilitySlot, date time.Time) []AvailabilitySlot {
	res := []AvailabilitySlot{}

	if date.IsZero() {
		return res
	}

	day := int(date.Weekday())
	for _, slot := range slots {
		if slot.DayOfWeek == day {
			res = append(res, slot)
		}
	}

	return res
}

// OffersStartTime reports whether any of the given slots starts at the given
// "HH:MM" time.
func OffersStartTime(slots []AvailabilitySlot, startTime string) bool {
	for _, slot := range slots {
		if slot.StartTime == startTime {
			return true
		}
	}

	return false
}
