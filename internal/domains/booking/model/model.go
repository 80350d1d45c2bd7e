package model

import (
	"time"

	"tutorhub/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldTutorID   = "tutor_id"
	FieldStudentID = "student_id"
	FieldSubject   = "subject"
	FieldStartAt   = "start_at"
	FieldEndAt     = "end_at"
	FieldNotes     = "notes"
	FieldStatus    = "status"
)

type Booking struct {
	ID        string    `db:"id"`
	TutorID   string    `db:"tutor_id"`
	StudentID string    `db:"student_id"`
	Subject   string    `db:"subject"`
	StartAt   time.Time `db:"start_at"`
	EndAt     time.Time `db:"end_at"`
	Notes     string    `db:"notes"`
	Status    string    `db:"status"`
	model.Metadata
}
