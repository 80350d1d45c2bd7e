package model

import (
	"tutorhub/shared/model"
)

const (
	EntityName = "review"
	TableName  = "reviews"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldTutorID   = "tutor_id"
	FieldStudentID = "student_id"
	FieldRating    = "rating"
	FieldComment   = "comment"
)

// Review is a student's rating of a completed session. A booking can be
// reviewed at most once; the unique constraint on booking_id enforces it at
// the storage level.
type Review struct {
	ID        string `db:"id"`
	BookingID string `db:"booking_id"`
	TutorID   string `db:"tutor_id"`
	StudentID string `db:"student_id"`
	Rating    int    `db:"rating"`
	Comment   string `db:"comment"`
	model.Metadata
}
