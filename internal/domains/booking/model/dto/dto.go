package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorhub/internal/domains/booking/model"
	"tutorhub/shared"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	gModel "tutorhub/shared/model"
	"tutorhub/shared/timezone"
)

// CreateBookingRequest carries a student's slot selection. Date is a
// "YYYY-MM-DD" calendar date and StartTime an "HH:MM" wall-clock time; both
// are combined into absolute timestamps during validation, so completeness
// errors can name the missing fields instead of failing on a parse.
type CreateBookingRequest struct {
	TutorID   string `json:"tutor_id"   validate:"required"`
	Subject   string `json:"subject"    validate:"omitempty,max=100"`
	Date      string `json:"date"       validate:"omitempty,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"omitempty,datetime=15:04"`
	Notes     string `json:"notes"      validate:"omitempty,max=500"`
}

func (c *CreateBookingRequest) ToModel(student string, startAt, endAt time.Time) model.Booking {
	return model.Booking{
		ID:        uuid.NewString(),
		TutorID:   c.TutorID,
		StudentID: student,
		Subject:   c.Subject,
		StartAt:   startAt,
		EndAt:     endAt,
		Notes:     c.Notes,
		Status:    constant.BookingStatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  student,
			ModifiedBy: student,
		},
	}
}

type BookingResponse struct {
	ID        string `json:"id"`
	TutorID   string `json:"tutor_id"`
	StudentID string `json:"student_id"`
	Subject   string `json:"subject"`
	StartAt   string `json:"start_at"`
	EndAt     string `json:"end_at"`
	Notes     string `json:"notes"`
	Status    string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.TutorID = model.TutorID
	r.StudentID = model.StudentID
	r.Subject = model.Subject
	r.StartAt = timezone.Format(model.StartAt, constant.DateFormat)
	r.EndAt = timezone.Format(model.EndAt, constant.DateFormat)
	r.Notes = model.Notes
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
