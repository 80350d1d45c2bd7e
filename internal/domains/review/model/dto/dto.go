package dto

import (
	"github.com/google/uuid"

	"tutorhub/internal/domains/review/model"
	"tutorhub/shared"
	gDto "tutorhub/shared/dto"
	gModel "tutorhub/shared/model"
	"tutorhub/shared/timezone"
)

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string `json:"comment"    validate:"omitempty,max=1000"`
}

func (c *CreateReviewRequest) ToModel(studentID, tutorID string) model.Review {
	return model.Review{
		ID:        uuid.NewString(),
		BookingID: c.BookingID,
		TutorID:   tutorID,
		StudentID: studentID,
		Rating:    c.Rating,
		Comment:   c.Comment,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  studentID,
			ModifiedBy: studentID,
		},
	}
}

type ReviewResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	TutorID   string `json:"tutor_id"`
	StudentID string `json:"student_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.TutorID = model.TutorID
	r.StudentID = model.StudentID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
