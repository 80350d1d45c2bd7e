package dto

import (
	"github.com/google/uuid"

	"tutorhub/internal/domains/schedule/model"
	gDto "tutorhub/shared/dto"
	gModel "tutorhub/shared/model"
	"tutorhub/shared/timezone"
)

type CreateSlotRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime string `json:"start_time"  validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time"    validate:"required,datetime=15:04"`
}

func (c *CreateSlotRequest) ToModel(tutorID string) model.AvailabilitySlot {
	return model.AvailabilitySlot{
		ID:        uuid.NewString(),
		TutorID:   tutorID,
		DayOfWeek: *c.DayOfWeek,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  tutorID,
			ModifiedBy: tutorID,
		},
	}
}

type SlotResponse struct {
	ID        string `json:"id"`
	TutorID   string `json:"tutor_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	gDto.Metadata
}

func (r *SlotResponse) FromModel(model model.AvailabilitySlot) {
	r.ID = model.ID
	r.TutorID = model.TutorID
	r.DayOfWeek = model.DayOfWeek
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.Metadata.FromModel(model.Metadata)
}

type GetSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func (r *GetSlotsResponse) FromModels(models []model.AvailabilitySlot) {
	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod)
	}
}
