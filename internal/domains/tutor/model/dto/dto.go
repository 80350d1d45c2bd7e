package dto

import (
	"mime/multipart"

	"github.com/google/uuid"

	categoryDto "tutorhub/internal/domains/category/model/dto"
	scheduleDto "tutorhub/internal/domains/schedule/model/dto"
	"tutorhub/internal/domains/tutor/model"
	"tutorhub/shared"
	gDto "tutorhub/shared/dto"
	gModel "tutorhub/shared/model"
	"tutorhub/shared/timezone"
)

type UpsertProfileRequest struct {
	Bio         string   `json:"bio"          validate:"omitempty,max=1000"`
	Education   string   `json:"education"    validate:"omitempty,max=255"`
	HourlyRate  int64    `json:"hourly_rate"  validate:"required,min=0"`
	CategoryIDs []string `json:"category_ids" validate:"omitempty,dive,uuid"`
}

func (c *UpsertProfileRequest) ToModel(userID string) model.TutorProfile {
	return model.TutorProfile{
		ID:         uuid.NewString(),
		UserID:     userID,
		Bio:        c.Bio,
		Education:  c.Education,
		HourlyRate: c.HourlyRate,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

type UpdateProfileFields struct {
	Bio        string `db:"bio"`
	Education  string `db:"education"`
	HourlyRate int64  `db:"hourly_rate"`
}

type UploadAvatarRequest struct {
	Image     *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
	ImageFile multipart.File        `json:"-"`
}

type UploadAvatarResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

func (r *UploadAvatarResponse) FromModel(url, fileName string) {
	r.URL = url
	r.FileName = fileName
}

type TutorResponse struct {
	ID           string                         `json:"id"`
	UserID       string                         `json:"user_id"`
	FullName     string                         `json:"full_name"`
	Bio          string                         `json:"bio"`
	Education    string                         `json:"education"`
	HourlyRate   int64                          `json:"hourly_rate"`
	Rating       float64                        `json:"rating"`
	TotalReviews int                            `json:"total_reviews"`
	AvatarURL    *string                        `json:"avatar_url"`
	Categories   []categoryDto.CategoryResponse `json:"categories,omitempty"`
	gDto.Metadata
}

func (r *TutorResponse) FromModel(model model.TutorProfile) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Bio = model.Bio
	r.Education = model.Education
	r.HourlyRate = model.HourlyRate
	r.Rating = model.Rating
	r.TotalReviews = model.TotalReviews
	r.AvatarURL = model.AvatarURL
	r.Metadata.FromModel(model.Metadata)
}

type TutorDetailResponse struct {
	TutorResponse
	Availability []scheduleDto.SlotResponse `json:"availability"`
}

type GetTutorsResponse struct {
	Tutors    []TutorResponse `json:"tutors"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetTutorsResponse) FromModels(models []model.TutorProfile, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tutors = make([]TutorResponse, len(models))
	for i, mod := range models {
		r.Tutors[i].FromModel(mod)
	}
}
