package dto

import (
	"tutorhub/internal/domains/user/model"
	"tutorhub/shared"
	gDto "tutorhub/shared/dto"
)

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	FullName     string  `json:"full_name"`
	ProfileImage *string `json:"profile_image"`
	Banned       bool    `json:"banned"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Role = model.Role
	r.FullName = model.FullName
	r.ProfileImage = model.ProfileImage
	r.Banned = model.Banned
	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UpdateProfileRequest struct {
	FullName     string `db:"full_name"    json:"full_name"     validate:"omitempty,max=100"`
	ProfileImage string `db:"profile_image" json:"profile_image" validate:"omitempty,max=255"`
}

type SetBanRequest struct {
	Banned *bool `json:"banned" validate:"required"`
}
