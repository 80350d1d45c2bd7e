package model

import "tutorhub/shared/model"

const (
	TableName  = "tutor_profiles"
	EntityName = "tutor_profile"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldBio          = "bio"
	FieldEducation    = "education"
	FieldHourlyRate   = "hourly_rate"
	FieldRating       = "rating"
	FieldTotalReviews = "total_reviews"
	FieldAvatarURL    = "avatar_url"

	CategoryTableName    = "tutor_categories"
	FieldCategoryTutorID = "tutor_id"
	FieldCategoryID      = "category_id"
)

// TutorProfile is the public-facing profile a tutor maintains on top of their
// user account. Rating and TotalReviews are maintained as an aggregate by the
// review domain.
type TutorProfile struct {
	ID           string  `db:"id"`
	UserID       string  `db:"user_id"`
	Bio          string  `db:"bio"`
	Education    string  `db:"education"`
	HourlyRate   int64   `db:"hourly_rate"`
	Rating       float64 `db:"rating"`
	TotalReviews int     `db:"total_reviews"`
	AvatarURL    *string `db:"avatar_url"`
	model.Metadata
}
