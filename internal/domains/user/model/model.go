package model

import (
	"time"

	"tutorhub/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID           = "id"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRole         = "role"
	FieldFullName     = "full_name"
	FieldProfileImage = "profile_image"
	FieldBanned       = "banned"
	FieldLastLogin    = "last_login"
)

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	Password     string     `db:"password"`
	Role         string     `db:"role"`
	FullName     string     `db:"full_name"`
	ProfileImage *string    `db:"profile_image"`
	Banned       bool       `db:"banned"`
	LastLogin    *time.Time `db:"last_login"`
	model.Metadata
}
