package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"tutorhub/infras/otel"
	"tutorhub/infras/postgres"
	"tutorhub/internal/domains/booking/model"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	gRepo "tutorhub/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ExistConfirmedOverlap(ctx context.Context, tutorID string, startAt, endAt time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ExistConfirmedOverlap reports whether the tutor already holds a confirmed
// booking whose window intersects [startAt, endAt).
func (repo *repositoryImpl) ExistConfirmedOverlap(ctx context.Context, tutorID string, startAt, endAt time.Time) (bool, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTutorID,
				Value:    tutorID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    constant.BookingStatusConfirmed,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "overlap_end",
				Field:    model.FieldStartAt,
				Value:    endAt,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "overlap_start",
				Field:    model.FieldEndAt,
				Value:    startAt,
				Operator: gDto.FilterOperatorGreater,
				Table:    model.TableName,
			},
		},
	}

	return repo.Exist(ctx, filter)
}
