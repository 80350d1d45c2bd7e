package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"tutorhub/infras/otel"
	"tutorhub/infras/postgres"
	"tutorhub/internal/domains/tutor/model"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/logger"
	gRepo "tutorhub/shared/repository"
)

type Tutor interface {
	Insert(ctx context.Context, model model.TutorProfile) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TutorProfile, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TutorProfile, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetCategoryIDs(ctx context.Context, tutorID string) ([]string, error)
	ReplaceCategories(ctx context.Context, tutorID string, categoryIDs []string) error
	GetTutorIDsByCategory(ctx context.Context, categoryID string) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.TutorProfile]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Tutor {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.TutorProfile](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetCategoryIDs(ctx context.Context, tutorID string) (ids []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tutor_profile.GetCategoryIDs")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		model.FieldCategoryID, model.CategoryTableName, model.FieldCategoryTutorID,
	)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.SelectContext(ctx, &ids, query, tutorID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get tutor categories: %w", err)
	}

	return ids, nil
}

// ReplaceCategories swaps the tutor's category set in one transaction.
func (repo *repositoryImpl) ReplaceCategories(ctx context.Context, tutorID string, categoryIDs []string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tutor_profile.ReplaceCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.ErrorWithStack(rollbackErr)
			}
		}
	}()

	deleteQuery := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		model.CategoryTableName, model.FieldCategoryTutorID,
	)

	if _, err = tx.ExecContext(ctx, deleteQuery, tutorID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to clear tutor categories: %w", err)
	}

	insertQuery := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		model.CategoryTableName, model.FieldCategoryTutorID, model.FieldCategoryID,
	)

	for _, categoryID := range categoryIDs {
		if _, err = tx.ExecContext(ctx, insertQuery, tutorID, categoryID); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to insert tutor category: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) GetTutorIDsByCategory(ctx context.Context, categoryID string) (ids []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tutor_profile.GetTutorIDsByCategory")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		model.FieldCategoryTutorID, model.CategoryTableName, model.FieldCategoryID,
	)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.SelectContext(ctx, &ids, query, categoryID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get tutors by category: %w", err)
	}

	return ids, nil
}
