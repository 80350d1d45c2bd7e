package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tutorhub/config"
	"tutorhub/infras/otel"
	"tutorhub/infras/s3"
	categoryModel "tutorhub/internal/domains/category/model"
	categoryDto "tutorhub/internal/domains/category/model/dto"
	categoryRepo "tutorhub/internal/domains/category/repository"
	scheduleModel "tutorhub/internal/domains/schedule/model"
	scheduleDto "tutorhub/internal/domains/schedule/model/dto"
	scheduleRepo "tutorhub/internal/domains/schedule/repository"
	"tutorhub/internal/domains/tutor/model"
	"tutorhub/internal/domains/tutor/model/dto"
	"tutorhub/internal/domains/tutor/repository"
	userModel "tutorhub/internal/domains/user/model"
	userRepo "tutorhub/internal/domains/user/repository"
	"tutorhub/shared"
	"tutorhub/shared/cache"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
)

const (
	cacheGetTutor    = "tutor:get"
	cacheGetAllTutor = "tutor:gets"
	cacheCountTutor  = "tutor:count"
)

type Tutor interface {
	UpsertProfile(ctx context.Context, req dto.UpsertProfileRequest) error
	GetOwnProfile(ctx context.Context) (dto.TutorResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, search, categoryID string) (dto.GetTutorsResponse, error)
	Get(ctx context.Context, id string) (dto.TutorDetailResponse, error)
	UploadAvatar(ctx context.Context, req dto.UploadAvatarRequest) (dto.UploadAvatarResponse, error)
}

type serviceImpl struct {
	repo         repository.Tutor
	userRepo     userRepo.User
	categoryRepo categoryRepo.Category
	scheduleRepo scheduleRepo.Schedule
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	s3           s3.S3
}

func New(
	repo repository.Tutor,
	userRepo userRepo.User,
	categoryRepo categoryRepo.Category,
	scheduleRepo scheduleRepo.Schedule,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Tutor {
	return &serviceImpl{
		repo:         repo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		scheduleRepo: scheduleRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		s3:           s3,
	}
}

// UpsertProfile creates the caller's tutor profile on first save and updates
// it afterwards. Category links are replaced wholesale.
func (s *serviceImpl) UpsertProfile(ctx context.Context, req dto.UpsertProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpsertTutorProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleTutor {
		return failure.Forbidden("only tutors can maintain a tutor profile") // nolint:wrapcheck
	}

	if err = s.validateCategories(ctx, req.CategoryIDs); err != nil {
		return err
	}

	existing, err := s.repo.Get(ctx, userIDFilter(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutor profile")

		return fmt.Errorf("failed to get tutor profile: %w", err)
	}

	profileID := existing.ID

	if existing.ID == constant.Empty {
		profile := req.ToModel(userID)
		profileID = profile.ID

		if err = s.repo.Insert(ctx, profile); err != nil {
			log.Error().Err(err).Msg("failed to create tutor profile")

			return fmt.Errorf("failed to create tutor profile: %w", err)
		}
	} else {
		fields := dto.UpdateProfileFields{
			Bio:        req.Bio,
			Education:  req.Education,
			HourlyRate: req.HourlyRate,
		}

		updatedFields := shared.TransformFields(fields, userID)
		if err = s.repo.Update(ctx, updatedFields, userIDFilter(userID)); err != nil {
			log.Error().Err(err).Msg("failed to update tutor profile")

			return fmt.Errorf("failed to update tutor profile: %w", err)
		}
	}

	if err = s.repo.ReplaceCategories(ctx, userID, req.CategoryIDs); err != nil {
		log.Error().Err(err).Msg("failed to replace tutor categories")

		return fmt.Errorf("failed to replace tutor categories: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTutor, profileID)); err != nil {
			log.Error().Err(err).Msg("failed to delete tutor from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTutor)
	}()

	return nil
}

func (s *serviceImpl) GetOwnProfile(ctx context.Context) (res dto.TutorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOwnTutorProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	profile, err := s.repo.Get(ctx, userIDFilter(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutor profile")

		return res, fmt.Errorf("failed to get tutor profile: %w", err)
	}

	if profile.ID == constant.Empty {
		return res, failure.NotFound("tutor profile not found") // nolint:wrapcheck
	}

	res.FromModel(profile)

	if err = s.decorate(ctx, &res); err != nil {
		return res, err
	}

	return res, nil
}

// GetAll lists tutor profiles for the public directory. Search matches the
// tutor's full name; categoryID narrows the list to one category.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, search, categoryID string) (res dto.GetTutorsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllTutors")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if search != constant.Empty {
		userIDs, err := s.userIDsByName(ctx, search)
		if err != nil {
			return res, err
		}

		if len(userIDs) == 0 {
			res.FromModels(nil, 0, req.Limit)

			return res, nil
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Value:    userIDs,
			Operator: gDto.FilterOperatorIn,
			Table:    model.TableName,
		})
	}

	if categoryID != constant.Empty {
		tutorIDs, err := s.repo.GetTutorIDsByCategory(ctx, categoryID)
		if err != nil {
			return res, err
		}

		if len(tutorIDs) == 0 {
			res.FromModels(nil, 0, req.Limit)

			return res, nil
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "category_user_id",
			Field:    model.FieldUserID,
			Value:    tutorIDs,
			Operator: gDto.FilterOperatorIn,
			Table:    model.TableName,
		})
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTutor, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tutors")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tutors")

		return res, fmt.Errorf("failed to count tutors: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutors")

		return res, fmt.Errorf("failed to get tutors: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	for i := range res.Tutors {
		if err = s.decorate(ctx, &res.Tutors[i]); err != nil {
			return res, err
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tutors to cache")
		}
	}()

	return res, nil
}

// Get returns a tutor's public detail: profile, categories, and the full
// recurring availability schedule. Tutors are addressed by their user ID,
// the same identifier bookings and reviews carry.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TutorDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetTutor")
	defer scope.End()
	defer scope.TraceIfError(err)

	profile, err := s.repo.Get(ctx, userIDFilter(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutor profile")

		return res, fmt.Errorf("failed to get tutor profile: %w", err)
	}

	if profile.ID == constant.Empty {
		return res, failure.NotFound("tutor not found") // nolint:wrapcheck
	}

	res.FromModel(profile)

	if err = s.decorate(ctx, &res.TutorResponse); err != nil {
		return res, err
	}

	slots, err := s.scheduleRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}, slotFilter(profile.UserID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutor availability")

		return res, fmt.Errorf("failed to get tutor availability: %w", err)
	}

	res.Availability = make([]scheduleDto.SlotResponse, len(slots))
	for i, slot := range slots {
		res.Availability[i].FromModel(slot)
	}

	return res, nil
}

func (s *serviceImpl) UploadAvatar(ctx context.Context, req dto.UploadAvatarRequest) (res dto.UploadAvatarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadAvatar")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleTutor {
		return res, failure.Forbidden("only tutors can upload an avatar") // nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName

	url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, req.Image.Filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload avatar to S3")

		return res, fmt.Errorf("failed to upload avatar to S3: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldAvatarURL: url,
	}

	if err = s.repo.Update(ctx, updatedFields, userIDFilter(userID)); err != nil {
		log.Error().Err(err).Msg("failed to update avatar url")

		return res, fmt.Errorf("failed to update avatar url: %w", err)
	}

	res.FromModel(url, req.Image.Filename)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTutor)
	}()

	return res, nil
}

// decorate fills the parts of a tutor response that live outside
// tutor_profiles: the user's full name and the linked categories.
func (s *serviceImpl) decorate(ctx context.Context, res *dto.TutorResponse) error {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(res.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutor user")

		return fmt.Errorf("failed to get tutor user: %w", err)
	}

	res.FullName = user.FullName

	categoryIDs, err := s.repo.GetCategoryIDs(ctx, res.UserID)
	if err != nil {
		return err
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	categories, err := s.categoryRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    categoryModel.FieldID,
				Value:    categoryIDs,
				Operator: gDto.FilterOperatorIn,
				Table:    categoryModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutor categories")

		return fmt.Errorf("failed to get tutor categories: %w", err)
	}

	res.Categories = make([]categoryDto.CategoryResponse, len(categories))
	for i, category := range categories {
		res.Categories[i].FromModel(category)
	}

	return nil
}

func (s *serviceImpl) validateCategories(ctx context.Context, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	count, err := s.categoryRepo.Count(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    categoryModel.FieldID,
				Value:    categoryIDs,
				Operator: gDto.FilterOperatorIn,
				Table:    categoryModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to count categories")

		return fmt.Errorf("failed to count categories: %w", err)
	}

	if count != len(categoryIDs) {
		return failure.BadRequestFromString("one or more categories do not exist") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) userIDsByName(ctx context.Context, search string) ([]string, error) {
	users, err := s.userRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldFullName,
				Value:    search,
				Operator: gDto.FilterOperatorLike,
				Table:    userModel.TableName,
			},
			gDto.Filter{
				Field:    userModel.FieldRole,
				Value:    constant.RoleTutor,
				Operator: gDto.FilterOperatorEq,
				Table:    userModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to search tutors by name")

		return nil, fmt.Errorf("failed to search tutors by name: %w", err)
	}

	ids := make([]string, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}

	return ids, nil
}

func userIDFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func slotFilter(tutorID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    scheduleModel.FieldTutorID,
				Value:    tutorID,
				Operator: gDto.FilterOperatorEq,
				Table:    scheduleModel.TableName,
			},
		},
	}
}
