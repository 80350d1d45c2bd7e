package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tutorhub/config"
	"tutorhub/infras/otel"
	bookingModel "tutorhub/internal/domains/booking/model"
	bookingRepo "tutorhub/internal/domains/booking/repository"
	"tutorhub/internal/domains/review/model"
	"tutorhub/internal/domains/review/model/dto"
	"tutorhub/internal/domains/review/repository"
	tutorModel "tutorhub/internal/domains/tutor/model"
	tutorRepo "tutorhub/internal/domains/tutor/repository"
	"tutorhub/shared"
	"tutorhub/shared/cache"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
)

const (
	cacheGetAllReview = "review:gets"
	cacheGetAllTutor  = "tutor:gets"
)

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetByTutor(ctx context.Context, tutorID string, req gDto.QueryParams) (dto.GetReviewsResponse, error)
}

type serviceImpl struct {
	repo        repository.Review
	bookingRepo bookingRepo.Booking
	tutorRepo   tutorRepo.Tutor
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Review,
	bookingRepo bookingRepo.Booking,
	tutorRepo tutorRepo.Tutor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Review {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		tutorRepo:   tutorRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create records a review for a completed booking. Only the student who
// attended the session may review it, and only once. The tutor's aggregate
// rating is recalculated on every accepted review.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateReview")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("authentication required to review a session") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleStudent {
		return res, failure.Forbidden("only students can review sessions") // nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.StudentID != userID {
		return res, failure.Forbidden("only the student who booked the session can review it") // nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusCompleted {
		return res, failure.Conflict(fmt.Sprintf("only completed sessions can be reviewed, booking is %s", booking.Status)) // nolint:wrapcheck
	}

	reviewed, err := s.repo.Exist(ctx, bookingFilter(req.BookingID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing review")

		return res, fmt.Errorf("failed to check existing review: %w", err)
	}

	if reviewed {
		return res, failure.Conflict("booking has already been reviewed") // nolint:wrapcheck
	}

	review := req.ToModel(userID, booking.TutorID)

	if err = s.repo.Insert(ctx, review); err != nil {
		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	if err = s.updateTutorRating(ctx, booking.TutorID, review.Rating); err != nil {
		return res, err
	}

	res.FromModel(review)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReview)
		shared.InvalidateCaches(c, s.cache, cacheGetAllTutor)
	}()

	return res, nil
}

func (s *serviceImpl) GetByTutor(ctx context.Context, tutorID string, req gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetReviewsByTutor")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := tutorFilter(tutorID)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReview, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(reviews, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

// updateTutorRating folds one new rating into the tutor's running average.
// The average and count live on tutor_profiles so the directory can sort and
// display them without touching the reviews table.
func (s *serviceImpl) updateTutorRating(ctx context.Context, tutorUserID string, rating int) error {
	profile, err := s.tutorRepo.Get(ctx, profileFilter(tutorUserID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutor profile")

		return fmt.Errorf("failed to get tutor profile: %w", err)
	}

	if profile.ID == constant.Empty {
		// The tutor accepted bookings without publishing a profile. Nothing
		// to aggregate onto.
		return nil
	}

	newTotal := profile.TotalReviews + 1
	newRating := (profile.Rating*float64(profile.TotalReviews) + float64(rating)) / float64(newTotal)

	updatedFields := map[string]any{
		tutorModel.FieldRating:       newRating,
		tutorModel.FieldTotalReviews: newTotal,
	}

	if err = s.tutorRepo.Update(ctx, updatedFields, profileFilter(tutorUserID)); err != nil {
		log.Error().Err(err).Msg("failed to update tutor rating")

		return fmt.Errorf("failed to update tutor rating: %w", err)
	}

	return nil
}

func bookingFilter(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Value:    bookingID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func tutorFilter(tutorID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTutorID,
				Value:    tutorID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func profileFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    tutorModel.FieldUserID,
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
				Table:    tutorModel.TableName,
			},
		},
	}
}
