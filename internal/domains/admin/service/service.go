package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tutorhub/config"
	"tutorhub/infras/otel"
	"tutorhub/internal/domains/admin/model/dto"
	bookingModel "tutorhub/internal/domains/booking/model"
	bookingRepo "tutorhub/internal/domains/booking/repository"
	categoryRepo "tutorhub/internal/domains/category/repository"
	userModel "tutorhub/internal/domains/user/model"
	userRepo "tutorhub/internal/domains/user/repository"
	"tutorhub/shared"
	"tutorhub/shared/cache"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
)

const cacheDashboard = "admin:dashboard"

type Admin interface {
	GetDashboard(ctx context.Context) (dto.DashboardResponse, error)
}

type serviceImpl struct {
	userRepo     userRepo.User
	bookingRepo  bookingRepo.Booking
	categoryRepo categoryRepo.Category
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	userRepo userRepo.User,
	bookingRepo bookingRepo.Booking,
	categoryRepo categoryRepo.Category,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Admin {
	return &serviceImpl{
		userRepo:     userRepo,
		bookingRepo:  bookingRepo,
		categoryRepo: categoryRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// GetDashboard aggregates platform-wide counts for the admin overview.
func (s *serviceImpl) GetDashboard(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetDashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleAdmin {
		return res, failure.Forbidden("only admins can view the dashboard") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheDashboard)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for dashboard")

		return res, nil
	}

	if res.TotalUsers, err = s.userRepo.Count(ctx, gDto.FilterGroup{}); err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	if res.TotalStudents, err = s.userRepo.Count(ctx, roleFilter(constant.RoleStudent)); err != nil {
		log.Error().Err(err).Msg("failed to count students")

		return res, fmt.Errorf("failed to count students: %w", err)
	}

	if res.TotalTutors, err = s.userRepo.Count(ctx, roleFilter(constant.RoleTutor)); err != nil {
		log.Error().Err(err).Msg("failed to count tutors")

		return res, fmt.Errorf("failed to count tutors: %w", err)
	}

	if res.TotalBookings, err = s.bookingRepo.Count(ctx, gDto.FilterGroup{}); err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	if res.ConfirmedBookings, err = s.bookingRepo.Count(ctx, statusFilter(constant.BookingStatusConfirmed)); err != nil {
		log.Error().Err(err).Msg("failed to count confirmed bookings")

		return res, fmt.Errorf("failed to count confirmed bookings: %w", err)
	}

	if res.CompletedBookings, err = s.bookingRepo.Count(ctx, statusFilter(constant.BookingStatusCompleted)); err != nil {
		log.Error().Err(err).Msg("failed to count completed bookings")

		return res, fmt.Errorf("failed to count completed bookings: %w", err)
	}

	if res.CancelledBookings, err = s.bookingRepo.Count(ctx, statusFilter(constant.BookingStatusCancelled)); err != nil {
		log.Error().Err(err).Msg("failed to count cancelled bookings")

		return res, fmt.Errorf("failed to count cancelled bookings: %w", err)
	}

	if res.TotalCategories, err = s.categoryRepo.Count(ctx, gDto.FilterGroup{}); err != nil {
		log.Error().Err(err).Msg("failed to count categories")

		return res, fmt.Errorf("failed to count categories: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard to cache")
		}
	}()

	return res, nil
}

func roleFilter(role string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldRole,
				Value:    role,
				Operator: gDto.FilterOperatorEq,
				Table:    userModel.TableName,
			},
		},
	}
}

func statusFilter(status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    status,
				Operator: gDto.FilterOperatorEq,
				Table:    bookingModel.TableName,
			},
		},
	}
}
