package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tutorhub/config"
	"tutorhub/infras/otel"
	"tutorhub/internal/domains/schedule/model"
	"tutorhub/internal/domains/schedule/model/dto"
	"tutorhub/internal/domains/schedule/repository"
	"tutorhub/shared"
	"tutorhub/shared/cache"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
	"tutorhub/shared/timezone"
)

const (
	cacheGetSlots = "schedule:gets"
)

type Schedule interface {
	Create(ctx context.Context, req dto.CreateSlotRequest) error
	GetByTutor(ctx context.Context, tutorID string) (dto.GetSlotsResponse, error)
	ResolveForDate(ctx context.Context, tutorID, date string) (dto.GetSlotsResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Schedule
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Schedule, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Schedule {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSlotRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateSlot")
	defer scope.End()
	defer scope.TraceIfError(err)

	tutorID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if tutorID == constant.Empty {
		return failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleTutor {
		return failure.Forbidden("only tutors can declare availability") // nolint:wrapcheck
	}

	if req.StartTime >= req.EndTime {
		return failure.BadRequestFromString("start_time must be before end_time") // nolint:wrapcheck
	}

	slot := req.ToModel(tutorID)

	existing, err := s.slotsByTutor(ctx, tutorID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability slots")

		return fmt.Errorf("failed to get availability slots: %w", err)
	}

	for _, other := range existing {
		if slot.Overlaps(other) {
			return failure.Conflict(fmt.Sprintf(
				"slot overlaps existing availability %s-%s on the same day", other.StartTime, other.EndTime,
			)) // nolint:wrapcheck
		}
	}

	if err = s.repo.Insert(ctx, slot); err != nil {
		log.Error().Err(err).Msg("failed to create availability slot")

		return fmt.Errorf("failed to create availability slot: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetSlots, tutorID))
	}()

	return nil
}

func (s *serviceImpl) GetByTutor(ctx context.Context, tutorID string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSlotsByTutor")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSlots, tutorID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability slots")

		return res, nil
	}

	slots, err := s.slotsByTutor(ctx, tutorID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability slots")

		return res, fmt.Errorf("failed to get availability slots: %w", err)
	}

	res.FromModels(slots)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability slots to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) ResolveForDate(ctx context.Context, tutorID, date string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveSlotsForDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	var day time.Time

	if date != constant.Empty {
		day, err = timezone.Parse(constant.CalendarFormat, date)
		if err != nil {
			return res, failure.BadRequestFromString(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)) // nolint:wrapcheck
		}
	}

	slots, err := s.slotsByTutor(ctx, tutorID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability slots")

		return res, fmt.Errorf("failed to get availability slots: %w", err)
	}

	res.FromModels(model.ResolveForDate(slots, day))

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteSlot")
	defer scope.End()
	defer scope.TraceIfError(nil)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability slot")

		return fmt.Errorf("failed to get availability slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return failure.NotFound("availability slot not found") // nolint:wrapcheck
	}

	if slot.TutorID != user && role != constant.RoleAdmin {
		return failure.Forbidden("availability slot belongs to another tutor") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete availability slot")

		return fmt.Errorf("failed to delete availability slot: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetSlots, slot.TutorID))
	}()

	return nil
}

// slotsByTutor returns every slot the tutor declared, oldest first so the
// resolved ordering matches declaration order.
func (s *serviceImpl) slotsByTutor(ctx context.Context, tutorID string) ([]model.AvailabilitySlot, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTutorID,
				Value:    tutorID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	return s.repo.GetAll(ctx, params, filter)
}
