package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tutorhub/config"
	"tutorhub/infras/otel"
	"tutorhub/internal/domains/booking/model"
	"tutorhub/internal/domains/booking/model/dto"
	"tutorhub/internal/domains/booking/repository"
	scheduleModel "tutorhub/internal/domains/schedule/model"
	scheduleRepo "tutorhub/internal/domains/schedule/repository"
	userModel "tutorhub/internal/domains/user/model"
	userRepo "tutorhub/internal/domains/user/repository"
	"tutorhub/internal/events"
	"tutorhub/shared"
	"tutorhub/shared/cache"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
	"tutorhub/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Booking
	scheduleRepo scheduleRepo.Schedule
	userRepo     userRepo.User
	cfg          *config.Config
	cache        cache.RedisCache
	publisher    events.Publisher
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	scheduleRepo scheduleRepo.Schedule,
	userRepo userRepo.User,
	cfg *config.Config,
	cache cache.RedisCache,
	publisher events.Publisher,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		cfg:          cfg,
		cache:        cache,
		publisher:    publisher,
		otel:         otel,
	}
}

// Create validates a student's slot selection and persists the booking as
// confirmed. Checks run in a fixed order: authentication, role, field
// completeness, slot membership for the chosen date, then the overlap check
// against already-confirmed bookings.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if student == constant.Empty {
		return res, failure.Unauthorized("authentication required to book a session") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleStudent {
		return res, failure.Forbidden("only students can book sessions") // nolint:wrapcheck
	}

	if missing := missingSelectionFields(req); len(missing) > 0 {
		return res, failure.BadRequestFromString("incomplete selection: missing " + strings.Join(missing, ", ")) // nolint:wrapcheck
	}

	tutorExists, err := s.userRepo.Exist(ctx, shared.FilterByID(req.TutorID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if tutor exists")

		return res, fmt.Errorf("failed to check if tutor exists: %w", err)
	}

	if !tutorExists {
		return res, failure.NotFound("tutor not found") // nolint:wrapcheck
	}

	date, err := timezone.Parse(constant.CalendarFormat, req.Date)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date)) // nolint:wrapcheck
	}

	slots, err := s.tutorSlots(ctx, req.TutorID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tutor availability")

		return res, fmt.Errorf("failed to get tutor availability: %w", err)
	}

	offered := scheduleModel.ResolveForDate(slots, date)
	if !scheduleModel.OffersStartTime(offered, req.StartTime) {
		return res, failure.UnprocessableEntity(fmt.Sprintf(
			"tutor does not offer a %s slot on %s", req.StartTime, req.Date,
		)) // nolint:wrapcheck
	}

	startAt, endAt, err := s.sessionWindow(date, req.StartTime)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid start time %q, expected HH:MM", req.StartTime)) // nolint:wrapcheck
	}

	conflict, err := s.repo.ExistConfirmedOverlap(ctx, req.TutorID, startAt, endAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to check for conflicting bookings")

		return res, fmt.Errorf("failed to check for conflicting bookings: %w", err)
	}

	if conflict {
		return res, failure.Conflict("tutor already has a confirmed booking for this time") // nolint:wrapcheck
	}

	booking := req.ToModel(student, startAt, endAt)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.publisher.PublishBookingEvent(c, events.BookingEvent{
			Type:      events.BookingCreated,
			BookingID: booking.ID,
			TutorID:   booking.TutorID,
			StudentID: booking.StudentID,
			StartAt:   booking.StartAt,
			EndAt:     booking.EndAt,
		}); err != nil {
			log.Error().Err(err).Msg("failed to publish booking created event")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return res, nil
}

// GetAll lists bookings visible to the caller: students see their own,
// tutors see bookings made with them, admins see everything.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	filter := bookingScopeFilter(user, role)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(nil)

	booking, err := s.visibleBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// Cancel moves a confirmed booking to cancelled. Only the student who made
// the booking or an admin may cancel it.
func (s *serviceImpl) Cancel(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(nil)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	booking, err := s.bookingByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.StudentID != user && role != constant.RoleAdmin {
		return failure.Forbidden("booking belongs to another student") // nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusConfirmed {
		return failure.Conflict(fmt.Sprintf("booking is %s, only confirmed bookings can be cancelled", booking.Status)) // nolint:wrapcheck
	}

	if err := s.transition(ctx, booking, constant.BookingStatusCancelled, user, events.BookingCancelled); err != nil {
		return err
	}

	return nil
}

// Complete moves a confirmed booking to completed. Only the tutor may mark a
// session completed, and only once the session window has ended.
func (s *serviceImpl) Complete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompleteBooking")
	defer scope.End()
	defer scope.TraceIfError(nil)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.bookingByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.TutorID != user {
		return failure.Forbidden("only the booked tutor can complete a session") // nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusConfirmed {
		return failure.Conflict(fmt.Sprintf("booking is %s, only confirmed bookings can be completed", booking.Status)) // nolint:wrapcheck
	}

	if timezone.Now().Before(booking.EndAt) {
		return failure.Conflict("session has not ended yet") // nolint:wrapcheck
	}

	if err := s.transition(ctx, booking, constant.BookingStatusCompleted, user, events.BookingCompleted); err != nil {
		return err
	}

	return nil
}

func (s *serviceImpl) transition(ctx context.Context, booking model.Booking, status, user, eventType string) error {
	updatedFields := map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	filter := shared.FilterByID(booking.ID, model.FieldID, model.TableName)

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("status", status).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.publisher.PublishBookingEvent(c, events.BookingEvent{
			Type:      eventType,
			BookingID: booking.ID,
			TutorID:   booking.TutorID,
			StudentID: booking.StudentID,
			StartAt:   booking.StartAt,
			EndAt:     booking.EndAt,
		}); err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("failed to publish booking event")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) bookingByID(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) visibleBooking(ctx context.Context, id string) (model.Booking, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	booking, err := s.bookingByID(ctx, id)
	if err != nil {
		return booking, err
	}

	if booking.StudentID != user && booking.TutorID != user && role != constant.RoleAdmin {
		return booking, failure.Forbidden("booking belongs to another user") // nolint:wrapcheck
	}

	return booking, nil
}

// sessionWindow combines the calendar date and "HH:MM" start time in the
// application timezone. The session length comes from configuration, not
// from the matched slot's end time.
func (s *serviceImpl) sessionWindow(date time.Time, startTime string) (time.Time, time.Time, error) {
	clock, err := time.Parse(constant.ClockFormat, startTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse start time: %w", err)
	}

	startAt := time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0,
		timezone.GetLocation(),
	)

	minutes := s.cfg.Booking.SessionDurationMinutes
	if minutes <= 0 {
		minutes = constant.DefaultSessionDurationMinutes
	}

	return startAt, startAt.Add(time.Duration(minutes) * time.Minute), nil
}

func (s *serviceImpl) tutorSlots(ctx context.Context, tutorID string) ([]scheduleModel.AvailabilitySlot, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    scheduleModel.FieldTutorID,
				Value:    tutorID,
				Operator: gDto.FilterOperatorEq,
				Table:    scheduleModel.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	return s.scheduleRepo.GetAll(ctx, params, filter)
}

func missingSelectionFields(req dto.CreateBookingRequest) []string {
	missing := []string{}

	if req.Date == constant.Empty {
		missing = append(missing, "date")
	}

	if req.StartTime == constant.Empty {
		missing = append(missing, "start_time")
	}

	if req.Subject == constant.Empty {
		missing = append(missing, "subject")
	}

	return missing
}

func bookingScopeFilter(user, role string) gDto.FilterGroup {
	switch role {
	case constant.RoleAdmin:
		return gDto.FilterGroup{}
	case constant.RoleTutor:
		return gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldTutorID,
					Value:    user,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		}
	default:
		return gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldStudentID,
					Value:    user,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		}
	}
}
