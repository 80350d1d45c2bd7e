package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tutorhub/config"
	"tutorhub/infras/otel/mocks"
	bookingModel "tutorhub/internal/domains/booking/model"
	reviewMocks "tutorhub/internal/domains/review/mocks"
	"tutorhub/internal/domains/review/model"
	"tutorhub/internal/domains/review/model/dto"
	"tutorhub/internal/domains/review/service"
	tutorModel "tutorhub/internal/domains/tutor/model"
	cacheMocks "tutorhub/shared/cache/mocks"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"

	bookingMocks "tutorhub/internal/domains/booking/mocks"
	tutorMocks "tutorhub/internal/domains/tutor/mocks"
)

type serviceMocks struct {
	repo     *reviewMocks.MockReview
	bookings *bookingMocks.MockBooking
	tutors   *tutorMocks.MockTutor
	cache    *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Review, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		repo:     reviewMocks.NewMockReview(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		tutors:   tutorMocks.NewMockTutor(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache writes happen on background goroutines.
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.bookings, m.tutors, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func userCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func completedBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:        "booking-1",
		TutorID:   "tutor-1",
		StudentID: "student-1",
		Status:    constant.BookingStatusCompleted,
	}
}

func validRequest() dto.CreateReviewRequest {
	return dto.CreateReviewRequest{
		BookingID: "booking-1",
		Rating:    4,
		Comment:   "clear explanations",
	}
}

func TestCreateReview(t *testing.T) {
	t.Run("creates review and folds rating into the tutor aggregate", func(t *testing.T) {
		svc, m := newService(t)

		m.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		var inserted model.Review

		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, review model.Review) error {
				inserted = review

				return nil
			})

		m.tutors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tutorModel.TutorProfile{
			ID:           "profile-1",
			UserID:       "tutor-1",
			Rating:       5,
			TotalReviews: 3,
		}, nil)

		m.tutors.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, 4, fields[tutorModel.FieldTotalReviews])
				assert.InDelta(t, 4.75, fields[tutorModel.FieldRating], 0.0001)

				return nil
			})

		res, err := svc.Create(userCtx("student-1", constant.RoleStudent), validRequest())

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", inserted.BookingID)
		assert.Equal(t, "tutor-1", inserted.TutorID)
		assert.Equal(t, "student-1", inserted.StudentID)
		assert.Equal(t, 4, res.Rating)
	})

	t.Run("first review sets the aggregate to the given rating", func(t *testing.T) {
		svc, m := newService(t)

		m.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		m.tutors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tutorModel.TutorProfile{
			ID:     "profile-1",
			UserID: "tutor-1",
		}, nil)

		m.tutors.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, 1, fields[tutorModel.FieldTotalReviews])
				assert.InDelta(t, 4, fields[tutorModel.FieldRating], 0.0001)

				return nil
			})

		_, err := svc.Create(userCtx("student-1", constant.RoleStudent), validRequest())

		assert.NoError(t, err)
	})

	t.Run("rejects unauthenticated caller", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(context.Background(), validRequest())

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("rejects tutor caller", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(userCtx("tutor-1", constant.RoleTutor), validRequest())

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("rejects unknown booking", func(t *testing.T) {
		svc, m := newService(t)

		m.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

		_, err := svc.Create(userCtx("student-1", constant.RoleStudent), validRequest())

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("rejects another student's booking", func(t *testing.T) {
		svc, m := newService(t)

		m.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)

		_, err := svc.Create(userCtx("student-2", constant.RoleStudent), validRequest())

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("rejects booking that is not completed", func(t *testing.T) {
		svc, m := newService(t)

		booking := completedBooking()
		booking.Status = constant.BookingStatusConfirmed

		m.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := svc.Create(userCtx("student-1", constant.RoleStudent), validRequest())

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("rejects second review of the same booking", func(t *testing.T) {
		svc, m := newService(t)

		m.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Create(userCtx("student-1", constant.RoleStudent), validRequest())

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("returns error when insert fails", func(t *testing.T) {
		svc, m := newService(t)

		m.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

		_, err := svc.Create(userCtx("student-1", constant.RoleStudent), validRequest())

		assert.Error(t, err)
	})
}

func TestGetReviewsByTutor(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	t.Run("lists reviews for a tutor", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		m.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Review{
			{ID: "review-1", TutorID: "tutor-1", Rating: 5},
			{ID: "review-2", TutorID: "tutor-1", Rating: 4},
		}, nil)

		res, err := svc.GetByTutor(context.Background(), "tutor-1", params)

		assert.NoError(t, err)
		assert.Len(t, res.Reviews, 2)
		assert.Equal(t, 2, res.TotalData)
	})

	t.Run("returns error when count fails", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("count failed"))

		_, err := svc.GetByTutor(context.Background(), "tutor-1", params)

		assert.Error(t, err)
	})
}
