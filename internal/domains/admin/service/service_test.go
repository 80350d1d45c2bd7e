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
	"tutorhub/internal/domains/admin/service"
	bookingMocks "tutorhub/internal/domains/booking/mocks"
	categoryMocks "tutorhub/internal/domains/category/mocks"
	userMocks "tutorhub/internal/domains/user/mocks"
	cacheMocks "tutorhub/shared/cache/mocks"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
)

type serviceMocks struct {
	users      *userMocks.MockUser
	bookings   *bookingMocks.MockBooking
	categories *categoryMocks.MockCategory
	cache      *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Admin, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		users:      userMocks.NewMockUser(ctrl),
		bookings:   bookingMocks.NewMockBooking(ctrl),
		categories: categoryMocks.NewMockCategory(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache writes happen on background goroutines.
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.users, m.bookings, m.categories, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func roleCtx(role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestGetDashboard(t *testing.T) {
	t.Parallel()

	t.Run("aggregates platform counts", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))

		gomock.InOrder(
			m.users.EXPECT().Count(gomock.Any(), gDto.FilterGroup{}).Return(12, nil),
			m.users.EXPECT().Count(gomock.Any(), gomock.Any()).Return(8, nil),
			m.users.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil),
		)
		gomock.InOrder(
			m.bookings.EXPECT().Count(gomock.Any(), gDto.FilterGroup{}).Return(20, nil),
			m.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(10, nil),
			m.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(7, nil),
			m.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil),
		)
		m.categories.EXPECT().Count(gomock.Any(), gDto.FilterGroup{}).Return(5, nil)

		res, err := svc.GetDashboard(roleCtx(constant.RoleAdmin))

		assert.NoError(t, err)
		assert.Equal(t, 12, res.TotalUsers)
		assert.Equal(t, 8, res.TotalStudents)
		assert.Equal(t, 3, res.TotalTutors)
		assert.Equal(t, 20, res.TotalBookings)
		assert.Equal(t, 10, res.ConfirmedBookings)
		assert.Equal(t, 7, res.CompletedBookings)
		assert.Equal(t, 3, res.CancelledBookings)
		assert.Equal(t, 5, res.TotalCategories)
	})

	t.Run("rejects non-admins", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		_, err := svc.GetDashboard(roleCtx(constant.RoleStudent))

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("propagates count failures", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.users.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db error"))

		_, err := svc.GetDashboard(roleCtx(constant.RoleAdmin))

		assert.Error(t, err)
	})
}
