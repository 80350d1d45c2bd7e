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
	userMocks "tutorhub/internal/domains/user/mocks"
	"tutorhub/internal/domains/user/model"
	"tutorhub/internal/domains/user/model/dto"
	"tutorhub/internal/domains/user/service"
	cacheMocks "tutorhub/shared/cache/mocks"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
)

type serviceMocks struct {
	repo  *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.User, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		repo:  userMocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache writes happen on background goroutines.
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func userCtx(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func boolPtr(v bool) *bool {
	return &v
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	t.Run("returns the authenticated user", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{
			ID:       "user-1",
			Email:    "alice@example.com",
			FullName: "Alice",
			Role:     constant.RoleStudent,
		}, nil)

		res, err := svc.GetProfile(userCtx("user-1"))

		assert.NoError(t, err)
		assert.Equal(t, "user-1", res.ID)
		assert.Equal(t, "alice@example.com", res.Email)
	})

	t.Run("rejects an unauthenticated request", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		_, err := svc.GetProfile(context.Background())

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("updates the changed fields", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Alice Smith", fields[model.FieldFullName])

				return nil
			},
		)

		err := svc.UpdateProfile(userCtx("user-1"), dto.UpdateProfileRequest{FullName: "Alice Smith"})

		assert.NoError(t, err)
	})

	t.Run("rejects an empty request", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		err := svc.UpdateProfile(userCtx("user-1"), dto.UpdateProfileRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestSetBan(t *testing.T) {
	t.Parallel()

	t.Run("bans a student", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{
			ID:   "user-1",
			Role: constant.RoleStudent,
		}, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, true, fields[model.FieldBanned])
				assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

				return nil
			},
		)

		err := svc.SetBan(userCtx("admin-1"), dto.SetBanRequest{Banned: boolPtr(true)}, "user-1")

		assert.NoError(t, err)
	})

	t.Run("unbans a tutor", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{
			ID:     "user-2",
			Role:   constant.RoleTutor,
			Banned: true,
		}, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, false, fields[model.FieldBanned])

				return nil
			},
		)

		err := svc.SetBan(userCtx("admin-1"), dto.SetBanRequest{Banned: boolPtr(false)}, "user-2")

		assert.NoError(t, err)
	})

	t.Run("returns not found for an unknown user", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		err := svc.SetBan(userCtx("admin-1"), dto.SetBanRequest{Banned: boolPtr(true)}, "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("refuses to ban an admin", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{
			ID:   "admin-2",
			Role: constant.RoleAdmin,
		}, nil)

		err := svc.SetBan(userCtx("admin-1"), dto.SetBanRequest{Banned: boolPtr(true)}, "admin-2")

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}
