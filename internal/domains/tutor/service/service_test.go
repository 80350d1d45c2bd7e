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
	s3Mocks "tutorhub/infras/s3/mocks"
	categoryMocks "tutorhub/internal/domains/category/mocks"
	categoryModel "tutorhub/internal/domains/category/model"
	scheduleMocks "tutorhub/internal/domains/schedule/mocks"
	scheduleModel "tutorhub/internal/domains/schedule/model"
	tutorMocks "tutorhub/internal/domains/tutor/mocks"
	"tutorhub/internal/domains/tutor/model"
	"tutorhub/internal/domains/tutor/model/dto"
	"tutorhub/internal/domains/tutor/service"
	userMocks "tutorhub/internal/domains/user/mocks"
	userModel "tutorhub/internal/domains/user/model"
	cacheMocks "tutorhub/shared/cache/mocks"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
)

type serviceMocks struct {
	repo       *tutorMocks.MockTutor
	users      *userMocks.MockUser
	categories *categoryMocks.MockCategory
	schedules  *scheduleMocks.MockSchedule
	cache      *cacheMocks.MockRedisCache
	s3         *s3Mocks.MockS3
}

func newService(t *testing.T) (service.Tutor, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		repo:       tutorMocks.NewMockTutor(ctrl),
		users:      userMocks.NewMockUser(ctrl),
		categories: categoryMocks.NewMockCategory(ctrl),
		schedules:  scheduleMocks.NewMockSchedule(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
		s3:         s3Mocks.NewMockS3(ctrl),
	}

	// Cache writes happen on background goroutines.
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.users, m.categories, m.schedules, cfg, m.cache, mocks.NewOtel(), m.s3)

	return svc, m
}

func tutorCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleTutor)
}

func existingProfile() model.TutorProfile {
	return model.TutorProfile{
		ID:         "profile-1",
		UserID:     "tutor-1",
		Bio:        "Ten years of algebra",
		HourlyRate: 50000,
	}
}

func TestUpsertProfile(t *testing.T) {
	t.Parallel()

	req := dto.UpsertProfileRequest{
		Bio:         "Ten years of algebra",
		HourlyRate:  50000,
		CategoryIDs: []string{"category-1", "category-2"},
	}

	t.Run("creates a profile on first save", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.categories.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.TutorProfile{}, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, profile model.TutorProfile) error {
				assert.NotEmpty(t, profile.ID)
				assert.Equal(t, "tutor-1", profile.UserID)
				assert.Equal(t, req.Bio, profile.Bio)
				assert.Equal(t, req.HourlyRate, profile.HourlyRate)

				return nil
			},
		)
		m.repo.EXPECT().ReplaceCategories(gomock.Any(), "tutor-1", req.CategoryIDs).Return(nil)

		err := svc.UpsertProfile(tutorCtx("tutor-1"), req)

		assert.NoError(t, err)
	})

	t.Run("updates an existing profile", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.categories.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingProfile(), nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.repo.EXPECT().ReplaceCategories(gomock.Any(), "tutor-1", req.CategoryIDs).Return(nil)

		err := svc.UpsertProfile(tutorCtx("tutor-1"), req)

		assert.NoError(t, err)
	})

	t.Run("rejects an unauthenticated request", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		err := svc.UpsertProfile(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("rejects non-tutors", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "student-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleStudent)

		err := svc.UpsertProfile(ctx, req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("rejects unknown categories", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.categories.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

		err := svc.UpsertProfile(tutorCtx("tutor-1"), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestGetTutor(t *testing.T) {
	t.Parallel()

	t.Run("returns the profile with categories and availability", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingProfile(), nil)
		m.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{
			ID:       "tutor-1",
			FullName: "Bob",
		}, nil)
		m.repo.EXPECT().GetCategoryIDs(gomock.Any(), "tutor-1").Return([]string{"category-1"}, nil)
		m.categories.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]categoryModel.Category{
			{ID: "category-1", Name: "Mathematics"},
		}, nil)
		m.schedules.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]scheduleModel.AvailabilitySlot{
			{ID: "slot-1", TutorID: "tutor-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
		}, nil)

		res, err := svc.Get(context.Background(), "tutor-1")

		assert.NoError(t, err)
		assert.Equal(t, "tutor-1", res.UserID)
		assert.Equal(t, "Bob", res.FullName)
		assert.Len(t, res.Categories, 1)
		assert.Len(t, res.Availability, 1)
		assert.Equal(t, "09:00", res.Availability[0].StartTime)
	})

	t.Run("returns not found for an unknown tutor", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.TutorProfile{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestGetAllTutors(t *testing.T) {
	t.Parallel()

	t.Run("returns an empty page when no name matches", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.users.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, "nobody", constant.Empty)

		assert.NoError(t, err)
		assert.Empty(t, res.Tutors)
		assert.Equal(t, 0, res.TotalData)
	})

	t.Run("lists tutors matching a category", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().GetTutorIDsByCategory(gomock.Any(), "category-1").Return([]string{"tutor-1"}, nil)
		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.TutorProfile{existingProfile()}, nil)
		m.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "tutor-1", FullName: "Bob"}, nil)
		m.repo.EXPECT().GetCategoryIDs(gomock.Any(), "tutor-1").Return(nil, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, constant.Empty, "category-1")

		assert.NoError(t, err)
		assert.Len(t, res.Tutors, 1)
		assert.Equal(t, "Bob", res.Tutors[0].FullName)
	})
}

func TestUploadAvatar(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-tutors", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "student-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleStudent)

		_, err := svc.UploadAvatar(ctx, dto.UploadAvatarRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("rejects an unauthenticated request", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		_, err := svc.UploadAvatar(context.Background(), dto.UploadAvatarRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}
