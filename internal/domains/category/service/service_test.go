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
	categoryMocks "tutorhub/internal/domains/category/mocks"
	"tutorhub/internal/domains/category/model"
	"tutorhub/internal/domains/category/model/dto"
	"tutorhub/internal/domains/category/service"
	cacheMocks "tutorhub/shared/cache/mocks"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/failure"
)

type serviceMocks struct {
	repo  *categoryMocks.MockCategory
	cache *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Category, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		repo:  categoryMocks.NewMockCategory(ctrl),
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

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func TestCreateCategory(t *testing.T) {
	t.Parallel()

	req := dto.CreateCategoryRequest{
		Name:        "Mathematics",
		Description: "Algebra, calculus, and geometry",
	}

	t.Run("creates a category", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, category model.Category) error {
				assert.NotEmpty(t, category.ID)
				assert.Equal(t, req.Name, category.Name)
				assert.Equal(t, req.Description, category.Description)
				assert.Equal(t, "admin-1", category.CreatedBy)

				return nil
			},
		)

		err := svc.Create(adminCtx(), req)

		assert.NoError(t, err)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Create(adminCtx(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("propagates insert failures", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

		err := svc.Create(adminCtx(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestGetCategory(t *testing.T) {
	t.Parallel()

	t.Run("returns a category on cache miss", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{
			ID:   "category-1",
			Name: "Mathematics",
		}, nil)

		res, err := svc.Get(adminCtx(), "category-1")

		assert.NoError(t, err)
		assert.Equal(t, "category-1", res.ID)
		assert.Equal(t, "Mathematics", res.Name)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{}, nil)

		_, err := svc.Get(adminCtx(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestGetAllCategories(t *testing.T) {
	t.Parallel()

	t.Run("lists categories with pagination", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Category{
			{ID: "category-1", Name: "Mathematics"},
			{ID: "category-2", Name: "Physics"},
		}, nil)

		res, err := svc.GetAll(adminCtx(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Categories, 2)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("propagates count failures", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db error"))

		_, err := svc.GetAll(adminCtx(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.Error(t, err)
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Parallel()

	t.Run("updates the changed fields", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Applied Mathematics", fields[model.FieldName])
				assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

				return nil
			},
		)

		err := svc.Update(adminCtx(), dto.UpdateCategoryRequest{Name: "Applied Mathematics"}, "category-1")

		assert.NoError(t, err)
	})

	t.Run("rejects an empty request", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)

		err := svc.Update(adminCtx(), dto.UpdateCategoryRequest{}, "category-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Update(adminCtx(), dto.UpdateCategoryRequest{Name: "Physics"}, "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Parallel()

	t.Run("deletes a category", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(adminCtx(), "category-1")

		assert.NoError(t, err)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		t.Parallel()

		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Delete(adminCtx(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
