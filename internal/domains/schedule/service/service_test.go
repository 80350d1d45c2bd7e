package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tutorhub/config"
	"tutorhub/infras/otel/mocks"
	scheduleMocks "tutorhub/internal/domains/schedule/mocks"
	"tutorhub/internal/domains/schedule/model"
	"tutorhub/internal/domains/schedule/model/dto"
	"tutorhub/internal/domains/schedule/service"
	cacheMocks "tutorhub/shared/cache/mocks"
	"tutorhub/shared/constant"
	"tutorhub/shared/failure"
)

func intPtr(v int) *int {
	return &v
}

func tutorCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestScheduleService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockSchedule(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateSlotRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			ctx:  tutorCtx("tutor-1", constant.RoleTutor),
			req: dto.CreateSlotRequest{
				DayOfWeek: intPtr(1),
				StartTime: "09:00",
				EndTime:   "12:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilitySlot{}, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "unauthenticated caller is rejected before any repository call",
			ctx:  context.Background(),
			req: dto.CreateSlotRequest{
				DayOfWeek: intPtr(1),
				StartTime: "09:00",
				EndTime:   "12:00",
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  401,
		},
		{
			name: "student role is rejected",
			ctx:  tutorCtx("student-1", constant.RoleStudent),
			req: dto.CreateSlotRequest{
				DayOfWeek: intPtr(1),
				StartTime: "09:00",
				EndTime:   "12:00",
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  403,
		},
		{
			name: "start time must precede end time",
			ctx:  tutorCtx("tutor-1", constant.RoleTutor),
			req: dto.CreateSlotRequest{
				DayOfWeek: intPtr(1),
				StartTime: "12:00",
				EndTime:   "09:00",
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "overlapping slot on the same day is rejected",
			ctx:  tutorCtx("tutor-1", constant.RoleTutor),
			req: dto.CreateSlotRequest{
				DayOfWeek: intPtr(1),
				StartTime: "10:00",
				EndTime:   "13:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilitySlot{
						{ID: "existing", TutorID: "tutor-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
					}, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "same window on another day is allowed",
			ctx:  tutorCtx("tutor-1", constant.RoleTutor),
			req: dto.CreateSlotRequest{
				DayOfWeek: intPtr(2),
				StartTime: "09:00",
				EndTime:   "12:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilitySlot{
						{ID: "existing", TutorID: "tutor-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
					}, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "repository error",
			ctx:  tutorCtx("tutor-1", constant.RoleTutor),
			req: dto.CreateSlotRequest{
				DayOfWeek: intPtr(1),
				StartTime: "09:00",
				EndTime:   "12:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilitySlot{}, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(tt.ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleService_ResolveForDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockSchedule(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	slots := []model.AvailabilitySlot{
		{ID: "a", TutorID: "tutor-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		{ID: "b", TutorID: "tutor-1", DayOfWeek: 3, StartTime: "13:00", EndTime: "15:00"},
	}

	tests := []struct {
		name      string
		date      string
		setupMock func()
		wantErr   bool
		wantIDs   []string
	}{
		{
			name: "monday resolves monday slots",
			date: "2025-06-02",
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(slots, nil)
			},
			wantIDs: []string{"a"},
		},
		{
			name: "tuesday with no declared slots resolves empty",
			date: "2025-06-03",
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(slots, nil)
			},
			wantIDs: []string{},
		},
		{
			name: "missing date resolves empty",
			date: "",
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(slots, nil)
			},
			wantIDs: []string{},
		},
		{
			name:      "malformed date is rejected",
			date:      "02-06-2025",
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.ResolveForDate(context.Background(), "tutor-1", tt.date)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)

			gotIDs := make([]string, len(res.Slots))
			for i, slot := range res.Slots {
				gotIDs[i] = slot.ID
			}

			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestScheduleService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockSchedule(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	ownSlot := model.AvailabilitySlot{ID: "slot-1", TutorID: "tutor-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "owner deletes own slot",
			ctx:  tutorCtx("tutor-1", constant.RoleTutor),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownSlot, nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "admin deletes any slot",
			ctx:  tutorCtx("admin-1", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownSlot, nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "another tutor cannot delete the slot",
			ctx:  tutorCtx("tutor-2", constant.RoleTutor),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownSlot, nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name: "slot not found",
			ctx:  tutorCtx("tutor-1", constant.RoleTutor),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.AvailabilitySlot{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(tt.ctx, "slot-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
