//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"tutorhub/config"
	"tutorhub/infras/jwt"
	"tutorhub/infras/kafka"
	"tutorhub/infras/otel"
	"tutorhub/infras/postgres"
	"tutorhub/infras/redis"
	"tutorhub/infras/s3"
	"tutorhub/internal/events"
	"tutorhub/permissions"
	"tutorhub/shared/cache"
	"tutorhub/transport/http"
	"tutorhub/transport/http/middleware"
	"tutorhub/transport/http/router"

	adminService "tutorhub/internal/domains/admin/service"
	authService "tutorhub/internal/domains/auth/service"
	bookingRepository "tutorhub/internal/domains/booking/repository"
	bookingService "tutorhub/internal/domains/booking/service"
	categoryRepository "tutorhub/internal/domains/category/repository"
	categoryService "tutorhub/internal/domains/category/service"
	reviewRepository "tutorhub/internal/domains/review/repository"
	reviewService "tutorhub/internal/domains/review/service"
	scheduleRepository "tutorhub/internal/domains/schedule/repository"
	scheduleService "tutorhub/internal/domains/schedule/service"
	tutorRepository "tutorhub/internal/domains/tutor/repository"
	tutorService "tutorhub/internal/domains/tutor/service"
	userRepository "tutorhub/internal/domains/user/repository"
	userService "tutorhub/internal/domains/user/service"

	adminHandler "tutorhub/internal/handlers/admin"
	authHandler "tutorhub/internal/handlers/auth"
	bookingHandler "tutorhub/internal/handlers/booking"
	categoryHandler "tutorhub/internal/handlers/category"
	reviewHandler "tutorhub/internal/handlers/review"
	scheduleHandler "tutorhub/internal/handlers/schedule"
	tutorHandler "tutorhub/internal/handlers/tutor"
	userHandler "tutorhub/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.NewPublisher,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var tutorDomain = wire.NewSet(
	tutorRepository.New,
	tutorService.New,
	scheduleRepository.New,
	scheduleService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var categoryDomain = wire.NewSet(
	categoryRepository.New,
	categoryService.New,
)

var adminDomain = wire.NewSet(
	adminService.New,
)

var domains = wire.NewSet(
	authDomain,
	tutorDomain,
	bookingDomain,
	reviewDomain,
	categoryDomain,
	adminDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	tutorHandler.New,
	scheduleHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	categoryHandler.New,
	adminHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
