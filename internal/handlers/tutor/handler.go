package tutor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tutorhub/infras/otel"
	reviewService "tutorhub/internal/domains/review/service"
	scheduleService "tutorhub/internal/domains/schedule/service"
	"tutorhub/internal/domains/tutor/model/dto"
	"tutorhub/internal/domains/tutor/service"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/validator"
	"tutorhub/transport/http/response"
)

type Handler struct {
	service   service.Tutor
	schedules scheduleService.Schedule
	reviews   reviewService.Review
	otel      otel.Otel
}

func New(service service.Tutor, schedules scheduleService.Schedule, reviews reviewService.Review, otel otel.Otel) Handler {
	return Handler{
		service:   service,
		schedules: schedules,
		reviews:   reviews,
		otel:      otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/tutors", func(r chi.Router) {
		r.Get("/", handler.GetTutors)
		r.Get("/me", handler.GetOwnProfile)
		r.Put("/me", handler.UpsertProfile)
		r.Post("/me/avatar", handler.UploadAvatar)
		r.Get("/{id}", handler.GetTutorByID)
		r.Get("/{id}/availability", handler.GetAvailability)
		r.Get("/{id}/reviews", handler.GetReviews)
	})
}

// GetTutors lists tutors for the public directory.
// @Summary Get all tutors
// @Description Retrieve tutors with optional name search, category filter, and pagination.
// @Tags Tutor
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Filter by tutor name"
// @Param category_id query string false "Filter by category ID"
// @Success 200 {object} response.Data[dto.GetTutorsResponse] "List of tutors"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tutors [get]
func (handler *Handler) GetTutors(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTutors")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	search := r.URL.Query().Get(constant.RequestParamSearch)
	categoryID := r.URL.Query().Get(constant.RequestParamCategoryID)

	res, err := handler.service.GetAll(ctx, queryParams, search, categoryID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tutors")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tutors retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetOwnProfile returns the authenticated tutor's profile.
// @Summary Get own tutor profile
// @Description Retrieve the tutor profile of the authenticated tutor.
// @Tags Tutor
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.TutorResponse] "Tutor profile"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tutors/me [get]
// @Security BearerAuth
func (handler *Handler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnProfile")
	defer scope.End()

	res, err := handler.service.GetOwnProfile(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own tutor profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tutor profile retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// UpsertProfile creates or updates the authenticated tutor's profile.
// @Summary Upsert tutor profile
// @Description Create the tutor profile on first save, update it afterwards.
// @Tags Tutor
// @Accept json
// @Produce json
// @Param request body dto.UpsertProfileRequest true "Upsert Profile Request"
// @Success 200 {object} response.Message "Tutor profile saved successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tutors/me [put]
// @Security BearerAuth
func (handler *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpsertProfile")
	defer scope.End()

	req := dto.UpsertProfileRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpsertProfile(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to save tutor profile")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tutor profile saved successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Tutor profile saved successfully")
}

// UploadAvatar uploads the tutor's avatar image to S3.
// @Summary Upload tutor avatar
// @Description Upload an avatar image for the authenticated tutor.
// @Tags Tutor
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Avatar image"
// @Success 200 {object} response.Data[dto.UploadAvatarResponse] "Avatar uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tutors/me/avatar [post]
// @Security BearerAuth
func (handler *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadAvatar")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, err)

		return
	}
	defer file.Close()

	req := dto.UploadAvatarRequest{
		Image:     fileHeader,
		ImageFile: file,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate avatar upload")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UploadAvatar(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload avatar")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Avatar uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// GetTutorByID returns a tutor's public detail.
// @Summary Get a tutor by ID
// @Description Retrieve a tutor's profile, categories, and recurring availability.
// @Tags Tutor
// @Accept json
// @Produce json
// @Param id path string true "Tutor user ID"
// @Success 200 {object} response.Data[dto.TutorDetailResponse] "Tutor detail"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tutors/{id} [get]
func (handler *Handler) GetTutorByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTutorByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tutor by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tutor retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetAvailability resolves a tutor's bookable slots for a calendar date.
// @Summary Get tutor availability for a date
// @Description Resolve the tutor's recurring weekly slots against a calendar date. An absent date yields an empty list.
// @Tags Tutor
// @Accept json
// @Produce json
// @Param id path string true "Tutor user ID"
// @Param date query string false "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[scheduleDto.GetSlotsResponse] "Bookable slots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tutors/{id}/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	date := r.URL.Query().Get(constant.RequestParamDate)

	res, err := handler.schedules.ResolveForDate(ctx, id, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve tutor availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tutor availability resolved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetReviews lists a tutor's reviews.
// @Summary Get tutor reviews
// @Description Retrieve reviews left for a tutor with pagination.
// @Tags Tutor
// @Accept json
// @Produce json
// @Param id path string true "Tutor user ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[reviewDto.GetReviewsResponse] "List of reviews"
// @Failure 500 {object} response.Error
// @Router /v1/tutors/{id}/reviews [get]
func (handler *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviews")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.reviews.GetByTutor(ctx, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tutor reviews")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tutor reviews retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}
