package schedule

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tutorhub/infras/otel"
	"tutorhub/internal/domains/schedule/model/dto"
	"tutorhub/internal/domains/schedule/service"
	"tutorhub/shared/constant"
	"tutorhub/shared/validator"
	"tutorhub/transport/http/response"
)

type Handler struct {
	service service.Schedule
	otel    otel.Otel
}

func New(service service.Schedule, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/schedules", func(r chi.Router) {
		r.Post("/", handler.CreateSlot)
		r.Get("/me", handler.GetOwnSlots)
		r.Delete("/{id}", handler.DeleteSlot)
	})
}

// CreateSlot adds a recurring weekly availability slot.
// @Summary Create an availability slot
// @Description Add a recurring weekly availability slot for the authenticated tutor.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotRequest true "Create Slot Request"
// @Success 201 {object} response.Message "Availability slot created successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules [post]
// @Security BearerAuth
func (handler *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlot")
	defer scope.End()

	req := dto.CreateSlotRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create availability slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Availability slot created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Availability slot created successfully")
}

// GetOwnSlots lists the authenticated tutor's recurring slots.
// @Summary Get own availability slots
// @Description Retrieve all recurring weekly slots of the authenticated tutor.
// @Tags Schedule
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.GetSlotsResponse] "List of availability slots"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/me [get]
// @Security BearerAuth
func (handler *Handler) GetOwnSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnSlots")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.GetByTutor(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteSlot removes an availability slot.
// @Summary Delete an availability slot
// @Description Delete an availability slot owned by the authenticated tutor.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Message "Availability slot deleted successfully"
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/schedules/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete availability slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Availability slot deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Availability slot deleted successfully")
}
