package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tutorhub/infras/otel"
	"tutorhub/internal/domains/admin/service"
	userModel "tutorhub/internal/domains/user/model"
	userDto "tutorhub/internal/domains/user/model/dto"
	userService "tutorhub/internal/domains/user/service"
	"tutorhub/shared/constant"
	gDto "tutorhub/shared/dto"
	"tutorhub/shared/validator"
	"tutorhub/transport/http/response"
)

type Handler struct {
	service service.Admin
	users   userService.User
	otel    otel.Otel
}

func New(service service.Admin, users userService.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		users:   users,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/dashboard", handler.GetDashboard)
		r.Get("/users", handler.GetUsers)
		r.Patch("/users/{id}/ban", handler.SetUserBan)
	})
}

// GetDashboard returns platform-wide counts.
// @Summary Get admin dashboard
// @Description Retrieve aggregate counts of users, bookings, and categories.
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.DashboardResponse] "Dashboard counts"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	res, err := handler.service.GetDashboard(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Dashboard retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetUsers lists platform users.
// @Summary Get all users
// @Description Retrieve users with optional role filter, name search, and pagination.
// @Tags Admin
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param role query string false "Filter by role (STUDENT, TUTOR, ADMIN)"
// @Param search query string false "Filter by full name"
// @Success 200 {object} response.Data[userDto.GetUsersResponse] "List of users"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	role := r.URL.Query().Get(userModel.FieldRole)
	search := r.URL.Query().Get(constant.RequestParamSearch)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if role != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    userModel.FieldRole,
			Operator: gDto.FilterOperatorEq,
			Value:    role,
			Table:    userModel.TableName,
		})
	}

	if search != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    userModel.FieldFullName,
			Operator: gDto.FilterOperatorLike,
			Value:    search,
			Table:    userModel.TableName,
		})
	}

	res, err := handler.users.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get users")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Users retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// SetUserBan bans or unbans a user.
// @Summary Ban or unban a user
// @Description Toggle a user's banned flag. Banned users cannot log in. Admin accounts cannot be banned.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body userDto.SetBanRequest true "Set Ban Request"
// @Success 200 {object} response.Message "User ban state updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/users/{id}/ban [patch]
// @Security BearerAuth
func (handler *Handler) SetUserBan(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetUserBan")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := userDto.SetBanRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.users.SetBan(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set user ban state")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("User ban state updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "User ban state updated successfully")
}
