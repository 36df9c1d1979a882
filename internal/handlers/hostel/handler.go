package hostel

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hostel/infras/otel"
	"hostel/internal/domains/hostel/model"
	"hostel/internal/domains/hostel/model/dto"
	"hostel/internal/domains/hostel/service"
	"hostel/shared"
	"hostel/shared/constant"
	"hostel/shared/failure"
	gDto "hostel/shared/dto"
	"hostel/shared/validator"
	"hostel/transport/http/response"
)

const (
	queryParamCity   = "city"
	queryParamSearch = "search"
	queryParamActive = "isActive"
)

type Handler struct {
	service service.Hostel
	otel    otel.Otel
}

func New(service service.Hostel, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/hostels", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetHostels)
		routerGroup.Post("/", handler.CreateHostel)
		routerGroup.Get("/stats", handler.GetStats)
		routerGroup.Get("/{id}", handler.GetHostelByID)
		routerGroup.Put("/{id}", handler.UpdateHostel)
		routerGroup.Put("/{id}/image", handler.UploadImage)
		routerGroup.Delete("/{id}", handler.DeleteHostel)
	})
}

// GetHostels lists hostels visible to the caller.
// @Summary List hostels
// @Description Owners only see their own hostels.
// @Tags Hostel
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param city query string false "Filter by city"
// @Param search query string false "Filter by name"
// @Param isActive query boolean false "Filter by active status"
// @Success 200 {array} dto.HostelResponse
// @Failure 401 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/hostels [get]
// @Security BearerAuth
func (handler *Handler) GetHostels(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHostels")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, false)

	query := r.URL.Query()
	filterGroup := gDto.And()

	if city := query.Get(queryParamCity); city != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCity,
			Operator: gDto.FilterOperatorLike,
			Value:    city,
			Table:    model.TableName,
		})
	}

	if search := query.Get(queryParamSearch); search != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    search,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(query.Get(queryParamActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	hostels, err := handler.service.List(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hostels")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hostels retrieved successfully")

	response.WithJSON(w, http.StatusOK, hostels)
}

// GetStats returns the occupancy aggregate over all hostels.
// @Summary Hostel statistics
// @Tags Hostel
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 403 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/hostels/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hostel stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}

// GetHostelByID retrieves a hostel by its ID.
// @Summary Get a hostel by ID
// @Tags Hostel
// @Produce json
// @Param id path string true "Hostel ID"
// @Success 200 {object} dto.HostelResponse
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/hostels/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetHostelByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHostelByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	hostel, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hostel by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, hostel)
}

// CreateHostel handles the creation of a new hostel.
// @Summary Create a new hostel
// @Description Owners always create hostels for themselves. Admins may assign an active owner.
// @Tags Hostel
// @Accept json
// @Produce json
// @Param request body dto.CreateHostelRequest true "Create Hostel Request"
// @Success 201 {object} dto.HostelResponse
// @Failure 400 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/hostels [post]
// @Security BearerAuth
func (handler *Handler) CreateHostel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateHostel")
	defer scope.End()

	req := dto.CreateHostelRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	hostel, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create hostel")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hostel created successfully")

	response.WithJSON(w, http.StatusCreated, hostel)
}

// UpdateHostel updates an existing hostel by its ID.
// @Summary Update a hostel by ID
// @Description Partial update. Owners cannot reassign ownership.
// @Tags Hostel
// @Accept json
// @Produce json
// @Param id path string true "Hostel ID"
// @Param request body dto.UpdateHostelRequest true "Update Hostel Request"
// @Success 200 {object} dto.HostelResponse
// @Failure 400 {object} response.Message
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/hostels/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateHostel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateHostel")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateHostelRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	hostel, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update hostel")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hostel updated successfully")

	response.WithJSON(w, http.StatusOK, hostel)
}

// UploadImage replaces the hostel image.
// @Summary Upload a hostel image
// @Tags Hostel
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Hostel ID"
// @Param image formData file true "Hostel image"
// @Success 200 {object} dto.HostelResponse
// @Failure 400 {object} response.Message
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/hostels/{id}/image [put]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		err = failure.BadRequest(err)
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	req := dto.UploadImageRequest{}

	file, fileHeader, err := r.FormFile(constant.FormFileImage)
	if err == nil {
		req.Image = *fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	hostel, err := handler.service.UploadImage(ctx, id, req.ImageFile, &req.Image)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload hostel image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hostel image uploaded successfully")

	response.WithJSON(w, http.StatusOK, hostel)
}

// DeleteHostel deletes a hostel and all of its rooms.
// @Summary Delete a hostel by ID
// @Tags Hostel
// @Produce json
// @Param id path string true "Hostel ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Message
// @Failure 404 {object} response.Message
// @Failure 500 {object} response.Message
// @Router /api/hostels/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteHostel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteHostel")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(constant.RequestParamID, id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete hostel")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hostel deleted successfully")

	response.WithMessage(w, http.StatusOK, "Hostel deleted successfully")
}
