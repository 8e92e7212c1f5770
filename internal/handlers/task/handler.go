package task

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/task/model"
	"innkeep/internal/domains/task/model/dto"
	"innkeep/internal/domains/task/service"
	"innkeep/shared/constant"
	"innkeep/shared/daterange"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Task
	otel    otel.Otel
}

func New(service service.Task, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tasks", func(routerGroup chi.Router) {
		routerGroup.Post("/generate", handler.Generate)
		routerGroup.Get("/available", handler.ListAvailable)
		routerGroup.Get("/mine", handler.ListMine)
		routerGroup.Post("/photos", handler.UploadProof)
		routerGroup.Post("/complete", handler.Complete)
		routerGroup.Post("/{id}/claim", handler.Claim)
		routerGroup.Post("/{id}/verify", handler.Verify)
		routerGroup.Post("/{id}/reject", handler.Reject)
		routerGroup.Get("/", handler.GetTasks)
		routerGroup.Get("/{id}", handler.GetTaskByID)
	})
}

// Generate creates cleaning tasks for today's checkouts.
// @Summary Generate checkout tasks
// @Description Create one pending task per booking checking out today and mark its room dirty. Safe to repeat.
// @Tags Task
// @Produce json
// @Success 200 {object} response.Data[dto.GenerateResult]
// @Failure 500 {object} response.Error
// @Router /v1/tasks/generate [post]
// @Security BearerAuth
// @Security ApiKeyAuth
func (handler *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Generate")
	defer scope.End()

	res, err := handler.service.Generate(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate tasks")

		response.WithError(w, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"task.created": res.Created,
		"task.errors":  len(res.Errors),
	})

	response.WithJSON(w, http.StatusOK, res)
}

// Claim assigns a pending task to the calling housekeeper.
// @Summary Claim a task
// @Tags Task
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Already claimed"
// @Failure 422 {object} response.Error
// @Failure 400 {object} response.Error
// @Router /v1/tasks/{id}/claim [post]
// @Security BearerAuth
func (handler *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Claim")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateUUID(constant.RequestParamID, id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Claim(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("task_id", id).Msg("failed to claim task")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Task claimed successfully")
}

// UploadProof stores a proof photo and returns its URL.
// @Summary Upload proof photo
// @Tags Task
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Photo (jpeg, png or webp)"
// @Success 201 {object} response.Data[dto.UploadProofResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tasks/photos [post]
// @Security BearerAuth
func (handler *Handler) UploadProof(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadProof")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, header, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read uploaded file")

		response.WithError(w, failure.BadRequestFromString("file is required"))

		return
	}
	defer file.Close()

	res, err := handler.service.UploadProof(ctx, dto.ProofFile{
		Name:        header.Filename,
		ContentType: header.Header.Get(constant.RequestHeaderContentType),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload proof")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// Complete marks the caller's accepted task done with its proof photo.
// @Summary Complete a task
// @Tags Task
// @Accept json
// @Produce json
// @Param request body dto.CompleteTaskRequest true "Complete Task Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tasks/complete [post]
// @Security BearerAuth
func (handler *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Complete")
	defer scope.End()

	req := dto.CompleteTaskRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Complete(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("task_id", req.TaskID).Msg("failed to complete task")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Task completed successfully")
}

// Verify approves a completed task and marks its room clean.
// @Summary Verify a task
// @Tags Task
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 400 {object} response.Error
// @Router /v1/tasks/{id}/verify [post]
// @Security BearerAuth
func (handler *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Verify")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateUUID(constant.RequestParamID, id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Verify(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("task_id", id).Msg("failed to verify task")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Task verified successfully")
}

// Reject sends a completed task back to the pool.
// @Summary Reject a task
// @Tags Task
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 400 {object} response.Error
// @Router /v1/tasks/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reject")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateUUID(constant.RequestParamID, id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Reject(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("task_id", id).Msg("failed to reject task")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Task rejected successfully")
}

// ListAvailable lists unclaimed pending tasks.
// @Summary Claimable tasks
// @Tags Task
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetTasksResponse]
// @Failure 500 {object} response.Error
// @Router /v1/tasks/available [get]
// @Security BearerAuth
func (handler *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListAvailable")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.TableName, model.FieldScheduledDate, constant.FieldCreatedAt)

	res, err := handler.service.ListAvailable(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list available tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ListMine lists tasks assigned to the caller.
// @Summary My tasks
// @Tags Task
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetTasksResponse]
// @Failure 500 {object} response.Error
// @Router /v1/tasks/mine [get]
// @Security BearerAuth
func (handler *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListMine")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.TableName, model.FieldScheduledDate, constant.FieldCreatedAt)

	res, err := handler.service.ListMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list own tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetTasks lists tasks for administrators.
// @Summary Get all tasks
// @Tags Task
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, accepted, completed, verified)"
// @Param room_id query string false "Filter by room ID"
// @Param housekeeper_id query string false "Filter by housekeeper ID"
// @Param scheduled_date query string false "Filter by scheduled date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetTasksResponse]
// @Failure 500 {object} response.Error
// @Router /v1/tasks [get]
// @Security BearerAuth
func (handler *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.TableName, model.FieldScheduledDate, model.FieldStatus, model.FieldCompletedAt, constant.FieldCreatedAt)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldRoomID, model.FieldHousekeeperID} {
		if value := query.Get(field); value != "" {
			if err := validator.ValidateUUID(field, value); err != nil {
				scope.TraceError(err)
				response.WithError(w, err)

				return
			}
		}
	}

	if date := query.Get(model.FieldScheduledDate); date != "" {
		if _, err := daterange.ParseDate(date); err != nil {
			err = failure.BadRequest(err)
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}
	}

	for _, field := range []string{model.FieldStatus, model.FieldRoomID, model.FieldHousekeeperID, model.FieldScheduledDate} {
		if value := query.Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tasks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetTaskByID retrieves a task by its ID.
// @Summary Get a task by ID
// @Tags Task
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Data[dto.TaskResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Failure 400 {object} response.Error
// @Router /v1/tasks/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTaskByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateUUID(constant.RequestParamID, id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get task by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
