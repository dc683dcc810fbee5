package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/testflow/task-system/internal/api/metrics"
	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /api/tasks.
//
// @Summary      Open a new task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	detail, err := h.service.CreateTask(c.Request().Context(), actor, ports.CreateTaskInput{
		Title:              req.Title,
		Description:        req.Description,
		TesterID:           req.TesterID,
		Urgency:            req.Urgency,
		AcceptanceCriteria: req.AcceptanceCriteria,
		EvaluationCriteria: req.EvaluationCriteria,
		Comment:            req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAdminCreatesTask), errors.Is(err, domain.ErrForbidden):
			return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrTesterNotFound), errors.Is(err, domain.ErrInvalidUrgency):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(detail.Task.Urgency)).Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(detail))
}

// List handles GET /api/tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status"
// @Param        urgency      query     string  false  "Filter by urgency"
// @Param        tester_id    query     string  false  "Filter by assigned tester"
// @Param        assigned_by  query     string  false  "Filter by creator"
// @Param        page         query     int     false  "Page number (1-based)"
// @Param        per_page     query     int     false  "Rows per page (max 100)"
// @Success      200          {object}  listTasksResponse
// @Failure      400          {object}  errorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListTasks(c.Request().Context(), actor, ports.ListTasksInput{
		Status:     c.QueryParam("status"),
		Urgency:    c.QueryParam("urgency"),
		TesterID:   c.QueryParam("tester_id"),
		AssignedBy: c.QueryParam("assigned_by"),
		Page:       queryInt(c, "page"),
		PerPage:    queryInt(c, "per_page"),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidUrgency):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrForbidden):
			return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, toListTasksResponse(result))
}

// Get handles GET /api/tasks/:id.
//
// @Summary      Get a task by id
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetTask(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrForbidden):
			return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, toTaskResponse(detail))
}

// Update handles PUT /api/tasks/:id.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	detail, err := h.service.UpdateTask(c.Request().Context(), actor, c.Param("id"), ports.UpdateTaskInput{
		Title:              req.Title,
		Description:        req.Description,
		TesterID:           req.TesterID,
		Status:             req.Status,
		Urgency:            req.Urgency,
		AcceptanceCriteria: req.AcceptanceCriteria,
		EvaluationCriteria: req.EvaluationCriteria,
		Comment:            req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrAdminEditsTask), errors.Is(err, domain.ErrForbidden):
			return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrTesterNotFound),
			errors.Is(err, domain.ErrInvalidStatus),
			errors.Is(err, domain.ErrInvalidUrgency):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	// Re-closing an already-closed task is not a new closure.
	if detail.Task.Status == domain.StatusClosed && detail.PreviousStatus != domain.StatusClosed {
		metrics.TasksClosedTotal.Inc()
	}
	return c.JSON(http.StatusOK, toTaskResponse(detail))
}

// Delete handles DELETE /api/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      204  "deleted"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTask(c.Request().Context(), actor, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrTaskDeleteDenied),
			errors.Is(err, domain.ErrAdminManagesTask),
			errors.Is(err, domain.ErrForbidden):
			return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
