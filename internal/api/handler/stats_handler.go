package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

// StatsHandler handles the employee statistics endpoint.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

type employeeStatResponse struct {
	UserID          string `json:"user_id"`
	FullName        string `json:"full_name"`
	TotalTasks      int64  `json:"total_tasks"`
	CompletedTasks  int64  `json:"completed_tasks"`
	InProgressTasks int64  `json:"in_progress_tasks"`
}

type employeeStatsResponse struct {
	Data []employeeStatResponse `json:"data"`
}

// Employees handles GET /api/statistics/employees.
//
// @Summary      Per-employee task statistics
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  employeeStatsResponse
// @Failure      403  {object}  errorResponse
// @Router       /statistics/employees [get]
func (h *StatsHandler) Employees(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.service.EmployeeStatistics(c.Request().Context(), actor)
	if err != nil {
		if errors.Is(err, domain.ErrStatsDenied) || errors.Is(err, domain.ErrForbidden) {
			return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
		}
		return err
	}

	data := make([]employeeStatResponse, len(stats))
	for i, s := range stats {
		data[i] = employeeStatResponse{
			UserID:          s.UserID,
			FullName:        s.FullName,
			TotalTasks:      s.TotalTasks,
			CompletedTasks:  s.CompletedTasks,
			InProgressTasks: s.InProgressTasks,
		}
	}

	return c.JSON(http.StatusOK, employeeStatsResponse{Data: data})
}
