package handler

import (
	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

func toTaskResponse(d *ports.TaskDetail) taskResponse {
	t := d.Task
	resp := taskResponse{
		ID:                 t.ID,
		TaskNumber:         t.TaskNumber,
		Title:              t.Title,
		Description:        t.Description,
		AssignedBy:         t.AssignedBy,
		AssignedByName:     d.AssignedByName,
		TesterID:           t.TesterID,
		TesterName:         d.TesterName,
		Status:             string(t.Status),
		Urgency:            string(t.Urgency),
		AcceptanceCriteria: t.AcceptanceCriteria,
		EvaluationCriteria: t.EvaluationCriteria,
		Comment:            t.Comment,
		CreatedAt:          t.CreatedAt.UTC().Format(timeLayout),
	}
	if t.ClosedAt != nil {
		resp.ClosedAt = t.ClosedAt.UTC().Format(timeLayout)
	}
	return resp
}

func toTaskSummaryResponse(t *domain.Task) taskSummaryResponse {
	resp := taskSummaryResponse{
		ID:         t.ID,
		TaskNumber: t.TaskNumber,
		Title:      t.Title,
		AssignedBy: t.AssignedBy,
		TesterID:   t.TesterID,
		Status:     string(t.Status),
		Urgency:    string(t.Urgency),
		CreatedAt:  t.CreatedAt.UTC().Format(timeLayout),
	}
	if t.ClosedAt != nil {
		resp.ClosedAt = t.ClosedAt.UTC().Format(timeLayout)
	}
	return resp
}

func toListTasksResponse(r *ports.ListTasksResult) listTasksResponse {
	items := make([]taskSummaryResponse, len(r.Items))
	for i, t := range r.Items {
		items[i] = toTaskSummaryResponse(t)
	}
	return listTasksResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			PerPage:    r.PerPage,
			TotalPages: r.TotalPages,
		},
	}
}
