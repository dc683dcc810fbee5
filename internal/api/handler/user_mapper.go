package handler

import (
	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: u.UpdatedAt.UTC().Format(timeLayout),
	}
}

func toListUsersResponse(r *ports.ListUsersResult) listUsersResponse {
	items := make([]userResponse, len(r.Items))
	for i, u := range r.Items {
		items[i] = toUserResponse(u)
	}
	return listUsersResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			PerPage:    r.PerPage,
			TotalPages: r.TotalPages,
		},
	}
}
