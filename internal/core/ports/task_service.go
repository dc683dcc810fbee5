package ports

import (
	"context"

	"github.com/testflow/task-system/internal/core/domain"
)

// CreateTaskInput carries all data needed to open a task.
// Urgency defaults to medium when empty; TesterID and free-text fields are
// optional.
type CreateTaskInput struct {
	Title              string
	Description        string
	TesterID           string
	Urgency            string
	AcceptanceCriteria string
	EvaluationCriteria string
	Comment            string
}

// UpdateTaskInput carries a partial task update; nil fields retain the
// stored value.
type UpdateTaskInput struct {
	Title              *string
	Description        *string
	TesterID           *string
	Status             *string
	Urgency            *string
	AcceptanceCriteria *string
	EvaluationCriteria *string
	Comment            *string
}

// TaskDetail is the full task view with creator/tester names resolved.
// UpdateTask additionally records the status the task held before the
// update, so callers can tell a real transition from a no-op rewrite.
type TaskDetail struct {
	Task           *domain.Task
	AssignedByName string
	TesterName     string
	PreviousStatus domain.TaskStatus
}

// ListTasksInput carries filters and pagination for the list endpoint.
// Status and Urgency arrive as raw query strings and are validated by the
// service.
type ListTasksInput struct {
	Status     string
	Urgency    string
	TesterID   string
	AssignedBy string
	Page       int
	PerPage    int
}

// ListTasksResult is returned by ListTasks.
type ListTasksResult struct {
	Items      []*domain.Task
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}

// TaskService defines use-case operations for tasks, applying the
// authorization policy and lifecycle rules on top of the repository.
type TaskService interface {
	CreateTask(ctx context.Context, actor Actor, in CreateTaskInput) (*TaskDetail, error)
	GetTask(ctx context.Context, actor Actor, id string) (*TaskDetail, error)
	ListTasks(ctx context.Context, actor Actor, in ListTasksInput) (*ListTasksResult, error)
	UpdateTask(ctx context.Context, actor Actor, id string, in UpdateTaskInput) (*TaskDetail, error)
	DeleteTask(ctx context.Context, actor Actor, id string) error
}
