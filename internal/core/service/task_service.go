package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

// TaskService applies the authorization policy and lifecycle rules to task
// store operations.
type TaskService struct {
	tasks ports.TaskRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, log: log}
}

// CreateTask opens a new task on behalf of actor. Administrators are denied
// by policy; a provided tester reference must resolve to an existing user.
func (s *TaskService) CreateTask(ctx context.Context, actor ports.Actor, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
	if err := domain.Authorize(actor.Role, domain.OpCreateTask, false); err != nil {
		return nil, err
	}

	urgency := domain.UrgencyMedium
	if in.Urgency != "" {
		parsed, err := domain.ParseTaskUrgency(in.Urgency)
		if err != nil {
			return nil, err
		}
		urgency = parsed
	}

	if in.TesterID != "" {
		if _, err := s.users.FindByID(ctx, in.TesterID); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrTesterNotFound
			}
			return nil, err
		}
	}

	task := &domain.Task{
		Title:              in.Title,
		Description:        in.Description,
		AssignedBy:         actor.UserID,
		TesterID:           in.TesterID,
		Status:             domain.StatusNew,
		Urgency:            urgency,
		AcceptanceCriteria: in.AcceptanceCriteria,
		EvaluationCriteria: in.EvaluationCriteria,
		Comment:            in.Comment,
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Str("creator", actor.UserID).Msg("failed to create task")
		return nil, err
	}

	s.log.Info().
		Int32("task_number", created.TaskNumber).
		Str("creator", actor.UserID).
		Str("urgency", string(created.Urgency)).
		Msg("task created")

	return s.toDetail(ctx, created), nil
}

func (s *TaskService) GetTask(ctx context.Context, actor ports.Actor, id string) (*ports.TaskDetail, error) {
	if err := domain.Authorize(actor.Role, domain.OpViewTask, false); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, task), nil
}

// ListTasks returns a page of tasks. Filters are conjunctive; unknown status
// or urgency values are rejected before touching the store.
func (s *TaskService) ListTasks(ctx context.Context, actor ports.Actor, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
	if err := domain.Authorize(actor.Role, domain.OpViewTask, false); err != nil {
		return nil, err
	}

	filter := ports.ListTasksFilter{
		TesterID:   in.TesterID,
		AssignedBy: in.AssignedBy,
	}
	if in.Status != "" {
		status, err := domain.ParseTaskStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if in.Urgency != "" {
		urgency, err := domain.ParseTaskUrgency(in.Urgency)
		if err != nil {
			return nil, err
		}
		filter.Urgency = urgency
	}
	filter.Page, filter.Limit = clampPage(in.Page, in.PerPage)

	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListTasksResult{
		Items:      tasks,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// UpdateTask applies a partial update. Setting status to closed stamps
// ClosedAt with the current time; once stamped it is never overwritten, so
// later edits to a closed task keep the original closing time.
func (s *TaskService) UpdateTask(ctx context.Context, actor ports.Actor, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(actor.Role, domain.OpUpdateTask, false); err != nil {
		return nil, err
	}
	previousStatus := task.Status

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.TesterID != nil {
		if *in.TesterID != "" {
			if _, err := s.users.FindByID(ctx, *in.TesterID); err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return nil, domain.ErrTesterNotFound
				}
				return nil, err
			}
		}
		task.TesterID = *in.TesterID
	}
	if in.Urgency != nil {
		urgency, err := domain.ParseTaskUrgency(*in.Urgency)
		if err != nil {
			return nil, err
		}
		task.Urgency = urgency
	}
	if in.AcceptanceCriteria != nil {
		task.AcceptanceCriteria = *in.AcceptanceCriteria
	}
	if in.EvaluationCriteria != nil {
		task.EvaluationCriteria = *in.EvaluationCriteria
	}
	if in.Comment != nil {
		task.Comment = *in.Comment
	}
	if in.Status != nil {
		status, err := domain.ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
		if status == domain.StatusClosed && task.ClosedAt == nil {
			now := time.Now().UTC()
			task.ClosedAt = &now
		}
	}

	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int32("task_number", updated.TaskNumber).
		Str("status", string(updated.Status)).
		Str("actor", actor.UserID).
		Msg("task updated")

	detail := s.toDetail(ctx, updated)
	detail.PreviousStatus = previousStatus
	return detail, nil
}

// DeleteTask removes a task. Only the creator or a manager may delete;
// administrators are denied by policy.
func (s *TaskService) DeleteTask(ctx context.Context, actor ports.Actor, id string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.Authorize(actor.Role, domain.OpDeleteTask, task.AssignedBy == actor.UserID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int32("task_number", task.TaskNumber).Str("actor", actor.UserID).Msg("task deleted")
	return nil
}

// toDetail resolves the creator and tester names for a task view. Name
// lookups are best effort: a missing user leaves the name empty.
func (s *TaskService) toDetail(ctx context.Context, task *domain.Task) *ports.TaskDetail {
	detail := &ports.TaskDetail{Task: task}
	if creator, err := s.users.FindByID(ctx, task.AssignedBy); err == nil {
		detail.AssignedByName = creator.FullName
	}
	if task.TesterID != "" {
		if tester, err := s.users.FindByID(ctx, task.TesterID); err == nil {
			detail.TesterName = tester.FullName
		}
	}
	return detail
}
