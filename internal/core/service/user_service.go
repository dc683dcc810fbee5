package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// UserService implements admin-gated user management. Deleting a user
// cascades to the task store: created tasks are removed, tester references
// are cleared.
type UserService struct {
	users ports.UserRepository
	tasks ports.TaskRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, tasks ports.TaskRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, tasks: tasks, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, actor ports.Actor, in ports.CreateUserInput) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.OpManageUsers, false); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, actor ports.Actor, id string) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.OpManageUsers, false); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, actor ports.Actor) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.OpViewProfile, false); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, actor.UserID)
}

func (s *UserService) ListUsers(ctx context.Context, actor ports.Actor, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if err := domain.Authorize(actor.Role, domain.OpManageUsers, false); err != nil {
		return nil, err
	}

	page, perPage := clampPage(in.Page, in.PerPage)
	users, total, err := s.users.List(ctx, ports.ListUsersFilter{Page: page, Limit: perPage})
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// UpdateUser applies a partial update; nil fields keep the stored value.
func (s *UserService) UpdateUser(ctx context.Context, actor ports.Actor, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.OpManageUsers, false); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// DeleteUser removes the account and cascades into the task store: tasks the
// user created are deleted, tasks where they were only the tester keep the
// task with the tester reference cleared.
func (s *UserService) DeleteUser(ctx context.Context, actor ports.Actor, id string) error {
	if err := domain.Authorize(actor.Role, domain.OpManageUsers, false); err != nil {
		return err
	}
	if id == actor.UserID {
		return domain.ErrSelfDelete
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.tasks.DeleteByCreator(ctx, id); err != nil {
		return err
	}
	if err := s.tasks.ClearTester(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id).Msg("user deleted, created tasks removed, tester references cleared")
	return nil
}

func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	return pages
}
