package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	order []string // insertion order, used for List
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := cloneUser(user)
	r.seq++
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[clone.ID] = cloneUser(clone)
	r.order = append(r.order, clone.ID)
	return clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.User
	for _, id := range r.order {
		u, ok := r.byID[id]
		if !ok {
			continue
		}
		if filter.ExcludeRole != "" && u.Role == filter.ExcludeRole {
			continue
		}
		matched = append(matched, cloneUser(u))
	}

	total := int64(len(matched))
	if filter.Limit <= 0 {
		return matched, total, nil
	}
	skip := (filter.Page - 1) * filter.Limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return nil, total, nil
	}
	end := skip + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, existing := range r.byID {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

// ---------------------------------------------------------------------------
// In-memory stub task repository
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.Task
	order []string
	seq   int32
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	if t == nil {
		return nil
	}
	clone := *t
	if t.ClosedAt != nil {
		ts := *t.ClosedAt
		clone.ClosedAt = &ts
	}
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneTask(task)
	r.seq++
	clone.TaskNumber = r.seq
	clone.ID = fmt.Sprintf("task-%d", r.seq)
	r.byID[clone.ID] = cloneTask(clone)
	r.order = append(r.order, clone.ID)
	return clone, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// List applies the same conjunctive filters the real Mongo repo would use.
func (r *stubTaskRepo) List(_ context.Context, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Task
	for _, id := range r.order {
		t, ok := r.byID[id]
		if !ok {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Urgency != "" && t.Urgency != filter.Urgency {
			continue
		}
		if filter.TesterID != "" && t.TesterID != filter.TesterID {
			continue
		}
		if filter.AssignedBy != "" && t.AssignedBy != filter.AssignedBy {
			continue
		}
		matched = append(matched, cloneTask(t))
	}

	total := int64(len(matched))
	if filter.Limit <= 0 {
		return matched, total, nil
	}
	skip := (filter.Page - 1) * filter.Limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return nil, total, nil
	}
	end := skip + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[task.ID]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	r.byID[task.ID] = cloneTask(task)
	return cloneTask(task), nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTaskRepo) DeleteByCreator(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.byID {
		if t.AssignedBy == userID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *stubTaskRepo) ClearTester(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byID {
		if t.TesterID == userID {
			t.TesterID = ""
		}
	}
	return nil
}

func (r *stubTaskRepo) CountsByTester(_ context.Context) (map[string]ports.TesterTaskCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]ports.TesterTaskCounts)
	for _, t := range r.byID {
		if t.TesterID == "" {
			continue
		}
		c := counts[t.TesterID]
		c.Total++
		switch t.Status {
		case domain.StatusDone, domain.StatusClosed:
			c.Completed++
		case domain.StatusInProgress, domain.StatusTesting:
			c.InProgress++
		}
		counts[t.TesterID] = c
	}
	return counts, nil
}

// ---------------------------------------------------------------------------
// Stub login throttle
// ---------------------------------------------------------------------------

type stubThrottle struct {
	blocked  bool
	allowErr error
	failures map[string]int
	resets   map[string]int
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), resets: make(map[string]int)}
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	if t.allowErr != nil {
		return false, t.allowErr
	}
	return !t.blocked, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	t.resets[username]++
	return nil
}
