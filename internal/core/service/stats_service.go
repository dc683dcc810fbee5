package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

// StatsService produces the employee statistics rollup: per non-admin user,
// how many tasks they are the tester on, split into completed (done/closed)
// and in-progress (in_progress/testing) buckets.
type StatsService struct {
	users ports.UserRepository
	tasks ports.TaskRepository
	log   zerolog.Logger
}

func NewStatsService(users ports.UserRepository, tasks ports.TaskRepository, log zerolog.Logger) *StatsService {
	return &StatsService{users: users, tasks: tasks, log: log}
}

func (s *StatsService) EmployeeStatistics(ctx context.Context, actor ports.Actor) ([]ports.EmployeeStat, error) {
	if err := domain.Authorize(actor.Role, domain.OpViewStatistics, false); err != nil {
		return nil, err
	}

	employees, _, err := s.users.List(ctx, ports.ListUsersFilter{ExcludeRole: domain.RoleAdmin})
	if err != nil {
		return nil, err
	}

	counts, err := s.tasks.CountsByTester(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]ports.EmployeeStat, 0, len(employees))
	for _, u := range employees {
		c := counts[u.ID]
		stats = append(stats, ports.EmployeeStat{
			UserID:          u.ID,
			FullName:        u.FullName,
			TotalTasks:      c.Total,
			CompletedTasks:  c.Completed,
			InProgressTasks: c.InProgress,
		})
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].FullName < stats[j].FullName })
	return stats, nil
}
