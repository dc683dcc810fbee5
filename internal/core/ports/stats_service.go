package ports

import "context"

// EmployeeStat is the per-employee rollup returned by EmployeeStatistics.
type EmployeeStat struct {
	UserID          string
	FullName        string
	TotalTasks      int64
	CompletedTasks  int64
	InProgressTasks int64
}

// StatsService produces read-only rollups over the task store.
type StatsService interface {
	// EmployeeStatistics returns one entry per non-admin user (zero-task
	// users included), ordered by full name. Admin and manager roles only.
	EmployeeStatistics(ctx context.Context, actor Actor) ([]EmployeeStat, error)
}
