package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
//
// The lifecycle is ordered (new → in_progress → testing → done → closed) but
// transitions are deliberately unrestricted: any authorized actor may set any
// status, including jumping backwards. The only enforced coupling is that
// setting StatusClosed stamps ClosedAt exactly once.
type TaskStatus string

const (
	StatusNew        TaskStatus = "new"
	StatusInProgress TaskStatus = "in_progress"
	StatusTesting    TaskStatus = "testing"
	StatusDone       TaskStatus = "done"
	StatusClosed     TaskStatus = "closed"
)

// ParseTaskStatus converts a string into a TaskStatus, rejecting unknown values.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusNew, StatusInProgress, StatusTesting, StatusDone, StatusClosed:
		return TaskStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// TaskUrgency is the priority classification of a task, independent of status.
type TaskUrgency string

const (
	UrgencyLow      TaskUrgency = "low"
	UrgencyMedium   TaskUrgency = "medium"
	UrgencyHigh     TaskUrgency = "high"
	UrgencyCritical TaskUrgency = "critical"
)

// ParseTaskUrgency converts a string into a TaskUrgency, rejecting unknown values.
func ParseTaskUrgency(s string) (TaskUrgency, error) {
	switch TaskUrgency(s) {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return TaskUrgency(s), nil
	}
	return "", ErrInvalidUrgency
}

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrTesterNotFound = errors.New("tester not found")
	ErrInvalidStatus  = errors.New("invalid task status")
	ErrInvalidUrgency = errors.New("invalid task urgency")
)

// Task is the core aggregate: a unit of work opened by a non-admin user,
// optionally assigned to a tester, moving through the status lifecycle.
type Task struct {
	ID                 string      `json:"id"`
	TaskNumber         int32       `json:"task_number"`
	Title              string      `json:"title"`
	Description        string      `json:"description,omitempty"`
	AssignedBy         string      `json:"assigned_by"`
	TesterID           string      `json:"tester_id,omitempty"`
	Status             TaskStatus  `json:"status"`
	Urgency            TaskUrgency `json:"urgency"`
	AcceptanceCriteria string      `json:"acceptance_criteria,omitempty"`
	EvaluationCriteria string      `json:"evaluation_criteria,omitempty"`
	Comment            string      `json:"comment,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	ClosedAt           *time.Time  `json:"closed_at,omitempty"`
}
