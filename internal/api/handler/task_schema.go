package handler

type createTaskRequest struct {
	Title              string `json:"title"    validate:"required,max=200"`
	Description        string `json:"description"`
	TesterID           string `json:"tester_id"`
	Urgency            string `json:"urgency"  validate:"omitempty,oneof=low medium high critical"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
	EvaluationCriteria string `json:"evaluation_criteria"`
	Comment            string `json:"comment"`
}

// updateTaskRequest is a partial update: absent fields retain stored values.
// An explicit empty tester_id clears the assignment.
type updateTaskRequest struct {
	Title              *string `json:"title"    validate:"omitempty,max=200"`
	Description        *string `json:"description"`
	TesterID           *string `json:"tester_id"`
	Status             *string `json:"status"   validate:"omitempty,oneof=new in_progress testing done closed"`
	Urgency            *string `json:"urgency"  validate:"omitempty,oneof=low medium high critical"`
	AcceptanceCriteria *string `json:"acceptance_criteria"`
	EvaluationCriteria *string `json:"evaluation_criteria"`
	Comment            *string `json:"comment"`
}

type taskResponse struct {
	ID                 string `json:"id"`
	TaskNumber         int32  `json:"task_number"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	AssignedBy         string `json:"assigned_by"`
	AssignedByName     string `json:"assigned_by_name,omitempty"`
	TesterID           string `json:"tester_id,omitempty"`
	TesterName         string `json:"tester_name,omitempty"`
	Status             string `json:"status"`
	Urgency            string `json:"urgency"`
	AcceptanceCriteria string `json:"acceptance_criteria,omitempty"`
	EvaluationCriteria string `json:"evaluation_criteria,omitempty"`
	Comment            string `json:"comment,omitempty"`
	CreatedAt          string `json:"created_at"`
	ClosedAt           string `json:"closed_at,omitempty"`
}

// taskSummaryResponse is the lightweight item used in list responses.
// It intentionally omits the free-text criteria fields to keep payloads small.
type taskSummaryResponse struct {
	ID         string `json:"id"`
	TaskNumber int32  `json:"task_number"`
	Title      string `json:"title"`
	AssignedBy string `json:"assigned_by"`
	TesterID   string `json:"tester_id,omitempty"`
	Status     string `json:"status"`
	Urgency    string `json:"urgency"`
	CreatedAt  string `json:"created_at"`
	ClosedAt   string `json:"closed_at,omitempty"`
}

type listTasksResponse struct {
	Data       []taskSummaryResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}
