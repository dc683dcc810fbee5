package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/testflow/task-system/internal/api/metrics"
	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

type stubTaskService struct {
	createFn func(ctx context.Context, actor ports.Actor, in ports.CreateTaskInput) (*ports.TaskDetail, error)
	getFn    func(ctx context.Context, actor ports.Actor, id string) (*ports.TaskDetail, error)
	listFn   func(ctx context.Context, actor ports.Actor, in ports.ListTasksInput) (*ports.ListTasksResult, error)
	updateFn func(ctx context.Context, actor ports.Actor, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error)
	deleteFn func(ctx context.Context, actor ports.Actor, id string) error
}

func (s *stubTaskService) CreateTask(ctx context.Context, actor ports.Actor, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubTaskService) GetTask(ctx context.Context, actor ports.Actor, id string) (*ports.TaskDetail, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubTaskService) ListTasks(ctx context.Context, actor ports.Actor, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
	return s.listFn(ctx, actor, in)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, actor ports.Actor, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, actor ports.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

// authedContext builds an echo context carrying the claims the Auth
// middleware would have injected.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID string, role domain.Role) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("username", "someone")
	c.Set("role", string(role))
	return c
}

func TestTaskHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	created := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	stub := &stubTaskService{
		createFn: func(ctx context.Context, actor ports.Actor, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
			if actor.UserID != "dev_1" || actor.Role != domain.RoleDeveloper {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			if in.Title != "Fix login flow" || in.Urgency != "high" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.TaskDetail{
				Task: &domain.Task{
					ID:         "task_1",
					TaskNumber: 7,
					Title:      in.Title,
					AssignedBy: actor.UserID,
					Status:     domain.StatusNew,
					Urgency:    domain.UrgencyHigh,
					CreatedAt:  created,
				},
				AssignedByName: "Dev One",
			}, nil
		},
	}
	handler := NewTaskHandler(stub)

	body := strings.NewReader(`{"title":"Fix login flow","urgency":"high"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "dev_1", domain.RoleDeveloper)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["task_number"] != float64(7) || resp["status"] != "new" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["assigned_by_name"] != "Dev One" {
		t.Fatalf("creator name missing: %+v", resp)
	}
	if resp["created_at"] != "2024-06-02 09:00:00" {
		t.Fatalf("unexpected timestamp format: %v", resp["created_at"])
	}
	if _, present := resp["closed_at"]; present {
		t.Fatalf("closed_at must be omitted for open tasks")
	}
}

func TestTaskHandler_Create_AdminForbidden(t *testing.T) {
	e := newTestEcho()
	stub := &stubTaskService{
		createFn: func(ctx context.Context, actor ports.Actor, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
			return nil, domain.ErrAdminCreatesTask
		},
	}
	handler := NewTaskHandler(stub)

	body := strings.NewReader(`{"title":"nope"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "admin_1", domain.RoleAdmin)

	_ = handler.Create(c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "administrators cannot create tasks" {
		t.Fatalf("unexpected error message: %q", resp["error"])
	}
}

func TestTaskHandler_Create_MissingTitle(t *testing.T) {
	e := newTestEcho()
	stub := &stubTaskService{
		createFn: func(ctx context.Context, actor ports.Actor, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewTaskHandler(stub)

	body := strings.NewReader(`{"description":"no title"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "dev_1", domain.RoleDeveloper)

	_ = handler.Create(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTaskHandler_List_PassesFilters(t *testing.T) {
	e := newTestEcho()
	stub := &stubTaskService{
		listFn: func(ctx context.Context, actor ports.Actor, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
			if in.Status != "new" || in.Urgency != "high" || in.Page != 2 || in.PerPage != 5 {
				t.Fatalf("filters not forwarded: %+v", in)
			}
			return &ports.ListTasksResult{
				Items:      []*domain.Task{},
				Total:      11,
				Page:       2,
				PerPage:    5,
				TotalPages: 3,
			}, nil
		},
	}
	handler := NewTaskHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?status=new&urgency=high&page=2&per_page=5", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "tester_1", domain.RoleTester)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	pagination, ok := resp["pagination"].(map[string]any)
	if !ok {
		t.Fatalf("expected pagination envelope: %+v", resp)
	}
	if pagination["total"] != float64(11) || pagination["total_pages"] != float64(3) {
		t.Fatalf("unexpected pagination: %+v", pagination)
	}
}

func TestTaskHandler_Update_ClosedAtExposed(t *testing.T) {
	e := newTestEcho()
	closed := time.Date(2024, 6, 3, 18, 45, 0, 0, time.UTC)
	stub := &stubTaskService{
		updateFn: func(ctx context.Context, actor ports.Actor, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error) {
			if id != "task_1" || in.Status == nil || *in.Status != "closed" {
				t.Fatalf("unexpected update: id=%s in=%+v", id, in)
			}
			return &ports.TaskDetail{
				Task: &domain.Task{
					ID:         "task_1",
					TaskNumber: 7,
					Title:      "t",
					AssignedBy: "dev_1",
					Status:     domain.StatusClosed,
					Urgency:    domain.UrgencyMedium,
					CreatedAt:  closed.Add(-time.Hour),
					ClosedAt:   &closed,
				},
			}, nil
		},
	}
	handler := NewTaskHandler(stub)

	body := strings.NewReader(`{"status":"closed"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/task_1", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "dev_1", domain.RoleDeveloper)
	c.SetParamNames("id")
	c.SetParamValues("task_1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["closed_at"] != "2024-06-03 18:45:00" {
		t.Fatalf("unexpected closed_at: %v", resp["closed_at"])
	}
}

// The closure counter moves only when the update actually transitions the
// task into closed; re-closing an already-closed task is not a new closure.
func TestTaskHandler_Update_CloseCountedOncePerClosure(t *testing.T) {
	e := newTestEcho()

	runClose := func(previous domain.TaskStatus) {
		t.Helper()
		stub := &stubTaskService{
			updateFn: func(ctx context.Context, actor ports.Actor, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error) {
				return &ports.TaskDetail{
					Task: &domain.Task{
						ID:         "task_1",
						TaskNumber: 7,
						Title:      "t",
						AssignedBy: "dev_1",
						Status:     domain.StatusClosed,
						Urgency:    domain.UrgencyMedium,
						CreatedAt:  time.Now().UTC(),
					},
					PreviousStatus: previous,
				}, nil
			},
		}
		handler := NewTaskHandler(stub)

		req := httptest.NewRequest(http.MethodPut, "/api/tasks/task_1", strings.NewReader(`{"status":"closed"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := authedContext(e, req, rec, "dev_1", domain.RoleDeveloper)
		c.SetParamNames("id")
		c.SetParamValues("task_1")
		if err := handler.Update(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}

	before := testutil.ToFloat64(metrics.TasksClosedTotal)
	runClose(domain.StatusTesting)
	if got := testutil.ToFloat64(metrics.TasksClosedTotal) - before; got != 1 {
		t.Fatalf("expected one closure counted, got %v", got)
	}

	before = testutil.ToFloat64(metrics.TasksClosedTotal)
	runClose(domain.StatusClosed)
	if got := testutil.ToFloat64(metrics.TasksClosedTotal) - before; got != 0 {
		t.Fatalf("re-close must not move the counter, got %v", got)
	}
}

func TestTaskHandler_Update_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubTaskService{
		updateFn: func(ctx context.Context, actor ports.Actor, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	handler := NewTaskHandler(stub)

	body := strings.NewReader(`{"comment":"x"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/missing", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "dev_1", domain.RoleDeveloper)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	_ = handler.Update(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTaskHandler_Delete_Forbidden(t *testing.T) {
	e := newTestEcho()
	stub := &stubTaskService{
		deleteFn: func(ctx context.Context, actor ports.Actor, id string) error {
			return domain.ErrTaskDeleteDenied
		},
	}
	handler := NewTaskHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/task_1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "tester_1", domain.RoleTester)
	c.SetParamNames("id")
	c.SetParamValues("task_1")

	_ = handler.Delete(c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestTaskHandler_Delete_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubTaskService{
		deleteFn: func(ctx context.Context, actor ports.Actor, id string) error {
			if id != "task_1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return nil
		},
	}
	handler := NewTaskHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/task_1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "manager_1", domain.RoleManager)
	c.SetParamNames("id")
	c.SetParamValues("task_1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestTaskHandler_MissingClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewTaskHandler(&stubTaskService{})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
