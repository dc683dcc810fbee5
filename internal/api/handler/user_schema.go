package handler

// timeLayout is the wire format for all timestamps (UTC, second precision).
const timeLayout = "2006-01-02 15:04:05"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createUserRequest struct {
	Username string `json:"username"  validate:"required,min=3,max=50"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role"      validate:"required,oneof=admin manager tester developer"`
}

// updateUserRequest is a partial update: absent fields retain stored values.
type updateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password *string `json:"password"  validate:"omitempty,min=6"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"      validate:"omitempty,oneof=admin manager tester developer"`
	IsActive *bool   `json:"is_active"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []userResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
