package dto

// UserRef is the public shape of an identity relation. Storage identifiers
// never appear here.
type UserRef struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
}

type WorkItemItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	CreatedBy   *UserRef `json:"createdBy"`
	AssignedTo  *UserRef `json:"assignedTo"`
	Tags        []string `json:"tags"`
	DueDate     *string  `json:"dueDate"`
	CompletedAt *string  `json:"completedAt"`
	IsActive    bool     `json:"isActive"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Pages int64 `json:"pages"`
	Limit int64 `json:"limit"`
}

type WorkItemList struct {
	Items      []WorkItemItem `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

type WorkItemStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
}

type UserWorkItemStats struct {
	WorkItemStats
	Assigned       int64 `json:"assigned"`
	Created        int64 `json:"created"`
	CompletionRate int64 `json:"completionRate"`
	OverdueRate    int64 `json:"overdueRate"`
}

type BulkUpdateResult struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

type CreateWorkItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	AssignedTo  *string  `json:"assignedTo"`
	Tags        []string `json:"tags"`
	DueDate     *string  `json:"dueDate"`
}

type UpdateWorkItemRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	AssignedTo  *string  `json:"assignedTo"`
	Tags        []string `json:"tags"`
	DueDate     *string  `json:"dueDate"`
}

type BulkUpdateFields struct {
	Status     *string  `json:"status"`
	Priority   *string  `json:"priority"`
	AssignedTo *string  `json:"assignedTo"`
	Tags       []string `json:"tags"`
}

type BulkUpdateRequest struct {
	IDs    []string         `json:"ids"`
	Update BulkUpdateFields `json:"update"`
}
