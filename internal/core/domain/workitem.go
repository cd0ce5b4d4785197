package domain

import "time"

type WorkItemStatus string

const (
	WorkItemStatusPending    WorkItemStatus = "pending"
	WorkItemStatusInProgress WorkItemStatus = "in_progress"
	WorkItemStatusCompleted  WorkItemStatus = "completed"
	WorkItemStatusCancelled  WorkItemStatus = "cancelled"
)

type WorkItemPriority string

const (
	WorkItemPriorityLow    WorkItemPriority = "low"
	WorkItemPriorityMedium WorkItemPriority = "medium"
	WorkItemPriorityHigh   WorkItemPriority = "high"
	WorkItemPriorityUrgent WorkItemPriority = "urgent"
)

// IdentityModelAdmin tags createdBy/assignedTo references with the identity
// kind they point at. Only the Admin kind exists today; the tag is stored so
// other kinds can be introduced without a data migration.
const IdentityModelAdmin = "Admin"

type WorkItem struct {
	ID              string
	Title           string
	Description     string
	Status          WorkItemStatus
	Priority        WorkItemPriority
	CreatedBy       string
	CreatedByModel  string
	CreatedByUser   *User
	AssignedTo      *string
	AssignedToModel *string
	AssignedToUser  *User
	Tags            []string
	DueDate         *time.Time
	CompletedAt     *time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateWorkItemInput struct {
	Title       string
	Description string
	Status      WorkItemStatus
	Priority    WorkItemPriority
	CreatedBy   string
	AssignedTo  *string
	Tags        []string
	DueDate     *time.Time
}

// UpdateWorkItemInput carries the allow-listed patch for a single item.
// Nil pointers mean "leave untouched"; the Set flags distinguish an explicit
// null (clear the field) from absence for the clearable fields.
type UpdateWorkItemInput struct {
	Title          *string
	Description    *string
	Status         *WorkItemStatus
	Priority       *WorkItemPriority
	AssignedTo     *string
	AssignedToSet  bool
	Tags           []string
	TagsSet        bool
	DueDate        *time.Time
	DueDateSet     bool
	CompletedAt    *time.Time
	CompletedAtSet bool
}

// BulkUpdateInput is the patch applied to many items at once. Its allow-list
// is narrower than the single-item one: status, priority, assignedTo, tags.
type BulkUpdateInput struct {
	Status        *WorkItemStatus
	Priority      *WorkItemPriority
	AssignedTo    *string
	AssignedToSet bool
	Tags          []string
	TagsSet       bool
}

func (in BulkUpdateInput) IsEmpty() bool {
	return in.Status == nil && in.Priority == nil && !in.AssignedToSet && !in.TagsSet
}

// WorkItemPatch is the raw single-item patch as received from the client.
// Enum fields arrive as plain strings and are validated by the service; the
// Set flags distinguish an explicit null from an absent field.
type WorkItemPatch struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	AssignedTo    *string
	AssignedToSet bool
	Tags          []string
	TagsSet       bool
	DueDate       *time.Time
	DueDateSet    bool
}

// BulkPatch is the raw patch for bulk updates.
type BulkPatch struct {
	Status        *string
	Priority      *string
	AssignedTo    *string
	AssignedToSet bool
	Tags          []string
	TagsSet       bool
}

// ListFilters is the raw listing filter set as received from the client.
type ListFilters struct {
	Statuses       []string
	Priorities     []string
	AssignedTo     string
	CreatedBy      string
	Tags           []string
	Search         string
	IncludeDeleted bool
}

// StatsFilters scopes the aggregate statistics. CreatedBy accepts an email
// or a raw 24-hex identifier; AssignedTo accepts an email only.
type StatsFilters struct {
	CreatedBy  string
	AssignedTo string
}

// WorkItemQuery is the normalized filter the service hands to the
// repository. Zero values mean "no constraint"; soft-deleted items are
// excluded unless IncludeDeleted is set.
type WorkItemQuery struct {
	IncludeDeleted  bool
	Statuses        []WorkItemStatus
	ExcludeStatuses []WorkItemStatus
	Priorities      []WorkItemPriority
	AssignedTo      string
	CreatedBy       string
	InvolvedUser    string
	Tags            []string
	Search          string
	DueBefore       *time.Time
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type FindOptions struct {
	Page      int64
	Limit     int64
	SortBy    string
	SortOrder SortOrder
}

type Pagination struct {
	Total int64
	Page  int64
	Pages int64
	Limit int64
}

type WorkItemPage struct {
	Items      []WorkItem
	Pagination Pagination
}

type WorkItemStats struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
	Cancelled  int64
	Overdue    int64
}

type UserWorkItemStats struct {
	WorkItemStats
	Assigned       int64
	Created        int64
	CompletionRate int64
	OverdueRate    int64
}
