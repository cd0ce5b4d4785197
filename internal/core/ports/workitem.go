package ports

import (
	"context"

	"heunets/internal/core/domain"
)

// WorkItemRepository is the document-store contract for work items.
// Timestamps and identifier generation belong to the implementation.
// Fetch and find results come back with their identity relations expanded.
type WorkItemRepository interface {
	Insert(ctx context.Context, input domain.CreateWorkItemInput) (string, error)
	FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.WorkItem, error)
	Find(ctx context.Context, query domain.WorkItemQuery, opts domain.FindOptions) ([]domain.WorkItem, error)
	Count(ctx context.Context, query domain.WorkItemQuery) (int64, error)
	Update(ctx context.Context, id string, input domain.UpdateWorkItemInput) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	UpdateMany(ctx context.Context, ids []string, input domain.BulkUpdateInput) (int64, error)
	DistinctAssignees(ctx context.Context) ([]string, error)
}

// UserDirectory resolves identities for attribution and assignment.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListActive(ctx context.Context) ([]domain.User, error)
}

type WorkItemService interface {
	Create(ctx context.Context, input domain.CreateWorkItemInput) (*domain.WorkItem, error)
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	List(ctx context.Context, filters domain.ListFilters, opts domain.FindOptions) (*domain.WorkItemPage, error)
	Update(ctx context.Context, id string, patch domain.WorkItemPatch) (*domain.WorkItem, error)
	Delete(ctx context.Context, id string) error
	PermanentlyDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*domain.WorkItem, error)
	ListByStatus(ctx context.Context, status string) ([]domain.WorkItem, error)
	ListAssignedTo(ctx context.Context, userID string) ([]domain.WorkItem, error)
	ListCreatedBy(ctx context.Context, userID string) ([]domain.WorkItem, error)
	ListOverdue(ctx context.Context) ([]domain.WorkItem, error)
	Stats(ctx context.Context, filters domain.StatsFilters) (*domain.WorkItemStats, error)
	MyStats(ctx context.Context, userID string) (*domain.UserWorkItemStats, error)
	BulkUpdate(ctx context.Context, ids []string, patch domain.BulkPatch) (int64, error)
	ListAssignees(ctx context.Context) ([]domain.User, error)
	ListAvailableUsers(ctx context.Context) ([]domain.User, error)
}
