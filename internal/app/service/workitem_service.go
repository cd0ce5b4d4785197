package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"heunets/internal/core/domain"
	"heunets/internal/core/ports"
)

const (
	defaultPage    = 1
	defaultLimit   = 10
	scopedListCap  = 1000
	defaultSortKey = "createdAt"
)

// WorkItemService owns the business rules for work items. It holds no
// mutable state; one instance is shared across all requests.
type WorkItemService struct {
	workItems ports.WorkItemRepository
	directory ports.UserDirectory
}

func NewWorkItemService(workItems ports.WorkItemRepository, directory ports.UserDirectory) *WorkItemService {
	return &WorkItemService{workItems: workItems, directory: directory}
}

var _ ports.WorkItemService = (*WorkItemService)(nil)

// Create validates the input, resolves the assignee email against the
// directory, persists the item, then re-fetches it with relations expanded
// so the response reflects persisted state.
func (s *WorkItemService) Create(ctx context.Context, input domain.CreateWorkItemInput) (*domain.WorkItem, error) {
	if err := domain.ValidateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = domain.WorkItemPriorityMedium
	} else if err := domain.ValidatePriority(input.Priority); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = domain.WorkItemStatusPending
	} else if err := domain.ValidateStatus(input.Status); err != nil {
		return nil, err
	}

	if input.AssignedTo != nil {
		assigneeID, err := s.resolveAssigneeEmail(ctx, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
		input.AssignedTo = &assigneeID
	}

	if input.DueDate != nil {
		if err := domain.ValidateDueDate(*input.DueDate); err != nil {
			return nil, err
		}
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	id, err := s.workItems.Insert(ctx, input)
	if err != nil {
		return nil, err
	}

	return s.workItems.FindByID(ctx, id, false)
}

func (s *WorkItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.workItems.FindByID(ctx, id, false)
}

func (s *WorkItemService) List(ctx context.Context, filters domain.ListFilters, opts domain.FindOptions) (*domain.WorkItemPage, error) {
	query := domain.WorkItemQuery{
		IncludeDeleted: filters.IncludeDeleted,
		Statuses:       toStatuses(filters.Statuses),
		Priorities:     toPriorities(filters.Priorities),
		CreatedBy:      filters.CreatedBy,
		Tags:           filters.Tags,
		Search:         filters.Search,
	}

	if filters.AssignedTo != "" {
		assigneeID, err := s.lookupByEmail(ctx, filters.AssignedTo)
		if err != nil {
			return nil, err
		}
		query.AssignedTo = assigneeID
	}

	if opts.Page <= 0 {
		opts.Page = defaultPage
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.SortBy == "" {
		opts.SortBy = defaultSortKey
	}
	if opts.SortOrder == "" {
		opts.SortOrder = domain.SortDesc
	}

	total, err := s.workItems.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	items, err := s.workItems.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	pages := int64(0)
	if total > 0 {
		pages = (total + opts.Limit - 1) / opts.Limit
	}

	return &domain.WorkItemPage{
		Items: items,
		Pagination: domain.Pagination{
			Total: total,
			Page:  opts.Page,
			Pages: pages,
			Limit: opts.Limit,
		},
	}, nil
}

// Update applies an allow-listed patch to an existing item. completedAt is
// derived from the status transition: set when moving into completed,
// cleared when moving out, untouched otherwise.
func (s *WorkItemService) Update(ctx context.Context, id string, patch domain.WorkItemPatch) (*domain.WorkItem, error) {
	existing, err := s.workItems.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	var input domain.UpdateWorkItemInput

	if patch.Title != nil {
		if err := domain.ValidateTitle(*patch.Title); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(*patch.Title)
		input.Title = &trimmed
	}

	if patch.Description != nil {
		if err := domain.ValidateDescription(*patch.Description); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(*patch.Description)
		input.Description = &trimmed
	}

	if patch.Priority != nil {
		priority := domain.WorkItemPriority(*patch.Priority)
		if err := domain.ValidatePriority(priority); err != nil {
			return nil, err
		}
		input.Priority = &priority
	}

	if patch.Status != nil {
		status := domain.WorkItemStatus(*patch.Status)
		if err := domain.ValidateStatus(status); err != nil {
			return nil, err
		}
		input.Status = &status

		wasCompleted := existing.Status == domain.WorkItemStatusCompleted
		nowCompleted := status == domain.WorkItemStatusCompleted
		if nowCompleted && !wasCompleted {
			now := time.Now()
			input.CompletedAt = &now
			input.CompletedAtSet = true
		} else if !nowCompleted && wasCompleted {
			input.CompletedAt = nil
			input.CompletedAtSet = true
		}
	}

	if patch.AssignedToSet {
		input.AssignedToSet = true
		if patch.AssignedTo != nil {
			assigneeID, err := s.resolveAssigneeEmail(ctx, *patch.AssignedTo)
			if err != nil {
				return nil, err
			}
			input.AssignedTo = &assigneeID
		}
	}

	if patch.TagsSet {
		input.TagsSet = true
		input.Tags = patch.Tags
	}

	if patch.DueDateSet {
		input.DueDateSet = true
		if patch.DueDate != nil {
			// Only a due date actually being changed is checked against
			// "now": editing other fields of an overdue item stays legal.
			if err := domain.ValidateDueDate(*patch.DueDate); err != nil {
				return nil, err
			}
			input.DueDate = patch.DueDate
		}
	}

	if err := s.workItems.Update(ctx, id, input); err != nil {
		return nil, err
	}

	return s.workItems.FindByID(ctx, id, false)
}

func (s *WorkItemService) Delete(ctx context.Context, id string) error {
	return s.workItems.SoftDelete(ctx, id)
}

func (s *WorkItemService) PermanentlyDelete(ctx context.Context, id string) error {
	return s.workItems.HardDelete(ctx, id)
}

func (s *WorkItemService) Restore(ctx context.Context, id string) (*domain.WorkItem, error) {
	item, err := s.workItems.FindByID(ctx, id, true)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrDeletedWorkItemNotFound
		}
		return nil, err
	}
	if item.IsActive {
		return nil, domain.ErrWorkItemNotDeleted
	}

	if err := s.workItems.Restore(ctx, id); err != nil {
		return nil, err
	}

	return s.workItems.FindByID(ctx, id, false)
}

func (s *WorkItemService) ListByStatus(ctx context.Context, status string) ([]domain.WorkItem, error) {
	workItemStatus := domain.WorkItemStatus(status)
	if err := domain.ValidateStatus(workItemStatus); err != nil {
		return nil, err
	}

	return s.workItems.Find(ctx,
		domain.WorkItemQuery{Statuses: []domain.WorkItemStatus{workItemStatus}},
		scopedListOptions(defaultSortKey),
	)
}

func (s *WorkItemService) ListAssignedTo(ctx context.Context, userID string) ([]domain.WorkItem, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.workItems.Find(ctx,
		domain.WorkItemQuery{AssignedTo: userID},
		scopedListOptions(defaultSortKey),
	)
}

func (s *WorkItemService) ListCreatedBy(ctx context.Context, userID string) ([]domain.WorkItem, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	return s.workItems.Find(ctx,
		domain.WorkItemQuery{CreatedBy: userID},
		scopedListOptions(defaultSortKey),
	)
}

func (s *WorkItemService) ListOverdue(ctx context.Context) ([]domain.WorkItem, error) {
	now := time.Now()
	return s.workItems.Find(ctx, overdueQuery(now), domain.FindOptions{
		SortBy:    "dueDate",
		SortOrder: domain.SortDesc,
	})
}

// Stats issues the six counting sub-queries concurrently; they are
// independent read-only counts with no ordering dependency.
func (s *WorkItemService) Stats(ctx context.Context, filters domain.StatsFilters) (*domain.WorkItemStats, error) {
	base := domain.WorkItemQuery{}

	if filters.CreatedBy != "" {
		creatorID, err := s.resolveCreatorFilter(ctx, filters.CreatedBy)
		if err != nil {
			return nil, err
		}
		base.CreatedBy = creatorID
	}

	if filters.AssignedTo != "" {
		assigneeID, err := s.lookupByEmail(ctx, filters.AssignedTo)
		if err != nil {
			return nil, err
		}
		base.AssignedTo = assigneeID
	}

	stats := &domain.WorkItemStats{}
	if err := s.countStats(ctx, base, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// MyStats computes the same six counts scoped to items the user created or
// is assigned to, plus separate assigned-only and created-only counts and
// the derived completion/overdue rates.
func (s *WorkItemService) MyStats(ctx context.Context, userID string) (*domain.UserWorkItemStats, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	stats := &domain.UserWorkItemStats{}
	base := domain.WorkItemQuery{InvolvedUser: userID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.countStats(gctx, base, &stats.WorkItemStats)
	})
	g.Go(func() error {
		n, err := s.workItems.Count(gctx, domain.WorkItemQuery{AssignedTo: userID})
		stats.Assigned = n
		return err
	})
	g.Go(func() error {
		n, err := s.workItems.Count(gctx, domain.WorkItemQuery{CreatedBy: userID})
		stats.Created = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		stats.CompletionRate = int64(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
		stats.OverdueRate = int64(math.Round(float64(stats.Overdue) / float64(stats.Total) * 100))
	}

	return stats, nil
}

func (s *WorkItemService) BulkUpdate(ctx context.Context, ids []string, patch domain.BulkPatch) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrNoWorkItemIDs
	}

	var input domain.BulkUpdateInput

	if patch.AssignedToSet {
		input.AssignedToSet = true
		if patch.AssignedTo != nil {
			assigneeID, err := s.resolveAssigneeEmail(ctx, *patch.AssignedTo)
			if err != nil {
				return 0, err
			}
			input.AssignedTo = &assigneeID
		}
	}

	if patch.TagsSet {
		input.TagsSet = true
		input.Tags = patch.Tags
	}

	if patch.Status != nil {
		status := domain.WorkItemStatus(*patch.Status)
		input.Status = &status
	}
	if patch.Priority != nil {
		priority := domain.WorkItemPriority(*patch.Priority)
		input.Priority = &priority
	}

	if input.IsEmpty() {
		return 0, domain.ErrNoUpdateFields
	}

	if input.Status != nil {
		if err := domain.ValidateStatus(*input.Status); err != nil {
			return 0, err
		}
	}
	if input.Priority != nil {
		if err := domain.ValidatePriority(*input.Priority); err != nil {
			return 0, err
		}
	}

	return s.workItems.UpdateMany(ctx, ids, input)
}

// ListAssignees resolves the distinct set of current assignees. Any failure
// degrades to an empty list so the endpoint never breaks assignment UIs;
// the cause is logged since an empty result is otherwise indistinguishable
// from "no assignees".
func (s *WorkItemService) ListAssignees(ctx context.Context) ([]domain.User, error) {
	ids, err := s.workItems.DistinctAssignees(ctx)
	if err != nil {
		zap.L().Warn("failed to collect distinct assignees", zap.Error(err))
		return []domain.User{}, nil
	}

	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.directory.FindByID(ctx, id)
		if err != nil {
			zap.L().Warn("failed to resolve assignee", zap.String("user_id", id), zap.Error(err))
			return []domain.User{}, nil
		}
		users = append(users, *user)
	}

	return users, nil
}

func (s *WorkItemService) ListAvailableUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.directory.ListActive(ctx)
	if err != nil {
		zap.L().Error("failed to list directory users", zap.Error(err))
		return nil, domain.ErrAvailableUsersFetch
	}
	return users, nil
}

func (s *WorkItemService) countStats(ctx context.Context, base domain.WorkItemQuery, stats *domain.WorkItemStats) error {
	now := time.Now()
	overdue := overdueQuery(now)
	overdue.CreatedBy = base.CreatedBy
	overdue.AssignedTo = base.AssignedTo
	overdue.InvolvedUser = base.InvolvedUser

	counts := []struct {
		query domain.WorkItemQuery
		dest  *int64
	}{
		{base, &stats.Total},
		{withStatus(base, domain.WorkItemStatusPending), &stats.Pending},
		{withStatus(base, domain.WorkItemStatusInProgress), &stats.InProgress},
		{withStatus(base, domain.WorkItemStatusCompleted), &stats.Completed},
		{withStatus(base, domain.WorkItemStatusCancelled), &stats.Cancelled},
		{overdue, &stats.Overdue},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, count := range counts {
		count := count
		g.Go(func() error {
			n, err := s.workItems.Count(gctx, count.query)
			*count.dest = n
			return err
		})
	}
	return g.Wait()
}

// resolveAssigneeEmail validates the email shape, then resolves it against
// the directory, converting a miss into the per-email not-found error.
func (s *WorkItemService) resolveAssigneeEmail(ctx context.Context, email string) (string, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return "", err
	}
	return s.lookupByEmail(ctx, email)
}

func (s *WorkItemService) lookupByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.directory.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.NewUserEmailNotFoundError(email)
		}
		return "", err
	}
	return user.ID, nil
}

// resolveCreatorFilter accepts either an email or a raw 24-hex identifier.
func (s *WorkItemService) resolveCreatorFilter(ctx context.Context, value string) (string, error) {
	if domain.ValidateEmail(value) == nil {
		return s.lookupByEmail(ctx, value)
	}
	if domain.IsValidIdentifier(value) {
		return value, nil
	}
	return "", domain.NewValidationError("Invalid createdBy filter")
}

func withStatus(base domain.WorkItemQuery, status domain.WorkItemStatus) domain.WorkItemQuery {
	query := base
	query.Statuses = []domain.WorkItemStatus{status}
	return query
}

func scopedListOptions(sortBy string) domain.FindOptions {
	return domain.FindOptions{
		Page:      defaultPage,
		Limit:     scopedListCap,
		SortBy:    sortBy,
		SortOrder: domain.SortDesc,
	}
}

func overdueQuery(now time.Time) domain.WorkItemQuery {
	return domain.WorkItemQuery{
		ExcludeStatuses: []domain.WorkItemStatus{
			domain.WorkItemStatusCompleted,
			domain.WorkItemStatusCancelled,
		},
		DueBefore: &now,
	}
}

func toStatuses(values []string) []domain.WorkItemStatus {
	if len(values) == 0 {
		return nil
	}
	statuses := make([]domain.WorkItemStatus, 0, len(values))
	for _, value := range values {
		statuses = append(statuses, domain.WorkItemStatus(value))
	}
	return statuses
}

func toPriorities(values []string) []domain.WorkItemPriority {
	if len(values) == 0 {
		return nil
	}
	priorities := make([]domain.WorkItemPriority, 0, len(values))
	for _, value := range values {
		priorities = append(priorities, domain.WorkItemPriority(value))
	}
	return priorities
}
