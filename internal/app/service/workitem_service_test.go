package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"heunets/internal/app/service"
	"heunets/internal/core/domain"
)

type workItemRepoMock struct {
	mock.Mock
}

func (m *workItemRepoMock) Insert(ctx context.Context, input domain.CreateWorkItemInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *workItemRepoMock) FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.WorkItem, error) {
	args := m.Called(ctx, id, includeDeleted)

	var item *domain.WorkItem
	if value := args.Get(0); value != nil {
		item = value.(*domain.WorkItem)
	}
	return item, args.Error(1)
}

func (m *workItemRepoMock) Find(ctx context.Context, query domain.WorkItemQuery, opts domain.FindOptions) ([]domain.WorkItem, error) {
	args := m.Called(ctx, query, opts)

	var items []domain.WorkItem
	if value := args.Get(0); value != nil {
		items = value.([]domain.WorkItem)
	}
	return items, args.Error(1)
}

func (m *workItemRepoMock) Count(ctx context.Context, query domain.WorkItemQuery) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *workItemRepoMock) Update(ctx context.Context, id string, input domain.UpdateWorkItemInput) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *workItemRepoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *workItemRepoMock) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *workItemRepoMock) HardDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *workItemRepoMock) UpdateMany(ctx context.Context, ids []string, input domain.BulkUpdateInput) (int64, error) {
	args := m.Called(ctx, ids, input)
	return args.Get(0).(int64), args.Error(1)
}

func (m *workItemRepoMock) DistinctAssignees(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	var ids []string
	if value := args.Get(0); value != nil {
		ids = value.([]string)
	}
	return ids, args.Error(1)
}

type directoryMock struct {
	mock.Mock
}

func (m *directoryMock) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)

	var user *domain.User
	if value := args.Get(0); value != nil {
		user = value.(*domain.User)
	}
	return user, args.Error(1)
}

func (m *directoryMock) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)

	var user *domain.User
	if value := args.Get(0); value != nil {
		user = value.(*domain.User)
	}
	return user, args.Error(1)
}

func (m *directoryMock) ListActive(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)

	var users []domain.User
	if value := args.Get(0); value != nil {
		users = value.([]domain.User)
	}
	return users, args.Error(1)
}

const (
	creatorID  = "507f1f77bcf86cd799439011"
	assigneeID = "507f1f77bcf86cd799439012"
	itemID     = "65b1f77bcf86cd7994390100"
)

func newService() (*service.WorkItemService, *workItemRepoMock, *directoryMock) {
	repo := new(workItemRepoMock)
	directory := new(directoryMock)
	return service.NewWorkItemService(repo, directory), repo, directory
}

func storedItem(status domain.WorkItemStatus) *domain.WorkItem {
	return &domain.WorkItem{
		ID:          itemID,
		Title:       "Fix Bug",
		Description: "Important bug fix",
		Status:      status,
		Priority:    domain.WorkItemPriorityHigh,
		CreatedBy:   creatorID,
		IsActive:    true,
		CreatedAt:   time.Now().Add(-time.Hour),
		UpdatedAt:   time.Now().Add(-time.Hour),
	}
}

func TestCreate_DefaultsAndTrimming(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(input domain.CreateWorkItemInput) bool {
		return input.Title == "Fix Bug" &&
			input.Description == "Important bug fix" &&
			input.Status == domain.WorkItemStatusPending &&
			input.Priority == domain.WorkItemPriorityMedium &&
			input.AssignedTo == nil
	})).Return(itemID, nil).Once()
	repo.On("FindByID", mock.Anything, itemID, false).Return(storedItem(domain.WorkItemStatusPending), nil).Once()

	item, err := svc.Create(context.Background(), domain.CreateWorkItemInput{
		Title:       "  Fix Bug  ",
		Description: "  Important bug fix  ",
		CreatedBy:   creatorID,
	})

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, itemID, item.ID)
	repo.AssertExpectations(t)
}

func TestCreate_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		input   domain.CreateWorkItemInput
		message string
	}{
		{
			name:    "short title",
			input:   domain.CreateWorkItemInput{Title: "ab", Description: "Important bug fix"},
			message: "Title must be at least 3 characters long",
		},
		{
			name:    "missing title",
			input:   domain.CreateWorkItemInput{Title: "   ", Description: "Important bug fix"},
			message: "Title is required",
		},
		{
			name:    "short description",
			input:   domain.CreateWorkItemInput{Title: "Fix Bug", Description: "too short"},
			message: "Description must be at least 10 characters long",
		},
		{
			name:    "bad priority",
			input:   domain.CreateWorkItemInput{Title: "Fix Bug", Description: "Important bug fix", Priority: "critical"},
			message: "Priority must be one of: low, medium, high, urgent",
		},
		{
			name:    "bad status",
			input:   domain.CreateWorkItemInput{Title: "Fix Bug", Description: "Important bug fix", Status: "done"},
			message: "Status must be one of: pending, in_progress, completed, cancelled",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newService()

			_, err := svc.Create(context.Background(), tc.input)

			require.Error(t, err)
			assert.Equal(t, tc.message, err.Error())
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_AssigneeResolution(t *testing.T) {
	svc, repo, directory := newService()

	email := "Bob@Example.com"
	directory.On("FindByEmail", mock.Anything, "bob@example.com").
		Return(&domain.User{ID: assigneeID, FirstName: "Bob", LastName: "Stone", Email: "bob@example.com"}, nil).Once()
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(input domain.CreateWorkItemInput) bool {
		return input.AssignedTo != nil && *input.AssignedTo == assigneeID
	})).Return(itemID, nil).Once()
	repo.On("FindByID", mock.Anything, itemID, false).Return(storedItem(domain.WorkItemStatusPending), nil).Once()

	_, err := svc.Create(context.Background(), domain.CreateWorkItemInput{
		Title:       "Fix Bug",
		Description: "Important bug fix",
		CreatedBy:   creatorID,
		AssignedTo:  &email,
	})

	require.NoError(t, err)
	directory.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCreate_AssigneeInvalidEmail(t *testing.T) {
	svc, _, directory := newService()

	email := "not-an-email"
	_, err := svc.Create(context.Background(), domain.CreateWorkItemInput{
		Title:       "Fix Bug",
		Description: "Important bug fix",
		AssignedTo:  &email,
	})

	require.Error(t, err)
	assert.Equal(t, "Invalid email format", err.Error())
	directory.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestCreate_AssigneeUnknown(t *testing.T) {
	svc, repo, directory := newService()

	email := "ghost@example.com"
	directory.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, domain.ErrIdentityNotFound).Once()

	_, err := svc.Create(context.Background(), domain.CreateWorkItemInput{
		Title:       "Fix Bug",
		Description: "Important bug fix",
		AssignedTo:  &email,
	})

	require.Error(t, err)
	assert.Equal(t, "User with email ghost@example.com does not exist", err.Error())
	assert.True(t, domain.IsNotFound(err))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreate_PastDueDate(t *testing.T) {
	svc, repo, _ := newService()

	past := time.Now().Add(-time.Hour)
	_, err := svc.Create(context.Background(), domain.CreateWorkItemInput{
		Title:       "Fix Bug",
		Description: "Important bug fix",
		DueDate:     &past,
	})

	require.Error(t, err)
	assert.Equal(t, "Due date cannot be in the past", err.Error())
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUpdate_SetsCompletedAtOnTransitionIn(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByID", mock.Anything, itemID, false).Return(storedItem(domain.WorkItemStatusInProgress), nil)
	repo.On("Update", mock.Anything, itemID, mock.MatchedBy(func(input domain.UpdateWorkItemInput) bool {
		return input.CompletedAtSet && input.CompletedAt != nil &&
			input.Status != nil && *input.Status == domain.WorkItemStatusCompleted
	})).Return(nil).Once()

	status := "completed"
	_, err := svc.Update(context.Background(), itemID, domain.WorkItemPatch{Status: &status})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_ClearsCompletedAtOnTransitionOut(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByID", mock.Anything, itemID, false).Return(storedItem(domain.WorkItemStatusCompleted), nil)
	repo.On("Update", mock.Anything, itemID, mock.MatchedBy(func(input domain.UpdateWorkItemInput) bool {
		return input.CompletedAtSet && input.CompletedAt == nil
	})).Return(nil).Once()

	status := "pending"
	_, err := svc.Update(context.Background(), itemID, domain.WorkItemPatch{Status: &status})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_LeavesCompletedAtBetweenNonCompletedStatuses(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByID", mock.Anything, itemID, false).Return(storedItem(domain.WorkItemStatusPending), nil)
	repo.On("Update", mock.Anything, itemID, mock.MatchedBy(func(input domain.UpdateWorkItemInput) bool {
		return !input.CompletedAtSet
	})).Return(nil).Once()

	status := "in_progress"
	_, err := svc.Update(context.Background(), itemID, domain.WorkItemPatch{Status: &status})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByID", mock.Anything, itemID, false).Return(nil, domain.ErrWorkItemNotFound).Once()

	status := "completed"
	_, err := svc.Update(context.Background(), itemID, domain.WorkItemPatch{Status: &status})

	require.Error(t, err)
	assert.Equal(t, "Work item not found", err.Error())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_PastDueDateRejected(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByID", mock.Anything, itemID, false).Return(storedItem(domain.WorkItemStatusPending), nil).Once()

	past := time.Now().Add(-time.Hour)
	_, err := svc.Update(context.Background(), itemID, domain.WorkItemPatch{DueDate: &past, DueDateSet: true})

	require.Error(t, err)
	assert.Equal(t, "Due date cannot be in the past", err.Error())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OverdueItemEditableWithoutTouchingDueDate(t *testing.T) {
	svc, repo, _ := newService()

	overdue := storedItem(domain.WorkItemStatusPending)
	past := time.Now().Add(-48 * time.Hour)
	overdue.DueDate = &past

	repo.On("FindByID", mock.Anything, itemID, false).Return(overdue, nil)
	repo.On("Update", mock.Anything, itemID, mock.MatchedBy(func(input domain.UpdateWorkItemInput) bool {
		return input.Title != nil && !input.DueDateSet
	})).Return(nil).Once()

	title := "Renamed item"
	_, err := svc.Update(context.Background(), itemID, domain.WorkItemPatch{Title: &title})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRestore_Success(t *testing.T) {
	svc, repo, _ := newService()

	deleted := storedItem(domain.WorkItemStatusPending)
	deleted.IsActive = false

	repo.On("FindByID", mock.Anything, itemID, true).Return(deleted, nil).Once()
	repo.On("Restore", mock.Anything, itemID).Return(nil).Once()
	repo.On("FindByID", mock.Anything, itemID, false).Return(storedItem(domain.WorkItemStatusPending), nil).Once()

	item, err := svc.Restore(context.Background(), itemID)

	require.NoError(t, err)
	assert.True(t, item.IsActive)
	repo.AssertExpectations(t)
}

func TestRestore_NotDeleted(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByID", mock.Anything, itemID, true).Return(storedItem(domain.WorkItemStatusPending), nil).Once()

	_, err := svc.Restore(context.Background(), itemID)

	require.Error(t, err)
	assert.Equal(t, "Work item is not deleted", err.Error())
	repo.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything)
}

func TestRestore_Absent(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByID", mock.Anything, itemID, true).Return(nil, domain.ErrWorkItemNotFound).Once()

	_, err := svc.Restore(context.Background(), itemID)

	require.Error(t, err)
	assert.Equal(t, "Deleted work item not found", err.Error())
	assert.True(t, domain.IsNotFound(err))
}

func TestList_DefaultsAndPagination(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("Count", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
		return !query.IncludeDeleted && len(query.Statuses) == 2
	})).Return(int64(25), nil).Once()
	repo.On("Find", mock.Anything, mock.Anything, mock.MatchedBy(func(opts domain.FindOptions) bool {
		return opts.Page == 1 && opts.Limit == 10 &&
			opts.SortBy == "createdAt" && opts.SortOrder == domain.SortDesc
	})).Return([]domain.WorkItem{*storedItem(domain.WorkItemStatusPending)}, nil).Once()

	page, err := svc.List(context.Background(), domain.ListFilters{
		Statuses: []string{"pending", "completed"},
	}, domain.FindOptions{})

	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Pagination.Total)
	assert.Equal(t, int64(1), page.Pagination.Page)
	assert.Equal(t, int64(3), page.Pagination.Pages)
	assert.Equal(t, int64(10), page.Pagination.Limit)
	assert.Len(t, page.Items, 1)
	repo.AssertExpectations(t)
}

func TestList_AssigneeEmailUnknown(t *testing.T) {
	svc, repo, directory := newService()

	directory.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, domain.ErrIdentityNotFound).Once()

	_, err := svc.List(context.Background(), domain.ListFilters{AssignedTo: "ghost@example.com"}, domain.FindOptions{})

	require.Error(t, err)
	assert.Equal(t, "User with email ghost@example.com does not exist", err.Error())
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestListByStatus_InvalidStatus(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.ListByStatus(context.Background(), "bogus")

	require.Error(t, err)
	assert.Equal(t, "Status must be one of: pending, in_progress, completed, cancelled", err.Error())
	repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}

func TestListByStatus_CapsResults(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("Find", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
		return len(query.Statuses) == 1 && query.Statuses[0] == domain.WorkItemStatusPending
	}), mock.MatchedBy(func(opts domain.FindOptions) bool {
		return opts.Limit == 1000
	})).Return([]domain.WorkItem{}, nil).Once()

	_, err := svc.ListByStatus(context.Background(), "pending")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListOverdue_Query(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("Find", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
		return query.DueBefore != nil && len(query.ExcludeStatuses) == 2
	}), mock.MatchedBy(func(opts domain.FindOptions) bool {
		return opts.SortBy == "dueDate" && opts.SortOrder == domain.SortDesc
	})).Return([]domain.WorkItem{}, nil).Once()

	_, err := svc.ListOverdue(context.Background())

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func setupStatsCounts(repo *workItemRepoMock, match func(domain.WorkItemQuery) bool, total, pending, inProgress, completed, cancelled, overdue int64) {
	statusCount := map[domain.WorkItemStatus]int64{
		domain.WorkItemStatusPending:    pending,
		domain.WorkItemStatusInProgress: inProgress,
		domain.WorkItemStatusCompleted:  completed,
		domain.WorkItemStatusCancelled:  cancelled,
	}

	repo.On("Count", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
		return match(query) && len(query.Statuses) == 0 && query.DueBefore == nil
	})).Return(total, nil).Once()
	for status, count := range statusCount {
		status, count := status, count
		repo.On("Count", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
			return match(query) && len(query.Statuses) == 1 && query.Statuses[0] == status
		})).Return(count, nil).Once()
	}
	repo.On("Count", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
		return match(query) && query.DueBefore != nil
	})).Return(overdue, nil).Once()
}

func TestStats_Fixture(t *testing.T) {
	svc, repo, _ := newService()

	unscoped := func(query domain.WorkItemQuery) bool {
		return query.CreatedBy == "" && query.AssignedTo == "" && query.InvolvedUser == ""
	}
	setupStatsCounts(repo, unscoped, 10, 4, 3, 2, 1, 5)

	stats, err := svc.Stats(context.Background(), domain.StatsFilters{})

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(4), stats.Pending)
	assert.Equal(t, int64(3), stats.InProgress)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(5), stats.Overdue)
	repo.AssertExpectations(t)
}

func TestStats_CreatorFilterByIdentifier(t *testing.T) {
	svc, repo, directory := newService()

	scoped := func(query domain.WorkItemQuery) bool {
		return query.CreatedBy == creatorID
	}
	setupStatsCounts(repo, scoped, 3, 1, 1, 1, 0, 0)

	_, err := svc.Stats(context.Background(), domain.StatsFilters{CreatedBy: creatorID})

	require.NoError(t, err)
	directory.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestStats_CreatorFilterByEmail(t *testing.T) {
	svc, repo, directory := newService()

	directory.On("FindByEmail", mock.Anything, "jane@example.com").
		Return(&domain.User{ID: creatorID, Email: "jane@example.com"}, nil).Once()
	scoped := func(query domain.WorkItemQuery) bool {
		return query.CreatedBy == creatorID
	}
	setupStatsCounts(repo, scoped, 3, 1, 1, 1, 0, 0)

	_, err := svc.Stats(context.Background(), domain.StatsFilters{CreatedBy: "jane@example.com"})

	require.NoError(t, err)
	directory.AssertExpectations(t)
}

func TestStats_CreatorFilterNeitherForm(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.Stats(context.Background(), domain.StatsFilters{CreatedBy: "not-an-id"})

	require.Error(t, err)
	assert.Equal(t, "Invalid createdBy filter", err.Error())
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestMyStats_RequiresUserID(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.MyStats(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, "User ID is required", err.Error())
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestMyStats_Rates(t *testing.T) {
	svc, repo, _ := newService()

	involved := func(query domain.WorkItemQuery) bool {
		return query.InvolvedUser == creatorID
	}
	setupStatsCounts(repo, involved, 10, 2, 3, 4, 1, 2)
	repo.On("Count", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
		return query.AssignedTo == creatorID && query.InvolvedUser == ""
	})).Return(int64(6), nil).Once()
	repo.On("Count", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
		return query.CreatedBy == creatorID && query.InvolvedUser == ""
	})).Return(int64(7), nil).Once()

	stats, err := svc.MyStats(context.Background(), creatorID)

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(6), stats.Assigned)
	assert.Equal(t, int64(7), stats.Created)
	assert.Equal(t, int64(40), stats.CompletionRate)
	assert.Equal(t, int64(20), stats.OverdueRate)
	repo.AssertExpectations(t)
}

func TestMyStats_ZeroTotalHasZeroRates(t *testing.T) {
	svc, repo, _ := newService()

	involved := func(query domain.WorkItemQuery) bool {
		return query.InvolvedUser == creatorID
	}
	setupStatsCounts(repo, involved, 0, 0, 0, 0, 0, 0)
	repo.On("Count", mock.Anything, mock.MatchedBy(func(query domain.WorkItemQuery) bool {
		return query.InvolvedUser == "" && (query.AssignedTo == creatorID || query.CreatedBy == creatorID)
	})).Return(int64(0), nil).Twice()

	stats, err := svc.MyStats(context.Background(), creatorID)

	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.CompletionRate)
	assert.Equal(t, int64(0), stats.OverdueRate)
}

func TestBulkUpdate_NoIDs(t *testing.T) {
	svc, repo, _ := newService()

	status := "completed"
	_, err := svc.BulkUpdate(context.Background(), nil, domain.BulkPatch{Status: &status})

	require.Error(t, err)
	assert.Equal(t, "No work item IDs provided", err.Error())
	repo.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpdate_EmptyPatch(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.BulkUpdate(context.Background(), []string{itemID}, domain.BulkPatch{})

	require.Error(t, err)
	assert.Equal(t, "No valid update fields provided", err.Error())
	repo.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpdate_InvalidStatus(t *testing.T) {
	svc, repo, _ := newService()

	status := "done"
	_, err := svc.BulkUpdate(context.Background(), []string{itemID}, domain.BulkPatch{Status: &status})

	require.Error(t, err)
	assert.Equal(t, "Status must be one of: pending, in_progress, completed, cancelled", err.Error())
	repo.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpdate_Success(t *testing.T) {
	svc, repo, directory := newService()

	email := "bob@example.com"
	directory.On("FindByEmail", mock.Anything, "bob@example.com").
		Return(&domain.User{ID: assigneeID}, nil).Once()
	repo.On("UpdateMany", mock.Anything, []string{itemID}, mock.MatchedBy(func(input domain.BulkUpdateInput) bool {
		return input.Status != nil && *input.Status == domain.WorkItemStatusCompleted &&
			input.AssignedToSet && input.AssignedTo != nil && *input.AssignedTo == assigneeID
	})).Return(int64(3), nil).Once()

	status := "completed"
	modified, err := svc.BulkUpdate(context.Background(), []string{itemID}, domain.BulkPatch{
		Status:        &status,
		AssignedTo:    &email,
		AssignedToSet: true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), modified)
	repo.AssertExpectations(t)
}

func TestListAssignees_Success(t *testing.T) {
	svc, repo, directory := newService()

	repo.On("DistinctAssignees", mock.Anything).Return([]string{assigneeID}, nil).Once()
	directory.On("FindByID", mock.Anything, assigneeID).
		Return(&domain.User{ID: assigneeID, FirstName: "Bob", LastName: "Stone", Email: "bob@example.com"}, nil).Once()

	users, err := svc.ListAssignees(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].FirstName)
}

func TestListAssignees_SwallowsRepositoryError(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("DistinctAssignees", mock.Anything).Return(nil, errors.New("db is down")).Once()

	users, err := svc.ListAssignees(context.Background())

	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestListAssignees_SwallowsDirectoryError(t *testing.T) {
	svc, repo, directory := newService()

	repo.On("DistinctAssignees", mock.Anything).Return([]string{assigneeID}, nil).Once()
	directory.On("FindByID", mock.Anything, assigneeID).Return(nil, errors.New("directory down")).Once()

	users, err := svc.ListAssignees(context.Background())

	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestListAvailableUsers_GeneralizesFailure(t *testing.T) {
	svc, _, directory := newService()

	directory.On("ListActive", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := svc.ListAvailableUsers(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Failed to fetch available users", err.Error())

	var configurationErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &configurationErr)
}

func TestListAvailableUsers_Success(t *testing.T) {
	svc, _, directory := newService()

	directory.On("ListActive", mock.Anything).
		Return([]domain.User{{ID: assigneeID, FirstName: "Bob"}}, nil).Once()

	users, err := svc.ListAvailableUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestDelete_PropagatesNotFound(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("SoftDelete", mock.Anything, itemID).Return(domain.ErrWorkItemNotFound).Once()

	err := svc.Delete(context.Background(), itemID)

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}
