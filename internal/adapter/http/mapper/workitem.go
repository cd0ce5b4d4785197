package mapper

import (
	"time"

	"heunets/internal/adapter/http/dto"
	"heunets/internal/core/domain"
)

func ToWorkItemItems(items []domain.WorkItem) []dto.WorkItemItem {
	result := make([]dto.WorkItemItem, 0, len(items))
	for _, item := range items {
		result = append(result, ToWorkItemItem(item))
	}
	return result
}

// ToWorkItemItem shapes a stored item for clients: identity relations are
// replaced by their display attributes (or null when absent) and storage
// references are stripped.
func ToWorkItemItem(item domain.WorkItem) dto.WorkItemItem {
	out := dto.WorkItemItem{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Status:      string(item.Status),
		Priority:    string(item.Priority),
		CreatedBy:   ToUserRef(item.CreatedByUser),
		AssignedTo:  ToUserRef(item.AssignedToUser),
		Tags:        item.Tags,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}

	if out.Tags == nil {
		out.Tags = []string{}
	}
	if item.DueDate != nil {
		value := item.DueDate.Format(time.RFC3339)
		out.DueDate = &value
	}
	if item.CompletedAt != nil {
		value := item.CompletedAt.Format(time.RFC3339)
		out.CompletedAt = &value
	}

	return out
}

func ToUserRef(user *domain.User) *dto.UserRef {
	if user == nil {
		return nil
	}
	return &dto.UserRef{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		FullName:  user.FullName(),
	}
}

func ToUserRefs(users []domain.User) []dto.UserRef {
	result := make([]dto.UserRef, 0, len(users))
	for _, user := range users {
		result = append(result, *ToUserRef(&user))
	}
	return result
}

func ToWorkItemList(page *domain.WorkItemPage) dto.WorkItemList {
	return dto.WorkItemList{
		Items: ToWorkItemItems(page.Items),
		Pagination: dto.Pagination{
			Total: page.Pagination.Total,
			Page:  page.Pagination.Page,
			Pages: page.Pagination.Pages,
			Limit: page.Pagination.Limit,
		},
	}
}

func ToWorkItemStats(stats *domain.WorkItemStats) dto.WorkItemStats {
	return dto.WorkItemStats{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
		Cancelled:  stats.Cancelled,
		Overdue:    stats.Overdue,
	}
}

func ToUserWorkItemStats(stats *domain.UserWorkItemStats) dto.UserWorkItemStats {
	return dto.UserWorkItemStats{
		WorkItemStats:  ToWorkItemStats(&stats.WorkItemStats),
		Assigned:       stats.Assigned,
		Created:        stats.Created,
		CompletionRate: stats.CompletionRate,
		OverdueRate:    stats.OverdueRate,
	}
}
