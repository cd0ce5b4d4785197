package validation

import (
	"bytes"
	"encoding/json"
	"time"

	"heunets/internal/adapter/http/dto"
	"heunets/internal/core/domain"
)

// BuildCreateWorkItemInput assembles the service input from a create
// request. Field-level rules stay in the service; this layer only parses
// wire values.
func BuildCreateWorkItemInput(req dto.CreateWorkItemRequest, creatorID string) (domain.CreateWorkItemInput, error) {
	input := domain.CreateWorkItemInput{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   creatorID,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
	}

	if req.Status != nil {
		input.Status = domain.WorkItemStatus(*req.Status)
	}
	if req.Priority != nil {
		input.Priority = domain.WorkItemPriority(*req.Priority)
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			return domain.CreateWorkItemInput{}, err
		}
		input.DueDate = &dueDate
	}

	return input, nil
}

// BuildWorkItemPatch turns an update request into a patch. The raw message
// map distinguishes an explicit null (clear the field) from an absent one
// for the clearable fields.
func BuildWorkItemPatch(req dto.UpdateWorkItemRequest, raw map[string]json.RawMessage) (domain.WorkItemPatch, error) {
	patch := domain.WorkItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}

	if hasJSONField(raw, "assignedTo") {
		patch.AssignedToSet = true
		patch.AssignedTo = req.AssignedTo
	}
	if hasJSONField(raw, "tags") {
		patch.TagsSet = true
		patch.Tags = req.Tags
	}
	if hasJSONField(raw, "dueDate") {
		patch.DueDateSet = true
		if !isJSONNull(raw["dueDate"]) {
			if req.DueDate == nil {
				return domain.WorkItemPatch{}, domain.NewValidationError("Invalid due date")
			}
			dueDate, err := parseDate(*req.DueDate)
			if err != nil {
				return domain.WorkItemPatch{}, err
			}
			patch.DueDate = &dueDate
		}
	}

	return patch, nil
}

// BuildBulkPatch turns the bulk update fields into a patch, restricted to
// the bulk allow-list.
func BuildBulkPatch(req dto.BulkUpdateFields, raw map[string]json.RawMessage) domain.BulkPatch {
	patch := domain.BulkPatch{
		Status:   req.Status,
		Priority: req.Priority,
	}

	if hasJSONField(raw, "assignedTo") {
		patch.AssignedToSet = true
		patch.AssignedTo = req.AssignedTo
	}
	if hasJSONField(raw, "tags") {
		patch.TagsSet = true
		patch.Tags = req.Tags
	}

	return patch
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.NewValidationError("Invalid due date")
	}
	return parsed, nil
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
