package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"heunets/internal/adapter/http/dto"
	"heunets/internal/adapter/http/mapper"
	"heunets/internal/adapter/http/middleware"
	"heunets/internal/adapter/http/validation"
	"heunets/internal/core/domain"
	"heunets/internal/core/ports"
	"heunets/pkg/apierrors"
)

type WorkItemHandler struct {
	workItemService ports.WorkItemService
}

func NewWorkItemHandler(workItemService ports.WorkItemService) *WorkItemHandler {
	return &WorkItemHandler{workItemService: workItemService}
}

func (h *WorkItemHandler) Create(c *gin.Context) {
	lang := middleware.GetLang(c)

	creatorID := middleware.GetUserID(c)
	if creatorID == "" {
		h.respondError(c, domain.ErrUserIDRequired, "create without user identity")
		return
	}

	var req dto.CreateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(apierrors.MsgInvalidPayload, lang))
		return
	}

	input, err := validation.BuildCreateWorkItemInput(req, creatorID)
	if err != nil {
		h.respondError(c, err, "invalid create payload")
		return
	}

	item, err := h.workItemService.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "failed to create work item")
		return
	}

	c.JSON(http.StatusCreated, apierrors.SuccessWithMessage(mapper.ToWorkItemItem(*item), apierrors.MsgWorkItemCreated, lang))
}

func (h *WorkItemHandler) List(c *gin.Context) {
	filters := domain.ListFilters{
		Statuses:       splitCommaList(c.Query("status")),
		Priorities:     splitCommaList(c.Query("priority")),
		Tags:           splitCommaList(c.Query("tags")),
		AssignedTo:     c.Query("assignedTo"),
		CreatedBy:      c.Query("createdBy"),
		Search:         c.Query("search"),
		IncludeDeleted: c.Query("includeDeleted") == "true",
	}

	opts := domain.FindOptions{
		Page:      parseIntQuery(c, "page"),
		Limit:     parseIntQuery(c, "limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: domain.SortOrder(c.Query("sortOrder")),
	}

	page, err := h.workItemService.List(c.Request.Context(), filters, opts)
	if err != nil {
		h.respondError(c, err, "failed to list work items")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToWorkItemList(page)))
}

func (h *WorkItemHandler) Stats(c *gin.Context) {
	filters := domain.StatsFilters{
		CreatedBy:  c.Query("createdBy"),
		AssignedTo: c.Query("assignedTo"),
	}

	stats, err := h.workItemService.Stats(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to compute work item stats")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToWorkItemStats(stats)))
}

func (h *WorkItemHandler) MyStats(c *gin.Context) {
	stats, err := h.workItemService.MyStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err, "failed to compute user stats")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToUserWorkItemStats(stats)))
}

func (h *WorkItemHandler) MyAssigned(c *gin.Context) {
	items, err := h.workItemService.ListAssignedTo(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err, "failed to list assigned work items")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToWorkItemItems(items)))
}

func (h *WorkItemHandler) MyCreated(c *gin.Context) {
	items, err := h.workItemService.ListCreatedBy(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err, "failed to list created work items")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToWorkItemItems(items)))
}

func (h *WorkItemHandler) Overdue(c *gin.Context) {
	items, err := h.workItemService.ListOverdue(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to list overdue work items")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToWorkItemItems(items)))
}

func (h *WorkItemHandler) Assignees(c *gin.Context) {
	users, err := h.workItemService.ListAssignees(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to list assignees")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToUserRefs(users)))
}

func (h *WorkItemHandler) AvailableUsers(c *gin.Context) {
	users, err := h.workItemService.ListAvailableUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to list available users")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToUserRefs(users)))
}

func (h *WorkItemHandler) ByStatus(c *gin.Context) {
	items, err := h.workItemService.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		h.respondError(c, err, "failed to list work items by status")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToWorkItemItems(items)))
}

func (h *WorkItemHandler) GetByID(c *gin.Context) {
	item, err := h.workItemService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch work item")
		return
	}

	c.JSON(http.StatusOK, apierrors.Success(mapper.ToWorkItemItem(*item)))
}

func (h *WorkItemHandler) Update(c *gin.Context) {
	lang := middleware.GetLang(c)

	req, raw, ok := bindWithRawFields[dto.UpdateWorkItemRequest](c, lang)
	if !ok {
		return
	}

	patch, err := validation.BuildWorkItemPatch(req, raw)
	if err != nil {
		h.respondError(c, err, "invalid update payload")
		return
	}

	item, err := h.workItemService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err, "failed to update work item")
		return
	}

	c.JSON(http.StatusOK, apierrors.SuccessWithMessage(mapper.ToWorkItemItem(*item), apierrors.MsgWorkItemUpdated, lang))
}

func (h *WorkItemHandler) BulkUpdate(c *gin.Context) {
	lang := middleware.GetLang(c)

	req, raw, ok := bindWithRawFields[dto.BulkUpdateRequest](c, lang)
	if !ok {
		return
	}

	var updateFields map[string]json.RawMessage
	if rawUpdate, exists := raw["update"]; exists {
		if err := json.Unmarshal(rawUpdate, &updateFields); err != nil {
			c.JSON(http.StatusBadRequest, apierrors.CreateError(apierrors.MsgInvalidPayload, lang))
			return
		}
	}

	patch := validation.BuildBulkPatch(req.Update, updateFields)
	modified, err := h.workItemService.BulkUpdate(c.Request.Context(), req.IDs, patch)
	if err != nil {
		h.respondError(c, err, "failed to bulk update work items")
		return
	}

	c.JSON(http.StatusOK, apierrors.SuccessWithMessage(
		dto.BulkUpdateResult{ModifiedCount: modified},
		apierrors.MsgWorkItemsUpdated,
		lang,
	))
}

func (h *WorkItemHandler) Delete(c *gin.Context) {
	lang := middleware.GetLang(c)

	if err := h.workItemService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete work item")
		return
	}

	c.JSON(http.StatusOK, apierrors.SuccessMessage(apierrors.MsgWorkItemDeleted, lang))
}

func (h *WorkItemHandler) PermanentlyDelete(c *gin.Context) {
	lang := middleware.GetLang(c)

	if err := h.workItemService.PermanentlyDelete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to permanently delete work item")
		return
	}

	c.JSON(http.StatusOK, apierrors.SuccessMessage(apierrors.MsgWorkItemObliterated, lang))
}

func (h *WorkItemHandler) Restore(c *gin.Context) {
	lang := middleware.GetLang(c)

	item, err := h.workItemService.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to restore work item")
		return
	}

	c.JSON(http.StatusOK, apierrors.SuccessWithMessage(mapper.ToWorkItemItem(*item), apierrors.MsgWorkItemRestored, lang))
}

func (h *WorkItemHandler) respondError(c *gin.Context, err error, logMsg string) {
	status, resp := apierrors.MapError(err, middleware.GetLang(c))
	if status == http.StatusInternalServerError {
		zap.L().Error(logMsg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, resp)
}

// bindWithRawFields decodes the body into both a typed request and a raw
// field map, so patch builders can tell explicit nulls from absent fields.
func bindWithRawFields[T any](c *gin.Context, lang string) (T, map[string]json.RawMessage, bool) {
	var req T

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(apierrors.MsgInvalidPayload, lang))
		return req, nil, false
	}
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(apierrors.MsgInvalidPayload, lang))
		return req, nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(apierrors.MsgInvalidPayload, lang))
		return req, nil, false
	}

	return req, raw, true
}

func splitCommaList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func parseIntQuery(c *gin.Context, key string) int64 {
	value, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return value
}
