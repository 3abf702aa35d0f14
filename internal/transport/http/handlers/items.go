package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/transport/http/middleware"
	"github.com/isha-gohel181/rewear/internal/usecase"
)

// ItemHandler exposes garment listing endpoints.
type ItemHandler struct {
	items *usecase.ItemService
}

func NewItemHandler(items *usecase.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// Create lists a new garment; it enters the moderation queue as pending.
func (h *ItemHandler) Create(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req ItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid item payload"))
		return
	}

	item, err := h.items.Create(c.Request.Context(), externalID, usecase.CreateItemInput{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		GarmentType: strings.TrimSpace(req.GarmentType),
		Size:        strings.TrimSpace(req.Size),
		Condition:   strings.TrimSpace(req.Condition),
		Images:      req.Images,
		Tags:        req.Tags,
		PointValue:  req.PointValue,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrTitleRequired, Status: http.StatusBadRequest, Message: "title is required"},
			{Err: usecase.ErrInvalidCategory, Status: http.StatusBadRequest, Message: "invalid category"},
			{Err: usecase.ErrInvalidCondition, Status: http.StatusBadRequest, Message: "invalid condition"},
			{Err: usecase.ErrInvalidPointValue, Status: http.StatusBadRequest, Message: "point value must be positive"},
		}, http.StatusInternalServerError, "failed to create item")
		return
	}

	c.JSON(http.StatusCreated, newItemPayload(item))
}

// Get fetches a single listing. Anonymous callers only see approved or
// swapped items; owners and admins can see their own regardless of status.
func (h *ItemHandler) Get(c *gin.Context) {
	externalID, _ := middleware.GetAuthenticatedExternalID(c)

	item, err := h.items.Get(c.Request.Context(), externalID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrItemNotFound, Status: http.StatusNotFound, Message: "item not found"},
		}, http.StatusInternalServerError, "failed to fetch item")
		return
	}

	c.JSON(http.StatusOK, newItemPayload(item))
}

// List browses the catalog with optional filters.
func (h *ItemHandler) List(c *gin.Context) {
	externalID, _ := middleware.GetAuthenticatedExternalID(c)

	input := usecase.ListItemsInput{
		Category:  strings.TrimSpace(c.Query("category")),
		Size:      strings.TrimSpace(c.Query("size")),
		Condition: strings.TrimSpace(c.Query("condition")),
		Search:    strings.TrimSpace(c.Query("search")),
		Status:    strings.TrimSpace(c.Query("status")),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 0),
	}

	items, total, err := h.items.List(c.Request.Context(), externalID, input)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list items")
		return
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = len(items)
	}

	c.JSON(http.StatusOK, ItemListResponse{
		Items: newItemPayloads(items),
		Meta:  PageMeta{Page: page, Limit: limit, Total: total},
	})
}

// Update edits a listing as its owner or an admin.
func (h *ItemHandler) Update(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req ItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid item payload"))
		return
	}

	item, err := h.items.Update(c.Request.Context(), externalID, usecase.UpdateItemInput{
		ItemID:      c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		GarmentType: req.GarmentType,
		Size:        req.Size,
		Condition:   req.Condition,
		Images:      req.Images,
		Tags:        req.Tags,
		PointValue:  req.PointValue,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrItemNotFound, Status: http.StatusNotFound, Message: "item not found"},
			{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "only the owner can edit this item"},
			{Err: usecase.ErrTitleRequired, Status: http.StatusBadRequest, Message: "title is required"},
			{Err: usecase.ErrInvalidCategory, Status: http.StatusBadRequest, Message: "invalid category"},
			{Err: usecase.ErrInvalidCondition, Status: http.StatusBadRequest, Message: "invalid condition"},
			{Err: usecase.ErrInvalidPointValue, Status: http.StatusBadRequest, Message: "point value must be positive"},
		}, http.StatusInternalServerError, "failed to update item")
		return
	}

	c.JSON(http.StatusOK, newItemPayload(item))
}

// Delete soft-deletes a listing.
func (h *ItemHandler) Delete(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	if err := h.items.Delete(c.Request.Context(), externalID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrItemNotFound, Status: http.StatusNotFound, Message: "item not found"},
			{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "only the owner can delete this item"},
		}, http.StatusInternalServerError, "failed to delete item")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "item deleted"})
}

// Moderate records an admin review decision for a pending listing.
func (h *ItemHandler) Moderate(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req ItemModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid moderation payload"))
		return
	}

	item, err := h.items.Moderate(c.Request.Context(), externalID, usecase.ModerateItemInput{
		ItemID: strings.TrimSpace(req.ItemID),
		Status: domain.ItemStatus(strings.TrimSpace(req.Status)),
		Notes:  req.Notes,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "admin access required"},
			{Err: usecase.ErrItemNotFound, Status: http.StatusNotFound, Message: "item not found"},
			{Err: usecase.ErrInvalidModerationStatus, Status: http.StatusBadRequest, Message: "invalid moderation status"},
		}, http.StatusInternalServerError, "failed to moderate item")
		return
	}

	c.JSON(http.StatusOK, newItemPayload(item))
}
