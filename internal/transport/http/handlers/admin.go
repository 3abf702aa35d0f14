package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isha-gohel181/rewear/internal/transport/http/middleware"
	"github.com/isha-gohel181/rewear/internal/usecase"
)

// AdminHandler exposes the moderation queue and the dashboard aggregate.
type AdminHandler struct {
	admin *usecase.AdminService
}

func NewAdminHandler(admin *usecase.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// PendingItems returns the moderation queue, oldest first.
func (h *AdminHandler) PendingItems(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 0)

	items, total, err := h.admin.PendingItems(c.Request.Context(), externalID, page, limit)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "admin access required"},
		}, http.StatusInternalServerError, "failed to list pending items")
		return
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = len(items)
	}

	c.JSON(http.StatusOK, PendingItemsResponse{
		Items: newItemPayloads(items),
		Meta:  PageMeta{Page: page, Limit: limit, Total: total},
	})
}

// DashboardStats returns the cached platform-wide counters.
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	stats, err := h.admin.DashboardStats(c.Request.Context(), externalID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "admin access required"},
		}, http.StatusInternalServerError, "failed to build dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
