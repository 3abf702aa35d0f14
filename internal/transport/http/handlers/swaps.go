package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/transport/http/middleware"
	"github.com/isha-gohel181/rewear/internal/usecase"
)

// SwapHandler exposes the swap engine: request, respond, query and messaging.
type SwapHandler struct {
	swaps *usecase.SwapService
}

func NewSwapHandler(swaps *usecase.SwapService) *SwapHandler {
	return &SwapHandler{swaps: swaps}
}

// Request opens a pending swap against another member's listing.
func (h *SwapHandler) Request(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req SwapRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid swap request payload"))
		return
	}

	input := usecase.SwapRequestInput{
		RequestedItemID: strings.TrimSpace(req.RequestedItemID),
		Type:            domain.SwapType(strings.TrimSpace(req.Type)),
		Message:         req.Message,
	}

	if req.OfferedItemID != nil {
		trimmed := strings.TrimSpace(*req.OfferedItemID)
		if trimmed != "" {
			offered := trimmed
			input.OfferedItemID = &offered
		}
	}

	swap, err := h.swaps.Request(c.Request.Context(), externalID, input)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrItemNotFound, Status: http.StatusNotFound, Message: "item not found"},
			{Err: usecase.ErrItemNotSwappable, Status: http.StatusBadRequest, Message: "item is not available for swapping"},
			{Err: usecase.ErrSelfSwap, Status: http.StatusBadRequest, Message: "cannot request a swap for your own item"},
			{Err: usecase.ErrOfferedItemRequired, Status: http.StatusBadRequest, Message: "direct swaps require an offered item"},
			{Err: usecase.ErrOfferedItemNotOwned, Status: http.StatusBadRequest, Message: "offered item does not belong to you"},
			{Err: usecase.ErrInsufficientPoints, Status: http.StatusBadRequest, Message: "insufficient points for redemption"},
			{Err: usecase.ErrInvalidSwapType, Status: http.StatusBadRequest, Message: "invalid swap type"},
		}, http.StatusInternalServerError, "failed to create swap request")
		return
	}

	c.JSON(http.StatusCreated, newSwapPayload(swap))
}

// Respond settles or rejects a pending swap on behalf of the provider.
func (h *SwapHandler) Respond(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req SwapRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid swap response payload"))
		return
	}

	swap, err := h.swaps.Respond(c.Request.Context(), externalID, usecase.SwapResponseInput{
		SwapID: strings.TrimSpace(req.SwapID),
		Accept: req.Accept,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrSwapNotFound, Status: http.StatusNotFound, Message: "swap not found"},
			{Err: usecase.ErrNotSwapProvider, Status: http.StatusForbidden, Message: "only the provider can respond to this swap"},
			{Err: usecase.ErrSwapNotPending, Status: http.StatusBadRequest, Message: "swap has already been resolved"},
			{Err: usecase.ErrInsufficientPoints, Status: http.StatusBadRequest, Message: "requester can no longer afford this swap; request was rejected"},
			{Err: usecase.ErrItemUnavailable, Status: http.StatusBadRequest, Message: "an item in this swap is no longer available; request was rejected"},
		}, http.StatusInternalServerError, "failed to resolve swap")
		return
	}

	c.JSON(http.StatusOK, newSwapPayload(swap))
}

// List returns the authenticated member's swaps with role and status filters.
func (h *SwapHandler) List(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	input := usecase.ListSwapsInput{
		Role:   strings.TrimSpace(c.Query("role")),
		Status: strings.TrimSpace(c.Query("status")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 0),
	}

	swaps, total, err := h.swaps.ListForUser(c.Request.Context(), externalID, input)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrInvalidSwapRole, Status: http.StatusBadRequest, Message: "invalid role filter"},
			{Err: usecase.ErrInvalidSwapStatus, Status: http.StatusBadRequest, Message: "invalid status filter"},
		}, http.StatusInternalServerError, "failed to list swaps")
		return
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = len(swaps)
	}

	c.JSON(http.StatusOK, SwapListResponse{
		Swaps: newSwapPayloads(swaps),
		Meta:  PageMeta{Page: page, Limit: limit, Total: total},
	})
}

// AddMessage appends to a swap's conversation thread.
func (h *SwapHandler) AddMessage(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req SwapMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid swap message payload"))
		return
	}

	swap, err := h.swaps.AddMessage(c.Request.Context(), externalID, strings.TrimSpace(req.SwapID), req.Content)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrSwapNotFound, Status: http.StatusNotFound, Message: "swap not found"},
			{Err: usecase.ErrNotSwapParticipant, Status: http.StatusForbidden, Message: "only swap participants can send messages"},
			{Err: usecase.ErrEmptyMessage, Status: http.StatusBadRequest, Message: "message content cannot be empty"},
		}, http.StatusInternalServerError, "failed to add swap message")
		return
	}

	c.JSON(http.StatusOK, newSwapPayload(swap))
}

// queryInt parses an integer query parameter, falling back on absence or junk.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
