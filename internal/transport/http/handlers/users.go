package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/transport/http/middleware"
	"github.com/isha-gohel181/rewear/internal/usecase"
)

// UserHandler exposes account and profile endpoints.
type UserHandler struct {
	users *usecase.UserService
}

func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the caller's marketplace account.
func (h *UserHandler) Me(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	user, err := h.users.Me(c.Request.Context(), externalID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
		}, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, newUserPayload(user))
}

// UpdateMe edits the caller's profile fields.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), externalID, usecase.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
		}, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, newUserPayload(user))
}

// DeactivateMe soft-deletes the caller's account.
func (h *UserHandler) DeactivateMe(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), externalID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
		}, http.StatusInternalServerError, "failed to deactivate account")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account deactivated"})
}

// List returns active accounts; admin only.
func (h *UserHandler) List(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 0)

	users, total, err := h.users.List(c.Request.Context(), externalID, page, limit)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusForbidden, Message: "account not provisioned"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "admin access required"},
		}, http.StatusInternalServerError, "failed to list users")
		return
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = len(users)
	}

	c.JSON(http.StatusOK, UserListResponse{
		Users: newUserPayloads(users),
		Meta:  PageMeta{Page: page, Limit: limit, Total: total},
	})
}

// UpdateRole promotes or demotes a member; admin only.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	externalID, ok := middleware.GetAuthenticatedExternalID(c)
	if !ok || externalID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req UserRoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	user, err := h.users.UpdateRole(c.Request.Context(), externalID,
		strings.TrimSpace(req.UserID), domain.Role(strings.TrimSpace(req.Role)))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "admin access required"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrUserDeactivated, Status: http.StatusForbidden, Message: "account deactivated"},
			{Err: usecase.ErrInvalidRole, Status: http.StatusBadRequest, Message: "invalid role"},
		}, http.StatusInternalServerError, "failed to update role")
		return
	}

	c.JSON(http.StatusOK, newUserPayload(user))
}
