package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/isha-gohel181/rewear/internal/infra/logger"
	"github.com/isha-gohel181/rewear/internal/infra/security"
	"github.com/isha-gohel181/rewear/internal/usecase"
)

// signatureHeader carries the provider's HMAC-SHA256 of the raw body.
const signatureHeader = "X-Webhook-Signature"

// identityEvent mirrors the provider's webhook envelope.
type identityEvent struct {
	Type string            `json:"type"`
	Data identityEventData `json:"data"`
}

type identityEventData struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// WebhookHandler ingests identity provider lifecycle events and keeps the
// local account projection in sync.
type WebhookHandler struct {
	users    *usecase.UserService
	verifier *security.WebhookVerifier
}

func NewWebhookHandler(users *usecase.UserService, verifier *security.WebhookVerifier) *WebhookHandler {
	return &WebhookHandler{users: users, verifier: verifier}
}

// HandleIdentityEvent verifies and applies one provisioning event. Unknown
// event types are acknowledged without action so the provider stops retrying.
func (h *WebhookHandler) HandleIdentityEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "failed to read webhook body"))
		return
	}

	if err := h.verifier.Verify(body, c.GetHeader(signatureHeader)); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid webhook signature"))
		return
	}

	var event identityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid webhook payload"))
		return
	}

	externalID := strings.TrimSpace(event.Data.ID)
	if externalID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "webhook payload missing user id"))
		return
	}

	ctx := c.Request.Context()
	log := logger.WithContext(ctx)

	input := usecase.ProvisionUserInput{
		ExternalID: externalID,
		Email:      strings.TrimSpace(event.Data.Email),
		FirstName:  strings.TrimSpace(event.Data.FirstName),
		LastName:   strings.TrimSpace(event.Data.LastName),
		Username:   event.Data.Username,
		AvatarURL:  event.Data.AvatarURL,
	}

	switch event.Type {
	case "user.created":
		if _, err := h.users.Provision(ctx, input); err != nil {
			log.Error("webhook provision failed", zap.String("external_id", externalID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to provision user"))
			return
		}
	case "user.updated":
		if _, err := h.users.Sync(ctx, input); err != nil {
			log.Error("webhook sync failed", zap.String("external_id", externalID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to sync user"))
			return
		}
	case "user.deleted":
		if err := h.users.DeactivateByExternalID(ctx, externalID); err != nil {
			log.Error("webhook deactivate failed", zap.String("external_id", externalID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to deactivate user"))
			return
		}
	default:
		log.Info("ignoring unhandled webhook event", zap.String("type", event.Type))
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "event processed"})
}
