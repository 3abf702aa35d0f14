package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// PageMeta carries pagination counters on list responses.
type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// UserPayload describes a marketplace account as returned by the API.
type UserPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Username  *string   `json:"username,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Points    int       `json:"points"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdateRequest defines the self-service profile edit payload.
type UserUpdateRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UserListResponse wraps a page of accounts for the admin listing.
type UserListResponse struct {
	Users []UserPayload `json:"users"`
	Meta  PageMeta      `json:"meta"`
}

// UserRoleUpdateRequest defines the admin role change payload.
type UserRoleUpdateRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// ItemPayload describes a garment listing as returned by the API.
type ItemPayload struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	GarmentType     string    `json:"garment_type,omitempty"`
	Size            string    `json:"size,omitempty"`
	Condition       string    `json:"condition"`
	Images          []string  `json:"images"`
	Tags            []string  `json:"tags"`
	PointValue      int       `json:"point_value"`
	Status          string    `json:"status"`
	ModerationNotes *string   `json:"moderation_notes,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ItemCreateRequest defines the payload for listing a garment.
type ItemCreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	GarmentType string   `json:"garment_type"`
	Size        string   `json:"size"`
	Condition   string   `json:"condition" binding:"required"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	PointValue  int      `json:"point_value"`
}

// ItemUpdateRequest defines the owner edit payload. Omitted fields are left unchanged.
type ItemUpdateRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	GarmentType *string  `json:"garment_type,omitempty"`
	Size        *string  `json:"size,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	Images      []string `json:"images,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PointValue  *int     `json:"point_value,omitempty"`
}

// ItemModerateRequest defines the admin review payload.
type ItemModerateRequest struct {
	ItemID string  `json:"item_id" binding:"required"`
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes,omitempty"`
}

// ItemListResponse wraps a page of catalog listings.
type ItemListResponse struct {
	Items []ItemPayload `json:"items"`
	Meta  PageMeta      `json:"meta"`
}

// SwapMessagePayload describes one entry of a swap conversation.
type SwapMessagePayload struct {
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SwapPayload describes a swap transaction as returned by the API.
type SwapPayload struct {
	ID              string               `json:"id"`
	RequesterID     string               `json:"requester_id"`
	ProviderID      string               `json:"provider_id"`
	RequestedItemID string               `json:"requested_item_id"`
	OfferedItemID   *string              `json:"offered_item_id,omitempty"`
	Type            string               `json:"type"`
	PointsExchanged int                  `json:"points_exchanged"`
	Status          string               `json:"status"`
	Messages        []SwapMessagePayload `json:"messages"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// SwapRequestRequest defines the payload for opening a swap.
type SwapRequestRequest struct {
	RequestedItemID string  `json:"requested_item_id" binding:"required"`
	OfferedItemID   *string `json:"offered_item_id,omitempty"`
	Type            string  `json:"type" binding:"required"`
	Message         string  `json:"message"`
}

// SwapRespondRequest defines the provider's decision payload.
type SwapRespondRequest struct {
	SwapID string `json:"swap_id" binding:"required"`
	Accept bool   `json:"accept"`
}

// SwapMessageRequest defines the conversation append payload.
type SwapMessageRequest struct {
	SwapID  string `json:"swap_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// SwapListResponse wraps a page of a user's swaps.
type SwapListResponse struct {
	Swaps []SwapPayload `json:"swaps"`
	Meta  PageMeta      `json:"meta"`
}

// PendingItemsResponse wraps the moderation queue page.
type PendingItemsResponse struct {
	Items []ItemPayload `json:"items"`
	Meta  PageMeta      `json:"meta"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// newUserPayload converts a domain user to its API representation.
func newUserPayload(user *domain.User) UserPayload {
	return UserPayload{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Points:    user.Points,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// newItemPayload converts a domain item to its API representation.
func newItemPayload(item *domain.Item) ItemPayload {
	images := item.Images
	if images == nil {
		images = []string{}
	}
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	return ItemPayload{
		ID:              item.ID,
		OwnerID:         item.OwnerID,
		Title:           item.Title,
		Description:     item.Description,
		Category:        item.Category,
		GarmentType:     item.GarmentType,
		Size:            item.Size,
		Condition:       item.Condition,
		Images:          images,
		Tags:            tags,
		PointValue:      item.PointValue,
		Status:          string(item.Status),
		ModerationNotes: item.ModerationNotes,
		IsActive:        item.IsActive,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// newSwapPayload converts a domain swap to its API representation.
func newSwapPayload(swap *domain.Swap) SwapPayload {
	messages := make([]SwapMessagePayload, 0, len(swap.Messages))
	for _, msg := range swap.Messages {
		messages = append(messages, SwapMessagePayload{
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}

	return SwapPayload{
		ID:              swap.ID,
		RequesterID:     swap.RequesterID,
		ProviderID:      swap.ProviderID,
		RequestedItemID: swap.RequestedItemID,
		OfferedItemID:   swap.OfferedItemID,
		Type:            string(swap.Type),
		PointsExchanged: swap.PointsExchanged,
		Status:          string(swap.Status),
		Messages:        messages,
		CreatedAt:       swap.CreatedAt,
		UpdatedAt:       swap.UpdatedAt,
	}
}

func newItemPayloads(items []domain.Item) []ItemPayload {
	payloads := make([]ItemPayload, 0, len(items))
	for i := range items {
		payloads = append(payloads, newItemPayload(&items[i]))
	}
	return payloads
}

func newSwapPayloads(swaps []domain.Swap) []SwapPayload {
	payloads := make([]SwapPayload, 0, len(swaps))
	for i := range swaps {
		payloads = append(payloads, newSwapPayload(&swaps[i]))
	}
	return payloads
}

func newUserPayloads(users []domain.User) []UserPayload {
	payloads := make([]UserPayload, 0, len(users))
	for i := range users {
		payloads = append(payloads, newUserPayload(&users[i]))
	}
	return payloads
}
