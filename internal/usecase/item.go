package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
	"github.com/isha-gohel181/rewear/internal/repository"
)

const (
	defaultItemPageSize = 12
	maxItemPageSize     = 100
)

// CreateItemInput captures the payload for listing a garment.
type CreateItemInput struct {
	Title       string
	Description string
	Category    string
	GarmentType string
	Size        string
	Condition   string
	Images      []string
	Tags        []string
	PointValue  int
}

// UpdateItemInput captures an owner's edit. Nil fields are left unchanged.
type UpdateItemInput struct {
	ItemID      string
	Title       *string
	Description *string
	Category    *string
	GarmentType *string
	Size        *string
	Condition   *string
	Images      []string
	Tags        []string
	PointValue  *int
}

// ListItemsInput captures catalog query filters.
type ListItemsInput struct {
	Category  string
	Size      string
	Condition string
	Search    string
	Status    string
	Page      int
	Limit     int
}

// ModerateItemInput captures an admin review decision.
type ModerateItemInput struct {
	ItemID string
	Status domain.ItemStatus
	Notes  *string
}

// ItemService handles the listing lifecycle around the swap engine: creation,
// catalog queries, owner edits and admin moderation.
type ItemService struct {
	users     port.UserRepository
	items     port.ItemRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewItemService constructs ItemService.
func NewItemService(users port.UserRepository, items port.ItemRepository, publisher port.EventPublisher, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{users: users, items: items, publisher: publisher, logger: logger}
}

// Create lists a new garment. The listing enters moderation as pending and is
// invisible to the catalog until approved.
func (s *ItemService) Create(ctx context.Context, externalID string, input CreateItemInput) (*domain.Item, error) {
	owner, err := lookupActiveUser(ctx, s.users, externalID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !domain.ItemCategories[input.Category] {
		return nil, ErrInvalidCategory
	}
	if !domain.ItemConditions[input.Condition] {
		return nil, ErrInvalidCondition
	}

	pointValue := input.PointValue
	if pointValue == 0 {
		pointValue = domain.DefaultPointValue
	}
	if pointValue < domain.MinPointValue {
		return nil, ErrInvalidPointValue
	}

	item := domain.Item{
		ID:          uuid.NewString(),
		OwnerID:     owner.ID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		GarmentType: strings.TrimSpace(input.GarmentType),
		Size:        strings.TrimSpace(input.Size),
		Condition:   input.Condition,
		Images:      input.Images,
		Tags:        input.Tags,
		PointValue:  pointValue,
		Status:      domain.ItemStatusPending,
		IsActive:    true,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	created, err := s.items.GetByID(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("reload item: %w", err)
	}
	return created, nil
}

// Get returns a single listing. Anonymous callers and non-owners only see
// active approved items; the owner and admins see everything.
func (s *ItemService) Get(ctx context.Context, externalID, itemID string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("lookup item: %w", err)
	}

	if item.Swappable() || item.Status == domain.ItemStatusSwapped {
		return item, nil
	}

	if externalID != "" {
		caller, err := lookupActiveUser(ctx, s.users, externalID)
		if err == nil && (caller.ID == item.OwnerID || caller.IsAdmin()) {
			return item, nil
		}
	}
	return nil, ErrItemNotFound
}

// List returns catalog listings. Non-admin callers are pinned to active,
// approved items regardless of the requested status filter.
func (s *ItemService) List(ctx context.Context, externalID string, input ListItemsInput) ([]domain.Item, int, error) {
	filter := port.ItemFilter{
		Category:   input.Category,
		Size:       input.Size,
		Condition:  input.Condition,
		Search:     strings.TrimSpace(input.Search),
		Status:     domain.ItemStatusApproved,
		ActiveOnly: true,
	}

	if externalID != "" {
		caller, err := lookupActiveUser(ctx, s.users, externalID)
		if err == nil && caller.IsAdmin() && input.Status != "" {
			filter.Status = domain.ItemStatus(input.Status)
			filter.ActiveOnly = false
		}
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultItemPageSize
	}
	if limit > maxItemPageSize {
		limit = maxItemPageSize
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	total, err := s.items.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}
	return items, total, nil
}

// Update edits a listing. Only the owner or an admin may edit; an owner edit
// of an already-approved item sends it back through moderation.
func (s *ItemService) Update(ctx context.Context, externalID string, input UpdateItemInput) (*domain.Item, error) {
	caller, err := lookupActiveUser(ctx, s.users, externalID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("lookup item: %w", err)
	}
	if item.OwnerID != caller.ID && !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		item.Title = title
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		if !domain.ItemCategories[*input.Category] {
			return nil, ErrInvalidCategory
		}
		item.Category = *input.Category
	}
	if input.GarmentType != nil {
		item.GarmentType = strings.TrimSpace(*input.GarmentType)
	}
	if input.Size != nil {
		item.Size = strings.TrimSpace(*input.Size)
	}
	if input.Condition != nil {
		if !domain.ItemConditions[*input.Condition] {
			return nil, ErrInvalidCondition
		}
		item.Condition = *input.Condition
	}
	if input.Images != nil {
		item.Images = input.Images
	}
	if input.Tags != nil {
		item.Tags = input.Tags
	}
	if input.PointValue != nil {
		if *input.PointValue < domain.MinPointValue {
			return nil, ErrInvalidPointValue
		}
		item.PointValue = *input.PointValue
	}

	if !caller.IsAdmin() && item.Status == domain.ItemStatusApproved {
		item.Status = domain.ItemStatusPending
	}

	if err := s.items.Update(ctx, *item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	updated, err := s.items.GetByID(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("reload item: %w", err)
	}
	return updated, nil
}

// Delete soft-deletes a listing: it is deactivated and marked inactive, never
// removed. Only the owner or an admin may delete.
func (s *ItemService) Delete(ctx context.Context, externalID, itemID string) error {
	caller, err := lookupActiveUser(ctx, s.users, externalID)
	if err != nil {
		return err
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("lookup item: %w", err)
	}
	if item.OwnerID != caller.ID && !caller.IsAdmin() {
		return ErrPermissionDenied
	}

	if err := s.items.Deactivate(ctx, item.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("deactivate item: %w", err)
	}
	return nil
}

// Moderate records an admin review decision and publishes the outcome.
func (s *ItemService) Moderate(ctx context.Context, externalID string, input ModerateItemInput) (*domain.Item, error) {
	admin, err := requireAdmin(ctx, s.users, externalID)
	if err != nil {
		return nil, err
	}

	if !domain.ModerationStatuses[input.Status] {
		return nil, ErrInvalidModerationStatus
	}

	item, err := s.items.Moderate(ctx, input.ItemID, input.Status, input.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("moderate item: %w", err)
	}

	if s.publisher != nil {
		event := domain.ItemModeratedEvent{
			EventID:     uuid.NewString(),
			ItemID:      item.ID,
			OwnerID:     item.OwnerID,
			Status:      string(item.Status),
			ModeratorID: admin.ID,
			Notes:       input.Notes,
			ModeratedAt: item.UpdatedAt,
		}
		if err := s.publisher.PublishItemModerated(ctx, event); err != nil {
			s.logger.Warn("publish item moderated event failed", zap.String("item_id", item.ID), zap.Error(err))
		}
	}

	return item, nil
}
