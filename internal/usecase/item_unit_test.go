package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

func TestItemCreateDefaults(t *testing.T) {
	owner := domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: true}
	users := newUserRepoMock(owner)
	items := newItemRepoMock()
	service := NewItemService(users, items, &publisherMock{}, nil)

	item, err := service.Create(context.Background(), owner.ExternalID, CreateItemInput{
		Title:     "  wool sweater ",
		Category:  "tops",
		Condition: "good",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if item.Title != "wool sweater" {
		t.Fatalf("expected trimmed title, got %q", item.Title)
	}
	if item.PointValue != domain.DefaultPointValue {
		t.Fatalf("expected default point value %d, got %d", domain.DefaultPointValue, item.PointValue)
	}
	if item.Status != domain.ItemStatusPending {
		t.Fatalf("new items must enter moderation as pending, got %s", item.Status)
	}
	if item.OwnerID != owner.ID {
		t.Fatalf("expected owner %s, got %s", owner.ID, item.OwnerID)
	}
}

func TestItemCreateValidation(t *testing.T) {
	owner := domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: true}
	users := newUserRepoMock(owner)
	service := NewItemService(users, newItemRepoMock(), &publisherMock{}, nil)

	_, err := service.Create(context.Background(), owner.ExternalID, CreateItemInput{
		Title: "hat", Category: "headwear", Condition: "good",
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	_, err = service.Create(context.Background(), owner.ExternalID, CreateItemInput{
		Title: "hat", Category: "accessories", Condition: "mint",
	})
	if !errors.Is(err, ErrInvalidCondition) {
		t.Fatalf("expected ErrInvalidCondition, got %v", err)
	}

	_, err = service.Create(context.Background(), owner.ExternalID, CreateItemInput{
		Title: "hat", Category: "accessories", Condition: "good", PointValue: -5,
	})
	if !errors.Is(err, ErrInvalidPointValue) {
		t.Fatalf("expected ErrInvalidPointValue, got %v", err)
	}
}

func TestItemUpdateResetsApproval(t *testing.T) {
	owner := domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: true}
	item := approvedItem("item-1", owner.ID, 20)

	users := newUserRepoMock(owner)
	items := newItemRepoMock(item)
	service := NewItemService(users, items, &publisherMock{}, nil)

	title := "updated title"
	updated, err := service.Update(context.Background(), owner.ExternalID, UpdateItemInput{ItemID: "item-1", Title: &title})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != domain.ItemStatusPending {
		t.Fatalf("owner edit of an approved item must re-enter moderation, got %s", updated.Status)
	}
}

func TestItemUpdateNotOwner(t *testing.T) {
	owner := domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: true}
	other := domain.User{ID: "user-2", ExternalID: "ext-2", IsActive: true}
	item := approvedItem("item-1", owner.ID, 20)

	users := newUserRepoMock(owner, other)
	items := newItemRepoMock(item)
	service := NewItemService(users, items, &publisherMock{}, nil)

	title := "hijacked"
	_, err := service.Update(context.Background(), other.ExternalID, UpdateItemInput{ItemID: "item-1", Title: &title})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if len(items.updated) != 0 {
		t.Fatalf("no update may run for a non-owner")
	}
}

func TestItemDeleteSoft(t *testing.T) {
	owner := domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: true}
	item := approvedItem("item-1", owner.ID, 20)

	users := newUserRepoMock(owner)
	items := newItemRepoMock(item)
	service := NewItemService(users, items, &publisherMock{}, nil)

	if err := service.Delete(context.Background(), owner.ExternalID, "item-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	stored := items.items["item-1"]
	if stored.IsActive || stored.Status != domain.ItemStatusInactive {
		t.Fatalf("expected soft delete, got active=%v status=%s", stored.IsActive, stored.Status)
	}
}

func TestItemModerateAdminOnly(t *testing.T) {
	owner := domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: true}
	admin := domain.User{ID: "admin-1", ExternalID: "ext-admin", Role: domain.RoleAdmin, IsActive: true}
	item := domain.Item{ID: "item-1", OwnerID: owner.ID, Status: domain.ItemStatusPending, IsActive: true}

	users := newUserRepoMock(owner, admin)
	items := newItemRepoMock(item)
	publisher := &publisherMock{}
	service := NewItemService(users, items, publisher, nil)

	if _, err := service.Moderate(context.Background(), owner.ExternalID, ModerateItemInput{ItemID: "item-1", Status: domain.ItemStatusApproved}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	if _, err := service.Moderate(context.Background(), admin.ExternalID, ModerateItemInput{ItemID: "item-1", Status: domain.ItemStatusSwapped}); !errors.Is(err, ErrInvalidModerationStatus) {
		t.Fatalf("expected ErrInvalidModerationStatus, got %v", err)
	}

	notes := "nice photos"
	moderated, err := service.Moderate(context.Background(), admin.ExternalID, ModerateItemInput{ItemID: "item-1", Status: domain.ItemStatusApproved, Notes: &notes})
	if err != nil {
		t.Fatalf("Moderate returned error: %v", err)
	}
	if moderated.Status != domain.ItemStatusApproved {
		t.Fatalf("expected approved, got %s", moderated.Status)
	}
	if len(publisher.moderations) != 1 {
		t.Fatalf("expected one item.moderated event, got %d", len(publisher.moderations))
	}
}

func TestItemListPinsNonAdminToApproved(t *testing.T) {
	users := newUserRepoMock(domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: true})
	items := newItemRepoMock()
	service := NewItemService(users, items, &publisherMock{}, nil)

	_, _, err := service.List(context.Background(), "ext-1", ListItemsInput{Status: "pending"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if items.listFilter == nil {
		t.Fatalf("expected List to be called")
	}
	if items.listFilter.Status != domain.ItemStatusApproved || !items.listFilter.ActiveOnly {
		t.Fatalf("non-admin listing must be pinned to active approved items, got %+v", items.listFilter)
	}
}
