package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

func TestUserProvisionCreatesWithStartingPoints(t *testing.T) {
	users := newUserRepoMock()
	publisher := &publisherMock{}
	service := NewUserService(users, publisher, nil)

	user, err := service.Provision(context.Background(), ProvisionUserInput{
		ExternalID: "ext-1",
		Email:      "ada@example.com",
		FirstName:  "Ada",
		LastName:   "Lovelace",
	})
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if user.Points != domain.DefaultStartingPoints {
		t.Fatalf("expected %d starting points, got %d", domain.DefaultStartingPoints, user.Points)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %s", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("expected active account")
	}
	if len(publisher.provisioned) != 1 || publisher.provisioned[0].Action != "created" {
		t.Fatalf("expected one created event, got %+v", publisher.provisioned)
	}
}

func TestUserProvisionIsIdempotent(t *testing.T) {
	existing := domain.User{ID: "user-1", ExternalID: "ext-1", Email: "old@example.com", Points: 40, Role: domain.RoleUser, IsActive: true}
	users := newUserRepoMock(existing)
	service := NewUserService(users, &publisherMock{}, nil)

	user, err := service.Provision(context.Background(), ProvisionUserInput{
		ExternalID: "ext-1",
		Email:      "new@example.com",
	})
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if len(users.created) != 0 {
		t.Fatalf("re-delivery must not create a second account")
	}
	if user.Email != "new@example.com" {
		t.Fatalf("expected profile sync, got %q", user.Email)
	}
	if user.Points != 40 {
		t.Fatalf("re-delivery must not reset the balance, got %d", user.Points)
	}
}

func TestUserDeactivateByExternalID(t *testing.T) {
	existing := domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: true}
	users := newUserRepoMock(existing)
	publisher := &publisherMock{}
	service := NewUserService(users, publisher, nil)

	if err := service.DeactivateByExternalID(context.Background(), "ext-1"); err != nil {
		t.Fatalf("DeactivateByExternalID returned error: %v", err)
	}
	if len(users.deactivated) != 1 || users.deactivated[0] != "user-1" {
		t.Fatalf("expected user-1 deactivated, got %v", users.deactivated)
	}

	// Unknown identities are ignored, not an error.
	if err := service.DeactivateByExternalID(context.Background(), "ext-unknown"); err != nil {
		t.Fatalf("expected unknown identity to be ignored, got %v", err)
	}
}

func TestUserUpdateProfileImmutableFields(t *testing.T) {
	existing := domain.User{ID: "user-1", ExternalID: "ext-1", Email: "ada@example.com", Points: 70, Role: domain.RoleUser, IsActive: true}
	users := newUserRepoMock(existing)
	service := NewUserService(users, &publisherMock{}, nil)

	first := "Augusta"
	updated, err := service.UpdateProfile(context.Background(), "ext-1", UpdateProfileInput{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.FirstName != "Augusta" {
		t.Fatalf("expected first name update, got %q", updated.FirstName)
	}
	if updated.Points != 70 || updated.Role != domain.RoleUser || updated.Email != "ada@example.com" {
		t.Fatalf("points, role and email must not change through profile edits: %+v", updated)
	}
}

func TestUserUpdateRole(t *testing.T) {
	admin := domain.User{ID: "admin-1", ExternalID: "ext-admin", Role: domain.RoleAdmin, IsActive: true}
	target := domain.User{ID: "user-1", ExternalID: "ext-1", Role: domain.RoleUser, IsActive: true}
	users := newUserRepoMock(admin, target)
	service := NewUserService(users, &publisherMock{}, nil)

	if _, err := service.UpdateRole(context.Background(), target.ExternalID, "admin-1", domain.RoleAdmin); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for non-admin actor, got %v", err)
	}

	if _, err := service.UpdateRole(context.Background(), admin.ExternalID, "user-1", domain.Role("superuser")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	updated, err := service.UpdateRole(context.Background(), admin.ExternalID, "user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", updated.Role)
	}
}

func TestUserMeDeactivated(t *testing.T) {
	existing := domain.User{ID: "user-1", ExternalID: "ext-1", IsActive: false}
	users := newUserRepoMock(existing)
	service := NewUserService(users, &publisherMock{}, nil)

	if _, err := service.Me(context.Background(), "ext-1"); !errors.Is(err, ErrUserDeactivated) {
		t.Fatalf("expected ErrUserDeactivated, got %v", err)
	}
	if _, err := service.Me(context.Background(), "ext-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
