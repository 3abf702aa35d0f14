package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
	"github.com/isha-gohel181/rewear/internal/repository"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// ProvisionUserInput carries the profile fields delivered by the identity
// provider's webhook.
type ProvisionUserInput struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	Username   *string
	AvatarURL  *string
}

// UpdateProfileInput captures a self-service profile edit. External reference,
// email, points and role are immutable through this path.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	AvatarURL *string
}

// UserService handles account provisioning and profile operations. Accounts
// originate with the external identity provider; this service owns the local
// marketplace projection (profile, points, role, active flag).
type UserService struct {
	users     port.UserRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewUserService constructs UserService.
func NewUserService(users port.UserRepository, publisher port.EventPublisher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, publisher: publisher, logger: logger}
}

// Provision creates the local account for a newly registered identity, seeded
// with the starting point balance. Re-delivery of the same event is handled by
// updating the existing account instead.
func (s *UserService) Provision(ctx context.Context, input ProvisionUserInput) (*domain.User, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}

	existing, err := s.users.GetByExternalID(ctx, externalID)
	if err == nil {
		return s.sync(ctx, existing, input)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user := domain.User{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		Email:      strings.TrimSpace(input.Email),
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Username:   input.Username,
		AvatarURL:  input.AvatarURL,
		Points:     domain.DefaultStartingPoints,
		Role:       domain.RoleUser,
		IsActive:   true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	s.publishProvisioned(ctx, created, "created")
	return created, nil
}

// Sync applies an identity-provider profile update. An update for an unknown
// identity provisions it; the provider is authoritative for profile fields.
func (s *UserService) Sync(ctx context.Context, input ProvisionUserInput) (*domain.User, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}

	user, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.Provision(ctx, input)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return s.sync(ctx, user, input)
}

func (s *UserService) sync(ctx context.Context, user *domain.User, input ProvisionUserInput) (*domain.User, error) {
	if email := strings.TrimSpace(input.Email); email != "" {
		user.Email = email
	}
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	if input.Username != nil {
		user.Username = input.Username
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.users.UpdateProfile(ctx, *user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	updated, err := s.users.GetByExternalID(ctx, user.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	s.publishProvisioned(ctx, updated, "updated")
	return updated, nil
}

// DeactivateByExternalID soft-deletes the account for an identity deleted at
// the provider. Unknown identities are ignored.
func (s *UserService) DeactivateByExternalID(ctx context.Context, externalID string) error {
	user, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.users.Deactivate(ctx, user.ID); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	s.publishProvisioned(ctx, user, "deactivated")
	return nil
}

// Me returns the caller's own account.
func (s *UserService) Me(ctx context.Context, externalID string) (*domain.User, error) {
	return lookupActiveUser(ctx, s.users, externalID)
}

// UpdateProfile applies a self-service edit to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, externalID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := lookupActiveUser(ctx, s.users, externalID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Username != nil {
		user.Username = input.Username
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.users.UpdateProfile(ctx, *user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	updated, err := s.users.GetByExternalID(ctx, user.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return updated, nil
}

// Deactivate soft-deletes the caller's own account.
func (s *UserService) Deactivate(ctx context.Context, externalID string) error {
	user, err := lookupActiveUser(ctx, s.users, externalID)
	if err != nil {
		return err
	}
	if err := s.users.Deactivate(ctx, user.ID); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.publishProvisioned(ctx, user, "deactivated")
	return nil
}

// List returns accounts for the admin console, newest first.
func (s *UserService) List(ctx context.Context, externalID string, page, limit int) ([]domain.User, int, error) {
	if _, err := requireAdmin(ctx, s.users, externalID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultUserPageSize
	}
	if limit > maxUserPageSize {
		limit = maxUserPageSize
	}

	filter := port.UserFilter{Limit: limit, Offset: (page - 1) * limit}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// UpdateRole promotes or demotes an account. Admin only.
func (s *UserService) UpdateRole(ctx context.Context, actorExternalID, targetUserID string, role domain.Role) (*domain.User, error) {
	if _, err := requireAdmin(ctx, s.users, actorExternalID); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	if err := s.users.UpdateRole(ctx, targetUserID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	updated, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return updated, nil
}

func (s *UserService) publishProvisioned(ctx context.Context, user *domain.User, action string) {
	if s.publisher == nil {
		return
	}
	event := domain.UserProvisionedEvent{
		EventID:    uuid.NewString(),
		UserID:     user.ID,
		ExternalID: user.ExternalID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishUserProvisioned(ctx, event); err != nil {
		s.logger.Warn("publish user provisioned event failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// lookupActiveUser resolves an identity reference to a live account.
func lookupActiveUser(ctx context.Context, users port.UserRepository, externalID string) (*domain.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, ErrUserNotFound
	}
	user, err := users.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserDeactivated
	}
	return user, nil
}

// requireAdmin resolves the caller and enforces the admin role.
func requireAdmin(ctx context.Context, users port.UserRepository, externalID string) (*domain.User, error) {
	user, err := lookupActiveUser(ctx, users, externalID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return user, nil
}
