package port

import (
	"context"

	"github.com/isha-gohel181/rewear/internal/core/domain"
)

// UserFilter narrows List and Count queries.
type UserFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// UserRepository exposes persistence behavior for marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
}
