package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users *UserRepository
	Items *ItemRepository
	Swaps *SwapRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	users := NewUserRepository(pool)
	items := NewItemRepository(pool)

	return &Repositories{
		Users: users,
		Items: items,
		Swaps: NewSwapRepository(pool, users, items),
	}
}
