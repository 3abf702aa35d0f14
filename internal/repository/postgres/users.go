package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
	"github.com/isha-gohel181/rewear/internal/repository"
)

var userColumns = []string{
	"id",
	"external_id",
	"email",
	"first_name",
	"last_name",
	"username",
	"avatar_url",
	"points",
	"role",
	"is_active",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance that executes statements within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	now := time.Now().UTC()

	var usernameValue any
	if user.Username != nil && *user.Username != "" {
		usernameValue = *user.Username
	}
	var avatarValue any
	if user.AvatarURL != nil && *user.AvatarURL != "" {
		avatarValue = *user.AvatarURL
	}

	stmt, args, err := r.builder.Insert("market.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.ExternalID,
			user.Email,
			user.FirstName,
			user.LastName,
			usernameValue,
			avatarValue,
			user.Points,
			user.Role,
			user.IsActive,
			now,
			now,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByExternalID retrieves a user by the identity provider's subject reference.
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"external_id": externalID})
}

func (r *UserRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("market.users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// UpdateProfile updates the mutable profile fields. Points and role are
// untouched by design; they change only through settlement and UpdateRole.
func (r *UserRepository) UpdateProfile(ctx context.Context, user domain.User) error {
	var usernameValue any
	if user.Username != nil && *user.Username != "" {
		usernameValue = *user.Username
	}
	var avatarValue any
	if user.AvatarURL != nil && *user.AvatarURL != "" {
		avatarValue = *user.AvatarURL
	}

	stmt, args, err := r.builder.Update("market.users").
		Set("email", user.Email).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("username", usernameValue).
		Set("avatar_url", avatarValue).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateRole sets the account role.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	stmt, args, err := r.builder.Update("market.users").
		Set("role", role).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes the account.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("market.users").
		Set("is_active", false).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate user sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns accounts, newest first.
func (r *UserRepository) List(ctx context.Context, filter port.UserFilter) ([]domain.User, error) {
	query := r.builder.
		Select(userColumns...).
		From("market.users").
		OrderBy("created_at DESC")

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Count returns the number of accounts matching the filter.
func (r *UserRepository) Count(ctx context.Context, filter port.UserFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("market.users")
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count users sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// lockPoints takes row locks on the given user rows in ascending ID order and
// returns their balances. Ascending order keeps concurrent settlements
// deadlock-free.
func (r *UserRepository) lockPoints(ctx context.Context, ids []string) (map[string]int, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	stmt, args, err := r.builder.
		Select("id", "points").
		From("market.users").
		Where(squirrel.Eq{"id": sorted}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("lock users: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]int, len(sorted))
	for rows.Next() {
		var id string
		var points int
		if err := rows.Scan(&id, &points); err != nil {
			return nil, fmt.Errorf("scan locked user: %w", err)
		}
		balances[id] = points
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked users: %w", err)
	}
	return balances, nil
}

// adjustPoints moves a balance by delta; the points >= 0 check constraint is
// the last line of defense behind the locked re-validation.
func (r *UserRepository) adjustPoints(ctx context.Context, id string, delta int) error {
	stmt, args, err := r.builder.Update("market.users").
		Set("points", squirrel.Expr("points + ?", delta)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build adjust points sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("adjust points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user     domain.User
		username sql.NullString
		avatar   sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&username,
		&avatar,
		&user.Points,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if username.Valid {
		val := username.String
		user.Username = &val
	}
	if avatar.Valid {
		val := avatar.String
		user.AvatarURL = &val
	}
	return &user, nil
}
