package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
	"github.com/isha-gohel181/rewear/internal/repository"
)

var swapColumns = []string{
	"id",
	"requester_id",
	"provider_id",
	"requested_item_id",
	"offered_item_id",
	"swap_type",
	"points_exchanged",
	"status",
	"messages",
	"created_at",
	"updated_at",
}

// SwapRepository implements port.SwapRepository using PostgreSQL. Resolution
// (Reject, Settle) runs in its own transactions; everything else executes on
// the pool directly.
type SwapRepository struct {
	db      pgPool
	users   *UserRepository
	items   *ItemRepository
	builder squirrel.StatementBuilderType
}

// NewSwapRepository wires a PostgreSQL-backed swap repository. The user and
// item repositories are cloned into the settlement transaction via WithTx.
func NewSwapRepository(db pgPool, users *UserRepository, items *ItemRepository) *SwapRepository {
	return &SwapRepository{
		db:      db,
		users:   users,
		items:   items,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new pending swap.
func (r *SwapRepository) Create(ctx context.Context, swap domain.Swap) error {
	now := time.Now().UTC()

	messages := swap.Messages
	if messages == nil {
		messages = []domain.SwapMessage{}
	}
	encoded, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	var offeredValue any
	if swap.OfferedItemID != nil {
		offeredValue = *swap.OfferedItemID
	}

	stmt, args, err := r.builder.Insert("market.swaps").
		Columns(swapColumns...).
		Values(
			swap.ID,
			swap.RequesterID,
			swap.ProviderID,
			swap.RequestedItemID,
			offeredValue,
			swap.Type,
			swap.PointsExchanged,
			swap.Status,
			encoded,
			now,
			now,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert swap sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert swap: %w", err)
	}
	return nil
}

// GetByID retrieves a swap by identifier.
func (r *SwapRepository) GetByID(ctx context.Context, id string) (*domain.Swap, error) {
	stmt, args, err := r.builder.
		Select(swapColumns...).
		From("market.swaps").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select swap sql: %w", err)
	}

	swap, err := scanSwap(r.db.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan swap: %w", err)
	}
	return swap, nil
}

// List returns swaps the user participates in, newest first.
func (r *SwapRepository) List(ctx context.Context, filter port.SwapFilter) ([]domain.Swap, error) {
	query := r.builder.
		Select(swapColumns...).
		From("market.swaps")
	query = applySwapFilter(query, filter)
	query = query.OrderBy("created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list swaps sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list swaps: %w", err)
	}
	defer rows.Close()

	var swaps []domain.Swap
	for rows.Next() {
		swap, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap: %w", err)
		}
		swaps = append(swaps, *swap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swaps: %w", err)
	}
	return swaps, nil
}

// Count returns the number of swaps matching the filter.
func (r *SwapRepository) Count(ctx context.Context, filter port.SwapFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("market.swaps")
	query = applySwapFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count swaps sql: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count swaps: %w", err)
	}
	return count, nil
}

// Reject flips a pending swap to rejected. The status predicate makes the
// update a compare-and-set; a concurrent resolution leaves zero rows and the
// caller learns the swap is no longer pending.
func (r *SwapRepository) Reject(ctx context.Context, id string) (*domain.Swap, error) {
	stmt, args, err := r.builder.Update("market.swaps").
		Set("status", domain.SwapStatusRejected).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "status": domain.SwapStatusPending}).
		Suffix("RETURNING " + joinColumns(swapColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reject swap sql: %w", err)
	}

	swap, err := scanSwap(r.db.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, fmt.Errorf("scan rejected swap: %w", err)
	}
	return swap, nil
}

// AppendMessage appends one message to the embedded conversation. The
// participant predicate rides along in the statement so append and
// authorization are one atomic update.
func (r *SwapRepository) AppendMessage(ctx context.Context, id string, msg domain.SwapMessage) (*domain.Swap, error) {
	encoded, err := json.Marshal([]domain.SwapMessage{msg})
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	stmt, args, err := r.builder.Update("market.swaps").
		Set("messages", squirrel.Expr("messages || ?::jsonb", encoded)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{
			squirrel.Eq{"requester_id": msg.SenderID},
			squirrel.Eq{"provider_id": msg.SenderID},
		}).
		Suffix("RETURNING " + joinColumns(swapColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build append message sql: %w", err)
	}

	swap, err := scanSwap(r.db.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan swap after append: %w", err)
	}
	return swap, nil
}

// CountByStatus aggregates swaps per lifecycle state.
func (r *SwapRepository) CountByStatus(ctx context.Context) (map[domain.SwapStatus]int, error) {
	stmt, args, err := r.builder.
		Select("status", "COUNT(*)").
		From("market.swaps").
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count swaps by status sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("count swaps by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SwapStatus]int)
	for rows.Next() {
		var status domain.SwapStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan swap count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap counts: %w", err)
	}
	return counts, nil
}

// classifyMiss distinguishes a vanished swap from one already resolved.
func (r *SwapRepository) classifyMiss(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrSwapNotPending
}

func applySwapFilter(query squirrel.SelectBuilder, filter port.SwapFilter) squirrel.SelectBuilder {
	switch filter.Role {
	case port.SwapRoleRequester:
		query = query.Where(squirrel.Eq{"requester_id": filter.UserID})
	case port.SwapRoleProvider:
		query = query.Where(squirrel.Eq{"provider_id": filter.UserID})
	default:
		query = query.Where(squirrel.Or{
			squirrel.Eq{"requester_id": filter.UserID},
			squirrel.Eq{"provider_id": filter.UserID},
		})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	return query
}

func scanSwap(row pgx.Row) (*domain.Swap, error) {
	var (
		swap     domain.Swap
		offered  *string
		messages []byte
	)
	if err := row.Scan(
		&swap.ID,
		&swap.RequesterID,
		&swap.ProviderID,
		&swap.RequestedItemID,
		&offered,
		&swap.Type,
		&swap.PointsExchanged,
		&swap.Status,
		&messages,
		&swap.CreatedAt,
		&swap.UpdatedAt,
	); err != nil {
		return nil, err
	}
	swap.OfferedItemID = offered
	if err := json.Unmarshal(messages, &swap.Messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return &swap, nil
}
