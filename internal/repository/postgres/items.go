package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
	"github.com/isha-gohel181/rewear/internal/repository"
)

var itemColumns = []string{
	"id",
	"owner_id",
	"title",
	"description",
	"category",
	"garment_type",
	"size",
	"condition",
	"images",
	"tags",
	"point_value",
	"status",
	"moderation_notes",
	"is_active",
	"created_at",
	"updated_at",
}

// ItemRepository implements port.ItemRepository using PostgreSQL.
type ItemRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewItemRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewItemRepository(exec pgExecutor) *ItemRepository {
	return &ItemRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance that executes statements within the supplied transaction.
func (r *ItemRepository) WithTx(tx pgx.Tx) *ItemRepository {
	if tx == nil {
		return r
	}
	return &ItemRepository{
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new listing.
func (r *ItemRepository) Create(ctx context.Context, item domain.Item) error {
	now := time.Now().UTC()

	images, err := marshalStrings(item.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	tags, err := marshalStrings(item.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	var notesValue any
	if item.ModerationNotes != nil {
		notesValue = *item.ModerationNotes
	}

	stmt, args, err := r.builder.Insert("market.items").
		Columns(itemColumns...).
		Values(
			item.ID,
			item.OwnerID,
			item.Title,
			item.Description,
			item.Category,
			item.GarmentType,
			item.Size,
			item.Condition,
			images,
			tags,
			item.PointValue,
			item.Status,
			notesValue,
			item.IsActive,
			now,
			now,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert item sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by identifier.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	stmt, args, err := r.builder.
		Select(itemColumns...).
		From("market.items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select item sql: %w", err)
	}

	item, err := scanItem(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return item, nil
}

// Update rewrites the mutable listing fields including the moderation status.
func (r *ItemRepository) Update(ctx context.Context, item domain.Item) error {
	images, err := marshalStrings(item.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	tags, err := marshalStrings(item.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	stmt, args, err := r.builder.Update("market.items").
		Set("title", item.Title).
		Set("description", item.Description).
		Set("category", item.Category).
		Set("garment_type", item.GarmentType).
		Set("size", item.Size).
		Set("condition", item.Condition).
		Set("images", images).
		Set("tags", tags).
		Set("point_value", item.PointValue).
		Set("status", item.Status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Moderate records a review decision and returns the updated listing.
func (r *ItemRepository) Moderate(ctx context.Context, id string, status domain.ItemStatus, notes *string) (*domain.Item, error) {
	var notesValue any
	if notes != nil {
		notesValue = *notes
	}

	stmt, args, err := r.builder.Update("market.items").
		Set("status", status).
		Set("moderation_notes", notesValue).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(itemColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build moderate item sql: %w", err)
	}

	item, err := scanItem(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan moderated item: %w", err)
	}
	return item, nil
}

// Deactivate soft-deletes a listing.
func (r *ItemRepository) Deactivate(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("market.items").
		Set("is_active", false).
		Set("status", domain.ItemStatusInactive).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate item sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("deactivate item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns listings matching the filter, newest first unless the caller
// asks for arrival order.
func (r *ItemRepository) List(ctx context.Context, filter port.ItemFilter) ([]domain.Item, error) {
	query := r.builder.
		Select(itemColumns...).
		From("market.items")
	query = applyItemFilter(query, filter)

	if filter.OldestFirst {
		query = query.OrderBy("created_at ASC")
	} else {
		query = query.OrderBy("created_at DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Count returns the number of listings matching the filter.
func (r *ItemRepository) Count(ctx context.Context, filter port.ItemFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("market.items")
	query = applyItemFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count items sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// CountByStatus aggregates listings per moderation state.
func (r *ItemRepository) CountByStatus(ctx context.Context) (map[domain.ItemStatus]int, error) {
	stmt, args, err := r.builder.
		Select("status", "COUNT(*)").
		From("market.items").
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count items by status sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("count items by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ItemStatus]int)
	for rows.Next() {
		var status domain.ItemStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan item count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item counts: %w", err)
	}
	return counts, nil
}

// lockForSettlement takes row locks on the given listings in ascending ID
// order and returns them keyed by ID.
func (r *ItemRepository) lockForSettlement(ctx context.Context, ids []string) (map[string]domain.Item, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	stmt, args, err := r.builder.
		Select("id", "owner_id", "status", "is_active").
		From("market.items").
		Where(squirrel.Eq{"id": sorted}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock items sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("lock items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]domain.Item, len(sorted))
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Status, &item.IsActive); err != nil {
			return nil, fmt.Errorf("scan locked item: %w", err)
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked items: %w", err)
	}
	return items, nil
}

// markSwapped flips a listing to the terminal swapped state.
func (r *ItemRepository) markSwapped(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("market.items").
		Set("status", domain.ItemStatusSwapped).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark swapped sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark item swapped: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func applyItemFilter(query squirrel.SelectBuilder, filter port.ItemFilter) squirrel.SelectBuilder {
	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Size != "" {
		query = query.Where(squirrel.Eq{"size": filter.Size})
	}
	if filter.Condition != "" {
		query = query.Where(squirrel.Eq{"condition": filter.Condition})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	return query
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		item   domain.Item
		images []byte
		tags   []byte
		notes  sql.NullString
	)
	if err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.GarmentType,
		&item.Size,
		&item.Condition,
		&images,
		&tags,
		&item.PointValue,
		&item.Status,
		&notes,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &item.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if err := json.Unmarshal(tags, &item.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if notes.Valid {
		val := notes.String
		item.ModerationNotes = &val
	}
	return &item, nil
}

func marshalStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
