package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/repository"
)

// Settle accepts a pending swap and executes settlement in one transaction.
//
// Lock order is fixed: swap row first, then user rows ascending by ID, then
// item rows ascending by ID. The swap row lock serializes concurrent
// responders; the loser observes a non-pending status and gets
// ErrSwapNotPending. Revalidation happens under the locks:
//
//   - point_redemption: the requester must still cover the snapshot price and
//     the requested item must still be swappable; then points move and the
//     item flips to swapped.
//   - direct_swap: both items must still exist and be swappable; then both
//     flip to swapped. No points move.
//
// A failed revalidation rejects the swap in the same transaction and commits
// that rejection, so the outcome is durable; the sentinel is returned
// alongside the rejected swap. Any other error rolls everything back.
func (r *SwapRepository) Settle(ctx context.Context, id string) (*domain.Swap, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	swap, err := r.lockSwap(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if swap.Status != domain.SwapStatusPending {
		return nil, repository.ErrSwapNotPending
	}

	var settleErr error
	switch swap.Type {
	case domain.SwapTypePointRedemption:
		settleErr = r.settleRedemption(ctx, tx, swap)
	case domain.SwapTypeDirect:
		settleErr = r.settleDirect(ctx, tx, swap)
	default:
		return nil, fmt.Errorf("settle swap %s: unknown type %q", swap.ID, swap.Type)
	}

	switch {
	case settleErr == nil:
		completed, err := r.markResolved(ctx, tx, swap.ID, domain.SwapStatusCompleted)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit settlement: %w", err)
		}
		return completed, nil

	case errors.Is(settleErr, repository.ErrInsufficientPoints),
		errors.Is(settleErr, repository.ErrItemUnavailable):
		// Revalidation checks run before any mutation, so at this point
		// only the swap row changes.
		rejected, err := r.markResolved(ctx, tx, swap.ID, domain.SwapStatusRejected)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit rejection: %w", err)
		}
		return rejected, settleErr

	default:
		return nil, settleErr
	}
}

func (r *SwapRepository) settleRedemption(ctx context.Context, tx pgx.Tx, swap *domain.Swap) error {
	users := r.users.WithTx(tx)
	items := r.items.WithTx(tx)

	balances, err := users.lockPoints(ctx, []string{swap.RequesterID, swap.ProviderID})
	if err != nil {
		return err
	}
	requesterPoints, ok := balances[swap.RequesterID]
	if !ok {
		return fmt.Errorf("settle swap %s: requester row missing", swap.ID)
	}
	if _, ok := balances[swap.ProviderID]; !ok {
		return fmt.Errorf("settle swap %s: provider row missing", swap.ID)
	}
	if requesterPoints < swap.PointsExchanged {
		return repository.ErrInsufficientPoints
	}

	locked, err := items.lockForSettlement(ctx, []string{swap.RequestedItemID})
	if err != nil {
		return err
	}
	item, ok := locked[swap.RequestedItemID]
	if !ok || !item.Swappable() {
		return repository.ErrItemUnavailable
	}

	if err := users.adjustPoints(ctx, swap.RequesterID, -swap.PointsExchanged); err != nil {
		return err
	}
	if err := users.adjustPoints(ctx, swap.ProviderID, swap.PointsExchanged); err != nil {
		return err
	}
	return items.markSwapped(ctx, swap.RequestedItemID)
}

func (r *SwapRepository) settleDirect(ctx context.Context, tx pgx.Tx, swap *domain.Swap) error {
	if swap.OfferedItemID == nil {
		return fmt.Errorf("settle swap %s: direct swap without offered item", swap.ID)
	}
	items := r.items.WithTx(tx)

	locked, err := items.lockForSettlement(ctx, []string{swap.RequestedItemID, *swap.OfferedItemID})
	if err != nil {
		return err
	}
	for _, itemID := range []string{swap.RequestedItemID, *swap.OfferedItemID} {
		item, ok := locked[itemID]
		if !ok || !item.Swappable() {
			return repository.ErrItemUnavailable
		}
	}

	if err := items.markSwapped(ctx, swap.RequestedItemID); err != nil {
		return err
	}
	return items.markSwapped(ctx, *swap.OfferedItemID)
}

func (r *SwapRepository) lockSwap(ctx context.Context, tx pgx.Tx, id string) (*domain.Swap, error) {
	stmt, args, err := r.builder.
		Select(swapColumns...).
		From("market.swaps").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock swap sql: %w", err)
	}

	swap, err := scanSwap(tx.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan locked swap: %w", err)
	}
	return swap, nil
}

func (r *SwapRepository) markResolved(ctx context.Context, tx pgx.Tx, id string, status domain.SwapStatus) (*domain.Swap, error) {
	stmt, args, err := r.builder.Update("market.swaps").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(swapColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build resolve swap sql: %w", err)
	}

	swap, err := scanSwap(tx.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, fmt.Errorf("scan resolved swap: %w", err)
	}
	return swap, nil
}
