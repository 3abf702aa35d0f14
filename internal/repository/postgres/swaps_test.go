package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/repository"
)

func newSwapRepo(t *testing.T) (pgxmock.PgxPoolIface, *SwapRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewSwapRepository(mock, NewUserRepository(mock), NewItemRepository(mock))
}

func swapRows(id, requester, provider, requestedItem string, offered any, swapType domain.SwapType, points int, status domain.SwapStatus) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows(swapColumns).
		AddRow(id, requester, provider, requestedItem, offered, swapType, points, status, []byte("[]"), now, now)
}

func TestSwapRepositorySettleRedemption(t *testing.T) {
	mock, repo := newSwapRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM market\.swaps WHERE id = \$1 FOR UPDATE`).
		WithArgs("swap-1").
		WillReturnRows(swapRows("swap-1", "user-a", "user-b", "item-1", nil, domain.SwapTypePointRedemption, 30, domain.SwapStatusPending))

	mock.ExpectQuery(`SELECT id, points FROM market\.users WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
		WithArgs("user-a", "user-b").
		WillReturnRows(pgxmock.NewRows([]string{"id", "points"}).
			AddRow("user-a", 100).
			AddRow("user-b", 10))

	mock.ExpectQuery(`SELECT id, owner_id, status, is_active FROM market\.items WHERE id IN \(\$1\) ORDER BY id FOR UPDATE`).
		WithArgs("item-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "status", "is_active"}).
			AddRow("item-1", "user-b", domain.ItemStatusApproved, true))

	mock.ExpectExec(`UPDATE market\.users SET points = points \+ \$1`).
		WithArgs(-30, pgxmock.AnyArg(), "user-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE market\.users SET points = points \+ \$1`).
		WithArgs(30, pgxmock.AnyArg(), "user-b").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE market\.items SET status = \$1`).
		WithArgs(domain.ItemStatusSwapped, pgxmock.AnyArg(), "item-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(`UPDATE market\.swaps SET status = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
		WithArgs(domain.SwapStatusCompleted, pgxmock.AnyArg(), "swap-1").
		WillReturnRows(swapRows("swap-1", "user-a", "user-b", "item-1", nil, domain.SwapTypePointRedemption, 30, domain.SwapStatusCompleted))
	mock.ExpectCommit()

	swap, err := repo.Settle(context.Background(), "swap-1")
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if swap.Status != domain.SwapStatusCompleted {
		t.Fatalf("expected completed, got %s", swap.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSwapRepositorySettleDirect(t *testing.T) {
	mock, repo := newSwapRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM market\.swaps WHERE id = \$1 FOR UPDATE`).
		WithArgs("swap-2").
		WillReturnRows(swapRows("swap-2", "user-a", "user-b", "item-2", "item-1", domain.SwapTypeDirect, 0, domain.SwapStatusPending))

	// Items are locked in ascending ID order regardless of which is which.
	mock.ExpectQuery(`SELECT id, owner_id, status, is_active FROM market\.items WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
		WithArgs("item-1", "item-2").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "status", "is_active"}).
			AddRow("item-1", "user-a", domain.ItemStatusApproved, true).
			AddRow("item-2", "user-b", domain.ItemStatusApproved, true))

	mock.ExpectExec(`UPDATE market\.items SET status = \$1`).
		WithArgs(domain.ItemStatusSwapped, pgxmock.AnyArg(), "item-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE market\.items SET status = \$1`).
		WithArgs(domain.ItemStatusSwapped, pgxmock.AnyArg(), "item-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(`UPDATE market\.swaps SET status = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
		WithArgs(domain.SwapStatusCompleted, pgxmock.AnyArg(), "swap-2").
		WillReturnRows(swapRows("swap-2", "user-a", "user-b", "item-2", "item-1", domain.SwapTypeDirect, 0, domain.SwapStatusCompleted))
	mock.ExpectCommit()

	swap, err := repo.Settle(context.Background(), "swap-2")
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if swap.Status != domain.SwapStatusCompleted {
		t.Fatalf("expected completed, got %s", swap.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSwapRepositorySettleShortfallRejects(t *testing.T) {
	mock, repo := newSwapRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM market\.swaps WHERE id = \$1 FOR UPDATE`).
		WithArgs("swap-1").
		WillReturnRows(swapRows("swap-1", "user-a", "user-b", "item-1", nil, domain.SwapTypePointRedemption, 30, domain.SwapStatusPending))

	mock.ExpectQuery(`SELECT id, points FROM market\.users WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
		WithArgs("user-a", "user-b").
		WillReturnRows(pgxmock.NewRows([]string{"id", "points"}).
			AddRow("user-a", 10).
			AddRow("user-b", 50))

	// No balance or item mutation: the swap is rejected and that alone is
	// committed.
	mock.ExpectQuery(`UPDATE market\.swaps SET status = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
		WithArgs(domain.SwapStatusRejected, pgxmock.AnyArg(), "swap-1").
		WillReturnRows(swapRows("swap-1", "user-a", "user-b", "item-1", nil, domain.SwapTypePointRedemption, 30, domain.SwapStatusRejected))
	mock.ExpectCommit()

	swap, err := repo.Settle(context.Background(), "swap-1")
	if !errors.Is(err, repository.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
	if swap == nil || swap.Status != domain.SwapStatusRejected {
		t.Fatalf("expected rejected swap alongside the sentinel, got %+v", swap)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSwapRepositorySettleItemGoneRejects(t *testing.T) {
	mock, repo := newSwapRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM market\.swaps WHERE id = \$1 FOR UPDATE`).
		WithArgs("swap-2").
		WillReturnRows(swapRows("swap-2", "user-a", "user-b", "item-2", "item-1", domain.SwapTypeDirect, 0, domain.SwapStatusPending))

	// The offered item has vanished.
	mock.ExpectQuery(`SELECT id, owner_id, status, is_active FROM market\.items WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
		WithArgs("item-1", "item-2").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "status", "is_active"}).
			AddRow("item-2", "user-b", domain.ItemStatusApproved, true))

	mock.ExpectQuery(`UPDATE market\.swaps SET status = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
		WithArgs(domain.SwapStatusRejected, pgxmock.AnyArg(), "swap-2").
		WillReturnRows(swapRows("swap-2", "user-a", "user-b", "item-2", "item-1", domain.SwapTypeDirect, 0, domain.SwapStatusRejected))
	mock.ExpectCommit()

	swap, err := repo.Settle(context.Background(), "swap-2")
	if !errors.Is(err, repository.ErrItemUnavailable) {
		t.Fatalf("expected ErrItemUnavailable, got %v", err)
	}
	if swap == nil || swap.Status != domain.SwapStatusRejected {
		t.Fatalf("expected rejected swap alongside the sentinel, got %+v", swap)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSwapRepositorySettleNotPending(t *testing.T) {
	mock, repo := newSwapRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM market\.swaps WHERE id = \$1 FOR UPDATE`).
		WithArgs("swap-1").
		WillReturnRows(swapRows("swap-1", "user-a", "user-b", "item-1", nil, domain.SwapTypePointRedemption, 30, domain.SwapStatusCompleted))
	mock.ExpectRollback()

	_, err := repo.Settle(context.Background(), "swap-1")
	if !errors.Is(err, repository.ErrSwapNotPending) {
		t.Fatalf("expected ErrSwapNotPending, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSwapRepositorySettleRollsBackOnFailure(t *testing.T) {
	mock, repo := newSwapRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM market\.swaps WHERE id = \$1 FOR UPDATE`).
		WithArgs("swap-1").
		WillReturnRows(swapRows("swap-1", "user-a", "user-b", "item-1", nil, domain.SwapTypePointRedemption, 30, domain.SwapStatusPending))

	mock.ExpectQuery(`SELECT id, points FROM market\.users WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
		WithArgs("user-a", "user-b").
		WillReturnRows(pgxmock.NewRows([]string{"id", "points"}).
			AddRow("user-a", 100).
			AddRow("user-b", 10))

	mock.ExpectQuery(`SELECT id, owner_id, status, is_active FROM market\.items WHERE id IN \(\$1\) ORDER BY id FOR UPDATE`).
		WithArgs("item-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "status", "is_active"}).
			AddRow("item-1", "user-b", domain.ItemStatusApproved, true))

	mock.ExpectExec(`UPDATE market\.users SET points = points \+ \$1`).
		WithArgs(-30, pgxmock.AnyArg(), "user-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	// The credit fails mid-transaction; everything must roll back.
	mock.ExpectExec(`UPDATE market\.users SET points = points \+ \$1`).
		WithArgs(30, pgxmock.AnyArg(), "user-b").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Settle(context.Background(), "swap-1")
	if err == nil {
		t.Fatalf("expected settlement failure")
	}
	if errors.Is(err, repository.ErrInsufficientPoints) || errors.Is(err, repository.ErrItemUnavailable) {
		t.Fatalf("infrastructure failure must not masquerade as a business outcome: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSwapRepositoryRejectCAS(t *testing.T) {
	mock, repo := newSwapRepo(t)

	mock.ExpectQuery(`UPDATE market\.swaps SET status = \$1, updated_at = \$2 WHERE id = \$3 AND status = \$4 RETURNING`).
		WithArgs(domain.SwapStatusRejected, pgxmock.AnyArg(), "swap-1", domain.SwapStatusPending).
		WillReturnRows(pgxmock.NewRows(swapColumns))

	// The row exists but is already resolved.
	mock.ExpectQuery(`SELECT .+ FROM market\.swaps WHERE id = \$1`).
		WithArgs("swap-1").
		WillReturnRows(swapRows("swap-1", "user-a", "user-b", "item-1", nil, domain.SwapTypePointRedemption, 30, domain.SwapStatusCompleted))

	_, err := repo.Reject(context.Background(), "swap-1")
	if !errors.Is(err, repository.ErrSwapNotPending) {
		t.Fatalf("expected ErrSwapNotPending, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSwapRepositoryAppendMessageNonParticipant(t *testing.T) {
	mock, repo := newSwapRepo(t)

	mock.ExpectQuery(`UPDATE market\.swaps SET messages = messages \|\| \$1::jsonb`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "swap-1", "user-x", "user-x").
		WillReturnRows(pgxmock.NewRows(swapColumns))

	_, err := repo.AppendMessage(context.Background(), "swap-1", domain.SwapMessage{
		SenderID:  "user-x",
		Content:   "hello",
		Timestamp: time.Now().UTC(),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
