// Package postgres persists marketplace state. Schema `market`:
//
//	market.users(id uuid pk, external_id text unique, email text, first_name text,
//	  last_name text, username text, avatar_url text, points int not null default 100
//	  check (points >= 0), role text, is_active bool, created_at, updated_at)
//	market.items(id uuid pk, owner_id uuid references market.users, title text,
//	  description text, category text, garment_type text, size text, condition text,
//	  images jsonb not null default '[]', tags jsonb not null default '[]',
//	  point_value int check (point_value >= 1), status text, moderation_notes text,
//	  is_active bool, created_at, updated_at)
//	market.swaps(id uuid pk, requester_id uuid, provider_id uuid,
//	  requested_item_id uuid, offered_item_id uuid, swap_type text,
//	  points_exchanged int, status text, messages jsonb not null default '[]',
//	  created_at, updated_at)
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgPool extends pgExecutor with transaction support; satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type pgPool interface {
	pgExecutor
	Begin(ctx context.Context) (pgx.Tx, error)
}
