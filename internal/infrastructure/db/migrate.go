package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the tables this app needs: a kline cache for the market
// data collaborator and the device tokens for trade alerts. Trade history
// itself is deliberately not persisted; each run starts flat.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists candles (
			symbol text not null,
			timeframe text not null,
			open_time timestamptz not null,
			open double precision not null,
			high double precision not null,
			low double precision not null,
			close double precision not null,
			volume double precision not null,
			primary key (symbol, timeframe, open_time)
		);`,
		`create index if not exists candles_symbol_tf_time_idx on candles(symbol, timeframe, open_time desc);`,
		`create table if not exists device_tokens (
			token text primary key,
			platform text not null default '',
			created_at timestamptz not null default now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
