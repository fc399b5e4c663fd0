package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTokenRepository stores FCM device tokens in Postgres so alert
// subscriptions survive restarts.
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTokenRepository(pool *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool}
}

func (r *PostgresTokenRepository) RegisterToken(token, platform string, at time.Time) error {
	_, err := r.pool.Exec(context.Background(), `
		insert into device_tokens(token, platform, created_at)
		values ($1, $2, $3)
		on conflict (token) do update set platform = excluded.platform
	`, token, platform, at)
	return err
}

func (r *PostgresTokenRepository) UnregisterToken(token string) error {
	_, err := r.pool.Exec(context.Background(), `delete from device_tokens where token = $1`, token)
	return err
}

func (r *PostgresTokenRepository) GetAllTokens() []string {
	rows, err := r.pool.Query(context.Background(), `select token from device_tokens order by token`)
	if err != nil {
		return []string{}
	}
	defer rows.Close()

	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
