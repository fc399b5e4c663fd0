package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"papertrader-backend/internal/domain"
)

// PostgresCandleRepository caches fetched klines in Postgres so restarts
// and repeated backtests do not refetch the same ranges.
type PostgresCandleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCandleRepository(pool *pgxpool.Pool) *PostgresCandleRepository {
	return &PostgresCandleRepository{pool: pool}
}

func (r *PostgresCandleRepository) SaveCandles(candles []domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range candles {
		batch.Queue(`
			insert into candles(symbol, timeframe, open_time, open, high, low, close, volume)
			values ($1,$2,$3,$4,$5,$6,$7,$8)
			on conflict (symbol, timeframe, open_time) do update set
				open=excluded.open,
				high=excluded.high,
				low=excluded.low,
				close=excluded.close,
				volume=excluded.volume
		`, c.Symbol, string(c.Timeframe), c.OpenTime, c.Open, c.High, c.Low, c.Close, c.Volume)
	}

	results := r.pool.SendBatch(context.Background(), batch)
	defer results.Close()

	for range candles {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresCandleRepository) GetCandles(symbol string, tf domain.Timeframe, limit int) ([]domain.Candle, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	rows, err := r.pool.Query(context.Background(), `
		select symbol, timeframe, open_time, open, high, low, close, volume
		from (
			select * from candles
			where symbol = $1 and timeframe = $2
			order by open_time desc
			limit $3
		) recent
		order by open_time asc
	`, symbol, string(tf), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candles := make([]domain.Candle, 0, limit)
	for rows.Next() {
		var c domain.Candle
		var tfStr string
		if err := rows.Scan(&c.Symbol, &tfStr, &c.OpenTime, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		c.Timeframe = domain.Timeframe(tfStr)
		candles = append(candles, c)
	}
	return candles, rows.Err()
}
