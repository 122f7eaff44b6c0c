package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketCounter is the sequence name backing ticket numbers.
const TicketCounter = "ticket"

// CounterRepository issues unique, strictly increasing integers per named
// counter. Two concurrent calls for the same name never return the same
// value.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
	NextTx(ctx context.Context, tx pgx.Tx, name string) (int64, error)
}

type counterRepository struct {
	pool *pgxpool.Pool
}

// NewCounterRepository instantiates repository.
func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &counterRepository{pool: pool}
}

// The increment is a single upsert statement, so concurrent callers are
// serialized by the row lock and no value is issued twice.
const counterNextQuery = `
        INSERT INTO counters (name, seq) VALUES ($1, 1)
        ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
        RETURNING seq`

func (r *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	var seq int64
	if err := r.pool.QueryRow(ctx, counterNextQuery, name).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// NextTx increments within the caller's transaction. Ticket creation uses
// this so the ticket row and its number commit or roll back together.
func (r *counterRepository) NextTx(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var seq int64
	if err := tx.QueryRow(ctx, counterNextQuery, name).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}
