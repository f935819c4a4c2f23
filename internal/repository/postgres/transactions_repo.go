package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/baharkarakas/wallet-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type transactionsRepo struct {
	db      querier
	timeout time.Duration
}

const txColumns = `id, user_id, title, amount, category, created_at`

func (r *transactionsRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func scanTx(row pgx.Row) (models.Transaction, error) {
	var tx models.Transaction
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Title, &tx.Amount, &tx.Category, &tx.CreatedAt)
	return tx, err
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+txColumns+`
		   FROM transactions
		  WHERE user_id = $1
		  ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) Create(ctx context.Context, in models.NewTransaction) (models.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return scanTx(r.db.QueryRow(ctx,
		`INSERT INTO transactions (user_id, title, amount, category)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+txColumns,
		in.UserID, in.Title, in.Amount.String(), in.Category,
	))
}

func (r *transactionsRepo) DeleteByID(ctx context.Context, id int64) (models.Transaction, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := scanTx(r.db.QueryRow(ctx,
		`DELETE FROM transactions WHERE id = $1 RETURNING `+txColumns,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, false, nil
	}
	if err != nil {
		return models.Transaction{}, false, err
	}
	return tx, true, nil
}

func (r *transactionsRepo) SumAll(ctx context.Context, userID string) (models.Amount, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`, userID)
}

func (r *transactionsRepo) SumIncome(ctx context.Context, userID string) (models.Amount, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND amount > 0`, userID)
}

func (r *transactionsRepo) SumExpense(ctx context.Context, userID string) (models.Amount, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND amount < 0`, userID)
}

func (r *transactionsRepo) sum(ctx context.Context, q, userID string) (models.Amount, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total models.Amount
	err := r.db.QueryRow(ctx, q, userID).Scan(&total)
	return total, err
}
