package recurring

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const selectCols = `id, user_id, name, amount, day_of_month, COALESCE(category, ''), active, created_at`

func (r *Repo) ListActive(ctx context.Context) ([]Payment, error) {
	const q = `SELECT ` + selectCols + `
	           FROM recurring_payments
	           WHERE active
	           ORDER BY day_of_month`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

func (r *Repo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	const q = `SELECT ` + selectCols + `
	           FROM recurring_payments
	           WHERE user_id = $1 AND active
	           ORDER BY day_of_month`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

func scanAll(rows pgx.Rows) ([]Payment, error) {
	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.Amount,
			&p.DayOfMonth,
			&p.Category,
			&p.Active,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
