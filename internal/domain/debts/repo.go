package debts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const selectCols = `id, user_id, name, debt_type, total_amount, remaining_amount,
	           COALESCE(minimum_payment, 0), COALESCE(interest_rate, 0),
	           COALESCE(due_day, 0), COALESCE(specific_due_date, 'epoch'::date), created_at`

// ListOpen возвращает долги с ненулевым остатком по всем пользователям.
func (r *Repo) ListOpen(ctx context.Context) ([]Debt, error) {
	const q = `SELECT ` + selectCols + `
	           FROM debts
	           WHERE remaining_amount > 0
	           ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

func (r *Repo) ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]Debt, error) {
	const q = `SELECT ` + selectCols + `
	           FROM debts
	           WHERE user_id = $1 AND remaining_amount > 0
	           ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

func scanAll(rows pgx.Rows) ([]Debt, error) {
	var out []Debt
	for rows.Next() {
		var d Debt
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Name,
			&d.Type,
			&d.TotalAmount,
			&d.RemainingAmount,
			&d.MinimumPayment,
			&d.InterestRate,
			&d.DueDay,
			&d.SpecificDueDate,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
