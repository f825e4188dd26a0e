package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const selectCols = `i.id, i.credit_card_id, c.user_id, c.name,
	           i.month, i.year, COALESCE(i.amount, 0), i.due_date, i.closing_date, i.status, i.created_at`

// ListDueBetween возвращает неоплаченные фактуры всех пользователей
// со сроком в окне [from, to].
func (r *Repo) ListDueBetween(ctx context.Context, from, to time.Time) ([]Invoice, error) {
	const q = `SELECT ` + selectCols + `
	           FROM invoices i
	           JOIN credit_cards c ON c.id = i.credit_card_id
	           WHERE i.status IN ('open', 'overdue')
	             AND i.due_date >= $1 AND i.due_date <= $2
	           ORDER BY i.due_date`
	rows, err := r.pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

// ListUserDueBetween — то же окно, но по одному пользователю (дашборд/календарь).
func (r *Repo) ListUserDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Invoice, error) {
	const q = `SELECT ` + selectCols + `
	           FROM invoices i
	           JOIN credit_cards c ON c.id = i.credit_card_id
	           WHERE c.user_id = $1
	             AND i.status IN ('open', 'overdue')
	             AND i.due_date >= $2 AND i.due_date <= $3
	           ORDER BY i.due_date`
	rows, err := r.pool.Query(ctx, q, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAll(rows)
}

func scanAll(rows pgx.Rows) ([]Invoice, error) {
	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID,
			&inv.CreditCardID,
			&inv.UserID,
			&inv.CardName,
			&inv.Month,
			&inv.Year,
			&inv.Amount,
			&inv.DueDate,
			&inv.ClosingDate,
			&inv.Status,
			&inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
