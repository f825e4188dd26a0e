package push

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Upsert по endpoint: повторная регистрация того же браузера перезаписывает
// ключи, а не плодит дубликаты.
func (r *Repo) Upsert(ctx context.Context, userID uuid.UUID, endpoint string, keys Keys) (*Subscription, error) {
	kb, err := json.Marshal(keys)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO push_subscriptions (user_id, endpoint, keys)
		VALUES ($1, $2, $3)
		ON CONFLICT (endpoint)
		DO UPDATE SET
			user_id    = EXCLUDED.user_id,
			keys       = EXCLUDED.keys,
			updated_at = now()
		RETURNING id, user_id, endpoint, keys, created_at, updated_at
	`, userID, endpoint, kb)

	return scanOne(row)
}

func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Subscription, error) {
	const q = `SELECT id, user_id, endpoint, keys, created_at, updated_at
	           FROM push_subscriptions
	           WHERE user_id = $1
	           ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscription
	for rows.Next() {
		var s Subscription
		var kb []byte
		if err := rows.Scan(&s.ID, &s.UserID, &s.Endpoint, &kb, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(kb, &s.Keys); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteByID идемпотентен: удаление уже отсутствующей подписки — не ошибка.
func (r *Repo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id)
	return err
}

func (r *Repo) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM push_subscriptions WHERE endpoint = $1`, endpoint)
	return err
}

type row interface{ Scan(dest ...any) error }

func scanOne(r row) (*Subscription, error) {
	var s Subscription
	var kb []byte
	if err := r.Scan(&s.ID, &s.UserID, &s.Endpoint, &kb, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(kb, &s.Keys); err != nil {
		return nil, err
	}
	return &s, nil
}
