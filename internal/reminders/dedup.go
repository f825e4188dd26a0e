package reminders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReminderLog — журнал идемпотентности: событие можно отправить, только если
// ключ (user, obligation, horizon, date) застолблён впервые.
type ReminderLog interface {
	Claim(ctx context.Context, userID, obligationID uuid.UUID, horizonDays int, fireDate time.Time) (bool, error)
}

type PGReminderLog struct{ pool *pgxpool.Pool }

func NewPGReminderLog(pool *pgxpool.Pool) *PGReminderLog { return &PGReminderLog{pool: pool} }

// Claim возвращает false, если ключ уже был застолблён другим (или этим же)
// запуском за ту же дату.
func (l *PGReminderLog) Claim(ctx context.Context, userID, obligationID uuid.UUID, horizonDays int, fireDate time.Time) (bool, error) {
	tag, err := l.pool.Exec(ctx, `
		INSERT INTO reminder_log (user_id, obligation_id, horizon_days, fire_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, obligation_id, horizon_days, fire_date) DO NOTHING
	`, userID, obligationID, horizonDays, fireDate)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
