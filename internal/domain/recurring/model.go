package recurring

import (
	"time"

	"github.com/google/uuid"
)

// Payment — регулярный платёж (подписка, аренда): фиксированный день месяца,
// без понятия остатка.
type Payment struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	Amount     float64
	DayOfMonth int
	Category   string
	Active     bool
	CreatedAt  time.Time
}
