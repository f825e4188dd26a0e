package push

import (
	"time"

	"github.com/google/uuid"
)

// Keys — криптографический набор браузерной подписки (Web Push).
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type Subscription struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Endpoint  string
	Keys      Keys
	CreatedAt time.Time
	UpdatedAt time.Time
}
