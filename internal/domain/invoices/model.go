package invoices

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen    Status = "open"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

type Invoice struct {
	ID           uuid.UUID
	CreditCardID uuid.UUID
	UserID       uuid.UUID // владелец карты
	CardName     string
	Month        int
	Year         int
	Amount       float64
	DueDate      time.Time
	ClosingDate  time.Time
	Status       Status
	CreatedAt    time.Time
}
