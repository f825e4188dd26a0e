package debts

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeRecurring Type = "recurring"
	TypeSingle    Type = "single"
)

// Debt — долг/займ. В зависимости от типа заполнено ровно одно из
// DueDay (recurring) и SpecificDueDate (single); ограничение живёт в схеме.
type Debt struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Type            Type
	TotalAmount     float64
	RemainingAmount float64
	MinimumPayment  float64
	InterestRate    float64
	DueDay          int
	SpecificDueDate time.Time
	CreatedAt       time.Time
}

// DisplayAmount — сумма к показу в напоминании: для разовой выплаты вся сумма,
// для рекуррентной — минимальный платёж.
func (d Debt) DisplayAmount() float64 {
	if d.Type == TypeSingle {
		return d.TotalAmount
	}
	return d.MinimumPayment
}
