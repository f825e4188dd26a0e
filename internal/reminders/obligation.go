package reminders

import (
	"time"

	"github.com/google/uuid"

	"github.com/pulsefin/pulse/internal/domain/debts"
	"github.com/pulsefin/pulse/internal/domain/invoices"
	"github.com/pulsefin/pulse/internal/domain/recurring"
)

type Kind string

const (
	KindInvoice   Kind = "invoice"
	KindDebt      Kind = "debt"
	KindRecurring Kind = "recurring"
)

// Obligation — единый снимок платёжного обязательства для проектора и матчера.
// Для фактур и разовых долгов срок лежит в FixedDue; для рекуррентных —
// в DueDay (день месяца).
type Obligation struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Kind   Kind
	Name   string
	Amount float64

	Status    invoices.Status // только фактуры
	Recurring bool
	FixedDue  time.Time
	DueDay    int

	Remaining    float64 // только долги
	HasRemaining bool
}

func FromInvoice(inv invoices.Invoice) Obligation {
	return Obligation{
		ID:       inv.ID,
		UserID:   inv.UserID,
		Kind:     KindInvoice,
		Name:     inv.CardName,
		Amount:   inv.Amount,
		Status:   inv.Status,
		FixedDue: inv.DueDate,
	}
}

func FromDebt(d debts.Debt) Obligation {
	ob := Obligation{
		ID:           d.ID,
		UserID:       d.UserID,
		Kind:         KindDebt,
		Name:         d.Name,
		Amount:       d.DisplayAmount(),
		Remaining:    d.RemainingAmount,
		HasRemaining: true,
	}
	if d.Type == debts.TypeRecurring {
		ob.Recurring = true
		ob.DueDay = d.DueDay
	} else {
		ob.FixedDue = d.SpecificDueDate
	}
	return ob
}

func FromRecurringPayment(p recurring.Payment) Obligation {
	return Obligation{
		ID:        p.ID,
		UserID:    p.UserID,
		Kind:      KindRecurring,
		Name:      p.Name,
		Amount:    p.Amount,
		Recurring: true,
		DueDay:    p.DayOfMonth,
	}
}
