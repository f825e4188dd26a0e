package reminders

import (
	"time"

	"github.com/pulsefin/pulse/internal/domain/invoices"
)

// Project проецирует обязательство на конкретную дату срока относительно ref.
// Чистая функция: второй результат false означает «обязательство не участвует»
// (оплаченная фактура, погашенный долг, выключенный платёж).
//
// Вся датная арифметика идёт по календарным дням: и ref, и результат
// нормализуются к полуночи UTC.
func Project(ob Obligation, ref time.Time) (time.Time, bool) {
	ref = DateOnly(ref)

	switch {
	case ob.Kind == KindInvoice:
		if ob.Status != invoices.StatusOpen && ob.Status != invoices.StatusOverdue {
			return time.Time{}, false
		}
		return DateOnly(ob.FixedDue), true

	case ob.HasRemaining && ob.Remaining <= 0:
		return time.Time{}, false

	case !ob.Recurring:
		// Разовый долг: дата как есть, независимо от ref.
		return DateOnly(ob.FixedDue), true

	default:
		return nextOccurrence(ob.DueDay, ref), true
	}
}

// nextOccurrence — ближайшая дата с данным днём месяца, не раньше ref.
// Если в целевом месяце дней меньше, прижимаем к последнему дню месяца
// (due_day=31 в феврале даёт 28/29 февраля, а не перескок на март).
func nextOccurrence(day int, ref time.Time) time.Time {
	cand := clampedDate(ref.Year(), ref.Month(), day)
	if cand.Before(ref) {
		cand = clampedDate(ref.Year(), ref.Month()+1, day)
	}
	return cand
}

func clampedDate(year int, month time.Month, day int) time.Time {
	// День 0 следующего месяца = последний день текущего.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly отбрасывает время суток: календарная дата в полночь UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
