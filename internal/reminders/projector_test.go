package reminders

import (
	"testing"
	"time"

	"github.com/pulsefin/pulse/internal/domain/invoices"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProjectInvoiceUsesStoredDueDate(t *testing.T) {
	ob := Obligation{
		Kind:     KindInvoice,
		Status:   invoices.StatusOpen,
		FixedDue: date(2024, time.March, 7),
	}
	due, ok := Project(ob, date(2024, time.February, 1))
	if !ok {
		t.Fatalf("open invoice must project")
	}
	if !due.Equal(date(2024, time.March, 7)) {
		t.Fatalf("unexpected due date: %v", due)
	}

	ob.Status = invoices.StatusOverdue
	if _, ok := Project(ob, date(2024, time.April, 1)); !ok {
		t.Fatalf("overdue invoice must project")
	}

	ob.Status = invoices.StatusPaid
	if _, ok := Project(ob, date(2024, time.February, 1)); ok {
		t.Fatalf("paid invoice must not project")
	}
}

func TestProjectSingleDebtVerbatim(t *testing.T) {
	ob := Obligation{
		Kind:         KindDebt,
		FixedDue:     date(2024, time.May, 1),
		Remaining:    300,
		HasRemaining: true,
	}

	for _, ref := range []time.Time{
		date(2023, time.January, 1),
		date(2024, time.April, 30),
		date(2024, time.December, 31),
	} {
		due, ok := Project(ob, ref)
		if !ok {
			t.Fatalf("ref %v: single debt must project", ref)
		}
		if !due.Equal(date(2024, time.May, 1)) {
			t.Fatalf("ref %v: specific date must be returned verbatim, got %v", ref, due)
		}
	}
}

func TestProjectSettledDebtExcluded(t *testing.T) {
	single := Obligation{
		Kind:         KindDebt,
		FixedDue:     date(2024, time.May, 1),
		Remaining:    0,
		HasRemaining: true,
	}
	if _, ok := Project(single, date(2024, time.April, 30)); ok {
		t.Fatalf("settled single debt must not project")
	}

	rec := Obligation{
		Kind:         KindDebt,
		Recurring:    true,
		DueDay:       10,
		Remaining:    -50,
		HasRemaining: true,
	}
	if _, ok := Project(rec, date(2024, time.March, 9)); ok {
		t.Fatalf("settled recurring debt must not project")
	}
}

func TestProjectRecurringAdvancesPastDays(t *testing.T) {
	ob := Obligation{
		Kind:         KindDebt,
		Recurring:    true,
		DueDay:       10,
		Remaining:    600,
		HasRemaining: true,
	}

	due, ok := Project(ob, date(2024, time.March, 9))
	if !ok || !due.Equal(date(2024, time.March, 10)) {
		t.Fatalf("expected 2024-03-10, got %v (ok=%v)", due, ok)
	}

	due, ok = Project(ob, date(2024, time.March, 10))
	if !ok || !due.Equal(date(2024, time.March, 10)) {
		t.Fatalf("the due day itself must not advance, got %v (ok=%v)", due, ok)
	}

	due, ok = Project(ob, date(2024, time.March, 11))
	if !ok || !due.Equal(date(2024, time.April, 10)) {
		t.Fatalf("expected 2024-04-10, got %v (ok=%v)", due, ok)
	}

	// Декабрь переваливает в январь следующего года.
	due, ok = Project(ob, date(2024, time.December, 20))
	if !ok || !due.Equal(date(2025, time.January, 10)) {
		t.Fatalf("expected 2025-01-10, got %v (ok=%v)", due, ok)
	}
}

func TestProjectRecurringClampsToMonthEnd(t *testing.T) {
	ob := Obligation{Kind: KindRecurring, Recurring: true, DueDay: 31}

	due, ok := Project(ob, date(2023, time.February, 10))
	if !ok || !due.Equal(date(2023, time.February, 28)) {
		t.Fatalf("expected clamp to 2023-02-28, got %v (ok=%v)", due, ok)
	}

	due, ok = Project(ob, date(2024, time.February, 10))
	if !ok || !due.Equal(date(2024, time.February, 29)) {
		t.Fatalf("leap year must clamp to 2024-02-29, got %v (ok=%v)", due, ok)
	}

	due, ok = Project(ob, date(2024, time.April, 30))
	if !ok || !due.Equal(date(2024, time.April, 30)) {
		t.Fatalf("clamped day equal to ref must not advance, got %v (ok=%v)", due, ok)
	}
}

// Проекция рекуррентного обязательства всегда лежит в [ref, ref+1мес+1день),
// а день месяца равен due_day с поправкой на прижатие к концу месяца.
func TestProjectRecurringWindowProperty(t *testing.T) {
	refs := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.March, 15),
		date(2023, time.February, 28),
		date(2024, time.December, 31),
	}
	for day := 1; day <= 31; day++ {
		ob := Obligation{Kind: KindRecurring, Recurring: true, DueDay: day}
		for _, ref := range refs {
			due, ok := Project(ob, ref)
			if !ok {
				t.Fatalf("day %d ref %v: must project", day, ref)
			}
			if due.Before(ref) {
				t.Fatalf("day %d ref %v: due %v is in the past", day, ref, due)
			}
			if !due.Before(ref.AddDate(0, 1, 1)) {
				t.Fatalf("day %d ref %v: due %v beyond one month", day, ref, due)
			}
			lastOfMonth := time.Date(due.Year(), due.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
			want := day
			if want > lastOfMonth {
				want = lastOfMonth
			}
			if due.Day() != want {
				t.Fatalf("day %d ref %v: got day-of-month %d, want %d", day, ref, due.Day(), want)
			}
		}
	}
}

func TestProjectNormalizesTimeOfDay(t *testing.T) {
	ob := Obligation{
		Kind:     KindInvoice,
		Status:   invoices.StatusOpen,
		FixedDue: time.Date(2024, time.March, 7, 23, 15, 0, 0, time.FixedZone("BRT", -3*3600)),
	}
	due, ok := Project(ob, time.Date(2024, time.March, 1, 8, 30, 0, 0, time.UTC))
	if !ok {
		t.Fatalf("must project")
	}
	if due.Hour() != 0 || due.Minute() != 0 || due.Location() != time.UTC {
		t.Fatalf("projection must be a bare date, got %v", due)
	}
}
