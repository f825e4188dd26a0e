package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pulsefin/pulse/internal/domain/debts"
	"github.com/pulsefin/pulse/internal/domain/invoices"
	"github.com/pulsefin/pulse/internal/domain/recurring"
	"github.com/pulsefin/pulse/internal/infra/metrics"
)

// Источники каталога обязательств. Каждый класс запрашивается отдельно,
// чтобы сбой одного не валил остальные.
type InvoiceSource interface {
	ListDueBetween(ctx context.Context, from, to time.Time) ([]invoices.Invoice, error)
	ListUserDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]invoices.Invoice, error)
}

type DebtSource interface {
	ListOpen(ctx context.Context) ([]debts.Debt, error)
	ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]debts.Debt, error)
}

type RecurringSource interface {
	ListActive(ctx context.Context) ([]recurring.Payment, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]recurring.Payment, error)
}

// Service — вход ядра напоминаний: плановый запуск рассылки (Run)
// и непрерывная 30-дневная выборка для дашборда (Upcoming).
// Обе дороги ходят через один и тот же проектор дат.
type Service struct {
	log        *slog.Logger
	invoices   InvoiceSource
	debts      DebtSource
	recurring  RecurringSource
	dispatcher *Dispatcher
	horizons   []Horizon
	loc        *time.Location
	now        func() time.Time
}

type Option func(*Service)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	log *slog.Logger,
	inv InvoiceSource,
	dbt DebtSource,
	rec RecurringSource,
	dispatcher *Dispatcher,
	horizons []Horizon,
	loc *time.Location,
	opts ...Option,
) *Service {
	if len(horizons) == 0 {
		horizons = DefaultHorizons()
	}
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		log:        log,
		invoices:   inv,
		debts:      dbt,
		recurring:  rec,
		dispatcher: dispatcher,
		horizons:   horizons,
		loc:        loc,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return DateOnly(s.now().In(s.loc))
}

func (s *Service) maxHorizon() int {
	m := 0
	for _, h := range s.horizons {
		if h.Days > m {
			m = h.Days
		}
	}
	return m
}

// Run — плановый запуск: собрать каталог, спроецировать сроки, сматчить
// горизонты, разослать. Ошибку возвращает только отсутствие конфигурации
// подписи и полный отказ каталога; всё остальное копится в отчёте.
func (s *Service) Run(ctx context.Context) (Report, error) {
	if err := s.dispatcher.Validate(); err != nil {
		return Report{}, err
	}

	start := time.Now()
	defer func() { metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	today := s.today()
	obligations, classErrs := s.collect(ctx, today)
	if len(classErrs) == 3 {
		return Report{}, fmt.Errorf("catalog unavailable: %w", errors.Join(classErrs...))
	}

	var events []Event
	for _, ob := range obligations {
		due, ok := Project(ob, today)
		if !ok {
			continue
		}
		h, ok := MatchHorizon(s.horizons, today, due)
		if !ok {
			continue
		}
		metrics.Matches.WithLabelValues(string(ob.Kind)).Inc()
		events = append(events, Event{
			Obligation: ob,
			Horizon:    h,
			Due:        due,
			Payload:    Compose(ob, h),
		})
	}

	report := s.dispatcher.Dispatch(ctx, events)
	for _, err := range classErrs {
		report.CatalogErrors = append(report.CatalogErrors, err.Error())
	}

	s.log.Info("reminder run finished",
		"events", len(events),
		"sent", report.Sent,
		"transient", report.Transient,
		"pruned", report.Pruned,
		"deduplicated", report.Deduplicated,
		"catalog_errors", len(report.CatalogErrors),
	)
	return report, nil
}

// SendTest шлёт пробное уведомление по всем подпискам пользователя:
// быстрый способ убедиться, что браузерная подписка жива.
func (s *Service) SendTest(ctx context.Context, userID uuid.UUID) (Report, error) {
	return s.dispatcher.SendDirect(ctx, userID, ComposeTest())
}

// collect запрашивает три класса обязательств независимо друг от друга.
func (s *Service) collect(ctx context.Context, today time.Time) ([]Obligation, []error) {
	var (
		out  []Obligation
		errs []error
	)

	// Для фактур окно задаёт SQL; долги и рекуррентные платежи фильтрует
	// матчер после проекции.
	invs, err := s.invoices.ListDueBetween(ctx, today, today.AddDate(0, 0, s.maxHorizon()))
	if err != nil {
		errs = append(errs, fmt.Errorf("invoices: %w", err))
	} else {
		for _, inv := range invs {
			out = append(out, FromInvoice(inv))
		}
	}

	dbts, err := s.debts.ListOpen(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("debts: %w", err))
	} else {
		for _, d := range dbts {
			out = append(out, FromDebt(d))
		}
	}

	recs, err := s.recurring.ListActive(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("recurring payments: %w", err))
	} else {
		for _, p := range recs {
			out = append(out, FromRecurringPayment(p))
		}
	}

	return out, errs
}

// UpcomingPayment — строка дашборда «ближайшие платежи».
type UpcomingPayment struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      Kind      `json:"type"`
	Amount    float64   `json:"amount"`
	DueDate   string    `json:"due_date"`
	DaysUntil int       `json:"days_until"`
	Urgency   string    `json:"urgency"`
}

// Upcoming — непрерывная выборка платежей пользователя со сроком в ближайшие
// days дней (диапазонный предикат поверх того же проектора, что и матчер).
func (s *Service) Upcoming(ctx context.Context, userID uuid.UUID, days int) ([]UpcomingPayment, error) {
	if days <= 0 {
		days = 30
	}
	today := s.today()
	end := today.AddDate(0, 0, days)

	invs, err := s.invoices.ListUserDueBetween(ctx, userID, today, end)
	if err != nil {
		return nil, fmt.Errorf("invoices: %w", err)
	}
	dbts, err := s.debts.ListOpenByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("debts: %w", err)
	}
	recs, err := s.recurring.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("recurring payments: %w", err)
	}

	var obligations []Obligation
	for _, inv := range invs {
		obligations = append(obligations, FromInvoice(inv))
	}
	for _, d := range dbts {
		obligations = append(obligations, FromDebt(d))
	}
	for _, p := range recs {
		obligations = append(obligations, FromRecurringPayment(p))
	}

	var out []UpcomingPayment
	for _, ob := range obligations {
		due, ok := Project(ob, today)
		if !ok || due.Before(today) || due.After(end) {
			continue
		}
		daysUntil := DaysBetween(today, due)
		out = append(out, UpcomingPayment{
			ID:        ob.ID,
			Name:      ob.Name,
			Type:      ob.Kind,
			Amount:    ob.Amount,
			DueDate:   due.Format("2006-01-02"),
			DaysUntil: daysUntil,
			Urgency:   urgency(daysUntil),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate != out[j].DueDate {
			return out[i].DueDate < out[j].DueDate
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Пороги срочности те же, что в цветовой разметке дашборда.
func urgency(daysUntil int) string {
	switch {
	case daysUntil <= 3:
		return "critical"
	case daysUntil <= 7:
		return "warning"
	default:
		return "ok"
	}
}
