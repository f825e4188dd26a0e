package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsefin/pulse/internal/domain/push"
	"github.com/pulsefin/pulse/internal/infra/metrics"
)

// Event — одно сматчившееся обязательство: что, кому и с каким текстом.
type Event struct {
	Obligation Obligation
	Horizon    Horizon
	Due        time.Time
	Payload    Notification
}

// SubscriptionRegistry — часть реестра подписок, нужная диспетчеру.
type SubscriptionRegistry interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]push.Subscription, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type Result struct {
	Success bool   `json:"success"`
	User    string `json:"user"`
	Error   string `json:"error,omitempty"`
	Pruned  bool   `json:"pruned,omitempty"`
}

type Report struct {
	Results       []Result `json:"results"`
	Sent          int      `json:"sent"`
	Transient     int      `json:"transient_failures"`
	Pruned        int      `json:"pruned"`
	Deduplicated  int      `json:"deduplicated"`
	CatalogErrors []string `json:"catalog_errors,omitempty"`
}

// Dispatcher рассылает события по всем подпискам владельца.
// Сбой одной доставки никогда не мешает остальным: каждая доставка —
// независимая задача, итоги собираются в общий отчёт.
type Dispatcher struct {
	log     *slog.Logger
	subs    SubscriptionRegistry
	sender  Sender
	claims  ReminderLog // nil — без кросс-запусковой дедупликации
	workers int
	timeout time.Duration
}

func NewDispatcher(log *slog.Logger, subs SubscriptionRegistry, sender Sender, claims ReminderLog, workers int, timeout time.Duration) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		log:     log,
		subs:    subs,
		sender:  sender,
		claims:  claims,
		workers: workers,
		timeout: timeout,
	}
}

// Validate проверяет конфигурацию подписи до начала рассылки.
func (d *Dispatcher) Validate() error { return d.sender.Validate() }

type deliveryTask struct {
	event   Event
	sub     push.Subscription
	payload []byte
}

func (d *Dispatcher) Dispatch(ctx context.Context, events []Event) Report {
	var report Report

	tasks := d.prepare(ctx, events, &report)
	if len(tasks) == 0 {
		return report
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		queue = make(chan deliveryTask)
	)

	workers := d.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				res := d.deliver(ctx, t)
				mu.Lock()
				report.Results = append(report.Results, res)
				switch {
				case res.Success:
					report.Sent++
				case res.Pruned:
					report.Pruned++
				default:
					report.Transient++
				}
				mu.Unlock()
			}
		}()
	}

	for _, t := range tasks {
		queue <- t
	}
	close(queue)
	wg.Wait()

	return report
}

// SendDirect доставляет одно уведомление по всем подпискам пользователя,
// минуя каталог и журнал идемпотентности. Мёртвые endpoint'ы вычищаются
// точно так же, как при плановой рассылке.
func (d *Dispatcher) SendDirect(ctx context.Context, userID uuid.UUID, n Notification) (Report, error) {
	if err := d.sender.Validate(); err != nil {
		return Report{}, err
	}
	subs, err := d.subs.ListByUser(ctx, userID)
	if err != nil {
		return Report{}, fmt.Errorf("subscriptions lookup: %w", err)
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return Report{}, fmt.Errorf("marshal payload: %w", err)
	}

	var report Report
	for _, sub := range subs {
		res := d.deliver(ctx, deliveryTask{
			event:   Event{Obligation: Obligation{UserID: userID}},
			sub:     sub,
			payload: payload,
		})
		report.Results = append(report.Results, res)
		switch {
		case res.Success:
			report.Sent++
		case res.Pruned:
			report.Pruned++
		default:
			report.Transient++
		}
	}
	return report, nil
}

// prepare группирует события по пользователям, забирает их подписки и
// раскладывает работу на независимые задачи (событие × подписка).
// Пользователь с недоступным реестром пропускается, не прерывая остальных.
func (d *Dispatcher) prepare(ctx context.Context, events []Event, report *Report) []deliveryTask {
	byUser := make(map[uuid.UUID][]Event)
	var order []uuid.UUID
	for _, ev := range events {
		if _, ok := byUser[ev.Obligation.UserID]; !ok {
			order = append(order, ev.Obligation.UserID)
		}
		byUser[ev.Obligation.UserID] = append(byUser[ev.Obligation.UserID], ev)
	}

	var tasks []deliveryTask
	for _, userID := range order {
		subs, err := d.subs.ListByUser(ctx, userID)
		if err != nil {
			d.log.Error("reminders: list subscriptions failed, skipping user",
				"user", userID, "err", err)
			report.Results = append(report.Results, Result{
				Success: false,
				User:    userID.String(),
				Error:   "subscriptions lookup: " + err.Error(),
			})
			report.Transient++
			continue
		}
		if len(subs) == 0 {
			continue
		}

		for _, ev := range byUser[userID] {
			if !d.claim(ctx, ev) {
				report.Deduplicated++
				metrics.Deliveries.WithLabelValues(metrics.ResultDeduplicated).Inc()
				continue
			}
			payload, err := json.Marshal(ev.Payload)
			if err != nil {
				// Payload — плоская структура, сюда попадать некуда.
				d.log.Error("reminders: marshal payload failed", "err", err)
				continue
			}
			for _, sub := range subs {
				tasks = append(tasks, deliveryTask{event: ev, sub: sub, payload: payload})
			}
		}
	}
	return tasks
}

// claim столбит ключ идемпотентности события. Ошибка журнала не блокирует
// отправку: лучше продублировать напоминание, чем молча его потерять.
func (d *Dispatcher) claim(ctx context.Context, ev Event) bool {
	if d.claims == nil {
		return true
	}
	fireDate := ev.Due.AddDate(0, 0, -ev.Horizon.Days)
	fresh, err := d.claims.Claim(ctx, ev.Obligation.UserID, ev.Obligation.ID, ev.Horizon.Days, fireDate)
	if err != nil {
		d.log.Warn("reminders: idempotency claim failed, sending anyway", "err", err)
		return true
	}
	return fresh
}

func (d *Dispatcher) deliver(ctx context.Context, t deliveryTask) Result {
	userID := t.event.Obligation.UserID.String()

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	err := d.sender.Send(sendCtx, t.sub, t.payload)
	cancel()

	switch {
	case err == nil:
		metrics.Deliveries.WithLabelValues(metrics.ResultSent).Inc()
		return Result{Success: true, User: userID}

	case errors.Is(err, ErrEndpointGone):
		if delErr := d.subs.DeleteByID(ctx, t.sub.ID); delErr != nil {
			d.log.Error("reminders: prune dead subscription failed",
				"subscription", t.sub.ID, "err", delErr)
			metrics.Deliveries.WithLabelValues(metrics.ResultTransient).Inc()
			return Result{Success: false, User: userID, Error: err.Error()}
		}
		d.log.Info("reminders: pruned expired subscription",
			"subscription", t.sub.ID, "user", userID)
		metrics.Deliveries.WithLabelValues(metrics.ResultPruned).Inc()
		return Result{Success: false, User: userID, Error: err.Error(), Pruned: true}

	default:
		d.log.Warn("reminders: push delivery failed",
			"subscription", t.sub.ID, "user", userID, "err", err)
		metrics.Deliveries.WithLabelValues(metrics.ResultTransient).Inc()
		return Result{Success: false, User: userID, Error: err.Error()}
	}
}
