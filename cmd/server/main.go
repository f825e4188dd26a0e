package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulsefin/pulse/internal/config"
	"github.com/pulsefin/pulse/internal/domain/debts"
	"github.com/pulsefin/pulse/internal/domain/invoices"
	"github.com/pulsefin/pulse/internal/domain/push"
	"github.com/pulsefin/pulse/internal/domain/recurring"
	"github.com/pulsefin/pulse/internal/infra/db"
	httpx "github.com/pulsefin/pulse/internal/infra/http"
	"github.com/pulsefin/pulse/internal/infra/logger"
	"github.com/pulsefin/pulse/internal/reminders"
	"github.com/pulsefin/pulse/internal/report"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error("invalid timezone, falling back to UTC", "timezone", cfg.App.Timezone, "err", err)
		loc = time.UTC
	}

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	invoiceRepo := invoices.NewRepo(pool)
	debtRepo := debts.NewRepo(pool)
	recurringRepo := recurring.NewRepo(pool)
	pushRepo := push.NewRepo(pool)

	sender := reminders.NewWebPushSender(
		cfg.Push.VAPIDSubject,
		cfg.Push.VAPIDPublicKey,
		cfg.Push.VAPIDPrivateKey,
		cfg.Push.TTLSeconds,
	)
	if err := sender.Validate(); err != nil {
		// Не фатально для процесса: остальные маршруты живут, а запуск
		// рассылки будет отвечать ошибкой конфигурации.
		log.Warn("push sender is not configured", "err", err)
	}

	dispatcher := reminders.NewDispatcher(
		log,
		pushRepo,
		sender,
		reminders.NewPGReminderLog(pool),
		cfg.Reminders.Workers,
		cfg.Reminders.DeliveryTimeout,
	)
	svc := reminders.NewService(
		log,
		invoiceRepo,
		debtRepo,
		recurringRepo,
		dispatcher,
		reminders.HorizonsFromOffsets(cfg.Reminders.Horizons),
		loc,
	)

	remindHandler := reminders.NewHandler(log, svc)
	pushHandler := push.NewHandler(log, pushRepo, cfg.Push.VAPIDPublicKey)
	reportHandler := report.NewHandler(log, svc)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, httpx.Routes{
		ReminderRun:    remindHandler.Run,
		Upcoming:       remindHandler.Upcoming,
		UpcomingReport: reportHandler,
		PushSubscribe:  pushHandler.Subscribe,
		PushVAPIDKey:   pushHandler.PublicKey,
		PushTest:       remindHandler.TestPush,
	})
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
