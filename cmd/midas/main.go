// Command midas runs the ledger daemon: it migrates the schema, then keeps
// the event and report loops running until interrupted.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/midas-bot/midas/infra"
	infrarepo "github.com/midas-bot/midas/infra/repository"
	"github.com/midas-bot/midas/pkg/config"
	"github.com/midas-bot/midas/pkg/scheduler"
	eventsvc "github.com/midas-bot/midas/pkg/service/event"
	reportsvc "github.com/midas-bot/midas/pkg/service/report"
	txsvc "github.com/midas-bot/midas/pkg/service/transaction"
	usersvc "github.com/midas-bot/midas/pkg/service/user"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil && err != context.Canceled {
		logger.Error("daemon exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}

	if cfg.Env == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}

	db, err := infra.NewDBConnection(cfg.DB.Url, cfg.Env)
	if err != nil {
		return err
	}
	if err := infra.Migrate(db); err != nil {
		return err
	}
	logger.Info("database ready")

	uow := infrarepo.NewUoW(db)
	users := usersvc.New(uow, logger)
	transactions := txsvc.New(uow, logger)
	events := eventsvc.New(uow, logger)
	reports := reportsvc.New(uow, logger)

	sched := scheduler.New(events, transactions, reports, users,
		scheduler.NewLogNotifier(logger), logger,
		scheduler.WithIntervals(cfg.Scheduler.EventInterval, cfg.Scheduler.ReportInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := sched.RunEventLoop(ctx); err != nil && err != context.Canceled {
			logger.Error("event loop stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := sched.RunReportLoop(ctx); err != nil && err != context.Canceled {
			logger.Error("report loop stopped", "error", err)
		}
	}()

	logger.Info("daemon started",
		"event_interval", cfg.Scheduler.EventInterval,
		"report_interval", cfg.Scheduler.ReportInterval,
	)

	<-ctx.Done()
	logger.Info("shutting down")
	wg.Wait()
	return ctx.Err()
}
